// Package utils holds small helpers shared across the kzg and lottery
// packages: bit-reversal permutations, power-of-two checks, and power
// sequences of a field element. Imports nothing from this module (only
// gnark-crypto's scalar field), so it can be imported from anywhere in the
// module without creating cycles.
package utils

import (
	"math/bits"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// IsPowerOfTwo reports whether n is a power of two. Zero is not.
func IsPowerOfTwo(n uint64) bool {
	return n != 0 && n&(n-1) == 0
}

// BitReverse permutes a in place according to the bit-reversal permutation
// of len(a), which must be a power of two.
func BitReverse(a []fr.Element) {
	n := uint64(len(a))
	if !IsPowerOfTwo(n) {
		panic("BitReverse: length must be a power of two")
	}
	if n <= 1 {
		return
	}
	shift := 64 - bits.Len64(n-1)
	for i := uint64(0); i < n; i++ {
		j := bits.Reverse64(i) >> shift
		if i < j {
			a[i], a[j] = a[j], a[i]
		}
	}
}

// ComputePowers returns [1, x, x^2, ..., x^(n-1)].
func ComputePowers(x fr.Element, n uint) []fr.Element {
	powers := make([]fr.Element, n)
	if n == 0 {
		return powers
	}
	powers[0].SetOne()
	for i := uint(1); i < n; i++ {
		powers[i].Mul(&powers[i-1], &x)
	}
	return powers
}
