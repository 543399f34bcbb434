package kzg

import (
	"fmt"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// SampleFr draws a uniformly random scalar field element from rng by
// rejection sampling: read a 32-byte big-endian candidate and retry if it
// falls outside [0, modulus). rng MUST be a cryptographically secure
// source in production (crypto/rand.Reader); tests may wrap a seeded
// math/rand source to get deterministic runs.
func SampleFr(rng io.Reader) (fr.Element, error) {
	modulus := fr.Modulus()
	var buf [32]byte
	for {
		if _, err := io.ReadFull(rng, buf[:]); err != nil {
			return fr.Element{}, fmt.Errorf("kzg: sampling field element: %w", err)
		}
		var candidate big.Int
		candidate.SetBytes(buf[:])
		if candidate.Cmp(modulus) < 0 {
			var z fr.Element
			z.SetBigInt(&candidate)
			return z, nil
		}
	}
}
