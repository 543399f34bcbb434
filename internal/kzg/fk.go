package kzg

import (
	"math/big"
	"math/bits"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// This file implements the Feist-Khovratovich (FK) amortized all-openings
// technique: given a commitment key's SRS powers, precomputeY folds the
// one-time O(T log T) setup cost into CommitmentKey.Y/HatY; allOpenings
// then recovers every per-index opening witness in O(T log T) total (so
// O(log T) amortized) instead of T separate O(T) witness computations.
//
// The derivation: for f(X) = sum_j c_j X^j of degree < N, the witness
// commitment at the i-th domain point w^i is pi_i = g^{q_i(alpha)} where
// q_i(X) = (f(X)-f(w^i))/(X-w^i). Writing h_l = sum_{j=l+1}^{N-1} c_j *
// s_{j-1-l} (s_k = g^{alpha^k} the SRS powers), one checks pi_i =
// sum_l h_l * (w^i)^l, i.e. pi is the forward FFT of the group-valued
// vector h. h itself is a linear correlation of c (shifted) against s,
// which is computed as a size-2N circular convolution of the zero-padded
// [0, c_1, ..., c_{N-1}] with the reversed, zero-padded s: FFT both operands
// (the reversed s's FFT is exactly what precomputeY caches), multiply
// pointwise, inverse-FFT, and keep outputs N..2N-1, which are h_0..h_{N-1}.

// groupBitReverse permutes a in place according to the bit-reversal
// permutation of len(a), which must be a power of two. Mirrors
// utils.BitReverse, specialized to G1Jac since that package stays
// dependency-free of curve types.
func groupBitReverse(a []bls12381.G1Jac) {
	n := uint64(len(a))
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

// groupFFT is domain.fft generalized to group elements: the butterfly's
// field multiplication by a twiddle factor becomes a scalar multiplication
// of the group element by that twiddle.
func groupFFT(d *Domain, vals []bls12381.G1Jac, inverse bool) []bls12381.G1Jac {
	n := uint64(len(vals))
	if n != d.Cardinality {
		panic("kzg: group FFT input length must equal domain cardinality")
	}
	out := make([]bls12381.G1Jac, n)
	copy(out, vals)
	if n <= 1 {
		return out
	}
	groupBitReverse(out)

	twiddles := d.Roots
	if inverse {
		twiddles = d.PreComputedInverses
	}

	for size := uint64(2); size <= n; size <<= 1 {
		halfSize := size / 2
		stride := n / size
		for start := uint64(0); start < n; start += size {
			for k := uint64(0); k < halfSize; k++ {
				w := twiddles[k*stride]
				var wBig big.Int
				w.BigInt(&wBig)

				var t bls12381.G1Jac
				t.ScalarMultiplication(&out[start+k+halfSize], &wBig)

				u := out[start+k]
				out[start+k] = u
				out[start+k].AddAssign(&t)

				out[start+k+halfSize] = u
				out[start+k+halfSize].SubAssign(&t)
			}
		}
	}

	if inverse {
		var cardInvBig big.Int
		d.CardinalityInv.BigInt(&cardInvBig)
		for i := range out {
			out[i].ScalarMultiplication(&out[i], &cardInvBig)
		}
	}
	return out
}

// affineToJac converts a slice of affine points to Jacobian, the
// representation groupFFT works in (cheap adds/doubles without repeated
// inversion).
func affineToJac(a []bls12381.G1Affine) []bls12381.G1Jac {
	out := make([]bls12381.G1Jac, len(a))
	for i := range a {
		out[i].FromAffine(&a[i])
	}
	return out
}

func jacToAffine(a []bls12381.G1Jac) []bls12381.G1Affine {
	out := make([]bls12381.G1Affine, len(a))
	for i := range a {
		out[i].FromJacobian(&a[i])
	}
	return out
}

// precomputeY builds the setup-time FK cache for one SRS power table: the
// size-2N forward FFT of the reversed-and-zero-padded SRS powers
// [s_{N-1}, ..., s_0, 0, ..., 0].
func precomputeY(domain2N *Domain, srs []bls12381.G1Affine) []bls12381.G1Affine {
	n := len(srs)
	padded := make([]bls12381.G1Jac, 2*n)
	for i := 0; i < n; i++ {
		padded[i].FromAffine(&srs[n-1-i])
	}
	// padded[n:2n] stays the Jacobian zero value (point at infinity).
	y := groupFFT(domain2N, padded, false)
	return jacToAffine(y)
}

// allOpenings recovers every witness commitment g^{q_i(alpha)}, i =
// 0..N-1, for the polynomial given in evaluation form by evals, using the
// setup-time cache y = precomputeY(domain2N, srs).
func allOpenings(domain, domain2N *Domain, evals []fr.Element, y []bls12381.G1Affine) []bls12381.G1Affine {
	n := domain.Cardinality

	coeffs := domain.IFFT(evals)

	// c' = [0, c_1, c_2, ..., c_{N-1}], zero-padded to length 2N.
	cPadded := make([]fr.Element, 2*n)
	for j := uint64(1); j < n; j++ {
		cPadded[j] = coeffs[j]
	}

	cFFT := domain2N.FFT(cPadded)

	yJac := affineToJac(y)
	product := make([]bls12381.G1Jac, 2*n)
	for k := range product {
		var scalar big.Int
		cFFT[k].BigInt(&scalar)
		product[k].ScalarMultiplication(&yJac[k], &scalar)
	}

	hConv := groupFFT(domain2N, product, true)

	// hConv[N+l] = sum_{j=l+1}^{N-1} c_j * s_{j-1-l} = h_l for l = 0..N-1.
	h := make([]bls12381.G1Jac, n)
	for l := uint64(0); l < n; l++ {
		h[l] = hConv[n+l]
	}

	pi := groupFFT(domain, h, false)
	return jacToAffine(pi)
}
