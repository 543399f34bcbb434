// Package kzg implements a simulation-extractable, hiding, aggregatable
// KZG vector commitment over BLS12-381, together with the
// Feist-Khovratovich (FK) amortized all-openings technique used to make
// per-index opening cost O(log T) after a one-time O(T log T) setup pass.
package kzg

import (
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// CommitmentKey is the public parameters of the vector commitment. It is
// produced once by Setup, is immutable and freely shared thereafter, and is
// the only input every other operation in this package needs besides the
// caller's own commitment/state.
type CommitmentKey struct {
	// MessageLength is the number of slots a commitment can hold.
	MessageLength uint64

	// Domain is the size-N evaluation domain, N = next power of two >=
	// MessageLength+2.
	Domain *Domain

	// Domain2N is the size-2N evaluation domain used by the FK technique's
	// circulant-embedding FFTs. Cardinality = 2 * Domain.Cardinality.
	Domain2N *Domain

	// U[i] = g1^(alpha^i), i = 0..N-1.
	U []bls12381.G1Affine

	// HatU[i] = h^(alpha^i), i = 0..N-1, where h is the independent hiding
	// generator.
	HatU []bls12381.G1Affine

	// Lagranges[i] = g1^(L_i(alpha)) for i < N, = h^(L_i(alpha)) for
	// N <= i < 2N. A single MSM against this table commits to both the
	// message and the masking polynomial at once.
	Lagranges []bls12381.G1Affine

	G2 bls12381.G2Affine

	// R = g2^alpha.
	R bls12381.G2Affine

	// D[i] = g2^(alpha - D.Element(i)), for i = 0..MessageLength-1.
	D []bls12381.G2Affine

	// Y and HatY are the FK precomputations over U and HatU respectively:
	// the forward FFT, at a domain of size 2N, of the reversed-and-padded
	// power sequence. See precomputeY in fk.go.
	Y    []bls12381.G1Affine
	HatY []bls12381.G1Affine
}

// Prepared returns the key's precomputed per-index pairing lines D, i.e.
// the slice an Open/Verify pair against position i reuses instead of
// recomputing g2^(alpha - D.Element(i)). Its length is MessageLength, so
// callers can report a key's size from it without recomputing anything.
func (ck *CommitmentKey) Prepared() []bls12381.G2Affine {
	return ck.D
}

// Opening is a KZG opening: a claimed value for the masking polynomial and
// a commitment to the witness polynomial.
type Opening struct {
	// HatY is the masking polynomial's value at the opened position.
	HatY fr.Element

	// V is a commitment to the (combined message+masking) witness
	// polynomial.
	V bls12381.G1Affine
}

// Commitment is a hiding KZG commitment, together with a self-opening at a
// challenge point z0 derived from the commitment itself. The self-opening
// is what makes the scheme simulation-extractable: a simulator can extract
// the committed vector from an adversary who only ever sees openings at
// hash-derived points.
type Commitment struct {
	// ComKZG = g1^f(alpha) + h^r(alpha), the combined commitment to the
	// message polynomial f and the masking polynomial r.
	ComKZG bls12381.G1Affine

	// Y0 = f(z0), where z0 = GetZ0(ComKZG).
	Y0 fr.Element

	// Tau0 is the opening proof for Y0 at z0.
	Tau0 Opening
}

// State is the secret state produced alongside a Commitment: the
// evaluation-form representation of both the message and masking
// polynomials, plus an optional cache of every opening, populated by
// FKPreprocess.
type State struct {
	// Evals[0:N] is the message polynomial in evaluation form (the
	// committed message in the first MessageLength slots, random padding
	// in the rest, which MUST be kept secret). Evals[N:2N] is the masking
	// polynomial in evaluation form.
	Evals []fr.Element

	// PrecomputedV[i], if non-nil, is the group-element half of the
	// opening at position i, as computed by FKPreprocess from fk.go's
	// allOpenings. nil until FKPreprocess is called.
	PrecomputedV []bls12381.G1Affine
}
