package kzg

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/stretchr/testify/require"
)

// naiveCommit MSMs the monomial srs[:len(coeffs)] against a polynomial in
// coefficient form directly, independent of allOpenings' circulant-embedding
// FFT path.
func naiveCommit(t *testing.T, srs []bls12381.G1Affine, coeffs []fr.Element) bls12381.G1Affine {
	t.Helper()
	var out bls12381.G1Affine
	_, err := out.MultiExp(srs[:len(coeffs)], coeffs, ecc.MultiExpConfig{})
	require.NoError(t, err)
	return out
}

func TestAllOpeningsMatchesDirectWitness(t *testing.T) {
	ck, err := Setup(rand.Reader, 6)
	require.NoError(t, err)

	n := ck.Domain.Cardinality
	message := make([]fr.Element, n)
	for i := range message {
		_, err := message[i].SetRandom()
		require.NoError(t, err)
	}

	allPi := allOpenings(ck.Domain, ck.Domain2N, message, ck.Y)
	require.Len(t, allPi, int(n))

	for i := uint64(0); i < n; i++ {
		witnEvals := witnessEvalsInside(ck.Domain, message, i)
		direct := naiveCommit(t, ck.U, ck.Domain.IFFT(witnEvals))
		require.True(t, direct.Equal(&allPi[i]), "mismatch at index %d", i)
	}
}

func TestAllOpeningsOnMaskingPolynomial(t *testing.T) {
	ck, err := Setup(rand.Reader, 4)
	require.NoError(t, err)

	n := ck.Domain.Cardinality
	masking := make([]fr.Element, n)
	for i := range masking {
		_, err := masking[i].SetRandom()
		require.NoError(t, err)
	}

	allPi := allOpenings(ck.Domain, ck.Domain2N, masking, ck.HatY)
	for i := uint64(0); i < n; i++ {
		witnEvals := witnessEvalsInside(ck.Domain, masking, i)
		direct := naiveCommit(t, ck.HatU, ck.Domain.IFFT(witnEvals))
		require.True(t, direct.Equal(&allPi[i]), "mismatch at index %d", i)
	}
}

func TestFKPreprocessMatchesDirectOpen(t *testing.T) {
	ck, err := Setup(rand.Reader, 6)
	require.NoError(t, err)

	m := make([]fr.Element, 6)
	for i := range m {
		m[i].SetUint64(uint64(i) + 1)
	}

	_, st, err := Commit(rand.Reader, ck, m)
	require.NoError(t, err)

	direct := make([]*Opening, ck.MessageLength)
	for i := uint64(0); i < ck.MessageLength; i++ {
		tau, ok := Open(ck, st, i)
		require.True(t, ok)
		direct[i] = tau
	}

	FKPreprocess(ck, st)

	for i := uint64(0); i < ck.MessageLength; i++ {
		preprocessed, ok := Open(ck, st, i)
		require.True(t, ok)
		require.True(t, direct[i].V.Equal(&preprocessed.V), "V mismatch at index %d", i)
		require.True(t, direct[i].HatY.Equal(&preprocessed.HatY), "HatY mismatch at index %d", i)
	}
}

func TestGroupFFTRoundTrip(t *testing.T) {
	domain := NewDomain(8)
	_, _, g1Aff, _ := bls12381.Generators()

	vals := make([]bls12381.G1Jac, domain.Cardinality)
	for i := range vals {
		var s fr.Element
		_, err := s.SetRandom()
		require.NoError(t, err)
		var sBig big.Int
		s.BigInt(&sBig)
		var p bls12381.G1Jac
		p.FromAffine(&g1Aff)
		p.ScalarMultiplication(&p, &sBig)
		vals[i] = p
	}

	freq := groupFFT(domain, vals, false)
	back := groupFFT(domain, freq, true)

	for i := range vals {
		require.True(t, vals[i].Equal(&back[i]), "round-trip mismatch at index %d", i)
	}
}
