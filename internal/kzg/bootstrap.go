package kzg

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// BootstrapFromMonomialSRS reconstructs a full CommitmentKey from a
// monomial-basis powers-of-tau transcript (u, hatU, g2, r = g2^alpha)
// produced by an external trusted-setup ceremony, without ever learning
// alpha itself:
//
//   - the Lagrange basis is recovered by an inverse FFT in the exponent of
//     u/hatU, since over a roots-of-unity domain L_i(X) = (1/N) *
//     sum_j omega^{-ij} X^j, so L_i(alpha) is exactly the i-th output of
//     IFFT_N applied to the power sequence (alpha^j)_j;
//   - each D[i] = g2^(alpha - z_i) is recovered as r - g2^z_i, needing only
//     g2 and r.
func BootstrapFromMonomialSRS(messageLength uint64, u, hatU []bls12381.G1Affine, g2, r bls12381.G2Affine) (*CommitmentKey, error) {
	if !DomainFits(2 * ecc.NextPowerOfTwo(messageLength+2)) {
		return nil, fmt.Errorf("kzg: bootstrap: message length %d requires a domain larger than the scalar field supports", messageLength)
	}
	domain := NewDomain(messageLength + 2)
	n := domain.Cardinality
	if uint64(len(u)) != n || uint64(len(hatU)) != n {
		return nil, fmt.Errorf("kzg: bootstrap: expected %d monomial powers, got u=%d hatU=%d", n, len(u), len(hatU))
	}
	domain2N := NewDomain(2 * n)

	lagU := jacToAffine(groupFFT(domain, affineToJac(u), true))
	lagHatU := jacToAffine(groupFFT(domain, affineToJac(hatU), true))
	lagranges := make([]bls12381.G1Affine, 2*n)
	copy(lagranges[:n], lagU)
	copy(lagranges[n:], lagHatU)

	var rJac bls12381.G2Jac
	rJac.FromAffine(&r)

	d := make([]bls12381.G2Affine, messageLength)
	for i := uint64(0); i < messageLength; i++ {
		z := domain.Element(i)
		var zBig big.Int
		z.BigInt(&zBig)

		var zG2 bls12381.G2Jac
		zG2.FromAffine(&g2)
		zG2.ScalarMultiplication(&zG2, &zBig)

		diff := rJac
		diff.SubAssign(&zG2)
		d[i].FromJacobian(&diff)
	}

	y := precomputeY(domain2N, u)
	hatY := precomputeY(domain2N, hatU)

	return &CommitmentKey{
		MessageLength: messageLength,
		Domain:        domain,
		Domain2N:      domain2N,
		U:             u,
		HatU:          hatU,
		Lagranges:     lagranges,
		G2:            g2,
		R:             r,
		D:             d,
		Y:             y,
		HatY:          hatY,
	}, nil
}
