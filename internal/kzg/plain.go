package kzg

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// plainKZGCom computes a commitment to a pair of evaluation-form polynomials
// (the message polynomial and the masking polynomial) via one MSM of their
// concatenated evaluations against the whole Lagranges table (the g1-based
// half followed by the h-based half).
func plainKZGCom(ck *CommitmentKey, evals, hatEvals []fr.Element) bls12381.G1Affine {
	n := int(ck.Domain.Cardinality)
	scalars := make([]fr.Element, 0, 2*n)
	scalars = append(scalars, evals...)
	scalars = append(scalars, hatEvals...)

	var out bls12381.G1Affine
	if _, err := out.MultiExp(ck.Lagranges[:2*n], scalars, ecc.MultiExpConfig{}); err != nil {
		panic("kzg: plainKZGCom: MSM failed: " + err.Error())
	}
	return out
}

// plainKZGVerify checks e(comKZG - g1^y - hatG1^hatY, g2) == e(tau.V, r - g2^z),
// i.e. that comKZG opens to y (with masking value hatY) at z via witness
// commitment tau.V.
func plainKZGVerify(ck *CommitmentKey, comKZG *bls12381.G1Affine, z, y fr.Element, tau *Opening) bool {
	var lhsLeft bls12381.G1Jac
	lhsLeft.FromAffine(comKZG)

	var yBig, hatYBig big.Int
	y.BigInt(&yBig)
	tau.HatY.BigInt(&hatYBig)

	var gY, hatGHatY bls12381.G1Jac
	gY.FromAffine(&ck.U[0])
	gY.ScalarMultiplication(&gY, &yBig)
	hatGHatY.FromAffine(&ck.HatU[0])
	hatGHatY.ScalarMultiplication(&hatGHatY, &hatYBig)

	lhsLeft.SubAssign(&gY)
	lhsLeft.SubAssign(&hatGHatY)

	var lhsLeftAff bls12381.G1Affine
	lhsLeftAff.FromJacobian(&lhsLeft)

	var zBig big.Int
	z.BigInt(&zBig)
	var gZ bls12381.G2Jac
	gZ.FromAffine(&ck.G2)
	gZ.ScalarMultiplication(&gZ, &zBig)

	var rhsRight bls12381.G2Jac
	rhsRight.FromAffine(&ck.R)
	rhsRight.SubAssign(&gZ)
	var rhsRightAff bls12381.G2Affine
	rhsRightAff.FromJacobian(&rhsRight)

	var negV bls12381.G1Affine
	negV.Neg(&tau.V)

	// e(lhsLeft, g2) * e(-v, rhsRight) == 1  <=>  e(lhsLeft, g2) == e(v, rhsRight)
	ok, err := bls12381.PairingCheck(
		[]bls12381.G1Affine{lhsLeftAff, negV},
		[]bls12381.G2Affine{ck.G2, rhsRightAff},
	)
	if err != nil {
		return false
	}
	return ok
}

// invDiffs returns, for a point z not assumed to be in the domain, the batch
// inverse of (domain.Element(i) - z) for every i. Shared by the
// witness/evaluation helpers below so they only pay for one batch inversion.
func invDiffs(domain *Domain, z fr.Element) []fr.Element {
	n := domain.Cardinality
	denoms := make([]fr.Element, n)
	for i := uint64(0); i < n; i++ {
		denoms[i].Sub(&domain.Roots[i], &z)
	}
	return fr.BatchInvert(denoms)
}

// evaluateOutside evaluates the polynomial given in evaluation form by evals
// over domain at a point z assumed to be outside the domain, using the
// barycentric formula
//
//	f(z) = (z^|D|-1)/|D| * sum_i evals[i] * w^i/(z-w^i).
func evaluateOutside(domain *Domain, evals []fr.Element, z fr.Element) fr.Element {
	return evaluateOutsideWithInvDiffs(domain, evals, z, invDiffs(domain, z))
}

// evaluateOutsideWithInvDiffs is evaluateOutside given a precomputed
// invDiffs(domain, z), so callers that also need witnessEvalsOutsideWithInvDiffs
// at the same z only pay for one batch inversion.
func evaluateOutsideWithInvDiffs(domain *Domain, evals []fr.Element, z fr.Element, diffsInv []fr.Element) fr.Element {
	nom := domain.VanishingPolyEval(z)
	var sizeField fr.Element
	sizeField.SetUint64(domain.Cardinality)
	var factor fr.Element
	factor.Div(&nom, &sizeField)

	var sum fr.Element
	for i := uint64(0); i < domain.Cardinality; i++ {
		// w^i/(z-w^i) = -w^i * diffsInv[i], since diffsInv[i] = 1/(w^i-z).
		var term fr.Element
		term.Mul(&domain.Roots[i], &diffsInv[i])
		term.Mul(&term, &evals[i])
		sum.Sub(&sum, &term)
	}
	sum.Mul(&sum, &factor)
	return sum
}

// witnessEvalsOutside computes the evaluation form of (f - f(z))/(X - z) for
// z outside the domain, given f in evaluation form and fz = f(z).
func witnessEvalsOutside(domain *Domain, evals []fr.Element, z, fz fr.Element) []fr.Element {
	return witnessEvalsOutsideWithInvDiffs(domain, evals, fz, invDiffs(domain, z))
}

// witnessEvalsOutsideWithInvDiffs is witnessEvalsOutside given a precomputed
// invDiffs(domain, z).
func witnessEvalsOutsideWithInvDiffs(domain *Domain, evals []fr.Element, fz fr.Element, diffsInv []fr.Element) []fr.Element {
	n := domain.Cardinality
	out := make([]fr.Element, n)
	for i := uint64(0); i < n; i++ {
		var num fr.Element
		num.Sub(&evals[i], &fz)
		out[i].Mul(&num, &diffsInv[i])
	}
	return out
}

// witnessEvalsInside computes the evaluation form of (f - f(w_i))/(X - w_i)
// for the i-th domain element w_i, given f in evaluation form. Unlike
// witnessEvalsOutside, the i-th output entry needs the special-case formula
// from https://dankradfeist.de/ethereum/2021/06/18/pcs-multiproofs.html since
// the naive quotient is 0/0 there.
func witnessEvalsInside(domain *Domain, evals []fr.Element, i uint64) []fr.Element {
	n := domain.Cardinality
	fxi := evals[i]
	xi := domain.Roots[i]

	nums := make([]fr.Element, n)
	denoms := make([]fr.Element, n)
	one := fr.One()
	for j := uint64(0); j < n; j++ {
		nums[j].Sub(&evals[j], &fxi)
		if j != i {
			denoms[j].Sub(&domain.Roots[j], &xi)
		} else {
			denoms[j] = one
		}
	}
	denoms = fr.BatchInvert(denoms)

	out := make([]fr.Element, n)
	for j := uint64(0); j < n; j++ {
		out[j].Mul(&nums[j], &denoms[j])
	}

	var sum fr.Element
	for j := uint64(0); j < n; j++ {
		if j == i {
			continue
		}
		var term fr.Element
		term.Neg(&denoms[j])
		term.Mul(&term, &nums[j])

		exponent := (int64(j) - int64(i) + int64(n)) % int64(n)
		term.Mul(&term, &domain.Roots[uint64(exponent)])
		sum.Add(&sum, &term)
	}
	out[i] = sum
	return out
}
