package kzg

import (
	"fmt"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"golang.org/x/sync/errgroup"

	"github.com/b-wagn/jack-go/internal/utils"
)

// Setup samples a fresh commitment key supporting messages of the given
// length, drawing all randomness from rng (production callers MUST pass
// crypto/rand.Reader; a seeded source is only safe in tests). Setup is the
// one operation in this package that is not meant to be run by untrusted
// parties: the secret exponent alpha it samples must be destroyed
// afterwards (a structured-reference-string "toxic waste" trapdoor, as in
// any KZG-based scheme).
func Setup(rng io.Reader, messageLength uint64) (*CommitmentKey, error) {
	if messageLength < 1 {
		return nil, fmt.Errorf("kzg: message length must be >= 1")
	}
	domainSize := ecc.NextPowerOfTwo(messageLength + 2)
	if !DomainFits(2 * domainSize) {
		return nil, fmt.Errorf("kzg: message length %d requires a domain larger than the scalar field supports", messageLength)
	}

	domain := NewDomain(messageLength + 2)
	domain2N := NewDomain(2 * domain.Cardinality)
	n := domain.Cardinality

	g1JacGen, g2JacGen, _, _ := bls12381.Generators()

	g1, err := randomG1(rng, &g1JacGen)
	if err != nil {
		return nil, err
	}
	h, err := randomG1(rng, &g1JacGen)
	if err != nil {
		return nil, err
	}
	g2, err := randomG2(rng, &g2JacGen)
	if err != nil {
		return nil, err
	}

	alpha, err := SampleFr(rng)
	if err != nil {
		return nil, fmt.Errorf("kzg: sampling alpha: %w", err)
	}

	u := make([]bls12381.G1Affine, n)
	hatU := make([]bls12381.G1Affine, n)
	currG, currH := g1, h
	u[0].FromJacobian(&currG)
	hatU[0].FromJacobian(&currH)
	var alphaBig big.Int
	alpha.BigInt(&alphaBig)
	for i := uint64(1); i < n; i++ {
		currG.ScalarMultiplication(&currG, &alphaBig)
		currH.ScalarMultiplication(&currH, &alphaBig)
		u[i].FromJacobian(&currG)
		hatU[i].FromJacobian(&currH)
	}

	lf := domain.EvaluateAllLagrangeCoefficients(alpha)
	lagranges := make([]bls12381.G1Affine, 2*n)
	g1Gen0 := u[0]
	hatU1Gen0 := hatU[0]
	for i := uint64(0); i < n; i++ {
		var lfBig big.Int
		lf[i].BigInt(&lfBig)
		var p bls12381.G1Jac
		p.FromAffine(&g1Gen0)
		p.ScalarMultiplication(&p, &lfBig)
		lagranges[i].FromJacobian(&p)
	}
	for i := uint64(0); i < n; i++ {
		var lfBig big.Int
		lf[i].BigInt(&lfBig)
		var p bls12381.G1Jac
		p.FromAffine(&hatU1Gen0)
		p.ScalarMultiplication(&p, &lfBig)
		lagranges[n+i].FromJacobian(&p)
	}

	var rJac bls12381.G2Jac
	rJac.FromAffine(&g2)
	rJac.ScalarMultiplication(&rJac, &alphaBig)
	var r bls12381.G2Affine
	r.FromJacobian(&rJac)

	d := make([]bls12381.G2Affine, messageLength)
	for i := uint64(0); i < messageLength; i++ {
		z := domain.Element(i)
		var exponent fr.Element
		exponent.Sub(&alpha, &z)
		var expBig big.Int
		exponent.BigInt(&expBig)
		var dJac bls12381.G2Jac
		dJac.FromAffine(&g2)
		dJac.ScalarMultiplication(&dJac, &expBig)
		d[i].FromJacobian(&dJac)
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

// randomG1/randomG2 sample a uniformly random group element by
// scalar-multiplying the fixed generator by a random field element, since
// both groups have prime order, rejecting and resampling in the
// negligible-probability event the scalar is zero: base is the standard
// nonzero generator of a prime-order group, so base^s is the identity iff s
// is zero, and Setup is specified to reject an identity g1/g2/h outright.
func randomG1(rng io.Reader, base *bls12381.G1Jac) (bls12381.G1Jac, error) {
	for {
		s, err := SampleFr(rng)
		if err != nil {
			return bls12381.G1Jac{}, err
		}
		if s.IsZero() {
			continue
		}
		var sBig big.Int
		s.BigInt(&sBig)
		var out bls12381.G1Jac
		out.ScalarMultiplication(base, &sBig)
		return out, nil
	}
}

func randomG2(rng io.Reader, base *bls12381.G2Jac) (bls12381.G2Affine, error) {
	for {
		s, err := SampleFr(rng)
		if err != nil {
			return bls12381.G2Affine{}, err
		}
		if s.IsZero() {
			continue
		}
		var sBig big.Int
		s.BigInt(&sBig)
		var outJac bls12381.G2Jac
		outJac.ScalarMultiplication(base, &sBig)
		var out bls12381.G2Affine
		out.FromJacobian(&outJac)
		return out, nil
	}
}

// Commit produces a hiding commitment to m (padded with randomness drawn
// from rng up to the domain size) together with the secret state needed to
// open it later, and a self-opening at the hash-derived challenge z0.
// Production callers MUST pass crypto/rand.Reader.
//
// Panics if z0 happens to land inside the evaluation domain: this occurs
// with probability Domain.Cardinality/|F|, astronomically small for the
// BLS12-381 scalar field, and continuing would let an adversary who also
// controls com_kzg force an opening at an index of their choosing, leaking
// padding that must stay secret.
func Commit(rng io.Reader, ck *CommitmentKey, m []fr.Element) (*Commitment, *State, error) {
	if uint64(len(m)) > ck.MessageLength {
		return nil, nil, fmt.Errorf("kzg: message of length %d exceeds commitment key length %d", len(m), ck.MessageLength)
	}
	dsize := ck.Domain.Cardinality
	evals := make([]fr.Element, 2*dsize)
	copy(evals, m)
	for i := uint64(len(m)); i < 2*dsize; i++ {
		padded, err := SampleFr(rng)
		if err != nil {
			return nil, nil, fmt.Errorf("kzg: sampling padding: %w", err)
		}
		evals[i] = padded
	}
	hatEvals := evals[dsize : 2*dsize]

	comKZG := plainKZGCom(ck, evals[:dsize], hatEvals)

	z0 := GetZ0(&comKZG)
	if ck.Domain.FindInDomain(z0) != -1 {
		panic("kzg: self-opening challenge z0 landed inside the evaluation domain")
	}

	diffsInv := invDiffs(ck.Domain, z0)
	y0 := evaluateOutsideWithInvDiffs(ck.Domain, evals[:dsize], z0, diffsInv)
	hatY0 := evaluateOutsideWithInvDiffs(ck.Domain, hatEvals, z0, diffsInv)

	// The message-half and masking-half witness polynomials are
	// independent; computing them concurrently halves wall-clock time for
	// large message lengths. Each goroutine only ever writes its own half
	// of witnEvals, so there is no data race and no observable reordering
	// of the result.
	witnEvals := make([]fr.Element, 2*dsize)
	var g errgroup.Group
	g.Go(func() error {
		copy(witnEvals[:dsize], witnessEvalsOutsideWithInvDiffs(ck.Domain, evals[:dsize], y0, diffsInv))
		return nil
	})
	g.Go(func() error {
		copy(witnEvals[dsize:], witnessEvalsOutsideWithInvDiffs(ck.Domain, hatEvals, hatY0, diffsInv))
		return nil
	})
	_ = g.Wait()
	v := plainKZGCom(ck, witnEvals[:dsize], witnEvals[dsize:])

	tau0 := Opening{HatY: hatY0, V: v}
	com := &Commitment{ComKZG: comKZG, Y0: y0, Tau0: tau0}
	st := &State{Evals: evals}
	return com, st, nil
}

// VerifyCommitment checks a Commitment's self-opening, i.e. that com was
// honestly formed (opens to com.Y0 at the challenge z0 it derives from
// itself).
func VerifyCommitment(ck *CommitmentKey, com *Commitment) bool {
	z0 := GetZ0(&com.ComKZG)
	return plainKZGVerify(ck, &com.ComKZG, z0, com.Y0, &com.Tau0)
}

// Open produces the opening for position i (0 <= i < MessageLength),
// drawing on State.PrecomputedV if FKPreprocess has already been run, and
// falling back to a direct O(N) witness-polynomial computation otherwise.
func Open(ck *CommitmentKey, st *State, i uint64) (*Opening, bool) {
	if i >= ck.MessageLength {
		return nil, false
	}

	var v bls12381.G1Affine
	if st.PrecomputedV != nil {
		v = st.PrecomputedV[i]
	} else {
		dsize := ck.Domain.Cardinality
		witnMessage := witnessEvalsInside(ck.Domain, st.Evals[:dsize], i)
		witnMasking := witnessEvalsInside(ck.Domain, st.Evals[dsize:2*dsize], i)
		witnEvals := append(append([]fr.Element{}, witnMessage...), witnMasking...)
		v = plainKZGCom(ck, witnEvals[:dsize], witnEvals[dsize:])
	}

	hatY := st.Evals[i+ck.Domain.Cardinality]
	return &Opening{HatY: hatY, V: v}, true
}

// FKPreprocess populates st.PrecomputedV with every opening's witness
// commitment up front, in O(N log N) total, so every subsequent Open call
// is a slice lookup. Call once per State after Commit. Combines the
// message-half and masking-half witness commitments from fk.go's two
// independent all-openings passes.
func FKPreprocess(ck *CommitmentKey, st *State) {
	dsize := ck.Domain.Cardinality

	var piMessage, piMasking []bls12381.G1Affine
	var g errgroup.Group
	g.Go(func() error {
		piMessage = allOpenings(ck.Domain, ck.Domain2N, st.Evals[:dsize], ck.Y)
		return nil
	})
	g.Go(func() error {
		piMasking = allOpenings(ck.Domain, ck.Domain2N, st.Evals[dsize:2*dsize], ck.HatY)
		return nil
	})
	_ = g.Wait()

	v := make([]bls12381.G1Affine, dsize)
	for i := uint64(0); i < dsize; i++ {
		var a, b bls12381.G1Jac
		a.FromAffine(&piMessage[i])
		b.FromAffine(&piMasking[i])
		a.AddAssign(&b)
		v[i].FromJacobian(&a)
	}
	st.PrecomputedV = v
}

// Aggregate folds L openings for a single position i, claimed to evaluate
// to mis[j] under coms[j] respectively, into a single constant-size
// opening via the random-linear-combination challenge chi = GetChi(i, mis,
// coms). Fails if there is nothing to aggregate.
func Aggregate(i uint32, mis []fr.Element, coms []*Commitment, openings []*Opening) (*Opening, bool) {
	if len(mis) < 1 {
		return nil, false
	}
	chi := GetChi(i, mis, coms)
	chiPowers := chiPowersOf(chi, len(mis))

	vs := make([]bls12381.G1Affine, len(openings))
	for j := range openings {
		vs[j] = openings[j].V
	}
	var v bls12381.G1Affine
	if _, err := v.MultiExp(vs, chiPowers, ecc.MultiExpConfig{}); err != nil {
		return nil, false
	}

	var hatY fr.Element
	for j := range openings {
		var term fr.Element
		term.Mul(&openings[j].HatY, &chiPowers[j])
		hatY.Add(&hatY, &term)
	}

	return &Opening{HatY: hatY, V: v}, true
}

// Verify checks an aggregated opening against L commitments and claimed
// values at position i, re-deriving the same chi Aggregate used and
// folding the commitments/values the identical way before running a
// single plainKZGVerifyInside.
func Verify(ck *CommitmentKey, i uint32, mis []fr.Element, coms []*Commitment, opening *Opening) bool {
	if len(mis) < 1 {
		return false
	}
	chi := GetChi(i, mis, coms)
	chiPowers := chiPowersOf(chi, len(mis))

	comKZGs := make([]bls12381.G1Affine, len(coms))
	for j := range coms {
		comKZGs[j] = coms[j].ComKZG
	}
	var com bls12381.G1Affine
	if _, err := com.MultiExp(comKZGs, chiPowers, ecc.MultiExpConfig{}); err != nil {
		return false
	}

	var mi fr.Element
	for j := range mis {
		var term fr.Element
		term.Mul(&mis[j], &chiPowers[j])
		mi.Add(&mi, &term)
	}

	return plainKZGVerifyInside(ck, uint64(i), &com, mi, opening)
}

// plainKZGVerifyInside is plainKZGVerify specialized to z = ck.Domain.Element(i),
// using the precomputed D[i] = g2^(alpha - z_i) in place of computing
// r - g2^z at verification time.
func plainKZGVerifyInside(ck *CommitmentKey, i uint64, comKZG *bls12381.G1Affine, y fr.Element, tau *Opening) bool {
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

	var negV bls12381.G1Affine
	negV.Neg(&tau.V)

	ok, err := bls12381.PairingCheck(
		[]bls12381.G1Affine{lhsLeftAff, negV},
		[]bls12381.G2Affine{ck.G2, ck.D[i]},
	)
	if err != nil {
		return false
	}
	return ok
}

func chiPowersOf(chi fr.Element, n int) []fr.Element {
	return utils.ComputePowers(chi, uint(n))
}
