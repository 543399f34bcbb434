package lottery

import (
	"crypto/rand"
	"io"
	"math/big"
	"math/bits"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/b-wagn/jack-go/internal/kzg"
	"github.com/b-wagn/jack-go/internal/utils"
)

// Jack is the lottery scheme reduced from the simulation-extractable KZG
// vector commitment.
type Jack struct{}

var _ LotteryScheme[Parameters, PublicKey, SecretKey, Ticket, Seed] = Jack{}

// Setup builds system parameters for numLotteries sequential lotteries with
// winning probability 1/k. Fails if k is not a power of two, or log2(k)
// exceeds 256, or the underlying vector commitment setup fails.
func (Jack) Setup(rng io.Reader, numLotteries, k uint64) (Parameters, bool) {
	if !utils.IsPowerOfTwo(k) {
		return Parameters{}, false
	}
	logK := uint(bits.TrailingZeros64(k))
	if logK > 256 {
		return Parameters{}, false
	}
	ck, err := kzg.Setup(rng, numLotteries)
	if err != nil {
		return Parameters{}, false
	}
	return Parameters{CK: ck, NumLotteries: numLotteries, K: k, LogK: logK}, true
}

// Gen samples a fresh secret vector with entries uniform in {0,...,K-1} and
// commits to it.
func (Jack) Gen(rng io.Reader, par Parameters) (PublicKey, SecretKey) {
	v := randomEntries(rng, par.K, par.NumLotteries)
	com, st, err := kzg.Commit(rng, par.CK, v)
	if err != nil {
		panic("lottery: commit failed during key generation: " + err.Error())
	}
	return PublicKey{Com: *com}, SecretKey{V: v, State: *st}
}

// VerifyKey checks that pk is a well-formed commitment.
func (Jack) VerifyKey(par Parameters, pk PublicKey) bool {
	return kzg.VerifyCommitment(par.CK, &pk.Com)
}

// SampleSeed draws 32 fresh random bytes for lottery i. In production this
// role is played by an external randomness beacon; this implementation is
// only suitable for tests.
func (Jack) SampleSeed(rng io.Reader, _ Parameters, _ uint32) Seed {
	var s Seed
	if _, err := io.ReadFull(rng, s[:]); err != nil {
		panic("lottery: failed to sample lottery seed: " + err.Error())
	}
	return s
}

// Participate decides, deterministically and locally, whether sk won
// lottery i under lseed: it did iff sk.V[i] equals the hash-derived
// challenge. i out of range is always a loss.
func (Jack) Participate(par Parameters, i uint32, lseed Seed, pid uint32, sk SecretKey, pk PublicKey) bool {
	if uint64(i) >= uint64(len(sk.V)) {
		return false
	}
	x := getChallenge(par.LogK, pk, pid, i, lseed)
	return sk.V[i].Equal(&x)
}

// GetTicket produces the opening that, together with the committed value,
// proves win or loss for lottery i. Whether it is checked for winning or
// losing happens only at Verify.
func (Jack) GetTicket(par Parameters, i uint32, _ Seed, _ uint32, sk SecretKey, _ PublicKey) (Ticket, bool) {
	tau, ok := kzg.Open(par.CK, &sk.State, uint64(i))
	if !ok {
		return Ticket{}, false
	}
	return Ticket{Opening: *tau}, true
}

// Aggregate folds L tickets for the same lottery i into one constant-size
// ticket. Fails if pids/pks/tickets disagree in length or are empty.
func (Jack) Aggregate(par Parameters, i uint32, lseed Seed, pids []uint32, pks []PublicKey, tickets []Ticket) (Ticket, bool) {
	if len(pids) == 0 || len(pids) != len(pks) || len(pids) != len(tickets) {
		return Ticket{}, false
	}
	xs := make([]fr.Element, len(pids))
	coms := make([]*kzg.Commitment, len(pids))
	openings := make([]*kzg.Opening, len(pids))
	for j := range pids {
		xs[j] = getChallenge(par.LogK, pks[j], pids[j], i, lseed)
		coms[j] = &pks[j].Com
		openings[j] = &tickets[j].Opening
	}

	agg, ok := kzg.Aggregate(i, xs, coms, openings)
	if !ok {
		return Ticket{}, false
	}
	return Ticket{Opening: *agg}, true
}

// Verify checks an (aggregate or single) ticket for lottery i against the
// given pids/pks, first confirming every public key is well-formed and
// then delegating the winning-relation check to the vector commitment.
func (Jack) Verify(par Parameters, i uint32, lseed Seed, pids []uint32, pks []PublicKey, ticket Ticket) bool {
	if len(pids) == 0 || len(pids) != len(pks) {
		return false
	}
	xs := make([]fr.Element, len(pids))
	coms := make([]*kzg.Commitment, len(pids))
	for j := range pids {
		if !kzg.VerifyCommitment(par.CK, &pks[j].Com) {
			return false
		}
		xs[j] = getChallenge(par.LogK, pks[j], pids[j], i, lseed)
		coms[j] = &pks[j].Com
	}
	return kzg.Verify(par.CK, i, xs, coms, &ticket.Opening)
}

// randomEntries samples n field elements uniform in {0, ..., k-1}.
func randomEntries(rng io.Reader, k, n uint64) []fr.Element {
	out := make([]fr.Element, n)
	maxBig := new(big.Int).SetUint64(k)
	for i := range out {
		r, err := rand.Int(rng, maxBig)
		if err != nil {
			panic("lottery: failed to sample secret entry: " + err.Error())
		}
		out[i].SetBigInt(r)
	}
	return out
}
