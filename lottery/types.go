// Package lottery implements Jack, a lottery scheme reduced from a
// simulation-extractable, aggregatable vector commitment: each user commits
// to a secret vector of per-lottery entries, and for each lottery a
// hash-derived challenge decides whether they won with probability 1/k.
package lottery

import (
	"io"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/b-wagn/jack-go/internal/kzg"
)

// Seed is a lottery seed for a single lottery index, sampled by an external
// randomness beacon.
type Seed [32]byte

// Parameters are a lottery's public system parameters.
type Parameters struct {
	CK *kzg.CommitmentKey

	// NumLotteries is T, the number of sequential lotteries the vector
	// commitment's message length supports.
	NumLotteries uint64

	// K is the winning-probability divisor, a power of two.
	K uint64

	// LogK is log2(K), precomputed so the challenge derivation doesn't
	// recompute it per call.
	LogK uint
}

// PublicKey commits to a user's secret per-lottery entries.
type PublicKey struct {
	Com kzg.Commitment
}

// SecretKey holds a user's per-lottery entries, each sampled uniformly from
// {0, ..., K-1}, and the vector commitment state needed to open them.
type SecretKey struct {
	V     []fr.Element
	State kzg.State
}

// Ticket proves participation in a lottery; only Verify enforces the
// winning relation against the committed entry, so a winning and a
// non-winning ticket look identical at this layer.
type Ticket struct {
	Opening kzg.Opening
}

// LotteryScheme models a lottery scheme generically over its own
// parameter/key/ticket/seed types, so a scheme not built on this package's
// vector commitment (e.g. a signature-and-hash based one) could implement
// the same method set without depending on Jack's concrete types.
type LotteryScheme[P, PK, SK, T, S any] interface {
	Setup(rng io.Reader, numLotteries, k uint64) (P, bool)
	Gen(rng io.Reader, par P) (PK, SK)
	VerifyKey(par P, pk PK) bool
	SampleSeed(rng io.Reader, par P, i uint32) S
	Participate(par P, i uint32, lseed S, pid uint32, sk SK, pk PK) bool
	GetTicket(par P, i uint32, lseed S, pid uint32, sk SK, pk PK) (T, bool)
	Aggregate(par P, i uint32, lseed S, pids []uint32, pks []PK, tickets []T) (T, bool)
	Verify(par P, i uint32, lseed S, pids []uint32, pks []PK, ticket T) bool
}
