package lottery

import (
	"crypto/rand"
	mrand "math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/b-wagn/jack-go/internal/kzg"
)

func TestSetupRejectsNonPowerOfTwoK(t *testing.T) {
	_, ok := Jack{}.Setup(rand.Reader, 14, 3)
	require.False(t, ok)
}

func TestSetupRejectsZeroK(t *testing.T) {
	_, ok := Jack{}.Setup(rand.Reader, 14, 0)
	require.False(t, ok)
}

func TestKeyVerify(t *testing.T) {
	par, ok := Jack{}.Setup(rand.Reader, 14, 512)
	require.True(t, ok)

	for run := 0; run < 5; run++ {
		pk, _ := Jack{}.Gen(rand.Reader, par)
		require.True(t, Jack{}.VerifyKey(par, pk))
	}
}

func TestAlwaysWinningAtKEqualsOne(t *testing.T) {
	const numLotteries = 14
	par, ok := Jack{}.Setup(rand.Reader, numLotteries, 1)
	require.True(t, ok)

	pk0, sk0 := Jack{}.Gen(rand.Reader, par)
	pk1, sk1 := Jack{}.Gen(rand.Reader, par)
	pids := []uint32{0, 1}
	pks := []PublicKey{pk0, pk1}

	for i := uint32(0); i < numLotteries; i++ {
		lseed := Jack{}.SampleSeed(rand.Reader, par, i)

		require.True(t, Jack{}.Participate(par, i, lseed, pids[0], sk0, pk0))
		require.True(t, Jack{}.Participate(par, i, lseed, pids[1], sk1, pk1))

		ticket0, ok := Jack{}.GetTicket(par, i, lseed, pids[0], sk0, pk0)
		require.True(t, ok)
		ticket1, ok := Jack{}.GetTicket(par, i, lseed, pids[1], sk1, pk1)
		require.True(t, ok)

		agg, ok := Jack{}.Aggregate(par, i, lseed, pids, pks, []Ticket{ticket0, ticket1})
		require.True(t, ok)
		require.True(t, Jack{}.Verify(par, i, lseed, pids, pks, agg))
	}
}

func TestParticipateOutOfRangeAlwaysLoses(t *testing.T) {
	par, ok := Jack{}.Setup(rand.Reader, 4, 1)
	require.True(t, ok)
	pk, sk := Jack{}.Gen(rand.Reader, par)
	lseed := Jack{}.SampleSeed(rand.Reader, par, 0)

	require.False(t, Jack{}.Participate(par, 100, lseed, 0, sk, pk))
}

func TestGetTicketOutOfRangeFails(t *testing.T) {
	par, ok := Jack{}.Setup(rand.Reader, 4, 1)
	require.True(t, ok)
	_, sk := Jack{}.Gen(rand.Reader, par)
	lseed := Jack{}.SampleSeed(rand.Reader, par, 0)

	_, ok = Jack{}.GetTicket(par, 100, lseed, 0, sk, PublicKey{})
	require.False(t, ok)
}

func TestAggregateFailsOnLengthMismatch(t *testing.T) {
	par, ok := Jack{}.Setup(rand.Reader, 4, 1)
	require.True(t, ok)
	pk, sk := Jack{}.Gen(rand.Reader, par)
	lseed := Jack{}.SampleSeed(rand.Reader, par, 0)
	ticket, ok := Jack{}.GetTicket(par, 0, lseed, 0, sk, pk)
	require.True(t, ok)

	_, ok = Jack{}.Aggregate(par, 0, lseed, []uint32{0, 1}, []PublicKey{pk}, []Ticket{ticket})
	require.False(t, ok)
}

func TestVerifyFailsOnShuffledPks(t *testing.T) {
	par, ok := Jack{}.Setup(rand.Reader, 14, 1)
	require.True(t, ok)

	pk0, sk0 := Jack{}.Gen(rand.Reader, par)
	pk1, sk1 := Jack{}.Gen(rand.Reader, par)
	pids := []uint32{0, 1}
	pks := []PublicKey{pk0, pk1}
	lseed := Jack{}.SampleSeed(rand.Reader, par, 0)

	ticket0, ok := Jack{}.GetTicket(par, 0, lseed, pids[0], sk0, pk0)
	require.True(t, ok)
	ticket1, ok := Jack{}.GetTicket(par, 0, lseed, pids[1], sk1, pk1)
	require.True(t, ok)

	agg, ok := Jack{}.Aggregate(par, 0, lseed, pids, pks, []Ticket{ticket0, ticket1})
	require.True(t, ok)
	require.True(t, Jack{}.Verify(par, 0, lseed, pids, pks, agg))

	shuffledPks := []PublicKey{pk1, pk0}
	require.False(t, Jack{}.Verify(par, 0, lseed, pids, shuffledPks, agg))
}

func TestChallengeIsDeterministic(t *testing.T) {
	par, ok := Jack{}.Setup(rand.Reader, 4, 1<<32)
	require.True(t, ok)
	pk, _ := Jack{}.Gen(rand.Reader, par)
	lseed := Jack{}.SampleSeed(rand.Reader, par, 0)

	x1 := getChallenge(par.LogK, pk, 7, 2, lseed)
	x2 := getChallenge(par.LogK, pk, 7, 2, lseed)
	require.True(t, x1.Equal(&x2))

	x3 := getChallenge(par.LogK, pk, 8, 2, lseed)
	require.False(t, x1.Equal(&x3))
}

func TestFKPreprocessingMatchesDirectTickets(t *testing.T) {
	par, ok := Jack{}.Setup(rand.Reader, 6, 4)
	require.True(t, ok)

	pk, sk := Jack{}.Gen(rand.Reader, par)
	lseed := Jack{}.SampleSeed(rand.Reader, par, 0)

	before := make([]Ticket, par.NumLotteries)
	for i := uint32(0); i < uint32(par.NumLotteries); i++ {
		tau, ok := Jack{}.GetTicket(par, i, lseed, 0, sk, pk)
		require.True(t, ok)
		before[i] = tau
	}

	kzg.FKPreprocess(par.CK, &sk.State)

	for i := uint32(0); i < uint32(par.NumLotteries); i++ {
		tau, ok := Jack{}.GetTicket(par, i, lseed, 0, sk, pk)
		require.True(t, ok)
		require.True(t, before[i].Opening.V.Equal(&tau.Opening.V), "index %d", i)
		require.True(t, before[i].Opening.HatY.Equal(&tau.Opening.HatY), "index %d", i)
	}
}

func TestTicketBatchRejectsDuplicatePid(t *testing.T) {
	par, ok := Jack{}.Setup(rand.Reader, 4, 1)
	require.True(t, ok)
	pk, sk := Jack{}.Gen(rand.Reader, par)
	lseed := Jack{}.SampleSeed(rand.Reader, par, 0)
	ticket, ok := Jack{}.GetTicket(par, 0, lseed, 0, sk, pk)
	require.True(t, ok)

	batch := NewTicketBatch()
	require.NoError(t, batch.Add(3, pk, ticket))
	require.Error(t, batch.Add(3, pk, ticket))
	require.Equal(t, 1, batch.Len())
}

func TestTicketBatchFinalizePreservesOrder(t *testing.T) {
	par, ok := Jack{}.Setup(rand.Reader, 4, 1)
	require.True(t, ok)
	lseed := Jack{}.SampleSeed(rand.Reader, par, 0)

	batch := NewTicketBatch()
	var wantPids []uint32
	for _, pid := range []uint32{5, 1, 9} {
		pk, sk := Jack{}.Gen(rand.Reader, par)
		ticket, ok := Jack{}.GetTicket(par, 0, lseed, pid, sk, pk)
		require.True(t, ok)
		require.NoError(t, batch.Add(pid, pk, ticket))
		wantPids = append(wantPids, pid)
	}

	gotPids, gotPks, gotTickets := batch.Finalize()
	require.Equal(t, wantPids, gotPids)
	require.Len(t, gotPks, 3)
	require.Len(t, gotTickets, 3)
}

func TestJackPreKeysVerifyAndWin(t *testing.T) {
	par, ok := JackPre{}.Setup(rand.Reader, 8, 1)
	require.True(t, ok)

	pk, sk := JackPre{}.Gen(rand.Reader, par)
	require.True(t, JackPre{}.VerifyKey(par, pk))
	require.NotNil(t, sk.State.PrecomputedV)

	lseed := JackPre{}.SampleSeed(rand.Reader, par, 0)
	require.True(t, JackPre{}.Participate(par, 0, lseed, 0, sk, pk))

	ticket, ok := JackPre{}.GetTicket(par, 0, lseed, 0, sk, pk)
	require.True(t, ok)
	require.True(t, JackPre{}.Verify(par, 0, lseed, []uint32{0}, []PublicKey{pk}, ticket))
}

// TestDeterministicScenarioWithSeededRNG replays the same seeded source for
// setup, key generation, and seed sampling and checks the run is fully
// reproducible end to end, as required of any caller wiring in their own
// randomness source.
func TestDeterministicScenarioWithSeededRNG(t *testing.T) {
	run := func() (par Parameters, pk PublicKey, sk SecretKey, lseed Seed, ticket Ticket) {
		rng := mrand.New(mrand.NewSource(1234))
		var ok bool
		par, ok = Jack{}.Setup(rng, 4, 8)
		require.True(t, ok)
		pk, sk = Jack{}.Gen(rng, par)
		lseed = Jack{}.SampleSeed(rng, par, 0)
		ticket, ok = Jack{}.GetTicket(par, 0, lseed, 0, sk, pk)
		require.True(t, ok)
		return
	}

	_, pk1, sk1, lseed1, ticket1 := run()
	_, pk2, sk2, lseed2, ticket2 := run()

	require.True(t, pk1.Com.ComKZG.Equal(&pk2.Com.ComKZG))
	require.Equal(t, lseed1, lseed2)
	require.True(t, ticket1.Opening.V.Equal(&ticket2.Opening.V))
	for i := range sk1.V {
		require.True(t, sk1.V[i].Equal(&sk2.V[i]), "entry %d", i)
	}
}
