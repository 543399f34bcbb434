// Command jackctl exercises the lottery end to end from the command line:
// setup, key generation, participation, aggregation and verification.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/b-wagn/jack-go/lottery"
)

var log zerolog.Logger

func main() {
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	var (
		numLotteries = flag.Uint64("lotteries", 8, "number of independent lotteries T")
		k            = flag.Uint64("k", 256, "number of slots k (must be a power of two)")
		numParties   = flag.Uint("parties", 3, "number of participants to simulate")
		preprocess   = flag.Bool("preprocess", false, "eagerly FK-preprocess key generation (JackPre)")
	)
	flag.Parse()

	if err := run(*numLotteries, *k, *numParties, *preprocess); err != nil {
		log.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}

func run(numLotteries, k uint64, numParties uint, preprocess bool) error {
	var scheme interface {
		Setup(rng io.Reader, numLotteries, k uint64) (lottery.Parameters, bool)
		Gen(rng io.Reader, par lottery.Parameters) (lottery.PublicKey, lottery.SecretKey)
		VerifyKey(par lottery.Parameters, pk lottery.PublicKey) bool
		SampleSeed(rng io.Reader, par lottery.Parameters, i uint32) lottery.Seed
		Participate(par lottery.Parameters, i uint32, lseed lottery.Seed, pid uint32, sk lottery.SecretKey, pk lottery.PublicKey) bool
		GetTicket(par lottery.Parameters, i uint32, lseed lottery.Seed, pid uint32, sk lottery.SecretKey, pk lottery.PublicKey) (lottery.Ticket, bool)
		Aggregate(par lottery.Parameters, i uint32, lseed lottery.Seed, pids []uint32, pks []lottery.PublicKey, tickets []lottery.Ticket) (lottery.Ticket, bool)
		Verify(par lottery.Parameters, i uint32, lseed lottery.Seed, pids []uint32, pks []lottery.PublicKey, ticket lottery.Ticket) bool
	}
	if preprocess {
		scheme = lottery.JackPre{}
	} else {
		scheme = lottery.Jack{}
	}

	log.Info().Uint64("lotteries", numLotteries).Uint64("k", k).Msg("running setup")
	par, ok := scheme.Setup(rand.Reader, numLotteries, k)
	if !ok {
		return fmt.Errorf("jackctl: setup failed, k=%d must be a power of two", k)
	}
	log.Info().Int("key_size", len(par.CK.Prepared())).Msg("commitment key ready")

	pids := make([]uint32, numParties)
	pks := make([]lottery.PublicKey, numParties)
	sks := make([]lottery.SecretKey, numParties)
	for p := uint(0); p < numParties; p++ {
		pk, sk := scheme.Gen(rand.Reader, par)
		if !scheme.VerifyKey(par, pk) {
			return fmt.Errorf("jackctl: generated key for party %d failed verification", p)
		}
		pids[p] = uint32(p)
		pks[p] = pk
		sks[p] = sk
	}
	log.Info().Uint("parties", numParties).Msg("generated keys")

	wins := 0
	for i := uint32(0); i < uint32(numLotteries); i++ {
		lseed := scheme.SampleSeed(rand.Reader, par, i)

		var winningPids []uint32
		var winningPks []lottery.PublicKey
		var tickets []lottery.Ticket
		for p := range pids {
			if !scheme.Participate(par, i, lseed, pids[p], sks[p], pks[p]) {
				continue
			}
			ticket, ok := scheme.GetTicket(par, i, lseed, pids[p], sks[p], pks[p])
			if !ok {
				return fmt.Errorf("jackctl: party %d won lottery %d but produced no ticket", pids[p], i)
			}
			winningPids = append(winningPids, pids[p])
			winningPks = append(winningPks, pks[p])
			tickets = append(tickets, ticket)
		}

		if len(tickets) == 0 {
			log.Debug().Uint32("lottery", i).Msg("no winners")
			continue
		}

		agg, ok := scheme.Aggregate(par, i, lseed, winningPids, winningPks, tickets)
		if !ok {
			return fmt.Errorf("jackctl: failed to aggregate %d tickets for lottery %d", len(tickets), i)
		}
		if !scheme.Verify(par, i, lseed, winningPids, winningPks, agg) {
			return fmt.Errorf("jackctl: aggregated ticket for lottery %d failed verification", i)
		}

		wins++
		log.Info().
			Uint32("lottery", i).
			Int("winners", len(tickets)).
			Str("seed", hex.EncodeToString(lseed[:])).
			Msg("lottery settled")
	}

	log.Info().Int("settled", wins).Uint64("total", numLotteries).Msg("done")
	return nil
}
