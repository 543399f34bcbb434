package main

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestRunSettlesAllLotteries(t *testing.T) {
	log = zerolog.Nop()
	require.NoError(t, run(4, 1, 3, false))
}

func TestRunWithPreprocessing(t *testing.T) {
	log = zerolog.Nop()
	require.NoError(t, run(4, 1, 2, true))
}

func TestRunRejectsNonPowerOfTwoK(t *testing.T) {
	log = zerolog.Nop()
	require.Error(t, run(4, 3, 2, false))
}
