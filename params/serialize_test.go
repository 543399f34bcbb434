package params

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/b-wagn/jack-go/internal/kzg"
)

func TestWriteReadCommitmentKeyRoundTrip(t *testing.T) {
	ck, err := kzg.Setup(rand.Reader, 14)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCommitmentKey(&buf, ck))

	got, err := ReadCommitmentKey(&buf)
	require.NoError(t, err)

	require.Equal(t, ck.MessageLength, got.MessageLength)
	require.Equal(t, ck.Domain.Cardinality, got.Domain.Cardinality)
	require.Equal(t, ck.Domain2N.Cardinality, got.Domain2N.Cardinality)
	require.True(t, ck.G2.Equal(&got.G2))
	require.True(t, ck.R.Equal(&got.R))

	require.Len(t, got.U, len(ck.U))
	for i := range ck.U {
		require.True(t, ck.U[i].Equal(&got.U[i]), "u[%d]", i)
	}
	for i := range ck.HatU {
		require.True(t, ck.HatU[i].Equal(&got.HatU[i]), "hat_u[%d]", i)
	}
	for i := range ck.Lagranges {
		require.True(t, ck.Lagranges[i].Equal(&got.Lagranges[i]), "lagranges[%d]", i)
	}
	for i := range ck.D {
		require.True(t, ck.D[i].Equal(&got.D[i]), "d[%d]", i)
	}
	for i := range ck.Y {
		require.True(t, ck.Y[i].Equal(&got.Y[i]), "y[%d]", i)
	}
	for i := range ck.HatY {
		require.True(t, ck.HatY[i].Equal(&got.HatY[i]), "hat_y[%d]", i)
	}
}

func TestReadCommitmentKeyRejectsNonPowerOfTwoDomain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeUint64(&buf, 14))
	require.NoError(t, writeUint64(&buf, 5))

	_, err := ReadCommitmentKey(&buf)
	require.Error(t, err)
}

func TestReadCommitmentKeyRejectsTruncatedInput(t *testing.T) {
	ck, err := kzg.Setup(rand.Reader, 4)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCommitmentKey(&buf, ck))

	truncated := buf.Bytes()[:buf.Len()-10]
	_, err = ReadCommitmentKey(bytes.NewReader(truncated))
	require.Error(t, err)
}
