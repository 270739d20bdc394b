package smt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeOracle is a minimal stand-in SMT process driven over stdin/stdout:
// it answers every "(check-sat)" line with "sat" and ignores everything
// else, enough to exercise the Bridge's framing and timeout handling
// without depending on a real solver binary being installed.
const fakeOracleScript = `
while IFS= read -r line; do
  case "$line" in
    *check-sat*) echo sat ;;
  esac
done
`

func TestBridgeDeclareAssertCheckSat(t *testing.T) {
	b, err := Open([]string{"sh", "-c", fakeOracleScript}, time.Second)
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, b.DeclareSort("Qubit", 0))
	require.NoError(t, b.Assert("true"))
	res, err := b.CheckSat()
	require.NoError(t, err)
	require.Equal(t, Sat, res)
}

func TestBridgePushPopTracksDepth(t *testing.T) {
	b, err := Open([]string{"sh", "-c", fakeOracleScript}, time.Second)
	require.NoError(t, err)
	defer b.Close()

	require.Equal(t, 0, b.Depth())
	require.NoError(t, b.Push())
	require.Equal(t, 1, b.Depth())
	require.NoError(t, b.Pop())
	require.Equal(t, 0, b.Depth())
	require.Error(t, b.Pop())
}

func TestBridgeCheckSatTimesOutToUnknown(t *testing.T) {
	// A process that never answers degrades to Unknown + CS010, not a
	// hang or a Fatal abort.
	b, err := Open([]string{"sh", "-c", "sleep 5"}, 50*time.Millisecond)
	require.NoError(t, err)
	defer b.Close()

	res, err := b.CheckSat()
	require.Error(t, err)
	require.Equal(t, Unknown, res)
}
