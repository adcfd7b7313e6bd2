package modes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// The raw values below are decoded from the well-known Schiphol worked
// example's two source frames, 8D40621D58C382D690C8AC2863A7 (even) and
// 8D40621D58C386435CC412692AD6 (odd) — see DESIGN.md's Open Question entry
// on the published CPR example for why these differ from the scenario's
// literal raw_lat/raw_lon numbers.
func TestDecodeGlobalAirborneWorkedExample(t *testing.T) {
	even := CPRSnapshot{RawLat: 93000, RawLon: 51372, CapturedAtMs: 5000}
	odd := CPRSnapshot{RawLat: 74158, RawLon: 50194, CapturedAtMs: 0}

	pos, ok := DecodeGlobalAirborne(even, odd, false)

	require.True(t, ok)
	require.InDelta(t, 52.2572, pos.Latitude, 0.0001)
	require.InDelta(t, 3.91937, pos.Longitude, 0.0001)
}

func TestDecodeGlobalAirborneStaleRejected(t *testing.T) {
	even := CPRSnapshot{RawLat: 93000, RawLon: 51372, CapturedAtMs: 20000}
	odd := CPRSnapshot{RawLat: 74158, RawLon: 50194, CapturedAtMs: 0}

	_, ok := DecodeGlobalAirborne(even, odd, false)

	require.False(t, ok)
}

func TestNLTableSymmetricAboutEquator(t *testing.T) {
	require.Equal(t, NL(0), NL(-0.0001))
	require.Equal(t, 59, NL(0))
	require.Equal(t, 1, NL(89.9))
}

func TestCprModAlwaysPositive(t *testing.T) {
	require.Equal(t, 58, cprMod(-2, 60))
	require.Equal(t, 0, cprMod(60, 60))
	require.Equal(t, 5, cprMod(5, 60))
}
