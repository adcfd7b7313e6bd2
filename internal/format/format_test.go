package format

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dump1090/go1090/internal/modes"
	"github.com/dump1090/go1090/internal/tracker"
)

func TestRaw(t *testing.T) {
	m := &modes.Message{Bytes: []byte{0x8D, 0x48, 0x40, 0xD6}}
	require.Equal(t, "*8D4840D6;\n", Raw(m))
}

func TestOnlyAddr(t *testing.T) {
	m := &modes.Message{ICAO: 0x4840D6}
	require.Equal(t, "4840d6\n", OnlyAddr(m))
}

func TestSBSIdentification(t *testing.T) {
	m := &modes.Message{DF: 17, METype: 4, ICAO: 0x4840D6, Ident: "KLM1023 "}
	line := SBS(m, false)
	require.Equal(t, "MSG,1,,,4840D6,,,,,,KLM1023 ,,,,,,,,0,0,0,0\n", line)
}

func TestSBSSurveillanceAlt(t *testing.T) {
	m := &modes.Message{DF: 0, ICAO: 0x4840D6, Altitude: 35000}
	line := SBS(m, false)
	require.Equal(t, "MSG,5,,,4840D6,,,,,,,35000,,,,,,,,,,\n", line)
}

func TestSBSVelocity(t *testing.T) {
	m := &modes.Message{
		DF: 17, METype: 19, MESub: 1, ICAO: 0x4840D6,
		GroundSpeed: 159, Heading: 357, VertRate: 14, VRSign: 1,
	}
	line := SBS(m, false)
	require.Equal(t, "MSG,4,,,4840D6,,,,,,,,159,357,,,-832,,0,0,0,0\n", line)
}

func TestSBSUnknownDFReturnsEmpty(t *testing.T) {
	m := &modes.Message{DF: 19}
	require.Equal(t, "", SBS(m, false))
}

func TestSBSMetricConversion(t *testing.T) {
	m := &modes.Message{DF: 0, ICAO: 0x4840D6, Altitude: 35000}
	line := SBS(m, true)
	require.Contains(t, line, "10661")
}

func TestSBSWithAircraftFillsPosition(t *testing.T) {
	m := &modes.Message{DF: 17, METype: 11, ICAO: 0x4840D6, Altitude: 38000}
	a := &tracker.Aircraft{Latitude: 52.2572, Longitude: 3.91937}
	line := SBSWithAircraft(m, a, false)
	require.Contains(t, line, "52.25720")
	require.Contains(t, line, "3.91937")
}

func TestSBSWithAircraftUnresolvedOmitsPosition(t *testing.T) {
	m := &modes.Message{DF: 17, METype: 11, ICAO: 0x4840D6, Altitude: 38000}
	line := SBSWithAircraft(m, nil, false)
	require.Equal(t, "MSG,3,,,4840D6,,,,,,,38000,,,,,,,0,0,0,0\n", line)
}

func TestTrajectorySkipsUnresolved(t *testing.T) {
	a := &tracker.Aircraft{Callsign: "KLM1023 "}
	require.Equal(t, "", Trajectory(a, false))
}

func TestJSONSnapshotEmptySky(t *testing.T) {
	sky := tracker.NewSky(0)
	body, err := JSONSnapshot(sky.Snapshot(), false)
	require.NoError(t, err)
	require.Equal(t, "[]", string(body))
}

func TestJSONSnapshotOmitsUnresolved(t *testing.T) {
	body, err := JSONSnapshot([]*tracker.Aircraft{{HexAddr: "4840d6"}}, false)
	require.NoError(t, err)
	require.Equal(t, "[]", string(body))
}
