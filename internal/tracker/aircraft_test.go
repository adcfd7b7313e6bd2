package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dump1090/go1090/internal/modes"
)

func TestIngestCreatesAircraftOnFirstSight(t *testing.T) {
	sky := NewSky(time.Minute)
	m := &modes.Message{ICAO: 0x4840D6, DF: 11, CRCOk: true}

	ac := sky.Ingest(true, m)

	require.NotNil(t, ac)
	require.Equal(t, "4840d6", ac.HexAddr)
	require.Equal(t, 1, sky.Count())
}

func TestIngestDropsFailedCRCWhenChecking(t *testing.T) {
	sky := NewSky(time.Minute)
	m := &modes.Message{ICAO: 0x4840D6, DF: 11, CRCOk: false}

	ac := sky.Ingest(true, m)

	require.Nil(t, ac)
	require.Equal(t, 0, sky.Count())
}

func TestIngestFusesEvenOddCPRIntoPosition(t *testing.T) {
	sky := NewSky(time.Minute)
	icao := uint32(0x40621D)

	even := &modes.Message{
		ICAO: icao, DF: 17, METype: 11, CRCOk: true,
		RawLatitude: 93000, RawLongitude: 51372, FFlag: false,
	}
	odd := &modes.Message{
		ICAO: icao, DF: 17, METype: 11, CRCOk: true,
		RawLatitude: 74158, RawLongitude: 50194, FFlag: true,
	}

	sky.Ingest(true, even)
	ac := sky.Ingest(true, odd)

	require.True(t, ac.HasPosition())
}

func TestAgeOutRemovesStaleAircraft(t *testing.T) {
	sky := NewSky(time.Minute)
	frozen := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sky.now = func() time.Time { return frozen }

	sky.Ingest(true, &modes.Message{ICAO: 0x4840D6, DF: 11, CRCOk: true})
	require.Equal(t, 1, sky.Count())

	sky.now = func() time.Time { return frozen.Add(2 * time.Minute) }
	sky.AgeOut()

	require.Equal(t, 0, sky.Count())
}
