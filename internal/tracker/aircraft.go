// Package tracker maintains the live per-aircraft state table, keyed by
// 24-bit ICAO address, fed by decoded Mode S messages and resolved via the
// CPR global airborne decode.
package tracker

import (
	"fmt"
	"sync"
	"time"

	"github.com/dump1090/go1090/internal/modes"
)

// DefaultTTL is how long an aircraft survives without a new message
// (spec §3, "Aircraft" lifecycle; overridable via --interactive-ttl).
const DefaultTTL = 60 * time.Second

// Aircraft is one tracked entity (spec §3).
type Aircraft struct {
	ICAO    uint32
	HexAddr string
	Callsign string

	Altitude    int
	GroundSpeed int
	Track       int

	OddSnapshot  modes.CPRSnapshot
	EvenSnapshot modes.CPRSnapshot
	HaveOdd      bool
	HaveEven     bool

	Latitude  float64
	Longitude float64

	LastSeen     time.Time
	MessageCount int64
}

func newAircraft(addr uint32) *Aircraft {
	return &Aircraft{
		ICAO:     addr,
		HexAddr:  fmt.Sprintf("%06x", addr),
		LastSeen: time.Now(),
	}
}

// HasPosition reports whether a resolved lat/lon exists (spec: 0 means
// unresolved).
func (a *Aircraft) HasPosition() bool {
	return a.Latitude != 0 && a.Longitude != 0
}

// Sky is the live aircraft table.
type Sky struct {
	mu        sync.Mutex
	aircrafts map[uint32]*Aircraft
	ttl       time.Duration
	now       func() time.Time
	nowMs     func() int64
}

// NewSky builds an empty table with the given time-to-live.
func NewSky(ttl time.Duration) *Sky {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Sky{
		aircrafts: make(map[uint32]*Aircraft),
		ttl:       ttl,
		now:       time.Now,
		nowMs:     func() int64 { return time.Now().UnixMilli() },
	}
}

// Ingest folds a decoded message into the tracker, creating the Aircraft
// entry on first sight (spec §4.5). Returns nil if check_crc is on and the
// message's CRC did not validate.
func (s *Sky) Ingest(checkCRC bool, m *modes.Message) *Aircraft {
	if checkCRC && !m.CRCOk {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.aircrafts[m.ICAO]
	if a == nil {
		a = newAircraft(m.ICAO)
		s.aircrafts[m.ICAO] = a
	}

	a.LastSeen = s.now()
	a.MessageCount++

	switch {
	case m.DF == 0 || m.DF == 4 || m.DF == 20:
		a.Altitude = m.Altitude

	case m.DF == 17 && m.METype >= 1 && m.METype <= 4:
		a.Callsign = m.Ident

	case m.DF == 17 && m.METype >= 9 && m.METype <= 18:
		a.Altitude = m.Altitude
		snap := modes.CPRSnapshot{RawLat: m.RawLatitude, RawLon: m.RawLongitude, CapturedAtMs: s.nowMs()}
		if m.FFlag {
			a.OddSnapshot = snap
			a.HaveOdd = true
		} else {
			a.EvenSnapshot = snap
			a.HaveEven = true
		}
		if a.HaveOdd && a.HaveEven {
			if pos, ok := modes.DecodeGlobalAirborne(a.EvenSnapshot, a.OddSnapshot, m.FFlag); ok {
				a.Latitude = pos.Latitude
				a.Longitude = pos.Longitude
			}
		}

	case m.DF == 17 && m.METype == 19 && (m.MESub == 1 || m.MESub == 2):
		a.GroundSpeed = m.GroundSpeed
		a.Track = m.Heading
	}

	return a
}

// AgeOut removes every aircraft whose last message predates the TTL.
func (s *Sky) AgeOut() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for addr, a := range s.aircrafts {
		if now.Sub(a.LastSeen) > s.ttl {
			delete(s.aircrafts, addr)
		}
	}
}

// Snapshot returns a point-in-time copy of all tracked aircraft, safe to
// range over without holding the tracker's lock.
func (s *Sky) Snapshot() []*Aircraft {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Aircraft, 0, len(s.aircrafts))
	for _, a := range s.aircrafts {
		cp := *a
		out = append(out, &cp)
	}
	return out
}

// Count reports how many aircraft are currently tracked.
func (s *Sky) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.aircrafts)
}
