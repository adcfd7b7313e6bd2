// Package modes implements the Mode S / ADS-B frame decode pipeline: CRC
// validation and repair, the ICAO recency whitelist, per-Downlink-Format
// field extraction, and CPR position resolution.
package modes

import (
	"math"

	"github.com/sirupsen/logrus"
)

// apDownlinkFormats are the DFs whose last 24 bits are ICAO XOR CRC rather
// than a bare checksum (spec §4.1).
var apDownlinkFormats = map[int]bool{
	0: true, 4: true, 5: true, 16: true, 20: true, 21: true, 24: true,
}

// Config holds the decoder's runtime switches (spec §6 flag table).
type Config struct {
	FixErrors  bool // --no-fix clears this
	CheckCRC   bool // --no-crc-check clears this
	Aggressive bool // --aggressive sets this
}

// DefaultConfig mirrors the teacher's modesInitConfig defaults.
func DefaultConfig() Config {
	return Config{FixErrors: true, CheckCRC: true, Aggressive: false}
}

// Decoder turns raw frame bytes into Messages, consulting and maintaining
// the ICAO recency cache along the way.
type Decoder struct {
	Config
	Cache *IcaoCache
	log   *logrus.Entry
}

// NewDecoder builds a Decoder with its own ICAO cache.
func NewDecoder(cfg Config, log *logrus.Entry) *Decoder {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Decoder{Config: cfg, Cache: NewIcaoCache(), log: log}
}

// Decode parses a raw byte frame (up to 14 bytes) into a Message, applying
// CRC validation/repair and per-DF field extraction (spec §4.3).
func (d *Decoder) Decode(raw []byte) *Message {
	if len(raw) == 0 {
		return &Message{ErrorBit: -1}
	}

	df := int(raw[0]) >> 3
	bits := lenForDF(df)
	nBytes := bits / 8

	msg := make([]byte, nBytes)
	n := len(raw)
	if n > nBytes {
		n = nBytes
	}
	copy(msg, raw[:n])

	m := &Message{Bytes: msg, BitLength: bits, DF: df, ErrorBit: -1}

	m.CRCObserved = observedCRC(msg, bits)
	computed := checksum(msg, bits)
	m.CRCOk = m.CRCObserved == computed

	if !m.CRCOk && d.FixErrors && (df == 11 || df == 17) {
		if bit := fixSingleBitErrors(msg, bits); bit != -1 {
			m.ErrorBit = bit
			m.Corrected = true
			m.CRCOk = true
		} else if d.Aggressive && df == 17 {
			if bit := fixTwoBitsErrors(msg, bits); bit != -1 {
				m.ErrorBit = bit
				m.Corrected = true
				m.CRCOk = true
			}
		}
	}

	m.CA = int(msg[0]) & 7
	m.FS = int(msg[0]) & 7
	m.DR = (int(msg[1]) >> 3) & 0x1F
	m.UM = ((int(msg[1]) & 7) << 3) | (int(msg[2]) >> 5)
	m.ICAO = uint32(msg[1])<<16 | uint32(msg[2])<<8 | uint32(msg[3])

	if df == 17 {
		m.METype = int(msg[4]) >> 3
		m.MESub = int(msg[4]) & 7
	}

	m.Identity = decodeSquawk(msg)

	if df != 11 && df != 17 {
		if addr, ok := d.bruteForceAP(msg, bits); ok {
			m.ICAO = addr
			m.CRCOk = true
		} else {
			m.CRCOk = false
		}
	} else if m.CRCOk && !m.Corrected {
		d.Cache.Insert(m.ICAO)
	}

	if df == 0 || df == 4 || df == 16 || df == 20 {
		m.Altitude, m.Unit = decodeAC13Field(msg)
	}

	if df == 17 {
		d.decodeExtendedSquitter(m, msg)
	}

	d.log.WithFields(logrus.Fields{
		"df": df, "icao": m.ICAO, "crc_ok": m.CRCOk, "corrected": m.Corrected,
	}).Trace("decoded frame")

	return m
}

// bruteForceAP recovers the ICAO address for AP-checksummed DFs by XORing
// the computed CRC into the trailing bytes and checking the recency cache
// (spec §4.1). Returns the recovered address and whether it validated.
func (d *Decoder) bruteForceAP(msg []byte, bits int) (uint32, bool) {
	if !apDownlinkFormats[int(msg[0])>>3] {
		return 0, false
	}

	nBytes := bits / 8
	last := nBytes - 1

	aux := make([]byte, nBytes)
	copy(aux, msg)

	crc := checksum(aux, bits)
	aux[last] ^= byte(crc)
	aux[last-1] ^= byte(crc >> 8)
	aux[last-2] ^= byte(crc >> 16)

	addr := uint32(aux[last-2])<<16 | uint32(aux[last-1])<<8 | uint32(aux[last])
	if d.Cache.ContainsRecent(addr) {
		return addr, true
	}
	return 0, false
}

// decodeExtendedSquitter dispatches DF17 payloads by me_type/me_sub
// (spec §4.3).
func (d *Decoder) decodeExtendedSquitter(m *Message, msg []byte) {
	switch {
	case m.METype >= 1 && m.METype <= 4:
		m.Ident = decodeIdentification(msg)

	case m.METype >= 9 && m.METype <= 18:
		m.FFlag = msg[6]&(1<<2) != 0
		m.TFlag = msg[6]&(1<<3) != 0
		m.Altitude, m.Unit = decodeAC12Field(msg)
		m.RawLatitude = ((int(msg[6]) & 3) << 15) | (int(msg[7]) << 7) | (int(msg[8]) >> 1)
		m.RawLongitude = ((int(msg[8]) & 1) << 16) | (int(msg[9]) << 8) | int(msg[10])

	case m.METype == 19 && m.MESub >= 1 && m.MESub <= 4:
		d.decodeVelocity(m, msg)
	}
}

func (d *Decoder) decodeVelocity(m *Message, msg []byte) {
	switch m.MESub {
	case 1, 2:
		m.EWDir = (int(msg[5]) & 4) >> 2
		m.EWVelocity = ((int(msg[5]) & 3) << 8) | int(msg[6])
		m.NSDir = (int(msg[7]) & 0x80) >> 7
		m.NSVelocity = ((int(msg[7]) & 0x7f) << 3) | ((int(msg[8]) & 0xe0) >> 5)
		m.VRSource = (int(msg[8]) & 0x10) >> 4
		m.VRSign = (int(msg[8]) & 0x8) >> 3
		m.VertRate = ((int(msg[8]) & 7) << 6) | ((int(msg[9]) & 0xfc) >> 2)

		m.GroundSpeed = int(math.Round(math.Sqrt(
			float64(m.NSVelocity*m.NSVelocity + m.EWVelocity*m.EWVelocity))))

		if m.GroundSpeed != 0 {
			ew, ns := float64(m.EWVelocity), float64(m.NSVelocity)
			if m.EWDir == DirWest {
				ew = -ew
			}
			if m.NSDir == DirSouth {
				ns = -ns
			}
			heading := int(math.Atan2(ew, ns) * 180 / math.Pi)
			if heading < 0 {
				heading += 360
			}
			m.Heading = heading
			m.HeadingOk = true
		}

	case 3, 4:
		m.HeadingOk = msg[5]&(1<<2) != 0
		raw := ((int(msg[5]) & 3) << 5) | (int(msg[6]) >> 3)
		m.Heading = int((360.0 / 128.0) * float64(raw))
	}
}

// VerticalRateSigned returns the signed vertical rate in ft/min
// (SBS VR = sign*(vr-1)*64, spec §6).
func (m *Message) VerticalRateSigned() int {
	sign := 1
	if m.VRSign != 0 {
		sign = -1
	}
	return sign * (m.VertRate - 1) * 64
}
