package modes

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestDecodeDF17Identification(t *testing.T) {
	d := NewDecoder(DefaultConfig(), nil)
	raw := mustHex(t, "8D4840D6202CC371C32CE0576098")

	m := d.Decode(raw)

	require.Equal(t, 17, m.DF)
	require.Equal(t, uint32(0x4840D6), m.ICAO)
	require.Equal(t, 4, m.METype)
	require.Equal(t, "KLM1023 ", m.Ident)
	require.True(t, m.CRCOk)
}

func TestBruteForceAPRecoveryHit(t *testing.T) {
	d := NewDecoder(DefaultConfig(), nil)
	d.Cache.Insert(0xABCDEF)

	// Build a DF4 frame whose AP field is ICAO XOR CRC.
	msg := make([]byte, ShortMsgBytes)
	msg[0] = 4 << 3 // DF4
	crc := checksum(msg, ShortMsgBits)
	msg[ShortMsgBytes-1] = byte(crc) ^ byte(0xEF)
	msg[ShortMsgBytes-2] = byte(crc>>8) ^ byte(0xCD)
	msg[ShortMsgBytes-3] = byte(crc>>16) ^ byte(0xAB)

	m := d.Decode(msg)

	require.True(t, m.CRCOk)
	require.Equal(t, uint32(0xABCDEF), m.ICAO)
}

func TestBruteForceAPRecoveryMiss(t *testing.T) {
	d := NewDecoder(DefaultConfig(), nil)
	// Cache left empty: the same frame must now fail.

	msg := make([]byte, ShortMsgBytes)
	msg[0] = 4 << 3
	crc := checksum(msg, ShortMsgBits)
	msg[ShortMsgBytes-1] = byte(crc) ^ byte(0xEF)
	msg[ShortMsgBytes-2] = byte(crc>>8) ^ byte(0xCD)
	msg[ShortMsgBytes-3] = byte(crc>>16) ^ byte(0xAB)

	m := d.Decode(msg)

	require.False(t, m.CRCOk)
}

func TestSingleBitRepair(t *testing.T) {
	d := NewDecoder(DefaultConfig(), nil)
	raw := mustHex(t, "8D4840D6202CC371C32CE0576098")

	flipped := make([]byte, len(raw))
	copy(flipped, raw)
	bit := 37
	flipped[bit/8] ^= 1 << (7 - uint(bit%8))

	m := d.Decode(flipped)

	require.True(t, m.CRCOk)
	require.Equal(t, bit, m.ErrorBit)
	require.True(t, m.Corrected)
	// A corrected DF17 frame must not seed the whitelist.
	require.False(t, d.Cache.ContainsRecent(0x4840D6))
}

func TestDecodeShortFrameDoesNotPanic(t *testing.T) {
	d := NewDecoder(DefaultConfig(), nil)

	// "*8D;" — 1 byte, df=0x8D>>3=17, which implies a 14-byte frame.
	require.NotPanics(t, func() {
		m := d.Decode([]byte{0x8D})
		require.Equal(t, 17, m.DF)
		require.Len(t, m.Bytes, LongMsgBytes)
	})

	// "*00;" — 1 byte, df=0, which implies a 7-byte frame.
	require.NotPanics(t, func() {
		m := d.Decode([]byte{0x00})
		require.Equal(t, 0, m.DF)
		require.Len(t, m.Bytes, ShortMsgBytes)
	})

	require.NotPanics(t, func() {
		d.Decode(nil)
	})
}

func TestLenForDF(t *testing.T) {
	for _, df := range []int{16, 17, 19, 20, 21} {
		require.Equal(t, LongMsgBits, lenForDF(df))
	}
	for _, df := range []int{0, 4, 5, 11, 24} {
		require.Equal(t, ShortMsgBits, lenForDF(df))
	}
}

func TestIcaoCacheTTLAndCollision(t *testing.T) {
	c := NewIcaoCache()
	frozen := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return frozen }

	c.Insert(0x112233)
	require.True(t, c.ContainsRecent(0x112233))

	c.now = func() time.Time { return frozen.Add(61 * time.Second) }
	require.False(t, c.ContainsRecent(0x112233))

	// 0x112233 and 0x112CED hash to the same slot: the later insert
	// overwrites the earlier one.
	c.now = func() time.Time { return frozen }
	c.Insert(0x112233)
	c.Insert(0x112CED)
	require.False(t, c.ContainsRecent(0x112233))
	require.True(t, c.ContainsRecent(0x112CED))
}
