package ingest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseHexLineValid(t *testing.T) {
	digits, ok := ParseHexLine("*8D4840D6202CC371C32CE0576098;\n")
	require.True(t, ok)
	require.Equal(t, "8D4840D6202CC371C32CE0576098", digits)
}

func TestParseHexLineRejectsMissingDelimiters(t *testing.T) {
	_, ok := ParseHexLine("8D4840D6;")
	require.False(t, ok)

	_, ok = ParseHexLine("*8D4840D6")
	require.False(t, ok)
}

func TestParseHexLineRejectsOddDigitCount(t *testing.T) {
	_, ok := ParseHexLine("*8D484;")
	require.False(t, ok)
}

func TestParseHexLineRejectsNonHex(t *testing.T) {
	_, ok := ParseHexLine("*8DG84G;")
	require.False(t, ok)
}

func TestParseHexLineRejectsOversizedFrame(t *testing.T) {
	digits := ""
	for i := 0; i < 30; i++ {
		digits += "AB"
	}
	_, ok := ParseHexLine("*" + digits + ";")
	require.False(t, ok)
}

func TestHexToBytesRoundTrip(t *testing.T) {
	require.Equal(t, []byte{0x8D, 0x48, 0x40, 0xD6}, HexToBytes("8D4840D6"))
}

func TestLineAssemblerTruncatesOverflow(t *testing.T) {
	a := &lineAssembler{}
	var got string
	long := make([]byte, maxLineLen+10)
	for i := range long {
		long[i] = 'a'
	}
	for _, b := range long {
		a.feed(b, func(s string) { got = s })
	}
	a.feed('\n', func(s string) { got = s })
	require.Len(t, got, maxLineLen)
}
