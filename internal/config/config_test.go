package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRewriteSerialNameComPort(t *testing.T) {
	require.Equal(t, "/dev/ttyS0", RewriteSerialName("com1"))
	require.Equal(t, "/dev/ttyS3", RewriteSerialName("COM4"))
}

func TestRewriteSerialNamePassesThroughOther(t *testing.T) {
	require.Equal(t, "/dev/ttyUSB0", RewriteSerialName("/dev/ttyUSB0"))
	require.Equal(t, "", RewriteSerialName(""))
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	require.Equal(t, DefaultSerialBaud, cfg.SerialSpeed)
	require.Equal(t, DefaultRawOutPort, cfg.RawOutPort)
	require.False(t, cfg.Net)
}

func TestParseFlags(t *testing.T) {
	cfg, err := Parse([]string{"--net", "--aggressive", "--debug", "Dj"})
	require.NoError(t, err)
	require.True(t, cfg.Net)
	require.True(t, cfg.Aggressive)
	require.Equal(t, DebugDemod|DebugJS, cfg.Debug)
}

func TestParseDebugFlagsUnknownLettersIgnored(t *testing.T) {
	require.Equal(t, DebugDemodVerb, parseDebugFlags("dz"))
}
