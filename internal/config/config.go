// Package config defines the CLI flag table (spec §6) using pflag for
// GNU-style long options, and the serial-device-name rewrite rule that
// crosses into the core.
package config

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// Default network ports (spec §4.7).
const (
	DefaultRawOutPort  = 30002
	DefaultRawInPort   = 30001
	DefaultHTTPPort    = 8080
	DefaultSBSPort     = 30003
	DefaultTrajPort    = 30004
	DefaultSerialBaud  = 3000000
	DefaultInteractRow = 15
	DefaultTTLSeconds  = 60
)

// Debug bitmask flags (spec §6).
const (
	DebugDemod      = 1 << iota // D
	DebugDemodVerb               // d
	DebugNoDiscard               // C (kept for parity with upstream naming)
	DebugCRCCheck                // c
	DebugPhaseCorr               // p
	DebugNoPreamble              // n
	DebugJS                      // j
)

// Config holds every flag named in spec §6's effect table.
type Config struct {
	SerialName string
	SerialSpeed int
	SerialParity bool

	FilePath string

	RTLAdsbExec string

	Net       bool
	NetOnly   bool
	RawOutPort int
	RawInPort  int
	HTTPPort   int
	SBSPort    int
	TrajPort   int

	NoFix      bool
	NoCRCCheck bool
	Aggressive bool

	Raw      bool
	OnlyAddr bool

	Interactive     bool
	InteractiveRows int
	InteractiveTTL  int

	Metric bool
	Stats  bool

	Debug int

	fs *pflag.FlagSet
}

// Parse builds a Config from CLI args using pflag, per spec §6. It does
// not handle --list/--help/--snip (external collaborators).
func Parse(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("dump1090", pflag.ContinueOnError)
	c := &Config{fs: fs}

	fs.StringVar(&c.SerialName, "name", "", "serial device path")
	fs.IntVar(&c.SerialSpeed, "speed", DefaultSerialBaud, "serial baud rate")
	fs.BoolVar(&c.SerialParity, "parity", false, "enable serial parity")

	fs.StringVar(&c.FilePath, "file", "", "read hex records from file ('-' for stdin)")
	fs.StringVar(&c.RTLAdsbExec, "rtl-adsb-exec", "", "path to an rtl_adsb-compatible binary to use as input")

	fs.BoolVar(&c.Net, "net", false, "enable TCP network services")
	fs.BoolVar(&c.NetOnly, "net-only", false, "enable TCP services, skip serial/file input")
	fs.IntVar(&c.RawOutPort, "net-ro-port", DefaultRawOutPort, "raw output TCP port")
	fs.IntVar(&c.RawInPort, "net-ri-port", DefaultRawInPort, "raw input TCP port")
	fs.IntVar(&c.HTTPPort, "net-http-port", DefaultHTTPPort, "HTTP TCP port")
	fs.IntVar(&c.SBSPort, "net-sbs-port", DefaultSBSPort, "SBS output TCP port")
	fs.IntVar(&c.TrajPort, "net-trj-port", DefaultTrajPort, "trajectory output TCP port")

	fs.BoolVar(&c.NoFix, "no-fix", false, "disable single-bit CRC repair")
	fs.BoolVar(&c.NoCRCCheck, "no-crc-check", false, "emit messages regardless of CRC")
	fs.BoolVar(&c.Aggressive, "aggressive", false, "enable two-bit repair for DF17")

	fs.BoolVar(&c.Raw, "raw", false, "print only raw *...; lines")
	fs.BoolVar(&c.OnlyAddr, "onlyaddr", false, "print only 6-hex ICAO addresses")

	fs.BoolVar(&c.Interactive, "interactive", false, "enable live table")
	fs.IntVar(&c.InteractiveRows, "interactive-rows", DefaultInteractRow, "live table max rows")
	fs.IntVar(&c.InteractiveTTL, "interactive-ttl", DefaultTTLSeconds, "live table aircraft TTL seconds")

	fs.BoolVar(&c.Metric, "metric", false, "convert output units to metric")
	fs.BoolVar(&c.Stats, "stats", false, "with --file, print decoded count on exit")

	var debugFlags string
	fs.StringVar(&debugFlags, "debug", "", "debug trace categories, as a letter string (D d C c p n j)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	c.SerialName = RewriteSerialName(c.SerialName)
	c.Debug = parseDebugFlags(debugFlags)

	return c, nil
}

// debugLetters maps each --debug letter to its bit (spec §6), mirroring
// dump1090.c's own "Dj"-style debug argument.
var debugLetters = map[byte]int{
	'D': DebugDemod,
	'd': DebugDemodVerb,
	'C': DebugNoDiscard,
	'c': DebugCRCCheck,
	'p': DebugPhaseCorr,
	'n': DebugNoPreamble,
	'j': DebugJS,
}

func parseDebugFlags(s string) int {
	var bits int
	for i := 0; i < len(s); i++ {
		bits |= debugLetters[s[i]]
	}
	return bits
}

// comPattern matches Windows-style serial device names (case-insensitive).
var comPattern = regexp.MustCompile(`(?i)^com(\d+)$`)

// RewriteSerialName rewrites "comN"/"COMN" to "/dev/ttyS{N-1}" (spec §6);
// any other path is returned unchanged. This is the one slice of serial
// handling that crosses into the core per spec §1.
func RewriteSerialName(name string) string {
	m := comPattern.FindStringSubmatch(strings.TrimSpace(name))
	if m == nil {
		return name
	}
	n := 0
	for _, r := range m[1] {
		n = n*10 + int(r-'0')
	}
	if n <= 0 {
		return name
	}
	return "/dev/ttyS" + strconv.Itoa(n-1)
}
