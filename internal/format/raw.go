// Package format renders decoded frames and tracked aircraft into the wire
// formats consumed by the network fan-out sinks (spec §4.8, §6): raw hex
// echo, BaseStation/SBS text, trajectory text, and JSON.
package format

import (
	"fmt"
	"strings"

	"github.com/dump1090/go1090/internal/modes"
)

// Raw renders a decoded frame as "*HH...HH;\n" (spec §4.8, §6).
func Raw(m *modes.Message) string {
	var b strings.Builder
	b.WriteByte('*')
	for _, by := range m.Bytes {
		fmt.Fprintf(&b, "%02X", by)
	}
	b.WriteString(";\n")
	return b.String()
}

// OnlyAddr renders just the 6-hex ICAO address, for --onlyaddr.
func OnlyAddr(m *modes.Message) string {
	return fmt.Sprintf("%06x\n", m.ICAO)
}
