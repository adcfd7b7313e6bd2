package format

import (
	"fmt"
	"os"
	"sync"

	"github.com/dump1090/go1090/internal/modes"
)

// DebugJSSink appends frame dumps to frames.js as
// "frames.push({descr, mag, fix1, fix2, bits, hex});" lines, for the `j`
// --debug category (spec §6).
type DebugJSSink struct {
	mu sync.Mutex
	f  *os.File
}

// OpenDebugJSSink opens (creating/appending) frames.js in the working
// directory.
func OpenDebugJSSink() (*DebugJSSink, error) {
	f, err := os.OpenFile("frames.js", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &DebugJSSink{f: f}, nil
}

// Write appends one frame entry.
func (s *DebugJSSink) Write(m *modes.Message, descr string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hex := ""
	for _, b := range m.Bytes {
		hex += fmt.Sprintf("%02X", b)
	}

	fix1, fix2 := -1, -1
	if m.Corrected {
		fix1 = m.ErrorBit & 0xff
		fix2 = (m.ErrorBit >> 8) & 0xff
		if fix2 == 0 {
			fix2 = -1
		}
	}

	fmt.Fprintf(s.f, "frames.push({descr: %q, mag: 0, fix1: %d, fix2: %d, bits: %d, hex: %q});\n",
		descr, fix1, fix2, m.BitLength, hex)
}

// Close flushes and closes the underlying file.
func (s *DebugJSSink) Close() error {
	return s.f.Close()
}
