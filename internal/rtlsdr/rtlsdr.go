// Package rtlsdr launches an external rtl_adsb-compatible binary and
// exposes its stdout as an io.ReadCloser of "*HEX;\n" records, so it can
// feed the same ingest.Reader pipeline as a serial device or file (spec
// §1, §4.6). dump1090.c historically drove an RTL-SDR dongle directly
// through librtlsdr; this is the subprocess-based equivalent for a Go
// build with no cgo dependency on librtlsdr.
package rtlsdr

import (
	"fmt"
	"io"
	"os/exec"
)

// Source wraps a running rtl_adsb-compatible child process.
type Source struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
}

// Open starts execPath and returns its stdout pipe as the input source.
// The child is expected to emit dump1090's own "*HEX;\n" wire format, one
// frame per line, exactly as rtl_adsb does.
func Open(execPath string, args ...string) (*Source, error) {
	cmd := exec.Command(execPath, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("rtlsdr: stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("rtlsdr: start %s: %w", execPath, err)
	}
	return &Source{cmd: cmd, stdout: stdout}, nil
}

// Read satisfies io.Reader, delegating to the child's stdout.
func (s *Source) Read(p []byte) (int, error) {
	return s.stdout.Read(p)
}

// Close terminates the child process.
func (s *Source) Close() error {
	s.stdout.Close()
	if s.cmd.Process != nil {
		return s.cmd.Process.Kill()
	}
	return nil
}
