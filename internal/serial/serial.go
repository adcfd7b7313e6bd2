//go:build linux

// Package serial is the thin slice of serial port handling that crosses
// into the core (spec §1, §6): opening the rewritten device path at the
// configured baud. Full termios configuration is an external collaborator;
// this just gives the CLI's --name/--speed/--parity flags somewhere to
// land so the flag table in spec §6 has a real implementation behind it.
package serial

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Open opens path as a serial device at the given baud, applying parity
// if requested. Returns a fatal error on failure (spec §7).
func Open(path string, baud int, parity bool) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open serial device %s: %w", path, err)
	}

	if err := configureTermios(f, baud, parity); err != nil {
		f.Close()
		return nil, fmt.Errorf("configure serial device %s: %w", path, err)
	}

	return f, nil
}

// configureTermios applies raw mode plus the requested baud/parity via
// termios ioctls.
func configureTermios(f *os.File, baud int, parity bool) error {
	t, err := unix.IoctlGetTermios(int(f.Fd()), unix.TCGETS)
	if err != nil {
		return err
	}

	t.Cflag |= unix.CREAD | unix.CLOCAL
	t.Lflag &^= unix.ICANON | unix.ECHO | unix.ECHOE | unix.ISIG
	if parity {
		t.Cflag |= unix.PARENB
	} else {
		t.Cflag &^= unix.PARENB
	}

	if rate, ok := baudRates[baud]; ok {
		t.Ispeed = rate
		t.Ospeed = rate
	}

	return unix.IoctlSetTermios(int(f.Fd()), unix.TCSETS, t)
}

// baudRates maps the handful of rates --speed is realistically given to
// the termios B-constants; an unrecognised rate leaves the device's
// current speed untouched rather than failing the whole open.
var baudRates = map[int]uint32{
	9600:    unix.B9600,
	19200:   unix.B19200,
	38400:   unix.B38400,
	57600:   unix.B57600,
	115200:  unix.B115200,
	230400:  unix.B230400,
	460800:  unix.B460800,
	921600:  unix.B921600,
	3000000: unix.B3000000,
}
