package netfanout

import (
	"bytes"
	"net"

	"github.com/sirupsen/logrus"

	"github.com/dump1090/go1090/internal/ingest"
)

// clientBufSize is the per-client read buffer (spec §3 Client entity,
// §4.7).
const clientBufSize = 1024

// FrameHandler receives one decoded frame's raw bytes.
type FrameHandler func([]byte)

// RawInService listens for clients that push "*HH..HH;\n" frames, per
// spec §4.7 ("For every Client on raw-in, read up to buffer-full...scan
// for \n-delimited frames").
type RawInService struct {
	ln      net.Listener
	log     *logrus.Entry
	handler FrameHandler
}

// ListenRawIn binds addr and starts accepting raw-in clients.
func ListenRawIn(addr string, handler FrameHandler, log *logrus.Entry) (*RawInService, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s := &RawInService{ln: ln, log: log, handler: handler}
	go s.acceptLoop()
	return s, nil
}

func (s *RawInService) acceptLoop() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		if !acquireSlot() {
			conn.Close()
			continue
		}
		setSendBuffer(conn)
		go s.serve(conn)
	}
}

func (s *RawInService) serve(conn net.Conn) {
	defer func() {
		conn.Close()
		releaseSlot()
	}()

	buf := make([]byte, 0, clientBufSize)
	scratch := make([]byte, clientBufSize)

	for {
		n, err := conn.Read(scratch)
		if err != nil {
			return
		}
		buf = append(buf, scratch[:n]...)
		if len(buf) > clientBufSize {
			// Buffer overflow: bad client, buffer cleared, connection kept
			// (spec §7).
			buf = buf[:0]
			continue
		}

		for {
			idx := bytes.IndexByte(buf, '\n')
			if idx < 0 {
				break
			}
			line := string(buf[:idx])
			buf = buf[idx+1:]

			if hexDigits, ok := ingest.ParseHexLine(line); ok {
				s.handler(ingest.HexToBytes(hexDigits))
			}
		}
	}
}

func (s *RawInService) Close() error {
	return s.ln.Close()
}
