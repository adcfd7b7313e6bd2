package netfanout

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/dump1090/go1090/internal/format"
	"github.com/dump1090/go1090/internal/tracker"
)

// HTTPService serves the "/data.json" aircraft snapshot and a static map
// page (spec §4.7). Requests are parsed by hand rather than via net/http
// so the response headers and keep-alive defaults match spec exactly.
type HTTPService struct {
	ln     net.Listener
	log    *logrus.Entry
	sky    *tracker.Sky
	metric bool
}

// ListenHTTP binds addr and starts accepting HTTP clients.
func ListenHTTP(addr string, sky *tracker.Sky, metric bool, log *logrus.Entry) (*HTTPService, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s := &HTTPService{ln: ln, log: log, sky: sky, metric: metric}
	go s.acceptLoop()
	return s, nil
}

func (s *HTTPService) acceptLoop() {
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

func (s *HTTPService) serve(conn net.Conn) {
	defer func() {
		conn.Close()
		releaseSlot()
	}()

	br := bufio.NewReaderSize(conn, clientBufSize)
	for {
		requestLine, err := br.ReadString('\n')
		if err != nil {
			return
		}
		method, url, proto, ok := parseRequestLine(requestLine)
		if !ok {
			return
		}

		keepAlive := strings.HasPrefix(proto, "HTTP/1.1")
		for {
			line, err := br.ReadString('\n')
			if err != nil {
				return
			}
			trimmed := strings.TrimRight(line, "\r\n")
			if trimmed == "" {
				break
			}
			if strings.EqualFold(trimmed, "Connection: keep-alive") {
				keepAlive = true
			} else if strings.EqualFold(trimmed, "Connection: close") {
				keepAlive = false
			}
		}

		close := s.respond(conn, method, url, keepAlive)
		if close {
			return
		}
	}
}

func parseRequestLine(line string) (method, url, proto string, ok bool) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return "", "", "", false
	}
	return fields[0], fields[1], fields[2], true
}

// respond writes the HTTP response for one request (spec §4.7) and
// reports whether the connection should now be closed.
func (s *HTTPService) respond(conn net.Conn, method, url string, keepAlive bool) bool {
	var body []byte
	var contentType string

	if strings.Contains(url, "/data.json") {
		contentType = "application/json"
		snap, err := format.JSONSnapshot(s.sky.Snapshot(), s.metric)
		if err != nil {
			body = []byte("[]")
		} else {
			body = snap
		}
	} else {
		contentType = "text/html"
		data, err := os.ReadFile("gmap.html")
		if err != nil {
			body = []byte("gmap.html not found")
		} else {
			body = data
		}
	}

	connHeader := "close"
	if keepAlive {
		connHeader = "keep-alive"
	}

	resp := fmt.Sprintf("HTTP/1.1 200 OK\r\n"+
		"Server: Dump1090\r\n"+
		"Content-Type: %s\r\n"+
		"Connection: %s\r\n"+
		"Content-Length: %d\r\n"+
		"Access-Control-Allow-Origin: *\r\n"+
		"\r\n", contentType, connHeader, len(body))

	if _, err := conn.Write([]byte(resp)); err != nil {
		return true
	}
	if _, err := conn.Write(body); err != nil {
		return true
	}

	return !keepAlive
}

func (s *HTTPService) Close() error {
	return s.ln.Close()
}
