// Package netfanout implements the five TCP sinks/sources (spec §4.7):
// raw-out, raw-in, HTTP, SBS-out and trajectory-out. The spec's
// opportunistic non-blocking accept/read loop is re-architected here as
// one goroutine per listener and one per connection, matching the
// observable wire protocol while using Go's native concurrency instead of
// a hand-rolled select() loop (spec §9, "Network loop without event
// library").
package netfanout

import (
	"net"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// MaxDescriptors bounds total concurrent client connections across every
// service (spec §4.7, §5).
const MaxDescriptors = 1024

// SendBufferBytes is the requested TCP send buffer size for accepted
// clients (spec §4.7).
const SendBufferBytes = 64 * 1024

// descriptorCount is shared across every BroadcastService/RawInService so
// the 1024 cap applies to the whole fan-out, not per-service.
var descriptorCount int64

func acquireSlot() bool {
	for {
		cur := atomic.LoadInt64(&descriptorCount)
		if cur >= MaxDescriptors {
			return false
		}
		if atomic.CompareAndSwapInt64(&descriptorCount, cur, cur+1) {
			return true
		}
	}
}

func releaseSlot() {
	atomic.AddInt64(&descriptorCount, -1)
}

// BroadcastService is a listening TCP service whose clients only ever
// receive data (raw-out, SBS-out, trajectory-out).
type BroadcastService struct {
	name string
	ln   net.Listener
	log  *logrus.Entry

	mu      sync.Mutex
	clients map[net.Conn]struct{}
}

// ListenBroadcast binds addr and returns a BroadcastService, or a fatal
// error (spec §7: listening-socket failure is fatal at startup).
func ListenBroadcast(name, addr string, log *logrus.Entry) (*BroadcastService, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s := &BroadcastService{name: name, ln: ln, log: log, clients: make(map[net.Conn]struct{})}
	go s.acceptLoop()
	return s, nil
}

func (s *BroadcastService) acceptLoop() {
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
		s.mu.Lock()
		s.clients[conn] = struct{}{}
		s.mu.Unlock()
		s.log.WithField("service", s.name).Debug("client connected")
	}
}

// Broadcast writes data to every connected client with a single Write
// call; any error frees that client (spec §4.7: "no retries, no partial
// write accounting").
func (s *BroadcastService) Broadcast(data []byte) {
	if len(data) == 0 {
		return
	}
	s.mu.Lock()
	dead := make([]net.Conn, 0)
	for c := range s.clients {
		if _, err := c.Write(data); err != nil {
			dead = append(dead, c)
		}
	}
	for _, c := range dead {
		delete(s.clients, c)
	}
	s.mu.Unlock()

	for _, c := range dead {
		c.Close()
		releaseSlot()
	}
}

// ClientCount reports the number of currently connected clients.
func (s *BroadcastService) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Close stops accepting and drops every client.
func (s *BroadcastService) Close() error {
	err := s.ln.Close()
	s.mu.Lock()
	for c := range s.clients {
		c.Close()
		releaseSlot()
	}
	s.clients = make(map[net.Conn]struct{})
	s.mu.Unlock()
	return err
}

func setSendBuffer(conn net.Conn) {
	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.SetWriteBuffer(SendBufferBytes)
	}
}
