// Package session implements the Peer Session (§4.2): one reader loop
// and one writer loop per accepted connection, liveness via transport
// keepalive, and orderly close. It knows nothing about message
// semantics — decoding and dispatch are the caller's job (wire and the
// broker's handlers); Session only moves bytes.
package session

import (
	"errors"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Transport constants from §4.2/§6.
const (
	PingInterval      = 20 * time.Second
	PingTimeout       = 10 * time.Second
	MaxMessageSize    = 10 * 1024 * 1024 // 10 MiB
	InboundQueueDepth = 32
	outboundQueueDepth = 256
)

var ErrClosed = errors.New("session: closed")

// Upgrader is shared across all three endpoints, grounded on the
// teacher's websocket.Upgrader (origin check relaxed outside
// production, buffer sizes unchanged).
var Upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if os.Getenv("ENVIRONMENT") != "production" {
			return true
		}
		return r.Header.Get("X-Forwarded-Host") == r.Host
	},
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// Message is one inbound frame, still undecoded.
type Message struct {
	Kind int // websocket.TextMessage or websocket.BinaryMessage
	Data []byte
}

// Session is one live connection. RemoteAddr and ConnectedAt are fixed
// at construction; Send/Close are safe for concurrent use from any
// goroutine.
type Session struct {
	Conn        *websocket.Conn
	RemoteAddr  string
	ConnectedAt time.Time

	inbound  chan Message
	outbound chan []byte
	done     chan struct{}
	closeOnce sync.Once
}

// New wraps an upgraded websocket connection.
func New(conn *websocket.Conn, remoteAddr string) *Session {
	return &Session{
		Conn:        conn,
		RemoteAddr:  remoteAddr,
		ConnectedAt: time.Now(),
		inbound:     make(chan Message, InboundQueueDepth),
		outbound:    make(chan []byte, outboundQueueDepth),
		done:        make(chan struct{}),
	}
}

// Inbound is the channel of decoded-nothing-yet frames the reader loop
// fills; the caller ranges over it to dispatch. It is closed when
// ReadPump returns.
func (s *Session) Inbound() <-chan Message { return s.inbound }

// Done is closed once the session has started closing.
func (s *Session) Done() <-chan struct{} { return s.done }

// ReadPump reads frames until the connection errors or is closed,
// pushing each onto Inbound(). Overflowing the bounded inbound queue is
// a protocol violation: the session is closed rather than blocking the
// reader indefinitely. Call this in its own goroutine; it returns when
// the session ends.
func (s *Session) ReadPump() {
	defer func() {
		close(s.inbound)
		s.closeSocket()
	}()

	s.Conn.SetReadLimit(MaxMessageSize)
	s.resetReadDeadline()
	s.Conn.SetPongHandler(func(string) error {
		s.resetReadDeadline()
		return nil
	})

	for {
		kind, data, err := s.Conn.ReadMessage()
		if err != nil {
			return
		}
		select {
		case s.inbound <- Message{Kind: kind, Data: data}:
		default:
			log.Printf("session %s: inbound queue full, closing", s.RemoteAddr)
			s.Close(1008, "inbound queue overflow")
			return
		}
	}
}

func (s *Session) resetReadDeadline() {
	_ = s.Conn.SetReadDeadline(time.Now().Add(PingInterval + PingTimeout))
}

// WritePump serializes all outbound writes (messages and pings) on one
// goroutine, so per-peer write order matches enqueue order (§4.2, §5).
// Call this in its own goroutine; it returns when the session ends.
func (s *Session) WritePump() {
	ticker := time.NewTicker(PingInterval)
	defer func() {
		ticker.Stop()
		s.closeSocket()
	}()

	for {
		select {
		case data, ok := <-s.outbound:
			if !ok {
				return
			}
			_ = s.Conn.SetWriteDeadline(time.Now().Add(PingTimeout))
			if err := s.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.Conn.SetWriteDeadline(time.Now().Add(PingTimeout))
			if err := s.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

// Send enqueues data for the writer goroutine. It does not block: a
// full outbound queue means this peer isn't draining fast enough, and
// is reported as a send failure exactly like a transport error so the
// Broadcast Engine's detach-on-failure policy covers stalled peers too.
func (s *Session) Send(data []byte) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}
	select {
	case s.outbound <- data:
		return nil
	case <-s.done:
		return ErrClosed
	default:
		return errors.New("session: outbound queue full")
	}
}

// Close begins an orderly shutdown: it sends a close frame with code
// and reason, then signals both pumps to stop. Idempotent.
func (s *Session) Close(code int, reason string) error {
	var sendErr error
	s.closeOnce.Do(func() {
		close(s.done)
		msg := websocket.FormatCloseMessage(code, reason)
		_ = s.Conn.SetWriteDeadline(time.Now().Add(PingTimeout))
		sendErr = s.Conn.WriteMessage(websocket.CloseMessage, msg)
	})
	return sendErr
}

func (s *Session) closeSocket() {
	_ = s.Conn.Close()
}
