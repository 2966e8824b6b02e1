// Package registry holds the process-wide connection state: the
// singleton Producer and Worker slots, the Viewer multiset, and the
// shared ServoState, all guarded by one lock per §4.3 and §5.
package registry

import (
	"sync/atomic"
	"time"
)

// Role identifies which of the three peer kinds a connection plays.
type Role int

const (
	RoleNone Role = iota
	RoleProducer
	RoleWorker
	RoleViewer
)

func (r Role) String() string {
	switch r {
	case RoleProducer:
		return "producer"
	case RoleWorker:
		return "worker"
	case RoleViewer:
		return "viewer"
	default:
		return "none"
	}
}

// Sender is the outbound half of a peer session: whatever runs the
// per-connection writer implements this so the Registry and the
// Broadcast Engine never need to know about websockets directly.
type Sender interface {
	Send(data []byte) error
	Close(code int, reason string) error
}

// Peer is one live connection, from accept until the socket is fully
// closed. LastActive and FramesSent are touched from the session's
// reader/writer goroutines, so they're atomics rather than
// lock-guarded fields.
type Peer struct {
	ID          string
	Role        Role
	RemoteAddr  string
	ConnectedAt time.Time

	lastActive atomic.Int64
	framesSent atomic.Uint64

	sender Sender
}

// NewPeer wraps a Sender with the identity and bookkeeping fields the
// Registry and Broadcast Engine need.
func NewPeer(id string, role Role, remoteAddr string, sender Sender) *Peer {
	p := &Peer{
		ID:          id,
		Role:        role,
		RemoteAddr:  remoteAddr,
		ConnectedAt: time.Now(),
		sender:      sender,
	}
	p.Touch()
	return p
}

// Touch records activity now; called by the session reader on every
// inbound message.
func (p *Peer) Touch() { p.lastActive.Store(time.Now().UnixNano()) }

func (p *Peer) LastActive() time.Time { return time.Unix(0, p.lastActive.Load()) }

func (p *Peer) IncFramesSent() { p.framesSent.Add(1) }

func (p *Peer) FramesSent() uint64 { return p.framesSent.Load() }

// Send dispatches bytes to this peer's writer. Errors are the caller's
// business to interpret (the Broadcast Engine treats them as a detach
// signal; a single request/response handler just logs).
func (p *Peer) Send(data []byte) error { return p.sender.Send(data) }

// Close closes the underlying connection with a close code and reason.
func (p *Peer) Close(code int, reason string) error { return p.sender.Close(code, reason) }
