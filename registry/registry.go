package registry

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/n0remac/camrelay/wire"
)

// ErrAlreadyPresent is returned by AttachProducer/AttachWorker when the
// singleton slot is already held.
var ErrAlreadyPresent = errors.New("registry: singleton role already occupied")

// ServoState is the shared pan/tilt/roll target, defaulting to {90,90,0}
// per §3.
type ServoState struct {
	Pan  int
	Tilt int
	Roll int
}

// DefaultServoState is the broker's startup ServoState.
func DefaultServoState() ServoState { return ServoState{Pan: 90, Tilt: 90, Roll: 0} }

// ServoDelta carries only the axes a servo_control message set; nil
// fields leave that axis unchanged (§8 invariant 6: the new state is the
// union of the prior state with the non-null fields of the request).
type ServoDelta struct {
	Pan  *int
	Tilt *int
	Roll *int
}

// Registry is the single process-wide owner of connection state. All
// mutation happens under one mutex — no nested locks, per §5.
type Registry struct {
	mu       sync.Mutex
	producer *Peer
	worker   *Peer
	viewers  map[string]*Peer
	servo    ServoState

	events chan *wire.Envelope
}

// New constructs an empty Registry. events is a small buffered channel
// of status broadcasts (producer attach/detach); the caller (typically
// cmd/broker's main loop) drains it and hands each envelope to the
// Broadcast Engine.
func New() *Registry {
	return &Registry{
		viewers: make(map[string]*Peer),
		servo:   DefaultServoState(),
		events:  make(chan *wire.Envelope, 16),
	}
}

// Events returns the channel of status envelopes the Registry emits on
// producer attach/detach.
func (r *Registry) Events() <-chan *wire.Envelope { return r.events }

func (r *Registry) emitStatus(status string) {
	env := &wire.Envelope{
		Type:      wire.KindStatus,
		Status:    status,
		Timestamp: wire.NowSeconds(),
	}
	select {
	case r.events <- env:
	default:
		// A full events channel means the consumer has stalled; dropping
		// here rather than blocking keeps Registry mutation non-blocking
		// under its own lock, matching §5's "no call blocks the loop".
	}
}

// AttachProducer installs p as the sole Producer, or reports
// ErrAlreadyPresent if one is already attached.
func (r *Registry) AttachProducer(p *Peer) error {
	r.mu.Lock()
	if r.producer != nil {
		r.mu.Unlock()
		return ErrAlreadyPresent
	}
	r.producer = p
	r.mu.Unlock()
	r.emitStatus("pi_connected")
	return nil
}

// AttachWorker installs w as the sole Worker, or reports
// ErrAlreadyPresent if one is already attached. Worker attach does not
// broadcast, per §4.3.
func (r *Registry) AttachWorker(w *Peer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.worker != nil {
		return ErrAlreadyPresent
	}
	r.worker = w
	return nil
}

// AttachViewer adds v to the viewer multiset and returns its assigned
// viewer ID.
func (r *Registry) AttachViewer(v *Peer) string {
	if v.ID == "" {
		v.ID = "viewer_" + uuid.NewString()
	}
	r.mu.Lock()
	r.viewers[v.ID] = v
	r.mu.Unlock()
	return v.ID
}

// Detach removes p from whichever slot it occupies. Idempotent: calling
// it twice, or on a peer that was never attached, is a no-op returning
// RoleNone the second time.
func (r *Registry) Detach(p *Peer) Role {
	if p == nil {
		return RoleNone
	}
	r.mu.Lock()
	role := RoleNone
	switch {
	case r.producer == p:
		r.producer = nil
		role = RoleProducer
	case r.worker == p:
		r.worker = nil
		role = RoleWorker
	default:
		if _, ok := r.viewers[p.ID]; ok {
			delete(r.viewers, p.ID)
			role = RoleViewer
		}
	}
	r.mu.Unlock()

	if role == RoleProducer {
		r.emitStatus("pi_disconnected")
	}
	return role
}

// Producer returns the attached Producer, or nil.
func (r *Registry) Producer() *Peer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.producer
}

// Worker returns the attached Worker, or nil.
func (r *Registry) Worker() *Peer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.worker
}

// Viewers returns a snapshot slice of the current viewer set. Safe to
// range over without holding the Registry lock.
func (r *Registry) Viewers() []*Peer {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Peer, 0, len(r.viewers))
	for _, v := range r.viewers {
		out = append(out, v)
	}
	return out
}

// ServoState returns a copy of the current servo target.
func (r *Registry) ServoState() ServoState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.servo
}

// ApplyServoControl updates the ServoState with delta's non-nil axes and
// returns the resulting state together with the attached Producer. ok is
// false (state left unchanged) if no Producer is attached, matching
// §6's "errors 'Pi not connected' if none". The mutation and the
// Producer lookup happen under the same lock so the returned state and
// producer are always a consistent pair for the caller to forward.
func (r *Registry) ApplyServoControl(delta ServoDelta) (state ServoState, producer *Peer, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.producer == nil {
		return r.servo, nil, false
	}
	if delta.Pan != nil {
		r.servo.Pan = *delta.Pan
	}
	if delta.Tilt != nil {
		r.servo.Tilt = *delta.Tilt
	}
	if delta.Roll != nil {
		r.servo.Roll = *delta.Roll
	}
	return r.servo, r.producer, true
}

// Counts returns the current viewer count and whether a Producer/Worker
// are attached, for the `status`/`request_status` response.
func (r *Registry) Counts() (viewers int, piConnected, wslConnected bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.viewers), r.producer != nil, r.worker != nil
}
