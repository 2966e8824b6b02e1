package registry

import "testing"

type noopSender struct {
	closed   bool
	code     int
	reason   string
	sent     [][]byte
	sendErr  error
}

func (s *noopSender) Send(data []byte) error {
	s.sent = append(s.sent, data)
	return s.sendErr
}

func (s *noopSender) Close(code int, reason string) error {
	s.closed = true
	s.code = code
	s.reason = reason
	return nil
}

func TestAttachProducerSingleton(t *testing.T) {
	r := New()
	p1 := NewPeer("", RoleProducer, "1.2.3.4", &noopSender{})
	p2 := NewPeer("", RoleProducer, "5.6.7.8", &noopSender{})

	if err := r.AttachProducer(p1); err != nil {
		t.Fatalf("first attach: %v", err)
	}
	if err := r.AttachProducer(p2); err != ErrAlreadyPresent {
		t.Fatalf("second attach err = %v, want ErrAlreadyPresent", err)
	}
	if r.Producer() != p1 {
		t.Fatalf("Producer() should still be p1")
	}
}

func TestAttachProducerEmitsStatusEvents(t *testing.T) {
	r := New()
	p := NewPeer("", RoleProducer, "1.2.3.4", &noopSender{})

	if err := r.AttachProducer(p); err != nil {
		t.Fatalf("attach: %v", err)
	}
	ev := <-r.Events()
	if ev.Status != "pi_connected" {
		t.Errorf("status = %q, want pi_connected", ev.Status)
	}

	if role := r.Detach(p); role != RoleProducer {
		t.Errorf("Detach role = %v, want RoleProducer", role)
	}
	ev2 := <-r.Events()
	if ev2.Status != "pi_disconnected" {
		t.Errorf("status = %q, want pi_disconnected", ev2.Status)
	}
}

func TestDetachIsIdempotent(t *testing.T) {
	r := New()
	p := NewPeer("", RoleProducer, "1.2.3.4", &noopSender{})
	_ = r.AttachProducer(p)
	<-r.Events()

	if role := r.Detach(p); role != RoleProducer {
		t.Fatalf("first detach = %v, want RoleProducer", role)
	}
	if role := r.Detach(p); role != RoleNone {
		t.Fatalf("second detach = %v, want RoleNone", role)
	}
}

func TestAttachViewerAssignsID(t *testing.T) {
	r := New()
	v := NewPeer("", RoleViewer, "9.9.9.9", &noopSender{})
	id := r.AttachViewer(v)
	if id == "" {
		t.Fatal("AttachViewer returned empty id")
	}
	if len(r.Viewers()) != 1 {
		t.Fatalf("Viewers() len = %d, want 1", len(r.Viewers()))
	}
	if role := r.Detach(v); role != RoleViewer {
		t.Errorf("Detach role = %v, want RoleViewer", role)
	}
}

func TestApplyServoControlRequiresProducer(t *testing.T) {
	r := New()
	pan := 45
	_, producer, ok := r.ApplyServoControl(ServoDelta{Pan: &pan})
	if ok {
		t.Fatal("ApplyServoControl should fail with no producer attached")
	}
	if producer != nil {
		t.Fatal("producer should be nil")
	}
}

func TestApplyServoControlUnionsNonNilFields(t *testing.T) {
	r := New()
	p := NewPeer("", RoleProducer, "1.2.3.4", &noopSender{})
	_ = r.AttachProducer(p)
	<-r.Events()

	pan, tilt := 45, 60
	state, producer, ok := r.ApplyServoControl(ServoDelta{Pan: &pan, Tilt: &tilt})
	if !ok {
		t.Fatal("ApplyServoControl should succeed with producer attached")
	}
	if producer != p {
		t.Fatal("producer should be the attached peer")
	}
	if state.Pan != 45 || state.Tilt != 60 || state.Roll != 0 {
		t.Errorf("state = %+v, want {45 60 0}", state)
	}

	roll := 10
	state2, _, _ := r.ApplyServoControl(ServoDelta{Roll: &roll})
	if state2.Pan != 45 || state2.Tilt != 60 || state2.Roll != 10 {
		t.Errorf("state2 = %+v, want {45 60 10} (non-updated axes preserved)", state2)
	}
}
