package broadcast

import (
	"errors"
	"sync"
	"testing"

	"github.com/n0remac/camrelay/registry"
	"github.com/n0remac/camrelay/wire"
)

type fakeSender struct {
	mu      sync.Mutex
	sent    [][]byte
	failAll bool
	closed  bool
}

func (f *fakeSender) Send(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errors.New("boom")
	}
	f.sent = append(f.sent, data)
	return nil
}

func (f *fakeSender) Close(code int, reason string) error {
	f.closed = true
	return nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func TestDistributeDeliversToAllRecipients(t *testing.T) {
	reg := registry.New()
	var senders []*fakeSender
	var peers []*registry.Peer
	for i := 0; i < 5; i++ {
		s := &fakeSender{}
		p := registry.NewPeer("", registry.RoleViewer, "addr", s)
		reg.AttachViewer(p)
		senders = append(senders, s)
		peers = append(peers, p)
	}

	eng := New(reg)
	eng.Distribute(&wire.Envelope{Type: wire.KindStatus, Status: "pi_connected"}, reg.Viewers(), nil)

	for i, s := range senders {
		if s.count() != 1 {
			t.Errorf("viewer %d received %d messages, want 1", i, s.count())
		}
	}
}

func TestDistributeIsolatesFailures(t *testing.T) {
	reg := registry.New()
	good := &fakeSender{}
	bad := &fakeSender{failAll: true}
	goodPeer := registry.NewPeer("", registry.RoleViewer, "good", good)
	badPeer := registry.NewPeer("", registry.RoleViewer, "bad", bad)
	reg.AttachViewer(goodPeer)
	reg.AttachViewer(badPeer)

	eng := New(reg)
	eng.Distribute(&wire.Envelope{Type: wire.KindStatus, Status: "pi_connected"}, reg.Viewers(), nil)

	if good.count() != 1 {
		t.Errorf("good peer received %d messages, want 1", good.count())
	}
	if len(reg.Viewers()) != 1 {
		t.Fatalf("expected the failing peer to be detached, viewers = %d", len(reg.Viewers()))
	}
	if reg.Viewers()[0] != goodPeer {
		t.Errorf("remaining viewer should be the good peer")
	}
}

func TestDistributeExcludesSender(t *testing.T) {
	reg := registry.New()
	s1, s2 := &fakeSender{}, &fakeSender{}
	p1 := registry.NewPeer("", registry.RoleViewer, "p1", s1)
	p2 := registry.NewPeer("", registry.RoleViewer, "p2", s2)
	reg.AttachViewer(p1)
	reg.AttachViewer(p2)

	eng := New(reg)
	eng.Distribute(&wire.Envelope{Type: wire.KindTelemetry}, reg.Viewers(), p1)

	if s1.count() != 0 {
		t.Errorf("excluded peer received %d messages, want 0", s1.count())
	}
	if s2.count() != 1 {
		t.Errorf("included peer received %d messages, want 1", s2.count())
	}
}

func TestToViewersBytesForwardsOpaquePayloadVerbatim(t *testing.T) {
	reg := registry.New()
	s := &fakeSender{}
	p := registry.NewPeer("", registry.RoleViewer, "addr", s)
	reg.AttachViewer(p)

	// A telemetry payload carrying fields outside Envelope's known schema
	// must reach the viewer byte-for-byte, not just the fields Envelope
	// happens to model.
	raw := []byte(`{"type":"telemetry","battery_pct":87,"gps":{"lat":1.5,"lon":-2.25}}`)

	eng := New(reg)
	eng.ToViewersBytes(raw, nil)

	if s.count() != 1 {
		t.Fatalf("viewer received %d messages, want 1", s.count())
	}
	if string(s.sent[0]) != string(raw) {
		t.Errorf("forwarded payload = %s, want %s", s.sent[0], raw)
	}
}
