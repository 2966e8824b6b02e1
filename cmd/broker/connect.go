package main

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/n0remac/camrelay/metrics"
	"github.com/n0remac/camrelay/registry"
	"github.com/n0remac/camrelay/rlog"
	"github.com/n0remac/camrelay/router"
	"github.com/n0remac/camrelay/session"
	"github.com/n0remac/camrelay/wire"
)

// handleConnect is the single entry point for every websocket endpoint.
// It enforces the rate limit, classifies the path, upgrades the socket,
// enforces singleton exclusivity, performs the connected/welcome
// handshake, and then hands off to the role-specific read loop.
func (s *server) handleConnect(w http.ResponseWriter, r *http.Request) {
	addr := clientIP(r)
	if !s.limiter.Allow(addr, time.Now()) {
		metrics.RateLimitRejections.Inc()
		s.audit.Record("unknown", addr, "rate_limited", r.URL.Path)
		s.rejectWithMessage(w, r, "Rate limit exceeded")
		return
	}

	endpoint := router.Classify(r.URL.Path)
	if endpoint == router.EndpointUnsupported {
		s.rejectUpgradeOnly(w, r, "Unsupported endpoint")
		return
	}

	conn, err := session.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		rlog.Error("upgrade failed", err, map[string]any{"path": r.URL.Path})
		return
	}
	sess := session.New(conn, addr)

	switch endpoint {
	case router.EndpointViewer:
		s.acceptViewer(sess)
	case router.EndpointProducer:
		s.acceptProducer(sess)
	case router.EndpointWorker:
		s.acceptWorker(sess)
	}
}

// rejectWithMessage upgrades the connection (so a JSON error frame can
// be delivered, per §4.4) and then closes it with a policy-violation
// code.
func (s *server) rejectWithMessage(w http.ResponseWriter, r *http.Request, reason string) {
	conn, err := session.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	sess := session.New(conn, clientIP(r))
	if data, err := wire.Encode(&wire.Envelope{Type: wire.KindError, Error: reason}); err == nil {
		_ = conn.SetWriteDeadline(time.Now().Add(session.PingTimeout))
		_ = conn.WriteMessage(websocket.TextMessage, data)
	}
	_ = sess.Close(1008, reason)
	_ = conn.Close()
}

// rejectUpgradeOnly closes with a policy-violation code without a
// preceding JSON error frame (unsupported endpoints never had a
// protocol to speak).
func (s *server) rejectUpgradeOnly(w http.ResponseWriter, r *http.Request, reason string) {
	conn, err := session.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	sess := session.New(conn, clientIP(r))
	go sess.WritePump()
	_ = sess.Close(1008, reason)
}

func (s *server) sendToSession(sess *session.Session, env *wire.Envelope) error {
	data, err := wire.Encode(env)
	if err != nil {
		return err
	}
	return sess.Send(data)
}

func (s *server) acceptViewer(sess *session.Session) {
	peer := registry.NewPeer("", registry.RoleViewer, sess.RemoteAddr, sess)
	id := s.reg.AttachViewer(peer)
	peer.ID = id
	metrics.ViewersConnected.Inc()
	s.audit.Record("viewer", sess.RemoteAddr, "attach", id)

	go sess.WritePump()
	go sess.ReadPump()

	s.sendHandshake(peer)
	s.handleViewer(sess, peer)

	s.reg.Detach(peer)
	metrics.ViewersConnected.Dec()
	s.audit.Record("viewer", sess.RemoteAddr, "detach", id)
}

func (s *server) acceptProducer(sess *session.Session) {
	peer := registry.NewPeer("producer", registry.RoleProducer, sess.RemoteAddr, sess)
	if err := s.reg.AttachProducer(peer); err != nil {
		s.audit.Record("producer", sess.RemoteAddr, "rejected_singleton", "")
		go sess.WritePump()
		_ = sess.Close(1008, "Another Pi is already connected")
		return
	}
	metrics.ProducerConnected.Set(1)
	s.audit.Record("producer", sess.RemoteAddr, "attach", "")

	go sess.WritePump()
	go sess.ReadPump()

	s.sendHandshake(peer)
	s.handleProducer(sess, peer)

	s.reg.Detach(peer)
	metrics.ProducerConnected.Set(0)
	s.audit.Record("producer", sess.RemoteAddr, "detach", "")
}

func (s *server) acceptWorker(sess *session.Session) {
	peer := registry.NewPeer("worker", registry.RoleWorker, sess.RemoteAddr, sess)
	if err := s.reg.AttachWorker(peer); err != nil {
		s.audit.Record("worker", sess.RemoteAddr, "rejected_singleton", "")
		go sess.WritePump()
		_ = sess.Close(1008, "Another WSL processor is already connected")
		return
	}
	metrics.WorkerConnected.Set(1)
	s.audit.Record("worker", sess.RemoteAddr, "attach", "")

	go sess.WritePump()
	go sess.ReadPump()

	s.sendHandshake(peer)
	s.handleWorker(sess, peer)

	s.reg.Detach(peer)
	metrics.WorkerConnected.Set(0)
	s.audit.Record("worker", sess.RemoteAddr, "detach", "")
}

// sendHandshake delivers the immediate post-accept "connected" message
// (§4.2). A subsequent "hello" gets "welcome" from the role's own
// dispatch loop.
func (s *server) sendHandshake(peer *registry.Peer) {
	_ = s.sendTo(peer, &wire.Envelope{
		Type:       wire.KindConnected,
		ClientID:   peer.ID,
		ServerTime: wire.NowSeconds(),
	})
}

// ignoreBinary logs and drops a binary frame from a role that should
// never send one (only the Producer's uplink carries binary, §4.1).
func ignoreBinary(role string, remoteAddr string) {
	rlog.Warn("unexpected binary frame", map[string]any{"role": role, "remote_addr": remoteAddr})
}
