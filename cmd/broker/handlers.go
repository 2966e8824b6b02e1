package main

import (
	"encoding/base64"

	"github.com/gorilla/websocket"

	"github.com/n0remac/camrelay/metrics"
	"github.com/n0remac/camrelay/registry"
	"github.com/n0remac/camrelay/rlog"
	"github.com/n0remac/camrelay/session"
	"github.com/n0remac/camrelay/wire"
)

// handleViewer is the Viewer role's read loop: ping/hello/servo_control/
// request_status per §6's control-message table. It returns when the
// session's reader stops (socket closed or protocol violation).
func (s *server) handleViewer(sess *session.Session, peer *registry.Peer) {
	for msg := range sess.Inbound() {
		peer.Touch()
		if msg.Kind == websocket.BinaryMessage {
			ignoreBinary("viewer", peer.RemoteAddr)
			continue
		}
		env, err := wire.Decode(msg.Data)
		if err != nil {
			metrics.DecodeFailures.WithLabelValues("json").Inc()
			rlog.Error("viewer: decode failed", err, map[string]any{"remote_addr": peer.RemoteAddr})
			continue
		}

		switch env.Type {
		case wire.KindPing:
			s.replyPong(peer)
		case wire.KindHello:
			s.replyWelcome(peer)
		case wire.KindServoControl:
			s.handleServoControl(peer, env)
		case wire.KindRequestStatus:
			s.replyStatus(peer)
		default:
			if !wire.IsKnown(env.Type) {
				rlog.Info("viewer: unknown message type", map[string]any{"type": env.Type})
			}
		}
	}
}

// handleProducer is the Producer role's read loop: binary video frames,
// JSON frame ingestion, telemetry pass-through, and the shared hello/
// ping handshake messages.
func (s *server) handleProducer(sess *session.Session, peer *registry.Peer) {
	for msg := range sess.Inbound() {
		peer.Touch()
		if msg.Kind == websocket.BinaryMessage {
			s.handleProducerBinaryFrame(peer, msg.Data)
			continue
		}

		env, err := wire.Decode(msg.Data)
		if err != nil {
			metrics.DecodeFailures.WithLabelValues("json").Inc()
			rlog.Error("producer: decode failed", err, map[string]any{"remote_addr": peer.RemoteAddr})
			continue
		}

		switch env.Type {
		case wire.KindFrame:
			s.handleProducerJSONFrame(peer, env)
		case wire.KindTelemetry:
			// Forwarded opaquely: the source broadcasts telemetry verbatim
			// without validating its shape, so this relays the original
			// bytes rather than round-tripping through Envelope's fixed
			// known-field schema (which would drop anything outside it).
			s.bcast.ToViewersBytes(env.Raw(), nil)
		case wire.KindHello:
			s.replyWelcome(peer)
		case wire.KindPing:
			s.replyPong(peer)
		default:
			if !wire.IsKnown(env.Type) {
				rlog.Info("producer: unknown message type", map[string]any{"type": env.Type})
			}
		}
	}
}

// handleWorker is the Worker role's read loop: processed_frame results
// plus the shared hello/ping handshake messages.
func (s *server) handleWorker(sess *session.Session, peer *registry.Peer) {
	for msg := range sess.Inbound() {
		peer.Touch()
		if msg.Kind == websocket.BinaryMessage {
			ignoreBinary("worker", peer.RemoteAddr)
			continue
		}
		env, err := wire.Decode(msg.Data)
		if err != nil {
			metrics.DecodeFailures.WithLabelValues("json").Inc()
			rlog.Error("worker: decode failed", err, map[string]any{"remote_addr": peer.RemoteAddr})
			continue
		}

		switch env.Type {
		case wire.KindProcessedFrame:
			s.handleProcessedFrame(env)
		case wire.KindHello:
			s.replyWelcome(peer)
		case wire.KindPing:
			s.replyPong(peer)
		default:
			if !wire.IsKnown(env.Type) {
				rlog.Info("worker: unknown message type", map[string]any{"type": env.Type})
			}
		}
	}
}

func (s *server) replyPong(peer *registry.Peer) {
	_ = s.sendTo(peer, &wire.Envelope{Type: wire.KindPong, ServerTime: wire.NowSeconds()})
}

func (s *server) replyWelcome(peer *registry.Peer) {
	_, piConnected, wslConnected := s.reg.Counts()
	_ = s.sendTo(peer, &wire.Envelope{
		Type:                  wire.KindWelcome,
		ServerTime:            wire.NowSeconds(),
		PiConnected:           piConnected,
		WslConnected:          wslConnected,
		BinaryFramesSupported: true,
	})
}

func (s *server) replyStatus(peer *registry.Peer) {
	viewers, piConnected, wslConnected := s.reg.Counts()
	state := s.reg.ServoState()
	_ = s.sendTo(peer, &wire.Envelope{
		Type:         wire.KindStatus,
		Status:       "ok",
		Timestamp:    wire.NowSeconds(),
		Viewers:      viewers,
		PiConnected:  piConnected,
		WslConnected: wslConnected,
		State:        map[string]int{"pan": state.Pan, "tilt": state.Tilt, "roll": state.Roll},
	})
}

// handleServoControl updates ServoState and forwards the move to the
// Producer, atomically with the registry mutation (§3, §6).
func (s *server) handleServoControl(peer *registry.Peer, env *wire.Envelope) {
	delta := registry.ServoDelta{Pan: env.Pan, Tilt: env.Tilt, Roll: env.Roll}
	state, producer, ok := s.reg.ApplyServoControl(delta)
	if !ok {
		_ = s.sendTo(peer, &wire.Envelope{Type: wire.KindError, Error: "Pi not connected"})
		return
	}

	params := map[string]int{"pan": state.Pan, "tilt": state.Tilt, "roll": state.Roll}
	_ = s.sendTo(producer, &wire.Envelope{Type: wire.KindControl, Action: "move_servos", Params: params})
	_ = s.sendTo(peer, &wire.Envelope{Type: wire.KindServoUpdated, State: params})
}

// handleProducerBinaryFrame decodes a binary producer frame, fans it
// out to viewers, and — if a Worker is attached — tees a copy into the
// pipeline (§4.1, §4.6).
func (s *server) handleProducerBinaryFrame(peer *registry.Peer, data []byte) {
	bf, err := wire.DecodeBinaryFrame(data)
	if err != nil {
		metrics.DecodeFailures.WithLabelValues("binary").Inc()
		rlog.Error("producer: binary decode failed", err, map[string]any{"remote_addr": peer.RemoteAddr})
		return
	}

	peer.IncFramesSent()
	metrics.FramesRelayed.Inc()
	s.bcast.ToViewers(bf.ToFrameEnvelope(false), nil)

	worker := s.reg.Worker()
	if worker == nil {
		return
	}

	if !s.pipe.Admit(bf.FrameID, float64(bf.Timestamp)) {
		metrics.PipelineDropped.Inc()
		rlog.Warn("pipeline: admission timed out, dropping frame", map[string]any{"frame_id": bf.FrameID})
		return
	}
	metrics.PipelineAdmitted.Inc()

	ftp := &wire.Envelope{Type: wire.KindFrameToProcess, FrameID: bf.FrameID, Timestamp: float64(bf.Timestamp)}
	if bf.HasColor {
		ftp.Image = base64.StdEncoding.EncodeToString(bf.Color)
	}
	if bf.HasDepth {
		ftp.DepthData = base64.StdEncoding.EncodeToString(bf.Depth)
		ftp.DepthScale = bf.DepthScale
	}
	if err := s.sendTo(worker, ftp); err != nil {
		s.pipe.Abandon(bf.FrameID)
		metrics.PipelineDropped.Inc()
		rlog.Warn("pipeline: worker send failed, abandoning frame", map[string]any{"frame_id": bf.FrameID, "err": err.Error()})
	}
}

// handleProducerJSONFrame is the JSON-frame ingestion path (producers
// that never speak the binary format at all), mirrored against the
// same fan-out/pipeline logic as the binary path.
func (s *server) handleProducerJSONFrame(peer *registry.Peer, env *wire.Envelope) {
	peer.IncFramesSent()
	metrics.FramesRelayed.Inc()

	viewerEnv := &wire.Envelope{
		Type:       wire.KindFrame,
		FrameID:    env.FrameID,
		Timestamp:  env.Timestamp,
		Image:      env.Image,
		DepthData:  env.DepthData,
		DepthScale: env.DepthScale,
		Width:      env.Width,
		Height:     env.Height,
		CameraInfo: env.CameraInfo,
	}
	s.bcast.ToViewers(viewerEnv, nil)

	worker := s.reg.Worker()
	if worker == nil {
		return
	}

	if !s.pipe.Admit(env.FrameID, env.Timestamp) {
		metrics.PipelineDropped.Inc()
		rlog.Warn("pipeline: admission timed out, dropping frame", map[string]any{"frame_id": env.FrameID})
		return
	}
	metrics.PipelineAdmitted.Inc()

	ftp := &wire.Envelope{
		Type:       wire.KindFrameToProcess,
		FrameID:    env.FrameID,
		Timestamp:  env.Timestamp,
		Image:      env.Image,
		DepthData:  env.DepthData,
		DepthScale: env.DepthScale,
	}
	if err := s.sendTo(worker, ftp); err != nil {
		s.pipe.Abandon(env.FrameID)
		metrics.PipelineDropped.Inc()
		rlog.Warn("pipeline: worker send failed, abandoning frame", map[string]any{"frame_id": env.FrameID, "err": err.Error()})
	}
}

// handleProcessedFrame resolves a Worker's result against the pipeline
// and fans the detection out to the Producer and every Viewer (§4.6).
func (s *server) handleProcessedFrame(env *wire.Envelope) {
	var processingTime float64
	if env.ProcessingTime != nil {
		processingTime = *env.ProcessingTime
	}
	s.pipe.Resolve(env.FrameID, env.Detections, processingTime)

	result := &wire.Envelope{
		Type:           wire.KindDetectionResult,
		FrameID:        env.FrameID,
		Detections:     env.Detections,
		Timestamp:      env.Timestamp,
		ProcessingTime: env.ProcessingTime,
	}
	if producer := s.reg.Producer(); producer != nil {
		_ = s.sendTo(producer, result)
	}
	s.bcast.ToViewers(result, nil)
}
