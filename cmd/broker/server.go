package main

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/n0remac/camrelay/audit"
	"github.com/n0remac/camrelay/broadcast"
	"github.com/n0remac/camrelay/config"
	"github.com/n0remac/camrelay/metrics"
	"github.com/n0remac/camrelay/pipeline"
	"github.com/n0remac/camrelay/ratelimit"
	"github.com/n0remac/camrelay/registry"
	"github.com/n0remac/camrelay/rlog"
	"github.com/n0remac/camrelay/wire"
)

// server wires together every relay component for one running broker
// (C1-C7 of the design): it owns the registry, the pipeline, the
// broadcast engine, the rate limiter, and the audit log, and exposes
// the single HTTP mux that dispatches /browser, /pi, /wsl, and
// /metrics.
type server struct {
	cfg     config.Config
	reg     *registry.Registry
	pipe    *pipeline.Pipeline
	bcast   *broadcast.Engine
	limiter *ratelimit.Limiter
	audit   *audit.Log
}

func newServer(cfg config.Config, auditLog *audit.Log) *server {
	reg := registry.New()
	return &server{
		cfg:     cfg,
		reg:     reg,
		pipe:    pipeline.New(cfg.PipelineCapacity, cfg.AdmissionTimeout, cfg.MaxInFlightAge, cfg.ProcessedTTL),
		bcast:   broadcast.New(reg),
		limiter: ratelimit.New(cfg.RateLimitWindow, cfg.RateLimitCount, cfg.ViewerExemptIPs),
		audit:   auditLog,
	}
}

// mux builds the HTTP handler: one catch-all for every websocket
// endpoint (classified by router.Classify) plus the metrics endpoint.
func (s *server) mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleConnect)
	mux.Handle("/metrics", metrics.Handler())
	return mux
}

// run starts the background loops that aren't tied to any one
// connection: status-event fan-out and in-flight pipeline sweeping. It
// blocks until ctx is cancelled.
func (s *server) run(ctx context.Context) {
	go s.pumpStatusEvents(ctx)
	go s.sweepPipeline(ctx)
	<-ctx.Done()
}

func (s *server) pumpStatusEvents(ctx context.Context) {
	for {
		select {
		case ev := <-s.reg.Events():
			s.bcast.ToViewers(ev, nil)
			s.audit.Record("producer", "", "status", ev.Status)
		case <-ctx.Done():
			return
		}
	}
}

func (s *server) sweepPipeline(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			expired := s.pipe.SweepExpired(time.Now())
			for range expired {
				metrics.PipelineDropped.Inc()
			}
			if len(expired) > 0 {
				rlog.Warn("pipeline: evicted stale in-flight entries", map[string]any{"count": len(expired)})
			}
		case <-ctx.Done():
			return
		}
	}
}

// shutdown broadcasts a "going away" close to every connection and
// waits up to drain for sessions to finish, per §5.
func (s *server) shutdown(drain time.Duration) {
	deadline := time.Now().Add(drain)

	all := s.reg.Viewers()
	if p := s.reg.Producer(); p != nil {
		all = append(all, p)
	}
	if w := s.reg.Worker(); w != nil {
		all = append(all, w)
	}
	for _, p := range all {
		_ = p.Close(1001, "Server shutting down")
	}

	for time.Now().Before(deadline) {
		viewers, pi, wsl := s.reg.Counts()
		if viewers == 0 && !pi && !wsl {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func (s *server) sendTo(p *registry.Peer, env *wire.Envelope) error {
	data, err := wire.Encode(env)
	if err != nil {
		rlog.Error("encode failed", err, map[string]any{"type": env.Type})
		return err
	}
	return p.Send(data)
}

// clientIP strips the port from a request's remote address so the rate
// limiter and exempt list compare bare addresses.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
