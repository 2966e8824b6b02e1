// Package config gathers the broker's tunables from flags and
// environment variables. The teacher has no config file of its own —
// main.go just reads os.Getenv with inline defaults (coturnSecret,
// webPort) — so this follows the same idiom rather than introducing a
// file format or a watch/reload mechanism the teacher never needed.
package config

import (
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/n0remac/camrelay/pipeline"
	"github.com/n0remac/camrelay/ratelimit"
	"github.com/n0remac/camrelay/session"
)

// Config holds every tunable named in §6.
type Config struct {
	Host string
	Port int

	MaxMessageSize    int64
	InboundQueueDepth int

	PipelineCapacity  int
	AdmissionTimeout  time.Duration
	MaxInFlightAge    time.Duration
	ProcessedTTL      time.Duration

	PingInterval time.Duration
	PingTimeout  time.Duration

	RateLimitWindow time.Duration
	RateLimitCount  int
	ViewerExemptIPs []string

	AuditDSN string
}

// Default returns the baseline configuration from §6/§4.
func Default() Config {
	return Config{
		Host: "0.0.0.0",
		Port: 5000,

		MaxMessageSize:    session.MaxMessageSize,
		InboundQueueDepth: session.InboundQueueDepth,

		PipelineCapacity: pipeline.DefaultCapacity,
		AdmissionTimeout: pipeline.DefaultAdmissionTimeout,
		MaxInFlightAge:   pipeline.DefaultMaxInFlightAge,
		ProcessedTTL:     pipeline.DefaultProcessedTTL,

		PingInterval: session.PingInterval,
		PingTimeout:  session.PingTimeout,

		RateLimitWindow: ratelimit.DefaultWindow,
		RateLimitCount:  ratelimit.DefaultLimit,
		ViewerExemptIPs: ratelimit.DefaultExempt(),

		AuditDSN: "",
	}
}

// FromEnv overlays environment variables onto a Config, following the
// teacher's os.Getenv-with-default idiom (main.go's coturnSecret).
func FromEnv(cfg Config) Config {
	if v := os.Getenv("CAMRELAY_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("CAMRELAY_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Port = n
		}
	}
	if v := os.Getenv("CAMRELAY_AUDIT_DSN"); v != "" {
		cfg.AuditDSN = v
	}
	if v := os.Getenv("CAMRELAY_RATE_LIMIT_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitCount = n
		}
	}
	return cfg
}

// FromFlags registers flags on fs, seeded from cfg, and returns a
// function that produces the final Config after fs.Parse has run.
func FromFlags(fs *flag.FlagSet, cfg Config) func() Config {
	host := fs.String("host", cfg.Host, "listen host")
	port := fs.Int("port", cfg.Port, "listen port")
	queueDepth := fs.Int("queue-depth", cfg.PipelineCapacity, "Q_inflight capacity")
	admission := fs.Duration("admission-timeout", cfg.AdmissionTimeout, "pipeline admission timeout")
	auditDSN := fs.String("audit-dsn", cfg.AuditDSN, "audit log DSN (sqlite file path or postgres DSN); empty disables the audit log")

	return func() Config {
		cfg.Host = *host
		cfg.Port = *port
		cfg.PipelineCapacity = *queueDepth
		cfg.AdmissionTimeout = *admission
		cfg.AuditDSN = *auditDSN
		return cfg
	}
}
