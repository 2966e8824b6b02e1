// Command broker runs the relay server: it accepts Producer, Worker,
// and Viewer websocket connections, enforces the rate limit and
// singleton roles, pipes binary and JSON frames through the bounded
// pipeline, and fans detections and status out to every Viewer.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/n0remac/camrelay/audit"
	"github.com/n0remac/camrelay/config"
	"github.com/n0remac/camrelay/rlog"
)

func main() {
	cfg := config.FromEnv(config.Default())
	resolve := config.FromFlags(flag.CommandLine, cfg)
	flag.Parse()
	cfg = resolve()

	auditLog, err := audit.Open(cfg.AuditDSN)
	if err != nil {
		rlog.Error("audit: open failed", err, map[string]any{"dsn": cfg.AuditDSN})
		os.Exit(1)
	}

	srv := newServer(cfg, auditLog)

	ctx, cancel := context.WithCancel(context.Background())
	go srv.run(ctx)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: srv.mux(),
	}

	go func() {
		rlog.Info("broker: listening", map[string]any{"addr": httpServer.Addr})
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			rlog.Error("broker: listen failed", err, nil)
			os.Exit(1)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	rlog.Info("broker: shutting down", nil)
	cancel()
	srv.shutdown(2 * time.Second)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer shutdownCancel()
	_ = httpServer.Shutdown(shutdownCtx)
}
