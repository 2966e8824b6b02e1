// Package metrics exposes the broker's operational counters and gauges
// over Prometheus, grounded on the stack carried by the rest of the
// example pack (kstaniek-go-ampio-server, linkerd-linkerd2) rather than
// the teacher, which has no metrics of its own.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ViewersConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "camrelay",
		Name:      "viewers_connected",
		Help:      "Number of viewer sessions currently attached.",
	})

	ProducerConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "camrelay",
		Name:      "producer_connected",
		Help:      "1 if a producer is attached, 0 otherwise.",
	})

	WorkerConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "camrelay",
		Name:      "worker_connected",
		Help:      "1 if a worker is attached, 0 otherwise.",
	})

	FramesRelayed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "camrelay",
		Name:      "frames_relayed_total",
		Help:      "Total frames fanned out to viewers.",
	})

	PipelineAdmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "camrelay",
		Name:      "pipeline_admitted_total",
		Help:      "Total frames admitted to the in-flight pipeline.",
	})

	PipelineDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "camrelay",
		Name:      "pipeline_dropped_total",
		Help:      "Total frames dropped: admission timeout, worker send failure, or age eviction.",
	})

	RateLimitRejections = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "camrelay",
		Name:      "rate_limit_rejections_total",
		Help:      "Total connections refused by the rate limiter.",
	})

	DecodeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "camrelay",
		Name:      "decode_failures_total",
		Help:      "Total message decode failures by wire encoding.",
	}, []string{"encoding"})
)

// Handler returns the HTTP handler to mount at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
