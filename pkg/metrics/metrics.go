// Package metrics exposes the benchmark counters on a /metrics endpoint.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterProducer registers success/failure counters backed by the dispatch
// pool's atomic counters.
func RegisterProducer(succ, fail func() uint64) {
	s := prometheus.NewCounterFunc(
		prometheus.CounterOpts{
			Namespace:   "producer",
			Name:        "msg_total",
			Help:        "A counter for total number of messages produced",
			ConstLabels: prometheus.Labels{"code": "succ"},
		},
		func() float64 { return float64(succ()) },
	)
	f := prometheus.NewCounterFunc(
		prometheus.CounterOpts{
			Namespace:   "producer",
			Name:        "msg_total",
			Help:        "A counter for total number of messages produced",
			ConstLabels: prometheus.Labels{"code": "fail"},
		},
		func() float64 { return float64(fail()) },
	)
	prometheus.MustRegister(s, f)
}

// RegisterConsumer registers the end-to-end latency histogram and a consumed
// counter backed by the loop's running count.
func RegisterConsumer(consumed func() uint64) prometheus.Histogram {
	latency := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "consumer",
			Name:      "msg_latency_milliseconds",
			Help:      "A histogram of end-to-end message latency",
			Buckets:   []float64{5, 10, 20, 50, 100, 200, 500, 1000},
		},
	)
	total := prometheus.NewCounterFunc(
		prometheus.CounterOpts{
			Namespace: "consumer",
			Name:      "msg_total",
			Help:      "A counter for total number of messages consumed",
		},
		func() float64 { return float64(consumed()) },
	)
	prometheus.MustRegister(latency, total)
	return latency
}

// Serve blocks exposing /metrics on addr.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}
