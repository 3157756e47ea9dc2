// Package metrics holds the Prometheus collectors of the splitter.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder groups the collectors. A nil *Recorder records nothing.
type Recorder struct {
	Recomputations *prometheus.CounterVec
	RecomputeDur   prometheus.Histogram
	RPCs           *prometheus.CounterVec
	SessionsSwept  prometheus.Counter
}

// New registers and returns the splitter collectors on reg.
// Collectors already registered on reg are reused.
func New(namespace string, reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &Recorder{
		Recomputations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recomputations_total",
			Help:      "Number of bill allocations computed, by triggering operation.",
		}, []string{"source"}),
		RecomputeDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recompute_duration_seconds",
			Help:      "Time spent parsing and allocating one bill.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
		RPCs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_requests_total",
			Help:      "Number of RPCs handled, by procedure and result code.",
		}, []string{"procedure", "code"}),
		SessionsSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_swept_total",
			Help:      "Number of idle sessions removed.",
		}),
	}
	r.Recomputations = register(reg, r.Recomputations)
	r.RecomputeDur = register(reg, r.RecomputeDur)
	r.RPCs = register(reg, r.RPCs)
	r.SessionsSwept = register(reg, r.SessionsSwept)
	return r
}

// ObserveRecompute records one allocation triggered by source.
func (r *Recorder) ObserveRecompute(source string, d time.Duration) {
	if r == nil {
		return
	}
	r.Recomputations.WithLabelValues(source).Inc()
	r.RecomputeDur.Observe(d.Seconds())
}

// ObserveRPC records one finished RPC.
func (r *Recorder) ObserveRPC(procedure, code string) {
	if r == nil {
		return
	}
	r.RPCs.WithLabelValues(procedure, code).Inc()
}

// ObserveSwept records removed idle sessions.
func (r *Recorder) ObserveSwept(n int64) {
	if r == nil || n <= 0 {
		return
	}
	r.SessionsSwept.Add(float64(n))
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(fmt.Errorf("register collector: %w", err))
	}
	return c
}
