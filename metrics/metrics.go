// Package metrics
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Collector records remote calls and submissions. A nil *Collector records nothing.
type Collector struct {
	registry    *prometheus.Registry
	calls       *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	submissions *prometheus.CounterVec
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashboard",
			Name:      "rpc_calls_total",
			Help:      "Remote service calls by outcome.",
		}, []string{"service", "method", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dashboard",
			Name:      "rpc_call_seconds",
			Help:      "Remote service call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service", "method"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashboard",
			Name:      "submissions_total",
			Help:      "Proposal submissions by outcome.",
		}, []string{"outcome"}),
	}
	c.registry.MustRegister(c.calls, c.latency, c.submissions)
	return c
}

func (c *Collector) ObserveCall(service, method string, start time.Time, err error) {
	if c == nil {
		return
	}
	c.calls.WithLabelValues(service, method, outcome(err)).Inc()
	c.latency.WithLabelValues(service, method).Observe(time.Since(start).Seconds())
}

func (c *Collector) ObserveSubmission(err error) {
	if c == nil {
		return
	}
	c.submissions.WithLabelValues(outcome(err)).Inc()
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}

func (c *Collector) Calls() *prometheus.CounterVec {
	return c.calls
}

func (c *Collector) Submissions() *prometheus.CounterVec {
	return c.submissions
}
