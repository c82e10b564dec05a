// Package metrics holds the Prometheus collectors for the acta pipeline.
package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hpungsan/acta/internal/errors"
)

// Stage names.
const (
	StageTranscribe = "transcribe"
	StageExtract    = "extract"
	StageValidate   = "validate"
	StageMap        = "map"
	StageProject    = "project"
	StageRender     = "render"
)

// External service names.
const (
	ServiceLLM           = "llm"
	ServiceTranscription = "transcription"
	ServiceBrowser       = "browser"
)

// Metrics holds all collectors. A nil *Metrics records nothing.
type Metrics struct {
	StageTotal         *prometheus.CounterVec
	StageSeconds       *prometheus.HistogramVec
	ExternalCallsTotal *prometheus.CounterVec
	HTTPRequestsTotal  *prometheus.CounterVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		StageTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "acta_stage_total",
				Help: "Pipeline stage executions by outcome",
			},
			[]string{"stage", "outcome"},
		),
		StageSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "acta_stage_seconds",
				Help:    "Pipeline stage latency",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"stage"},
		),
		ExternalCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "acta_external_calls_total",
				Help: "Calls to external services by outcome",
			},
			[]string{"service", "outcome"},
		),
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "acta_http_requests_total",
				Help: "HTTP API requests by route and status class",
			},
			[]string{"route", "status"},
		),
	}
}

// ObserveStage records one stage execution that began at start.
func (m *Metrics) ObserveStage(stage string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.StageTotal.WithLabelValues(stage, Outcome(err)).Inc()
	m.StageSeconds.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// ObserveCall records one call to an external service.
func (m *Metrics) ObserveCall(service string, err error) {
	if m == nil {
		return
	}
	m.ExternalCallsTotal.WithLabelValues(service, Outcome(err)).Inc()
}

// ObserveHTTP records one API response.
func (m *Metrics) ObserveHTTP(route string, status int) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(route, statusClass(status)).Inc()
}

// Outcome labels an error by its code, or "ok".
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return strings.ToLower(string(errors.As(err).Code))
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
