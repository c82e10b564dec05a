package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/hpungsan/acta/internal/errors"
)

func TestObserveStage(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveStage(StageValidate, time.Now(), nil)
	m.ObserveStage(StageValidate, time.Now(), errors.NewValidationFailed(nil))
	m.ObserveStage(StageValidate, time.Now(), errors.NewValidationFailed(nil))

	if got := testutil.ToFloat64(m.StageTotal.WithLabelValues(StageValidate, "ok")); got != 1 {
		t.Errorf("ok count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.StageTotal.WithLabelValues(StageValidate, "validation_failed")); got != 2 {
		t.Errorf("validation_failed count = %v, want 2", got)
	}
	if got := testutil.CollectAndCount(m.StageSeconds); got != 1 {
		t.Errorf("histogram series = %d, want 1", got)
	}
}

func TestObserveCallAndHTTP(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveCall(ServiceLLM, fmt.Errorf("dial tcp: refused"))
	m.ObserveHTTP("/api/preview", 422)
	m.ObserveHTTP("/api/preview", 200)

	if got := testutil.ToFloat64(m.ExternalCallsTotal.WithLabelValues(ServiceLLM, "internal")); got != 1 {
		t.Errorf("llm internal count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("/api/preview", "4xx")); got != 1 {
		t.Errorf("4xx count = %v, want 1", got)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ObserveStage(StageMap, time.Now(), nil)
	m.ObserveCall(ServiceBrowser, nil)
	m.ObserveHTTP("/", 200)
}

func TestOutcome(t *testing.T) {
	if got := Outcome(nil); got != "ok" {
		t.Errorf("Outcome(nil) = %q", got)
	}
	if got := Outcome(errors.NewRenderFailed("x", nil)); got != "render_failed" {
		t.Errorf("Outcome(render) = %q", got)
	}
}
