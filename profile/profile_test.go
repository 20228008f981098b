package profile

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSinkRecordsInvocationsAndFailures(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	sink := NewSink("ufoengine_test", reg)

	sink.Observe("source", 10*time.Millisecond, nil)
	sink.Observe("source", 5*time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(sink.invokes.WithLabelValues("source")); got != 2 {
		t.Errorf("invokes = %v, want 2", got)
	}
	if got := testutil.ToFloat64(sink.failures.WithLabelValues("source")); got != 1 {
		t.Errorf("failures = %v, want 1", got)
	}
}
