package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestRecordTokensSkipsZero(t *testing.T) {
	in := counterValue(t, TokensTotal.WithLabelValues("input"))
	out := counterValue(t, TokensTotal.WithLabelValues("output"))

	RecordTokens(120, 0)

	if got := counterValue(t, TokensTotal.WithLabelValues("input")) - in; got != 120 {
		t.Fatalf("input delta = %v, want 120", got)
	}
	if got := counterValue(t, TokensTotal.WithLabelValues("output")) - out; got != 0 {
		t.Fatalf("output delta = %v, want 0", got)
	}
}

func TestRecordGenerationAndReference(t *testing.T) {
	before := counterValue(t, GenerationsTotal.WithLabelValues("no_artifact"))
	RecordGeneration("no_artifact", 2.5)
	if got := counterValue(t, GenerationsTotal.WithLabelValues("no_artifact")) - before; got != 1 {
		t.Fatalf("generations delta = %v, want 1", got)
	}

	before = counterValue(t, ReferenceResolutionsTotal.WithLabelValues("dropped"))
	RecordReference("dropped")
	RecordReference("dropped")
	if got := counterValue(t, ReferenceResolutionsTotal.WithLabelValues("dropped")) - before; got != 2 {
		t.Fatalf("reference delta = %v, want 2", got)
	}
}
