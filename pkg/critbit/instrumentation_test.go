package critbit

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	m := &dto.Metric{}
	if err := g.Write(m); err != nil {
		t.Fatalf("write gauge: %v", err)
	}
	return m.GetGauge().GetValue()
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		t.Fatalf("write counter: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestInstrumentation_TracksSizeAndOperationCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	in := NewInstrumentation(reg, "test")
	tr := New[int](WithInstrumentation[int](in))

	idx, err := tr.Insert(1, 100)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	tr.Insert(2, 200)

	if got := gaugeValue(t, in.size); got != 2 {
		t.Fatalf("size gauge: got %v, want 2", got)
	}
	if got := counterValue(t, in.inserts); got != 2 {
		t.Fatalf("insert counter: got %v, want 2", got)
	}

	tr.Find(1)
	if got := counterValue(t, in.finds); got != 1 {
		t.Fatalf("find counter: got %v, want 1", got)
	}

	if _, err := tr.RemoveLeafByIndex(idx); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := gaugeValue(t, in.size); got != 1 {
		t.Fatalf("size gauge after remove: got %v, want 1", got)
	}
	if got := counterValue(t, in.removes); got != 1 {
		t.Fatalf("remove counter: got %v, want 1", got)
	}
}

func TestTree_WithoutInstrumentationIsNilSafe(t *testing.T) {
	tr := New[int]()
	if _, err := tr.Insert(1, 1); err != nil {
		t.Fatalf("insert: %v", err)
	}
	tr.Find(1)
	if _, err := tr.RemoveLeafByIndex(0); err != nil {
		t.Fatalf("remove: %v", err)
	}
}
