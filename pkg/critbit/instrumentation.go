package critbit

import "github.com/prometheus/client_golang/prometheus"

// Instrumentation exposes prometheus metrics for a Tree. It is entirely
// optional: a Tree built without one behaves identically, just without
// the bookkeeping. Wiring it in lets a host service (an order-book
// engine tracking its bid/ask price-level indices, for instance)
// observe tree size and operation volume without the tree itself
// knowing anything about its caller.
type Instrumentation struct {
	size    prometheus.Gauge
	inserts prometheus.Counter
	removes prometheus.Counter
	finds   prometheus.Counter
}

// NewInstrumentation builds an Instrumentation and registers its
// metrics (all labelled with name) against reg. Pass
// prometheus.DefaultRegisterer to use the global registry.
func NewInstrumentation(reg prometheus.Registerer, name string) *Instrumentation {
	in := &Instrumentation{
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "critbit_tree_size",
			Help:        "Number of live leaves in the crit-bit tree.",
			ConstLabels: prometheus.Labels{"tree": name},
		}),
		inserts: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "critbit_tree_inserts_total",
			Help:        "Number of successful Insert calls.",
			ConstLabels: prometheus.Labels{"tree": name},
		}),
		removes: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "critbit_tree_removes_total",
			Help:        "Number of successful RemoveLeafByIndex calls.",
			ConstLabels: prometheus.Labels{"tree": name},
		}),
		finds: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "critbit_tree_finds_total",
			Help:        "Number of Find calls, hit or miss.",
			ConstLabels: prometheus.Labels{"tree": name},
		}),
	}
	if reg != nil {
		reg.MustRegister(in.size, in.inserts, in.removes, in.finds)
	}
	return in
}

func (in *Instrumentation) onInsert(size uint64) {
	if in == nil {
		return
	}
	in.inserts.Inc()
	in.size.Set(float64(size))
}

func (in *Instrumentation) onRemove(size uint64) {
	if in == nil {
		return
	}
	in.removes.Inc()
	in.size.Set(float64(size))
}

func (in *Instrumentation) onFind() {
	if in == nil {
		return
	}
	in.finds.Inc()
}
