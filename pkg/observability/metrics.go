package observability

import (
	"context"
	"errors"

	"github.com/aretw0/smolbox/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by engine lifecycle hooks.
type Metrics struct {
	Resolves    *prometheus.CounterVec
	Allocations *prometheus.CounterVec
	Advances    prometheus.Counter
	Resets      prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Resolves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smolbox_resolves_total",
				Help: "Total number of key resolutions by key, role and outcome",
			},
			[]string{"key", "role", "outcome"},
		),
		Allocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smolbox_allocations_total",
				Help: "Total number of freshly allocated output locations",
			},
			[]string{"key"},
		),
		Advances: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smolbox_advances_total",
			Help: "Total number of stage transitions",
		}),
		Resets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "smolbox_resets_total",
			Help: "Total number of full state resets",
		}),
	}
	reg.MustRegister(m.Resolves, m.Allocations, m.Advances, m.Resets)
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnResolve: func(ctx context.Context, e *domain.ResolveEvent) {
			m.Resolves.WithLabelValues(string(e.Key), role(e.Write), outcome(e.Err)).Inc()
		},
		OnAllocate: func(ctx context.Context, e *domain.AllocateEvent) {
			m.Allocations.WithLabelValues(string(e.Key)).Inc()
		},
		OnAdvance: func(ctx context.Context, e *domain.AdvanceEvent) {
			m.Advances.Inc()
		},
		OnReset: func(ctx context.Context, e *domain.EventBase) {
			m.Resets.Inc()
		},
	}
}

func role(write bool) string {
	if write {
		return "output"
	}
	return "input"
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidKey):
		return "invalid_key"
	case errors.Is(err, domain.ErrUnresolvedKey):
		return "unresolved"
	case errors.Is(err, domain.ErrNotWritable):
		return "not_writable"
	default:
		return "error"
	}
}
