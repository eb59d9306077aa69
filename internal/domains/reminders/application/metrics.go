package application

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/novamind-digital/immo/internal/domains/reminders/domain"
)

// Metrics tracks reminder evaluation outcomes.
type Metrics struct {
	Active             *prometheus.GaugeVec
	Dismissed          prometheus.Counter
	DismissFailures    prometheus.Counter
	EvaluationDuration prometheus.Histogram
}

// NewMetrics registers the reminder metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Active: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "immo_reminders_active",
			Help: "Reminders surfaced by the latest evaluation, by type",
		}, []string{"type"}),
		Dismissed: factory.NewCounter(prometheus.CounterOpts{
			Name: "immo_reminders_dismissed_total",
			Help: "Total number of reminders dismissed",
		}),
		DismissFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "immo_reminders_dismiss_failures_total",
			Help: "Dismissals that could not be written to the durable set",
		}),
		EvaluationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "immo_reminders_evaluation_duration_seconds",
			Help:    "Duration of a reminder evaluation cycle",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) observeEvaluation(start time.Time, reminders []domain.Reminder) {
	if m == nil {
		return
	}
	m.EvaluationDuration.Observe(time.Since(start).Seconds())
	counts := map[domain.Type]int{domain.TypeUpcoming: 0, domain.TypeOverdue: 0}
	for _, r := range reminders {
		counts[r.Type]++
	}
	for kind, n := range counts {
		m.Active.WithLabelValues(string(kind)).Set(float64(n))
	}
}

func (m *Metrics) incrementDismissed(failed bool) {
	if m == nil {
		return
	}
	m.Dismissed.Inc()
	if failed {
		m.DismissFailures.Inc()
	}
}
