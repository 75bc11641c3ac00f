package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outcome labels used by DomainMetrics.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeRejected = "rejected"
	OutcomeCanceled = "canceled"
)

// DomainMetrics counts marketplace actions (logins, catalog edits, cart
// changes, subscription toggles) by outcome.
type DomainMetrics struct {
	actions *prometheus.CounterVec
	alerts  prometheus.Counter
}

// NewDomainMetrics registers the domain counters on the provided registerer.
func NewDomainMetrics(reg prometheus.Registerer) *DomainMetrics {
	if reg == nil {
		return &DomainMetrics{}
	}
	actions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "marketplace_actions_total",
		Help: "Marketplace actions by name and outcome.",
	}, []string{"action", "outcome"})
	alerts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "marketplace_alerts_emitted_total",
		Help: "Subscription alerts emitted after catalog edits.",
	})
	reg.MustRegister(actions, alerts)
	return &DomainMetrics{actions: actions, alerts: alerts}
}

// Record increments the counter for action/outcome.
func (d *DomainMetrics) Record(action, outcome string) {
	if d == nil || d.actions == nil {
		return
	}
	d.actions.WithLabelValues(normalizeLabel(action), normalizeLabel(outcome)).Inc()
}

// AlertsEmitted adds n to the emitted alerts counter.
func (d *DomainMetrics) AlertsEmitted(n int) {
	if d == nil || d.alerts == nil || n <= 0 {
		return
	}
	d.alerts.Add(float64(n))
}
