package roller

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Framing labels.
const (
	FramingDirect    = "direct"
	FramingTriggered = "triggered"
)

// Status labels.
const (
	statusOK         = "ok"
	statusSyntax     = "syntax_error"
	statusValidation = "validation_error"
	statusRejected   = "rejected"
)

// Metrics counts roll outcomes.
type Metrics struct {
	rolls *prometheus.CounterVec
	dice  prometheus.Counter
}

// NewMetrics registers the roller collectors with reg. A nil reg keeps the
// collectors unregistered, which is convenient in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		rolls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rollbot_rolls_total",
				Help: "Roll requests by framing and outcome",
			},
			[]string{"framing", "status"},
		),
		dice: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rollbot_dice_rolled_total",
			Help: "Individual dice drawn across all trials",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.rolls, m.dice)
	}
	return m
}

func (m *Metrics) observe(framing, status string) {
	if m == nil {
		return
	}
	m.rolls.WithLabelValues(framing, status).Inc()
}

func (m *Metrics) drew(n uint64) {
	if m == nil {
		return
	}
	m.dice.Add(float64(n))
}
