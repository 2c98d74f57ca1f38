package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Flyrell/checkin/internal/ledger"
)

// Metrics holds the Prometheus collectors exposed on /metrics.
type Metrics struct {
	Registry *prometheus.Registry

	checkIns  *prometheus.CounterVec
	awarded   *prometheus.CounterVec
	birthdays *prometheus.CounterVec
	resets    prometheus.Counter
	points    *prometheus.GaugeVec
}

// NewMetrics registers the ledger collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		checkIns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "checkin_checkins_total",
			Help: "Check-ins recorded through the HTTP API.",
		}, []string{"party"}),
		awarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "checkin_points_awarded_total",
			Help: "Positive points awarded through the HTTP API.",
		}, []string{"party"}),
		birthdays: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "checkin_birthday_checkins_total",
			Help: "Check-ins that fell on the party's birthday.",
		}, []string{"party"}),
		resets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "checkin_resets_total",
			Help: "Ledger resets through the HTTP API.",
		}),
		points: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "checkin_points",
			Help: "Current points per party.",
		}, []string{"party"}),
	}

	m.Registry.MustRegister(
		m.checkIns, m.awarded, m.birthdays, m.resets, m.points,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) observeCheckIn(e ledger.Event) {
	if m == nil {
		return
	}
	party := string(e.Party)
	m.checkIns.WithLabelValues(party).Inc()
	// Counters cannot go down; backdated penalties only show in the gauge.
	if e.Points > 0 {
		m.awarded.WithLabelValues(party).Add(float64(e.Points))
	}
	if e.IsBirthday {
		m.birthdays.WithLabelValues(party).Inc()
	}
}

func (m *Metrics) observeReset() {
	if m == nil {
		return
	}
	m.resets.Inc()
}

func (m *Metrics) observeState(s ledger.State) {
	if m == nil {
		return
	}
	for _, p := range ledger.Parties {
		m.points.WithLabelValues(string(p)).Set(float64(s.Points[p]))
	}
}
