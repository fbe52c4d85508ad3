package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for RequestsTotal
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	GuestsRegistered prometheus.Gauge
	HeadcountTotal   *prometheus.GaugeVec
}

// New registers the collectors on reg. Pass a fresh registry per server
// so tests can build as many as they like.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wedding_registry_requests_total",
			Help: "Total number of API requests by route and outcome",
		}, []string{"route", "outcome"}),
		GuestsRegistered: factory.NewGauge(prometheus.GaugeOpts{
			Name: "wedding_registry_guests",
			Help: "Number of guests currently in the registry",
		}),
		HeadcountTotal: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "wedding_registry_headcount",
			Help: "Headcount per side from the latest list, by kind (confirmed, family, potential)",
		}, []string{"side", "kind"}),
	}
}

func (m *Metrics) ObserveRequest(route, outcome string) {
	m.RequestsTotal.WithLabelValues(route, outcome).Inc()
}

func (m *Metrics) SetGuests(count int) {
	m.GuestsRegistered.Set(float64(count))
}

func (m *Metrics) SetHeadcount(side, kind string, count int) {
	m.HeadcountTotal.WithLabelValues(side, kind).Set(float64(count))
}
