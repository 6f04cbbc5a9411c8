package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the game counters on a private registry so tests can build
// as many servers as they like.
type Metrics struct {
	registry *prometheus.Registry

	travels  *prometheus.CounterVec
	quizzes  *prometheus.CounterVec
	badges   prometheus.Counter
	resets   prometheus.Counter
	profiles prometheus.GaugeFunc
}

// NewMetrics registers the counters. profiles may be nil.
func NewMetrics(profiles *Registry) *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	m := &Metrics{
		registry: reg,
		travels: f.NewCounterVec(prometheus.CounterOpts{
			Name: "villagequest_travels_total",
			Help: "Travel attempts by result.",
		}, []string{"result"}),
		quizzes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "villagequest_quizzes_total",
			Help: "Quiz answers by result.",
		}, []string{"result"}),
		badges: f.NewCounter(prometheus.CounterOpts{
			Name: "villagequest_badges_awarded_total",
			Help: "Badges granted across all profiles.",
		}),
		resets: f.NewCounter(prometheus.CounterOpts{
			Name: "villagequest_resets_total",
			Help: "Profile progress resets.",
		}),
	}
	if profiles != nil {
		m.profiles = f.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "villagequest_profiles_loaded",
			Help: "Profiles with an engine in memory.",
		}, func() float64 { return float64(profiles.Len()) })
	}
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) travel(success bool) {
	m.travels.WithLabelValues(outcome(success, "success", "rejected")).Inc()
}

func (m *Metrics) quiz(correct bool, badges int) {
	m.quizzes.WithLabelValues(outcome(correct, "correct", "incorrect")).Inc()
	m.badges.Add(float64(badges))
}

func (m *Metrics) reset() { m.resets.Inc() }

func outcome(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}
