// Package telemetry serves a dev-only view of a running session: the current
// snapshot as JSON, prometheus metrics, and a few debug commands that are
// queued and applied on the game thread.
package telemetry

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/itzKiwiSky/KAPLAYware-sub000/ware"
)

// Metrics are the session collectors, kept on their own registry.
type Metrics struct {
	Registry *prometheus.Registry

	rounds     *prometheus.CounterVec
	outcomes   *prometheus.CounterVec
	gameOvers  prometheus.Counter
	speed      prometheus.Gauge
	score      prometheus.Gauge
	lives      prometheus.Gauge
	finalScore prometheus.Histogram
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		rounds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kaplayware",
			Name:      "rounds_total",
			Help:      "Rounds started, by microgame and difficulty.",
		}, []string{"microgame", "difficulty"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kaplayware",
			Name:      "outcomes_total",
			Help:      "Finished rounds, by microgame and result.",
		}, []string{"microgame", "result"}),
		gameOvers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kaplayware",
			Name:      "game_overs_total",
			Help:      "Sessions that ran out of lives.",
		}),
		speed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "kaplayware",
			Name:      "speed",
			Help:      "Current speed multiplier.",
		}),
		score: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "kaplayware",
			Name:      "score",
			Help:      "Current round number.",
		}),
		lives: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "kaplayware",
			Name:      "lives",
			Help:      "Lives left.",
		}),
		finalScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "kaplayware",
			Name:      "final_score",
			Help:      "Score reached when a session ends.",
			Buckets:   prometheus.LinearBuckets(5, 5, 10),
		}),
	}
	m.Registry.MustRegister(m.rounds, m.outcomes, m.gameOvers, m.speed, m.score, m.lives, m.finalScore)
	return m
}

// Attach feeds the collectors from e's callbacks.
func (m *Metrics) Attach(e *ware.Engine) {
	e.OnRound(func(r ware.RoundInfo) {
		m.rounds.WithLabelValues(r.Microgame, strconv.Itoa(r.Difficulty)).Inc()
		m.speed.Set(r.Speed)
		m.score.Set(float64(r.Score))
		m.lives.Set(float64(e.Lives()))
	})
	e.OnOutcome(func(id string, won bool) {
		result := "lost"
		if won {
			result = "won"
		}
		m.outcomes.WithLabelValues(id, result).Inc()
		m.lives.Set(float64(e.Lives()))
	})
	e.OnGameOver(func(s ware.Snapshot) {
		m.gameOvers.Inc()
		m.finalScore.Observe(float64(s.Score))
	})
}
