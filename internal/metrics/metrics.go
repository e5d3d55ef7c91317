// Package metrics exposes Prometheus collectors for search runs.
package metrics

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/copyleftdev/localsearch/internal/optimization"
)

const namespace = "localsearch"

// Search outcomes used as the "status" label.
const (
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusFailed    = "failed"
)

// Collector records evaluations, search outcomes, durations and best scores.
type Collector struct {
	evaluations *prometheus.CounterVec
	searches    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	bestScore   *prometheus.GaugeVec
}

// NewCollector creates the collectors and registers them with reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Number of candidate evaluations.",
		}, []string{"algorithm"}),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Number of finished searches by outcome.",
		}, []string{"algorithm", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Wall-clock duration of searches.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"algorithm"}),
		bestScore: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "best_score",
			Help:      "Best score of the last finished search.",
		}, []string{"problem", "algorithm"}),
	}

	for _, col := range []prometheus.Collector{c.evaluations, c.searches, c.duration, c.bestScore} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ObserveSearch records one finished search.
func (c *Collector) ObserveSearch(problem, algorithm string, stats optimization.Stats, err error) {
	c.searches.WithLabelValues(algorithm, Status(err)).Inc()
	c.evaluations.WithLabelValues(algorithm).Add(float64(stats.Evaluations))
	c.duration.WithLabelValues(algorithm).Observe(stats.Elapsed.Seconds())
	if stats.Evaluations > 0 {
		c.bestScore.WithLabelValues(problem, algorithm).Set(stats.BestScore)
	}
}

// Status maps a search error to its outcome label.
func Status(err error) string {
	switch {
	case err == nil:
		return StatusCompleted
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return StatusCancelled
	default:
		return StatusFailed
	}
}
