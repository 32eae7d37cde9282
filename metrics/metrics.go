// Package metrics exposes mower runs as Prometheus collectors.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/lawnmower/mower"
)

// Algorithm labels.
const (
	AlgorithmCoverage = "coverage"
	AlgorithmSeek     = "seek"
)

// Outcome labels not covered by seek states.
const (
	OutcomeCovered = "covered"
	OutcomeAborted = "aborted"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "lawnmower"

// Collector groups the run metrics.
type Collector struct {
	moves    *prometheus.CounterVec
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
// An empty namespace uses DefaultNamespace.
func New(reg prometheus.Registerer, namespace string) (*Collector, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	c := &Collector{
		// MovesTotal counts agent moves.
		// Labels: algorithm (coverage, seek)
		moves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "moves_total",
				Help:      "Total number of mower moves",
			},
			[]string{"algorithm"},
		),
		// RunsTotal counts finished runs.
		// Labels: algorithm, outcome (covered, reached, unreachable, aborted)
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of algorithm runs by outcome",
			},
			[]string{"algorithm", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of algorithm runs in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"algorithm"},
		),
	}
	if reg != nil {
		for _, col := range []prometheus.Collector{c.moves, c.runs, c.duration} {
			if err := reg.Register(col); err != nil {
				return nil, fmt.Errorf("metrics: register: %w", err)
			}
		}
	}

	return c, nil
}

// Moves returns the step counter for algorithm, suitable for
// mower.WithCounter.
func (c *Collector) Moves(algorithm string) mower.StepCounter {
	return c.moves.WithLabelValues(algorithm)
}

// ObserveRun records one finished run.
func (c *Collector) ObserveRun(algorithm, outcome string, elapsed time.Duration) {
	c.runs.WithLabelValues(algorithm, outcome).Inc()
	c.duration.WithLabelValues(algorithm).Observe(elapsed.Seconds())
}
