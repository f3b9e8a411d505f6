// SPDX-License-Identifier: MIT

package app

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/katalvlaran/glls/glls"
	"github.com/katalvlaran/glls/matrix"
	"github.com/katalvlaran/glls/problem"
	"github.com/katalvlaran/glls/store"
)

// metrics lives on a private registry; it is written to a textfile for the
// node exporter when --metrics-file is set.
type metrics struct {
	reg *prometheus.Registry

	// commands counts command executions by command and result
	commands *prometheus.CounterVec
	// failures counts failed solves by error kind
	failures *prometheus.CounterVec
	// solveDuration tracks one Assimilate call
	solveDuration prometheus.Histogram
	// responses tracks the number of measured responses per solve
	responses prometheus.Histogram
	// chiSquare holds the reduced chi-square of the last command solve
	chiSquare prometheus.Gauge
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &metrics{
		reg: reg,
		commands: f.NewCounterVec(prometheus.CounterOpts{
			Name: "glls_command_total",
			Help: "Total command executions by command and result",
		}, []string{"command", "result"}),
		failures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "glls_solve_errors_total",
			Help: "Total failed solves by error kind",
		}, []string{"kind"}),
		solveDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "glls_solve_duration_seconds",
			Help:    "Assimilation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), // 0.1ms to ~26s
		}),
		responses: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "glls_solve_responses",
			Help:    "Number of measured responses per solve",
			Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000},
		}),
		chiSquare: f.NewGauge(prometheus.GaugeOpts{
			Name: "glls_last_reduced_chi_square",
			Help: "Reduced chi-square of the most recent full assimilation",
		}),
	}
}

func (m *metrics) observeSolve(res *glls.Result, seconds float64) {
	m.solveDuration.Observe(seconds)
	m.responses.Observe(float64(res.Residual().Len()))
}

func (m *metrics) observeChiSquare(res *glls.Result) {
	if chi, ok := res.ChiSquare(); ok {
		m.chiSquare.Set(chi.Reduced())
	}
}

func (m *metrics) observeError(err error) {
	m.failures.WithLabelValues(errorKind(err)).Inc()
}

// write dumps the registry to path in the text exposition format.
func (m *metrics) write(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}

// errorKind maps an error to a metric label.
func errorKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, glls.ErrIllConditioned):
		return "ill_conditioned"
	case errors.Is(err, glls.ErrNotSymmetric):
		return "not_symmetric"
	case errors.Is(err, glls.ErrLabelMismatch):
		return "label_mismatch"
	case errors.Is(err, glls.ErrDimensionMismatch), errors.Is(err, glls.ErrInvalidDimension):
		return "dimension"
	case errors.Is(err, matrix.ErrNegativeVariance):
		return "negative_variance"
	case errors.Is(err, problem.ErrInvalidProblem):
		return "invalid_problem"
	case errors.Is(err, store.ErrNotInitialized), errors.Is(err, store.ErrNotFound):
		return "store"
	default:
		return "other"
	}
}
