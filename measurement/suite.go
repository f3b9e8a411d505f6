// SPDX-License-Identifier: MIT

package measurement

import (
	"fmt"
	"math"

	"github.com/katalvlaran/glls/label"
	"github.com/katalvlaran/glls/matrix"
	"github.com/katalvlaran/glls/sensitivity"
	"github.com/katalvlaran/glls/stats"
)

// Suite is an ordered catalogue of benchmarks keyed by title.
// The zero value is an empty suite ready to use. A Suite is not safe for
// concurrent mutation.
type Suite struct {
	order []string
	byKey map[string]Benchmark
}

// NewSuite validates and adds bs in order.
func NewSuite(bs ...Benchmark) (*Suite, error) {
	s := &Suite{}
	for _, b := range bs {
		if err := s.Add(b); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Add validates b and appends it. Titles are unique.
func (s *Suite) Add(b Benchmark) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if s.byKey == nil {
		s.byKey = make(map[string]Benchmark)
	}
	if _, dup := s.byKey[b.Title]; dup {
		return fmt.Errorf("Suite.Add: %q: %w", b.Title, ErrDuplicateBenchmark)
	}
	s.order = append(s.order, b.Title)
	s.byKey[b.Title] = b

	return nil
}

// Get returns the benchmark with title.
func (s *Suite) Get(title string) (Benchmark, bool) {
	b, ok := s.byKey[title]
	return b, ok
}

// Remove deletes the benchmark with title and reports whether it existed.
func (s *Suite) Remove(title string) bool {
	if _, ok := s.byKey[title]; !ok {
		return false
	}
	delete(s.byKey, title)
	for i, t := range s.order {
		if t == title {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	return true
}

// Titles returns the titles in insertion order.
func (s *Suite) Titles() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)

	return out
}

// Len returns the number of benchmarks.
func (s *Suite) Len() int { return len(s.order) }

// Benchmarks returns the benchmarks in insertion order.
func (s *Suite) Benchmarks() []Benchmark {
	out := make([]Benchmark, len(s.order))
	for i, t := range s.order {
		out[i] = s.byKey[t]
	}

	return out
}

// Responses returns the response labels in insertion order.
func (s *Suite) Responses() label.Index[label.Response] {
	keys := make([]label.Response, len(s.order))
	for i, t := range s.order {
		keys[i] = s.byKey[t].Response()
	}
	// titles are unique, so responses are too
	idx, _ := label.NewIndex(keys)

	return idx
}

// Correlation correlates the measurements of benchmarks A and B.
type Correlation struct {
	A, B string
	Rho  float64
}

type setConfig struct {
	corr        []Correlation
	withCalcStd bool
	matrixOpts  []matrix.Option
}

// SetOption configures Suite.Set.
type SetOption func(*setConfig)

// WithCorrelation correlates the measurements of benchmarks a and b:
// Cm[a,b] = rho·σa·σb.
func WithCorrelation(a, b string, rho float64) SetOption {
	return func(c *setConfig) { c.corr = append(c.corr, Correlation{A: a, B: b, Rho: rho}) }
}

// WithCorrelations applies every correlation in cs, as WithCorrelation does.
func WithCorrelations(cs ...Correlation) SetOption {
	return func(c *setConfig) { c.corr = append(c.corr, cs...) }
}

// WithCalculationUncertainty adds the calculation variance (CalculatedStd²)
// to the diagonal of Cm.
func WithCalculationUncertainty() SetOption {
	return func(c *setConfig) { c.withCalcStd = true }
}

// WithMatrixOptions forwards numeric policy to the covariance check.
func WithMatrixOptions(opts ...matrix.Option) SetOption {
	return func(c *setConfig) { c.matrixOpts = append(c.matrixOpts, opts...) }
}

// Set builds the measurement set: Rm from Measured, R0 from Calculated and
// Cm = diag(MeasuredStd²) plus the requested correlations.
func (s *Suite) Set(opts ...SetOption) (*Set, error) {
	cfg := setConfig{}
	for _, o := range opts {
		o(&cfg)
	}

	n := len(s.order)
	idx := s.Responses()
	rm := make([]float64, n)
	r0 := make([]float64, n)
	cm := make([][]float64, n)
	sd := make([]float64, n)
	for i, t := range s.order {
		b := s.byKey[t]
		rm[i], r0[i], sd[i] = b.Measured, b.Calculated, b.MeasuredStd
		cm[i] = make([]float64, n)
		cm[i][i] = b.MeasuredStd * b.MeasuredStd
		if cfg.withCalcStd {
			cm[i][i] += b.CalculatedStd * b.CalculatedStd
		}
	}

	pos := make(map[string]int, n)
	for i, t := range s.order {
		pos[t] = i
	}
	for _, c := range cfg.corr {
		i, ok := pos[c.A]
		j, ok2 := pos[c.B]
		if !ok || !ok2 {
			return nil, fmt.Errorf("Suite.Set: correlation %q/%q: %w", c.A, c.B, label.ErrLabelMismatch)
		}
		if i == j || math.IsNaN(c.Rho) || c.Rho < -1 || c.Rho > 1 {
			return nil, fmt.Errorf("Suite.Set: correlation %q/%q = %g: %w", c.A, c.B, c.Rho, ErrInvalidCorrelation)
		}
		v := c.Rho * sd[i] * sd[j]
		cm[i][j], cm[j][i] = v, v
	}

	return New(idx, rm, cm, r0, cfg.matrixOpts...)
}

// Model assembles the sensitivity model of the suite over params. Benchmark
// parameters outside params fail with label.ErrLabelMismatch.
func (s *Suite) Model(params label.Index[label.Parameter]) (*sensitivity.Model, error) {
	profiles := make([]sensitivity.Profile, len(s.order))
	for i, t := range s.order {
		profiles[i] = s.byKey[t].Profile()
	}

	return sensitivity.AssembleOn(params, profiles)
}

// SensitivityStd assembles the standard deviations of the sensitivity
// coefficients over params, row for row with Model.
func (s *Suite) SensitivityStd(params label.Index[label.Parameter]) (stats.Matrix[label.Response, label.Parameter], error) {
	profiles := make([]sensitivity.Profile, len(s.order))
	for i, t := range s.order {
		profiles[i] = s.byKey[t].Profile()
	}

	return sensitivity.StdOn(params, profiles)
}
