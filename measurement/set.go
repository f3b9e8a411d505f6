// SPDX-License-Identifier: MIT

package measurement

import (
	"fmt"

	"github.com/katalvlaran/glls/label"
	"github.com/katalvlaran/glls/matrix"
	"github.com/katalvlaran/glls/stats"
)

// Set is an immutable measurement set over an ordered response space.
// M = 0 is valid.
type Set struct {
	measured stats.Vector[label.Response]
	baseline stats.Vector[label.Response]
	cov      stats.Covariance[label.Response]
}

// New validates and copies the inputs: measured and baseline must have one
// value per response, cov must be M×M and symmetric within the tolerance
// of opts (matrix.WithEpsilon).
func New(responses label.Index[label.Response], measured []float64, cov [][]float64,
	baseline []float64, opts ...matrix.Option) (*Set, error) {
	rm, err := stats.NewVector(responses, measured)
	if err != nil {
		return nil, fmt.Errorf("measurement.New: measured: %w", err)
	}
	r0, err := stats.NewVector(responses, baseline)
	if err != nil {
		return nil, fmt.Errorf("measurement.New: baseline: %w", err)
	}
	cm, err := stats.NewCovariance(responses, cov, opts...)
	if err != nil {
		return nil, fmt.Errorf("measurement.New: covariance: %w", err)
	}

	return &Set{measured: rm, baseline: r0, cov: cm}, nil
}

// FromStats assembles a set from already validated values. All three must
// share the same response labels.
func FromStats(measured stats.Vector[label.Response], cov stats.Covariance[label.Response],
	baseline stats.Vector[label.Response]) (*Set, error) {
	if err := stats.Compatible("measurement covariance", measured.Labels(), cov.Labels()); err != nil {
		return nil, err
	}
	if err := stats.Compatible("measurement baseline", measured.Labels(), baseline.Labels()); err != nil {
		return nil, err
	}

	return &Set{measured: measured, baseline: baseline, cov: cov}, nil
}

// Empty returns the set with no measurements.
func Empty() *Set { return &Set{} }

// Responses returns the response labels.
func (s *Set) Responses() label.Index[label.Response] { return s.measured.Labels() }

// Len returns M.
func (s *Set) Len() int { return s.measured.Len() }

// Measured returns Rm.
func (s *Set) Measured() stats.Vector[label.Response] { return s.measured }

// Baseline returns R0.
func (s *Set) Baseline() stats.Vector[label.Response] { return s.baseline }

// Covariance returns Cm.
func (s *Set) Covariance() stats.Covariance[label.Response] { return s.cov }

// Residual returns d = Rm − R0.
func (s *Set) Residual() stats.Vector[label.Response] {
	// labels are shared by construction
	d, _ := stats.Difference(s.measured, s.baseline)

	return d
}

// Sub keeps the measurements for responses, in the order given.
func (s *Set) Sub(responses []label.Response) (*Set, error) {
	rm, err := s.measured.Sub(responses)
	if err != nil {
		return nil, fmt.Errorf("measurement.Sub: %w", err)
	}
	r0, _ := s.baseline.Sub(responses)
	cm, _ := s.cov.Sub(responses)

	return &Set{measured: rm, baseline: r0, cov: cm}, nil
}

// Without drops one response; the rest keep their order.
func (s *Set) Without(r label.Response) (*Set, error) {
	idx := s.Responses()
	if !idx.Contains(r) {
		return nil, fmt.Errorf("measurement.Without: %s: %w", r, label.ErrLabelMismatch)
	}
	keep := make([]label.Response, 0, idx.Len()-1)
	for i := 0; i < idx.Len(); i++ {
		if k := idx.At(i); k != r {
			keep = append(keep, k)
		}
	}

	return s.Sub(keep)
}
