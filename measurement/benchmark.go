// SPDX-License-Identifier: MIT

package measurement

import (
	"fmt"
	"math"

	"github.com/katalvlaran/glls/label"
	"github.com/katalvlaran/glls/sensitivity"
)

// Benchmark is one integral experiment: its measured value, the value
// calculated with the prior data, both standard deviations (absolute), and
// the sensitivity profile of the calculated value. SensitivityStd holds the
// statistical standard deviation of sensitivity coefficients; its keys are a
// subset of Sensitivity.
type Benchmark struct {
	Title          string
	Kind           label.Kind
	Measured       float64
	MeasuredStd    float64
	Calculated     float64
	CalculatedStd  float64
	Sensitivity    map[label.Parameter]float64
	SensitivityStd map[label.Parameter]float64
}

// Response returns the label of b in a response space.
func (b Benchmark) Response() label.Response {
	return label.Response{Title: b.Title, Kind: b.Kind}
}

// Profile returns the sensitivity profile of b.
func (b Benchmark) Profile() sensitivity.Profile {
	return sensitivity.Profile{Response: b.Response(), Values: b.Sensitivity, Std: b.SensitivityStd}
}

// Bias returns C − M, the calculated minus measured value.
func (b Benchmark) Bias() float64 { return b.Calculated - b.Measured }

// Validate checks title, kind and values.
func (b Benchmark) Validate() error {
	if b.Title == "" {
		return fmt.Errorf("benchmark: empty title: %w", ErrInvalidBenchmark)
	}
	if !b.Kind.Valid() {
		return fmt.Errorf("benchmark %q: kind %d: %w", b.Title, b.Kind, ErrInvalidBenchmark)
	}
	for name, v := range map[string]float64{
		"measured":       b.Measured,
		"measured std":   b.MeasuredStd,
		"calculated":     b.Calculated,
		"calculated std": b.CalculatedStd,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("benchmark %q: %s is not finite: %w", b.Title, name, ErrInvalidBenchmark)
		}
	}
	if b.MeasuredStd < 0 || b.CalculatedStd < 0 {
		return fmt.Errorf("benchmark %q: negative standard deviation: %w", b.Title, ErrInvalidBenchmark)
	}
	for p, v := range b.Sensitivity {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("benchmark %q: sensitivity to %s is not finite: %w", b.Title, p, ErrInvalidBenchmark)
		}
	}
	for p, v := range b.SensitivityStd {
		if _, ok := b.Sensitivity[p]; !ok {
			return fmt.Errorf("benchmark %q: std of missing sensitivity to %s: %w", b.Title, p, ErrInvalidBenchmark)
		}
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("benchmark %q: sensitivity std to %s is %g: %w", b.Title, p, v, ErrInvalidBenchmark)
		}
	}

	return nil
}
