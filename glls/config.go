// SPDX-License-Identifier: MIT

package glls

import (
	"fmt"
	"math"

	"github.com/katalvlaran/glls/matrix"
)

// Config is the numeric policy of an Engine.
//   - SymmetryTol: relative symmetry tolerance for Cx0, Cm, Cr and C1.
//   - MaxCondition: largest accepted condition estimate of Cr (+Inf disables).
//   - PseudoInverse: fall back to a truncated-SVD solve when Cr fails the
//     Cholesky or conditioning check. Off by default.
//   - PseudoInverseRcond: relative singular-value cutoff of that fallback.
//   - StrictPSD: fail with ErrIllConditioned on a negative posterior variance
//     instead of reporting it in Diagnostics.
type Config struct {
	SymmetryTol        float64
	MaxCondition       float64
	PseudoInverse      bool
	PseudoInverseRcond float64
	StrictPSD          bool
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		SymmetryTol:        matrix.DefaultEpsilon,
		MaxCondition:       matrix.DefaultMaxCondition,
		PseudoInverseRcond: matrix.DefaultRcond,
	}
}

// Validate checks the ranges of every field.
func (c Config) Validate() error {
	if math.IsNaN(c.SymmetryTol) || math.IsInf(c.SymmetryTol, 0) || c.SymmetryTol < 0 {
		return fmt.Errorf("SymmetryTol %g: %w", c.SymmetryTol, ErrInvalidConfig)
	}
	if math.IsNaN(c.MaxCondition) || c.MaxCondition <= 1 {
		return fmt.Errorf("MaxCondition %g: %w", c.MaxCondition, ErrInvalidConfig)
	}
	if math.IsNaN(c.PseudoInverseRcond) || c.PseudoInverseRcond < 0 || c.PseudoInverseRcond >= 1 {
		return fmt.Errorf("PseudoInverseRcond %g: %w", c.PseudoInverseRcond, ErrInvalidConfig)
	}

	return nil
}

// MatrixOptions translates c into matrix options. c must be valid.
func (c Config) MatrixOptions() []matrix.Option {
	return []matrix.Option{
		matrix.WithEpsilon(c.SymmetryTol),
		matrix.WithMaxCondition(c.MaxCondition),
		matrix.WithRcond(c.PseudoInverseRcond),
	}
}
