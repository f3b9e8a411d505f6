// SPDX-License-Identifier: MIT

package propagate

import (
	"fmt"
	"math"

	"github.com/katalvlaran/glls/label"
	"github.com/katalvlaran/glls/matrix"
	"github.com/katalvlaran/glls/sensitivity"
	"github.com/katalvlaran/glls/stats"
)

// Config is the numeric policy of a Propagator.
type Config struct {
	// SymmetryTol is the relative symmetry tolerance applied to C.
	SymmetryTol float64
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{SymmetryTol: matrix.DefaultEpsilon}
}

// Propagator propagates parameter covariances to integral responses.
type Propagator struct {
	opts []matrix.Option
}

// New validates cfg and returns a Propagator.
func New(cfg Config) (*Propagator, error) {
	if math.IsNaN(cfg.SymmetryTol) || math.IsInf(cfg.SymmetryTol, 0) || cfg.SymmetryTol < 0 {
		return nil, fmt.Errorf("propagate.New: SymmetryTol %g: %w", cfg.SymmetryTol, ErrInvalidConfig)
	}

	return &Propagator{opts: []matrix.Option{matrix.WithEpsilon(cfg.SymmetryTol)}}, nil
}

// Covariance returns S'·C·S'ᵀ for the responses of model.
func (p *Propagator) Covariance(cov stats.Covariance[label.Parameter], model *sensitivity.Model) (stats.Covariance[label.Response], error) {
	if model == nil {
		return stats.Covariance[label.Response]{}, fmt.Errorf("propagate: nil model: %w", matrix.ErrInvalidDimension)
	}

	return Covariance(cov, model.Matrix(), p.opts...)
}

// Variances returns the response variances without forming S'·C·S'ᵀ.
func (p *Propagator) Variances(cov stats.Covariance[label.Parameter], model *sensitivity.Model) (stats.Vector[label.Response], error) {
	if model == nil {
		return stats.Vector[label.Response]{}, fmt.Errorf("propagate: nil model: %w", matrix.ErrInvalidDimension)
	}

	return Variances(cov, model.Matrix(), p.opts...)
}

// Similarity returns the ck matrix: the correlation between responses
// induced by the shared parameter uncertainty, ck[i,j] = Cr[i,j]/(σi·σj)
// with Cr = S·C·Sᵀ. Values near 1 mark responses that constrain the same data.
func (p *Propagator) Similarity(cov stats.Covariance[label.Parameter], model *sensitivity.Model) (stats.Covariance[label.Response], error) {
	cr, err := p.Covariance(cov, model)
	if err != nil {
		return stats.Covariance[label.Response]{}, err
	}

	return cr.Correlation()
}

// Application is a target response that is not measured: its calculated
// value, the statistical uncertainty of that calculation, and its
// sensitivity profile.
type Application struct {
	Title         string
	Kind          label.Kind
	Calculated    float64
	CalculatedStd float64
	Sensitivity   map[label.Parameter]float64
}

// Response returns the label of a.
func (a Application) Response() label.Response {
	return label.Response{Title: a.Title, Kind: a.Kind}
}

// Uncertainty is the propagated nuclear-data uncertainty of one response.
type Uncertainty struct {
	Response   label.Response
	Calculated float64
	// Absolute is √(sᵀ·C·s).
	Absolute float64
	// Relative is Absolute/|Calculated|, 0 when Calculated is 0.
	Relative float64
}

// Applications propagates cov to every application. Sensitivity to a
// parameter outside cov fails with label.ErrLabelMismatch.
func (p *Propagator) Applications(cov stats.Covariance[label.Parameter], apps []Application) ([]Uncertainty, error) {
	if len(apps) == 0 {
		return nil, fmt.Errorf("propagate.Applications: %w", matrix.ErrInvalidDimension)
	}
	profiles := make([]sensitivity.Profile, len(apps))
	for i, a := range apps {
		profiles[i] = sensitivity.Profile{Response: a.Response(), Values: a.Sensitivity}
	}
	model, err := sensitivity.AssembleOn(cov.Labels(), profiles)
	if err != nil {
		return nil, fmt.Errorf("propagate.Applications: %w", err)
	}
	sd, err := StdDevs(cov, model.Matrix(), p.opts...)
	if err != nil {
		return nil, err
	}

	out := make([]Uncertainty, len(apps))
	for i, a := range apps {
		u := Uncertainty{Response: a.Response(), Calculated: a.Calculated, Absolute: sd.At(i)}
		if a.Calculated != 0 {
			u.Relative = u.Absolute / math.Abs(a.Calculated)
		}
		out[i] = u
	}

	return out, nil
}
