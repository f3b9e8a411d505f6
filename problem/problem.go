// SPDX-License-Identifier: MIT

package problem

import (
	"fmt"

	"github.com/katalvlaran/glls/label"
	"github.com/katalvlaran/glls/matrix"
	"github.com/katalvlaran/glls/measurement"
	"github.com/katalvlaran/glls/propagate"
	"github.com/katalvlaran/glls/sensitivity"
	"github.com/katalvlaran/glls/stats"
)

// Problem holds the labeled inputs built from a Document.
type Problem struct {
	// Groups is the energy-group structure; zero when the document has none.
	Groups       label.GroupStructure
	Prior        stats.Vector[label.Parameter]
	PriorCov     stats.Covariance[label.Parameter]
	Suite        *measurement.Suite
	Correlations []measurement.Correlation
	Applications []propagate.Application
}

// Build converts the document. Parameter order follows the prior list.
func (d *Document) Build() (*Problem, error) {
	p := &Problem{}
	if len(d.Groups) > 0 {
		gs, err := label.NewGroupStructure(d.Groups)
		if err != nil {
			return nil, fmt.Errorf("%w: groups: %v", ErrInvalidProblem, err)
		}
		p.Groups = gs
	}

	keys := make([]label.Parameter, len(d.Prior))
	values := make([]float64, len(d.Prior))
	for i, e := range d.Prior {
		k, err := p.parameter(e.ParameterRef)
		if err != nil {
			return nil, fmt.Errorf("prior %d: %w", i, err)
		}
		keys[i], values[i] = k, e.Value
	}
	params, err := label.NewIndex(keys)
	if err != nil {
		return nil, fmt.Errorf("%w: prior: %v", ErrInvalidProblem, err)
	}
	if p.Prior, err = stats.NewVector(params, values); err != nil {
		return nil, err
	}
	if p.PriorCov, err = p.covariance(d.Covariance); err != nil {
		return nil, err
	}

	p.Suite = &measurement.Suite{}
	for _, e := range d.Benchmarks {
		sens, std, err := p.sensitivity(e)
		if err != nil {
			return nil, err
		}
		b := measurement.Benchmark{
			Title:          e.Title,
			Kind:           e.Kind,
			Measured:       e.Measured,
			MeasuredStd:    e.MeasuredStd,
			Calculated:     e.Calculated,
			CalculatedStd:  e.CalculatedStd,
			Sensitivity:    sens,
			SensitivityStd: std,
		}
		if err := p.Suite.Add(b); err != nil {
			return nil, err
		}
	}
	for _, c := range d.Correlations {
		if _, ok := p.Suite.Get(c.A); !ok {
			return nil, fmt.Errorf("%w: correlation: unknown benchmark %q", ErrInvalidProblem, c.A)
		}
		if _, ok := p.Suite.Get(c.B); !ok {
			return nil, fmt.Errorf("%w: correlation: unknown benchmark %q", ErrInvalidProblem, c.B)
		}
	}
	for _, c := range d.Correlations {
		p.Correlations = append(p.Correlations, measurement.Correlation{A: c.A, B: c.B, Rho: c.Rho})
	}

	for _, e := range d.Applications {
		sens, _, err := p.sensitivity(e)
		if err != nil {
			return nil, err
		}
		p.Applications = append(p.Applications, propagate.Application{
			Title:         e.Title,
			Kind:          e.Kind,
			Calculated:    e.Calculated,
			CalculatedStd: e.CalculatedStd,
			Sensitivity:   sens,
		})
	}

	return p, nil
}

func (p *Problem) parameter(r ParameterRef) (label.Parameter, error) {
	k, err := r.Parameter()
	if err != nil {
		return k, err
	}
	if p.Groups.Len() > 0 && k.Group != label.AllGroups && !p.Groups.Contains(k.Group) {
		return k, fmt.Errorf("%w: %s: group outside %d-group structure", ErrInvalidProblem, k, p.Groups.Len())
	}

	return k, nil
}

// sensitivity returns the coefficients of e and their nonzero standard
// deviations; std is nil when none is given.
func (p *Problem) sensitivity(e ResponseEntry) (map[label.Parameter]float64, map[label.Parameter]float64, error) {
	out := make(map[label.Parameter]float64, len(e.Sensitivity))
	var std map[label.Parameter]float64
	for _, s := range e.Sensitivity {
		k, err := p.parameter(s.ParameterRef)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", e.Title, err)
		}
		if _, dup := out[k]; dup {
			return nil, nil, fmt.Errorf("%w: %s: duplicate sensitivity to %s", ErrInvalidProblem, e.Title, k)
		}
		out[k] = s.Value
		if s.Std != 0 {
			if std == nil {
				std = make(map[label.Parameter]float64)
			}
			std[k] = s.Std
		}
	}

	return out, std, nil
}

// covariance joins the blocks and embeds them into the prior space.
func (p *Problem) covariance(blocks []CovarianceBlock) (stats.Covariance[label.Parameter], error) {
	var none stats.Covariance[label.Parameter]
	covs := make([]stats.Covariance[label.Parameter], 0, len(blocks))
	for bi, b := range blocks {
		keys := make([]label.Parameter, len(b.Parameters))
		for i, r := range b.Parameters {
			k, err := p.parameter(r)
			if err != nil {
				return none, fmt.Errorf("covariance block %d: %w", bi, err)
			}
			keys[i] = k
		}
		idx, err := label.NewIndex(keys)
		if err != nil {
			return none, fmt.Errorf("%w: covariance block %d: %v", ErrInvalidProblem, bi, err)
		}
		rows, err := blockRows(b, len(keys))
		if err != nil {
			return none, fmt.Errorf("covariance block %d: %w", bi, err)
		}
		if b.Relative {
			for i, ki := range keys {
				xi, err := p.Prior.Get(ki)
				if err != nil {
					return none, fmt.Errorf("covariance block %d: %w", bi, err)
				}
				for j, kj := range keys {
					xj, err := p.Prior.Get(kj)
					if err != nil {
						return none, fmt.Errorf("covariance block %d: %w", bi, err)
					}
					rows[i][j] *= xi * xj
				}
			}
		}
		c, err := stats.NewCovariance(idx, rows)
		if err != nil {
			return none, fmt.Errorf("covariance block %d: %w", bi, err)
		}
		covs = append(covs, c)
	}

	joined, err := stats.BlockDiagonal(covs...)
	if err != nil {
		return none, fmt.Errorf("covariance: %w", err)
	}
	if joined.Len() == 0 {
		return stats.Diagonal(p.Prior.Labels(), make([]float64, p.Prior.Len()))
	}

	return joined.Expand(p.Prior.Labels())
}

// blockRows returns the full n×n rows of b.
func blockRows(b CovarianceBlock, n int) ([][]float64, error) {
	switch {
	case len(b.Lower) > 0 && len(b.Full) > 0:
		return nil, fmt.Errorf("%w: both lower and full given", ErrInvalidProblem)
	case len(b.Full) > 0:
		if len(b.Full) != n {
			return nil, fmt.Errorf("%w: %d rows for %d parameters: %v", ErrInvalidProblem, len(b.Full), n, matrix.ErrDimensionMismatch)
		}
		rows := make([][]float64, n)
		for i, r := range b.Full {
			if len(r) != n {
				return nil, fmt.Errorf("%w: row %d has %d entries: %v", ErrInvalidProblem, i, len(r), matrix.ErrDimensionMismatch)
			}
			rows[i] = append([]float64(nil), r...)
		}

		return rows, nil
	case len(b.Lower) > 0:
		if len(b.Lower) != n {
			return nil, fmt.Errorf("%w: %d rows for %d parameters: %v", ErrInvalidProblem, len(b.Lower), n, matrix.ErrDimensionMismatch)
		}
		rows := make([][]float64, n)
		for i := range rows {
			rows[i] = make([]float64, n)
		}
		for i, r := range b.Lower {
			if len(r) != i+1 {
				return nil, fmt.Errorf("%w: lower row %d has %d entries, want %d", ErrInvalidProblem, i, len(r), i+1)
			}
			for j, v := range r {
				rows[i][j], rows[j][i] = v, v
			}
		}

		return rows, nil
	default:
		return nil, fmt.Errorf("%w: no lower or full matrix", ErrInvalidProblem)
	}
}

// Model returns the sensitivity model of the benchmarks over the prior space.
func (p *Problem) Model() (*sensitivity.Model, error) {
	return p.Suite.Model(p.Prior.Labels())
}

// SensitivityStd returns the standard deviations of the benchmark
// sensitivities over the prior space.
func (p *Problem) SensitivityStd() (stats.Matrix[label.Response, label.Parameter], error) {
	return p.Suite.SensitivityStd(p.Prior.Labels())
}

// Set builds the measurement set, applying the document correlations.
// withCalc adds the calculation variances to Cm.
func (p *Problem) Set(withCalc bool, opts ...matrix.Option) (*measurement.Set, error) {
	so := make([]measurement.SetOption, 0, 3)
	if len(p.Correlations) > 0 {
		so = append(so, measurement.WithCorrelations(p.Correlations...))
	}
	if withCalc {
		so = append(so, measurement.WithCalculationUncertainty())
	}
	if len(opts) > 0 {
		so = append(so, measurement.WithMatrixOptions(opts...))
	}

	return p.Suite.Set(so...)
}

// ApplicationModel returns the sensitivity model of the applications over
// the prior space.
func (p *Problem) ApplicationModel() (*sensitivity.Model, error) {
	profiles := make([]sensitivity.Profile, len(p.Applications))
	for i, a := range p.Applications {
		profiles[i] = sensitivity.Profile{Response: a.Response(), Values: a.Sensitivity}
	}

	return sensitivity.AssembleOn(p.Prior.Labels(), profiles)
}
