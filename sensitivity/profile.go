// SPDX-License-Identifier: MIT

package sensitivity

import (
	"fmt"
	"math"

	"github.com/katalvlaran/glls/label"
	"github.com/katalvlaran/glls/matrix"
	"github.com/katalvlaran/glls/stats"
)

// Profile is the sparse sensitivity of one response: parameters that are
// not present have zero sensitivity. Std holds the statistical standard
// deviation of each coefficient as reported by the transport calculation;
// missing entries are zero.
type Profile struct {
	Response label.Response
	Values   map[label.Parameter]float64
	Std      map[label.Parameter]float64
}

// Integral returns Σ values, the total sensitivity of the response.
func (p Profile) Integral() float64 {
	s := 0.0
	for _, v := range p.Values {
		s += v
	}

	return s
}

// Parameters returns the parameters of p in canonical order.
func (p Profile) Parameters() []label.Parameter {
	out := make([]label.Parameter, 0, len(p.Values))
	for k := range p.Values {
		out = append(out, k)
	}
	label.SortParameters(out)

	return out
}

// Assemble builds a model from profiles over the union of their
// parameters, sorted canonically (ZAI, MT, group). Rows follow profile order.
func Assemble(profiles []Profile) (*Model, error) {
	seen := make(map[label.Parameter]struct{})
	var keys []label.Parameter
	for _, p := range profiles {
		for k := range p.Values {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				keys = append(keys, k)
			}
		}
	}
	label.SortParameters(keys)
	params, err := label.NewIndex(keys)
	if err != nil {
		return nil, fmt.Errorf("sensitivity.Assemble: %w", err)
	}

	return AssembleOn(params, profiles)
}

// AssembleOn builds a model from profiles over a fixed parameter space.
// Parameters of the space absent from a profile get zero sensitivity; a
// profile parameter outside the space fails with label.ErrLabelMismatch,
// as does a response appearing twice.
func AssembleOn(params label.Index[label.Parameter], profiles []Profile) (*Model, error) {
	responses, data, err := rowsOn(params, profiles, func(p Profile) map[label.Parameter]float64 { return p.Values })
	if err != nil {
		return nil, fmt.Errorf("sensitivity.AssembleOn: %w", err)
	}

	return New(responses, params, data)
}

// StdOn builds the matrix of coefficient standard deviations over params,
// laid out like AssembleOn.
func StdOn(params label.Index[label.Parameter], profiles []Profile) (stats.Matrix[label.Response, label.Parameter], error) {
	var none stats.Matrix[label.Response, label.Parameter]
	responses, data, err := rowsOn(params, profiles, func(p Profile) map[label.Parameter]float64 { return p.Std })
	if err != nil {
		return none, fmt.Errorf("sensitivity.StdOn: %w", err)
	}
	if err := validKinds(responses); err != nil {
		return none, err
	}
	for i, row := range data {
		for _, v := range row {
			if v < 0 || math.IsNaN(v) {
				return none, fmt.Errorf("sensitivity.StdOn: %s: invalid standard deviation %g: %w",
					responses.At(i), v, matrix.ErrNegativeVariance)
			}
		}
	}

	return stats.NewMatrix(responses, params, data)
}

func rowsOn(params label.Index[label.Parameter], profiles []Profile, pick func(Profile) map[label.Parameter]float64) (label.Index[label.Response], [][]float64, error) {
	keys := make([]label.Response, len(profiles))
	data := make([][]float64, len(profiles))
	for i, p := range profiles {
		keys[i] = p.Response
		data[i] = make([]float64, params.Len())
		for k, v := range pick(p) {
			j, ok := params.Pos(k)
			if !ok {
				return label.Index[label.Response]{}, nil,
					fmt.Errorf("%s: parameter %s: %w", p.Response, k, label.ErrLabelMismatch)
			}
			data[i][j] = v
		}
	}
	responses, err := label.NewIndex(keys)

	return responses, data, err
}
