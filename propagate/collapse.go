// SPDX-License-Identifier: MIT

package propagate

import (
	"fmt"
	"math"

	"github.com/katalvlaran/glls/label"
	"github.com/katalvlaran/glls/stats"
)

// Weight returns the contribution of one multi-group parameter to its
// collapsed total.
type Weight func(p label.Parameter) float64

// UnitWeights sums groups with weight 1.
func UnitWeights(label.Parameter) float64 { return 1 }

// LethargyWeights averages groups by lethargy width over the whole
// structure: w(g) = Δu(g) / Σ Δu. Groups outside gs get weight 0.
func LethargyWeights(gs label.GroupStructure) (Weight, error) {
	n := gs.Len()
	if n == 0 {
		return nil, fmt.Errorf("propagate.LethargyWeights: %w", label.ErrInvalidGroups)
	}
	widths := make([]float64, n)
	total := 0.0
	for g := range widths {
		w, err := gs.LethargyWidth(g)
		if err != nil {
			return nil, err
		}
		widths[g] = w
		total += w
	}

	return func(p label.Parameter) float64 {
		if !gs.Contains(p.Group) {
			return 0
		}
		return widths[p.Group] / total
	}, nil
}

// Collapse builds the map S' from params to one energy-integrated
// parameter per (ZAI, MT), Group = label.AllGroups, in canonical order.
// Entry S'[(z,m), p] is weight(p) when p belongs to (z, m).
// Parameters that are already collapsed map onto themselves with weight 1.
func Collapse(params label.Index[label.Parameter], weight Weight) (stats.Matrix[label.Parameter, label.Parameter], error) {
	if weight == nil {
		weight = UnitWeights
	}
	seen := make(map[label.Parameter]struct{})
	var rows []label.Parameter
	for _, p := range params.Keys() {
		r := label.Parameter{ZAI: p.ZAI, MT: p.MT, Group: label.AllGroups}
		if _, ok := seen[r]; !ok {
			seen[r] = struct{}{}
			rows = append(rows, r)
		}
	}
	label.SortParameters(rows)
	rowIdx, err := label.NewIndex(rows)
	if err != nil {
		return stats.Matrix[label.Parameter, label.Parameter]{}, fmt.Errorf("propagate.Collapse: %w", err)
	}

	data := make([][]float64, len(rows))
	for i := range data {
		data[i] = make([]float64, params.Len())
	}
	for j, p := range params.Keys() {
		i, _ := rowIdx.Pos(label.Parameter{ZAI: p.ZAI, MT: p.MT, Group: label.AllGroups})
		w := 1.0
		if p.Group != label.AllGroups {
			w = weight(p)
		}
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return stats.Matrix[label.Parameter, label.Parameter]{}, fmt.Errorf("propagate.Collapse: weight of %s is %g: %w",
				p, w, label.ErrInvalidGroups)
		}
		data[i][j] = w
	}

	return stats.NewMatrix(rowIdx, params, data)
}
