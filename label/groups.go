// SPDX-License-Identifier: MIT

package label

import (
	"fmt"
	"math"
)

// GroupStructure is an immutable set of energy-group boundaries in eV,
// stored in ascending order. Group g spans [bounds[g], bounds[g+1]).
// It is passed explicitly to whoever needs it; there is no package-level
// default structure.
type GroupStructure struct {
	bounds []float64
}

// NewGroupStructure validates and copies the boundaries. They must be finite,
// strictly positive and strictly increasing, with at least two entries.
func NewGroupStructure(bounds []float64) (GroupStructure, error) {
	if len(bounds) < 2 {
		return GroupStructure{}, fmt.Errorf("NewGroupStructure: %d boundaries: %w", len(bounds), ErrInvalidGroups)
	}
	out := make([]float64, len(bounds))
	for i, e := range bounds {
		if math.IsNaN(e) || math.IsInf(e, 0) || e <= 0 {
			return GroupStructure{}, fmt.Errorf("NewGroupStructure: boundary %d = %g: %w", i, e, ErrInvalidGroups)
		}
		if i > 0 && e <= out[i-1] {
			return GroupStructure{}, fmt.Errorf("NewGroupStructure: boundary %d not increasing: %w", i, ErrInvalidGroups)
		}
		out[i] = e
	}

	return GroupStructure{bounds: out}, nil
}

// Len returns the number of groups.
func (gs GroupStructure) Len() int {
	if len(gs.bounds) == 0 {
		return 0
	}

	return len(gs.bounds) - 1
}

// Bounds returns the lower and upper energy of group g.
func (gs GroupStructure) Bounds(g int) (lo, hi float64, err error) {
	if g < 0 || g >= gs.Len() {
		return 0, 0, fmt.Errorf("Bounds(%d): %d groups: %w", g, gs.Len(), ErrInvalidGroups)
	}

	return gs.bounds[g], gs.bounds[g+1], nil
}

// LethargyWidth returns ln(hi/lo) of group g.
func (gs GroupStructure) LethargyWidth(g int) (float64, error) {
	lo, hi, err := gs.Bounds(g)
	if err != nil {
		return 0, err
	}

	return math.Log(hi / lo), nil
}

// Contains reports whether g is a valid group number.
func (gs GroupStructure) Contains(g int) bool { return g >= 0 && g < gs.Len() }
