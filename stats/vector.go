// SPDX-License-Identifier: MIT

package stats

import (
	"fmt"

	"github.com/katalvlaran/glls/label"
	"github.com/katalvlaran/glls/matrix"
)

// Vector is an immutable sequence of values tagged by an ordered label set.
type Vector[K label.Key] struct {
	idx    label.Index[K]
	values []float64
}

// NewVector copies values under idx. Lengths must agree and values must be finite.
func NewVector[K label.Key](idx label.Index[K], values []float64) (Vector[K], error) {
	if len(values) != idx.Len() {
		return Vector[K]{}, fmt.Errorf("NewVector: %d values for %d labels: %w",
			len(values), idx.Len(), matrix.ErrDimensionMismatch)
	}
	if err := matrix.ValidateFinite(values); err != nil {
		return Vector[K]{}, fmt.Errorf("NewVector: %w", err)
	}
	v := Vector[K]{idx: idx, values: make([]float64, len(values))}
	copy(v.values, values)

	return v, nil
}

// Labels returns the label set.
func (v Vector[K]) Labels() label.Index[K] { return v.idx }

// Len returns the number of entries.
func (v Vector[K]) Len() int { return len(v.values) }

// At returns the value at position i. It panics when i is out of range.
func (v Vector[K]) At(i int) float64 { return v.values[i] }

// Get returns the value labeled k.
func (v Vector[K]) Get(k K) (float64, error) {
	i, ok := v.idx.Pos(k)
	if !ok {
		return 0, fmt.Errorf("Vector.Get: %s: %w", k, label.ErrLabelMismatch)
	}

	return v.values[i], nil
}

// Values returns a copy of the values in label order.
func (v Vector[K]) Values() []float64 {
	out := make([]float64, len(v.values))
	copy(out, v.values)

	return out
}

// Sub returns the entries for keys, in the order given.
func (v Vector[K]) Sub(keys []K) (Vector[K], error) {
	idx, pos, err := subIndex(v.idx, keys)
	if err != nil {
		return Vector[K]{}, fmt.Errorf("Vector.Sub: %w", err)
	}
	out := Vector[K]{idx: idx, values: make([]float64, len(pos))}
	for i, p := range pos {
		out.values[i] = v.values[p]
	}

	return out, nil
}

// Difference returns a − b. Both must carry identical labels.
func Difference[K label.Key](a, b Vector[K]) (Vector[K], error) {
	if err := Compatible("Difference", a.idx, b.idx); err != nil {
		return Vector[K]{}, err
	}
	out := Vector[K]{idx: a.idx, values: make([]float64, len(a.values))}
	for i := range a.values {
		out.values[i] = a.values[i] - b.values[i]
	}

	return out, nil
}
