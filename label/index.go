// SPDX-License-Identifier: MIT

package label

import (
	"fmt"
)

// Key is the constraint satisfied by every label type. String is used in
// error messages and reports only; identity is the comparable value itself.
type Key interface {
	comparable
	String() string
}

// Index is an ordered, duplicate-free set of labels.
// The zero value is a valid empty index.
type Index[K Key] struct {
	keys []K
	pos  map[K]int
}

// NewIndex builds an Index from keys, preserving their order.
// The slice is copied. Duplicates are rejected with ErrLabelMismatch.
// Complexity: O(n).
func NewIndex[K Key](keys []K) (Index[K], error) {
	ix := Index[K]{
		keys: make([]K, len(keys)),
		pos:  make(map[K]int, len(keys)),
	}
	for i, k := range keys {
		if j, dup := ix.pos[k]; dup {
			return Index[K]{}, fmt.Errorf("NewIndex: %s at %d and %d: %w", k, j, i, ErrLabelMismatch)
		}
		ix.keys[i] = k
		ix.pos[k] = i
	}

	return ix, nil
}

// Len returns the number of labels.
func (ix Index[K]) Len() int { return len(ix.keys) }

// At returns the label at position i. It panics if i is out of range,
// mirroring slice indexing; use Len to bound loops.
func (ix Index[K]) At(i int) K { return ix.keys[i] }

// Pos returns the position of k and whether it is present.
func (ix Index[K]) Pos(k K) (int, bool) {
	i, ok := ix.pos[k]
	return i, ok
}

// Contains reports whether k is part of the index.
func (ix Index[K]) Contains(k K) bool {
	_, ok := ix.pos[k]
	return ok
}

// Keys returns a copy of the labels in order.
func (ix Index[K]) Keys() []K {
	out := make([]K, len(ix.keys))
	copy(out, ix.keys)

	return out
}

// Equal reports whether both indexes hold the same labels in the same order.
func (ix Index[K]) Equal(other Index[K]) bool {
	if len(ix.keys) != len(other.keys) {
		return false
	}
	for i := range ix.keys {
		if ix.keys[i] != other.keys[i] {
			return false
		}
	}

	return true
}

// Positions maps keys to their positions in ix, in the order given.
// Unknown keys yield ErrLabelMismatch.
func (ix Index[K]) Positions(keys []K) ([]int, error) {
	out := make([]int, len(keys))
	for i, k := range keys {
		p, ok := ix.pos[k]
		if !ok {
			return nil, fmt.Errorf("Positions: unknown label %s: %w", k, ErrLabelMismatch)
		}
		out[i] = p
	}

	return out, nil
}

// Intersect returns the labels present in both indexes, in ix order.
func (ix Index[K]) Intersect(other Index[K]) []K {
	out := make([]K, 0, min(len(ix.keys), len(other.keys)))
	for _, k := range ix.keys {
		if other.Contains(k) {
			out = append(out, k)
		}
	}

	return out
}

// Union returns a new index holding ix followed by the labels of other
// that ix does not already contain.
func (ix Index[K]) Union(other Index[K]) Index[K] {
	keys := ix.Keys()
	for _, k := range other.keys {
		if !ix.Contains(k) {
			keys = append(keys, k)
		}
	}
	// keys are duplicate-free by construction
	out, _ := NewIndex(keys)

	return out
}

// Require checks that got equals want. what names the operand for the error
// message (e.g. "prior covariance"). Length differences and label differences
// are both reported as ErrLabelMismatch; callers that need to distinguish a
// pure shape error check Len first.
func Require[K Key](what string, want, got Index[K]) error {
	if want.Len() != got.Len() {
		return fmt.Errorf("%s: %d labels, want %d: %w", what, got.Len(), want.Len(), ErrLabelMismatch)
	}
	for i := range want.keys {
		if want.keys[i] != got.keys[i] {
			return fmt.Errorf("%s: position %d is %s, want %s: %w",
				what, i, got.keys[i], want.keys[i], ErrLabelMismatch)
		}
	}

	return nil
}
