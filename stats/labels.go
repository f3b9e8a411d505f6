// SPDX-License-Identifier: MIT

package stats

import (
	"fmt"

	"github.com/katalvlaran/glls/label"
	"github.com/katalvlaran/glls/matrix"
)

// Compatible checks that got carries exactly the labels of want, in order.
// what names the operand in the error. A length difference matches both
// matrix.ErrDimensionMismatch and label.ErrLabelMismatch.
func Compatible[K label.Key](what string, want, got label.Index[K]) error {
	if want.Len() != got.Len() {
		return fmt.Errorf("%s: %d labels, want %d: %w: %w",
			what, got.Len(), want.Len(), matrix.ErrDimensionMismatch, label.ErrLabelMismatch)
	}

	return label.Require(what, want, got)
}

// subIndex resolves keys against ix and returns both the new index and the
// source positions.
func subIndex[K label.Key](ix label.Index[K], keys []K) (label.Index[K], []int, error) {
	pos, err := ix.Positions(keys)
	if err != nil {
		return label.Index[K]{}, nil, err
	}
	sub, err := label.NewIndex(keys)
	if err != nil {
		return label.Index[K]{}, nil, err
	}

	return sub, pos, nil
}
