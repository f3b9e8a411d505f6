// SPDX-License-Identifier: MIT

package glls

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/glls/label"
	"github.com/katalvlaran/glls/matrix"
)

// Error kinds. They are the sentinels of the lower packages, so errors.Is
// matches regardless of where a failure was detected.
var (
	ErrDimensionMismatch = matrix.ErrDimensionMismatch
	ErrNotSymmetric      = matrix.ErrNotSymmetric
	ErrLabelMismatch     = label.ErrLabelMismatch
	ErrIllConditioned    = matrix.ErrIllConditioned
	ErrInvalidDimension  = matrix.ErrInvalidDimension

	// ErrInvalidConfig indicates a Config value outside its valid range.
	ErrInvalidConfig = errors.New("glls: invalid configuration")
)

// OperandError names the operation and the operand that failed.
type OperandError struct {
	Op      string // e.g. "Assimilate"
	Operand string // e.g. "response covariance Cr"
	Err     error
}

func (e *OperandError) Error() string {
	return fmt.Sprintf("glls: %s: %s: %v", e.Op, e.Operand, e.Err)
}

func (e *OperandError) Unwrap() error { return e.Err }

func operandErr(op, operand string, err error) error {
	return &OperandError{Op: op, Operand: operand, Err: err}
}
