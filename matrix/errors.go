// SPDX-License-Identifier: MIT
// Package matrix: sentinel error set.
// Every kernel returns one of these, wrapped with an operation tag through
// matrixErrorf, so callers branch with errors.Is and still read where it failed.

package matrix

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimension indicates a zero or negative dimension where a
	// positive one is required.
	ErrInvalidDimension = errors.New("matrix: dimensions must be > 0")

	// ErrOutOfRange indicates that a row or column index is outside valid bounds.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible shapes between operands,
	// e.g. Add on different shapes or Mul where a.Cols != b.Rows.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNotSymmetric signals that a matrix expected to be symmetric violated
	// symmetry beyond the configured relative tolerance.
	ErrNotSymmetric = errors.New("matrix: matrix is not symmetric within tolerance")

	// ErrNaNInf signals a NaN or ±Inf value where finite values are required.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrNilMatrix indicates that a nil *Dense was passed.
	ErrNilMatrix = errors.New("matrix: nil matrix")

	// ErrNegativeVariance indicates a negative diagonal entry in a matrix
	// that must be a covariance.
	ErrNegativeVariance = errors.New("matrix: negative variance")

	// ErrIllConditioned is returned when a factorization fails or the
	// condition estimate exceeds the configured limit.
	ErrIllConditioned = errors.New("matrix: matrix is singular or ill-conditioned")
)

// matrixErrorf wraps err with an operation tag, preserving it for errors.Is.
// Callers must only pass a non-nil err.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
