// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//  - Single source of truth for shape, finiteness and symmetry checks.
//  - Validators return sentinels wrapped with their own tag; kernels add the
//    operation tag on top.
//
// Note:
//  - Composite validators run in a fixed order: nil → shape → values.

package matrix

import (
	"fmt"
	"math"
)

func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateNotNil ensures m is non-nil.
func ValidateNotNil(m *Dense) error {
	if m == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateSquare checks that m is non-nil and square.
func ValidateSquare(m *Dense) error {
	if err := ValidateNotNil(m); err != nil {
		return err
	}
	if m.r != m.c {
		return fmt.Errorf("ValidateSquare: %dx%d: %w", m.r, m.c, ErrDimensionMismatch)
	}

	return nil
}

// ValidateSameShape ensures a and b are non-nil with equal dimensions.
func ValidateSameShape(a, b *Dense) error {
	if a == nil || b == nil {
		return validatorErrorf("ValidateSameShape", ErrNilMatrix)
	}
	if a.r != b.r || a.c != b.c {
		return fmt.Errorf("ValidateSameShape: %dx%d vs %dx%d: %w", a.r, a.c, b.r, b.c, ErrDimensionMismatch)
	}

	return nil
}

// ValidateMulCompatible ensures a.Cols == b.Rows for a·b.
func ValidateMulCompatible(a, b *Dense) error {
	if a == nil || b == nil {
		return validatorErrorf("ValidateMulCompatible", ErrNilMatrix)
	}
	if a.c != b.r {
		return fmt.Errorf("ValidateMulCompatible: %dx%d · %dx%d: %w", a.r, a.c, b.r, b.c, ErrDimensionMismatch)
	}

	return nil
}

// ValidateVecLen ensures len(x) == n.
func ValidateVecLen(x []float64, n int) error {
	if len(x) != n {
		return fmt.Errorf("ValidateVecLen: len %d, want %d: %w", len(x), n, ErrDimensionMismatch)
	}

	return nil
}

// ValidateFinite rejects any NaN/±Inf entry of x.
func ValidateFinite(x []float64) error {
	for i, v := range x {
		if isNonFinite(v) {
			return fmt.Errorf("ValidateFinite: element %d: %w", i, ErrNaNInf)
		}
	}

	return nil
}

// ValidateSymmetric checks that m is square and symmetric within the relative
// tolerance eps (see package doc for the exact rule).
// Time: O(n²) over the upper triangle. Space: O(1).
func ValidateSymmetric(m *Dense, eps float64) error {
	if err := ValidateSquare(m); err != nil {
		return err
	}
	if i, j, ok := firstAsymmetry(m, eps); !ok {
		return fmt.Errorf("ValidateSymmetric: entries (%d,%d)=%g and (%d,%d)=%g: %w",
			i, j, m.data[i*m.c+j], j, i, m.data[j*m.c+i], ErrNotSymmetric)
	}

	return nil
}

// MaxAsymmetry returns the largest relative asymmetry of a square m, using
// the same scale as ValidateSymmetric. Zero for perfectly symmetric input.
func MaxAsymmetry(m *Dense) float64 {
	if m == nil || m.r != m.c {
		return math.Inf(1)
	}
	worst := 0.0
	n := m.r
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			diff, scale := asymmetry(m, i, j)
			if diff == 0 {
				continue
			}
			if scale == 0 {
				return math.Inf(1)
			}
			worst = math.Max(worst, diff/scale)
		}
	}

	return worst
}

// ValidateNonNegativeDiag rejects negative diagonal entries. It returns the
// first offending index alongside the error.
func ValidateNonNegativeDiag(m *Dense) (int, error) {
	if err := ValidateSquare(m); err != nil {
		return -1, err
	}
	for i := 0; i < m.r; i++ {
		if v := m.data[i*m.c+i]; v < 0 {
			return i, fmt.Errorf("ValidateNonNegativeDiag: entry %d = %g: %w", i, v, ErrNegativeVariance)
		}
	}

	return -1, nil
}

func asymmetry(m *Dense, i, j int) (diff, scale float64) {
	aij, aji := m.data[i*m.c+j], m.data[j*m.c+i]
	diff = math.Abs(aij - aji)
	scale = math.Max(math.Abs(aij), math.Abs(aji))
	scale = math.Max(scale, math.Sqrt(math.Abs(m.data[i*m.c+i]*m.data[j*m.c+j])))

	return diff, scale
}

func firstAsymmetry(m *Dense, eps float64) (int, int, bool) {
	n := m.r
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			diff, scale := asymmetry(m, i, j)
			if diff > eps*scale {
				return i, j, false
			}
		}
	}

	return 0, 0, true
}
