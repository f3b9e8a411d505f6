// SPDX-License-Identifier: MIT
// Package matrix: covariance-specific helpers.

package matrix

import (
	"fmt"
	"math"
)

const (
	opStdDevs     = "StdDevs"
	opCorrelation = "Correlation"
	opBlockDiag   = "BlockDiag"
)

// StdDevs returns √diag(cov). A negative variance yields ErrNegativeVariance.
func StdDevs(cov *Dense) ([]float64, error) {
	if _, err := ValidateNonNegativeDiag(cov); err != nil {
		return nil, matrixErrorf(opStdDevs, err)
	}
	d := cov.Diag()
	for i, v := range d {
		d[i] = math.Sqrt(v)
	}

	return d, nil
}

// Correlation returns cov[i,j] / (σi·σj).
// Zero standard deviations are replaced by 1 so that rows of parameters
// without uncertainty come out as zeros instead of NaN; any remaining NaN
// is set to 0.
func Correlation(cov *Dense) (*Dense, error) {
	sd, err := StdDevs(cov)
	if err != nil {
		return nil, matrixErrorf(opCorrelation, err)
	}
	for i, s := range sd {
		if s == 0 {
			sd[i] = 1
		}
	}
	n := cov.r
	out := &Dense{r: n, c: n, data: make([]float64, n*n)}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := cov.data[i*n+j] / (sd[i] * sd[j])
			if math.IsNaN(v) {
				v = 0
			}
			out.data[i*n+j] = v
		}
	}

	return out, nil
}

// BlockDiag places square blocks along the diagonal of a new matrix with
// zero cross-blocks. At least one block is required.
// Complexity: O(n²) for the result.
func BlockDiag(blocks ...*Dense) (*Dense, error) {
	if len(blocks) == 0 {
		return nil, matrixErrorf(opBlockDiag, ErrInvalidDimension)
	}
	n := 0
	for i, b := range blocks {
		if err := ValidateSquare(b); err != nil {
			return nil, fmt.Errorf("%s: block %d: %w", opBlockDiag, i, err)
		}
		n += b.r
	}
	out := &Dense{r: n, c: n, data: make([]float64, n*n)}
	off := 0
	for _, b := range blocks {
		for i := 0; i < b.r; i++ {
			copy(out.data[(off+i)*n+off:(off+i)*n+off+b.c], b.data[i*b.c:(i+1)*b.c])
		}
		off += b.r
	}

	return out, nil
}

// Sandwich returns a·c·aᵀ for a k×n a and an n×n c, the first-order
// propagation of c through a.
func Sandwich(a, c *Dense) (*Dense, error) {
	ac, err := Mul(a, c)
	if err != nil {
		return nil, matrixErrorf("Sandwich", err)
	}
	out, err := MulBT(ac, a)
	if err != nil {
		return nil, matrixErrorf("Sandwich", err)
	}

	return out, nil
}

// SandwichDiag returns diag(a·c·aᵀ) row by row without forming the full
// product: out[i] = a[i,:]·c·a[i,:]ᵀ.
func SandwichDiag(a, c *Dense) ([]float64, error) {
	if err := ValidateSquare(c); err != nil {
		return nil, matrixErrorf("SandwichDiag", err)
	}
	if err := ValidateMulCompatible(a, c); err != nil {
		return nil, matrixErrorf("SandwichDiag", err)
	}
	n := c.r
	out := make([]float64, a.r)
	tmp := make([]float64, n)
	for i := 0; i < a.r; i++ {
		row := a.data[i*n : (i+1)*n]
		for j := range tmp {
			tmp[j] = 0
		}
		for k, av := range row {
			if av == 0 {
				continue
			}
			ck := c.data[k*n : (k+1)*n]
			for j, cv := range ck {
				tmp[j] += av * cv
			}
		}
		out[i] = dot(tmp, row)
	}

	return out, nil
}
