// SPDX-License-Identifier: MIT
// Package matrix: linear-algebra kernels on *Dense.
//
// All kernels validate first, allocate a fresh result and never mutate their
// operands. Loop orders are fixed, so results are bitwise reproducible.

package matrix

import "math"

const (
	opAdd       = "Add"
	opSub       = "Sub"
	opMul       = "Mul"
	opMulBT     = "MulBT"
	opMulAT     = "MulAT"
	opTranspose = "Transpose"
	opScale     = "Scale"
	opMatVec    = "MatVec"
	opDot       = "Dot"
	opSymmetric = "SymmetrizeChecked"
	opAllClose  = "AllClose"
)

func addSub(a, b *Dense, sign float64, tag string) (*Dense, error) {
	if err := ValidateSameShape(a, b); err != nil {
		return nil, matrixErrorf(tag, err)
	}
	out := &Dense{r: a.r, c: a.c, data: make([]float64, len(a.data))}
	for k := range a.data {
		out.data[k] = a.data[k] + sign*b.data[k]
	}

	return out, nil
}

// Add returns a + b.
func Add(a, b *Dense) (*Dense, error) { return addSub(a, b, +1, opAdd) }

// Sub returns a − b.
func Sub(a, b *Dense) (*Dense, error) { return addSub(a, b, -1, opSub) }

// Mul returns a·b using an i→k→j loop that walks both operands by rows.
// Zero entries of a are skipped. Complexity: O(r·n·c).
func Mul(a, b *Dense) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	out := &Dense{r: a.r, c: b.c, data: make([]float64, a.r*b.c)}
	for i := 0; i < a.r; i++ {
		rowA := a.data[i*a.c : (i+1)*a.c]
		rowO := out.data[i*b.c : (i+1)*b.c]
		for k, av := range rowA {
			if av == 0 {
				continue
			}
			rowB := b.data[k*b.c : (k+1)*b.c]
			for j, bv := range rowB {
				rowO[j] += av * bv
			}
		}
	}

	return out, nil
}

// MulBT returns a·bᵀ without materializing bᵀ. Requires a.Cols == b.Cols.
// Each output entry is a dot product of two contiguous rows.
func MulBT(a, b *Dense) (*Dense, error) {
	if a == nil || b == nil {
		return nil, matrixErrorf(opMulBT, ErrNilMatrix)
	}
	if a.c != b.c {
		return nil, matrixErrorf(opMulBT, ErrDimensionMismatch)
	}
	out := &Dense{r: a.r, c: b.r, data: make([]float64, a.r*b.r)}
	for i := 0; i < a.r; i++ {
		rowA := a.data[i*a.c : (i+1)*a.c]
		for j := 0; j < b.r; j++ {
			out.data[i*b.r+j] = dot(rowA, b.data[j*b.c:(j+1)*b.c])
		}
	}

	return out, nil
}

// MulAT returns aᵀ·b without materializing aᵀ. Requires a.Rows == b.Rows.
func MulAT(a, b *Dense) (*Dense, error) {
	if a == nil || b == nil {
		return nil, matrixErrorf(opMulAT, ErrNilMatrix)
	}
	if a.r != b.r {
		return nil, matrixErrorf(opMulAT, ErrDimensionMismatch)
	}
	out := &Dense{r: a.c, c: b.c, data: make([]float64, a.c*b.c)}
	for k := 0; k < a.r; k++ {
		rowA := a.data[k*a.c : (k+1)*a.c]
		rowB := b.data[k*b.c : (k+1)*b.c]
		for i, av := range rowA {
			if av == 0 {
				continue
			}
			rowO := out.data[i*b.c : (i+1)*b.c]
			for j, bv := range rowB {
				rowO[j] += av * bv
			}
		}
	}

	return out, nil
}

// Transpose returns mᵀ.
func Transpose(m *Dense) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	out := &Dense{r: m.c, c: m.r, data: make([]float64, len(m.data))}
	for i := 0; i < m.r; i++ {
		for j := 0; j < m.c; j++ {
			out.data[j*m.r+i] = m.data[i*m.c+j]
		}
	}

	return out, nil
}

// Scale returns alpha·m. alpha must be finite.
func Scale(m *Dense, alpha float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	if isNonFinite(alpha) {
		return nil, matrixErrorf(opScale, ErrNaNInf)
	}
	out := &Dense{r: m.r, c: m.c, data: make([]float64, len(m.data))}
	for k, v := range m.data {
		out.data[k] = alpha * v
	}

	return out, nil
}

// MatVec returns y = m·x.
func MatVec(m *Dense, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.c); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	y := make([]float64, m.r)
	for i := 0; i < m.r; i++ {
		y[i] = dot(m.data[i*m.c:(i+1)*m.c], x)
	}

	return y, nil
}

// Dot returns Σ x[i]·y[i].
func Dot(x, y []float64) (float64, error) {
	if err := ValidateVecLen(y, len(x)); err != nil {
		return 0, matrixErrorf(opDot, err)
	}

	return dot(x, y), nil
}

func dot(x, y []float64) float64 {
	s := 0.0
	for i, v := range x {
		s += v * y[i]
	}

	return s
}

// SymmetrizeChecked verifies that m is symmetric within the relative
// tolerance (WithEpsilon) and returns (m + mᵀ)/2. Asymmetry beyond tolerance
// is reported, never repaired.
func SymmetrizeChecked(m *Dense, opts ...Option) (*Dense, error) {
	o := gatherOptions(opts...)
	if err := ValidateSymmetric(m, o.eps); err != nil {
		return nil, matrixErrorf(opSymmetric, err)
	}
	n := m.r
	out := m.Clone()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			avg := 0.5 * (m.data[i*n+j] + m.data[j*n+i])
			out.data[i*n+j] = avg
			out.data[j*n+i] = avg
		}
	}

	return out, nil
}

// AllClose reports whether |a−b| ≤ atol + rtol·|b| element-wise.
func AllClose(a, b *Dense, rtol, atol float64) (bool, error) {
	if err := ValidateSameShape(a, b); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	for k := range a.data {
		if math.Abs(a.data[k]-b.data[k]) > atol+rtol*math.Abs(b.data[k]) {
			return false, nil
		}
	}

	return true, nil
}
