// SPDX-License-Identifier: MIT

// Package matrix - Dense storage (row-major) & safe accessors.
//
// Purpose:
//   - Flat row-major buffer with the explicit index formula i*cols + j.
//   - Public accessors return errors instead of panicking.
//   - Constructors copy their input; a Dense never aliases caller storage.
//
// Complexity quicksheet:
//   - NewDense: O(r*c) zero-init; At/Set: O(1); Clone: O(r*c); Induced: O(r'*c').

package matrix

import (
	"fmt"
	"math"
	"strings"
)

const (
	ctxAt      = "At"
	ctxSet     = "Set"
	ctxFromRow = "NewDenseFromRows"
	ctxData    = "NewDenseData"
	ctxInduced = "Induced"
)

// denseErrorf wraps err with a Dense method tag and the offending coordinates.
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is a row-major matrix of float64 values.
type Dense struct {
	r, c int       // rows, cols (both > 0)
	data []float64 // len == r*c
}

var _ fmt.Stringer = (*Dense)(nil)

// NewDense creates an r×c zero matrix. Both dimensions must be positive.
func NewDense(rows, cols int) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("NewDense(%d,%d): %w", rows, cols, ErrInvalidDimension)
	}

	return &Dense{r: rows, c: cols, data: make([]float64, rows*cols)}, nil
}

// NewIdentity returns the n×n identity.
func NewIdentity(n int) (*Dense, error) {
	m, err := NewDense(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}

	return m, nil
}

// NewDenseData copies a row-major slice of length rows*cols into a new Dense.
// Non-finite values are rejected.
func NewDenseData(rows, cols int, data []float64) (*Dense, error) {
	m, err := NewDense(rows, cols)
	if err != nil {
		return nil, err
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("%s: len %d, want %d: %w", ctxData, len(data), rows*cols, ErrDimensionMismatch)
	}
	for k, v := range data {
		if isNonFinite(v) {
			return nil, denseErrorf(ctxData, k/cols, k%cols, ErrNaNInf)
		}
	}
	copy(m.data, data)

	return m, nil
}

// NewDenseFromRows copies a rectangular [][]float64 into a new Dense.
// Ragged input yields ErrDimensionMismatch, empty input ErrInvalidDimension.
func NewDenseFromRows(rows [][]float64) (*Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, matrixErrorf(ctxFromRow, ErrInvalidDimension)
	}
	r, c := len(rows), len(rows[0])
	m, err := NewDense(r, c)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != c {
			return nil, fmt.Errorf("%s: row %d has %d entries, want %d: %w", ctxFromRow, i, len(row), c, ErrDimensionMismatch)
		}
		for j, v := range row {
			if isNonFinite(v) {
				return nil, denseErrorf(ctxFromRow, i, j, ErrNaNInf)
			}
			m.data[i*c+j] = v
		}
	}

	return m, nil
}

// Rows returns the number of rows.
func (m *Dense) Rows() int { return m.r }

// Cols returns the number of columns.
func (m *Dense) Cols() int { return m.c }

// Dims returns (rows, cols).
func (m *Dense) Dims() (rows, cols int) { return m.r, m.c }

func (m *Dense) indexOf(method string, row, col int) (int, error) {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return 0, denseErrorf(method, row, col, ErrOutOfRange)
	}

	return row*m.c + col, nil
}

// At returns the element at (row, col).
func (m *Dense) At(row, col int) (float64, error) {
	idx, err := m.indexOf(ctxAt, row, col)
	if err != nil {
		return 0, err
	}

	return m.data[idx], nil
}

// Set writes v at (row, col). Non-finite values are rejected.
func (m *Dense) Set(row, col int, v float64) error {
	idx, err := m.indexOf(ctxSet, row, col)
	if err != nil {
		return err
	}
	if isNonFinite(v) {
		return denseErrorf(ctxSet, row, col, ErrNaNInf)
	}
	m.data[idx] = v

	return nil
}

// Row returns a copy of row i, or nil when i is out of range.
func (m *Dense) Row(i int) []float64 {
	if i < 0 || i >= m.r {
		return nil
	}
	out := make([]float64, m.c)
	copy(out, m.data[i*m.c:(i+1)*m.c])

	return out
}

// Diag returns a copy of the main diagonal (length min(r, c)).
func (m *Dense) Diag() []float64 {
	n := min(m.r, m.c)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = m.data[i*m.c+i]
	}

	return out
}

// RawRowMajor returns a copy of the backing data in row-major order.
func (m *Dense) RawRowMajor() []float64 {
	out := make([]float64, len(m.data))
	copy(out, m.data)

	return out
}

// Clone returns a deep copy.
func (m *Dense) Clone() *Dense {
	out := &Dense{r: m.r, c: m.c, data: make([]float64, len(m.data))}
	copy(out.data, m.data)

	return out
}

// Induced copies the sub-matrix selected by rowsIdx × colsIdx, in the given
// order. Indices may repeat. Both selections must be non-empty.
func (m *Dense) Induced(rowsIdx, colsIdx []int) (*Dense, error) {
	out, err := NewDense(len(rowsIdx), len(colsIdx))
	if err != nil {
		return nil, matrixErrorf(ctxInduced, err)
	}
	for i, ri := range rowsIdx {
		if ri < 0 || ri >= m.r {
			return nil, denseErrorf(ctxInduced, ri, 0, ErrOutOfRange)
		}
		for j, cj := range colsIdx {
			if cj < 0 || cj >= m.c {
				return nil, denseErrorf(ctxInduced, ri, cj, ErrOutOfRange)
			}
			out.data[i*out.c+j] = m.data[ri*m.c+cj]
		}
	}

	return out, nil
}

// String renders one bracketed row per line for debugging.
func (m *Dense) String() string {
	var sb strings.Builder
	for i := 0; i < m.r; i++ {
		sb.WriteString("[")
		for j := 0; j < m.c; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%g", m.data[i*m.c+j])
		}
		sb.WriteString("]\n")
	}

	return sb.String()
}

func isNonFinite(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) }
