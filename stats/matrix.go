// SPDX-License-Identifier: MIT

package stats

import (
	"fmt"

	"github.com/katalvlaran/glls/label"
	"github.com/katalvlaran/glls/matrix"
)

// Matrix is an immutable rectangular matrix with row labels R and column
// labels C. Either label set may be empty.
type Matrix[R, C label.Key] struct {
	rows label.Index[R]
	cols label.Index[C]
	m    *matrix.Dense // nil when rows or cols is empty
}

// NewMatrix copies data, one inner slice per row label.
func NewMatrix[R, C label.Key](rows label.Index[R], cols label.Index[C], data [][]float64) (Matrix[R, C], error) {
	if len(data) != rows.Len() {
		return Matrix[R, C]{}, fmt.Errorf("NewMatrix: %d rows for %d labels: %w",
			len(data), rows.Len(), matrix.ErrDimensionMismatch)
	}
	for i, r := range data {
		if len(r) != cols.Len() {
			return Matrix[R, C]{}, fmt.Errorf("NewMatrix: row %d has %d entries for %d labels: %w",
				i, len(r), cols.Len(), matrix.ErrDimensionMismatch)
		}
	}
	if rows.Len() == 0 || cols.Len() == 0 {
		return Matrix[R, C]{rows: rows, cols: cols}, nil
	}
	m, err := matrix.NewDenseFromRows(data)
	if err != nil {
		return Matrix[R, C]{}, fmt.Errorf("NewMatrix: %w", err)
	}

	return Matrix[R, C]{rows: rows, cols: cols, m: m}, nil
}

// MatrixFromDense copies m under the given labels. nil is accepted when
// either label set is empty.
func MatrixFromDense[R, C label.Key](rows label.Index[R], cols label.Index[C], m *matrix.Dense) (Matrix[R, C], error) {
	if rows.Len() == 0 || cols.Len() == 0 {
		return Matrix[R, C]{rows: rows, cols: cols}, nil
	}
	if m == nil {
		return Matrix[R, C]{}, fmt.Errorf("MatrixFromDense: %w", matrix.ErrNilMatrix)
	}
	if r, c := m.Dims(); r != rows.Len() || c != cols.Len() {
		return Matrix[R, C]{}, fmt.Errorf("MatrixFromDense: %dx%d for %dx%d labels: %w",
			r, c, rows.Len(), cols.Len(), matrix.ErrDimensionMismatch)
	}

	return Matrix[R, C]{rows: rows, cols: cols, m: m.Clone()}, nil
}

// RowLabels returns the row label set.
func (m Matrix[R, C]) RowLabels() label.Index[R] { return m.rows }

// ColLabels returns the column label set.
func (m Matrix[R, C]) ColLabels() label.Index[C] { return m.cols }

// Dims returns (rows, cols).
func (m Matrix[R, C]) Dims() (int, int) { return m.rows.Len(), m.cols.Len() }

// AtPos returns the entry at positions (i, j).
func (m Matrix[R, C]) AtPos(i, j int) (float64, error) {
	if m.m == nil {
		return 0, fmt.Errorf("Matrix.AtPos(%d,%d): %w", i, j, matrix.ErrOutOfRange)
	}

	return m.m.At(i, j)
}

// At returns the entry for (r, c).
func (m Matrix[R, C]) At(r R, c C) (float64, error) {
	i, ok := m.rows.Pos(r)
	if !ok {
		return 0, fmt.Errorf("Matrix.At: row %s: %w", r, label.ErrLabelMismatch)
	}
	j, ok := m.cols.Pos(c)
	if !ok {
		return 0, fmt.Errorf("Matrix.At: column %s: %w", c, label.ErrLabelMismatch)
	}

	return m.m.At(i, j)
}

// Row returns the row labeled r as a vector over the column labels.
func (m Matrix[R, C]) Row(r R) (Vector[C], error) {
	i, ok := m.rows.Pos(r)
	if !ok {
		return Vector[C]{}, fmt.Errorf("Matrix.Row: %s: %w", r, label.ErrLabelMismatch)
	}
	if m.m == nil {
		return Vector[C]{idx: m.cols}, nil
	}

	return Vector[C]{idx: m.cols, values: m.m.Row(i)}, nil
}

// SubRows keeps the rows for keys, in the order given.
func (m Matrix[R, C]) SubRows(keys []R) (Matrix[R, C], error) {
	idx, pos, err := subIndex(m.rows, keys)
	if err != nil {
		return Matrix[R, C]{}, fmt.Errorf("Matrix.SubRows: %w", err)
	}
	if len(pos) == 0 || m.m == nil {
		return Matrix[R, C]{rows: idx, cols: m.cols}, nil
	}
	d, err := m.m.Induced(pos, seq(m.cols.Len()))
	if err != nil {
		return Matrix[R, C]{}, fmt.Errorf("Matrix.SubRows: %w", err)
	}

	return Matrix[R, C]{rows: idx, cols: m.cols, m: d}, nil
}

// SubCols keeps the columns for keys, in the order given.
func (m Matrix[R, C]) SubCols(keys []C) (Matrix[R, C], error) {
	idx, pos, err := subIndex(m.cols, keys)
	if err != nil {
		return Matrix[R, C]{}, fmt.Errorf("Matrix.SubCols: %w", err)
	}
	if len(pos) == 0 || m.m == nil {
		return Matrix[R, C]{rows: m.rows, cols: idx}, nil
	}
	d, err := m.m.Induced(seq(m.rows.Len()), pos)
	if err != nil {
		return Matrix[R, C]{}, fmt.Errorf("Matrix.SubCols: %w", err)
	}

	return Matrix[R, C]{rows: m.rows, cols: idx, m: d}, nil
}

// T returns the transpose.
func (m Matrix[R, C]) T() Matrix[C, R] {
	out := Matrix[C, R]{rows: m.cols, cols: m.rows}
	if m.m != nil {
		out.m, _ = matrix.Transpose(m.m)
	}

	return out
}

// Dense returns a copy of the underlying matrix, or nil when empty.
func (m Matrix[R, C]) Dense() *matrix.Dense {
	if m.m == nil {
		return nil
	}

	return m.m.Clone()
}

// View returns the underlying matrix without copying, for read-only kernels.
func (m Matrix[R, C]) View() *matrix.Dense { return m.m }

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}

	return out
}
