// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/glls/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDense_InvalidDimensions(t *testing.T) {
	for _, tc := range []struct{ r, c int }{{0, 1}, {1, 0}, {-1, 2}} {
		_, err := matrix.NewDense(tc.r, tc.c)
		require.ErrorIs(t, err, matrix.ErrInvalidDimension)
	}
}

func TestNewDenseData_CopiesInput(t *testing.T) {
	src := []float64{1, 2, 3, 4}
	m, err := matrix.NewDenseData(2, 2, src)
	require.NoError(t, err)
	src[0] = 99
	assert.Equal(t, 1.0, MustAt(t, m, 0, 0))

	_, err = matrix.NewDenseData(2, 2, []float64{1, 2, 3})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = matrix.NewDenseData(1, 2, []float64{1, math.NaN()})
	require.ErrorIs(t, err, matrix.ErrNaNInf)
}

func TestNewDenseFromRows(t *testing.T) {
	_, err := matrix.NewDenseFromRows(nil)
	require.ErrorIs(t, err, matrix.ErrInvalidDimension)

	_, err = matrix.NewDenseFromRows([][]float64{{1, 2}, {3}})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	m := MustRows(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	r, c := m.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, []float64{4, 5, 6}, m.Row(1))
	assert.Nil(t, m.Row(2))
	assert.Equal(t, []float64{1, 5}, m.Diag())
}

func TestDense_AtSetBounds(t *testing.T) {
	m, err := matrix.NewDense(2, 2)
	require.NoError(t, err)

	_, err = m.At(2, 0)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(0, -1, 1), matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(0, 0, math.Inf(1)), matrix.ErrNaNInf)

	require.NoError(t, m.Set(1, 0, 7))
	assert.Equal(t, 7.0, MustAt(t, m, 1, 0))
}

func TestDense_CloneAndRawAreIndependent(t *testing.T) {
	m := MustRows(t, [][]float64{{1, 2}, {3, 4}})
	c := m.Clone()
	require.NoError(t, c.Set(0, 0, 10))
	raw := m.RawRowMajor()
	raw[1] = 20
	assert.Equal(t, 1.0, MustAt(t, m, 0, 0))
	assert.Equal(t, 2.0, MustAt(t, m, 0, 1))
}

func TestDense_Induced(t *testing.T) {
	m := MustRows(t, [][]float64{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	})
	sub, err := m.Induced([]int{2, 0}, []int{1, 1})
	require.NoError(t, err)
	RequireClose(t, MustRows(t, [][]float64{{8, 8}, {2, 2}}), sub, 0)

	_, err = m.Induced([]int{3}, []int{0})
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	_, err = m.Induced(nil, []int{0})
	require.ErrorIs(t, err, matrix.ErrInvalidDimension)
}

func TestDense_String(t *testing.T) {
	m := MustRows(t, [][]float64{{1, 2}, {3, 4}})
	assert.Equal(t, "[1, 2]\n[3, 4]\n", m.String())
}
