// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/glls/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSymmetric_RelativeTolerance(t *testing.T) {
	tests := []struct {
		name string
		rows [][]float64
		eps  float64
		ok   bool
	}{
		{"exact", [][]float64{{1, 0.5}, {0.5, 1}}, 1e-8, true},
		{"roundoff on large entries", [][]float64{{1e6, 5e5}, {5e5 + 1e-4, 1e6}}, 1e-8, true},
		{"tiny offdiag scaled by diagonal", [][]float64{{1, 1e-20}, {0, 1}}, 1e-8, true},
		{"clear asymmetry", [][]float64{{1, 0.5}, {0.4, 1}}, 1e-8, false},
		{"zero diagonal falls back to entry scale", [][]float64{{0, 1e-30}, {0, 0}}, 0.5, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := matrix.ValidateSymmetric(MustRows(t, tc.rows), tc.eps)
			if tc.ok {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, matrix.ErrNotSymmetric)
			}
		})
	}

	err := matrix.ValidateSymmetric(MustRows(t, [][]float64{{1, 2}}), 1e-8)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	require.ErrorIs(t, matrix.ValidateSymmetric(nil, 1e-8), matrix.ErrNilMatrix)
}

func TestMaxAsymmetry(t *testing.T) {
	assert.Equal(t, 0.0, matrix.MaxAsymmetry(MustRows(t, [][]float64{{1, 2}, {2, 5}})))
	assert.InDelta(t, 0.5, matrix.MaxAsymmetry(MustRows(t, [][]float64{{1, 2}, {1, 1}})), 1e-15)
	assert.True(t, math.IsInf(matrix.MaxAsymmetry(MustRows(t, [][]float64{{1, 2}})), 1))
}

func TestValidateNonNegativeDiag(t *testing.T) {
	i, err := matrix.ValidateNonNegativeDiag(MustRows(t, [][]float64{{1, 0}, {0, -1e-3}}))
	require.ErrorIs(t, err, matrix.ErrNegativeVariance)
	assert.Equal(t, 1, i)

	i, err = matrix.ValidateNonNegativeDiag(MustRows(t, [][]float64{{0, 0}, {0, 2}}))
	require.NoError(t, err)
	assert.Equal(t, -1, i)
}

func TestValidateFinite(t *testing.T) {
	require.NoError(t, matrix.ValidateFinite([]float64{1, 2}))
	require.ErrorIs(t, matrix.ValidateFinite([]float64{1, math.NaN()}), matrix.ErrNaNInf)
}

func TestOptions_PanicOnNonsense(t *testing.T) {
	assert.Panics(t, func() { matrix.WithEpsilon(-1) })
	assert.Panics(t, func() { matrix.WithMaxCondition(1) })
	assert.Panics(t, func() { matrix.WithRcond(1) })
	assert.NotPanics(t, func() { matrix.WithMaxCondition(math.Inf(1)) })

	o := matrix.Resolve(matrix.WithEpsilon(1e-6))
	assert.Equal(t, 1e-6, o.Epsilon())
	assert.Equal(t, matrix.DefaultMaxCondition, o.MaxCondition())
}
