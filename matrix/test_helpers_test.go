// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers.
//
// Purpose:
//   • Small deterministic fixtures for kernels and solvers.
//   • Keep all data finite and well-formed.

package matrix_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/glls/matrix"
	"github.com/stretchr/testify/require"
)

// MustRows builds a *Dense from rows or fails the test.
func MustRows(t *testing.T, rows [][]float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFromRows(rows)
	require.NoError(t, err)

	return m
}

// MustAt reads (i,j) or fails the test.
func MustAt(t *testing.T, m *matrix.Dense, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	require.NoError(t, err)

	return v
}

// RequireClose asserts element-wise closeness within tol.
func RequireClose(t *testing.T, want, got *matrix.Dense, tol float64) {
	t.Helper()
	ok, err := matrix.AllClose(got, want, 0, tol)
	require.NoError(t, err)
	require.Truef(t, ok, "want\n%vgot\n%v", want, got)
}

// RandomSPD returns A·Aᵀ + n·I for a seeded random n×n A.
func RandomSPD(t *testing.T, n int, seed int64) *matrix.Dense {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		for j := range rows[i] {
			rows[i][j] = rng.NormFloat64()
		}
	}
	a := MustRows(t, rows)
	aat, err := matrix.MulBT(a, a)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		v := MustAt(t, aat, i, i)
		require.NoError(t, aat.Set(i, i, v+float64(n)))
	}

	return aat
}
