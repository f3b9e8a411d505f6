// SPDX-License-Identifier: MIT

package glls_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/glls/label"
	"github.com/katalvlaran/glls/measurement"
	"github.com/katalvlaran/glls/sensitivity"
	"github.com/katalvlaran/glls/stats"
)

type problem struct {
	params label.Index[label.Parameter]
	x0     stats.Vector[label.Parameter]
	cx     stats.Covariance[label.Parameter]
	model  *sensitivity.Model
	set    *measurement.Set
}

// fixture builds n U-235 fission groups with unit prior and m keff
// responses carrying zero measurements. Only labels are meant to be reused.
func fixture(t *testing.T, n, m int) problem {
	t.Helper()
	keys := make([]label.Parameter, n)
	vals := make([]float64, n)
	vars := make([]float64, n)
	for g := range keys {
		keys[g] = label.Parameter{ZAI: 922350, MT: label.MTFission, Group: g}
		vals[g], vars[g] = 1, 0.01
	}
	params, err := label.NewIndex(keys)
	require.NoError(t, err)
	x0, err := stats.NewVector(params, vals)
	require.NoError(t, err)
	cx, err := stats.Diagonal(params, vars)
	require.NoError(t, err)

	rkeys := make([]label.Response, m)
	zeros := make([]float64, m)
	cm := make([][]float64, m)
	for i := range rkeys {
		rkeys[i] = label.Response{Title: fmt.Sprintf("BM%03d", i+1), Kind: label.KindKeff}
		cm[i] = make([]float64, m)
		cm[i][i] = 1
	}
	responses, err := label.NewIndex(rkeys)
	require.NoError(t, err)
	set, err := measurement.New(responses, zeros, cm, zeros)
	require.NoError(t, err)

	return problem{params: params, x0: x0, cx: cx, set: set}
}

// randomProblem draws a correlated prior over n parameters, an m×n
// sensitivity matrix and measurements with variance noise on the diagonal.
func randomProblem(t *testing.T, n, m int, seed int64, noise float64) problem {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	p := fixture(t, n, m)

	// Cx0 = 0.01·(A·Aᵀ/n + I)
	a := make([][]float64, n)
	for i := range a {
		a[i] = make([]float64, n)
		for j := range a[i] {
			a[i][j] = rng.NormFloat64()
		}
	}
	cx := make([][]float64, n)
	for i := range cx {
		cx[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			s := 0.0
			for k := 0; k < n; k++ {
				s += a[i][k] * a[j][k]
			}
			v := 0.01 * s / float64(n)
			if i == j {
				v += 0.01
			}
			cx[i][j], cx[j][i] = v, v
		}
	}
	var err error
	p.cx, err = stats.NewCovariance(p.params, cx)
	require.NoError(t, err)

	x0 := make([]float64, n)
	for i := range x0 {
		x0[i] = 1 + 0.1*rng.NormFloat64()
	}
	p.x0, err = stats.NewVector(p.params, x0)
	require.NoError(t, err)

	s := make([][]float64, m)
	for i := range s {
		s[i] = make([]float64, n)
		for j := range s[i] {
			s[i][j] = rng.NormFloat64()
		}
	}
	p.model, err = sensitivity.New(p.set.Responses(), p.params, s)
	require.NoError(t, err)

	rm := make([]float64, m)
	r0 := make([]float64, m)
	cm := make([][]float64, m)
	for i := range rm {
		r0[i] = 1
		rm[i] = 1 + 0.01*rng.NormFloat64()
		cm[i] = make([]float64, m)
		cm[i][i] = noise
	}
	p.set, err = measurement.New(p.set.Responses(), rm, cm, r0)
	require.NoError(t, err)

	return p
}
