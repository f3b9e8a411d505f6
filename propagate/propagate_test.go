// SPDX-License-Identifier: MIT

package propagate_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/glls/label"
	"github.com/katalvlaran/glls/matrix"
	"github.com/katalvlaran/glls/propagate"
	"github.com/katalvlaran/glls/sensitivity"
	"github.com/katalvlaran/glls/stats"
)

var (
	fis0 = label.Parameter{ZAI: 922350, MT: label.MTFission, Group: 0}
	fis1 = label.Parameter{ZAI: 922350, MT: label.MTFission, Group: 1}
	cap0 = label.Parameter{ZAI: 922350, MT: label.MTCapture, Group: 0}
)

func paramIndex(t *testing.T, ps ...label.Parameter) label.Index[label.Parameter] {
	t.Helper()
	ix, err := label.NewIndex(ps)
	require.NoError(t, err)

	return ix
}

func testCovariance(t *testing.T) stats.Covariance[label.Parameter] {
	t.Helper()
	c, err := stats.NewCovariance(paramIndex(t, fis0, fis1, cap0), [][]float64{
		{0.04, 0.01, 0.002},
		{0.01, 0.09, -0.003},
		{0.002, -0.003, 0.01},
	})
	require.NoError(t, err)

	return c
}

func TestCovariance_IdentityRoundTrip(t *testing.T) {
	cov := testCovariance(t)
	ix := cov.Labels()
	id, err := stats.NewMatrix(ix, ix, [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	require.NoError(t, err)

	out, err := propagate.Covariance(cov, id)
	require.NoError(t, err)
	assert.Equal(t, cov.Rows(), out.Rows())
	assert.True(t, out.Labels().Equal(ix))

	v, err := propagate.Variances(cov, id)
	require.NoError(t, err)
	assert.Equal(t, cov.Variances().Values(), v.Values())
}

func TestCovariance_Failures(t *testing.T) {
	cov := testCovariance(t)

	swapped, err := stats.NewMatrix(paramIndex(t, fis0), paramIndex(t, fis1, fis0, cap0), [][]float64{{1, 0, 0}})
	require.NoError(t, err)
	_, err = propagate.Covariance(cov, swapped)
	require.ErrorIs(t, err, label.ErrLabelMismatch)
	_, err = propagate.Variances(cov, swapped)
	require.ErrorIs(t, err, label.ErrLabelMismatch)

	noRows, err := stats.NewMatrix(label.Index[label.Parameter]{}, cov.Labels(), nil)
	require.NoError(t, err)
	_, err = propagate.Covariance(cov, noRows)
	require.ErrorIs(t, err, matrix.ErrInvalidDimension)

	short, err := stats.NewMatrix(paramIndex(t, fis0), paramIndex(t, fis0), [][]float64{{1}})
	require.NoError(t, err)
	_, err = propagate.Covariance(cov, short)
	require.ErrorIs(t, err, label.ErrLabelMismatch)
}

func TestVariancesMatchFullPropagation(t *testing.T) {
	cov := testCovariance(t)
	rows := paramIndex(t, fis0, cap0)
	s, err := stats.NewMatrix(rows, cov.Labels(), [][]float64{
		{0.3, -0.2, 0.5},
		{1.0, 1.0, 1.0},
	})
	require.NoError(t, err)

	full, err := propagate.Covariance(cov, s)
	require.NoError(t, err)
	diag, err := propagate.Variances(cov, s)
	require.NoError(t, err)
	assert.InDeltaSlice(t, full.Variances().Values(), diag.Values(), 1e-15)

	sd, err := propagate.StdDevs(cov, s)
	require.NoError(t, err)
	for i, v := range diag.Values() {
		assert.InDelta(t, math.Sqrt(v), sd.At(i), 1e-15)
	}
}

func TestCollapse(t *testing.T) {
	cov := testCovariance(t)
	s, err := propagate.Collapse(cov.Labels(), nil)
	require.NoError(t, err)
	assert.Equal(t, []label.Parameter{
		{ZAI: 922350, MT: label.MTFission, Group: label.AllGroups},
		{ZAI: 922350, MT: label.MTCapture, Group: label.AllGroups},
	}, s.RowLabels().Keys())

	out, err := propagate.Covariance(cov, s)
	require.NoError(t, err)
	rows := out.Rows()
	assert.InDelta(t, 0.04+0.09+2*0.01, rows[0][0], 1e-15)
	assert.InDelta(t, 0.002-0.003, rows[0][1], 1e-15)
	assert.InDelta(t, 0.01, rows[1][1], 1e-15)
}

func TestLethargyWeights(t *testing.T) {
	gs, err := label.NewGroupStructure([]float64{1, math.E, math.E * math.E * math.E})
	require.NoError(t, err)
	w, err := propagate.LethargyWeights(gs)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3.0, w(fis0), 1e-12)
	assert.InDelta(t, 2.0/3.0, w(fis1), 1e-12)
	assert.Equal(t, 0.0, w(label.Parameter{ZAI: 922350, MT: 18, Group: 5}))

	s, err := propagate.Collapse(paramIndex(t, fis0, fis1), w)
	require.NoError(t, err)
	v, err := s.AtPos(0, 1)
	require.NoError(t, err)
	assert.InDelta(t, 2.0/3.0, v, 1e-12)

	_, err = propagate.LethargyWeights(label.GroupStructure{})
	require.ErrorIs(t, err, label.ErrInvalidGroups)
}

func TestSandwich_LabelIntersection(t *testing.T) {
	cov := testCovariance(t)
	s1, err := stats.NewVector(paramIndex(t, fis0, fis1), []float64{2, 3})
	require.NoError(t, err)
	s2, err := stats.NewVector(paramIndex(t, fis1, cap0), []float64{5, 7})
	require.NoError(t, err)

	got, err := propagate.Sandwich(s1, cov, s2)
	require.NoError(t, err)
	assert.InDelta(t, 3*0.09*5, got, 1e-15)

	none, err := stats.NewVector(paramIndex(t, cap0), []float64{1})
	require.NoError(t, err)
	got, err = propagate.Sandwich(s1, cov, none)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestPropagator(t *testing.T) {
	p, err := propagate.New(propagate.DefaultConfig())
	require.NoError(t, err)
	_, err = propagate.New(propagate.Config{SymmetryTol: -1})
	require.ErrorIs(t, err, propagate.ErrInvalidConfig)

	cov := testCovariance(t)
	a := label.Response{Title: "A", Kind: label.KindKeff}
	b := label.Response{Title: "B", Kind: label.KindKeff}
	c := label.Response{Title: "C", Kind: label.KindReactionRate}
	rs, err := label.NewIndex([]label.Response{a, b, c})
	require.NoError(t, err)
	model, err := sensitivity.New(rs, cov.Labels(), [][]float64{
		{1, 0, 0},
		{2, 0, 0},
		{0, 0, 1},
	})
	require.NoError(t, err)

	ck, err := p.Similarity(cov, model)
	require.NoError(t, err)
	v, err := ck.At(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, v, 1e-12)
	v, err = ck.At(a, c)
	require.NoError(t, err)
	assert.InDelta(t, 0.002/(0.2*0.1), v, 1e-12)

	vars, err := p.Variances(cov, model)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.04, 0.16, 0.01}, vars.Values(), 1e-15)

	_, err = p.Covariance(cov, nil)
	require.ErrorIs(t, err, matrix.ErrInvalidDimension)
}

func TestPropagator_Applications(t *testing.T) {
	p, err := propagate.New(propagate.DefaultConfig())
	require.NoError(t, err)
	cov := testCovariance(t)

	us, err := p.Applications(cov, []propagate.Application{
		{Title: "core", Kind: label.KindKeff, Calculated: 1.25,
			Sensitivity: map[label.Parameter]float64{fis0: 0.5}},
		{Title: "zero", Kind: label.KindReactionRate},
	})
	require.NoError(t, err)
	require.Len(t, us, 2)
	assert.InDelta(t, 0.5*0.2, us[0].Absolute, 1e-15)
	assert.InDelta(t, 0.1/1.25, us[0].Relative, 1e-15)
	assert.Equal(t, 0.0, us[1].Relative)

	_, err = p.Applications(cov, []propagate.Application{{Title: "x", Kind: label.KindKeff,
		Sensitivity: map[label.Parameter]float64{{ZAI: 10010, MT: 2}: 1}}})
	require.ErrorIs(t, err, label.ErrLabelMismatch)

	_, err = p.Applications(cov, nil)
	require.ErrorIs(t, err, matrix.ErrInvalidDimension)
}
