// SPDX-License-Identifier: MIT

package glls_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/glls/glls"
	"github.com/katalvlaran/glls/label"
	"github.com/katalvlaran/glls/matrix"
	"github.com/katalvlaran/glls/measurement"
	"github.com/katalvlaran/glls/sensitivity"
	"github.com/katalvlaran/glls/stats"
)

// ScenarioSuite covers the two-parameter, one-measurement case whose
// values can be checked by hand.
type ScenarioSuite struct {
	suite.Suite
	engine *glls.Engine
	res    *glls.Result
	resp   label.Response
}

func (s *ScenarioSuite) SetupTest() {
	var err error
	s.engine, err = glls.New(glls.DefaultConfig())
	s.Require().NoError(err)

	p := fixture(s.T(), 2, 1)
	s.resp = p.set.Responses().At(0)
	x0, err := stats.NewVector(p.params, []float64{1.0, 2.0})
	s.Require().NoError(err)
	cx, err := stats.Diagonal(p.params, []float64{0.01, 0.04})
	s.Require().NoError(err)
	model, err := sensitivity.New(p.set.Responses(), p.params, [][]float64{{1, 1}})
	s.Require().NoError(err)
	set, err := measurement.New(p.set.Responses(), []float64{3.3}, [][]float64{{0.01}}, []float64{3.0})
	s.Require().NoError(err)

	s.res, err = s.engine.Assimilate(x0, cx, model, set)
	s.Require().NoError(err)
}

func (s *ScenarioSuite) TestResponseCovariance() {
	v, err := s.res.ResponseCovariance().AtPos(0, 0)
	s.Require().NoError(err)
	s.InDelta(0.06, v, 1e-12)
}

func (s *ScenarioSuite) TestGainAndPosterior() {
	k := s.res.Gain()
	k0, _ := k.AtPos(0, 0)
	k1, _ := k.AtPos(1, 0)
	s.InDelta(0.01/0.06, k0, 1e-6)
	s.InDelta(0.04/0.06, k1, 1e-6)

	s.InDeltaSlice([]float64{0.3}, s.res.Residual().Values(), 1e-12)
	s.InDeltaSlice([]float64{1.05, 2.20}, s.res.Posterior().Values(), 1e-6)
	s.InDeltaSlice([]float64{3.25}, s.res.AdjustedResponses().Values(), 1e-6)
}

func (s *ScenarioSuite) TestPosteriorCovariance() {
	c1 := s.res.PosteriorCovariance().Rows()
	s.InDelta(0.01-0.01*0.01/0.06, c1[0][0], 1e-9)
	s.InDelta(0.04-0.04*0.04/0.06, c1[1][1], 1e-9)
	s.InDelta(-0.01*0.04/0.06, c1[0][1], 1e-9)
	s.Equal(c1[0][1], c1[1][0])

	vr := s.res.VarianceReduction().Values()
	s.InDelta(1.0/6.0, vr[0], 1e-9)
	s.InDelta(2.0/3.0, vr[1], 1e-9)
	s.Empty(s.res.Diagnostics().NegativeVariance)
}

func (s *ScenarioSuite) TestConsistency() {
	chi, ok := s.res.ChiSquare()
	s.Require().True(ok)
	s.InDelta(1.5, chi.Value, 1e-9)
	s.Equal(1, chi.DoF)
	s.InDelta(1.5, chi.Reduced(), 1e-9)
	s.InDelta(0.2207, chi.PValue(), 1e-3)

	s.InDeltaSlice([]float64{0.3 / math.Sqrt(0.06)}, s.res.NormalizedResiduals().Values(), 1e-9)
	s.Equal([]label.Response{s.resp}, s.res.Outliers(1.0))
	s.Empty(s.res.Outliers(2.0))
}

func TestScenarioSuite(t *testing.T) {
	suite.Run(t, new(ScenarioSuite))
}

func TestAssimilate_NoMeasurementsIsIdentity(t *testing.T) {
	e, err := glls.New(glls.DefaultConfig())
	require.NoError(t, err)
	p := fixture(t, 3, 0)

	res, err := e.Assimilate(p.x0, p.cx, nil, measurement.Empty())
	require.NoError(t, err)
	assert.Equal(t, p.x0.Values(), res.Posterior().Values())
	assert.Equal(t, p.cx.Rows(), res.PosteriorCovariance().Rows())
	_, ok := res.ChiSquare()
	assert.False(t, ok)
	assert.Equal(t, 0, res.Residual().Len())

	res, err = e.Assimilate(p.x0, p.cx, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, p.x0.Values(), res.Posterior().Values())
}

func TestAssimilate_SymmetryPreserved(t *testing.T) {
	e, err := glls.New(glls.DefaultConfig())
	require.NoError(t, err)

	for seed := int64(1); seed <= 5; seed++ {
		p := randomProblem(t, 6, 4, seed, 1e-4)
		res, err := e.Assimilate(p.x0, p.cx, p.model, p.set)
		require.NoError(t, err)

		assert.LessOrEqual(t, matrix.MaxAsymmetry(res.PosteriorCovariance().Dense()), 1e-8)
		assert.LessOrEqual(t, matrix.MaxAsymmetry(res.ResponseCovariance().Dense()), 1e-8)
		assert.LessOrEqual(t, res.Diagnostics().Asymmetry, 1e-8)
	}
}

func TestAssimilate_InformativeMeasurementsNeverIncreaseVariance(t *testing.T) {
	e, err := glls.New(glls.DefaultConfig())
	require.NoError(t, err)

	// M = N with full-rank S and nearly noiseless measurements
	p := randomProblem(t, 4, 4, 11, 1e-8)
	res, err := e.Assimilate(p.x0, p.cx, p.model, p.set)
	require.NoError(t, err)

	v0 := p.cx.Variances().Values()
	v1 := res.PosteriorCovariance().Variances().Values()
	for i := range v0 {
		assert.LessOrEqual(t, v1[i], v0[i])
		assert.Less(t, v1[i], 0.1*v0[i])
	}

	// the property also holds for ordinary noise levels
	p = randomProblem(t, 5, 7, 12, 1e-2)
	res, err = e.Assimilate(p.x0, p.cx, p.model, p.set)
	require.NoError(t, err)
	v0 = p.cx.Variances().Values()
	v1 = res.PosteriorCovariance().Variances().Values()
	for i := range v0 {
		assert.LessOrEqual(t, v1[i], v0[i]+1e-15)
	}
}

func TestAssimilate_UninformativeMeasurementsLeavePrior(t *testing.T) {
	e, err := glls.New(glls.DefaultConfig())
	require.NoError(t, err)

	p := randomProblem(t, 4, 3, 21, 1e12)
	res, err := e.Assimilate(p.x0, p.cx, p.model, p.set)
	require.NoError(t, err)

	k := res.Gain().Dense()
	for _, v := range k.RawRowMajor() {
		assert.Less(t, math.Abs(v), 1e-10)
	}
	assert.InDeltaSlice(t, p.x0.Values(), res.Posterior().Values(), 1e-10)
	ok, err := matrix.AllClose(res.PosteriorCovariance().Dense(), p.cx.Dense(), 0, 1e-12)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAssimilate_InputsNotMutated(t *testing.T) {
	e, err := glls.New(glls.DefaultConfig())
	require.NoError(t, err)
	p := randomProblem(t, 3, 2, 5, 1e-3)

	x0 := p.x0.Values()
	cx := p.cx.Rows()
	s := p.model.Matrix().Dense().RawRowMajor()
	rm := p.set.Measured().Values()

	_, err = e.Assimilate(p.x0, p.cx, p.model, p.set)
	require.NoError(t, err)
	assert.Equal(t, x0, p.x0.Values())
	assert.Equal(t, cx, p.cx.Rows())
	assert.Equal(t, s, p.model.Matrix().Dense().RawRowMajor())
	assert.Equal(t, rm, p.set.Measured().Values())
}

func TestAssimilate_Failures(t *testing.T) {
	e, err := glls.New(glls.DefaultConfig())
	require.NoError(t, err)
	p := randomProblem(t, 3, 2, 3, 1e-3)

	t.Run("empty parameter space", func(t *testing.T) {
		_, err := e.Assimilate(stats.Vector[label.Parameter]{}, stats.Covariance[label.Parameter]{}, nil, nil)
		require.ErrorIs(t, err, glls.ErrInvalidDimension)
	})

	t.Run("covariance labels differ from prior", func(t *testing.T) {
		other := fixture(t, 2, 0)
		_, err := e.Assimilate(p.x0, other.cx, p.model, p.set)
		require.ErrorIs(t, err, glls.ErrDimensionMismatch)
	})

	t.Run("sensitivity columns in another order", func(t *testing.T) {
		keys := p.params.Keys()
		keys[0], keys[1] = keys[1], keys[0]
		swapped, err := p.model.SubParameters(keys)
		require.NoError(t, err)
		_, err = e.Assimilate(p.x0, p.cx, swapped, p.set)
		require.ErrorIs(t, err, glls.ErrLabelMismatch)

		var oe *glls.OperandError
		require.True(t, errors.As(err, &oe))
		assert.Equal(t, "sensitivity S", oe.Operand)
	})

	t.Run("sensitivity rows differ from measurements", func(t *testing.T) {
		sub, err := p.set.Sub([]label.Response{p.set.Responses().At(1), p.set.Responses().At(0)})
		require.NoError(t, err)
		_, err = e.Assimilate(p.x0, p.cx, p.model, sub)
		require.ErrorIs(t, err, glls.ErrLabelMismatch)
	})

	t.Run("missing model", func(t *testing.T) {
		_, err := e.Assimilate(p.x0, p.cx, nil, p.set)
		require.ErrorIs(t, err, glls.ErrInvalidDimension)
	})

	t.Run("asymmetric measurement covariance", func(t *testing.T) {
		loose, err := measurement.New(p.set.Responses(),
			p.set.Measured().Values(),
			[][]float64{{1e-3, 2e-4}, {1e-4, 1e-3}},
			p.set.Baseline().Values(),
			matrix.WithEpsilon(0.5))
		require.NoError(t, err)

		_, err = e.Assimilate(p.x0, p.cx, p.model, loose)
		require.ErrorIs(t, err, glls.ErrNotSymmetric)
		var oe *glls.OperandError
		require.True(t, errors.As(err, &oe))
		assert.Equal(t, "measurement covariance Cm", oe.Operand)
		assert.Equal(t, "Assimilate", oe.Op)
	})
}

func TestAssimilate_SingularResponseCovariance(t *testing.T) {
	p := fixture(t, 2, 2)
	x0, err := stats.NewVector(p.params, []float64{1, 1})
	require.NoError(t, err)
	cx, err := stats.Diagonal(p.params, []float64{1, 1})
	require.NoError(t, err)
	model, err := sensitivity.New(p.set.Responses(), p.params, [][]float64{{1, 1}, {1, 1}})
	require.NoError(t, err)
	set, err := measurement.New(p.set.Responses(), []float64{1.2, 1.2}, [][]float64{{0, 0}, {0, 0}}, []float64{1, 1})
	require.NoError(t, err)

	strict, err := glls.New(glls.DefaultConfig())
	require.NoError(t, err)
	_, err = strict.Assimilate(x0, cx, model, set)
	require.ErrorIs(t, err, glls.ErrIllConditioned)

	cfg := glls.DefaultConfig()
	cfg.PseudoInverse = true
	lenient, err := glls.New(cfg)
	require.NoError(t, err)
	res, err := lenient.Assimilate(x0, cx, model, set)
	require.NoError(t, err)

	d := res.Diagnostics()
	assert.True(t, d.PseudoInverse)
	assert.Equal(t, 1, d.Rank)
	assert.InDeltaSlice(t, []float64{1.1, 1.1}, res.Posterior().Values(), 1e-9)
	c1 := res.PosteriorCovariance().Rows()
	assert.InDelta(t, 0.5, c1[0][0], 1e-9)
	assert.InDelta(t, -0.5, c1[0][1], 1e-9)
}

func TestAssimilate_NegativePosteriorVariance(t *testing.T) {
	// an indefinite prior breaks the PSD contract; the engine must notice
	p := fixture(t, 2, 1)
	x0, err := stats.NewVector(p.params, []float64{0, 0})
	require.NoError(t, err)
	cx, err := stats.NewCovariance(p.params, [][]float64{{1, 2}, {2, 1}})
	require.NoError(t, err)
	model, err := sensitivity.New(p.set.Responses(), p.params, [][]float64{{1, 0}})
	require.NoError(t, err)
	set, err := measurement.New(p.set.Responses(), []float64{0}, [][]float64{{1}}, []float64{0})
	require.NoError(t, err)

	e, err := glls.New(glls.DefaultConfig())
	require.NoError(t, err)
	res, err := e.Assimilate(x0, cx, model, set)
	require.NoError(t, err)
	assert.Equal(t, []label.Parameter{p.params.At(1)}, res.Diagnostics().NegativeVariance)

	cfg := glls.DefaultConfig()
	cfg.StrictPSD = true
	strict, err := glls.New(cfg)
	require.NoError(t, err)
	_, err = strict.Assimilate(x0, cx, model, set)
	require.ErrorIs(t, err, glls.ErrIllConditioned)
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, glls.DefaultConfig().Validate())

	for name, mutate := range map[string]func(*glls.Config){
		"negative tolerance": func(c *glls.Config) { c.SymmetryTol = -1 },
		"nan tolerance":      func(c *glls.Config) { c.SymmetryTol = math.NaN() },
		"condition too low":  func(c *glls.Config) { c.MaxCondition = 0.5 },
		"rcond out of range": func(c *glls.Config) { c.PseudoInverseRcond = 2 },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := glls.DefaultConfig()
			mutate(&cfg)
			_, err := glls.New(cfg)
			require.ErrorIs(t, err, glls.ErrInvalidConfig)
		})
	}
}

func TestAssimilate_UnresolvedResidual(t *testing.T) {
	// the second response has no sensitivity and no measurement variance
	p := fixture(t, 2, 2)
	x0, err := stats.NewVector(p.params, []float64{1, 1})
	require.NoError(t, err)
	cx, err := stats.Diagonal(p.params, []float64{1, 1})
	require.NoError(t, err)
	model, err := sensitivity.New(p.set.Responses(), p.params, [][]float64{{1, 1}, {0, 0}})
	require.NoError(t, err)
	set, err := measurement.New(p.set.Responses(), []float64{1.2, 1.3}, [][]float64{{0, 0}, {0, 0}}, []float64{1, 1})
	require.NoError(t, err)

	cfg := glls.DefaultConfig()
	cfg.PseudoInverse = true
	e, err := glls.New(cfg)
	require.NoError(t, err)
	res, err := e.Assimilate(x0, cx, model, set)
	require.NoError(t, err)

	d := res.Diagnostics()
	assert.True(t, d.PseudoInverse)
	second := p.set.Responses().At(1)
	assert.Equal(t, []label.Response{second}, d.UnresolvedResiduals)
	z, err := res.NormalizedResiduals().Get(second)
	require.NoError(t, err)
	assert.Zero(t, z)
	assert.NotContains(t, res.Outliers(0.01), second)
	assert.InDeltaSlice(t, []float64{1.1, 1.1}, res.Posterior().Values(), 1e-9)
}
