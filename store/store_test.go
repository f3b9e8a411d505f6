// SPDX-License-Identifier: MIT

package store_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/glls/glls"
	"github.com/katalvlaran/glls/label"
	"github.com/katalvlaran/glls/measurement"
	"github.com/katalvlaran/glls/problem"
	"github.com/katalvlaran/glls/sensitivity"
	"github.com/katalvlaran/glls/stats"
	"github.com/katalvlaran/glls/store"
)

var (
	fis  = label.Parameter{ZAI: 922350, MT: label.MTFission, Group: 0}
	capt = label.Parameter{ZAI: 922350, MT: label.MTCapture, Group: 0}
)

type StoreSuite struct {
	suite.Suite
	s *store.Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (ss *StoreSuite) SetupTest() {
	s, err := store.New(":memory:")
	ss.Require().NoError(err)
	ss.Require().NoError(s.CreateSchema())
	ss.s = s
}

func (ss *StoreSuite) TearDownTest() {
	ss.Require().NoError(ss.s.Close())
}

func benchmark(title string, calc float64) measurement.Benchmark {
	return measurement.Benchmark{
		Title:         title,
		Kind:          label.KindKeff,
		Measured:      1,
		MeasuredStd:   0.002,
		Calculated:    calc,
		CalculatedStd: 1e-4,
		Sensitivity:   map[label.Parameter]float64{fis: 0.3, capt: -0.1},
	}
}

func (ss *StoreSuite) TestSuiteRoundTrip() {
	in, err := measurement.NewSuite(benchmark("B", 0.99), benchmark("A", 1.01))
	ss.Require().NoError(err)
	ss.Require().NoError(ss.s.SaveSuite(in))

	out, err := ss.s.LoadSuite()
	ss.Require().NoError(err)
	ss.Equal([]string{"B", "A"}, out.Titles())
	a, ok := out.Get("A")
	ss.Require().True(ok)
	ss.Equal(benchmark("A", 1.01), a)
}

func (ss *StoreSuite) TestSaveBenchmarkKeepsPosition() {
	ss.Require().NoError(ss.s.SaveBenchmark(benchmark("A", 1)))
	ss.Require().NoError(ss.s.SaveBenchmark(benchmark("B", 1)))
	updated := benchmark("A", 0.98)
	updated.Sensitivity = map[label.Parameter]float64{fis: 0.5}
	ss.Require().NoError(ss.s.SaveBenchmark(updated))

	bs, err := ss.s.ListBenchmarks()
	ss.Require().NoError(err)
	ss.Require().Len(bs, 2)
	ss.Equal("A", bs[0].Title)
	ss.Equal(0.98, bs[0].Calculated)
	ss.Equal(map[label.Parameter]float64{fis: 0.5}, bs[0].Sensitivity)

	ss.Require().NoError(ss.s.DeleteBenchmark("A"))
	_, err = ss.s.GetBenchmark("A")
	ss.ErrorIs(err, store.ErrNotFound)
	ss.ErrorIs(ss.s.DeleteBenchmark("A"), store.ErrNotFound)

	bad := benchmark("", 1)
	ss.ErrorIs(ss.s.SaveBenchmark(bad), measurement.ErrInvalidBenchmark)
}

func (ss *StoreSuite) TestPriorRoundTrip() {
	_, _, err := ss.s.LoadPrior()
	ss.ErrorIs(err, store.ErrNotFound)

	params, err := label.NewIndex([]label.Parameter{fis, capt})
	ss.Require().NoError(err)
	x0, err := stats.NewVector(params, []float64{1.2, 0.8})
	ss.Require().NoError(err)
	cov, err := stats.NewCovariance(params, [][]float64{{0.04, 0.01}, {0.01, 0.09}})
	ss.Require().NoError(err)
	ss.Require().NoError(ss.s.SavePrior(x0, cov))

	x, c, err := ss.s.LoadPrior()
	ss.Require().NoError(err)
	ss.Equal(x0.Values(), x.Values())
	ss.True(params.Equal(x.Labels()))
	ss.Equal(cov.Rows(), c.Rows())

	var n int
	ss.Require().NoError(ss.s.DB().QueryRow(`SELECT COUNT(*) FROM covariance`).Scan(&n))
	ss.Equal(3, n)
}

func (ss *StoreSuite) TestRuns() {
	params, err := label.NewIndex([]label.Parameter{fis, capt})
	ss.Require().NoError(err)
	x0, err := stats.NewVector(params, []float64{1, 1})
	ss.Require().NoError(err)
	cx, err := stats.Diagonal(params, []float64{0.01, 0.04})
	ss.Require().NoError(err)
	bs, err := measurement.NewSuite(benchmark("A", 0.99))
	ss.Require().NoError(err)
	set, err := bs.Set()
	ss.Require().NoError(err)
	model, err := sensitivity.AssembleOn(params, []sensitivity.Profile{benchmark("A", 0.99).Profile()})
	ss.Require().NoError(err)

	eng, err := glls.New(glls.DefaultConfig())
	ss.Require().NoError(err)
	res, err := eng.Assimilate(x0, cx, model, set)
	ss.Require().NoError(err)
	empty, err := eng.Assimilate(x0, cx, nil, nil)
	ss.Require().NoError(err)

	first := store.NewRun(empty, "prior only")
	first.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	second := store.NewRun(res, "one benchmark")
	second.CreatedAt = first.CreatedAt.Add(time.Hour)
	ss.Require().NoError(ss.s.SaveRun(first))
	ss.Require().NoError(ss.s.SaveRun(second))

	runs, err := ss.s.ListRuns(0)
	ss.Require().NoError(err)
	ss.Require().Len(runs, 2)
	ss.Equal(second.ID, runs[0].ID)
	ss.Nil(runs[1].ChiSquare)
	ss.Require().NotNil(runs[0].ChiSquare)
	ss.Equal(1, runs[0].ChiSquare.DoF)
	ss.Empty(runs[0].Entries)

	got, err := ss.s.GetRun(second.ID)
	ss.Require().NoError(err)
	ss.Equal("one benchmark", got.Note)
	ss.Require().Len(got.Entries, 2)
	ss.Equal(second.Entries, got.Entries)
	ss.Less(got.Entries[0].PosteriorStd(), got.Entries[0].PriorStd())

	limited, err := ss.s.ListRuns(1)
	ss.Require().NoError(err)
	ss.Len(limited, 1)

	ss.Require().NoError(ss.s.DeleteRun(first.ID))
	_, err = ss.s.GetRun(first.ID)
	ss.ErrorIs(err, store.ErrNotFound)
	ss.Error(ss.s.SaveRun(store.Run{ID: "not-a-uuid"}))
}

func (ss *StoreSuite) TestCorrelatedProblemRoundTrip() {
	p, err := problem.Load(filepath.Join("..", "problem", "testdata", "two_benchmarks.yaml"))
	ss.Require().NoError(err)
	ss.Require().NotEmpty(p.Correlations)

	ss.Require().NoError(ss.s.SavePrior(p.Prior, p.PriorCov))
	ss.Require().NoError(ss.s.SaveSuite(p.Suite))
	ss.Require().NoError(ss.s.SaveCorrelations(p.Correlations))

	x0, cov, err := ss.s.LoadPrior()
	ss.Require().NoError(err)
	bs, err := ss.s.LoadSuite()
	ss.Require().NoError(err)
	corr, err := ss.s.LoadCorrelations()
	ss.Require().NoError(err)
	ss.Equal(p.Correlations, corr)
	ss.Equal(p.Suite.Benchmarks(), bs.Benchmarks())
	stored := &problem.Problem{Prior: x0, PriorCov: cov, Suite: bs, Correlations: corr}

	want, err := p.Set(false)
	ss.Require().NoError(err)
	got, err := stored.Set(false)
	ss.Require().NoError(err)
	ss.Equal(want.Covariance().Rows(), got.Covariance().Rows())
	off, err := got.Covariance().AtPos(0, 1)
	ss.Require().NoError(err)
	ss.InDelta(0.25*0.002*0.003, off, 1e-15)

	wantStd, err := p.SensitivityStd()
	ss.Require().NoError(err)
	gotStd, err := stored.SensitivityStd()
	ss.Require().NoError(err)
	ss.Equal(wantStd.Dense().RawRowMajor(), gotStd.Dense().RawRowMajor())

	eng, err := glls.New(glls.DefaultConfig())
	ss.Require().NoError(err)
	assimilate := func(pr *problem.Problem, set *measurement.Set) *glls.Result {
		model, err := pr.Model()
		ss.Require().NoError(err)
		res, err := eng.Assimilate(pr.Prior, pr.PriorCov, model, set)
		ss.Require().NoError(err)
		return res
	}
	fromFile := assimilate(p, want)
	fromStore := assimilate(stored, got)
	c1, ok := fromFile.ChiSquare()
	ss.Require().True(ok)
	c2, ok := fromStore.ChiSquare()
	ss.Require().True(ok)
	ss.InDelta(c1.Value, c2.Value, 1e-12)
	ss.InDeltaSlice(fromFile.Posterior().Values(), fromStore.Posterior().Values(), 1e-12)
}

func (ss *StoreSuite) TestCorrelations() {
	in, err := measurement.NewSuite(benchmark("A", 1), benchmark("B", 1), benchmark("C", 1))
	ss.Require().NoError(err)
	ss.Require().NoError(ss.s.SaveSuite(in))

	cs := []measurement.Correlation{{A: "A", B: "B", Rho: 0.5}, {A: "C", B: "A", Rho: -0.2}}
	ss.Require().NoError(ss.s.SaveCorrelations(cs))
	got, err := ss.s.LoadCorrelations()
	ss.Require().NoError(err)
	ss.Equal(cs, got)

	ss.Require().NoError(ss.s.DeleteBenchmark("B"))
	got, err = ss.s.LoadCorrelations()
	ss.Require().NoError(err)
	ss.Equal(cs[1:], got)

	ss.Error(ss.s.SaveCorrelations([]measurement.Correlation{{A: "A", B: "missing", Rho: 0.1}}))
	ss.Error(ss.s.SaveCorrelations([]measurement.Correlation{{A: "A", B: "C", Rho: 1.5}}))
	// a failed save keeps the previous correlations
	got, err = ss.s.LoadCorrelations()
	ss.Require().NoError(err)
	ss.Equal(cs[1:], got)

	ss.Require().NoError(ss.s.SaveSuite(in))
	got, err = ss.s.LoadCorrelations()
	ss.Require().NoError(err)
	ss.Empty(got)
}

func (ss *StoreSuite) TestSensitivityStdRoundTrip() {
	b := benchmark("A", 1)
	b.SensitivityStd = map[label.Parameter]float64{fis: 0.004}
	ss.Require().NoError(ss.s.SaveBenchmark(b))

	got, err := ss.s.GetBenchmark("A")
	ss.Require().NoError(err)
	ss.Equal(b, got)
}

func TestStore_NotInitialized(t *testing.T) {
	s, err := store.New(":memory:")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.ListBenchmarks()
	require.ErrorIs(t, err, store.ErrNotInitialized)
	_, _, err = s.LoadPrior()
	require.ErrorIs(t, err, store.ErrNotInitialized)
	_, err = s.ListRuns(0)
	require.ErrorIs(t, err, store.ErrNotInitialized)
	_, err = s.LoadCorrelations()
	require.ErrorIs(t, err, store.ErrNotInitialized)
}
