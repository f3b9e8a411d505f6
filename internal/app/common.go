// SPDX-License-Identifier: MIT

package app

import (
	"fmt"
	"time"

	"github.com/katalvlaran/glls/glls"
	"github.com/katalvlaran/glls/measurement"
	"github.com/katalvlaran/glls/problem"
	"github.com/katalvlaran/glls/sensitivity"
)

// loadProblem reads the problem file in args, or the stored prior, suite
// and correlations when fromStore is set.
func (a *app) loadProblem(args []string, fromStore bool) (*problem.Problem, error) {
	if fromStore {
		if len(args) > 0 {
			return nil, fmt.Errorf("--from-store takes no problem file")
		}
		st, err := a.openStore(false)
		if err != nil {
			return nil, err
		}
		defer st.Close()

		x0, cov, err := st.LoadPrior()
		if err != nil {
			return nil, err
		}
		suite, err := st.LoadSuite()
		if err != nil {
			return nil, err
		}
		corr, err := st.LoadCorrelations()
		if err != nil {
			return nil, err
		}
		a.log.Info("problem loaded from store", "db", a.cfg.Store.Path,
			"parameters", x0.Len(), "benchmarks", suite.Len(), "correlations", len(corr))
		return &problem.Problem{Prior: x0, PriorCov: cov, Suite: suite, Correlations: corr}, nil
	}

	if len(args) != 1 {
		return nil, fmt.Errorf("expected one problem file, got %d arguments", len(args))
	}
	p, err := problem.Load(args[0])
	if err != nil {
		return nil, err
	}
	a.log.Info("problem loaded", "file", args[0],
		"parameters", p.Prior.Len(), "benchmarks", p.Suite.Len(), "applications", len(p.Applications))
	return p, nil
}

// engine builds the configured engine.
func (a *app) engine() (*glls.Engine, error) {
	return glls.New(a.cfg.GLLS(), glls.WithLogger(a.log))
}

// inputs builds the measurement set and the sensitivity model of p.
func (a *app) inputs(p *problem.Problem) (*measurement.Set, *sensitivity.Model, error) {
	set, err := p.Set(a.cfg.Engine.CalculationUncertainty, a.cfg.GLLS().MatrixOptions()...)
	if err != nil {
		return nil, nil, err
	}
	model, err := p.Model()
	if err != nil {
		return nil, nil, err
	}
	return set, model, nil
}

// solve runs the assimilation of a command and records its metrics,
// including the reduced chi-square gauge.
func (a *app) solve(eng *glls.Engine, p *problem.Problem, set *measurement.Set, model *sensitivity.Model) (*glls.Result, error) {
	res, err := a.assimilate(eng, p, set, model)
	if err != nil {
		return nil, err
	}
	a.metrics.observeChiSquare(res)
	if chi, ok := res.ChiSquare(); ok {
		a.log.Info("assimilation done", "chi2", chi.Value, "dof", chi.DoF, "p_value", chi.PValue(),
			"cond", res.Diagnostics().Cond)
	}
	return res, nil
}

// assimilate runs one solve and records its duration and size. Sweep
// variants call it directly so the gauge keeps the full solve.
func (a *app) assimilate(eng *glls.Engine, p *problem.Problem, set *measurement.Set, model *sensitivity.Model) (*glls.Result, error) {
	start := time.Now()
	res, err := eng.Assimilate(p.Prior, p.PriorCov, model, set)
	if err != nil {
		a.metrics.observeError(err)
		return nil, err
	}
	a.metrics.observeSolve(res, time.Since(start).Seconds())

	if d := res.Diagnostics(); d.PseudoInverse {
		a.log.Warn("pseudo-inverse fallback used", "rank", d.Rank, "responses", set.Len())
	}
	return res, nil
}
