// SPDX-License-Identifier: MIT

package glls

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/katalvlaran/glls/label"
	"github.com/katalvlaran/glls/matrix"
	"github.com/katalvlaran/glls/measurement"
	"github.com/katalvlaran/glls/sensitivity"
	"github.com/katalvlaran/glls/stats"
)

const opAssimilate = "Assimilate"

// Engine performs GLLS updates under a fixed Config.
type Engine struct {
	cfg  Config
	opts []matrix.Option
	log  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger routes engine logs to l. The default discards them.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// New validates cfg and returns an Engine.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("glls.New: %w", err)
	}
	e := &Engine{
		cfg:  cfg,
		opts: cfg.MatrixOptions(),
		log:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(e)
	}

	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Assimilate combines the prior (x0, Cx0) with the measurement set through
// the sensitivity model and returns the posterior state with diagnostics.
//
// Checks, in order: N ≥ 1; Cx0 labels equal x0 labels; Cx0 and Cm symmetric
// within Config.SymmetryTol; S columns equal the parameter space; S rows
// equal the measured responses. model may be nil only when set is empty
// (or nil).
func (e *Engine) Assimilate(
	prior stats.Vector[label.Parameter],
	priorCov stats.Covariance[label.Parameter],
	model *sensitivity.Model,
	set *measurement.Set,
) (*Result, error) {
	if set == nil {
		set = measurement.Empty()
	}
	if prior.Len() == 0 {
		return nil, operandErr(opAssimilate, "prior x0", fmt.Errorf("no parameters: %w", ErrInvalidDimension))
	}
	if err := stats.Compatible("labels", prior.Labels(), priorCov.Labels()); err != nil {
		return nil, operandErr(opAssimilate, "prior covariance Cx0", err)
	}
	cx, err := priorCov.Symmetrized(e.opts...)
	if err != nil {
		return nil, operandErr(opAssimilate, "prior covariance Cx0", err)
	}
	cm, err := set.Covariance().Symmetrized(e.opts...)
	if err != nil {
		return nil, operandErr(opAssimilate, "measurement covariance Cm", err)
	}
	if model != nil {
		if err = model.Covers(prior.Labels()); err != nil {
			return nil, operandErr(opAssimilate, "sensitivity S", err)
		}
		if err = stats.Compatible("rows", set.Responses(), model.Responses()); err != nil {
			return nil, operandErr(opAssimilate, "sensitivity S", err)
		}
	}

	m, n := set.Len(), prior.Len()
	if m == 0 {
		e.log.Debug("assimilate: no measurements", "parameters", n)
		return e.identity(prior, priorCov), nil
	}
	if model == nil {
		return nil, operandErr(opAssimilate, "sensitivity S", fmt.Errorf("nil model for %d responses: %w", m, ErrInvalidDimension))
	}
	e.log.Debug("assimilate", "parameters", n, "responses", m)

	return e.update(prior, priorCov, cx, cm, model, set)
}

func (e *Engine) identity(prior stats.Vector[label.Parameter], priorCov stats.Covariance[label.Parameter]) *Result {
	var none label.Index[label.Response]
	gain, _ := stats.MatrixFromDense[label.Parameter, label.Response](prior.Labels(), none, nil)
	empty, _ := stats.NewVector(none, nil)

	return &Result{
		prior:      prior,
		priorCov:   priorCov,
		posterior:  prior,
		postCov:    priorCov,
		gain:       gain,
		residual:   empty,
		normalized: empty,
		adjusted:   empty,
	}
}

func (e *Engine) update(
	prior stats.Vector[label.Parameter],
	priorCov, cx stats.Covariance[label.Parameter],
	cm stats.Covariance[label.Response],
	model *sensitivity.Model,
	set *measurement.Set,
) (*Result, error) {
	s := model.View()
	params, responses := prior.Labels(), set.Responses()

	// Cr = S·Cx0·Sᵀ + Cm
	sc, err := matrix.Mul(s, cx.View())
	if err != nil {
		return nil, operandErr(opAssimilate, "S·Cx0", err)
	}
	scs, err := matrix.MulBT(sc, s)
	if err != nil {
		return nil, operandErr(opAssimilate, "S·Cx0·Sᵀ", err)
	}
	crRaw, err := matrix.Add(scs, cm.View())
	if err != nil {
		return nil, operandErr(opAssimilate, "response covariance Cr", err)
	}
	cr, err := matrix.SymmetrizeChecked(crRaw, e.opts...)
	if err != nil {
		return nil, operandErr(opAssimilate, "response covariance Cr", errors.Join(err, ErrIllConditioned))
	}

	solver, diag, err := e.factorize(cr)
	if err != nil {
		return nil, operandErr(opAssimilate, "response covariance Cr", err)
	}

	// Cr·Y = S·Cx0, K = Yᵀ
	y, err := solver.Solve(sc)
	if err != nil {
		return nil, operandErr(opAssimilate, "gain K", err)
	}
	k, err := matrix.Transpose(y)
	if err != nil {
		return nil, operandErr(opAssimilate, "gain K", err)
	}

	d := set.Residual().Values()
	dx, err := matrix.MatVec(k, d)
	if err != nil {
		return nil, operandErr(opAssimilate, "posterior x1", err)
	}
	x0 := prior.Values()
	x1 := make([]float64, len(x0))
	for i := range x0 {
		x1[i] = x0[i] + dx[i]
	}

	c1, err := e.posteriorCovariance(cx.View(), y, sc, params, &diag)
	if err != nil {
		return nil, err
	}

	// χ² = dᵀ·Cr⁻¹·d
	alpha, err := solver.SolveVec(d)
	if err != nil {
		return nil, operandErr(opAssimilate, "chi-square", err)
	}
	chi2, _ := matrix.Dot(d, alpha)

	crDiag := cr.Diag()
	norm := make([]float64, len(d))
	for i := range d {
		if crDiag[i] > 0 {
			norm[i] = d[i] / math.Sqrt(crDiag[i])
			continue
		}
		diag.UnresolvedResiduals = append(diag.UnresolvedResiduals, responses.At(i))
	}
	if len(diag.UnresolvedResiduals) > 0 {
		e.log.Warn("assimilate: responses without variance in Cr",
			"count", len(diag.UnresolvedResiduals),
			"first", diag.UnresolvedResiduals[0].String())
	}

	// R0 + S·Δx
	sdx, err := matrix.MatVec(s, dx)
	if err != nil {
		return nil, operandErr(opAssimilate, "adjusted responses", err)
	}
	r0 := set.Baseline().Values()
	for i := range sdx {
		sdx[i] += r0[i]
	}

	res := &Result{
		prior:    prior,
		priorCov: priorCov,
		postCov:  c1,
		chi:      &ChiSquare{Value: chi2, DoF: len(d)},
		diag:     diag,
	}
	if res.posterior, err = stats.NewVector(params, x1); err != nil {
		return nil, operandErr(opAssimilate, "posterior x1", errors.Join(err, ErrIllConditioned))
	}
	if res.respCov, err = stats.CovarianceFromDense(responses, cr, e.opts...); err != nil {
		return nil, operandErr(opAssimilate, "response covariance Cr", err)
	}
	if res.gain, err = stats.MatrixFromDense(params, responses, k); err != nil {
		return nil, operandErr(opAssimilate, "gain K", err)
	}
	res.residual = set.Residual()
	res.normalized, _ = stats.NewVector(responses, norm)
	res.adjusted, _ = stats.NewVector(responses, sdx)

	e.log.Info("assimilate: done",
		"parameters", params.Len(),
		"responses", responses.Len(),
		"chi2", chi2,
		"cond", diag.Cond,
		"pseudo_inverse", diag.PseudoInverse,
	)

	return res, nil
}

// factorize prefers Cholesky and only falls back to the pseudo-inverse when
// the configuration allows it.
func (e *Engine) factorize(cr *matrix.Dense) (matrix.Solver, Diagnostics, error) {
	spd, err := matrix.FactorizeSPD(cr, e.opts...)
	if err == nil {
		return spd, Diagnostics{Cond: spd.Cond(), Rank: spd.Size()}, nil
	}
	if !e.cfg.PseudoInverse || !errors.Is(err, ErrIllConditioned) {
		return nil, Diagnostics{}, err
	}
	e.log.Warn("assimilate: Cr rejected by Cholesky, using pseudo-inverse", "err", err)
	pinv, perr := matrix.FactorizePseudo(cr, e.opts...)
	if perr != nil {
		return nil, Diagnostics{}, perr
	}

	return pinv, Diagnostics{Cond: pinv.Cond(), Rank: pinv.Rank(), PseudoInverse: true}, nil
}

// posteriorCovariance computes C1 = Cx0 − Yᵀ·(S·Cx0). The reduction term is
// checked for symmetry against the engine tolerance, symmetrized, and
// subtracted, so C1 is exactly symmetric.
func (e *Engine) posteriorCovariance(cx, y, sc *matrix.Dense, params label.Index[label.Parameter], diag *Diagnostics) (stats.Covariance[label.Parameter], error) {
	red, err := matrix.MulAT(y, sc)
	if err != nil {
		return stats.Covariance[label.Parameter]{}, operandErr(opAssimilate, "posterior covariance C1", err)
	}
	diag.Asymmetry = matrix.MaxAsymmetry(red)
	redSym, err := matrix.SymmetrizeChecked(red, e.opts...)
	if err != nil {
		return stats.Covariance[label.Parameter]{}, operandErr(opAssimilate, "posterior covariance C1",
			fmt.Errorf("asymmetric update %g: %w", diag.Asymmetry, ErrIllConditioned))
	}
	c1, err := matrix.Sub(cx, redSym)
	if err != nil {
		return stats.Covariance[label.Parameter]{}, operandErr(opAssimilate, "posterior covariance C1", err)
	}

	for i, v := range c1.Diag() {
		if v < 0 {
			diag.NegativeVariance = append(diag.NegativeVariance, params.At(i))
		}
	}
	if len(diag.NegativeVariance) > 0 {
		if e.cfg.StrictPSD {
			return stats.Covariance[label.Parameter]{}, operandErr(opAssimilate, "posterior covariance C1",
				fmt.Errorf("%d negative variances, first %s: %w",
					len(diag.NegativeVariance), diag.NegativeVariance[0], ErrIllConditioned))
		}
		e.log.Warn("assimilate: negative posterior variance",
			"count", len(diag.NegativeVariance),
			"first", diag.NegativeVariance[0].String())
	}

	out, err := stats.CovarianceFromDense(params, c1, e.opts...)
	if err != nil {
		return stats.Covariance[label.Parameter]{}, operandErr(opAssimilate, "posterior covariance C1", err)
	}

	return out, nil
}
