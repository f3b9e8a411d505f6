// SPDX-License-Identifier: MIT

package glls

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/glls/label"
	"github.com/katalvlaran/glls/stats"
)

// ChiSquare is the consistency statistic dᵀ·Cr⁻¹·d with DoF = M.
type ChiSquare struct {
	Value float64
	DoF   int
}

// Reduced returns χ²/DoF.
func (c ChiSquare) Reduced() float64 { return c.Value / float64(c.DoF) }

// PValue returns P(X ≥ χ²) for X ~ χ²(DoF).
func (c ChiSquare) PValue() float64 {
	return distuv.ChiSquared{K: float64(c.DoF)}.Survival(c.Value)
}

// Diagnostics describes how the solve went.
type Diagnostics struct {
	// Cond is the condition estimate of Cr (0 when M = 0).
	Cond float64
	// PseudoInverse is set when the truncated-SVD fallback produced the result.
	PseudoInverse bool
	// Rank is the rank kept by the pseudo-inverse, or M.
	Rank int
	// Asymmetry is the largest relative asymmetry found in the covariance
	// reduction K·S·Cx0 before it was symmetrized.
	Asymmetry float64
	// NegativeVariance lists parameters whose posterior variance came out
	// negative.
	NegativeVariance []label.Parameter
	// UnresolvedResiduals lists responses with Cr[i,i] = 0. Their normalized
	// residual is undefined and reported as 0.
	UnresolvedResiduals []label.Response
}

// Result is the outcome of one assimilation. It is immutable.
type Result struct {
	prior      stats.Vector[label.Parameter]
	priorCov   stats.Covariance[label.Parameter]
	posterior  stats.Vector[label.Parameter]
	postCov    stats.Covariance[label.Parameter]
	respCov    stats.Covariance[label.Response]
	gain       stats.Matrix[label.Parameter, label.Response]
	residual   stats.Vector[label.Response]
	normalized stats.Vector[label.Response]
	adjusted   stats.Vector[label.Response]
	chi        *ChiSquare
	diag       Diagnostics
}

// Prior returns x0.
func (r *Result) Prior() stats.Vector[label.Parameter] { return r.prior }

// PriorCovariance returns Cx0.
func (r *Result) PriorCovariance() stats.Covariance[label.Parameter] { return r.priorCov }

// Posterior returns x1.
func (r *Result) Posterior() stats.Vector[label.Parameter] { return r.posterior }

// PosteriorCovariance returns C1.
func (r *Result) PosteriorCovariance() stats.Covariance[label.Parameter] { return r.postCov }

// ResponseCovariance returns Cr (empty when M = 0).
func (r *Result) ResponseCovariance() stats.Covariance[label.Response] { return r.respCov }

// Gain returns K (N×M).
func (r *Result) Gain() stats.Matrix[label.Parameter, label.Response] { return r.gain }

// Residual returns d = Rm − R0.
func (r *Result) Residual() stats.Vector[label.Response] { return r.residual }

// NormalizedResiduals returns dᵢ/√Cr[i,i].
func (r *Result) NormalizedResiduals() stats.Vector[label.Response] { return r.normalized }

// AdjustedResponses returns R0 + S·(x1 − x0), the responses predicted with
// the posterior data.
func (r *Result) AdjustedResponses() stats.Vector[label.Response] { return r.adjusted }

// ChiSquare returns the statistic and false when there were no measurements.
func (r *Result) ChiSquare() (ChiSquare, bool) {
	if r.chi == nil {
		return ChiSquare{}, false
	}

	return *r.chi, true
}

// Diagnostics returns the solve diagnostics.
func (r *Result) Diagnostics() Diagnostics {
	d := r.diag
	d.NegativeVariance = append([]label.Parameter(nil), r.diag.NegativeVariance...)
	d.UnresolvedResiduals = append([]label.Response(nil), r.diag.UnresolvedResiduals...)

	return d
}

// Outliers returns the responses with |normalized residual| > k, in
// response order. Unresolved residuals are never outliers.
func (r *Result) Outliers(k float64) []label.Response {
	var out []label.Response
	idx := r.normalized.Labels()
	for i := 0; i < r.normalized.Len(); i++ {
		if math.Abs(r.normalized.At(i)) > k {
			out = append(out, idx.At(i))
		}
	}

	return out
}

// VarianceReduction returns 1 − C1[i,i]/Cx0[i,i] per parameter, 0 where
// the prior variance is 0.
func (r *Result) VarianceReduction() stats.Vector[label.Parameter] {
	v0 := r.priorCov.Variances().Values()
	v1 := r.postCov.Variances().Values()
	out := make([]float64, len(v0))
	for i := range v0 {
		if v0[i] > 0 {
			out[i] = 1 - v1[i]/v0[i]
		}
	}
	vec, _ := stats.NewVector(r.prior.Labels(), out)

	return vec
}
