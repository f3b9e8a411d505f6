// SPDX-License-Identifier: MIT
// Package matrix: linear solves without materialized inverses.
//
// Purpose:
//   - FactorizeSPD: symmetric-positive-definite solve via gonum Cholesky,
//     guarded by the configured condition-number limit.
//   - FactorizePseudo: least-squares / minimum-norm solve via truncated SVD.
//     Only used when a caller opts in explicitly.
//
// Both factorizations are computed once and reused for every right-hand side.

package matrix

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	opFactorSPD    = "FactorizeSPD"
	opFactorPseudo = "FactorizePseudo"
	opSolve        = "Solve"
	opSolveVec     = "SolveVec"
)

// Solver solves A·X = B for a factorized square A.
type Solver interface {
	// Size is the order of A.
	Size() int
	// Cond is the condition estimate of A.
	Cond() float64
	// Solve returns X for a matrix right-hand side with Size rows.
	Solve(b *Dense) (*Dense, error)
	// SolveVec returns x for a vector right-hand side of length Size.
	SolveVec(b []float64) ([]float64, error)
}

var (
	_ Solver = (*SPDFactor)(nil)
	_ Solver = (*PseudoFactor)(nil)
)

// SPDFactor is a Cholesky factorization of a symmetric positive-definite matrix.
type SPDFactor struct {
	n    int
	cond float64
	chol mat.Cholesky
}

// FactorizeSPD checks a for symmetry (WithEpsilon), averages mirrored entries
// and computes its Cholesky factorization. It fails with ErrIllConditioned if
// a is not positive definite or its condition estimate exceeds the limit
// (WithMaxCondition).
// Complexity: O(n³/3).
func FactorizeSPD(a *Dense, opts ...Option) (*SPDFactor, error) {
	o := gatherOptions(opts...)
	sym, err := symDense(a, o.eps)
	if err != nil {
		return nil, matrixErrorf(opFactorSPD, err)
	}

	f := &SPDFactor{n: a.r}
	if ok := f.chol.Factorize(sym); !ok {
		return nil, fmt.Errorf("%s: not positive definite: %w", opFactorSPD, ErrIllConditioned)
	}
	f.cond = f.chol.Cond()
	if math.IsNaN(f.cond) || math.IsInf(f.cond, 1) || f.cond > o.maxCond {
		return nil, fmt.Errorf("%s: condition estimate %g exceeds %g: %w",
			opFactorSPD, f.cond, o.maxCond, ErrIllConditioned)
	}

	return f, nil
}

// Size returns the order of the factorized matrix.
func (f *SPDFactor) Size() int { return f.n }

// Cond returns the condition estimate computed at factorization time.
func (f *SPDFactor) Cond() float64 { return f.cond }

// Solve returns X with A·X = B.
func (f *SPDFactor) Solve(b *Dense) (*Dense, error) {
	if err := ValidateNotNil(b); err != nil {
		return nil, matrixErrorf(opSolve, err)
	}
	if b.r != f.n {
		return nil, fmt.Errorf("%s: rhs has %d rows, want %d: %w", opSolve, b.r, f.n, ErrDimensionMismatch)
	}
	var x mat.Dense
	if err := f.chol.SolveTo(&x, toGonum(b)); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", opSolve, err, ErrIllConditioned)
	}

	return fromGonum(&x)
}

// SolveVec returns x with A·x = b.
func (f *SPDFactor) SolveVec(b []float64) ([]float64, error) {
	if err := ValidateVecLen(b, f.n); err != nil {
		return nil, matrixErrorf(opSolveVec, err)
	}
	var x mat.VecDense
	if err := f.chol.SolveVecTo(&x, mat.NewVecDense(f.n, cloneSlice(b))); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", opSolveVec, err, ErrIllConditioned)
	}

	return vecOf(&x), nil
}

// LogDet returns log|A|.
func (f *SPDFactor) LogDet() float64 { return f.chol.LogDet() }

// PseudoFactor is a truncated SVD of a square matrix. Singular values below
// rcond·σmax are treated as zero, so Solve returns the minimum-norm
// least-squares solution.
type PseudoFactor struct {
	n     int
	rank  int
	cond  float64
	u, v  *mat.Dense
	sigma []float64
}

// FactorizePseudo factorizes a symmetric a (WithEpsilon) with a thin SVD and
// truncates at WithRcond. The condition limit is not applied; Cond reports
// the condition of the full spectrum. A zero matrix fails with
// ErrIllConditioned.
// Complexity: O(n³).
func FactorizePseudo(a *Dense, opts ...Option) (*PseudoFactor, error) {
	o := gatherOptions(opts...)
	sym, err := symDense(a, o.eps)
	if err != nil {
		return nil, matrixErrorf(opFactorPseudo, err)
	}

	var svd mat.SVD
	if ok := svd.Factorize(sym, mat.SVDThin); !ok {
		return nil, fmt.Errorf("%s: SVD did not converge: %w", opFactorPseudo, ErrIllConditioned)
	}
	f := &PseudoFactor{
		n:     a.r,
		sigma: svd.Values(nil),
		u:     &mat.Dense{},
		v:     &mat.Dense{},
	}
	svd.UTo(f.u)
	svd.VTo(f.v)
	f.cond = svd.Cond()

	cutoff := o.rcond * f.sigma[0]
	for _, s := range f.sigma {
		if s > cutoff && s > 0 {
			f.rank++
		}
	}
	if f.rank == 0 {
		return nil, fmt.Errorf("%s: zero matrix: %w", opFactorPseudo, ErrIllConditioned)
	}

	return f, nil
}

// Size returns the order of the factorized matrix.
func (f *PseudoFactor) Size() int { return f.n }

// Cond returns σmax/σmin over the full spectrum (+Inf when singular).
func (f *PseudoFactor) Cond() float64 { return f.cond }

// Rank returns the number of singular values kept after truncation.
func (f *PseudoFactor) Rank() int { return f.rank }

// Solve returns V·Σ⁺·Uᵀ·B.
func (f *PseudoFactor) Solve(b *Dense) (*Dense, error) {
	if err := ValidateNotNil(b); err != nil {
		return nil, matrixErrorf(opSolve, err)
	}
	if b.r != f.n {
		return nil, fmt.Errorf("%s: rhs has %d rows, want %d: %w", opSolve, b.r, f.n, ErrDimensionMismatch)
	}
	out := &Dense{r: f.n, c: b.c, data: make([]float64, f.n*b.c)}
	col := make([]float64, f.n)
	for j := 0; j < b.c; j++ {
		for i := 0; i < f.n; i++ {
			col[i] = b.data[i*b.c+j]
		}
		x := f.apply(col)
		for i := 0; i < f.n; i++ {
			out.data[i*b.c+j] = x[i]
		}
	}

	return out, nil
}

// SolveVec returns V·Σ⁺·Uᵀ·b.
func (f *PseudoFactor) SolveVec(b []float64) ([]float64, error) {
	if err := ValidateVecLen(b, f.n); err != nil {
		return nil, matrixErrorf(opSolveVec, err)
	}

	return f.apply(b), nil
}

func (f *PseudoFactor) apply(b []float64) []float64 {
	// w = Σ⁺·Uᵀ·b over the kept spectrum
	w := make([]float64, f.rank)
	for k := 0; k < f.rank; k++ {
		s := 0.0
		for i := 0; i < f.n; i++ {
			s += f.u.At(i, k) * b[i]
		}
		w[k] = s / f.sigma[k]
	}
	x := make([]float64, f.n)
	for i := 0; i < f.n; i++ {
		s := 0.0
		for k := 0; k < f.rank; k++ {
			s += f.v.At(i, k) * w[k]
		}
		x[i] = s
	}

	return x
}

// symDense validates symmetry and returns the averaged matrix as a gonum SymDense.
func symDense(a *Dense, eps float64) (*mat.SymDense, error) {
	if err := ValidateSymmetric(a, eps); err != nil {
		return nil, err
	}
	if err := ValidateFinite(a.data); err != nil {
		return nil, err
	}
	n := a.r
	data := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			avg := 0.5 * (a.data[i*n+j] + a.data[j*n+i])
			data[i*n+j] = avg
			data[j*n+i] = avg
		}
	}

	return mat.NewSymDense(n, data), nil
}

func toGonum(m *Dense) *mat.Dense {
	return mat.NewDense(m.r, m.c, m.RawRowMajor())
}

func fromGonum(g mat.Matrix) (*Dense, error) {
	r, c := g.Dims()
	out, err := NewDense(r, c)
	if err != nil {
		return nil, err
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := g.At(i, j)
			if isNonFinite(v) {
				return nil, denseErrorf("fromGonum", i, j, ErrNaNInf)
			}
			out.data[i*c+j] = v
		}
	}

	return out, nil
}

func vecOf(v *mat.VecDense) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}

	return out
}

func cloneSlice(x []float64) []float64 {
	out := make([]float64, len(x))
	copy(out, x)

	return out
}
