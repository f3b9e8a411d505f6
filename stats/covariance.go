// SPDX-License-Identifier: MIT

package stats

import (
	"fmt"
	"math"

	"github.com/katalvlaran/glls/label"
	"github.com/katalvlaran/glls/matrix"
)

// Covariance is an immutable symmetric matrix over one ordered label set.
// The zero value is the empty covariance.
type Covariance[K label.Key] struct {
	idx label.Index[K]
	m   *matrix.Dense // nil when idx is empty
}

// NewCovariance copies rows under idx. rows must be square with one row per
// label, finite, and symmetric within the relative tolerance set through
// opts (matrix.WithEpsilon).
func NewCovariance[K label.Key](idx label.Index[K], rows [][]float64, opts ...matrix.Option) (Covariance[K], error) {
	if len(rows) != idx.Len() {
		return Covariance[K]{}, fmt.Errorf("NewCovariance: %d rows for %d labels: %w",
			len(rows), idx.Len(), matrix.ErrDimensionMismatch)
	}
	if idx.Len() == 0 {
		return Covariance[K]{idx: idx}, nil
	}
	for i, r := range rows {
		if len(r) != idx.Len() {
			return Covariance[K]{}, fmt.Errorf("NewCovariance: row %d has %d entries, want %d: %w",
				i, len(r), idx.Len(), matrix.ErrDimensionMismatch)
		}
	}
	m, err := matrix.NewDenseFromRows(rows)
	if err != nil {
		return Covariance[K]{}, fmt.Errorf("NewCovariance: %w", err)
	}

	return newCovariance(idx, m, opts...)
}

// CovarianceFromDense copies m under idx with the same checks as NewCovariance.
// A nil m is accepted only for an empty idx.
func CovarianceFromDense[K label.Key](idx label.Index[K], m *matrix.Dense, opts ...matrix.Option) (Covariance[K], error) {
	if m == nil {
		if idx.Len() == 0 {
			return Covariance[K]{idx: idx}, nil
		}

		return Covariance[K]{}, fmt.Errorf("CovarianceFromDense: %w", matrix.ErrNilMatrix)
	}
	if r, c := m.Dims(); r != idx.Len() || c != idx.Len() {
		return Covariance[K]{}, fmt.Errorf("CovarianceFromDense: %dx%d for %d labels: %w",
			r, c, idx.Len(), matrix.ErrDimensionMismatch)
	}

	return newCovariance(idx, m.Clone(), opts...)
}

func newCovariance[K label.Key](idx label.Index[K], m *matrix.Dense, opts ...matrix.Option) (Covariance[K], error) {
	o := matrix.Resolve(opts...)
	if err := matrix.ValidateSymmetric(m, o.Epsilon()); err != nil {
		return Covariance[K]{}, fmt.Errorf("NewCovariance: %w", err)
	}

	return Covariance[K]{idx: idx, m: m}, nil
}

// Diagonal builds an uncorrelated covariance from variances.
// Negative variances are rejected with matrix.ErrNegativeVariance.
func Diagonal[K label.Key](idx label.Index[K], variances []float64) (Covariance[K], error) {
	if len(variances) != idx.Len() {
		return Covariance[K]{}, fmt.Errorf("Diagonal: %d variances for %d labels: %w",
			len(variances), idx.Len(), matrix.ErrDimensionMismatch)
	}
	if idx.Len() == 0 {
		return Covariance[K]{idx: idx}, nil
	}
	n := idx.Len()
	m, err := matrix.NewDense(n, n)
	if err != nil {
		return Covariance[K]{}, err
	}
	for i, v := range variances {
		if v < 0 {
			return Covariance[K]{}, fmt.Errorf("Diagonal: %s = %g: %w", idx.At(i), v, matrix.ErrNegativeVariance)
		}
		if err = m.Set(i, i, v); err != nil {
			return Covariance[K]{}, fmt.Errorf("Diagonal: %w", err)
		}
	}

	return Covariance[K]{idx: idx, m: m}, nil
}

// BlockDiagonal joins independent covariances into one with zero
// cross-blocks. Labels are concatenated in block order; a label appearing
// in two blocks is rejected with label.ErrLabelMismatch. Empty blocks are skipped.
func BlockDiagonal[K label.Key](blocks ...Covariance[K]) (Covariance[K], error) {
	var keys []K
	var dense []*matrix.Dense
	for _, b := range blocks {
		if b.Len() == 0 {
			continue
		}
		keys = append(keys, b.idx.Keys()...)
		dense = append(dense, b.m)
	}
	idx, err := label.NewIndex(keys)
	if err != nil {
		return Covariance[K]{}, fmt.Errorf("BlockDiagonal: %w", err)
	}
	if len(dense) == 0 {
		return Covariance[K]{idx: idx}, nil
	}
	m, err := matrix.BlockDiag(dense...)
	if err != nil {
		return Covariance[K]{}, fmt.Errorf("BlockDiagonal: %w", err)
	}

	return Covariance[K]{idx: idx, m: m}, nil
}

// Labels returns the label set.
func (c Covariance[K]) Labels() label.Index[K] { return c.idx }

// Len returns the order of the matrix.
func (c Covariance[K]) Len() int { return c.idx.Len() }

// AtPos returns the entry at positions (i, j).
func (c Covariance[K]) AtPos(i, j int) (float64, error) {
	if c.m == nil {
		return 0, fmt.Errorf("Covariance.AtPos(%d,%d): %w", i, j, matrix.ErrOutOfRange)
	}

	return c.m.At(i, j)
}

// At returns the entry for the label pair (a, b).
func (c Covariance[K]) At(a, b K) (float64, error) {
	i, ok := c.idx.Pos(a)
	if !ok {
		return 0, fmt.Errorf("Covariance.At: %s: %w", a, label.ErrLabelMismatch)
	}
	j, ok := c.idx.Pos(b)
	if !ok {
		return 0, fmt.Errorf("Covariance.At: %s: %w", b, label.ErrLabelMismatch)
	}

	return c.m.At(i, j)
}

// Dense returns a copy of the underlying matrix, or nil when empty.
func (c Covariance[K]) Dense() *matrix.Dense {
	if c.m == nil {
		return nil
	}

	return c.m.Clone()
}

// Rows returns a copy as a slice of rows.
func (c Covariance[K]) Rows() [][]float64 {
	out := make([][]float64, c.Len())
	for i := range out {
		out[i] = c.m.Row(i)
	}

	return out
}

// Variances returns the diagonal.
func (c Covariance[K]) Variances() Vector[K] {
	if c.m == nil {
		return Vector[K]{idx: c.idx}
	}

	return Vector[K]{idx: c.idx, values: c.m.Diag()}
}

// StdDevs returns the square root of the diagonal.
func (c Covariance[K]) StdDevs() (Vector[K], error) {
	if c.m == nil {
		return Vector[K]{idx: c.idx}, nil
	}
	sd, err := matrix.StdDevs(c.m)
	if err != nil {
		return Vector[K]{}, fmt.Errorf("Covariance.StdDevs: %w", err)
	}

	return Vector[K]{idx: c.idx, values: sd}, nil
}

// RelativeStdDevs returns σ / |ref| per label, 0 where ref is 0.
func (c Covariance[K]) RelativeStdDevs(ref Vector[K]) (Vector[K], error) {
	if err := Compatible("Covariance.RelativeStdDevs", c.idx, ref.idx); err != nil {
		return Vector[K]{}, err
	}
	sd, err := c.StdDevs()
	if err != nil {
		return Vector[K]{}, err
	}
	for i, r := range ref.values {
		if r == 0 {
			sd.values[i] = 0
			continue
		}
		sd.values[i] /= math.Abs(r)
	}

	return sd, nil
}

// Correlation returns the correlation matrix. Labels with zero variance get
// zero rows and columns.
func (c Covariance[K]) Correlation() (Covariance[K], error) {
	if c.m == nil {
		return c, nil
	}
	corr, err := matrix.Correlation(c.m)
	if err != nil {
		return Covariance[K]{}, fmt.Errorf("Covariance.Correlation: %w", err)
	}

	return Covariance[K]{idx: c.idx, m: corr}, nil
}

// Sub extracts the block for keys, in the order given.
func (c Covariance[K]) Sub(keys []K) (Covariance[K], error) {
	idx, pos, err := subIndex(c.idx, keys)
	if err != nil {
		return Covariance[K]{}, fmt.Errorf("Covariance.Sub: %w", err)
	}
	if len(pos) == 0 {
		return Covariance[K]{idx: idx}, nil
	}
	m, err := c.m.Induced(pos, pos)
	if err != nil {
		return Covariance[K]{}, fmt.Errorf("Covariance.Sub: %w", err)
	}

	return Covariance[K]{idx: idx, m: m}, nil
}

// Expand embeds c into target, a label set containing every label of c.
// Entries for labels outside c are zero.
func (c Covariance[K]) Expand(target label.Index[K]) (Covariance[K], error) {
	pos, err := target.Positions(c.idx.Keys())
	if err != nil {
		return Covariance[K]{}, fmt.Errorf("Covariance.Expand: %w", err)
	}
	n := target.Len()
	if n == 0 {
		return Covariance[K]{idx: target}, nil
	}
	m, err := matrix.NewDense(n, n)
	if err != nil {
		return Covariance[K]{}, err
	}
	for i, pi := range pos {
		for j, pj := range pos {
			v, _ := c.m.At(i, j)
			_ = m.Set(pi, pj, v)
		}
	}

	return Covariance[K]{idx: target, m: m}, nil
}

// Symmetrized checks symmetry within the tolerance in opts and returns a
// copy with mirrored entries averaged.
func (c Covariance[K]) Symmetrized(opts ...matrix.Option) (Covariance[K], error) {
	if c.m == nil {
		return c, nil
	}
	m, err := matrix.SymmetrizeChecked(c.m, opts...)
	if err != nil {
		return Covariance[K]{}, fmt.Errorf("Covariance.Symmetrized: %w", err)
	}

	return Covariance[K]{idx: c.idx, m: m}, nil
}

// View returns the underlying matrix without copying. Callers in this module
// use it for read-only kernels.
func (c Covariance[K]) View() *matrix.Dense { return c.m }
