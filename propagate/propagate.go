// SPDX-License-Identifier: MIT

package propagate

import (
	"fmt"
	"math"

	"github.com/katalvlaran/glls/label"
	"github.com/katalvlaran/glls/matrix"
	"github.com/katalvlaran/glls/stats"
)

// Covariance returns S'·C·S'ᵀ over the row labels of sPrime.
// The columns of sPrime must be exactly the labels of cov (label.ErrLabelMismatch),
// and sPrime must have at least one row (matrix.ErrInvalidDimension).
func Covariance[P, Q label.Key](cov stats.Covariance[P], sPrime stats.Matrix[Q, P], opts ...matrix.Option) (stats.Covariance[Q], error) {
	c, err := checkOperands("Covariance", cov, sPrime, opts...)
	if err != nil {
		return stats.Covariance[Q]{}, err
	}
	out, err := matrix.Sandwich(sPrime.View(), c)
	if err != nil {
		return stats.Covariance[Q]{}, fmt.Errorf("propagate.Covariance: %w", err)
	}
	out, err = matrix.SymmetrizeChecked(out, opts...)
	if err != nil {
		return stats.Covariance[Q]{}, fmt.Errorf("propagate.Covariance: %w", err)
	}

	return stats.CovarianceFromDense(sPrime.RowLabels(), out, opts...)
}

// Variances returns diag(S'·C·S'ᵀ) under the same rules as Covariance.
func Variances[P, Q label.Key](cov stats.Covariance[P], sPrime stats.Matrix[Q, P], opts ...matrix.Option) (stats.Vector[Q], error) {
	c, err := checkOperands("Variances", cov, sPrime, opts...)
	if err != nil {
		return stats.Vector[Q]{}, err
	}
	v, err := matrix.SandwichDiag(sPrime.View(), c)
	if err != nil {
		return stats.Vector[Q]{}, fmt.Errorf("propagate.Variances: %w", err)
	}

	return stats.NewVector(sPrime.RowLabels(), v)
}

// StdDevs returns the square root of Variances. A negative propagated
// variance (non-PSD input) yields matrix.ErrNegativeVariance.
func StdDevs[P, Q label.Key](cov stats.Covariance[P], sPrime stats.Matrix[Q, P], opts ...matrix.Option) (stats.Vector[Q], error) {
	v, err := Variances(cov, sPrime, opts...)
	if err != nil {
		return stats.Vector[Q]{}, err
	}
	vals := v.Values()
	for i, x := range vals {
		if x < 0 {
			return stats.Vector[Q]{}, fmt.Errorf("propagate.StdDevs: %s = %g: %w",
				v.Labels().At(i), x, matrix.ErrNegativeVariance)
		}
		vals[i] = math.Sqrt(x)
	}

	return stats.NewVector(v.Labels(), vals)
}

// Sandwich returns s1ᵀ·C·s2 over the labels present in all three operands.
// Labels missing from either sensitivity vector contribute zero.
func Sandwich[P label.Key](s1 stats.Vector[P], cov stats.Covariance[P], s2 stats.Vector[P]) (float64, error) {
	idx1, idx2 := s1.Labels(), s2.Labels()
	var keys []P
	for _, k := range cov.Labels().Keys() {
		if idx1.Contains(k) && idx2.Contains(k) {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return 0, nil
	}
	c, err := cov.Sub(keys)
	if err != nil {
		return 0, fmt.Errorf("propagate.Sandwich: %w", err)
	}
	a, _ := s1.Sub(keys)
	b, _ := s2.Sub(keys)
	cb, err := matrix.MatVec(c.View(), b.Values())
	if err != nil {
		return 0, fmt.Errorf("propagate.Sandwich: %w", err)
	}

	return matrix.Dot(a.Values(), cb)
}

func checkOperands[P, Q label.Key](op string, cov stats.Covariance[P], sPrime stats.Matrix[Q, P], opts ...matrix.Option) (*matrix.Dense, error) {
	if cov.Len() == 0 {
		return nil, fmt.Errorf("propagate.%s: empty parameter space: %w", op, matrix.ErrInvalidDimension)
	}
	if rows, _ := sPrime.Dims(); rows == 0 {
		return nil, fmt.Errorf("propagate.%s: no derived quantity: %w", op, matrix.ErrInvalidDimension)
	}
	if err := stats.Compatible("propagate."+op+": S' columns", cov.Labels(), sPrime.ColLabels()); err != nil {
		return nil, err
	}
	sym, err := cov.Symmetrized(opts...)
	if err != nil {
		return nil, fmt.Errorf("propagate.%s: %w", op, err)
	}

	return sym.View(), nil
}
