// SPDX-License-Identifier: MIT

// Package stats holds the labeled value objects the assimilation works on:
//
//   - Vector[K]      ordered values tagged by an ordered label set (x, R0, Rm).
//   - Covariance[K]  symmetric matrix over one label set (Cx0, Cm, C1, Cr).
//   - Matrix[R, C]   rectangular matrix with row and column labels (S, K).
//
// All three copy their input on construction and copy their output on
// access, so a value can be shared freely once built. An empty label set is
// valid and yields an empty value; the engine relies on this for
// assimilations without measurements.
//
// Label compatibility is positional: two values combine only if their label
// sets are equal element by element. A length difference is reported as
// matrix.ErrDimensionMismatch (and label.ErrLabelMismatch), a same-length
// difference as label.ErrLabelMismatch only.
package stats
