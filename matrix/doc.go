// SPDX-License-Identifier: MIT

// Package matrix provides the numeric kernels behind the assimilation engine.
//
// What is here:
//
//   - Dense - row-major float64 matrix with bounds-checked At/Set.
//   - Kernels - Add, Sub, Mul, MulBT (A·Bᵀ), MulAT (Aᵀ·B), Transpose,
//     Scale, MatVec, Dot, Induced sub-matrix extraction.
//   - Validators - ValidateSquare, ValidateSameShape, ValidateMulCompatible,
//     ValidateVecLen, ValidateSymmetric, ValidateFinite.
//   - Symmetry - SymmetrizeChecked: check within a relative tolerance,
//     then average mirrored entries. Used before every factorization.
//   - Solvers - FactorizeSPD (Cholesky + condition estimate) and
//     FactorizePseudo (truncated SVD), both backed by gonum.
//
// Numeric policy:
//
//	Symmetry is relative: |a[i,j] − a[j,i]| ≤ eps · max(|a[i,j]|, |a[j,i]|, √|a[i,i]·a[j,j]|).
//	The third term keeps near-zero off-diagonal entries of a correlated
//	covariance from failing on round-off alone. Default eps is 1e-8.
//
//	Inversion is never materialized. Callers factorize once and Solve
//	against as many right-hand sides as they need.
//
// Errors:
//
//	All failures are package sentinels (errors.go) wrapped with an
//	operation tag via %w; match them with errors.Is.
package matrix
