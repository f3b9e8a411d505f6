// SPDX-License-Identifier: MIT

// Package glls implements the Generalized Linear Least Squares update of a
// multi-group nuclear-data prior with integral-experiment measurements.
//
// Given a prior (x0, Cx0) over parameters, a sensitivity model S (M×N) and a
// measurement set (Rm, Cm, R0), Engine.Assimilate computes
//
//	Cr = S·Cx0·Sᵀ + Cm                 response covariance
//	Cr·Y = S·Cx0,  K = Yᵀ              gain, by one Cholesky solve
//	x1 = x0 + K·d,  d = Rm − R0         posterior mean
//	C1 = Cx0 − K·S·Cx0                 posterior covariance
//	χ² = dᵀ·Cr⁻¹·d,  DoF = M            consistency
//
// Cr⁻¹ is never formed. A singular or badly conditioned Cr fails with
// ErrIllConditioned unless Config.PseudoInverse is set, in which case a
// truncated-SVD solve is used and flagged in Diagnostics.
//
// With M = 0 the call is a no-op: x1 = x0, C1 = Cx0 and no chi-square.
//
// The engine is stateless apart from its configuration and logger; one
// Engine may serve concurrent calls. Inputs are never mutated.
package glls
