// SPDX-License-Identifier: MIT

// Package propagate applies first-order error propagation.
//
// For a covariance C over a parameter space and a linear map S' from that
// space to derived quantities, the propagated covariance is
//
//	C' = S'·C·S'ᵀ
//
// Variances computes only diag(C'), one row at a time, without forming C'.
// The derived quantities may be integral responses (a sensitivity model),
// group-collapsed parameters (Collapse), or anything else with a label type.
//
// The Propagator bundles the numeric policy with the response-level
// operations: application uncertainties and the ck similarity matrix
// between responses.
package propagate
