// SPDX-License-Identifier: MIT

// Package sensitivity holds the linearized response model S: one row per
// integral response, one column per nuclear-data parameter, entry
// ∂response/∂parameter at the prior.
//
// A Model is built either from a dense M×N table with explicit labels (New)
// or from sparse per-response profiles as produced by perturbation codes
// (Assemble, AssembleOn). Responses carry a closed label.Kind, so keff,
// reaction rates, spectral indices and cross sections flow through the same
// code path.
package sensitivity
