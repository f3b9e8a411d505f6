// SPDX-License-Identifier: MIT

// Package label provides the identity layer for assimilation data: ordered,
// duplicate-free label sets and the concrete label types used to tag values.
//
// What is here:
//
//   - Index[K] - ordered label set with O(1) position lookup.
//   - Parameter - (ZAI, MT, group) identity of a multi-group nuclear-data value.
//   - Response - (title, kind) identity of an integral response.
//   - Kind - closed set of response kinds (keff, reaction rate, ...).
//   - GroupStructure - immutable energy-group boundaries.
//   - Reaction tables - Serpent perturbation strings → MT numbers, MT → readable names.
//
// Every vector or matrix in the module is bound to one or two Index values.
// Two operands may be combined only when their indexes are Equal, i.e. hold
// the same labels in the same order. Require reports the first offending
// position wrapped in ErrLabelMismatch.
//
// All values in this package are immutable after construction and safe to
// share across goroutines.
package label
