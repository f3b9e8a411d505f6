// SPDX-License-Identifier: MIT

// Package cluster groups integral responses by the data they constrain.
//
// Two responses are neighbors when their ck similarity (the correlation
// induced by the prior covariance, see propagate.Propagator.Similarity)
// reaches a threshold in absolute value. The package walks that implicit
// graph breadth-first:
//
//   - Reach explores from one response and returns visit order, hop depth
//     and parent links (PathTo rebuilds a chain of similar responses).
//   - Families partitions all responses into connected components, in
//     the order of the first member.
//
// The walk honors a context, a depth limit and an OnVisit hook; invalid
// options surface as ErrOptionViolation.
package cluster
