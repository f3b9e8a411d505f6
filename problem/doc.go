// SPDX-License-Identifier: MIT

// Package problem reads an assimilation problem from a YAML document and
// converts it into the labeled inputs of the engine: the prior parameter
// vector, its covariance, the benchmark suite and the application targets.
//
// A document looks like:
//
//	groups: [1.0e-5, 0.625, 2.0e7]
//	prior:
//	  - {zai: 922350, mt: 18, group: 0, value: 1.0}
//	covariance:
//	  - parameters: [{zai: 922350, mt: 18, group: 0}]
//	    relative: true
//	    lower: [[0.0004]]
//	benchmarks:
//	  - title: HMF001
//	    kind: keff
//	    measured: 1.0
//	    measured_std: 0.001
//	    calculated: 0.995
//	    sensitivity:
//	      - {zai: 922350, reaction: "mt 18 xs", group: 0, value: 0.3, std: 0.002}
//	correlations:
//	  - {a: HMF001, b: HMF002, rho: 0.5}
//	applications:
//	  - {title: core, kind: keff, calculated: 1.002, sensitivity: [...]}
//
// Covariance blocks list their parameters once and give either the lower
// triangle (row i holds i+1 entries) or full rows. Parameters of the prior
// not covered by any block get zero variance.
package problem
