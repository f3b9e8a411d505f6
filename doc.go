// SPDX-License-Identifier: MIT

// Package glls is a toolkit for nuclear-data assimilation with the
// generalized linear least-squares (GLLS) method: multi-group parameters
// with a prior covariance are adjusted against integral benchmark
// experiments through first-order sensitivity coefficients.
//
// What is inside?
//
//	label/       - parameter and response labels, reaction numbers, energy groups
//	matrix/      - dense kernels, symmetry checks, Cholesky and truncated-SVD solvers
//	stats/       - labeled vectors, covariance matrices and rectangular matrices
//	sensitivity/ - the sensitivity model S and profile assembly
//	measurement/ - measured responses, their covariance, benchmark suites
//	glls/        - the Engine: posterior, gain, chi-square and diagnostics
//	propagate/   - sandwich-rule propagation, ck similarity, group collapse
//	problem/     - YAML problem documents
//	store/       - SQLite persistence of suites, priors and runs
//	report/      - plain-text tables
//	config/      - YAML configuration with environment overrides
//	cmd/glls     - the command line
//
// Quick start:
//
//	eng, _ := glls.New(glls.DefaultConfig())
//	res, err := eng.Assimilate(x0, cx0, model, set)
//	if err != nil { ... }
//	chi, _ := res.ChiSquare()
//	fmt.Println(res.Posterior().Values(), chi.Reduced())
//
// All numeric work is deterministic and single-threaded per call; an Engine
// holds no mutable state and may be shared between goroutines.
package glls
