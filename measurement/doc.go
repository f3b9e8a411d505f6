// SPDX-License-Identifier: MIT

// Package measurement holds the experimental side of an assimilation.
//
// A Set carries measured responses Rm with covariance Cm and the baseline
// responses R0 computed at the prior; its single derived quantity is the
// residual d = Rm − R0.
//
// A Suite is the editable catalogue a Set is usually built from: benchmarks
// keyed by title, each with its measured and calculated values, their
// standard deviations and a sensitivity profile. Suite.Set turns the
// catalogue into Rm, R0 and a Cm that is diagonal unless experiment
// correlations are supplied.
package measurement
