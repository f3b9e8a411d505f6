// SPDX-License-Identifier: MIT

// Package matrix: functional configuration of the numeric policy.
//   - Option / Options with documented defaults.
//   - WithX constructors panic on nonsensical values (programmer error);
//     kernels themselves never panic on user data.

package matrix

import "math"

// Numeric policy defaults.
const (
	// DefaultEpsilon is the relative symmetry tolerance.
	DefaultEpsilon = 1e-8

	// DefaultMaxCondition is the largest accepted condition estimate of a
	// factorized matrix. Beyond it FactorizeSPD reports ErrIllConditioned.
	DefaultMaxCondition = 1e12

	// DefaultRcond is the relative singular-value cutoff of FactorizePseudo.
	DefaultRcond = 1e-12
)

const (
	panicEpsilonInvalid   = "matrix: WithEpsilon: eps must be finite, non-negative"
	panicConditionInvalid = "matrix: WithMaxCondition: limit must be > 1 (may be +Inf)"
	panicRcondInvalid     = "matrix: WithRcond: rcond must be in [0,1)"
)

// Option mutates Options. Safe to apply repeatedly.
type Option func(*Options)

// Options is the resolved numeric policy. Fields are unexported; public
// entry points accept ...Option and resolve them via gatherOptions.
type Options struct {
	eps     float64
	maxCond float64
	rcond   float64
}

// WithEpsilon sets the relative symmetry tolerance.
// Panics when eps is negative or not finite.
func WithEpsilon(eps float64) Option {
	if math.IsNaN(eps) || math.IsInf(eps, 0) || eps < 0 {
		panic(panicEpsilonInvalid)
	}

	return func(o *Options) { o.eps = eps }
}

// WithMaxCondition sets the accepted condition-number limit.
// +Inf disables the check (singular factorizations still fail).
func WithMaxCondition(limit float64) Option {
	if math.IsNaN(limit) || limit <= 1 {
		panic(panicConditionInvalid)
	}

	return func(o *Options) { o.maxCond = limit }
}

// WithRcond sets the relative singular-value cutoff used by FactorizePseudo.
func WithRcond(rcond float64) Option {
	if math.IsNaN(rcond) || rcond < 0 || rcond >= 1 {
		panic(panicRcondInvalid)
	}

	return func(o *Options) { o.rcond = rcond }
}

// Epsilon returns the resolved symmetry tolerance.
func (o Options) Epsilon() float64 { return o.eps }

// MaxCondition returns the resolved condition-number limit.
func (o Options) MaxCondition() float64 { return o.maxCond }

// gatherOptions applies opts over the defaults.
func gatherOptions(opts ...Option) Options {
	o := Options{
		eps:     DefaultEpsilon,
		maxCond: DefaultMaxCondition,
		rcond:   DefaultRcond,
	}
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}

	return o
}

// Resolve exposes the effective policy for a set of options, so callers can
// log or persist what a computation actually used.
func Resolve(opts ...Option) Options { return gatherOptions(opts...) }
