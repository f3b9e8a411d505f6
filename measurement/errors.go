// SPDX-License-Identifier: MIT

package measurement

import "errors"

var (
	// ErrInvalidBenchmark indicates a benchmark with an empty title, an
	// unknown kind, non-finite values or a negative standard deviation.
	ErrInvalidBenchmark = errors.New("measurement: invalid benchmark")

	// ErrInvalidCorrelation indicates a correlation coefficient outside
	// [-1, 1] or between a benchmark and itself.
	ErrInvalidCorrelation = errors.New("measurement: invalid correlation")

	// ErrDuplicateBenchmark indicates that a title is already in the suite.
	ErrDuplicateBenchmark = errors.New("measurement: duplicate benchmark")
)
