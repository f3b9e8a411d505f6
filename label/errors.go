// SPDX-License-Identifier: MIT

package label

import "errors"

var (
	// ErrLabelMismatch indicates that two label sets that must be identical
	// (same labels, same order) differ, that a requested label is unknown, or
	// that a label set contains duplicates.
	ErrLabelMismatch = errors.New("label: label mismatch")

	// ErrUnknownKind is returned by ParseKind for names outside the closed kind set.
	ErrUnknownKind = errors.New("label: unknown response kind")

	// ErrInvalidGroups indicates malformed energy-group boundaries.
	ErrInvalidGroups = errors.New("label: invalid group structure")
)
