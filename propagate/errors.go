// SPDX-License-Identifier: MIT

package propagate

import "errors"

// ErrInvalidConfig indicates a Config value outside its valid range.
var ErrInvalidConfig = errors.New("propagate: invalid configuration")
