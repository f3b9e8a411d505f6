// SPDX-License-Identifier: MIT

package label

import (
	"fmt"
	"strings"
)

// UnknownMT is returned by MTFromSerpent for unrecognized perturbation strings.
// It is an integer on purpose so callers can store it like any other MT.
const UnknownMT = 999

// Frequently used MT numbers.
const (
	MTTotal        = 1
	MTElastic      = 2
	MTInelastic    = 4
	MTN2N          = 16
	MTFission      = 18
	MTCapture      = 102
	MTNubarTotal   = 452
	MTNubarDelayed = 455
	MTNubarPrompt  = 456
	MTChiTotal     = 35016
	MTChiDelayed   = 35017
	MTChiPrompt    = 35018
)

// serpentMT maps Serpent sensitivity perturbation names to MT numbers.
// Discrete inelastic levels "mt 51 xs" .. "mt 91 xs" are generated in init.
var serpentMT = map[string]int{
	"total xs":      MTTotal,
	"mt 2 xs":       MTElastic,
	"mt 4 xs":       MTInelastic,
	"mt 16 xs":      MTN2N,
	"mt 17 xs":      17,
	"mt 18 xs":      MTFission,
	"mt 19 xs":      19,
	"mt 20 xs":      20,
	"mt 21 xs":      21,
	"mt 102 xs":     MTCapture,
	"nubar total":   MTNubarTotal,
	"nubar delayed": MTNubarDelayed,
	"nubar prompt":  MTNubarPrompt,
	"chi total":     MTChiTotal,
	"chi delayed":   MTChiDelayed,
	"chi prompt":    MTChiPrompt,
	"ela leg mom 1": 3401,
	"ela leg mom 2": 3402,
	"ela leg mom 3": 3403,
	"ela leg mom 4": 3404,
}

func init() {
	for mt := 51; mt <= 91; mt++ {
		serpentMT[fmt.Sprintf("mt %d xs", mt)] = mt
	}
}

// reactionNames are the display names of the common reactions.
var reactionNames = map[int]string{
	MTTotal:        "(n,tot.)",
	MTElastic:      "(n,el.)",
	MTInelastic:    "(n,inl.)",
	MTN2N:          "(n,2n)",
	MTFission:      "(n,fission)",
	19:             "(n,f)",
	20:             "(n,nf)",
	21:             "(n,2nf)",
	22:             "(n,nalpha)",
	MTCapture:      "(n,gamma)",
	MTNubarTotal:   "nubar total",
	MTNubarDelayed: "nubar delayed",
	MTNubarPrompt:  "nubar prompt",
	MTChiPrompt:    "pfns",
}

// MTFromSerpent converts a Serpent perturbation label ("mt 18 xs",
// "nubar prompt", ...) to its MT number, or UnknownMT.
func MTFromSerpent(pert string) int {
	if mt, ok := serpentMT[strings.ToLower(strings.TrimSpace(pert))]; ok {
		return mt
	}

	return UnknownMT
}

// ReactionName returns a readable reaction name, falling back to "MT<n>".
func ReactionName(mt int) string {
	if s, ok := reactionNames[mt]; ok {
		return s
	}

	return fmt.Sprintf("MT%d", mt)
}
