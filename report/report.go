// SPDX-License-Identifier: MIT

// Package report renders assimilation results, propagated uncertainties,
// similarity matrices and stored runs as plain-text tables.
//
// Every renderer returns a string; Renderer.Color switches ANSI colors on
// for flagged cells.
package report

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGreen  = "\033[32m"
)

// ColorEnabled reports whether ANSI colors should be written to f: f is a
// terminal and NO_COLOR is unset.
func ColorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Renderer formats tables.
type Renderer struct {
	Color bool
	// OutlierThreshold marks |normalized residual| above it; 0 means 3.
	OutlierThreshold float64
}

func (r Renderer) colorize(color, text string) string {
	if r.Color {
		return color + text + colorReset
	}
	return text
}

func (r Renderer) threshold() float64 {
	if r.OutlierThreshold > 0 {
		return r.OutlierThreshold
	}
	return 3
}

func rule(sb *strings.Builder, width int) {
	sb.WriteString(strings.Repeat("─", width))
	sb.WriteString("\n")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func sqrtClip(v float64) float64 { return math.Sqrt(math.Max(v, 0)) }

// percent renders part/whole in percent, "-" when whole is 0.
func percent(part, whole float64) string {
	if whole == 0 {
		return "-"
	}
	return fmt.Sprintf("%.3f", 100*part/math.Abs(whole))
}
