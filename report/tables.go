// SPDX-License-Identifier: MIT

package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/katalvlaran/glls/cluster"
	"github.com/katalvlaran/glls/glls"
	"github.com/katalvlaran/glls/label"
	"github.com/katalvlaran/glls/propagate"
	"github.com/katalvlaran/glls/stats"
	"github.com/katalvlaran/glls/store"
)

// Summary renders the chi-square line and the solve diagnostics.
func (r Renderer) Summary(res *glls.Result) string {
	var sb strings.Builder
	n := res.Prior().Len()
	m := res.Residual().Len()
	fmt.Fprintf(&sb, "Parameters: %d   Responses: %d\n", n, m)

	chi, ok := res.ChiSquare()
	if !ok {
		sb.WriteString("No measurements: posterior equals prior.\n")
		return sb.String()
	}
	line := fmt.Sprintf("chi2 = %.4g   dof = %d   chi2/dof = %.4g   p = %.4g",
		chi.Value, chi.DoF, chi.Reduced(), chi.PValue())
	if chi.PValue() < 0.01 {
		line = r.colorize(colorYellow, line)
	}
	sb.WriteString(line)
	sb.WriteString("\n")

	d := res.Diagnostics()
	fmt.Fprintf(&sb, "cond(Cr) = %.3g\n", d.Cond)
	if d.PseudoInverse {
		sb.WriteString(r.colorize(colorYellow, fmt.Sprintf("pseudo-inverse used, rank %d of %d", d.Rank, m)))
		sb.WriteString("\n")
	}
	if len(d.NegativeVariance) > 0 {
		names := make([]string, len(d.NegativeVariance))
		for i, p := range d.NegativeVariance {
			names[i] = p.String()
		}
		sb.WriteString(r.colorize(colorRed, "negative posterior variance: "+strings.Join(names, ", ")))
		sb.WriteString("\n")
	}
	if len(d.UnresolvedResiduals) > 0 {
		names := make([]string, len(d.UnresolvedResiduals))
		for i, resp := range d.UnresolvedResiduals {
			names[i] = resp.Title
		}
		sb.WriteString(r.colorize(colorYellow, "no response variance: "+strings.Join(names, ", ")))
		sb.WriteString("\n")
	}
	return sb.String()
}

// Posterior renders the per-parameter prior and posterior values with
// their relative standard deviations in percent.
func (r Renderer) Posterior(res *glls.Result) string {
	x0, x1 := res.Prior(), res.Posterior()
	if x0.Len() == 0 {
		return "No parameters.\n"
	}
	v0 := res.PriorCovariance().Variances()
	v1 := res.PosteriorCovariance().Variances()
	red := res.VarianceReduction()
	idx := x0.Labels()

	var sb strings.Builder
	fmt.Fprintf(&sb, "%-24s %12s %12s %10s %10s %10s %9s\n",
		"Parameter", "Prior", "Posterior", "Change %", "Prior σ%", "Post σ%", "Var. red.")
	rule(&sb, 93)
	for i := 0; i < x0.Len(); i++ {
		sd1 := percent(sqrtClip(v1.At(i)), x1.At(i))
		if v1.At(i) < 0 {
			sd1 = r.colorize(colorRed, fmt.Sprintf("%10s", "neg"))
		} else {
			sd1 = fmt.Sprintf("%10s", sd1)
		}
		fmt.Fprintf(&sb, "%-24s %12.6g %12.6g %10s %10s %s %9.3f\n",
			truncate(idx.At(i).String(), 24),
			x0.At(i),
			x1.At(i),
			percent(x1.At(i)-x0.At(i), x0.At(i)),
			percent(sqrtClip(v0.At(i)), x0.At(i)),
			sd1,
			red.At(i))
	}
	return sb.String()
}

// Residuals renders d, the normalized residuals and the adjusted responses.
// Responses beyond the outlier threshold are flagged.
func (r Renderer) Residuals(res *glls.Result) string {
	d := res.Residual()
	if d.Len() == 0 {
		return "No measurements.\n"
	}
	z := res.NormalizedResiduals()
	adj := res.AdjustedResponses()
	idx := d.Labels()
	k := r.threshold()
	unresolved := make(map[label.Response]bool)
	for _, resp := range res.Diagnostics().UnresolvedResiduals {
		unresolved[resp] = true
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%-24s %-6s %12s %10s %12s %s\n",
		"Response", "Kind", "Residual", "Normalized", "Adjusted", "Status")
	rule(&sb, 78)
	for i := 0; i < d.Len(); i++ {
		resp := idx.At(i)
		status := r.colorize(colorGreen, "ok")
		switch {
		case unresolved[resp]:
			fmt.Fprintf(&sb, "%-24s %-6s %12.5g %10s %12.6g %s\n",
				truncate(resp.Title, 24), resp.Kind, d.At(i), "-", adj.At(i), r.colorize(colorYellow, "n/a"))
			continue
		case math.Abs(z.At(i)) > k:
			status = r.colorize(colorRed, "outlier")
		}
		fmt.Fprintf(&sb, "%-24s %-6s %12.5g %10.3f %12.6g %s\n",
			truncate(resp.Title, 24), resp.Kind, d.At(i), z.At(i), adj.At(i), status)
	}
	return sb.String()
}

// Uncertainties renders propagated uncertainties. after may be nil; when
// given it must follow the order of before.
func (r Renderer) Uncertainties(before, after []propagate.Uncertainty) string {
	if len(before) == 0 {
		return "No applications.\n"
	}
	var sb strings.Builder
	if after == nil {
		fmt.Fprintf(&sb, "%-24s %-6s %12s %12s %10s\n", "Response", "Kind", "Calculated", "σ", "σ %")
		rule(&sb, 68)
		for _, u := range before {
			fmt.Fprintf(&sb, "%-24s %-6s %12.6g %12.5g %10.4f\n",
				truncate(u.Response.Title, 24), u.Response.Kind, u.Calculated, u.Absolute, 100*u.Relative)
		}
		return sb.String()
	}

	fmt.Fprintf(&sb, "%-24s %-6s %12s %10s %10s %9s\n", "Response", "Kind", "Calculated", "Prior σ%", "Post σ%", "Reduction")
	rule(&sb, 76)
	for i, u := range before {
		var post float64
		if i < len(after) {
			post = after[i].Relative
		}
		red := "-"
		if u.Relative > 0 {
			red = fmt.Sprintf("%.3f", 1-post/u.Relative)
		}
		fmt.Fprintf(&sb, "%-24s %-6s %12.6g %10.4f %10.4f %9s\n",
			truncate(u.Response.Title, 24), u.Response.Kind, u.Calculated, 100*u.Relative, 100*post, red)
	}
	return sb.String()
}

// Similarity renders a correlation matrix of responses. Entries at or
// above 0.9 are highlighted.
func (r Renderer) Similarity(ck stats.Covariance[label.Response]) string {
	n := ck.Len()
	if n == 0 {
		return "No responses.\n"
	}
	idx := ck.Labels()
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-16s", "")
	for j := 0; j < n; j++ {
		fmt.Fprintf(&sb, " %8s", truncate(idx.At(j).Title, 8))
	}
	sb.WriteString("\n")
	rule(&sb, 16+9*n)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "%-16s", truncate(idx.At(i).Title, 16))
		for j := 0; j < n; j++ {
			v, _ := ck.AtPos(i, j)
			cell := fmt.Sprintf(" %8.4f", v)
			if i != j && v >= 0.9 {
				cell = r.colorize(colorGreen, cell)
			}
			sb.WriteString(cell)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// SweepRow is the outcome of one leave-one-out assimilation.
type SweepRow struct {
	Removed string
	// ChiSquare is the statistic without the removed benchmark; Valid is
	// false when no measurement remained.
	ChiSquare glls.ChiSquare
	Valid     bool
	// Delta is the full chi-square minus ChiSquare.Value.
	Delta float64
	Err   error
}

// Sweep renders leave-one-out rows; the largest Delta is highlighted.
func (r Renderer) Sweep(full glls.ChiSquare, rows []SweepRow) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "All benchmarks: chi2 = %.4g (dof %d)\n\n", full.Value, full.DoF)
	fmt.Fprintf(&sb, "%-24s %12s %6s %12s %12s\n", "Removed", "chi2", "dof", "chi2/dof", "Δchi2")
	rule(&sb, 70)

	best := -1
	for i, row := range rows {
		if row.Err == nil && row.Valid && (best < 0 || row.Delta > rows[best].Delta) {
			best = i
		}
	}
	for i, row := range rows {
		switch {
		case row.Err != nil:
			fmt.Fprintf(&sb, "%-24s %s\n", truncate(row.Removed, 24), r.colorize(colorRed, "error: "+row.Err.Error()))
		case !row.Valid:
			fmt.Fprintf(&sb, "%-24s %12s %6d %12s %12.4g\n", truncate(row.Removed, 24), "-", 0, "-", row.Delta)
		default:
			line := fmt.Sprintf("%-24s %12.4g %6d %12.4g %12.4g",
				truncate(row.Removed, 24), row.ChiSquare.Value, row.ChiSquare.DoF, row.ChiSquare.Reduced(), row.Delta)
			if i == best {
				line = r.colorize(colorYellow, line)
			}
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Runs renders stored run summaries.
func (r Renderer) Runs(runs []store.Run) string {
	if len(runs) == 0 {
		return "No runs found.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-36s %-20s %5s %5s %10s %-20s\n", "ID", "Created", "N", "M", "chi2/dof", "Note")
	rule(&sb, 102)
	for _, run := range runs {
		chi := "-"
		if run.ChiSquare != nil {
			chi = fmt.Sprintf("%.4g", run.ChiSquare.Reduced())
		}
		fmt.Fprintf(&sb, "%-36s %-20s %5d %5d %10s %-20s\n",
			run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"), run.Parameters, run.Responses, chi, truncate(run.Note, 20))
	}
	return sb.String()
}

// Run renders the entries of one stored run.
func (r Renderer) Run(run store.Run) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Run %s (%s)\n", run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"))
	if run.Note != "" {
		fmt.Fprintf(&sb, "Note: %s\n", run.Note)
	}
	if run.ChiSquare != nil {
		fmt.Fprintf(&sb, "chi2 = %.4g (dof %d)\n", run.ChiSquare.Value, run.ChiSquare.DoF)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%-24s %12s %12s %10s %10s\n", "Parameter", "Prior", "Posterior", "Prior σ", "Post σ")
	rule(&sb, 72)
	for _, e := range run.Entries {
		fmt.Fprintf(&sb, "%-24s %12.6g %12.6g %10.4g %10.4g\n",
			truncate(e.Parameter.String(), 24), e.Prior, e.Posterior, e.PriorStd(), e.PosteriorStd())
	}
	return sb.String()
}

// Parameters renders values with their standard deviations from cov.
func (r Renderer) Parameters(x stats.Vector[label.Parameter], cov stats.Covariance[label.Parameter]) string {
	if x.Len() == 0 {
		return "No parameters.\n"
	}
	v := cov.Variances()
	idx := x.Labels()
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-24s %12s %12s %10s\n", "Parameter", "Value", "σ", "σ %")
	rule(&sb, 61)
	for i := 0; i < x.Len(); i++ {
		sd := sqrtClip(v.At(i))
		fmt.Fprintf(&sb, "%-24s %12.6g %12.5g %10s\n",
			truncate(idx.At(i).String(), 24), x.At(i), sd, percent(sd, x.At(i)))
	}
	return sb.String()
}

// Families renders response families, one line per family.
func (r Renderer) Families(threshold float64, fams []cluster.Family) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Families at |ck| ≥ %.2f:\n", threshold)
	for i, f := range fams {
		names := make([]string, len(f.Members))
		for j, m := range f.Members {
			names[j] = m.Title
		}
		line := fmt.Sprintf("%3d  %s", i+1, strings.Join(names, ", "))
		if len(f.Members) == 1 {
			line = r.colorize(colorYellow, line+"  (isolated)")
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Reach renders the responses reached from the start of res, one per line
// with its hop count and the ck chain that reached it.
func (r Renderer) Reach(threshold float64, res *cluster.Result) string {
	var sb strings.Builder
	if len(res.Order) == 0 {
		return "No responses reached.\n"
	}
	fmt.Fprintf(&sb, "Reached from %s at |ck| ≥ %.2f:\n", res.Order[0].Title, threshold)
	fmt.Fprintf(&sb, "%5s  %-24s %s\n", "Hops", "Response", "Path")
	rule(&sb, 60)
	for _, resp := range res.Order {
		path, err := res.PathTo(resp)
		if err != nil {
			continue
		}
		names := make([]string, len(path))
		for i, p := range path {
			names[i] = p.Title
		}
		fmt.Fprintf(&sb, "%5d  %-24s %s\n", res.Depth[resp], truncate(resp.Title, 24), strings.Join(names, " → "))
	}
	if len(res.Order) == 1 {
		sb.WriteString(r.colorize(colorYellow, "no similar response"))
		sb.WriteString("\n")
	}
	return sb.String()
}
