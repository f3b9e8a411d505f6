// SPDX-License-Identifier: MIT

package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/glls/glls"
	"github.com/katalvlaran/glls/label"
	"github.com/katalvlaran/glls/measurement"
	"github.com/katalvlaran/glls/problem"
	"github.com/katalvlaran/glls/report"
	"github.com/katalvlaran/glls/sensitivity"
)

func (a *app) sweepCmd() *cobra.Command {
	var parallel int
	cmd := &cobra.Command{
		Use:   "sweep problem.yaml",
		Short: "Leave-one-out chi-square sweep over the benchmarks",
		Long: `Assimilate once per benchmark with that benchmark removed and
report the chi-square of the rest. The benchmark whose removal lowers the
chi-square most is highlighted.`,
		Args: cobra.ExactArgs(1),
		RunE: a.instrument("sweep", func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("parallel") {
				a.cfg.Sweep.Parallel = parallel
			}
			if a.cfg.Sweep.Parallel < 1 {
				return fmt.Errorf("invalid parallel: %d (must be positive)", a.cfg.Sweep.Parallel)
			}
			p, err := a.loadProblem(args, false)
			if err != nil {
				return err
			}
			full, rows, err := a.sweep(cmd.Context(), p)
			if err != nil {
				return err
			}
			printSections(cmd.OutOrStdout(), a.render.Sweep(full, rows))
			return nil
		}),
	}
	cmd.Flags().IntVar(&parallel, "parallel", 4, "number of concurrent assimilations")
	return cmd
}

// sweep solves the full problem and every leave-one-out variant. Failures
// of single variants are reported in their row.
func (a *app) sweep(ctx context.Context, p *problem.Problem) (glls.ChiSquare, []report.SweepRow, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	eng, err := a.engine()
	if err != nil {
		return glls.ChiSquare{}, nil, err
	}
	set, model, err := a.inputs(p)
	if err != nil {
		return glls.ChiSquare{}, nil, err
	}
	if set.Len() == 0 {
		return glls.ChiSquare{}, nil, fmt.Errorf("sweep: no benchmarks: %w", glls.ErrInvalidDimension)
	}
	res, err := a.solve(eng, p, set, model)
	if err != nil {
		return glls.ChiSquare{}, nil, err
	}
	full, _ := res.ChiSquare()

	responses := set.Responses()
	rows := make([]report.SweepRow, responses.Len())
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Sweep.Parallel)
	for i := 0; i < responses.Len(); i++ {
		i := i
		removed := responses.At(i)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows[i] = a.leaveOut(eng, p, set, model, removed, full)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return full, nil, err
	}
	return full, rows, nil
}

func (a *app) leaveOut(eng *glls.Engine, p *problem.Problem, set *measurement.Set, model *sensitivity.Model,
	removed label.Response, full glls.ChiSquare) report.SweepRow {
	row := report.SweepRow{Removed: removed.Title}
	sub, err := set.Without(removed)
	if err != nil {
		row.Err = err
		return row
	}
	subModel, err := model.SubResponses(sub.Responses().Keys())
	if err != nil {
		row.Err = err
		return row
	}
	res, err := a.assimilate(eng, p, sub, subModel)
	if err != nil {
		row.Err = err
		return row
	}
	chi, ok := res.ChiSquare()
	row.ChiSquare, row.Valid = chi, ok
	row.Delta = full.Value - chi.Value
	a.log.Debug("leave-one-out", "removed", removed.Title, "chi2", chi.Value, "delta", row.Delta)
	return row
}
