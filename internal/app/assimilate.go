// SPDX-License-Identifier: MIT

package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/glls/propagate"
	"github.com/katalvlaran/glls/store"
)

type assimilateOptions struct {
	fromStore bool
	save      bool
	note      string
	withCalc  bool
}

func (a *app) assimilateCmd() *cobra.Command {
	var o assimilateOptions
	cmd := &cobra.Command{
		Use:   "assimilate [problem.yaml]",
		Short: "Adjust the prior against the benchmarks",
		Long: `Combine the prior parameters and covariance with the benchmark
measurements and print the posterior, the chi-square consistency and the
per-benchmark residuals. Application uncertainties are shown before and
after the adjustment when the problem defines applications.`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.instrument("assimilate", func(cmd *cobra.Command, args []string) error {
			return a.runAssimilate(cmd, args, o)
		}),
	}
	cmd.Flags().BoolVar(&o.fromStore, "from-store", false, "read the prior and benchmarks from the database")
	cmd.Flags().BoolVar(&o.save, "save", false, "store the run in the database")
	cmd.Flags().StringVar(&o.note, "note", "", "note attached to a saved run")
	cmd.Flags().BoolVar(&o.withCalc, "with-calc-std", false, "add the calculation variance to Cm")
	return cmd
}

func (a *app) runAssimilate(cmd *cobra.Command, args []string, o assimilateOptions) error {
	p, err := a.loadProblem(args, o.fromStore)
	if err != nil {
		return err
	}
	if o.withCalc {
		a.cfg.Engine.CalculationUncertainty = true
	}
	eng, err := a.engine()
	if err != nil {
		return err
	}
	set, model, err := a.inputs(p)
	if err != nil {
		return err
	}
	res, err := a.solve(eng, p, set, model)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	sections := []string{a.render.Summary(res), a.render.Posterior(res)}
	if set.Len() > 0 {
		sections = append(sections, a.render.Residuals(res))
	}
	if len(p.Applications) > 0 {
		prop, err := propagate.New(a.cfg.Propagator())
		if err != nil {
			return err
		}
		before, err := prop.Applications(res.PriorCovariance(), p.Applications)
		if err != nil {
			return err
		}
		after, err := prop.Applications(res.PosteriorCovariance(), p.Applications)
		if err != nil {
			return err
		}
		sections = append(sections, a.render.Uncertainties(before, after))
	}
	printSections(out, sections...)

	if o.save {
		st, err := a.openStore(true)
		if err != nil {
			return err
		}
		defer st.Close()
		run := store.NewRun(res, o.note)
		if err := st.SaveRun(run); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nSaved run %s\n", run.ID)
	}
	return nil
}
