// SPDX-License-Identifier: MIT

package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import problem.yaml",
		Short: "Store the prior and the benchmarks of a problem",
		Long: `Create the database schema if needed and replace the stored prior
parameters, prior covariance, benchmark suite and measurement correlations
with those of the problem. Applications stay in the problem file.`,
		Args: cobra.ExactArgs(1),
		RunE: a.instrument("import", func(cmd *cobra.Command, args []string) error {
			p, err := a.loadProblem(args, false)
			if err != nil {
				return err
			}
			st, err := a.openStore(true)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.SavePrior(p.Prior, p.PriorCov); err != nil {
				return err
			}
			if err := st.SaveSuite(p.Suite); err != nil {
				return err
			}
			if err := st.SaveCorrelations(p.Correlations); err != nil {
				return err
			}
			a.log.Info("problem imported", "db", a.cfg.Store.Path, "correlations", len(p.Correlations))
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d parameters and %d benchmarks into %s\n",
				p.Prior.Len(), p.Suite.Len(), a.cfg.Store.Path)
			return nil
		}),
	}
}
