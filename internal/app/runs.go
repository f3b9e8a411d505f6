// SPDX-License-Identifier: MIT

package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) runsCmd() *cobra.Command {
	var limit int
	var remove bool
	cmd := &cobra.Command{
		Use:   "runs [id]",
		Short: "List stored runs or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.instrument("runs", func(cmd *cobra.Command, args []string) error {
			if remove && len(args) == 0 {
				return fmt.Errorf("--delete needs a run id")
			}
			st, err := a.openStore(false)
			if err != nil {
				return err
			}
			defer st.Close()

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				if remove {
					if err := st.DeleteRun(args[0]); err != nil {
						return err
					}
					fmt.Fprintf(out, "Deleted run %s\n", args[0])
					return nil
				}
				run, err := st.GetRun(args[0])
				if err != nil {
					return err
				}
				fmt.Fprint(out, a.render.Run(run))
				return nil
			}
			runs, err := st.ListRuns(limit)
			if err != nil {
				return err
			}
			fmt.Fprint(out, a.render.Runs(runs))
			return nil
		}),
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list (0 for all)")
	cmd.Flags().BoolVar(&remove, "delete", false, "delete the given run")
	return cmd
}
