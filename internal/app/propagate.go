// SPDX-License-Identifier: MIT

package app

import (
	"github.com/spf13/cobra"

	"github.com/katalvlaran/glls/label"
	"github.com/katalvlaran/glls/matrix"
	"github.com/katalvlaran/glls/propagate"
	"github.com/katalvlaran/glls/stats"
)

func (a *app) propagateCmd() *cobra.Command {
	var collapse bool
	cmd := &cobra.Command{
		Use:   "propagate problem.yaml",
		Short: "Propagate the prior covariance to applications",
		Long: `Print the prior parameter uncertainties and the nuclear-data
uncertainty of every application, σ = √(sᵀ·C·s).

With --collapse the parameters are first collapsed to one energy-integrated
value per nuclide and reaction, lethargy-weighted when the problem defines
an energy-group structure and summed otherwise.`,
		Args: cobra.ExactArgs(1),
		RunE: a.instrument("propagate", func(cmd *cobra.Command, args []string) error {
			p, err := a.loadProblem(args, false)
			if err != nil {
				return err
			}
			prop, err := propagate.New(a.cfg.Propagator())
			if err != nil {
				return err
			}

			x, cov := p.Prior, p.PriorCov
			if collapse {
				if x, cov, err = a.collapse(x, cov, p.Groups); err != nil {
					return err
				}
			}
			sections := []string{a.render.Parameters(x, cov)}
			if len(p.Applications) > 0 {
				us, err := prop.Applications(p.PriorCov, p.Applications)
				if err != nil {
					return err
				}
				sections = append(sections, a.render.Uncertainties(us, nil))
			}
			printSections(cmd.OutOrStdout(), sections...)
			return nil
		}),
	}
	cmd.Flags().BoolVar(&collapse, "collapse", false, "collapse energy groups per nuclide and reaction")
	return cmd
}

// collapse maps x and cov onto energy-integrated parameters.
func (a *app) collapse(x stats.Vector[label.Parameter], cov stats.Covariance[label.Parameter],
	gs label.GroupStructure) (stats.Vector[label.Parameter], stats.Covariance[label.Parameter], error) {
	var none stats.Vector[label.Parameter]
	var weight propagate.Weight = propagate.UnitWeights
	if gs.Len() > 0 {
		w, err := propagate.LethargyWeights(gs)
		if err != nil {
			return none, cov, err
		}
		weight = w
	}
	sp, err := propagate.Collapse(x.Labels(), weight)
	if err != nil {
		return none, cov, err
	}
	ccov, err := propagate.Covariance(cov, sp, matrix.WithEpsilon(a.cfg.Propagate.SymmetryTol))
	if err != nil {
		return none, cov, err
	}
	vals, err := matrix.MatVec(sp.View(), x.Values())
	if err != nil {
		return none, cov, err
	}
	cx, err := stats.NewVector(sp.RowLabels(), vals)
	if err != nil {
		return none, cov, err
	}
	return cx, ccov, nil
}
