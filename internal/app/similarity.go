// SPDX-License-Identifier: MIT

package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/glls/cluster"
	"github.com/katalvlaran/glls/label"
	"github.com/katalvlaran/glls/propagate"
)

func (a *app) similarityCmd() *cobra.Command {
	var (
		families float64
		from     string
		maxDepth int
	)
	cmd := &cobra.Command{
		Use:   "similarity problem.yaml",
		Short: "Print the ck similarity of benchmarks and applications",
		Long: `Print the correlation matrix of all benchmark and application
responses induced by the prior covariance,
ck(i,j) = Cr(i,j)/√(Cr(i,i)·Cr(j,j)) with Cr = S·C·Sᵀ.
A benchmark with ck near 1 to an application constrains the same data.

With --families the responses are also grouped into families: connected
components of the graph joining responses with |ck| at or above the value.
With --from the same graph is walked breadth-first from one response, and
every response reached is printed with the chain of similar responses that
leads to it. The walk uses the --families value, or 0.9 when it is unset.`,
		Args: cobra.ExactArgs(1),
		RunE: a.instrument("similarity", func(cmd *cobra.Command, args []string) error {
			p, err := a.loadProblem(args, false)
			if err != nil {
				return err
			}
			model, err := p.Model()
			if err != nil {
				return err
			}
			if len(p.Applications) > 0 {
				apps, err := p.ApplicationModel()
				if err != nil {
					return err
				}
				if model, err = model.Concat(apps); err != nil {
					return err
				}
			}
			prop, err := propagate.New(a.cfg.Propagator())
			if err != nil {
				return err
			}
			ck, err := prop.Similarity(p.PriorCov, model)
			if err != nil {
				return err
			}
			sections := []string{a.render.Similarity(ck)}
			if families > 0 {
				fams, err := cluster.Families(ck, cluster.WithContext(cmd.Context()), cluster.WithThreshold(families))
				if err != nil {
					return err
				}
				sections = append(sections, a.render.Families(families, fams))
			}
			if from != "" {
				start, err := responseByTitle(ck.Labels(), from)
				if err != nil {
					return err
				}
				threshold := cluster.DefaultThreshold
				if families > 0 {
					threshold = families
				}
				res, err := cluster.Reach(ck, start,
					cluster.WithContext(cmd.Context()),
					cluster.WithThreshold(threshold),
					cluster.WithMaxDepth(maxDepth))
				if err != nil {
					return err
				}
				sections = append(sections, a.render.Reach(threshold, res))
			}
			printSections(cmd.OutOrStdout(), sections...)
			return nil
		}),
	}
	cmd.Flags().Float64Var(&families, "families", 0, "group responses with |ck| at or above this value (0 disables)")
	cmd.Flags().StringVar(&from, "from", "", "walk the similarity graph from the response with this title")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "limit the walk of --from to this many hops (0 means no limit)")
	return cmd
}

// responseByTitle finds the response titled title in idx.
func responseByTitle(idx label.Index[label.Response], title string) (label.Response, error) {
	for i := 0; i < idx.Len(); i++ {
		if r := idx.At(i); r.Title == title {
			return r, nil
		}
	}
	return label.Response{}, fmt.Errorf("%w: %s", cluster.ErrStartNotFound, title)
}
