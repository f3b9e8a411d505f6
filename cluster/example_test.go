// SPDX-License-Identifier: MIT

package cluster_test

import (
	"fmt"

	"github.com/katalvlaran/glls/cluster"
	"github.com/katalvlaran/glls/label"
	"github.com/katalvlaran/glls/stats"
)

// ExampleFamilies groups three benchmarks by ck similarity.
func ExampleFamilies() {
	keys := []label.Response{
		{Title: "HMF001", Kind: label.KindKeff},
		{Title: "HMF002", Kind: label.KindKeff},
		{Title: "LCT006", Kind: label.KindKeff},
	}
	idx, _ := label.NewIndex(keys)
	ck, _ := stats.NewCovariance(idx, [][]float64{
		{1, 0.96, 0.2},
		{0.96, 1, 0.3},
		{0.2, 0.3, 1},
	})

	fams, _ := cluster.Families(ck)
	for i, f := range fams {
		fmt.Print(i, ":")
		for _, m := range f.Members {
			fmt.Print(" ", m.Title)
		}
		fmt.Println()
	}
	// Output:
	// 0: HMF001 HMF002
	// 1: LCT006
}
