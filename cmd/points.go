/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/notargets/goweno/points"
	"github.com/notargets/goweno/types"
	"github.com/spf13/cobra"
)

// PointsCmd represents the points command
var PointsCmd = &cobra.Command{
	Use:   "points",
	Short: "Print the reference abscissas of the point families",
	Long: `
Prints the evaluation points xi in [-1,1] used for order k, one family per line

goweno points -k 4 --families gauss_lobatto,gauss_radau`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			k, _           = cmd.Flags().GetInt("order")
			labels, _      = cmd.Flags().GetStringSlice("families")
			withWeights, _ = cmd.Flags().GetBool("weights")
		)
		return printPoints(os.Stdout, k, labels, withWeights)
	},
}

func init() {
	rootCmd.AddCommand(PointsCmd)
	PointsCmd.Flags().IntP("order", "k", 3, "order k")
	PointsCmd.Flags().StringSlice("families", nil, "point families, all when empty")
	PointsCmd.Flags().Bool("weights", false, "also print the Gauss-Legendre quadrature weights")
}

func printPoints(w io.Writer, k int, labels []string, withWeights bool) (err error) {
	var families []types.Family
	if len(labels) == 0 {
		families = types.AllFamilies()
	}
	for _, label := range labels {
		var f types.Family
		if f, err = types.NewFamily(label); err != nil {
			return
		}
		families = append(families, f)
	}
	for _, f := range families {
		var xi []float64
		if xi, err = points.Points(k, f); err != nil {
			return
		}
		fmt.Fprintf(w, "%-16s k = %d: %v\n", f, k, xi)
	}
	if withWeights {
		var W []float64
		if W, err = points.Weights(k); err != nil {
			return
		}
		fmt.Fprintf(w, "%-16s k = %d: %v\n", "weights", k, W)
	}
	return
}
