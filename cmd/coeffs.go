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
	"github.com/notargets/goweno/weno"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
)

// CoeffsCmd represents the coeffs command
var CoeffsCmd = &cobra.Command{
	Use:   "coeffs",
	Short: "Print the derived coefficient tables",
	Long: `
Prints the smoothness indicator matrices, the optimal linear weights and the
reconstruction coefficients for order k and one point family

goweno coeffs -k 3 --family gauss_legendre --exact`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			k, _     = cmd.Flags().GetInt("order")
			label, _ = cmd.Flags().GetString("family")
			exact, _ = cmd.Flags().GetBool("exact")
			family   types.Family
			xi       []float64
		)
		if family, err = types.NewFamily(label); err != nil {
			return
		}
		if xi, err = points.Points(k, family); err != nil {
			return
		}
		return printCoeffs(os.Stdout, k, xi, exact)
	},
}

func init() {
	rootCmd.AddCommand(CoeffsCmd)
	CoeffsCmd.Flags().IntP("order", "k", 3, "order k")
	CoeffsCmd.Flags().String("family", types.GaussLegendre.String(), "point family")
	CoeffsCmd.Flags().Bool("exact", false, "print the smoothness coefficients as exact fractions")
}

func printCoeffs(w io.Writer, k int, xi []float64, exact bool) (err error) {
	var (
		s  *weno.Smoothness
		ow *weno.OptimalWeights
		rc *weno.Reconstruction
	)
	if s, err = weno.DeriveSmoothness(k); err != nil {
		return
	}
	if rc, err = weno.DeriveReconstruction(k, xi); err != nil {
		return
	}
	W := s.Window()
	for r := 0; r < k; r++ {
		fmt.Fprintf(w, "Beta[%d] = \n", r)
		if exact {
			for m := 0; m < W; m++ {
				for n := 0; n < W; n++ {
					fmt.Fprintf(w, "%8s ", s.Exact(r, m, n).RatString())
				}
				fmt.Fprintln(w)
			}
			continue
		}
		fmt.Fprintf(w, "%v\n", mat.Formatted(flatDense(s.Beta[r]), mat.Squeeze()))
	}
	fmt.Fprintf(w, "xi = %v\n", xi)
	// Weights are reported, not fatal, the reconstruction table is still useful
	if ow, err = weno.DeriveOptimalWeights(k, xi); err != nil {
		fmt.Fprintf(w, "Varpi: %v\n", err)
		err = nil
	} else {
		fmt.Fprintf(w, "Varpi = \n%v\n", mat.Formatted(flatDense(ow.Varpi), mat.Squeeze()))
		for l, split := range ow.Split {
			if split {
				fmt.Fprintf(w, "point %d split: SigmaPlus = %v, SigmaMinus = %v\n", l, ow.SigmaPlus[l], ow.SigmaMinus[l])
			}
		}
	}
	for l := range xi {
		fmt.Fprintf(w, "C[%d] = \n%v\n", l, mat.Formatted(flatDense(rc.Coeffs[l]), mat.Squeeze()))
	}
	return
}

func flatDense(A [][]float64) *mat.Dense {
	var (
		nr, nc = len(A), len(A[0])
		data   = make([]float64, 0, nr*nc)
	)
	for _, row := range A {
		data = append(data, row...)
	}
	return mat.NewDense(nr, nc, data)
}
