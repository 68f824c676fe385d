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
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"

	"github.com/notargets/goweno/kernels"
	"github.com/notargets/goweno/points"
	"github.com/notargets/goweno/types"
	"github.com/notargets/goweno/weno"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
)

// ConvergeCmd represents the converge command
var ConvergeCmd = &cobra.Command{
	Use:   "converge",
	Short: "Measure the convergence order of the generated reconstructions",
	Long: `
Runs the smoothness, weights and reconstruction kernels on cell averages of sin(x)
over [0, 2*Pi] at increasing resolution and reports the RMS and maximum error
against the exact point values, with the observed order between resolutions

goweno converge -k 3 --family right --cells 20,40,80,160 --csv study.csv
goweno converge --read study.csv`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			k, _        = cmd.Flags().GetInt("order")
			label, _    = cmd.Flags().GetString("family")
			cells, _    = cmd.Flags().GetIntSlice("cells")
			csvFile, _  = cmd.Flags().GetString("csv")
			readFile, _ = cmd.Flags().GetString("read")
			family      types.Family
			cs          *ConvergenceStudy
		)
		if len(readFile) != 0 {
			var studies map[string]*ConvergenceStudy
			if studies, err = readCSV(readFile); err != nil {
				return
			}
			var keys []string
			for key := range studies {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				studies[key].Print(os.Stdout)
			}
			return
		}
		if family, err = types.NewFamily(label); err != nil {
			return
		}
		if cs, err = Converge(k, family, cells); err != nil {
			return
		}
		cs.Print(os.Stdout)
		if len(csvFile) != 0 {
			var f *os.File
			if f, err = os.Create(csvFile); err != nil {
				return
			}
			defer f.Close()
			return cs.WriteCSV(f)
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(ConvergeCmd)
	ConvergeCmd.Flags().IntP("order", "k", 3, "order k")
	ConvergeCmd.Flags().String("family", types.Right.String(), "point family")
	ConvergeCmd.Flags().IntSlice("cells", []int{20, 40, 80, 160}, "resolutions")
	ConvergeCmd.Flags().String("csv", "", "write the study to a CSV file")
	ConvergeCmd.Flags().String("read", "", "print the studies of a CSV file instead of running one")
}

type ConvergenceStudy struct {
	title       string
	order       int
	family      string
	numCells    []int
	rms, maxErr []float64
}

func NewConvergenceStudy(title string, order int, family string) *ConvergenceStudy {
	return &ConvergenceStudy{
		title:  title,
		order:  order,
		family: family,
	}
}

func (cs *ConvergenceStudy) Add(numCells int, rms, maxErr float64) {
	cs.numCells = append(cs.numCells, numCells)
	cs.rms = append(cs.rms, rms)
	cs.maxErr = append(cs.maxErr, maxErr)
}

// Orders returns the observed RMS convergence order between successive resolutions
func (cs *ConvergenceStudy) Orders() (p []float64) {
	for i := 1; i < len(cs.numCells); i++ {
		ratio := float64(cs.numCells[i]) / float64(cs.numCells[i-1])
		p = append(p, math.Log(cs.rms[i-1]/cs.rms[i])/math.Log(ratio))
	}
	return
}

func (cs *ConvergenceStudy) Print(w io.Writer) {
	fmt.Fprintf(w, "Title = %s, Order = %d, Family = %s\n", cs.title, cs.order, cs.family)
	orders := cs.Orders()
	for i := range cs.numCells {
		fmt.Fprintf(w, "%5d, %12.6e, %12.6e", cs.numCells[i], cs.rms[i], cs.maxErr[i])
		if i > 0 {
			fmt.Fprintf(w, ", %5.2f", orders[i-1])
		}
		fmt.Fprintln(w)
	}
}

func (cs *ConvergenceStudy) WriteCSV(w io.Writer) (err error) {
	cw := csv.NewWriter(w)
	if err = cw.Write([]string{"title", "cells", "k", "family", "rms", "max"}); err != nil {
		return
	}
	for i := range cs.numCells {
		rec := []string{
			cs.title,
			strconv.Itoa(cs.numCells[i]),
			strconv.Itoa(cs.order),
			cs.family,
			strconv.FormatFloat(cs.rms[i], 'g', -1, 64),
			strconv.FormatFloat(cs.maxErr[i], 'g', -1, 64),
		}
		if err = cw.Write(rec); err != nil {
			return
		}
	}
	cw.Flush()
	return cw.Error()
}

func readCSV(csvFile string) (studies map[string]*ConvergenceStudy, err error) {
	var f *os.File
	if f, err = os.Open(csvFile); err != nil {
		return
	}
	defer f.Close()
	return parseCSV(f)
}

func parseCSV(rd io.Reader) (studies map[string]*ConvergenceStudy, err error) {
	var (
		records [][]string
		ok      bool
		cs      *ConvergenceStudy
	)
	studies = make(map[string]*ConvergenceStudy)
	r := csv.NewReader(bufio.NewReader(rd))
	if records, err = r.ReadAll(); err != nil {
		return
	}
	for i, rec := range records {
		if i == 0 {
			continue
		}
		if len(rec) < 6 {
			return nil, fmt.Errorf("line %d: %d fields, need 6", i+1, len(rec))
		}
		var (
			title, family = rec[0], rec[3]
			n, k          int
			rms, maxErr   float64
		)
		if n, err = strconv.Atoi(rec[1]); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if k, err = strconv.Atoi(rec[2]); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if rms, err = strconv.ParseFloat(rec[4], 64); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if maxErr, err = strconv.ParseFloat(rec[5], 64); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		combTitle := title + family + rec[2]
		if cs, ok = studies[combTitle]; !ok {
			cs = NewConvergenceStudy(title, k, family)
			studies[combTitle] = cs
		}
		cs.Add(n, rms, maxErr)
	}
	return
}

/*
Converge evaluates the uniform grid pipeline of order k at the points of family on
cell averages of sin over [0, 2*Pi]. Errors are taken over the interior cells.
*/
func Converge(k int, family types.Family, cells []int) (cs *ConvergenceStudy, err error) {
	var (
		xi []float64
		s  *weno.Smoothness
		ow *weno.OptimalWeights
		rc *weno.Reconstruction
		p  *kernels.Pipeline
	)
	if xi, err = points.Points(k, family); err != nil {
		return
	}
	if s, err = weno.DeriveSmoothness(k); err != nil {
		return
	}
	if ow, err = weno.DeriveOptimalWeights(k, xi); err != nil {
		return
	}
	if rc, err = weno.DeriveReconstruction(k, xi); err != nil {
		return
	}
	n := len(xi)
	sk, err := kernels.SmoothnessKernel(k, s.Table(), kernels.Config{Function: "smoothness"})
	if err != nil {
		return
	}
	wk, err := kernels.WeightsKernel(k, ow.Table(), n, kernels.Config{Function: "weights"})
	if err != nil {
		return
	}
	rk, err := kernels.ReconstructionKernel(k, rc.Table(), n, kernels.Config{Function: "reconstruction"})
	if err != nil {
		return
	}
	if p, err = kernels.NewPipeline(sk, wk, rk); err != nil {
		return
	}
	cs = NewConvergenceStudy("sin", k, family.String())
	for _, N := range cells {
		var (
			h     = 2 * math.Pi / float64(N)
			f     = make([]float64, N)
			value []float64
			errs  []float64
		)
		for i := range f {
			f[i] = (math.Cos(float64(i)*h) - math.Cos(float64(i+1)*h)) / h
		}
		if value, err = p.Run(f); err != nil {
			return nil, err
		}
		for i := k - 1; i <= N-k; i++ {
			for l, x := range xi {
				exact := math.Sin((float64(i) + 0.5*(1+x)) * h)
				errs = append(errs, value[i*n+l]-exact)
			}
		}
		rms := floats.Norm(errs, 2) / math.Sqrt(float64(len(errs)))
		cs.Add(N, rms, floats.Norm(errs, math.Inf(1)))
	}
	return
}
