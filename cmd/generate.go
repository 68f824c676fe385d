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
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/notargets/goweno/InputParameters"
	"github.com/notargets/goweno/kernels"
	"github.com/notargets/goweno/points"
	"github.com/notargets/goweno/types"
	"github.com/notargets/goweno/utils"
	"github.com/notargets/goweno/weno"
	"github.com/notargets/goweno/wrappers"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// GenerateCmd represents the generate command
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate WENO kernel source files",
	Long: `
Generates, for every order k in the configured range, one smoothness file and one
file per point family and target, named smoothness<k>.<ext> and <family><k>.<ext>,
e.g. smoothness003.c, gauss_legendre004.c

goweno generate -I job.yaml -o kernels`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			gp *InputParameters.GenerateParameters
		)
		if gp, err = generateParameters(cmd); err != nil {
			return
		}
		if viper.GetBool("verbose") {
			gp.Print()
		}
		switch prof, _ := cmd.Flags().GetString("profile"); prof {
		case "cpu":
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(gp.OutputDir), profile.Quiet).Stop()
		case "mem":
			defer profile.Start(profile.MemProfile, profile.ProfilePath(gp.OutputDir), profile.Quiet).Stop()
		case "":
		default:
			return fmt.Errorf("unknown profile mode %q, use cpu or mem", prof)
		}
		report, err := Run(cmd.Context(), gp, logger)
		if report != nil {
			fmt.Printf("wrote %d files to %s\n", len(report.Files), gp.OutputDir)
		}
		return
	},
}

func init() {
	rootCmd.AddCommand(GenerateCmd)
	gp := InputParameters.NewGenerateParameters()
	GenerateCmd.Flags().StringP("inputFile", "I", "", "YAML job file")
	GenerateCmd.Flags().Int("kmin", gp.KMin, "lowest order")
	GenerateCmd.Flags().Int("kmax", gp.KMax, "highest order")
	GenerateCmd.Flags().StringSlice("families", gp.Families, "point families")
	GenerateCmd.Flags().StringSlice("targets", gp.Targets, "targets: "+fmt.Sprint(kernels.TargetNames()))
	GenerateCmd.Flags().String("precision", gp.Precision, "float64 or float32")
	GenerateCmd.Flags().String("grid", gp.Grid, "uniform or nonuniform")
	GenerateCmd.Flags().Bool("fuse", false, "emit one fused kernel per family")
	GenerateCmd.Flags().StringP("output", "o", gp.OutputDir, "output directory")
	GenerateCmd.Flags().String("package", gp.Package, "package clause of generated Go files")
	GenerateCmd.Flags().IntP("workers", "j", gp.Workers, "parallel jobs")
	GenerateCmd.Flags().String("profile", "", "write a cpu or mem profile to the output directory")
	for _, name := range []string{"kmin", "kmax", "families", "targets", "precision", "grid", "fuse", "output", "package", "workers"} {
		_ = viper.BindPFlag(name, GenerateCmd.Flags().Lookup(name))
	}
}

// generateParameters reads the job file, then applies flags, environment and config file settings
func generateParameters(cmd *cobra.Command) (gp *InputParameters.GenerateParameters, err error) {
	gp = &InputParameters.GenerateParameters{}
	if fileName, _ := cmd.Flags().GetString("inputFile"); len(fileName) != 0 {
		var data []byte
		if data, err = ioutil.ReadFile(fileName); err != nil {
			return nil, fmt.Errorf("reading job file: %w", err)
		}
		if err = gp.Parse(data); err != nil {
			return nil, fmt.Errorf("parsing job file %s: %w", fileName, err)
		}
	}
	if viper.IsSet("kmin") {
		gp.KMin = viper.GetInt("kmin")
	}
	if viper.IsSet("kmax") {
		gp.KMax = viper.GetInt("kmax")
	}
	if viper.IsSet("families") {
		gp.Families = viper.GetStringSlice("families")
	}
	if viper.IsSet("targets") {
		gp.Targets = viper.GetStringSlice("targets")
	}
	if viper.IsSet("precision") {
		gp.Precision = viper.GetString("precision")
	}
	if viper.IsSet("grid") {
		gp.Grid = viper.GetString("grid")
	}
	if viper.IsSet("fuse") {
		gp.Fuse = viper.GetBool("fuse")
	}
	if viper.IsSet("output") {
		gp.OutputDir = viper.GetString("output")
	}
	if viper.IsSet("package") {
		gp.Package = viper.GetString("package")
	}
	if viper.IsSet("workers") {
		gp.Workers = viper.GetInt("workers")
	}
	data, err := gp.Marshal()
	if err != nil {
		return nil, err
	}
	gp = &InputParameters.GenerateParameters{}
	if err = gp.Parse(data); err != nil {
		return nil, err
	}
	return
}

// JobError reports a failed (k, family) request, Family is empty for the smoothness file
type JobError struct {
	K      int
	Family string
	Err    error
}

func (e *JobError) Error() string {
	if e.Family == "" {
		return fmt.Sprintf("k = %d, smoothness: %v", e.K, e.Err)
	}
	return fmt.Sprintf("k = %d, family %s: %v", e.K, e.Family, e.Err)
}

func (e *JobError) Unwrap() error { return e.Err }

type Report struct {
	Files    []string
	Failures []*JobError
}

type job struct {
	k      int
	family types.Family
	smooth bool
}

/*
Run executes one generation job: a smoothness file per order and a file per
(order, family), for every target. Jobs run in parallel. A failing request is
logged and reported, the others are written regardless. The returned error joins
all failures.
*/
func Run(ctx context.Context, gp *InputParameters.GenerateParameters, log *zap.Logger) (report *Report, err error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err = gp.Validate(); err != nil {
		return
	}
	var (
		families, _ = gp.FamilyList()
		dt, _       = gp.DataType()
		grid, _     = gp.GridType()
		cache       = weno.NewCache()
		gens        []*kernels.Generator
		wraps       []wrappers.Wrapper
		jobs        []job
		mu          sync.Mutex
	)
	report = &Report{}
	for _, name := range gp.Targets {
		target, _ := kernels.NewTarget(name, dt)
		w, err := wrappers.New(target, wrappers.Options{Package: gp.Package})
		if err != nil {
			return nil, err
		}
		if err = os.MkdirAll(filepath.Join(gp.OutputDir, target.Name()), 0755); err != nil {
			return nil, err
		}
		gens = append(gens, kernels.NewGenerator(target, log))
		wraps = append(wraps, w)
	}
	for _, k := range gp.Orders() {
		jobs = append(jobs, job{k: k, smooth: true})
		for _, f := range families {
			jobs = append(jobs, job{k: k, family: f})
		}
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(gp.Workers)
	for _, jb := range jobs {
		jb := jb
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var (
				base  string
				kerns []*kernels.Kernel
				err   error
				fam   string
				jlog  = log.With(zap.Int("k", jb.k))
			)
			if jb.smooth {
				base = fmt.Sprintf("smoothness%03d", jb.k)
				kerns, err = smoothnessKernels(cache, jb.k, base, grid)
			} else {
				fam = jb.family.String()
				jlog = jlog.With(zap.String("family", fam))
				base = fmt.Sprintf("%s%03d", fam, jb.k)
				kerns, err = familyKernels(cache, jb.k, jb.family, base, grid, gp.Fuse)
			}
			var files []string
			if err == nil {
				files, err = writeUnits(gp.OutputDir, base, kerns, gens, wraps)
			}
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				jlog.Error("generation failed", zap.Error(err))
				report.Failures = append(report.Failures, &JobError{K: jb.k, Family: fam, Err: err})
				return nil
			}
			jlog.Info("generated", zap.String("base", base), zap.Int("files", len(files)))
			report.Files = append(report.Files, files...)
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return
	}
	sort.Strings(report.Files)
	sort.Slice(report.Failures, func(i, j int) bool {
		a, b := report.Failures[i], report.Failures[j]
		if a.K != b.K {
			return a.K < b.K
		}
		return a.Family < b.Family
	})
	var errs []error
	for _, f := range report.Failures {
		errs = append(errs, f)
	}
	log.Debug("job finished", zap.Int("files", len(report.Files)),
		zap.Int("failures", len(report.Failures)), zap.String("memory", utils.GetMemUsage()))
	err = errors.Join(errs...)
	return
}

func smoothnessKernels(cache *weno.Cache, k int, base string, grid types.Grid) ([]*kernels.Kernel, error) {
	var beta [][][]types.Coeff
	if grid == types.Uniform {
		s, err := cache.Smoothness(k)
		if err != nil {
			return nil, err
		}
		beta = s.Table()
	}
	kn, err := kernels.SmoothnessKernel(k, beta, kernels.Config{Function: base, Grid: grid})
	if err != nil {
		return nil, err
	}
	return []*kernels.Kernel{kn}, nil
}

func familyKernels(cache *weno.Cache, k int, family types.Family, base string, grid types.Grid,
	fuse bool) (kerns []*kernels.Kernel, err error) {
	var (
		xi []float64
		ow *weno.OptimalWeights
		rc *weno.Reconstruction
		kn *kernels.Kernel
	)
	if xi, err = points.Points(k, family); err != nil {
		return
	}
	n := len(xi)
	if ow, err = cache.OptimalWeights(k, xi); err != nil {
		return
	}
	if rc, err = cache.Reconstruction(k, xi); err != nil {
		return
	}
	if grid == types.NonUniform {
		if ow.AnySplit() {
			return nil, &weno.DerivationError{K: k, Xi: xi, Op: "nonuniform",
				Message: "points need split weights, which non-uniform kernels do not support"}
		}
		cfg := kernels.Config{Grid: grid}
		cfg.Function = base + "_weights"
		if kn, err = kernels.WeightsKernel(k, nil, n, cfg); err != nil {
			return
		}
		kerns = append(kerns, kn)
		cfg.Function = base + "_reconstruction"
		if kn, err = kernels.ReconstructionKernel(k, nil, n, cfg); err != nil {
			return
		}
		return append(kerns, kn), nil
	}
	if fuse {
		var s *weno.Smoothness
		if s, err = cache.Smoothness(k); err != nil {
			return
		}
		if kn, err = kernels.Fuse(base, k, n, s.Table(), ow.Table(), rc.Table()); err != nil {
			return
		}
		return []*kernels.Kernel{kn}, nil
	}
	if kn, err = kernels.WeightsKernel(k, ow.Table(), n, kernels.Config{Function: base + "_weights"}); err != nil {
		return
	}
	kerns = append(kerns, kn)
	if kn, err = kernels.ReconstructionKernel(k, rc.Table(), n, kernels.Config{Function: base + "_reconstruction"}); err != nil {
		return
	}
	return append(kerns, kn), nil
}

func writeUnits(dir, base string, kerns []*kernels.Kernel, gens []*kernels.Generator,
	wraps []wrappers.Wrapper) (files []string, err error) {
	for i, gen := range gens {
		var (
			frs  []wrappers.Fragment
			text string
		)
		for _, kn := range kerns {
			if text, err = gen.Render(kn); err != nil {
				return
			}
			frs = append(frs, wrappers.Fragment{Kernel: kn, Text: text})
		}
		if text, err = wraps[i].Wrap(base, frs...); err != nil {
			return
		}
		target := gen.Target()
		fileName := filepath.Join(dir, target.Name(), base+"."+target.Ext())
		if err = ioutil.WriteFile(fileName, []byte(text), 0644); err != nil {
			return
		}
		files = append(files, fileName)
	}
	return
}
