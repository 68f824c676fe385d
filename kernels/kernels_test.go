package kernels

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/notargets/goweno/points"
	"github.com/notargets/goweno/types"
	"github.com/notargets/goweno/weno"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tables struct {
	beta   [][][]types.Coeff
	varpi  []types.PointWeights
	coeffs [][][]types.Coeff
}

func deriveTables(t *testing.T, k int, xi []float64) (tb tables) {
	s, err := weno.DeriveSmoothness(k)
	require.NoError(t, err)
	ow, err := weno.DeriveOptimalWeights(k, xi)
	require.NoError(t, err)
	rc, err := weno.DeriveReconstruction(k, xi)
	require.NoError(t, err)
	return tables{beta: s.Table(), varpi: ow.Table(), coeffs: rc.Table()}
}

func pipeline(t *testing.T, k int, xi []float64) *Pipeline {
	tb := deriveTables(t, k, xi)
	n := len(xi)
	s, err := SmoothnessKernel(k, tb.beta, Config{Function: "smoothness"})
	require.NoError(t, err)
	w, err := WeightsKernel(k, tb.varpi, n, Config{Function: "weights"})
	require.NoError(t, err)
	r, err := ReconstructionKernel(k, tb.coeffs, n, Config{Function: "reconstruction"})
	require.NoError(t, err)
	p, err := NewPipeline(s, w, r)
	require.NoError(t, err)
	return p
}

// cell averages of sin over [i*h, (i+1)*h]
func sinAverages(cells int, h float64) (f []float64) {
	f = make([]float64, cells)
	for i := range f {
		a, b := float64(i)*h, float64(i+1)*h
		f[i] = (math.Cos(a) - math.Cos(b)) / h
	}
	return
}

func TestSmoothnessKernel(t *testing.T) {
	tb := deriveTables(t, 3, []float64{-1})
	{ // k=3: three accumulator blocks of six multiply-adds over offsets -2..2
		kn, err := SmoothnessKernel(3, tb.beta, Config{Function: "smoothness003"})
		require.NoError(t, err)
		assert.Equal(t, 18, kn.CountOp(AddTo))
		assert.Equal(t, []string{"accumulator"}, kn.Locals())
		assert.Equal(t, []Param{{Name: "f"}, {Name: "sigma", Output: true}}, kn.Params)
		tgt, _ := NewTarget("c", types.Float64)
		text, err := tgt.Render(kn)
		require.NoError(t, err)
		assert.Contains(t, text, "void smoothness003(const double *restrict f, double *restrict sigma, int i)\n{\n")
		assert.Equal(t, 3, strings.Count(text, "accumulator = 0.0;"))
		assert.Equal(t, 18, strings.Count(text, "accumulator += "))
		assert.Contains(t, text, "sigma[i*3] = accumulator;")
		assert.Contains(t, text, "sigma[i*3 + 2] = accumulator;")
		assert.Contains(t, text, "*f[i - 2]*f[i - 2];")
		assert.Contains(t, text, "*f[i + 2]*f[i + 2];")
		assert.NotContains(t, text, "if")
		assert.NotContains(t, text, "for")
	}
	{ // Inline fragments write the caller's scalars
		kn, err := SmoothnessKernel(3, tb.beta, Config{})
		require.NoError(t, err)
		assert.True(t, kn.Inline())
		assert.Nil(t, kn.Params)
		assert.Equal(t, []string{"sigma0", "sigma1", "sigma2"}, kn.Locals())
		tgt, _ := NewTarget("c", types.Float64)
		text, err := tgt.Render(kn)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(text, "sigma0 = 0.0;\nsigma0 += "))
		assert.NotContains(t, text, "void")
		kn, err = SmoothnessKernel(3, tb.beta, Config{Names: Names{Sigma: "beta_X"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"beta_0", "beta_1", "beta_2"}, kn.Locals())
	}
	{ // Indicator values agree with the derivation
		kn, err := SmoothnessKernel(3, tb.beta, Config{Function: "s"})
		require.NoError(t, err)
		s, _ := weno.DeriveSmoothness(3)
		f := []float64{0.3, -1.2, 2.5, 0.7, 4.1}
		arrays := map[string][]float64{"f": f, "sigma": make([]float64, 15)}
		require.NoError(t, Evaluate(kn, 2, arrays, map[string]float64{}))
		for r := 0; r < 3; r++ {
			want, err := s.Indicator(r, f)
			require.NoError(t, err)
			assert.InDelta(t, want, arrays["sigma"][2*3+r], 1.e-12)
		}
	}
	{ // Zero coefficients are omitted, preformatted text is emitted as is
		beta := deriveTables(t, 2, []float64{1}).beta
		beta[0][1][1] = types.Text("BETA11")
		beta[0][1][2] = types.Lit(0)
		beta[0][2][1] = types.Lit(0)
		kn, err := SmoothnessKernel(2, beta, Config{})
		require.NoError(t, err)
		tgt, _ := NewTarget("c", types.Float64)
		text, _ := tgt.Render(kn)
		assert.Contains(t, text, "sigma0 += BETA11*f[i]*f[i];")
		assert.NotContains(t, text, "sigma0 += 0.0")
		assert.Equal(t, 2, strings.Count(text, "sigma0 += "))
	}
	{
		_, err := SmoothnessKernel(1, nil, Config{})
		assert.ErrorIs(t, err, ErrKernel)
		_, err = SmoothnessKernel(3, tb.beta[:2], Config{})
		assert.ErrorIs(t, err, ErrKernel)
	}
}

func TestWeightsKernel(t *testing.T) {
	xi, err := points.Points(3, types.GaussLegendre)
	require.NoError(t, err)
	tb := deriveTables(t, 3, xi)
	require.True(t, tb.varpi[1].Split)
	{ // Two pass normalization, split or not
		kn, err := WeightsKernel(3, tb.varpi, 3, Config{Function: "weights"})
		require.NoError(t, err)
		for _, sigma := range [][]float64{{0.3, 1.7, 0.01}, {1, 1, 1}, {1.e-3, 25, 1.e4}} {
			arrays := map[string][]float64{"sigma": sigma, "omega": make([]float64, 9)}
			require.NoError(t, Evaluate(kn, 0, arrays, map[string]float64{}))
			for l := 0; l < 3; l++ {
				var sum float64
				for r := 0; r < 3; r++ {
					sum += arrays["omega"][l*3+r]
				}
				assert.InDelta(t, 1., sum, 1.e-12)
			}
		}
		// Equal indicators give the linear weights back
		arrays := map[string][]float64{"sigma": []float64{2, 2, 2}, "omega": make([]float64, 9)}
		require.NoError(t, Evaluate(kn, 0, arrays, map[string]float64{}))
		assert.InDelta(t, -9./80., arrays["omega"][3], 1.e-12)
		assert.InDelta(t, 49./40., arrays["omega"][4], 1.e-12)
		assert.Contains(t, kn.Locals(), "omegam1_0")
		assert.Contains(t, kn.Locals(), "accumulatorm")
	}
	{ // Inline naming with several points
		kn, err := WeightsKernel(3, tb.varpi, 3, Config{})
		require.NoError(t, err)
		tgt, _ := NewTarget("c", types.Float64)
		text, _ := tgt.Render(kn)
		assert.Contains(t, text, "omega2_1 /= accumulator;")
		assert.Contains(t, text, "alpha = 0.")
		assert.Contains(t, text, "/((1e-05 + sigma0)*(1e-05 + sigma0));")
		assert.Contains(t, text, "omega1_1 = ")
		assert.Contains(t, text, "*(omega1_1/accumulator) - ")
	}
	{ // One point uses the bare stencil index
		tb1 := deriveTables(t, 3, []float64{1})
		kn, err := WeightsKernel(3, tb1.varpi, 1, Config{})
		require.NoError(t, err)
		assert.Equal(t, []string{"accumulator", "alpha", "sigma0", "omega0", "sigma1", "omega1", "sigma2", "omega2"}, kn.Locals())
		assert.Equal(t, 3, kn.CountOp(DivBy))
	}
	{
		_, err := WeightsKernel(3, tb.varpi, 2, Config{})
		assert.ErrorIs(t, err, ErrKernel)
		_, err = WeightsKernel(3, tb.varpi, 0, Config{})
		assert.ErrorIs(t, err, ErrKernel)
	}
}

func TestReconstructionKernel(t *testing.T) {
	tb := deriveTables(t, 3, []float64{1})
	kn, err := ReconstructionKernel(3, tb.coeffs, 1, Config{})
	require.NoError(t, err)
	tgt, _ := NewTarget("c", types.Float64)
	text, err := tgt.Render(kn)
	require.NoError(t, err)
	assert.Contains(t, text, "fr0 = 0.3333333333333333*f[i] + 0.8333333333333334*f[i + 1] - 0.16666666666666666*f[i + 2];\n")
	assert.Contains(t, text, "q0 = omega0*fr0 + omega1*fr1 + omega2*fr2;\n")
	{
		kn, err := ReconstructionKernel(3, tb.coeffs, 1, Config{Function: "recon"})
		require.NoError(t, err)
		assert.Equal(t, []Param{{Name: "f"}, {Name: "omega"}, {Name: "value", Output: true}}, kn.Params)
		text, _ := tgt.Render(kn)
		assert.Contains(t, text, "value[i] = omega[i*3]*fr0 + omega[i*3 + 1]*fr1 + omega[i*3 + 2]*fr2;")
	}
	{
		_, err := ReconstructionKernel(3, tb.coeffs, 2, Config{})
		assert.ErrorIs(t, err, ErrKernel)
	}
}

func TestPipeline(t *testing.T) {
	{ // Constants are reproduced for every order and family
		for k := 2; k <= 5; k++ {
			for _, fam := range types.AllFamilies() {
				xi, err := points.Points(k, fam)
				require.NoError(t, err)
				if k%2 == 0 && hasCenter(xi) {
					continue
				}
				p := pipeline(t, k, xi)
				f := make([]float64, 4*k)
				for i := range f {
					f[i] = 2.5
				}
				value, err := p.Run(f)
				require.NoError(t, err)
				for i := k - 1; i <= len(f)-k; i++ {
					for l := range xi {
						assert.InDelta(t, 2.5, value[i*len(xi)+l], 1.e-12, "k=%d %v", k, fam)
					}
				}
			}
		}
	}
	{ // k=5 is exact for a linear function
		xi := []float64{-1, 1}
		p := pipeline(t, 5, xi)
		f := make([]float64, 20)
		for i := range f {
			f[i] = 3 - 0.25*(float64(i)+0.5)
		}
		value, err := p.Run(f)
		require.NoError(t, err)
		for i := 4; i <= 15; i++ {
			for l, x := range xi {
				want := 3 - 0.25*(float64(i)+0.5*(1+x))
				assert.InDelta(t, want, value[i*2+l], 1.e-12)
			}
		}
	}
	{ // Scenario: k=3 left edge
		p := pipeline(t, 3, []float64{-1})
		value, err := p.Run([]float64{1, 1, 1, 1, 1, 1, 1})
		require.NoError(t, err)
		assert.InDelta(t, 1., value[3], 1.e-14)
		_, err = p.Run([]float64{1, 1})
		assert.ErrorIs(t, err, ErrKernel)
	}
	{
		_, err := NewPipeline()
		assert.ErrorIs(t, err, ErrKernel)
		tb := deriveTables(t, 3, []float64{1})
		kn, _ := SmoothnessKernel(3, tb.beta, Config{})
		_, err = NewPipeline(kn)
		assert.ErrorIs(t, err, ErrKernel)
	}
}

func hasCenter(xi []float64) bool {
	for _, x := range xi {
		if x == 0 {
			return true
		}
	}
	return false
}

func TestFuse(t *testing.T) {
	var (
		k  = 3
		xi = []float64{-1, 1}
		tb = deriveTables(t, k, xi)
		h  = 2 * math.Pi / 20
		f  = sinAverages(20, h)
	)
	fused, err := Fuse("weno003", k, 2, tb.beta, tb.varpi, tb.coeffs)
	require.NoError(t, err)
	assert.Equal(t, types.FusedKernel, fused.Kind)
	assert.Equal(t, []Param{{Name: "f"}, {Name: "value", Output: true}}, fused.Params)
	assert.Equal(t, []string{"f", "value"}, fused.Arrays())
	want, err := pipeline(t, k, xi).Run(f)
	require.NoError(t, err)
	p, err := NewPipeline(fused)
	require.NoError(t, err)
	got, err := p.Run(f)
	require.NoError(t, err)
	assert.InDeltaSlice(t, want, got, 1.e-14)
	{ // The reconstruction is close to sin at the cell edges
		for i := 2; i <= 17; i++ {
			assert.InDelta(t, math.Sin(float64(i)*h), got[i*2], 5.e-3)
			assert.InDelta(t, math.Sin(float64(i+1)*h), got[i*2+1], 5.e-3)
		}
	}
	_, err = Fuse("", k, 2, tb.beta, tb.varpi, tb.coeffs)
	assert.ErrorIs(t, err, ErrKernel)
}

func TestNonUniformKernels(t *testing.T) {
	var (
		k   = 3
		xi  = []float64{-1, 1}
		x   = make([]float64, 21)
		cfg = func(name string) Config { return Config{Function: name, Grid: types.NonUniform} }
	)
	for i := range x {
		x[i] = float64(i)
	}
	nu, err := weno.DeriveNonUniform(k, xi, x)
	require.NoError(t, err)
	s, err := SmoothnessKernel(k, nil, cfg("s"))
	require.NoError(t, err)
	w, err := WeightsKernel(k, nil, 2, cfg("w"))
	require.NoError(t, err)
	r, err := ReconstructionKernel(k, nil, 2, cfg("r"))
	require.NoError(t, err)
	assert.Equal(t, []Param{{Name: "f"}, {Name: "beta"}, {Name: "sigma", Output: true}}, s.Params)
	assert.Equal(t, []Param{{Name: "sigma"}, {Name: "varpi"}, {Name: "omega", Output: true}}, w.Params)
	assert.Equal(t, []Param{{Name: "f"}, {Name: "c"}, {Name: "omega"}, {Name: "value", Output: true}}, r.Params)
	assert.Equal(t, 18, s.CountOp(AddTo))

	tgt, _ := NewTarget("c", types.Float64)
	text, _ := tgt.Render(s)
	assert.Contains(t, text, "accumulator += beta[i*75 + 12]*f[i]*f[i];")

	p, err := NewPipeline(s, w, r)
	require.NoError(t, err)
	p.Arrays[ArrayBeta] = nu.Beta
	p.Arrays[ArrayVarpi] = nu.Varpi
	p.Arrays[ArrayCoeff] = nu.C
	f := sinAverages(20, 0.3)
	got, err := p.Run(f)
	require.NoError(t, err)
	want, err := pipeline(t, k, xi).Run(f)
	require.NoError(t, err)
	assert.InDeltaSlice(t, want, got, 1.e-10)
}

func TestTargets(t *testing.T) {
	tb := deriveTables(t, 3, []float64{-1})
	kn, err := SmoothnessKernel(3, tb.beta, Config{Function: "s"})
	require.NoError(t, err)
	render := func(name string, dt types.DataType) string {
		tgt, err := NewTarget(name, dt)
		require.NoError(t, err)
		text, err := tgt.Render(kn)
		require.NoError(t, err)
		return text
	}
	{
		text := render("opencl", types.Float64)
		assert.Contains(t, text, "__kernel void s(__global const double *f, __global double *sigma)\n{\n  int i = get_global_id(0);\n")
	}
	{
		text := render("occa", types.Float64)
		assert.Contains(t, text, "@kernel void s(const int N, @restrict const double *f, @restrict double *sigma)")
		assert.Contains(t, text, "for (int i = 2; i < N - 2; ++i; @tile(64, @outer, @inner)) {")
	}
	{
		text := render("go", types.Float64)
		assert.Contains(t, text, "func s(f, sigma []float64, i int) {")
		assert.Contains(t, text, "var accumulator float64")
		text = render("go", types.Float32)
		assert.Contains(t, text, "func s(f, sigma []float32, i int) {")
	}
	{
		text := render("c", types.Float32)
		assert.Contains(t, text, "void s(const float *restrict f, float *restrict sigma, int i)")
		assert.Contains(t, text, "float accumulator;")
		assert.Contains(t, text, "f*f[i]*f[i];")
	}
	{ // Regenerating is byte identical
		for _, name := range TargetNames() {
			g1, _ := NewTarget(name, types.Float64)
			g2, _ := NewTarget(name, types.Float64)
			gen1, gen2 := NewGenerator(g1, nil), NewGenerator(g2, nil)
			a, err := gen1.Weights(3, tb.varpi, 1, Config{Function: "w"})
			require.NoError(t, err)
			b, err := gen2.Weights(3, tb.varpi, 1, Config{Function: "w"})
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(a, b), name)
		}
	}
	{
		_, err := NewTarget("fortran", types.Float64)
		assert.ErrorIs(t, err, ErrKernel)
		assert.Equal(t, []string{"c", "go", "occa", "opencl"}, TargetNames())
	}
}

func TestGoInline(t *testing.T) {
	tb := deriveTables(t, 3, []float64{1})
	tgt, _ := NewTarget("go", types.Float64)
	g := NewGenerator(tgt, nil)
	text, err := g.Reconstruction(3, tb.coeffs, 1, Config{})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(text), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, "fr0=0.3333333333333333*f[i]+0.8333333333333334*f[i+1]-0.16666666666666666*f[i+2]",
		strings.ReplaceAll(lines[0], " ", ""))
	assert.Equal(t, "q0=omega0*fr0+omega1*fr1+omega2*fr2", strings.ReplaceAll(lines[3], " ", ""))
}
