package kernels

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/notargets/goweno/types"
)

// Epsilon guards the nonlinear weights against a vanishing smoothness indicator
const Epsilon = 1.e-5

/*
Names holds the templates for the scalar variables of inline fragments. An X in a
template is replaced by the stencil index r, or by "l_r" when there is more than one
evaluation point. The Output template has X replaced by the point index l.
*/
type Names struct {
	Sigma, Omega, OmegaMinus, Recon, Output string
	Accumulator, AccumulatorMinus, Alpha    string
}

func DefaultNames() Names {
	return Names{
		Sigma:            "sigmaX",
		Omega:            "omegaX",
		OmegaMinus:       "omegamX",
		Recon:            "frX",
		Output:           "qX",
		Accumulator:      "accumulator",
		AccumulatorMinus: "accumulatorm",
		Alpha:            "alpha",
	}
}

func (n Names) withDefaults() Names {
	d := DefaultNames()
	set := func(s *string, def string) {
		if *s == "" {
			*s = def
		}
	}
	set(&n.Sigma, d.Sigma)
	set(&n.Omega, d.Omega)
	set(&n.OmegaMinus, d.OmegaMinus)
	set(&n.Recon, d.Recon)
	set(&n.Output, d.Output)
	set(&n.Accumulator, d.Accumulator)
	set(&n.AccumulatorMinus, d.AccumulatorMinus)
	set(&n.Alpha, d.Alpha)
	return n
}

// Config selects between a named kernel (Function set) and an inline fragment
type Config struct {
	Function string
	Grid     types.Grid
	Names    Names
}

// Array parameter names of generated kernels
const (
	ArrayInput = "f"
	ArraySigma = "sigma"
	ArrayOmega = "omega"
	ArrayValue = "value"
	ArrayBeta  = "beta"
	ArrayVarpi = "varpi"
	ArrayCoeff = "c"
	IndexVar   = "i"
)

// binding resolves where each quantity of the pipeline lives for one kernel
type binding struct {
	inline      bool
	names       Names
	k, n        int
	grid        types.Grid
	outputArray bool
}

func newBinding(cfg Config, k, n int) binding {
	return binding{
		inline: cfg.Function == "",
		names:  cfg.Names.withDefaults(),
		k:      k,
		n:      n,
		grid:   cfg.Grid,
	}
}

func substitute(tmpl, s string) string { return strings.ReplaceAll(tmpl, "X", s) }

func (b binding) pointName(tmpl string, l, r int) string {
	if b.n == 1 {
		return substitute(tmpl, strconv.Itoa(r))
	}
	return substitute(tmpl, fmt.Sprintf("%d_%d", l, r))
}

func (b binding) input(offset int) Expr { return Elem{Array: ArrayInput, Scale: 1, Offset: offset} }

func (b binding) sigma(r int) Expr {
	if b.inline {
		return Var{Name: substitute(b.names.Sigma, strconv.Itoa(r))}
	}
	return Elem{Array: ArraySigma, Scale: b.k, Offset: r}
}

func (b binding) omega(l, r int) Expr {
	if b.inline {
		return Var{Name: b.pointName(b.names.Omega, l, r)}
	}
	return Elem{Array: ArrayOmega, Scale: b.n * b.k, Offset: l*b.k + r}
}

func (b binding) omegaMinus(l, r int) Expr { return Var{Name: b.pointName(b.names.OmegaMinus, l, r)} }

func (b binding) recon(l, r int) Expr { return Var{Name: b.pointName(b.names.Recon, l, r)} }

func (b binding) output(l int) Expr {
	if b.inline && !b.outputArray {
		return Var{Name: substitute(b.names.Output, strconv.Itoa(l))}
	}
	return Elem{Array: ArrayValue, Scale: b.n, Offset: l}
}

func (b binding) accumulator() Expr      { return Var{Name: b.names.Accumulator} }
func (b binding) accumulatorMinus() Expr { return Var{Name: b.names.AccumulatorMinus} }
func (b binding) alpha() Expr            { return Var{Name: b.names.Alpha} }

func (b binding) window() int { return 2*b.k - 1 }

// runtime coefficient arrays of the non-uniform kernels
func (b binding) beta(r, m, n int) Expr {
	W := b.window()
	return Elem{Array: ArrayBeta, Scale: b.k * W * W, Offset: r*W*W + m*W + n}
}

func (b binding) varpi(l, r int) Expr {
	return Elem{Array: ArrayVarpi, Scale: b.n * b.k, Offset: l*b.k + r}
}

func (b binding) coeff(l, r, j int) Expr {
	return Elem{Array: ArrayCoeff, Scale: b.n * b.k * b.k, Offset: l*b.k*b.k + r*b.k + j}
}
