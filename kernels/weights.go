package kernels

import (
	"fmt"

	"github.com/notargets/goweno/types"
)

/*
WeightsKernel unrolls the nonlinear weights in two passes for each of the n points:

	alpha_r = varpi_r / ((eps + sigma_r)*(eps + sigma_r)),  omega_r = alpha_r / sum(alpha)

The first pass stores the provisional omega and accumulates the sum, the second
pass normalizes. At a split point the plus and minus weight sets are accumulated
separately and the stored omega is SigmaPlus*omega+ - SigmaMinus*omega-, so the
stored weights still sum to one.

All k candidate stencils are used at every cell, stencils truncated by a domain
boundary are not handled.

On a non-uniform grid the linear weights are read from the varpi array at run
time and split points are not supported.
*/
func WeightsKernel(k int, varpi []types.PointWeights, n int, cfg Config) (kn *Kernel, err error) {
	if err = checkOrder(k); err != nil {
		return
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: %d evaluation points", ErrKernel, n)
	}
	if cfg.Grid == types.Uniform {
		if err = checkVarpi(k, n, varpi); err != nil {
			return
		}
	}
	var (
		b = newBinding(cfg, k, n)
	)
	kn = &Kernel{
		Name: cfg.Function,
		Kind: types.WeightsKernel,
		K:    k,
		N:    n,
		Grid: cfg.Grid,
	}
	if !b.inline {
		kn.Params = []Param{{Name: ArraySigma}}
		if cfg.Grid == types.NonUniform {
			kn.Params = append(kn.Params, Param{Name: ArrayVarpi})
		}
		kn.Params = append(kn.Params, Param{Name: ArrayOmega, Output: true})
	}
	kn.Body = weightsBody(b, varpi)
	return
}

func weightsBody(b binding, varpi []types.PointWeights) (body []Assign) {
	var (
		k = b.k
	)
	alphaOf := func(c Expr, r int) Expr {
		d := Sum{Terms: []Expr{lit(Epsilon), b.sigma(r)}}
		return Quo{Num: c, Den: Prod{Factors: []Expr{d, d}}}
	}
	for l := 0; l < b.n; l++ {
		split := b.grid == types.Uniform && varpi[l].Split
		body = append(body, Assign{Dst: b.accumulator(), Op: Set, Value: lit(0)})
		if split {
			body = append(body, Assign{Dst: b.accumulatorMinus(), Op: Set, Value: lit(0)})
		}
		for r := 0; r < k; r++ {
			var c Expr
			switch {
			case b.grid == types.NonUniform:
				c = b.varpi(l, r)
			case split:
				c = Lit{C: varpi[l].Plus[r]}
			default:
				c = Lit{C: varpi[l].Varpi[r]}
			}
			body = append(body,
				Assign{Dst: b.alpha(), Op: Set, Value: alphaOf(c, r)},
				Assign{Dst: b.accumulator(), Op: AddTo, Value: b.alpha()},
				Assign{Dst: b.omega(l, r), Op: Set, Value: b.alpha()},
			)
			if split {
				body = append(body,
					Assign{Dst: b.alpha(), Op: Set, Value: alphaOf(Lit{C: varpi[l].Minus[r]}, r)},
					Assign{Dst: b.accumulatorMinus(), Op: AddTo, Value: b.alpha()},
					Assign{Dst: b.omegaMinus(l, r), Op: Set, Value: b.alpha()},
				)
			}
		}
		for r := 0; r < k; r++ {
			if !split {
				body = append(body, Assign{Dst: b.omega(l, r), Op: DivBy, Value: b.accumulator()})
				continue
			}
			body = append(body, Assign{Dst: b.omega(l, r), Op: Set, Value: Sum{Terms: []Expr{
				Prod{Factors: []Expr{Lit{C: varpi[l].SigmaPlus}, Quo{Num: b.omega(l, r), Den: b.accumulator()}}},
				Prod{Factors: []Expr{negate(varpi[l].SigmaMinus), Quo{Num: b.omegaMinus(l, r), Den: b.accumulatorMinus()}}},
			}}})
		}
	}
	return
}

func negate(c types.Coeff) Expr {
	if c.Kind == types.Preformatted {
		return Prod{Factors: []Expr{lit(-1), Lit{C: c}}}
	}
	return lit(-c.Value)
}

func checkVarpi(k, n int, varpi []types.PointWeights) error {
	if len(varpi) != n {
		return fmt.Errorf("%w: %d weight sets for %d points", ErrKernel, len(varpi), n)
	}
	for l, pw := range varpi {
		if len(pw.Varpi) != k {
			return fmt.Errorf("%w: point %d has %d weights, need %d", ErrKernel, l, len(pw.Varpi), k)
		}
		if pw.Split && (len(pw.Plus) != k || len(pw.Minus) != k) {
			return fmt.Errorf("%w: split point %d needs %d plus and minus weights", ErrKernel, l, k)
		}
	}
	return nil
}
