package kernels

import (
	"fmt"

	"github.com/notargets/goweno/types"
)

/*
ReconstructionKernel unrolls, for each of the n points, the k stencil
reconstructions

	fr_r = sum_j coeffs[l][r][j] * f[i-r+j]

and their blend with the nonlinear weights, value_l = sum_r omega_r * fr_r.
*/
func ReconstructionKernel(k int, coeffs [][][]types.Coeff, n int, cfg Config) (kn *Kernel, err error) {
	if err = checkOrder(k); err != nil {
		return
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: %d evaluation points", ErrKernel, n)
	}
	if cfg.Grid == types.Uniform {
		if err = checkCoeffs(k, n, coeffs); err != nil {
			return
		}
	}
	var (
		b = newBinding(cfg, k, n)
	)
	kn = &Kernel{
		Name: cfg.Function,
		Kind: types.ReconstructionKernel,
		K:    k,
		N:    n,
		Grid: cfg.Grid,
	}
	if !b.inline {
		kn.Params = []Param{{Name: ArrayInput}}
		if cfg.Grid == types.NonUniform {
			kn.Params = append(kn.Params, Param{Name: ArrayCoeff})
		}
		kn.Params = append(kn.Params, Param{Name: ArrayOmega}, Param{Name: ArrayValue, Output: true})
	}
	kn.Body = reconstructionBody(b, coeffs)
	return
}

func reconstructionBody(b binding, coeffs [][][]types.Coeff) (body []Assign) {
	var (
		k = b.k
	)
	for l := 0; l < b.n; l++ {
		blend := Sum{}
		for r := 0; r < k; r++ {
			sum := Sum{}
			for j := 0; j < k; j++ {
				var c Expr
				if b.grid == types.NonUniform {
					c = b.coeff(l, r, j)
				} else {
					if coeffs[l][r][j].IsZero() {
						continue
					}
					c = Lit{C: coeffs[l][r][j]}
				}
				sum.Terms = append(sum.Terms, Prod{Factors: []Expr{c, b.input(j - r)}})
			}
			var value Expr = sum
			if len(sum.Terms) == 0 {
				value = lit(0)
			}
			body = append(body, Assign{Dst: b.recon(l, r), Op: Set, Value: value})
			blend.Terms = append(blend.Terms, Prod{Factors: []Expr{b.omega(l, r), b.recon(l, r)}})
		}
		body = append(body, Assign{Dst: b.output(l), Op: Set, Value: blend})
	}
	return
}

func checkCoeffs(k, n int, coeffs [][][]types.Coeff) error {
	if len(coeffs) != n {
		return fmt.Errorf("%w: %d coefficient sets for %d points", ErrKernel, len(coeffs), n)
	}
	for l := range coeffs {
		if len(coeffs[l]) != k {
			return fmt.Errorf("%w: point %d has %d stencils, need %d", ErrKernel, l, len(coeffs[l]), k)
		}
		for r := range coeffs[l] {
			if len(coeffs[l][r]) != k {
				return fmt.Errorf("%w: point %d stencil %d has %d coefficients, need %d",
					ErrKernel, l, r, len(coeffs[l][r]), k)
			}
		}
	}
	return nil
}
