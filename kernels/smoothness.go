package kernels

import (
	"fmt"

	"github.com/notargets/goweno/types"
)

/*
SmoothnessKernel unrolls the indicator quadratic forms. Each nonzero coefficient of
the upper triangle m <= n becomes one multiply-add of f[i-(k-1)+m]*f[i-(k-1)+n].
Off diagonal literal pairs are folded, Beta[m][n]+Beta[n][m]. When either entry of
a pair is preformatted text the upper entry is emitted verbatim and the lower one is
ignored.

On a non-uniform grid beta is not used, the folded coefficients are read from the
beta array at run time.
*/
func SmoothnessKernel(k int, beta [][][]types.Coeff, cfg Config) (kn *Kernel, err error) {
	if err = checkOrder(k); err != nil {
		return
	}
	var (
		b = newBinding(cfg, k, 1)
		W = b.window()
	)
	if cfg.Grid == types.Uniform {
		if err = checkBeta(k, beta); err != nil {
			return
		}
	}
	kn = &Kernel{
		Name: cfg.Function,
		Kind: types.SmoothnessKernel,
		K:    k,
		N:    1,
		Grid: cfg.Grid,
	}
	if !b.inline {
		kn.Params = []Param{{Name: ArrayInput}}
		if cfg.Grid == types.NonUniform {
			kn.Params = append(kn.Params, Param{Name: ArrayBeta})
		}
		kn.Params = append(kn.Params, Param{Name: ArraySigma, Output: true})
	}
	for r := 0; r < k; r++ {
		acc := b.sigma(r)
		if !b.inline {
			acc = b.accumulator()
		}
		kn.Body = append(kn.Body, Assign{Dst: acc, Op: Set, Value: lit(0)})
		for m := 0; m < W; m++ {
			for n := m; n < W; n++ {
				var c Expr
				if cfg.Grid == types.NonUniform {
					if !inWindow(k, r, m) || !inWindow(k, r, n) {
						continue
					}
					c = b.beta(r, m, n)
				} else {
					coeff, ok := foldPair(beta[r][m][n], beta[r][n][m], m == n)
					if !ok {
						continue
					}
					c = Lit{C: coeff}
				}
				kn.Body = append(kn.Body, Assign{
					Dst: acc,
					Op:  AddTo,
					Value: Prod{Factors: []Expr{
						c, b.input(m - (k - 1)), b.input(n - (k - 1)),
					}},
				})
			}
		}
		if !b.inline {
			kn.Body = append(kn.Body, Assign{Dst: Elem{Array: ArraySigma, Scale: k, Offset: r}, Op: Set, Value: acc})
		}
	}
	return
}

func inWindow(k, r, m int) bool { return m >= k-1-r && m <= 2*k-2-r }

// foldPair returns the coefficient of f_m*f_n, false when the term vanishes
func foldPair(upper, lower types.Coeff, diagonal bool) (c types.Coeff, ok bool) {
	switch {
	case upper.Kind == types.Preformatted:
		return upper, true
	case diagonal:
		return upper, !upper.IsZero()
	case lower.Kind == types.Preformatted:
		return upper, !upper.IsZero()
	}
	c = types.Lit(upper.Value + lower.Value)
	return c, !c.IsZero()
}

func checkOrder(k int) error {
	if k < 2 {
		return fmt.Errorf("%w: order %d, need at least 2", ErrKernel, k)
	}
	return nil
}

func checkBeta(k int, beta [][][]types.Coeff) error {
	W := 2*k - 1
	if len(beta) != k {
		return fmt.Errorf("%w: smoothness table has %d stencils, need %d", ErrKernel, len(beta), k)
	}
	for r := range beta {
		if len(beta[r]) != W {
			return fmt.Errorf("%w: smoothness table of stencil %d has %d rows, need %d", ErrKernel, r, len(beta[r]), W)
		}
		for m := range beta[r] {
			if len(beta[r][m]) != W {
				return fmt.Errorf("%w: smoothness table row %d,%d has %d entries, need %d",
					ErrKernel, r, m, len(beta[r][m]), W)
			}
		}
	}
	return nil
}
