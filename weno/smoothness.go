package weno

import (
	"fmt"
	"math/big"

	"github.com/james-bowman/sparse"
	"github.com/notargets/goweno/types"
)

/*
Smoothness holds the Jiang-Shu indicator coefficients of the k candidate stencils.

The indicator of stencil r at cell i is the quadratic form

	sigma_r = sum_m sum_n Beta[r][m][n] * f[i-(k-1)+m] * f[i-(k-1)+n]

over the 2k-1 wide window of cell averages centered on i. Beta[r] is symmetric and
nonzero only on the window of stencil r, m,n in [k-1-r, 2k-2-r].
*/
type Smoothness struct {
	K     int
	Beta  [][][]float64
	exact [][][]*big.Rat
}

// DeriveSmoothness integrates the squared derivatives 1..k-1 of each stencil polynomial over the cell.
func DeriveSmoothness(k int) (s *Smoothness, err error) {
	if err = checkOrder("smoothness", k); err != nil {
		return
	}
	var (
		W = 2*k - 1
	)
	s = &Smoothness{
		K:     k,
		Beta:  make([][][]float64, k),
		exact: make([][][]*big.Rat, k),
	}
	for r := 0; r < k; r++ {
		q := primitiveBasis(k, r)
		s.exact[r] = make([][]*big.Rat, W)
		s.Beta[r] = make([][]float64, W)
		for m := 0; m < W; m++ {
			s.Beta[r][m] = make([]float64, W)
			s.exact[r][m] = make([]*big.Rat, W)
			for n := 0; n < W; n++ {
				s.exact[r][m][n] = new(big.Rat)
			}
		}
		// successive derivatives of every basis polynomial
		derivs := make([][]ratPoly, k)
		for j := 0; j < k; j++ {
			derivs[j] = make([]ratPoly, k)
			d := q[j]
			for l := 1; l < k; l++ {
				d = d.diff()
				derivs[j][l] = d
			}
		}
		offset := k - 1 - r
		for a := 0; a < k; a++ {
			for b := a; b < k; b++ {
				sum := new(big.Rat)
				for l := 1; l < k; l++ {
					sum.Add(sum, derivs[a][l].mul(derivs[b][l]).integrate01())
				}
				m, n := a+offset, b+offset
				s.exact[r][m][n].Set(sum)
				s.exact[r][n][m].Set(sum)
			}
		}
		for m := 0; m < W; m++ {
			for n := 0; n < W; n++ {
				s.Beta[r][m][n] = ratFloat(s.exact[r][m][n])
			}
		}
	}
	return
}

// Window returns the dimension of the quadratic forms, 2k-1
func (s *Smoothness) Window() int { return 2*s.K - 1 }

// Exact returns the rational value of Beta[r][m][n].
func (s *Smoothness) Exact(r, m, n int) *big.Rat {
	return new(big.Rat).Set(s.exact[r][m][n])
}

// Table resolves the tensor into coefficient variants for the kernel generator.
func (s *Smoothness) Table() (T [][][]types.Coeff) {
	T = make([][][]types.Coeff, s.K)
	for r := range s.Beta {
		T[r] = make([][]types.Coeff, len(s.Beta[r]))
		for m := range s.Beta[r] {
			T[r][m] = types.LitVector(s.Beta[r][m])
		}
	}
	return
}

// Form returns the quadratic form of stencil r as a sparse matrix.
func (s *Smoothness) Form(r int) *sparse.CSR {
	var (
		W   = s.Window()
		dok = sparse.NewDOK(W, W)
	)
	for m := 0; m < W; m++ {
		for n := 0; n < W; n++ {
			if v := s.Beta[r][m][n]; v != 0 {
				dok.Set(m, n, v)
			}
		}
	}
	return dok.ToCSR()
}

// Indicator evaluates sigma_r on a window of 2k-1 cell averages centered on the target cell.
func (s *Smoothness) Indicator(r int, window []float64) (sigma float64, err error) {
	if len(window) != s.Window() {
		err = fmt.Errorf("window length %d does not match order %d, need %d", len(window), s.K, s.Window())
		return
	}
	s.Form(r).DoNonZero(func(m, n int, v float64) {
		sigma += v * window[m] * window[n]
	})
	return
}

func (s *Smoothness) Clone() (c *Smoothness) {
	c = &Smoothness{
		K:     s.K,
		Beta:  make([][][]float64, len(s.Beta)),
		exact: s.exact, // never written after derivation
	}
	for r := range s.Beta {
		c.Beta[r] = make([][]float64, len(s.Beta[r]))
		for m := range s.Beta[r] {
			c.Beta[r][m] = append([]float64{}, s.Beta[r][m]...)
		}
	}
	return
}
