package weno

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

/*
NonUniform holds the per cell coefficient arrays for a grid of arbitrary cell
boundaries X, flattened in the layout read by the non-uniform kernels:

	Beta[i*k*W*W + r*W*W + m*W + n]  (W = 2k-1, folded, entries with m <= n)
	Varpi[i*(N*k) + l*k + r]
	C[i*(N*k*k) + l*k*k + r*k + j]

Only interior cells, First <= i <= Last, are filled; the others are zero.
*/
type NonUniform struct {
	K, Cells    int
	Xi, X       []float64
	First, Last int
	Beta        []float64
	Varpi       []float64
	C           []float64
}

// DeriveNonUniform computes the coefficient arrays of every interior cell of the grid x.
func DeriveNonUniform(k int, xi, x []float64) (nu *NonUniform, err error) {
	if err = checkPoints("nonuniform", k, xi); err != nil {
		return
	}
	var (
		cells = len(x) - 1
		W     = 2*k - 1
		N     = len(xi)
	)
	if cells < W {
		err = newDerivationError("nonuniform", k, xi,
			fmt.Sprintf("grid has %d cells, need at least %d", cells, W), nil)
		return
	}
	for i := 1; i < len(x); i++ {
		if !(x[i] > x[i-1]) {
			err = newDerivationError("nonuniform", k, xi,
				fmt.Sprintf("cell boundaries not strictly increasing at %d: %v, %v", i, x[i-1], x[i]), nil)
			return
		}
	}
	nu = &NonUniform{
		K:     k,
		Cells: cells,
		Xi:    append([]float64{}, xi...),
		X:     append([]float64{}, x...),
		First: k - 1,
		Last:  cells - k,
		Beta:  make([]float64, cells*k*W*W),
		Varpi: make([]float64, cells*N*k),
		C:     make([]float64, cells*N*k*k),
	}
	for i := nu.First; i <= nu.Last; i++ {
		if err = nu.deriveCell(i); err != nil {
			return nil, err
		}
	}
	return
}

func (nu *NonUniform) deriveCell(i int) (err error) {
	var (
		k     = nu.K
		W     = 2*k - 1
		N     = len(nu.Xi)
		small = make([][]poly, k)
	)
	for r := 0; r < k; r++ {
		small[r] = nu.localBasis(i, k, r)
		// smoothness, folded upper triangle
		derivs := make([][]poly, k)
		for j := 0; j < k; j++ {
			derivs[j] = make([]poly, k)
			d := small[r][j]
			for l := 1; l < k; l++ {
				d = d.diff()
				derivs[j][l] = d
			}
		}
		off := k - 1 - r
		for a := 0; a < k; a++ {
			for b := a; b < k; b++ {
				var sum float64
				for l := 1; l < k; l++ {
					sum += derivs[a][l].mul(derivs[b][l]).integrate01()
				}
				if a != b {
					sum *= 2
				}
				nu.Beta[i*k*W*W+r*W*W+(a+off)*W+(b+off)] = sum
			}
		}
	}
	large := nu.localBasis(i, W, k-1)
	for l, xi := range nu.Xi {
		u := 0.5 * (1 + xi)
		c := make([][]float64, k)
		for r := 0; r < k; r++ {
			c[r] = make([]float64, k)
			for j := 0; j < k; j++ {
				c[r][j] = small[r][j].eval(u)
				nu.C[i*(N*k*k)+l*k*k+r*k+j] = c[r][j]
			}
		}
		C := make([]float64, W)
		for j := range C {
			C[j] = large[j].eval(u)
		}
		gamma, err := solveWeights(k, c, C)
		if err != nil {
			return newDerivationError("nonuniform", k, nu.Xi,
				fmt.Sprintf("no linear weights at cell %d, xi = %v", i, xi), err)
		}
		if floats.Min(gamma) < 0 {
			return newDerivationError("nonuniform", k, nu.Xi,
				fmt.Sprintf("cell %d, xi = %v needs split weights, which non-uniform kernels do not support", i, xi), nil)
		}
		copy(nu.Varpi[i*(N*k)+l*k:], gamma)
	}
	return
}

/*
localBasis is the primitive function basis of a stencil of width n shifted left by
r cells, in the coordinate of cell i scaled to [0,1]. Entry j multiplies the average
of cell i-r+j.
*/
func (nu *NonUniform) localBasis(i, n, r int) (q []poly) {
	var (
		x0    = nu.X[i]
		h     = nu.X[i+1] - nu.X[i]
		nodes = make([]float64, n+1)
		L     = make([]poly, n+1)
	)
	for b := 0; b <= n; b++ {
		nodes[b] = (nu.X[i-r+b] - x0) / h
	}
	for b := 0; b <= n; b++ {
		p := poly{1}
		denom := 1.
		for c := 0; c <= n; c++ {
			if c == b {
				continue
			}
			p = p.mulLinear(-nodes[c])
			denom *= nodes[b] - nodes[c]
		}
		L[b] = p.scale(1 / denom).diff()
	}
	q = make([]poly, n)
	for j := 0; j < n; j++ {
		sum := poly{0}
		for b := j + 1; b <= n; b++ {
			sum = sum.add(L[b])
		}
		q[j] = sum.scale(nodes[j+1] - nodes[j])
	}
	return
}

func (nu *NonUniform) N() int { return len(nu.Xi) }

func (nu *NonUniform) BetaAt(i, r, m, n int) float64 {
	W := 2*nu.K - 1
	return nu.Beta[i*nu.K*W*W+r*W*W+m*W+n]
}

func (nu *NonUniform) VarpiAt(i, l, r int) float64 {
	return nu.Varpi[i*(nu.N()*nu.K)+l*nu.K+r]
}

func (nu *NonUniform) CAt(i, l, r, j int) float64 {
	k := nu.K
	return nu.C[i*(nu.N()*k*k)+l*k*k+r*k+j]
}

// poly is a float64 polynomial, coefficients in ascending powers
type poly []float64

func (p poly) scale(a float64) (r poly) {
	r = make(poly, len(p))
	for i, c := range p {
		r[i] = a * c
	}
	return
}

func (p poly) mulLinear(a float64) (r poly) {
	r = make(poly, len(p)+1)
	for i, c := range p {
		r[i+1] += c
		r[i] += a * c
	}
	return
}

func (p poly) add(q poly) (r poly) {
	n := len(p)
	if len(q) > n {
		n = len(q)
	}
	r = make(poly, n)
	copy(r, p)
	for i, c := range q {
		r[i] += c
	}
	return
}

func (p poly) mul(q poly) (r poly) {
	r = make(poly, len(p)+len(q)-1)
	for i, a := range p {
		for j, b := range q {
			r[i+j] += a * b
		}
	}
	return
}

func (p poly) diff() (r poly) {
	if len(p) <= 1 {
		return poly{0}
	}
	r = make(poly, len(p)-1)
	for i := range r {
		r[i] = float64(i+1) * p[i+1]
	}
	return
}

func (p poly) integrate01() (s float64) {
	for i, c := range p {
		s += c / float64(i+1)
	}
	return
}

func (p poly) eval(x float64) (y float64) {
	for i := len(p) - 1; i >= 0; i-- {
		y = y*x + p[i]
	}
	return
}
