package weno

import (
	"github.com/notargets/goweno/types"
)

/*
Reconstruction holds the linear stencil coefficients for every evaluation point:
the value of stencil r at Xi[l] is

	sum_j Coeffs[l][r][j] * f[i-r+j]
*/
type Reconstruction struct {
	K      int
	Xi     []float64
	Coeffs [][][]float64
}

// DeriveReconstruction evaluates the stencil interpolants at each point in Xi.
func DeriveReconstruction(k int, xi []float64) (rc *Reconstruction, err error) {
	if err = checkPoints("reconstruction", k, xi); err != nil {
		return
	}
	rc = &Reconstruction{
		K:      k,
		Xi:     append([]float64{}, xi...),
		Coeffs: make([][][]float64, len(xi)),
	}
	basis := make([][]ratPoly, k)
	for r := 0; r < k; r++ {
		basis[r] = primitiveBasis(k, r)
	}
	for l, x := range xi {
		rc.Coeffs[l] = make([][]float64, k)
		for r := 0; r < k; r++ {
			rc.Coeffs[l][r] = evalBasis(basis[r], x)
		}
	}
	return
}

// evalBasis evaluates each polynomial at the reference coordinate xi
func evalBasis(q []ratPoly, xi float64) (c []float64) {
	c = make([]float64, len(q))
	for j, p := range q {
		c[j] = p.evalRef(xi)
	}
	return
}

// N is the number of evaluation points
func (rc *Reconstruction) N() int { return len(rc.Xi) }

func (rc *Reconstruction) Table() (T [][][]types.Coeff) {
	T = make([][][]types.Coeff, len(rc.Coeffs))
	for l := range rc.Coeffs {
		T[l] = make([][]types.Coeff, rc.K)
		for r := range rc.Coeffs[l] {
			T[l][r] = types.LitVector(rc.Coeffs[l][r])
		}
	}
	return
}

func (rc *Reconstruction) Clone() (c *Reconstruction) {
	c = &Reconstruction{
		K:      rc.K,
		Xi:     append([]float64{}, rc.Xi...),
		Coeffs: make([][][]float64, len(rc.Coeffs)),
	}
	for l := range rc.Coeffs {
		c.Coeffs[l] = make([][]float64, len(rc.Coeffs[l]))
		for r := range rc.Coeffs[l] {
			c.Coeffs[l][r] = append([]float64{}, rc.Coeffs[l][r]...)
		}
	}
	return
}
