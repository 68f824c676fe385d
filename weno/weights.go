package weno

import (
	"fmt"
	"math"

	"github.com/notargets/goweno/types"
	"github.com/notargets/goweno/utils"
	"gonum.org/v1/gonum/floats"
)

const (
	// Theta is the splitting parameter for negative linear weights
	Theta = 3.
	// residual tolerance relative to the high order coefficients
	residualTol = 1.e-9
	// weights below this magnitude are round off from an exact zero
	zeroTol = 1.e-14
)

/*
OptimalWeights holds the linear weights Varpi[l][r] which combine the k stencil
reconstructions at Xi[l] into the single reconstruction over all 2k-1 cells.

When any weight at a point is negative the point is Split: the weights are
recombined into nonnegative sets

	Varpi = SigmaPlus*Plus - SigmaMinus*Minus, sum(Plus) = sum(Minus) = 1

and every nonlinear weight computation at that point must handle both sets.
*/
type OptimalWeights struct {
	K                     int
	Xi                    []float64
	Varpi                 [][]float64
	Split                 []bool
	Plus, Minus           [][]float64
	SigmaPlus, SigmaMinus []float64
}

// DeriveOptimalWeights solves the (2k-1) x k system for each point in Xi.
func DeriveOptimalWeights(k int, xi []float64) (ow *OptimalWeights, err error) {
	if err = checkPoints("weights", k, xi); err != nil {
		return
	}
	var (
		N       = len(xi)
		small   = make([][]ratPoly, k)
		largeBs = primitiveBasis(2*k-1, k-1)
	)
	for r := 0; r < k; r++ {
		small[r] = primitiveBasis(k, r)
	}
	ow = &OptimalWeights{
		K:          k,
		Xi:         append([]float64{}, xi...),
		Varpi:      make([][]float64, N),
		Split:      make([]bool, N),
		Plus:       make([][]float64, N),
		Minus:      make([][]float64, N),
		SigmaPlus:  make([]float64, N),
		SigmaMinus: make([]float64, N),
	}
	for l, x := range xi {
		var (
			c = make([][]float64, k)
		)
		for r := 0; r < k; r++ {
			c[r] = evalBasis(small[r], x)
		}
		gamma, err := solveWeights(k, c, evalBasis(largeBs, x))
		if err != nil {
			return nil, newDerivationError("weights", k, xi,
				fmt.Sprintf("no linear weights reproduce the %d order reconstruction at xi = %v", 2*k-1, x), err)
		}
		ow.Varpi[l] = gamma
		if floats.Min(gamma) < 0 {
			ow.Split[l] = true
			ow.Plus[l], ow.Minus[l], ow.SigmaPlus[l], ow.SigmaMinus[l] = splitWeights(gamma)
		}
	}
	return
}

/*
solveWeights finds gamma with sum_r gamma_r c_r = C, where stencil r's
coefficients c[r][j] sit on row j-r+k-1 of the 2k-1 row system
*/
func solveWeights(k int, c [][]float64, C []float64) (gamma []float64, err error) {
	var (
		W = 2*k - 1
		A = utils.NewMatrix(W, k)
		b = utils.NewVector(W, append([]float64{}, C...))
		x utils.Vector
	)
	for r := 0; r < k; r++ {
		for j := 0; j < k; j++ {
			A.Set(j-r+k-1, r, c[r][j])
		}
	}
	if x, err = A.SolveLS(b); err != nil {
		return
	}
	res := A.MulVec(x).Sub(b).Norm()
	if scale := math.Max(1, b.Norm()); res > residualTol*scale {
		err = fmt.Errorf("inconsistent system, residual %.3e, condition number %.3e", res, A.ConditionNumber())
		return
	}
	gamma = x.Data()
	for r, g := range gamma {
		if math.Abs(g) < zeroTol {
			gamma[r] = 0
		}
	}
	return
}

func splitWeights(gamma []float64) (plus, minus []float64, sp, sm float64) {
	plus = make([]float64, len(gamma))
	minus = make([]float64, len(gamma))
	for r, g := range gamma {
		plus[r] = 0.5 * (g + Theta*math.Abs(g))
		minus[r] = plus[r] - g
	}
	sp, sm = floats.Sum(plus), floats.Sum(minus)
	floats.Scale(1/sp, plus)
	floats.Scale(1/sm, minus)
	return
}

// N is the number of evaluation points
func (ow *OptimalWeights) N() int { return len(ow.Xi) }

// AnySplit reports whether any point needs the split weights
func (ow *OptimalWeights) AnySplit() bool {
	for _, s := range ow.Split {
		if s {
			return true
		}
	}
	return false
}

func (ow *OptimalWeights) Table() (T []types.PointWeights) {
	T = make([]types.PointWeights, len(ow.Varpi))
	for l := range ow.Varpi {
		T[l] = types.PointWeights{
			Varpi: types.LitVector(ow.Varpi[l]),
			Split: ow.Split[l],
		}
		if ow.Split[l] {
			T[l].Plus = types.LitVector(ow.Plus[l])
			T[l].Minus = types.LitVector(ow.Minus[l])
			T[l].SigmaPlus = types.Lit(ow.SigmaPlus[l])
			T[l].SigmaMinus = types.Lit(ow.SigmaMinus[l])
		}
	}
	return
}

func (ow *OptimalWeights) Clone() (c *OptimalWeights) {
	cp := func(A [][]float64) (B [][]float64) {
		B = make([][]float64, len(A))
		for i := range A {
			if A[i] != nil {
				B[i] = append([]float64{}, A[i]...)
			}
		}
		return
	}
	return &OptimalWeights{
		K:          ow.K,
		Xi:         append([]float64{}, ow.Xi...),
		Varpi:      cp(ow.Varpi),
		Split:      append([]bool{}, ow.Split...),
		Plus:       cp(ow.Plus),
		Minus:      cp(ow.Minus),
		SigmaPlus:  append([]float64{}, ow.SigmaPlus...),
		SigmaMinus: append([]float64{}, ow.SigmaMinus...),
	}
}
