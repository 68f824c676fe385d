package points

import (
	"fmt"
	"math"

	"github.com/notargets/goweno/utils"
	"gonum.org/v1/gonum/mat"
)

// JacobiGL computes the N+1 Gauss-Lobatto nodes of the (alpha, beta) Jacobi weight
func JacobiGL(alpha, beta float64, N int) (X utils.Vector, err error) {
	var (
		x    = make([]float64, N+1)
		xint utils.Vector
	)
	if N == 1 {
		x[0] = -1
		x[1] = 1
		X = utils.NewVector(N+1, x)
		return
	}
	if xint, _, err = JacobiGQ(alpha+1, beta+1, N-2); err != nil {
		return
	}
	x[0] = -1
	x[N] = 1
	copy(x[1:N], xint.Data())
	X = utils.NewVector(len(x), x)
	return
}

// JacobiGQ computes the N+1 Gauss quadrature nodes and weights of the (alpha, beta) Jacobi weight
func JacobiGQ(alpha, beta float64, N int) (X, W utils.Vector, err error) {
	var (
		x, w       []float64
		fac        float64
		h1, d0, d1 []float64
		VVr        *mat.Dense
	)
	if N == 0 {
		x = []float64{-(alpha - beta) / (alpha + beta + 2.)}
		w = []float64{2.}
		return utils.NewVector(len(x), x), utils.NewVector(len(w), w), nil
	}

	h1 = make([]float64, N+1)
	for i := 0; i < N+1; i++ {
		h1[i] = 2*float64(i) + alpha + beta
	}

	// main diagonal: diag(-(alpha^2-beta^2)./(h1+2)./h1), J is not symmetrized by doubling
	d0 = make([]float64, N+1)
	fac = -(alpha*alpha - beta*beta)
	for i := 0; i < N+1; i++ {
		val := h1[i]
		d0[i] = fac / (val * (val + 2.))
	}
	// Handle division by zero
	eps := 1.e-16
	if alpha+beta < 10*eps {
		d0[0] = 0.
	}

	// 1st upper diagonal: diag(2./(h1(1:N)+2).*sqrt((1:N).*((1:N)+alpha+beta) .* ((1:N)+alpha).*((1:N)+beta)./(h1(1:N)+1)./(h1(1:N)+3)),1);
	var ip1 float64
	d1 = make([]float64, N)
	for i := 0; i < N; i++ {
		ip1 = float64(i + 1)
		val := h1[i]
		d1[i] = 2. / (val + 2.)
		d1[i] *= math.Sqrt(ip1 * (ip1 + alpha + beta) * (ip1 + alpha) * (ip1 + beta) / ((val + 1.) * (val + 3.)))
	}

	JJ := utils.NewSymTriDiagonal(d0, d1)

	var eig mat.EigenSym
	if ok := eig.Factorize(JJ, true); !ok {
		err = fmt.Errorf("eigenvalue decomposition failed for Jacobi(%v,%v) order %d", alpha, beta, N)
		return
	}
	x = eig.Values(x)
	X = utils.NewVector(N+1, x)

	VVr = mat.NewDense(len(x), len(x), nil)
	eig.VectorsTo(VVr)
	w = make([]float64, len(x))
	copy(w, VVr.RawRowView(0))
	W = utils.NewVector(len(w), w).POW(2).Scale(gamma0(alpha, beta))
	return X, W, nil
}

func gamma0(alpha, beta float64) float64 {
	ab1 := alpha + beta + 1.
	a1 := alpha + 1.
	b1 := beta + 1.
	return math.Gamma(a1) * math.Gamma(b1) * math.Pow(2, ab1) / ab1 / math.Gamma(ab1)
}
