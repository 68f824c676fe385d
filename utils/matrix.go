package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

type Matrix struct {
	M *mat.Dense
}

func NewMatrix(nr, nc int, dataO ...[]float64) (R Matrix) {
	var m *mat.Dense
	if len(dataO) != 0 {
		if len(dataO[0]) != nr*nc {
			err := fmt.Errorf("mismatch in allocation: NewMatrix nr,nc = %v,%v, len(data[0]) = %v", nr, nc, len(dataO[0]))
			panic(err)
		}
		m = mat.NewDense(nr, nc, dataO[0])
	} else {
		m = mat.NewDense(nr, nc, make([]float64, nr*nc))
	}
	R = Matrix{m}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m Matrix) Dims() (r, c int)          { return m.M.Dims() }
func (m Matrix) At(i, j int) float64       { return m.M.At(i, j) }
func (m Matrix) T() mat.Matrix             { return m.M.T() }
func (m Matrix) RawMatrix() blas64.General { return m.M.RawMatrix() }
func (m Matrix) Data() []float64           { return m.M.RawMatrix().Data }

func (m Matrix) Set(i, j int, val float64) Matrix { // Changes receiver
	m.M.Set(i, j, val)
	return m
}

func (m Matrix) MulVec(v Vector) (R Vector) { // Does not change receiver
	var (
		nr, _ = m.Dims()
	)
	R = NewVector(nr)
	R.V.MulVec(m.M, v.V)
	return
}

/*
SolveLS solves m x = b. For a tall matrix the solution is the least squares
solution through QR. Singular or numerically singular systems return an error.
*/
func (m Matrix) SolveLS(b Vector) (x Vector, err error) {
	var (
		_, nc = m.Dims()
	)
	x = NewVector(nc)
	if err = x.V.SolveVec(m.M, b.V); err != nil {
		err = fmt.Errorf("unable to solve, matrix is singular: %w", err)
	}
	return
}

func (m Matrix) ConditionNumber() float64 {
	var svd mat.SVD
	if !svd.Factorize(m.M, mat.SVDNone) {
		return math.Inf(1)
	}
	values := svd.Values(nil)
	if len(values) == 0 || values[len(values)-1] == 0 {
		return math.Inf(1)
	}
	return values[0] / values[len(values)-1]
}

// NewSymTriDiagonal builds the symmetric tridiagonal matrix with diagonal d0 and off diagonal d1
func NewSymTriDiagonal(d0, d1 []float64) (Tri *mat.SymDense) {
	var (
		N = len(d0)
	)
	Tri = mat.NewSymDense(N, nil)
	for i, val := range d0 {
		Tri.SetSym(i, i, val)
	}
	for i, val := range d1 {
		Tri.SetSym(i, i+1, val)
	}
	return
}
