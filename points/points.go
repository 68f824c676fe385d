/*
Package points provides the evaluation abscissas within the reference cell [-1,1]
for the standard point families used when generating reconstruction kernels.
*/
package points

import (
	"errors"
	"fmt"
	"sort"

	"github.com/notargets/goweno/types"
)

const MaxOrder = 64

var (
	ErrUnknownFamily    = errors.New("points: unknown family")
	ErrUnsupportedOrder = errors.New("points: unsupported order")
)

// Points returns the ordered abscissas of family for the given order.
func Points(order int, family types.Family) (xi []float64, err error) {
	var (
		minOrder = 1
	)
	switch family {
	case types.Left:
		return []float64{-1}, nil
	case types.Right:
		return []float64{1}, nil
	case types.GaussLegendre, types.GaussRadau:
	case types.GaussLobatto:
		minOrder = 2
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFamily, family)
	}
	if order < minOrder || order > MaxOrder {
		return nil, fmt.Errorf("%w: %d for %v, need %d <= order <= %d",
			ErrUnsupportedOrder, order, family, minOrder, MaxOrder)
	}
	switch family {
	case types.GaussLegendre:
		xi, _, err = gaussLegendre(order)
	case types.GaussLobatto:
		xi, err = gaussLobatto(order)
	case types.GaussRadau:
		xi, err = gaussRadau(order)
	}
	if err != nil {
		return nil, err
	}
	sort.Float64s(xi)
	return
}

// PointsByName resolves the family label first, e.g. "gauss_lobatto".
func PointsByName(order int, label string) ([]float64, error) {
	f, err := types.NewFamily(label)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownFamily, err)
	}
	return Points(order, f)
}

// Weights returns the quadrature weights matching the Gauss-Legendre abscissas.
func Weights(order int) (w []float64, err error) {
	if order < 1 || order > MaxOrder {
		return nil, fmt.Errorf("%w: %d for %v", ErrUnsupportedOrder, order, types.GaussLegendre)
	}
	_, w, err = gaussLegendre(order)
	return
}

func gaussLegendre(n int) (x, w []float64, err error) {
	X, W, err := JacobiGQ(0, 0, n-1)
	if err != nil {
		return
	}
	return symmetrize(X.Data()), W.Data(), nil
}

func gaussLobatto(n int) (x []float64, err error) {
	X, err := JacobiGL(0, 0, n-1)
	if err != nil {
		return
	}
	return symmetrize(X.Data()), nil
}

// The left end point is fixed, the remaining nodes are the zeros of P(0,1) of degree n-1.
func gaussRadau(n int) (x []float64, err error) {
	x = []float64{-1}
	if n == 1 {
		return
	}
	X, _, err := JacobiGQ(0, 1, n-2)
	if err != nil {
		return
	}
	x = append(x, X.Data()...)
	return
}

// Symmetric families get exact mirror images and an exact zero at the center.
func symmetrize(x []float64) []float64 {
	sort.Float64s(x)
	n := len(x)
	for i := 0; i < n/2; i++ {
		a := 0.5 * (x[n-1-i] - x[i])
		x[i], x[n-1-i] = -a, a
	}
	if n%2 == 1 {
		x[n/2] = 0
	}
	return x
}
