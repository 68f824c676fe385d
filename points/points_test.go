package points

import (
	"math"
	"testing"

	"github.com/notargets/goweno/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoints(t *testing.T) {
	tol := 1.e-12
	{ // End points ignore order
		x, err := Points(7, types.Left)
		require.NoError(t, err)
		assert.Equal(t, []float64{-1}, x)
		x, err = Points(3, types.Right)
		require.NoError(t, err)
		assert.Equal(t, []float64{1}, x)
	}
	{ // Gauss-Legendre, order 3
		x, err := Points(3, types.GaussLegendre)
		require.NoError(t, err)
		require.Len(t, x, 3)
		s := math.Sqrt(3. / 5.)
		assert.InDeltaSlice(t, []float64{-s, 0, s}, x, tol)
		assert.Equal(t, 0., x[1])
	}
	{ // Gauss-Lobatto, order 4
		x, err := Points(4, types.GaussLobatto)
		require.NoError(t, err)
		s := math.Sqrt(1. / 5.)
		assert.InDeltaSlice(t, []float64{-1, -s, s, 1}, x, tol)
	}
	{ // Gauss-Radau, order 3
		x, err := Points(3, types.GaussRadau)
		require.NoError(t, err)
		r6 := math.Sqrt(6.)
		assert.InDeltaSlice(t, []float64{-1, (1 - r6) / 5, (1 + r6) / 5}, x, tol)
	}
	{ // Gauss-Radau, order 2
		x, err := Points(2, types.GaussRadau)
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{-1, 1. / 3.}, x, tol)
	}
	{ // Interior Radau points are the roots of P_{n-1} + P_n
		for order := 2; order <= 10; order++ {
			x, err := Points(order, types.GaussRadau)
			require.NoError(t, err)
			assert.Equal(t, -1., x[0])
			for _, v := range x {
				assert.InDelta(t, 0., legendre(order-1, v)+legendre(order, v), 1.e-11, "order %d, x = %v", order, v)
			}
		}
	}
	{ // Gauss-Jacobi (0,1) weights integrate 1+x exactly
		X, W, err := JacobiGQ(0, 1, 3)
		require.NoError(t, err)
		var sum, first float64
		for i, w := range W.Data() {
			sum += w
			first += w * X.Data()[i]
		}
		assert.InDelta(t, 2., sum, 1.e-12)
		assert.InDelta(t, 2./3., first, 1.e-12)
	}
	{ // All families are ordered and within the cell
		for _, fam := range types.AllFamilies() {
			for order := 2; order <= 12; order++ {
				x, err := Points(order, fam)
				require.NoError(t, err)
				for i, v := range x {
					assert.True(t, v >= -1 && v <= 1)
					if i > 0 {
						assert.Less(t, x[i-1], v)
					}
				}
			}
		}
	}
}

func TestPointsErrors(t *testing.T) {
	{
		_, err := Points(0, types.GaussLegendre)
		assert.ErrorIs(t, err, ErrUnsupportedOrder)
	}
	{
		_, err := Points(1, types.GaussLobatto)
		assert.ErrorIs(t, err, ErrUnsupportedOrder)
	}
	{
		_, err := Points(MaxOrder+1, types.GaussRadau)
		assert.ErrorIs(t, err, ErrUnsupportedOrder)
	}
	{
		_, err := Points(3, types.Family(42))
		assert.ErrorIs(t, err, ErrUnknownFamily)
	}
	{
		_, err := PointsByName(3, "chebyshev")
		assert.ErrorIs(t, err, ErrUnknownFamily)
		x, err := PointsByName(1, "legendre")
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{0}, x, 1.e-15)
	}
}

func TestWeights(t *testing.T) {
	for order := 1; order < 10; order++ {
		w, err := Weights(order)
		require.NoError(t, err)
		sum := 0.
		for _, v := range w {
			sum += v
		}
		assert.InDelta(t, 2., sum, 1.e-12)
	}
	{ // Integrates x^4 exactly with 3 points
		x, _ := Points(3, types.GaussLegendre)
		w, _ := Weights(3)
		var sum float64
		for i := range x {
			sum += w[i] * math.Pow(x[i], 4)
		}
		assert.InDelta(t, 2./5., sum, 1.e-12)
	}
}

// legendre evaluates P_n(x) by the three term recurrence
func legendre(n int, x float64) float64 {
	p0, p1 := 1., x
	if n == 0 {
		return p0
	}
	for j := 1; j < n; j++ {
		p0, p1 = p1, (float64(2*j+1)*x*p1-float64(j)*p0)/float64(j+1)
	}
	return p1
}
