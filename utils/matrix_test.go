package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrix(t *testing.T) {
	// MulVec
	{
		M := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		v := M.MulVec(NewVector(3, []float64{1, 1, 1}))
		assert.Equal(t, []float64{6, 15}, v.Data())
		assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, M.RawMatrix().Data)
	}
	// Square solve
	{
		A := NewMatrix(2, 2, []float64{
			2, 1,
			1, 3,
		})
		x, err := A.SolveLS(NewVector(2, []float64{3, 5}))
		require.NoError(t, err)
		assert.InDelta(t, 0.8, x.AtVec(0), 1.e-14)
		assert.InDelta(t, 1.4, x.AtVec(1), 1.e-14)
	}
	// Tall consistent system recovers the exact solution
	{
		A := NewMatrix(3, 2, []float64{
			1, 0,
			1, 1,
			0, 1,
		})
		x, err := A.SolveLS(NewVector(3, []float64{1, 3, 2}))
		require.NoError(t, err)
		assert.InDelta(t, 1, x.AtVec(0), 1.e-14)
		assert.InDelta(t, 2, x.AtVec(1), 1.e-14)
		r := A.MulVec(x).Sub(NewVector(3, []float64{1, 3, 2}))
		assert.Less(t, r.Norm(), 1.e-14)
	}
	// Singular
	{
		A := NewMatrix(2, 2, []float64{
			1, 2,
			2, 4,
		})
		_, err := A.SolveLS(NewVector(2, []float64{1, 1}))
		assert.Error(t, err)
		assert.True(t, math.IsInf(A.ConditionNumber(), 1) || A.ConditionNumber() > 1.e15)
	}
	{
		S := NewSymTriDiagonal([]float64{1, 2, 3}, []float64{4, 5})
		assert.Equal(t, 4., S.At(1, 0))
		assert.Equal(t, 5., S.At(1, 2))
		assert.Equal(t, 0., S.At(0, 2))
	}
}
