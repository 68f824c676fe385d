package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVector(t *testing.T) {
	v1 := NewVector(3, []float64{1, 2, 3})
	assert.InDelta(t, math.Sqrt(14), v1.Norm(), 1.e-15)

	v2 := NewVector(3, []float64{1, 2, 3}).POW(2)
	assert.Equal(t, []float64{1, 4, 9}, v2.Data())
	v2.Sub(v1).Scale(0.5)
	assert.Equal(t, []float64{0, 1, 3}, v2.Data())

	assert.Equal(t, 8., POW(2, 3))
	assert.Equal(t, 0.25, POW(2, -2))
	assert.Equal(t, 1024., POW(2, 10))
	assert.True(t, IsNan([]float64{0, math.NaN()}))
	assert.False(t, IsNan(v1))
	assert.True(t, IsNan(NewMatrix(1, 1, []float64{math.NaN()})))
}
