package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypes(t *testing.T) {
	{ // Family labels round trip through the name map
		tokens := []string{"left", "RIGHT", "gauss_legendre", "lobatto", " gauss_radau "}
		flags := []Family{Left, Right, GaussLegendre, GaussLobatto, GaussRadau}
		for i, token := range tokens {
			f, err := NewFamily(token)
			require.NoError(t, err)
			assert.Equal(t, flags[i], f)
		}
		for _, f := range AllFamilies() {
			ff, err := NewFamily(f.String())
			require.NoError(t, err)
			assert.Equal(t, f, ff)
		}
		_, err := NewFamily("chebyshev")
		assert.Error(t, err)
	}
	{ // Coefficient variant
		c := Lit(0.25)
		v, ok := c.Float()
		assert.True(t, ok)
		assert.Equal(t, 0.25, v)
		assert.False(t, c.IsZero())
		assert.True(t, Lit(0).IsZero())

		c = Text("1.0/3.0")
		assert.False(t, c.IsZero())
		_, ok = c.Float()
		assert.False(t, ok)
		assert.Equal(t, "1.0/3.0", c.String())

		v, ok = Text(" 0.5 ").Float()
		assert.True(t, ok)
		assert.Equal(t, 0.5, v)
	}
	{
		g, err := NewGrid("non-uniform")
		require.NoError(t, err)
		assert.Equal(t, NonUniform, g)
		d, err := NewDataType("single")
		require.NoError(t, err)
		assert.Equal(t, Float32, d)
		assert.Equal(t, "reconstruction", ReconstructionKernel.String())
	}
}
