package InputParameters

import (
	"testing"

	"github.com/notargets/goweno/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParameters(t *testing.T) {
	{ // Defaults reproduce the classic job
		gp := NewGenerateParameters()
		require.NoError(t, gp.Validate())
		assert.Equal(t, []int{3, 4}, gp.Orders())
		F, err := gp.FamilyList()
		require.NoError(t, err)
		assert.Equal(t, types.AllFamilies(), F)
		assert.Equal(t, []string{"c"}, gp.Targets)
		dt, _ := gp.DataType()
		assert.Equal(t, types.Float64, dt)
		assert.Greater(t, gp.Workers, 0)
	}
	{
		data := []byte(`
Title: "test job"
KMin: 5
KMax: 7
Families: [left, gauss_lobatto]
Targets: [go, opencl]
Precision: single
Fuse: true
OutputDir: /tmp/kernels
`)
		gp := &GenerateParameters{}
		require.NoError(t, gp.Parse(data))
		assert.Equal(t, "test job", gp.Title)
		assert.Equal(t, []int{5, 6, 7}, gp.Orders())
		F, _ := gp.FamilyList()
		assert.Equal(t, []types.Family{types.Left, types.GaussLobatto}, F)
		dt, _ := gp.DataType()
		assert.Equal(t, types.Float32, dt)
		g, _ := gp.GridType()
		assert.Equal(t, types.Uniform, g)
		assert.True(t, gp.Fuse)
		assert.Equal(t, "/tmp/kernels", gp.OutputDir)

		out, err := gp.Marshal()
		require.NoError(t, err)
		again := &GenerateParameters{}
		require.NoError(t, again.Parse(out))
		assert.Equal(t, gp, again)
	}
	{ // Rejections
		gp := &GenerateParameters{}
		assert.Error(t, gp.Parse([]byte("KMin: 1\nKMax: 3\n")))
		gp = &GenerateParameters{}
		assert.Error(t, gp.Parse([]byte("Families: [chebyshev]\n")))
		gp = &GenerateParameters{}
		assert.Error(t, gp.Parse([]byte("Targets: [fortran]\n")))
		gp = &GenerateParameters{}
		assert.Error(t, gp.Parse([]byte("Grid: nonuniform\nFuse: true\n")))
		gp = &GenerateParameters{}
		assert.Error(t, gp.Parse([]byte("KMin: [")))
		gp = &GenerateParameters{}
		require.NoError(t, gp.Parse([]byte("KMin: 6\n")))
		assert.Equal(t, []int{6}, gp.Orders())
	}
}
