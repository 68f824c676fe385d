package cmd

import (
	"bytes"
	"math"
	"testing"

	"github.com/notargets/goweno/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverge(t *testing.T) {
	{ // Errors fall with resolution at better than third order on smooth data
		cs, err := Converge(3, types.Right, []int{20, 40, 80, 160})
		require.NoError(t, err)
		require.Len(t, cs.rms, 4)
		for i := 1; i < len(cs.rms); i++ {
			assert.Less(t, cs.rms[i], cs.rms[i-1])
			assert.Less(t, cs.maxErr[i], cs.maxErr[i-1])
		}
		orders := cs.Orders()
		require.Len(t, orders, 3)
		assert.Greater(t, orders[2], 2.5)
		var b bytes.Buffer
		cs.Print(&b)
		assert.Contains(t, b.String(), "Order = 3, Family = right")
	}
	{ // High orders on 50 cells are accurate to better than 10^-k at the left edge
		for _, k := range []int{5, 7} {
			cs, err := Converge(k, types.Left, []int{50})
			require.NoError(t, err)
			assert.Less(t, cs.maxErr[0], math.Pow(10, -float64(k)), "k = %d", k)
		}
	}
	{ // Studies survive a CSV round trip
		cs, err := Converge(2, types.Left, []int{20, 40})
		require.NoError(t, err)
		var b bytes.Buffer
		require.NoError(t, cs.WriteCSV(&b))
		studies, err := parseCSV(&b)
		require.NoError(t, err)
		require.Len(t, studies, 1)
		for _, read := range studies {
			assert.Equal(t, cs, read)
		}
	}
	{
		_, err := parseCSV(bytes.NewBufferString("title,cells,k,family,rms,max\nsin,20,3,right,abc,1\n"))
		assert.Error(t, err)
		_, err = Converge(1, types.GaussLegendre, []int{20})
		assert.Error(t, err)
	}
}
