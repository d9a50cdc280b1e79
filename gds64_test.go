package gdsii

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGDS64RoundTrip(t *testing.T) {
	values := []float64{0, 1, -1, 0.5, 2.4, 1000, -1000, 3.14159265, 1.0 / 3.0, 1e-6, 1e6}
	for _, v := range values {
		bits, err := ToGDS64(v)
		require.NoError(t, err)
		got := FromGDS64(bits)
		if v == 0 {
			// relative error is undefined at zero; zero must come back exactly
			assert.Equal(t, v, got, "round-trip of %v", v)
			continue
		}
		assert.InEpsilon(t, v, got, 1e-13, "round-trip of %v", v)
	}
}

func TestGDS64Zero(t *testing.T) {
	bits, err := ToGDS64(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), bits)
	assert.Equal(t, float64(0), FromGDS64(0))
}

func TestGDS64RejectsNonFinite(t *testing.T) {
	_, err := ToGDS64(math.NaN())
	assert.Error(t, err)
	_, err = ToGDS64(math.Inf(1))
	assert.Error(t, err)
}

func TestGDS64UnderflowClampsToZero(t *testing.T) {
	bits, err := ToGDS64(1e-300)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), bits)
}
