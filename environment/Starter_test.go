package environment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

func TestUniformStarter(t *testing.T) {
	bounds := []r1.Interval{{Min: -1, Max: 1}, {Min: 2, Max: 3}}
	s := NewUniformStarter(bounds, 1)
	assert.Equal(t, 2, s.Features())

	for i := 0; i < 100; i++ {
		context := s.Start()
		require.Equal(t, 2, context.Len())
		for j, b := range bounds {
			assert.True(t, context.AtVec(j) >= b.Min && context.AtVec(j) <= b.Max)
		}
	}
}

func TestCategoricalStarter(t *testing.T) {
	s, err := NewCategoricalStarter([]float64{0, 1, 3}, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Features())

	const samples = 4000
	counts := make([]float64, s.Features())
	for i := 0; i < samples; i++ {
		context := s.Start()
		assert.Equal(t, 1.0, mat.Sum(context))
		for j := 0; j < context.Len(); j++ {
			counts[j] += context.AtVec(j)
		}
	}

	assert.Equal(t, 0.0, counts[0])
	assert.InDelta(t, 0.25, counts[1]/samples, 0.03)
	assert.InDelta(t, 0.75, counts[2]/samples, 0.03)
}

func TestCategoricalStarterInvalid(t *testing.T) {
	_, err := NewCategoricalStarter(nil, 0)
	assert.Error(t, err)
	_, err = NewCategoricalStarter([]float64{1, -1}, 0)
	assert.Error(t, err)
	_, err = NewCategoricalStarter([]float64{0, 0}, 0)
	assert.Error(t, err)

	s, err := NewUniformCategoricalStarter(4, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, s.Features())
}
