package linear

import (
	"testing"

	"github.com/samuelfneumann/gobandit/environment"
	ts "github.com/samuelfneumann/gobandit/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// newOneHot returns a noiseless environment over one-hot contexts,
// in which the expected reward of action a in context i is theta[a][i]
func newOneHot(t *testing.T, batch int, noise float64) *Gaussian {
	starter, err := environment.NewUniformCategoricalStarter(2, 1)
	require.NoError(t, err)

	theta := mat.NewDense(3, 2, []float64{
		1, 0,
		0, 2,
		0.5, 0.5,
	})
	g, err := New(starter, theta, 1, batch, noise, 2)
	require.NoError(t, err)
	return g
}

// hot returns the index of the hot feature of each context of step
func hot(step ts.TimeStep) []int {
	obs := step.Observation.Data().([]float64)
	features := step.Features()

	indices := make([]int, step.BatchSize())
	for i := range indices {
		for j := 0; j < features; j++ {
			if obs[i*features+j] == 1 {
				indices[i] = j
			}
		}
	}
	return indices
}

func TestGaussianSpecs(t *testing.T) {
	g := newOneHot(t, 4, 0)

	action := g.ActionSpec()
	assert.True(t, action.IsDiscrete())
	assert.True(t, action.IsBounded())
	assert.Equal(t, 1.0, action.Minimum)
	assert.Equal(t, 3.0, action.Maximum)
	assert.Equal(t, 2, g.TimeStepSpec().Features())
	assert.Equal(t, 4, g.BatchSize())
}

func TestGaussianStep(t *testing.T) {
	g := newOneHot(t, 16, 0)

	_, err := g.Step(make([]int, 16))
	assert.Error(t, err, "stepping before reset")

	step, err := g.Reset()
	require.NoError(t, err)
	assert.Equal(t, 16, step.BatchSize())
	assert.True(t, step.First(0))
	assert.Equal(t, step, g.LastTimeStep())

	// Action 2 yields 0 in context 0 and 2 in context 1, action 3
	// yields 0.5 everywhere
	contexts := hot(step)
	actions := make([]int, 16)
	for i := range actions {
		actions[i] = 2 + i%2
	}

	regret, err := g.Regret(actions)
	require.NoError(t, err)
	optimal := g.OptimalActions()

	next, err := g.Step(actions)
	require.NoError(t, err)
	assert.Equal(t, 1, next.Number)
	assert.True(t, next.Mid(0))
	assert.Equal(t, next, g.LastTimeStep())

	for i, c := range contexts {
		var want float64
		switch {
		case actions[i] == 3:
			want = 0.5
		case c == 1:
			want = 2
		}
		assert.Equal(t, want, next.Reward[i], "context %v action %v", c,
			actions[i])

		best := []float64{1, 2}[c]
		assert.InDelta(t, best-want, regret[i], 1e-12)
		assert.Equal(t, []int{1, 2}[c], optimal[i])
	}
}

func TestGaussianInvalidActions(t *testing.T) {
	g := newOneHot(t, 2, 0)
	_, err := g.Reset()
	require.NoError(t, err)

	_, err = g.Step([]int{1})
	assert.Error(t, err)
	_, err = g.Step([]int{0, 1})
	assert.Error(t, err)
	_, err = g.Regret([]int{1, 4})
	assert.Error(t, err)
}

func TestGaussianNoise(t *testing.T) {
	const batch = 2000
	g := newOneHot(t, batch, 0.5)
	_, err := g.Reset()
	require.NoError(t, err)

	actions := make([]int, batch)
	for i := range actions {
		actions[i] = 3
	}
	step, err := g.Step(actions)
	require.NoError(t, err)

	mean, std := stat.MeanStdDev(step.Reward, nil)
	assert.InDelta(t, 0.5, mean, 0.05)
	assert.InDelta(t, 0.5, std, 0.05)
}

func TestNewInvalid(t *testing.T) {
	starter, err := environment.NewUniformCategoricalStarter(2, 1)
	require.NoError(t, err)

	_, err = New(starter, mat.NewDense(2, 3, nil), 0, 1, 0, 0)
	assert.Error(t, err)
	_, err = New(starter, mat.NewDense(2, 2, nil), 0, 0, 0, 0)
	assert.Error(t, err)
	_, err = New(starter, mat.NewDense(2, 2, nil), 0, 1, -1, 0)
	assert.Error(t, err)
	_, err = NewRandom(starter, 0, 0, 1, 0, 0)
	assert.Error(t, err)

	g, err := NewRandom(starter, 5, -2, 3, 0, 0)
	require.NoError(t, err)
	rows, cols := g.Theta().Dims()
	assert.Equal(t, 5, rows)
	assert.Equal(t, 2, cols)
}
