package timestep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

func observations(batch, features int, start float64) *tensor.Dense {
	data := make([]float64, batch*features)
	for i := range data {
		data[i] = start + float64(i)
	}
	return tensor.New(tensor.WithShape(batch, features),
		tensor.WithBacking(data))
}

func TestRestart(t *testing.T) {
	step, err := Restart(observations(3, 2, 0), 4)
	require.NoError(t, err)

	assert.Equal(t, 3, step.BatchSize())
	assert.Equal(t, 2, step.Features())
	assert.Equal(t, 4, step.Number)
	assert.Equal(t, []float64{0, 0, 0}, step.Reward)
	assert.Equal(t, []float64{1, 1, 1}, step.Discount)
	for i := 0; i < 3; i++ {
		assert.True(t, step.First(i))
		assert.False(t, step.Mid(i))
		assert.False(t, step.Last(i))
	}

	_, err = Restart(nil, 0)
	assert.Error(t, err)
}

func TestTransition(t *testing.T) {
	step, err := Transition(observations(2, 3, 0), []float64{1, -1}, nil, 5)
	require.NoError(t, err)
	assert.True(t, step.Mid(0))
	assert.True(t, step.Mid(1))
	assert.Equal(t, []float64{1, -1}, step.Reward)
	assert.Equal(t, []float64{1, 1}, step.Discount)
	assert.Equal(t, 5, step.Number)

	_, err = Transition(observations(2, 3, 0), []float64{1}, nil, 0)
	assert.Error(t, err)
	_, err = Transition(nil, nil, nil, 0)
	assert.Error(t, err)
}

func TestNewInvalidBatch(t *testing.T) {
	obs := observations(2, 1, 0)

	_, err := New([]StepType{Mid}, nil, nil, obs, 0)
	assert.Error(t, err)
	_, err = New([]StepType{Mid, Mid}, []float64{1}, nil, obs, 0)
	assert.Error(t, err)
	_, err = New([]StepType{Mid, Mid}, nil, []float64{1, 1, 1}, obs, 0)
	assert.Error(t, err)

	step, err := New([]StepType{Mid, Last}, []float64{1, 2}, nil, obs, 1)
	require.NoError(t, err)
	assert.True(t, step.Mid(0))
	assert.True(t, step.Last(1))
	assert.Equal(t, "Last", Last.String())
}

func TestExperienceAppend(t *testing.T) {
	e := NewExperience(2)
	assert.Equal(t, 0, e.BatchSize())
	assert.Error(t, e.Validate(2))

	first, err := Restart(observations(2, 2, 0), 0)
	require.NoError(t, err)
	second, err := Restart(observations(1, 2, 10), 1)
	require.NoError(t, err)

	require.NoError(t, e.Append(first, []int{0, 1}, []float64{0.5, 1.5}))
	require.NoError(t, e.Append(second, []int{2}, []float64{2.5}))
	require.NoError(t, e.Validate(2))

	assert.Equal(t, 3, e.BatchSize())
	assert.Equal(t, []int{3, 2}, []int(e.Observation.Shape()))
	assert.Equal(t, []float64{0, 1, 2, 3, 10, 11}, e.Observation.Data())
	assert.Equal(t, []int{0, 1, 2}, e.Action)
	assert.Equal(t, []float64{0.5, 1.5, 2.5}, e.Reward)
	assert.Equal(t, []float64{1, 1, 1}, e.Weights())
	assert.Error(t, e.Validate(3))

	// Mismatched actions, rewards, and features
	assert.Error(t, e.Append(first, []int{0}, []float64{0, 0}))
	assert.Error(t, e.Append(first, []int{0, 0}, []float64{0}))
	other, err := Restart(observations(1, 3, 0), 0)
	require.NoError(t, err)
	assert.Error(t, e.Append(other, []int{0}, []float64{0}))

	e.Reset()
	assert.Equal(t, 0, e.BatchSize())
}

func TestExperienceAppendDtypes(t *testing.T) {
	obs := tensor.New(tensor.WithShape(1, 2),
		tensor.WithBacking([]float32{1, 2}))
	step, err := Restart(obs, 0)
	require.NoError(t, err)

	e := NewExperience(2)
	require.NoError(t, e.Append(step, []int{0}, []float64{1}))
	require.NoError(t, e.Append(step, []int{1}, []float64{0}))
	assert.Equal(t, []float64{1, 2, 1, 2}, e.Observation.Data())

	taken, err := e.Take(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, taken.Observation.Data())

	ints := tensor.New(tensor.WithShape(1, 2), tensor.WithBacking([]int{1, 2}))
	step, err = Restart(ints, 0)
	require.NoError(t, err)
	assert.Error(t, e.Append(step, []int{0}, []float64{1}))
	assert.Equal(t, 1, e.BatchSize())
}

func TestExperienceWeights(t *testing.T) {
	step, err := Restart(observations(2, 1, 0), 0)
	require.NoError(t, err)

	e := NewExperience(1)
	require.NoError(t, e.Append(step, []int{0, 0}, []float64{1, 1}))
	e.Weight = []float64{0.5, 2}
	require.NoError(t, e.Append(step, []int{1, 1}, []float64{0, 0}))

	assert.Equal(t, []float64{0.5, 2, 1, 1}, e.Weights())
	require.NoError(t, e.Validate(1))

	e.Weight = e.Weight[:1]
	assert.Error(t, e.Validate(1))
}

func TestExperienceTake(t *testing.T) {
	step, err := Restart(observations(5, 2, 0), 0)
	require.NoError(t, err)

	e := NewExperience(2)
	require.NoError(t, e.Append(step, []int{0, 1, 2, 3, 4},
		[]float64{0, 10, 20, 30, 40}))
	e.Weight = []float64{1, 2, 3, 4, 5}

	batch, err := e.Take(2)
	require.NoError(t, err)
	require.NoError(t, batch.Validate(2))
	assert.Equal(t, []float64{0, 1, 2, 3}, batch.Observation.Data())
	assert.Equal(t, []int{0, 1}, batch.Action)
	assert.Equal(t, []float64{0, 10}, batch.Reward)
	assert.Equal(t, []float64{1, 2}, batch.Weight)

	require.NoError(t, e.Validate(2))
	assert.Equal(t, 3, e.BatchSize())
	assert.Equal(t, []float64{4, 5, 6, 7, 8, 9}, e.Observation.Data())
	assert.Equal(t, []int{2, 3, 4}, e.Action)
	assert.Equal(t, []float64{20, 30, 40}, e.Reward)
	assert.Equal(t, []float64{3, 4, 5}, e.Weight)

	// Taken interactions do not alias the remaining ones
	batch.Action[0] = 9
	assert.Equal(t, []int{2, 3, 4}, e.Action)

	_, err = e.Take(4)
	assert.Error(t, err)
	_, err = e.Take(0)
	assert.Error(t, err)

	rest, err := e.Take(3)
	require.NoError(t, err)
	assert.Equal(t, 3, rest.BatchSize())
	assert.Equal(t, 0, e.BatchSize())

	// The emptied Experience can be appended to again
	require.NoError(t, e.Append(step, []int{0, 0, 0, 0, 0},
		make([]float64, 5)))
	assert.Equal(t, 5, e.BatchSize())
}
