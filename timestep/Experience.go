package timestep

import (
	"fmt"

	"gorgonia.org/tensor"
)

// Experience is a batch of bandit interactions used for training:
// the context that was observed, the action that was taken in that
// context, and the reward that was observed for the action.
//
// Weight scales the contribution of each interaction to the loss. A
// nil Weight means every interaction has unit weight.
type Experience struct {
	Observation *tensor.Dense
	Action      []int
	Reward      []float64
	Weight      []float64

	features int
}

// NewExperience returns an empty Experience that observations with the
// given number of features can be appended to
func NewExperience(features int) *Experience {
	return &Experience{features: features}
}

// BatchSize returns the number of interactions in the Experience
func (e *Experience) BatchSize() int {
	return len(e.Action)
}

// Append adds the interactions of a TimeStep to the Experience. Row i
// of the TimeStep observation was answered by actions[i] and received
// rewards[i].
func (e *Experience) Append(t TimeStep, actions []int,
	rewards []float64) error {
	batch := t.BatchSize()
	if len(actions) != batch || len(rewards) != batch {
		return fmt.Errorf("append: invalid batch\n\twant(%v actions, %v "+
			"rewards)\n\thave(%v actions, %v rewards)", batch, batch,
			len(actions), len(rewards))
	}

	features := t.Features()
	if e.features > 0 && features != e.features {
		return fmt.Errorf("append: invalid number of features"+
			"\n\twant(%v)\n\thave(%v)", e.features, features)
	}
	e.features = features

	obs, err := floats64(t.Observation)
	if err != nil {
		return fmt.Errorf("append: %v", err)
	}
	if e.Observation == nil || e.BatchSize() == 0 {
		data := make([]float64, len(obs))
		copy(data, obs)
		e.Observation = tensor.New(tensor.WithShape(batch, features),
			tensor.WithBacking(data))
	} else {
		old, err := floats64(e.Observation)
		if err != nil {
			return fmt.Errorf("append: %v", err)
		}
		data := make([]float64, 0, len(old)+len(obs))
		data = append(data, old...)
		data = append(data, obs...)
		e.Observation = tensor.New(
			tensor.WithShape(e.BatchSize()+batch, features),
			tensor.WithBacking(data),
		)
	}

	e.Action = append(e.Action, actions...)
	e.Reward = append(e.Reward, rewards...)
	if e.Weight != nil {
		for i := 0; i < batch; i++ {
			e.Weight = append(e.Weight, 1.0)
		}
	}
	return nil
}

// Weights returns the per-interaction loss weights, filling in unit
// weights if none were set
func (e *Experience) Weights() []float64 {
	if e.Weight != nil {
		return e.Weight
	}
	weights := make([]float64, e.BatchSize())
	for i := range weights {
		weights[i] = 1.0
	}
	return weights
}

// Validate returns an error if the Experience is not a well-formed
// batch of observations with the given number of features
func (e *Experience) Validate(features int) error {
	if e.Observation == nil || e.Observation.Dims() != 2 {
		return fmt.Errorf("validate: observation must be a (batch, " +
			"features) matrix")
	}

	shape := e.Observation.Shape()
	if shape[1] != features {
		return fmt.Errorf("validate: invalid number of features"+
			"\n\twant(%v)\n\thave(%v)", features, shape[1])
	}
	if shape[0] != len(e.Action) || shape[0] != len(e.Reward) {
		return fmt.Errorf("validate: ragged batch\n\twant(%v actions and "+
			"rewards)\n\thave(%v actions, %v rewards)", shape[0],
			len(e.Action), len(e.Reward))
	}
	if e.Weight != nil && len(e.Weight) != shape[0] {
		return fmt.Errorf("validate: invalid number of weights"+
			"\n\twant(%v)\n\thave(%v)", shape[0], len(e.Weight))
	}
	return nil
}

// Reset empties the Experience while keeping its feature size
func (e *Experience) Reset() {
	e.Observation = nil
	e.Action = e.Action[:0]
	e.Reward = e.Reward[:0]
	if e.Weight != nil {
		e.Weight = e.Weight[:0]
	}
}

// Take removes the first n interactions from the Experience and
// returns them as a new Experience. The remaining interactions are
// kept in their original order.
func (e *Experience) Take(n int) (*Experience, error) {
	if n < 1 || n > e.BatchSize() {
		return nil, fmt.Errorf("take: cannot take %v interactions from "+
			"batch\n\twant(0 < n <= %v)\n\thave(%v)", n, e.BatchSize(), n)
	}

	obs, err := floats64(e.Observation)
	if err != nil {
		return nil, fmt.Errorf("take: %v", err)
	}
	head := make([]float64, n*e.features)
	copy(head, obs[:n*e.features])

	taken := &Experience{
		Observation: tensor.New(tensor.WithShape(n, e.features),
			tensor.WithBacking(head)),
		Action:   append([]int(nil), e.Action[:n]...),
		Reward:   append([]float64(nil), e.Reward[:n]...),
		features: e.features,
	}
	if e.Weight != nil {
		taken.Weight = append([]float64(nil), e.Weight[:n]...)
	}

	remaining := e.BatchSize() - n
	if remaining == 0 {
		e.Reset()
		return taken, nil
	}

	tail := make([]float64, remaining*e.features)
	copy(tail, obs[n*e.features:])
	e.Observation = tensor.New(tensor.WithShape(remaining, e.features),
		tensor.WithBacking(tail))
	e.Action = append(e.Action[:0], e.Action[n:]...)
	e.Reward = append(e.Reward[:0], e.Reward[n:]...)
	if e.Weight != nil {
		e.Weight = append(e.Weight[:0], e.Weight[n:]...)
	}
	return taken, nil
}

// floats64 returns the data of t as float64s, converting float32 data
func floats64(t *tensor.Dense) ([]float64, error) {
	if t.IsView() {
		t = t.Materialize().(*tensor.Dense)
	}

	switch data := t.Data().(type) {
	case []float64:
		return data, nil
	case []float32:
		converted := make([]float64, len(data))
		for i, v := range data {
			converted[i] = float64(v)
		}
		return converted, nil
	}
	return nil, fmt.Errorf("observation must have dtype %v or %v"+
		"\n\thave(%v)", tensor.Float64, tensor.Float32, t.Dtype())
}
