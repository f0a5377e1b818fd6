package spec

import (
	"gorgonia.org/tensor"
)

// TimeStepSpec describes the timesteps passed to a policy on each
// decision. Every field describes a single (unbatched) element.
type TimeStepSpec struct {
	Observation Nest
	StepType    Spec
	Reward      Spec
	Discount    Spec
}

// NewTimeStepSpec returns a TimeStepSpec with the given observation
// Spec and the default step type, reward, and discount Specs.
func NewTimeStepSpec(observation Nest) TimeStepSpec {
	stepType, _ := NewBoundedSpec("step_type", tensor.ScalarShape(),
		tensor.Int, 0, 2)
	discount, _ := NewBoundedSpec("discount", tensor.ScalarShape(),
		tensor.Float64, 0, 1)

	return TimeStepSpec{
		Observation: observation,
		StepType:    stepType,
		Reward:      NewSpec("reward", tensor.ScalarShape(), tensor.Float64),
		Discount:    discount,
	}
}

// Features returns the number of scalar observation features in a
// single (unbatched) observation
func (t TimeStepSpec) Features() int {
	features := 0
	for _, leaf := range Flatten(t.Observation) {
		features += leaf.NumElements()
	}
	return features
}
