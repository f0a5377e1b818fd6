// Package policy implements bandit policies, which map a batch of
// observations to a distribution over discrete actions.
package policy

import (
	"fmt"

	"github.com/samuelfneumann/gobandit/network"
	"github.com/samuelfneumann/gobandit/spec"
	ts "github.com/samuelfneumann/gobandit/timestep"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Step is the output of a Policy decision: a distribution over the
// actions of each element of the batch and the next policy state.
type Step struct {
	Action Distribution
	State  network.State
}

// Policy represents a policy that an agent can have.
//
// A Policy is stateless between calls except through the State
// argument, which callers thread from one call to the next. Policies
// are not safe for concurrent use unless stated otherwise.
type Policy interface {
	// Distribution returns the distribution over actions for each
	// observation in the TimeStep batch
	Distribution(t ts.TimeStep, state network.State) (Step, error)

	TimeStepSpec() spec.TimeStepSpec
	ActionSpec() spec.Spec
	StateSpec() spec.Nest

	// Variables returns the trainable weights the Policy depends on.
	// They are exposed for inspection only.
	Variables() G.Nodes
}

// Action selects actions for a batch of TimeSteps by sampling from the
// distribution of the Policy. The next policy state is returned along
// with the actions.
func Action(p Policy, t ts.TimeStep, state network.State) ([]int,
	network.State, error) {
	step, err := p.Distribution(t, state)
	if err != nil {
		return nil, state, err
	}
	return step.Action.Sample(), step.State, nil
}

// InitialState returns a zero-valued State for batch elements, with
// one tensor per leaf of the StateSpec of the Policy
func InitialState(p Policy, batch int) network.State {
	leaves := spec.Flatten(p.StateSpec())
	state := make(network.State, len(leaves))

	for i, leaf := range leaves {
		shape := append([]int{batch}, leaf.Shape...)
		state[i] = tensor.New(tensor.WithShape(shape...), tensor.Of(leaf.Dtype))
	}
	return state
}

// validateActionSpec checks that actionSpec contains a single bounded,
// discrete, scalar spec and returns it
func validateActionSpec(op string, actionSpec spec.Nest) (spec.Spec, error) {
	flat := spec.Flatten(actionSpec)
	if len(flat) != 1 {
		return spec.Spec{}, &SpecError{
			Op:   op,
			Spec: actionSpec,
			Err:  ErrUnsupportedActionStructure,
		}
	}

	leaf := flat[0]
	if !leaf.IsBounded() || !leaf.IsDiscrete() || leaf.Rank() > 1 ||
		leaf.NumElements() != 1 {
		return spec.Spec{}, &SpecError{
			Op:   op,
			Spec: leaf,
			Err:  ErrUnsupportedActionSpec,
		}
	}
	return leaf, nil
}

// NumActions checks that actionSpec can be used by a discrete bandit
// policy and returns its number of actions and its smallest action
func NumActions(actionSpec spec.Nest) (n, offset int, err error) {
	leaf, err := validateActionSpec("numActions", actionSpec)
	if err != nil {
		return 0, 0, err
	}
	n, offset = actionRange(leaf)
	return n, offset, nil
}

// actionRange returns the number of discrete actions and the minimum
// action of a validated action spec
func actionRange(s spec.Spec) (n, offset int) {
	return int(s.Maximum-s.Minimum) + 1, int(s.Minimum)
}

// floats64 returns the data of a float32 or float64 tensor as a
// contiguous []float64
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
	return nil, fmt.Errorf("tensor must have dtype %v or %v\n\thave(%v)",
		tensor.Float64, tensor.Float32, t.Dtype())
}
