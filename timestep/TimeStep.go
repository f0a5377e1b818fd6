// Package timestep implements timesteps of the agent-environment
// interaction. TimeSteps are batched along their leading dimension so
// that a single TimeStep can carry the contexts of many bandit
// decisions at once.
package timestep

import (
	"fmt"

	"gorgonia.org/tensor"
)

// StepType denotes the type of step that a TimeStep can be, either a
// first environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// TimeStep packages together a batch of timesteps in an environment.
// Row i of Observation belongs with StepType[i], Reward[i], and
// Discount[i].
type TimeStep struct {
	StepType    []StepType
	Reward      []float64
	Discount    []float64
	Observation *tensor.Dense
	Number      int
}

// New returns a new TimeStep and checks that each field has one entry
// per row of the observation batch
func New(t []StepType, r, d []float64, o *tensor.Dense,
	n int) (TimeStep, error) {
	if o == nil || o.Dims() < 1 {
		return TimeStep{}, fmt.Errorf("new: observation must have a " +
			"leading batch dimension")
	}

	batch := o.Shape()[0]
	if len(t) != batch {
		return TimeStep{}, fmt.Errorf("new: invalid number of step types"+
			"\n\twant(%v)\n\thave(%v)", batch, len(t))
	}
	if r != nil && len(r) != batch {
		return TimeStep{}, fmt.Errorf("new: invalid number of rewards"+
			"\n\twant(%v)\n\thave(%v)", batch, len(r))
	}
	if d != nil && len(d) != batch {
		return TimeStep{}, fmt.Errorf("new: invalid number of discounts"+
			"\n\twant(%v)\n\thave(%v)", batch, len(d))
	}

	return TimeStep{t, r, d, o, n}, nil
}

// Restart returns a batch of First TimeSteps with zero reward and unit
// discount for the given observations
func Restart(o *tensor.Dense, n int) (TimeStep, error) {
	if o == nil || o.Dims() < 1 {
		return TimeStep{}, fmt.Errorf("restart: observation must have a " +
			"leading batch dimension")
	}
	batch := o.Shape()[0]

	stepTypes := make([]StepType, batch)
	rewards := make([]float64, batch)
	discounts := make([]float64, batch)
	for i := range discounts {
		stepTypes[i] = First
		discounts[i] = 1.0
	}

	return New(stepTypes, rewards, discounts, o, n)
}

// Transition returns a batch of Mid TimeSteps with the given rewards
// and discounts. A nil discounts means unit discounts.
func Transition(o *tensor.Dense, rewards, discounts []float64,
	n int) (TimeStep, error) {
	if o == nil || o.Dims() < 1 {
		return TimeStep{}, fmt.Errorf("transition: observation must have " +
			"a leading batch dimension")
	}
	batch := o.Shape()[0]

	stepTypes := make([]StepType, batch)
	for i := range stepTypes {
		stepTypes[i] = Mid
	}
	if discounts == nil {
		discounts = make([]float64, batch)
		for i := range discounts {
			discounts[i] = 1.0
		}
	}

	return New(stepTypes, rewards, discounts, o, n)
}

// BatchSize returns the number of timesteps in the batch
func (t TimeStep) BatchSize() int {
	if t.Observation == nil || t.Observation.Dims() < 1 {
		return 0
	}
	return t.Observation.Shape()[0]
}

// First returns whether TimeStep i of the batch is the first in an
// episode
func (t TimeStep) First(i int) bool {
	return t.StepType[i] == First
}

// Mid returns whether TimeStep i of the batch is a middle step in an
// episode
func (t TimeStep) Mid(i int) bool {
	return t.StepType[i] == Mid
}

// Last returns whether TimeStep i of the batch is the last step in an
// episode
func (t TimeStep) Last(i int) bool {
	return t.StepType[i] == Last
}

// Features returns the number of features in a single observation of
// the batch
func (t TimeStep) Features() int {
	batch := t.BatchSize()
	if batch == 0 {
		return 0
	}
	return t.Observation.Shape().TotalSize() / batch
}

func (t TimeStep) String() string {
	str := "TimeStep | Batch: %v  |  Types: %v  |  Rewards:  %.2f  |  " +
		"Step Number:  %v"

	return fmt.Sprintf(str, t.BatchSize(), t.StepType, t.Reward, t.Number)
}
