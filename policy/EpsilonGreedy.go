package policy

import (
	"fmt"

	"github.com/samuelfneumann/gobandit/network"
	ts "github.com/samuelfneumann/gobandit/timestep"
	"golang.org/x/exp/rand"
)

// EpsilonGreedy wraps a greedy Policy and, with probability ε,
// replaces each greedy action with an action drawn uniformly at
// random over the whole action range.
//
// With ε = 0, EpsilonGreedy returns exactly the Step of the wrapped
// Policy.
type EpsilonGreedy struct {
	Policy
	epsilon float64
	source  rand.Source

	numActions int
	minAction  int
}

// NewEpsilonGreedy returns a new EpsilonGreedy policy wrapping p
func NewEpsilonGreedy(p Policy, epsilon float64,
	seed uint64) (*EpsilonGreedy, error) {
	if epsilon < 0 || epsilon > 1 {
		return nil, fmt.Errorf("newEpsilonGreedy: %w\n\twant(0 <= ε <= 1)"+
			"\n\thave(%v)", ErrInvalidEpsilon, epsilon)
	}

	leaf, err := validateActionSpec("newEpsilonGreedy", p.ActionSpec())
	if err != nil {
		return nil, err
	}
	n, offset := actionRange(leaf)

	return &EpsilonGreedy{
		Policy:     p,
		epsilon:    epsilon,
		source:     rand.NewSource(seed),
		numActions: n,
		minAction:  offset,
	}, nil
}

// Distribution returns the ε-greedy distribution around the greedy
// action of the wrapped policy
func (e *EpsilonGreedy) Distribution(t ts.TimeStep,
	state network.State) (Step, error) {
	step, err := e.Policy.Distribution(t, state)
	if err != nil {
		return Step{}, err
	}
	if e.epsilon == 0 {
		return step, nil
	}

	greedy, err := NewDeterministic(step.Action.Mode(),
		step.Action.BatchShape())
	if err != nil {
		return Step{}, fmt.Errorf("distribution: %v", err)
	}

	dist, err := NewEGreedy(greedy, e.epsilon, e.minAction, e.numActions,
		e.source)
	if err != nil {
		return Step{}, fmt.Errorf("distribution: %v", err)
	}
	return Step{Action: dist, State: step.State}, nil
}

// Epsilon returns the probability of taking a random action
func (e *EpsilonGreedy) Epsilon() float64 {
	return e.epsilon
}

// SetEpsilon sets the probability of taking a random action
func (e *EpsilonGreedy) SetEpsilon(epsilon float64) error {
	if epsilon < 0 || epsilon > 1 {
		return fmt.Errorf("setEpsilon: %w\n\twant(0 <= ε <= 1)\n\thave(%v)",
			ErrInvalidEpsilon, epsilon)
	}
	e.epsilon = epsilon
	return nil
}

// Wrapped returns the greedy policy being wrapped
func (e *EpsilonGreedy) Wrapped() Policy {
	return e.Policy
}
