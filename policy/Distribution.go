package policy

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Distribution is a distribution over the discrete actions of each
// element in a batch. Actions are returned in row-major order over
// the batch shape.
type Distribution interface {
	// Sample draws one action for each batch element
	Sample() []int

	// Mode returns the most likely action for each batch element
	Mode() []int

	// Prob returns the probability of taking each action in actions
	// for the corresponding batch element
	Prob(actions []int) ([]float64, error)

	// BatchShape returns the shape of the batch the distribution is
	// defined over
	BatchShape() []int
}

// Deterministic is a distribution placing all probability mass on a
// single action per batch element
type Deterministic struct {
	loc   []int
	shape []int
}

// NewDeterministic returns a new Deterministic distribution. The
// batch shape must describe exactly len(loc) elements.
func NewDeterministic(loc, batchShape []int) (*Deterministic, error) {
	size := 1
	for _, dim := range batchShape {
		size *= dim
	}
	if size != len(loc) {
		return nil, fmt.Errorf("newDeterministic: batch shape %v does not "+
			"match the number of actions\n\twant(%v)\n\thave(%v)", batchShape,
			size, len(loc))
	}

	return &Deterministic{
		loc:   append([]int(nil), loc...),
		shape: append([]int(nil), batchShape...),
	}, nil
}

// Sample returns the location of the distribution
func (d *Deterministic) Sample() []int {
	return d.Mode()
}

// Mode returns the location of the distribution
func (d *Deterministic) Mode() []int {
	return append([]int(nil), d.loc...)
}

// Prob returns 1 for each action equal to the location of the
// distribution and 0 otherwise
func (d *Deterministic) Prob(actions []int) ([]float64, error) {
	if len(actions) != len(d.loc) {
		return nil, fmt.Errorf("prob: incorrect number of actions"+
			"\n\twant(%v)\n\thave(%v)", len(d.loc), len(actions))
	}

	probs := make([]float64, len(actions))
	for i := range actions {
		if actions[i] == d.loc[i] {
			probs[i] = 1.0
		}
	}
	return probs, nil
}

// BatchShape returns the batch shape of the distribution
func (d *Deterministic) BatchShape() []int {
	return append([]int(nil), d.shape...)
}

// EGreedy is an ε-greedy distribution. Each batch element takes its
// greedy action with probability 1 - ε and an action drawn uniformly
// at random, possibly the greedy action, with probability ε.
type EGreedy struct {
	greedy     *Deterministic
	epsilon    float64
	minAction  int
	numActions int
	source     rand.Source
}

// NewEGreedy returns a new EGreedy distribution around the greedy
// distribution. Actions are in [minAction, minAction + numActions).
func NewEGreedy(greedy *Deterministic, epsilon float64, minAction,
	numActions int, source rand.Source) (*EGreedy, error) {
	if epsilon < 0 || epsilon > 1 {
		return nil, fmt.Errorf("newEGreedy: %w\n\twant(0 <= ε <= 1)"+
			"\n\thave(%v)", ErrInvalidEpsilon, epsilon)
	}
	if numActions < 1 {
		return nil, fmt.Errorf("newEGreedy: number of actions must be "+
			"positive\n\twant(>0)\n\thave(%v)", numActions)
	}

	return &EGreedy{
		greedy:     greedy,
		epsilon:    epsilon,
		minAction:  minAction,
		numActions: numActions,
		source:     source,
	}, nil
}

// Sample draws one action for each batch element
func (e *EGreedy) Sample() []int {
	greedy := e.greedy.Mode()
	actions := make([]int, len(greedy))

	probs := make([]float64, e.numActions)
	for i, g := range greedy {
		for j := range probs {
			probs[j] = e.epsilon / float64(e.numActions)
		}
		probs[g-e.minAction] += 1 - e.epsilon

		dist := distuv.NewCategorical(probs, e.source)
		actions[i] = int(dist.Rand()) + e.minAction
	}
	return actions
}

// Mode returns the greedy action of each batch element
func (e *EGreedy) Mode() []int {
	return e.greedy.Mode()
}

// Prob returns the probability of taking each action in actions
func (e *EGreedy) Prob(actions []int) ([]float64, error) {
	greedy, err := e.greedy.Prob(actions)
	if err != nil {
		return nil, err
	}

	probs := make([]float64, len(actions))
	for i, a := range actions {
		if a < e.minAction || a >= e.minAction+e.numActions {
			continue
		}
		probs[i] = e.epsilon/float64(e.numActions) + (1-e.epsilon)*greedy[i]
	}
	return probs, nil
}

// BatchShape returns the batch shape of the distribution
func (e *EGreedy) BatchShape() []int {
	return e.greedy.BatchShape()
}

// Epsilon returns the probability of taking a random action
func (e *EGreedy) Epsilon() float64 {
	return e.epsilon
}
