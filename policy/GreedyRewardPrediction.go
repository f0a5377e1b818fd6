package policy

import (
	"fmt"

	"github.com/samuelfneumann/gobandit/network"
	"github.com/samuelfneumann/gobandit/spec"
	ts "github.com/samuelfneumann/gobandit/timestep"
	"gonum.org/v1/gonum/floats"
	G "gorgonia.org/gorgonia"
)

// GreedyRewardPrediction is a policy which predicts the reward of each
// action with a reward network and deterministically selects the
// action of largest predicted reward. Ties are broken in favour of
// the lowest action.
//
// The action spec must be a single bounded, discrete, scalar spec.
// Actions are integers in [Minimum, Maximum] of that spec, and the
// reward network must predict Maximum - Minimum + 1 rewards along its
// last output axis.
type GreedyRewardPrediction struct {
	timeStepSpec spec.TimeStepSpec
	actionSpec   spec.Spec
	net          network.RewardNetwork

	numActions   int
	actionOffset int
}

// NewGreedyRewardPrediction returns a new GreedyRewardPrediction
// policy
func NewGreedyRewardPrediction(timeStepSpec spec.TimeStepSpec,
	actionSpec spec.Nest,
	net network.RewardNetwork) (*GreedyRewardPrediction, error) {
	leaf, err := validateActionSpec("newGreedyRewardPrediction", actionSpec)
	if err != nil {
		return nil, err
	}
	if net == nil {
		return nil, fmt.Errorf("newGreedyRewardPrediction: reward network " +
			"cannot be nil")
	}

	n, offset := actionRange(leaf)
	return &GreedyRewardPrediction{
		timeStepSpec: timeStepSpec,
		actionSpec:   leaf,
		net:          net,
		numActions:   n,
		actionOffset: offset,
	}, nil
}

// Distribution returns a Deterministic distribution over the greedy
// action of each observation in the batch. The reward network output
// may be of shape [B, A] or [B, T, A], in which case the distribution
// has batch shape [B] or [B, T] respectively.
func (g *GreedyRewardPrediction) Distribution(t ts.TimeStep,
	state network.State) (Step, error) {
	rewards, nextState, err := g.net.Call(t.Observation, t.StepType, state)
	if err != nil {
		return Step{}, fmt.Errorf("distribution: %v", err)
	}

	shape := rewards.Shape()
	if rank := len(shape); rank < 2 || rank > 3 {
		return Step{}, &OutputError{
			Op:   "distribution",
			Err:  ErrInvalidOutputRank,
			Want: "2 or 3",
			Have: rank,
		}
	}

	outputs := shape[len(shape)-1]
	if outputs != g.numActions {
		return Step{}, &OutputError{
			Op:   "distribution",
			Err:  ErrActionCountMismatch,
			Want: g.numActions,
			Have: outputs,
		}
	}

	data, err := floats64(rewards)
	if err != nil {
		return Step{}, fmt.Errorf("distribution: %v", err)
	}

	actions := make([]int, len(data)/outputs)
	for i := range actions {
		row := data[i*outputs : (i+1)*outputs]
		actions[i] = floats.MaxIdx(row) + g.actionOffset
	}

	dist, err := NewDeterministic(actions, shape[:len(shape)-1])
	if err != nil {
		return Step{}, fmt.Errorf("distribution: %v", err)
	}
	return Step{Action: dist, State: nextState}, nil
}

// NumActions returns the number of discrete actions
func (g *GreedyRewardPrediction) NumActions() int {
	return g.numActions
}

// ActionOffset returns the smallest action, which is added to the
// index of the greedy action
func (g *GreedyRewardPrediction) ActionOffset() int {
	return g.actionOffset
}

// Network returns the reward network of the policy
func (g *GreedyRewardPrediction) Network() network.RewardNetwork {
	return g.net
}

// TimeStepSpec returns the TimeStep spec of the policy
func (g *GreedyRewardPrediction) TimeStepSpec() spec.TimeStepSpec {
	return g.timeStepSpec
}

// ActionSpec returns the action spec of the policy
func (g *GreedyRewardPrediction) ActionSpec() spec.Spec {
	return g.actionSpec
}

// StateSpec returns the state spec of the reward network
func (g *GreedyRewardPrediction) StateSpec() spec.Nest {
	return g.net.StateSpec()
}

// Variables returns the weights of the reward network
func (g *GreedyRewardPrediction) Variables() G.Nodes {
	return g.net.Variables()
}
