// Package neuralegreedy implements a neural ε-greedy contextual bandit
// agent
package neuralegreedy

import (
	"fmt"

	"github.com/samuelfneumann/gobandit/agent/bandit/greedy"
	"github.com/samuelfneumann/gobandit/policy"
)

// NeuralEGreedy is a Greedy agent that collects experience with an
// ε-greedy policy. With probability ε each action is replaced by an
// action drawn uniformly at random over the whole action range, which
// may be the greedy action. The evaluation policy remains greedy.
//
// Training is that of the wrapped Greedy agent. NeuralEGreedy is not
// safe for concurrent use.
type NeuralEGreedy struct {
	*greedy.Greedy
	collectPolicy *policy.EpsilonGreedy
}

// New returns a new NeuralEGreedy agent collecting experience with an
// ε-greedy version of the policy of g
func New(g *greedy.Greedy, epsilon float64,
	seed uint64) (*NeuralEGreedy, error) {
	collect, err := policy.NewEpsilonGreedy(g.Policy(), epsilon, seed)
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	return &NeuralEGreedy{
		Greedy:        g,
		collectPolicy: collect,
	}, nil
}

// CollectPolicy returns the ε-greedy policy used to collect experience
func (n *NeuralEGreedy) CollectPolicy() policy.Policy {
	return n.collectPolicy
}

// Epsilon returns the probability of taking a random action
func (n *NeuralEGreedy) Epsilon() float64 {
	return n.collectPolicy.Epsilon()
}

// SetEpsilon sets the probability of taking a random action
func (n *NeuralEGreedy) SetEpsilon(epsilon float64) error {
	return n.collectPolicy.SetEpsilon(epsilon)
}
