package neuralegreedy

import (
	"fmt"

	"github.com/samuelfneumann/gobandit/agent"
	"github.com/samuelfneumann/gobandit/agent/bandit/greedy"
	env "github.com/samuelfneumann/gobandit/environment"
	"github.com/samuelfneumann/gobandit/policy"
)

func init() {
	// Register Config type so that it can be typed using
	// agent.TypedConfig to help with serialization/deserialization.
	agent.Register(agent.NeuralEGreedyMLP, Config{})
}

// Config implements a configuration for a NeuralEGreedy agent. The
// embedded greedy Config describes the reward network and how it is
// trained.
type Config struct {
	greedy.Config
	Epsilon float64 // Collection policy epsilon
}

// Type returns the type of the configuration
func (c Config) Type() agent.Type {
	return agent.NeuralEGreedyMLP
}

// Validate checks a Config to ensure it is a valid configuration of a
// NeuralEGreedy agent
func (c Config) Validate() error {
	if err := c.Config.Validate(); err != nil {
		return err
	}

	if c.Epsilon < 0 || c.Epsilon > 1 {
		return fmt.Errorf("validate: %w\n\twant(0 <= ε <= 1)\n\thave(%v)",
			policy.ErrInvalidEpsilon, c.Epsilon)
	}
	return nil
}

// ValidAgent returns whether the agent is valid for the configuration.
// That is, whether Agent a can be constructed with Config c.
func (c Config) ValidAgent(a agent.Agent) bool {
	_, ok := a.(*NeuralEGreedy)
	return ok
}

// CreateAgent creates a new NeuralEGreedy agent based on the
// configuration
func (c Config) CreateAgent(e env.Environment, seed uint64) (agent.Agent,
	error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("createAgent: %w", err)
	}

	g, err := c.Config.Create(e)
	if err != nil {
		return nil, fmt.Errorf("createAgent: %w", err)
	}

	a, err := New(g, c.Epsilon, seed)
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("createAgent: %w", err)
	}
	return a, nil
}
