package greedy

import (
	"fmt"
	"log"

	"github.com/samuelfneumann/gobandit/agent"
	env "github.com/samuelfneumann/gobandit/environment"
	"github.com/samuelfneumann/gobandit/initwfn"
	"github.com/samuelfneumann/gobandit/loss"
	"github.com/samuelfneumann/gobandit/network"
	"github.com/samuelfneumann/gobandit/policy"
	"github.com/samuelfneumann/gobandit/solver"
)

func init() {
	// Register Config type so that it can be typed using
	// agent.TypedConfig to help with serialization/deserialization.
	agent.Register(agent.GreedyRewardMLP, Config{})
}

// Config implements a configuration for a Greedy agent with a
// multi-layered perceptron reward network
type Config struct {
	Layers      []int                 // Layer sizes in neural net
	Biases      []bool                // Whether each layer should have a bias
	Activations []*network.Activation // Activation of each layer
	Solver      *solver.Solver        // Solver for learning weights

	// Initialization algorithm for weights
	InitWFn *initwfn.InitWFn

	// Loss between observed and predicted rewards, MSE if empty
	Loss loss.Type `json:",omitempty"`

	// Gradients of each variable are rescaled so their L2 norm is at
	// most GradientClipping. Clipping is disabled when <= 0.
	GradientClipping float64 `json:",omitempty"`

	DebugSummaries        bool `json:",omitempty"`
	SummarizeGradsAndVars bool `json:",omitempty"`

	// Number of interactions in each training batch
	BatchSize int

	// Counter of training steps, which may be shared with the caller.
	// A new counter is used if nil.
	TrainStepCounter *int64 `json:"-"`

	// Logger receives debug summaries, defaulting to stderr
	Logger *log.Logger `json:"-"`
}

// Type returns the type of the configuration
func (c Config) Type() agent.Type {
	return agent.GreedyRewardMLP
}

// Validate checks a Config to ensure it is a valid configuration of a
// Greedy agent
func (c Config) Validate() error {
	if len(c.Layers) != len(c.Biases) {
		return fmt.Errorf("validate: invalid number of biases\n\twant(%v)"+
			"\n\thave(%v)", len(c.Layers), len(c.Biases))
	}

	if len(c.Layers) != len(c.Activations) {
		return fmt.Errorf("validate: invalid number of activations"+
			"\n\twant(%v)\n\thave(%v)", len(c.Layers), len(c.Activations))
	}

	for i, size := range c.Layers {
		if size < 1 {
			return fmt.Errorf("validate: layer %v must have a positive "+
				"number of units\n\twant(>0)\n\thave(%v)", i, size)
		}
	}

	if c.Solver == nil || c.Solver.Solver == nil {
		return fmt.Errorf("validate: a solver is required")
	}

	if c.InitWFn == nil || c.InitWFn.InitWFn() == nil {
		return fmt.Errorf("validate: a weight initializer is required")
	}

	if _, err := c.Loss.Func(); err != nil {
		return fmt.Errorf("validate: %v", err)
	}

	if c.BatchSize < 1 {
		return fmt.Errorf("validate: batch size must be positive"+
			"\n\twant(>0)\n\thave(%v)", c.BatchSize)
	}

	return nil
}

// ValidAgent returns whether the agent is valid for the configuration.
// That is, whether Agent a can be constructed with Config c.
func (c Config) ValidAgent(a agent.Agent) bool {
	_, ok := a.(*Greedy)
	return ok
}

// CreateAgent creates a new Greedy agent based on the configuration.
// The reward network predicts the reward of each action in the action
// spec of e from the contexts of e.
func (c Config) CreateAgent(e env.Environment, _ uint64) (agent.Agent,
	error) {
	return c.Create(e)
}

// Create is like CreateAgent but returns the concrete agent
func (c Config) Create(e env.Environment) (*Greedy, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}

	numActions, _, err := policy.NumActions(e.ActionSpec())
	if err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}
	features := e.TimeStepSpec().Features()

	net, err := network.NewRewardMLP(features, numActions, c.BatchSize,
		c.Layers, c.Biases, c.InitWFn.InitWFn(), c.Activations)
	if err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}

	g, err := New(e.TimeStepSpec(), e.ActionSpec(), net, c)
	if err != nil {
		net.Close()
		return nil, fmt.Errorf("create: %w", err)
	}
	return g, nil
}
