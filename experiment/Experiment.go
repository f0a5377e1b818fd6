// Package experiment implements functionality for running contextual
// bandit experiments
package experiment

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/samuelfneumann/gobandit/agent"
	"github.com/samuelfneumann/gobandit/environment/envconfig"
	"github.com/samuelfneumann/gobandit/experiment/checkpointer"
	"github.com/samuelfneumann/gobandit/experiment/tracker"
	"github.com/samuelfneumann/gobandit/network"
)

// Experiment runs an agent on an environment. Experiments send the
// data of each interaction to Trackers, which cache the data in RAM
// until Save is called. Run runs the experiment until the step limit
// is reached or the context is cancelled.
type Experiment interface {
	Run(ctx context.Context) error

	// Save saves all tracked data to disk
	Save() error

	// Register adds a new tracker.Tracker to the (possibly already
	// running) experiment
	Register(t tracker.Tracker)

	// Agent returns the agent run by the experiment
	Agent() agent.Agent

	// Close releases the resources held by the agent
	Close() error
}

// Type is the type of an experiment
type Type string

const (
	OnlineExp Type = "OnlineExperiment"
)

// Config represents a configuration of an experiment.
//
// The agent is trained every TrainInterval steps once enough experience
// has been collected for a training batch; TrainInterval <= 1 trains as
// often as possible. If CheckpointInterval > 0, the weights of the
// agent's reward network are saved every CheckpointInterval training
// steps to files named CheckpointFile-<step>.bin.
type Config struct {
	Type
	MaxSteps      int
	TrainInterval int `json:",omitempty"`
	EnvConf       envconfig.Config
	AgentConf     agent.TypedConfig

	CheckpointInterval int    `json:",omitempty"`
	CheckpointFile     string `json:",omitempty"`
}

// LoadConfig reads a JSON experiment Config from filename
func LoadConfig(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("loadConfig: %w", err)
	}

	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("loadConfig: could not parse %v: %w",
			filename, err)
	}
	return c, c.Validate()
}

// Validate returns an error if the Config does not describe a valid
// experiment
func (c Config) Validate() error {
	if c.Type != OnlineExp {
		return fmt.Errorf("validate: no such experiment type %q", c.Type)
	}
	if c.MaxSteps < 1 {
		return fmt.Errorf("validate: maximum number of steps must be "+
			"positive\n\twant(>0)\n\thave(%v)", c.MaxSteps)
	}
	if err := c.EnvConf.Validate(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if c.AgentConf.Config == nil {
		return fmt.Errorf("validate: missing agent config")
	}
	if err := c.AgentConf.Validate(); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if c.CheckpointInterval > 0 && c.CheckpointFile == "" {
		return fmt.Errorf("validate: checkpointing requires a filename")
	}
	return nil
}

// CreateExp creates the experiment described by the Config. The
// trackers t are registered with the experiment.
func (c Config) CreateExp(seed uint64, t ...tracker.Tracker) (Experiment,
	error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("createExp: %w", err)
	}

	e, _, err := c.EnvConf.Create(seed)
	if err != nil {
		return nil, fmt.Errorf("createExp: could not create environment: "+
			"%w", err)
	}

	a, err := c.AgentConf.CreateAgent(e, seed)
	if err != nil {
		return nil, fmt.Errorf("createExp: could not create agent: %w", err)
	}

	var check []checkpointer.Checkpointer
	if c.CheckpointInterval > 0 {
		cp, err := c.checkpointer(a)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("createExp: %w", err)
		}
		check = append(check, cp)
	}

	o, err := NewOnline(e, a, c.MaxSteps, trainBatch(a, e.BatchSize()),
		c.TrainInterval, t, check)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("createExp: %w", err)
	}
	return o, nil
}

// checkpointer returns a Checkpointer which saves the reward network
// of a
func (c Config) checkpointer(a agent.Agent) (checkpointer.Checkpointer,
	error) {
	n, ok := a.(interface{ Network() network.Trainable })
	if !ok {
		return nil, fmt.Errorf("checkpointer: agent %T has no reward network",
			a)
	}
	net, ok := n.Network().(checkpointer.Serializable)
	if !ok {
		return nil, fmt.Errorf("checkpointer: cannot serialize network %T",
			n.Network())
	}

	return checkpointer.NewNStep(c.CheckpointInterval, net,
		checkpointer.TrainStepNamer(c.CheckpointFile, ".bin"))
}

// trainBatch returns the training batch size of a, or def if a
// does not specify one
func trainBatch(a agent.Agent, def int) int {
	if b, ok := a.(interface{ BatchSize() int }); ok {
		return b.BatchSize()
	}
	return def
}
