// Package envconfig provides configuration structs for configuring
// bandit environments. Environment configurations in this package are
// JSON serializable.
package envconfig

import (
	"fmt"

	env "github.com/samuelfneumann/gobandit/environment"
	"github.com/samuelfneumann/gobandit/environment/linear"
	ts "github.com/samuelfneumann/gobandit/timestep"
	"gonum.org/v1/gonum/spatial/r1"
)

// EnvName stores the name of environments that can be configured with
// this package
type EnvName string

// Environments available for configuration
const (
	LinearGaussian EnvName = "LinearGaussian"
)

// ContextName stores the context distributions that can be configured
// with this package
type ContextName string

// Context distributions available for configuration
const (
	Uniform     ContextName = "Uniform"
	Categorical ContextName = "Categorical"
)

// Config implements a specific configuration of a bandit environment.
//
// Uniform contexts are sampled from [-ContextBound, ContextBound] in
// each feature. Categorical contexts are one-hot with equally likely
// categories, and ignore ContextBound.
type Config struct {
	Environment  EnvName
	Contexts     ContextName
	Features     int
	Actions      int
	MinAction    int
	Batch        int
	NoiseStdDev  float64
	ContextBound float64 `json:",omitempty"`
}

// NewConfig returns a new environment Config
func NewConfig(envName EnvName, contexts ContextName, features, actions,
	minAction, batch int, noiseStdDev float64) Config {
	return Config{
		Environment:  envName,
		Contexts:     contexts,
		Features:     features,
		Actions:      actions,
		MinAction:    minAction,
		Batch:        batch,
		NoiseStdDev:  noiseStdDev,
		ContextBound: 1.0,
	}
}

// Validate returns an error if the Config does not describe a valid
// environment
func (c Config) Validate() error {
	if c.Environment != LinearGaussian {
		return fmt.Errorf("validate: no such environment %q", c.Environment)
	}
	if c.Features < 1 {
		return fmt.Errorf("validate: number of features must be positive"+
			"\n\twant(>0)\n\thave(%v)", c.Features)
	}
	if c.Actions < 1 {
		return fmt.Errorf("validate: number of actions must be positive"+
			"\n\twant(>0)\n\thave(%v)", c.Actions)
	}
	if c.Batch < 1 {
		return fmt.Errorf("validate: batch size must be positive"+
			"\n\twant(>0)\n\thave(%v)", c.Batch)
	}
	if c.NoiseStdDev < 0 {
		return fmt.Errorf("validate: noise standard deviation must be "+
			"non-negative\n\twant(>=0)\n\thave(%v)", c.NoiseStdDev)
	}

	switch c.Contexts {
	case Uniform, "", Categorical:
	default:
		return fmt.Errorf("validate: no such context distribution %q",
			c.Contexts)
	}
	return nil
}

// Create returns the environment described by the Config as well as
// the first timestep of the environment.
func (c Config) Create(seed uint64) (env.Environment, ts.TimeStep, error) {
	if err := c.Validate(); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %v", err)
	}

	starter, err := c.starter(seed)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %v", err)
	}

	e, err := linear.NewRandom(starter, c.Actions, c.MinAction, c.Batch,
		c.NoiseStdDev, seed+1)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %v", err)
	}

	step, err := e.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %v", err)
	}
	return e, step, nil
}

// starter returns the context distribution of the Config
func (c Config) starter(seed uint64) (env.Starter, error) {
	if c.Contexts == Categorical {
		return env.NewUniformCategoricalStarter(c.Features, seed)
	}

	bound := c.ContextBound
	if bound <= 0 {
		bound = 1.0
	}
	bounds := make([]r1.Interval, c.Features)
	for i := range bounds {
		bounds[i] = r1.Interval{Min: -bound, Max: bound}
	}
	return env.NewUniformStarter(bounds, seed), nil
}
