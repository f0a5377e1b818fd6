// Package environment outlines the interfaces and structs needed to
// implement concrete contextual bandit environments
package environment

import (
	"github.com/samuelfneumann/gobandit/spec"
	ts "github.com/samuelfneumann/gobandit/timestep"
	"gonum.org/v1/gonum/mat"
)

// Starter implements a distribution of contexts and samples contexts
// for environments
type Starter interface {
	Start() mat.Vector
	Features() int
}

// Environment implements a contextual bandit environment. Each
// TimeStep carries a batch of contexts; Step takes one action per
// context and returns a TimeStep whose Reward holds the reward of each
// action and whose Observation holds the next batch of contexts.
//
// Environments are not safe for concurrent use.
type Environment interface {
	Reset() (ts.TimeStep, error)
	Step(actions []int) (ts.TimeStep, error)

	// LastTimeStep returns the TimeStep most recently returned by Reset
	// or Step
	LastTimeStep() ts.TimeStep

	TimeStepSpec() spec.TimeStepSpec
	ActionSpec() spec.Spec
	BatchSize() int
}

// Regretter is an Environment which knows the expected reward of each
// action and can therefore compute the regret of the actions taken in
// the current contexts
type Regretter interface {
	Environment

	// Regret returns, for each context of the most recent TimeStep,
	// the difference between the largest expected reward and the
	// expected reward of the given action
	Regret(actions []int) ([]float64, error)
}
