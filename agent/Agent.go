// Package agent defines the interface of contextual bandit agents
package agent

import (
	"github.com/samuelfneumann/gobandit/policy"
	ts "github.com/samuelfneumann/gobandit/timestep"
)

// LossInfo is the result of a single training step.
//
// Summaries is nil unless the agent was configured to produce debug
// summaries. It then holds the loss and, if requested, the L2 norm of
// each variable and of its gradient, keyed by variable name.
type LossInfo struct {
	Loss      float64
	Summaries map[string]float64
}

// Agent determines the implementation details of a bandit algorithm.
//
// An Agent has an evaluation Policy, which acts greedily with respect
// to what the agent has learned, and a collection Policy used to
// gather experience. Both policies share the weights that Train
// updates. Agents are not safe for concurrent use.
type Agent interface {
	Policy() policy.Policy
	CollectPolicy() policy.Policy

	// Train performs a single update from a batch of experience
	Train(*ts.Experience) (LossInfo, error)

	// TrainStep returns the number of training steps taken so far
	TrainStep() int64

	Close() error
}

// EGreedyAgent is an Agent whose collection policy is ε-greedy, and
// whose ε value can be set and retrieved
type EGreedyAgent interface {
	Agent
	Epsilon() float64
	SetEpsilon(float64) error
}
