// Package linear implements contextual bandit environments whose
// expected rewards are linear in the context
package linear

import (
	"fmt"

	"github.com/samuelfneumann/gobandit/environment"
	"github.com/samuelfneumann/gobandit/spec"
	ts "github.com/samuelfneumann/gobandit/timestep"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
	"gorgonia.org/tensor"
)

// Gaussian is a contextual bandit with linear expected rewards and
// Gaussian reward noise. The reward of action a in context x is
//
//	r(x, a) = θ_aᵀx + ε,	ε ~ N(0, σ²)
//
// where θ_a is row a - MinAction of the parameter matrix.
type Gaussian struct {
	starter environment.Starter
	theta   *mat.Dense // (actions x features)
	noise   distuv.Normal

	batch     int
	minAction int

	timeStepSpec spec.TimeStepSpec
	actionSpec   spec.Spec

	contexts *mat.Dense // (batch x features)
	last     ts.TimeStep
}

// New returns a new Gaussian environment. Row i of theta holds the
// reward parameters of action minAction + i, and each TimeStep holds
// batch contexts sampled from starter.
func New(starter environment.Starter, theta *mat.Dense, minAction, batch int,
	noiseStdDev float64, seed uint64) (*Gaussian, error) {
	actions, features := theta.Dims()
	if features != starter.Features() {
		return nil, fmt.Errorf("new: parameters do not match context size"+
			"\n\twant(%v)\n\thave(%v)", starter.Features(), features)
	}
	if batch < 1 {
		return nil, fmt.Errorf("new: batch size must be positive"+
			"\n\twant(>0)\n\thave(%v)", batch)
	}
	if noiseStdDev < 0 {
		return nil, fmt.Errorf("new: noise standard deviation must be "+
			"non-negative\n\thave(%v)", noiseStdDev)
	}

	actionSpec, err := spec.NewDiscreteAction(minAction, minAction+actions-1)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}
	obsSpec := spec.NewSpec("context", tensor.Shape{features},
		tensor.Float64)

	noise := distuv.Normal{
		Mu:    0,
		Sigma: noiseStdDev,
		Src:   rand.NewSource(seed),
	}

	return &Gaussian{
		starter:      starter,
		theta:        mat.DenseCopyOf(theta),
		noise:        noise,
		batch:        batch,
		minAction:    minAction,
		timeStepSpec: spec.NewTimeStepSpec(obsSpec),
		actionSpec:   actionSpec,
		contexts:     mat.NewDense(batch, features, nil),
	}, nil
}

// NewRandom returns a new Gaussian environment with reward parameters
// sampled from a standard normal distribution
func NewRandom(starter environment.Starter, numActions, minAction,
	batch int, noiseStdDev float64, seed uint64) (*Gaussian, error) {
	if numActions < 1 {
		return nil, fmt.Errorf("newRandom: number of actions must be "+
			"positive\n\twant(>0)\n\thave(%v)", numActions)
	}

	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(seed)}
	params := make([]float64, numActions*starter.Features())
	for i := range params {
		params[i] = normal.Rand()
	}
	theta := mat.NewDense(numActions, starter.Features(), params)

	// Use a different stream for the reward noise
	return New(starter, theta, minAction, batch, noiseStdDev, seed+1)
}

// Reset samples a new batch of contexts
func (g *Gaussian) Reset() (ts.TimeStep, error) {
	obs := g.sampleContexts()

	step, err := ts.Restart(obs, 0)
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %v", err)
	}
	g.last = step
	return step, nil
}

// Step takes one action in each context of the most recent TimeStep
// and returns the rewards together with a new batch of contexts
func (g *Gaussian) Step(actions []int) (ts.TimeStep, error) {
	if g.last.Observation == nil {
		return ts.TimeStep{}, fmt.Errorf("step: environment must be reset " +
			"before stepping")
	}

	expected, err := g.expected(actions)
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("step: %v", err)
	}

	rewards := make([]float64, g.batch)
	for i := range rewards {
		rewards[i] = expected[i] + g.noise.Rand()
	}

	step, err := ts.Transition(g.sampleContexts(), rewards, nil,
		g.last.Number+1)
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("step: %v", err)
	}
	g.last = step
	return step, nil
}

// Regret returns the expected regret of taking actions in the contexts
// of the most recent TimeStep
func (g *Gaussian) Regret(actions []int) ([]float64, error) {
	expected, err := g.expected(actions)
	if err != nil {
		return nil, fmt.Errorf("regret: %v", err)
	}

	all := g.expectedRewards()
	regret := make([]float64, g.batch)
	for i := range regret {
		regret[i] = floats.Max(all.RawRowView(i)) - expected[i]
	}
	return regret, nil
}

// OptimalActions returns the action of largest expected reward in each
// context of the most recent TimeStep
func (g *Gaussian) OptimalActions() []int {
	all := g.expectedRewards()

	actions := make([]int, g.batch)
	for i := range actions {
		actions[i] = floats.MaxIdx(all.RawRowView(i)) + g.minAction
	}
	return actions
}

// expected returns the expected reward of taking action actions[i] in
// context i
func (g *Gaussian) expected(actions []int) ([]float64, error) {
	if len(actions) != g.batch {
		return nil, fmt.Errorf("invalid number of actions\n\twant(%v)"+
			"\n\thave(%v)", g.batch, len(actions))
	}

	numActions, _ := g.theta.Dims()
	all := g.expectedRewards()
	expected := make([]float64, len(actions))
	for i, a := range actions {
		index := a - g.minAction
		if index < 0 || index >= numActions {
			return nil, fmt.Errorf("action %v out of range [%v, %v]", a,
				g.minAction, g.minAction+numActions-1)
		}
		expected[i] = all.At(i, index)
	}
	return expected, nil
}

// expectedRewards returns the (batch x actions) matrix of expected
// rewards in the current contexts
func (g *Gaussian) expectedRewards() *mat.Dense {
	var all mat.Dense
	all.Mul(g.contexts, g.theta.T())
	return &all
}

// sampleContexts samples a new batch of contexts, stores them, and
// returns them as an observation tensor
func (g *Gaussian) sampleContexts() *tensor.Dense {
	features := g.starter.Features()
	for i := 0; i < g.batch; i++ {
		context := g.starter.Start()
		for j := 0; j < features; j++ {
			g.contexts.Set(i, j, context.AtVec(j))
		}
	}

	data := make([]float64, g.batch*features)
	copy(data, g.contexts.RawMatrix().Data)
	return tensor.New(tensor.WithShape(g.batch, features),
		tensor.WithBacking(data))
}

// Theta returns a copy of the reward parameters
func (g *Gaussian) Theta() *mat.Dense {
	return mat.DenseCopyOf(g.theta)
}

// LastTimeStep returns the TimeStep most recently returned
func (g *Gaussian) LastTimeStep() ts.TimeStep {
	return g.last
}

// TimeStepSpec returns the TimeStep spec of the environment
func (g *Gaussian) TimeStepSpec() spec.TimeStepSpec {
	return g.timeStepSpec
}

// ActionSpec returns the action spec of the environment
func (g *Gaussian) ActionSpec() spec.Spec {
	return g.actionSpec
}

// BatchSize returns the number of contexts in each TimeStep
func (g *Gaussian) BatchSize() int {
	return g.batch
}
