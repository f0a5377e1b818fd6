// Package solver implements functionality to wrap Gorgonia Solvers
// so that they can be JSON serialized into configuration files.
package solver

import (
	"encoding/json"
	"fmt"

	G "gorgonia.org/gorgonia"
)

// Type describes different types of solvers that are available
type Type string

// Available solver types
const (
	Adam    Type = "Adam"
	Vanilla Type = "Vanilla"
	RMSProp Type = "RMSProp"
)

// Solver wraps Gorgonia Solvers so that they can be JSON marshalled and
// unmarshalled.
//
// Clip clips each gradient element to [-Clip, Clip] before the update
// and is disabled when <= 0. Epsilon is the smoothing term of Adam and
// RMSProp, Beta1 and Beta2 the Adam moment decays, and Rho the RMSProp
// decay.
type Solver struct {
	G.Solver `json:"-"`
	Type

	StepSize float64
	Batch    int
	Clip     float64 `json:",omitempty"`
	Epsilon  float64 `json:",omitempty"`
	Beta1    float64 `json:",omitempty"`
	Beta2    float64 `json:",omitempty"`
	Rho      float64 `json:",omitempty"`
}

// NewVanilla returns a new Vanilla (stochastic gradient descent) Solver
func NewVanilla(stepSize float64, batchSize int,
	clip float64) (*Solver, error) {
	return newSolver(Solver{
		Type:     Vanilla,
		StepSize: stepSize,
		Batch:    batchSize,
		Clip:     clip,
	})
}

// NewDefaultAdam returns a new Adam Solver with default hyperparameters
func NewDefaultAdam(stepSize float64, batchSize int) (*Solver, error) {
	return NewAdam(stepSize, 1e-8, 0.9, 0.999, batchSize, -1.0)
}

// NewAdam returns a new Adam Solver
func NewAdam(stepSize, epsilon, beta1, beta2 float64, batchSize int,
	clip float64) (*Solver, error) {
	return newSolver(Solver{
		Type:     Adam,
		StepSize: stepSize,
		Batch:    batchSize,
		Clip:     clip,
		Epsilon:  epsilon,
		Beta1:    beta1,
		Beta2:    beta2,
	})
}

// NewDefaultRMSProp returns a new RMSProp Solver with default
// hyperparameters
func NewDefaultRMSProp(stepSize float64, batchSize int) (*Solver, error) {
	return NewRMSProp(stepSize, 1e-8, 0.999, batchSize, -1.0)
}

// NewRMSProp returns a new RMSProp Solver
func NewRMSProp(stepSize, epsilon, rho float64, batchSize int,
	clip float64) (*Solver, error) {
	return newSolver(Solver{
		Type:     RMSProp,
		StepSize: stepSize,
		Batch:    batchSize,
		Clip:     clip,
		Epsilon:  epsilon,
		Rho:      rho,
	})
}

// newSolver validates the hyperparameters of s and creates the
// wrapped Gorgonia Solver
func newSolver(s Solver) (*Solver, error) {
	if err := s.create(); err != nil {
		return nil, err
	}
	return &s, nil
}

// create creates the Gorgonia Solver described by the hyperparameters
func (s *Solver) create() error {
	if s.StepSize <= 0 {
		return fmt.Errorf("create: step size must be positive\n\twant(>0)"+
			"\n\thave(%v)", s.StepSize)
	}
	if s.Batch < 1 {
		return fmt.Errorf("create: batch size must be positive\n\twant(>0)"+
			"\n\thave(%v)", s.Batch)
	}

	opts := []G.SolverOpt{
		G.WithLearnRate(s.StepSize),
		G.WithBatchSize(float64(s.Batch)),
	}
	if s.Clip > 0 {
		opts = append(opts, G.WithClip(s.Clip))
	}

	switch s.Type {
	case Vanilla:
		s.Solver = G.NewVanillaSolver(opts...)

	case Adam:
		opts = append(opts, G.WithEps(s.Epsilon), G.WithBeta1(s.Beta1),
			G.WithBeta2(s.Beta2))
		s.Solver = G.NewAdamSolver(opts...)

	case RMSProp:
		opts = append(opts, G.WithEps(s.Epsilon), G.WithRho(s.Rho))
		s.Solver = G.NewRMSPropSolver(opts...)

	default:
		return fmt.Errorf("create: no such solver type %q", s.Type)
	}
	return nil
}

// String implements the fmt.Stringer interface
func (s *Solver) String() string {
	return fmt.Sprintf("{%v Solver: step size=%v batch=%v}", s.Type,
		s.StepSize, s.Batch)
}

// UnmarshalJSON implements the json.Unmarshaller interface
func (s *Solver) UnmarshalJSON(data []byte) error {
	// Alias avoids recursing into this method
	type config Solver
	var c config
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}

	*s = Solver(c)
	return s.create()
}
