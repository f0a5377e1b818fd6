// Package network implements the function approximators that bandit
// policies use to predict the reward of each action. Networks are
// built as Gorgonia computational graphs so that agents can add a loss
// to the graph of a network and learn its weights.
package network

import (
	"github.com/samuelfneumann/gobandit/spec"
	ts "github.com/samuelfneumann/gobandit/timestep"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// State is the flattened recurrent state of a network. Feed-forward
// networks have an empty State.
type State []*tensor.Dense

// RewardNetwork predicts the expected reward of every action for a
// batch of observations.
//
// Call returns a tensor of reward estimates whose leading dimension is
// the batch dimension and whose trailing dimension indexes actions,
// together with the next State of the network. The trainable weights
// of a RewardNetwork are only changed by a learner, never by Call.
type RewardNetwork interface {
	Call(observation *tensor.Dense, stepType []ts.StepType,
		state State) (*tensor.Dense, State, error)

	// StateSpec describes the State that Call consumes and produces
	StateSpec() spec.Nest

	// Variables returns the trainable weights of the network
	Variables() G.Nodes
}

// Trainable is a RewardNetwork whose weights can be learned. TrainNet
// returns the network whose computational graph a learner should add
// its loss to. Weights learned on the TrainNet are used by all later
// calls to Call.
type Trainable interface {
	RewardNetwork
	TrainNet() NeuralNet
}

// NeuralNet is a neural network populating a Gorgonia computational
// graph. The graph is run externally by a VM; SetInput must be called
// before running the VM, after which Output holds the prediction.
type NeuralNet interface {
	Graph() *G.ExprGraph
	Clone() (NeuralNet, error)
	CloneWithBatch(int) (NeuralNet, error)
	BatchSize() int
	Features() int
	Outputs() int
	SetInput([]float64) error
	Set(NeuralNet) error
	Learnables() G.Nodes
	Model() []G.ValueGrad
	Output() G.Value
	Prediction() *G.Node
}
