package network

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/samuelfneumann/gobandit/spec"
	ts "github.com/samuelfneumann/gobandit/timestep"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// decisionNet is a clone of a RewardMLP's training network for a single
// batch size, compiled into its own VM
type decisionNet struct {
	net NeuralNet
	vm  G.VM
}

// RewardMLP is a feed-forward RewardNetwork predicting one reward per
// action with a multi-layered perceptron.
//
// The weights live in a training network with a fixed batch size,
// whose graph a learner adds its loss to. Calls for other batch sizes
// are answered by clones of the training network, each in its own
// graph, whose weights are refreshed from the training network before
// every prediction.
//
// RewardMLP is not safe for concurrent use.
type RewardMLP struct {
	train  NeuralNet
	decide map[int]*decisionNet
}

// NewRewardMLP returns a new RewardMLP taking observations with
// features features and predicting the reward of numActions actions.
// The batch parameter determines the batch size of the training
// network. The hiddenSizes, biases, and activations parameters
// describe the hidden layers, and init the weight initialization.
func NewRewardMLP(features, numActions, batch int, hiddenSizes []int,
	biases []bool, init G.InitWFn,
	activations []*Activation) (*RewardMLP, error) {
	g := G.NewGraph()
	net, err := NewMultiHeadMLP(features, batch, numActions, g, hiddenSizes,
		biases, init, activations)
	if err != nil {
		return nil, fmt.Errorf("newRewardMLP: %v", err)
	}

	return &RewardMLP{
		train:  net,
		decide: make(map[int]*decisionNet),
	}, nil
}

// TrainNet returns the network whose weights are learned
func (r *RewardMLP) TrainNet() NeuralNet {
	return r.train
}

// StateSpec returns the spec of the network state, which is empty
// since the network is feed-forward
func (r *RewardMLP) StateSpec() spec.Nest {
	return spec.Tuple{}
}

// Variables returns the trainable weights of the network
func (r *RewardMLP) Variables() G.Nodes {
	return r.train.Learnables()
}

// Features returns the number of features in a single observation
func (r *RewardMLP) Features() int {
	return r.train.Features()
}

// NumActions returns the number of rewards predicted per observation
func (r *RewardMLP) NumActions() int {
	return r.train.Outputs()
}

// Call predicts the reward of each action for a (batch, features)
// matrix of observations. The returned tensor has shape
// (batch, actions). Step types are ignored and the state is returned
// unchanged.
func (r *RewardMLP) Call(observation *tensor.Dense, _ []ts.StepType,
	state State) (*tensor.Dense, State, error) {
	if observation == nil || observation.Dims() != 2 {
		return nil, state, fmt.Errorf("call: observation must be a " +
			"(batch, features) matrix")
	}
	shape := observation.Shape()
	if shape[1] != r.Features() {
		return nil, state, fmt.Errorf("call: invalid number of features"+
			"\n\twant(%v)\n\thave(%v)", r.Features(), shape[1])
	}
	obs, ok := observation.Data().([]float64)
	if !ok {
		return nil, state, fmt.Errorf("call: observation must have dtype "+
			"%v\n\thave(%v)", tensor.Float64, observation.Dtype())
	}

	d, err := r.decisionNet(shape[0])
	if err != nil {
		return nil, state, fmt.Errorf("call: %v", err)
	}
	if err := d.net.Set(r.train); err != nil {
		return nil, state, fmt.Errorf("call: could not sync weights: %v", err)
	}
	if err := d.net.SetInput(obs); err != nil {
		return nil, state, fmt.Errorf("call: %v", err)
	}

	if err := d.vm.RunAll(); err != nil {
		d.vm.Reset()
		return nil, state, fmt.Errorf("call: could not run forward pass: %v",
			err)
	}
	out, ok := d.net.Output().(*tensor.Dense)
	if !ok {
		d.vm.Reset()
		return nil, state, fmt.Errorf("call: network produced no output")
	}
	prediction := out.Clone().(*tensor.Dense)
	d.vm.Reset()

	return prediction, state, nil
}

// decisionNet returns the decision network for the given batch size,
// creating it if needed
func (r *RewardMLP) decisionNet(batch int) (*decisionNet, error) {
	if d, ok := r.decide[batch]; ok {
		return d, nil
	}

	net, err := r.train.CloneWithBatch(batch)
	if err != nil {
		return nil, err
	}
	d := &decisionNet{net: net, vm: G.NewTapeMachine(net.Graph())}
	r.decide[batch] = d
	return d, nil
}

// Close releases the VMs of the decision networks
func (r *RewardMLP) Close() error {
	var firstErr error
	for batch, d := range r.decide {
		if err := d.vm.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(r.decide, batch)
	}
	return firstErr
}

// GobEncode implements the gob.GobEncoder interface. The architecture
// of the network is encoded followed by the values of its weights.
func (r *RewardMLP) GobEncode() ([]byte, error) {
	net, ok := r.train.(*multiHeadMLP)
	if !ok {
		return nil, fmt.Errorf("gobencode: cannot encode network of type %T",
			r.train)
	}

	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)

	n := len(net.hiddenSizes) - 1 // Final layer is added on construction
	header := []interface{}{
		net.numInputs, net.numOutputs, net.batchSize,
		net.hiddenSizes[:n], net.biases[:n], net.activations[:n],
	}
	for _, field := range header {
		if err := enc.Encode(field); err != nil {
			return nil, fmt.Errorf("gobencode: could not encode "+
				"architecture: %v", err)
		}
	}

	for _, node := range net.Learnables() {
		weights, ok := node.Value().Data().([]float64)
		if !ok {
			return nil, fmt.Errorf("gobencode: learnable %v is not float64",
				node.Name())
		}
		if err := enc.Encode(weights); err != nil {
			return nil, fmt.Errorf("gobencode: could not encode learnable "+
				"%v: %v", node.Name(), err)
		}
	}

	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface
func (r *RewardMLP) GobDecode(in []byte) error {
	dec := gob.NewDecoder(bytes.NewReader(in))

	var features, outputs, batch int
	var hiddenSizes []int
	var biases []bool
	var activations []*Activation
	fields := []interface{}{
		&features, &outputs, &batch, &hiddenSizes, &biases, &activations,
	}
	for _, field := range fields {
		if err := dec.Decode(field); err != nil {
			return fmt.Errorf("gobdecode: could not decode architecture: %v",
				err)
		}
	}

	decoded, err := NewRewardMLP(features, outputs, batch, hiddenSizes,
		biases, G.Zeroes(), activations)
	if err != nil {
		return fmt.Errorf("gobdecode: %v", err)
	}

	for _, node := range decoded.Variables() {
		var weights []float64
		if err := dec.Decode(&weights); err != nil {
			return fmt.Errorf("gobdecode: could not decode learnable %v: %v",
				node.Name(), err)
		}
		value := tensor.New(tensor.WithShape(node.Shape()...),
			tensor.WithBacking(weights))
		if err := G.Let(node, value); err != nil {
			return fmt.Errorf("gobdecode: could not set learnable %v: %v",
				node.Name(), err)
		}
	}

	// Decision VMs of the previous network are not carried over
	if err := r.Close(); err != nil {
		decoded.Close()
		return fmt.Errorf("gobdecode: %v", err)
	}
	*r = *decoded
	return nil
}
