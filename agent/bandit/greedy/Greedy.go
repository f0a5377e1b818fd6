// Package greedy implements a contextual bandit agent which learns to
// predict the reward of each action with a neural network and acts
// greedily with respect to its predictions.
package greedy

import (
	"fmt"
	"log"
	"os"
	"sync/atomic"

	"github.com/samuelfneumann/gobandit/agent"
	"github.com/samuelfneumann/gobandit/network"
	"github.com/samuelfneumann/gobandit/policy"
	"github.com/samuelfneumann/gobandit/spec"
	ts "github.com/samuelfneumann/gobandit/timestep"
	"gonum.org/v1/gonum/floats"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Greedy implements a greedy reward prediction agent. The agent
// regresses the reward observed for each action taken onto the reward
// its network predicts for that action, and selects the action of
// largest predicted reward.
//
// Greedy is not safe for concurrent use.
type Greedy struct {
	policy *policy.GreedyRewardPrediction
	net    network.Trainable

	// Network whose weights are adapted, with the loss of the predicted
	// rewards of the actions taken added to its graph
	trainNet   network.NeuralNet
	trainNetVM G.VM
	solver     G.Solver

	// actionsTaken holds one-hot encodings of the actions taken
	actionsTaken *G.Node
	rewards      *G.Node
	weights      *G.Node
	cost         *G.Node
	costVal      G.Value

	batchSize  int
	features   int
	numActions int
	offset     int

	gradientClipping float64
	debugSummaries   bool
	summarize        bool
	logger           *log.Logger

	trainStep *int64
}

// New creates and returns a new Greedy agent which learns the weights
// of net. Only the Solver, Loss, GradientClipping, debug, counter, and
// logger fields of the Config are used; the batch size of the agent is
// the batch size of the training network of net.
func New(timeStepSpec spec.TimeStepSpec, actionSpec spec.Nest,
	net network.Trainable, config Config) (*Greedy, error) {
	if config.Solver == nil || config.Solver.Solver == nil {
		return nil, fmt.Errorf("new: a solver is required")
	}
	lossFn, err := config.Loss.Func()
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	greedy, err := policy.NewGreedyRewardPrediction(timeStepSpec, actionSpec,
		net)
	if err != nil {
		return nil, err
	}
	numActions := greedy.NumActions()

	trainNet := net.TrainNet()
	if trainNet.Outputs() != numActions {
		return nil, fmt.Errorf("new: reward network does not predict the "+
			"reward of each action\n\twant(%v)\n\thave(%v)", numActions,
			trainNet.Outputs())
	}
	if trainNet.Features() != timeStepSpec.Features() {
		return nil, fmt.Errorf("new: invalid number of reward network "+
			"features\n\twant(%v)\n\thave(%v)", timeStepSpec.Features(),
			trainNet.Features())
	}

	g := trainNet.Graph()
	batchSize := trainNet.BatchSize()

	actionsTaken := G.NewMatrix(
		g,
		tensor.Float64,
		G.WithName("actionsTaken"),
		G.WithShape(batchSize, numActions),
		G.WithInit(G.Zeroes()),
	)
	rewards := G.NewVector(g, tensor.Float64, G.WithShape(batchSize),
		G.WithName("reward"), G.WithInit(G.Zeroes()))
	weights := G.NewVector(g, tensor.Float64, G.WithShape(batchSize),
		G.WithName("weight"), G.WithInit(G.Zeroes()))

	// Predicted reward of the action taken in each context
	predicted, err := G.HadamardProd(trainNet.Prediction(), actionsTaken)
	if err != nil {
		return nil, fmt.Errorf("new: could not select predicted rewards: %v",
			err)
	}
	predicted, err = G.Sum(predicted, 1)
	if err != nil {
		return nil, fmt.Errorf("new: could not select predicted rewards: %v",
			err)
	}

	cost, err := lossFn(rewards, predicted, weights)
	if err != nil {
		return nil, fmt.Errorf("new: could not compute loss: %v", err)
	}

	a := &Greedy{
		policy:           greedy,
		net:              net,
		trainNet:         trainNet,
		solver:           config.Solver,
		actionsTaken:     actionsTaken,
		rewards:          rewards,
		weights:          weights,
		cost:             cost,
		batchSize:        batchSize,
		features:         trainNet.Features(),
		numActions:       numActions,
		offset:           greedy.ActionOffset(),
		gradientClipping: config.GradientClipping,
		debugSummaries:   config.DebugSummaries,
		summarize:        config.SummarizeGradsAndVars,
		logger:           config.Logger,
		trainStep:        config.TrainStepCounter,
	}
	G.Read(cost, &a.costVal)

	if _, err := G.Grad(cost, trainNet.Learnables()...); err != nil {
		return nil, fmt.Errorf("new: could not compute gradient: %v", err)
	}

	a.trainNetVM = G.NewTapeMachine(
		g,
		G.BindDualValues(trainNet.Learnables()...),
	)

	if a.trainStep == nil {
		a.trainStep = new(int64)
	}
	if a.logger == nil {
		a.logger = log.New(os.Stderr, "greedy: ", log.LstdFlags)
	}

	return a, nil
}

// Train performs a single update of the reward network weights using
// a batch of experience, which must have the batch size of the agent.
func (g *Greedy) Train(e *ts.Experience) (agent.LossInfo, error) {
	if err := e.Validate(g.features); err != nil {
		return agent.LossInfo{}, fmt.Errorf("train: %v", err)
	}
	if e.BatchSize() != g.batchSize {
		return agent.LossInfo{}, fmt.Errorf("train: invalid batch size"+
			"\n\twant(%v)\n\thave(%v)", g.batchSize, e.BatchSize())
	}

	obs, ok := e.Observation.Data().([]float64)
	if !ok {
		return agent.LossInfo{}, fmt.Errorf("train: observations must have "+
			"dtype %v\n\thave(%v)", tensor.Float64, e.Observation.Dtype())
	}

	actions := make([]float64, g.batchSize*g.numActions)
	for i, a := range e.Action {
		index := a - g.offset
		if index < 0 || index >= g.numActions {
			return agent.LossInfo{}, fmt.Errorf("train: action %v out of "+
				"range [%v, %v]", a, g.offset, g.offset+g.numActions-1)
		}
		actions[i*g.numActions+index] = 1.0
	}

	if err := g.trainNet.SetInput(append([]float64(nil), obs...)); err != nil {
		return agent.LossInfo{}, fmt.Errorf("train: could not set input: %v",
			err)
	}

	inputs := []struct {
		node *G.Node
		data []float64
	}{
		{g.actionsTaken, actions},
		{g.rewards, append([]float64(nil), e.Reward...)},
		{g.weights, append([]float64(nil), e.Weights()...)},
	}
	for _, in := range inputs {
		value := tensor.New(tensor.WithShape(in.node.Shape()...),
			tensor.WithBacking(in.data))
		if err := G.Let(in.node, value); err != nil {
			return agent.LossInfo{}, fmt.Errorf("train: could not set %v: %v",
				in.node.Name(), err)
		}
	}

	if err := g.trainNetVM.RunAll(); err != nil {
		g.trainNetVM.Reset()
		return agent.LossInfo{}, fmt.Errorf("train: could not compute "+
			"gradient: %v", err)
	}

	cost, ok := g.costVal.Data().(float64)
	if !ok {
		g.trainNetVM.Reset()
		return agent.LossInfo{}, fmt.Errorf("train: loss is not a scalar")
	}
	info := agent.LossInfo{Loss: cost}

	if g.debugSummaries {
		info.Summaries = map[string]float64{"loss": cost}
		if g.summarize {
			if err := g.summarizeGradsAndVars(info.Summaries); err != nil {
				g.trainNetVM.Reset()
				return agent.LossInfo{}, fmt.Errorf("train: %v", err)
			}
		}
	}

	if g.gradientClipping > 0 {
		if err := g.clipGradients(); err != nil {
			g.trainNetVM.Reset()
			return agent.LossInfo{}, fmt.Errorf("train: %v", err)
		}
	}

	if err := g.solver.Step(g.trainNet.Model()); err != nil {
		g.trainNetVM.Reset()
		return agent.LossInfo{}, fmt.Errorf("train: could not step "+
			"solver: %v", err)
	}
	g.trainNetVM.Reset()

	step := atomic.AddInt64(g.trainStep, 1)
	if g.debugSummaries {
		g.logger.Printf("train step %v: loss=%.6f", step, cost)
	}

	return info, nil
}

// clipGradients rescales the gradient of each learnable so that its
// L2 norm is at most the clipping value
func (g *Greedy) clipGradients() error {
	for _, node := range g.trainNet.Learnables() {
		grad, err := gradData(node)
		if err != nil {
			return err
		}

		if norm := floats.Norm(grad, 2); norm > g.gradientClipping {
			floats.Scale(g.gradientClipping/norm, grad)
		}
	}
	return nil
}

// summarizeGradsAndVars adds the L2 norm of each learnable and its
// gradient to summaries
func (g *Greedy) summarizeGradsAndVars(summaries map[string]float64) error {
	for _, node := range g.trainNet.Learnables() {
		grad, err := gradData(node)
		if err != nil {
			return err
		}
		weights, ok := node.Value().Data().([]float64)
		if !ok {
			return fmt.Errorf("learnable %v is not float64", node.Name())
		}

		summaries[node.Name()+"/norm"] = floats.Norm(weights, 2)
		summaries[node.Name()+"/grad_norm"] = floats.Norm(grad, 2)
	}
	return nil
}

// gradData returns the backing data of the gradient of a learnable
func gradData(node *G.Node) ([]float64, error) {
	grad, err := node.Grad()
	if err != nil {
		return nil, fmt.Errorf("could not get gradient of %v: %v",
			node.Name(), err)
	}
	data, ok := grad.Data().([]float64)
	if !ok {
		return nil, fmt.Errorf("gradient of %v is not float64", node.Name())
	}
	return data, nil
}

// Policy returns the greedy policy of the agent
func (g *Greedy) Policy() policy.Policy {
	return g.policy
}

// CollectPolicy returns the policy used to collect experience, which
// is the greedy policy
func (g *Greedy) CollectPolicy() policy.Policy {
	return g.policy
}

// TrainStep returns the number of training steps taken
func (g *Greedy) TrainStep() int64 {
	return atomic.LoadInt64(g.trainStep)
}

// Network returns the reward network of the agent
func (g *Greedy) Network() network.Trainable {
	return g.net
}

// BatchSize returns the number of interactions in each training batch
func (g *Greedy) BatchSize() int {
	return g.batchSize
}

// Close releases the VMs of the agent
func (g *Greedy) Close() error {
	err := g.trainNetVM.Close()
	if closer, ok := g.net.(interface{ Close() error }); ok {
		if closeErr := closer.Close(); err == nil {
			err = closeErr
		}
	}
	return err
}
