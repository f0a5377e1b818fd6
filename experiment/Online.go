package experiment

import (
	"context"
	"fmt"

	"github.com/samuelfneumann/gobandit/agent"
	env "github.com/samuelfneumann/gobandit/environment"
	"github.com/samuelfneumann/gobandit/experiment/checkpointer"
	"github.com/samuelfneumann/gobandit/experiment/tracker"
	"github.com/samuelfneumann/gobandit/network"
	"github.com/samuelfneumann/gobandit/policy"
	ts "github.com/samuelfneumann/gobandit/timestep"
)

// Online is an Experiment that runs an agent online. At each step the
// agent's collection policy acts in a batch of contexts and the
// resulting interactions are added to the experience of the agent.
// Whenever enough experience has been collected, the agent is trained
// on it in batches of trainBatch interactions, oldest first.
//
// Online is not safe for concurrent use.
type Online struct {
	env           env.Environment
	agent         agent.Agent
	maxSteps      int
	currentSteps  int
	trainBatch    int
	trainInterval int
	trackers      []tracker.Tracker
	checkpointers []checkpointer.Checkpointer

	step       ts.TimeStep
	state      network.State
	started    bool
	experience *ts.Experience
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given agent. The steps parameter determines how
// many times the agent acts in the environment. The agent is trained
// every trainInterval steps, on batches of trainBatch interactions.
func NewOnline(e env.Environment, a agent.Agent, steps, trainBatch,
	trainInterval int, t []tracker.Tracker,
	c []checkpointer.Checkpointer) (*Online, error) {
	if steps < 1 {
		return nil, fmt.Errorf("newOnline: number of steps must be "+
			"positive\n\twant(>0)\n\thave(%v)", steps)
	}
	if trainBatch < 1 {
		return nil, fmt.Errorf("newOnline: training batch size must be "+
			"positive\n\twant(>0)\n\thave(%v)", trainBatch)
	}
	if trainInterval < 1 {
		trainInterval = 1
	}

	features := e.TimeStepSpec().Features()
	return &Online{
		env:           e,
		agent:         a,
		maxSteps:      steps,
		trainBatch:    trainBatch,
		trainInterval: trainInterval,
		trackers:      t,
		checkpointers: c,
		experience:    ts.NewExperience(features),
	}, nil
}

// Register registers a tracker.Tracker with the experiment so that
// data generated during the experiment can be tracked and saved
func (o *Online) Register(t tracker.Tracker) {
	o.trackers = append(o.trackers, t)
}

// Agent returns the agent run by the experiment
func (o *Online) Agent() agent.Agent {
	return o.agent
}

// CurrentSteps returns the number of steps run so far
func (o *Online) CurrentSteps() int {
	return o.currentSteps
}

// Run runs the experiment until the maximum number of steps has been
// taken. If ctx is cancelled, Run returns the context's error and may
// be called again to continue the experiment.
func (o *Online) Run(ctx context.Context) error {
	for o.currentSteps < o.maxSteps {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := o.Step(); err != nil {
			return fmt.Errorf("run: step %v: %w", o.currentSteps+1, err)
		}
	}
	return nil
}

// Step runs a single step of the experiment
func (o *Online) Step() error {
	if !o.started {
		step, err := o.env.Reset()
		if err != nil {
			return err
		}
		o.step = step
		o.state = policy.InitialState(o.agent.CollectPolicy(),
			step.BatchSize())
		o.started = true
	}

	actions, state, err := policy.Action(o.agent.CollectPolicy(), o.step,
		o.state)
	if err != nil {
		return err
	}
	o.state = state

	// Regret must be computed before stepping, while the environment
	// still holds the contexts the actions were taken in
	var regret []float64
	if r, ok := o.env.(env.Regretter); ok {
		if regret, err = r.Regret(actions); err != nil {
			return err
		}
	}

	next, err := o.env.Step(actions)
	if err != nil {
		return err
	}
	if err := o.experience.Append(o.step, actions, next.Reward); err != nil {
		return err
	}
	o.currentSteps++

	record := tracker.Step{
		Number:  o.currentSteps,
		Actions: actions,
		Reward:  next.Reward,
		Regret:  regret,
	}
	if o.currentSteps%o.trainInterval == 0 {
		if record.Losses, err = o.train(); err != nil {
			return err
		}
	}

	o.track(record)
	o.step = next
	return nil
}

// train trains the agent on all full batches of collected experience
func (o *Online) train() ([]float64, error) {
	var losses []float64
	for o.experience.BatchSize() >= o.trainBatch {
		batch, err := o.experience.Take(o.trainBatch)
		if err != nil {
			return losses, err
		}

		info, err := o.agent.Train(batch)
		if err != nil {
			return losses, err
		}
		losses = append(losses, info.Loss)

		if err := o.checkpoint(o.agent.TrainStep()); err != nil {
			return losses, err
		}
	}
	return losses, nil
}

// Save saves all the data cached by the Trackers to disk
func (o *Online) Save() error {
	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			return fmt.Errorf("save: %w", err)
		}
	}
	return nil
}

// Close releases the resources held by the agent
func (o *Online) Close() error {
	return o.agent.Close()
}

// track sends the data of the current step to each Tracker
func (o *Online) track(step tracker.Step) {
	for _, t := range o.trackers {
		t.Track(step)
	}
}

// checkpoint checkpoints with each Checkpointer
func (o *Online) checkpoint(trainStep int64) error {
	for _, c := range o.checkpointers {
		if err := c.Checkpoint(trainStep); err != nil {
			return err
		}
	}
	return nil
}
