package main

import (
	"fmt"
	"io"

	"github.com/gosuri/uilive"
	"github.com/samuelfneumann/gobandit/experiment/tracker"
	"gonum.org/v1/gonum/stat"
)

// status is a Tracker which prints the progress of a running
// experiment on a single, continuously updated terminal line
type status struct {
	writer   *uilive.Writer
	maxSteps int
	every    int

	// Running statistics over the last reporting window
	reward float64
	regret float64
	loss   float64
	steps  int
	losses int
}

func newStatus(out io.Writer, maxSteps, every int) *status {
	w := uilive.New()
	w.Out = out
	if every < 1 {
		every = 1
	}
	return &status{writer: w, maxSteps: maxSteps, every: every}
}

func (s *status) Start() {
	s.writer.Start()
}

func (s *status) Stop() {
	s.writer.Stop()
}

// Track accumulates the step and prints the window statistics every
// s.every steps
func (s *status) Track(step tracker.Step) {
	s.steps++
	s.reward += stat.Mean(step.Reward, nil)
	if len(step.Regret) > 0 {
		s.regret += stat.Mean(step.Regret, nil)
	}
	for _, l := range step.Losses {
		s.loss += l
		s.losses++
	}

	if step.Number%s.every != 0 && step.Number != s.maxSteps {
		return
	}

	loss := "-"
	if s.losses > 0 {
		loss = fmt.Sprintf("%.4f", s.loss/float64(s.losses))
	}
	fmt.Fprintf(s.writer, "step %v/%v\treward %.4f\tregret %.4f\tloss %v\n",
		step.Number, s.maxSteps, s.reward/float64(s.steps),
		s.regret/float64(s.steps), loss)

	s.reward, s.regret, s.loss = 0, 0, 0
	s.steps, s.losses = 0, 0
}

// Save is a no-op, status only prints
func (s *status) Save() error {
	return nil
}
