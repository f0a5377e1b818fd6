package tracker

import "gonum.org/v1/gonum/stat"

// Reward tracks and saves the mean reward over the batch of contexts
// at each step of an experiment
type Reward struct {
	rewards  []float64
	filename string
}

// NewReward returns a new Reward Tracker which saves its data at
// filename
func NewReward(filename string) *Reward {
	return &Reward{filename: filename}
}

// Track caches the mean reward of the step
func (r *Reward) Track(step Step) {
	if len(step.Reward) == 0 {
		return
	}
	r.rewards = append(r.rewards, stat.Mean(step.Reward, nil))
}

// Data returns the mean rewards tracked so far
func (r *Reward) Data() []float64 {
	return r.rewards
}

// Save saves the tracked rewards to disk
func (r *Reward) Save() error {
	return save(r.filename, r.rewards)
}
