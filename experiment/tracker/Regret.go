package tracker

import "gonum.org/v1/gonum/stat"

// Regret tracks and saves the mean regret over the batch of contexts
// at each step of an experiment. Steps without regret information are
// ignored.
type Regret struct {
	regret     []float64
	cumulative float64
	filename   string
}

// NewRegret returns a new Regret Tracker which saves its data at
// filename
func NewRegret(filename string) *Regret {
	return &Regret{filename: filename}
}

// Track caches the mean regret of the step
func (r *Regret) Track(step Step) {
	if len(step.Regret) == 0 {
		return
	}
	mean := stat.Mean(step.Regret, nil)
	r.regret = append(r.regret, mean)
	r.cumulative += mean
}

// Cumulative returns the sum of the mean regret of all tracked steps
func (r *Regret) Cumulative() float64 {
	return r.cumulative
}

// Data returns the mean regret of each tracked step
func (r *Regret) Data() []float64 {
	return r.regret
}

// Save saves the tracked regret to disk
func (r *Regret) Save() error {
	return save(r.filename, r.regret)
}
