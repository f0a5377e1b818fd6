package tracker

// Loss tracks and saves the loss of each training step taken during an
// experiment
type Loss struct {
	losses   []float64
	filename string
}

// NewLoss returns a new Loss Tracker which saves its data at filename
func NewLoss(filename string) *Loss {
	return &Loss{filename: filename}
}

// Track caches the losses of all training steps taken after the
// interaction
func (l *Loss) Track(step Step) {
	l.losses = append(l.losses, step.Losses...)
}

// Data returns the tracked losses
func (l *Loss) Data() []float64 {
	return l.losses
}

// Save saves the tracked losses to disk
func (l *Loss) Save() error {
	return save(l.filename, l.losses)
}
