package checkpointer

import "fmt"

// nStep implements checkpointing every N training steps
type nStep struct {
	interval int64
	object   Serializable

	// filename returns the name of the file to save the object to at
	// the given training step, see TrainStepNamer and Enumerate
	filename func(int64) string
}

// NewNStep returns a Checkpointer that saves object every n training
// steps
func NewNStep(n int, object Serializable,
	filename func(int64) string) (Checkpointer, error) {
	if n < 1 {
		return nil, fmt.Errorf("newNStep: interval must be positive"+
			"\n\twant(>0)\n\thave(%v)", n)
	}
	if object == nil || filename == nil {
		return nil, fmt.Errorf("newNStep: object and filename must be " +
			"non-nil")
	}

	return &nStep{
		interval: int64(n),
		object:   object,
		filename: filename,
	}, nil
}

// Checkpoint saves the tracked object if trainStep is a multiple of the
// checkpoint interval
func (n *nStep) Checkpoint(trainStep int64) error {
	if trainStep <= 0 || trainStep%n.interval != 0 {
		return nil
	}
	return Save(n.filename(trainStep), n.object)
}
