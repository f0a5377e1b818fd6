// Package checkpointer implements checkpointing of serializable
// objects, such as reward networks, during an experiment
package checkpointer

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
)

// Serializable is an object that can be saved/serialized
type Serializable interface {
	gob.GobEncoder
}

// Checkpointer checkpoints/saves serializable objects based on the
// number of training steps taken by an agent
type Checkpointer interface {
	Checkpoint(trainStep int64) error
}

// Save gob encodes object to filename, creating its directory if
// needed
func Save(filename string, object Serializable) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("save: could not create checkpoint file: %w", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(object); err != nil {
		return fmt.Errorf("save: could not encode checkpoint: %w", err)
	}
	return nil
}

// Load decodes the checkpoint at filename into object
func Load(filename string, object gob.GobDecoder) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("load: could not open checkpoint file: %w", err)
	}
	defer file.Close()

	if err := gob.NewDecoder(file).Decode(object); err != nil {
		return fmt.Errorf("load: could not decode checkpoint: %w", err)
	}
	return nil
}
