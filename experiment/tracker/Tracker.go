// Package tracker implements Trackers, which track and save data in an
// experiment
package tracker

import (
	"encoding/gob"
	"fmt"
	"os"
)

// Step holds the data generated by a single interaction of an
// experiment with a batch of contexts.
//
// Regret is nil if the environment cannot compute regret. Losses holds
// the loss of each training step taken after the interaction, and is
// empty if the agent was not trained.
type Step struct {
	Number  int
	Actions []int
	Reward  []float64
	Regret  []float64
	Losses  []float64
}

// Tracker keeps track of experiment data and saves the data after
// the experiment has finished
type Tracker interface {
	Track(Step)
	Save() error
}

// save gob encodes data to filename
func save(filename string, data []float64) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("save: could not open save file: %w", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(data); err != nil {
		return fmt.Errorf("save: could not encode data: %w", err)
	}
	return nil
}

// LoadData loads and returns the data saved by a Tracker
func LoadData(filename string) ([]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loadData: could not open data file: %w", err)
	}
	defer file.Close()

	var data []float64
	if err := gob.NewDecoder(file).Decode(&data); err != nil {
		return nil, fmt.Errorf("loadData: could not decode data: %w", err)
	}
	return data, nil
}
