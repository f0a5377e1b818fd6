package checkpointer

import "fmt"

// FilenameEnumerator returns a function which returns filenames with a
// counter suffix, e.g. net1.bin, net2.bin, ... when called with
// start == 0. The counter is incremented on each call.
func FilenameEnumerator(start int, filename, extension string) func() string {
	i := start
	return func() string {
		i++
		return fmt.Sprintf("%v%v%v", filename, i, extension)
	}
}

// TrainStepNamer returns a function which appends the training step
// of the checkpoint to filename. The returned function is meant to be
// used with NewNStep.
func TrainStepNamer(filename, extension string) func(int64) string {
	return func(step int64) string {
		return fmt.Sprintf("%v-%v%v", filename, step, extension)
	}
}

// Enumerate adapts a filename function which ignores the training
// step, such as one returned by FilenameEnumerator, for use with
// NewNStep
func Enumerate(filename func() string) func(int64) string {
	return func(int64) string {
		return filename()
	}
}
