package policy

import (
	"errors"
	"fmt"

	"github.com/samuelfneumann/gobandit/spec"
)

var (
	// ErrUnsupportedActionStructure is returned when an action spec
	// does not flatten to exactly one leaf spec
	ErrUnsupportedActionStructure = errors.New("action spec must contain " +
		"exactly one spec")

	// ErrUnsupportedActionSpec is returned when the action spec is not
	// a bounded, discrete spec describing a single scalar
	ErrUnsupportedActionSpec = errors.New("action spec must be a bounded " +
		"discrete spec with a single element")

	// ErrInvalidOutputRank is returned when a reward network predicts
	// a tensor whose rank is not 2 or 3
	ErrInvalidOutputRank = errors.New("reward network output must have " +
		"rank 2 or 3")

	// ErrActionCountMismatch is returned when a reward network does not
	// predict one reward per action
	ErrActionCountMismatch = errors.New("number of actions does not match " +
		"the reward network output size")

	// ErrInvalidEpsilon is returned when epsilon is outside [0, 1]
	ErrInvalidEpsilon = errors.New("epsilon must be in [0, 1]")
)

// SpecError implements errors caused by a spec that a policy cannot
// be constructed with
type SpecError struct {
	Op   string
	Spec spec.Nest
	Err  error
}

// Error satisfies the error interface
func (e *SpecError) Error() string {
	return fmt.Sprintf("%v: %v: found %v", e.Op, e.Err, e.Spec)
}

// Unwrap returns the underlying error
func (e *SpecError) Unwrap() error {
	return e.Err
}

// OutputError implements errors caused by a reward network predicting
// a tensor of the wrong shape
type OutputError struct {
	Op   string
	Err  error
	Want interface{}
	Have interface{}
}

// Error satisfies the error interface
func (e *OutputError) Error() string {
	return fmt.Sprintf("%v: %v\n\twant(%v)\n\thave(%v)", e.Op, e.Err,
		e.Want, e.Have)
}

// Unwrap returns the underlying error
func (e *OutputError) Unwrap() error {
	return e.Err
}

// IsUnsupportedActionStructure returns whether or not an error reports
// that an action spec contained more (or less) than one spec
func IsUnsupportedActionStructure(err error) bool {
	return errors.Is(err, ErrUnsupportedActionStructure)
}

// IsUnsupportedActionSpec returns whether or not an error reports that
// an action spec was not bounded, discrete, and scalar
func IsUnsupportedActionSpec(err error) bool {
	return errors.Is(err, ErrUnsupportedActionSpec)
}

// IsInvalidOutputRank returns whether or not an error reports that a
// reward network predicted a tensor of invalid rank
func IsInvalidOutputRank(err error) bool {
	return errors.Is(err, ErrInvalidOutputRank)
}

// IsActionCountMismatch returns whether or not an error reports that a
// reward network predicted the wrong number of action rewards
func IsActionCountMismatch(err error) bool {
	return errors.Is(err, ErrActionCountMismatch)
}
