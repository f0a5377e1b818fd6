// Package loss implements error losses between reward labels and
// reward predictions as nodes of a Gorgonia computational graph.
package loss

import (
	"encoding/json"
	"fmt"

	G "gorgonia.org/gorgonia"
)

// Func computes a scalar loss from a vector of labels, a vector of
// predictions, and a vector of per-sample weights. All three nodes
// must have the same shape.
type Func func(labels, predictions, weights *G.Node) (*G.Node, error)

// Type names a loss function so that it can be stored in
// configuration files
type Type string

const (
	MSE                Type = "MeanSquaredError"
	AbsoluteDifference Type = "AbsoluteDifference"
)

// Func returns the loss function of the given Type
func (t Type) Func() (Func, error) {
	switch t {
	case MSE, "":
		return MeanSquaredError, nil
	case AbsoluteDifference:
		return MeanAbsoluteDifference, nil
	}
	return nil, fmt.Errorf("func: no such loss %q", string(t))
}

// UnmarshalJSON implements the json.Unmarshaler interface and checks
// that the loss exists
func (t *Type) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	if _, err := Type(name).Func(); err != nil {
		return fmt.Errorf("unmarshalJSON: %v", err)
	}
	*t = Type(name)
	return nil
}

// MeanSquaredError returns the weighted squared difference between
// labels and predictions, summed over the batch and divided by the
// number of non-zero weights
func MeanSquaredError(labels, predictions, weights *G.Node) (*G.Node,
	error) {
	if err := checkShapes(labels, predictions, weights); err != nil {
		return nil, fmt.Errorf("meanSquaredError: %v", err)
	}

	diff, err := G.Sub(labels, predictions)
	if err != nil {
		return nil, fmt.Errorf("meanSquaredError: %v", err)
	}
	losses, err := G.Square(diff)
	if err != nil {
		return nil, fmt.Errorf("meanSquaredError: %v", err)
	}
	return weightedMean(losses, weights)
}

// MeanAbsoluteDifference returns the weighted absolute difference
// between labels and predictions, summed over the batch and divided by
// the number of non-zero weights
func MeanAbsoluteDifference(labels, predictions, weights *G.Node) (*G.Node,
	error) {
	if err := checkShapes(labels, predictions, weights); err != nil {
		return nil, fmt.Errorf("meanAbsoluteDifference: %v", err)
	}

	diff, err := G.Sub(labels, predictions)
	if err != nil {
		return nil, fmt.Errorf("meanAbsoluteDifference: %v", err)
	}
	losses, err := G.Abs(diff)
	if err != nil {
		return nil, fmt.Errorf("meanAbsoluteDifference: %v", err)
	}
	return weightedMean(losses, weights)
}

// weightedMean returns sum(weights ⊙ losses) divided by the number of
// non-zero weights. If every weight is zero, the loss is zero.
func weightedMean(losses, weights *G.Node) (*G.Node, error) {
	weighted, err := G.HadamardProd(losses, weights)
	if err != nil {
		return nil, err
	}
	total, err := G.Sum(weighted)
	if err != nil {
		return nil, err
	}

	// Count the non-zero weights as sum(sign(|w|))
	abs, err := G.Abs(weights)
	if err != nil {
		return nil, err
	}
	nonZero, err := G.Sign(abs)
	if err != nil {
		return nil, err
	}
	count, err := G.Sum(nonZero)
	if err != nil {
		return nil, err
	}

	// count + 1 - sign(count) is max(count, 1) for count >= 0
	present, err := G.Sign(count)
	if err != nil {
		return nil, err
	}
	one := G.NewConstant(1.0)
	denom, err := G.Add(count, one)
	if err != nil {
		return nil, err
	}
	if denom, err = G.Sub(denom, present); err != nil {
		return nil, err
	}
	return G.Div(total, denom)
}

func checkShapes(labels, predictions, weights *G.Node) error {
	if !labels.Shape().Eq(predictions.Shape()) {
		return fmt.Errorf("labels and predictions differ in shape"+
			"\n\twant(%v)\n\thave(%v)", labels.Shape(), predictions.Shape())
	}
	if !labels.Shape().Eq(weights.Shape()) {
		return fmt.Errorf("labels and weights differ in shape"+
			"\n\twant(%v)\n\thave(%v)", labels.Shape(), weights.Shape())
	}
	return nil
}
