// Package spec implements specifications of the tensors that flow
// between environments, policies, and agents. A Spec describes the
// shape, type, and (optionally) the bounds of a single tensor, and
// specs can be nested into Tuples and Dicts.
package spec

import (
	"fmt"
	"math"
	"reflect"

	"gorgonia.org/tensor"
)

// Spec implements a tensor specification, which tells the name, shape,
// dtype, and bounds of an action, observation, discount, or reward
type Spec struct {
	Name    string
	Shape   tensor.Shape
	Dtype   tensor.Dtype
	Bounded bool

	// Minimum and Maximum are inclusive and only meaningful when
	// Bounded is true
	Minimum float64
	Maximum float64
}

// NewSpec returns a new unbounded Spec
func NewSpec(name string, shape tensor.Shape, dtype tensor.Dtype) Spec {
	return Spec{
		Name:    name,
		Shape:   shape.Clone(),
		Dtype:   dtype,
		Minimum: math.Inf(-1),
		Maximum: math.Inf(1),
	}
}

// NewBoundedSpec returns a new Spec whose values lie in the closed
// interval [min, max]
func NewBoundedSpec(name string, shape tensor.Shape, dtype tensor.Dtype,
	min, max float64) (Spec, error) {
	if min > max {
		return Spec{}, fmt.Errorf("newBoundedSpec: minimum must not exceed "+
			"maximum\n\twant(<= %v)\n\thave(%v)", max, min)
	}
	return Spec{
		Name:    name,
		Shape:   shape.Clone(),
		Dtype:   dtype,
		Bounded: true,
		Minimum: min,
		Maximum: max,
	}, nil
}

// NewDiscreteAction returns a scalar, bounded, integer action Spec
// with actions enumerated from min to max inclusive.
func NewDiscreteAction(min, max int) (Spec, error) {
	return NewBoundedSpec("action", tensor.ScalarShape(), tensor.Int,
		float64(min), float64(max))
}

// Flatten implements the Nest interface. A Spec is a leaf, so the
// flattened Spec is the Spec itself.
func (s Spec) Flatten() []Spec {
	return []Spec{s}
}

// Rank returns the number of dimensions of the specified tensor
func (s Spec) Rank() int {
	return len(s.Shape)
}

// NumElements returns the number of scalar elements in the specified
// tensor. Scalars have a single element.
func (s Spec) NumElements() int {
	n := 1
	for _, dim := range s.Shape {
		n *= dim
	}
	return n
}

// IsBounded returns whether the Spec has a finite minimum and maximum
func (s Spec) IsBounded() bool {
	return s.Bounded && !math.IsInf(s.Minimum, 0) &&
		!math.IsInf(s.Maximum, 0)
}

// IsDiscrete returns whether the Spec describes integer values
func (s Spec) IsDiscrete() bool {
	if s.Dtype.Type == nil {
		return false
	}
	switch s.Dtype.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Int64, reflect.Uint, reflect.Uint8, reflect.Uint16,
		reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

// String implements the fmt.Stringer interface
func (s Spec) String() string {
	if s.Bounded {
		return fmt.Sprintf("BoundedSpec(name=%q, shape=%v, dtype=%v, "+
			"minimum=%v, maximum=%v)", s.Name, s.Shape, s.Dtype, s.Minimum,
			s.Maximum)
	}
	return fmt.Sprintf("Spec(name=%q, shape=%v, dtype=%v)", s.Name,
		s.Shape, s.Dtype)
}
