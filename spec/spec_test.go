package spec

import (
	"math"
	"testing"

	"gorgonia.org/tensor"
)

func TestSpecPredicates(t *testing.T) {
	action, err := NewDiscreteAction(-2, 3)
	if err != nil {
		t.Fatal(err)
	}
	continuous, err := NewBoundedSpec("action", tensor.Shape{2},
		tensor.Float64, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	halfBounded := Spec{
		Name:    "half",
		Shape:   tensor.ScalarShape(),
		Dtype:   tensor.Int,
		Bounded: true,
		Minimum: 0,
		Maximum: math.Inf(1),
	}

	tests := []struct {
		name        string
		spec        Spec
		discrete    bool
		bounded     bool
		rank        int
		numElements int
	}{
		{"discrete", action, true, true, 0, 1},
		{"continuous", continuous, false, true, 1, 2},
		{"unbounded", NewSpec("obs", tensor.Shape{3, 4}, tensor.Float32),
			false, false, 2, 12},
		{"halfBounded", halfBounded, true, false, 0, 1},
		{"noDtype", Spec{Name: "empty"}, false, false, 0, 1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if have := test.spec.IsDiscrete(); have != test.discrete {
				t.Errorf("IsDiscrete\n\twant(%v)\n\thave(%v)", test.discrete,
					have)
			}
			if have := test.spec.IsBounded(); have != test.bounded {
				t.Errorf("IsBounded\n\twant(%v)\n\thave(%v)", test.bounded,
					have)
			}
			if have := test.spec.Rank(); have != test.rank {
				t.Errorf("Rank\n\twant(%v)\n\thave(%v)", test.rank, have)
			}
			if have := test.spec.NumElements(); have != test.numElements {
				t.Errorf("NumElements\n\twant(%v)\n\thave(%v)",
					test.numElements, have)
			}
		})
	}
}

func TestNewBoundedSpecInvalid(t *testing.T) {
	if _, err := NewBoundedSpec("x", tensor.ScalarShape(), tensor.Int, 2,
		1); err == nil {
		t.Error("expected error when minimum > maximum")
	}
	if _, err := NewDiscreteAction(4, 4); err != nil {
		t.Errorf("single action spec should be valid: %v", err)
	}
}

func TestNewSpecClonesShape(t *testing.T) {
	shape := tensor.Shape{2, 3}
	s := NewSpec("obs", shape, tensor.Float64)
	shape[0] = 5
	if s.Shape[0] != 2 {
		t.Errorf("spec shape aliased argument\n\twant(2)\n\thave(%v)",
			s.Shape[0])
	}
}

func TestFlatten(t *testing.T) {
	a := NewSpec("a", tensor.ScalarShape(), tensor.Int)
	b := NewSpec("b", tensor.ScalarShape(), tensor.Int)
	c := NewSpec("c", tensor.ScalarShape(), tensor.Int)

	nest := Tuple{
		a,
		Dict{"z": c, "y": Tuple{b}, "x": nil},
		nil,
		Tuple{},
	}

	flat := Flatten(nest)
	want := []string{"a", "b", "c"}
	if len(flat) != len(want) {
		t.Fatalf("wrong number of leaves\n\twant(%v)\n\thave(%v)", len(want),
			len(flat))
	}
	for i := range want {
		if flat[i].Name != want[i] {
			t.Errorf("wrong leaf %v\n\twant(%v)\n\thave(%v)", i, want[i],
				flat[i].Name)
		}
	}

	if Flatten(nil) != nil {
		t.Error("flattening nil nest should return nil")
	}
}

func TestTimeStepSpecFeatures(t *testing.T) {
	obs := Dict{
		"position": NewSpec("position", tensor.Shape{3}, tensor.Float64),
		"velocity": NewSpec("velocity", tensor.Shape{2, 2}, tensor.Float64),
	}
	s := NewTimeStepSpec(obs)

	if have := s.Features(); have != 7 {
		t.Errorf("wrong number of features\n\twant(7)\n\thave(%v)", have)
	}
	if !s.StepType.IsBounded() || !s.StepType.IsDiscrete() {
		t.Errorf("step type should be bounded and discrete: %v", s.StepType)
	}
	if s.Discount.Minimum != 0 || s.Discount.Maximum != 1 {
		t.Errorf("discount should lie in [0, 1]: %v", s.Discount)
	}
}
