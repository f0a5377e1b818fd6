package environment

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// CategoricalStarter returns one-hot contexts. The hot feature of each
// context is sampled from a categorical distribution, so that contexts
// model a finite population of users or items.
type CategoricalStarter struct {
	features int
	seed     uint64
	rand     distuv.Categorical
}

// NewCategoricalStarter returns a new CategoricalStarter. Feature i is
// hot with probability proportional to weights[i].
func NewCategoricalStarter(weights []float64,
	seed uint64) (CategoricalStarter, error) {
	if len(weights) == 0 {
		return CategoricalStarter{}, fmt.Errorf("newCategoricalStarter: " +
			"at least one category is required")
	}
	if floats.Min(weights) < 0 || floats.Sum(weights) <= 0 {
		return CategoricalStarter{}, fmt.Errorf("newCategoricalStarter: "+
			"weights must be non-negative with a positive sum\n\thave(%v)",
			weights)
	}

	source := rand.NewSource(seed)
	rand := distuv.NewCategorical(weights, source)

	return CategoricalStarter{len(weights), seed, rand}, nil
}

// NewUniformCategoricalStarter returns a CategoricalStarter with
// equally likely categories
func NewUniformCategoricalStarter(features int,
	seed uint64) (CategoricalStarter, error) {
	weights := make([]float64, features)
	for i := range weights {
		weights[i] = 1.0
	}
	return NewCategoricalStarter(weights, seed)
}

// Start samples a one-hot context
func (c CategoricalStarter) Start() mat.Vector {
	start := mat.NewVecDense(c.features, nil)
	start.SetVec(int(c.rand.Rand()), 1.0)

	return start
}

// Features returns the number of features in each context
func (c CategoricalStarter) Features() int {
	return c.features
}
