// Package initwfn implements functionality to wrap Gorgonia InitWFn
// so that they can be JSON serialized into configuration files.
package initwfn

import (
	"encoding/json"
	"fmt"

	G "gorgonia.org/gorgonia"
)

// Type describes different types of InitWFn that are available.
type Type string

// Available InitWFn types
const (
	GlorotU  Type = "GlorotU"
	GlorotN  Type = "GlorotN"
	HeU      Type = "HeU"
	HeN      Type = "HeN"
	Zeroes   Type = "Zeroes"
	Ones     Type = "Ones"
	Constant Type = "Constant"
)

// InitWFn wraps Gorgonia InitWFn so that they can be JSON marshalled
// and unmarshalled. Gain is used by the Glorot and He initializers,
// Value by the Constant initializer.
type InitWFn struct {
	initWFn G.InitWFn
	Type
	Gain  float64 `json:",omitempty"`
	Value float64 `json:",omitempty"`
}

// New returns a new InitWFn of the given type. The param argument is
// the gain for the Glorot and He initializers and the value for the
// Constant initializer; it is ignored otherwise.
func New(t Type, param float64) (*InitWFn, error) {
	init := InitWFn{Type: t}
	switch t {
	case GlorotU, GlorotN, HeU, HeN:
		init.Gain = param
	case Constant:
		init.Value = param
	}

	if err := init.create(); err != nil {
		return nil, err
	}
	return &init, nil
}

// NewGlorotU returns a new Glorot Uniform weight initializer
func NewGlorotU(gain float64) (*InitWFn, error) {
	return New(GlorotU, gain)
}

// NewZeroes returns an initializer setting all weights to 0
func NewZeroes() (*InitWFn, error) {
	return New(Zeroes, 0)
}

// create sets the wrapped Gorgonia InitWFn based on the type
func (i *InitWFn) create() error {
	switch i.Type {
	case GlorotU:
		i.initWFn = G.GlorotU(i.Gain)
	case GlorotN:
		i.initWFn = G.GlorotN(i.Gain)
	case HeU:
		i.initWFn = G.HeU(i.Gain)
	case HeN:
		i.initWFn = G.HeN(i.Gain)
	case Zeroes:
		i.initWFn = G.Zeroes()
	case Ones:
		i.initWFn = G.Ones()
	case Constant:
		i.initWFn = G.ValuesOf(i.Value)
	default:
		return fmt.Errorf("create: no such InitWFn type %q", i.Type)
	}
	return nil
}

// InitWFn returns the wrapped Gorgonia InitWFn
func (i *InitWFn) InitWFn() G.InitWFn {
	return i.initWFn
}

// String implements the fmt.Stringer interface
func (i *InitWFn) String() string {
	switch i.Type {
	case Constant:
		return fmt.Sprintf("{%v InitWFn: %v}", i.Type, i.Value)
	case Zeroes, Ones:
		return fmt.Sprintf("{%v InitWFn}", i.Type)
	default:
		return fmt.Sprintf("{%v InitWFn: gain=%v}", i.Type, i.Gain)
	}
}

// UnmarshalJSON implements the json.Unmarshaller interface
func (i *InitWFn) UnmarshalJSON(data []byte) error {
	// Alias avoids recursing into this method
	type config InitWFn
	var c config
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}

	*i = InitWFn(c)
	return i.create()
}
