package spec

import "sort"

// Nest is a (possibly nested) structure of Specs. Flatten returns the
// leaves of the structure in a deterministic order.
type Nest interface {
	Flatten() []Spec
}

// Tuple is an ordered Nest
type Tuple []Nest

// Flatten implements the Nest interface
func (t Tuple) Flatten() []Spec {
	flat := make([]Spec, 0, len(t))
	for _, nest := range t {
		if nest == nil {
			continue
		}
		flat = append(flat, nest.Flatten()...)
	}
	return flat
}

// Dict is a Nest keyed by name. Leaves are flattened in sorted key
// order.
type Dict map[string]Nest

// Flatten implements the Nest interface
func (d Dict) Flatten() []Spec {
	keys := make([]string, 0, len(d))
	for key := range d {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	flat := make([]Spec, 0, len(d))
	for _, key := range keys {
		if d[key] == nil {
			continue
		}
		flat = append(flat, d[key].Flatten()...)
	}
	return flat
}

// Flatten returns the leaves of n, or nil if n is nil
func Flatten(n Nest) []Spec {
	if n == nil {
		return nil
	}
	return n.Flatten()
}
