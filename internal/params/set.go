package params

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrMixedParams is returned when a set holds both positional and named parameters.
	ErrMixedParams = errors.New("positional and named parameters cannot be mixed")
	// ErrConflictingParams is returned when one name is bound to different values.
	ErrConflictingParams = errors.New("named parameter bound to different values")
)

// Set is an ordered parameter list. A valid set is either purely positional
// (placeholder order) or purely named (insertion order).
type Set []Param

// Named reports whether the set holds named parameters.
func (s Set) Named() bool {
	for _, p := range s {
		if p.Name != "" {
			return true
		}
	}
	return false
}

// Validate checks that the set does not mix positional and named parameters
// and that no name appears twice.
func (s Set) Validate() error {
	var named, positional int
	var seen map[string]bool
	for _, p := range s {
		if p.Name == "" {
			positional++
			continue
		}
		named++
		if seen[p.Name] {
			return fmt.Errorf("%w: %q", ErrConflictingParams, p.Name)
		}
		if seen == nil {
			seen = make(map[string]bool)
		}
		seen[p.Name] = true
	}
	if named > 0 && positional > 0 {
		return fmt.Errorf("%w: %d positional, %d named", ErrMixedParams, positional, named)
	}
	return nil
}

// Values returns the raw values in set order.
func (s Set) Values() []any {
	if len(s) == 0 {
		return nil
	}
	out := make([]any, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// Lookup returns the named parameter called name.
func (s Set) Lookup(name string) (Param, bool) {
	for _, p := range s {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Names returns parameter names in set order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for _, p := range s {
		if p.Name != "" {
			names = append(names, p.Name)
		}
	}
	return names
}

// Merge concatenates sets in order. A named parameter that appears again
// with the same value and type is kept once, in its first position. One
// bound to a different value is appended so that Validate reports it.
func Merge(sets ...Set) Set {
	var out Set
	var index map[string]int
	for _, s := range sets {
		for _, p := range s {
			if p.Name == "" {
				out = append(out, p)
				continue
			}
			if index == nil {
				index = make(map[string]int)
			}
			if i, ok := index[p.Name]; ok {
				if !sameBinding(out[i], p) {
					out = append(out, p)
				}
				continue
			}
			index[p.Name] = len(out)
			out = append(out, p)
		}
	}
	return out
}

func sameBinding(a, b Param) bool {
	return a.Type == b.Type && reflect.DeepEqual(a.Value, b.Value)
}
