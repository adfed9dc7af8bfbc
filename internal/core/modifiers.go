package core

import "strings"

// ModifierSlots holds at most one modifier per category. Setting a modifier
// of an occupied category replaces the earlier one; List reports them in
// category order.
type ModifierSlots struct {
	op    string
	index map[string]int
	set   map[int]string
	size  int
}

// NewModifierSlots returns slots for the given categories. op names the
// statement in errors.
//
//	NewModifierSlots("select", []string{"ALL", "DISTINCT"}, []string{"HIGH_PRIORITY"})
func NewModifierSlots(op string, categories ...[]string) *ModifierSlots {
	s := &ModifierSlots{op: op, index: make(map[string]int), set: make(map[int]string), size: len(categories)}
	for i, c := range categories {
		for _, m := range c {
			s.index[m] = i
		}
	}
	return s
}

// Add sets modifiers, matched case-insensitively. Nothing is set when any
// of them is unknown.
func (s *ModifierSlots) Add(modifiers ...string) error {
	for _, m := range modifiers {
		if _, ok := s.index[strings.ToUpper(m)]; !ok {
			return invalidArgument(s.op+".modifier", "unsupported modifier %q", m)
		}
	}
	for _, m := range modifiers {
		m = strings.ToUpper(m)
		s.set[s.index[m]] = m
	}
	return nil
}

// List returns the modifiers in category order. It is never nil.
func (s *ModifierSlots) List() []string {
	out := make([]string, 0, len(s.set))
	for i := 0; i < s.size; i++ {
		if m, ok := s.set[i]; ok {
			out = append(out, m)
		}
	}
	return out
}
