// FILE: svckit/src/internal/testkit/state.go
package testkit

import (
	"fmt"
	"maps"

	"svckit/src/internal/dict"
)

// State accumulates data across the steps of a scenario test.
type State struct {
	Data      dict.Map
	Responses dict.Map
	Messages  dict.Map
}

// NewState returns a state with empty maps.
func NewState() State {
	return State{
		Data:      dict.Map{},
		Responses: dict.Map{},
		Messages:  dict.Map{},
	}
}

func union(a, b dict.Map) dict.Map {
	out := make(dict.Map, len(a)+len(b))
	maps.Copy(out, a)
	maps.Copy(out, b)
	return out
}

// Add returns a new state with other's keys laid over s, one level deep.
func (s State) Add(other State) State {
	return State{
		Data:      union(s.Data, other.Data),
		Responses: union(s.Responses, other.Responses),
		Messages:  union(s.Messages, other.Messages),
	}
}

// Merge lays other's keys over s in place.
func (s *State) Merge(other State) {
	*s = s.Add(other)
}

// Equal compares all three maps, numbers by value.
func (s State) Equal(other State) bool {
	for _, pair := range [][2]dict.Map{
		{s.Data, other.Data},
		{s.Responses, other.Responses},
		{s.Messages, other.Messages},
	} {
		if ok, _ := dict.IsEqual(orEmpty(pair[0]), orEmpty(pair[1])); !ok {
			return false
		}
	}
	return true
}

func orEmpty(m dict.Map) dict.Map {
	if m == nil {
		return dict.Map{}
	}
	return m
}

func (s State) String() string {
	return fmt.Sprintf("State(\n\tdata=%s,\n\tresponses=%s,\n\tmessages=%s\n)",
		dict.String(s.Data), dict.String(s.Responses), dict.String(s.Messages))
}
