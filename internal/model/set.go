package model

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// StringSet is an insertion-ordered set of strings. The zero value is an
// empty set ready to use. A value removed and added again goes to the end.
type StringSet struct {
	items []string
}

// NewStringSet builds a set from values, dropping duplicates.
func NewStringSet(values ...string) StringSet {
	var s StringSet
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Has reports whether v is a member.
func (s StringSet) Has(v string) bool {
	for _, it := range s.items {
		if it == v {
			return true
		}
	}
	return false
}

// Add inserts v if absent and reports whether the set changed.
func (s *StringSet) Add(v string) bool {
	if s.Has(v) {
		return false
	}
	s.items = append(s.items, v)
	return true
}

// Remove deletes v if present and reports whether the set changed.
func (s *StringSet) Remove(v string) bool {
	for i, it := range s.items {
		if it == v {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// Toggle removes v when present and adds it otherwise. It returns true when v
// is a member afterwards.
func (s *StringSet) Toggle(v string) bool {
	if s.Remove(v) {
		return false
	}
	s.Add(v)
	return true
}

// Len returns the number of members.
func (s StringSet) Len() int { return len(s.items) }

// Values returns a copy of the members in insertion order.
func (s StringSet) Values() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Clone returns an independent copy.
func (s StringSet) Clone() StringSet {
	if s.items == nil {
		return StringSet{}
	}
	return StringSet{items: s.Values()}
}

// MarshalJSON encodes the set as a JSON array (never null).
func (s StringSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

// UnmarshalJSON decodes a JSON array, dropping duplicates.
func (s *StringSet) UnmarshalJSON(data []byte) error {
	var vals []string
	if err := json.Unmarshal(data, &vals); err != nil {
		return err
	}
	*s = NewStringSet(vals...)
	return nil
}

// MarshalYAML encodes the set as a YAML sequence.
func (s StringSet) MarshalYAML() (any, error) {
	return s.Values(), nil
}

// UnmarshalYAML decodes a YAML sequence, dropping duplicates.
func (s *StringSet) UnmarshalYAML(node *yaml.Node) error {
	var vals []string
	if err := node.Decode(&vals); err != nil {
		return err
	}
	*s = NewStringSet(vals...)
	return nil
}
