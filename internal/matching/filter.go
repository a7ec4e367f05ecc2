package matching

import (
	"strings"

	"golang.org/x/text/cases"
)

// Criteria maps a field to the values a candidate must overlap with. A field
// with no selected values does not constrain the result.
type Criteria struct {
	Values     map[Field][]string `json:"values,omitempty"`
	OnlineOnly bool               `json:"onlineOnly,omitempty"`
}

// IsZero reports whether no criterion is set.
func (c Criteria) IsZero() bool {
	if c.OnlineOnly {
		return false
	}
	for _, v := range c.Values {
		if len(v) > 0 {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (c Criteria) Clone() Criteria {
	out := Criteria{OnlineOnly: c.OnlineOnly}
	if c.Values != nil {
		out.Values = make(map[Field][]string, len(c.Values))
		for f, v := range c.Values {
			out.Values[f] = append([]string(nil), v...)
		}
	}
	return out
}

// Filter returns the items whose name contains term (case-insensitively) and
// that overlap every non-empty criterion. Order is preserved. An empty term
// and zero criteria return items unchanged.
func Filter(items []Candidate, term string, c Criteria) []Candidate {
	fold := cases.Fold()
	needle := fold.String(term)

	out := make([]Candidate, 0, len(items))
	for _, it := range items {
		if needle != "" && !strings.Contains(fold.String(it.DisplayName()), needle) {
			continue
		}
		if !matches(it, c) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func matches(it Candidate, c Criteria) bool {
	if c.OnlineOnly && !it.IsOnline() {
		return false
	}
	for field, want := range c.Values {
		if len(want) == 0 {
			continue
		}
		if !overlaps(it.Values(field), want) {
			return false
		}
	}
	return true
}

func overlaps(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}
