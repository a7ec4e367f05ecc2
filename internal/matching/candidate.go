// Package matching implements the swipe-style review of catalog candidates:
// filtering by name and criteria, a cursor over the results, the match list,
// and opening chats with candidates.
package matching

import (
	"github.com/sells-group/advisor-match/internal/model"
)

// Field names a filterable candidate attribute.
type Field string

// Filterable fields. Advisors answer languages and expertise, consumers
// preferredLanguage and startTimeline, and both answer province.
const (
	FieldLanguages         Field = "languages"
	FieldExpertise         Field = "expertise"
	FieldPreferredLanguage Field = "preferredLanguage"
	FieldStartTimeline     Field = "startTimeline"
	FieldProvince          Field = "province"
)

// Candidate is one reviewable catalog entry.
type Candidate interface {
	CandidateID() string
	DisplayName() string
	// Values returns the candidate's values for f, or nil when the candidate
	// has no such attribute.
	Values(f Field) []string
	IsOnline() bool
}

// Advisor adapts an advisor profile for review by consumers.
type Advisor struct {
	model.AdvisorProfile
}

// CandidateID returns the advisor profile id.
func (a Advisor) CandidateID() string { return a.ID }

// DisplayName returns the name matched by the search term.
func (a Advisor) DisplayName() string { return a.Name }

// IsOnline reports whether the advisor is online now.
func (a Advisor) IsOnline() bool { return a.Online }

// Values supports languages, expertise and province.
func (a Advisor) Values(f Field) []string {
	switch f {
	case FieldLanguages:
		return a.Languages
	case FieldExpertise:
		return a.Expertise
	case FieldProvince:
		return single(a.Province)
	}
	return nil
}

// Consumer adapts a consumer profile for review by advisors.
type Consumer struct {
	model.ConsumerProfile
}

// CandidateID returns the consumer profile id.
func (c Consumer) CandidateID() string { return c.ID }

// DisplayName returns the name matched by the search term.
func (c Consumer) DisplayName() string { return c.Name }

// IsOnline reports whether the consumer is online now.
func (c Consumer) IsOnline() bool { return c.Online }

// Values supports preferred language, start timeline and province.
func (c Consumer) Values(f Field) []string {
	switch f {
	case FieldPreferredLanguage:
		return single(c.PreferredLanguage)
	case FieldStartTimeline:
		return single(c.StartTimeline)
	case FieldProvince:
		return single(c.Province)
	}
	return nil
}

// Advisors wraps advisor profiles as candidates.
func Advisors(profiles []model.AdvisorProfile) []Candidate {
	out := make([]Candidate, len(profiles))
	for i, p := range profiles {
		out[i] = Advisor{p}
	}
	return out
}

// Consumers wraps consumer profiles as candidates.
func Consumers(profiles []model.ConsumerProfile) []Candidate {
	out := make([]Candidate, len(profiles))
	for i, p := range profiles {
		out[i] = Consumer{p}
	}
	return out
}

func single(v string) []string {
	if v == "" {
		return nil
	}
	return []string{v}
}
