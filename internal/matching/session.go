package matching

import (
	"context"
	"slices"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrNoCurrentItem is returned when a decision is made with nothing to review.
var ErrNoCurrentItem = eris.New("matching: no current item")

// State is the screen the session is on.
type State string

const (
	StateBrowsing       State = "browsing"
	StateEmpty          State = "empty"
	StateViewingMatches State = "viewing_matches"
)

// MatchRecorder persists the ids a user swiped right on.
type MatchRecorder interface {
	AppendMatch(ctx context.Context, userID, matchID string) error
	ListMatches(ctx context.Context, userID string) ([]string, error)
}

// Session is one user's pass over a filtered candidate list. It is not safe
// for concurrent use.
type Session struct {
	userID  string
	items   []Candidate
	matches MatchRecorder
	matched []string

	term     string
	criteria Criteria

	filtered         []Candidate
	index            int
	empty            bool
	viewingMatches   bool
	showAvailability bool
}

// NewSession starts a session over items, initially unfiltered.
func NewSession(userID string, items []Candidate, matches MatchRecorder) *Session {
	s := &Session{userID: userID, items: items, matches: matches}
	s.refilter()
	return s
}

// ApplyFilter narrows the list, resets the cursor to the first result and
// returns the filtered items.
func (s *Session) ApplyFilter(term string, c Criteria) []Candidate {
	s.term = term
	s.criteria = c.Clone()
	s.viewingMatches = false
	s.refilter()

	zap.L().Debug("matching filter applied",
		zap.String("user_id", s.userID),
		zap.String("term", term),
		zap.Int("results", len(s.filtered)),
	)
	return s.Filtered()
}

// Reset re-runs the current filter and closes the availability panel.
func (s *Session) Reset() {
	s.viewingMatches = false
	s.showAvailability = false
	s.refilter()
}

func (s *Session) refilter() {
	s.filtered = Filter(s.items, s.term, s.criteria)
	s.index = 0
	s.empty = len(s.filtered) == 0
}

// Current returns the candidate under the cursor.
func (s *Session) Current() (Candidate, bool) {
	if s.empty || s.index >= len(s.filtered) {
		return nil, false
	}
	return s.filtered[s.index], true
}

// Next advances the cursor. At the last result it marks the session empty
// and leaves the cursor where it is.
func (s *Session) Next() {
	if s.index >= len(s.filtered)-1 {
		s.empty = true
		return
	}
	s.index++
}

// SwipeRight records item as a match, then advances. An id already matched
// in this session is not recorded again.
func (s *Session) SwipeRight(ctx context.Context, item Candidate) error {
	if item == nil {
		return ErrNoCurrentItem
	}
	id := item.CandidateID()
	if !slices.Contains(s.matched, id) {
		if err := s.matches.AppendMatch(ctx, s.userID, id); err != nil {
			return eris.Wrapf(err, "matching: record match %s", id)
		}
		s.matched = append(s.matched, id)
		zap.L().Debug("match recorded",
			zap.String("user_id", s.userID),
			zap.String("match_id", id),
		)
	}
	s.Next()
	return nil
}

// SwipeLeft passes on item and advances.
func (s *Session) SwipeLeft(item Candidate) error {
	if item == nil {
		return ErrNoCurrentItem
	}
	s.Next()
	return nil
}

// Find returns the filtered candidate with id.
func (s *Session) Find(id string) (Candidate, bool) {
	for _, it := range s.filtered {
		if it.CandidateID() == id {
			return it, true
		}
	}
	return nil, false
}

// ToggleAvailability opens or closes the availability panel.
func (s *Session) ToggleAvailability() bool {
	s.showAvailability = !s.showAvailability
	return s.showAvailability
}

// ViewMatches switches to the match list.
func (s *Session) ViewMatches() { s.viewingMatches = true }

// Back returns from the match list to reviewing.
func (s *Session) Back() { s.viewingMatches = false }

// Matches returns the recorded matches that are still in the catalog, in
// the order they were recorded.
func (s *Session) Matches(ctx context.Context) ([]Candidate, error) {
	ids, err := s.matches.ListMatches(ctx, s.userID)
	if err != nil {
		return nil, eris.Wrap(err, "matching: list matches")
	}
	byID := make(map[string]Candidate, len(s.items))
	for _, it := range s.items {
		byID[it.CandidateID()] = it
	}
	out := make([]Candidate, 0, len(ids))
	for _, id := range ids {
		if it, ok := byID[id]; ok {
			out = append(out, it)
		}
	}
	return out, nil
}

// State reports which screen the session is on.
func (s *Session) State() State {
	switch {
	case s.viewingMatches:
		return StateViewingMatches
	case s.empty:
		return StateEmpty
	default:
		return StateBrowsing
	}
}

// Snapshot is a serializable view of the session.
type Snapshot struct {
	State            State     `json:"state"`
	Term             string    `json:"term"`
	Criteria         Criteria  `json:"criteria"`
	Index            int       `json:"index"`
	Total            int       `json:"total"`
	Empty            bool      `json:"empty"`
	ShowAvailability bool      `json:"showAvailability"`
	Current          Candidate `json:"current,omitempty"`
}

// Snapshot captures the session for display.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		State:            s.State(),
		Term:             s.term,
		Criteria:         s.criteria.Clone(),
		Index:            s.index,
		Total:            len(s.filtered),
		Empty:            s.empty,
		ShowAvailability: s.showAvailability,
	}
	if cur, ok := s.Current(); ok {
		snap.Current = cur
	}
	return snap
}

// Filtered returns a copy of the current results.
func (s *Session) Filtered() []Candidate {
	return append([]Candidate(nil), s.filtered...)
}

// Index returns the cursor position.
func (s *Session) Index() int { return s.index }

// Empty reports whether the current results are exhausted.
func (s *Session) Empty() bool { return s.empty }
