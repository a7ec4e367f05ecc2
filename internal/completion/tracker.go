package completion

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/advisor-match/internal/model"
)

// ErrUnknownSection is returned for section ids the tracker does not hold.
var ErrUnknownSection = eris.New("completion: unknown section")

// Section is the UI state of one form panel. IsCompleted is derived from the
// form; IsOpen is toggled by the user.
type Section struct {
	ID          SectionID `json:"id"`
	Title       string    `json:"title"`
	Icon        string    `json:"icon"`
	IsOpen      bool      `json:"isOpen"`
	IsCompleted bool      `json:"isCompleted"`
}

// Tracker holds the open/completed state of every section.
type Tracker struct {
	sections []Section
}

// NewTracker returns a tracker with the first section open and completion
// flags derived from f.
func NewTracker(f *model.AdvisorProfileForm) *Tracker {
	t := &Tracker{sections: make([]Section, len(rules))}
	for i, r := range rules {
		t.sections[i] = Section{ID: r.id, Title: r.title, Icon: r.icon, IsOpen: i == 0}
	}
	t.Refresh(f)
	return t
}

// Restore rebuilds a tracker from previously saved open flags. Completion
// is always re-derived from f.
func Restore(open map[SectionID]bool, f *model.AdvisorProfileForm) *Tracker {
	t := NewTracker(f)
	if len(open) == 0 {
		return t
	}
	for i := range t.sections {
		t.sections[i].IsOpen = open[t.sections[i].ID]
	}
	return t
}

// Refresh re-derives IsCompleted for every section.
func (t *Tracker) Refresh(f *model.AdvisorProfileForm) {
	for i, r := range rules {
		t.sections[i].IsCompleted = r.done(f)
	}
}

// Toggle flips IsOpen for one section, leaving the others untouched.
func (t *Tracker) Toggle(id SectionID) error {
	i, err := t.index(id)
	if err != nil {
		return err
	}
	t.sections[i].IsOpen = !t.sections[i].IsOpen
	return nil
}

// Open expands one section.
func (t *Tracker) Open(id SectionID) error {
	i, err := t.index(id)
	if err != nil {
		return err
	}
	t.sections[i].IsOpen = true
	return nil
}

// NextIncomplete returns the first section that is not complete.
func (t *Tracker) NextIncomplete() (Section, bool) {
	for _, s := range t.sections {
		if !s.IsCompleted {
			return s, true
		}
	}
	return Section{}, false
}

// Sections returns a copy of the section states in form order.
func (t *Tracker) Sections() []Section {
	return append([]Section(nil), t.sections...)
}

// OpenState returns the open flag of every section, for persistence.
func (t *Tracker) OpenState() map[SectionID]bool {
	out := make(map[SectionID]bool, len(t.sections))
	for _, s := range t.sections {
		out[s.ID] = s.IsOpen
	}
	return out
}

func (t *Tracker) index(id SectionID) (int, error) {
	for i, s := range t.sections {
		if s.ID == id {
			return i, nil
		}
	}
	return -1, eris.Wrapf(ErrUnknownSection, "section %q", id)
}
