// Package profileform owns the advisor profile form record and the reducer
// that applies typed edit actions to it.
package profileform

import (
	"encoding/json"

	"github.com/rotisserie/eris"

	"github.com/sells-group/advisor-match/internal/model"
)

// Kind discriminates the Action variants on the wire.
type Kind string

const (
	KindText               Kind = "text"
	KindCheckbox           Kind = "checkbox"
	KindNumeric            Kind = "numeric"
	KindToggle             Kind = "toggle"
	KindSetting            Kind = "setting"
	KindAddAvailability    Kind = "add_availability"
	KindRemoveAvailability Kind = "remove_availability"
	KindAddTestimonial     Kind = "add_testimonial"
	KindRemoveTestimonial  Kind = "remove_testimonial"
)

var (
	// ErrUnknownField is returned when an action names a field its kind
	// cannot write.
	ErrUnknownField = eris.New("profileform: unknown field")
	// ErrUnknownAction is returned for an unrecognised action kind.
	ErrUnknownAction = eris.New("profileform: unknown action")
	// ErrIndexOutOfRange is returned when removing a list entry that does
	// not exist.
	ErrIndexOutOfRange = eris.New("profileform: index out of range")
)

// Action is one edit to the form. The set of implementations is closed.
type Action interface {
	Kind() Kind
	action()
}

// TextAction sets a plain string field.
type TextAction struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// CheckboxAction sets a boolean consent field.
type CheckboxAction struct {
	Field   string `json:"field"`
	Checked bool   `json:"checked"`
}

// NumericAction sets a numeric field. A nil Value clears a nullable field
// and zeroes any other.
type NumericAction struct {
	Field string   `json:"field"`
	Value *float64 `json:"value"`
}

// ToggleAction flips membership of Value in a multi-select field.
type ToggleAction struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// SettingAction sets one of the profile visibility/notification toggles.
type SettingAction struct {
	Field   string `json:"field"`
	Enabled bool   `json:"enabled"`
}

// AddAvailabilityAction appends a weekly slot.
type AddAvailabilityAction struct {
	Slot model.AvailabilitySlot `json:"slot"`
}

// RemoveAvailabilityAction drops the slot at Index.
type RemoveAvailabilityAction struct {
	Index int `json:"index"`
}

// AddTestimonialAction appends a testimonial.
type AddTestimonialAction struct {
	Testimonial model.Testimonial `json:"testimonial"`
}

// RemoveTestimonialAction drops the testimonial at Index.
type RemoveTestimonialAction struct {
	Index int `json:"index"`
}

func (TextAction) Kind() Kind               { return KindText }
func (CheckboxAction) Kind() Kind           { return KindCheckbox }
func (NumericAction) Kind() Kind            { return KindNumeric }
func (ToggleAction) Kind() Kind             { return KindToggle }
func (SettingAction) Kind() Kind            { return KindSetting }
func (AddAvailabilityAction) Kind() Kind    { return KindAddAvailability }
func (RemoveAvailabilityAction) Kind() Kind { return KindRemoveAvailability }
func (AddTestimonialAction) Kind() Kind     { return KindAddTestimonial }
func (RemoveTestimonialAction) Kind() Kind  { return KindRemoveTestimonial }

func (TextAction) action()               {}
func (CheckboxAction) action()           {}
func (NumericAction) action()            {}
func (ToggleAction) action()             {}
func (SettingAction) action()            {}
func (AddAvailabilityAction) action()    {}
func (RemoveAvailabilityAction) action() {}
func (AddTestimonialAction) action()     {}
func (RemoveTestimonialAction) action()  {}

// DecodeAction parses a JSON action envelope of the form
// {"kind": "...", ...variant fields}.
func DecodeAction(data []byte) (Action, error) {
	var head struct {
		Kind Kind `json:"kind"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, eris.Wrap(err, "profileform: decode action kind")
	}

	var a Action
	var err error
	switch head.Kind {
	case KindText:
		a, err = decodeAs[TextAction](data)
	case KindCheckbox:
		a, err = decodeAs[CheckboxAction](data)
	case KindNumeric:
		a, err = decodeAs[NumericAction](data)
	case KindToggle:
		a, err = decodeAs[ToggleAction](data)
	case KindSetting:
		a, err = decodeAs[SettingAction](data)
	case KindAddAvailability:
		a, err = decodeAs[AddAvailabilityAction](data)
	case KindRemoveAvailability:
		a, err = decodeAs[RemoveAvailabilityAction](data)
	case KindAddTestimonial:
		a, err = decodeAs[AddTestimonialAction](data)
	case KindRemoveTestimonial:
		a, err = decodeAs[RemoveTestimonialAction](data)
	default:
		return nil, eris.Wrapf(ErrUnknownAction, "kind %q", head.Kind)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "profileform: decode %s action", head.Kind)
	}
	return a, nil
}

// DecodeActions parses a JSON array of action envelopes.
func DecodeActions(data []byte) ([]Action, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, eris.Wrap(err, "profileform: decode action list")
	}
	out := make([]Action, 0, len(raw))
	for i, r := range raw {
		a, err := DecodeAction(r)
		if err != nil {
			return nil, eris.Wrapf(err, "action %d", i)
		}
		out = append(out, a)
	}
	return out, nil
}

func decodeAs[T Action](data []byte) (Action, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}
