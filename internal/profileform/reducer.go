package profileform

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/advisor-match/internal/model"
)

// Reduce applies a to f and returns the new form. f is never modified. No
// value validation happens here: negative amounts and free-text provinces
// are representable.
func Reduce(f model.AdvisorProfileForm, a Action) (model.AdvisorProfileForm, error) {
	next := f.Clone()

	switch a := a.(type) {
	case TextAction:
		get, ok := textFields[a.Field]
		if !ok {
			return f, unknownField(a)
		}
		*get(&next) = a.Value

	case CheckboxAction:
		get, ok := checkboxFields[a.Field]
		if !ok {
			return f, unknownField(a)
		}
		*get(&next) = a.Checked

	case NumericAction:
		if a.Field == FieldMinimumInvestment {
			if a.Value == nil {
				next.MinimumInvestment = nil
			} else {
				v := *a.Value
				next.MinimumInvestment = &v
			}
			break
		}
		get, ok := numericFields[a.Field]
		if !ok {
			return f, unknownField(a)
		}
		var v float64
		if a.Value != nil {
			v = *a.Value
		}
		*get(&next) = v

	case ToggleAction:
		get, ok := setFields[a.Field]
		if !ok {
			return f, unknownField(a)
		}
		get(&next).Toggle(a.Value)

	case SettingAction:
		get, ok := settingFields[a.Field]
		if !ok {
			return f, unknownField(a)
		}
		*get(&next) = a.Enabled

	case AddAvailabilityAction:
		next.Availability = append(next.Availability, a.Slot)

	case RemoveAvailabilityAction:
		if a.Index < 0 || a.Index >= len(next.Availability) {
			return f, eris.Wrapf(ErrIndexOutOfRange, "availability %d", a.Index)
		}
		next.Availability = append(next.Availability[:a.Index], next.Availability[a.Index+1:]...)

	case AddTestimonialAction:
		next.Testimonials = append(next.Testimonials, a.Testimonial)

	case RemoveTestimonialAction:
		if a.Index < 0 || a.Index >= len(next.Testimonials) {
			return f, eris.Wrapf(ErrIndexOutOfRange, "testimonial %d", a.Index)
		}
		next.Testimonials = append(next.Testimonials[:a.Index], next.Testimonials[a.Index+1:]...)

	default:
		return f, eris.Wrapf(ErrUnknownAction, "%T", a)
	}

	return next, nil
}

// HandleMultiSelectChange toggles value in the multi-select field named
// field: added when absent, removed when present.
func HandleMultiSelectChange(f model.AdvisorProfileForm, field, value string) (model.AdvisorProfileForm, error) {
	return Reduce(f, ToggleAction{Field: field, Value: value})
}

func unknownField(a Action) error {
	var field string
	switch a := a.(type) {
	case TextAction:
		field = a.Field
	case CheckboxAction:
		field = a.Field
	case NumericAction:
		field = a.Field
	case ToggleAction:
		field = a.Field
	case SettingAction:
		field = a.Field
	}
	return eris.Wrapf(ErrUnknownField, "%s field %q", a.Kind(), field)
}
