package profileform

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/advisor-match/internal/completion"
	"github.com/sells-group/advisor-match/internal/model"
)

// ProfileSaver persists a submitted advisor profile.
type ProfileSaver interface {
	SetAdvisorProfile(ctx context.Context, p *model.AdvisorProfile) error
}

// NewForm returns a form populated with defaults, overlaid with the fields of
// existing when it is non-nil.
func NewForm(existing *model.AdvisorProfile) model.AdvisorProfileForm {
	f := model.AdvisorProfileForm{
		Settings: model.ProfileSettings{
			ProfileVisible:     true,
			AcceptingClients:   true,
			EmailNotifications: true,
		},
	}
	if existing == nil {
		return f
	}

	f.Name = existing.Name
	f.Email = existing.Email
	f.Phone = existing.Phone
	f.Address = existing.Address
	f.City = existing.City
	f.Province = existing.Province
	f.PostalCode = existing.PostalCode
	f.Website = existing.Website
	f.LinkedIn = existing.LinkedIn
	f.FirmName = existing.FirmName
	f.LicensingBody = existing.LicensingBody
	f.RegistrationNumber = existing.RegistrationNumber
	f.YearsOfExperience = existing.YearsOfExperience
	f.Certifications = existing.Certifications
	f.Expertise = model.NewStringSet(existing.Expertise...)
	f.Languages = model.NewStringSet(existing.Languages...)
	f.PreferredClientTypes = model.NewStringSet(existing.ClientTypes...)
	f.PreferredMeetingMethods = model.NewStringSet(existing.MeetingMethods...)
	f.FeeStructure = existing.FeeStructure
	f.Pricing = existing.Pricing
	if existing.MinimumInvestment != nil {
		v := *existing.MinimumInvestment
		f.MinimumInvestment = &v
	}
	f.AssetsUnderManagement = existing.AssetsUnderManagement
	f.Bio = existing.Bio
	f.ProfilePicture = existing.ProfilePicture
	f.Testimonials = append([]model.Testimonial(nil), existing.Testimonials...)
	f.Availability = append([]model.AvailabilitySlot(nil), existing.Availability...)
	f.ConsentToBackgroundCheck = existing.Consent.BackgroundCheck
	f.ConsentToTerms = existing.Consent.Terms
	f.ConsentToContact = existing.Consent.Contact
	f.ConsentToMarketing = existing.Consent.Marketing
	f.SubscriptionPlan = existing.SubscriptionPlan
	if existing.Settings != nil {
		f.Settings = *existing.Settings
	}
	return f
}

// ToProfile converts a form into the persisted advisor profile shape.
func ToProfile(f model.AdvisorProfileForm, id, userID string) *model.AdvisorProfile {
	p := &model.AdvisorProfile{
		ID:                    id,
		UserID:                userID,
		Name:                  f.Name,
		Email:                 f.Email,
		Phone:                 f.Phone,
		Address:               f.Address,
		PostalCode:            f.PostalCode,
		Website:               f.Website,
		LinkedIn:              f.LinkedIn,
		FirmName:              f.FirmName,
		City:                  f.City,
		Province:              f.Province,
		LicensingBody:         f.LicensingBody,
		RegistrationNumber:    f.RegistrationNumber,
		YearsOfExperience:     f.YearsOfExperience,
		Certifications:        f.Certifications,
		Expertise:             f.Expertise.Values(),
		Languages:             f.Languages.Values(),
		ClientTypes:           f.PreferredClientTypes.Values(),
		MeetingMethods:        f.PreferredMeetingMethods.Values(),
		FeeStructure:          f.FeeStructure,
		Pricing:               f.Pricing,
		AssetsUnderManagement: f.AssetsUnderManagement,
		Bio:                   f.Bio,
		ProfilePicture:        f.ProfilePicture,
		Testimonials:          append([]model.Testimonial(nil), f.Testimonials...),
		Availability:          append([]model.AvailabilitySlot(nil), f.Availability...),
		SubscriptionPlan:      f.SubscriptionPlan,
		Consent: model.Consent{
			BackgroundCheck: f.ConsentToBackgroundCheck,
			Terms:           f.ConsentToTerms,
			Contact:         f.ConsentToContact,
			Marketing:       f.ConsentToMarketing,
		},
	}
	settings := f.Settings
	p.Settings = &settings
	if f.MinimumInvestment != nil {
		v := *f.MinimumInvestment
		p.MinimumInvestment = &v
	}
	return p
}

// Editor owns one advisor's in-progress form and its section state. It is
// not safe for concurrent use.
type Editor struct {
	userID    string
	profileID string
	form      model.AdvisorProfileForm
	sections  *completion.Tracker
}

// NewEditor starts an editor for userID, seeded from existing when present.
func NewEditor(userID string, existing *model.AdvisorProfile) *Editor {
	f := NewForm(existing)
	e := &Editor{userID: userID, form: f, sections: completion.NewTracker(&f)}
	if existing != nil {
		e.profileID = existing.ID
	}
	return e
}

// RestoreEditor rebuilds an editor from a saved draft.
func RestoreEditor(d *model.AdvisorDraft) *Editor {
	f := d.Form.Clone()
	open := make(map[completion.SectionID]bool, len(d.OpenSections))
	for id, isOpen := range d.OpenSections {
		open[completion.SectionID(id)] = isOpen
	}
	return &Editor{
		userID:    d.UserID,
		profileID: d.ProfileID,
		form:      f,
		sections:  completion.Restore(open, &f),
	}
}

// Apply runs the actions in order. Either all of them apply or, on the first
// error, none do.
func (e *Editor) Apply(actions ...Action) error {
	next := e.form
	for _, a := range actions {
		var err error
		next, err = Reduce(next, a)
		if err != nil {
			return err
		}
	}
	e.form = next
	e.sections.Refresh(&e.form)
	return nil
}

// HandleChange applies a raw control event.
func (e *Editor) HandleChange(ev ControlEvent) error {
	return e.Apply(FromControl(ev))
}

// HandleMultiSelectChange toggles value in the named multi-select field.
func (e *Editor) HandleMultiSelectChange(field, value string) error {
	return e.Apply(ToggleAction{Field: field, Value: value})
}

// ToggleSection opens or closes a form panel.
func (e *Editor) ToggleSection(id completion.SectionID) error {
	return e.sections.Toggle(id)
}

// Form returns a copy of the current form.
func (e *Editor) Form() model.AdvisorProfileForm { return e.form.Clone() }

// Sections returns the current section states.
func (e *Editor) Sections() []completion.Section { return e.sections.Sections() }

// Completion returns the overall completion percentage.
func (e *Editor) Completion() float64 { return completion.Calculate(&e.form) }

// Report returns the full completion report.
func (e *Editor) Report() completion.Report { return completion.Evaluate(&e.form) }

// Draft snapshots the editor for persistence.
func (e *Editor) Draft() *model.AdvisorDraft {
	open := make(map[string]bool)
	for id, isOpen := range e.sections.OpenState() {
		open[string(id)] = isOpen
	}
	return &model.AdvisorDraft{
		UserID:       e.userID,
		ProfileID:    e.profileID,
		Form:         e.form.Clone(),
		OpenSections: open,
		UpdatedAt:    time.Now().UTC(),
	}
}

// Submit converts the form to an advisor profile and hands it to saver. A
// profile id is assigned on first submit and reused afterwards.
func (e *Editor) Submit(ctx context.Context, saver ProfileSaver) (*model.AdvisorProfile, error) {
	if e.profileID == "" {
		e.profileID = uuid.New().String()
	}
	p := ToProfile(e.form, e.profileID, e.userID)
	p.UpdatedAt = time.Now().UTC()

	if err := saver.SetAdvisorProfile(ctx, p); err != nil {
		return nil, eris.Wrap(err, "profileform: save profile")
	}

	zap.L().Info("advisor profile submitted",
		zap.String("user_id", e.userID),
		zap.String("profile_id", e.profileID),
		zap.Float64("completion", e.Completion()),
	)
	return p, nil
}
