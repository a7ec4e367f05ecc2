package model

import "time"

// Pricing holds the two currency amounts an advisor quotes.
type Pricing struct {
	HourlyRate   float64 `json:"hourlyRate" yaml:"hourly_rate"`
	PortfolioFee float64 `json:"portfolioFee" yaml:"portfolio_fee"`
}

// AvailabilitySlot is a weekly window in which an advisor takes meetings.
type AvailabilitySlot struct {
	Day       string `json:"day" yaml:"day"`
	StartTime string `json:"startTime" yaml:"start_time"`
	EndTime   string `json:"endTime" yaml:"end_time"`
}

// Testimonial is a client quote shown on the advisor's public profile.
type Testimonial struct {
	Author string `json:"author" yaml:"author"`
	Quote  string `json:"quote" yaml:"quote"`
	Rating int    `json:"rating" yaml:"rating"`
}

// ProfileSettings are the advisor's visibility and notification toggles.
type ProfileSettings struct {
	ProfileVisible     bool `json:"profileVisible" yaml:"profile_visible"`
	AcceptingClients   bool `json:"acceptingClients" yaml:"accepting_clients"`
	EmailNotifications bool `json:"emailNotifications" yaml:"email_notifications"`
	SMSNotifications   bool `json:"smsNotifications" yaml:"sms_notifications"`
}

// AdvisorProfileForm is the mutable record edited section by section while an
// advisor builds their profile.
type AdvisorProfileForm struct {
	// Basic info
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postalCode"`
	Website    string `json:"website"`
	LinkedIn   string `json:"linkedinUrl"`
	FirmName   string `json:"firmName"`

	// Professional info
	LicensingBody      string `json:"licensingBody"`
	RegistrationNumber string `json:"registrationNumber"`
	YearsOfExperience  string `json:"yearsOfExperience"`
	Certifications     string `json:"certifications"`

	// Expertise
	Expertise               StringSet `json:"expertise"`
	Languages               StringSet `json:"languages"`
	PreferredClientTypes    StringSet `json:"preferredClientTypes"`
	PreferredMeetingMethods StringSet `json:"preferredMeetingMethods"`

	// Fees
	FeeStructure          string   `json:"feeStructure"`
	Pricing               Pricing  `json:"pricing"`
	MinimumInvestment     *float64 `json:"minimumInvestment"`
	AssetsUnderManagement float64  `json:"assetsUnderManagement"`

	// Marketing
	Bio            string        `json:"bio"`
	ProfilePicture string        `json:"profilePicture"`
	Testimonials   []Testimonial `json:"testimonials"`

	Availability []AvailabilitySlot `json:"availability"`

	// Verification and consent
	ConsentToBackgroundCheck bool `json:"consentToBackgroundCheck"`
	ConsentToTerms           bool `json:"consentToTerms"`
	ConsentToContact         bool `json:"consentToContact"`
	ConsentToMarketing       bool `json:"consentToMarketing"`

	SubscriptionPlan string          `json:"subscriptionPlan"`
	Settings         ProfileSettings `json:"settings"`
}

// Clone returns a deep copy so reducers never share slices with their input.
func (f AdvisorProfileForm) Clone() AdvisorProfileForm {
	out := f
	out.Expertise = f.Expertise.Clone()
	out.Languages = f.Languages.Clone()
	out.PreferredClientTypes = f.PreferredClientTypes.Clone()
	out.PreferredMeetingMethods = f.PreferredMeetingMethods.Clone()
	if f.MinimumInvestment != nil {
		v := *f.MinimumInvestment
		out.MinimumInvestment = &v
	}
	out.Testimonials = append([]Testimonial(nil), f.Testimonials...)
	out.Availability = append([]AvailabilitySlot(nil), f.Availability...)
	return out
}

// AdvisorProfile is the persisted, catalog-facing shape of an advisor.
type AdvisorProfile struct {
	ID                    string             `json:"id" yaml:"id"`
	UserID                string             `json:"userId,omitempty" yaml:"user_id,omitempty"`
	Name                  string             `json:"name" yaml:"name"`
	Email                 string             `json:"email,omitempty" yaml:"email,omitempty"`
	Phone                 string             `json:"phone,omitempty" yaml:"phone,omitempty"`
	Address               string             `json:"address,omitempty" yaml:"address,omitempty"`
	PostalCode            string             `json:"postalCode,omitempty" yaml:"postal_code,omitempty"`
	Website               string             `json:"website,omitempty" yaml:"website,omitempty"`
	LinkedIn              string             `json:"linkedinUrl,omitempty" yaml:"linkedin_url,omitempty"`
	FirmName              string             `json:"firmName,omitempty" yaml:"firm_name,omitempty"`
	City                  string             `json:"city,omitempty" yaml:"city,omitempty"`
	Province              string             `json:"province" yaml:"province"`
	LicensingBody         string             `json:"licensingBody,omitempty" yaml:"licensing_body,omitempty"`
	RegistrationNumber    string             `json:"registrationNumber,omitempty" yaml:"registration_number,omitempty"`
	YearsOfExperience     string             `json:"yearsOfExperience,omitempty" yaml:"years_of_experience,omitempty"`
	Certifications        string             `json:"certifications,omitempty" yaml:"certifications,omitempty"`
	Expertise             []string           `json:"expertise" yaml:"expertise"`
	Languages             []string           `json:"languages" yaml:"languages"`
	ClientTypes           []string           `json:"clientTypes,omitempty" yaml:"client_types,omitempty"`
	MeetingMethods        []string           `json:"meetingMethods,omitempty" yaml:"meeting_methods,omitempty"`
	FeeStructure          string             `json:"feeStructure" yaml:"fee_structure"`
	Pricing               Pricing            `json:"pricing" yaml:"pricing"`
	MinimumInvestment     *float64           `json:"minimumInvestment,omitempty" yaml:"minimum_investment,omitempty"`
	AssetsUnderManagement float64            `json:"assetsUnderManagement,omitempty" yaml:"assets_under_management,omitempty"`
	Bio                   string             `json:"bio,omitempty" yaml:"bio,omitempty"`
	ProfilePicture        string             `json:"profilePicture,omitempty" yaml:"profile_picture,omitempty"`
	Testimonials          []Testimonial      `json:"testimonials,omitempty" yaml:"testimonials,omitempty"`
	Rating                float64            `json:"rating,omitempty" yaml:"rating,omitempty"`
	Availability          []AvailabilitySlot `json:"availability,omitempty" yaml:"availability,omitempty"`
	Online                bool               `json:"online" yaml:"online"`
	Verified              bool               `json:"verified" yaml:"verified"`
	SubscriptionPlan      string             `json:"subscriptionPlan,omitempty" yaml:"subscription_plan,omitempty"`
	Consent               Consent            `json:"consent" yaml:"consent,omitempty"`
	// Settings is nil for profiles that never went through the form
	// (imports, demo data); those are listed.
	Settings  *ProfileSettings `json:"settings,omitempty" yaml:"settings,omitempty"`
	UpdatedAt time.Time        `json:"updatedAt,omitzero" yaml:"-"`
}

// Consent records the agreements an advisor accepted when submitting.
type Consent struct {
	BackgroundCheck bool `json:"backgroundCheck" yaml:"background_check,omitempty"`
	Terms           bool `json:"terms" yaml:"terms,omitempty"`
	Contact         bool `json:"contact" yaml:"contact,omitempty"`
	Marketing       bool `json:"marketing" yaml:"marketing,omitempty"`
}

// Listed reports whether the advisor should appear to consumers browsing
// the catalog: visible and accepting new clients.
func (p *AdvisorProfile) Listed() bool {
	if p.Settings == nil {
		return true
	}
	return p.Settings.ProfileVisible && p.Settings.AcceptingClients
}

// AdvisorDraft is an unsubmitted form saved between edits.
type AdvisorDraft struct {
	UserID       string             `json:"userId"`
	ProfileID    string             `json:"profileId,omitempty"`
	Form         AdvisorProfileForm `json:"form"`
	OpenSections map[string]bool    `json:"openSections"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}
