// Package completion derives per-section completion flags and an overall
// completion percentage for an advisor profile form.
package completion

import (
	"github.com/sells-group/advisor-match/internal/model"
)

// SectionID identifies one panel of the advisor profile form.
type SectionID string

const (
	SectionBasicInfo    SectionID = "basic-info"
	SectionProfessional SectionID = "professional-info"
	SectionExpertise    SectionID = "expertise"
	SectionFees         SectionID = "fee-structure"
	SectionMarketing    SectionID = "marketing"
	SectionVerification SectionID = "verification"
	SectionSubscription SectionID = "subscription"
	SectionConsent      SectionID = "consent"
)

// Predicate reports whether a section of the form is complete.
type Predicate func(f *model.AdvisorProfileForm) bool

// rule ties a section to its predicate and the hint shown while it is missing.
type rule struct {
	id    SectionID
	title string
	icon  string
	tip   string
	done  Predicate
}

// rules is ordered as the sections appear in the form.
var rules = []rule{
	{SectionBasicInfo, "Basic Information", "user", "Add your name, email, phone and province", IsBasicInfoComplete},
	{SectionProfessional, "Professional Credentials", "award", "Add your licensing body, registration number and years of experience", IsProfessionalInfoComplete},
	{SectionExpertise, "Areas of Expertise", "briefcase", "Select at least one area of expertise", IsExpertiseComplete},
	{SectionFees, "Fee Structure", "dollar-sign", "Choose how you charge clients", IsFeeStructureComplete},
	{SectionMarketing, "Marketing Profile", "image", "Upload a profile picture and write a short bio", IsMarketingComplete},
	{SectionVerification, "Verification", "shield-check", "Consent to a background check", IsVerificationComplete},
	{SectionSubscription, "Subscription", "credit-card", "Pick a subscription plan", IsSubscriptionComplete},
	{SectionConsent, "Terms & Consent", "check-square", "Accept the terms and consent to be contacted", IsConsentComplete},
}

// SectionCount is the number of tracked sections.
var SectionCount = len(rules)

// IsBasicInfoComplete requires name, email, phone and province.
func IsBasicInfoComplete(f *model.AdvisorProfileForm) bool {
	return f.Name != "" && f.Email != "" && f.Phone != "" && f.Province != ""
}

// IsProfessionalInfoComplete requires licensing body, registration number
// and years of experience.
func IsProfessionalInfoComplete(f *model.AdvisorProfileForm) bool {
	return f.LicensingBody != "" && f.RegistrationNumber != "" && f.YearsOfExperience != ""
}

// IsExpertiseComplete requires at least one area of expertise.
func IsExpertiseComplete(f *model.AdvisorProfileForm) bool {
	return f.Expertise.Len() > 0
}

// IsFeeStructureComplete requires a fee structure.
func IsFeeStructureComplete(f *model.AdvisorProfileForm) bool {
	return f.FeeStructure != ""
}

// IsMarketingComplete requires a profile picture and a bio.
func IsMarketingComplete(f *model.AdvisorProfileForm) bool {
	return f.ProfilePicture != "" && f.Bio != ""
}

// IsVerificationComplete requires consent to a background check.
func IsVerificationComplete(f *model.AdvisorProfileForm) bool {
	return f.ConsentToBackgroundCheck
}

// IsSubscriptionComplete requires a chosen plan.
func IsSubscriptionComplete(f *model.AdvisorProfileForm) bool {
	return f.SubscriptionPlan != ""
}

// IsConsentComplete requires accepting the terms and consenting to contact.
func IsConsentComplete(f *model.AdvisorProfileForm) bool {
	return f.ConsentToTerms && f.ConsentToContact
}

// IsSectionComplete evaluates a single section by id. Unknown ids are
// never complete.
func IsSectionComplete(id SectionID, f *model.AdvisorProfileForm) bool {
	for _, r := range rules {
		if r.id == id {
			return r.done(f)
		}
	}
	return false
}

// Calculate returns the share of complete sections as a percentage. The result
// is always an exact multiple of 100/SectionCount.
func Calculate(f *model.AdvisorProfileForm) float64 {
	done := 0
	for _, r := range rules {
		if r.done(f) {
			done++
		}
	}
	return float64(done) / float64(len(rules)) * 100
}

// Report summarizes completion for display.
type Report struct {
	Percentage float64     `json:"percentage"`
	Completed  []SectionID `json:"completed"`
	Missing    []SectionID `json:"missing"`
	Tips       []string    `json:"tips"`
}

// Evaluate computes a full completion report.
func Evaluate(f *model.AdvisorProfileForm) Report {
	rep := Report{
		Completed: []SectionID{},
		Missing:   []SectionID{},
		Tips:      []string{},
	}
	for _, r := range rules {
		if r.done(f) {
			rep.Completed = append(rep.Completed, r.id)
			continue
		}
		rep.Missing = append(rep.Missing, r.id)
		rep.Tips = append(rep.Tips, r.tip)
	}
	rep.Percentage = float64(len(rep.Completed)) / float64(len(rules)) * 100
	return rep
}
