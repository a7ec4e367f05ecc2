package profileform

import (
	"sort"

	"github.com/sells-group/advisor-match/internal/model"
)

// Field names as sent by form controls.
const (
	FieldHourlyRate            = "hourlyRate"
	FieldPortfolioFee          = "portfolioFee"
	FieldMinimumInvestment     = "minimumInvestment"
	FieldAssetsUnderManagement = "assetsUnderManagement"

	FieldExpertise               = "expertise"
	FieldLanguages               = "languages"
	FieldPreferredClientTypes    = "preferredClientTypes"
	FieldPreferredMeetingMethods = "preferredMeetingMethods"
)

type pf = model.AdvisorProfileForm

var textFields = map[string]func(f *pf) *string{
	"name":               func(f *pf) *string { return &f.Name },
	"email":              func(f *pf) *string { return &f.Email },
	"phone":              func(f *pf) *string { return &f.Phone },
	"address":            func(f *pf) *string { return &f.Address },
	"city":               func(f *pf) *string { return &f.City },
	"province":           func(f *pf) *string { return &f.Province },
	"postalCode":         func(f *pf) *string { return &f.PostalCode },
	"website":            func(f *pf) *string { return &f.Website },
	"linkedinUrl":        func(f *pf) *string { return &f.LinkedIn },
	"firmName":           func(f *pf) *string { return &f.FirmName },
	"licensingBody":      func(f *pf) *string { return &f.LicensingBody },
	"registrationNumber": func(f *pf) *string { return &f.RegistrationNumber },
	"yearsOfExperience":  func(f *pf) *string { return &f.YearsOfExperience },
	"certifications":     func(f *pf) *string { return &f.Certifications },
	"feeStructure":       func(f *pf) *string { return &f.FeeStructure },
	"bio":                func(f *pf) *string { return &f.Bio },
	"profilePicture":     func(f *pf) *string { return &f.ProfilePicture },
	"subscriptionPlan":   func(f *pf) *string { return &f.SubscriptionPlan },
}

var checkboxFields = map[string]func(f *pf) *bool{
	"consentToBackgroundCheck": func(f *pf) *bool { return &f.ConsentToBackgroundCheck },
	"consentToTerms":           func(f *pf) *bool { return &f.ConsentToTerms },
	"consentToContact":         func(f *pf) *bool { return &f.ConsentToContact },
	"consentToMarketing":       func(f *pf) *bool { return &f.ConsentToMarketing },
}

var settingFields = map[string]func(f *pf) *bool{
	"profileVisible":     func(f *pf) *bool { return &f.Settings.ProfileVisible },
	"acceptingClients":   func(f *pf) *bool { return &f.Settings.AcceptingClients },
	"emailNotifications": func(f *pf) *bool { return &f.Settings.EmailNotifications },
	"smsNotifications":   func(f *pf) *bool { return &f.Settings.SMSNotifications },
}

// numericFields excludes minimumInvestment, which is nullable and handled
// separately.
var numericFields = map[string]func(f *pf) *float64{
	FieldHourlyRate:            func(f *pf) *float64 { return &f.Pricing.HourlyRate },
	FieldPortfolioFee:          func(f *pf) *float64 { return &f.Pricing.PortfolioFee },
	FieldAssetsUnderManagement: func(f *pf) *float64 { return &f.AssetsUnderManagement },
}

var setFields = map[string]func(f *pf) *model.StringSet{
	FieldExpertise:               func(f *pf) *model.StringSet { return &f.Expertise },
	FieldLanguages:               func(f *pf) *model.StringSet { return &f.Languages },
	FieldPreferredClientTypes:    func(f *pf) *model.StringSet { return &f.PreferredClientTypes },
	FieldPreferredMeetingMethods: func(f *pf) *model.StringSet { return &f.PreferredMeetingMethods },
}

// Fields lists every writable field name grouped by the action kind that
// writes it.
func Fields() map[Kind][]string {
	return map[Kind][]string{
		KindText:     keys(textFields),
		KindCheckbox: keys(checkboxFields),
		KindNumeric:  append(keys(numericFields), FieldMinimumInvestment),
		KindToggle:   keys(setFields),
		KindSetting:  keys(settingFields),
	}
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func isSettingField(name string) bool {
	_, ok := settingFields[name]
	return ok
}
