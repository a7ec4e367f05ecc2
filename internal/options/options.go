// Package options holds the static select-option tables used by the advisor
// and consumer profile forms.
package options

import "sort"

// Option is a single selectable value.
type Option struct {
	Value       string `json:"value" yaml:"value"`
	Label       string `json:"label" yaml:"label"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Plan is a paid advisor subscription tier.
type Plan struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	MonthlyPrice float64  `json:"monthlyPrice"`
	AnnualPrice  float64  `json:"annualPrice"`
	Features     []string `json:"features"`
	Recommended  bool     `json:"recommended,omitempty"`
}

// Table names.
const (
	TableFeeStructures     = "fee_structures"
	TableProvinces         = "provinces"
	TableLicensingBodies   = "licensing_bodies"
	TableServiceCategories = "service_categories"
	TableLanguages         = "languages"
	TableClientTypes       = "client_types"
	TableMeetingMethods    = "meeting_methods"
	TableStartTimelines    = "start_timelines"
	TableInvestmentRanges  = "investment_ranges"
	TableWeekdays          = "weekdays"
)

var FeeStructures = []Option{
	{Value: "fee-only", Label: "Fee-Only", Description: "Paid directly by clients; no commissions."},
	{Value: "fee-based", Label: "Fee-Based", Description: "Client fees plus some commission products."},
	{Value: "commission", Label: "Commission-Based", Description: "Paid by product providers."},
	{Value: "hourly", Label: "Hourly", Description: "Billed per hour of advice."},
	{Value: "flat-fee", Label: "Flat Fee", Description: "Fixed price per plan or engagement."},
	{Value: "aum", Label: "Percentage of AUM", Description: "Annual fee on assets under management."},
	{Value: "retainer", Label: "Retainer", Description: "Recurring subscription for ongoing advice."},
}

var Provinces = []Option{
	{Value: "AB", Label: "Alberta"},
	{Value: "BC", Label: "British Columbia"},
	{Value: "MB", Label: "Manitoba"},
	{Value: "NB", Label: "New Brunswick"},
	{Value: "NL", Label: "Newfoundland and Labrador"},
	{Value: "NS", Label: "Nova Scotia"},
	{Value: "NT", Label: "Northwest Territories"},
	{Value: "NU", Label: "Nunavut"},
	{Value: "ON", Label: "Ontario"},
	{Value: "PE", Label: "Prince Edward Island"},
	{Value: "QC", Label: "Quebec"},
	{Value: "SK", Label: "Saskatchewan"},
	{Value: "YT", Label: "Yukon"},
}

var LicensingBodies = []Option{
	{Value: "ciro", Label: "Canadian Investment Regulatory Organization (CIRO)"},
	{Value: "fsra", Label: "Financial Services Regulatory Authority of Ontario (FSRA)"},
	{Value: "amf", Label: "Autorité des marchés financiers (AMF)"},
	{Value: "bcfsa", Label: "BC Financial Services Authority (BCFSA)"},
	{Value: "aic", Label: "Alberta Insurance Council (AIC)"},
	{Value: "fp-canada", Label: "FP Canada (CFP)"},
	{Value: "iqpf", Label: "Institut québécois de planification financière (IQPF)"},
	{Value: "cfa", Label: "CFA Institute"},
	{Value: "other", Label: "Other"},
}

var ServiceCategories = []Option{
	{Value: "retirement", Label: "Retirement Planning"},
	{Value: "investment", Label: "Investment Management"},
	{Value: "tax", Label: "Tax Planning"},
	{Value: "estate", Label: "Estate Planning"},
	{Value: "insurance", Label: "Insurance & Risk Management"},
	{Value: "debt", Label: "Debt Management"},
	{Value: "education", Label: "Education Savings (RESP)"},
	{Value: "business", Label: "Business Owner Planning"},
	{Value: "cross-border", Label: "Cross-Border Planning"},
	{Value: "divorce", Label: "Divorce & Separation"},
	{Value: "esg", Label: "Responsible & ESG Investing"},
	{Value: "budgeting", Label: "Budgeting & Cash Flow"},
}

var Languages = []Option{
	{Value: "english", Label: "English"},
	{Value: "french", Label: "French"},
	{Value: "mandarin", Label: "Mandarin"},
	{Value: "cantonese", Label: "Cantonese"},
	{Value: "punjabi", Label: "Punjabi"},
	{Value: "spanish", Label: "Spanish"},
	{Value: "arabic", Label: "Arabic"},
	{Value: "tagalog", Label: "Tagalog"},
	{Value: "hindi", Label: "Hindi"},
	{Value: "italian", Label: "Italian"},
	{Value: "portuguese", Label: "Portuguese"},
}

var ClientTypes = []Option{
	{Value: "young-professionals", Label: "Young Professionals"},
	{Value: "families", Label: "Families"},
	{Value: "pre-retirees", Label: "Pre-Retirees"},
	{Value: "retirees", Label: "Retirees"},
	{Value: "business-owners", Label: "Business Owners"},
	{Value: "high-net-worth", Label: "High Net Worth"},
	{Value: "newcomers", Label: "Newcomers to Canada"},
}

var MeetingMethods = []Option{
	{Value: "in-person", Label: "In Person"},
	{Value: "video", Label: "Video Call"},
	{Value: "phone", Label: "Phone"},
	{Value: "email", Label: "Email"},
}

var StartTimelines = []Option{
	{Value: "immediately", Label: "Immediately"},
	{Value: "1-3-months", Label: "Within 1–3 months"},
	{Value: "3-6-months", Label: "Within 3–6 months"},
	{Value: "6-plus-months", Label: "6+ months"},
	{Value: "researching", Label: "Just researching"},
}

var InvestmentRanges = []Option{
	{Value: "under-50k", Label: "Under $50,000"},
	{Value: "50k-100k", Label: "$50,000 – $100,000"},
	{Value: "100k-250k", Label: "$100,000 – $250,000"},
	{Value: "250k-500k", Label: "$250,000 – $500,000"},
	{Value: "500k-1m", Label: "$500,000 – $1M"},
	{Value: "over-1m", Label: "Over $1M"},
}

var Weekdays = []Option{
	{Value: "monday", Label: "Monday"},
	{Value: "tuesday", Label: "Tuesday"},
	{Value: "wednesday", Label: "Wednesday"},
	{Value: "thursday", Label: "Thursday"},
	{Value: "friday", Label: "Friday"},
	{Value: "saturday", Label: "Saturday"},
	{Value: "sunday", Label: "Sunday"},
}

// SubscriptionPlans are the advisor listing tiers.
var SubscriptionPlans = []Plan{
	{
		ID:           "basic",
		Name:         "Basic",
		MonthlyPrice: 49,
		AnnualPrice:  490,
		Features:     []string{"Directory listing", "Up to 5 client matches per month", "Email support"},
	},
	{
		ID:           "professional",
		Name:         "Professional",
		MonthlyPrice: 99,
		AnnualPrice:  990,
		Features:     []string{"Featured listing", "Unlimited client matches", "In-app messaging", "Profile analytics"},
		Recommended:  true,
	},
	{
		ID:           "premium",
		Name:         "Premium",
		MonthlyPrice: 199,
		AnnualPrice:  1990,
		Features:     []string{"Top placement in search", "Unlimited client matches", "In-app messaging", "Dedicated success manager", "Verified badge"},
	},
}

var tables = map[string][]Option{
	TableFeeStructures:     FeeStructures,
	TableProvinces:         Provinces,
	TableLicensingBodies:   LicensingBodies,
	TableServiceCategories: ServiceCategories,
	TableLanguages:         Languages,
	TableClientTypes:       ClientTypes,
	TableMeetingMethods:    MeetingMethods,
	TableStartTimelines:    StartTimelines,
	TableInvestmentRanges:  InvestmentRanges,
	TableWeekdays:          Weekdays,
}

// Tables returns the names of all option tables, sorted.
func Tables() []string {
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns a copy of the named table.
func Lookup(name string) ([]Option, bool) {
	t, ok := tables[name]
	if !ok {
		return nil, false
	}
	return append([]Option(nil), t...), true
}

// Label returns the display label for value in the named table, or value
// itself when either is unknown.
func Label(table, value string) string {
	for _, o := range tables[table] {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

// Contains reports whether value is one of the table's options.
func Contains(table, value string) bool {
	for _, o := range tables[table] {
		if o.Value == value {
			return true
		}
	}
	return false
}

// Plans returns a copy of the subscription plans.
func Plans() []Plan {
	return append([]Plan(nil), SubscriptionPlans...)
}

// PlanByID finds a subscription plan.
func PlanByID(id string) (Plan, bool) {
	for _, p := range SubscriptionPlans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}
