package catalog

import "github.com/sells-group/advisor-match/internal/model"

// Mock returns the built-in demo catalog. Each call returns fresh slices.
func Mock() *Catalog {
	return &Catalog{
		Advisors: []model.AdvisorProfile{
			{
				ID:                "advisor-1",
				Name:              "Sarah Johnson",
				FirmName:          "Northbridge Wealth Partners",
				City:              "Toronto",
				Province:          "ON",
				LicensingBody:     "ciro",
				YearsOfExperience: "15",
				Expertise:         []string{"retirement", "investment", "tax"},
				Languages:         []string{"english", "french"},
				ClientTypes:       []string{"pre-retirees", "retirees"},
				MeetingMethods:    []string{"in-person", "video"},
				FeeStructure:      "fee-only",
				Pricing:           model.Pricing{HourlyRate: 200, PortfolioFee: 1.0},
				Bio:               "Fee-only planner helping families retire with confidence.",
				Rating:            4.9,
				Availability: []model.AvailabilitySlot{
					{Day: "monday", StartTime: "09:00", EndTime: "17:00"},
					{Day: "wednesday", StartTime: "09:00", EndTime: "17:00"},
				},
				Online:           true,
				Verified:         true,
				SubscriptionPlan: "premium",
			},
			{
				ID:                "advisor-2",
				Name:              "Michael Chen",
				FirmName:          "Pacific Crest Financial",
				City:              "Vancouver",
				Province:          "BC",
				LicensingBody:     "bcfsa",
				YearsOfExperience: "9",
				Expertise:         []string{"investment", "estate", "cross-border"},
				Languages:         []string{"english", "mandarin", "cantonese"},
				ClientTypes:       []string{"high-net-worth", "business-owners"},
				MeetingMethods:    []string{"video", "phone"},
				FeeStructure:      "aum",
				Pricing:           model.Pricing{PortfolioFee: 1.25},
				Bio:               "Portfolio manager focused on cross-border families.",
				Rating:            4.7,
				Availability: []model.AvailabilitySlot{
					{Day: "tuesday", StartTime: "10:00", EndTime: "18:00"},
				},
				Online:           false,
				Verified:         true,
				SubscriptionPlan: "professional",
			},
			{
				ID:                "advisor-3",
				Name:              "Émilie Tremblay",
				FirmName:          "Groupe Conseil Laurentien",
				City:              "Montréal",
				Province:          "QC",
				LicensingBody:     "amf",
				YearsOfExperience: "11",
				Expertise:         []string{"tax", "estate", "insurance"},
				Languages:         []string{"french", "english"},
				ClientTypes:       []string{"families", "business-owners"},
				MeetingMethods:    []string{"in-person", "video"},
				FeeStructure:      "fee-based",
				Pricing:           model.Pricing{HourlyRate: 150},
				Bio:               "Planificatrice financière, fiscalité et succession.",
				Rating:            4.8,
				Online:            true,
				Verified:          true,
				SubscriptionPlan:  "professional",
			},
			{
				ID:                "advisor-4",
				Name:              "David Patel",
				FirmName:          "Prairie Summit Advisory",
				City:              "Calgary",
				Province:          "AB",
				LicensingBody:     "fp-canada",
				YearsOfExperience: "7",
				Expertise:         []string{"business", "tax", "insurance"},
				Languages:         []string{"english", "hindi", "punjabi"},
				ClientTypes:       []string{"business-owners", "newcomers"},
				MeetingMethods:    []string{"in-person", "phone"},
				FeeStructure:      "flat-fee",
				Pricing:           model.Pricing{HourlyRate: 125},
				Bio:               "Helping owner-operators plan for growth and succession.",
				Rating:            4.6,
				Online:            true,
				SubscriptionPlan:  "basic",
			},
			{
				ID:                "advisor-5",
				Name:              "Olivia Martin",
				FirmName:          "Harbourview Planning",
				City:              "Halifax",
				Province:          "NS",
				LicensingBody:     "fp-canada",
				YearsOfExperience: "4",
				Expertise:         []string{"retirement", "debt", "budgeting"},
				Languages:         []string{"english"},
				ClientTypes:       []string{"young-professionals", "families"},
				MeetingMethods:    []string{"video", "email"},
				FeeStructure:      "hourly",
				Pricing:           model.Pricing{HourlyRate: 95},
				Bio:               "Practical cash-flow and debt planning for young families.",
				Rating:            4.5,
				Online:            false,
				SubscriptionPlan:  "basic",
			},
		},
		Consumers: []model.ConsumerProfile{
			{
				ID:                "consumer-1",
				Name:              "James Wilson",
				Province:          "ON",
				PreferredLanguage: "english",
				StartTimeline:     "immediately",
				InvestableAssets:  "250k-500k",
				FinancialGoals:    []string{"retire early", "reduce taxes"},
				ServicesNeeded:    []string{"retirement", "tax"},
				MeetingMethods:    []string{"video"},
				Online:            true,
			},
			{
				ID:                "consumer-2",
				Name:              "Sophie Gagnon",
				Province:          "QC",
				PreferredLanguage: "french",
				StartTimeline:     "1-3-months",
				InvestableAssets:  "100k-250k",
				FinancialGoals:    []string{"buy a home"},
				ServicesNeeded:    []string{"investment", "budgeting"},
				MeetingMethods:    []string{"in-person"},
				Online:            false,
			},
			{
				ID:                "consumer-3",
				Name:              "Raj Singh",
				Province:          "BC",
				PreferredLanguage: "punjabi",
				StartTimeline:     "3-6-months",
				InvestableAssets:  "500k-1m",
				FinancialGoals:    []string{"sell my business"},
				ServicesNeeded:    []string{"business", "estate"},
				MeetingMethods:    []string{"phone", "in-person"},
				Online:            true,
			},
			{
				ID:                "consumer-4",
				Name:              "Linda Nguyen",
				Province:          "AB",
				PreferredLanguage: "english",
				StartTimeline:     "researching",
				InvestableAssets:  "under-50k",
				FinancialGoals:    []string{"pay off debt"},
				ServicesNeeded:    []string{"debt"},
				MeetingMethods:    []string{"email", "video"},
				Online:            true,
			},
		},
	}
}
