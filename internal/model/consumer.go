package model

import "time"

// ConsumerProfile is a prospective client looking for an advisor.
type ConsumerProfile struct {
	ID                string    `json:"id" yaml:"id"`
	UserID            string    `json:"userId,omitempty" yaml:"user_id,omitempty"`
	Name              string    `json:"name" yaml:"name"`
	Email             string    `json:"email,omitempty" yaml:"email,omitempty"`
	Province          string    `json:"province" yaml:"province"`
	PreferredLanguage string    `json:"preferredLanguage" yaml:"preferred_language"`
	StartTimeline     string    `json:"startTimeline" yaml:"start_timeline"`
	InvestableAssets  string    `json:"investableAssets,omitempty" yaml:"investable_assets,omitempty"`
	FinancialGoals    []string  `json:"financialGoals,omitempty" yaml:"financial_goals,omitempty"`
	ServicesNeeded    []string  `json:"servicesNeeded,omitempty" yaml:"services_needed,omitempty"`
	MeetingMethods    []string  `json:"meetingMethods,omitempty" yaml:"meeting_methods,omitempty"`
	Online            bool      `json:"online" yaml:"online"`
	UpdatedAt         time.Time `json:"updatedAt,omitzero" yaml:"-"`
}
