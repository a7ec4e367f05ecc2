package model

import "time"

// Firm is an advisory firm advisors can attach to their profile.
type Firm struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Website   string    `json:"website,omitempty"`
	Province  string    `json:"province,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
