package model

import "time"

// Role distinguishes the two sides of the marketplace.
type Role string

const (
	RoleAdvisor  Role = "advisor"
	RoleConsumer Role = "consumer"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdvisor || r == RoleConsumer
}

// Opposite returns the role a user of r browses in the matching screen.
func (r Role) Opposite() Role {
	if r == RoleAdvisor {
		return RoleConsumer
	}
	return RoleAdvisor
}

// User is an authenticated account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
