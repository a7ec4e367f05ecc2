package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChat_HasParticipants(t *testing.T) {
	t.Parallel()

	c := Chat{Participants: [2]string{"consumer-1", "advisor-2"}}
	assert.True(t, c.HasParticipants("consumer-1", "advisor-2"))
	assert.True(t, c.HasParticipants("advisor-2", "consumer-1"))
	assert.False(t, c.HasParticipants("consumer-1", "advisor-3"))
}

func TestParticipantKey_OrderIndependent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ParticipantKey("b", "a"), ParticipantKey("a", "b"))
	assert.Equal(t, "a:b", ParticipantKey("b", "a"))
}

func TestRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		role     Role
		valid    bool
		opposite Role
	}{
		{RoleAdvisor, true, RoleConsumer},
		{RoleConsumer, true, RoleAdvisor},
		{Role("admin"), false, RoleAdvisor},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.valid, tt.role.Valid())
			assert.Equal(t, tt.opposite, tt.role.Opposite())
		})
	}
}

func TestAdvisorProfileForm_CloneDeep(t *testing.T) {
	t.Parallel()

	minInv := 50000.0
	f := AdvisorProfileForm{
		Expertise:         NewStringSet("tax"),
		MinimumInvestment: &minInv,
		Testimonials:      []Testimonial{{Author: "A"}},
	}
	c := f.Clone()
	c.Expertise.Add("estate")
	*c.MinimumInvestment = 1
	c.Testimonials[0].Author = "B"

	assert.Equal(t, []string{"tax"}, f.Expertise.Values())
	assert.InDelta(t, 50000.0, *f.MinimumInvestment, 0.001)
	assert.Equal(t, "A", f.Testimonials[0].Author)
}
