package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/advisor-match/internal/model"
)

func newTestSQLite(t *testing.T) Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() }) //nolint:errcheck
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLiteStore(t *testing.T) {
	storeTestSuite(t, newTestSQLite)
}

func TestSQLite_MigrateIdempotent(t *testing.T) {
	s := newTestSQLite(t)
	assert.NoError(t, s.Migrate(context.Background()))
}

func storeTestSuite(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("DraftRoundTrip", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.GetAdvisorDraft(ctx, "u1")
		assert.ErrorIs(t, err, ErrNotFound)

		draft := &model.AdvisorDraft{
			UserID: "u1",
			Form: model.AdvisorProfileForm{
				Name:      "Sarah Johnson",
				Expertise: model.NewStringSet("tax", "retirement"),
			},
			OpenSections: map[string]bool{"basic-info": true},
		}
		require.NoError(t, s.PutAdvisorDraft(ctx, draft))

		got, err := s.GetAdvisorDraft(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "Sarah Johnson", got.Form.Name)
		assert.Equal(t, []string{"tax", "retirement"}, got.Form.Expertise.Values())
		assert.True(t, got.OpenSections["basic-info"])

		draft.ProfileID = "p1"
		draft.Form.Name = "Sarah J."
		require.NoError(t, s.PutAdvisorDraft(ctx, draft))
		got, err = s.GetAdvisorDraft(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "p1", got.ProfileID)
		assert.Equal(t, "Sarah J.", got.Form.Name)
	})

	t.Run("AdvisorProfiles", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.GetAdvisorProfile(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)

		minInv := 25000.0
		p := &model.AdvisorProfile{
			ID:                "a1",
			UserID:            "u1",
			Name:              "Sarah Johnson",
			Province:          "ON",
			Languages:         []string{"english", "french"},
			Expertise:         []string{"tax"},
			MinimumInvestment: &minInv,
		}
		require.NoError(t, s.SetAdvisorProfile(ctx, p))
		require.NoError(t, s.SetAdvisorProfile(ctx, &model.AdvisorProfile{ID: "a0", Name: "Aaron"}))

		got, err := s.GetAdvisorProfile(ctx, "a1")
		require.NoError(t, err)
		assert.Equal(t, p.Languages, got.Languages)
		require.NotNil(t, got.MinimumInvestment)
		assert.InDelta(t, 25000.0, *got.MinimumInvestment, 0.001)

		p.Province = "QC"
		require.NoError(t, s.SetAdvisorProfile(ctx, p))

		all, err := s.ListAdvisorProfiles(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "Aaron", all[0].Name)
		assert.Equal(t, "QC", all[1].Province)
	})

	t.Run("AdvisorProfileSettingsAndTestimonials", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		p := &model.AdvisorProfile{
			ID:             "a1",
			Name:           "Sarah Johnson",
			Website:        "https://example.com",
			Certifications: "CFP",
			Testimonials:   []model.Testimonial{{Author: "Tom", Quote: "Great", Rating: 5}},
			Consent:        model.Consent{Terms: true, Contact: true},
			Settings:       &model.ProfileSettings{ProfileVisible: false, AcceptingClients: true},
		}
		require.NoError(t, s.SetAdvisorProfile(ctx, p))

		got, err := s.GetAdvisorProfile(ctx, "a1")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", got.Website)
		assert.Equal(t, "CFP", got.Certifications)
		assert.Equal(t, p.Testimonials, got.Testimonials)
		assert.True(t, got.Consent.Terms)
		require.NotNil(t, got.Settings)
		assert.False(t, got.Settings.ProfileVisible)
		assert.False(t, got.Listed())
	})

	t.Run("ConsumerProfiles", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		all, err := s.ListConsumerProfiles(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
		assert.NotNil(t, all)

		require.NoError(t, s.SetConsumerProfile(ctx, &model.ConsumerProfile{
			ID: "c1", Name: "James Wilson", PreferredLanguage: "english", StartTimeline: "immediately",
		}))
		got, err := s.GetConsumerProfile(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, "immediately", got.StartTimeline)

		_, err = s.GetConsumerProfile(ctx, "c2")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("ImportProfiles", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		n, err := s.ImportProfiles(ctx,
			[]model.AdvisorProfile{{ID: "a1", Name: "A"}, {ID: "a2", Name: "B"}},
			[]model.ConsumerProfile{{ID: "c1", Name: "C"}},
		)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)

		// Re-import updates in place.
		_, err = s.ImportProfiles(ctx, []model.AdvisorProfile{{ID: "a1", Name: "A2"}}, nil)
		require.NoError(t, err)
		advisors, err := s.ListAdvisorProfiles(ctx)
		require.NoError(t, err)
		require.Len(t, advisors, 2)
		assert.Equal(t, "A2", advisors[0].Name)
	})

	t.Run("Firms", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.AddFirm(ctx, &model.Firm{ID: "f2", Name: "Zeta Wealth"}))
		require.NoError(t, s.AddFirm(ctx, &model.Firm{ID: "f1", Name: "Alpha Advisors", Province: "ON"}))

		firms, err := s.ListFirms(ctx)
		require.NoError(t, err)
		require.Len(t, firms, 2)
		assert.Equal(t, "Alpha Advisors", firms[0].Name)
		assert.False(t, firms[0].CreatedAt.IsZero())

		assert.Error(t, s.AddFirm(ctx, &model.Firm{ID: "f1", Name: "Duplicate"}))
	})

	t.Run("Chats", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		none, err := s.FindChat(ctx, "u1", "u2")
		require.NoError(t, err)
		assert.Nil(t, none)

		created := time.Now().UTC().Add(-time.Hour)
		require.NoError(t, s.CreateChat(ctx, &model.Chat{
			ID: "chat-1", Participants: [2]string{"u1", "u2"}, LastUpdated: created,
		}))

		found, err := s.FindChat(ctx, "u2", "u1")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "chat-1", found.ID)
		assert.Empty(t, found.Messages)

		sent := time.Now().UTC()
		require.NoError(t, s.AppendMessage(ctx, &model.Message{
			ID: "m1", ChatID: "chat-1", SenderID: "u1", Body: "hello", SentAt: sent,
		}))
		require.NoError(t, s.AppendMessage(ctx, &model.Message{
			ID: "m2", ChatID: "chat-1", SenderID: "u2", Body: "hi", SentAt: sent.Add(time.Second),
		}))

		chat, err := s.GetChat(ctx, "chat-1")
		require.NoError(t, err)
		require.Len(t, chat.Messages, 2)
		assert.Equal(t, "hello", chat.Messages[0].Body)
		assert.WithinDuration(t, sent.Add(time.Second), chat.LastUpdated, time.Millisecond)

		chats, err := s.ListChats(ctx, "u2")
		require.NoError(t, err)
		require.Len(t, chats, 1)
		assert.Len(t, chats[0].Messages, 2)

		chats, err = s.ListChats(ctx, "u3")
		require.NoError(t, err)
		assert.Empty(t, chats)

		err = s.AppendMessage(ctx, &model.Message{ID: "m3", ChatID: "nope", SenderID: "u1", Body: "x"})
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = s.GetChat(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)

		// The participant pair is unique regardless of order.
		assert.Error(t, s.CreateChat(ctx, &model.Chat{ID: "chat-2", Participants: [2]string{"u2", "u1"}}))
	})

	t.Run("Matches", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.AppendMatch(ctx, "u1", "advisor-2"))
		require.NoError(t, s.AppendMatch(ctx, "u1", "advisor-1"))
		require.NoError(t, s.AppendMatch(ctx, "u1", "advisor-2"))
		require.NoError(t, s.AppendMatch(ctx, "u2", "advisor-3"))

		ids, err := s.ListMatches(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, []string{"advisor-2", "advisor-1"}, ids)

		ids, err = s.ListMatches(ctx, "u9")
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("Users", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		u := &model.User{ID: "u1", Email: "sarah@example.com", Name: "Sarah", Role: model.RoleAdvisor, PasswordHash: "hash"}
		require.NoError(t, s.CreateUser(ctx, u))
		assert.Error(t, s.CreateUser(ctx, &model.User{ID: "u2", Email: "sarah@example.com", Role: model.RoleConsumer, PasswordHash: "h"}))

		got, err := s.GetUserByEmail(ctx, "sarah@example.com")
		require.NoError(t, err)
		assert.Equal(t, "u1", got.ID)
		assert.Equal(t, model.RoleAdvisor, got.Role)
		assert.Equal(t, "hash", got.PasswordHash)

		got, err = s.GetUser(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "sarah@example.com", got.Email)

		_, err = s.GetUser(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.GetUserByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Newsletter", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		isNew, err := s.Subscribe(ctx, "reader@example.com")
		require.NoError(t, err)
		assert.True(t, isNew)

		isNew, err = s.Subscribe(ctx, "reader@example.com")
		require.NoError(t, err)
		assert.False(t, isNew)
	})
}
