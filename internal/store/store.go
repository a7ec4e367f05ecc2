// Package store persists profiles, drafts, chats, matches and accounts.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/advisor-match/internal/model"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = eris.New("store: not found")

// Store defines the persistence interface for the matching service.
type Store interface {
	// Advisor form drafts
	GetAdvisorDraft(ctx context.Context, userID string) (*model.AdvisorDraft, error)
	PutAdvisorDraft(ctx context.Context, draft *model.AdvisorDraft) error

	// Profiles
	SetAdvisorProfile(ctx context.Context, p *model.AdvisorProfile) error
	GetAdvisorProfile(ctx context.Context, id string) (*model.AdvisorProfile, error)
	ListAdvisorProfiles(ctx context.Context) ([]model.AdvisorProfile, error)
	SetConsumerProfile(ctx context.Context, p *model.ConsumerProfile) error
	GetConsumerProfile(ctx context.Context, id string) (*model.ConsumerProfile, error)
	ListConsumerProfiles(ctx context.Context) ([]model.ConsumerProfile, error)
	ImportProfiles(ctx context.Context, advisors []model.AdvisorProfile, consumers []model.ConsumerProfile) (int64, error)

	// Firms
	ListFirms(ctx context.Context) ([]model.Firm, error)
	AddFirm(ctx context.Context, f *model.Firm) error

	// Chats. FindChat returns (nil, nil) when the pair has no chat yet.
	ListChats(ctx context.Context, userID string) ([]model.Chat, error)
	FindChat(ctx context.Context, a, b string) (*model.Chat, error)
	GetChat(ctx context.Context, id string) (*model.Chat, error)
	CreateChat(ctx context.Context, chat *model.Chat) error
	AppendMessage(ctx context.Context, msg *model.Message) error

	// Matches. AppendMatch ignores ids already recorded for the user.
	AppendMatch(ctx context.Context, userID, matchID string) error
	ListMatches(ctx context.Context, userID string) ([]string, error)

	// Accounts
	CreateUser(ctx context.Context, u *model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	// Newsletter. Subscribe reports whether the address was new.
	Subscribe(ctx context.Context, email string) (bool, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

func notFound(entity, id string) error {
	return eris.Wrapf(ErrNotFound, "%s %s", entity, id)
}
