// Package identity signs users in against the account store and tracks
// bearer-token sessions.
package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sells-group/advisor-match/internal/model"
	"github.com/sells-group/advisor-match/internal/store"
)

var (
	// ErrInvalidCredentials is returned when the email or password is wrong.
	ErrInvalidCredentials = eris.New("identity: invalid credentials")
	// ErrUnauthenticated is returned for unknown or expired tokens.
	ErrUnauthenticated = eris.New("identity: unauthenticated")
)

// Session is a signed-in user and the token that identifies them.
type Session struct {
	Token     string      `json:"token"`
	User      *model.User `json:"user"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// Provider authenticates users.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, token string) error
	User(ctx context.Context, token string) (*model.User, error)
}

// UserStore is the account storage the provider reads and writes.
type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

type tokenEntry struct {
	userID    string
	expiresAt time.Time
}

// StoreProvider checks bcrypt password hashes from a UserStore and keeps
// session tokens in memory.
type StoreProvider struct {
	users UserStore
	ttl   time.Duration
	now   func() time.Time

	mu     sync.Mutex
	tokens map[string]tokenEntry
}

// NewStoreProvider creates a provider whose sessions last ttl.
func NewStoreProvider(users UserStore, ttl time.Duration) *StoreProvider {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &StoreProvider{
		users:  users,
		ttl:    ttl,
		now:    time.Now,
		tokens: make(map[string]tokenEntry),
	}
}

// Register creates an account with a hashed password.
func (p *StoreProvider) Register(ctx context.Context, email, name, password string, role model.Role) (*model.User, error) {
	email = NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, eris.Errorf("identity: register: invalid email %q", email)
	}
	if !role.Valid() {
		return nil, eris.Errorf("identity: register: invalid role %q", role)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    p.now().UTC(),
	}
	if err := p.users.CreateUser(ctx, u); err != nil {
		return nil, eris.Wrap(err, "identity: register")
	}
	return u, nil
}

// SignIn verifies the password and starts a session.
func (p *StoreProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	u, err := p.users.GetUserByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, eris.Wrap(err, "identity: sign in")
	}
	if !CheckPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}
	expires := p.now().Add(p.ttl)

	p.mu.Lock()
	p.sweepLocked()
	p.tokens[token] = tokenEntry{userID: u.ID, expiresAt: expires}
	p.mu.Unlock()

	zap.L().Info("user signed in", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
	return &Session{Token: token, User: u, ExpiresAt: expires}, nil
}

// SignOut ends the session. Unknown tokens are ignored.
func (p *StoreProvider) SignOut(_ context.Context, token string) error {
	p.mu.Lock()
	delete(p.tokens, token)
	p.mu.Unlock()
	return nil
}

// User returns the account behind a live token.
func (p *StoreProvider) User(ctx context.Context, token string) (*model.User, error) {
	p.mu.Lock()
	e, ok := p.tokens[token]
	if ok && !p.now().Before(e.expiresAt) {
		delete(p.tokens, token)
		ok = false
	}
	p.mu.Unlock()
	if !ok {
		return nil, ErrUnauthenticated
	}

	u, err := p.users.GetUser(ctx, e.userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, eris.Wrap(err, "identity: load user")
	}
	return u, nil
}

// ActiveSessions returns the number of unexpired tokens.
func (p *StoreProvider) ActiveSessions() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sweepLocked()
	return len(p.tokens)
}

func (p *StoreProvider) sweepLocked() {
	now := p.now()
	for tok, e := range p.tokens {
		if !now.Before(e.expiresAt) {
			delete(p.tokens, tok)
		}
	}
}

// HashPassword hashes a plain password with bcrypt.
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", eris.New("identity: password must be at least 8 characters")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", eris.Wrap(err, "identity: hash password")
	}
	return string(b), nil
}

// CheckPassword compares a plain password with a bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NormalizeEmail lower-cases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", eris.Wrap(err, "identity: generate token")
	}
	return hex.EncodeToString(b), nil
}
