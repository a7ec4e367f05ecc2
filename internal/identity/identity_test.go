package identity

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/advisor-match/internal/model"
	"github.com/sells-group/advisor-match/internal/store"
)

type memUsers struct {
	mu    sync.Mutex
	byID  map[string]*model.User
	err   error
	calls int
}

func newMemUsers() *memUsers { return &memUsers{byID: map[string]*model.User{}} }

func (m *memUsers) CreateUser(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return errors.New("duplicate email")
		}
	}
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) GetUser(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func newProvider(t *testing.T) (*StoreProvider, *memUsers) {
	t.Helper()
	users := newMemUsers()
	p := NewStoreProvider(users, time.Hour)
	_, err := p.Register(context.Background(), " Sarah@Example.com ", "Sarah Johnson", "correct-horse", model.RoleAdvisor)
	require.NoError(t, err)
	return p, users
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	p := NewStoreProvider(newMemUsers(), 0)
	ctx := context.Background()

	_, err := p.Register(ctx, "not-an-email", "X", "password1", model.RoleConsumer)
	assert.Error(t, err)
	_, err = p.Register(ctx, "x@example.com", "X", "password1", model.Role("admin"))
	assert.Error(t, err)
	_, err = p.Register(ctx, "x@example.com", "X", "short", model.RoleConsumer)
	assert.Error(t, err)
}

func TestSignIn_Success(t *testing.T) {
	t.Parallel()

	p, _ := newProvider(t)
	ctx := context.Background()

	sess, err := p.SignIn(ctx, "SARAH@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Len(t, sess.Token, 64)
	assert.Equal(t, "sarah@example.com", sess.User.Email)
	assert.Equal(t, model.RoleAdvisor, sess.User.Role)

	u, err := p.User(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, u.ID)
	assert.Equal(t, 1, p.ActiveSessions())
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	t.Parallel()

	p, _ := newProvider(t)
	ctx := context.Background()

	_, err := p.SignIn(ctx, "sarah@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = p.SignIn(ctx, "nobody@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignIn_StoreError(t *testing.T) {
	t.Parallel()

	p, users := newProvider(t)
	users.err = errors.New("db down")

	_, err := p.SignIn(context.Background(), "sarah@example.com", "correct-horse")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignOut(t *testing.T) {
	t.Parallel()

	p, _ := newProvider(t)
	ctx := context.Background()

	sess, err := p.SignIn(ctx, "sarah@example.com", "correct-horse")
	require.NoError(t, err)
	require.NoError(t, p.SignOut(ctx, sess.Token))

	_, err = p.User(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.NoError(t, p.SignOut(ctx, "unknown"))
}

func TestUser_Expired(t *testing.T) {
	t.Parallel()

	p, _ := newProvider(t)
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return start }

	sess, err := p.SignIn(ctx, "sarah@example.com", "correct-horse")
	require.NoError(t, err)

	p.now = func() time.Time { return start.Add(time.Hour) }
	_, err = p.User(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Equal(t, 0, p.ActiveSessions())
}

func TestHashPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("long-enough")
	require.NoError(t, err)
	assert.True(t, CheckPassword("long-enough", hash))
	assert.False(t, CheckPassword("other-pass", hash))
	assert.False(t, CheckPassword("long-enough", "not-a-hash"))
}
