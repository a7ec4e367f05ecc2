package matching

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/advisor-match/internal/model"
)

type memChats struct {
	mu      sync.Mutex
	chats   map[string]*model.Chat
	creates int
}

func newMemChats() *memChats { return &memChats{chats: map[string]*model.Chat{}} }

func (m *memChats) FindChat(_ context.Context, a, b string) (*model.Chat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.chats {
		if c.HasParticipants(a, b) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memChats) CreateChat(_ context.Context, chat *model.Chat) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *chat
	m.chats[chat.ID] = &cp
	m.creates++
	return nil
}

func (m *memChats) GetChat(_ context.Context, id string) (*model.Chat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.chats[id]
	if !ok {
		return nil, assert.AnError
	}
	cp := *c
	return &cp, nil
}

func (m *memChats) AppendMessage(_ context.Context, msg *model.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.chats[msg.ChatID]
	c.Messages = append(c.Messages, *msg)
	c.LastUpdated = msg.SentAt
	return nil
}

func TestMessenger_OpenReusesChatEitherOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newMemChats()
	m := NewMessenger(store)

	first, err := m.Open(ctx, "consumer-1", "advisor-1")
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, [2]string{"consumer-1", "advisor-1"}, first.Participants)

	again, err := m.Open(ctx, "advisor-1", "consumer-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, 1, store.creates)
}

func TestMessenger_OpenConcurrentCreatesOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newMemChats()
	m := NewMessenger(store)

	var wg sync.WaitGroup
	got := make([]string, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := m.Open(ctx, "u1", "u2")
			if err == nil {
				got[i] = c.ID
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, store.creates)
	for _, id := range got {
		assert.Equal(t, got[0], id)
	}
}

func TestMessenger_OpenValidation(t *testing.T) {
	t.Parallel()

	m := NewMessenger(newMemChats())
	_, err := m.Open(context.Background(), "", "u2")
	assert.ErrorIs(t, err, ErrInvalidChat)
	_, err = m.Open(context.Background(), "u1", "u1")
	assert.ErrorIs(t, err, ErrInvalidChat)
}

func TestMessenger_Send(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newMemChats()
	m := NewMessenger(store)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	chat, err := m.Open(ctx, "u1", "u2")
	require.NoError(t, err)

	msg, err := m.Send(ctx, chat.ID, "u2", "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Body)
	assert.Equal(t, fixed, msg.SentAt)

	stored, err := store.GetChat(ctx, chat.ID)
	require.NoError(t, err)
	require.Len(t, stored.Messages, 1)
	assert.Equal(t, fixed, stored.LastUpdated)

	_, err = m.Send(ctx, chat.ID, "u3", "intruder")
	assert.ErrorIs(t, err, ErrNotParticipant)
	_, err = m.Send(ctx, chat.ID, "u1", "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
	_, err = m.Send(ctx, "missing", "u1", "hi")
	assert.Error(t, err)
}
