package matching

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/advisor-match/internal/model"
)

var (
	// ErrInvalidChat is returned when a chat is opened with missing or
	// identical participants.
	ErrInvalidChat = eris.New("matching: invalid chat participants")
	// ErrEmptyMessage is returned when a message body is blank.
	ErrEmptyMessage = eris.New("matching: message body is empty")
	// ErrNotParticipant is returned when the sender is not in the chat.
	ErrNotParticipant = eris.New("matching: sender is not a participant")
)

// ChatStore persists chats between two users.
type ChatStore interface {
	FindChat(ctx context.Context, a, b string) (*model.Chat, error)
	CreateChat(ctx context.Context, chat *model.Chat) error
	GetChat(ctx context.Context, id string) (*model.Chat, error)
	AppendMessage(ctx context.Context, msg *model.Message) error
}

// Messenger opens chats with matches and posts messages into them.
type Messenger struct {
	store ChatStore
	now   func() time.Time

	mu sync.Mutex
}

// NewMessenger creates a Messenger over store.
func NewMessenger(store ChatStore) *Messenger {
	return &Messenger{store: store, now: time.Now}
}

// Open returns the chat between me and other, creating it when none exists.
// FindChat must return (nil, nil) when there is no such chat.
func (m *Messenger) Open(ctx context.Context, me, other string) (*model.Chat, error) {
	if me == "" || other == "" {
		return nil, eris.Wrap(ErrInvalidChat, "participant ids are required")
	}
	if me == other {
		return nil, eris.Wrap(ErrInvalidChat, "cannot chat with yourself")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	chat, err := m.store.FindChat(ctx, me, other)
	if err != nil {
		return nil, eris.Wrap(err, "matching: find chat")
	}
	if chat != nil {
		return chat, nil
	}

	chat = &model.Chat{
		ID:           uuid.NewString(),
		Participants: [2]string{me, other},
		Messages:     []model.Message{},
		LastUpdated:  m.now().UTC(),
	}
	if err := m.store.CreateChat(ctx, chat); err != nil {
		return nil, eris.Wrap(err, "matching: create chat")
	}
	zap.L().Info("chat created",
		zap.String("chat_id", chat.ID),
		zap.String("user_id", me),
		zap.String("other_id", other),
	)
	return chat, nil
}

// Send appends a message from sender to the chat and returns it.
func (m *Messenger) Send(ctx context.Context, chatID, sender, body string) (*model.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyMessage
	}

	chat, err := m.store.GetChat(ctx, chatID)
	if err != nil {
		return nil, eris.Wrapf(err, "matching: send: get chat %s", chatID)
	}
	if chat.Participants[0] != sender && chat.Participants[1] != sender {
		return nil, eris.Wrapf(ErrNotParticipant, "%s in chat %s", sender, chatID)
	}

	msg := &model.Message{
		ID:       uuid.NewString(),
		ChatID:   chatID,
		SenderID: sender,
		Body:     body,
		SentAt:   m.now().UTC(),
	}
	if err := m.store.AppendMessage(ctx, msg); err != nil {
		return nil, eris.Wrap(err, "matching: send: append message")
	}
	return msg, nil
}
