package model

import "time"

// Chat is a two-party conversation, created the first time either side
// messages the other.
type Chat struct {
	ID           string    `json:"id"`
	Participants [2]string `json:"participants"`
	Messages     []Message `json:"messages"`
	LastUpdated  time.Time `json:"lastUpdated"`
}

// Message is a single chat entry.
type Message struct {
	ID       string    `json:"id"`
	ChatID   string    `json:"chatId"`
	SenderID string    `json:"senderId"`
	Body     string    `json:"body"`
	SentAt   time.Time `json:"sentAt"`
}

// HasParticipants reports whether the chat is between a and b, in either order.
func (c Chat) HasParticipants(a, b string) bool {
	p := c.Participants
	return (p[0] == a && p[1] == b) || (p[0] == b && p[1] == a)
}

// ParticipantKey returns an order-independent key for the pair a, b.
func ParticipantKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + ":" + b
}
