package chat

import (
	"strings"
	"time"
)

// Message is an immutable log entry in a conversation. The only field ever
// mutated after creation is Read, and only false -> true.
type Message struct {
	ID             int64     `db:"id"`
	ConversationID int64     `db:"conversation_id"`
	SenderID       string    `db:"sender_id"`
	ReceiverID     string    `db:"receiver_id"`
	Content        string    `db:"content"`
	CreatedAt      time.Time `db:"created_at"`
	Read           bool      `db:"read"`
}

// NewMessage validates and normalizes a message before persistence. The
// timestamp is server-observed; callers pass time.Now() (or a fixed clock in
// tests).
func NewMessage(conversationID int64, senderID, receiverID, content string, now time.Time) (Message, error) {
	if conversationID == 0 {
		return Message{}, ErrConversationNotInitiated
	}
	if senderID == "" || receiverID == "" {
		return Message{}, ErrInvalidIdentifier
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return Message{}, ErrEmptyMessage
	}

	if now.IsZero() {
		now = time.Now()
	}

	return Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Content:        content,
		CreatedAt:      now.UTC(),
		Read:           false,
	}, nil
}
