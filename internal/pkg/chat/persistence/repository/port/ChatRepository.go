package repository

import (
	"context"
	"errors"

	chat "marketchat/internal/pkg/chat/domain"
)

// ErrNotFound signals an absent conversation where one is required. Callers
// translate it into an empty result or an explicit not-found response.
var ErrNotFound = errors.New("repository: not found")

// ChatRepository defines the persistence operations for conversations and
// messages. Mutations are single-record atomic operations; no multi-record
// transactions are required by any method.
type ChatRepository interface {
	// FindOrCreateConversation resolves the conversation whose participant set
	// equals the candidate's normalized pair, creating it atomically when
	// absent. Two concurrent calls for the same pair converge on one record;
	// the candidate's ID is discarded when a row already exists.
	FindOrCreateConversation(ctx context.Context, candidate chat.Conversation) (chat.Conversation, error)

	// GetConversation fetches a conversation by id, ErrNotFound when absent.
	GetConversation(ctx context.Context, conversationID int64) (chat.Conversation, error)

	// ListConversations returns every conversation the user participates in,
	// most recently active first.
	ListConversations(ctx context.Context, userID string) ([]chat.Conversation, error)

	// SaveMessage persists a message (read=false) and advances the owning
	// conversation's last-message pointer and timestamp.
	SaveMessage(ctx context.Context, m chat.Message) error

	// GetMessagesByConversation returns the conversation's messages in
	// persistence order (created_at, then id). Unknown ids yield an empty
	// slice, not an error.
	GetMessagesByConversation(ctx context.Context, conversationID int64) ([]chat.Message, error)

	// HasUnread reports whether at least one message with receiver=userID and
	// read=false exists, across all conversations.
	HasUnread(ctx context.Context, userID string) (bool, error)

	// MarkRead flips every unread message addressed to userID in the given
	// conversation to read and returns how many were flipped. Idempotent:
	// nothing left to flip is a successful no-op.
	MarkRead(ctx context.Context, conversationID int64, userID string) (int64, error)
}
