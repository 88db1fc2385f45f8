package usecase

import (
	"context"
	"fmt"

	"marketchat/internal/infrastructure/eventbus"
	chat "marketchat/internal/pkg/chat/domain"
	repository "marketchat/internal/pkg/chat/persistence/repository/port"
)

// UnreadTrackerUseCase computes unread status and flips messages to read in
// bulk. It receives the event bus at construction so the mark-as-read
// notification path is testable in isolation.
type UnreadTrackerUseCase struct {
	Repo repository.ChatRepository
	Bus  eventbus.Bus
}

func NewUnreadTrackerUseCase(repo repository.ChatRepository, bus eventbus.Bus) *UnreadTrackerUseCase {
	return &UnreadTrackerUseCase{Repo: repo, Bus: bus}
}

// HasUnread reports whether any message addressed to userID is still unread,
// across all conversations.
func (uc *UnreadTrackerUseCase) HasUnread(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, chat.ErrInvalidIdentifier
	}
	unread, err := uc.Repo.HasUnread(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return unread, nil
}

// MarkRead flips every unread message addressed to userID in the conversation
// to read. Repeated calls with nothing left to flip still succeed. On success
// an unread-changed notification is published for the admin namespace; the
// read flag only ever moves false -> true, so concurrent calls are safe.
func (uc *UnreadTrackerUseCase) MarkRead(ctx context.Context, conversationID int64, userID string) error {
	if conversationID <= 0 || userID == "" {
		return chat.ErrInvalidIdentifier
	}
	if _, err := uc.Repo.MarkRead(ctx, conversationID, userID); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	uc.Bus.Publish(eventbus.TopicNewChatMessage, eventbus.UnreadChanged{UserID: userID})
	return nil
}
