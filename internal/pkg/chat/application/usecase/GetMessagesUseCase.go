package usecase

import (
	"context"
	"fmt"

	chat "marketchat/internal/pkg/chat/domain"
	repository "marketchat/internal/pkg/chat/persistence/repository/port"
)

// GetMessagesUseCase fetches a conversation's messages in persistence order.
// An unknown conversation id yields an empty list, not an error.
type GetMessagesUseCase struct {
	Repo repository.ChatRepository
}

func NewGetMessagesUseCase(repo repository.ChatRepository) *GetMessagesUseCase {
	return &GetMessagesUseCase{Repo: repo}
}

func (uc *GetMessagesUseCase) Execute(ctx context.Context, conversationID int64) ([]chat.Message, error) {
	if conversationID <= 0 {
		return nil, chat.ErrInvalidIdentifier
	}
	msgs, err := uc.Repo.GetMessagesByConversation(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return msgs, nil
}
