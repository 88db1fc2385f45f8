package usecase

import (
	"context"
	"fmt"
	"time"

	"marketchat/internal/infrastructure/id"
	chat "marketchat/internal/pkg/chat/domain"
	repository "marketchat/internal/pkg/chat/persistence/repository/port"
)

// SendMessageInput carries the data needed to persist a message. Conversation
// and counterpart come from the session's initiate binding, never from the
// event payload.
type SendMessageInput struct {
	ConversationID int64
	SenderID       string
	ReceiverID     string
	Content        string
}

// SendMessageUseCase persists an inbound message. Broadcast is the gateway's
// job and happens only after this use case succeeds, so a failed persist
// never produces a partial broadcast.
type SendMessageUseCase struct {
	Repo repository.ChatRepository
}

func NewSendMessageUseCase(repo repository.ChatRepository) *SendMessageUseCase {
	return &SendMessageUseCase{Repo: repo}
}

// Execute validates, assigns identity and a server-observed timestamp, and
// persists the message with read=false.
func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*chat.Message, error) {
	msg, err := chat.NewMessage(in.ConversationID, in.SenderID, in.ReceiverID, in.Content, time.Now())
	if err != nil {
		return nil, err
	}
	msg.ID = id.New()

	if err := uc.Repo.SaveMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &msg, nil
}
