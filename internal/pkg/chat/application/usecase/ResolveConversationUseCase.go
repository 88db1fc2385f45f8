package usecase

import (
	"context"
	"fmt"
	"time"

	"marketchat/internal/infrastructure/id"
	chat "marketchat/internal/pkg/chat/domain"
	repository "marketchat/internal/pkg/chat/persistence/repository/port"
)

// ResolveConversationInput carries the unordered participant pair from an
// initiate event.
type ResolveConversationInput struct {
	SenderID   string
	ReceiverID string
}

// ResolveConversationUseCase finds or creates the canonical conversation for
// a participant pair. Repeated resolves for {A,B} and {B,A} return the same
// conversation; the store-level upsert closes the concurrent-create race.
type ResolveConversationUseCase struct {
	Repo repository.ChatRepository
}

func NewResolveConversationUseCase(repo repository.ChatRepository) *ResolveConversationUseCase {
	return &ResolveConversationUseCase{Repo: repo}
}

// Execute resolves the conversation, returning chat.ErrInvalidParticipantPair
// for self-paired or empty identities.
func (uc *ResolveConversationUseCase) Execute(ctx context.Context, in ResolveConversationInput) (*chat.Conversation, error) {
	low, high, err := chat.NormalizePair(in.SenderID, in.ReceiverID)
	if err != nil {
		return nil, err
	}

	candidate := chat.Conversation{
		ID:              id.New(),
		ParticipantLow:  low,
		ParticipantHigh: high,
		CreatedAt:       time.Now().UTC(),
	}
	conv, err := uc.Repo.FindOrCreateConversation(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &conv, nil
}
