package usecase

import (
	"context"
	"errors"
	"fmt"

	chat "marketchat/internal/pkg/chat/domain"
	repository "marketchat/internal/pkg/chat/persistence/repository/port"
	profile "marketchat/internal/pkg/profile/port"
)

// ConversationView is a conversation augmented with the counterpart's display
// name for list rendering.
type ConversationView struct {
	Conversation    chat.Conversation
	CounterpartID   string
	CounterpartName string
}

// ListConversationsUseCase returns the caller's conversations, most recently
// active first, each annotated with the other participant's display name.
type ListConversationsUseCase struct {
	Repo      repository.ChatRepository
	Directory profile.Directory
}

func NewListConversationsUseCase(repo repository.ChatRepository, dir profile.Directory) *ListConversationsUseCase {
	return &ListConversationsUseCase{Repo: repo, Directory: dir}
}

func (uc *ListConversationsUseCase) Execute(ctx context.Context, userID string) ([]ConversationView, error) {
	if userID == "" {
		return nil, chat.ErrInvalidIdentifier
	}

	convs, err := uc.Repo.ListConversations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	views := make([]ConversationView, 0, len(convs))
	for _, c := range convs {
		counterpart := c.CounterpartOf(userID)
		name, err := uc.Directory.DisplayName(ctx, counterpart)
		if err != nil {
			if !errors.Is(err, profile.ErrUnknownUser) {
				return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
			}
			name = ""
		}
		views = append(views, ConversationView{
			Conversation:    c,
			CounterpartID:   counterpart,
			CounterpartName: name,
		})
	}
	return views, nil
}
