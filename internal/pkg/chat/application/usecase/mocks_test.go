package usecase_test

import (
	"context"

	chat "marketchat/internal/pkg/chat/domain"
	repository "marketchat/internal/pkg/chat/persistence/repository/port"
	profile "marketchat/internal/pkg/profile/port"
)

// mockChatRepo implements the repository port with overridable function
// fields; unset methods fail the calling test via a zero-value return.
type mockChatRepo struct {
	findOrCreateFn func(ctx context.Context, candidate chat.Conversation) (chat.Conversation, error)
	getFn          func(ctx context.Context, conversationID int64) (chat.Conversation, error)
	listFn         func(ctx context.Context, userID string) ([]chat.Conversation, error)
	saveFn         func(ctx context.Context, m chat.Message) error
	messagesFn     func(ctx context.Context, conversationID int64) ([]chat.Message, error)
	hasUnreadFn    func(ctx context.Context, userID string) (bool, error)
	markReadFn     func(ctx context.Context, conversationID int64, userID string) (int64, error)

	calls []string
}

var _ repository.ChatRepository = (*mockChatRepo)(nil)

func (m *mockChatRepo) FindOrCreateConversation(ctx context.Context, candidate chat.Conversation) (chat.Conversation, error) {
	m.calls = append(m.calls, "FindOrCreateConversation")
	if m.findOrCreateFn != nil {
		return m.findOrCreateFn(ctx, candidate)
	}
	return candidate, nil
}

func (m *mockChatRepo) GetConversation(ctx context.Context, conversationID int64) (chat.Conversation, error) {
	m.calls = append(m.calls, "GetConversation")
	if m.getFn != nil {
		return m.getFn(ctx, conversationID)
	}
	return chat.Conversation{}, repository.ErrNotFound
}

func (m *mockChatRepo) ListConversations(ctx context.Context, userID string) ([]chat.Conversation, error) {
	m.calls = append(m.calls, "ListConversations")
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockChatRepo) SaveMessage(ctx context.Context, msg chat.Message) error {
	m.calls = append(m.calls, "SaveMessage")
	if m.saveFn != nil {
		return m.saveFn(ctx, msg)
	}
	return nil
}

func (m *mockChatRepo) GetMessagesByConversation(ctx context.Context, conversationID int64) ([]chat.Message, error) {
	m.calls = append(m.calls, "GetMessagesByConversation")
	if m.messagesFn != nil {
		return m.messagesFn(ctx, conversationID)
	}
	return nil, nil
}

func (m *mockChatRepo) HasUnread(ctx context.Context, userID string) (bool, error) {
	m.calls = append(m.calls, "HasUnread")
	if m.hasUnreadFn != nil {
		return m.hasUnreadFn(ctx, userID)
	}
	return false, nil
}

func (m *mockChatRepo) MarkRead(ctx context.Context, conversationID int64, userID string) (int64, error) {
	m.calls = append(m.calls, "MarkRead")
	if m.markReadFn != nil {
		return m.markReadFn(ctx, conversationID, userID)
	}
	return 0, nil
}

// mockDirectory implements the profile directory with a static name table.
type mockDirectory struct {
	names map[string]string
}

var _ profile.Directory = (*mockDirectory)(nil)

func (d *mockDirectory) DisplayName(_ context.Context, userID string) (string, error) {
	if name, ok := d.names[userID]; ok {
		return name, nil
	}
	return "", profile.ErrUnknownUser
}
