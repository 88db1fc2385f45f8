package adapter

import (
	"context"
	"sort"
	"sync"

	chat "marketchat/internal/pkg/chat/domain"
	repository "marketchat/internal/pkg/chat/persistence/repository/port"
)

// MemoryChatRepository is an in-memory ChatRepository for tests and local
// runs without a database. Safe for concurrent use.
type MemoryChatRepository struct {
	mu            sync.Mutex
	byPair        map[string]int64 // "low|high" -> conversation id
	conversations map[int64]chat.Conversation
	messages      map[int64][]chat.Message // conversation id -> ordered messages
}

func NewMemoryChatRepository() *MemoryChatRepository {
	return &MemoryChatRepository{
		byPair:        make(map[string]int64),
		conversations: make(map[int64]chat.Conversation),
		messages:      make(map[int64][]chat.Message),
	}
}

var _ repository.ChatRepository = (*MemoryChatRepository)(nil)

func pairKey(low, high string) string { return low + "|" + high }

func (r *MemoryChatRepository) FindOrCreateConversation(_ context.Context, candidate chat.Conversation) (chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey(candidate.ParticipantLow, candidate.ParticipantHigh)
	if existingID, ok := r.byPair[key]; ok {
		return r.conversations[existingID], nil
	}
	r.byPair[key] = candidate.ID
	r.conversations[candidate.ID] = candidate
	return candidate, nil
}

func (r *MemoryChatRepository) GetConversation(_ context.Context, conversationID int64) (chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.conversations[conversationID]
	if !ok {
		return chat.Conversation{}, repository.ErrNotFound
	}
	return c, nil
}

func (r *MemoryChatRepository) ListConversations(_ context.Context, userID string) ([]chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var convs []chat.Conversation
	for _, c := range r.conversations {
		if c.HasParticipant(userID) {
			convs = append(convs, c)
		}
	}
	sort.Slice(convs, func(i, j int) bool {
		ti, tj := convs[i].CreatedAt, convs[j].CreatedAt
		if convs[i].LastMessageAt != nil {
			ti = *convs[i].LastMessageAt
		}
		if convs[j].LastMessageAt != nil {
			tj = *convs[j].LastMessageAt
		}
		return ti.After(tj)
	})
	return convs, nil
}

func (r *MemoryChatRepository) SaveMessage(_ context.Context, m chat.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.conversations[m.ConversationID]
	if !ok {
		return repository.ErrNotFound
	}

	r.messages[m.ConversationID] = append(r.messages[m.ConversationID], m)

	ts := m.CreatedAt
	msgID := m.ID
	c.LastMessageID = &msgID
	c.LastMessageAt = &ts
	r.conversations[m.ConversationID] = c
	return nil
}

func (r *MemoryChatRepository) GetMessagesByConversation(_ context.Context, conversationID int64) ([]chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := r.messages[conversationID]
	msgs := make([]chat.Message, len(stored))
	copy(msgs, stored)
	sort.Slice(msgs, func(i, j int) bool {
		if !msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
		}
		return msgs[i].ID < msgs[j].ID
	})
	return msgs, nil
}

func (r *MemoryChatRepository) HasUnread(_ context.Context, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, msgs := range r.messages {
		for _, m := range msgs {
			if m.ReceiverID == userID && !m.Read {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *MemoryChatRepository) MarkRead(_ context.Context, conversationID int64, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var flipped int64
	msgs := r.messages[conversationID]
	for i := range msgs {
		if msgs[i].ReceiverID == userID && !msgs[i].Read {
			msgs[i].Read = true
			flipped++
		}
	}
	return flipped, nil
}
