package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	chat "marketchat/internal/pkg/chat/domain"
	repository "marketchat/internal/pkg/chat/persistence/repository/port"
)

// PgChatRepository persists conversations and messages in PostgreSQL.
//
// Schema:
//
//	CREATE TABLE chat.conversation (
//	    id               BIGINT PRIMARY KEY,
//	    participant_low  TEXT NOT NULL,
//	    participant_high TEXT NOT NULL,
//	    last_message_id  BIGINT,
//	    last_message_at  TIMESTAMPTZ,
//	    created_at       TIMESTAMPTZ NOT NULL,
//	    UNIQUE (participant_low, participant_high)
//	);
//
//	CREATE TABLE chat.message (
//	    id              BIGINT PRIMARY KEY,
//	    conversation_id BIGINT NOT NULL REFERENCES chat.conversation(id),
//	    sender_id       TEXT NOT NULL,
//	    receiver_id     TEXT NOT NULL,
//	    content         TEXT NOT NULL,
//	    created_at      TIMESTAMPTZ NOT NULL,
//	    read            BOOLEAN NOT NULL DEFAULT FALSE
//	);
//	CREATE INDEX message_unread_idx ON chat.message (receiver_id) WHERE NOT read;
type PgChatRepository struct {
	pool *pgxpool.Pool
}

func NewPgChatRepository(pool *pgxpool.Pool) *PgChatRepository {
	return &PgChatRepository{pool: pool}
}

var _ repository.ChatRepository = (*PgChatRepository)(nil)

func (r *PgChatRepository) FindOrCreateConversation(ctx context.Context, candidate chat.Conversation) (chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return chat.Conversation{}, errors.New("PgChatRepository: nil pool")
	}
	// The no-op DO UPDATE makes RETURNING yield the surviving row whether the
	// insert won or lost, so concurrent resolves converge on one record.
	var c chat.Conversation
	err := r.pool.QueryRow(ctx, `
		INSERT INTO chat.conversation (id, participant_low, participant_high, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (participant_low, participant_high)
		DO UPDATE SET participant_low = EXCLUDED.participant_low
		RETURNING id, participant_low, participant_high, last_message_id, last_message_at, created_at
	`, candidate.ID, candidate.ParticipantLow, candidate.ParticipantHigh, candidate.CreatedAt).Scan(
		&c.ID, &c.ParticipantLow, &c.ParticipantHigh, &c.LastMessageID, &c.LastMessageAt, &c.CreatedAt,
	)
	return c, err
}

func (r *PgChatRepository) GetConversation(ctx context.Context, conversationID int64) (chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return chat.Conversation{}, errors.New("PgChatRepository: nil pool")
	}
	var c chat.Conversation
	err := r.pool.QueryRow(ctx, `
		SELECT id, participant_low, participant_high, last_message_id, last_message_at, created_at
		FROM chat.conversation
		WHERE id = $1
	`, conversationID).Scan(
		&c.ID, &c.ParticipantLow, &c.ParticipantHigh, &c.LastMessageID, &c.LastMessageAt, &c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return chat.Conversation{}, repository.ErrNotFound
	}
	return c, err
}

func (r *PgChatRepository) ListConversations(ctx context.Context, userID string) ([]chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, participant_low, participant_high, last_message_id, last_message_at, created_at
		FROM chat.conversation
		WHERE participant_low = $1 OR participant_high = $1
		ORDER BY last_message_at DESC NULLS LAST, created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []chat.Conversation
	for rows.Next() {
		var c chat.Conversation
		if err := rows.Scan(&c.ID, &c.ParticipantLow, &c.ParticipantHigh, &c.LastMessageID, &c.LastMessageAt, &c.CreatedAt); err != nil {
			return nil, err
		}
		convs = append(convs, c)
	}
	return convs, rows.Err()
}

func (r *PgChatRepository) SaveMessage(ctx context.Context, m chat.Message) error {
	if r == nil || r.pool == nil {
		return errors.New("PgChatRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chat.message (id, conversation_id, sender_id, receiver_id, content, created_at, read)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, m.ID, m.ConversationID, m.SenderID, m.ReceiverID, m.Content, m.CreatedAt, m.Read)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		UPDATE chat.conversation
		SET last_message_id = $2, last_message_at = $3
		WHERE id = $1
	`, m.ConversationID, m.ID, m.CreatedAt)
	return err
}

func (r *PgChatRepository) GetMessagesByConversation(ctx context.Context, conversationID int64) ([]chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, conversation_id, sender_id, receiver_id, content, created_at, read
		FROM chat.message
		WHERE conversation_id = $1
		ORDER BY created_at, id
	`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := make([]chat.Message, 0)
	for rows.Next() {
		var m chat.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.ReceiverID, &m.Content, &m.CreatedAt, &m.Read); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *PgChatRepository) HasUnread(ctx context.Context, userID string) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errors.New("PgChatRepository: nil pool")
	}
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM chat.message WHERE receiver_id = $1 AND NOT read
		)
	`, userID).Scan(&exists)
	return exists, err
}

func (r *PgChatRepository) MarkRead(ctx context.Context, conversationID int64, userID string) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgChatRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE chat.message
		SET read = TRUE
		WHERE conversation_id = $1 AND receiver_id = $2 AND NOT read
	`, conversationID, userID)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}
