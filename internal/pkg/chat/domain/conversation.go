package chat

import (
	"strings"
	"time"
)

// Conversation binds exactly two participants' message history. The pair is
// stored normalized (lexicographically low/high) so the unordered pair acts
// as a natural key regardless of who initiated.
type Conversation struct {
	ID              int64      `db:"id"`
	ParticipantLow  string     `db:"participant_low"`
	ParticipantHigh string     `db:"participant_high"`
	LastMessageID   *int64     `db:"last_message_id"`
	LastMessageAt   *time.Time `db:"last_message_at"`
	CreatedAt       time.Time  `db:"created_at"`
}

// NormalizePair validates and orders a participant pair. Both identities must
// be non-empty and distinct.
func NormalizePair(a, b string) (low, high string, err error) {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" || a == b {
		return "", "", ErrInvalidParticipantPair
	}
	if a < b {
		return a, b, nil
	}
	return b, a, nil
}

// Participants returns both participant identities.
func (c *Conversation) Participants() [2]string {
	return [2]string{c.ParticipantLow, c.ParticipantHigh}
}

// HasParticipant tells whether userID belongs to this conversation.
func (c *Conversation) HasParticipant(userID string) bool {
	return userID != "" && (userID == c.ParticipantLow || userID == c.ParticipantHigh)
}

// CounterpartOf returns the other participant, or "" when userID is not part
// of the conversation.
func (c *Conversation) CounterpartOf(userID string) string {
	switch userID {
	case c.ParticipantLow:
		return c.ParticipantHigh
	case c.ParticipantHigh:
		return c.ParticipantLow
	default:
		return ""
	}
}
