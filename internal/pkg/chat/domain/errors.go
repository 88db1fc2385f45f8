package chat

import "errors"

// Domain-level errors for conversation and message behaviors.
var (
	// ErrInvalidParticipantPair rejects resolve attempts with a missing or
	// self-paired identity.
	ErrInvalidParticipantPair = errors.New("chat: participant pair must be two distinct non-empty identities")

	// ErrConversationNotInitiated rejects sends on a session that never
	// completed an initiate.
	ErrConversationNotInitiated = errors.New("chat: conversation not initiated on this session")

	// ErrInvalidIdentifier rejects malformed conversation or user identifiers
	// before any store access.
	ErrInvalidIdentifier = errors.New("chat: malformed identifier")

	// ErrEmptyMessage rejects messages whose content trims to nothing.
	ErrEmptyMessage = errors.New("chat: empty message content")
)
