package chat

// SessionState models the per-connection lifecycle:
//
//	Connecting -> Authenticated -> AwaitingInitiate -> Active -> Disconnected
//
// Namespaces without an initiate step go straight from Authenticated to
// Active. Disconnected is reachable from any state.
type SessionState int

const (
	StateConnecting SessionState = iota
	StateAuthenticated
	StateAwaitingInitiate
	StateActive
	StateDisconnected
)

// Session is the in-memory state a gateway owns for one connection: the
// authenticated identity plus the conversation binding established by
// initiate. It is never shared across connections and never persisted; a
// reconnect starts over.
type Session struct {
	UserID    string
	Namespace string

	state          SessionState
	conversationID int64
	peerID         string
}

// NewSession returns a session in the Authenticated state; the guard has
// already run by the time a gateway constructs one.
func NewSession(namespace, userID string) *Session {
	return &Session{UserID: userID, Namespace: namespace, state: StateAuthenticated}
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState { return s.state }

// AwaitInitiate marks the session as requiring a conversation binding before
// messages are accepted.
func (s *Session) AwaitInitiate() {
	if s.state == StateAuthenticated {
		s.state = StateAwaitingInitiate
	}
}

// Activate transitions directly to Active for namespaces with no initiate
// step.
func (s *Session) Activate() {
	if s.state == StateAuthenticated {
		s.state = StateActive
	}
}

// Bind attaches the session to a conversation and its counterpart. A fresh
// initiate on an already-active session rebinds it; last one wins.
func (s *Session) Bind(conversationID int64, peerID string) {
	if s.state == StateDisconnected {
		return
	}
	s.conversationID = conversationID
	s.peerID = peerID
	s.state = StateActive
}

// Conversation returns the bound conversation id and counterpart, or
// ErrConversationNotInitiated if initiate never completed.
func (s *Session) Conversation() (conversationID int64, peerID string, err error) {
	if s.state != StateActive || s.conversationID == 0 {
		return 0, "", ErrConversationNotInitiated
	}
	return s.conversationID, s.peerID, nil
}

// Disconnect moves the session to its terminal state.
func (s *Session) Disconnect() {
	s.state = StateDisconnected
	s.conversationID = 0
	s.peerID = ""
}
