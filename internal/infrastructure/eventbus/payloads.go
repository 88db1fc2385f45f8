package eventbus

// UnreadChanged is published on TopicNewChatMessage when a user's unread
// state changes. Subscribers type-assert the payload.
type UnreadChanged struct {
	UserID string
}

// Notification is published on TopicNewNotification for the admin namespace
// to broadcast.
type Notification struct {
	// UserID is the admin the notification is aimed at; empty means every
	// connected admin.
	UserID string
	Text   string
}
