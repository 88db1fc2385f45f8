package controller

import (
	"encoding/json"
	"log/slog"

	"marketchat/internal/infrastructure/eventbus"
	"marketchat/internal/infrastructure/logger"
	"marketchat/internal/infrastructure/realtime"
)

// AdminRoom is the namespace-scoped room every admin connection joins, used
// for cross-cutting broadcasts.
const AdminRoom = "admins"

type adminEventFrame struct {
	Event  string `json:"event"`
	UserID string `json:"user_id,omitempty"`
	Text   string `json:"text,omitempty"`
}

// AdminNotifier bridges the event bus into the admin namespace: unread-state
// changes become targeted `new:chat` frames, queued notifications become
// room-wide `new:notification` frames. It decouples whoever detects the
// triggering condition (REST mark-as-read, a chat gateway, the worker) from
// the admin namespace's broadcast responsibility.
type AdminNotifier struct {
	ns     *realtime.Namespace
	log    *slog.Logger
	unsubs []func()
}

func NewAdminNotifier(ns *realtime.Namespace, bus eventbus.Bus) *AdminNotifier {
	n := &AdminNotifier{ns: ns, log: logger.For("gateway.admin.notifier")}

	n.unsubs = append(n.unsubs, bus.Subscribe(eventbus.TopicNewChatMessage, func(p any) {
		change, ok := p.(eventbus.UnreadChanged)
		if !ok {
			n.log.Warn("unexpected payload on unread-changed topic")
			return
		}
		payload, err := json.Marshal(adminEventFrame{Event: "new:chat", UserID: change.UserID})
		if err != nil {
			return
		}
		// Targeted: only the admin whose unread state changed refreshes.
		n.ns.Router.NotifyUser(change.UserID, payload)
	}))

	n.unsubs = append(n.unsubs, bus.Subscribe(eventbus.TopicNewNotification, func(p any) {
		note, ok := p.(eventbus.Notification)
		if !ok {
			n.log.Warn("unexpected payload on notification topic")
			return
		}
		payload, err := json.Marshal(adminEventFrame{Event: "new:notification", UserID: note.UserID, Text: note.Text})
		if err != nil {
			return
		}
		if note.UserID != "" && n.ns.Router.NotifyUser(note.UserID, payload) {
			return
		}
		n.ns.Router.Broadcast(AdminRoom, payload)
	}))

	return n
}

// Close removes the bus subscriptions.
func (n *AdminNotifier) Close() {
	for _, unsub := range n.unsubs {
		unsub()
	}
}
