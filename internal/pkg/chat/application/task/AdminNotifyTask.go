package task

import (
	"context"
	"encoding/json"
	"time"

	"marketchat/internal/infrastructure/eventbus"
	qport "marketchat/internal/infrastructure/queue/port"
)

// AdminNotifyTaskType is the queue task name for admin-facing notifications
// raised while the target admin had no live connection.
const AdminNotifyTaskType = "chat:admin_notify"

// AdminNotifyTaskPayload is the JSON payload transported via the queue. Kept
// separate from the bus payload to avoid coupling queue encoding to in-process
// types.
type AdminNotifyTaskPayload struct {
	AdminID string `json:"adminId"`
	Text    string `json:"text"`
}

// EnqueueAdminNotify queues a notification for background delivery. Uniqueness
// keeps a burst of messages from the same conversation from stacking up
// identical badge refreshes.
func EnqueueAdminNotify(ctx context.Context, client qport.Client, p AdminNotifyTaskPayload) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = client.Enqueue(ctx, qport.Task{Type: AdminNotifyTaskType, Payload: b},
		qport.EnqueueOption{Queue: "notify", MaxRetry: 5, UniqueTTL: time.Minute})
	return err
}

// RegisterAdminNotifyTask binds the worker handler: it republishes the queued
// notification on the in-process bus, where the admin gateway picks it up and
// broadcasts to its room.
func RegisterAdminNotifyTask(srv qport.Server, bus eventbus.Bus) {
	srv.Register(AdminNotifyTaskType, func(ctx context.Context, t qport.Task) error {
		var p AdminNotifyTaskPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// Malformed payload will never succeed; drop rather than retry.
			return nil
		}
		bus.Publish(eventbus.TopicNewNotification, eventbus.Notification{
			UserID: p.AdminID,
			Text:   p.Text,
		})
		return nil
	})
}
