package task

import (
	"context"
	"encoding/json"
	"testing"

	"marketchat/internal/infrastructure/eventbus"
	qport "marketchat/internal/infrastructure/queue/port"
)

type captureClient struct {
	task qport.Task
	opts []qport.EnqueueOption
}

func (c *captureClient) Enqueue(_ context.Context, t qport.Task, opts ...qport.EnqueueOption) (string, error) {
	c.task = t
	c.opts = opts
	return "task-id", nil
}

func (c *captureClient) Close() error { return nil }

type captureServer struct {
	handlers map[string]qport.Handler
}

func (s *captureServer) Register(taskType string, h qport.Handler) {
	if s.handlers == nil {
		s.handlers = make(map[string]qport.Handler)
	}
	s.handlers[taskType] = h
}

func (s *captureServer) Run(context.Context) error  { return nil }
func (s *captureServer) Stop(context.Context) error { return nil }

func TestEnqueueAdminNotify(t *testing.T) {
	client := &captureClient{}
	payload := AdminNotifyTaskPayload{AdminID: "a1", Text: "You have a new chat message"}

	if err := EnqueueAdminNotify(context.Background(), client, payload); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	if client.task.Type != AdminNotifyTaskType {
		t.Errorf("task type = %q, want %q", client.task.Type, AdminNotifyTaskType)
	}
	var decoded AdminNotifyTaskPayload
	if err := json.Unmarshal(client.task.Payload, &decoded); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if decoded != payload {
		t.Errorf("payload = %+v, want %+v", decoded, payload)
	}

	if len(client.opts) != 1 {
		t.Fatalf("opts = %d, want 1", len(client.opts))
	}
	opt := client.opts[0]
	if opt.Queue != "notify" {
		t.Errorf("queue = %q, want notify", opt.Queue)
	}
	if opt.MaxRetry != 5 {
		t.Errorf("max retry = %d, want 5", opt.MaxRetry)
	}
	// A burst of messages for the same offline admin must collapse into one
	// queued badge refresh inside the dedupe window.
	if opt.UniqueTTL <= 0 {
		t.Error("unique TTL not set; duplicate notifications would stack up")
	}
}

func TestAdminNotifyWorkerRepublishesOnBus(t *testing.T) {
	bus := eventbus.NewInMemoryBus()
	var published []eventbus.Notification
	bus.Subscribe(eventbus.TopicNewNotification, func(p any) {
		if note, ok := p.(eventbus.Notification); ok {
			published = append(published, note)
		}
	})

	srv := &captureServer{}
	RegisterAdminNotifyTask(srv, bus)
	handler := srv.handlers[AdminNotifyTaskType]
	if handler == nil {
		t.Fatal("worker handler not registered")
	}

	payload, _ := json.Marshal(AdminNotifyTaskPayload{AdminID: "a1", Text: "hello"})
	if err := handler(context.Background(), qport.Task{Type: AdminNotifyTaskType, Payload: payload}); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(published) != 1 || published[0].UserID != "a1" || published[0].Text != "hello" {
		t.Fatalf("published = %+v", published)
	}

	// Malformed payloads can never succeed; the handler drops them instead of
	// signaling a retry.
	if err := handler(context.Background(), qport.Task{Type: AdminNotifyTaskType, Payload: []byte("{")}); err != nil {
		t.Fatalf("malformed payload handler = %v, want nil", err)
	}
	if len(published) != 1 {
		t.Errorf("published = %d events after malformed payload, want 1", len(published))
	}
}
