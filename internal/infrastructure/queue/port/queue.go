package port

import (
	"context"
	"time"
)

// Task is a background job with a stable type identifier and opaque payload
// bytes. Payload encoding is the caller's concern.
type Task struct {
	Type    string
	Payload []byte
}

// Handler processes a Task. A non-nil error signals retry per the adapter's
// policy, so handlers must be idempotent.
type Handler func(ctx context.Context, task Task) error

// EnqueueOption controls enqueue behavior; zero values mean "unspecified" and
// adapters map supported fields best-effort.
type EnqueueOption struct {
	Queue     string        // logical queue name
	ProcessIn time.Duration // delay before processing
	MaxRetry  int           // max retries for the task
	UniqueTTL time.Duration // enforce uniqueness within TTL window
}

// Client enqueues tasks for background processing.
type Client interface {
	Enqueue(ctx context.Context, t Task, opts ...EnqueueOption) (id string, err error)
	Close() error
}

// Server runs background workers. Run blocks until the context is canceled.
type Server interface {
	Register(taskType string, h Handler)
	Run(ctx context.Context) error
	Stop(ctx context.Context) error
}
