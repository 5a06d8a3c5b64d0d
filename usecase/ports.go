package usecase

import (
	"context"
	"time"

	"github.com/taskdeck/backend/domain"
)

// Notifier abstracts the local-notification collaborator. Trigger ids are
// integers so that re-scheduling under the same id replaces the pending
// trigger and cancelling a missing id is a no-op.
type Notifier interface {
	Schedule(ctx context.Context, id int, userID, title, body string, fireAt time.Time) error
	Cancel(ctx context.Context, id int) error
}

// EventPublisher pushes task change events to live stream consumers.
type EventPublisher interface {
	PublishTaskEvent(ctx context.Context, event domain.TaskEvent) error
}

// CalendarSync mirrors a task into an external calendar. Implementations are
// best-effort: callers never block on or surface a sync failure.
type CalendarSync interface {
	PushTask(ctx context.Context, task *domain.Task) error
}
