package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/internal/infrastructure/calendar"
	"github.com/taskdeck/backend/usecase"
)

// CalendarBridge adapts the Google Calendar client to the usecase
// CalendarSync port. A nil client disables sync entirely.
type CalendarBridge struct {
	client *calendar.Client
	logger *zap.Logger
}

func NewCalendarBridge(client *calendar.Client, logger *zap.Logger) *CalendarBridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarBridge{client: client, logger: logger}
}

func (b *CalendarBridge) PushTask(ctx context.Context, task *domain.Task) error {
	if b == nil || b.client == nil || task == nil {
		return nil
	}

	event, err := b.client.InsertTaskEvent(ctx, task)
	if err != nil {
		return err
	}

	b.logger.Debug("task mirrored to calendar",
		zap.String("task_id", task.ID),
		zap.String("event_id", event.Id))
	return nil
}

var _ usecase.CalendarSync = (*CalendarBridge)(nil)
