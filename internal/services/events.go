package services

import (
	"context"
	"encoding/json"
	"fmt"

	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/usecase"
)

// TaskEventBus relays task change events over Redis pub/sub so that every
// connected client of a user sees mutations as they happen.
type TaskEventBus struct {
	client *redislib.Client
	logger *zap.Logger
}

func NewTaskEventBus(client *redislib.Client, logger *zap.Logger) *TaskEventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskEventBus{client: client, logger: logger}
}

// TaskChannel is the Redis channel carrying task events for a user.
func TaskChannel(userID string) string {
	return fmt.Sprintf("tasks:user:%s", userID)
}

func (b *TaskEventBus) PublishTaskEvent(ctx context.Context, event domain.TaskEvent) error {
	if b == nil || b.client == nil {
		return fmt.Errorf("event bus not configured")
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, TaskChannel(event.UserID), payload).Err()
}

// Subscribe opens a live event feed for the user. The returned cancel
// function must be called to release the underlying subscription; the
// channel closes once the subscription ends.
func (b *TaskEventBus) Subscribe(ctx context.Context, userID string) (<-chan domain.TaskEvent, func()) {
	pubsub := b.client.Subscribe(ctx, TaskChannel(userID))
	out := make(chan domain.TaskEvent)

	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			var event domain.TaskEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.Warn("malformed task event", zap.Error(err))
				continue
			}
			select {
			case out <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, func() { _ = pubsub.Close() }
}

var _ usecase.EventPublisher = (*TaskEventBus)(nil)
