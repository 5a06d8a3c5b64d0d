package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/taskdeck/backend/internal/infrastructure/trigger"
	"github.com/taskdeck/backend/usecase"
)

// NotifyBridge adapts the trigger store to the usecase Notifier port.
type NotifyBridge struct {
	store *trigger.Store
}

func NewNotifyBridge(store *trigger.Store) *NotifyBridge {
	return &NotifyBridge{store: store}
}

func (b *NotifyBridge) Schedule(_ context.Context, id int, userID, title, body string, fireAt time.Time) error {
	if b == nil || b.store == nil {
		return fmt.Errorf("notify bridge not configured")
	}
	return b.store.Put(trigger.Trigger{
		ID:     id,
		UserID: userID,
		Title:  title,
		Body:   body,
		FireAt: fireAt,
	})
}

func (b *NotifyBridge) Cancel(_ context.Context, id int) error {
	if b == nil || b.store == nil {
		return fmt.Errorf("notify bridge not configured")
	}
	return b.store.Delete(id)
}

var _ usecase.Notifier = (*NotifyBridge)(nil)

// NotificationChannel is the Redis channel carrying fired triggers for a user.
func NotificationChannel(userID string) string {
	return fmt.Sprintf("notify:user:%s", userID)
}

// RedisSink publishes fired triggers on the owner's notification channel.
type RedisSink struct {
	client *redislib.Client
}

func NewRedisSink(client *redislib.Client) *RedisSink {
	return &RedisSink{client: client}
}

func (s *RedisSink) Name() string { return "redis" }

func (s *RedisSink) Deliver(ctx context.Context, t trigger.Trigger) error {
	payload, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return s.client.Publish(ctx, NotificationChannel(t.UserID), payload).Err()
}

// LogSink records fired triggers in the structured log.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Deliver(_ context.Context, t trigger.Trigger) error {
	s.logger.Info("notification fired",
		zap.Int("trigger_id", t.ID),
		zap.String("user_id", t.UserID),
		zap.String("body", t.Body),
		zap.Time("fire_at", t.FireAt))
	return nil
}
