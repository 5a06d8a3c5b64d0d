package reminder

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"go.uber.org/zap"

	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/usecase"
)

// DefaultLead is how long before the due time the first reminder fires.
const DefaultLead = time.Hour

// Scheduler derives a pair of notification triggers per task: a pre-due
// reminder at due minus lead and an expiry notice at the due time itself. Trigger
// ids are a pure function of the task identity, so re-scheduling after an
// edit replaces the previous pair and cancellation never needs the old due
// date.
type Scheduler struct {
	notifier usecase.Notifier
	lead     time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

func NewScheduler(notifier usecase.Notifier, lead time.Duration, logger *zap.Logger) *Scheduler {
	if lead <= 0 {
		lead = DefaultLead
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		notifier: notifier,
		lead:     lead,
		logger:   logger,
		now:      time.Now,
	}
}

// TriggerIDs derives the two integer trigger ids for a task identity.
func TriggerIDs(taskID string) (remindID, expireID int) {
	h := fnv.New32a()
	h.Write([]byte(taskID))
	base := int(h.Sum32() & 0x7fffffff)
	return base, base + 1
}

// Schedule issues the trigger pair for the task. Timestamps that are not
// strictly in the future are skipped without error or backfill, and a
// scheduling failure is absorbed after logging. Tasks without a due date
// schedule nothing.
func (s *Scheduler) Schedule(ctx context.Context, task *domain.Task) {
	if s == nil || s.notifier == nil || task == nil || !task.HasDueDate() {
		return
	}

	due := *task.DueDate
	remindID, expireID := TriggerIDs(task.ID)
	now := s.now()

	if remindAt := due.Add(-s.lead); remindAt.After(now) {
		body := fmt.Sprintf("%s is due in %s!", task.Title, leadText(s.lead))
		if err := s.notifier.Schedule(ctx, remindID, task.UserID, task.Title, body, remindAt); err != nil {
			s.logger.Warn("failed to schedule reminder trigger",
				zap.String("task_id", task.ID),
				zap.Int("trigger_id", remindID),
				zap.Error(err))
		}
	}

	if due.After(now) {
		body := fmt.Sprintf("%s has expired.", task.Title)
		if err := s.notifier.Schedule(ctx, expireID, task.UserID, task.Title, body, due); err != nil {
			s.logger.Warn("failed to schedule expiry trigger",
				zap.String("task_id", task.ID),
				zap.Int("trigger_id", expireID),
				zap.Error(err))
		}
	}
}

// Cancel revokes both triggers for the task identity. Cancelling triggers
// that were never scheduled is a no-op.
func (s *Scheduler) Cancel(ctx context.Context, taskID string) {
	if s == nil || s.notifier == nil || taskID == "" {
		return
	}

	remindID, expireID := TriggerIDs(taskID)
	for _, id := range []int{remindID, expireID} {
		if err := s.notifier.Cancel(ctx, id); err != nil {
			s.logger.Warn("failed to cancel trigger",
				zap.String("task_id", taskID),
				zap.Int("trigger_id", id),
				zap.Error(err))
		}
	}
}

func leadText(lead time.Duration) string {
	if lead == time.Hour {
		return "1 hour"
	}
	return lead.String()
}
