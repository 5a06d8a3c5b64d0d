package task

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/repository"
	"github.com/taskdeck/backend/usecase"
	"github.com/taskdeck/backend/usecase/reminder"
)

// FilterAll is the sentinel meaning "do not narrow by this field".
const FilterAll = "All"

const sideEffectTimeout = 30 * time.Second

// Query narrows and pages a task listing for one owner.
type Query struct {
	UserID    string
	Category  string
	Priority  string
	Completed *bool
	Limit     int
	Offset    int
}

// UseCase orchestrates task mutations against the store and fans out the
// side effects: reminder triggers, live stream events and calendar sync.
// Side effects run detached from the request; their failure never reverses
// or blocks the store mutation that triggered them.
type UseCase struct {
	tasks     repository.TaskRepository
	reminders *reminder.Scheduler
	events    usecase.EventPublisher
	calendar  usecase.CalendarSync
	logger    *zap.Logger

	spawn func(func())
}

func New(
	tasks repository.TaskRepository,
	reminders *reminder.Scheduler,
	events usecase.EventPublisher,
	calendar usecase.CalendarSync,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:     tasks,
		reminders: reminders,
		events:    events,
		calendar:  calendar,
		logger:    logger,
		spawn:     func(fn func()) { go fn() },
	}
}

// ListTasks returns the owner's tasks narrowed by category/priority and
// sorted by due date. Narrowing and sorting happen after retrieval; the
// store contract is owner-scoped only.
func (uc *UseCase) ListTasks(ctx context.Context, q Query) ([]domain.Task, error) {
	tasks, err := uc.tasks.List(ctx, repository.TaskFilter{
		UserID:    q.UserID,
		Completed: q.Completed,
		Limit:     q.Limit,
		Offset:    q.Offset,
	})
	if err != nil {
		return nil, err
	}

	tasks = FilterByCategory(tasks, q.Category)
	tasks = FilterByPriority(tasks, q.Priority)
	SortByDueDate(tasks)
	return tasks, nil
}

func (uc *UseCase) GetTask(ctx context.Context, id, userID string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

func (uc *UseCase) CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}

	uc.fanOut(domain.EventTaskCreated, created)
	return created, nil
}

// UpdateTask persists the edit and re-issues both reminder triggers
// unconditionally. Trigger ids derive from the task identity alone, so the
// fresh pair supersedes whatever was pending.
func (uc *UseCase) UpdateTask(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	uc.fanOut(domain.EventTaskUpdated, task)
	return task, nil
}

// SetCompleted toggles the completion flag. Completing a task revokes its
// pending triggers; re-opening it arms them again from the stored due date.
func (uc *UseCase) SetCompleted(ctx context.Context, id, userID string, completed bool) (*domain.Task, error) {
	if _, err := uc.GetTask(ctx, id, userID); err != nil {
		return nil, err
	}

	task, err := uc.tasks.SetCompleted(ctx, id, completed)
	if err != nil {
		return nil, err
	}

	uc.spawn(func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
		defer cancel()

		if uc.reminders != nil {
			if task.IsCompleted {
				uc.reminders.Cancel(bgCtx, task.ID)
			} else {
				uc.reminders.Schedule(bgCtx, task)
			}
		}
		uc.publish(bgCtx, domain.EventTaskUpdated, task)
	})

	return task, nil
}

// DeleteTask removes the document and cancels both trigger ids for the
// identity.
func (uc *UseCase) DeleteTask(ctx context.Context, id, userID string) error {
	task, err := uc.GetTask(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := uc.tasks.Delete(ctx, id); err != nil {
		return err
	}

	uc.spawn(func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
		defer cancel()

		if uc.reminders != nil {
			uc.reminders.Cancel(bgCtx, id)
		}
		uc.publish(bgCtx, domain.EventTaskDeleted, task)
	})

	return nil
}

func (uc *UseCase) fanOut(eventType domain.EventType, task *domain.Task) {
	uc.spawn(func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
		defer cancel()

		if uc.reminders != nil {
			uc.reminders.Schedule(bgCtx, task)
		}
		uc.publish(bgCtx, eventType, task)

		if uc.calendar != nil && task.HasDueDate() {
			if err := uc.calendar.PushTask(bgCtx, task); err != nil {
				uc.logger.Warn("calendar sync failed",
					zap.String("task_id", task.ID),
					zap.Error(err))
			}
		}
	})
}

func (uc *UseCase) publish(ctx context.Context, eventType domain.EventType, task *domain.Task) {
	if uc.events == nil || task == nil {
		return
	}

	event := domain.TaskEvent{
		Type:       eventType,
		TaskID:     task.ID,
		UserID:     task.UserID,
		OccurredAt: time.Now(),
	}
	if eventType != domain.EventTaskDeleted {
		event.Task = task
	}

	if err := uc.events.PublishTaskEvent(ctx, event); err != nil {
		uc.logger.Warn("failed to publish task event",
			zap.String("task_id", task.ID),
			zap.String("event", string(eventType)),
			zap.Error(err))
	}
}

// FilterByCategory returns the order-preserving subset matching the
// category. Empty or "All" returns the input unchanged.
func FilterByCategory(tasks []domain.Task, category string) []domain.Task {
	if category == "" || category == FilterAll {
		return tasks
	}
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// FilterByPriority returns the order-preserving subset matching the
// priority. Empty or "All" returns the input unchanged.
func FilterByPriority(tasks []domain.Task, priority string) []domain.Task {
	if priority == "" || priority == FilterAll {
		return tasks
	}
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Priority == priority {
			out = append(out, t)
		}
	}
	return out
}

// SortByDueDate orders tasks by ascending due date in place. Tasks without
// a due date sort last, newest first.
func SortByDueDate(tasks []domain.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		switch {
		case tasks[i].DueDate == nil && tasks[j].DueDate == nil:
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		case tasks[i].DueDate == nil:
			return false
		case tasks[j].DueDate == nil:
			return true
		default:
			return tasks[i].DueDate.Before(*tasks[j].DueDate)
		}
	})
}
