package reminder

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/backend/domain"
)

type scheduledCall struct {
	id     int
	userID string
	title  string
	body   string
	fireAt time.Time
}

type fakeNotifier struct {
	scheduled   []scheduledCall
	cancelled   []int
	scheduleErr error
	cancelErr   error
}

func (f *fakeNotifier) Schedule(_ context.Context, id int, userID, title, body string, fireAt time.Time) error {
	if f.scheduleErr != nil {
		return f.scheduleErr
	}
	f.scheduled = append(f.scheduled, scheduledCall{id: id, userID: userID, title: title, body: body, fireAt: fireAt})
	return nil
}

func (f *fakeNotifier) Cancel(_ context.Context, id int) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelled = append(f.cancelled, id)
	return nil
}

func newTask(id, title string, due time.Time) *domain.Task {
	return &domain.Task{
		ID:     id,
		UserID: "user-1",
		Title:  title,
		DueDate: func() *time.Time {
			return &due
		}(),
	}
}

func newScheduler(notifier *fakeNotifier, now time.Time) *Scheduler {
	s := NewScheduler(notifier, DefaultLead, nil)
	s.now = func() time.Time { return now }
	return s
}

func TestTriggerIDsDeterministic(t *testing.T) {
	remindA, expireA := TriggerIDs("task-abc")
	remindB, expireB := TriggerIDs("task-abc")

	assert.Equal(t, remindA, remindB)
	assert.Equal(t, expireA, expireB)
	assert.Equal(t, remindA+1, expireA)
	assert.GreaterOrEqual(t, remindA, 0)

	otherRemind, _ := TriggerIDs("task-xyz")
	assert.NotEqual(t, remindA, otherRemind)
}

func TestScheduleTriggerPair(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		due  time.Time
		want int
	}{
		{name: "due more than one hour out schedules both", due: now.Add(2 * time.Hour), want: 2},
		{name: "due within the hour schedules expiry only", due: now.Add(30 * time.Minute), want: 1},
		{name: "due exactly at lead schedules expiry only", due: now.Add(time.Hour), want: 1},
		{name: "due in the past schedules nothing", due: now.Add(-time.Minute), want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			notifier := &fakeNotifier{}
			s := newScheduler(notifier, now)

			s.Schedule(context.Background(), newTask("task-1", "Write report", tc.due))
			assert.Len(t, notifier.scheduled, tc.want)
		})
	}
}

func TestScheduleTimestampsAndTemplates(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	due := now.Add(2 * time.Hour)

	notifier := &fakeNotifier{}
	s := newScheduler(notifier, now)
	s.Schedule(context.Background(), newTask("task-1", "Write report", due))

	require.Len(t, notifier.scheduled, 2)
	remindID, expireID := TriggerIDs("task-1")

	remind := notifier.scheduled[0]
	assert.Equal(t, remindID, remind.id)
	assert.Equal(t, "user-1", remind.userID)
	assert.Equal(t, "Write report is due in 1 hour!", remind.body)
	assert.True(t, remind.fireAt.Equal(due.Add(-time.Hour)))

	expire := notifier.scheduled[1]
	assert.Equal(t, expireID, expire.id)
	assert.Equal(t, "Write report has expired.", expire.body)
	assert.True(t, expire.fireAt.Equal(due))
}

func TestScheduleWithoutDueDate(t *testing.T) {
	notifier := &fakeNotifier{}
	s := newScheduler(notifier, time.Now())

	s.Schedule(context.Background(), &domain.Task{ID: "task-1", Title: "No deadline"})
	assert.Empty(t, notifier.scheduled)
}

func TestScheduleFailureAbsorbed(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	notifier := &fakeNotifier{scheduleErr: errors.New("collaborator down")}
	s := newScheduler(notifier, now)

	// Must not panic or propagate; failures are logged only.
	s.Schedule(context.Background(), newTask("task-1", "Write report", now.Add(2*time.Hour)))
	assert.Empty(t, notifier.scheduled)
}

func TestCancelBothTriggers(t *testing.T) {
	notifier := &fakeNotifier{}
	s := newScheduler(notifier, time.Now())

	s.Cancel(context.Background(), "task-1")

	remindID, expireID := TriggerIDs("task-1")
	assert.Equal(t, []int{remindID, expireID}, notifier.cancelled)
}

func TestCancelIdempotent(t *testing.T) {
	notifier := &fakeNotifier{}
	s := newScheduler(notifier, time.Now())

	// Cancel twice, plus an identity that was never scheduled.
	s.Cancel(context.Background(), "task-1")
	s.Cancel(context.Background(), "task-1")
	s.Cancel(context.Background(), "never-scheduled")

	assert.Len(t, notifier.cancelled, 6)
}

func TestEditSupersedesTriggers(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	notifier := &fakeNotifier{}
	s := newScheduler(notifier, now)

	// Schedule, then re-schedule with a new due date, as an edit does.
	s.Schedule(context.Background(), newTask("task-1", "Write report", now.Add(2*time.Hour)))
	s.Schedule(context.Background(), newTask("task-1", "Write report", now.Add(5*time.Hour)))

	// Ids repeat across the two rounds, so at most two distinct live
	// triggers remain associated with the identity.
	distinct := map[int]struct{}{}
	for _, call := range notifier.scheduled {
		distinct[call.id] = struct{}{}
	}
	assert.Len(t, distinct, 2)
}

func TestCustomLead(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	notifier := &fakeNotifier{}
	s := NewScheduler(notifier, 30*time.Minute, nil)
	s.now = func() time.Time { return now }

	due := now.Add(45 * time.Minute)
	s.Schedule(context.Background(), newTask("task-1", "Stand-up", due))

	require.Len(t, notifier.scheduled, 2)
	assert.True(t, notifier.scheduled[0].fireAt.Equal(due.Add(-30*time.Minute)))
	assert.Equal(t, fmt.Sprintf("Stand-up is due in %s!", (30*time.Minute).String()), notifier.scheduled[0].body)
}
