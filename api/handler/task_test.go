package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/repository"
	taskUC "github.com/taskdeck/backend/usecase/task"
)

type stubTaskRepo struct {
	tasks map[string]domain.Task
}

func (r *stubTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return &task, nil
}

func (r *stubTaskRepo) List(_ context.Context, _ repository.TaskFilter) ([]domain.Task, error) {
	return nil, nil
}

func (r *stubTaskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	return task, nil
}

func (r *stubTaskRepo) Update(_ context.Context, _ *domain.Task) error { return nil }

func (r *stubTaskRepo) SetCompleted(_ context.Context, id string, completed bool) (*domain.Task, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	task.IsCompleted = completed
	return &task, nil
}

func (r *stubTaskRepo) Delete(_ context.Context, id string) error {
	delete(r.tasks, id)
	return nil
}

func newTestTaskHandler(repo *stubTaskRepo) *TaskHandler {
	return NewTaskHandler(taskUC.New(repo, nil, nil, nil, nil), nil, nil)
}

func TestParseTaskRejectsMalformedDueDate(t *testing.T) {
	h := newTestTaskHandler(&stubTaskRepo{})

	var ctx fasthttp.RequestCtx
	ctx.Request.SetBody([]byte(`{"title":"Buy groceries","due_date":"tomorrow"}`))

	task, ok := h.parseTask(&ctx, "user-1")
	assert.False(t, ok)
	assert.Nil(t, task)
	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
}

func TestParseTaskAcceptsRFC3339DueDate(t *testing.T) {
	h := newTestTaskHandler(&stubTaskRepo{})

	var ctx fasthttp.RequestCtx
	ctx.Request.SetBody([]byte(`{"title":"Buy groceries","due_date":"2026-09-01T10:00:00Z"}`))

	task, ok := h.parseTask(&ctx, "user-1")
	require.True(t, ok)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC), task.DueDate.UTC())
}

func TestDeleteTaskRespondsNoContentWithoutBody(t *testing.T) {
	repo := &stubTaskRepo{tasks: map[string]domain.Task{
		"task-1": {ID: "task-1", UserID: "user-1"},
	}}
	h := newTestTaskHandler(repo)

	var ctx fasthttp.RequestCtx
	ctx.Request.Header.Set("X-User-ID", "user-1")
	ctx.SetUserValue("id", "task-1")

	h.DeleteTask(&ctx)

	assert.Equal(t, http.StatusNoContent, ctx.Response.StatusCode())
	assert.Empty(t, ctx.Response.Body())
}
