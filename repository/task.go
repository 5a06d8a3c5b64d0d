package repository

import (
	"context"

	"github.com/taskdeck/backend/domain"
)

// TaskFilter narrows a task listing to an owner. Category and priority
// filtering happen in the consumer, not in the query.
type TaskFilter struct {
	UserID    string
	Completed *bool
	Limit     int
	Offset    int
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	SetCompleted(ctx context.Context, id string, completed bool) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
}
