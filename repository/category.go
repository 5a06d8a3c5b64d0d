package repository

import (
	"context"

	"github.com/taskdeck/backend/domain"
)

type CategoryRepository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Category, error)
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	Delete(ctx context.Context, id, userID string) error
}
