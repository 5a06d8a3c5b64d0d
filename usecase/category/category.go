package category

import (
	"context"

	"go.uber.org/zap"

	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/repository"
)

// UseCase serves the category pickers: the fixed builtin set plus the
// user's own entries.
type UseCase struct {
	categories repository.CategoryRepository
	logger     *zap.Logger
}

func New(categories repository.CategoryRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		categories: categories,
		logger:     logger,
	}
}

// ListNames returns builtin category names followed by the user's custom
// ones, skipping custom entries that shadow a builtin.
func (uc *UseCase) ListNames(ctx context.Context, userID string) ([]string, error) {
	custom, err := uc.categories.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	names := domain.BuiltinCategories()
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		seen[name] = struct{}{}
	}
	for _, c := range custom {
		if _, ok := seen[c.Name]; ok {
			continue
		}
		names = append(names, c.Name)
	}
	return names, nil
}

func (uc *UseCase) ListCustom(ctx context.Context, userID string) ([]domain.Category, error) {
	return uc.categories.ListByUser(ctx, userID)
}

func (uc *UseCase) Create(ctx context.Context, userID, name string) (*domain.Category, error) {
	if name == "" {
		return nil, domain.ErrInvalidPayload
	}
	for _, builtin := range domain.BuiltinCategories() {
		if name == builtin {
			return nil, domain.ErrCategoryExists
		}
	}
	return uc.categories.Create(ctx, &domain.Category{UserID: userID, Name: name})
}

func (uc *UseCase) Delete(ctx context.Context, id, userID string) error {
	return uc.categories.Delete(ctx, id, userID)
}
