package category

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/backend/domain"
)

type memCategoryRepo struct {
	categories []domain.Category
}

func (r *memCategoryRepo) ListByUser(_ context.Context, userID string) ([]domain.Category, error) {
	var out []domain.Category
	for _, c := range r.categories {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *memCategoryRepo) Create(_ context.Context, category *domain.Category) (*domain.Category, error) {
	for _, c := range r.categories {
		if c.UserID == category.UserID && c.Name == category.Name {
			return nil, domain.ErrCategoryExists
		}
	}
	category.ID = "cat-1"
	r.categories = append(r.categories, *category)
	return category, nil
}

func (r *memCategoryRepo) Delete(_ context.Context, id, userID string) error {
	for i, c := range r.categories {
		if c.ID == id && c.UserID == userID {
			r.categories = append(r.categories[:i], r.categories[i+1:]...)
			return nil
		}
	}
	return domain.ErrCategoryNotFound
}

func TestListNamesIncludesBuiltins(t *testing.T) {
	repo := &memCategoryRepo{categories: []domain.Category{
		{ID: "c1", UserID: "user-1", Name: "Errands"},
		{ID: "c2", UserID: "user-2", Name: "Hidden"},
	}}
	uc := New(repo, nil)

	names, err := uc.ListNames(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Work", "Home", "Personal", "Other", "Errands"}, names)
}

func TestListNamesSkipsShadowedBuiltin(t *testing.T) {
	repo := &memCategoryRepo{categories: []domain.Category{
		{ID: "c1", UserID: "user-1", Name: "Work"},
	}}
	uc := New(repo, nil)

	names, err := uc.ListNames(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, domain.BuiltinCategories(), names)
}

func TestCreateRejectsBuiltinName(t *testing.T) {
	uc := New(&memCategoryRepo{}, nil)

	_, err := uc.Create(context.Background(), "user-1", "Work")
	assert.ErrorIs(t, err, domain.ErrCategoryExists)

	_, err = uc.Create(context.Background(), "user-1", "")
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestCreateAndDelete(t *testing.T) {
	repo := &memCategoryRepo{}
	uc := New(repo, nil)

	created, err := uc.Create(context.Background(), "user-1", "Errands")
	require.NoError(t, err)

	require.NoError(t, uc.Delete(context.Background(), created.ID, "user-1"))
	assert.ErrorIs(t, uc.Delete(context.Background(), created.ID, "user-1"), domain.ErrCategoryNotFound)
}
