package category

import (
	"catalog/domain"
	"context"
)

// Repository is the storage the category handlers need. Lookups of a missing
// category return sql.ErrNoRows.
type Repository interface {
	GetCategories(ctx context.Context) ([]domain.Category, error)
	GetCategory(ctx context.Context, id int64) (domain.Category, error)
	CreateCategory(ctx context.Context, name *string) (domain.Category, error)
	UpdateCategory(ctx context.Context, category domain.Category) (domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) (bool, error)
	CountCategoryItems(ctx context.Context, id int64) (int, error)
}
