package item

import (
	"catalog/domain"
	"context"
)

// Repository is the storage the item handlers need. Lookups of a missing item
// return sql.ErrNoRows.
type Repository interface {
	GetItems(ctx context.Context) ([]domain.Item, error)
	GetItem(ctx context.Context, id int64) (domain.Item, error)
	CreateItem(ctx context.Context, item domain.Item) (domain.Item, error)
	UpdateItem(ctx context.Context, item domain.Item) (domain.Item, error)
	DeleteItem(ctx context.Context, id int64) (bool, error)
	CategoryChecker
}

type CategoryChecker interface {
	CategoryExists(ctx context.Context, id int64) (bool, error)
}
