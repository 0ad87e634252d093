// Package memory is a process-local repository for the item and category
// handlers. It backs tests and DATABASE_URL=memory:// runs and mirrors the
// constraints of the postgres schema.
package memory

import (
	"catalog/domain"
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"time"
)

var (
	errNameRequired  = errors.New("categories.name must not be null")
	errNameDuplicate = errors.New("categories.name must be unique")
)

type Option func(*Repository)

// WithClock replaces time.Now for created_at/updated_at.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
	}
}

type Repository struct {
	mu sync.RWMutex

	items      map[int64]domain.Item
	categories map[int64]domain.Category
	nextItem   int64
	nextCat    int64
	now        func() time.Time
}

func NewRepository(opts ...Option) *Repository {
	r := &Repository{
		items:      make(map[int64]domain.Item),
		categories: make(map[int64]domain.Category),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Repository) timestamp() time.Time {
	return r.now().UTC()
}

func (r *Repository) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (r *Repository) Close() error {
	return nil
}

func (r *Repository) GetItems(ctx context.Context) ([]domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]domain.Item, 0, len(r.items))
	for _, i := range r.items {
		items = append(items, i)
	}
	sort.Slice(items, func(a, b int) bool { return items[a].ID < items[b].ID })
	return items, nil
}

func (r *Repository) GetItem(ctx context.Context, id int64) (domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.items[id]
	if !ok {
		return domain.Item{}, sql.ErrNoRows
	}
	return i, nil
}

func (r *Repository) CreateItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[item.CategoryID]; !ok {
		return domain.Item{}, domain.ErrUnknownCategory
	}

	r.nextItem++
	now := r.timestamp()
	item.ID = r.nextItem
	item.CreatedAt = now
	item.UpdatedAt = now
	r.items[item.ID] = item
	return item, nil
}

func (r *Repository) UpdateItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[item.ID]
	if !ok {
		return domain.Item{}, sql.ErrNoRows
	}
	if _, ok := r.categories[item.CategoryID]; !ok {
		return domain.Item{}, domain.ErrUnknownCategory
	}

	existing.Name = item.Name
	existing.Price = item.Price
	existing.CategoryID = item.CategoryID
	existing.UpdatedAt = r.timestamp()
	r.items[item.ID] = existing
	return existing, nil
}

func (r *Repository) DeleteItem(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

func (r *Repository) CategoryExists(ctx context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.categories[id]
	return ok, nil
}

func (r *Repository) GetCategories(ctx context.Context) ([]domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	categories := make([]domain.Category, 0, len(r.categories))
	for _, c := range r.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(a, b int) bool { return categories[a].ID < categories[b].ID })
	return categories, nil
}

func (r *Repository) GetCategory(ctx context.Context, id int64) (domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.categories[id]
	if !ok {
		return domain.Category{}, sql.ErrNoRows
	}
	return c, nil
}

func (r *Repository) CreateCategory(ctx context.Context, name *string) (domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == nil {
		return domain.Category{}, errNameRequired
	}
	if r.nameTaken(*name, 0) {
		return domain.Category{}, errNameDuplicate
	}

	r.nextCat++
	now := r.timestamp()
	c := domain.Category{
		ID:        r.nextCat,
		Name:      *name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.categories[c.ID] = c
	return c, nil
}

func (r *Repository) UpdateCategory(ctx context.Context, category domain.Category) (domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.categories[category.ID]
	if !ok {
		return domain.Category{}, sql.ErrNoRows
	}
	if r.nameTaken(category.Name, category.ID) {
		return domain.Category{}, errNameDuplicate
	}

	existing.Name = category.Name
	existing.UpdatedAt = r.timestamp()
	r.categories[category.ID] = existing
	return existing, nil
}

func (r *Repository) DeleteCategory(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[id]; !ok {
		return false, nil
	}
	for _, i := range r.items {
		if i.CategoryID == id {
			return false, domain.ErrCategoryInUse
		}
	}
	delete(r.categories, id)
	return true, nil
}

func (r *Repository) CountCategoryItems(ctx context.Context, id int64) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, i := range r.items {
		if i.CategoryID == id {
			count++
		}
	}
	return count, nil
}

func (r *Repository) nameTaken(name string, except int64) bool {
	for id, c := range r.categories {
		if id != except && c.Name == name {
			return true
		}
	}
	return false
}
