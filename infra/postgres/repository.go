package postgres

import (
	"catalog/domain"
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

//go:embed schema.sql
var schema string

const foreignKeyViolation = pq.ErrorCode("23503")

type PgRepository struct {
	db *sqlx.DB
}

func NewPgRepository(dsn string) (*PgRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	db.SetMaxOpenConns(15)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	return NewPgRepositoryFromDB(db), nil
}

func NewPgRepositoryFromDB(db *sqlx.DB) *PgRepository {
	return &PgRepository{db: db}
}

func (r *PgRepository) Close() error {
	return r.db.Close()
}

func (r *PgRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// DB exposes the pool for stats collection.
func (r *PgRepository) DB() *sql.DB {
	return r.db.DB
}

// Migrate creates the catalog tables when they are missing.
func (r *PgRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

func (r *PgRepository) GetItems(ctx context.Context) ([]domain.Item, error) {
	items := make([]domain.Item, 0)
	query := `SELECT * FROM items ORDER BY id`

	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *PgRepository) GetItem(ctx context.Context, id int64) (domain.Item, error) {
	var i domain.Item
	query := `SELECT * FROM items WHERE id = $1`

	err := r.db.GetContext(ctx, &i, query, id)
	return i, err
}

func (r *PgRepository) CreateItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	query := `
		INSERT INTO items (name, price, category_id)
		VALUES (:name, :price, :category_id)
		RETURNING *`

	created, err := namedGet[domain.Item](ctx, r.db, query, item)
	return created, itemError(err)
}

func (r *PgRepository) UpdateItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	query := `
		UPDATE items SET
			name = :name,
			price = :price,
			category_id = :category_id,
			updated_at = now()
		WHERE id = :id
		RETURNING *`

	updated, err := namedGet[domain.Item](ctx, r.db, query, item)
	return updated, itemError(err)
}

func (r *PgRepository) DeleteItem(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM items WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *PgRepository) CategoryExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`

	err := r.db.GetContext(ctx, &exists, query, id)
	return exists, err
}

func (r *PgRepository) GetCategories(ctx context.Context) ([]domain.Category, error) {
	categories := make([]domain.Category, 0)
	query := `SELECT * FROM categories ORDER BY id`

	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, err
	}

	return categories, nil
}

func (r *PgRepository) GetCategory(ctx context.Context, id int64) (domain.Category, error) {
	var c domain.Category
	query := `SELECT * FROM categories WHERE id = $1`

	err := r.db.GetContext(ctx, &c, query, id)
	return c, err
}

func (r *PgRepository) CreateCategory(ctx context.Context, name *string) (domain.Category, error) {
	var c domain.Category
	query := `INSERT INTO categories (name) VALUES ($1) RETURNING *`

	err := r.db.QueryRowxContext(ctx, query, name).StructScan(&c)
	return c, err
}

func (r *PgRepository) UpdateCategory(ctx context.Context, category domain.Category) (domain.Category, error) {
	query := `
		UPDATE categories SET
			name = :name,
			updated_at = now()
		WHERE id = :id
		RETURNING *`

	return namedGet[domain.Category](ctx, r.db, query, category)
}

func (r *PgRepository) DeleteCategory(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM categories WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, domain.ErrCategoryInUse
		}
		return false, err
	}

	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *PgRepository) CountCategoryItems(ctx context.Context, id int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM items WHERE category_id = $1`

	err := r.db.GetContext(ctx, &count, query, id)
	return count, err
}

// namedGet runs a named query expected to return at most one row. No row is
// reported as sql.ErrNoRows.
func namedGet[T any](ctx context.Context, db *sqlx.DB, query string, arg any) (T, error) {
	var out T

	rows, err := db.NamedQueryContext(ctx, query, arg)
	if err != nil {
		return out, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return out, err
		}
		return out, sql.ErrNoRows
	}

	err = rows.StructScan(&out)
	return out, err
}

func itemError(err error) error {
	if isForeignKeyViolation(err) {
		return domain.ErrUnknownCategory
	}
	return err
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation
}
