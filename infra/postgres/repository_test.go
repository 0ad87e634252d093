package postgres

import (
	"catalog/app/category"
	"catalog/app/item"
	"catalog/domain"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ item.Repository     = (*PgRepository)(nil)
	_ category.Repository = (*PgRepository)(nil)
)

func TestItemErrorTranslatesForeignKeyViolation(t *testing.T) {
	fk := &pq.Error{Code: "23503", Message: "insert or update on table \"items\" violates foreign key constraint"}

	assert.ErrorIs(t, itemError(fk), domain.ErrUnknownCategory)
	assert.ErrorIs(t, itemError(fmt.Errorf("wrapped: %w", fk)), domain.ErrUnknownCategory)
}

func TestItemErrorPassesOtherErrorsThrough(t *testing.T) {
	unique := &pq.Error{Code: "23505"}

	assert.Same(t, unique, itemError(unique))
	assert.ErrorIs(t, itemError(sql.ErrNoRows), sql.ErrNoRows)
	assert.NoError(t, itemError(nil))
	assert.False(t, isForeignKeyViolation(errors.New("boom")))
}

func TestSchemaIsEmbedded(t *testing.T) {
	assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS categories")
	assert.Contains(t, schema, "REFERENCES categories (id)")
}

// Prices are stored exactly as validated.
func TestSchemaPriceIsUnscaled(t *testing.T) {
	assert.Regexp(t, `price\s+NUMERIC NOT NULL CHECK \(price > 0\)`, schema)
	assert.NotRegexp(t, `NUMERIC\s*\(`, schema)
}

func newMockRepository(t *testing.T) (*PgRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	return NewPgRepositoryFromDB(sqlx.NewDb(db, "postgres")), mock
}

var itemColumns = []string{"id", "name", "price", "category_id", "created_at", "updated_at"}

func TestCreateItemReturnsInsertedRow(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO items (name, price, category_id)")).
		WithArgs("Novel", "9.99", int64(1)).
		WillReturnRows(sqlmock.NewRows(itemColumns).AddRow(7, "Novel", "9.99", 1, now, now))

	item, err := repo.CreateItem(t.Context(), domain.Item{
		Name:       "Novel",
		Price:      decimal.RequireFromString("9.99"),
		CategoryID: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), item.ID)
	assert.True(t, decimal.RequireFromString("9.99").Equal(item.Price))
	assert.Equal(t, now, item.CreatedAt)
}

func TestCreateItemKeepsPricePrecision(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	for _, price := range []string{"0.001", "9.999", "12345678901.5"} {
		t.Run(price, func(t *testing.T) {
			repo, mock := newMockRepository(t)

			mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO items")).
				WithArgs("Novel", price, int64(1)).
				WillReturnRows(sqlmock.NewRows(itemColumns).AddRow(1, "Novel", price, 1, now, now))

			item, err := repo.CreateItem(t.Context(), domain.Item{
				Name:       "Novel",
				Price:      decimal.RequireFromString(price),
				CategoryID: 1,
			})
			require.NoError(t, err)
			assert.Equal(t, price, item.Price.String())
		})
	}
}

func TestCreateItemForeignKeyViolation(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO items")).
		WillReturnError(&pq.Error{Code: "23503"})

	_, err := repo.CreateItem(t.Context(), domain.Item{Name: "Novel", Price: decimal.NewFromInt(1), CategoryID: 9})
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)
}

func TestUpdateItemWithoutRow(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE items SET")).
		WithArgs("Novel", "1", int64(1), int64(5)).
		WillReturnRows(sqlmock.NewRows(itemColumns))

	_, err := repo.UpdateItem(t.Context(), domain.Item{ID: 5, Name: "Novel", Price: decimal.NewFromInt(1), CategoryID: 1})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestGetItemsEmptyIsNotNil(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM items ORDER BY id")).
		WillReturnRows(sqlmock.NewRows(itemColumns))

	items, err := repo.GetItems(t.Context())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestGetItemMissing(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM items WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(itemColumns))

	_, err := repo.GetItem(t.Context(), 3)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestDeleteItemReportsAffectedRows(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM items WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM items WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.DeleteItem(t.Context(), 1)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.DeleteItem(t.Context(), 1)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestDeleteCategoryStillReferenced(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM categories WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnError(&pq.Error{Code: "23503"})

	_, err := repo.DeleteCategory(t.Context(), 1)
	assert.ErrorIs(t, err, domain.ErrCategoryInUse)
}

func TestCategoryExistsAndCount(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM items WHERE category_id = $1")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	exists, err := repo.CategoryExists(t.Context(), 2)
	require.NoError(t, err)
	assert.True(t, exists)

	count, err := repo.CountCategoryItems(t.Context(), 2)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
