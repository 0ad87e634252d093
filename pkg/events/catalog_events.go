package events

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	CatalogExchange = "catalog"
)

const (
	ItemCreatedEvent     = "item.created"
	ItemUpdatedEvent     = "item.updated"
	ItemDeletedEvent     = "item.deleted"
	CategoryCreatedEvent = "category.created"
	CategoryUpdatedEvent = "category.updated"
	CategoryDeletedEvent = "category.deleted"
)

const (
	EventVersionV1 = "v1"
)

// ItemPayload is carried by item.created and item.updated.
type ItemPayload struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	CategoryID int64           `json:"categoryId"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

type ItemDeletedPayload struct {
	ID        int64     `json:"id"`
	DeletedAt time.Time `json:"deletedAt"`
}

// CategoryPayload is carried by category.created and category.updated.
type CategoryPayload struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CategoryDeletedPayload struct {
	ID        int64     `json:"id"`
	DeletedAt time.Time `json:"deletedAt"`
}
