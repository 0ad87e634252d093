package item

import (
	"catalog/domain"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Payload is the body accepted by item create and update. Nil fields were
// missing or null in the request.
type Payload struct {
	Name       *string          `json:"name" validate:"required,notblank"`
	Price      *PriceValue      `json:"price" validate:"required,gt=0"`
	CategoryID *CategoryIDValue `json:"category_id" validate:"required"`
}

// PriceValue takes a JSON number or a numeric string. Anything else decodes
// to zero and is reported as a non-positive price.
type PriceValue struct {
	decimal.Decimal
}

func NewPriceValue(d decimal.Decimal) *PriceValue {
	return &PriceValue{Decimal: d}
}

func (p *PriceValue) UnmarshalJSON(data []byte) error {
	if err := p.Decimal.UnmarshalJSON(data); err != nil {
		p.Decimal = decimal.Zero
	}
	return nil
}

// CategoryIDValue takes a JSON integer or a string holding one. Anything else
// decodes to 0, which no category uses.
type CategoryIDValue int64

func NewCategoryIDValue(id int64) *CategoryIDValue {
	v := CategoryIDValue(id)
	return &v
}

func (c *CategoryIDValue) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}

	*c = 0
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err == nil && d.IsInteger() && d.BigInt().IsInt64() {
		*c = CategoryIDValue(d.IntPart())
	}
	return nil
}

func (c CategoryIDValue) Int64() int64 {
	return int64(c)
}

// item applies a validated payload onto a fresh item.
func (p Payload) item() domain.Item {
	return p.apply(domain.Item{})
}

func (p Payload) apply(item domain.Item) domain.Item {
	item.Name = *p.Name
	item.Price = p.Price.Decimal
	item.CategoryID = p.CategoryID.Int64()
	return item
}
