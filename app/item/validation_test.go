package item

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCategories map[int64]bool

func (s stubCategories) CategoryExists(_ context.Context, id int64) (bool, error) {
	return s[id], nil
}

type failingCategories struct{}

func (failingCategories) CategoryExists(context.Context, int64) (bool, error) {
	return false, errors.New("connection refused")
}

func decodePayload(t *testing.T, body string) *Payload {
	t.Helper()
	var p Payload
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	return &p
}

func TestValidate(t *testing.T) {
	categories := stubCategories{1: true}

	cases := []struct {
		name     string
		body     string
		expected []string
	}{
		{"Valid", `{"name":"Novel","price":9.99,"category_id":1}`, []string{}},
		{"PriceAsString", `{"name":"Novel","price":"12.50","category_id":1}`, []string{}},
		{"Empty", `{}`, []string{MsgNamePresent, MsgPricePresent, MsgCategoryPresent}},
		{"Nulls", `{"name":null,"price":null,"category_id":null}`, []string{MsgNamePresent, MsgPricePresent, MsgCategoryPresent}},
		{"BlankName", `{"name":"   ","price":1,"category_id":1}`, []string{MsgNamePresent}},
		{"ZeroPrice", `{"name":"Novel","price":0,"category_id":1}`, []string{MsgPricePositive}},
		{"NegativePrice", `{"name":"Novel","price":-3,"category_id":1}`, []string{MsgPricePositive}},
		{"UnknownCategory", `{"name":"Novel","price":1,"category_id":2}`, []string{MsgCategoryExisting}},
		{"AllBroken", `{"name":"","price":-1,"category_id":9}`, []string{MsgNamePresent, MsgPricePositive, MsgCategoryExisting}},
		{"NonNumericPrice", `{"price":"abc"}`, []string{MsgNamePresent, MsgPricePositive, MsgCategoryPresent}},
		{"BooleanPrice", `{"name":"Novel","price":true,"category_id":1}`, []string{MsgPricePositive}},
		{"CategoryIDAsString", `{"name":"Novel","price":9.99,"category_id":"1"}`, []string{}},
		{"NonNumericCategoryID", `{"name":"Novel","price":1,"category_id":"abc"}`, []string{MsgCategoryExisting}},
		{"FractionalCategoryID", `{"name":"Novel","price":1,"category_id":1.5}`, []string{MsgCategoryExisting}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			messages, err := Validate(context.Background(), categories, decodePayload(t, tc.body))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, messages)
		})
	}
}

func TestPayloadCoercion(t *testing.T) {
	p := decodePayload(t, `{"name":"Novel","price":"12.50","category_id":"7"}`)
	assert.Equal(t, "12.5", p.Price.String())
	assert.Equal(t, int64(7), p.CategoryID.Int64())

	p = decodePayload(t, `{"price":{"amount":1},"category_id":[1]}`)
	require.NotNil(t, p.Price)
	assert.True(t, p.Price.IsZero())
	require.NotNil(t, p.CategoryID)
	assert.Equal(t, int64(0), p.CategoryID.Int64())

	p = decodePayload(t, `{"price":null,"category_id":null}`)
	assert.Nil(t, p.Price)
	assert.Nil(t, p.CategoryID)
}

func TestValidateLookupFailure(t *testing.T) {
	_, err := Validate(context.Background(), failingCategories{}, decodePayload(t, `{"name":"Novel","price":1,"category_id":1}`))
	assert.Error(t, err)
}

func TestValidateSkipsLookupWithoutCategory(t *testing.T) {
	messages, err := Validate(context.Background(), failingCategories{}, decodePayload(t, `{"name":"Novel","price":1}`))
	require.NoError(t, err)
	assert.Equal(t, []string{MsgCategoryPresent}, messages)
}
