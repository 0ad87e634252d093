package item

import (
	"context"
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

const (
	MsgNamePresent      = "Name must be present."
	MsgPricePresent     = "Price must be present."
	MsgPricePositive    = "Price must be a greater than 0."
	MsgCategoryPresent  = "Category ID must be present."
	MsgCategoryExisting = "Category ID must reference an existing category."
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if p, ok := field.Interface().(PriceValue); ok {
			return p.InexactFloat64()
		}
		return nil
	}, PriceValue{})
	return v
}

// Validate returns every rule the payload breaks, ordered name, price,
// category. An empty result means the payload is valid.
func Validate(ctx context.Context, categories CategoryChecker, p *Payload) ([]string, error) {
	messages := make([]string, 0, 3)

	if err := validate.Struct(p); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return nil, err
		}
		for _, fe := range ve {
			messages = append(messages, message(fe))
		}
	}

	if p.CategoryID != nil {
		exists, err := categories.CategoryExists(ctx, p.CategoryID.Int64())
		if err != nil {
			return nil, err
		}
		if !exists {
			messages = append(messages, MsgCategoryExisting)
		}
	}

	return messages, nil
}

func message(fe validator.FieldError) string {
	switch fe.StructField() {
	case "Name":
		return MsgNamePresent
	case "Price":
		if fe.Tag() == "required" {
			return MsgPricePresent
		}
		return MsgPricePositive
	default:
		return MsgCategoryPresent
	}
}
