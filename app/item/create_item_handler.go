package item

import (
	"catalog/domain"
	"catalog/pkg/events"
	"catalog/pkg/httperror"
	"context"
	"errors"
)

type CreateItemHandler struct {
	repository Repository
	emitter    *events.Emitter
}

type CreateItemRequest struct {
	Payload
}

type CreateItemResponse struct {
	domain.Item
}

func NewCreateItemHandler(repository Repository, emitter *events.Emitter) *CreateItemHandler {
	return &CreateItemHandler{
		repository: repository,
		emitter:    emitter,
	}
}

func (h CreateItemHandler) Handle(ctx context.Context, req *CreateItemRequest) (*CreateItemResponse, error) {
	messages, err := Validate(ctx, h.repository, &req.Payload)
	if err != nil {
		return nil, httperror.InternalServerError(
			"item.create.validation_error",
			"An unexpected validation error occurred",
			nil,
		).WithCause(err)
	}
	if len(messages) > 0 {
		return nil, httperror.UnprocessableEntity(
			"item.create.validation_failed",
			"Validation failed for the request",
			messages,
		)
	}

	exists, err := h.repository.CategoryExists(ctx, req.CategoryID.Int64())
	if err != nil {
		return nil, httperror.InternalServerError(
			"item.create.category_lookup_failed",
			"Failed to look up category",
			nil,
		).WithCause(err)
	}
	if !exists {
		return nil, invalidCategory("item.create.invalid_category")
	}

	item, err := h.repository.CreateItem(ctx, req.Payload.item())
	if err != nil {
		if errors.Is(err, domain.ErrUnknownCategory) {
			return nil, invalidCategory("item.create.invalid_category")
		}

		return nil, httperror.InternalServerError(
			"item.create.create_failed",
			"An error occurred while creating the item",
			nil,
		).WithCause(err)
	}

	h.emitter.Emit(ctx, events.ItemCreatedEvent, eventPayload(item))

	return &CreateItemResponse{
		Item: item,
	}, nil
}

func invalidCategory(code string) *httperror.Error {
	return httperror.UnprocessableEntity(code, "Invalid category_id", nil).AsText()
}

func eventPayload(item domain.Item) events.ItemPayload {
	return events.ItemPayload{
		ID:         item.ID,
		Name:       item.Name,
		Price:      item.Price,
		CategoryID: item.CategoryID,
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}
}
