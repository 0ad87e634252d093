package item

import (
	"catalog/domain"
	"catalog/pkg/events"
	"catalog/pkg/httperror"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type UpdateItemHandler struct {
	repository Repository
	emitter    *events.Emitter
}

type UpdateItemRequest struct {
	ID int64 `params:"id" json:"-"`
	Payload
}

type UpdateItemResponse struct {
	domain.Item
}

func NewUpdateItemHandler(repository Repository, emitter *events.Emitter) *UpdateItemHandler {
	return &UpdateItemHandler{
		repository: repository,
		emitter:    emitter,
	}
}

func (h UpdateItemHandler) Handle(ctx context.Context, req *UpdateItemRequest) (*UpdateItemResponse, error) {
	item, err := h.repository.GetItem(ctx, req.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperror.NotFound(
				"item.update.not_found",
				"Not found",
				nil,
			)
		}

		return nil, httperror.InternalServerError(
			"item.update.failed",
			"Failed to get item",
			nil,
		).WithCause(err)
	}

	messages, err := Validate(ctx, h.repository, &req.Payload)
	if err != nil {
		return nil, httperror.InternalServerError(
			"item.update.validation_error",
			"An unexpected validation error occurred",
			nil,
		).WithCause(err)
	}
	if len(messages) > 0 {
		return nil, httperror.UnprocessableEntity(
			"item.update.validation_failed",
			"Validation failed for the request",
			messages,
		)
	}

	updated, err := h.repository.UpdateItem(ctx, req.Payload.apply(item))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, httperror.UnprocessableEntity(
				"item.update.not_updated",
				fmt.Sprintf("Item with id %d not updated", req.ID),
				nil,
			).AsText()
		case errors.Is(err, domain.ErrUnknownCategory):
			return nil, invalidCategory("item.update.invalid_category")
		}

		return nil, httperror.InternalServerError(
			"item.update.update_failed",
			"An error occurred while updating the item",
			nil,
		).WithCause(err)
	}

	h.emitter.Emit(ctx, events.ItemUpdatedEvent, eventPayload(updated))

	return &UpdateItemResponse{
		Item: updated,
	}, nil
}
