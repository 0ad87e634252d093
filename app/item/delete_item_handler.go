package item

import (
	"catalog/pkg/events"
	"catalog/pkg/httperror"
	"context"
	"fmt"
	"time"
)

type DeleteItemHandler struct {
	repository Repository
	emitter    *events.Emitter
}

func NewDeleteItemHandler(repository Repository, emitter *events.Emitter) *DeleteItemHandler {
	return &DeleteItemHandler{
		repository: repository,
		emitter:    emitter,
	}
}

type DeleteItemRequest struct {
	ID int64 `params:"id"`
}

type DeleteItemResponse struct {
	ID int64
}

func (r DeleteItemResponse) Text() string {
	return fmt.Sprintf("Item with id %d deleted", r.ID)
}

func (h DeleteItemHandler) Handle(ctx context.Context, req *DeleteItemRequest) (*DeleteItemResponse, error) {
	deleted, err := h.repository.DeleteItem(ctx, req.ID)
	if err != nil {
		return nil, httperror.InternalServerError(
			"item.destroy.failed",
			"Failed to delete item",
			nil,
		).WithCause(err)
	}
	if !deleted {
		return nil, httperror.NotFound(
			"item.destroy.not_found",
			"Not found",
			nil,
		)
	}

	h.emitter.Emit(ctx, events.ItemDeletedEvent, events.ItemDeletedPayload{
		ID:        req.ID,
		DeletedAt: time.Now().UTC(),
	})

	return &DeleteItemResponse{ID: req.ID}, nil
}
