package category

import (
	"catalog/domain"
	"catalog/pkg/events"
	"catalog/pkg/httperror"
	"context"
	"errors"
	"fmt"
	"time"
)

type DeleteCategoryHandler struct {
	repository Repository
	emitter    *events.Emitter
}

func NewDeleteCategoryHandler(repository Repository, emitter *events.Emitter) *DeleteCategoryHandler {
	return &DeleteCategoryHandler{
		repository: repository,
		emitter:    emitter,
	}
}

type DeleteCategoryRequest struct {
	ID int64 `params:"id"`
}

type DeleteCategoryResponse struct {
	ID int64
}

func (r DeleteCategoryResponse) Text() string {
	return fmt.Sprintf("Category with id %d deleted", r.ID)
}

// Handle refuses to delete a category that items still reference.
func (h DeleteCategoryHandler) Handle(ctx context.Context, req *DeleteCategoryRequest) (*DeleteCategoryResponse, error) {
	count, err := h.repository.CountCategoryItems(ctx, req.ID)
	if err != nil {
		return nil, httperror.InternalServerError(
			"category.destroy.count_failed",
			"Failed to count category items",
			nil,
		).WithCause(err)
	}
	if count > 0 {
		return nil, inUse(req.ID)
	}

	deleted, err := h.repository.DeleteCategory(ctx, req.ID)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryInUse) {
			return nil, inUse(req.ID)
		}

		return nil, httperror.InternalServerError(
			"category.destroy.failed",
			"Failed to delete category",
			nil,
		).WithCause(err)
	}
	if !deleted {
		return nil, httperror.NotFound(
			"category.destroy.not_found",
			"Not found",
			nil,
		)
	}

	h.emitter.Emit(ctx, events.CategoryDeletedEvent, events.CategoryDeletedPayload{
		ID:        req.ID,
		DeletedAt: time.Now().UTC(),
	})

	return &DeleteCategoryResponse{ID: req.ID}, nil
}

func inUse(id int64) *httperror.Error {
	return httperror.Conflict(
		"category.destroy.in_use",
		fmt.Sprintf("Category with id %d has items", id),
		nil,
	).AsText()
}
