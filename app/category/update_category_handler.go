package category

import (
	"catalog/domain"
	"catalog/pkg/events"
	"catalog/pkg/httperror"
	"context"
	"database/sql"
	"errors"
)

type UpdateCategoryHandler struct {
	repository Repository
	emitter    *events.Emitter
}

type UpdateCategoryRequest struct {
	ID   int64   `params:"id" json:"-"`
	Name *string `json:"name,omitempty"`
}

type UpdateCategoryResponse struct {
	domain.Category
}

func NewUpdateCategoryHandler(repository Repository, emitter *events.Emitter) *UpdateCategoryHandler {
	return &UpdateCategoryHandler{
		repository: repository,
		emitter:    emitter,
	}
}

func (h UpdateCategoryHandler) Handle(ctx context.Context, req *UpdateCategoryRequest) (*UpdateCategoryResponse, error) {
	category, err := h.repository.GetCategory(ctx, req.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperror.NotFound(
				"category.update.not_found",
				"Not found",
				nil,
			)
		}

		return nil, httperror.InternalServerError(
			"category.update.failed",
			"Failed to get category",
			nil,
		).WithCause(err)
	}

	if req.Name != nil {
		category.Name = *req.Name
	}

	updated, err := h.repository.UpdateCategory(ctx, category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperror.NotFound(
				"category.update.not_found",
				"Not found",
				nil,
			)
		}

		return nil, httperror.InternalServerError(
			"category.update.update_failed",
			"Internal server error",
			nil,
		).WithCause(err)
	}

	h.emitter.Emit(ctx, events.CategoryUpdatedEvent, eventPayload(updated))

	return &UpdateCategoryResponse{
		Category: updated,
	}, nil
}
