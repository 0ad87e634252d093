package category

import (
	"catalog/domain"
	"catalog/pkg/events"
	"catalog/pkg/httperror"
	"context"
)

type CreateCategoryHandler struct {
	repository Repository
	emitter    *events.Emitter
}

// CreateCategoryRequest is stored as given; name presence and uniqueness are
// left to the storage constraints.
type CreateCategoryRequest struct {
	Name *string `json:"name"`
}

type CreateCategoryResponse struct {
	domain.Category
}

func NewCreateCategoryHandler(repository Repository, emitter *events.Emitter) *CreateCategoryHandler {
	return &CreateCategoryHandler{
		repository: repository,
		emitter:    emitter,
	}
}

func (h CreateCategoryHandler) Handle(ctx context.Context, req *CreateCategoryRequest) (*CreateCategoryResponse, error) {
	category, err := h.repository.CreateCategory(ctx, req.Name)
	if err != nil {
		return nil, httperror.InternalServerError(
			"category.create.create_failed",
			"Internal server error",
			nil,
		).WithCause(err)
	}

	h.emitter.Emit(ctx, events.CategoryCreatedEvent, eventPayload(category))

	return &CreateCategoryResponse{
		Category: category,
	}, nil
}

func eventPayload(category domain.Category) events.CategoryPayload {
	return events.CategoryPayload{
		ID:        category.ID,
		Name:      category.Name,
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	}
}
