package item

import (
	"catalog/domain"
	"catalog/pkg/httperror"
	"context"
)

type GetItemsHandler struct {
	repository Repository
}

func NewGetItemsHandler(repository Repository) *GetItemsHandler {
	return &GetItemsHandler{
		repository: repository,
	}
}

type GetItemsRequest struct{}

type GetItemsResponse []domain.Item

func (h GetItemsHandler) Handle(ctx context.Context, _ *GetItemsRequest) (*GetItemsResponse, error) {
	items, err := h.repository.GetItems(ctx)
	if err != nil {
		return nil, httperror.InternalServerError(
			"item.index.failed",
			"Failed to retrieve items",
			nil,
		).WithCause(err)
	}

	res := GetItemsResponse(items)
	return &res, nil
}
