// Package router is the request dispatcher: it authenticates every request,
// matches it against an ordered route table and renders handler results.
package router

import (
	"catalog/app/category"
	"catalog/app/item"
	"catalog/internal/middleware"
	"catalog/pkg/events"
	"catalog/pkg/httperror"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type Dependencies struct {
	Items      item.Repository
	Categories category.Repository
	Emitter    *events.Emitter
	Username   string
	Password   string
}

// Route is one entry of the dispatch table. Routes are tried in order and the
// first match wins.
type Route struct {
	Method  string
	Path    string
	Handler fiber.Handler
}

// Ids are unsigned digit runs. Fiber matches regex constraints unanchored.
const (
	itemPath     = `/items/:id<regex(^\d+$)>`
	categoryPath = `/categories/:id<regex(^\d+$)>`
)

func Routes(deps Dependencies) []Route {
	return []Route{
		{fiber.MethodGet, "/items", handle[item.GetItemsRequest, item.GetItemsResponse](item.NewGetItemsHandler(deps.Items), fiber.StatusOK)},
		{fiber.MethodGet, itemPath, handle[item.GetItemRequest, item.GetItemResponse](item.NewGetItemHandler(deps.Items), fiber.StatusOK)},
		{fiber.MethodPost, "/items", handle[item.CreateItemRequest, item.CreateItemResponse](item.NewCreateItemHandler(deps.Items, deps.Emitter), fiber.StatusCreated)},
		{fiber.MethodPut, itemPath, handle[item.UpdateItemRequest, item.UpdateItemResponse](item.NewUpdateItemHandler(deps.Items, deps.Emitter), fiber.StatusOK)},
		{fiber.MethodDelete, itemPath, handle[item.DeleteItemRequest, item.DeleteItemResponse](item.NewDeleteItemHandler(deps.Items, deps.Emitter), fiber.StatusOK)},

		{fiber.MethodGet, "/categories", handle[category.GetCategoriesRequest, category.GetCategoriesResponse](category.NewGetCategoriesHandler(deps.Categories), fiber.StatusOK)},
		{fiber.MethodGet, categoryPath, handle[category.GetCategoryRequest, category.GetCategoryResponse](category.NewGetCategoryHandler(deps.Categories), fiber.StatusOK)},
		{fiber.MethodPost, "/categories", handle[category.CreateCategoryRequest, category.CreateCategoryResponse](category.NewCreateCategoryHandler(deps.Categories, deps.Emitter), fiber.StatusCreated)},
		{fiber.MethodPut, categoryPath, handle[category.UpdateCategoryRequest, category.UpdateCategoryResponse](category.NewUpdateCategoryHandler(deps.Categories, deps.Emitter), fiber.StatusOK)},
		{fiber.MethodDelete, categoryPath, handle[category.DeleteCategoryRequest, category.DeleteCategoryResponse](category.NewDeleteCategoryHandler(deps.Categories, deps.Emitter), fiber.StatusOK)},
	}
}

func New(deps Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		IdleTimeout:   5 * time.Second,
		ReadTimeout:   10 * time.Second,
		WriteTimeout:  10 * time.Second,
		Concurrency:   256 * 1024,
		CaseSensitive: true,
		ErrorHandler:  writeError,
	})

	app.Use(middleware.NewRequestLoggerMiddleware())
	app.Use(middleware.NewMetricsMiddleware())
	app.Use(recover.New())
	app.Use(middleware.NewBasicAuthMiddleware(deps.Username, deps.Password))

	for _, r := range Routes(deps) {
		app.Add(r.Method, r.Path, r.Handler)
	}

	app.Use(notFound)

	return app
}

func notFound(c *fiber.Ctx) error {
	return writeError(c, httperror.NotFound(
		"route.not_found",
		"Not found",
		nil,
	))
}
