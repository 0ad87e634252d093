package router

import (
	"catalog/pkg/httperror"
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Request any
type Response any

type HandlerInterface[R Request, Res Response] interface {
	Handle(ctx context.Context, req *R) (*Res, error)
}

// TextResponse is rendered as text/plain instead of JSON.
type TextResponse interface {
	Text() string
}

func handle[R Request, Res Response](handler HandlerInterface[R, Res], status int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req R

		// Bodies are JSON whatever the Content-Type says.
		if body := c.Body(); len(body) > 0 && (c.Method() == fiber.MethodPost || c.Method() == fiber.MethodPut) {
			if err := c.App().Config().JSONDecoder(body, &req); err != nil {
				return writeError(c, httperror.BadRequest(
					"request.invalid_body",
					"Invalid body",
					nil,
				).WithCause(err))
			}
		}

		if err := c.ParamsParser(&req); err != nil {
			return writeError(c, httperror.BadRequest(
				"request.invalid_path_params",
				"Invalid path params",
				nil,
			).WithCause(err))
		}

		res, err := handler.Handle(c.UserContext(), &req)
		if err != nil {
			return writeError(c, err)
		}

		c.Status(status)
		if text, ok := any(res).(TextResponse); ok {
			c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
			return c.SendString(text.Text())
		}

		return c.JSON(res)
	}
}

func writeError(c *fiber.Ctx, err error) error {
	var httpErr *httperror.Error
	if errors.As(err, &httpErr) {
		if httpErr.Status >= fiber.StatusInternalServerError {
			zap.L().Error("Handler returned server error", zap.String("code", httpErr.Code), zap.Error(httpErr))
		} else {
			zap.L().Warn("Handler returned client error", zap.String("code", httpErr.Code), zap.Error(httpErr))
		}

		return render(c, httpErr)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		zap.L().Warn("Fiber error", zap.Int("status", fiberErr.Code), zap.Error(err))
		message := fiberErr.Message
		if fiberErr.Code == fiber.StatusNotFound {
			message = "Not found"
		}
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"error": message,
		})
	}

	zap.L().Error("Unhandled error", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}

func render(c *fiber.Ctx, httpErr *httperror.Error) error {
	c.Status(httpErr.Status)

	switch {
	case httpErr.Text:
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.SendString(httpErr.Message)
	case httpErr.Body != nil:
		return c.JSON(httpErr.Body)
	default:
		return c.JSON(fiber.Map{
			"error": httpErr.Message,
		})
	}
}
