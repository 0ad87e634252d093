package middleware

import (
	"catalog/pkg/metrics"
	"time"

	"github.com/gofiber/fiber/v2"
)

// NewMetricsMiddleware records every response by method, matched route and
// status. It must run inside the request logger so errors are already
// rendered.
func NewMetricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		metrics.ObserveHTTP(c.Method(), c.Route().Path, c.Response().StatusCode(), time.Since(start))
		return nil
	}
}
