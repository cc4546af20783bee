package middleware

import (
	"errors"
	"time"

	"productcatalog/internal/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics records the count and duration of every request, labelled by
// method, route pattern and status.
func Metrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			// The app error handler has not written the response yet.
			status = fiber.StatusInternalServerError
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				status = fiberErr.Code
			}
		}
		m.ObserveHTTPRequest(c.Method(), c.Route().Path, status, time.Since(start))

		return err
	}
}
