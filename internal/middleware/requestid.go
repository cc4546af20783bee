package middleware

import (
	"productcatalog/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// RequestIDHeader carries the request ID in both directions.
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey is the locals key holding the request ID.
	RequestIDKey = "request_id"
)

// RequestID reuses an incoming X-Request-ID or generates one, echoes it on
// the response and attaches a logger tagged with it to the request.
func RequestID(base *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := utils.CopyString(c.Get(RequestIDHeader))
		if requestID == "" {
			requestID = uuid.New().String()
			c.Request().Header.Set(RequestIDHeader, requestID)
		}
		c.Set(RequestIDHeader, requestID)
		c.Locals(RequestIDKey, requestID)

		log := base.With(zap.String("request_id", requestID))
		c.Locals(logger.LocalsKey, log)
		c.SetUserContext(logger.WithContext(c.UserContext(), log))

		return c.Next()
	}
}
