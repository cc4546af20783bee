// Package app assembles the Fiber application: middleware, operational
// endpoints and the product API.
package app

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"productcatalog/docs"
	"productcatalog/internal/config"
	"productcatalog/internal/database"
	"productcatalog/internal/handlers"
	"productcatalog/internal/metrics"
	"productcatalog/internal/middleware"
	"productcatalog/internal/models"
	"productcatalog/internal/services"
	"productcatalog/pkg/logger"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	healthCheckTimeout = 2 * time.Second
	envProduction      = "production"
)

// Deps are the collaborators the application is built from. DB, Metrics,
// Gatherer and AccessLog are optional.
type Deps struct {
	Service  *services.ProductService
	Messages config.MessagesConfig
	Logger   *zap.Logger

	// DB is pinged by /health when set.
	DB *gorm.DB

	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer

	// AccessLog receives the access log lines; defaults to stdout.
	AccessLog io.Writer

	// Env turns the Swagger UI off when it is "production".
	Env string
}

// New builds the Fiber app with every route registered.
func New(d Deps) *fiber.App {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.AccessLog == nil {
		d.AccessLog = os.Stdout
	}

	app := fiber.New(fiber.Config{
		AppName:      "Product Catalog API",
		ErrorHandler: errorHandler(d.Logger, d.Messages.Generic),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestID(d.Logger))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${locals:request_id} ${status} - ${method} ${path} - ${latency}\n",
		TimeFormat: "2006-01-02 15:04:05",
		Output:     d.AccessLog,
	}))
	app.Use(middleware.Metrics(d.Metrics))

	app.Get("/health", healthHandler(d.DB))
	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	if d.Env != envProduction {
		app.Use(swagger.New(swagger.Config{
			BasePath:    "/",
			FilePath:    "swagger/v1/swagger.json",
			FileContent: []byte(docs.SwaggerInfo.ReadDoc()),
			Path:        "swagger",
			Title:       docs.SwaggerInfo.Title,
		}))
	}

	api := app.Group("/api")
	handlers.NewProductHandler(d.Service, d.Messages, d.Logger).RegisterRoutes(api)

	return app
}

// errorHandler answers errors that escaped the handlers, including
// recovered panics and unmatched routes, with the product response shape.
func errorHandler(base *zap.Logger, generic string) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := generic

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
			msg = fiberErr.Message
		} else {
			logger.FromFiber(c, base).Error("Unhandled error",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err))
		}

		return c.Status(code).JSON(models.OutcomeResponse(false, msg))
	}
}

func healthHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		}
		if db != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), healthCheckTimeout)
			defer cancel()
			if err := database.Ping(ctx, db); err != nil {
				status["status"] = "unhealthy"
				status["database"] = err.Error()
				return c.Status(fiber.StatusServiceUnavailable).JSON(status)
			}
			status["database"] = "connected"
		}
		return c.JSON(status)
	}
}
