package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"productcatalog/internal/app"
	"productcatalog/internal/config"
	"productcatalog/internal/database"
	"productcatalog/internal/metrics"
	"productcatalog/internal/repositories"
	"productcatalog/internal/services"
	"productcatalog/pkg/logger"
	"productcatalog/pkg/rabbitmq"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const serviceName = "product-catalog"

// @title Product API
// @version 1.0
// @description Product Details
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Server.Env, cfg.Log.Level, serviceName)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	log.Info("Starting product catalog API", cfg.LogFields()...)

	// --- Metrics ---
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(cfg.Metrics.Prefix, reg)

	// --- Storage ---
	st, err := openStore(cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Warn("Error closing database", zap.Error(err))
		}
	}()

	// --- Services ---
	opts := []services.Option{services.WithMetrics(m), services.WithLogger(log)}
	if cfg.RabbitMQ.URL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:      cfg.RabbitMQ.URL,
			Exchange: cfg.RabbitMQ.Exchange,
		}, log)
		if err != nil {
			return fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		defer mqClient.Close()
		opts = append(opts, services.WithPublisher(mqClient))

		if cfg.RabbitMQ.AuditEnabled {
			audit := services.NewAuditHandler(log.Named("audit"))
			if err := mqClient.ConsumeProductEvents(rabbitmq.HandleBody(audit)); err != nil {
				return fmt.Errorf("failed to start product event consumer: %w", err)
			}
		}
	} else {
		log.Info("RABBITMQ_URL not set, product events are disabled")
	}
	productService := services.NewProductService(st.repo, cfg.Product.MaxStock, opts...)

	// --- HTTP ---
	server := app.New(app.Deps{
		Service:  productService,
		Messages: cfg.Messages,
		Logger:   log,
		DB:       st.db,
		Metrics:  m,
		Gatherer: reg,
		Env:      cfg.Server.Env,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("port", cfg.Server.Port))
		errCh <- server.Listen(cfg.Server.Port)
	}()

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed to start: %w", err)
	case sig := <-quit:
		log.Info("Shutting down server", zap.String("signal", sig.String()))
	}

	if err := server.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		log.Error("Error during Fiber shutdown", zap.Error(err))
	}
	log.Info("Server gracefully stopped")
	return nil
}

// store is the product repository together with the connection backing
// it, if any.
type store struct {
	repo repositories.ProductRepository
	db   *gorm.DB
}

// openStore selects the repository implementation for the configured driver.
func openStore(cfg config.DatabaseConfig, log *zap.Logger) (store, error) {
	if cfg.Driver == config.DriverMemory {
		log.Warn("Using the in-memory product store; data is lost on restart")
		return store{repo: repositories.NewMemoryProductRepository(cfg.IDOffset)}, nil
	}

	db, err := database.Open(cfg, log)
	if err != nil {
		return store{}, err
	}
	return store{repo: repositories.NewGORMProductRepository(db), db: db}, nil
}

func (s store) Close() error {
	if s.db == nil {
		return nil
	}
	return database.Close(s.db)
}
