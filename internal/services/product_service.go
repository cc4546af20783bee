package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"productcatalog/internal/apperrors"
	"productcatalog/internal/metrics"
	"productcatalog/internal/models"
	"productcatalog/internal/repositories"
	"productcatalog/internal/stock"
	"productcatalog/internal/validation"
	"productcatalog/pkg/logger"

	"go.uber.org/zap"
)

const (
	msgCreated   = "Product created successfully."
	msgUpdated   = "Product updated successfully."
	msgDeleted   = "Product deleted successfully."
	msgUnchanged = "No new values were provided. Product information remains unchanged"
)

// ProductService handles business logic related to products.
//
// Lookups report absence through a found flag rather than an error, so
// callers must handle "not found" explicitly.
type ProductService struct {
	repo      repositories.ProductRepository
	validator *validation.ProductValidator
	maxStock  int
	publisher EventPublisher
	metrics   *metrics.Metrics
	log       *zap.Logger
	now       func() time.Time
}

// Option configures optional collaborators of a ProductService.
type Option func(*ProductService)

// WithPublisher publishes product events after each successful mutation.
func WithPublisher(p EventPublisher) Option {
	return func(s *ProductService) { s.publisher = p }
}

// WithMetrics records operation counters and inventory gauges.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *ProductService) { s.metrics = m }
}

// WithLogger sets the fallback logger used when the context carries none.
func WithLogger(log *zap.Logger) Option {
	return func(s *ProductService) { s.log = log }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *ProductService) { s.now = now }
}

// NewProductService creates a new ProductService enforcing maxStock as the
// per-product stock ceiling.
func NewProductService(repo repositories.ProductRepository, maxStock int, opts ...Option) *ProductService {
	s := &ProductService{
		repo:      repo,
		validator: validation.NewProductValidator(),
		maxStock:  maxStock,
		log:       zap.NewNop(),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAllProducts retrieves all products. An empty slice is a valid result.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.ProductResponse, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list products")
	}
	responses := make([]models.ProductResponse, len(products))
	for i, p := range products {
		responses[i] = p.ToResponse()
	}
	return responses, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id int64) (models.ProductResponse, bool, error) {
	if id <= 0 {
		return models.ProductResponse{}, false, apperrors.New(apperrors.InvalidArgument, "Invalid Product ID")
	}
	product, found, err := s.load(ctx, id)
	if err != nil || !found {
		return models.ProductResponse{}, found, err
	}
	return product.ToResponse(), true, nil
}

// CreateProduct validates req and stores a new product with no stock.
func (s *ProductService) CreateProduct(ctx context.Context, req models.ProductRequest) (models.ProductResponse, error) {
	if err := validation.RequireAll(req); err != nil {
		return models.ProductResponse{}, err
	}
	req = normalizePrice(req)
	if err := s.validator.ValidateForCreate(req); err != nil {
		return models.ProductResponse{}, err
	}

	product := &models.Product{
		Name:           *req.Name,
		Description:    *req.Description,
		Price:          *req.Price,
		StockAvailable: 0,
		CreatedAt:      s.now(),
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return models.ProductResponse{}, apperrors.Wrap(err, "failed to create product")
	}

	logger.FromContext(ctx, s.log).Info("Product created",
		zap.Int64("product_id", product.ID),
		zap.String("name", product.Name))
	s.metrics.RecordProductOperation("create")
	s.metrics.UpdateProductInventory(product.ID, product.StockAvailable)
	s.publish(ctx, EventProductCreated, *product)

	return product.ToResponse().WithOutcome(true, msgCreated), nil
}

// UpdateProduct applies the fields of req that differ from the stored
// product. When nothing differs the product is left untouched and the
// response reports success=false.
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, req models.ProductRequest) (models.ProductResponse, bool, error) {
	if id <= 0 {
		return models.ProductResponse{}, false, apperrors.New(apperrors.InvalidArgument, "Invalid Product ID")
	}
	existing, found, err := s.load(ctx, id)
	if err != nil || !found {
		return models.ProductResponse{}, found, err
	}

	req = normalizePrice(req)
	if err := s.validator.ValidateForUpdate(req); err != nil {
		return models.ProductResponse{}, true, err
	}

	changes := diffProduct(*existing, req)
	if changes.empty() {
		return models.OutcomeResponse(false, msgUnchanged), true, nil
	}

	changes.apply(existing, req)
	updatedAt := s.now()
	existing.UpdatedAt = &updatedAt
	if err := s.repo.Update(ctx, existing); err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return models.ProductResponse{}, false, nil
		}
		return models.ProductResponse{}, true, apperrors.Wrap(err, "failed to update product")
	}

	logger.FromContext(ctx, s.log).Info("Product updated",
		zap.Int64("product_id", id),
		zap.Strings("changed", changes.strings()))
	s.metrics.RecordProductOperation("update")
	s.publish(ctx, EventProductUpdated, *existing)

	return existing.ToResponse().WithOutcome(true, msgUpdated), true, nil
}

// DeleteProduct permanently removes a product and returns its last state.
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) (models.ProductResponse, bool, error) {
	if id <= 0 {
		return models.ProductResponse{}, false, apperrors.New(apperrors.InvalidArgument, "Invalid product ID.")
	}
	existing, found, err := s.load(ctx, id)
	if err != nil || !found {
		return models.ProductResponse{}, found, err
	}

	snapshot := existing.ToResponse().WithOutcome(true, msgDeleted)
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return models.ProductResponse{}, false, nil
		}
		return models.ProductResponse{}, true, apperrors.Wrap(err, "failed to delete product")
	}

	logger.FromContext(ctx, s.log).Info("Product deleted", zap.Int64("product_id", id))
	s.metrics.RecordProductOperation("delete")
	s.metrics.RemoveProductInventory(id)
	s.publish(ctx, EventProductDeleted, *existing)

	return snapshot, true, nil
}

// AddToStock raises the stock of a product by quantity, bounded by the
// configured ceiling. quantity must be positive.
func (s *ProductService) AddToStock(ctx context.Context, id int64, quantity int) (models.ProductResponse, bool, error) {
	if id <= 0 {
		return models.ProductResponse{}, false, apperrors.New(apperrors.InvalidArgument, "Invalid Id")
	}
	if quantity <= 0 {
		return models.ProductResponse{}, false, apperrors.New(apperrors.InvalidArgument, "Quantity must be greater than zero to add")
	}
	return s.adjustStock(ctx, id, "add", func(current int) (int, error) {
		return stock.ApplyIncrement(current, quantity, s.maxStock)
	})
}

// DecrementStock lowers the stock of a product by quantity. A zero quantity
// is accepted and leaves the stock as is.
func (s *ProductService) DecrementStock(ctx context.Context, id int64, quantity int) (models.ProductResponse, bool, error) {
	if id <= 0 {
		return models.ProductResponse{}, false, apperrors.New(apperrors.InvalidArgument, "Invalid Id")
	}
	if quantity < 0 {
		return models.ProductResponse{}, false, apperrors.New(apperrors.InvalidArgument, "Quantity must be greater than zero to decrement")
	}
	return s.adjustStock(ctx, id, "decrement", func(current int) (int, error) {
		return stock.ApplyDecrement(current, quantity)
	})
}

func (s *ProductService) adjustStock(ctx context.Context, id int64, direction string, adjust repositories.StockAdjuster) (models.ProductResponse, bool, error) {
	product, err := s.repo.AdjustStock(ctx, id, adjust, s.now())
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrProductNotFound):
			return models.ProductResponse{}, false, nil
		case apperrors.IsClient(err):
			s.metrics.RecordStockRejection(direction)
			return models.ProductResponse{}, true, err
		default:
			return models.ProductResponse{}, true, apperrors.Wrap(err, "failed to adjust stock")
		}
	}

	logger.FromContext(ctx, s.log).Info("Stock adjusted",
		zap.Int64("product_id", id),
		zap.String("direction", direction),
		zap.Int("stock_available", product.StockAvailable))
	s.metrics.RecordProductOperation(direction + "_stock")
	s.metrics.UpdateProductInventory(id, product.StockAvailable)
	s.publish(ctx, EventProductStockChanged, *product)

	return product.ToResponse(), true, nil
}

// load fetches a product, translating ErrProductNotFound into found=false.
func (s *ProductService) load(ctx context.Context, id int64) (*models.Product, bool, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return nil, false, nil
		}
		return nil, false, apperrors.Wrap(err, "failed to load product")
	}
	return product, true, nil
}

// publish sends a product event. Failures are logged and never surface to
// the caller.
func (s *ProductService) publish(ctx context.Context, eventType string, product models.Product) {
	if s.publisher == nil {
		return
	}
	log := logger.FromContext(ctx, s.log)
	body, err := json.Marshal(newProductEvent(eventType, product, s.now()))
	if err != nil {
		log.Warn("Failed to encode product event", zap.String("type", eventType), zap.Error(err))
		return
	}
	if err := s.publisher.Publish(eventType, body); err != nil {
		log.Warn("Failed to publish product event",
			zap.String("type", eventType),
			zap.Int64("product_id", product.ID),
			zap.Error(err))
	}
}

// normalizePrice rounds the requested price to two fractional digits, the
// precision of the price column.
func normalizePrice(req models.ProductRequest) models.ProductRequest {
	if req.Price != nil {
		rounded := req.Price.Round(2)
		req.Price = &rounded
	}
	return req
}
