package repositories

import (
	"context"
	"errors"
	"time"

	"productcatalog/internal/models"
)

// ErrProductNotFound is returned when no product row matches the given ID.
var ErrProductNotFound = errors.New("product not found")

// StockAdjuster computes the new stock level from the current one. A
// non-nil error aborts the adjustment and leaves the row untouched.
type StockAdjuster func(current int) (int, error)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id int64) error
	// AdjustStock applies adjust to the product's stock while holding the
	// row, so concurrent adjustments of the same product do not lose updates.
	AdjustStock(ctx context.Context, id int64, adjust StockAdjuster, at time.Time) (*models.Product, error)
}
