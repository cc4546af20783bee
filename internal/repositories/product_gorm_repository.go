package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"productcatalog/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products ordered by ID.
func (r *GORMProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	products := make([]models.Product, 0)
	if err := r.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// Create inserts product. The database assigns ID and CreatedAt.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update writes the mutable columns of product. CreatedAt is never written.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", product.ID).Updates(map[string]any{
		"name":            product.Name,
		"description":     product.Description,
		"price":           product.Price,
		"stock_available": product.StockAvailable,
		"updated_at":      product.UpdatedAt,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %d not found for update: %w", product.ID, ErrProductNotFound)
	}
	return nil
}

// Delete permanently removes a product by its ID.
func (r *GORMProductRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %d not found for deletion: %w", id, ErrProductNotFound)
	}
	return nil
}

// AdjustStock locks the product row with SELECT ... FOR UPDATE inside a
// transaction, applies adjust and writes the new stock and UpdatedAt.
// SQLite has no row locks; its single writer gives the same guarantee.
func (r *GORMProductRepository) AdjustStock(ctx context.Context, id int64, adjust StockAdjuster, at time.Time) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
			}
			return fmt.Errorf("failed to lock product %d: %w", id, err)
		}

		next, err := adjust(product.StockAvailable)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.Product{}).Where("id = ?", id).Updates(map[string]any{
			"stock_available": next,
			"updated_at":      at,
		}).Error; err != nil {
			return fmt.Errorf("failed to update stock for product %d: %w", id, err)
		}
		product.StockAvailable = next
		product.UpdatedAt = &at
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}
