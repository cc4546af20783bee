package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices go over the wire as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product represents a catalog entry. Rows are hard-deleted, so there is no
// gorm.DeletedAt here, and UpdatedAt is maintained by the service, not GORM.
type Product struct {
	ID             int64           `json:"productId" gorm:"primaryKey;autoIncrement"`
	Name           string          `json:"name" gorm:"type:varchar(100);not null"`
	Description    string          `json:"description" gorm:"type:varchar(500);not null"`
	Price          decimal.Decimal `json:"price" gorm:"type:decimal(18,2);not null" swaggertype:"number"`
	StockAvailable int             `json:"stockAvailable" gorm:"not null;default:0"`
	CreatedAt      time.Time       `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt      *time.Time      `json:"updatedAt,omitempty" gorm:"autoUpdateTime:false"`
}

// TableName pins the table name regardless of naming strategy.
func (Product) TableName() string {
	return "products"
}

// ProductRequest is the body accepted by create and update. Every field is
// optional at the transport level; create requires all three.
type ProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty" swaggertype:"number"`
}

// ProductResponse is returned by every product endpoint. Nil fields are
// omitted so error-only responses carry just success and message.
type ProductResponse struct {
	ProductID      *int64           `json:"productId,omitempty"`
	Name           *string          `json:"name,omitempty"`
	Description    *string          `json:"description,omitempty"`
	Price          *decimal.Decimal `json:"price,omitempty" swaggertype:"number"`
	StockAvailable *int             `json:"stockAvailable,omitempty"`
	CreatedAt      *time.Time       `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time       `json:"updatedAt,omitempty"`
	Success        *bool            `json:"success,omitempty"`
	Message        *string          `json:"message,omitempty"`
}

// ToResponse snapshots p into a response with success and message unset.
func (p Product) ToResponse() ProductResponse {
	id := p.ID
	name := p.Name
	description := p.Description
	price := p.Price
	stock := p.StockAvailable
	createdAt := p.CreatedAt
	resp := ProductResponse{
		ProductID:      &id,
		Name:           &name,
		Description:    &description,
		Price:          &price,
		StockAvailable: &stock,
		CreatedAt:      &createdAt,
	}
	if p.UpdatedAt != nil {
		updatedAt := *p.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}

// WithOutcome sets the success flag and message on r.
func (r ProductResponse) WithOutcome(success bool, message string) ProductResponse {
	r.Success = &success
	r.Message = &message
	return r
}

// OutcomeResponse builds a response carrying only the outcome fields.
func OutcomeResponse(success bool, message string) ProductResponse {
	return ProductResponse{}.WithOutcome(success, message)
}
