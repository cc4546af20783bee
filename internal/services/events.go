package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"productcatalog/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Routing keys of the product events.
const (
	EventProductCreated      = "product.created"
	EventProductUpdated      = "product.updated"
	EventProductDeleted      = "product.deleted"
	EventProductStockChanged = "product.stock_changed"
)

// EventPublisher delivers an encoded event under a routing key.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// ProductEvent is the message body of every product event.
type ProductEvent struct {
	EventID    string                 `json:"eventId"`
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurredAt"`
	Product    models.ProductResponse `json:"product"`
}

func newProductEvent(eventType string, product models.Product, at time.Time) ProductEvent {
	return ProductEvent{
		EventID:    uuid.New().String(),
		Type:       eventType,
		OccurredAt: at,
		Product:    product.ToResponse(),
	}
}

// NewAuditHandler returns a consumer callback that decodes product events
// and writes them to the log. Undecodable messages are reported as errors.
func NewAuditHandler(log *zap.Logger) func(routingKey string, body []byte) error {
	return func(routingKey string, body []byte) error {
		if !strings.HasPrefix(routingKey, "product.") {
			return fmt.Errorf("unexpected routing key %q", routingKey)
		}
		var event ProductEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return fmt.Errorf("failed to decode product event: %w", err)
		}
		fields := []zap.Field{
			zap.String("event_id", event.EventID),
			zap.String("type", event.Type),
			zap.Time("occurred_at", event.OccurredAt),
		}
		if event.Product.ProductID != nil {
			fields = append(fields, zap.Int64("product_id", *event.Product.ProductID))
		}
		if event.Product.StockAvailable != nil {
			fields = append(fields, zap.Int("stock_available", *event.Product.StockAvailable))
		}
		log.Info("Product event", fields...)
		return nil
	}
}
