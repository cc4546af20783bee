// Package metrics defines the Prometheus collectors exported by the API.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the collectors. A nil *Metrics records nothing.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ProductOperations   *prometheus.CounterVec
	ProductInventory    *prometheus.GaugeVec
	StockRejections     *prometheus.CounterVec
}

// New registers the collectors on reg, with names prefixed by prefix.
func New(prefix string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		ProductOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_product_operations_total",
				Help: "Total number of successful product operations",
			},
			[]string{"operation"},
		),
		ProductInventory: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: prefix + "_product_inventory",
				Help: "Current stock level per product",
			},
			[]string{"product_id"},
		),
		StockRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_stock_rejections_total",
				Help: "Stock adjustments rejected by the stock policy",
			},
			[]string{"direction"},
		),
	}
}

// ObserveHTTPRequest records one served request.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.HTTPRequestsTotal.WithLabelValues(method, path, code).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, code).Observe(elapsed.Seconds())
}

// RecordProductOperation increments the counter for operation.
func (m *Metrics) RecordProductOperation(operation string) {
	if m == nil {
		return
	}
	m.ProductOperations.WithLabelValues(operation).Inc()
}

// UpdateProductInventory sets the stock gauge for a product.
func (m *Metrics) UpdateProductInventory(productID int64, stock int) {
	if m == nil {
		return
	}
	m.ProductInventory.WithLabelValues(strconv.FormatInt(productID, 10)).Set(float64(stock))
}

// RemoveProductInventory drops the stock gauge of a deleted product.
func (m *Metrics) RemoveProductInventory(productID int64) {
	if m == nil {
		return
	}
	m.ProductInventory.DeleteLabelValues(strconv.FormatInt(productID, 10))
}

// RecordStockRejection counts a policy rejection; direction is "add" or "decrement".
func (m *Metrics) RecordStockRejection(direction string) {
	if m == nil {
		return
	}
	m.StockRejections.WithLabelValues(direction).Inc()
}
