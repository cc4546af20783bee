package metrics_test

import (
	"net/http"
	"testing"
	"time"

	"productcatalog/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New("test", reg)

	m.ObserveHTTPRequest(http.MethodGet, "/api/products", http.StatusOK, 5*time.Millisecond)
	m.RecordProductOperation("create")
	m.RecordProductOperation("create")
	m.UpdateProductInventory(100000, 42)
	m.RecordStockRejection("add")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/products", "200")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ProductOperations.WithLabelValues("create")))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.ProductInventory.WithLabelValues("100000")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StockRejections.WithLabelValues("add")))

	m.RemoveProductInventory(100000)
	assert.Equal(t, 0, testutil.CollectAndCount(m.ProductInventory))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.RecordProductOperation("delete")
		m.UpdateProductInventory(1, 1)
		m.RemoveProductInventory(1)
		m.RecordStockRejection("decrement")
		m.ObserveHTTPRequest("GET", "/", 200, time.Second)
	})
}
