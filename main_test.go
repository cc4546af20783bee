package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"productcatalog/internal/app"
	"productcatalog/internal/config"
	"productcatalog/internal/metrics"
	"productcatalog/internal/models"
	"productcatalog/internal/repositories"
	"productcatalog/internal/services"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T, driver, dsn string) *config.Config {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	v.Set("DATABASE_DRIVER", driver)
	v.Set("DATABASE_DSN", dsn)
	v.Set("DATABASE_MAX_OPEN_CONNS", 1)
	v.Set("DATABASE_MAX_IDLE_CONNS", 1)
	v.Set("DATABASE_LOG_LEVEL", "silent")
	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	return cfg
}

func TestOpenStore_Memory(t *testing.T) {
	cfg := testConfig(t, config.DriverMemory, "")

	st, err := openStore(cfg.Database, zap.NewNop())
	require.NoError(t, err)
	defer st.Close()

	assert.Nil(t, st.db)
	assert.IsType(t, &repositories.MemoryProductRepository{}, st.repo)
}

func TestOpenStore_SQLite(t *testing.T) {
	cfg := testConfig(t, config.DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String()))

	st, err := openStore(cfg.Database, zap.NewNop())
	require.NoError(t, err)
	defer st.Close()

	assert.NotNil(t, st.db)
	assert.IsType(t, &repositories.GORMProductRepository{}, st.repo)

	p := &models.Product{Name: "Widget", Description: "A widget"}
	require.NoError(t, st.repo.Create(context.Background(), p))
	assert.Equal(t, int64(100000), p.ID)
}

func TestServerStartupAndHealthCheck(t *testing.T) {
	cfg := testConfig(t, config.DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String()))
	st, err := openStore(cfg.Database, zap.NewNop())
	require.NoError(t, err)
	defer st.Close()

	reg := prometheus.NewRegistry()
	m := metrics.New(cfg.Metrics.Prefix, reg)
	server := app.New(app.Deps{
		Service:   services.NewProductService(st.repo, cfg.Product.MaxStock, services.WithMetrics(m)),
		Messages:  cfg.Messages,
		DB:        st.db,
		Metrics:   m,
		Gatherer:  reg,
		AccessLog: io.Discard,
	})

	t.Run("HealthCheck", func(t *testing.T) {
		resp, err := server.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, "connected", body["database"])
	})

	t.Run("ProductsReachable", func(t *testing.T) {
		resp, err := server.Test(httptest.NewRequest(http.MethodGet, "/api/products", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	})

	t.Run("Metrics", func(t *testing.T) {
		resp, err := server.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.True(t, strings.Contains(string(raw), "product_api_http_requests_total"))
	})
}
