package database_test

import (
	"context"
	"fmt"
	"testing"

	"productcatalog/internal/config"
	"productcatalog/internal/database"
	"productcatalog/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openSQLite(t *testing.T, idOffset int64) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String()),
		MaxIdleConns: 1,
		MaxOpenConns: 1,
		LogLevel:     gormlogger.Silent,
		IDOffset:     idOffset,
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func insert(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	p := models.Product{Name: "Widget", Description: "A widget", Price: decimal.NewFromInt(1)}
	require.NoError(t, db.Create(&p).Error)
	return p.ID
}

func TestOpen_AppliesIDOffset(t *testing.T) {
	db := openSQLite(t, 100000)

	assert.Equal(t, int64(100000), insert(t, db))
	assert.Equal(t, int64(100001), insert(t, db))
}

func TestMigrate_NeverMovesSequenceBack(t *testing.T) {
	db := openSQLite(t, 500)
	for i := 0; i < 3; i++ {
		insert(t, db)
	}

	// Re-running with a lower offset keeps the current position.
	require.NoError(t, database.Migrate(db, 10))
	assert.Equal(t, int64(503), insert(t, db))
}

func TestOpen_NoOffset(t *testing.T) {
	db := openSQLite(t, 1)
	assert.Equal(t, int64(1), insert(t, db))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := database.Open(config.DatabaseConfig{Driver: "oracle"}, zap.NewNop())
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	db := openSQLite(t, 1)
	assert.NoError(t, database.Ping(context.Background(), db))
}
