package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"productcatalog/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduct_ToResponse(t *testing.T) {
	created := time.Date(2025, 7, 4, 17, 25, 33, 0, time.UTC)
	p := models.Product{
		ID:             100000,
		Name:           "Widget",
		Description:    "A widget",
		Price:          decimal.RequireFromString("9.99"),
		StockAvailable: 3,
		CreatedAt:      created,
	}

	resp := p.ToResponse()

	require.NotNil(t, resp.ProductID)
	assert.Equal(t, int64(100000), *resp.ProductID)
	assert.Equal(t, "Widget", *resp.Name)
	assert.True(t, resp.Price.Equal(decimal.RequireFromString("9.99")))
	assert.Equal(t, 3, *resp.StockAvailable)
	assert.Equal(t, created, *resp.CreatedAt)
	assert.Nil(t, resp.UpdatedAt)
	assert.Nil(t, resp.Success)
	assert.Nil(t, resp.Message)

	// The snapshot must not alias the entity.
	p.Name = "Changed"
	assert.Equal(t, "Widget", *resp.Name)
}

func TestOutcomeResponse_OmitsEmptyFields(t *testing.T) {
	body, err := json.Marshal(models.OutcomeResponse(false, "Invalid Id"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"message":"Invalid Id"}`, string(body))
}

func TestProductRequest_DecodesNumericAndQuotedPrice(t *testing.T) {
	var fromNumber, fromString models.ProductRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Widget","price":9.99}`), &fromNumber))
	require.NoError(t, json.Unmarshal([]byte(`{"price":"9.99"}`), &fromString))

	require.NotNil(t, fromNumber.Price)
	require.NotNil(t, fromString.Price)
	assert.True(t, fromNumber.Price.Equal(*fromString.Price))
	assert.Nil(t, fromNumber.Description)
}

func TestProductResponse_PriceIsNumeric(t *testing.T) {
	resp := models.Product{ID: 1, Price: decimal.RequireFromString("9.99")}.ToResponse()
	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"price":9.99`)
}
