package stock_test

import (
	"math"
	"testing"

	"productcatalog/internal/apperrors"
	"productcatalog/internal/stock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyIncrement(t *testing.T) {
	testCases := []struct {
		name      string
		current   int
		delta     int
		max       int
		expected  int
		expectErr bool
	}{
		{name: "within ceiling", current: 10, delta: 40, max: 1000, expected: 50},
		{name: "exactly at ceiling", current: 990, delta: 10, max: 1000, expected: 1000},
		{name: "over ceiling", current: 990, delta: 11, max: 1000, expected: 990, expectErr: true},
		{name: "from zero over small ceiling", current: 0, delta: 6, max: 5, expected: 0, expectErr: true},
		{name: "huge delta does not wrap", current: 10, delta: math.MaxInt, max: 1000, expected: 10, expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := stock.ApplyIncrement(tc.current, tc.delta, tc.max)
			assert.Equal(t, tc.expected, got)
			if tc.expectErr {
				require.Error(t, err)
				assert.Equal(t, apperrors.InvalidOperation, apperrors.KindOf(err))
				assert.Contains(t, err.Error(), "Maximum allowed is")
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestApplyDecrement(t *testing.T) {
	testCases := []struct {
		name      string
		current   int
		delta     int
		expected  int
		expectErr bool
	}{
		{name: "partial", current: 50, delta: 20, expected: 30},
		{name: "all of it", current: 50, delta: 50, expected: 0},
		{name: "zero is a no-op", current: 7, delta: 0, expected: 7},
		{name: "beyond available", current: 50, delta: 60, expected: 50, expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := stock.ApplyDecrement(tc.current, tc.delta)
			assert.Equal(t, tc.expected, got)
			if tc.expectErr {
				require.Error(t, err)
				assert.Equal(t, apperrors.InvalidOperation, apperrors.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.GreaterOrEqual(t, got, 0)
		})
	}
}
