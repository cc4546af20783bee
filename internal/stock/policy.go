// Package stock holds the arithmetic rules bounding stock adjustments.
package stock

import "productcatalog/internal/apperrors"

// ApplyIncrement returns current+delta, or an InvalidOperation error when
// the result would exceed max. The caller guarantees delta > 0 and
// current <= max.
func ApplyIncrement(current, delta, max int) (int, error) {
	// Compared as max-current so a huge delta cannot overflow.
	if delta > max-current {
		return current, apperrors.Newf(apperrors.InvalidOperation, "Stock limit exceeded. Maximum allowed is %d.", max)
	}
	return current + delta, nil
}

// ApplyDecrement returns current-delta, or an InvalidOperation error when
// delta exceeds the available stock. The caller guarantees delta >= 0.
func ApplyDecrement(current, delta int) (int, error) {
	if delta > current {
		return current, apperrors.New(apperrors.InvalidOperation, "Cannot decrement beyond available stock.")
	}
	return current - delta, nil
}
