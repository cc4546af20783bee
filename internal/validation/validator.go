// Package validation checks field constraints on incoming product requests.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"productcatalog/internal/apperrors"
	"productcatalog/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	MaxNameLength        = 100
	MaxDescriptionLength = 500
)

// MaxPrice is the largest value a decimal(18,2) price column holds.
var MaxPrice = decimal.RequireFromString("9999999999999999.99")

// textFields mirrors the string half of a request after nil pointers
// have been flattened. Its rules are registered in NewProductValidator.
type textFields struct {
	Name        string
	Description string
}

// optionalTextFields is the update-time variant; blank values were already
// dropped by the caller.
type optionalTextFields struct {
	Name        string
	Description string
}

var messages = map[string]string{
	"Name.notblank":        "Product name cannot be empty",
	"Name.max":             fmt.Sprintf("Product name must not exceed %d characters", MaxNameLength),
	"Description.notblank": "Product description cannot be empty",
	"Description.max":      fmt.Sprintf("Product description must not exceed %d characters", MaxDescriptionLength),
}

var msgPriceTooLarge = "Price must not exceed " + MaxPrice.StringFixed(2)

// ProductValidator validates ProductRequest values for create and update.
type ProductValidator struct {
	validate *validator.Validate
}

// NewProductValidator creates a ProductValidator with the custom rules
// registered.
func NewProductValidator() *ProductValidator {
	v := validator.New()
	if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(fmt.Sprintf("validation: register notblank: %v", err))
	}
	v.RegisterStructValidationMapRules(map[string]string{
		"Name":        fmt.Sprintf("notblank,max=%d", MaxNameLength),
		"Description": fmt.Sprintf("notblank,max=%d", MaxDescriptionLength),
	}, textFields{})
	v.RegisterStructValidationMapRules(map[string]string{
		"Name":        fmt.Sprintf("omitempty,max=%d", MaxNameLength),
		"Description": fmt.Sprintf("omitempty,max=%d", MaxDescriptionLength),
	}, optionalTextFields{})
	return &ProductValidator{validate: v}
}

// RequireAll fails with InvalidArgument unless name, description and
// price are all present.
func RequireAll(req models.ProductRequest) error {
	if req.Name == nil || req.Description == nil || req.Price == nil {
		return apperrors.New(apperrors.InvalidArgument, "Required field(s) is/are missing, please check the request JSON")
	}
	return nil
}

// ValidateForCreate checks every field of a create request. Field presence
// is the caller's concern; see RequireAll.
func (pv *ProductValidator) ValidateForCreate(req models.ProductRequest) error {
	fields := textFields{Name: deref(req.Name), Description: deref(req.Description)}
	if err := pv.check(fields); err != nil {
		return err
	}
	return checkPrice(req.Price, "Price must be non-negative and greater than Zero")
}

// ValidateForUpdate applies the length checks only to fields that are
// present and not blank. Nothing is required.
func (pv *ProductValidator) ValidateForUpdate(req models.ProductRequest) error {
	fields := optionalTextFields{Name: nonBlank(req.Name), Description: nonBlank(req.Description)}
	if err := pv.check(fields); err != nil {
		return err
	}
	return checkPrice(req.Price, "Price must be greater than zero")
}

// checkPrice compares the decimal exactly; a float conversion would turn
// huge values into +Inf.
func checkPrice(price *decimal.Decimal, notPositiveMsg string) error {
	if price == nil {
		return nil
	}
	if !price.IsPositive() {
		return apperrors.New(apperrors.OutOfRange, notPositiveMsg)
	}
	if price.GreaterThan(MaxPrice) {
		return apperrors.New(apperrors.OutOfRange, msgPriceTooLarge)
	}
	return nil
}

func (pv *ProductValidator) check(fields any) error {
	err := pv.validate.Struct(fields)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return apperrors.Wrap(err, "request validation failed")
	}
	// Errors come back in field order, so the first one is the one to report.
	fieldErr := validationErrors[0]
	if msg, ok := messages[fieldErr.Field()+"."+fieldErr.Tag()]; ok {
		return apperrors.New(apperrors.InvalidArgument, msg)
	}
	return apperrors.Newf(apperrors.InvalidArgument, "Field '%s' failed on the '%s' tag", fieldErr.Field(), fieldErr.Tag())
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nonBlank(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return ""
	}
	return *s
}

// IsBlank reports whether s is absent or whitespace only.
func IsBlank(s *string) bool {
	return nonBlank(s) == ""
}
