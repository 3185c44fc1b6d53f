package store

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/tordrt/cinemaschema/internal/db"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflicts with an existing row")
	ErrInvalid       = errors.New("invalid")
	ErrMissingParent = errors.New("referenced row does not exist")
	ErrAlreadyBooked = errors.New("seat already booked")
)

// Bounds of a DECIMAL(10,2) price
const (
	priceScale  = 2
	priceDigits = 10
)

var maxPrice = decimal.New(1, priceDigits-priceScale)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})
	_ = v.RegisterValidation("price", validPrice)
	return v
}

// validPrice accepts non-negative amounts that fit DECIMAL(10,2) exactly
func validPrice(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return !d.IsNegative() && d.LessThan(maxPrice) && d.Equal(d.Truncate(priceScale))
}

// validateEntity checks the validate tags of v and reports every failing field
func validateEntity(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Field(), fieldMessage(fe)))
	}
	sort.Strings(msgs)
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("maximum length is %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "price":
		return fmt.Sprintf("must be between 0 and %s with at most %d decimal places", maxPrice, priceScale)
	default:
		return fmt.Sprintf("failed %s", fe.Tag())
	}
}

// writeError maps constraint failures onto the store sentinels
func writeError(op string, err error) error {
	switch {
	case db.IsUniqueViolation(err):
		return fmt.Errorf("%s: %w: %w", op, ErrConflict, err)
	case db.IsForeignKeyViolation(err):
		return fmt.Errorf("%s: %w: %w", op, ErrMissingParent, err)
	case db.IsCheckViolation(err):
		return fmt.Errorf("%s: %w: %w", op, ErrInvalid, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
