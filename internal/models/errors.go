package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuantity is returned when a movement, waste log or count
	// carries a non-positive or non-numeric quantity
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInvalidPrice is returned for negative purchase prices
	ErrInvalidPrice = errors.New("invalid unit price")

	// ErrInvalidDirection is returned for movements that are neither IN nor OUT
	ErrInvalidDirection = errors.New("invalid movement direction")

	// ErrInsufficientPeriodData is returned when a CMV period cannot be formed
	ErrInsufficientPeriodData = errors.New("insufficient period data")

	// ErrInvalidPeriod is returned when the selected start does not precede the end
	ErrInvalidPeriod = fmt.Errorf("%w: start inventory must precede end inventory", ErrInsufficientPeriodData)

	// ErrUnknownIngredient is returned for references to ingredients missing from the catalog
	ErrUnknownIngredient = errors.New("unknown ingredient reference")

	// ErrUnknownRecipe is returned when a recipe id is not in the catalog
	ErrUnknownRecipe = errors.New("unknown recipe")

	// ErrUnknownSupplier is returned when a supplier id is not in the directory
	ErrUnknownSupplier = errors.New("unknown supplier")

	// ErrUnknownRecord is returned when an inventory record id is not found
	ErrUnknownRecord = errors.New("unknown inventory record")

	// ErrDuplicateID is returned when appending an entity whose id already exists
	ErrDuplicateID = errors.New("duplicate id")

	// ErrAdvisoryUnavailable is returned when the advisory text service is unconfigured or failing
	ErrAdvisoryUnavailable = errors.New("advisory service unavailable")

	// ErrAuditNotStarted is returned for count operations outside an audit session
	ErrAuditNotStarted = errors.New("no audit in progress")

	// ErrAuditInProgress is returned when starting an audit while one is running
	ErrAuditInProgress = errors.New("audit already in progress")
)

// ValidationError describes a rejected field
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}
