package models

// MaxSupplierRating is the top of the 0-5 rating scale
const MaxSupplierRating = 5.0

// UnassignedSupplier labels ingredients with no supplier record
const UnassignedSupplier = "unassigned"

// Supplier represents a vendor in the supplier directory
type Supplier struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Contact  string  `json:"contact"`
	Category string  `json:"category"`
	Rating   float64 `json:"rating"`
}

// ValidateSupplier validates a supplier directory entry
func ValidateSupplier(s *Supplier) error {
	if s.ID == "" {
		return &ValidationError{Field: "id", Reason: "is required"}
	}
	if s.Name == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if s.Rating < 0 || s.Rating > MaxSupplierRating {
		return &ValidationError{Field: "rating", Reason: "must be between 0 and 5"}
	}
	return nil
}
