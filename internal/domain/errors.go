package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("review: not found")

// ValidationError aggregates per-field violations from a tag update. The whole
// update is rejected; no partial write happens.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

func NewFieldViolation(field, value string) string {
	return fmt.Sprintf("Invalid value '%s' for field '%s'", value, field)
}

// RowError records one malformed ingestion row. Row numbering is 1-based over
// data rows (the header is row 0).
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

func (e RowError) Error() string { return fmt.Sprintf("row %d: %s", e.Row, e.Reason) }
