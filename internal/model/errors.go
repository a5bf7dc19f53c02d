package model

import "fmt"

// ValidationError reports a nanoparticle construction input that is outside
// its declared range or not part of a closed enumeration.
//
// Design decision: We use a typed error rather than package-level sentinels
// because callers want to know which field failed and what value was given,
// and the CLI prints that information verbatim. Callers can still detect the
// category with errors.As.
type ValidationError struct {
	// Field is the name of the offending input (e.g., "diameter_nm").
	Field string

	// Value is the rejected input value, formatted for display.
	Value any

	// Message describes the accepted range or vocabulary.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Message)
}
