package analysis

import (
	"errors"
	"fmt"
)

// ErrZoneNotFound is returned when a requested zone exists in no input
// series and no reference table. Empty input data is NOT an error: engines
// return empty results with zeroed summaries instead.
var ErrZoneNotFound = errors.New("zone not found")

// ValidationError reports a caller-supplied parameter outside its domain.
// It is raised before any computation happens.
type ValidationError struct {
	Param  string
	Value  float64
	Domain string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s must be in %s, got %v", e.Param, e.Domain, e.Value)
}

func validationErr(param string, value float64, domain string) error {
	return &ValidationError{Param: param, Value: value, Domain: domain}
}
