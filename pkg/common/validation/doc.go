// Package validation provides common validation utilities for configuration
// parameters across the coopsync library.
//
// Every function returns a *errors.ValidationError wrapping
// errors.ErrInvalidConfiguration, so callers can test with errors.Is
// regardless of which check failed.
package validation
