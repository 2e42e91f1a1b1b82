package validation

import (
	"time"

	gferrors "github.com/vnykmshr/coopsync/pkg/common/errors"
)

// ValidatePositive validates that an integer value is positive (> 0).
// Returns a ValidationError if the value is not positive.
func ValidatePositive(module, field string, value int) error {
	if value <= 0 {
		return gferrors.NewValidationError(module, field, value, "must be positive").
			WithHint("value must be greater than 0")
	}
	return nil
}

// ValidateNonNegativeInt validates that an integer value is >= 0.
func ValidateNonNegativeInt(module, field string, value int) error {
	if value < 0 {
		return gferrors.NewValidationError(module, field, value, "cannot be negative").
			WithHint("use 0 or a positive value")
	}
	return nil
}

// ValidateNonNegativeDuration validates that a duration is >= 0.
func ValidateNonNegativeDuration(module, field string, value time.Duration) error {
	if value < 0 {
		return gferrors.NewValidationError(module, field, value, "cannot be negative").
			WithHint("use 0 or a positive duration")
	}
	return nil
}

// ValidateProbability validates that value lies in [0, 1].
func ValidateProbability(module, field string, value float64) error {
	if value < 0 || value > 1 {
		return gferrors.NewValidationError(module, field, value, "must be within [0, 1]")
	}
	return nil
}

// ValidateRange validates that min <= max. Both fields are named in the error.
func ValidateRange(module, minField, maxField string, min, max int) error {
	if min > max {
		return gferrors.NewValidationError(module, minField+".."+maxField, [2]int{min, max}, "lower bound exceeds upper bound").
			WithHint(minField + " must not be greater than " + maxField)
	}
	return nil
}

// ValidateNotNil validates that an interface value is not nil.
// Returns a ValidationError if the value is nil.
func ValidateNotNil(module, field string, value interface{}) error {
	if value == nil {
		return gferrors.NewValidationError(module, field, nil, "cannot be nil").
			WithHint("provide a valid " + field)
	}
	return nil
}
