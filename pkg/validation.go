package pkg

import (
	"fmt"
	"net/http"
	"time"
)

const (
	DateLayout = "2006-01-02"
	// weight_kg columns are NUMERIC(6, 2)
	MaxWeightKg = 9999.99
)

// ValidationError carries a message that is safe to show to the client.
type ValidationError struct {
	Message string
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ParseDate parses a strict YYYY-MM-DD date in UTC.
func ParseDate(value string) (time.Time, error) {
	if len(value) != len(DateLayout) {
		return time.Time{}, fmt.Errorf("date [%s] not in YYYY-MM-DD format", value)
	}
	d, err := time.ParseInLocation(DateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("date [%s] not in YYYY-MM-DD format", value)
	}
	return d, nil
}

// ParseDateRange reads the from and to query params, both required.
func ParseDateRange(r *http.Request) (from, to time.Time, err error) {
	query := r.URL.Query()
	from, err = ParseDate(query.Get("from"))
	if err != nil {
		return time.Time{}, time.Time{}, NewValidationError("'from' must be YYYY-MM-DD")
	}
	to, err = ParseDate(query.Get("to"))
	if err != nil {
		return time.Time{}, time.Time{}, NewValidationError("'to' must be YYYY-MM-DD")
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, NewValidationError("'from' cannot be after 'to'")
	}
	return from, to, nil
}

// ValidateWeightKg accepts a missing weight or one that fits [0, MaxWeightKg].
func ValidateWeightKg(weightKg *float64) error {
	if weightKg == nil {
		return nil
	}
	if *weightKg < 0 {
		return NewValidationError("weightKg must be >= 0")
	}
	if *weightKg > MaxWeightKg {
		return NewValidationError("weightKg must be <= %.2f", MaxWeightKg)
	}
	return nil
}
