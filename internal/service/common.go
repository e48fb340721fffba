package service

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/saadjs/mealplan-cli/internal/model"
)

func isFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}

func validatePositiveFloat(name string, value float64) error {
	if !isFinite(value) || value <= 0 {
		return fmt.Errorf("%s must be > 0", name)
	}
	return nil
}

func validateNonNegativeFloat(name string, value float64) error {
	if !isFinite(value) || value < 0 {
		return fmt.Errorf("%s must be >= 0", name)
	}
	return nil
}

func validateOptionalNonNegative(name string, value *float64) error {
	if value == nil {
		return nil
	}
	return validateNonNegativeFloat(name, *value)
}

func normalizeName(name string) string {
	return strings.TrimSpace(strings.ToLower(name))
}

// ParseDate checks value is a YYYY-MM-DD calendar date and returns it in
// canonical form.
func ParseDate(value string) (string, error) {
	t, err := time.ParseInLocation(model.DateLayout, strings.TrimSpace(value), time.Local)
	if err != nil {
		return "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t.Format(model.DateLayout), nil
}

// ParseMonth parses YYYY-MM and returns the first day of that month.
func ParseMonth(value string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01", strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, expected YYYY-MM", value)
	}
	return t, nil
}
