package service

import (
	"fmt"
	"strings"

	"github.com/saadjs/mealplan-cli/internal/model"
)

type UnitSystem string

const (
	UnitsMetric   UnitSystem = "metric"
	UnitsImperial UnitSystem = "imperial"
)

func ParseUnitSystem(raw string) (UnitSystem, error) {
	switch u := UnitSystem(strings.ToLower(strings.TrimSpace(raw))); u {
	case "", UnitsMetric:
		return UnitsMetric, nil
	case UnitsImperial:
		return UnitsImperial, nil
	default:
		return "", fmt.Errorf("invalid unit system %q (use metric or imperial)", raw)
	}
}

func convertWeightToKg(value float64, unit string) (float64, error) {
	if err := validatePositiveFloat("weight", value); err != nil {
		return 0, err
	}
	u := strings.ToLower(strings.TrimSpace(unit))
	if u == "" {
		u = "kg"
	}
	switch u {
	case "kg":
		return value, nil
	case "lb", "lbs":
		return value * 0.45359237, nil
	default:
		return 0, fmt.Errorf("invalid weight unit %q (use kg or lb)", unit)
	}
}

func weightFromKg(weightKg float64, unit string) (float64, error) {
	u := strings.ToLower(strings.TrimSpace(unit))
	if u == "" {
		u = "kg"
	}
	switch u {
	case "kg":
		return weightKg, nil
	case "lb", "lbs":
		return weightKg / 0.45359237, nil
	default:
		return 0, fmt.Errorf("invalid weight unit %q (use kg or lb)", unit)
	}
}

func convertHeightToCm(value float64, unit string) (float64, error) {
	if err := validatePositiveFloat("height", value); err != nil {
		return 0, err
	}
	u := strings.ToLower(strings.TrimSpace(unit))
	if u == "" {
		u = "cm"
	}
	switch u {
	case "cm":
		return value, nil
	case "m":
		return value * 100, nil
	case "in":
		return value * 2.54, nil
	default:
		return 0, fmt.Errorf("invalid height unit %q (use cm, m or in)", unit)
	}
}

func heightFromCm(heightCm float64, unit string) (float64, error) {
	u := strings.ToLower(strings.TrimSpace(unit))
	if u == "" {
		u = "cm"
	}
	switch u {
	case "cm":
		return heightCm, nil
	case "m":
		return heightCm / 100, nil
	case "in":
		return heightCm / 2.54, nil
	default:
		return 0, fmt.Errorf("invalid height unit %q (use cm, m or in)", unit)
	}
}

// DisplayMeasurements converts stored metric values into the given system.
func DisplayMeasurements(p model.UserProfile, system UnitSystem) (height, weight float64, heightUnit, weightUnit string) {
	heightUnit, weightUnit = "cm", "kg"
	if system == UnitsImperial {
		heightUnit, weightUnit = "in", "lb"
	}
	height, _ = heightFromCm(p.HeightCm, heightUnit)
	weight, _ = weightFromKg(p.WeightKg, weightUnit)
	return height, weight, heightUnit, weightUnit
}
