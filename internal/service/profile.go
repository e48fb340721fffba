package service

import (
	"fmt"
	"strings"

	"github.com/saadjs/mealplan-cli/internal/model"
)

type ProfileInput struct {
	Name   string
	Age    int
	Height float64
	Weight float64
	Units  string
}

// NormalizeProfileInput checks the form constraints and converts imperial
// input (inches, pounds) to centimetres and kilograms. BMI is left for the
// store to derive.
func NormalizeProfileInput(in ProfileInput) (model.UserProfile, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.UserProfile{}, fmt.Errorf("name is required")
	}
	if in.Age < 0 {
		return model.UserProfile{}, fmt.Errorf("age must be >= 0")
	}
	system, err := ParseUnitSystem(in.Units)
	if err != nil {
		return model.UserProfile{}, err
	}
	heightUnit, weightUnit := "cm", "kg"
	if system == UnitsImperial {
		heightUnit, weightUnit = "in", "lb"
	}
	heightCm, err := convertHeightToCm(in.Height, heightUnit)
	if err != nil {
		return model.UserProfile{}, err
	}
	weightKg, err := convertWeightToKg(in.Weight, weightUnit)
	if err != nil {
		return model.UserProfile{}, err
	}
	return model.UserProfile{Name: name, Age: in.Age, HeightCm: heightCm, WeightKg: weightKg}, nil
}

// BMICategory buckets a BMI value using the WHO adult ranges.
func BMICategory(bmi float64) string {
	switch {
	case bmi <= 0:
		return "unknown"
	case bmi < 18.5:
		return "underweight"
	case bmi < 25:
		return "normal"
	case bmi < 30:
		return "overweight"
	default:
		return "obese"
	}
}
