package service

import (
	"fmt"
	"strings"

	"github.com/saadjs/mealplan-cli/internal/model"
)

type MealInput struct {
	Name     string
	Slot     string
	Calories *float64
	ProteinG *float64
	CarbsG   *float64
	FatG     *float64
	Portions *float64
	Notes    string
}

// NormalizeMealInput validates a meal coming from the command line and
// returns it with the given id.
func NormalizeMealInput(id string, in MealInput) (model.Meal, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Meal{}, fmt.Errorf("meal name is required")
	}
	slot, err := model.ParseMealSlot(in.Slot)
	if err != nil {
		return model.Meal{}, err
	}
	if err := validateOptionalNonNegative("calories", in.Calories); err != nil {
		return model.Meal{}, err
	}
	if err := validateOptionalNonNegative("protein", in.ProteinG); err != nil {
		return model.Meal{}, err
	}
	if err := validateOptionalNonNegative("carbs", in.CarbsG); err != nil {
		return model.Meal{}, err
	}
	if err := validateOptionalNonNegative("fat", in.FatG); err != nil {
		return model.Meal{}, err
	}
	if in.Portions != nil {
		if err := validatePositiveFloat("portions", *in.Portions); err != nil {
			return model.Meal{}, err
		}
	}
	return model.Meal{
		ID:       id,
		Name:     name,
		Type:     slot,
		Calories: in.Calories,
		ProteinG: in.ProteinG,
		CarbsG:   in.CarbsG,
		FatG:     in.FatG,
		Portions: in.Portions,
		Notes:    strings.TrimSpace(in.Notes),
	}, nil
}

// MealFromTemplate copies tpl under a fresh id. An empty slot keeps the
// template's own slot. Portions scale the stored calories and macros.
func MealFromTemplate(id string, tpl model.Meal, slot string, portions *float64) (model.Meal, error) {
	meal := tpl.Clone()
	meal.ID = id
	if strings.TrimSpace(slot) != "" {
		s, err := model.ParseMealSlot(slot)
		if err != nil {
			return model.Meal{}, err
		}
		meal.Type = s
	}
	if portions != nil {
		if err := validatePositiveFloat("portions", *portions); err != nil {
			return model.Meal{}, err
		}
		base := 1.0
		if tpl.Portions != nil && *tpl.Portions > 0 {
			base = *tpl.Portions
		}
		factor := *portions / base
		meal.Calories = scaled(tpl.Calories, factor)
		meal.ProteinG = scaled(tpl.ProteinG, factor)
		meal.CarbsG = scaled(tpl.CarbsG, factor)
		meal.FatG = scaled(tpl.FatG, factor)
		p := *portions
		meal.Portions = &p
	}
	return meal, nil
}

func scaled(v *float64, factor float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v * factor
	return &out
}
