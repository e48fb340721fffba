package service

import (
	"github.com/saadjs/mealplan-cli/internal/model"
)

type SlotBreakdown struct {
	Slot     model.MealSlot `json:"slot"`
	Meals    int            `json:"meals"`
	Calories float64        `json:"calories"`
	ProteinG float64        `json:"protein_g"`
	CarbsG   float64        `json:"carbs_g"`
	FatG     float64        `json:"fat_g"`
}

type DayStatus struct {
	Date            string          `json:"date"`
	HasPlan         bool            `json:"has_plan"`
	Calories        float64         `json:"calories"`
	ProteinG        float64         `json:"protein_g"`
	CarbsG          float64         `json:"carbs_g"`
	FatG            float64         `json:"fat_g"`
	MealCount       int             `json:"meal_count"`
	ExerciseCount   int             `json:"exercise_count"`
	ExerciseMinutes float64         `json:"exercise_minutes"`
	BySlot          []SlotBreakdown `json:"by_slot"`
}

// SummarizeDay totals every plan in plans that falls on date. Normally there
// is at most one.
func SummarizeDay(date string, plans []model.DayPlan) DayStatus {
	status := DayStatus{Date: date, BySlot: make([]SlotBreakdown, 0, len(model.MealSlots))}
	slots := map[model.MealSlot]*SlotBreakdown{}
	for _, slot := range model.MealSlots {
		status.BySlot = append(status.BySlot, SlotBreakdown{Slot: slot})
		slots[slot] = &status.BySlot[len(status.BySlot)-1]
	}
	for _, plan := range plans {
		if plan.Date != date {
			continue
		}
		status.HasPlan = true
		for slot, meals := range plan.Meals.Normalize() {
			b := slots[slot]
			if b == nil {
				continue
			}
			for _, m := range meals {
				b.Meals++
				b.Calories += deref(m.Calories)
				b.ProteinG += deref(m.ProteinG)
				b.CarbsG += deref(m.CarbsG)
				b.FatG += deref(m.FatG)
			}
		}
		for _, ex := range plan.Exercises {
			status.ExerciseCount++
			status.ExerciseMinutes += ex.DurationMin
		}
	}
	for _, b := range status.BySlot {
		status.MealCount += b.Meals
		status.Calories += b.Calories
		status.ProteinG += b.ProteinG
		status.CarbsG += b.CarbsG
		status.FatG += b.FatG
	}
	return status
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
