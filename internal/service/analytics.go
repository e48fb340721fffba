package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/saadjs/mealplan-cli/internal/model"
)

type ExerciseBreakdown struct {
	Type     model.ExerciseType `json:"type"`
	Sessions int                `json:"sessions"`
	Minutes  float64            `json:"minutes"`
}

type AnalyticsReport struct {
	FromDate              string              `json:"from_date"`
	ToDate                string              `json:"to_date"`
	TotalCalories         float64             `json:"total_calories"`
	TotalProtein          float64             `json:"total_protein_g"`
	TotalCarbs            float64             `json:"total_carbs_g"`
	TotalFat              float64             `json:"total_fat_g"`
	TotalExerciseMinutes  float64             `json:"total_exercise_minutes"`
	DaysWithPlans         int                 `json:"days_with_plans"`
	AverageCaloriesPerDay float64             `json:"avg_calories_per_day"`
	HighestDay            *DayStatus          `json:"highest_day,omitempty"`
	LowestDay             *DayStatus          `json:"lowest_day,omitempty"`
	ByExerciseType        []ExerciseBreakdown `json:"by_exercise_type"`
	Days                  []DayStatus         `json:"days"`
}

// AnalyticsRange summarizes every date between from and to inclusive. Days
// without a plan are listed but do not count towards averages.
func AnalyticsRange(plans []model.DayPlan, from, to string) (*AnalyticsReport, error) {
	start, err := time.ParseInLocation(model.DateLayout, from, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid from date %q, expected YYYY-MM-DD", from)
	}
	end, err := time.ParseInLocation(model.DateLayout, to, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid to date %q, expected YYYY-MM-DD", to)
	}
	if start.After(end) {
		return nil, fmt.Errorf("from date must be <= to date")
	}

	report := &AnalyticsReport{
		FromDate:       from,
		ToDate:         to,
		Days:           make([]DayStatus, 0),
		ByExerciseType: make([]ExerciseBreakdown, 0),
	}
	byType := map[model.ExerciseType]*ExerciseBreakdown{}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		date := d.Format(model.DateLayout)
		status := SummarizeDay(date, plans)
		report.Days = append(report.Days, status)
		if !status.HasPlan {
			continue
		}
		report.DaysWithPlans++
		report.TotalCalories += status.Calories
		report.TotalProtein += status.ProteinG
		report.TotalCarbs += status.CarbsG
		report.TotalFat += status.FatG
		report.TotalExerciseMinutes += status.ExerciseMinutes
	}
	for _, plan := range plans {
		if plan.Date < from || plan.Date > to {
			continue
		}
		for _, ex := range plan.Exercises {
			b, ok := byType[ex.Type]
			if !ok {
				b = &ExerciseBreakdown{Type: ex.Type}
				byType[ex.Type] = b
			}
			b.Sessions++
			b.Minutes += ex.DurationMin
		}
	}
	for _, b := range byType {
		report.ByExerciseType = append(report.ByExerciseType, *b)
	}
	sort.Slice(report.ByExerciseType, func(i, j int) bool {
		if report.ByExerciseType[i].Minutes == report.ByExerciseType[j].Minutes {
			return report.ByExerciseType[i].Type < report.ByExerciseType[j].Type
		}
		return report.ByExerciseType[i].Minutes > report.ByExerciseType[j].Minutes
	})

	if report.DaysWithPlans > 0 {
		report.AverageCaloriesPerDay = report.TotalCalories / float64(report.DaysWithPlans)
		for i := range report.Days {
			d := report.Days[i]
			if !d.HasPlan {
				continue
			}
			if report.HighestDay == nil || d.Calories > report.HighestDay.Calories {
				report.HighestDay = &report.Days[i]
			}
			if report.LowestDay == nil || d.Calories < report.LowestDay.Calories {
				report.LowestDay = &report.Days[i]
			}
		}
	}
	return report, nil
}
