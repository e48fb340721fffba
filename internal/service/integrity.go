package service

import (
	"sort"
	"strings"
	"time"

	"github.com/saadjs/mealplan-cli/internal/model"
)

type DuplicateDate struct {
	Date    string   `json:"date"`
	PlanIDs []string `json:"plan_ids"`
}

type DoctorReport struct {
	Plans          int             `json:"plans"`
	DuplicateDates []DuplicateDate `json:"duplicate_dates"`
	InvalidDates   []string        `json:"invalid_dates"`
	EmptyPlans     int             `json:"empty_plans"`
	MisfiledMeals  int             `json:"misfiled_meals"`
	MissingIDs     int             `json:"missing_ids"`
	MergedPlans    int             `json:"merged_plans,omitempty"`
}

func (r DoctorReport) Healthy() bool {
	return len(r.DuplicateDates) == 0 && len(r.InvalidDates) == 0 && r.MisfiledMeals == 0 && r.MissingIDs == 0
}

// RunDoctor inspects plans for integrity problems the store tolerates:
// several plans on one date, malformed dates, meals stored under a slot that
// disagrees with their type, and records without ids.
func RunDoctor(plans []model.DayPlan) DoctorReport {
	report := DoctorReport{
		Plans:          len(plans),
		DuplicateDates: make([]DuplicateDate, 0),
		InvalidDates:   make([]string, 0),
	}
	byDate := map[string][]string{}
	order := make([]string, 0)
	for _, p := range plans {
		if _, ok := byDate[p.Date]; !ok {
			order = append(order, p.Date)
		}
		byDate[p.Date] = append(byDate[p.Date], p.ID)

		if _, err := time.ParseInLocation(model.DateLayout, p.Date, time.Local); err != nil {
			report.InvalidDates = append(report.InvalidDates, p.Date)
		}
		if p.Meals.Count() == 0 && len(p.Exercises) == 0 {
			report.EmptyPlans++
		}
		if strings.TrimSpace(p.ID) == "" {
			report.MissingIDs++
		}
		for slot, meals := range p.Meals {
			for _, m := range meals {
				if m.Type != "" && m.Type != slot {
					report.MisfiledMeals++
				}
				if strings.TrimSpace(m.ID) == "" {
					report.MissingIDs++
				}
			}
		}
		for _, ex := range p.Exercises {
			if strings.TrimSpace(ex.ID) == "" {
				report.MissingIDs++
			}
		}
	}
	for _, date := range order {
		if ids := byDate[date]; len(ids) > 1 {
			report.DuplicateDates = append(report.DuplicateDates, DuplicateDate{Date: date, PlanIDs: ids})
		}
	}
	sort.Strings(report.InvalidDates)
	return report
}

// MergeDuplicateDates folds every plan that shares a date into the first plan
// with that date, keeping meals and exercises in their original order. It
// returns the new collection and how many plans were folded away. plans is
// not modified.
func MergeDuplicateDates(plans []model.DayPlan) ([]model.DayPlan, int) {
	out := make([]model.DayPlan, 0, len(plans))
	index := map[string]int{}
	merged := 0
	for _, p := range plans {
		i, ok := index[p.Date]
		if !ok {
			index[p.Date] = len(out)
			out = append(out, p.Clone())
			continue
		}
		target := &out[i]
		if target.Meals == nil {
			target.Meals = model.NewMeals()
		}
		for _, slot := range model.MealSlots {
			for _, m := range p.Meals[slot] {
				target.Meals[slot] = append(target.Meals[slot], m.Clone())
			}
		}
		for _, ex := range p.Exercises {
			target.Exercises = append(target.Exercises, ex.Clone())
		}
		merged++
	}
	return out, merged
}
