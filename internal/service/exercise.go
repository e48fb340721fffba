package service

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/saadjs/mealplan-cli/internal/model"
)

type ExerciseInput struct {
	Type        string
	DurationMin float64
	Intensity   string
	Notes       string
	Recurring   string
	Days        string
}

var weekdayNames = map[string]int{
	"sun": 0, "sunday": 0,
	"mon": 1, "monday": 1,
	"tue": 2, "tues": 2, "tuesday": 2,
	"wed": 3, "wednesday": 3,
	"thu": 4, "thur": 4, "thurs": 4, "thursday": 4,
	"fri": 5, "friday": 5,
	"sat": 6, "saturday": 6,
}

func NormalizeExerciseInput(id string, in ExerciseInput) (model.Exercise, error) {
	typ, err := model.ParseExerciseType(in.Type)
	if err != nil {
		return model.Exercise{}, err
	}
	if err := validatePositiveFloat("duration", in.DurationMin); err != nil {
		return model.Exercise{}, err
	}
	intensity, err := model.ParseIntensity(in.Intensity)
	if err != nil {
		return model.Exercise{}, err
	}
	ex := model.Exercise{
		ID:          id,
		Type:        typ,
		DurationMin: in.DurationMin,
		Intensity:   intensity,
		Notes:       strings.TrimSpace(in.Notes),
	}

	freq := model.Frequency(strings.ToLower(strings.TrimSpace(in.Recurring)))
	switch freq {
	case "":
		if strings.TrimSpace(in.Days) != "" {
			return model.Exercise{}, fmt.Errorf("--days requires --recurring")
		}
		return ex, nil
	case model.FrequencyDaily, model.FrequencyWeekly:
	default:
		return model.Exercise{}, fmt.Errorf("invalid recurrence %q (use daily or weekly)", in.Recurring)
	}
	days, err := ParseWeekdays(in.Days)
	if err != nil {
		return model.Exercise{}, err
	}
	ex.Recurring = &model.Recurring{Frequency: freq, Days: days}
	return ex, nil
}

// ParseWeekdays accepts a comma-separated list of weekday numbers (0 = Sunday)
// or names and returns them sorted without duplicates.
func ParseWeekdays(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	seen := map[int]bool{}
	out := make([]int, 0)
	for _, part := range strings.Split(raw, ",") {
		p := strings.ToLower(strings.TrimSpace(part))
		if p == "" {
			continue
		}
		day, ok := weekdayNames[p]
		if !ok {
			n, err := strconv.Atoi(p)
			if err != nil || n < 0 || n > 6 {
				return nil, fmt.Errorf("invalid weekday %q (use 0-6 or sun..sat)", part)
			}
			day = n
		}
		if !seen[day] {
			seen[day] = true
			out = append(out, day)
		}
	}
	sort.Ints(out)
	return out, nil
}
