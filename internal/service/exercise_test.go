package service_test

import (
	"math"
	"reflect"
	"testing"

	"github.com/saadjs/mealplan-cli/internal/model"
	"github.com/saadjs/mealplan-cli/internal/service"
)

func TestNormalizeExerciseInputDefaultsIntensity(t *testing.T) {
	t.Parallel()
	ex, err := service.NormalizeExerciseInput("e1", service.ExerciseInput{Type: "Cardio", DurationMin: 30})
	if err != nil {
		t.Fatalf("normalize exercise: %v", err)
	}
	if ex.Type != model.ExerciseCardio || ex.Intensity != model.IntensityMedium || ex.Recurring != nil {
		t.Fatalf("unexpected exercise %+v", ex)
	}
}

func TestNormalizeExerciseInputRecurring(t *testing.T) {
	t.Parallel()
	ex, err := service.NormalizeExerciseInput("e1", service.ExerciseInput{
		Type:        "strength",
		DurationMin: 45,
		Intensity:   "high",
		Recurring:   "weekly",
		Days:        "fri, 1, mon,3",
	})
	if err != nil {
		t.Fatalf("normalize exercise: %v", err)
	}
	if ex.Recurring == nil || ex.Recurring.Frequency != model.FrequencyWeekly {
		t.Fatalf("expected weekly recurrence, got %+v", ex.Recurring)
	}
	if !reflect.DeepEqual(ex.Recurring.Days, []int{1, 3, 5}) {
		t.Fatalf("expected sorted unique days [1 3 5], got %v", ex.Recurring.Days)
	}
}

func TestNormalizeExerciseInputRejectsInvalid(t *testing.T) {
	t.Parallel()
	cases := map[string]service.ExerciseInput{
		"zero duration":    {Type: "cardio"},
		"bad type":         {Type: "juggling", DurationMin: 10},
		"bad intensity":    {Type: "cardio", DurationMin: 10, Intensity: "extreme"},
		"bad frequency":    {Type: "cardio", DurationMin: 10, Recurring: "monthly"},
		"days without rec": {Type: "cardio", DurationMin: 10, Days: "1"},
		"day out of range": {Type: "cardio", DurationMin: 10, Recurring: "weekly", Days: "7"},
		"nan duration":     {Type: "cardio", DurationMin: math.NaN()},
		"inf duration":     {Type: "cardio", DurationMin: math.Inf(1)},
	}
	for name, in := range cases {
		if _, err := service.NormalizeExerciseInput("x", in); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}
