package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/saadjs/mealplan-cli/internal/model"
	"github.com/saadjs/mealplan-cli/internal/service"
	"github.com/saadjs/mealplan-cli/internal/weather"
)

func floatPtr(v float64) *float64 { return &v }

func plainRenderer(theme model.Theme) *Renderer {
	return New(&bytes.Buffer{}, theme)
}

func TestCalendarGrid(t *testing.T) {
	t.Parallel()
	plan := model.DayPlan{ID: "p1", Date: "2024-06-03", Meals: model.NewMeals(), Exercises: []model.Exercise{{ID: "e1", Type: model.ExerciseCardio, DurationMin: 20}}}
	empty := model.DayPlan{ID: "p2", Date: "2024-06-04", Meals: model.NewMeals(), Exercises: []model.Exercise{}}

	out := plainRenderer(model.ThemeColorful).Calendar(time.Date(2024, 6, 15, 0, 0, 0, 0, time.Local), []model.DayPlan{plan, empty}, "2024-06-10")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if lines[0] != "June 2024" {
		t.Fatalf("unexpected title %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Sun ") || !strings.Contains(lines[1], "Sat") {
		t.Fatalf("unexpected weekday header %q", lines[1])
	}
	// June 2024 starts on a Saturday.
	if strings.TrimSpace(lines[2]) != "1" || !strings.HasSuffix(lines[2], " 1") {
		t.Fatalf("expected first row to hold only the 1st in the Saturday column, got %q", lines[2])
	}
	if !strings.Contains(out, " 3•") {
		t.Fatalf("expected planned day marker, got:\n%s", out)
	}
	if strings.Contains(out, " 4•") {
		t.Fatalf("empty plans must not be marked, got:\n%s", out)
	}
	if len(lines) != 2+6 {
		t.Fatalf("expected 6 week rows for June 2024, got %d:\n%s", len(lines)-2, out)
	}
}

func TestDayPlanListsSlotsAndExercises(t *testing.T) {
	t.Parallel()
	plan := model.DayPlan{ID: "p1", Date: "2024-06-01", Meals: model.NewMeals()}
	plan = plan.WithMeal(model.Meal{ID: "m1", Name: "Oats", Type: model.SlotBreakfast, Calories: floatPtr(300), ProteinG: floatPtr(10.25)})
	plan = plan.WithExercise(model.Exercise{ID: "e1", Type: model.ExerciseStrength, DurationMin: 45, Intensity: model.IntensityHigh, Recurring: &model.Recurring{Frequency: model.FrequencyWeekly, Days: []int{1, 3}}})

	out := plainRenderer(model.ThemeDefault).DayPlan("2024-06-01", &plan)
	for _, want := range []string{"Breakfast", "Oats  300 kcal  P 10.3g", "Lunch", "Snack", "strength 45 min (high)  repeats weekly on Mon,Wed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
	if none := plainRenderer(model.ThemeDark).DayPlan("2024-06-02", nil); !strings.Contains(none, "nothing planned") {
		t.Fatalf("expected empty day message, got %s", none)
	}
}

func TestProfileShowsBMIWithOneDecimal(t *testing.T) {
	t.Parallel()
	bmi := 25.0
	out := plainRenderer(model.ThemeAllBlue).Profile(&model.UserProfile{Name: "A", Age: 30, HeightCm: 180, WeightKg: 81, BMI: &bmi}, service.UnitsMetric)
	for _, want := range []string{"A", "Age     30", "Height  180.0 cm", "BMI     25.0 (overweight)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
	if out := plainRenderer(model.ThemeAllBlue).Profile(nil, service.UnitsMetric); !strings.Contains(out, "no profile") {
		t.Fatalf("expected missing profile hint, got %s", out)
	}
}

func TestForecastAndSunTimes(t *testing.T) {
	t.Parallel()
	rd := plainRenderer(model.ThemeDefault)
	out := rd.Forecast(weather.FallbackForecast(time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local)), false)
	if !strings.Contains(out, "Weather (offline)") || !strings.Contains(out, "Today") || !strings.Contains(out, "72°F") {
		t.Fatalf("unexpected forecast render:\n%s", out)
	}
	sun := rd.SunTimes(weather.FallbackSunTimes(), true)
	if strings.TrimSpace(sun) != "Sunrise 6:30 AM  Sunset 7:30 PM" {
		t.Fatalf("unexpected sun render %q", sun)
	}
}

func TestUnknownThemeFallsBackToDefault(t *testing.T) {
	t.Parallel()
	if got := New(&bytes.Buffer{}, model.Theme("neon")).Theme(); got != model.ThemeDefault {
		t.Fatalf("expected default theme, got %s", got)
	}
}
