package model

import (
	"fmt"
	"strings"
)

const DateLayout = "2006-01-02"

type MealSlot string

const (
	SlotBreakfast MealSlot = "breakfast"
	SlotLunch     MealSlot = "lunch"
	SlotDinner    MealSlot = "dinner"
	SlotSnack     MealSlot = "snack"
)

// legacySnackKey is the meals key older saved state used for snacks.
const legacySnackKey MealSlot = "snacks"

var MealSlots = []MealSlot{SlotBreakfast, SlotLunch, SlotDinner, SlotSnack}

func ParseMealSlot(raw string) (MealSlot, error) {
	v := MealSlot(strings.ToLower(strings.TrimSpace(raw)))
	if v == legacySnackKey {
		return SlotSnack, nil
	}
	for _, s := range MealSlots {
		if v == s {
			return s, nil
		}
	}
	return "", fmt.Errorf("invalid meal slot %q (use breakfast, lunch, dinner or snack)", raw)
}

type ExerciseType string

const (
	ExerciseCardio      ExerciseType = "cardio"
	ExerciseStrength    ExerciseType = "strength"
	ExerciseFlexibility ExerciseType = "flexibility"
	ExerciseSports      ExerciseType = "sports"
	ExerciseOther       ExerciseType = "other"
)

var ExerciseTypes = []ExerciseType{ExerciseCardio, ExerciseStrength, ExerciseFlexibility, ExerciseSports, ExerciseOther}

func ParseExerciseType(raw string) (ExerciseType, error) {
	v := ExerciseType(strings.ToLower(strings.TrimSpace(raw)))
	for _, t := range ExerciseTypes {
		if v == t {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid exercise type %q (use cardio, strength, flexibility, sports or other)", raw)
}

type Intensity string

const (
	IntensityLow    Intensity = "low"
	IntensityMedium Intensity = "medium"
	IntensityHigh   Intensity = "high"
)

func ParseIntensity(raw string) (Intensity, error) {
	switch v := Intensity(strings.ToLower(strings.TrimSpace(raw))); v {
	case IntensityLow, IntensityMedium, IntensityHigh:
		return v, nil
	case "":
		return IntensityMedium, nil
	default:
		return "", fmt.Errorf("invalid intensity %q (use low, medium or high)", raw)
	}
}

type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

type Theme string

const (
	ThemeDefault  Theme = "default"
	ThemeAllBlue  Theme = "all-blue"
	ThemeColorful Theme = "colorful"
	ThemeDark     Theme = "dark"
)

var Themes = []Theme{ThemeDefault, ThemeAllBlue, ThemeColorful, ThemeDark}

func ParseTheme(raw string) (Theme, error) {
	v := Theme(strings.ToLower(strings.TrimSpace(raw)))
	for _, t := range Themes {
		if v == t {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid theme %q (use default, all-blue, colorful or dark)", raw)
}

type Meal struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Type     MealSlot `json:"type"`
	Calories *float64 `json:"calories,omitempty"`
	ProteinG *float64 `json:"protein,omitempty"`
	CarbsG   *float64 `json:"carbs,omitempty"`
	FatG     *float64 `json:"fat,omitempty"`
	Portions *float64 `json:"portions,omitempty"`
	Notes    string   `json:"notes,omitempty"`
}

type Recurring struct {
	Frequency Frequency `json:"frequency"`
	Days      []int     `json:"days,omitempty"`
}

type Exercise struct {
	ID          string       `json:"id"`
	Type        ExerciseType `json:"type"`
	DurationMin float64      `json:"duration"`
	Intensity   Intensity    `json:"intensity"`
	Notes       string       `json:"notes,omitempty"`
	Recurring   *Recurring   `json:"recurring,omitempty"`
}

// Meals maps each slot to the meals logged in it, in insertion order.
type Meals map[MealSlot][]Meal

func NewMeals() Meals {
	m := make(Meals, len(MealSlots))
	for _, s := range MealSlots {
		m[s] = []Meal{}
	}
	return m
}

// Normalize folds the legacy "snacks" key into "snack" and makes sure every
// slot is present.
func (m Meals) Normalize() Meals {
	out := NewMeals()
	for slot, meals := range m {
		if slot == legacySnackKey {
			slot = SlotSnack
		}
		out[slot] = append(out[slot], meals...)
	}
	return out
}

func (m Meals) Count() int {
	n := 0
	for _, meals := range m {
		n += len(meals)
	}
	return n
}

type DayPlan struct {
	ID        string     `json:"id"`
	Date      string     `json:"date"`
	Meals     Meals      `json:"meals"`
	Exercises []Exercise `json:"exercises"`
}

// Clone returns a deep copy so callers can never alias store-owned data.
func (p DayPlan) Clone() DayPlan {
	out := DayPlan{ID: p.ID, Date: p.Date, Meals: make(Meals, len(p.Meals))}
	for slot, meals := range p.Meals {
		cp := make([]Meal, len(meals))
		for i, meal := range meals {
			cp[i] = meal.Clone()
		}
		out.Meals[slot] = cp
	}
	out.Exercises = make([]Exercise, len(p.Exercises))
	for i, ex := range p.Exercises {
		out.Exercises[i] = ex.Clone()
	}
	return out
}

// WithMeal returns a copy of the plan with meal appended to its slot.
func (p DayPlan) WithMeal(meal Meal) DayPlan {
	out := p.Clone()
	if out.Meals == nil {
		out.Meals = NewMeals()
	}
	out.Meals[meal.Type] = append(out.Meals[meal.Type], meal.Clone())
	return out
}

// WithExercise returns a copy of the plan with exercise appended.
func (p DayPlan) WithExercise(ex Exercise) DayPlan {
	out := p.Clone()
	out.Exercises = append(out.Exercises, ex.Clone())
	return out
}

func (m Meal) Clone() Meal {
	m.Calories = cloneFloat(m.Calories)
	m.ProteinG = cloneFloat(m.ProteinG)
	m.CarbsG = cloneFloat(m.CarbsG)
	m.FatG = cloneFloat(m.FatG)
	m.Portions = cloneFloat(m.Portions)
	return m
}

func (e Exercise) Clone() Exercise {
	if e.Recurring != nil {
		r := *e.Recurring
		r.Days = append([]int(nil), e.Recurring.Days...)
		e.Recurring = &r
	}
	return e
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

type UserProfile struct {
	Name     string   `json:"name"`
	Age      int      `json:"age"`
	HeightCm float64  `json:"height"`
	WeightKg float64  `json:"weight"`
	BMI      *float64 `json:"bmi,omitempty"`
}

// State is everything that survives a restart. Undo/redo history is not part
// of it.
type State struct {
	DayPlans      []DayPlan    `json:"dayPlans"`
	MealTemplates []Meal       `json:"mealTemplates"`
	UserProfile   *UserProfile `json:"userProfile"`
	Theme         Theme        `json:"theme"`
}

func DefaultState() State {
	return State{
		DayPlans:      []DayPlan{},
		MealTemplates: []Meal{},
		Theme:         ThemeDefault,
	}
}
