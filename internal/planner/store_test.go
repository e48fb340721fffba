package planner_test

import (
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/saadjs/mealplan-cli/internal/model"
	"github.com/saadjs/mealplan-cli/internal/planner"
)

type seqIDs struct{ n int }

func (g *seqIDs) NewID() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

func newTestStore(t *testing.T, opts ...planner.Option) *planner.Store {
	t.Helper()
	opts = append([]planner.Option{planner.WithIDGenerator(&seqIDs{})}, opts...)
	return planner.New(model.DefaultState(), opts...)
}

func exercise(id string, minutes float64) model.Exercise {
	return model.Exercise{ID: id, Type: model.ExerciseCardio, DurationMin: minutes, Intensity: model.IntensityMedium}
}

func floatPtr(v float64) *float64 { return &v }

func TestAddExerciseCreatesPlanWithEmptySlots(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	e := exercise("e1", 30)
	s.AddExerciseToPlan("2024-06-01", e)

	plan, ok := s.PlanForDate("2024-06-01")
	if !ok {
		t.Fatalf("expected plan for 2024-06-01")
	}
	if len(plan.Meals) != 4 {
		t.Fatalf("expected four meal slots, got %+v", plan.Meals)
	}
	for _, slot := range model.MealSlots {
		meals, present := plan.Meals[slot]
		if !present || len(meals) != 0 {
			t.Fatalf("expected empty %s slot, got %+v", slot, meals)
		}
	}
	if !reflect.DeepEqual(plan.Exercises, []model.Exercise{e}) {
		t.Fatalf("expected exercises [e1], got %+v", plan.Exercises)
	}
}

func TestAddExerciseAppendsToExistingPlan(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	s.AddDayPlan(model.DayPlan{ID: "p1", Date: "2024-06-01", Meals: model.NewMeals(), Exercises: []model.Exercise{}})
	plan, _ := s.PlanForDate("2024-06-01")
	withMeal := plan.WithMeal(model.Meal{ID: "m1", Name: "Oats", Type: model.SlotBreakfast})
	s.UpdateDayPlan(withMeal)

	s.AddExerciseToPlan("2024-06-01", exercise("e1", 20))
	s.AddExerciseToPlan("2024-06-01", exercise("e2", 45))

	plan, _ = s.PlanForDate("2024-06-01")
	if plan.ID != "p1" {
		t.Fatalf("expected existing plan to be reused, got %s", plan.ID)
	}
	if len(plan.Exercises) != 2 || plan.Exercises[0].ID != "e1" || plan.Exercises[1].ID != "e2" {
		t.Fatalf("expected exercises [e1 e2], got %+v", plan.Exercises)
	}
	if len(plan.Meals[model.SlotBreakfast]) != 1 || plan.Meals[model.SlotBreakfast][0].Name != "Oats" {
		t.Fatalf("expected breakfast meal to be untouched, got %+v", plan.Meals)
	}
	if len(s.DayPlans()) != 1 {
		t.Fatalf("expected a single plan, got %d", len(s.DayPlans()))
	}
}

func TestUndoRedoAreInverses(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	s.AddDayPlan(model.DayPlan{ID: "p1", Date: "2024-06-01", Meals: model.NewMeals(), Exercises: []model.Exercise{}})
	s.AddDayPlan(model.DayPlan{ID: "p2", Date: "2024-06-02", Meals: model.NewMeals(), Exercises: []model.Exercise{}})
	before := s.DayPlans()

	p1, _ := s.PlanForDate("2024-06-01")
	s.UpdateDayPlan(p1.WithExercise(exercise("e1", 10)))
	after := s.DayPlans()

	if !s.Undo() {
		t.Fatalf("expected undo to apply")
	}
	if !reflect.DeepEqual(s.DayPlans(), before) {
		t.Fatalf("undo did not restore pre-update collection:\n got %+v\nwant %+v", s.DayPlans(), before)
	}
	if !s.Redo() {
		t.Fatalf("expected redo to apply")
	}
	if !reflect.DeepEqual(s.DayPlans(), after) {
		t.Fatalf("redo did not restore post-update collection:\n got %+v\nwant %+v", s.DayPlans(), after)
	}

	// Walk all the way back and forward again.
	for s.Undo() {
	}
	if len(s.DayPlans()) != 0 {
		t.Fatalf("expected empty collection after undoing everything, got %d plans", len(s.DayPlans()))
	}
	for s.Redo() {
	}
	if !reflect.DeepEqual(s.DayPlans(), after) {
		t.Fatalf("expected full redo to reach latest state, got %+v", s.DayPlans())
	}
}

func TestUndoRedoOnEmptyStacksAreNoOps(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	s.AddDayPlan(model.DayPlan{ID: "p1", Date: "2024-06-01", Meals: model.NewMeals()})

	if s.Redo() {
		t.Fatalf("expected redo with empty future to be a no-op")
	}
	if len(s.DayPlans()) != 1 {
		t.Fatalf("redo changed state: %+v", s.DayPlans())
	}

	calls := 0
	unsubscribe := s.Subscribe(func(model.State) { calls++ })
	defer unsubscribe()

	s.Undo()
	if s.Undo() {
		t.Fatalf("expected second undo with empty past to be a no-op")
	}
	if len(s.DayPlans()) != 0 {
		t.Fatalf("expected empty collection, got %+v", s.DayPlans())
	}
	if calls != 1 {
		t.Fatalf("expected only the effective undo to notify subscribers, got %d calls", calls)
	}
}

func TestMutationAfterUndoClearsRedo(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	s.AddDayPlan(model.DayPlan{ID: "p1", Date: "2024-06-01", Meals: model.NewMeals()})
	s.AddDayPlan(model.DayPlan{ID: "p2", Date: "2024-06-02", Meals: model.NewMeals()})

	s.Undo()
	s.Undo()
	if _, redo := s.HistoryDepth(); redo != 2 {
		t.Fatalf("expected two redo steps, got %d", redo)
	}

	s.AddDayPlan(model.DayPlan{ID: "p3", Date: "2024-06-03", Meals: model.NewMeals()})
	if s.CanRedo() {
		t.Fatalf("expected redo history to be cleared by a new edit")
	}
	if s.Redo() {
		t.Fatalf("expected redo to be a no-op after new edit")
	}
	undo, _ := s.HistoryDepth()
	if undo != 1 {
		t.Fatalf("expected one undo step, got %d", undo)
	}
}

func TestUpdateUnknownPlanDropsWriteButRecordsHistory(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	s.AddDayPlan(model.DayPlan{ID: "p1", Date: "2024-06-01", Meals: model.NewMeals()})

	if s.UpdateDayPlan(model.DayPlan{ID: "missing", Date: "2024-06-09"}) {
		t.Fatalf("expected update of unknown id to report no match")
	}
	if len(s.DayPlans()) != 1 || s.DayPlans()[0].ID != "p1" {
		t.Fatalf("expected collection unchanged, got %+v", s.DayPlans())
	}
	if undo, _ := s.HistoryDepth(); undo != 2 {
		t.Fatalf("expected history push even for dropped update, got depth %d", undo)
	}
}

func TestAddDayPlanAcceptsDuplicateDate(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	s.AddDayPlan(model.DayPlan{ID: "p1", Date: "2024-06-01", Meals: model.NewMeals()})
	s.AddDayPlan(model.DayPlan{ID: "p2", Date: "2024-06-01", Meals: model.NewMeals()})

	if len(s.DayPlans()) != 2 {
		t.Fatalf("expected duplicate to be kept, got %d plans", len(s.DayPlans()))
	}
	plan, _ := s.PlanForDate("2024-06-01")
	if plan.ID != "p1" {
		t.Fatalf("expected lookup to return first plan, got %s", plan.ID)
	}
}

func TestHistoryLimitDropsOldestSnapshot(t *testing.T) {
	t.Parallel()
	s := newTestStore(t, planner.WithHistoryLimit(2))
	for i := 1; i <= 4; i++ {
		s.AddDayPlan(model.DayPlan{ID: fmt.Sprintf("p%d", i), Date: fmt.Sprintf("2024-06-0%d", i), Meals: model.NewMeals()})
	}
	for s.Undo() {
	}
	if got := len(s.DayPlans()); got != 2 {
		t.Fatalf("expected bounded history to stop at two plans, got %d", got)
	}
}

func TestUpdateUserProfileDerivesBMI(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	stored := s.UpdateUserProfile(model.UserProfile{Name: "A", Age: 30, HeightCm: 180, WeightKg: 81, BMI: floatPtr(99)})
	if stored.BMI == nil || math.Abs(*stored.BMI-25.0) > 1e-9 {
		t.Fatalf("expected bmi 25.0, got %v", stored.BMI)
	}
	profile := s.UserProfile()
	if profile == nil || profile.Name != "A" || math.Abs(*profile.BMI-25.0) > 1e-9 {
		t.Fatalf("unexpected stored profile: %+v", profile)
	}

	stored = s.UpdateUserProfile(model.UserProfile{Name: "A", Age: 30, HeightCm: 0, WeightKg: 81})
	if stored.BMI != nil {
		t.Fatalf("expected bmi to stay unset for zero height, got %v", *stored.BMI)
	}
	if s.CanUndo() {
		t.Fatalf("profile updates must not record history")
	}
}

func TestSetThemeAndTemplatesSkipHistory(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	s.SetTheme(model.ThemeDark)
	s.AddMealTemplate(model.Meal{ID: "t1", Name: "Greek Yogurt", Type: model.SlotSnack, Calories: floatPtr(150)})

	if s.Theme() != model.ThemeDark {
		t.Fatalf("expected dark theme, got %s", s.Theme())
	}
	tpl, ok := s.MealTemplate("greek yogurt")
	if !ok || *tpl.Calories != 150 {
		t.Fatalf("expected template lookup by name, got %+v ok=%v", tpl, ok)
	}
	if s.CanUndo() {
		t.Fatalf("theme and template changes must not record history")
	}
}

func TestSubscribersReceiveStateAfterEachMutation(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	var seen []model.State
	unsubscribe := s.Subscribe(func(st model.State) { seen = append(seen, st) })

	s.AddExerciseToPlan("2024-06-01", exercise("e1", 15))
	s.SetTheme(model.ThemeColorful)
	s.Undo()
	unsubscribe()
	s.Redo()

	if len(seen) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(seen))
	}
	if len(seen[0].DayPlans) != 1 || seen[1].Theme != model.ThemeColorful || len(seen[2].DayPlans) != 0 {
		t.Fatalf("unexpected notification sequence: %+v", seen)
	}
}

func TestReadProjectionsDoNotAliasStoreState(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	s.AddExerciseToPlan("2024-06-01", model.Exercise{ID: "e1", Type: model.ExerciseStrength, DurationMin: 30, Recurring: &model.Recurring{Frequency: model.FrequencyWeekly, Days: []int{1, 3}}})

	plans := s.DayPlans()
	plans[0].Exercises[0].Recurring.Days[0] = 6
	plans[0].Meals[model.SlotLunch] = append(plans[0].Meals[model.SlotLunch], model.Meal{Name: "leak"})

	again, _ := s.PlanForDate("2024-06-01")
	if again.Exercises[0].Recurring.Days[0] != 1 {
		t.Fatalf("exercise recurrence leaked through projection: %+v", again.Exercises[0].Recurring)
	}
	if len(again.Meals[model.SlotLunch]) != 0 {
		t.Fatalf("meal slice leaked through projection: %+v", again.Meals)
	}
}

func TestPlansBetweenOrdersByDate(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	s.AddExerciseToPlan("2024-06-03", exercise("e3", 10))
	s.AddExerciseToPlan("2024-06-01", exercise("e1", 10))
	s.AddExerciseToPlan("2024-07-01", exercise("e4", 10))

	got := s.PlansBetween("2024-06-01", "2024-06-30")
	if len(got) != 2 || got[0].Date != "2024-06-01" || got[1].Date != "2024-06-03" {
		t.Fatalf("unexpected range result: %+v", got)
	}
}

func TestReplaceDayPlansIsUndoable(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	s.AddExerciseToPlan("2024-06-01", exercise("e1", 10))
	before := s.DayPlans()

	s.ReplaceDayPlans([]model.DayPlan{{ID: "p9", Date: "2024-07-04", Meals: model.NewMeals(), Exercises: []model.Exercise{}}})
	s.ReplaceMealTemplates([]model.Meal{{ID: "t1", Name: "Toast", Type: model.SlotBreakfast}})

	if plans := s.DayPlans(); len(plans) != 1 || plans[0].ID != "p9" {
		t.Fatalf("expected replaced collection, got %+v", plans)
	}
	if !s.Undo() {
		t.Fatalf("expected replace to be undoable")
	}
	if !reflect.DeepEqual(s.DayPlans(), before) {
		t.Fatalf("undo did not restore plans: %+v", s.DayPlans())
	}
	if len(s.MealTemplates()) != 1 {
		t.Fatalf("template replacement must not be undone, got %+v", s.MealTemplates())
	}
}

func TestNilLoggerOptionDoesNotPanic(t *testing.T) {
	t.Parallel()
	s := planner.New(model.DefaultState(), planner.WithLogger(nil))
	if s.UpdateDayPlan(model.DayPlan{ID: "missing", Date: "2024-06-09"}) {
		t.Fatalf("expected update of unknown plan to report false")
	}
	s.UpdateUserProfile(model.UserProfile{Name: "A", HeightCm: 0, WeightKg: 70})
}

func TestClearHistoryDropsBothStacks(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	s.AddExerciseToPlan("2024-06-01", exercise("e1", 10))
	s.AddExerciseToPlan("2024-06-02", exercise("e2", 20))
	s.Undo()
	before := s.DayPlans()

	s.ClearHistory()
	if undo, redo := s.HistoryDepth(); undo != 0 || redo != 0 {
		t.Fatalf("expected empty history, got undo=%d redo=%d", undo, redo)
	}
	if !reflect.DeepEqual(s.DayPlans(), before) {
		t.Fatalf("clearing history must not change plans")
	}
}

func TestApplyStateIsOneChange(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	s.AddExerciseToPlan("2024-06-01", exercise("e1", 10))
	before := s.DayPlans()

	var notified int
	defer s.Subscribe(func(model.State) { notified++ })()

	s.ApplyState(model.State{
		DayPlans:      []model.DayPlan{{ID: "p9", Date: "2024-07-04", Meals: model.NewMeals(), Exercises: []model.Exercise{}}},
		MealTemplates: []model.Meal{{ID: "t1", Name: "Toast", Type: model.SlotBreakfast}},
		UserProfile:   &model.UserProfile{Name: "A", HeightCm: 200, WeightKg: 80},
		Theme:         model.ThemeDark,
	})
	if notified != 1 {
		t.Fatalf("expected one notification, got %d", notified)
	}
	snap := s.Snapshot()
	if len(snap.DayPlans) != 1 || len(snap.MealTemplates) != 1 || snap.Theme != model.ThemeDark {
		t.Fatalf("state not applied: %+v", snap)
	}
	if snap.UserProfile == nil || snap.UserProfile.BMI == nil || math.Abs(*snap.UserProfile.BMI-20) > 1e-9 {
		t.Fatalf("expected derived bmi 20, got %+v", snap.UserProfile)
	}

	s.ApplyState(model.State{DayPlans: []model.DayPlan{}, MealTemplates: []model.Meal{}})
	if snap := s.Snapshot(); snap.UserProfile == nil || snap.Theme != model.ThemeDark {
		t.Fatalf("nil profile and empty theme must keep current values: %+v", snap)
	}

	s.Undo()
	if !s.Undo() || !reflect.DeepEqual(s.DayPlans(), before) {
		t.Fatalf("expected plan swaps to be undoable, got %+v", s.DayPlans())
	}
}
