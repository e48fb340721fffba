// Package planner owns the live meal/exercise plan state: day plans with
// snapshot undo/redo, meal templates, the user profile and the theme.
//
// Mutations run to completion under the store lock. Subscribers are called
// afterwards, outside the lock, with a deep copy of the new state.
package planner

import (
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/saadjs/mealplan-cli/internal/logger"
	"github.com/saadjs/mealplan-cli/internal/model"
)

// IDGenerator hands out opaque unique ids for plans, meals and exercises.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator is the default IDGenerator, producing random v4 UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.NewString() }

// Option configures a Store in New.
type Option func(*Store)

// WithHistoryLimit bounds the undo depth. 0 keeps every snapshot.
func WithHistoryLimit(n int) Option {
	return func(s *Store) { s.history = NewHistory(n) }
}

func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) { s.ids = g }
}

func WithLogger(l *logger.Logger) Option {
	return func(s *Store) { s.log = l }
}

type subscriber struct {
	id int
	fn func(model.State)
}

// Store owns the planner state. Day plan mutations are recorded in history;
// every mutation is published to subscribers after the lock is released.
type Store struct {
	mu        sync.Mutex
	plans     []model.DayPlan
	templates []model.Meal
	profile   *model.UserProfile
	theme     model.Theme
	history   *History
	ids       IDGenerator
	log       *logger.Logger
	subs      []subscriber
	nextSubID int
}

// New seeds a store from initial. History always starts empty.
func New(initial model.State, opts ...Option) *Store {
	s := &Store{
		plans:     clonePlans(initial.DayPlans),
		templates: cloneMeals(initial.MealTemplates),
		profile:   cloneProfile(initial.UserProfile),
		theme:     initial.Theme,
		history:   NewHistory(0),
		ids:       UUIDGenerator{},
		log:       logger.Discard(),
	}
	if s.theme == "" {
		s.theme = model.ThemeDefault
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewID returns a fresh id from the store's generator.
func (s *Store) NewID() string {
	return s.ids.NewID()
}

// Subscribe registers fn to receive the state after every mutation. The
// returned func removes the subscription.
func (s *Store) Subscribe(fn func(model.State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// AddDayPlan appends plan. A plan for the same date is not rejected; the
// duplicate is kept and logged.
func (s *Store) AddDayPlan(plan model.DayPlan) {
	s.mu.Lock()
	s.addDayPlanLocked(plan)
	s.unlockAndPublish()
}

// UpdateDayPlan replaces the plan with the same id. An unknown id drops the
// write but is still recorded in history. It reports whether a plan was
// replaced.
func (s *Store) UpdateDayPlan(plan model.DayPlan) bool {
	s.mu.Lock()
	found := s.updateDayPlanLocked(plan)
	s.unlockAndPublish()
	return found
}

// AddExerciseToPlan appends ex to the plan for date, creating the plan with
// empty meal slots when none exists.
func (s *Store) AddExerciseToPlan(date string, ex model.Exercise) {
	s.mu.Lock()
	if idx := s.indexForDateLocked(date); idx >= 0 {
		s.updateDayPlanLocked(s.plans[idx].WithExercise(ex))
	} else {
		s.addDayPlanLocked(model.DayPlan{
			ID:        s.ids.NewID(),
			Date:      date,
			Meals:     model.NewMeals(),
			Exercises: []model.Exercise{ex},
		})
	}
	s.unlockAndPublish()
}

// ReplaceDayPlans swaps the whole collection. It is a structural mutation and
// is recorded in history.
func (s *Store) ReplaceDayPlans(plans []model.DayPlan) {
	s.mu.Lock()
	s.history.Record(s.plans)
	s.plans = clonePlans(plans)
	s.unlockAndPublish()
}

func (s *Store) AddMealTemplate(meal model.Meal) {
	s.mu.Lock()
	next := make([]model.Meal, len(s.templates), len(s.templates)+1)
	copy(next, s.templates)
	s.templates = append(next, meal.Clone())
	s.unlockAndPublish()
}

// ReplaceMealTemplates swaps the template list. Templates are not part of
// undo history.
func (s *Store) ReplaceMealTemplates(templates []model.Meal) {
	s.mu.Lock()
	s.templates = cloneMeals(templates)
	s.unlockAndPublish()
}

// UpdateUserProfile stores profile with a freshly derived BMI and returns the
// stored value. A BMI that cannot be computed (height <= 0) is left unset.
func (s *Store) UpdateUserProfile(profile model.UserProfile) model.UserProfile {
	profile = s.withDerivedBMI(profile)
	s.mu.Lock()
	s.profile = cloneProfile(&profile)
	s.unlockAndPublish()
	return *cloneProfile(&profile)
}

func (s *Store) withDerivedBMI(profile model.UserProfile) model.UserProfile {
	bmi := BMI(profile.WeightKg, profile.HeightCm)
	profile.BMI = nil
	if !math.IsInf(bmi, 0) && !math.IsNaN(bmi) {
		profile.BMI = &bmi
	} else {
		s.log.Warn("profile %q: cannot derive bmi from height %.1fcm", profile.Name, profile.HeightCm)
	}
	return profile
}

// ApplyState swaps in a whole state as a single change: subscribers see one
// notification. The plan swap is recorded in history; templates are
// replaced, a nil profile keeps the current one and an empty theme keeps the
// current theme.
func (s *Store) ApplyState(st model.State) {
	var profile *model.UserProfile
	if st.UserProfile != nil {
		p := s.withDerivedBMI(*st.UserProfile)
		profile = &p
	}
	s.mu.Lock()
	s.history.Record(s.plans)
	s.plans = clonePlans(st.DayPlans)
	s.templates = cloneMeals(st.MealTemplates)
	if profile != nil {
		s.profile = cloneProfile(profile)
	}
	if st.Theme != "" {
		s.theme = st.Theme
	}
	s.unlockAndPublish()
}

func (s *Store) SetTheme(theme model.Theme) {
	s.mu.Lock()
	s.theme = theme
	s.unlockAndPublish()
}

// Undo restores the collection from before the latest structural mutation.
// It is a no-op when there is nothing to undo.
func (s *Store) Undo() bool {
	s.mu.Lock()
	previous, ok := s.history.Undo(s.plans)
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.plans = previous
	s.unlockAndPublish()
	return true
}

// Redo re-applies the most recently undone change. It is a no-op when there
// is nothing to redo.
func (s *Store) Redo() bool {
	s.mu.Lock()
	next, ok := s.history.Redo(s.plans)
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.plans = next
	s.unlockAndPublish()
	return true
}

func (s *Store) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanUndo()
}

func (s *Store) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanRedo()
}

// ClearHistory drops every undo and redo snapshot. State is unchanged, so
// subscribers are not notified.
func (s *Store) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.Clear()
}

func (s *Store) HistoryDepth() (undo, redo int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Depth()
}

// Snapshot returns a deep copy of the persistable state.
func (s *Store) Snapshot() model.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Store) DayPlans() []model.DayPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clonePlans(s.plans)
}

// PlanForDate returns the first plan whose date equals date exactly.
func (s *Store) PlanForDate(date string) (model.DayPlan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexForDateLocked(date)
	if idx < 0 {
		return model.DayPlan{}, false
	}
	return s.plans[idx].Clone(), true
}

// PlansBetween returns plans dated within [from, to], ordered by date. Empty
// bounds are open.
func (s *Store) PlansBetween(from, to string) []model.DayPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.DayPlan, 0)
	for _, p := range s.plans {
		if from != "" && p.Date < from {
			continue
		}
		if to != "" && p.Date > to {
			continue
		}
		out = append(out, p.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func (s *Store) MealTemplates() []model.Meal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneMeals(s.templates)
}

// MealTemplate finds a template by case-insensitive name.
func (s *Store) MealTemplate(name string) (model.Meal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name = strings.TrimSpace(name)
	for _, t := range s.templates {
		if strings.EqualFold(t.Name, name) {
			return t.Clone(), true
		}
	}
	return model.Meal{}, false
}

func (s *Store) UserProfile() *model.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneProfile(s.profile)
}

func (s *Store) Theme() model.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// BMI is weight in kilograms over height in meters squared.
func BMI(weightKg, heightCm float64) float64 {
	m := heightCm / 100
	return weightKg / (m * m)
}

func (s *Store) addDayPlanLocked(plan model.DayPlan) {
	if s.indexForDateLocked(plan.Date) >= 0 {
		s.log.Warn("adding second plan for %s (plan %s)", plan.Date, plan.ID)
	}
	s.history.Record(s.plans)
	next := make([]model.DayPlan, len(s.plans), len(s.plans)+1)
	copy(next, s.plans)
	s.plans = append(next, plan.Clone())
}

func (s *Store) updateDayPlanLocked(plan model.DayPlan) bool {
	s.history.Record(s.plans)
	next := make([]model.DayPlan, len(s.plans))
	found := false
	for i, p := range s.plans {
		if p.ID == plan.ID {
			next[i] = plan.Clone()
			found = true
			continue
		}
		next[i] = p
	}
	if !found {
		s.log.Warn("update for unknown plan %s dropped", plan.ID)
	}
	s.plans = next
	return found
}

func (s *Store) indexForDateLocked(date string) int {
	for i, p := range s.plans {
		if p.Date == date {
			return i
		}
	}
	return -1
}

func (s *Store) stateLocked() model.State {
	return model.State{
		DayPlans:      clonePlans(s.plans),
		MealTemplates: cloneMeals(s.templates),
		UserProfile:   cloneProfile(s.profile),
		Theme:         s.theme,
	}
}

// unlockAndPublish must be called with s.mu held.
func (s *Store) unlockAndPublish() {
	state := s.stateLocked()
	subs := append([]subscriber(nil), s.subs...)
	s.mu.Unlock()
	for _, sub := range subs {
		sub.fn(state)
	}
}

func clonePlans(in []model.DayPlan) []model.DayPlan {
	out := make([]model.DayPlan, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}

func cloneMeals(in []model.Meal) []model.Meal {
	out := make([]model.Meal, len(in))
	for i, m := range in {
		out[i] = m.Clone()
	}
	return out
}

func cloneProfile(p *model.UserProfile) *model.UserProfile {
	if p == nil {
		return nil
	}
	out := *p
	if p.BMI != nil {
		v := *p.BMI
		out.BMI = &v
	}
	return &out
}
