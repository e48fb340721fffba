// Package persist mirrors planner state into a single named durable slot and
// rehydrates it on start.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/saadjs/mealplan-cli/internal/logger"
	"github.com/saadjs/mealplan-cli/internal/model"
)

const DefaultSlotName = "meal-planner-storage"

var ErrSlotNotFound = errors.New("storage slot not found")

// Slot is one durable key/value cell. Implementations return ErrSlotNotFound
// from Load when nothing has been saved under name yet.
type Slot interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, payload []byte) error
	Close() error
}

// WriteCounter is implemented by slots that track how often a slot was saved.
type WriteCounter interface {
	WriteCount(ctx context.Context, name string) (int, error)
}

// Source is anything that can push state changes, normally *planner.Store.
type Source interface {
	Subscribe(fn func(model.State)) func()
}

func ValidateSlotName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("storage slot name is required")
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("invalid storage slot name %q", name)
	}
	return nil
}

func Encode(state model.State) ([]byte, error) {
	b, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return b, nil
}

// Decode parses a persisted payload and fills in defaults for anything
// missing. Unknown themes fall back to the default theme.
func Decode(payload []byte) (model.State, error) {
	var st model.State
	if err := json.Unmarshal(payload, &st); err != nil {
		return model.State{}, fmt.Errorf("decode state: %w", err)
	}
	if st.DayPlans == nil {
		st.DayPlans = []model.DayPlan{}
	}
	for i := range st.DayPlans {
		st.DayPlans[i].Meals = st.DayPlans[i].Meals.Normalize()
		if st.DayPlans[i].Exercises == nil {
			st.DayPlans[i].Exercises = []model.Exercise{}
		}
	}
	if st.MealTemplates == nil {
		st.MealTemplates = []model.Meal{}
	}
	if _, err := model.ParseTheme(string(st.Theme)); err != nil {
		st.Theme = model.ThemeDefault
	}
	return st, nil
}

type Boundary struct {
	slot Slot
	name string
	log  *logger.Logger

	mu      sync.Mutex
	lastErr error
	writes  int
}

func NewBoundary(slot Slot, name string, log *logger.Logger) *Boundary {
	if strings.TrimSpace(name) == "" {
		name = DefaultSlotName
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Boundary{slot: slot, name: name, log: log}
}

func (b *Boundary) Name() string { return b.name }

// Hydrate reads the slot. A missing or unreadable slot yields default state;
// the problem is logged rather than returned.
func (b *Boundary) Hydrate(ctx context.Context) model.State {
	payload, err := b.slot.Load(ctx, b.name)
	if errors.Is(err, ErrSlotNotFound) {
		b.log.Debug("slot %s is empty, starting fresh", b.name)
		return model.DefaultState()
	}
	if err != nil {
		b.log.Warn("load slot %s: %v; starting fresh", b.name, err)
		return model.DefaultState()
	}
	st, err := Decode(payload)
	if err != nil {
		b.log.Warn("slot %s: %v; starting fresh", b.name, err)
		return model.DefaultState()
	}
	b.log.Debug("hydrated slot %s (%d plans, %d templates)", b.name, len(st.DayPlans), len(st.MealTemplates))
	return st
}

// Save encodes state and writes it to the slot.
func (b *Boundary) Save(ctx context.Context, state model.State) error {
	payload, err := Encode(state)
	if err == nil {
		err = b.slot.Save(ctx, b.name, payload)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.lastErr = fmt.Errorf("persist slot %s: %w", b.name, err)
		b.log.Error("%v", b.lastErr)
		return b.lastErr
	}
	b.writes++
	return nil
}

// Attach mirrors every state change from src into the slot until the
// returned func is called.
func (b *Boundary) Attach(ctx context.Context, src Source) func() {
	return src.Subscribe(func(st model.State) {
		_ = b.Save(ctx, st)
	})
}

// Err returns the most recent write failure, if any.
func (b *Boundary) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

func (b *Boundary) Writes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writes
}

// SlotWrites returns the lifetime save count kept by the slot backend. ok is
// false when the backend does not track one.
func (b *Boundary) SlotWrites(ctx context.Context) (n int, ok bool, err error) {
	wc, ok := b.slot.(WriteCounter)
	if !ok {
		return 0, false, nil
	}
	n, err = wc.WriteCount(ctx, b.name)
	return n, true, err
}

func (b *Boundary) Close() error {
	return b.slot.Close()
}
