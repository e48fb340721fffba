package planner

import "github.com/saadjs/mealplan-cli/internal/model"

// History is a snapshot log over the whole day-plan collection. Snapshots are
// never modified after they are recorded.
//
// past is ordered oldest to newest. future holds the redo queue with the next
// snapshot to redo at the end of the slice.
type History struct {
	past   [][]model.DayPlan
	future [][]model.DayPlan
	limit  int
}

// NewHistory returns an empty history. limit bounds the undo depth; 0 means
// unbounded.
func NewHistory(limit int) *History {
	if limit < 0 {
		limit = 0
	}
	return &History{limit: limit}
}

// Record stores the pre-mutation collection and invalidates redo.
func (h *History) Record(before []model.DayPlan) {
	h.past = append(h.past, before)
	if h.limit > 0 && len(h.past) > h.limit {
		drop := len(h.past) - h.limit
		h.past = append([][]model.DayPlan(nil), h.past[drop:]...)
	}
	h.future = nil
}

// Undo pops the newest past snapshot and queues current for redo.
func (h *History) Undo(current []model.DayPlan) ([]model.DayPlan, bool) {
	if len(h.past) == 0 {
		return nil, false
	}
	last := len(h.past) - 1
	previous := h.past[last]
	h.past = h.past[:last]
	h.future = append(h.future, current)
	return previous, true
}

// Redo pops the next future snapshot and pushes current back onto past.
func (h *History) Redo(current []model.DayPlan) ([]model.DayPlan, bool) {
	if len(h.future) == 0 {
		return nil, false
	}
	last := len(h.future) - 1
	next := h.future[last]
	h.future = h.future[:last]
	h.past = append(h.past, current)
	return next, true
}

// CanUndo reports whether a snapshot is waiting on the undo stack.
func (h *History) CanUndo() bool { return len(h.past) > 0 }

// CanRedo reports whether an undone snapshot can be re-applied.
func (h *History) CanRedo() bool { return len(h.future) > 0 }

// Depth reports how many undo and redo steps are available.
func (h *History) Depth() (undo, redo int) {
	return len(h.past), len(h.future)
}

// Clear empties both stacks.
func (h *History) Clear() {
	h.past = nil
	h.future = nil
}
