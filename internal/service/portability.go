package service

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/saadjs/mealplan-cli/internal/model"
	"github.com/saadjs/mealplan-cli/internal/persist"
)

const exportFormatVersion = 1

// ExportData is the persisted state plus a small header. A bare persisted
// slot payload is also accepted on import.
type ExportData struct {
	FormatVersion int    `json:"format_version"`
	ExportedAt    string `json:"exported_at"`
	model.State
}

type ImportMode string

const (
	ImportModeMerge   ImportMode = "merge"
	ImportModeReplace ImportMode = "replace"
)

type ImportOptions struct {
	Mode   ImportMode
	DryRun bool
}

type ImportReport struct {
	Inserted  int      `json:"inserted"`
	Updated   int      `json:"updated"`
	Skipped   int      `json:"skipped"`
	Conflicts int      `json:"conflicts"`
	Warnings  []string `json:"warnings,omitempty"`
}

func ParseImportMode(raw string) (ImportMode, error) {
	switch m := ImportMode(strings.ToLower(strings.TrimSpace(raw))); m {
	case "", ImportModeMerge:
		return ImportModeMerge, nil
	case ImportModeReplace:
		return ImportModeReplace, nil
	default:
		return "", fmt.Errorf("invalid import mode %q (use merge or replace)", raw)
	}
}

func ExportDataSnapshot(state model.State, now time.Time) ExportData {
	return ExportData{
		FormatVersion: exportFormatVersion,
		ExportedAt:    now.Format(time.RFC3339),
		State:         state,
	}
}

func EncodeExport(data ExportData) ([]byte, error) {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return append(b, '\n'), nil
}

func DecodeExport(payload []byte) (model.State, error) {
	var header struct {
		FormatVersion int `json:"format_version"`
	}
	if err := json.Unmarshal(payload, &header); err != nil {
		return model.State{}, fmt.Errorf("decode export header: %w", err)
	}
	if header.FormatVersion > exportFormatVersion {
		return model.State{}, fmt.Errorf("unsupported export format version %d", header.FormatVersion)
	}
	return persist.Decode(payload)
}

// PlanImport computes the state that results from importing incoming into
// current. Replace swaps plans, templates and theme wholesale and keeps the
// current profile only when incoming has none. Merge folds incoming plans into
// existing plans on the same date, skipping meals and exercises whose ids are
// already present, adds templates with new names, and never overwrites an
// existing profile or theme.
func PlanImport(current, incoming model.State, opts ImportOptions) (model.State, ImportReport, error) {
	mode := opts.Mode
	if mode == "" {
		mode = ImportModeMerge
	}
	report := ImportReport{}
	switch mode {
	case ImportModeReplace:
		out := model.State{
			DayPlans:      clonePlanSlice(incoming.DayPlans),
			MealTemplates: cloneMealSlice(incoming.MealTemplates),
			UserProfile:   incoming.UserProfile,
			Theme:         incoming.Theme,
		}
		if out.UserProfile == nil {
			out.UserProfile = current.UserProfile
		}
		if out.Theme == "" {
			out.Theme = model.ThemeDefault
		}
		report.Inserted = len(out.DayPlans) + len(out.MealTemplates)
		return out, report, nil
	case ImportModeMerge:
	default:
		return model.State{}, report, fmt.Errorf("invalid import mode %q", mode)
	}

	out := model.State{
		DayPlans:      clonePlanSlice(current.DayPlans),
		MealTemplates: cloneMealSlice(current.MealTemplates),
		UserProfile:   current.UserProfile,
		Theme:         current.Theme,
	}
	byDate := map[string]int{}
	for i, p := range out.DayPlans {
		if _, ok := byDate[p.Date]; !ok {
			byDate[p.Date] = i
		}
	}
	for _, in := range incoming.DayPlans {
		i, ok := byDate[in.Date]
		if !ok {
			byDate[in.Date] = len(out.DayPlans)
			out.DayPlans = append(out.DayPlans, in.Clone())
			report.Inserted++
			continue
		}
		target := &out.DayPlans[i]
		if target.Meals == nil {
			target.Meals = model.NewMeals()
		}
		known := knownIDs(*target)
		changed := false
		for _, slot := range model.MealSlots {
			for _, m := range in.Meals[slot] {
				if m.ID != "" && known[m.ID] {
					report.Skipped++
					continue
				}
				target.Meals[slot] = append(target.Meals[slot], m.Clone())
				changed = true
			}
		}
		for _, ex := range in.Exercises {
			if ex.ID != "" && known[ex.ID] {
				report.Skipped++
				continue
			}
			target.Exercises = append(target.Exercises, ex.Clone())
			changed = true
		}
		if changed {
			report.Updated++
		}
	}

	names := map[string]bool{}
	for _, t := range out.MealTemplates {
		names[normalizeName(t.Name)] = true
	}
	for _, t := range incoming.MealTemplates {
		key := normalizeName(t.Name)
		if names[key] {
			report.Skipped++
			continue
		}
		names[key] = true
		out.MealTemplates = append(out.MealTemplates, t.Clone())
		report.Inserted++
	}

	if incoming.UserProfile != nil {
		switch {
		case out.UserProfile == nil:
			out.UserProfile = incoming.UserProfile
			report.Inserted++
		case !sameProfile(*out.UserProfile, *incoming.UserProfile):
			report.Conflicts++
			report.Warnings = append(report.Warnings, "kept existing profile; imported profile differs")
		}
	}
	if incoming.Theme != "" && incoming.Theme != out.Theme {
		report.Warnings = append(report.Warnings, fmt.Sprintf("kept theme %s; import had %s", out.Theme, incoming.Theme))
	}
	return out, report, nil
}

func knownIDs(p model.DayPlan) map[string]bool {
	ids := map[string]bool{}
	for _, meals := range p.Meals {
		for _, m := range meals {
			ids[m.ID] = true
		}
	}
	for _, ex := range p.Exercises {
		ids[ex.ID] = true
	}
	return ids
}

func sameProfile(a, b model.UserProfile) bool {
	a.BMI, b.BMI = nil, nil
	return reflect.DeepEqual(a, b)
}

func clonePlanSlice(in []model.DayPlan) []model.DayPlan {
	out := make([]model.DayPlan, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}

func cloneMealSlice(in []model.Meal) []model.Meal {
	out := make([]model.Meal, len(in))
	for i, m := range in {
		out[i] = m.Clone()
	}
	return out
}
