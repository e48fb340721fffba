package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/saadjs/mealplan-cli/internal/model"
	"github.com/saadjs/mealplan-cli/internal/service"
	"github.com/saadjs/mealplan-cli/internal/weather"
)

var weekdayHeaders = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Calendar draws a Sunday-first month grid. Days with a plan carry a dot;
// today is highlighted.
func (rd *Renderer) Calendar(month time.Time, plans []model.DayPlan, today string) string {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.Local)
	planned := map[string]bool{}
	for _, p := range plans {
		if p.Meals.Count() > 0 || len(p.Exercises) > 0 {
			planned[p.Date] = true
		}
	}

	var b strings.Builder
	b.WriteString(rd.title.Render(first.Format("January 2006")))
	b.WriteString("\n")
	heads := make([]string, len(weekdayHeaders))
	for i, h := range weekdayHeaders {
		heads[i] = rd.headerStyle(i).Render(fmt.Sprintf("%-4s", h))
	}
	b.WriteString(strings.Join(heads, " "))
	b.WriteString("\n")

	col := int(first.Weekday())
	cells := make([]string, 0, 7)
	for i := 0; i < col; i++ {
		cells = append(cells, "    ")
	}
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		date := d.Format(model.DateLayout)
		mark := " "
		if planned[date] {
			mark = "•"
		}
		cell := fmt.Sprintf("%2d%s ", d.Day(), mark)
		switch {
		case date == today:
			cell = rd.today.Render(cell)
		case planned[date]:
			cell = rd.marked.Render(cell)
		default:
			cell = rd.body.Render(cell)
		}
		cells = append(cells, cell)
		if len(cells) == 7 {
			b.WriteString(strings.TrimRight(strings.Join(cells, " "), " "))
			b.WriteString("\n")
			cells = cells[:0]
		}
	}
	if len(cells) > 0 {
		b.WriteString(strings.TrimRight(strings.Join(cells, " "), " "))
		b.WriteString("\n")
	}
	return b.String()
}

// DayPlan lists every meal slot and exercise for one date. plan may be nil.
func (rd *Renderer) DayPlan(date string, plan *model.DayPlan) string {
	var b strings.Builder
	b.WriteString(rd.title.Render(date))
	b.WriteString("\n")
	if plan == nil {
		b.WriteString(rd.muted.Render("  nothing planned"))
		b.WriteString("\n")
		return b.String()
	}
	for _, slot := range model.MealSlots {
		b.WriteString(rd.heading.Render(slotTitle(slot)))
		b.WriteString("\n")
		meals := plan.Meals[slot]
		if len(meals) == 0 {
			b.WriteString(rd.muted.Render("  -"))
			b.WriteString("\n")
			continue
		}
		for _, m := range meals {
			b.WriteString("  " + rd.body.Render(mealLine(m)))
			b.WriteString("\n")
		}
	}
	b.WriteString(rd.heading.Render("Exercise"))
	b.WriteString("\n")
	if len(plan.Exercises) == 0 {
		b.WriteString(rd.muted.Render("  -"))
		b.WriteString("\n")
	}
	for _, ex := range plan.Exercises {
		b.WriteString("  " + rd.body.Render(exerciseLine(ex)))
		b.WriteString("\n")
	}
	return b.String()
}

// PlanList prints one summary row per plan.
func (rd *Renderer) PlanList(plans []model.DayPlan) string {
	if len(plans) == 0 {
		return rd.muted.Render("no plans in range") + "\n"
	}
	var b strings.Builder
	b.WriteString(rd.heading.Render(fmt.Sprintf("%-10s  %5s  %9s  %8s", "DATE", "MEALS", "EXERCISES", "KCAL")))
	b.WriteString("\n")
	for _, p := range plans {
		status := service.SummarizeDay(p.Date, []model.DayPlan{p})
		b.WriteString(rd.body.Render(fmt.Sprintf("%-10s  %5d  %9d  %8s", p.Date, status.MealCount, status.ExerciseCount, formatNumber(status.Calories))))
		b.WriteString("\n")
	}
	return b.String()
}

func (rd *Renderer) Summary(status service.DayStatus) string {
	var b strings.Builder
	b.WriteString(rd.title.Render("Summary " + status.Date))
	b.WriteString("\n")
	for _, s := range status.BySlot {
		line := fmt.Sprintf("  %-9s %2d meals  %6s kcal  P %s  C %s  F %s", slotTitle(s.Slot), s.Meals, formatNumber(s.Calories), formatNumber(s.ProteinG), formatNumber(s.CarbsG), formatNumber(s.FatG))
		b.WriteString(rd.body.Render(line))
		b.WriteString("\n")
	}
	b.WriteString(rd.heading.Render(fmt.Sprintf("  Total     %2d meals  %6s kcal  P %s  C %s  F %s", status.MealCount, formatNumber(status.Calories), formatNumber(status.ProteinG), formatNumber(status.CarbsG), formatNumber(status.FatG))))
	b.WriteString("\n")
	b.WriteString(rd.body.Render(fmt.Sprintf("  Exercise  %d sessions, %s min", status.ExerciseCount, formatNumber(status.ExerciseMinutes))))
	b.WriteString("\n")
	return b.String()
}

func (rd *Renderer) Profile(p *model.UserProfile, system service.UnitSystem) string {
	if p == nil {
		return rd.muted.Render("no profile set (use: mealplan profile set)") + "\n"
	}
	height, weight, hu, wu := service.DisplayMeasurements(*p, system)
	var b strings.Builder
	b.WriteString(rd.title.Render(p.Name))
	b.WriteString("\n")
	b.WriteString(rd.body.Render(fmt.Sprintf("  Age     %d", p.Age)))
	b.WriteString("\n")
	b.WriteString(rd.body.Render(fmt.Sprintf("  Height  %.1f %s", height, hu)))
	b.WriteString("\n")
	b.WriteString(rd.body.Render(fmt.Sprintf("  Weight  %.1f %s", weight, wu)))
	b.WriteString("\n")
	if p.BMI != nil {
		b.WriteString(rd.heading.Render(fmt.Sprintf("  BMI     %.1f (%s)", *p.BMI, service.BMICategory(*p.BMI))))
	} else {
		b.WriteString(rd.muted.Render("  BMI     n/a"))
	}
	b.WriteString("\n")
	return b.String()
}

func (rd *Renderer) Forecast(days []weather.DayForecast, live bool) string {
	var b strings.Builder
	title := "Weather"
	if !live {
		title += " (offline)"
	}
	b.WriteString(rd.title.Render(title))
	b.WriteString("\n")
	for i, d := range days {
		line := fmt.Sprintf("  %-8s %4d°F  %-13s %s", d.Day, d.Temp, d.Condition, d.Description)
		b.WriteString(rd.headerStyle(i).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (rd *Renderer) SunTimes(sun weather.SunTimes, live bool) string {
	line := fmt.Sprintf("Sunrise %s  Sunset %s", sun.Sunrise, sun.Sunset)
	if !live {
		line += " (offline)"
	}
	return rd.heading.Render(line) + "\n"
}

func slotTitle(slot model.MealSlot) string {
	s := string(slot)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func mealLine(m model.Meal) string {
	parts := []string{m.Name}
	if m.Calories != nil {
		parts = append(parts, formatNumber(*m.Calories)+" kcal")
	}
	if m.Portions != nil {
		parts = append(parts, "x"+formatNumber(*m.Portions))
	}
	macros := make([]string, 0, 3)
	if m.ProteinG != nil {
		macros = append(macros, "P "+formatNumber(*m.ProteinG)+"g")
	}
	if m.CarbsG != nil {
		macros = append(macros, "C "+formatNumber(*m.CarbsG)+"g")
	}
	if m.FatG != nil {
		macros = append(macros, "F "+formatNumber(*m.FatG)+"g")
	}
	if len(macros) > 0 {
		parts = append(parts, strings.Join(macros, " "))
	}
	line := strings.Join(parts, "  ")
	if m.Notes != "" {
		line += "  (" + m.Notes + ")"
	}
	return line
}

func exerciseLine(ex model.Exercise) string {
	line := fmt.Sprintf("%s %s min (%s)", ex.Type, formatNumber(ex.DurationMin), ex.Intensity)
	if ex.Recurring != nil {
		line += "  " + recurrenceLabel(*ex.Recurring)
	}
	if ex.Notes != "" {
		line += "  (" + ex.Notes + ")"
	}
	return line
}

func recurrenceLabel(r model.Recurring) string {
	if len(r.Days) == 0 {
		return "repeats " + string(r.Frequency)
	}
	names := make([]string, 0, len(r.Days))
	for _, d := range r.Days {
		if d >= 0 && d < len(weekdayHeaders) {
			names = append(names, weekdayHeaders[d])
		}
	}
	return "repeats " + string(r.Frequency) + " on " + strings.Join(names, ",")
}

// formatNumber prints at most one decimal place.
func formatNumber(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64)
}
