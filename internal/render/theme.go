// Package render draws planner views for the terminal in the selected theme.
package render

import (
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/saadjs/mealplan-cli/internal/model"
)

type palette struct {
	accent    lipgloss.Color
	secondary lipgloss.Color
	muted     lipgloss.Color
	text      lipgloss.Color
	highlight lipgloss.Color
	// header colors cycle across weekday columns; colorful uses a pink to blue run.
	headers []lipgloss.Color
}

var palettes = map[model.Theme]palette{
	model.ThemeDefault: {
		accent:    "#4f46e5",
		secondary: "#0ea5e9",
		muted:     "#6b7280",
		text:      "#111827",
		highlight: "#dbeafe",
		headers:   []lipgloss.Color{"#4f46e5"},
	},
	model.ThemeAllBlue: {
		accent:    "#2563eb",
		secondary: "#3b82f6",
		muted:     "#60a5fa",
		text:      "#1e3a8a",
		highlight: "#eff6ff",
		headers:   []lipgloss.Color{"#2563eb"},
	},
	model.ThemeColorful: {
		accent:    "#ec4899",
		secondary: "#8b5cf6",
		muted:     "#a78bfa",
		text:      "#1f2937",
		highlight: "#fce7f3",
		headers:   []lipgloss.Color{"#ec4899", "#d946ef", "#a855f7", "#8b5cf6", "#6366f1", "#3b82f6", "#0ea5e9"},
	},
	model.ThemeDark: {
		accent:    "#e5e7eb",
		secondary: "#9ca3af",
		muted:     "#6b7280",
		text:      "#f3f4f6",
		highlight: "#1f2937",
		headers:   []lipgloss.Color{"#d1d5db"},
	},
}

// Renderer formats views for one output stream and theme. Colors are dropped
// automatically when out is not a terminal.
type Renderer struct {
	r     *lipgloss.Renderer
	theme model.Theme
	pal   palette

	title   lipgloss.Style
	heading lipgloss.Style
	body    lipgloss.Style
	muted   lipgloss.Style
	today   lipgloss.Style
	marked  lipgloss.Style
}

func New(out io.Writer, theme model.Theme) *Renderer {
	pal, ok := palettes[theme]
	if !ok {
		theme = model.ThemeDefault
		pal = palettes[theme]
	}
	r := lipgloss.NewRenderer(out)
	rd := &Renderer{r: r, theme: theme, pal: pal}
	rd.title = r.NewStyle().Bold(true).Foreground(pal.accent)
	rd.heading = r.NewStyle().Bold(true).Foreground(pal.secondary)
	rd.body = r.NewStyle().Foreground(pal.text)
	rd.muted = r.NewStyle().Foreground(pal.muted)
	rd.today = r.NewStyle().Bold(true).Foreground(pal.accent).Background(pal.highlight)
	rd.marked = r.NewStyle().Foreground(pal.secondary)
	if theme == model.ThemeDark {
		rd.body = rd.body.Background(lipgloss.Color("#1f2937"))
	}
	return rd
}

func (rd *Renderer) Theme() model.Theme { return rd.theme }

func (rd *Renderer) headerStyle(i int) lipgloss.Style {
	return rd.r.NewStyle().Bold(true).Foreground(rd.pal.headers[i%len(rd.pal.headers)])
}

// ThemeSwatch shows the theme's name in its own colors.
func (rd *Renderer) ThemeSwatch() string {
	return rd.title.Render(string(rd.theme)) + " " +
		rd.heading.Render("heading") + " " +
		rd.muted.Render("muted") + " " +
		rd.today.Render("today")
}
