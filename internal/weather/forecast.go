// Package weather turns raw OpenWeatherMap data into the five day forecast
// and sun times shown next to the planner, falling back to fixed content
// whenever the live source cannot be used.
package weather

import (
	"math"
	"strings"
	"time"

	"github.com/saadjs/mealplan-cli/internal/model"
	"github.com/saadjs/mealplan-cli/internal/provider/openweather"
)

type Coords struct {
	Lat float64 `yaml:"lat" json:"lat"`
	Lon float64 `yaml:"lon" json:"lon"`
}

// DefaultCoords is New York City.
var DefaultCoords = Coords{Lat: 40.7128, Lon: -74.0060}

type Condition string

const (
	ConditionSunny        Condition = "sunny"
	ConditionPartlyCloudy Condition = "partly-cloudy"
	ConditionCloudy       Condition = "cloudy"
	ConditionRainy        Condition = "rainy"
	ConditionSnowy        Condition = "snowy"
)

type DayForecast struct {
	Day         string    `json:"day"`
	Temp        int       `json:"temp"`
	Condition   Condition `json:"condition"`
	Icon        string    `json:"icon"`
	Description string    `json:"description"`
}

type SunTimes struct {
	Sunrise string `json:"sunrise"`
	Sunset  string `json:"sunset"`
}

const forecastDays = 5

func MapCondition(main string) Condition {
	switch strings.ToLower(strings.TrimSpace(main)) {
	case "clear":
		return ConditionSunny
	case "clouds":
		return ConditionCloudy
	case "rain", "drizzle", "thunderstorm":
		return ConditionRainy
	case "snow":
		return ConditionSnowy
	default:
		return ConditionPartlyCloudy
	}
}

// DayLabel names the day offset days after today: Today, Tomorrow, then the
// short weekday.
func DayLabel(offset int, day time.Time) string {
	switch offset {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	default:
		return day.Format("Mon")
	}
}

// BuildForecast picks one entry per day for today and the next four days,
// preferring the noon slot. Days with no entries are left out.
func BuildForecast(entries []openweather.ForecastEntry, now time.Time) []DayForecast {
	out := make([]DayForecast, 0, forecastDays)
	for i := 0; i < forecastDays; i++ {
		day := now.AddDate(0, 0, i)
		prefix := day.Format(model.DateLayout)
		entry, ok := pickEntry(entries, prefix)
		if !ok {
			continue
		}
		out = append(out, DayForecast{
			Day:         DayLabel(i, day),
			Temp:        roundHalfUp(entry.Temp),
			Condition:   MapCondition(entry.Main),
			Icon:        entry.Icon,
			Description: entry.Description,
		})
	}
	return out
}

func pickEntry(entries []openweather.ForecastEntry, datePrefix string) (openweather.ForecastEntry, bool) {
	for _, e := range entries {
		if strings.HasPrefix(e.DtTxt, datePrefix) && strings.Contains(e.DtTxt, "12:00:00") {
			return e, true
		}
	}
	for _, e := range entries {
		if strings.HasPrefix(e.DtTxt, datePrefix) {
			return e, true
		}
	}
	return openweather.ForecastEntry{}, false
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// FallbackForecast is shown whenever live data is unavailable.
func FallbackForecast(now time.Time) []DayForecast {
	fixed := []struct {
		temp  int
		cond  Condition
		icon  string
		descr string
	}{
		{72, ConditionSunny, "01d", "Clear sky"},
		{68, ConditionPartlyCloudy, "02d", "Few clouds"},
		{65, ConditionCloudy, "03d", "Scattered clouds"},
		{70, ConditionRainy, "10d", "Light rain"},
		{75, ConditionSunny, "01d", "Clear sky"},
	}
	out := make([]DayForecast, 0, len(fixed))
	for i, f := range fixed {
		out = append(out, DayForecast{
			Day:         DayLabel(i, now.AddDate(0, 0, i)),
			Temp:        f.temp,
			Condition:   f.cond,
			Icon:        f.icon,
			Description: f.descr,
		})
	}
	return out
}

func FallbackSunTimes() SunTimes {
	return SunTimes{Sunrise: "6:30 AM", Sunset: "7:30 PM"}
}

// FormatClock renders t like "6:04 AM" in loc.
func FormatClock(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("3:04 PM")
}
