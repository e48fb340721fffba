package weather

import (
	"context"
	"time"

	"github.com/saadjs/mealplan-cli/internal/logger"
	"github.com/saadjs/mealplan-cli/internal/provider/openweather"
)

// Source is the live data the service reads, normally *openweather.Client.
type Source interface {
	Forecast(ctx context.Context, lat, lon float64) ([]openweather.ForecastEntry, error)
	CurrentWeather(ctx context.Context, lat, lon float64) (openweather.Current, error)
}

type ServiceOption func(*Service)

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the zone sun times are rendered in.
func WithLocation(loc *time.Location) ServiceOption {
	return func(s *Service) { s.loc = loc }
}

func WithServiceLogger(l *logger.Logger) ServiceOption {
	return func(s *Service) { s.log = l }
}

// Service never returns an error: every failure is logged and answered with
// fallback content. The bool results report whether the data is live.
type Service struct {
	src Source
	now func() time.Time
	loc *time.Location
	log *logger.Logger
}

func NewService(src Source, opts ...ServiceOption) *Service {
	s := &Service{src: src, now: time.Now, loc: time.Local, log: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Forecast(ctx context.Context, c Coords) ([]DayForecast, bool) {
	now := s.now()
	if s.src == nil {
		return FallbackForecast(now), false
	}
	entries, err := s.src.Forecast(ctx, c.Lat, c.Lon)
	if err != nil {
		s.log.Warn("weather: forecast unavailable: %v", err)
		return FallbackForecast(now), false
	}
	days := BuildForecast(entries, now)
	if len(days) == 0 {
		s.log.Warn("weather: forecast has no entries for the coming days")
		return FallbackForecast(now), false
	}
	return days, true
}

func (s *Service) SunTimes(ctx context.Context, c Coords) (SunTimes, bool) {
	if s.src == nil {
		return FallbackSunTimes(), false
	}
	cur, err := s.src.CurrentWeather(ctx, c.Lat, c.Lon)
	if err != nil {
		s.log.Warn("weather: sun times unavailable: %v", err)
		return FallbackSunTimes(), false
	}
	return SunTimes{Sunrise: FormatClock(cur.Sunrise, s.loc), Sunset: FormatClock(cur.Sunset, s.loc)}, true
}
