package weather

import (
	"context"
	"sync"
	"time"

	"github.com/saadjs/mealplan-cli/internal/logger"
)

type WatcherOption func(*Watcher)

// WithForecastInterval and WithSunInterval ignore non-positive durations.
func WithForecastInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.forecastEvery = d
		}
	}
}

func WithSunInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.sunEvery = d
		}
	}
}

func WithWatcherLogger(l *logger.Logger) WatcherOption {
	return func(w *Watcher) { w.log = l }
}

// OnForecast and OnSunTimes may be called from different goroutines.
func OnForecast(fn func(days []DayForecast, live bool)) WatcherOption {
	return func(w *Watcher) { w.onForecast = fn }
}

func OnSunTimes(fn func(sun SunTimes, live bool)) WatcherOption {
	return func(w *Watcher) { w.onSun = fn }
}

// Watcher refreshes the forecast and sun times on independent tickers
// (every 30 minutes and every hour by default). Results that arrive after
// the context is cancelled are dropped.
type Watcher struct {
	svc           *Service
	locator       *Locator
	forecastEvery time.Duration
	sunEvery      time.Duration
	onForecast    func([]DayForecast, bool)
	onSun         func(SunTimes, bool)
	log           *logger.Logger
}

func NewWatcher(svc *Service, locator *Locator, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		svc:           svc,
		locator:       locator,
		forecastEvery: 30 * time.Minute,
		sunEvery:      time.Hour,
		log:           logger.Discard(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run loads both widgets immediately and then on their intervals. Blocks
// until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	coords, source := w.locator.Locate(ctx)
	if ctx.Err() != nil {
		return
	}
	w.log.Info("weather watcher started at %.4f,%.4f (%s)", coords.Lat, coords.Lon, source)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		w.loop(ctx, w.forecastEvery, func() { w.refreshForecast(ctx, coords) })
	}()
	go func() {
		defer wg.Done()
		w.loop(ctx, w.sunEvery, func() { w.refreshSun(ctx, coords) })
	}()
	wg.Wait()
	w.log.Info("weather watcher stopped")
}

func (w *Watcher) loop(ctx context.Context, every time.Duration, refresh func()) {
	refresh()
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh()
		}
	}
}

func (w *Watcher) refreshForecast(ctx context.Context, c Coords) {
	days, live := w.svc.Forecast(ctx, c)
	if ctx.Err() != nil {
		w.log.Debug("weather: dropping forecast that arrived after shutdown")
		return
	}
	if w.onForecast != nil {
		w.onForecast(days, live)
	}
}

func (w *Watcher) refreshSun(ctx context.Context, c Coords) {
	sun, live := w.svc.SunTimes(ctx, c)
	if ctx.Err() != nil {
		w.log.Debug("weather: dropping sun times that arrived after shutdown")
		return
	}
	if w.onSun != nil {
		w.onSun(sun, live)
	}
}
