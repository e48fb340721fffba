package weather

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/saadjs/mealplan-cli/internal/provider/openweather"
)

type fakeSource struct {
	entries  []openweather.ForecastEntry
	current  openweather.Current
	err      error
	block    bool
	forecast atomic.Int32
	sun      atomic.Int32
}

func (f *fakeSource) Forecast(ctx context.Context, _, _ float64) ([]openweather.ForecastEntry, error) {
	f.forecast.Add(1)
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.entries, f.err
}

func (f *fakeSource) CurrentWeather(ctx context.Context, _, _ float64) (openweather.Current, error) {
	f.sun.Add(1)
	if f.block {
		<-ctx.Done()
		return openweather.Current{}, ctx.Err()
	}
	return f.current, f.err
}

func fixedClock() func() time.Time {
	return func() time.Time { return time.Date(2024, 6, 1, 10, 0, 0, 0, time.Local) }
}

func TestServiceFallsBackOnError(t *testing.T) {
	t.Parallel()
	svc := NewService(&fakeSource{err: errors.New("status 401")}, WithClock(fixedClock()))

	days, live := svc.Forecast(context.Background(), DefaultCoords)
	if live || len(days) != 5 || days[0].Temp != 72 {
		t.Fatalf("expected fallback forecast, got live=%v %+v", live, days)
	}
	sun, live := svc.SunTimes(context.Background(), DefaultCoords)
	if live || sun != FallbackSunTimes() {
		t.Fatalf("expected fallback sun times, got live=%v %+v", live, sun)
	}
}

func TestServiceFallsBackWhenNoDaysMatch(t *testing.T) {
	t.Parallel()
	src := &fakeSource{entries: []openweather.ForecastEntry{{DtTxt: "1999-01-01 12:00:00", Main: "Clear"}}}
	days, live := NewService(src, WithClock(fixedClock())).Forecast(context.Background(), DefaultCoords)
	if live || len(days) != 5 {
		t.Fatalf("expected fallback forecast, got live=%v %+v", live, days)
	}
}

func TestServiceLiveData(t *testing.T) {
	t.Parallel()
	src := &fakeSource{
		entries: []openweather.ForecastEntry{{DtTxt: "2024-06-01 12:00:00", Temp: 70.2, Main: "Clear", Icon: "01d", Description: "clear sky"}},
		current: openweather.Current{Sunrise: time.Unix(1717233000, 0), Sunset: time.Unix(1717273500, 0)},
	}
	svc := NewService(src, WithClock(fixedClock()), WithLocation(time.UTC))

	days, live := svc.Forecast(context.Background(), DefaultCoords)
	if !live || len(days) != 1 || days[0].Day != "Today" || days[0].Temp != 70 {
		t.Fatalf("unexpected live forecast live=%v %+v", live, days)
	}
	sun, live := svc.SunTimes(context.Background(), DefaultCoords)
	if !live || sun.Sunrise != "9:10 AM" || sun.Sunset != "8:25 PM" {
		t.Fatalf("unexpected live sun times live=%v %+v", live, sun)
	}
}

func TestServiceWithoutSource(t *testing.T) {
	t.Parallel()
	svc := NewService(nil, WithClock(fixedClock()))
	if _, live := svc.Forecast(context.Background(), DefaultCoords); live {
		t.Fatalf("expected fallback without a source")
	}
	if _, live := svc.SunTimes(context.Background(), DefaultCoords); live {
		t.Fatalf("expected fallback without a source")
	}
}
