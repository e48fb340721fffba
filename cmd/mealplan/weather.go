package mealplan

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/saadjs/mealplan-cli/internal/config"
	"github.com/saadjs/mealplan-cli/internal/logger"
	"github.com/saadjs/mealplan-cli/internal/provider/ipgeo"
	"github.com/saadjs/mealplan-cli/internal/provider/openweather"
	"github.com/saadjs/mealplan-cli/internal/weather"
)

var weatherCmd = &cobra.Command{
	Use:   "weather",
	Short: "Show the weather widget",
}

var (
	weatherForecastEvery time.Duration
	weatherSunEvery      time.Duration
)

func newWeatherService(cfg config.Config, log *logger.Logger) *weather.Service {
	var src weather.Source
	if cfg.Weather.APIKey != "" {
		src = &openweather.Client{BaseURL: cfg.Weather.BaseURL, APIKey: cfg.Weather.APIKey}
	} else {
		log.Debug("weather: no api key configured, showing offline content")
	}
	return weather.NewService(src, weather.WithServiceLogger(log))
}

func newLocator(cfg config.Config, log *logger.Logger) *weather.Locator {
	var configured *weather.Coords
	if cfg.Weather.Lat != nil && cfg.Weather.Lon != nil {
		configured = &weather.Coords{Lat: *cfg.Weather.Lat, Lon: *cfg.Weather.Lon}
	}
	var ip weather.IPLookup
	if cfg.Weather.GeoLookup {
		ip = &ipgeo.Client{}
	}
	return weather.NewLocator(configured, ip, log)
}

var weatherForecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Show the 5 day forecast",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(s *session) error {
			coords, _ := newLocator(s.cfg, s.log).Locate(cmd.Context())
			days, live := newWeatherService(s.cfg, s.log).Forecast(cmd.Context(), coords)
			s.metrics.ObserveWeather("forecast", live)
			fmt.Fprint(cmd.OutOrStdout(), s.renderer(cmd).Forecast(days, live))
			return nil
		})
	},
}

var weatherSunCmd = &cobra.Command{
	Use:   "sun",
	Short: "Show today's sunrise and sunset",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(s *session) error {
			coords, _ := newLocator(s.cfg, s.log).Locate(cmd.Context())
			sun, live := newWeatherService(s.cfg, s.log).SunTimes(cmd.Context(), coords)
			s.metrics.ObserveWeather("sun", live)
			fmt.Fprint(cmd.OutOrStdout(), s.renderer(cmd).SunTimes(sun, live))
			return nil
		})
	},
}

var weatherWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the forecast and sun times refreshed until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		if weatherForecastEvery <= 0 || weatherSunEvery <= 0 {
			return fmt.Errorf("--forecast-every and --sun-every must be > 0")
		}
		return withStore(cmd, func(s *session) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			runWeatherWatch(ctx, cmd, s)
			return nil
		})
	},
}

func runWeatherWatch(ctx context.Context, cmd *cobra.Command, s *session) {
	rd := s.renderer(cmd)
	var mu sync.Mutex
	w := weather.NewWatcher(newWeatherService(s.cfg, s.log), newLocator(s.cfg, s.log),
		weather.WithForecastInterval(weatherForecastEvery),
		weather.WithSunInterval(weatherSunEvery),
		weather.WithWatcherLogger(s.log),
		weather.OnForecast(func(days []weather.DayForecast, live bool) {
			mu.Lock()
			defer mu.Unlock()
			s.metrics.ObserveWeather("forecast", live)
			fmt.Fprint(cmd.OutOrStdout(), rd.Forecast(days, live))
		}),
		weather.OnSunTimes(func(sun weather.SunTimes, live bool) {
			mu.Lock()
			defer mu.Unlock()
			s.metrics.ObserveWeather("sun", live)
			fmt.Fprint(cmd.OutOrStdout(), rd.SunTimes(sun, live))
		}),
	)
	w.Run(ctx)
}

func init() {
	rootCmd.AddCommand(weatherCmd)
	weatherCmd.AddCommand(weatherForecastCmd, weatherSunCmd, weatherWatchCmd)

	weatherWatchCmd.Flags().DurationVar(&weatherForecastEvery, "forecast-every", 30*time.Minute, "Forecast refresh interval")
	weatherWatchCmd.Flags().DurationVar(&weatherSunEvery, "sun-every", time.Hour, "Sun times refresh interval")
}
