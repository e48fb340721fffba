package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

var ErrMissingAPIKey = errors.New("openweathermap api key is not configured")

// ForecastEntry is one three-hour slot of the 5 day forecast.
type ForecastEntry struct {
	DtTxt       string
	Temp        float64
	Main        string
	Description string
	Icon        string
}

type Current struct {
	Sunrise time.Time
	Sunset  time.Time
	Temp    float64
	Main    string
	City    string
}

type Client struct {
	BaseURL    string
	APIKey     string
	Units      string
	HTTPClient *http.Client
}

type forecastResponse struct {
	List []struct {
		DtTxt string `json:"dt_txt"`
		Main  struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []weatherDesc `json:"weather"`
	} `json:"list"`
}

type weatherDesc struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type currentResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []weatherDesc `json:"weather"`
	Sys     struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"sys"`
}

func (c *Client) Forecast(ctx context.Context, lat, lon float64) ([]ForecastEntry, error) {
	var parsed forecastResponse
	if err := c.get(ctx, "/forecast", lat, lon, &parsed); err != nil {
		return nil, err
	}
	if parsed.List == nil {
		return nil, fmt.Errorf("openweathermap forecast response has no list")
	}
	out := make([]ForecastEntry, 0, len(parsed.List))
	for _, item := range parsed.List {
		if len(item.Weather) == 0 {
			continue
		}
		out = append(out, ForecastEntry{
			DtTxt:       item.DtTxt,
			Temp:        item.Main.Temp,
			Main:        item.Weather[0].Main,
			Description: item.Weather[0].Description,
			Icon:        item.Weather[0].Icon,
		})
	}
	return out, nil
}

func (c *Client) CurrentWeather(ctx context.Context, lat, lon float64) (Current, error) {
	var parsed currentResponse
	if err := c.get(ctx, "/weather", lat, lon, &parsed); err != nil {
		return Current{}, err
	}
	if parsed.Sys.Sunrise == 0 || parsed.Sys.Sunset == 0 {
		return Current{}, fmt.Errorf("openweathermap weather response has no sun times")
	}
	cur := Current{
		Sunrise: time.Unix(parsed.Sys.Sunrise, 0),
		Sunset:  time.Unix(parsed.Sys.Sunset, 0),
		Temp:    parsed.Main.Temp,
		City:    parsed.Name,
	}
	if len(parsed.Weather) > 0 {
		cur.Main = parsed.Weather[0].Main
	}
	return cur, nil
}

func (c *Client) get(ctx context.Context, path string, lat, lon float64, out any) error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}
	units := strings.TrimSpace(c.Units)
	if units == "" {
		units = "imperial"
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("units", units)
	q.Set("appid", c.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create openweathermap request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "mealplan-cli/1.0 (+https://github.com/saadjs/mealplan-cli)")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute openweathermap request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read openweathermap response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("openweathermap request failed with status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode openweathermap response: %w", err)
	}
	return nil
}
