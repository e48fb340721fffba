// Package ipgeo resolves the caller's approximate coordinates from their
// public IP address.
package ipgeo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://ipapi.co"

type Location struct {
	Latitude  float64
	Longitude float64
	City      string
	Country   string
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

type ipapiResponse struct {
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	City        string   `json:"city"`
	CountryName string   `json:"country_name"`
	Error       bool     `json:"error"`
	Reason      string   `json:"reason"`
}

func (c *Client) Lookup(ctx context.Context) (Location, error) {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/json/", nil)
	if err != nil {
		return Location{}, fmt.Errorf("create ipapi request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "mealplan-cli/1.0 (+https://github.com/saadjs/mealplan-cli)")

	resp, err := httpClient.Do(req)
	if err != nil {
		return Location{}, fmt.Errorf("execute ipapi request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Location{}, fmt.Errorf("read ipapi response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Location{}, fmt.Errorf("ipapi request failed with status %d", resp.StatusCode)
	}
	var parsed ipapiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Location{}, fmt.Errorf("decode ipapi response: %w", err)
	}
	if parsed.Error {
		return Location{}, fmt.Errorf("ipapi lookup failed: %s", parsed.Reason)
	}
	if parsed.Latitude == nil || parsed.Longitude == nil {
		return Location{}, fmt.Errorf("ipapi response has no coordinates")
	}
	return Location{
		Latitude:  *parsed.Latitude,
		Longitude: *parsed.Longitude,
		City:      strings.TrimSpace(parsed.City),
		Country:   strings.TrimSpace(parsed.CountryName),
	}, nil
}
