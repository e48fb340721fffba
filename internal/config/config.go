// Package config loads mealplan settings from a YAML file, a .env file and
// MEALPLAN_* environment variables, in that order of precedence (env wins).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/saadjs/mealplan-cli/internal/logger"
	"github.com/saadjs/mealplan-cli/internal/persist"
)

const (
	DriverSQLite   = "sqlite"
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverS3       = "s3"

	DefaultHistoryLimit = 50
)

type S3 struct {
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	Prefix          string `yaml:"prefix"`
	PathStyle       bool   `yaml:"path_style"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

type Storage struct {
	Driver      string `yaml:"driver"`
	Slot        string `yaml:"slot"`
	DBPath      string `yaml:"db_path"`
	Dir         string `yaml:"dir"`
	PostgresDSN string `yaml:"postgres_dsn"`
	S3          S3     `yaml:"s3"`
}

type History struct {
	Limit int `yaml:"limit"`
}

type Log struct {
	Level string `yaml:"level"`
}

type Weather struct {
	APIKey    string   `yaml:"api_key"`
	BaseURL   string   `yaml:"base_url"`
	Lat       *float64 `yaml:"lat,omitempty"`
	Lon       *float64 `yaml:"lon,omitempty"`
	GeoLookup bool     `yaml:"geo_lookup"`
}

type Metrics struct {
	Textfile string `yaml:"textfile"`
}

type Display struct {
	Units string `yaml:"units"`
}

type Config struct {
	Storage Storage `yaml:"storage"`
	History History `yaml:"history"`
	Log     Log     `yaml:"log"`
	Weather Weather `yaml:"weather"`
	Metrics Metrics `yaml:"metrics"`
	Display Display `yaml:"display"`
}

func Default() Config {
	return Config{
		Storage: Storage{Driver: DriverSQLite, Slot: persist.DefaultSlotName},
		History: History{Limit: DefaultHistoryLimit},
		Log:     Log{Level: "normal"},
		Weather: Weather{GeoLookup: true},
		Display: Display{Units: "metric"},
	}
}

// LoadDotEnv reads a .env file from the working directory if one exists.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// Load reads path over the defaults and applies environment overrides. A
// missing file is not an error.
func Load(path string) (Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadFile reads only the file, without environment overrides, so that
// `config set` never writes env values back to disk.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config as YAML, creating or truncating path.
func (c Config) Save(path string) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

var envKeys = map[string]string{
	"MEALPLAN_STORAGE_DRIVER": "storage.driver",
	"MEALPLAN_SLOT":           "storage.slot",
	"MEALPLAN_DB":             "storage.db_path",
	"MEALPLAN_DATA_DIR":       "storage.dir",
	"MEALPLAN_POSTGRES_DSN":   "storage.postgres_dsn",
	"MEALPLAN_S3_BUCKET":      "storage.s3.bucket",
	"MEALPLAN_S3_REGION":      "storage.s3.region",
	"MEALPLAN_S3_ENDPOINT":    "storage.s3.endpoint",
	"MEALPLAN_S3_PREFIX":      "storage.s3.prefix",
	"MEALPLAN_S3_PATH_STYLE":  "storage.s3.path_style",
	"MEALPLAN_HISTORY_LIMIT":  "history.limit",
	"MEALPLAN_LOG_LEVEL":      "log.level",
	"MEALPLAN_METRICS_FILE":   "metrics.textfile",
	"OPENWEATHER_API_KEY":     "weather.api_key",
	"MEALPLAN_WEATHER_LAT":    "weather.lat",
	"MEALPLAN_WEATHER_LON":    "weather.lon",
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	names := make([]string, 0, len(envKeys))
	for name := range envKeys {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v, ok := lookup(name)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		if err := c.Set(envKeys[name], v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite, DriverFile, DriverPostgres, DriverS3:
	default:
		return fmt.Errorf("storage.driver must be one of sqlite, file, postgres, s3")
	}
	if err := persist.ValidateSlotName(c.Storage.Slot); err != nil {
		return err
	}
	if c.Storage.Driver == DriverS3 && strings.TrimSpace(c.Storage.S3.Bucket) == "" {
		return fmt.Errorf("storage.s3.bucket is required for the s3 driver")
	}
	if c.History.Limit < 0 {
		return fmt.Errorf("history.limit must be >= 0")
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Display.Units {
	case "", "metric", "imperial":
	default:
		return fmt.Errorf("display.units must be metric or imperial")
	}
	if (c.Weather.Lat == nil) != (c.Weather.Lon == nil) {
		return fmt.Errorf("weather.lat and weather.lon must be set together")
	}
	return nil
}

// Keys lists every dotted key accepted by Get and Set.
func Keys() []string {
	return []string{
		"display.units",
		"history.limit",
		"log.level",
		"metrics.textfile",
		"storage.db_path",
		"storage.dir",
		"storage.driver",
		"storage.postgres_dsn",
		"storage.s3.bucket",
		"storage.s3.endpoint",
		"storage.s3.path_style",
		"storage.s3.prefix",
		"storage.s3.region",
		"storage.slot",
		"weather.api_key",
		"weather.base_url",
		"weather.geo_lookup",
		"weather.lat",
		"weather.lon",
	}
}

// Get returns the string form of a dotted key. Secrets are masked.
func (c Config) Get(key string) (string, error) {
	switch key {
	case "display.units":
		return c.Display.Units, nil
	case "history.limit":
		return strconv.Itoa(c.History.Limit), nil
	case "log.level":
		return c.Log.Level, nil
	case "metrics.textfile":
		return c.Metrics.Textfile, nil
	case "storage.db_path":
		return c.Storage.DBPath, nil
	case "storage.dir":
		return c.Storage.Dir, nil
	case "storage.driver":
		return c.Storage.Driver, nil
	case "storage.postgres_dsn":
		return c.Storage.PostgresDSN, nil
	case "storage.s3.bucket":
		return c.Storage.S3.Bucket, nil
	case "storage.s3.endpoint":
		return c.Storage.S3.Endpoint, nil
	case "storage.s3.path_style":
		return strconv.FormatBool(c.Storage.S3.PathStyle), nil
	case "storage.s3.prefix":
		return c.Storage.S3.Prefix, nil
	case "storage.s3.region":
		return c.Storage.S3.Region, nil
	case "storage.slot":
		return c.Storage.Slot, nil
	case "weather.api_key":
		return mask(c.Weather.APIKey), nil
	case "weather.base_url":
		return c.Weather.BaseURL, nil
	case "weather.geo_lookup":
		return strconv.FormatBool(c.Weather.GeoLookup), nil
	case "weather.lat":
		return formatOptional(c.Weather.Lat), nil
	case "weather.lon":
		return formatOptional(c.Weather.Lon), nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// Set parses value into the field named by key. It does not validate the
// config as a whole; call Validate afterwards.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "display.units":
		c.Display.Units = strings.ToLower(value)
	case "history.limit":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("history.limit must be an integer")
		}
		c.History.Limit = n
	case "log.level":
		c.Log.Level = strings.ToLower(value)
	case "metrics.textfile":
		c.Metrics.Textfile = value
	case "storage.db_path":
		c.Storage.DBPath = value
	case "storage.dir":
		c.Storage.Dir = value
	case "storage.driver":
		c.Storage.Driver = strings.ToLower(value)
	case "storage.postgres_dsn":
		c.Storage.PostgresDSN = value
	case "storage.s3.bucket":
		c.Storage.S3.Bucket = value
	case "storage.s3.endpoint":
		c.Storage.S3.Endpoint = value
	case "storage.s3.path_style":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("storage.s3.path_style must be true or false")
		}
		c.Storage.S3.PathStyle = b
	case "storage.s3.prefix":
		c.Storage.S3.Prefix = value
	case "storage.s3.region":
		c.Storage.S3.Region = value
	case "storage.slot":
		c.Storage.Slot = value
	case "weather.api_key":
		c.Weather.APIKey = value
	case "weather.base_url":
		c.Weather.BaseURL = value
	case "weather.geo_lookup":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("weather.geo_lookup must be true or false")
		}
		c.Weather.GeoLookup = b
	case "weather.lat", "weather.lon":
		var dst **float64 = &c.Weather.Lat
		if key == "weather.lon" {
			dst = &c.Weather.Lon
		}
		if value == "" {
			*dst = nil
			return nil
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%s must be a number", key)
		}
		*dst = &f
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}
