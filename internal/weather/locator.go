package weather

import (
	"context"
	"time"

	"github.com/saadjs/mealplan-cli/internal/logger"
	"github.com/saadjs/mealplan-cli/internal/provider/ipgeo"
)

type IPLookup interface {
	Lookup(ctx context.Context) (ipgeo.Location, error)
}

const (
	SourceConfig  = "config"
	SourceIP      = "ip"
	SourceDefault = "default"
)

// Locator decides which coordinates to ask the weather source about:
// configured coordinates, then an IP lookup bounded by a timeout, then
// DefaultCoords.
type Locator struct {
	configured *Coords
	ip         IPLookup
	timeout    time.Duration
	log        *logger.Logger
}

func NewLocator(configured *Coords, ip IPLookup, log *logger.Logger) *Locator {
	if log == nil {
		log = logger.Discard()
	}
	return &Locator{configured: configured, ip: ip, timeout: 10 * time.Second, log: log}
}

// WithTimeout returns a copy of l that waits at most d for the IP lookup.
func (l *Locator) WithTimeout(d time.Duration) *Locator {
	cp := *l
	cp.timeout = d
	return &cp
}

func (l *Locator) Locate(ctx context.Context) (Coords, string) {
	if l.configured != nil {
		return *l.configured, SourceConfig
	}
	if l.ip == nil {
		return DefaultCoords, SourceDefault
	}
	lookupCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	loc, err := l.ip.Lookup(lookupCtx)
	if err != nil {
		l.log.Warn("weather: location lookup failed, using default: %v", err)
		return DefaultCoords, SourceDefault
	}
	l.log.Debug("weather: located %s (%.4f, %.4f)", loc.City, loc.Latitude, loc.Longitude)
	return Coords{Lat: loc.Latitude, Lon: loc.Longitude}, SourceIP
}
