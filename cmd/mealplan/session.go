package mealplan

import (
	"context"
	"fmt"

	"github.com/saadjs/mealplan-cli/internal/app"
	"github.com/saadjs/mealplan-cli/internal/config"
	"github.com/saadjs/mealplan-cli/internal/db"
	"github.com/saadjs/mealplan-cli/internal/logger"
	"github.com/saadjs/mealplan-cli/internal/metrics"
	"github.com/saadjs/mealplan-cli/internal/persist"
	"github.com/saadjs/mealplan-cli/internal/persist/filestore"
	"github.com/saadjs/mealplan-cli/internal/persist/postgres"
	"github.com/saadjs/mealplan-cli/internal/persist/s3store"
	"github.com/saadjs/mealplan-cli/internal/planner"
)

// session is one hydrated store mirrored into its slot. One-shot commands
// open and close a session per invocation; the shell keeps one open.
type session struct {
	cfg      config.Config
	log      *logger.Logger
	boundary *persist.Boundary
	store    *planner.Store
	detach   func()
	where    string
	metrics  *metrics.Metrics
}

// activeSession is set while the shell is running.
var activeSession *session

func openSession(ctx context.Context) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := newLogger(cfg)
	slot, where, err := openSlot(ctx, cfg)
	if err != nil {
		return nil, err
	}
	b := persist.NewBoundary(slot, cfg.Storage.Slot, log)
	store := planner.New(b.Hydrate(ctx),
		planner.WithHistoryLimit(cfg.History.Limit),
		planner.WithLogger(log),
	)
	s := &session{cfg: cfg, log: log, boundary: b, store: store, where: where, metrics: metrics.New()}
	s.detach = b.Attach(ctx, store)
	log.Debug("storage: %s, slot %s", where, b.Name())
	return s, nil
}

func (s *session) Close() error {
	s.detach()
	return s.boundary.Close()
}

// openSlot picks the durable slot backend named by storage.driver.
func openSlot(ctx context.Context, cfg config.Config) (persist.Slot, string, error) {
	switch cfg.Storage.Driver {
	case config.DriverFile:
		dir := cfg.Storage.Dir
		if dir == "" {
			var err error
			if dir, err = app.DefaultSlotDir(); err != nil {
				return nil, "", err
			}
		}
		s, err := filestore.New(dir)
		if err != nil {
			return nil, "", err
		}
		return s, "file " + dir, nil
	case config.DriverPostgres:
		s, err := postgres.Open(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, "", err
		}
		return s, "postgres", nil
	case config.DriverS3:
		s3cfg := cfg.Storage.S3
		s, err := s3store.New(ctx, s3store.Config{
			Bucket:          s3cfg.Bucket,
			Region:          s3cfg.Region,
			Endpoint:        s3cfg.Endpoint,
			Prefix:          s3cfg.Prefix,
			AccessKeyID:     s3cfg.AccessKeyID,
			SecretAccessKey: s3cfg.SecretAccessKey,
			PathStyle:       s3cfg.PathStyle,
		})
		if err != nil {
			return nil, "", err
		}
		return s, "s3://" + s3cfg.Bucket, nil
	case config.DriverSQLite:
		path, err := resolveDBPath(cfg)
		if err != nil {
			return nil, "", err
		}
		if err := app.EnsureParentDir(path); err != nil {
			return nil, "", err
		}
		s, err := db.OpenSlotStore(path)
		if err != nil {
			return nil, "", err
		}
		return s, "sqlite " + path, nil
	default:
		return nil, "", fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func resolveDBPath(cfg config.Config) (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	if cfg.Storage.DBPath != "" {
		return cfg.Storage.DBPath, nil
	}
	return app.DefaultDBPath()
}

func resolveConfigPath() (string, error) {
	if cfgPath != "" {
		return cfgPath, nil
	}
	return app.DefaultConfigPath()
}

func loadConfig() (config.Config, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	// --db always means a SQLite file.
	if dbPath != "" {
		cfg.Storage.Driver = config.DriverSQLite
	}
	return cfg, nil
}

func newLogger(cfg config.Config) *logger.Logger {
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logger.LevelNormal
	}
	switch {
	case quiet:
		level = logger.LevelOff
	case verbose:
		level = logger.LevelVerbose
	}
	return logger.New(level, nil)
}
