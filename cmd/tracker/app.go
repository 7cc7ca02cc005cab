package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/pga-pick-tracker/internal/models"
	"github.com/stitts-dev/pga-pick-tracker/internal/predictor"
	"github.com/stitts-dev/pga-pick-tracker/internal/providers"
	"github.com/stitts-dev/pga-pick-tracker/internal/services"
	"github.com/stitts-dev/pga-pick-tracker/pkg/config"
	"github.com/stitts-dev/pga-pick-tracker/pkg/database"
	"github.com/stitts-dev/pga-pick-tracker/pkg/logger"
)

// app holds the services every command works through
type app struct {
	cfg     *config.Config
	log     *logrus.Logger
	db      *database.DB
	picks   *services.PickService
	fields  *services.FieldService
	history *services.HistoryService
	fetcher *services.DataFetcherService
}

// newApp wires the services from the environment. The stat cache lives in the database so
// scores survive between invocations.
func newApp() (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.InitLoggerWithFile(cfg.LogLevel, false, logger.FileOptions{
		Filename:   cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
	})
	if cfg.LogFile == "" {
		log.SetOutput(os.Stderr)
	}

	db, err := database.NewConnection(cfg.DatabaseURL, false)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	predictorCfg, err := cfg.PredictorConfig()
	if err != nil {
		db.Close()
		return nil, err
	}
	engine, err := predictor.New(predictorCfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	cache := services.NewDBStatCache(db.DB, cfg.DataCacheTTL())
	breaker := services.NewCircuitBreaker(services.ESPNBreakerName, cfg.CircuitBreakerThreshold, time.Minute, log)
	espn := providers.NewESPNGolfClient(providers.ESPNOptions{
		BaseURL:           cfg.ESPNBaseURL,
		RequestsPerMinute: cfg.ESPNRateLimit,
		Timeout:           cfg.ExternalAPITimeout,
	}, breaker, log)

	picks := services.NewPickService(db.DB, services.PickRules{
		PicksPerWeek:    cfg.PicksPerWeek,
		SeasonPickLimit: cfg.SeasonPickLimit,
		Season:          cfg.SeasonYear,
	}, log)
	stats := services.NewStatsRepository(db.DB, cache, log)

	return &app{
		cfg:     cfg,
		log:     log,
		db:      db,
		picks:   picks,
		fields:  services.NewFieldService(stats, engine, picks, cfg.StatFetchConcurrency, log),
		history: services.NewHistoryService(db.DB, cache, log),
		fetcher: services.NewDataFetcherService(db.DB, espn, cache, picks, nil, log, cfg.RefreshSchedule),
	}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.log.WithError(err).Warn("Failed to close database")
	}
}

// venue falls back to the stored current tournament when no flags name one
func (a *app) venue(ctx context.Context, tournament, course string) services.Venue {
	if tournament != "" || course != "" {
		return services.Venue{Tournament: tournament, Course: course}
	}
	info, err := a.fetcher.CurrentTournament(ctx)
	if err != nil {
		a.log.WithError(err).Warn("Current tournament unavailable, scoring without course history")
		return services.Venue{}
	}
	if info.Placeholder() {
		return services.Venue{}
	}
	logger.WithTournamentContext(info.Name, info.Course).Debug("Scoring for the current tournament")
	return services.Venue{Tournament: info.Name, Course: info.Course}
}

// withApp runs fn against a freshly wired app
func withApp(fn func(a *app) error) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
