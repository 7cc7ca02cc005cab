package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/pga-pick-tracker/internal/api"
	"github.com/stitts-dev/pga-pick-tracker/internal/models"
	"github.com/stitts-dev/pga-pick-tracker/internal/predictor"
	"github.com/stitts-dev/pga-pick-tracker/internal/providers"
	"github.com/stitts-dev/pga-pick-tracker/internal/services"
	"github.com/stitts-dev/pga-pick-tracker/internal/websocket"
	"github.com/stitts-dev/pga-pick-tracker/pkg/config"
	"github.com/stitts-dev/pga-pick-tracker/pkg/database"
	"github.com/stitts-dev/pga-pick-tracker/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := logger.InitLoggerWithFile(cfg.LogLevel, cfg.IsDevelopment(), logger.FileOptions{
		Filename:   cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
	})
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cache := newStatCache(ctx, cfg, log)

	predictorCfg, err := cfg.PredictorConfig()
	if err != nil {
		log.Fatalf("Invalid prediction settings: %v", err)
	}
	engine, err := predictor.New(predictorCfg)
	if err != nil {
		log.Fatalf("Failed to create predictor: %v", err)
	}

	breaker := services.NewCircuitBreaker(services.ESPNBreakerName, cfg.CircuitBreakerThreshold, time.Minute, log)
	espn := providers.NewESPNGolfClient(providers.ESPNOptions{
		BaseURL:           cfg.ESPNBaseURL,
		RequestsPerMinute: cfg.ESPNRateLimit,
		Timeout:           cfg.ExternalAPITimeout,
	}, breaker, log)

	hub := websocket.NewHub(log)
	go hub.Run(ctx)

	picks := services.NewPickService(db.DB, services.PickRules{
		PicksPerWeek:    cfg.PicksPerWeek,
		SeasonPickLimit: cfg.SeasonPickLimit,
		Season:          cfg.SeasonYear,
	}, log)
	stats := services.NewStatsRepository(db.DB, cache, log)
	fields := services.NewFieldService(stats, engine, picks, cfg.StatFetchConcurrency, log)
	history := services.NewHistoryService(db.DB, cache, log)
	fetcher := services.NewDataFetcherService(db.DB, espn, cache, picks, hub, log, cfg.RefreshSchedule)

	if cfg.EnableBackgroundJobs {
		if err := fetcher.Start(); err != nil {
			log.Errorf("Failed to start data fetcher: %v", err)
		}
		defer fetcher.Stop()
	}

	router := api.NewRouter(api.Services{
		DB:      db,
		Fields:  fields,
		Picks:   picks,
		History: history,
		Fetcher: fetcher,
		Hub:     hub,
	}, cfg, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.WithService("api").WithField("port", cfg.Port).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}

// newStatCache uses redis when REDIS_URL is set and reachable, else an in-process cache
func newStatCache(ctx context.Context, cfg *config.Config, log *logrus.Logger) services.StatCache {
	if cfg.RedisURL == "" {
		return services.NewMemoryStatCache(cfg.DataCacheTTL())
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		log.WithError(err).Warn("Redis unavailable, using in-memory stat cache")
		_ = client.Close()
		return services.NewMemoryStatCache(cfg.DataCacheTTL())
	}

	log.Info("Using redis stat cache")
	return services.NewRedisStatCache(client, cfg.DataCacheTTL())
}
