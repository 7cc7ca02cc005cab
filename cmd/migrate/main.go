package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm/clause"

	"github.com/stitts-dev/pga-pick-tracker/internal/models"
	"github.com/stitts-dev/pga-pick-tracker/internal/predictor"
	"github.com/stitts-dev/pga-pick-tracker/internal/services"
	"github.com/stitts-dev/pga-pick-tracker/pkg/config"
	"github.com/stitts-dev/pga-pick-tracker/pkg/database"
	"github.com/stitts-dev/pga-pick-tracker/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down|seed]")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	appLogger := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())

	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		appLogger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	command := os.Args[1]

	switch command {
	case "up":
		if err := runMigrations(db); err != nil {
			appLogger.Fatalf("Failed to run migrations: %v", err)
		}
		appLogger.Info("Migrations completed successfully")

	case "down":
		if err := dropTables(db); err != nil {
			appLogger.Fatalf("Failed to drop tables: %v", err)
		}
		appLogger.Info("Tables dropped successfully")

	case "seed":
		if err := runMigrations(db); err != nil {
			appLogger.Fatalf("Failed to run migrations: %v", err)
		}
		if err := seedData(db, cfg, appLogger); err != nil {
			appLogger.Fatalf("Failed to seed data: %v", err)
		}
		appLogger.Info("Data seeded successfully")

	default:
		appLogger.Fatalf("Unknown command: %s", command)
	}
}

func runMigrations(db *database.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_results_season_player ON tournament_results(season, player_name)",
		"CREATE INDEX IF NOT EXISTS idx_historical_player_tournament ON historical_results(player_name, tournament_name)",
		"CREATE INDEX IF NOT EXISTS idx_picks_tournament ON picks(tournament_name, tournament_date)",
	}
	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func dropTables(db *database.DB) error {
	for _, table := range models.TableNames() {
		if err := db.Migrator().DropTable(table); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}

func seedData(db *database.DB, cfg *config.Config, appLogger *logrus.Logger) error {
	stats := []models.PlayerStat{
		{PlayerName: "Scottie Scheffler", FedexRank: predictor.IntPtr(1), WorldRank: predictor.IntPtr(1), SeasonMoney: 27650000, SGTotal: predictor.FloatPtr(2.95)},
		{PlayerName: "Xander Schauffele", FedexRank: predictor.IntPtr(2), WorldRank: predictor.IntPtr(2), SeasonMoney: 20010000, SGTotal: predictor.FloatPtr(2.12)},
		{PlayerName: "Collin Morikawa", FedexRank: predictor.IntPtr(4), WorldRank: predictor.IntPtr(4), SeasonMoney: 10200000, SGTotal: predictor.FloatPtr(1.64)},
		{PlayerName: "Rory McIlroy", FedexRank: predictor.IntPtr(6), WorldRank: predictor.IntPtr(3), SeasonMoney: 9400000, SGTotal: predictor.FloatPtr(1.71)},
		{PlayerName: "Hideki Matsuyama", FedexRank: predictor.IntPtr(3), WorldRank: predictor.IntPtr(7), SeasonMoney: 13800000, SGTotal: predictor.FloatPtr(1.38)},
		{PlayerName: "Keegan Bradley", FedexRank: predictor.IntPtr(24), WorldRank: predictor.IntPtr(19), SeasonMoney: 5100000, SGTotal: predictor.FloatPtr(1.02)},
		{PlayerName: "Sungjae Im", FedexRank: predictor.IntPtr(31), WorldRank: predictor.IntPtr(25), SeasonMoney: 4300000, SGTotal: predictor.FloatPtr(0.88)},
		{PlayerName: "Denny McCarthy", FedexRank: predictor.IntPtr(52), WorldRank: predictor.IntPtr(48), SeasonMoney: 2700000, SGTotal: predictor.FloatPtr(0.61)},
	}
	if err := db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&stats).Error; err != nil {
		return fmt.Errorf("failed to create player stats: %w", err)
	}

	season := cfg.SeasonYear
	events := []struct {
		name     string
		date     time.Time
		finishes []string
	}{
		{"The Sentry", time.Date(season, time.January, 5, 0, 0, 0, 0, time.UTC), []string{"1", "T2", "T9", "T2", "5", "T14", "T30", "MC"}},
		{"AT&T Pebble Beach Pro-Am", time.Date(season, time.February, 2, 0, 0, 0, 0, time.UTC), []string{"T3", "1", "T11", "T25", "T6", "MC", "T18", "T40"}},
	}

	var results []models.TournamentResult
	for _, event := range events {
		for i, finish := range event.finishes {
			date := event.date
			results = append(results, models.TournamentResult{
				PlayerName:     stats[i].PlayerName,
				TournamentName: event.name,
				TournamentDate: &date,
				Season:         season,
				FinishPosition: finish,
				MadeCut:        finish != "MC",
			})
		}
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&results).Error; err != nil {
		return fmt.Errorf("failed to create tournament results: %w", err)
	}

	var ledger []models.HistoricalResult
	riviera := map[string][]string{
		"Scottie Scheffler": {"T20", "T10", "T3", "T10"},
		"Xander Schauffele": {"T16", "T9", "T5", "T21"},
		"Hideki Matsuyama":  {"T11", "MC", "T3", "1"},
		"Keegan Bradley":    {"T29", "T2", "T13", "MC"},
	}
	for player, finishes := range riviera {
		for i, finish := range finishes {
			ledger = append(ledger, models.HistoricalResult{
				PlayerName:     player,
				TournamentName: "The Genesis Invitational",
				CourseName:     "Riviera Country Club",
				Year:           season - len(finishes) + i,
				FinishPosition: finish,
				MadeCut:        finish != "MC",
			})
		}
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&ledger).Error; err != nil {
		return fmt.Errorf("failed to create historical results: %w", err)
	}

	history := services.NewHistoryService(db.DB, nil, appLogger)
	summaries, err := history.RebuildCourseHistory(context.Background())
	if err != nil {
		return err
	}

	appLogger.WithFields(logrus.Fields{
		"players":     len(stats),
		"results":     len(results),
		"ledger_rows": len(ledger),
		"summaries":   summaries,
	}).Info("Seeded sample season")
	return nil
}
