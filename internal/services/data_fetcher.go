package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stitts-dev/pga-pick-tracker/internal/models"
	"github.com/stitts-dev/pga-pick-tracker/internal/providers"
	"github.com/stitts-dev/pga-pick-tracker/internal/websocket"
)

// DefaultRefreshSchedule runs the refresh on Mondays at 06:00
const DefaultRefreshSchedule = "0 6 * * 1"

// staleAfterDays is how old the latest imported result may be before the weekly check warns
const staleAfterDays = 7

// TournamentSource finds the event currently being picked for
type TournamentSource interface {
	GetCurrentTournament(ctx context.Context) (*providers.TournamentInfo, error)
}

// EventPublisher pushes tracker events to connected clients
type EventPublisher interface {
	Publish(eventType string, data interface{})
}

// DataFetcherService handles the scheduled tournament refresh
type DataFetcherService struct {
	db        *gorm.DB
	source    TournamentSource
	cache     StatCache
	picks     *PickService
	publisher EventPublisher
	logger    *logrus.Logger
	cron      *cron.Cron
	schedule  string
	mu        sync.Mutex
	isRunning bool
	now       func() time.Time
}

// NewDataFetcherService creates a new data fetcher service
func NewDataFetcherService(
	db *gorm.DB,
	source TournamentSource,
	cache StatCache,
	picks *PickService,
	publisher EventPublisher,
	logger *logrus.Logger,
	schedule string,
) *DataFetcherService {
	if schedule == "" {
		schedule = DefaultRefreshSchedule
	}
	return &DataFetcherService{
		db:        db,
		source:    source,
		cache:     cache,
		picks:     picks,
		publisher: publisher,
		logger:    logger,
		cron:      cron.New(),
		schedule:  schedule,
		now:       time.Now,
	}
}

// Start schedules the weekly refresh
func (s *DataFetcherService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("data fetcher is already running")
	}

	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if _, err := s.RefreshNow(ctx); err != nil {
			s.logger.WithError(err).Error("Scheduled tournament refresh failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule data fetcher: %w", err)
	}

	s.cron.Start()
	s.isRunning = true

	s.logger.WithField("schedule", s.schedule).Info("Data fetcher service started")
	return nil
}

// Stop halts the scheduled refresh and waits for a running job to finish
func (s *DataFetcherService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.logger.Info("Data fetcher service stopped")
}

// RefreshNow fetches the current tournament, stores it as current and drops cached statistics
func (s *DataFetcherService) RefreshNow(ctx context.Context) (*providers.TournamentInfo, error) {
	info, err := s.source.GetCurrentTournament(ctx)
	if err != nil {
		return nil, err
	}

	if !info.Placeholder() {
		if err := s.storeCurrent(ctx, info); err != nil {
			return nil, err
		}
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.WithError(err).Warn("Failed to invalidate stat cache")
		}
	}

	if s.publisher != nil {
		s.publisher.Publish(websocket.EventFieldRefreshed, info)
	}

	s.logger.WithFields(logrus.Fields{
		"tournament": info.Name,
		"course":     info.Course,
	}).Info("Tournament refreshed")

	return info, nil
}

func (s *DataFetcherService) storeCurrent(ctx context.Context, info *providers.TournamentInfo) error {
	metadata, err := json.Marshal(info)
	if err != nil {
		return err
	}

	season := s.now().Year()
	if info.StartDate != nil {
		season = info.StartDate.Year()
	}

	row := models.Tournament{
		ExternalID: info.ExternalID,
		Name:       info.Name,
		CourseName: info.Course,
		StartDate:  info.StartDate,
		EndDate:    info.EndDate,
		Dates:      info.Dates,
		Purse:      info.Purse,
		Status:     models.TournamentStatus(info.Status),
		Season:     season,
		IsCurrent:  true,
		Metadata:   datatypes.JSON(metadata),
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Tournament{}).Where("is_current = ?", true).Update("is_current", false).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "course_name", "start_date", "end_date", "dates", "purse", "status", "season", "is_current", "metadata", "updated_at"}),
		}).Create(&row).Error
	})
}

// CurrentTournament returns the stored current event, refreshing from ESPN when none is stored
func (s *DataFetcherService) CurrentTournament(ctx context.Context) (*providers.TournamentInfo, error) {
	var stored models.Tournament
	err := s.db.WithContext(ctx).Where("is_current = ?", true).Order("updated_at DESC").First(&stored).Error
	if err == nil {
		return &providers.TournamentInfo{
			ExternalID: stored.ExternalID,
			Name:       stored.Name,
			Course:     stored.CourseName,
			Dates:      stored.Dates,
			Purse:      stored.Purse,
			Status:     string(stored.Status),
			StartDate:  stored.StartDate,
			EndDate:    stored.EndDate,
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load current tournament: %w", err)
	}
	return s.RefreshNow(ctx)
}

// WeeklyStatus is the Monday check of data freshness and pick usage
type WeeklyStatus struct {
	Today           time.Time  `json:"today"`
	LastTournament  string     `json:"last_tournament,omitempty"`
	LastDate        *time.Time `json:"last_date,omitempty"`
	Players         int64      `json:"players"`
	DaysSince       int        `json:"days_since"`
	Stale           bool       `json:"stale"`
	PicksUsed       int64      `json:"picks_used"`
	PicksRemaining  int64      `json:"picks_remaining"`
	SeasonPickLimit int        `json:"season_pick_limit"`
}

// WeeklyCheck reports the latest imported event and how many picks are left
func (s *DataFetcherService) WeeklyCheck(ctx context.Context) (*WeeklyStatus, error) {
	now := s.now()
	status := &WeeklyStatus{Today: now}

	var latest []models.TournamentResult
	err := s.db.WithContext(ctx).
		Where("tournament_date IS NOT NULL").
		Order("tournament_date DESC").
		Limit(1).Find(&latest).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load latest result: %w", err)
	}
	if len(latest) == 1 {
		last := latest[0]
		status.LastTournament = last.TournamentName
		status.LastDate = last.TournamentDate
		if err := s.db.WithContext(ctx).Model(&models.TournamentResult{}).
			Where("tournament_name = ?", last.TournamentName).
			Count(&status.Players).Error; err != nil {
			return nil, fmt.Errorf("failed to count players: %w", err)
		}
		if last.TournamentDate != nil {
			status.DaysSince = int(now.Sub(*last.TournamentDate).Hours() / 24)
			status.Stale = status.DaysSince > staleAfterDays
		}
	}

	used, err := s.picks.PicksCount(ctx)
	if err != nil {
		return nil, err
	}
	limit := s.picks.Rules().SeasonPickLimit
	status.PicksUsed = used
	status.SeasonPickLimit = limit
	if remaining := int64(limit) - used; remaining > 0 {
		status.PicksRemaining = remaining
	}

	return status, nil
}
