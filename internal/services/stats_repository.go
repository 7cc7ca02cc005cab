package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/stitts-dev/pga-pick-tracker/internal/coursehistory"
	"github.com/stitts-dev/pga-pick-tracker/internal/models"
	"github.com/stitts-dev/pga-pick-tracker/internal/predictor"
)

var ErrPlayerNotFound = errors.New("player not found")

// tournamentKeywords identify an event across sponsor renames ("AT&T Pebble Beach Pro-Am" -> "Pebble Beach")
var tournamentKeywords = []string{
	"Pebble Beach", "Genesis", "Memorial", "Players", "Masters",
	"PGA Championship", "U.S. Open", "Open Championship", "Phoenix",
	"Honda Classic", "Arnold Palmer", "Wells Fargo", "Byron Nelson",
}

// TournamentKeyword returns the search term used to find an event in the historical ledger.
// Known events map to a fixed keyword, anything else falls back to its last two words.
func TournamentKeyword(tournament string) string {
	lower := strings.ToLower(tournament)
	for _, keyword := range tournamentKeywords {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			return keyword
		}
	}
	words := strings.Fields(tournament)
	if len(words) >= 2 {
		return strings.Join(words[len(words)-2:], " ")
	}
	return strings.TrimSpace(tournament)
}

// Venue is the event a player's statistics are assembled for
type Venue struct {
	Tournament string `json:"tournament"`
	Course     string `json:"course"`
}

// StatsRepository assembles scoring inputs from the stored tables, behind a TTL cache
type StatsRepository struct {
	db         *gorm.DB
	cache      StatCache
	thresholds predictor.FormThresholds
	logger     *logrus.Logger
}

func NewStatsRepository(db *gorm.DB, cache StatCache, logger *logrus.Logger) *StatsRepository {
	return &StatsRepository{
		db:         db,
		cache:      cache,
		thresholds: predictor.DefaultFormThresholds(),
		logger:     logger,
	}
}

// Cache exposes the stat cache so refreshes can invalidate it
func (r *StatsRepository) Cache() StatCache {
	return r.cache
}

// TournamentField lists every player with a result in the season, alphabetically
func (r *StatsRepository) TournamentField(ctx context.Context, season int) ([]string, error) {
	var players []string
	query := r.db.WithContext(ctx).Model(&models.TournamentResult{}).Distinct("player_name")
	if season > 0 {
		query = query.Where("season = ?", season)
	}
	if err := query.Order("player_name").Pluck("player_name", &players).Error; err != nil {
		return nil, fmt.Errorf("failed to load tournament field: %w", err)
	}
	return players, nil
}

// GetPlayerStatistics builds the scoring input for one player. Missing rows are not errors:
// the normalizer substitutes defaults for anything left empty.
func (r *StatsRepository) GetPlayerStatistics(ctx context.Context, player string, venue Venue) (predictor.PlayerStatistics, error) {
	key := StatCacheKey(player, venue.Course+"|"+venue.Tournament)
	if r.cache != nil {
		cached, ok, err := r.cache.Get(ctx, key)
		if err != nil {
			r.logger.WithError(err).WithField("player", player).Warn("Stat cache read failed")
		} else if ok {
			return *cached, nil
		}
	}

	stats := predictor.PlayerStatistics{PlayerName: player}

	var ps models.PlayerStat
	err := r.db.WithContext(ctx).Where("player_name = ?", player).Limit(1).Find(&ps).Error
	if err != nil {
		return stats, fmt.Errorf("failed to load player stats: %w", err)
	}
	stats.FedexRank = ps.FedexRank
	stats.WorldRank = ps.WorldRank
	stats.StrokesGainedTotal = ps.SGTotal

	form, err := r.recentForm(ctx, player)
	if err != nil {
		return stats, err
	}
	stats.RecentForm = form

	history, err := r.CourseHistory(ctx, player, venue)
	if err != nil {
		return stats, err
	}
	stats.CourseHistory = history

	if r.cache != nil {
		if err := r.cache.Set(ctx, key, stats); err != nil {
			r.logger.WithError(err).WithField("player", player).Warn("Stat cache write failed")
		}
	}

	return stats, nil
}

// recentForm prefers the stored label, then the stored rating, then the latest finishes
func (r *StatsRepository) recentForm(ctx context.Context, player string) (predictor.RecentForm, error) {
	var rows []models.PlayerRecentForm
	if err := r.db.WithContext(ctx).Where("player_name = ?", player).Limit(1).Find(&rows).Error; err != nil {
		return predictor.FormUnknown, fmt.Errorf("failed to load recent form: %w", err)
	}
	if len(rows) == 1 {
		if rows[0].FormLabel != "" {
			return predictor.ParseRecentForm(rows[0].FormLabel), nil
		}
		if rows[0].Rating != nil {
			return predictor.FormFromRating(*rows[0].Rating), nil
		}
	}

	var tokens []string
	err := r.db.WithContext(ctx).Model(&models.TournamentResult{}).
		Where("player_name = ?", player).
		Order("tournament_date DESC").
		Pluck("finish_position", &tokens).Error
	if err != nil {
		return predictor.FormUnknown, fmt.Errorf("failed to load recent results: %w", err)
	}

	var finishes []int
	for _, token := range tokens {
		if pos, ok := coursehistory.ParseFinish(token); ok {
			finishes = append(finishes, pos)
		}
		if len(finishes) == predictor.RecentFormEvents {
			break
		}
	}
	return predictor.FormFromFinishes(finishes, r.thresholds), nil
}

// CourseHistory looks the venue up in the summary table, falling back to aggregating the
// ledger rows of the event itself when the venue has no summary for this player.
func (r *StatsRepository) CourseHistory(ctx context.Context, player string, venue Venue) (*predictor.CourseHistorySummary, error) {
	if venue.Course != "" {
		var rows []models.CourseHistory
		err := r.db.WithContext(ctx).
			Where("player_name = ? AND course_name = ?", player, venue.Course).
			Limit(1).Find(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("failed to load course history: %w", err)
		}
		if len(rows) == 1 {
			return rows[0].Summary(), nil
		}
	}

	if venue.Tournament == "" {
		return nil, nil
	}

	keyword := TournamentKeyword(venue.Tournament)
	results, err := r.EventHistory(ctx, player, venue.Tournament)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}

	ledger := make([]coursehistory.LedgerRow, 0, len(results))
	for _, h := range results {
		row := h.LedgerRow()
		row.Course = keyword
		ledger = append(ledger, row)
	}
	summaries := coursehistory.Aggregate(ledger)
	if len(summaries) == 0 {
		return nil, nil
	}
	summary := summaries[0]
	if summary.MalformedTokens > 0 {
		r.logger.WithFields(logrus.Fields{
			"player":    player,
			"event":     keyword,
			"malformed": summary.MalformedTokens,
		}).Debug("Skipped unparseable finish tokens")
	}
	return &summary, nil
}

// EventHistory returns the player's year-by-year ledger rows for an event, newest first
func (r *StatsRepository) EventHistory(ctx context.Context, player, tournament string) ([]models.HistoricalResult, error) {
	var results []models.HistoricalResult
	err := r.db.WithContext(ctx).
		Where("player_name = ? AND tournament_name LIKE ?", player, "%"+TournamentKeyword(tournament)+"%").
		Order("year DESC").
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load event history: %w", err)
	}
	return results, nil
}

// SeasonResults returns a player's current-season finishes, newest first
func (r *StatsRepository) SeasonResults(ctx context.Context, player string, season int) ([]models.TournamentResult, error) {
	var results []models.TournamentResult
	query := r.db.WithContext(ctx).Where("player_name = ?", player)
	if season > 0 {
		query = query.Where("season = ?", season)
	}
	if err := query.Order("tournament_date DESC").Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to load season results: %w", err)
	}
	return results, nil
}

// PlayerExists reports whether the player appears in any stored table
func (r *StatsRepository) PlayerExists(ctx context.Context, player string) (bool, error) {
	for _, model := range []interface{}{&models.TournamentResult{}, &models.PlayerStat{}, &models.HistoricalResult{}} {
		var count int64
		if err := r.db.WithContext(ctx).Model(model).Where("player_name = ?", player).Count(&count).Error; err != nil {
			return false, fmt.Errorf("failed to look up player: %w", err)
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}
