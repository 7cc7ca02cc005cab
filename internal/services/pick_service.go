package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stitts-dev/pga-pick-tracker/internal/coursehistory"
	"github.com/stitts-dev/pga-pick-tracker/internal/models"
)

var (
	ErrPlayerAlreadyUsed = errors.New("player already used")
	ErrPickLimitReached  = errors.New("pick limit reached")
	ErrPickNotFound      = errors.New("pick not found")
)

// PickRules are the contest rules enforced on every new pick
type PickRules struct {
	PicksPerWeek    int
	SeasonPickLimit int
	Season          int
}

// PickService records weekly picks. Each player may be picked once; the used_players
// primary key backs that up if two requests race.
type PickService struct {
	db     *gorm.DB
	rules  PickRules
	now    func() time.Time
	logger *logrus.Logger
}

func NewPickService(db *gorm.DB, rules PickRules, logger *logrus.Logger) *PickService {
	if rules.Season == 0 {
		rules.Season = time.Now().Year()
	}
	return &PickService{db: db, rules: rules, now: time.Now, logger: logger}
}

// Rules returns the contest rules in force
func (s *PickService) Rules() PickRules {
	return s.rules
}

// AddPick records a pick and marks the player used, atomically
func (s *PickService) AddPick(ctx context.Context, player, tournament string, tournamentDate *time.Time) (*models.Pick, error) {
	player = strings.TrimSpace(player)
	tournament = strings.TrimSpace(tournament)
	if player == "" || tournament == "" {
		return nil, errors.New("player and tournament are required")
	}

	now := s.now()
	date := now
	if tournamentDate != nil {
		date = *tournamentDate
	}
	pick := &models.Pick{
		PlayerName:     player,
		TournamentName: tournament,
		TournamentDate: date,
		Season:         s.rules.Season,
		PickDate:       now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var used int64
		if err := tx.Model(&models.UsedPlayer{}).Where("player_name = ?", player).Count(&used).Error; err != nil {
			return err
		}
		if used > 0 {
			return fmt.Errorf("%w: %s", ErrPlayerAlreadyUsed, player)
		}

		if s.rules.PicksPerWeek > 0 {
			var weekly int64
			if err := tx.Model(&models.Pick{}).Where("tournament_name = ?", tournament).Count(&weekly).Error; err != nil {
				return err
			}
			if weekly >= int64(s.rules.PicksPerWeek) {
				return fmt.Errorf("%w: %d picks already made for %s", ErrPickLimitReached, weekly, tournament)
			}
		}

		if s.rules.SeasonPickLimit > 0 {
			var total int64
			if err := tx.Model(&models.Pick{}).Count(&total).Error; err != nil {
				return err
			}
			if total >= int64(s.rules.SeasonPickLimit) {
				return fmt.Errorf("%w: season limit of %d picks", ErrPickLimitReached, s.rules.SeasonPickLimit)
			}
		}

		if err := tx.Create(pick).Error; err != nil {
			return err
		}
		return tx.Create(&models.UsedPlayer{
			PlayerName:     player,
			TournamentName: tournament,
			WeekUsed:       models.WeekLabel(now),
			PickDate:       now,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"player":     player,
		"tournament": tournament,
	}).Info("Pick recorded")

	return pick, nil
}

// IsPlayerUsed reports whether the player has already been picked
func (s *PickService) IsPlayerUsed(ctx context.Context, player string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.UsedPlayer{}).Where("player_name = ?", player).Count(&count).Error
	return count > 0, err
}

// UsedPlayers lists every used player
func (s *PickService) UsedPlayers(ctx context.Context) ([]string, error) {
	var players []string
	err := s.db.WithContext(ctx).Model(&models.UsedPlayer{}).Order("player_name").Pluck("player_name", &players).Error
	return players, err
}

// UsedPlayerRecords lists used players with the event each was spent on
func (s *PickService) UsedPlayerRecords(ctx context.Context) ([]models.UsedPlayer, error) {
	var used []models.UsedPlayer
	err := s.db.WithContext(ctx).Order("pick_date DESC").Find(&used).Error
	return used, err
}

// PlayerUsedTournament returns the tournament a player was used for
func (s *PickService) PlayerUsedTournament(ctx context.Context, player string) (string, bool, error) {
	var used []models.UsedPlayer
	if err := s.db.WithContext(ctx).Where("player_name = ?", player).Limit(1).Find(&used).Error; err != nil {
		return "", false, err
	}
	if len(used) == 0 {
		return "", false, nil
	}
	return used[0].TournamentName, true, nil
}

// PicksCount returns the number of picks made
func (s *PickService) PicksCount(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Pick{}).Count(&count).Error
	return count, err
}

// PickView is a pick with its result, taken from the season results when the pick itself
// has not been updated yet
type PickView struct {
	models.Pick
	Finish   string  `json:"finish"`
	Earnings float64 `json:"earnings"`
}

// ListPicks returns every pick, newest tournament first
func (s *PickService) ListPicks(ctx context.Context) ([]PickView, error) {
	var picks []models.Pick
	if err := s.db.WithContext(ctx).Order("tournament_date DESC, id DESC").Find(&picks).Error; err != nil {
		return nil, fmt.Errorf("failed to list picks: %w", err)
	}

	views := make([]PickView, 0, len(picks))
	for _, p := range picks {
		view := PickView{Pick: p, Finish: p.FinishPosition, Earnings: p.MoneyWon}
		if view.Finish == "" {
			var results []models.TournamentResult
			err := s.db.WithContext(ctx).
				Where("player_name = ? AND tournament_name = ?", p.PlayerName, p.TournamentName).
				Limit(1).Find(&results).Error
			if err != nil {
				return nil, fmt.Errorf("failed to load pick result: %w", err)
			}
			if len(results) == 1 {
				view.Finish = results[0].FinishPosition
				view.Earnings = results[0].Earnings
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// UpdatePickResult stores the finish and winnings of a pick
func (s *PickService) UpdatePickResult(ctx context.Context, player, tournament, finish string, moneyWon float64) error {
	result := s.db.WithContext(ctx).Model(&models.Pick{}).
		Where("player_name = ? AND tournament_name = ?", player, tournament).
		Updates(map[string]interface{}{
			"finish_position": strings.TrimSpace(finish),
			"money_won":       moneyWon,
			"updated_at":      s.now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update pick: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s at %s", ErrPickNotFound, player, tournament)
	}
	return nil
}

// ClearSeason removes every pick and frees every player
func (s *PickService) ClearSeason(ctx context.Context) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Pick{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&models.UsedPlayer{}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to clear season: %w", err)
	}
	s.logger.Warn("Season picks cleared")
	return nil
}

// HistoricalPick is a pick made before the tracker was in use
type HistoricalPick struct {
	PlayerName     string    `json:"player_name" binding:"required"`
	TournamentName string    `json:"tournament_name" binding:"required"`
	TournamentDate time.Time `json:"tournament_date"`
	WeekUsed       string    `json:"week_used"`
}

// AddHistoricalPicks backfills picks. Players already marked used stay as they are.
func (s *PickService) AddHistoricalPicks(ctx context.Context, picks []HistoricalPick) error {
	now := s.now()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, hp := range picks {
			date := hp.TournamentDate
			if date.IsZero() {
				date = now
			}
			if err := tx.Create(&models.Pick{
				PlayerName:     hp.PlayerName,
				TournamentName: hp.TournamentName,
				TournamentDate: date,
				Season:         s.rules.Season,
				PickDate:       now,
			}).Error; err != nil {
				return err
			}

			week := hp.WeekUsed
			if week == "" {
				week = models.HistoricalWeek
			}
			err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.UsedPlayer{
				PlayerName:     hp.PlayerName,
				TournamentName: hp.TournamentName,
				WeekUsed:       week,
				PickDate:       now,
			}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// SeasonSummary totals the season so far
type SeasonSummary struct {
	Season         int     `json:"season"`
	PicksMade      int     `json:"picks_made"`
	PicksRemaining int     `json:"picks_remaining"`
	TotalEarnings  float64 `json:"total_earnings"`
	Cashed         int     `json:"cashed"`
	BestFinish     string  `json:"best_finish,omitempty"`
}

// SeasonSummary totals picks and winnings
func (s *PickService) SeasonSummary(ctx context.Context) (*SeasonSummary, error) {
	views, err := s.ListPicks(ctx)
	if err != nil {
		return nil, err
	}

	summary := &SeasonSummary{Season: s.rules.Season, PicksMade: len(views)}
	best := 0
	for _, v := range views {
		summary.TotalEarnings += v.Earnings
		if v.Earnings > 0 {
			summary.Cashed++
		}
		if pos, ok := coursehistory.ParseFinish(v.Finish); ok && (best == 0 || pos < best) {
			best = pos
			summary.BestFinish = v.Finish
		}
	}
	if s.rules.SeasonPickLimit > 0 {
		summary.PicksRemaining = s.rules.SeasonPickLimit - summary.PicksMade
		if summary.PicksRemaining < 0 {
			summary.PicksRemaining = 0
		}
	}
	return summary, nil
}
