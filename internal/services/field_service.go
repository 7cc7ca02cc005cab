package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/stitts-dev/pga-pick-tracker/internal/filter"
	"github.com/stitts-dev/pga-pick-tracker/internal/models"
	"github.com/stitts-dev/pga-pick-tracker/internal/predictor"
)

const defaultStatFetchConcurrency = 8

// UsedPlayerLister reports which players have already been picked
type UsedPlayerLister interface {
	UsedPlayers(ctx context.Context) ([]string, error)
}

// FieldRequest selects and narrows a ranked field. Zero values mean "no filter".
type FieldRequest struct {
	Venue
	Season            int
	FieldStrength     string
	MinWinProbability float64
	HideUsed          bool
	Filter            string
	Limit             int
}

// RankedField is a scored field after caller filters
type RankedField struct {
	Venue         Venue                   `json:"venue"`
	FieldStrength predictor.FieldStrength `json:"field_strength"`
	FieldSize     int                     `json:"field_size"`
	Entries       []predictor.FieldEntry  `json:"entries"`
}

// FieldService loads a tournament field and ranks it
type FieldService struct {
	stats       *StatsRepository
	predictor   *predictor.Predictor
	used        UsedPlayerLister
	concurrency int
	logger      *logrus.Logger
}

func NewFieldService(stats *StatsRepository, p *predictor.Predictor, used UsedPlayerLister, concurrency int, logger *logrus.Logger) *FieldService {
	if concurrency <= 0 {
		concurrency = defaultStatFetchConcurrency
	}
	// a typed nil would pass the nil checks and panic on first use
	if picks, ok := used.(*PickService); ok && picks == nil {
		used = nil
	}
	return &FieldService{
		stats:       stats,
		predictor:   p,
		used:        used,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Predictor returns the scoring engine in use
func (s *FieldService) Predictor() *predictor.Predictor {
	return s.predictor
}

// LoadStatistics assembles statistics for every player, in field order
func (s *FieldService) LoadStatistics(ctx context.Context, players []string, venue Venue) ([]predictor.PlayerStatistics, error) {
	stats := make([]predictor.PlayerStatistics, len(players))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, player := range players {
		g.Go(func() error {
			ps, err := s.stats.GetPlayerStatistics(gctx, player, venue)
			if err != nil {
				return fmt.Errorf("loading %s: %w", player, err)
			}
			stats[i] = ps
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

// RankedField scores the whole field, applies the field-strength adjustment once and then
// the caller's filters. Invalid filter expressions fail before any scoring is done.
func (s *FieldService) RankedField(ctx context.Context, req FieldRequest) (*RankedField, error) {
	strength := s.predictor.Config().FieldStrength
	if req.FieldStrength != "" {
		parsed, err := predictor.ParseFieldStrength(req.FieldStrength)
		if err != nil {
			return nil, err
		}
		strength = parsed
	}

	var expr *filter.Filter
	if req.Filter != "" {
		compiled, err := filter.Compile(req.Filter)
		if err != nil {
			return nil, err
		}
		expr = compiled
	}

	players, err := s.stats.TournamentField(ctx, req.Season)
	if err != nil {
		return nil, err
	}

	stats, err := s.LoadStatistics(ctx, players, req.Venue)
	if err != nil {
		return nil, err
	}

	entries, err := s.predictor.AdjustField(s.predictor.RankedField(stats), strength)
	if err != nil {
		return nil, err
	}

	if err := s.markUsed(ctx, entries); err != nil {
		return nil, err
	}

	entries, err = applyFilters(entries, req, expr)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"tournament":     req.Tournament,
		"course":         req.Course,
		"field_strength": strength,
		"field_size":     len(players),
		"returned":       len(entries),
	}).Debug("Ranked tournament field")

	return &RankedField{
		Venue:         req.Venue,
		FieldStrength: strength,
		FieldSize:     len(players),
		Entries:       entries,
	}, nil
}

func (s *FieldService) markUsed(ctx context.Context, entries []predictor.FieldEntry) error {
	if s.used == nil {
		return nil
	}
	used, err := s.used.UsedPlayers(ctx)
	if err != nil {
		return err
	}
	set := make(map[string]bool, len(used))
	for _, name := range used {
		set[name] = true
	}
	for i := range entries {
		entries[i].IsUsed = set[entries[i].PlayerName]
	}
	return nil
}

func applyFilters(entries []predictor.FieldEntry, req FieldRequest, expr *filter.Filter) ([]predictor.FieldEntry, error) {
	kept := make([]predictor.FieldEntry, 0, len(entries))
	for _, e := range entries {
		if e.WinProbability < req.MinWinProbability {
			continue
		}
		if req.HideUsed && e.IsUsed {
			continue
		}
		kept = append(kept, e)
	}

	if expr != nil {
		var err error
		if kept, err = expr.Apply(kept); err != nil {
			return nil, err
		}
	}

	if req.Limit > 0 && len(kept) > req.Limit {
		kept = kept[:req.Limit]
	}
	return kept, nil
}

// ValuePicks narrows a ranked field to mid-ranked players the model likes more than their ranking
func (s *FieldService) ValuePicks(entries []predictor.FieldEntry, criteria predictor.ValuePickCriteria) []predictor.FieldEntry {
	return predictor.ValuePicks(entries, criteria)
}

// PlayerDetail is the full breakdown of one player's prediction
type PlayerDetail struct {
	Stats               predictor.PlayerStatistics `json:"stats"`
	SubScores           predictor.SubScores        `json:"sub_scores"`
	WinProbability      float64                    `json:"win_probability"`
	ExpectedProbability float64                    `json:"expected_probability"`
	ValueScore          float64                    `json:"value_score"`
	RecentFormLabel     string                     `json:"recent_form_label"`
	CourseHistoryLabel  string                     `json:"course_history_label"`
	SeasonResults       []models.TournamentResult  `json:"season_results"`
	EventHistory        []models.HistoricalResult  `json:"event_history"`
	IsUsed              bool                       `json:"is_used"`
}

// PlayerDetail scores a single player for the venue and gathers their results
func (s *FieldService) PlayerDetail(ctx context.Context, player string, venue Venue, season int) (*PlayerDetail, error) {
	exists, err := s.stats.PlayerExists(ctx, player)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, player)
	}

	stats, err := s.stats.GetPlayerStatistics(ctx, player, venue)
	if err != nil {
		return nil, err
	}

	sub, prob := s.predictor.Score(stats)
	detail := &PlayerDetail{
		Stats:               stats,
		SubScores:           sub,
		WinProbability:      prob,
		ExpectedProbability: s.predictor.ExpectedProbability(stats.FedexRank),
		ValueScore:          s.predictor.ValueScore(stats.FedexRank, prob),
		RecentFormLabel:     predictor.FormLabel(stats.RecentForm),
		CourseHistoryLabel:  predictor.DescribeCourseHistory(stats.CourseHistory),
	}

	if detail.SeasonResults, err = s.stats.SeasonResults(ctx, player, season); err != nil {
		return nil, err
	}
	if venue.Tournament != "" {
		if detail.EventHistory, err = s.stats.EventHistory(ctx, player, venue.Tournament); err != nil {
			return nil, err
		}
	}

	if s.used != nil {
		used, err := s.used.UsedPlayers(ctx)
		if err != nil {
			return nil, err
		}
		for _, name := range used {
			if name == player {
				detail.IsUsed = true
				break
			}
		}
	}

	return detail, nil
}
