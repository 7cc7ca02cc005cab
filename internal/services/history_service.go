package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stitts-dev/pga-pick-tracker/internal/coursehistory"
	"github.com/stitts-dev/pga-pick-tracker/internal/models"
)

var ErrMissingColumns = errors.New("missing required columns")

const importBatchSize = 500

// columnAliases maps the header spellings seen in public results datasets onto ledger fields
var columnAliases = map[string]string{
	"name":            "player_name",
	"player":          "player_name",
	"player name":     "player_name",
	"player_name":     "player_name",
	"tournament":      "tournament_name",
	"tournament name": "tournament_name",
	"tournament_name": "tournament_name",
	"event":           "tournament_name",
	"location":        "course_name",
	"course":          "course_name",
	"course name":     "course_name",
	"course_name":     "course_name",
	"venue":           "course_name",
	"season":          "year",
	"year":            "year",
	"position":        "finish_position",
	"finish":          "finish_position",
	"pos":             "finish_position",
	"finish_position": "finish_position",
	"score":           "score",
	"total":           "score",
	"earnings":        "earnings",
	"prize money":     "earnings",
	"money":           "earnings",
	"sg total":        "sg_total",
	"sg: total":       "sg_total",
	"sg_total":        "sg_total",
}

// ParseSeparator maps a separator name or character onto a CSV delimiter. Empty means comma.
func ParseSeparator(value string) (rune, bool) {
	switch value {
	case "", ",", "comma":
		return ',', true
	case ";", "semicolon":
		return ';', true
	case "tab", "\t":
		return '\t', true
	case "|", "pipe":
		return '|', true
	}
	return 0, false
}

// ImportReport describes one CSV import
type ImportReport struct {
	Columns  []string `json:"columns"`
	Rows     int      `json:"rows"`
	Imported int      `json:"imported"`
	// Duplicates repeat an earlier (player, tournament, year) in the same file; the later row wins
	Duplicates int `json:"duplicates"`
	Skipped    int `json:"skipped"`
	Errors     int `json:"errors"`
	Summaries  int `json:"summaries"`
}

// HistoryService maintains the historical results ledger and the course-history summaries derived from it
type HistoryService struct {
	db     *gorm.DB
	cache  StatCache
	logger *logrus.Logger
}

func NewHistoryService(db *gorm.DB, cache StatCache, logger *logrus.Logger) *HistoryService {
	return &HistoryService{db: db, cache: cache, logger: logger}
}

// ImportCSV upserts results keyed by (player, tournament, year) and then rebuilds the summaries.
// Rows without a player, tournament or numeric year are skipped.
func (s *HistoryService) ImportCSV(ctx context.Context, r io.Reader, sep rune) (*ImportReport, error) {
	reader := csv.NewReader(r)
	if sep != 0 {
		reader.Comma = sep
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	report := &ImportReport{Columns: header}
	index := mapColumns(header)
	var missing []string
	for _, required := range []string{"player_name", "tournament_name", "year"} {
		if _, ok := index[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return report, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	var batch []models.HistoricalResult
	pending := make(map[string]int)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "player_name"}, {Name: "tournament_name"}, {Name: "year"}},
			DoUpdates: clause.AssignmentColumns([]string{"course_name", "finish_position", "score", "earnings", "sg_total", "made_cut"}),
		}).Create(&batch).Error
		if err != nil {
			return fmt.Errorf("failed to store results: %w", err)
		}
		report.Imported += len(batch)
		batch = batch[:0]
		clear(pending)
		return nil
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		report.Rows++
		if err != nil {
			report.Errors++
			if report.Errors <= 5 {
				s.logger.WithError(err).WithField("row", report.Rows).Warn("Skipping unreadable row")
			}
			continue
		}

		row, ok := parseHistoricalRow(record, index)
		if !ok {
			report.Skipped++
			continue
		}
		// one upsert statement cannot touch the same key twice
		key := fmt.Sprintf("%s|%s|%d", row.PlayerName, row.TournamentName, row.Year)
		if i, dup := pending[key]; dup {
			batch[i] = row
			report.Duplicates++
			continue
		}
		pending[key] = len(batch)
		batch = append(batch, row)
		if len(batch) >= importBatchSize {
			if err := flush(); err != nil {
				return report, err
			}
		}
	}
	if err := flush(); err != nil {
		return report, err
	}

	summaries, err := s.RebuildCourseHistory(ctx)
	if err != nil {
		return report, err
	}
	report.Summaries = summaries

	s.logger.WithFields(logrus.Fields{
		"rows":       report.Rows,
		"imported":   report.Imported,
		"duplicates": report.Duplicates,
		"skipped":    report.Skipped,
		"errors":     report.Errors,
		"summaries":  report.Summaries,
	}).Info("Historical results imported")

	return report, nil
}

func mapColumns(header []string) map[string]int {
	index := make(map[string]int)
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if field, ok := columnAliases[key]; ok {
			if _, seen := index[field]; !seen {
				index[field] = i
			}
		}
	}
	return index
}

func parseHistoricalRow(record []string, index map[string]int) (models.HistoricalResult, bool) {
	get := func(field string) string {
		i, ok := index[field]
		if !ok || i >= len(record) {
			return ""
		}
		v := strings.TrimSpace(record[i])
		if strings.EqualFold(v, "nan") {
			return ""
		}
		return v
	}

	player := get("player_name")
	tournament := get("tournament_name")
	if player == "" || tournament == "" {
		return models.HistoricalResult{}, false
	}
	yearValue, err := strconv.ParseFloat(get("year"), 64)
	if err != nil || yearValue <= 0 {
		return models.HistoricalResult{}, false
	}

	finish := get("finish_position")
	row := models.HistoricalResult{
		PlayerName:     player,
		TournamentName: tournament,
		CourseName:     get("course_name"),
		Year:           int(yearValue),
		FinishPosition: finish,
		Score:          get("score"),
		MadeCut:        !coursehistory.IsCut(finish),
	}
	if earnings, ok := parseMoney(get("earnings")); ok {
		row.Earnings = &earnings
	}
	if sg, err := strconv.ParseFloat(get("sg_total"), 64); err == nil {
		row.SGTotal = &sg
	}
	return row, true
}

// parseMoney accepts "$1,234.50" style amounts
func parseMoney(s string) (float64, bool) {
	s = strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// RebuildCourseHistory recomputes every summary from the full ledger and swaps the table
// contents in one transaction, so readers see either the old or the new summaries.
func (s *HistoryService) RebuildCourseHistory(ctx context.Context) (int, error) {
	var results []models.HistoricalResult
	err := s.db.WithContext(ctx).
		Select("player_name", "tournament_name", "course_name", "year", "finish_position").
		Order("player_name, course_name, year, tournament_name").
		Find(&results).Error
	if err != nil {
		return 0, fmt.Errorf("failed to load historical results: %w", err)
	}

	ledger := make([]coursehistory.LedgerRow, 0, len(results))
	for _, r := range results {
		ledger = append(ledger, r.LedgerRow())
	}
	summaries := coursehistory.Aggregate(ledger)

	rows := make([]models.CourseHistory, 0, len(summaries))
	malformed := 0
	for _, summary := range summaries {
		rows = append(rows, models.NewCourseHistory(summary))
		malformed += summary.MalformedTokens
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.CourseHistory{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, importBatchSize).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to rebuild course history: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.WithError(err).Warn("Failed to invalidate stat cache after rebuild")
		}
	}

	entry := s.logger.WithFields(logrus.Fields{
		"ledger_rows": len(results),
		"summaries":   len(rows),
	})
	if malformed > 0 {
		entry = entry.WithField("malformed_tokens", malformed)
	}
	entry.Info("Course history rebuilt")

	return len(rows), nil
}
