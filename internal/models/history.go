package models

import (
	"github.com/stitts-dev/pga-pick-tracker/internal/coursehistory"
	"github.com/stitts-dev/pga-pick-tracker/internal/predictor"
)

// HistoricalResult is one row of the multi-year results ledger
type HistoricalResult struct {
	ID             uint     `gorm:"primaryKey" json:"id"`
	PlayerName     string   `gorm:"not null;uniqueIndex:idx_historical_player_event_year,priority:1" json:"player_name"`
	TournamentName string   `gorm:"not null;uniqueIndex:idx_historical_player_event_year,priority:2" json:"tournament_name"`
	Year           int      `gorm:"not null;uniqueIndex:idx_historical_player_event_year,priority:3" json:"year"`
	CourseName     string   `gorm:"index" json:"course_name"`
	FinishPosition string   `json:"finish_position"`
	Score          string   `json:"score"`
	Earnings       *float64 `json:"earnings,omitempty"`
	SGTotal        *float64 `json:"sg_total,omitempty"`
	MadeCut        bool     `json:"made_cut"`
}

// TableName specifies the table name for GORM
func (HistoricalResult) TableName() string {
	return "historical_results"
}

// LedgerRow converts the stored row for aggregation
func (h HistoricalResult) LedgerRow() coursehistory.LedgerRow {
	return coursehistory.LedgerRow{
		Player:     h.PlayerName,
		Tournament: h.TournamentName,
		Course:     h.CourseName,
		Year:       h.Year,
		Finish:     h.FinishPosition,
	}
}

// CourseHistory is the derived per player, per course summary. It is rebuilt wholesale from
// historical_results and never edited in place.
type CourseHistory struct {
	ID                 uint     `gorm:"primaryKey" json:"id"`
	PlayerName         string   `gorm:"not null;uniqueIndex:idx_course_history_player_course,priority:1" json:"player_name"`
	CourseName         string   `gorm:"not null;uniqueIndex:idx_course_history_player_course,priority:2" json:"course_name"`
	Appearances        int      `gorm:"default:0" json:"appearances"`
	Wins               int      `gorm:"default:0" json:"wins"`
	Top5s              int      `gorm:"column:top_5s;default:0" json:"top_5s"`
	Top10s             int      `gorm:"column:top_10s;default:0" json:"top_10s"`
	MadeCuts           int      `gorm:"default:0" json:"made_cuts"`
	AvgFinish          *float64 `json:"avg_finish,omitempty"`
	BestFinish         string   `json:"best_finish"`
	BestFinishPosition int      `json:"best_finish_position"`
	LastPlayed         *int     `json:"last_played,omitempty"`
}

// TableName specifies the table name for GORM
func (CourseHistory) TableName() string {
	return "course_history"
}

// NewCourseHistory flattens an aggregated summary into a row
func NewCourseHistory(s predictor.CourseHistorySummary) CourseHistory {
	row := CourseHistory{
		PlayerName:  s.Player,
		CourseName:  s.Course,
		Appearances: s.Appearances,
		Wins:        s.Wins,
		Top5s:       s.Top5s,
		Top10s:      s.Top10s,
		MadeCuts:    s.MadeCuts,
		AvgFinish:   s.AverageFinish,
		LastPlayed:  s.LastPlayed,
	}
	if s.BestFinish != nil {
		row.BestFinish = s.BestFinish.Raw
		row.BestFinishPosition = s.BestFinish.Position
	}
	return row
}

// Summary converts the row back into the scoring type
func (c CourseHistory) Summary() *predictor.CourseHistorySummary {
	s := &predictor.CourseHistorySummary{
		Player:        c.PlayerName,
		Course:        c.CourseName,
		Appearances:   c.Appearances,
		Wins:          c.Wins,
		Top5s:         c.Top5s,
		Top10s:        c.Top10s,
		MadeCuts:      c.MadeCuts,
		AverageFinish: c.AvgFinish,
		LastPlayed:    c.LastPlayed,
	}
	if c.BestFinish != "" {
		s.BestFinish = &predictor.FinishToken{Raw: c.BestFinish, Position: c.BestFinishPosition}
	}
	return s
}
