package predictor

import (
	"fmt"
	"strings"
)

// RecentForm is the precomputed form classification of a player over their last events
type RecentForm string

const (
	FormExcellent RecentForm = "excellent"
	FormGood      RecentForm = "good"
	FormAverage   RecentForm = "average"
	FormPoor      RecentForm = "poor"
	FormUnknown   RecentForm = "unknown"
)

// ParseRecentForm maps a stored label onto the closed form set. Anything unrecognized is Unknown.
func ParseRecentForm(label string) RecentForm {
	normalized := strings.ToLower(strings.TrimSpace(label))
	for _, form := range []RecentForm{FormExcellent, FormGood, FormAverage, FormPoor} {
		if strings.Contains(normalized, string(form)) {
			return form
		}
	}
	return FormUnknown
}

// FinishToken is a finish position as it appeared in the source data ("1", "T3", "MC")
// together with its numeric value when it has one.
type FinishToken struct {
	Raw      string `json:"raw"`
	Position int    `json:"position"`
}

func (f FinishToken) String() string {
	if f.Raw != "" {
		return f.Raw
	}
	return fmt.Sprintf("%d", f.Position)
}

// CourseHistorySummary aggregates one player's results at one venue
type CourseHistorySummary struct {
	Player          string       `json:"player"`
	Course          string       `json:"course"`
	Appearances     int          `json:"appearances"`
	Wins            int          `json:"wins"`
	Top5s           int          `json:"top_5s"`
	Top10s          int          `json:"top_10s"`
	MadeCuts        int          `json:"made_cuts"`
	AverageFinish   *float64     `json:"average_finish,omitempty"`
	BestFinish      *FinishToken `json:"best_finish,omitempty"`
	LastPlayed      *int         `json:"last_played,omitempty"`
	MalformedTokens int          `json:"-"`
}

// PlayerStatistics is the scoring input for one player. Every field is optional and
// resolved through the default substitution rules of the normalizer.
type PlayerStatistics struct {
	PlayerName         string                `json:"player_name"`
	FedexRank          *int                  `json:"fedex_rank,omitempty"`
	WorldRank          *int                  `json:"world_rank,omitempty"`
	StrokesGainedTotal *float64              `json:"sg_total,omitempty"`
	RecentForm         RecentForm            `json:"recent_form"`
	CourseHistory      *CourseHistorySummary `json:"course_history,omitempty"`
}

// SubScores holds the 0-100 normalized components that feed the composite
type SubScores struct {
	FedexRank     float64 `json:"fedex_rank"`
	WorldRank     float64 `json:"world_rank"`
	StrokesGained float64 `json:"sg_total"`
	RecentForm    float64 `json:"recent_form"`
	CourseHistory float64 `json:"course_history"`
}

// FieldEntry is one ranked row of a tournament field
type FieldEntry struct {
	Rank           int              `json:"rank"`
	PlayerName     string           `json:"player_name"`
	WinProbability float64          `json:"win_probability"`
	ValueScore     float64          `json:"value_score"`
	SubScores      SubScores        `json:"sub_scores"`
	Stats          PlayerStatistics `json:"stats"`
	IsUsed         bool             `json:"is_used"`
}

// IntPtr and FloatPtr are small helpers for building optional statistics
func IntPtr(v int) *int { return &v }

func FloatPtr(v float64) *float64 { return &v }
