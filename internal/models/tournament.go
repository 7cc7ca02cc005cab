package models

import (
	"time"

	"gorm.io/datatypes"
)

// TournamentStatus represents the status of a golf tournament
type TournamentStatus string

const (
	TournamentScheduled  TournamentStatus = "scheduled"
	TournamentInProgress TournamentStatus = "in_progress"
	TournamentCompleted  TournamentStatus = "completed"
	TournamentUnknown    TournamentStatus = "unknown"
)

// Tournament represents a PGA Tour event. At most one row is marked current.
type Tournament struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	ExternalID string           `gorm:"uniqueIndex;not null" json:"external_id"`
	Name       string           `gorm:"not null" json:"name"`
	CourseName string           `json:"course_name"`
	StartDate  *time.Time       `gorm:"index" json:"start_date,omitempty"`
	EndDate    *time.Time       `json:"end_date,omitempty"`
	Dates      string           `json:"dates"`
	Purse      string           `json:"purse"`
	Status     TournamentStatus `gorm:"type:varchar(50);default:'scheduled'" json:"status"`
	Season     int              `gorm:"index" json:"season"`
	IsCurrent  bool             `gorm:"index" json:"is_current"`
	Metadata   datatypes.JSON   `json:"metadata,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Tournament) TableName() string {
	return "tournaments"
}

// TournamentResult is one player's finish in a current-season event
type TournamentResult struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	PlayerName     string     `gorm:"not null;uniqueIndex:idx_result_player_tournament,priority:1" json:"player_name"`
	TournamentName string     `gorm:"not null;uniqueIndex:idx_result_player_tournament,priority:2" json:"tournament_name"`
	TournamentDate *time.Time `gorm:"index" json:"tournament_date,omitempty"`
	Season         int        `gorm:"index" json:"season"`
	FinishPosition string     `json:"finish_position"`
	ScoreToPar     *int       `json:"score_to_par,omitempty"`
	Earnings       float64    `json:"earnings"`
	FedexPoints    float64    `json:"fedex_points"`
	SGTotal        *float64   `json:"sg_total,omitempty"`
	MadeCut        bool       `json:"made_cut"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (TournamentResult) TableName() string {
	return "tournament_results"
}
