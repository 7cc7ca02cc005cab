package models

import (
	"fmt"
	"time"
)

// HistoricalWeek marks used players that were backfilled rather than picked live
const HistoricalWeek = "Historical"

// Pick is one weekly selection and, once the event is over, its result
type Pick struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	PlayerName     string    `gorm:"not null;index" json:"player_name"`
	TournamentName string    `gorm:"not null;index" json:"tournament_name"`
	TournamentDate time.Time `gorm:"not null;index" json:"tournament_date"`
	Season         int       `gorm:"index" json:"season"`
	PickDate       time.Time `json:"pick_date"`
	FinishPosition string    `json:"finish_position"`
	MoneyWon       float64   `gorm:"default:0" json:"money_won"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Pick) TableName() string {
	return "picks"
}

// UsedPlayer records that a player has been spent. A player can be used once.
type UsedPlayer struct {
	PlayerName     string    `gorm:"primaryKey" json:"player_name"`
	TournamentName string    `gorm:"not null" json:"tournament_name"`
	WeekUsed       string    `gorm:"not null" json:"week_used"`
	PickDate       time.Time `json:"pick_date"`
}

// TableName specifies the table name for GORM
func (UsedPlayer) TableName() string {
	return "used_players"
}

// WeekLabel formats a date as "2026-W05", counting weeks from the first Sunday of the year
func WeekLabel(t time.Time) string {
	yday := t.YearDay() - 1
	week := (yday + 7 - int(t.Weekday())) / 7
	return fmt.Sprintf("%d-W%02d", t.Year(), week)
}
