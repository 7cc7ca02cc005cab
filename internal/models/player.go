package models

import (
	"time"

	"gorm.io/datatypes"
)

// PlayerStat holds season ranking and strokes-gained numbers for one player
type PlayerStat struct {
	PlayerName  string    `gorm:"primaryKey" json:"player_name"`
	FedexRank   *int      `json:"fedex_rank,omitempty"`
	WorldRank   *int      `json:"world_rank,omitempty"`
	SeasonMoney float64   `json:"season_money"`
	SGTotal     *float64  `json:"sg_total,omitempty"`
	SGOTT       *float64  `json:"sg_ott,omitempty"`
	SGAPP       *float64  `json:"sg_app,omitempty"`
	SGARG       *float64  `json:"sg_arg,omitempty"`
	SGPutt      *float64  `json:"sg_putt,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (PlayerStat) TableName() string {
	return "player_stats"
}

// PlayerRecentForm summarizes a player's last few events. FormLabel wins over Rating when both are set.
type PlayerRecentForm struct {
	PlayerName   string    `gorm:"primaryKey" json:"player_name"`
	RecentEvents int       `json:"recent_events"`
	AvgFinish    *float64  `json:"avg_finish,omitempty"`
	BestFinish   string    `json:"best_finish"`
	Rating       *float64  `json:"rating,omitempty"`
	FormLabel    string    `json:"form_label"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (PlayerRecentForm) TableName() string {
	return "player_recent_form"
}

// PlayerStatsCache persists assembled statistics between process restarts
type PlayerStatsCache struct {
	CacheKey    string         `gorm:"primaryKey" json:"cache_key"`
	StatsJSON   datatypes.JSON `gorm:"not null" json:"stats_json"`
	LastUpdated time.Time      `gorm:"index" json:"last_updated"`
}

// TableName specifies the table name for GORM
func (PlayerStatsCache) TableName() string {
	return "player_stats_cache"
}
