package models

// All lists every persisted model in migration order
func All() []interface{} {
	return []interface{}{
		&Tournament{},
		&TournamentResult{},
		&PlayerStat{},
		&PlayerRecentForm{},
		&PlayerStatsCache{},
		&HistoricalResult{},
		&CourseHistory{},
		&Pick{},
		&UsedPlayer{},
	}
}

// TableNames lists every table in reverse dependency order for teardown
func TableNames() []string {
	return []string{
		"used_players",
		"picks",
		"course_history",
		"historical_results",
		"player_stats_cache",
		"player_recent_form",
		"player_stats",
		"tournament_results",
		"tournaments",
	}
}
