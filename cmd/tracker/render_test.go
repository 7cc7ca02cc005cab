package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/stitts-dev/pga-pick-tracker/internal/models"
	"github.com/stitts-dev/pga-pick-tracker/internal/predictor"
	"github.com/stitts-dev/pga-pick-tracker/internal/services"
)

func TestOptionalFormatting(t *testing.T) {
	assert.Equal(t, "-", optionalRank(nil))
	assert.Equal(t, "7", optionalRank(predictor.IntPtr(7)))
	assert.Equal(t, "-", optionalFloat(nil))
	assert.Equal(t, "1.25", optionalFloat(predictor.FloatPtr(1.25)))
	assert.Equal(t, "$3600000", money(3_600_000))
}

func TestRenderField(t *testing.T) {
	field := &services.RankedField{
		Venue:         services.Venue{Tournament: "The Memorial Tournament", Course: "Muirfield Village"},
		FieldStrength: predictor.FieldElite,
		FieldSize:     2,
		Entries: []predictor.FieldEntry{
			{Rank: 1, PlayerName: "Scottie Scheffler", WinProbability: 14.4, ValueScore: 50,
				Stats: predictor.PlayerStatistics{FedexRank: predictor.IntPtr(1), RecentForm: predictor.FormExcellent}},
			{Rank: 2, PlayerName: "Xander Schauffele", WinProbability: 9.1, IsUsed: true},
		},
	}

	var buf bytes.Buffer
	renderField(&buf, field)
	out := buf.String()

	assert.Contains(t, out, "The Memorial Tournament")
	assert.Contains(t, out, "Muirfield Village")
	assert.Contains(t, out, "Scottie Scheffler")
	assert.Contains(t, out, "Xander Schauffele (used)")
	assert.Contains(t, out, "14.40")
}

func TestRenderField_Empty(t *testing.T) {
	var buf bytes.Buffer
	renderField(&buf, &services.RankedField{FieldStrength: predictor.FieldAverage})

	assert.Contains(t, buf.String(), "No players match.")
}

func TestRenderPicks(t *testing.T) {
	picks := []services.PickView{
		{Pick: models.Pick{PlayerName: "Rory McIlroy", TournamentName: "Masters Tournament",
			TournamentDate: time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)}, Finish: "1", Earnings: 4_200_000},
	}
	summary := &services.SeasonSummary{Season: 2025, PicksMade: 1, PicksRemaining: 199, Cashed: 1, TotalEarnings: 4_200_000, BestFinish: "1"}

	var buf bytes.Buffer
	renderPicks(&buf, picks, summary)
	out := buf.String()

	assert.Contains(t, out, "2025 season picks")
	assert.Contains(t, out, "2025-04-10")
	assert.Contains(t, out, "Rory McIlroy")
	assert.Contains(t, out, "$4200000")
	assert.Contains(t, out, "199")
}

func TestRenderWeeklyCheck(t *testing.T) {
	last := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	status := &services.WeeklyStatus{
		Today:           time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		LastTournament:  "Cognizant Classic",
		LastDate:        &last,
		Players:         120,
		DaysSince:       9,
		Stale:           true,
		PicksUsed:       1,
		PicksRemaining:  199,
		SeasonPickLimit: 200,
	}

	var buf bytes.Buffer
	renderWeeklyCheck(&buf, status)
	out := buf.String()

	assert.Contains(t, out, "Cognizant Classic")
	assert.Contains(t, out, "9 days old, import this week's results")
	assert.Contains(t, out, "199 of 200")

	buf.Reset()
	renderWeeklyCheck(&buf, &services.WeeklyStatus{Today: status.Today, SeasonPickLimit: 200, PicksRemaining: 200})
	assert.Contains(t, buf.String(), "No tournament results imported yet.")
}
