package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/pga-pick-tracker/internal/predictor"
)

func TestWeekLabel(t *testing.T) {
	tests := []struct {
		date     time.Time
		expected string
	}{
		// Jan 1 2026 is a Thursday, before the first Sunday
		{time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), "2026-W00"},
		{time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC), "2026-W01"},
		{time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC), "2026-W06"},
		{time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), "2025-W52"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, WeekLabel(tt.date))
		})
	}
}

func TestCourseHistoryRoundTrip(t *testing.T) {
	summary := predictor.CourseHistorySummary{
		Player:        "Patrick Cantlay",
		Course:        "Muirfield Village",
		Appearances:   7,
		Wins:          2,
		Top5s:         3,
		Top10s:        4,
		MadeCuts:      6,
		AverageFinish: predictor.FloatPtr(11.5),
		BestFinish:    &predictor.FinishToken{Raw: "1", Position: 1},
		LastPlayed:    predictor.IntPtr(2024),
	}

	row := NewCourseHistory(summary)
	assert.Equal(t, "1", row.BestFinish)
	assert.Equal(t, 1, row.BestFinishPosition)

	back := row.Summary()
	require.NotNil(t, back)
	assert.Equal(t, summary, *back)
}

func TestCourseHistorySummary_WithoutBestFinish(t *testing.T) {
	row := NewCourseHistory(predictor.CourseHistorySummary{Player: "A", Course: "B", Appearances: 2})
	assert.Nil(t, row.Summary().BestFinish)
}

func TestHistoricalResultLedgerRow(t *testing.T) {
	h := HistoricalResult{PlayerName: "A", TournamentName: "The Memorial", CourseName: "Muirfield Village", Year: 2023, FinishPosition: "T4"}
	row := h.LedgerRow()
	assert.Equal(t, "Muirfield Village", row.Course)
	assert.Equal(t, "T4", row.Finish)
	assert.Equal(t, 2023, row.Year)
}
