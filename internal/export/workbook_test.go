package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/stitts-dev/pga-pick-tracker/internal/models"
	"github.com/stitts-dev/pga-pick-tracker/internal/predictor"
	"github.com/stitts-dev/pga-pick-tracker/internal/services"
)

func TestWrite(t *testing.T) {
	field := &services.RankedField{
		FieldStrength: predictor.FieldAverage,
		FieldSize:     2,
		Entries: []predictor.FieldEntry{
			{
				Rank:           1,
				PlayerName:     "Scottie Scheffler",
				WinProbability: 24.21,
				ValueScore:     81.1,
				Stats:          predictor.PlayerStatistics{FedexRank: predictor.IntPtr(1), RecentForm: predictor.FormExcellent},
			},
			{Rank: 2, PlayerName: "Unknown Amateur", WinProbability: 12.3, ValueScore: 50, IsUsed: true},
		},
	}
	picks := []services.PickView{
		{
			Pick:     models.Pick{PlayerName: "Sepp Straka", TournamentName: "The American Express", TournamentDate: time.Date(2026, time.January, 22, 0, 0, 0, 0, time.UTC)},
			Finish:   "T4",
			Earnings: 410000,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, field, picks))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{FieldSheet, PicksSheet}, f.GetSheetList())

	rows, err := f.GetRows(FieldSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, fieldHeaders, rows[0])
	assert.Equal(t, "Scottie Scheffler", rows[1][1])
	assert.Equal(t, "24.21", rows[1][2])
	assert.Equal(t, "1", rows[1][4])
	assert.Equal(t, "🔥 Excellent", rows[1][7])
	assert.Equal(t, "No history", rows[2][8])
	assert.Equal(t, "yes", rows[2][9])

	rows, err = f.GetRows(PicksSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"The American Express", "2026-01-22", "Sepp Straka", "T4", "410000"}, rows[1])
}

func TestWorkbook_Empty(t *testing.T) {
	f, err := Workbook(nil, nil)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(PicksSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, pickHeaders, rows[0])
}
