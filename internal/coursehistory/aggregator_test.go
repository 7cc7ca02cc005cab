package coursehistory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFinish(t *testing.T) {
	tests := []struct {
		token    string
		expected int
		ok       bool
	}{
		{"1", 1, true},
		{"T3", 3, true},
		{" t12 ", 12, true},
		{"MC", 0, false},
		{"wd", 0, false},
		{"CUT", 0, false},
		{"DQ", 0, false},
		{"", 0, false},
		{"T", 0, false},
		{"abc", 0, false},
		{"0", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			pos, ok := ParseFinish(tt.token)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, pos)
		})
	}
}

func TestAggregate_MissedCutCountsOnlyAsAppearance(t *testing.T) {
	rows := []LedgerRow{
		{Player: "Jordan Spieth", Tournament: "Valero Texas Open", Course: "TPC San Antonio", Year: 2022, Finish: "MC"},
		{Player: "Jordan Spieth", Tournament: "Valero Texas Open", Course: "TPC San Antonio", Year: 2023, Finish: "T8"},
	}

	summaries := Aggregate(rows)
	require.Len(t, summaries, 1)
	s := summaries[0]

	assert.Equal(t, 2, s.Appearances)
	assert.Equal(t, 1, s.MadeCuts)
	assert.Equal(t, 0, s.Wins)
	assert.Equal(t, 0, s.Top5s)
	assert.Equal(t, 1, s.Top10s)
	require.NotNil(t, s.AverageFinish)
	assert.InDelta(t, 8.0, *s.AverageFinish, 1e-9)
	require.NotNil(t, s.BestFinish)
	assert.Equal(t, "T8", s.BestFinish.Raw)
	require.NotNil(t, s.LastPlayed)
	assert.Equal(t, 2023, *s.LastPlayed)
}

func TestAggregate_OnlyMissedCuts(t *testing.T) {
	rows := []LedgerRow{
		{Player: "A", Course: "Augusta National", Year: 2021, Finish: "MC"},
		{Player: "A", Course: "Augusta National", Year: 2022, Finish: "wd"},
	}

	s := Aggregate(rows)[0]

	assert.Equal(t, 2, s.Appearances)
	assert.Equal(t, 0, s.MadeCuts)
	assert.Nil(t, s.AverageFinish)
	assert.Nil(t, s.BestFinish)
}

func TestAggregate_CountsAndBestFinish(t *testing.T) {
	rows := []LedgerRow{
		{Player: "Hideki Matsuyama", Course: "Riviera", Year: 2019, Finish: "3"},
		{Player: "Hideki Matsuyama", Course: "Riviera", Year: 2021, Finish: "T3"},
		{Player: "Hideki Matsuyama", Course: "Riviera", Year: 2022, Finish: "1"},
		{Player: "Hideki Matsuyama", Course: "Riviera", Year: 2023, Finish: "T22"},
		{Player: "Hideki Matsuyama", Course: "Riviera", Year: 2024, Finish: "n/a"},
	}

	s := Aggregate(rows)[0]

	assert.Equal(t, 5, s.Appearances)
	assert.Equal(t, 1, s.Wins)
	assert.Equal(t, 3, s.Top5s)
	assert.Equal(t, 3, s.Top10s)
	assert.Equal(t, 5, s.MadeCuts)
	assert.Equal(t, 1, s.MalformedTokens)
	require.NotNil(t, s.AverageFinish)
	assert.InDelta(t, 29.0/4.0, *s.AverageFinish, 1e-9)
	assert.Equal(t, "1", s.BestFinish.Raw)
	assert.Equal(t, 2024, *s.LastPlayed)
}

func TestAggregate_TiedBestFinishKeepsMostRecentToken(t *testing.T) {
	rows := []LedgerRow{
		{Player: "P", Course: "C", Year: 2019, Finish: "3"},
		{Player: "P", Course: "C", Year: 2023, Finish: "T3"},
	}

	s := Aggregate(rows)[0]

	assert.Equal(t, "T3", s.BestFinish.Raw)
	assert.Equal(t, 3, s.BestFinish.Position)
}

func TestAggregate_SkipsRowsWithoutPlayerOrCourse(t *testing.T) {
	rows := []LedgerRow{
		{Player: "", Course: "Pebble Beach", Year: 2020, Finish: "1"},
		{Player: "Max Homa", Course: "  ", Year: 2020, Finish: "1"},
		{Player: "Max Homa", Course: "Pebble Beach", Year: 2021, Finish: "T10"},
	}

	summaries := Aggregate(rows)

	require.Len(t, summaries, 1)
	assert.Equal(t, 1, summaries[0].Appearances)
	assert.Equal(t, 0, summaries[0].Wins)
}

func TestAggregate_GroupsAndOrders(t *testing.T) {
	rows := []LedgerRow{
		{Player: "Xander Schauffele", Course: "Valhalla", Year: 2024, Finish: "1"},
		{Player: "Bryson DeChambeau", Course: "Valhalla", Year: 2024, Finish: "2"},
		{Player: "Xander Schauffele", Course: "Pinehurst No. 2", Year: 2024, Finish: "T7"},
	}

	summaries := Aggregate(rows)

	require.Len(t, summaries, 3)
	assert.Equal(t, Key{"Bryson DeChambeau", "Valhalla"}, Key{summaries[0].Player, summaries[0].Course})
	assert.Equal(t, Key{"Xander Schauffele", "Pinehurst No. 2"}, Key{summaries[1].Player, summaries[1].Course})
	assert.Equal(t, Key{"Xander Schauffele", "Valhalla"}, Key{summaries[2].Player, summaries[2].Course})

	index := Index(summaries)
	assert.Equal(t, 1, index[Key{"Xander Schauffele", "Valhalla"}].Wins)
}

func TestAggregate_Idempotent(t *testing.T) {
	rows := []LedgerRow{
		{Player: "A", Course: "X", Year: 2020, Finish: "T4"},
		{Player: "B", Course: "X", Year: 2020, Finish: "MC"},
		{Player: "A", Course: "Y", Year: 2021, Finish: "12"},
		{Player: "A", Course: "X", Year: 2022, Finish: "T4"},
	}

	assert.Equal(t, Aggregate(rows), Aggregate(rows))
	assert.Empty(t, Aggregate(nil))
}

func TestAggregate_SameYearTieIndependentOfRowOrder(t *testing.T) {
	a := LedgerRow{Player: "P", Tournament: "Players Championship", Course: "TPC Sawgrass", Year: 2020, Finish: "T3"}
	b := LedgerRow{Player: "P", Tournament: "Arnold Palmer Invitational", Course: "TPC Sawgrass", Year: 2020, Finish: "3"}

	forward := Aggregate([]LedgerRow{a, b})
	reverse := Aggregate([]LedgerRow{b, a})

	assert.Equal(t, forward, reverse)
	require.NotNil(t, forward[0].BestFinish)
	// same year, so the tournament name decides
	assert.Equal(t, "3", forward[0].BestFinish.Raw)
	assert.Equal(t, 3, forward[0].BestFinish.Position)
}

func TestAggregate_SameTournamentAndYearTieIndependentOfRowOrder(t *testing.T) {
	a := LedgerRow{Player: "P", Tournament: "E", Course: "C", Year: 2020, Finish: "T3"}
	b := LedgerRow{Player: "P", Tournament: "E", Course: "C", Year: 2020, Finish: "3"}

	assert.Equal(t, Aggregate([]LedgerRow{a, b}), Aggregate([]LedgerRow{b, a}))
}
