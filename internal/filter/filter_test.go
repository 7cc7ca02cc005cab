package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/pga-pick-tracker/internal/predictor"
)

func field() []predictor.FieldEntry {
	return []predictor.FieldEntry{
		{
			Rank: 1, PlayerName: "Scottie Scheffler", WinProbability: 21.1, ValueScore: 70.7,
			Stats: predictor.PlayerStatistics{
				FedexRank: predictor.IntPtr(1), WorldRank: predictor.IntPtr(1),
				StrokesGainedTotal: predictor.FloatPtr(3.0), RecentForm: predictor.FormExcellent,
				CourseHistory: &predictor.CourseHistorySummary{Appearances: 4, Wins: 1, Top10s: 3, AverageFinish: predictor.FloatPtr(6.5)},
			},
		},
		{
			Rank: 2, PlayerName: "Ludvig Aberg", WinProbability: 16.7, ValueScore: 100, IsUsed: true,
			Stats: predictor.PlayerStatistics{FedexRank: predictor.IntPtr(45), RecentForm: predictor.FormExcellent},
		},
		{
			Rank: 3, PlayerName: "Unknown Amateur", WinProbability: 12.3, ValueScore: 82,
		},
	}
}

func TestCompile_RejectsBadExpressions(t *testing.T) {
	tests := []struct {
		name       string
		expression string
	}{
		{name: "syntax error", expression: "win_probability >"},
		{name: "unknown variable", expression: "salary > 9000"},
		{name: "non bool result", expression: "win_probability * 2.0"},
		{name: "type mismatch", expression: "player > 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.expression)
			assert.Nil(t, f)
			assert.ErrorIs(t, err, ErrInvalidExpression)
		})
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		expected   []string
	}{
		{name: "probability", expression: "win_probability > 15.0", expected: []string{"Scottie Scheffler", "Ludvig Aberg"}},
		{name: "course winners", expression: "course_wins > 0", expected: []string{"Scottie Scheffler"}},
		{name: "unused with rank", expression: "!used && has_fedex_rank", expected: []string{"Scottie Scheffler"}},
		{name: "form string", expression: `recent_form == "excellent" && fedex_rank > 10`, expected: []string{"Ludvig Aberg"}},
		{name: "missing stats default", expression: `recent_form == "unknown" && sg_total == 0.0`, expected: []string{"Unknown Amateur"}},
		{name: "string functions", expression: `player.startsWith("L")`, expected: []string{"Ludvig Aberg"}},
		{name: "nothing", expression: "rank > 10", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.expression)
			require.NoError(t, err)
			assert.Equal(t, tt.expression, f.String())

			kept, err := f.Apply(field())
			require.NoError(t, err)

			names := make([]string, 0, len(kept))
			for _, e := range kept {
				names = append(names, e.PlayerName)
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}

func TestActivation_MissingValues(t *testing.T) {
	vars := Activation(predictor.FieldEntry{PlayerName: "Nobody"})

	assert.Equal(t, int64(0), vars["fedex_rank"])
	assert.Equal(t, false, vars["has_fedex_rank"])
	assert.Equal(t, "unknown", vars["recent_form"])
	assert.Equal(t, 0.0, vars["course_avg_finish"])
}
