package predictor

import "math"

const (
	// defaultRank stands in for a missing ranking: mediocre but plausible
	defaultRank = 100
	// rankHorizon is the rank at which the rank score reaches zero
	rankHorizon = 200.0

	neutralCourseScore = 50.0
	minCourseScore     = 20.0
	maxCourseScore     = 100.0
)

var formScores = map[RecentForm]float64{
	FormExcellent: 90,
	FormGood:      70,
	FormAverage:   50,
	FormPoor:      30,
	FormUnknown:   50,
}

// effectiveRank applies the missing-rank default. Ranks below 1 are passed through unchanged
// and will overstate the score.
func effectiveRank(rank *int) int {
	if rank == nil {
		return defaultRank
	}
	return *rank
}

// RankScore converts a ranking (1 = best) into a 0-100 score
func RankScore(rank *int) float64 {
	r := float64(effectiveRank(rank))
	return math.Max(0, (rankHorizon-r)/rankHorizon*100)
}

// StrokesGainedScore maps strokes gained total onto 0-100 centered on -2 strokes
func StrokesGainedScore(sgTotal *float64) float64 {
	sg := 0.0
	if sgTotal != nil {
		sg = *sgTotal
	}
	return clamp((sg+2)*20, 0, 100)
}

// FormScore looks up the recent form score; unknown or empty form is neutral
func FormScore(form RecentForm) float64 {
	if score, ok := formScores[form]; ok {
		return score
	}
	return formScores[FormUnknown]
}

// CourseHistoryScore rewards wins, top finishes, a low average finish and experience at the venue.
// A player without any history at the course gets the neutral score.
func CourseHistoryScore(history *CourseHistorySummary) float64 {
	if history == nil {
		return neutralCourseScore
	}

	score := neutralCourseScore
	if history.Wins > 0 {
		score += 30 * float64(history.Wins)
	}
	score += 10 * float64(history.Top5s)
	score += 5 * float64(history.Top10s)
	if history.AverageFinish != nil && *history.AverageFinish < 30 {
		score += (30 - *history.AverageFinish) * 2
	}
	if history.Appearances >= 5 {
		score += 5
	}

	return clamp(score, minCourseScore, maxCourseScore)
}

// Normalize computes every sub-score for a player
func Normalize(stats PlayerStatistics) SubScores {
	return SubScores{
		FedexRank:     RankScore(stats.FedexRank),
		WorldRank:     RankScore(stats.WorldRank),
		StrokesGained: StrokesGainedScore(stats.StrokesGainedTotal),
		RecentForm:    FormScore(stats.RecentForm),
		CourseHistory: CourseHistoryScore(stats.CourseHistory),
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
