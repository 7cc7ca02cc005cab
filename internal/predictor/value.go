package predictor

import "math"

const (
	minExpectedProbability = 0.1
	// valueMidpoint is the score of a player performing exactly as their ranking predicts
	valueMidpoint = 50.0
	maxValueScore = 100.0
)

// ExpectedProbability is the win probability a player's FedEx ranking alone would suggest
func (p *Predictor) ExpectedProbability(fedexRank *int) float64 {
	r := float64(effectiveRank(fedexRank))
	return math.Max(minExpectedProbability, (rankHorizon-r)/rankHorizon*p.cfg.ExpectedProbabilityScale)
}

// ValueScore compares the computed win probability with the ranking-implied one.
// Scores above 50 flag players who look undervalued by their ranking.
func (p *Predictor) ValueScore(fedexRank *int, winProbability float64) float64 {
	expected := p.ExpectedProbability(fedexRank)

	ratio := 1.0
	if expected > 0 {
		ratio = winProbability / expected
	}

	return round2(clamp(ratio*valueMidpoint, 0, maxValueScore))
}
