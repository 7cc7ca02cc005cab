package predictor

import (
	"github.com/montanaflynn/stats"
)

// RecentFormEvents is how many of the latest events feed a form classification
const RecentFormEvents = 5

// FormThresholds are the average-finish cutoffs used to classify recent form
type FormThresholds struct {
	Excellent float64
	Good      float64
	Average   float64
}

// DefaultFormThresholds returns the average finish cutoffs for each form class
func DefaultFormThresholds() FormThresholds {
	return FormThresholds{Excellent: 10, Good: 20, Average: 40}
}

// FormFromRating classifies a 0-100 numeric form rating
func FormFromRating(rating float64) RecentForm {
	switch {
	case rating >= 80:
		return FormExcellent
	case rating >= 60:
		return FormGood
	case rating >= 40:
		return FormAverage
	default:
		return FormPoor
	}
}

// FormFromFinishes classifies form from finish positions ordered most recent first.
// Only the latest RecentFormEvents are used; no finishes means Unknown.
func FormFromFinishes(finishes []int, t FormThresholds) RecentForm {
	if len(finishes) > RecentFormEvents {
		finishes = finishes[:RecentFormEvents]
	}
	avg, err := stats.Mean(stats.LoadRawData(finishes))
	if err != nil {
		return FormUnknown
	}

	switch {
	case avg <= t.Excellent:
		return FormExcellent
	case avg <= t.Good:
		return FormGood
	case avg <= t.Average:
		return FormAverage
	default:
		return FormPoor
	}
}
