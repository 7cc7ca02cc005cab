package predictor

import (
	"fmt"
	"strings"
)

var formLabels = map[RecentForm]string{
	FormExcellent: "🔥 Excellent",
	FormGood:      "✅ Good",
	FormAverage:   "🔶 Average",
	FormPoor:      "🔻 Poor",
}

// FormLabel renders a form class for display
func FormLabel(form RecentForm) string {
	if label, ok := formLabels[form]; ok {
		return label
	}
	return "N/A"
}

// CourseHistoryRating classifies a course history for display. It is independent of the
// numeric course-history score.
func CourseHistoryRating(h *CourseHistorySummary) RecentForm {
	if h == nil {
		return FormUnknown
	}
	switch {
	case h.Wins > 0, h.Top10s >= 3:
		return FormExcellent
	case h.Top10s >= 1:
		return FormGood
	case h.AverageFinish != nil && *h.AverageFinish < 40:
		return FormAverage
	default:
		return FormPoor
	}
}

// DescribeCourseHistory renders a course history as "🔥 Excellent (2 wins, 1 top 5, Avg: 8.0)"
func DescribeCourseHistory(h *CourseHistorySummary) string {
	if h == nil {
		return "No history"
	}

	var parts []string
	if h.Wins > 0 {
		parts = append(parts, fmt.Sprintf("%d win%s", h.Wins, plural(h.Wins)))
	}
	if h.Top5s > 0 {
		parts = append(parts, fmt.Sprintf("%d top 5%s", h.Top5s, plural(h.Top5s)))
	}
	if h.Top10s > 0 {
		parts = append(parts, fmt.Sprintf("%d top 10%s", h.Top10s, plural(h.Top10s)))
	}
	if h.AverageFinish != nil && *h.AverageFinish < 90 {
		parts = append(parts, fmt.Sprintf("Avg: %.1f", *h.AverageFinish))
	}
	if len(parts) == 0 && h.Appearances > 0 {
		parts = append(parts, fmt.Sprintf("%d apps", h.Appearances))
	}

	label := FormLabel(CourseHistoryRating(h))
	if len(parts) == 0 {
		return label
	}
	return fmt.Sprintf("%s (%s)", label, strings.Join(parts, ", "))
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
