// Package coursehistory reduces the historical results ledger into per player, per course summaries.
package coursehistory

import (
	"sort"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/stitts-dev/pga-pick-tracker/internal/predictor"
)

var cutTokens = map[string]bool{
	"MC":  true,
	"WD":  true,
	"DQ":  true,
	"CUT": true,
}

// LedgerRow is one historical result: a player at one tournament in one year
type LedgerRow struct {
	Player     string
	Tournament string
	Course     string
	Year       int
	Finish     string
}

// Key identifies a summary
type Key struct {
	Player string
	Course string
}

// IsCut reports whether a finish token means the player did not finish the event
func IsCut(token string) bool {
	return cutTokens[strings.ToUpper(strings.TrimSpace(token))]
}

// ParseFinish parses "7" or "T7" into 7. Cut tokens and anything unparseable return ok=false.
func ParseFinish(token string) (position int, ok bool) {
	t := strings.TrimSpace(token)
	if t == "" || IsCut(t) {
		return 0, false
	}
	t = strings.TrimPrefix(strings.ToUpper(t), "T")
	pos, err := strconv.Atoi(strings.TrimSpace(t))
	if err != nil || pos < 1 {
		return 0, false
	}
	return pos, true
}

// Aggregate rebuilds every summary from the full ledger. Rows missing a player or course are
// ignored. The result is ordered by player then course so repeated runs are identical.
func Aggregate(rows []LedgerRow) []predictor.CourseHistorySummary {
	groups := make(map[Key][]LedgerRow)
	for _, row := range rows {
		player := strings.TrimSpace(row.Player)
		course := strings.TrimSpace(row.Course)
		if player == "" || course == "" {
			continue
		}
		key := Key{Player: player, Course: course}
		groups[key] = append(groups[key], row)
	}

	keys := make([]Key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Player != keys[j].Player {
			return keys[i].Player < keys[j].Player
		}
		return keys[i].Course < keys[j].Course
	})

	summaries := make([]predictor.CourseHistorySummary, 0, len(keys))
	for _, k := range keys {
		summaries = append(summaries, summarize(k, groups[k]))
	}
	return summaries
}

// Index keys summaries for lookup
func Index(summaries []predictor.CourseHistorySummary) map[Key]predictor.CourseHistorySummary {
	index := make(map[Key]predictor.CourseHistorySummary, len(summaries))
	for _, s := range summaries {
		index[Key{Player: s.Player, Course: s.Course}] = s
	}
	return index
}

func summarize(key Key, rows []LedgerRow) predictor.CourseHistorySummary {
	// most recent first, so the best finish keeps the latest token on ties. Tournament and
	// finish complete the key so the input order never matters.
	sorted := make([]LedgerRow, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		if a.Tournament != b.Tournament {
			return a.Tournament < b.Tournament
		}
		return strings.TrimSpace(a.Finish) < strings.TrimSpace(b.Finish)
	})

	summary := predictor.CourseHistorySummary{
		Player:      key.Player,
		Course:      key.Course,
		Appearances: len(sorted),
	}

	var finishes []float64
	for _, row := range sorted {
		if row.Year > 0 && (summary.LastPlayed == nil || row.Year > *summary.LastPlayed) {
			summary.LastPlayed = predictor.IntPtr(row.Year)
		}

		if IsCut(row.Finish) {
			continue
		}
		summary.MadeCuts++

		pos, ok := ParseFinish(row.Finish)
		if !ok {
			summary.MalformedTokens++
			continue
		}

		finishes = append(finishes, float64(pos))
		if pos == 1 {
			summary.Wins++
		}
		if pos <= 5 {
			summary.Top5s++
		}
		if pos <= 10 {
			summary.Top10s++
		}
		if summary.BestFinish == nil || pos < summary.BestFinish.Position {
			summary.BestFinish = &predictor.FinishToken{Raw: strings.TrimSpace(row.Finish), Position: pos}
		}
	}

	if avg, err := stats.Mean(finishes); err == nil {
		summary.AverageFinish = predictor.FloatPtr(avg)
	}

	return summary
}
