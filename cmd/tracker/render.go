package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/stitts-dev/pga-pick-tracker/internal/predictor"
	"github.com/stitts-dev/pga-pick-tracker/internal/providers"
	"github.com/stitts-dev/pga-pick-tracker/internal/services"
)

var (
	colorPrimary = lipgloss.Color("62")
	colorMuted   = lipgloss.Color("241")
	colorSuccess = lipgloss.Color("78")
	colorWarning = lipgloss.Color("214")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(colorPrimary).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	usedStyle   = cellStyle.Foreground(colorMuted)
	okStyle     = lipgloss.NewStyle().Foreground(colorSuccess)
	warnStyle   = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(colorMuted).Width(18)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers(headers...)
}

func optionalRank(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func optionalFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

func money(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', 0, 64)
}

func kv(w io.Writer, label string, value interface{}) {
	fmt.Fprintf(w, "%s %v\n", labelStyle.Render(label), value)
}

func renderTournament(w io.Writer, info *providers.TournamentInfo) {
	fmt.Fprintln(w, titleStyle.Render(info.Name))
	kv(w, "Course", info.Course)
	kv(w, "Dates", info.Dates)
	kv(w, "Purse", info.Purse)
	kv(w, "Status", info.Status)
}

func renderField(w io.Writer, field *services.RankedField) {
	title := "Tournament field"
	if field.Venue.Tournament != "" {
		title = field.Venue.Tournament
	}
	fmt.Fprintln(w, titleStyle.Render(title))
	kv(w, "Course", field.Venue.Course)
	kv(w, "Field strength", field.FieldStrength)
	kv(w, "Field size", field.FieldSize)

	if len(field.Entries) == 0 {
		fmt.Fprintln(w, warnStyle.Render("No players match."))
		return
	}

	t := newTable("#", "Player", "Win %", "Value", "FedEx", "OWGR", "SG", "Form", "Course history")
	for _, e := range field.Entries {
		name := e.PlayerName
		if e.IsUsed {
			name += " (used)"
		}
		t.Row(
			strconv.Itoa(e.Rank),
			name,
			fmt.Sprintf("%.2f", e.WinProbability),
			fmt.Sprintf("%.1f", e.ValueScore),
			optionalRank(e.Stats.FedexRank),
			optionalRank(e.Stats.WorldRank),
			optionalFloat(e.Stats.StrokesGainedTotal),
			predictor.FormLabel(e.Stats.RecentForm),
			predictor.DescribeCourseHistory(e.Stats.CourseHistory),
		)
	}
	t.StyleFunc(func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle
		}
		if row >= 0 && row < len(field.Entries) && field.Entries[row].IsUsed {
			return usedStyle
		}
		return cellStyle
	})
	fmt.Fprintln(w, t)
}

func renderPlayer(w io.Writer, d *services.PlayerDetail) {
	fmt.Fprintln(w, titleStyle.Render(d.Stats.PlayerName))
	kv(w, "Win probability", fmt.Sprintf("%.2f%%", d.WinProbability))
	kv(w, "Expected", fmt.Sprintf("%.2f%%", d.ExpectedProbability))
	kv(w, "Value score", fmt.Sprintf("%.1f", d.ValueScore))
	kv(w, "FedEx rank", optionalRank(d.Stats.FedexRank))
	kv(w, "World rank", optionalRank(d.Stats.WorldRank))
	kv(w, "SG total", optionalFloat(d.Stats.StrokesGainedTotal))
	kv(w, "Recent form", d.RecentFormLabel)
	kv(w, "Course history", d.CourseHistoryLabel)
	if d.IsUsed {
		kv(w, "Used", warnStyle.Render("yes"))
	}

	if len(d.SeasonResults) > 0 {
		t := newTable("Tournament", "Finish", "Earnings")
		for _, r := range d.SeasonResults {
			t.Row(r.TournamentName, r.FinishPosition, money(r.Earnings))
		}
		fmt.Fprintln(w, t)
	}
	if len(d.EventHistory) > 0 {
		t := newTable("Year", "Event", "Finish")
		for _, r := range d.EventHistory {
			t.Row(strconv.Itoa(r.Year), r.TournamentName, r.FinishPosition)
		}
		fmt.Fprintln(w, t)
	}
}

func renderPicks(w io.Writer, picks []services.PickView, summary *services.SeasonSummary) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%d season picks", summary.Season)))
	if len(picks) == 0 {
		fmt.Fprintln(w, "No picks yet.")
	} else {
		t := newTable("Date", "Tournament", "Player", "Finish", "Earnings")
		for _, p := range picks {
			finish := p.Finish
			if finish == "" {
				finish = "-"
			}
			t.Row(p.TournamentDate.Format("2006-01-02"), p.TournamentName, p.PlayerName, finish, money(p.Earnings))
		}
		fmt.Fprintln(w, t)
	}

	kv(w, "Picks made", summary.PicksMade)
	kv(w, "Picks remaining", summary.PicksRemaining)
	kv(w, "Cashed", summary.Cashed)
	kv(w, "Total earnings", okStyle.Render(money(summary.TotalEarnings)))
	if summary.BestFinish != "" {
		kv(w, "Best finish", summary.BestFinish)
	}
}

func renderWeeklyCheck(w io.Writer, s *services.WeeklyStatus) {
	fmt.Fprintln(w, titleStyle.Render("Weekly check "+s.Today.Format("2006-01-02")))
	if s.LastTournament == "" {
		fmt.Fprintln(w, warnStyle.Render("No tournament results imported yet."))
	} else {
		kv(w, "Last tournament", s.LastTournament)
		if s.LastDate != nil {
			kv(w, "Date", s.LastDate.Format("2006-01-02"))
		}
		kv(w, "Players", s.Players)
		freshness := okStyle.Render(fmt.Sprintf("%d days old", s.DaysSince))
		if s.Stale {
			freshness = warnStyle.Render(fmt.Sprintf("%d days old, import this week's results", s.DaysSince))
		}
		kv(w, "Data", freshness)
	}
	kv(w, "Picks used", s.PicksUsed)
	kv(w, "Picks remaining", fmt.Sprintf("%d of %d", s.PicksRemaining, s.SeasonPickLimit))
}

func renderImport(w io.Writer, r *services.ImportReport) {
	fmt.Fprintln(w, titleStyle.Render("History import"))
	kv(w, "Rows", r.Rows)
	kv(w, "Imported", okStyle.Render(strconv.Itoa(r.Imported)))
	kv(w, "Skipped", r.Skipped)
	if r.Duplicates > 0 {
		kv(w, "Duplicates", r.Duplicates)
	}
	if r.Errors > 0 {
		kv(w, "Errors", warnStyle.Render(strconv.Itoa(r.Errors)))
	}
	kv(w, "Summaries", r.Summaries)
}
