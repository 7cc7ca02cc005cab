// Package export renders the ranked field and the season's picks as an xlsx workbook.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/stitts-dev/pga-pick-tracker/internal/predictor"
	"github.com/stitts-dev/pga-pick-tracker/internal/services"
)

const (
	FieldSheet = "Field"
	PicksSheet = "Picks"
)

var fieldHeaders = []string{
	"Rank", "Player", "Win %", "Value", "FedEx Rank", "World Rank",
	"SG Total", "Recent Form", "Course History", "Used",
}

var pickHeaders = []string{"Tournament", "Date", "Player", "Finish", "Earnings"}

// Workbook builds a two-sheet workbook. Either input may be empty.
func Workbook(field *services.RankedField, picks []services.PickView) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", FieldSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(PicksSheet); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	var rows [][]interface{}
	if field != nil {
		for _, e := range field.Entries {
			rows = append(rows, fieldRow(e))
		}
	}
	if err := writeSheet(f, FieldSheet, fieldHeaders, rows, bold); err != nil {
		return nil, err
	}

	rows = rows[:0]
	for _, p := range picks {
		rows = append(rows, []interface{}{
			p.TournamentName,
			p.TournamentDate.Format("2006-01-02"),
			p.PlayerName,
			p.Finish,
			p.Earnings,
		})
	}
	if err := writeSheet(f, PicksSheet, pickHeaders, rows, bold); err != nil {
		return nil, err
	}

	return f, nil
}

// Write streams the workbook to w
func Write(w io.Writer, field *services.RankedField, picks []services.PickView) error {
	f, err := Workbook(field, picks)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func fieldRow(e predictor.FieldEntry) []interface{} {
	used := ""
	if e.IsUsed {
		used = "yes"
	}
	return []interface{}{
		e.Rank,
		e.PlayerName,
		e.WinProbability,
		e.ValueScore,
		optionalInt(e.Stats.FedexRank),
		optionalInt(e.Stats.WorldRank),
		optionalFloat(e.Stats.StrokesGainedTotal),
		predictor.FormLabel(e.Stats.RecentForm),
		predictor.DescribeCourseHistory(e.Stats.CourseHistory),
		used,
	}
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]interface{}, headerStyle int) error {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for r, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func optionalInt(v *int) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func optionalFloat(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
