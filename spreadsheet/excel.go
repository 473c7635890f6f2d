// Copyright (c) 2025 Kelechi Dike.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package spreadsheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/kelechidike/voteshare/alloc"
	"github.com/kelechidike/voteshare/models"
)

// SheetName is the worksheet title of the results export.
const SheetName = "Vote Allocation Results"

// ReportData is everything needed to render one allocation run as a table.
// Rows must already be ordered by unit sequence number; DetectedField is the
// column name recorded by the import session that produced the unit set.
type ReportData struct {
	WeightSet     models.WeightSet
	DetectedField string
	Rows          []models.ResultRow
	Summary       alloc.Summary
}

// BaseFieldLabel is the header for the base-votes column: the detected
// field's original spelling, or a plain fallback when no import session
// recorded one.
func (d *ReportData) BaseFieldLabel() string {
	if d.DetectedField != "" {
		return d.DetectedField
	}
	return "BASE VOTES"
}

// Headers returns the export column order: identity fields, the detected
// base column, one percentage-annotated column per party, then invalid
// votes and the row total.
func (d *ReportData) Headers() []string {
	headers := []string{
		"S/NO", "STATE", "LGA", "RA", "DELIM",
		"REGISTER VOTER AS AT 2023", "REGISTERED VOTER AS AT 2024",
		"NO OF PVC COLLECTED", "BALANCE OF UNCOLLECTED PVCs",
		d.BaseFieldLabel(),
	}
	for _, p := range alloc.Parties {
		headers = append(headers, fmt.Sprintf("%s (%g%%)", p, d.WeightSet.Weights[p]))
	}
	return append(headers, "INVALID VOTES", "TOTAL")
}

// cellWriter batches SetCellValue calls and remembers the first error.
type cellWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (cw *cellWriter) set(col, row int, value interface{}) {
	if cw.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		cw.err = err
		return
	}
	cw.err = cw.f.SetCellValue(cw.sheet, cell, value)
}

// BuildWorkbook renders the full result set as a styled workbook: bold
// header row, one row per unit, and a trailing totals row covering every
// numeric column.
func BuildWorkbook(data *ReportData) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := data.Headers()
	cw := &cellWriter{f: f, sheet: SheetName}
	for i, h := range headers {
		cw.set(i+1, 1, h)
	}

	var totalRegistered, totalPVC, totalBalance, totalBase int
	for i, row := range data.Rows {
		r := i + 2
		unit := row.Unit
		cw.set(1, r, unit.SNo)
		cw.set(2, r, unit.State)
		cw.set(3, r, unit.LGA)
		cw.set(4, r, unit.RA)
		cw.set(5, r, unit.Delim)
		cw.set(6, r, unit.RegisterCode2023)
		cw.set(7, r, unit.RegisteredVoters)
		cw.set(8, r, unit.PVCCollected)
		cw.set(9, r, unit.BalanceUncollected)
		cw.set(10, r, unit.BaseVotes)
		for j, p := range alloc.Parties {
			cw.set(11+j, r, row.Votes[p])
		}
		cw.set(11+len(alloc.Parties), r, row.InvalidVotes)
		cw.set(12+len(alloc.Parties), r, row.TotalVotes)

		totalRegistered += unit.RegisteredVoters
		totalPVC += unit.PVCCollected
		totalBalance += unit.BalanceUncollected
		totalBase += unit.BaseVotes
	}

	// Trailing totals row
	totalRow := len(data.Rows) + 2
	cw.set(1, totalRow, "TOTALS")
	cw.set(7, totalRow, totalRegistered)
	cw.set(8, totalRow, totalPVC)
	cw.set(9, totalRow, totalBalance)
	cw.set(10, totalRow, totalBase)
	for j, p := range alloc.Parties {
		cw.set(11+j, totalRow, data.Summary.PartyTotals[p])
	}
	cw.set(11+len(alloc.Parties), totalRow, data.Summary.InvalidVotes)
	cw.set(12+len(alloc.Parties), totalRow, data.Summary.GrandTotal)

	if cw.err != nil {
		return nil, fmt.Errorf("failed to write cells: %w", cw.err)
	}

	if err := styleWorkbook(f, len(headers), totalRow); err != nil {
		return nil, err
	}
	if err := fitColumns(f, headers, data); err != nil {
		return nil, err
	}

	return f, nil
}

func styleWorkbook(f *excelize.File, columns, totalRow int) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"366092"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	totalsStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E8E8E8"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create totals style: %w", err)
	}

	lastHeader, err := excelize.CoordinatesToCellName(columns, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("failed to style header row: %w", err)
	}

	firstTotal, err := excelize.CoordinatesToCellName(1, totalRow)
	if err != nil {
		return err
	}
	lastTotal, err := excelize.CoordinatesToCellName(columns, totalRow)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, firstTotal, lastTotal, totalsStyle); err != nil {
		return fmt.Errorf("failed to style totals row: %w", err)
	}
	return nil
}

// fitColumns sizes each column to its widest cell, capped at 30 characters.
func fitColumns(f *excelize.File, headers []string, data *ReportData) error {
	for i, h := range headers {
		width := len(h)
		if i < 5 {
			// Identity text columns also scan row contents.
			for _, row := range data.Rows {
				for _, s := range []string{row.Unit.State, row.Unit.LGA, row.Unit.Delim} {
					if len(s) > width {
						width = len(s)
					}
				}
			}
		}
		if width > 28 {
			width = 28
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, name, name, float64(width+2)); err != nil {
			return fmt.Errorf("failed to size column %s: %w", name, err)
		}
	}
	return nil
}
