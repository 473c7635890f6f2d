// Copyright (c) 2025 Kelechi Dike.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package spreadsheet

import (
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/kelechidike/voteshare/alloc"
)

// PDFRowLimit caps the document export at the first rows by unit sequence
// order; the Excel export carries the complete data.
const PDFRowLimit = 100

// BuildPDF renders the result set as a landscape A4 document: title,
// weight summary, the result table capped at PDFRowLimit rows, totals, and
// a truncation note when rows were dropped.
func BuildPDF(data *ReportData) (*fpdf.Fpdf, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Vote Allocation Results: "+data.WeightSet.Name, false)
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Vote Allocation Results: "+data.WeightSet.Name, "", 1, "C", false, 0, "")
	pdf.Ln(1)

	pdf.SetFont("Helvetica", "", 8)
	pdf.MultiCell(0, 4, weightsLine(data), "", "L", false)
	pdf.MultiCell(0, 4, fmt.Sprintf("Base column: %s | Created: %s",
		data.BaseFieldLabel(), data.WeightSet.CreatedAt.Format("2006-01-02 15:04")), "", "L", false)
	pdf.Ln(2)

	rows := data.Rows
	truncated := false
	if len(rows) > PDFRowLimit {
		rows = rows[:PDFRowLimit]
		truncated = true
	}

	widths, labels := pdfColumns()

	// Header row
	pdf.SetFont("Helvetica", "B", 5.5)
	pdf.SetFillColor(54, 96, 146)
	pdf.SetTextColor(255, 255, 255)
	for i, label := range labels {
		pdf.CellFormat(widths[i], 5, label, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	// Data rows
	pdf.SetFont("Helvetica", "", 5.5)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(245, 245, 220)
	for _, row := range rows {
		unit := row.Unit
		cells := []string{
			fmt.Sprintf("%d", unit.SNo),
			clip(unit.State, 10),
			clip(unit.LGA, 10),
			clip(unit.Delim, 20),
			fmt.Sprintf("%d", unit.BaseVotes),
		}
		for _, p := range alloc.Parties {
			cells = append(cells, fmt.Sprintf("%d", row.Votes[p]))
		}
		cells = append(cells, fmt.Sprintf("%d", row.TotalVotes))
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 4, cell, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}

	// Totals
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(0, 5, "TOTALS", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.MultiCell(0, 4, totalsLine(data), "", "L", false)
	pdf.CellFormat(0, 5, fmt.Sprintf("Grand Total: %d | Invalid Votes: %d",
		data.Summary.GrandTotal, data.Summary.InvalidVotes), "", 1, "L", false, 0, "")

	if truncated {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "I", 7)
		pdf.CellFormat(0, 4, fmt.Sprintf(
			"Note: only the first %d of %d units are shown. Download the Excel export for complete data.",
			PDFRowLimit, len(data.Rows)), "", 1, "L", false, 0, "")
	}

	if pdf.Err() {
		return nil, fmt.Errorf("failed to build PDF: %w", pdf.Error())
	}
	return pdf, nil
}

// pdfColumns fixes the table layout: identity columns at readable widths,
// the party columns squeezed evenly into the remainder of the page.
func pdfColumns() ([]float64, []string) {
	labels := []string{"S/NO", "STATE", "LGA", "POLLING UNIT", "BASE"}
	widths := []float64{10, 20, 20, 32, 13}

	// 277mm of usable width on landscape A4 with 10mm margins.
	used := 0.0
	for _, w := range widths {
		used += w
	}
	const totalWidth = 12.0
	partyWidth := (277 - used - totalWidth) / float64(len(alloc.Parties))
	for _, p := range alloc.Parties {
		labels = append(labels, string(p))
		widths = append(widths, partyWidth)
	}
	labels = append(labels, "TOTAL")
	widths = append(widths, totalWidth)
	return widths, labels
}

func weightsLine(data *ReportData) string {
	parts := make([]string, 0, len(alloc.Parties))
	for _, p := range alloc.Parties {
		parts = append(parts, fmt.Sprintf("%s: %g%%", p, data.WeightSet.Weights[p]))
	}
	return "Allocation Percentages: " + strings.Join(parts, " | ")
}

func totalsLine(data *ReportData) string {
	parts := make([]string, 0, len(alloc.Parties))
	for _, p := range alloc.Parties {
		parts = append(parts, fmt.Sprintf("%s: %d", p, data.Summary.PartyTotals[p]))
	}
	return strings.Join(parts, " | ")
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
