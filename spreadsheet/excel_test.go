// Copyright (c) 2025 Kelechi Dike.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package spreadsheet

import (
	"strings"
	"testing"
	"time"

	"github.com/kelechidike/voteshare/alloc"
	"github.com/kelechidike/voteshare/models"
)

func sampleReportData() *ReportData {
	weights := alloc.Weights{}
	for _, p := range alloc.Parties {
		weights[p] = 0
	}
	weights[alloc.PartyAPC] = 60
	weights[alloc.PartyLP] = 30
	weights[alloc.PartyPDP] = 10

	rows := []models.ResultRow{
		{
			Unit: models.PollingUnit{
				SNo: 1, State: "ANAMBRA", LGA: "AWKA NORTH", RA: "ACHALLA I",
				Delim: "04-01-01-001", RegisteredVoters: 500, PVCCollected: 450,
				BalanceUncollected: 50, BaseVotes: 225,
			},
			Votes:        map[alloc.Party]int{alloc.PartyAPC: 135, alloc.PartyLP: 67, alloc.PartyPDP: 22},
			TotalVotes:   224,
			InvalidVotes: 1,
		},
		{
			Unit: models.PollingUnit{
				SNo: 2, State: "ANAMBRA", LGA: "AWKA NORTH", RA: "ACHALLA I",
				Delim: "04-01-01-002", RegisteredVoters: 300, PVCCollected: 280,
				BalanceUncollected: 20, BaseVotes: 100,
			},
			Votes:        map[alloc.Party]int{alloc.PartyAPC: 60, alloc.PartyLP: 30, alloc.PartyPDP: 10},
			TotalVotes:   100,
			InvalidVotes: 0,
		},
	}

	units := make([]alloc.UnitResult, len(rows))
	for i, row := range rows {
		units[i] = alloc.UnitResult{BaseVotes: row.Unit.BaseVotes, Votes: row.Votes, Total: row.TotalVotes}
	}

	return &ReportData{
		WeightSet: models.WeightSet{
			ID: "ws-1", Name: "Projection A", Weights: weights,
			CreatedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		DetectedField: "45% PVC COLLECTION",
		Rows:          rows,
		Summary:       alloc.Aggregate(units),
	}
}

func TestReportDataHeaders(t *testing.T) {
	data := sampleReportData()
	headers := data.Headers()

	// 9 identity columns, the base column, 20 parties, invalid, total.
	want := 9 + 1 + len(alloc.Parties) + 2
	if len(headers) != want {
		t.Fatalf("expected %d headers, got %d", want, len(headers))
	}
	if headers[9] != "45% PVC COLLECTION" {
		t.Errorf("base column should carry the detected field name, got %q", headers[9])
	}
	if headers[10] != "APC (60%)" {
		t.Errorf("party header should embed the percentage, got %q", headers[10])
	}
	if headers[len(headers)-1] != "TOTAL" {
		t.Errorf("last header should be TOTAL, got %q", headers[len(headers)-1])
	}

	data.DetectedField = ""
	if got := data.Headers()[9]; got != "BASE VOTES" {
		t.Errorf("expected fallback base label, got %q", got)
	}
}

func TestBuildWorkbook(t *testing.T) {
	data := sampleReportData()
	f, err := BuildWorkbook(data)
	if err != nil {
		t.Fatalf("BuildWorkbook failed: %v", err)
	}
	defer f.Close()

	if f.GetSheetName(0) != SheetName {
		t.Errorf("unexpected sheet name %q", f.GetSheetName(0))
	}

	// Header row
	a1, err := f.GetCellValue(SheetName, "A1")
	if err != nil {
		t.Fatalf("failed to read A1: %v", err)
	}
	if a1 != "S/NO" {
		t.Errorf("expected S/NO in A1, got %q", a1)
	}

	// First data row: APC column is K (identity cols A-I, base J).
	k2, err := f.GetCellValue(SheetName, "K2")
	if err != nil {
		t.Fatalf("failed to read K2: %v", err)
	}
	if k2 != "135" {
		t.Errorf("expected 135 APC votes in K2, got %q", k2)
	}

	// Totals row sits below the two data rows.
	a4, err := f.GetCellValue(SheetName, "A4")
	if err != nil {
		t.Fatalf("failed to read A4: %v", err)
	}
	if a4 != "TOTALS" {
		t.Errorf("expected TOTALS in A4, got %q", a4)
	}
	k4, err := f.GetCellValue(SheetName, "K4")
	if err != nil {
		t.Fatalf("failed to read K4: %v", err)
	}
	if k4 != "195" {
		t.Errorf("expected summed APC total 195 in K4, got %q", k4)
	}
}

func TestBuildPDF(t *testing.T) {
	data := sampleReportData()
	pdf, err := BuildPDF(data)
	if err != nil {
		t.Fatalf("BuildPDF failed: %v", err)
	}

	var buf strings.Builder
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("failed to render PDF: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "%PDF") {
		t.Error("output does not look like a PDF document")
	}
}

func TestBuildPDF_Truncates(t *testing.T) {
	data := sampleReportData()
	row := data.Rows[0]
	for len(data.Rows) <= PDFRowLimit {
		row.Unit.SNo = len(data.Rows) + 1
		data.Rows = append(data.Rows, row)
	}

	pdf, err := BuildPDF(data)
	if err != nil {
		t.Fatalf("BuildPDF failed: %v", err)
	}
	var buf strings.Builder
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("failed to render PDF: %v", err)
	}
}
