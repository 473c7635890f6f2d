// Copyright (c) 2025 Kelechi Dike.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	_ "github.com/lib/pq"

	"github.com/kelechidike/voteshare/alloc"
	"github.com/kelechidike/voteshare/models"
	"github.com/kelechidike/voteshare/testutil"
)

func TestGetDashboardEmpty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewDashboardHandler(db, testutil.GetTestConfig())

	req := testutil.MakeRequest("GET", "/dashboard", nil, nil)
	w := httptest.NewRecorder()
	handler.GetDashboard(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.DashboardResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.TotalUnits != 0 || resp.TotalWeightSets != 0 || resp.TotalBaseVotes != 0 {
		t.Errorf("Expected zeroed dashboard, got %+v", resp)
	}
	if resp.AverageBase != 0 {
		t.Errorf("Expected average 0 with no units, got %g", resp.AverageBase)
	}
	if resp.LastImport != nil {
		t.Error("Expected no last import")
	}
}

func TestGetDashboard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewDashboardHandler(db, testutil.GetTestConfig())

	testutil.InsertTestUnit(t, db, 1, 1000)
	testutil.InsertTestUnit(t, db, 2, 500)
	for i := 0; i < 7; i++ {
		testutil.InsertTestWeightSet(t, db, "Set", map[alloc.Party]float64{alloc.PartyAPC: 100})
	}

	_, err := db.Exec(`
		INSERT INTO import_session (id, detected_field, source_note, unit_count, error_count, created_at)
		VALUES ('imp-1', '45% PVC COLLECTION', 'anambra.xlsx', 2, 0, NOW())
	`)
	if err != nil {
		t.Fatalf("Failed to insert import session: %v", err)
	}

	req := testutil.MakeRequest("GET", "/dashboard", nil, nil)
	w := httptest.NewRecorder()
	handler.GetDashboard(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.DashboardResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.TotalUnits != 2 {
		t.Errorf("Expected 2 units, got %d", resp.TotalUnits)
	}
	if resp.TotalWeightSets != 7 {
		t.Errorf("Expected 7 weight sets, got %d", resp.TotalWeightSets)
	}
	if resp.TotalBaseVotes != 1500 {
		t.Errorf("Expected 1500 base votes, got %d", resp.TotalBaseVotes)
	}
	if resp.AverageBase != 750 {
		t.Errorf("Expected average 750, got %g", resp.AverageBase)
	}
	if resp.TotalBaseLabel != "1,500" {
		t.Errorf("Expected grouped label '1,500', got %q", resp.TotalBaseLabel)
	}
	// Recent list is capped at five
	if len(resp.RecentSets) != 5 {
		t.Errorf("Expected 5 recent sets, got %d", len(resp.RecentSets))
	}
	if resp.LastImport == nil {
		t.Fatal("Expected a last import")
	}
	if resp.LastImport.DetectedField != "45% PVC COLLECTION" {
		t.Errorf("Unexpected last import field %q", resp.LastImport.DetectedField)
	}
}
