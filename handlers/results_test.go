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

func allocateRequest(id, query string) *http.Request {
	req := testutil.MakeRequest("POST", "/weight-sets/"+id+"/allocate"+query, nil, nil)
	req.SetPathValue("id", id)
	return req
}

func TestAllocateDeterministic(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewResultsHandler(db, testutil.GetTestConfig())

	testutil.InsertTestUnit(t, db, 1, 225)
	wsID := testutil.InsertTestWeightSet(t, db, "Projection", map[alloc.Party]float64{
		alloc.PartyAPC: 60, alloc.PartyLP: 30, alloc.PartyPDP: 10,
	})

	w := httptest.NewRecorder()
	handler.Allocate(w, allocateRequest(wsID, ""))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.AllocateResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Strategy != models.StrategyDeterministic {
		t.Errorf("Expected deterministic strategy by default, got %q", resp.Strategy)
	}
	if resp.ResultCount != 1 {
		t.Errorf("Expected 1 result, got %d", resp.ResultCount)
	}
	if resp.Warning != "" {
		t.Errorf("Expected no warning, got %q", resp.Warning)
	}

	var total int
	if err := db.QueryRow(`
		SELECT total_votes FROM allocation_result WHERE weight_set_id = $1
	`, wsID).Scan(&total); err != nil {
		t.Fatalf("Failed to query result: %v", err)
	}
	// 135 + 67 + 22 after truncation
	if total != 224 {
		t.Errorf("Expected total 224, got %d", total)
	}
}

func TestAllocateRerunReplacesResults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewResultsHandler(db, testutil.GetTestConfig())

	testutil.InsertTestUnit(t, db, 1, 100)
	wsID := testutil.InsertTestWeightSet(t, db, "Projection", map[alloc.Party]float64{
		alloc.PartyAPC: 100,
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler.Allocate(w, allocateRequest(wsID, ""))
		testutil.AssertStatus(t, w, http.StatusOK)
	}

	// Re-running never accumulates rows; the unique pair constraint would
	// reject duplicates anyway.
	var count int
	if err := db.QueryRow(`
		SELECT COUNT(*) FROM allocation_result WHERE weight_set_id = $1
	`, wsID).Scan(&count); err != nil {
		t.Fatalf("Failed to count results: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 result after re-run, got %d", count)
	}
}

func TestAllocateRandomized(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewResultsHandler(db, testutil.GetTestConfig())

	// PVC-collected equals base votes in the fixture: 1000.
	testutil.InsertTestUnit(t, db, 1, 1000)
	wsID := testutil.InsertTestWeightSet(t, db, "Turnout", map[alloc.Party]float64{
		alloc.PartyAPC: 100,
	})

	w := httptest.NewRecorder()
	handler.Allocate(w, allocateRequest(wsID, "?strategy=randomized"))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.AllocateResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Strategy != models.StrategyRandomized {
		t.Errorf("Expected randomized strategy, got %q", resp.Strategy)
	}

	// A single party absorbs the reconciliation, so the total lands on the
	// turnout-adjusted count: between 75% and 95% of the collected PVCs.
	var total int
	if err := db.QueryRow(`
		SELECT total_votes FROM allocation_result WHERE weight_set_id = $1
	`, wsID).Scan(&total); err != nil {
		t.Fatalf("Failed to query result: %v", err)
	}
	if total < 750 || total > 950 {
		t.Errorf("Expected total within turnout bounds [750, 950], got %d", total)
	}
}

func TestAllocateErrors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewResultsHandler(db, testutil.GetTestConfig())
	wsID := testutil.InsertTestWeightSet(t, db, "X", map[alloc.Party]float64{alloc.PartyAPC: 100})

	t.Run("unknown strategy", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Allocate(w, allocateRequest(wsID, "?strategy=psychic"))
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("weight set not found", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Allocate(w, allocateRequest("no-such-id", ""))
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func resultsRequest(id, query string) *http.Request {
	req := testutil.MakeRequest("GET", "/weight-sets/"+id+"/results"+query, nil, nil)
	req.SetPathValue("id", id)
	return req
}

func TestGetResults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewResultsHandler(db, testutil.GetTestConfig())

	testutil.InsertTestUnit(t, db, 1, 225)
	testutil.InsertTestUnit(t, db, 2, 100)
	wsID := testutil.InsertTestWeightSet(t, db, "Projection", map[alloc.Party]float64{
		alloc.PartyAPC: 60, alloc.PartyLP: 30, alloc.PartyPDP: 10,
	})

	w := httptest.NewRecorder()
	handler.Allocate(w, allocateRequest(wsID, ""))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = httptest.NewRecorder()
	handler.GetResults(w, resultsRequest(wsID, ""))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ResultsResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.WeightSet.ID != wsID {
		t.Errorf("Expected weight set %s, got %s", wsID, resp.WeightSet.ID)
	}
	if len(resp.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(resp.Rows))
	}
	if resp.Rows[0].Unit.SNo != 1 {
		t.Errorf("Expected rows in sequence order, first sno = %d", resp.Rows[0].Unit.SNo)
	}

	// Unit 1: 225 -> 135/67/22 (total 224, 1 invalid); unit 2: 100 -> 60/30/10.
	if resp.Rows[0].Votes[alloc.PartyAPC] != 135 {
		t.Errorf("Expected 135 APC votes, got %d", resp.Rows[0].Votes[alloc.PartyAPC])
	}
	if resp.Rows[0].InvalidVotes != 1 {
		t.Errorf("Expected 1 invalid vote, got %d", resp.Rows[0].InvalidVotes)
	}

	if resp.Summary.Units != 2 {
		t.Errorf("Expected 2 units in summary, got %d", resp.Summary.Units)
	}
	if resp.Summary.GrandTotal != 324 {
		t.Errorf("Expected grand total 324, got %d", resp.Summary.GrandTotal)
	}
	if resp.Summary.PartyTotals[alloc.PartyAPC] != 195 {
		t.Errorf("Expected APC total 195, got %d", resp.Summary.PartyTotals[alloc.PartyAPC])
	}
	if resp.Summary.InvalidVotes != 1 {
		t.Errorf("Expected 1 invalid vote overall, got %d", resp.Summary.InvalidVotes)
	}
}

func TestGetResultsSearchKeepsSummary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewResultsHandler(db, testutil.GetTestConfig())

	testutil.InsertTestUnit(t, db, 1, 100)
	testutil.InsertTestUnit(t, db, 2, 200)
	wsID := testutil.InsertTestWeightSet(t, db, "P", map[alloc.Party]float64{alloc.PartyAPC: 100})

	w := httptest.NewRecorder()
	handler.Allocate(w, allocateRequest(wsID, ""))
	testutil.AssertStatus(t, w, http.StatusOK)

	// Match one unit by its delimitation code; the summary still covers both.
	w = httptest.NewRecorder()
	handler.GetResults(w, resultsRequest(wsID, "?search=04-01-01-002"))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ResultsResponse
	testutil.AssertJSON(t, w, &resp)
	if len(resp.Rows) != 1 || resp.TotalCount != 1 {
		t.Errorf("Expected 1 matching row, got %d (count %d)", len(resp.Rows), resp.TotalCount)
	}
	if resp.Summary.Units != 2 || resp.Summary.GrandTotal != 300 {
		t.Errorf("Expected full summary despite search, got units=%d total=%d",
			resp.Summary.Units, resp.Summary.GrandTotal)
	}
}

func TestGetResultsNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewResultsHandler(db, testutil.GetTestConfig())

	w := httptest.NewRecorder()
	handler.GetResults(w, resultsRequest("missing", ""))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestGetResultsEmptyRun(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewResultsHandler(db, testutil.GetTestConfig())
	wsID := testutil.InsertTestWeightSet(t, db, "Empty", map[alloc.Party]float64{alloc.PartyAPC: 100})

	// No allocation has run; the endpoint still answers with a zeroed
	// summary instead of failing.
	w := httptest.NewRecorder()
	handler.GetResults(w, resultsRequest(wsID, ""))
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.ResultsResponse
	testutil.AssertJSON(t, w, &resp)
	if len(resp.Rows) != 0 || resp.Summary.GrandTotal != 0 {
		t.Errorf("Expected empty results, got %d rows, total %d",
			len(resp.Rows), resp.Summary.GrandTotal)
	}
}
