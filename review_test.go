package main

import (
	"errors"
	"testing"
)

func TestReviewIssueSettlesPendingRuns(t *testing.T) {
	db := newTestDB(t)
	draw := testDraw(t, "25/001", 2, []int{2, 9, 21, 28, 34, 44}, 25)
	if _, err := UpsertDraw(db, draw); err != nil {
		t.Fatalf("seeding draw: %v", err)
	}

	def := Strategies[0]
	runID, err := ResetOrCreateRun(db, "25/001", def, SpecialCandidate{Number: 25, Score: 0.4})
	if err != nil {
		t.Fatalf("creating run: %v", err)
	}
	picks := []Pick{
		{Number: 2, Rank: 1, Score: 0.9},
		{Number: 9, Rank: 2, Score: 0.8},
		{Number: 13, Rank: 3, Score: 0.7},
		{Number: 21, Rank: 4, Score: 0.6},
		{Number: 30, Rank: 5, Score: 0.5},
		{Number: 41, Rank: 6, Score: 0.4},
	}
	if err := InsertPicks(db, runID, picks); err != nil {
		t.Fatalf("inserting picks: %v", err)
	}

	reviewed, err := ReviewIssue(db, "25/001")
	if err != nil {
		t.Fatalf("ReviewIssue failed: %v", err)
	}
	if reviewed != 1 {
		t.Fatalf("reviewed %d runs, want 1", reviewed)
	}

	runs, err := GetRunsForIssue(db, "25/001")
	if err != nil || len(runs) != 1 {
		t.Fatalf("GetRunsForIssue: %v (%d runs)", err, len(runs))
	}
	run := runs[0]
	if run.Status != "REVIEWED" {
		t.Fatalf("status = %q", run.Status)
	}
	if !run.HitCount.Valid || run.HitCount.Int64 != 3 {
		t.Fatalf("hit count = %+v, want 3", run.HitCount)
	}
	if !run.HitRate.Valid || run.HitRate.Float64 != 0.5 {
		t.Fatalf("hit rate = %+v, want 0.5", run.HitRate)
	}
	if !run.SpecialHit.Valid || run.SpecialHit.Int64 != 1 {
		t.Fatalf("special hit = %+v, want 1", run.SpecialHit)
	}

	rev, ok, err := GetReviewByRun(db, runID)
	if err != nil || !ok {
		t.Fatalf("GetReviewByRun: ok=%v err=%v", ok, err)
	}
	// Matched numbers come back ascending.
	want := []int{2, 9, 21}
	if len(rev.Matched) != len(want) {
		t.Fatalf("matched = %v", rev.Matched)
	}
	for i := range want {
		if rev.Matched[i] != want[i] {
			t.Fatalf("matched = %v, want %v", rev.Matched, want)
		}
	}
}

func TestReviewIssueIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	draw := testDraw(t, "25/001", 2, []int{2, 9, 21, 28, 34, 44}, 25)
	if _, err := UpsertDraw(db, draw); err != nil {
		t.Fatalf("seeding draw: %v", err)
	}
	runID, err := ResetOrCreateRun(db, "25/001", Strategies[0], SpecialCandidate{Number: 7})
	if err != nil {
		t.Fatalf("creating run: %v", err)
	}
	if err := InsertPicks(db, runID, []Pick{
		{Number: 2, Rank: 1}, {Number: 3, Rank: 2}, {Number: 4, Rank: 3},
		{Number: 5, Rank: 4}, {Number: 6, Rank: 5}, {Number: 7, Rank: 6},
	}); err != nil {
		t.Fatalf("inserting picks: %v", err)
	}

	if n, err := ReviewIssue(db, "25/001"); err != nil || n != 1 {
		t.Fatalf("first review: n=%d err=%v", n, err)
	}
	if n, err := ReviewIssue(db, "25/001"); err != nil || n != 0 {
		t.Fatalf("second review should settle nothing: n=%d err=%v", n, err)
	}
}

func TestReviewIssueWithoutDrawIsNoop(t *testing.T) {
	db := newTestDB(t)
	n, err := ReviewIssue(db, "25/999")
	if err != nil {
		t.Fatalf("ReviewIssue: %v", err)
	}
	if n != 0 {
		t.Fatalf("settled %d runs for an absent draw", n)
	}
}

func TestGeneratePredictionsDefaultsToNextIssue(t *testing.T) {
	db := newTestDB(t)
	seedDraws(t, db, 25)

	issueNo, runIDs, err := GeneratePredictions(db, "", nil, 20)
	if err != nil {
		t.Fatalf("GeneratePredictions failed: %v", err)
	}
	if issueNo != "25/026" {
		t.Fatalf("target issue = %q, want 25/026", issueNo)
	}
	if len(runIDs) != len(Strategies) {
		t.Fatalf("got %d runs, want %d", len(runIDs), len(Strategies))
	}

	for _, runID := range runIDs {
		picks, err := GetPicksForRun(db, runID)
		if err != nil {
			t.Fatalf("GetPicksForRun: %v", err)
		}
		assertValidPicks(t, picks)
	}
}

func TestGeneratePredictionsInsufficientHistory(t *testing.T) {
	db := newTestDB(t)
	seedDraws(t, db, 5)

	_, _, err := GeneratePredictions(db, "", nil, 20)
	if !errors.Is(err, ErrInsufficientHistory) {
		t.Fatalf("expected ErrInsufficientHistory, got %v", err)
	}
}

func TestGeneratePredictionsEmptyStore(t *testing.T) {
	db := newTestDB(t)
	_, _, err := GeneratePredictions(db, "", nil, 20)
	if !errors.Is(err, ErrNoDraws) {
		t.Fatalf("expected ErrNoDraws, got %v", err)
	}
}

func TestGeneratePredictionsUnknownStrategy(t *testing.T) {
	db := newTestDB(t)
	seedDraws(t, db, 25)

	_, _, err := GeneratePredictions(db, "", []string{"nope_v9"}, 20)
	if err == nil {
		t.Fatal("expected unknown strategy error")
	}
}

func TestGeneratePredictionsRegenerateReplacesRuns(t *testing.T) {
	db := newTestDB(t)
	seedDraws(t, db, 25)

	_, first, err := GeneratePredictions(db, "25/030", []string{"balanced_v1"}, 20)
	if err != nil {
		t.Fatalf("first generate: %v", err)
	}
	_, second, err := GeneratePredictions(db, "25/030", []string{"balanced_v1"}, 20)
	if err != nil {
		t.Fatalf("second generate: %v", err)
	}
	if first[0] != second[0] {
		t.Fatalf("regeneration created a new run: %d vs %d", first[0], second[0])
	}

	runs, err := GetRunsForIssue(db, "25/030")
	if err != nil {
		t.Fatalf("GetRunsForIssue: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	picks, err := GetPicksForRun(db, first[0])
	if err != nil {
		t.Fatalf("GetPicksForRun: %v", err)
	}
	assertValidPicks(t, picks)
}
