package main

import (
	"database/sql"
	"log"
	"math"
)

// ReviewIssue compares every PENDING run for an issue against its stored
// draw and settles them. A missing draw is not an error: the issue has
// simply not been drawn yet and zero runs are settled.
func ReviewIssue(db *sql.DB, issueNo string) (int, error) {
	draw, ok, err := GetDrawByIssue(db, issueNo)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}

	runs, err := GetPendingRunsForIssue(db, issueNo)
	if err != nil {
		return 0, err
	}

	reviewed := 0
	for _, run := range runs {
		picks, err := GetPicksForRun(db, run.ID)
		if err != nil {
			return reviewed, err
		}
		if err := settleRun(db, run, picks, draw); err != nil {
			return reviewed, err
		}
		reviewed++
	}
	if reviewed > 0 {
		log.Printf("reviewed issue %s: %d run(s) settled", issueNo, reviewed)
	}
	return reviewed, nil
}

// settleRun scores one run against the actual draw. The special number
// does not count toward the match set; it only settles the special
// candidate separately.
func settleRun(db *sql.DB, run PredictionRun, picks []Pick, draw DrawRecord) error {
	picked := make(map[int]bool, len(picks))
	for _, p := range picks {
		picked[p.Number] = true
	}

	// draw.Numbers is stored ascending, so matched comes out ascending too.
	var matched []int
	for _, n := range draw.Numbers {
		if picked[n] {
			matched = append(matched, n)
		}
	}

	hitCount := len(matched)
	hitRate := 0.0
	if len(picks) > 0 {
		hitRate = roundTo4(float64(hitCount) / float64(len(picks)))
	}
	specialHit := run.SpecialNumber == draw.SpecialNumber

	if err := MarkRunReviewed(db, run.ID, hitCount, hitRate, specialHit); err != nil {
		return err
	}
	return UpsertReview(db, ReviewRecord{
		RunID:    run.ID,
		IssueNo:  run.IssueNo,
		Matched:  matched,
		HitCount: hitCount,
		HitRate:  hitRate,
	})
}

func roundTo4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// ReviewLatest settles pending runs for the most recent stored draw.
func ReviewLatest(db *sql.DB) (string, int, error) {
	latest, ok, err := GetLatestDraw(db)
	if err != nil {
		return "", 0, err
	}
	if !ok {
		return "", 0, nil
	}
	n, err := ReviewIssue(db, latest.IssueNo)
	return latest.IssueNo, n, err
}
