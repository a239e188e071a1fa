package main

import (
	"database/sql"
	"log"
)

// BacktestResult summarises a historical replay.
type BacktestResult struct {
	IssuesWalked  int
	IssuesScored  int
	IssuesSkipped int
	RunsSettled   int
}

// RunBacktest replays the stored history in draw order: for each issue
// with at least minHistory prior draws it regenerates every strategy's
// picks from only the draws before it, then settles them against the
// actual outcome. Issues already fully reviewed are skipped unless
// rebuild is set.
func RunBacktest(db *sql.DB, minHistory int, rebuild bool, progressEvery int) (BacktestResult, error) {
	var result BacktestResult

	draws, err := AllDrawsAsc(db)
	if err != nil {
		return result, err
	}
	if len(draws) == 0 {
		return result, ErrNoDraws
	}

	// history is maintained most-recent-first, matching the scorer.
	var history [][]int
	for i, draw := range draws {
		result.IssuesWalked++
		if i >= minHistory {
			if !rebuild {
				reviewed, err := CountReviewedRunsForIssue(db, draw.IssueNo)
				if err != nil {
					return result, err
				}
				if reviewed >= len(Strategies) {
					result.IssuesSkipped++
					history = prependDraw(history, draw.Numbers)
					continue
				}
			}

			settled, err := backtestIssue(db, draw, history)
			if err != nil {
				return result, err
			}
			result.IssuesScored++
			result.RunsSettled += settled
		}

		history = prependDraw(history, draw.Numbers)

		if progressEvery > 0 && result.IssuesWalked%progressEvery == 0 {
			log.Printf("backtest progress: %d/%d issues, %d scored, %d skipped",
				result.IssuesWalked, len(draws), result.IssuesScored, result.IssuesSkipped)
		}
	}

	log.Printf("backtest done: %d issues walked, %d scored, %d skipped, %d runs settled",
		result.IssuesWalked, result.IssuesScored, result.IssuesSkipped, result.RunsSettled)
	return result, nil
}

func backtestIssue(db *sql.DB, draw DrawRecord, history [][]int) (int, error) {
	settled := 0
	for _, def := range Strategies {
		picks, special := ScoreStrategy(def, history)

		runID, err := ResetOrCreateRun(db, draw.IssueNo, def, special)
		if err != nil {
			return settled, err
		}
		if err := InsertPicks(db, runID, picks); err != nil {
			return settled, err
		}

		run := PredictionRun{ID: runID, IssueNo: draw.IssueNo, Strategy: def.ID, SpecialNumber: special.Number}
		if err := settleRun(db, run, picks, draw); err != nil {
			return settled, err
		}
		settled++
	}
	return settled, nil
}

// prependDraw keeps the rolling window most-recent-first, trimmed to
// what the scorer will actually read.
func prependDraw(history [][]int, numbers []int) [][]int {
	out := make([][]int, 0, len(history)+1)
	out = append(out, numbers)
	out = append(out, history...)
	if len(out) > WindowCap {
		out = out[:WindowCap]
	}
	return out
}
