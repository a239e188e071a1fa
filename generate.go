package main

import (
	"database/sql"
	"fmt"
	"log"
)

const historyFetchLimit = 200

// GeneratePredictions produces one PENDING run per requested strategy for
// the target issue. An empty issueNo targets the issue after the latest
// stored draw. Existing runs for the same issue and strategy are reset,
// so regeneration is idempotent.
func GeneratePredictions(db *sql.DB, issueNo string, strategyIDs []string, minHistory int) (string, []int64, error) {
	if issueNo == "" {
		latest, ok, err := GetLatestDraw(db)
		if err != nil {
			return "", nil, err
		}
		if !ok {
			return "", nil, ErrNoDraws
		}
		issueNo = NextIssue(latest.IssueNo)
	}

	history, err := LoadRecentNumbers(db, historyFetchLimit)
	if err != nil {
		return "", nil, err
	}
	if len(history) < minHistory {
		return "", nil, fmt.Errorf("%w: have %d draws, need %d", ErrInsufficientHistory, len(history), minHistory)
	}

	if len(strategyIDs) == 0 {
		strategyIDs = DefaultStrategyIDs()
	}

	var runIDs []int64
	for _, id := range strategyIDs {
		def, ok := StrategyByID(id)
		if !ok {
			return "", runIDs, fmt.Errorf("unknown strategy %q", id)
		}
		picks, special := ScoreStrategy(def, history)

		runID, err := ResetOrCreateRun(db, issueNo, def, special)
		if err != nil {
			return "", runIDs, fmt.Errorf("creating run for %s: %w", def.ID, err)
		}
		if err := InsertPicks(db, runID, picks); err != nil {
			return "", runIDs, fmt.Errorf("persisting picks for %s: %w", def.ID, err)
		}
		runIDs = append(runIDs, runID)
		log.Printf("predicted issue %s strategy %s: %d picks, special %02d", issueNo, def.ID, len(picks), special.Number)
	}
	return issueNo, runIDs, nil
}
