package main

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// IngestResult tracks what one ingestion pass did to the draw table.
type IngestResult struct {
	TotalFetched int
	Inserted     int
	Updated      int
	LastIssue    string
	Source       string
}

// IngestLatest resolves records from the configured sources and
// reconciles them into storage. It has no notifier dependency so both
// the sync subcommand and the scheduler can call it.
func IngestLatest(cfg Config, db *sql.DB, mode SourceMode) (IngestResult, error) {
	records, sourceTag, err := ResolveRecords(cfg, mode)
	if err != nil {
		return IngestResult{Source: sourceTag}, err
	}

	total, inserted, updated, err := SyncFromRecords(db, records, sourceTag)
	result := IngestResult{
		TotalFetched: total,
		Inserted:     inserted,
		Updated:      updated,
		Source:       sourceTag,
	}
	if err != nil {
		return result, err
	}
	if len(records) > 0 {
		result.LastIssue = records[len(records)-1].IssueNo
	}
	log.Printf("ingest source=%s fetched=%d inserted=%d updated=%d last=%s",
		sourceTag, total, inserted, updated, result.LastIssue)
	return result, nil
}

// SyncOutcome is what one full sync cycle produced, for logging and the
// channel summary.
type SyncOutcome struct {
	Ingest         IngestResult
	ReviewedIssue  string
	ReviewedRuns   int
	PredictedIssue string
	PredictedRuns  int
	Errors         []string
}

// RunSync is the core cycle: ingest whatever the sources have, settle
// pending predictions for the latest stored draw, then generate fresh
// picks for the issue after it. Each stage failure is recorded but does
// not stop the later stages.
func RunSync(cfg Config, db *sql.DB, mode SourceMode) SyncOutcome {
	var out SyncOutcome

	ingest, err := IngestLatest(cfg, db, mode)
	out.Ingest = ingest
	if err != nil {
		log.Printf("sync ingest error: %v", err)
		out.Errors = append(out.Errors, fmt.Sprintf("ingest: %v", err))
	}

	issueNo, reviewed, err := ReviewLatest(db)
	if err != nil {
		log.Printf("sync review error: %v", err)
		out.Errors = append(out.Errors, fmt.Sprintf("review: %v", err))
	} else {
		out.ReviewedIssue = issueNo
		out.ReviewedRuns = reviewed
	}

	target, runIDs, err := GeneratePredictions(db, "", nil, cfg.MinHistory)
	if err != nil {
		log.Printf("sync predict error: %v", err)
		out.Errors = append(out.Errors, fmt.Sprintf("predict: %v", err))
	} else {
		out.PredictedIssue = target
		out.PredictedRuns = len(runIDs)
	}

	return out
}

// FormatSyncSummary renders a SyncOutcome for logs and the channel.
func FormatSyncSummary(out SyncOutcome) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("source=%s fetched=%d inserted=%d updated=%d",
		out.Ingest.Source, out.Ingest.TotalFetched, out.Ingest.Inserted, out.Ingest.Updated))
	if out.Ingest.LastIssue != "" {
		parts = append(parts, "latest issue "+out.Ingest.LastIssue)
	}
	if out.ReviewedRuns > 0 {
		parts = append(parts, fmt.Sprintf("settled %d run(s) for %s", out.ReviewedRuns, out.ReviewedIssue))
	}
	if out.PredictedIssue != "" {
		parts = append(parts, fmt.Sprintf("predicted %d strategy run(s) for %s", out.PredictedRuns, out.PredictedIssue))
	}
	msg := "Sync complete: " + strings.Join(parts, "; ")
	if len(out.Errors) > 0 {
		msg += "\nWarnings:\n" + strings.Join(out.Errors, "\n")
	}
	return msg
}

// BackfillFromPath loads a historical CSV export, optionally restricted
// to a year range (two-digit issue years, inclusive).
func BackfillFromPath(db *sql.DB, path string, fromYear, toYear string) (IngestResult, error) {
	records, err := ParseDrawCSV(path)
	if err != nil {
		return IngestResult{}, err
	}

	if fromYear != "" || toYear != "" {
		filtered := records[:0]
		for _, rec := range records {
			year, _, _, ok := ParseIssue(rec.IssueNo)
			if !ok {
				continue
			}
			if fromYear != "" && year < fromYear {
				continue
			}
			if toYear != "" && year > toYear {
				continue
			}
			filtered = append(filtered, rec)
		}
		records = filtered
	}

	total, inserted, updated, err := SyncFromRecords(db, records, "csv_backfill")
	result := IngestResult{TotalFetched: total, Inserted: inserted, Updated: updated, Source: "csv_backfill"}
	if err != nil {
		return result, err
	}
	if len(records) > 0 {
		result.LastIssue = records[len(records)-1].IssueNo
	}
	log.Printf("backfill from %s: %d records, %d inserted, %d updated", path, total, inserted, updated)
	return result, nil
}

// StartSyncScheduler runs the sync cycle on a cron schedule in a
// background goroutine. The schedule is a standard 5-field cron
// expression (minute hour day-of-month month day-of-week).
// Examples: "30 21 * * 2,4,6" (draw nights), "0 8 * * *" (daily 8am).
func StartSyncScheduler(cfg Config, db *sql.DB, notifier *Notifier) {
	schedule := strings.TrimSpace(cfg.SyncSchedule)
	if schedule == "" {
		log.Println("Scheduled sync disabled (sync_schedule not set)")
		return
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		log.Printf("Invalid sync_schedule '%s': %v, scheduled sync disabled", schedule, err)
		return
	}
	log.Printf("Sync scheduled (cron: %s)", schedule)

	mode, err := ParseSourceMode(cfg.SourceMode)
	if err != nil {
		log.Printf("Invalid source_mode '%s': %v, falling back to auto", cfg.SourceMode, err)
		mode = SourceAuto
	}

	go func() {
		for {
			now := time.Now().In(cfg.Location)
			next := sched.Next(now)
			wait := next.Sub(now)
			log.Printf("Next sync at %s (in %s)", next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

			time.Sleep(wait)

			out := RunSync(cfg, db, mode)
			summary := FormatSyncSummary(out)
			log.Printf("Scheduled sync: %s", summary)

			notifier.PostSummary(summary)
			if out.PredictedIssue != "" {
				if sheet, err := FormatPredictionSheet(db, out.PredictedIssue); err == nil && sheet != "" {
					notifier.PostSummary(sheet)
				}
			}
		}
	}()
}
