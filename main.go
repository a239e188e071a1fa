package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
)

func main() {
	cfg := LoadConfig()

	db, err := InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to init database: %v", err)
	}
	defer db.Close()

	cmd := "sync"
	args := os.Args[1:]
	if len(args) > 0 {
		cmd = args[0]
		args = args[1:]
	}

	switch cmd {
	case "bootstrap":
		cmdBootstrap(cfg, db, args)
	case "sync":
		cmdSync(cfg, db, args)
	case "predict":
		cmdPredict(cfg, db, args)
	case "review":
		cmdReview(cfg, db, args)
	case "audit":
		cmdAudit(db)
	case "backfill":
		cmdBackfill(db, args)
	case "backtest":
		cmdBacktest(cfg, db, args)
	case "show":
		cmdShow(db, args)
	case "watch":
		cmdWatch(cfg, db)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
		fmt.Fprintln(os.Stderr, "usage: marksix [bootstrap|sync|predict|review|audit|backfill|backtest|show|watch]")
		os.Exit(2)
	}
}

// cmdBootstrap seeds an empty database from the local CSV export, then
// runs one sync cycle so the freshest draws come from the network.
func cmdBootstrap(cfg Config, db *sql.DB, args []string) {
	fs := flag.NewFlagSet("bootstrap", flag.ExitOnError)
	path := fs.String("path", cfg.CSVPath, "historical CSV export to seed from")
	fs.Parse(args)

	count, err := CountDraws(db)
	if err != nil {
		log.Fatalf("Counting draws: %v", err)
	}
	if count == 0 {
		if _, err := BackfillFromPath(db, *path, "", ""); err != nil {
			log.Printf("Seed from %s failed: %v", *path, err)
		}
	} else {
		log.Printf("Database already has %d draws, skipping CSV seed", count)
	}

	mode := mustSourceMode(cfg.SourceMode)
	out := RunSync(cfg, db, mode)
	fmt.Println(FormatSyncSummary(out))
}

func cmdSync(cfg Config, db *sql.DB, args []string) {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	source := fs.String("source", cfg.SourceMode, "source mode: official, csv, auto, auto_required")
	fs.Parse(args)

	mode := mustSourceMode(*source)
	out := RunSync(cfg, db, mode)
	fmt.Println(FormatSyncSummary(out))

	notifier := NewNotifier(cfg)
	notifier.PostSummary(FormatSyncSummary(out))
	if out.PredictedIssue != "" {
		if sheet, err := FormatPredictionSheet(db, out.PredictedIssue); err == nil && sheet != "" {
			fmt.Println(sheet)
			notifier.PostSummary(sheet)
		}
	}
}

func cmdPredict(cfg Config, db *sql.DB, args []string) {
	fs := flag.NewFlagSet("predict", flag.ExitOnError)
	issue := fs.String("issue", "", "target issue (default: issue after latest draw)")
	strategies := fs.String("strategies", "", "comma-separated strategy ids (default: all)")
	fs.Parse(args)

	var ids []string
	if *strategies != "" {
		for _, id := range strings.Split(*strategies, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}

	target, runIDs, err := GeneratePredictions(db, *issue, ids, cfg.MinHistory)
	if err != nil {
		log.Fatalf("Predict failed: %v", err)
	}
	fmt.Printf("Generated %d run(s) for issue %s\n", len(runIDs), target)

	if sheet, err := FormatPredictionSheet(db, target); err == nil && sheet != "" {
		fmt.Println(sheet)
	}
}

func cmdReview(cfg Config, db *sql.DB, args []string) {
	fs := flag.NewFlagSet("review", flag.ExitOnError)
	issue := fs.String("issue", "", "issue to settle (default: latest stored draw)")
	fs.Parse(args)

	issueNo := *issue
	var reviewed int
	var err error
	if issueNo == "" {
		issueNo, reviewed, err = ReviewLatest(db)
	} else {
		reviewed, err = ReviewIssue(db, issueNo)
	}
	if err != nil {
		log.Fatalf("Review failed: %v", err)
	}
	if issueNo == "" {
		fmt.Println("No draws stored yet.")
		return
	}
	fmt.Printf("Settled %d run(s) for issue %s\n", reviewed, issueNo)

	if summary, err := FormatReviewSummary(db, issueNo); err == nil {
		fmt.Println(summary)
	}
}

func cmdAudit(db *sql.DB) {
	records, err := AllDrawsAsc(db)
	if err != nil {
		log.Fatalf("Loading draws: %v", err)
	}
	result := AuditHistory(records)
	fmt.Printf("Audited %d draw(s)\n", result.Records)
	if result.Passed {
		fmt.Println("Continuity OK")
		return
	}
	for _, p := range result.Problems {
		fmt.Println("  " + p)
	}
}

func cmdBackfill(db *sql.DB, args []string) {
	fs := flag.NewFlagSet("backfill", flag.ExitOnError)
	path := fs.String("path", "", "CSV export path (required)")
	fromYear := fs.String("from-year", "", "lowest two-digit issue year to keep")
	toYear := fs.String("to-year", "", "highest two-digit issue year to keep")
	fs.Parse(args)

	if *path == "" {
		log.Fatal("backfill requires -path")
	}
	result, err := BackfillFromPath(db, *path, *fromYear, *toYear)
	if err != nil {
		log.Fatalf("Backfill failed: %v", err)
	}
	fmt.Printf("Backfilled %d record(s): %d inserted, %d updated\n",
		result.TotalFetched, result.Inserted, result.Updated)
}

func cmdBacktest(cfg Config, db *sql.DB, args []string) {
	fs := flag.NewFlagSet("backtest", flag.ExitOnError)
	minHistory := fs.Int("min-history", cfg.MinHistory, "draws required before an issue is scored")
	rebuild := fs.Bool("rebuild", false, "re-score issues that are already reviewed")
	progressEvery := fs.Int("progress-every", 100, "log progress every N issues (0 disables)")
	fs.Parse(args)

	result, err := RunBacktest(db, *minHistory, *rebuild, *progressEvery)
	if err != nil {
		log.Fatalf("Backtest failed: %v", err)
	}
	fmt.Printf("Backtest: %d issues walked, %d scored, %d skipped, %d runs settled\n",
		result.IssuesWalked, result.IssuesScored, result.IssuesSkipped, result.RunsSettled)

	stats, err := GetReviewStats(db)
	if err != nil {
		log.Fatalf("Loading stats: %v", err)
	}
	printStats(stats)
}

func cmdShow(db *sql.DB, args []string) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	issue := fs.String("issue", "", "show runs for one issue instead of the dashboard")
	fs.Parse(args)

	if *issue != "" {
		if summary, err := FormatReviewSummary(db, *issue); err == nil {
			fmt.Println(summary)
		} else {
			log.Fatalf("Loading issue %s: %v", *issue, err)
		}
		return
	}

	count, err := CountDraws(db)
	if err != nil {
		log.Fatalf("Counting draws: %v", err)
	}
	fmt.Printf("Draws stored: %d\n", count)

	latest, ok, err := GetLatestDraw(db)
	if err != nil {
		log.Fatalf("Loading latest draw: %v", err)
	}
	if ok {
		nums := make([]string, 0, len(latest.Numbers))
		for _, n := range latest.Numbers {
			nums = append(nums, fmt.Sprintf("%02d", n))
		}
		fmt.Printf("Latest: %s on %s: %s special %02d (source %s)\n",
			latest.IssueNo, latest.DrawDate.Format("2006-01-02"),
			strings.Join(nums, " "), latest.SpecialNumber, latest.Source)

		if sheet, sheetErr := FormatPredictionSheet(db, NextIssue(latest.IssueNo)); sheetErr == nil && sheet != "" {
			fmt.Println(sheet)
		}
	}

	stats, err := GetReviewStats(db)
	if err != nil {
		log.Fatalf("Loading stats: %v", err)
	}
	printStats(stats)
}

func printStats(stats []StrategyStats) {
	if len(stats) == 0 {
		return
	}
	fmt.Println("Strategy performance (reviewed runs):")
	fmt.Printf("  %-16s %6s %8s %8s %6s %6s %8s\n", "strategy", "runs", "avg hit", "rate", ">=1", ">=2", "special")
	for _, s := range stats {
		fmt.Printf("  %-16s %6d %8.2f %7.1f%% %5.0f%% %5.0f%% %7.1f%%\n",
			s.Strategy, s.Runs, s.AvgHits, s.AvgRate*100, s.Hit1Rate*100, s.Hit2Rate*100, s.SpecialRate*100)
	}
}

func cmdWatch(cfg Config, db *sql.DB) {
	notifier := NewNotifier(cfg)
	StartSyncScheduler(cfg, db, notifier)
	log.Println("Watching for scheduled syncs, Ctrl-C to stop...")
	select {}
}

func mustSourceMode(s string) SourceMode {
	mode, err := ParseSourceMode(s)
	if err != nil {
		log.Fatalf("Invalid source mode %q: %v", s, err)
	}
	return mode
}
