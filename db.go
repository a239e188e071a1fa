package main

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS draws (
		issue_no       TEXT PRIMARY KEY,
		draw_date      DATETIME NOT NULL,
		numbers        TEXT NOT NULL,
		special_number INTEGER NOT NULL,
		source         TEXT NOT NULL DEFAULT '',
		created_at     DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at     DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_draws_date ON draws(draw_date);

	CREATE TABLE IF NOT EXISTS prediction_runs (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		issue_no         TEXT NOT NULL,
		strategy         TEXT NOT NULL,
		strategy_version TEXT NOT NULL DEFAULT 'v1',
		status           TEXT NOT NULL DEFAULT 'PENDING',
		special_number   INTEGER NOT NULL DEFAULT 0,
		special_score    REAL NOT NULL DEFAULT 0,
		hit_count        INTEGER,
		hit_rate         REAL,
		created_at       DATETIME DEFAULT CURRENT_TIMESTAMP,
		reviewed_at      DATETIME,
		UNIQUE(issue_no, strategy, strategy_version)
	);
	CREATE INDEX IF NOT EXISTS idx_runs_issue ON prediction_runs(issue_no);
	CREATE INDEX IF NOT EXISTS idx_runs_status ON prediction_runs(status);

	CREATE TABLE IF NOT EXISTS prediction_picks (
		id     INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL,
		number INTEGER NOT NULL,
		rank   INTEGER NOT NULL,
		score  REAL NOT NULL,
		reason TEXT NOT NULL DEFAULT '',
		UNIQUE(run_id, number),
		UNIQUE(run_id, rank),
		FOREIGN KEY(run_id) REFERENCES prediction_runs(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS reviews (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id      INTEGER NOT NULL UNIQUE,
		issue_no    TEXT NOT NULL,
		matched     TEXT NOT NULL DEFAULT '',
		hit_count   INTEGER NOT NULL,
		hit_rate    REAL NOT NULL,
		created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_reviews_issue ON reviews(issue_no);
	`
	_, err = db.Exec(schema)
	if err != nil {
		return nil, err
	}

	// Migration: add special_hit column if missing.
	var colCount int
	_ = db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('prediction_runs') WHERE name = 'special_hit'`).Scan(&colCount)
	if colCount == 0 {
		_, _ = db.Exec(`ALTER TABLE prediction_runs ADD COLUMN special_hit INTEGER`)
	}

	return db, nil
}

func joinNumbers(numbers []int) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func splitNumbers(text string) []int {
	if text == "" {
		return nil
	}
	parts := strings.Split(text, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

// --- Draw store ---

// UpsertDraw persists one canonical record. The returned flag reports
// whether this call inserted a fresh row (as opposed to updating the
// mutable fields of an existing one). Records violating the number
// invariants are rejected before touching storage.
func UpsertDraw(db *sql.DB, rec DrawRecord) (bool, error) {
	if err := ValidateRecord(rec); err != nil {
		return false, err
	}
	now := time.Now().UTC()

	// ON CONFLICT DO NOTHING keeps concurrent reconciles of the same issue
	// converging on one row; the losing writer falls through to UPDATE.
	res, err := db.Exec(
		`INSERT INTO draws (issue_no, draw_date, numbers, special_number, source, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(issue_no) DO NOTHING`,
		rec.IssueNo, rec.DrawDate, joinNumbers(rec.Numbers), rec.SpecialNumber, rec.Source, now, now,
	)
	if err != nil {
		return false, err
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return true, nil
	}

	_, err = db.Exec(
		`UPDATE draws
		 SET draw_date = ?, numbers = ?, special_number = ?, source = ?, updated_at = ?
		 WHERE issue_no = ?`,
		rec.DrawDate, joinNumbers(rec.Numbers), rec.SpecialNumber, rec.Source, now, rec.IssueNo,
	)
	return false, err
}

// SyncFromRecords reconciles a batch against the stored history.
func SyncFromRecords(db *sql.DB, records []DrawRecord, source string) (total, inserted, updated int, err error) {
	for _, rec := range records {
		rec.Source = source
		wasInserted, upErr := UpsertDraw(db, rec)
		if upErr != nil {
			return total, inserted, updated, fmt.Errorf("reconciling issue %s: %w", rec.IssueNo, upErr)
		}
		total++
		if wasInserted {
			inserted++
		} else {
			updated++
		}
	}
	return total, inserted, updated, nil
}

func scanDraw(row interface{ Scan(...any) error }) (DrawRecord, error) {
	var rec DrawRecord
	var numbers string
	err := row.Scan(&rec.IssueNo, &rec.DrawDate, &numbers, &rec.SpecialNumber, &rec.Source)
	if err != nil {
		return rec, err
	}
	rec.Numbers = splitNumbers(numbers)
	return rec, nil
}

func GetDrawByIssue(db *sql.DB, issueNo string) (DrawRecord, bool, error) {
	rec, err := scanDraw(db.QueryRow(
		`SELECT issue_no, draw_date, numbers, special_number, source FROM draws WHERE issue_no = ?`,
		issueNo,
	))
	if err == sql.ErrNoRows {
		return DrawRecord{}, false, nil
	}
	if err != nil {
		return DrawRecord{}, false, err
	}
	return rec, true, nil
}

func GetLatestDraw(db *sql.DB) (DrawRecord, bool, error) {
	rec, err := scanDraw(db.QueryRow(
		`SELECT issue_no, draw_date, numbers, special_number, source
		 FROM draws ORDER BY draw_date DESC, issue_no DESC LIMIT 1`,
	))
	if err == sql.ErrNoRows {
		return DrawRecord{}, false, nil
	}
	if err != nil {
		return DrawRecord{}, false, err
	}
	return rec, true, nil
}

// AllDrawsAsc returns the full history ordered ascending by draw date,
// the order the continuity auditor and the backtest walk it in.
func AllDrawsAsc(db *sql.DB) ([]DrawRecord, error) {
	rows, err := db.Query(
		`SELECT issue_no, draw_date, numbers, special_number, source
		 FROM draws ORDER BY draw_date ASC, issue_no ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []DrawRecord
	for rows.Next() {
		rec, err := scanDraw(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// LoadRecentNumbers returns the winning-number sets of the most recent
// draws, most recent first, capped at limit.
func LoadRecentNumbers(db *sql.DB, limit int) ([][]int, error) {
	rows, err := db.Query(
		`SELECT numbers FROM draws ORDER BY draw_date DESC, issue_no DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]int
	for rows.Next() {
		var numbers string
		if err := rows.Scan(&numbers); err != nil {
			return nil, err
		}
		out = append(out, splitNumbers(numbers))
	}
	return out, rows.Err()
}

func CountDraws(db *sql.DB) (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM draws`).Scan(&count)
	return count, err
}

// --- Prediction runs and picks ---

type PredictionRun struct {
	ID              int64
	IssueNo         string
	Strategy        string
	StrategyVersion string
	Status          string // "PENDING" or "REVIEWED"
	SpecialNumber   int
	SpecialScore    float64
	HitCount        sql.NullInt64
	HitRate         sql.NullFloat64
	SpecialHit      sql.NullInt64
	CreatedAt       time.Time
	ReviewedAt      sql.NullTime
}

const runColumns = `id, issue_no, strategy, strategy_version, status, special_number, special_score,
	hit_count, hit_rate, special_hit, created_at, reviewed_at`

func scanRun(row interface{ Scan(...any) error }) (PredictionRun, error) {
	var r PredictionRun
	err := row.Scan(
		&r.ID, &r.IssueNo, &r.Strategy, &r.StrategyVersion, &r.Status,
		&r.SpecialNumber, &r.SpecialScore, &r.HitCount, &r.HitRate,
		&r.SpecialHit, &r.CreatedAt, &r.ReviewedAt,
	)
	return r, err
}

// ResetOrCreateRun makes the run for (issue, strategy, version) exist in a
// clean PENDING state: hit fields nulled, picks deleted, special candidate
// replaced. Returns the run id.
func ResetOrCreateRun(db *sql.DB, issueNo string, def StrategyDef, special SpecialCandidate) (int64, error) {
	now := time.Now().UTC()

	var runID int64
	err := db.QueryRow(
		`SELECT id FROM prediction_runs WHERE issue_no = ? AND strategy = ? AND strategy_version = ?`,
		issueNo, def.ID, def.Version,
	).Scan(&runID)
	switch {
	case err == sql.ErrNoRows:
		res, insErr := db.Exec(
			`INSERT INTO prediction_runs (issue_no, strategy, strategy_version, status, special_number, special_score, created_at)
			 VALUES (?, ?, ?, 'PENDING', ?, ?, ?)`,
			issueNo, def.ID, def.Version, special.Number, special.Score, now,
		)
		if insErr != nil {
			return 0, insErr
		}
		return res.LastInsertId()
	case err != nil:
		return 0, err
	}

	_, err = db.Exec(
		`UPDATE prediction_runs
		 SET status = 'PENDING', hit_count = NULL, hit_rate = NULL, special_hit = NULL,
		     special_number = ?, special_score = ?, reviewed_at = NULL, created_at = ?
		 WHERE id = ?`,
		special.Number, special.Score, now, runID,
	)
	if err != nil {
		return 0, err
	}
	_, err = db.Exec(`DELETE FROM prediction_picks WHERE run_id = ?`, runID)
	return runID, err
}

func InsertPicks(db *sql.DB, runID int64, picks []Pick) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO prediction_picks (run_id, number, rank, score, reason) VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range picks {
		if _, err := stmt.Exec(runID, p.Number, p.Rank, p.Score, p.Reason); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func GetPicksForRun(db *sql.DB, runID int64) ([]Pick, error) {
	rows, err := db.Query(
		`SELECT number, rank, score, reason FROM prediction_picks WHERE run_id = ? ORDER BY rank ASC`,
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var picks []Pick
	for rows.Next() {
		var p Pick
		if err := rows.Scan(&p.Number, &p.Rank, &p.Score, &p.Reason); err != nil {
			return nil, err
		}
		picks = append(picks, p)
	}
	return picks, rows.Err()
}

func GetPendingRunsForIssue(db *sql.DB, issueNo string) ([]PredictionRun, error) {
	rows, err := db.Query(
		`SELECT `+runColumns+` FROM prediction_runs
		 WHERE issue_no = ? AND status = 'PENDING' ORDER BY strategy ASC`,
		issueNo,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []PredictionRun
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func GetRunsForIssue(db *sql.DB, issueNo string) ([]PredictionRun, error) {
	rows, err := db.Query(
		`SELECT `+runColumns+` FROM prediction_runs
		 WHERE issue_no = ? ORDER BY strategy ASC`,
		issueNo,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []PredictionRun
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func GetRecentPendingRuns(db *sql.DB, limit int) ([]PredictionRun, error) {
	rows, err := db.Query(
		`SELECT `+runColumns+` FROM prediction_runs
		 WHERE status = 'PENDING' ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []PredictionRun
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func CountReviewedRunsForIssue(db *sql.DB, issueNo string) (int, error) {
	var count int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM prediction_runs WHERE issue_no = ? AND status = 'REVIEWED'`,
		issueNo,
	).Scan(&count)
	return count, err
}

func MarkRunReviewed(db *sql.DB, runID int64, hitCount int, hitRate float64, specialHit bool) error {
	sh := 0
	if specialHit {
		sh = 1
	}
	_, err := db.Exec(
		`UPDATE prediction_runs
		 SET status = 'REVIEWED', hit_count = ?, hit_rate = ?, special_hit = ?, reviewed_at = ?
		 WHERE id = ?`,
		hitCount, hitRate, sh, time.Now().UTC(), runID,
	)
	return err
}

// --- Reviews ---

type ReviewRecord struct {
	ID        int64
	RunID     int64
	IssueNo   string
	Matched   []int
	HitCount  int
	HitRate   float64
	CreatedAt time.Time
}

// UpsertReview keeps exactly one review row per run, replacing prior
// content on re-review.
func UpsertReview(db *sql.DB, rev ReviewRecord) error {
	_, err := db.Exec(
		`INSERT INTO reviews (run_id, issue_no, matched, hit_count, hit_rate, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(run_id) DO UPDATE SET
		   issue_no = excluded.issue_no, matched = excluded.matched,
		   hit_count = excluded.hit_count, hit_rate = excluded.hit_rate,
		   created_at = excluded.created_at`,
		rev.RunID, rev.IssueNo, joinNumbers(rev.Matched), rev.HitCount, rev.HitRate, time.Now().UTC(),
	)
	return err
}

func GetReviewByRun(db *sql.DB, runID int64) (ReviewRecord, bool, error) {
	var rev ReviewRecord
	var matched string
	err := db.QueryRow(
		`SELECT id, run_id, issue_no, matched, hit_count, hit_rate, created_at
		 FROM reviews WHERE run_id = ?`,
		runID,
	).Scan(&rev.ID, &rev.RunID, &rev.IssueNo, &matched, &rev.HitCount, &rev.HitRate, &rev.CreatedAt)
	if err == sql.ErrNoRows {
		return ReviewRecord{}, false, nil
	}
	if err != nil {
		return ReviewRecord{}, false, err
	}
	rev.Matched = splitNumbers(matched)
	return rev, true, nil
}

func CountReviewsForIssue(db *sql.DB, issueNo string) (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM reviews WHERE issue_no = ?`, issueNo).Scan(&count)
	return count, err
}

// --- Review stats ---

type StrategyStats struct {
	Strategy    string
	Runs        int
	AvgHits     float64
	AvgRate     float64
	SpecialRate float64
	Hit1Rate    float64
	Hit2Rate    float64
}

func GetReviewStats(db *sql.DB) ([]StrategyStats, error) {
	rows, err := db.Query(
		`SELECT
		   strategy,
		   COUNT(*) AS c,
		   AVG(hit_count) AS avg_hits,
		   AVG(hit_rate) AS avg_rate,
		   AVG(COALESCE(special_hit, 0)) AS special_rate,
		   AVG(CASE WHEN hit_count >= 1 THEN 1.0 ELSE 0.0 END) AS hit1_rate,
		   AVG(CASE WHEN hit_count >= 2 THEN 1.0 ELSE 0.0 END) AS hit2_rate
		 FROM prediction_runs
		 WHERE status = 'REVIEWED'
		 GROUP BY strategy
		 ORDER BY avg_rate DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []StrategyStats
	for rows.Next() {
		var s StrategyStats
		if err := rows.Scan(&s.Strategy, &s.Runs, &s.AvgHits, &s.AvgRate, &s.SpecialRate, &s.Hit1Rate, &s.Hit2Rate); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
