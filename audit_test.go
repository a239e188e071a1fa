package main

import (
	"strings"
	"testing"
	"time"
)

func auditRecord(issueNo string, day int) DrawRecord {
	return DrawRecord{
		IssueNo:       issueNo,
		DrawDate:      time.Date(2008, 1, day, 12, 0, 0, 0, time.UTC),
		Numbers:       []int{2, 9, 21, 28, 34, 44},
		SpecialNumber: 25,
	}
}

func TestAuditHistoryCleanRun(t *testing.T) {
	records := []DrawRecord{
		auditRecord("08/001", 1),
		auditRecord("08/002", 3),
		auditRecord("08/003", 5),
	}
	result := AuditHistory(records)
	if !result.Passed {
		t.Fatalf("expected clean audit, got %v", result.Problems)
	}
	if result.Records != 3 {
		t.Fatalf("records = %d", result.Records)
	}
}

func TestAuditHistoryDetectsSequenceGap(t *testing.T) {
	records := []DrawRecord{
		auditRecord("08/001", 1),
		auditRecord("08/002", 3),
		auditRecord("08/004", 7),
		auditRecord("08/005", 9),
	}
	result := AuditHistory(records)
	if result.Passed {
		t.Fatal("expected gap to fail the audit")
	}
	found := false
	for _, p := range result.Problems {
		if strings.Contains(p, "year 08") && strings.Contains(p, "1 missing") && strings.Contains(p, "08/003") {
			found = true
		}
	}
	if !found {
		t.Fatalf("gap for 08/003 not reported: %v", result.Problems)
	}
}

func TestAuditHistoryDetectsDateRegression(t *testing.T) {
	records := []DrawRecord{
		auditRecord("08/001", 5),
		auditRecord("08/002", 3),
	}
	result := AuditHistory(records)
	if result.Passed {
		t.Fatal("expected out-of-order dates to fail the audit")
	}
	found := false
	for _, p := range result.Problems {
		if strings.Contains(p, "precedes") {
			found = true
		}
	}
	if !found {
		t.Fatalf("date regression not reported: %v", result.Problems)
	}
}

func TestAuditHistoryCollectsWithoutAborting(t *testing.T) {
	bad := auditRecord("not-an-issue", 1)
	badNums := auditRecord("08/002", 3)
	badNums.Numbers = []int{2, 2, 21, 28, 34, 44}
	records := []DrawRecord{bad, badNums, auditRecord("08/003", 5)}

	result := AuditHistory(records)
	if result.Passed {
		t.Fatal("expected problems")
	}
	if len(result.Problems) < 2 {
		t.Fatalf("expected both problems collected, got %v", result.Problems)
	}
}

func TestAuditHistoryTruncatesProblemList(t *testing.T) {
	var records []DrawRecord
	for i := 0; i < auditProblemCap+50; i++ {
		rec := auditRecord(BuildIssue("08", i+1, 3), (i%27)+1)
		rec.Numbers = []int{2, 2, 21, 28, 34, 44} // every record invalid
		records = append(records, rec)
	}
	result := AuditHistory(records)
	if len(result.Problems) != auditProblemCap+1 {
		t.Fatalf("got %d problems, want cap %d plus truncation note", len(result.Problems), auditProblemCap)
	}
	last := result.Problems[len(result.Problems)-1]
	if !strings.Contains(last, "truncated") {
		t.Fatalf("expected truncation note, got %q", last)
	}
	// The note carries how many findings were dropped past the cap.
	if !strings.Contains(last, "further problem") || strings.Contains(last, " 0 further") {
		t.Fatalf("expected a positive overflow count, got %q", last)
	}
}

func TestAuditHistoryExactlyAtCapHasNoTruncationNote(t *testing.T) {
	var records []DrawRecord
	for i := 0; i < auditProblemCap; i++ {
		rec := auditRecord(BuildIssue("08", i+1, 3), 1) // same date avoids ordering problems
		rec.Numbers = []int{2, 2, 21, 28, 34, 44}        // one problem per record
		records = append(records, rec)
	}
	result := AuditHistory(records)
	if len(result.Problems) != auditProblemCap {
		t.Fatalf("got %d problems, want exactly %d", len(result.Problems), auditProblemCap)
	}
	for _, p := range result.Problems {
		if strings.Contains(p, "truncated") {
			t.Fatalf("no findings were dropped but a truncation note appeared: %q", p)
		}
	}
}
