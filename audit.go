package main

import (
	"fmt"
	"sort"
)

const (
	auditProblemCap = 200
	auditGapSample  = 10
)

// AuditResult summarises a continuity pass over the stored history.
type AuditResult struct {
	Records  int
	Problems []string
	Passed   bool
}

// AuditHistory checks the full history for malformed rows, out-of-order
// dates and per-year sequence gaps. It never aborts on a bad record; every
// finding is collected, capped at auditProblemCap entries.
func AuditHistory(records []DrawRecord) AuditResult {
	result := AuditResult{Records: len(records)}
	total := 0
	add := func(format string, args ...any) {
		total++
		if len(result.Problems) >= auditProblemCap {
			return
		}
		result.Problems = append(result.Problems, fmt.Sprintf(format, args...))
	}

	// seq numbers seen per issue year
	seen := make(map[string]map[int]bool)
	width := make(map[string]int)

	var prev DrawRecord
	for i, rec := range records {
		year, seq, w, ok := ParseIssue(rec.IssueNo)
		if !ok {
			add("issue %q: unparseable issue number", rec.IssueNo)
		} else {
			if seen[year] == nil {
				seen[year] = make(map[int]bool)
			}
			if seen[year][seq] {
				add("issue %s: duplicate sequence within year %s", rec.IssueNo, year)
			}
			seen[year][seq] = true
			if w > width[year] {
				width[year] = w
			}
		}

		if err := ValidateRecord(rec); err != nil {
			add("issue %s: %v", rec.IssueNo, err)
		}
		if rec.DrawDate.IsZero() {
			add("issue %s: missing draw date", rec.IssueNo)
		}
		if i > 0 && !rec.DrawDate.IsZero() && !prev.DrawDate.IsZero() && rec.DrawDate.Before(prev.DrawDate) {
			add("issue %s: draw date %s precedes prior issue %s (%s)",
				rec.IssueNo, rec.DrawDate.Format("2006-01-02"),
				prev.IssueNo, prev.DrawDate.Format("2006-01-02"))
		}
		prev = rec
	}

	years := make([]string, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Strings(years)

	for _, year := range years {
		seqs := seen[year]
		min, max := 0, 0
		first := true
		for s := range seqs {
			if first {
				min, max = s, s
				first = false
				continue
			}
			if s < min {
				min = s
			}
			if s > max {
				max = s
			}
		}

		var missing []string
		for s := min; s <= max; s++ {
			if !seqs[s] {
				missing = append(missing, BuildIssue(year, s, width[year]))
			}
		}
		if len(missing) > 0 {
			sample := missing
			if len(sample) > auditGapSample {
				sample = sample[:auditGapSample]
			}
			add("year %s: %d missing issue(s), e.g. %v", year, len(missing), sample)
		}
	}

	if total > auditProblemCap {
		result.Problems = append(result.Problems,
			fmt.Sprintf("... %d further problem(s) truncated", total-auditProblemCap))
	}
	result.Passed = total == 0
	return result
}
