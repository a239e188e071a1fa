package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

var dateLayouts = []string{"2006-01-02", "02/01/2006", "2006/01/02"}

// parseDrawDate accepts the date spellings seen across providers and
// normalizes to noon UTC so timezone conversion can never shift the day.
func parseDrawDate(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return noonUTC(t), true
		}
	}
	// ISO timestamps: keep the date part only.
	if t, err := time.Parse(time.RFC3339, text); err == nil {
		return noonUTC(t), true
	}
	if len(text) > 10 {
		if t, err := time.Parse("2006-01-02", text[:10]); err == nil {
			return noonUTC(t), true
		}
	}
	return time.Time{}, false
}

func noonUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC)
}

// parseNumberList splits a comma-joined number field, tolerating the
// fullwidth comma some upstream CSVs use. Out-of-range tokens are skipped.
func parseNumberList(value string) []int {
	value = strings.ReplaceAll(value, "，", ",")
	var out []int
	for _, token := range strings.Split(value, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		n, err := strconv.Atoi(token)
		if err != nil {
			continue
		}
		if n >= 1 && n <= NumberMax {
			out = append(out, n)
		}
	}
	return out
}

func toBallNumber(v any) (int, bool) {
	var text string
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		text = strconv.Itoa(int(x))
	case string:
		text = strings.TrimSpace(x)
	default:
		text = strings.TrimSpace(fmt.Sprint(x))
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, false
	}
	if n < 1 || n > NumberMax {
		return 0, false
	}
	return n, true
}

// Candidate key lists per semantic slot for JSON rows. Order matters: the
// first candidate yielding a structurally valid value wins.
var (
	issueKeys   = []string{"issueNo", "drawNo", "draw", "issue", "period", "id"}
	dateKeys    = []string{"date", "drawDate", "draw_date", "drawdate", "dt"}
	splitKeys   = []string{"n1", "n2", "n3", "n4", "n5", "n6", "no1", "no2", "no3", "no4", "no5", "no6"}
	joinedKeys  = []string{"numbers", "nos", "no", "result", "main"}
	specialKeys = []string{"specialNumber", "special", "sno", "sn", "bonus", "extra", "n7", "no7"}
)

func extractIssueNo(row map[string]any) string {
	for _, key := range issueKeys {
		v, found := row[key]
		if !found || v == nil {
			continue
		}
		text := strings.TrimSpace(fmt.Sprint(v))
		if text != "" && strings.Contains(text, "/") {
			return text
		}
	}
	return ""
}

func extractDrawDate(row map[string]any) (time.Time, bool) {
	for _, key := range dateKeys {
		v, found := row[key]
		if !found || v == nil {
			continue
		}
		if t, ok := parseDrawDate(fmt.Sprint(v)); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func extractMainNumbers(row map[string]any) []int {
	var split []int
	for _, key := range splitKeys {
		if v, found := row[key]; found {
			if n, ok := toBallNumber(v); ok {
				split = append(split, n)
			}
		}
	}
	if len(split) >= DrawSize {
		return split[:DrawSize]
	}
	for _, key := range joinedKeys {
		if v, found := row[key]; found && v != nil {
			nums := parseNumberList(fmt.Sprint(v))
			if len(nums) >= DrawSize {
				return nums[:DrawSize]
			}
		}
	}
	return nil
}

func extractSpecialNumber(row map[string]any) (int, bool) {
	for _, key := range specialKeys {
		if v, found := row[key]; found {
			if n, ok := toBallNumber(v); ok {
				return n, true
			}
		}
	}
	// Some feeds join all seven balls into one field; the seventh is the special.
	for _, key := range []string{"result", "no", "numbers"} {
		if v, found := row[key]; found && v != nil {
			nums := parseNumberList(fmt.Sprint(v))
			if len(nums) >= DrawSize+1 {
				return nums[DrawSize], true
			}
		}
	}
	return 0, false
}

// NormalizeRow maps one heterogenous JSON row onto a canonical record.
// ok is false when any slot is missing or the record fails validation.
func NormalizeRow(row map[string]any) (DrawRecord, bool) {
	issueNo := extractIssueNo(row)
	drawDate, dateOK := extractDrawDate(row)
	numbers := extractMainNumbers(row)
	special, specialOK := extractSpecialNumber(row)
	if issueNo == "" || !dateOK || numbers == nil || !specialOK {
		return DrawRecord{}, false
	}
	rec := DrawRecord{
		IssueNo:       issueNo,
		DrawDate:      drawDate,
		Numbers:       canonicalNumbers(numbers),
		SpecialNumber: special,
	}
	if err := ValidateRecord(rec); err != nil {
		return DrawRecord{}, false
	}
	return rec, true
}

func canonicalNumbers(numbers []int) []int {
	out := make([]int, len(numbers))
	copy(out, numbers)
	sort.Ints(out)
	return out
}

// ValidateRecord enforces the invariants no persisted record may violate:
// 6 distinct numbers in range, special in range and disjoint.
func ValidateRecord(rec DrawRecord) error {
	if rec.IssueNo == "" {
		return fmt.Errorf("missing issue id")
	}
	if rec.DrawDate.IsZero() {
		return fmt.Errorf("issue %s: missing draw date", rec.IssueNo)
	}
	if len(rec.Numbers) != DrawSize {
		return fmt.Errorf("issue %s: expected %d numbers, got %d", rec.IssueNo, DrawSize, len(rec.Numbers))
	}
	seen := make(map[int]bool, DrawSize)
	for _, n := range rec.Numbers {
		if n < 1 || n > NumberMax {
			return fmt.Errorf("issue %s: number %d out of range", rec.IssueNo, n)
		}
		if seen[n] {
			return fmt.Errorf("issue %s: duplicate number %d", rec.IssueNo, n)
		}
		seen[n] = true
	}
	if rec.SpecialNumber < 1 || rec.SpecialNumber > NumberMax {
		return fmt.Errorf("issue %s: special number %d out of range", rec.IssueNo, rec.SpecialNumber)
	}
	if seen[rec.SpecialNumber] {
		return fmt.Errorf("issue %s: special number %d collides with winning numbers", rec.IssueNo, rec.SpecialNumber)
	}
	return nil
}

// dedupeSorted collapses repeated issue ids (last occurrence wins) and
// orders records ascending by (draw date, issue id).
func dedupeSorted(records []DrawRecord) []DrawRecord {
	byIssue := make(map[string]DrawRecord, len(records))
	for _, r := range records {
		byIssue[r.IssueNo] = r
	}
	out := make([]DrawRecord, 0, len(byIssue))
	for _, r := range byIssue {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DrawDate.Equal(out[j].DrawDate) {
			return out[i].DrawDate.Before(out[j].DrawDate)
		}
		return out[i].IssueNo < out[j].IssueNo
	})
	return out
}
