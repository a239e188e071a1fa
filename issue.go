package main

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseIssue splits "YY/NNN" into year text, sequence and the sequence's
// zero-padded width. ok is false when the id does not have that shape.
func ParseIssue(issueNo string) (year string, seq int, width int, ok bool) {
	parts := strings.Split(issueNo, "/")
	if len(parts) != 2 {
		return "", 0, 0, false
	}
	year, seqText := parts[0], parts[1]
	if year == "" || seqText == "" || !allDigits(year) || !allDigits(seqText) {
		return "", 0, 0, false
	}
	seq, err := strconv.Atoi(seqText)
	if err != nil {
		return "", 0, 0, false
	}
	return year, seq, len(seqText), true
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func BuildIssue(year string, seq, width int) string {
	return fmt.Sprintf("%s/%0*d", year, width, seq)
}

// NextIssue advances the sequence by one, keeping the input's padding
// width. A non-parsing id is returned unchanged; callers must treat an
// unchanged return as "could not advance". Cross-year rollover is
// deliberately not handled here.
func NextIssue(issueNo string) string {
	year, seq, width, ok := ParseIssue(issueNo)
	if !ok {
		return issueNo
	}
	return BuildIssue(year, seq+1, width)
}

// IssueSortKey maps an issue id onto an ordering integer (year*1000+seq).
// Returns ok=false for ids that do not parse.
func IssueSortKey(issueNo string) (int, bool) {
	year, seq, _, ok := ParseIssue(issueNo)
	if !ok {
		return 0, false
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return 0, false
	}
	return y*1000 + seq, true
}
