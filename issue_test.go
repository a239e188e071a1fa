package main

import "testing"

func TestParseIssue(t *testing.T) {
	year, seq, width, ok := ParseIssue("25/049")
	if !ok {
		t.Fatal("expected 25/049 to parse")
	}
	if year != "25" || seq != 49 || width != 3 {
		t.Fatalf("unexpected parse: year=%q seq=%d width=%d", year, seq, width)
	}

	for _, bad := range []string{"", "25049", "25/", "/049", "ab/049", "25/0a9", "25/049/1"} {
		if _, _, _, ok := ParseIssue(bad); ok {
			t.Fatalf("expected %q not to parse", bad)
		}
	}
}

func TestNextIssueIncrementsAndPads(t *testing.T) {
	if got := NextIssue("25/049"); got != "25/050" {
		t.Fatalf("NextIssue(25/049) = %q", got)
	}
	if got := NextIssue("25/009"); got != "25/010" {
		t.Fatalf("NextIssue(25/009) = %q", got)
	}
	if got := NextIssue("25/99"); got != "25/100" {
		t.Fatalf("NextIssue(25/99) = %q", got)
	}
}

func TestNextIssueLeavesUnparseableInputAlone(t *testing.T) {
	if got := NextIssue("abc"); got != "abc" {
		t.Fatalf("NextIssue(abc) = %q", got)
	}
	if got := NextIssue(""); got != "" {
		t.Fatalf("NextIssue(\"\") = %q", got)
	}
}

func TestIssueSortKeyOrdersAcrossYears(t *testing.T) {
	a, ok := IssueSortKey("24/120")
	if !ok {
		t.Fatal("expected 24/120 to produce a key")
	}
	b, ok := IssueSortKey("25/001")
	if !ok {
		t.Fatal("expected 25/001 to produce a key")
	}
	if a >= b {
		t.Fatalf("expected 24/120 (%d) to sort before 25/001 (%d)", a, b)
	}
	if _, ok := IssueSortKey("bogus"); ok {
		t.Fatal("expected bogus issue to yield no key")
	}
}
