package main

import (
	"testing"
	"time"
)

func TestParseDrawDateVariants(t *testing.T) {
	want := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	for _, input := range []string{
		"2025-03-14",
		"14/03/2025",
		"2025/03/14",
		"2025-03-14T21:30:00+08:00",
		"2025-03-14 21:30:00",
	} {
		got, ok := parseDrawDate(input)
		if !ok {
			t.Fatalf("expected %q to parse", input)
		}
		if !got.Equal(want) {
			t.Fatalf("parseDrawDate(%q) = %v, want %v", input, got, want)
		}
	}

	if _, ok := parseDrawDate("not a date"); ok {
		t.Fatal("expected garbage not to parse")
	}
	if _, ok := parseDrawDate(""); ok {
		t.Fatal("expected empty string not to parse")
	}
}

func TestParseNumberListToleratesFullwidthComma(t *testing.T) {
	nums := parseNumberList("5，12，23，34, 45,49")
	want := []int{5, 12, 23, 34, 45, 49}
	if len(nums) != len(want) {
		t.Fatalf("got %v", nums)
	}
	for i := range want {
		if nums[i] != want[i] {
			t.Fatalf("got %v, want %v", nums, want)
		}
	}
}

func TestParseNumberListSkipsOutOfRange(t *testing.T) {
	nums := parseNumberList("0,1,49,50,abc")
	if len(nums) != 2 || nums[0] != 1 || nums[1] != 49 {
		t.Fatalf("got %v, want [1 49]", nums)
	}
}

func TestNormalizeRowJoinedNumbers(t *testing.T) {
	rec, ok := NormalizeRow(map[string]any{
		"id":   "25/031",
		"date": "2025-03-20",
		"no":   "33,2,18,45,7,21",
		"sno":  "12",
	})
	if !ok {
		t.Fatal("expected row to normalize")
	}
	if rec.IssueNo != "25/031" {
		t.Fatalf("issue = %q", rec.IssueNo)
	}
	want := []int{2, 7, 18, 21, 33, 45}
	for i := range want {
		if rec.Numbers[i] != want[i] {
			t.Fatalf("numbers = %v, want %v", rec.Numbers, want)
		}
	}
	if rec.SpecialNumber != 12 {
		t.Fatalf("special = %d", rec.SpecialNumber)
	}
}

func TestNormalizeRowSplitColumnsAndSeventhBall(t *testing.T) {
	rec, ok := NormalizeRow(map[string]any{
		"issueNo": "24/100",
		"date":    "2024-08-30",
		"n1":      float64(1), "n2": float64(2), "n3": float64(3),
		"n4": float64(4), "n5": float64(5), "n6": float64(6),
		"n7": float64(7),
	})
	if !ok {
		t.Fatal("expected row to normalize")
	}
	if rec.SpecialNumber != 7 {
		t.Fatalf("special = %d, want 7", rec.SpecialNumber)
	}

	// No explicit special key, seventh joined ball serves.
	rec, ok = NormalizeRow(map[string]any{
		"draw":   "24/101",
		"date":   "2024-09-02",
		"result": "1,2,3,4,5,6,31",
	})
	if !ok {
		t.Fatal("expected seventh-ball row to normalize")
	}
	if rec.SpecialNumber != 31 {
		t.Fatalf("special = %d, want 31", rec.SpecialNumber)
	}
}

func TestNormalizeRowRejectsIncompleteRows(t *testing.T) {
	rows := []map[string]any{
		{"date": "2025-03-20", "no": "1,2,3,4,5,6", "sno": "7"},        // no issue
		{"id": "25/031", "no": "1,2,3,4,5,6", "sno": "7"},              // no date
		{"id": "25/031", "date": "2025-03-20", "sno": "7"},             // no numbers
		{"id": "25/031", "date": "2025-03-20", "no": "1,2,3,4,5"},      // five balls, no special
		{"id": "25/031", "date": "2025-03-20", "no": "1,2,3,4,5,6", "sno": "6"}, // special collides
		{"id": "not-an-issue", "date": "2025-03-20", "no": "1,2,3,4,5,6", "sno": "7"},
	}
	for i, row := range rows {
		if _, ok := NormalizeRow(row); ok {
			t.Fatalf("row %d: expected rejection", i)
		}
	}
}

func TestValidateRecord(t *testing.T) {
	base := DrawRecord{
		IssueNo:       "25/001",
		DrawDate:      time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC),
		Numbers:       []int{2, 9, 21, 28, 34, 44},
		SpecialNumber: 25,
	}
	if err := ValidateRecord(base); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}

	dup := base
	dup.Numbers = []int{2, 2, 21, 28, 34, 44}
	if ValidateRecord(dup) == nil {
		t.Fatal("expected duplicate number rejection")
	}

	out := base
	out.Numbers = []int{2, 9, 21, 28, 34, 50}
	if ValidateRecord(out) == nil {
		t.Fatal("expected out-of-range rejection")
	}

	collide := base
	collide.SpecialNumber = 21
	if ValidateRecord(collide) == nil {
		t.Fatal("expected special collision rejection")
	}
}

func TestDedupeSortedLastOccurrenceWins(t *testing.T) {
	d1 := time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 1, 4, 12, 0, 0, 0, time.UTC)
	records := []DrawRecord{
		{IssueNo: "25/002", DrawDate: d2, Numbers: []int{1, 2, 3, 4, 5, 6}, SpecialNumber: 7},
		{IssueNo: "25/001", DrawDate: d1, Numbers: []int{1, 2, 3, 4, 5, 6}, SpecialNumber: 7},
		{IssueNo: "25/001", DrawDate: d1, Numbers: []int{11, 12, 13, 14, 15, 16}, SpecialNumber: 17},
	}

	out := dedupeSorted(records)
	if len(out) != 2 {
		t.Fatalf("got %d records, want 2", len(out))
	}
	if out[0].IssueNo != "25/001" || out[1].IssueNo != "25/002" {
		t.Fatalf("unexpected order: %s, %s", out[0].IssueNo, out[1].IssueNo)
	}
	if out[0].Numbers[0] != 11 {
		t.Fatalf("expected later duplicate to win, got %v", out[0].Numbers)
	}
}
