package main

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const officialFixture = `[
	{"id": "25/001", "date": "2025-01-02", "no": "2,9,21,28,34,44", "sno": "25"},
	{"id": "25/002", "date": "2025-01-04", "no": "5,11,19,30,38,46", "sno": "9"},
	{"id": "bogus", "date": "2025-01-05", "no": "1,2,3,4,5,6", "sno": "7"}
]`

func TestParseOfficialJSONRootArray(t *testing.T) {
	records, err := ParseOfficialJSON(officialFixture)
	if err != nil {
		t.Fatalf("ParseOfficialJSON failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (bogus row dropped)", len(records))
	}
	if records[0].IssueNo != "25/001" {
		t.Fatalf("first issue = %q", records[0].IssueNo)
	}
}

func TestParseOfficialJSONNestedRows(t *testing.T) {
	for _, key := range []string{"data", "results", "draws"} {
		raw := `{"` + key + `": [{"id": "25/003", "date": "2025-01-07", "no": "1,12,23,34,45,49", "sno": "7"}]}`
		records, err := ParseOfficialJSON(raw)
		if err != nil {
			t.Fatalf("key %s: %v", key, err)
		}
		if len(records) != 1 {
			t.Fatalf("key %s: got %d records, want 1", key, len(records))
		}
	}
}

func TestParseOfficialJSONRejectsGarbage(t *testing.T) {
	if _, err := ParseOfficialJSON("not json at all"); err == nil {
		t.Fatal("expected decode error")
	}
	records, err := ParseOfficialJSON(`{"unrelated": true}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("got %d records, want 0", len(records))
	}
}

func TestFetchOfficialRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(officialFixture))
	}))
	defer srv.Close()

	records, err := FetchOfficialRecords(srv.URL)
	if err != nil {
		t.Fatalf("FetchOfficialRecords failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
}

func TestFetchOfficialRecordsEmptyPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := FetchOfficialRecords(srv.URL)
	if !errors.Is(err, ErrEmptySource) {
		t.Fatalf("expected ErrEmptySource, got %v", err)
	}
}

func TestFetchOfficialRecordsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := FetchOfficialRecords(srv.URL)
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}
