package main

import (
	"encoding/json"
	"fmt"
	"log"
)

// Keys under which the official payload may nest its row array when the
// payload root is an object rather than an array.
var officialRowKeys = []string{"data", "results", "rows", "items", "draws", "list"}

// ParseOfficialJSON extracts canonical records from the official payload.
// Rows failing normalization are dropped; the caller decides whether an
// empty result is fatal.
func ParseOfficialJSON(raw string) ([]DrawRecord, error) {
	var payload any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("decoding official payload: %w", err)
	}

	var rows []map[string]any
	switch p := payload.(type) {
	case []any:
		rows = objectRows(p)
	case map[string]any:
		for _, key := range officialRowKeys {
			if list, ok := p[key].([]any); ok {
				rows = objectRows(list)
				break
			}
		}
	}

	var records []DrawRecord
	dropped := 0
	for _, row := range rows {
		rec, ok := NormalizeRow(row)
		if !ok {
			dropped++
			continue
		}
		records = append(records, rec)
	}
	if dropped > 0 {
		log.Printf("official parse dropped %d invalid rows", dropped)
	}
	return dedupeSorted(records), nil
}

func objectRows(list []any) []map[string]any {
	rows := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if row, ok := item.(map[string]any); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// FetchOfficialRecords downloads and parses the official JSON feed.
func FetchOfficialRecords(url string) ([]DrawRecord, error) {
	raw, err := fetchBody(url, "application/json,text/plain,*/*")
	if err != nil {
		return nil, err
	}
	records, err := ParseOfficialJSON(raw)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("official source: %w", ErrEmptySource)
	}
	return records, nil
}
