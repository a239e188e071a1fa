package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Header spellings per slot. Upstream CSVs come in Simplified Chinese,
// Traditional Chinese and English variants.
var (
	csvIssueHeaders   = []string{"期号", "期數", "issueNo", "issue_no"}
	csvDateHeaders    = []string{"日期", "date", "drawDate", "draw_date"}
	csvNumbersHeaders = []string{"中奖号码", "中獎號碼", "numbers", "result"}
	csvSpecialHeaders = []string{"特别号码", "特別號碼", "special", "specialNumber", "no7", "n7"}
)

// The six discrete number columns used when the sheet does not join them.
var csvSplitHeaders = [DrawSize][]string{
	{"中奖号码 1", "中獎號碼 1", "1"}, {"2"}, {"3"}, {"4"}, {"5"}, {"6"},
}

func pickField(row map[string]string, keys []string) string {
	for _, k := range keys {
		if v, ok := row[k]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// ParseDrawCSVText parses delimited text with a header row. Each row is
// normalized independently; invalid rows are dropped without failing the
// whole parse.
func ParseDrawCSVText(text string) ([]DrawRecord, error) {
	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(text, "\uFEFF")))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\uFEFF"))
	}

	var records []DrawRecord
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A malformed line is a row-level problem, not a fatal one.
			continue
		}
		row := make(map[string]string, len(header))
		for i, name := range header {
			if name == "" || i >= len(fields) {
				continue
			}
			if _, taken := row[name]; taken {
				continue // duplicated header (the stats sheets repeat zone columns)
			}
			row[name] = strings.TrimSpace(fields[i])
		}
		if rec, ok := normalizeCSVRow(row); ok {
			records = append(records, rec)
		}
	}
	return dedupeSorted(records), nil
}

func normalizeCSVRow(row map[string]string) (DrawRecord, bool) {
	issueNo := pickField(row, csvIssueHeaders)
	drawDate, dateOK := parseDrawDate(pickField(row, csvDateHeaders))

	numbers := parseNumberList(pickField(row, csvNumbersHeaders))
	if len(numbers) != DrawSize {
		numbers = splitColumnNumbers(row)
	}

	special, err := strconv.Atoi(pickField(row, csvSpecialHeaders))
	if err != nil {
		return DrawRecord{}, false
	}
	if issueNo == "" || !dateOK || len(numbers) != DrawSize {
		return DrawRecord{}, false
	}

	rec := DrawRecord{
		IssueNo:       issueNo,
		DrawDate:      drawDate,
		Numbers:       canonicalNumbers(numbers),
		SpecialNumber: special,
	}
	if ValidateRecord(rec) != nil {
		return DrawRecord{}, false
	}
	return rec, true
}

func splitColumnNumbers(row map[string]string) []int {
	var nums []int
	for _, keys := range csvSplitHeaders {
		value := pickField(row, keys)
		if value == "" {
			return nil
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > NumberMax {
			return nil
		}
		nums = append(nums, n)
	}
	return nums
}

// ParseDrawCSV reads records from a local CSV file.
func ParseDrawCSV(path string) ([]DrawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading csv %s: %w", path, err)
	}
	return ParseDrawCSVText(string(data))
}
