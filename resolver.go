package main

import (
	"fmt"
	"log"
	"strings"
)

// SourceMode selects which provider(s) an ingestion job may use. It is
// always passed in explicitly; nothing here reads ambient process state.
type SourceMode string

const (
	// SourceOfficial queries only the official JSON feed.
	SourceOfficial SourceMode = "official"
	// SourceCSV uses only the csv provider (remote URL if configured,
	// else the local file path).
	SourceCSV SourceMode = "csv"
	// SourceAuto tries official first, then falls through the third-party
	// URLs and finally the local CSV.
	SourceAuto SourceMode = "auto"
	// SourceAutoRequired is like SourceAuto except an official failure
	// propagates instead of falling through.
	SourceAutoRequired SourceMode = "auto_required"
)

func ParseSourceMode(s string) (SourceMode, error) {
	switch SourceMode(s) {
	case SourceOfficial, SourceCSV, SourceAuto, SourceAutoRequired:
		return SourceMode(s), nil
	}
	return "", fmt.Errorf("unknown source mode %q (want official|csv|auto|auto_required)", s)
}

// fetchRecordsFromURL pulls one third-party URL and picks a parser by
// shape: lottolyzer-style pages go through the HTML table walker, JSON
// bodies through the official row extractor, anything else through the
// CSV parser.
func fetchRecordsFromURL(url string, maxPages int) ([]DrawRecord, error) {
	if strings.Contains(url, "lottolyzer.com/history/hong-kong/mark-six") {
		records, err := FetchLottolyzerRecords(url, maxPages)
		if err != nil {
			return nil, err
		}
		if len(records) > 0 {
			return records, nil
		}
		return nil, fmt.Errorf("%s: %w", url, ErrEmptySource)
	}

	raw, err := fetchBody(url, "application/json,text/plain,text/csv,*/*")
	if err != nil {
		return nil, err
	}

	stripped := strings.TrimSpace(raw)
	if strings.HasPrefix(stripped, "{") || strings.HasPrefix(stripped, "[") {
		records, err := ParseOfficialJSON(raw)
		if err == nil && len(records) > 0 {
			return records, nil
		}
	}

	records, err := ParseDrawCSVText(raw)
	if err == nil && len(records) > 0 {
		return records, nil
	}
	return nil, fmt.Errorf("%s: %w", url, ErrEmptySource)
}

// ResolveRecords runs the configured fallback chain and returns canonical
// records sorted ascending by draw date, plus the provenance tag of the
// source that supplied them.
func ResolveRecords(cfg Config, mode SourceMode) ([]DrawRecord, string, error) {
	switch mode {
	case SourceOfficial:
		records, err := FetchOfficialRecords(cfg.OfficialURL)
		if err != nil {
			return nil, "", err
		}
		return records, "official_api", nil

	case SourceCSV:
		if cfg.CSVURL != "" {
			raw, err := fetchBody(cfg.CSVURL, "text/csv,text/plain,*/*")
			if err != nil {
				return nil, "", err
			}
			records, err := ParseDrawCSVText(raw)
			if err != nil {
				return nil, "", err
			}
			if len(records) == 0 {
				return nil, "", fmt.Errorf("%s: %w", cfg.CSVURL, ErrEmptySource)
			}
			return records, "remote_csv", nil
		}
		records, err := ParseDrawCSV(cfg.CSVPath)
		if err != nil {
			return nil, "", err
		}
		if len(records) == 0 {
			return nil, "", fmt.Errorf("%s: %w", cfg.CSVPath, ErrEmptySource)
		}
		return records, "local_csv", nil

	case SourceAuto, SourceAutoRequired:
		var failures []string

		if cfg.OfficialURL != "" {
			records, err := FetchOfficialRecords(cfg.OfficialURL)
			if err == nil {
				return records, "official_api", nil
			}
			if mode == SourceAutoRequired {
				return nil, "", fmt.Errorf("official source required: %w", err)
			}
			failures = append(failures, fmt.Sprintf("official: %v", err))
			log.Printf("official source failed, falling through: %v", err)
		}

		for i, url := range cfg.ThirdPartyURLs {
			records, err := fetchRecordsFromURL(url, cfg.ThirdPartyMaxPages)
			if err == nil {
				return records, fmt.Sprintf("third_party_api_%d", i+1), nil
			}
			failures = append(failures, fmt.Sprintf("third_party[%d]: %v", i+1, err))
			log.Printf("third-party source %d failed, falling through: %v", i+1, err)
		}

		if cfg.CSVPath != "" {
			records, err := ParseDrawCSV(cfg.CSVPath)
			if err == nil && len(records) > 0 {
				return records, "local_csv", nil
			}
			if err != nil {
				failures = append(failures, fmt.Sprintf("csv: %v", err))
			} else {
				failures = append(failures, fmt.Sprintf("csv: %v", ErrEmptySource))
			}
		}

		if len(failures) == 0 {
			return nil, "", fmt.Errorf("no draw source configured")
		}
		return nil, "", fmt.Errorf("all sources failed: %s", strings.Join(failures, " | "))
	}
	return nil, "", fmt.Errorf("unknown source mode %q", mode)
}
