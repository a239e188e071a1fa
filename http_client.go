package main

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const externalHTTPTimeout = 30 * time.Second

var externalHTTPClient = &http.Client{
	Timeout: externalHTTPTimeout,
}

// fetchBody GETs url and returns the body with any UTF-8 BOM stripped.
// Transport errors and non-2xx statuses both map to ErrProviderUnavailable.
func fetchBody(url, accept string) (string, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; marksix/1.0)")
	req.Header.Set("Accept", accept)

	resp, err := externalHTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrProviderUnavailable, url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", ErrProviderUnavailable, url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s returned %d", ErrProviderUnavailable, url, resp.StatusCode)
	}
	return strings.TrimPrefix(string(body), "\uFEFF"), nil
}
