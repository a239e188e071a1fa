package main

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	issuePattern   = regexp.MustCompile(`^\d{2}/\d{3}$`)
	pagePathRe     = regexp.MustCompile(`/page/\d+/`)
	pagerCounterRe = regexp.MustCompile(`\b\d+\s*/\s*(\d+)\b`)
)

// ParseLottolyzerHTML walks the summary-view result table: one row per
// draw with issue id, date, the six numbers comma-joined and the extra
// number. Rows that do not fit are skipped.
func ParseLottolyzerHTML(raw string) ([]DrawRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing result page: %w", err)
	}

	var records []DrawRecord
	doc.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(td.Text()))
		})
		if len(cells) < 4 {
			return
		}
		if !issuePattern.MatchString(cells[0]) {
			return
		}
		drawDate, ok := parseDrawDate(cells[1])
		if !ok {
			return
		}
		numbers := parseNumberList(cells[2])
		special, err := strconv.Atoi(cells[3])
		if err != nil || len(numbers) != DrawSize {
			return
		}
		rec := DrawRecord{
			IssueNo:       cells[0],
			DrawDate:      drawDate,
			Numbers:       canonicalNumbers(numbers),
			SpecialNumber: special,
		}
		if ValidateRecord(rec) == nil {
			records = append(records, rec)
		}
	})
	return dedupeSorted(records), nil
}

// lottolyzerTotalPages reads the "N / M" pager counter off the page.
// Unparseable pagers mean a single page.
func lottolyzerTotalPages(raw string) int {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return 1
	}
	best := 1
	for _, m := range pagerCounterRe.FindAllStringSubmatch(doc.Text(), -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > best && n <= 300 {
			best = n
		}
	}
	return best
}

func lottolyzerPageURL(baseURL string, pageNo int) string {
	if pagePathRe.MatchString(baseURL) {
		return pagePathRe.ReplaceAllString(baseURL, fmt.Sprintf("/page/%d/", pageNo))
	}
	if strings.HasSuffix(baseURL, "/") {
		return fmt.Sprintf("%spage/%d/", baseURL, pageNo)
	}
	return fmt.Sprintf("%s/page/%d/", baseURL, pageNo)
}

// FetchLottolyzerRecords walks the paginated history table, newest page
// first, up to maxPages. A page fetch failure after the first page stops
// pagination but keeps what was already collected.
func FetchLottolyzerRecords(baseURL string, maxPages int) ([]DrawRecord, error) {
	firstHTML, err := fetchBody(baseURL, "text/html,*/*")
	if err != nil {
		return nil, err
	}

	totalPages := lottolyzerTotalPages(firstHTML)
	if maxPages < 1 {
		maxPages = 1
	}
	if totalPages > maxPages {
		totalPages = maxPages
	}

	all, err := ParseLottolyzerHTML(firstHTML)
	if err != nil {
		return nil, err
	}

	for pageNo := 2; pageNo <= totalPages; pageNo++ {
		pageURL := lottolyzerPageURL(baseURL, pageNo)
		html, err := fetchBody(pageURL, "text/html,*/*")
		if err != nil {
			log.Printf("lottolyzer page %d fetch failed, stopping pagination: %v", pageNo, err)
			break
		}
		pageRecords, err := ParseLottolyzerHTML(html)
		if err != nil {
			log.Printf("lottolyzer page %d parse failed, stopping pagination: %v", pageNo, err)
			break
		}
		all = append(all, pageRecords...)
	}
	return dedupeSorted(all), nil
}
