package provider

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"stocktargets/internal/config"
)

// Screener scrapes the markets listing pages for candidate symbols.
type Screener struct {
	baseURL    string
	sections   []string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewScreener creates a screener from provider config.
func NewScreener(cfg config.ProviderConfig, logger *slog.Logger) *Screener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Screener{
		baseURL:    cfg.BaseURL,
		sections:   cfg.Sections,
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// FetchListings scrapes all configured sections and returns their rows in
// section order. A failing section is logged and skipped; an error is
// returned only when every section fails.
func (s *Screener) FetchListings(ctx context.Context) ([]Listing, error) {
	var (
		listings []Listing
		failed   int
		lastErr  error
	)

	for _, section := range s.sections {
		rows, err := s.fetchSection(ctx, section)
		if err != nil {
			s.logger.Warn("failed to fetch section", "section", section, "error", err)
			failed++
			lastErr = err
			continue
		}
		s.logger.Debug("fetched section", "section", section, "rows", len(rows))
		listings = append(listings, rows...)
	}

	if failed == len(s.sections) {
		return nil, fmt.Errorf("all %d sections failed: %w", failed, lastErr)
	}
	return listings, nil
}

// fetchSection downloads and parses one listing page.
func (s *Screener) fetchSection(ctx context.Context, section string) ([]Listing, error) {
	url := fmt.Sprintf("%s/markets/stocks/%s/", s.baseURL, section)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
		}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	rows := parseListingTable(doc)
	if len(rows) == 0 {
		return nil, fmt.Errorf("no listing rows in %s page", section)
	}
	return rows, nil
}

// parseListingTable extracts rows from the first table whose header carries
// the Symbol, Name, Price and Volume columns. Column positions come from
// the header, so reordered or extra columns do not break extraction.
func parseListingTable(doc *goquery.Document) []Listing {
	var listings []Listing

	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		cols := headerIndex(table)
		symbolIdx, ok := cols["symbol"]
		if !ok {
			return true // try next table
		}
		nameIdx, hasName := cols["name"]
		priceIdx, hasPrice := cols["price"]
		volumeIdx, hasVolume := cols["volume"]

		table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
			cells := tr.Find("td")

			symbol := strings.ToUpper(firstField(cellText(cells, symbolIdx)))
			if symbol == "" {
				return
			}

			l := Listing{Symbol: symbol}
			if hasName {
				l.Name = cellText(cells, nameIdx)
			}
			if hasPrice {
				l.PriceText = cellText(cells, priceIdx)
			}
			if hasVolume {
				l.VolumeText = cellText(cells, volumeIdx)
			}
			listings = append(listings, l)
		})
		return false // found the listing table
	})

	return listings
}

// headerIndex maps lower-cased header names to column positions.
func headerIndex(table *goquery.Selection) map[string]int {
	cols := make(map[string]int)
	table.Find("thead th").Each(func(i int, th *goquery.Selection) {
		name := strings.ToLower(strings.TrimSpace(th.Text()))
		if name != "" {
			if _, seen := cols[name]; !seen {
				cols[name] = i
			}
		}
	})
	return cols
}

func cellText(cells *goquery.Selection, idx int) string {
	return strings.TrimSpace(cells.Eq(idx).Text())
}

// firstField returns the first whitespace-separated token; symbol cells can
// carry the company name in the same cell.
func firstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
