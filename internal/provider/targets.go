package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"stocktargets/internal/config"
)

// TargetsClient fetches analyst price targets from the Yahoo quoteSummary
// API. The API requires a session cookie plus a "crumb" token, both obtained
// lazily on first use and refreshed when Yahoo rejects them.
type TargetsClient struct {
	baseURL    string // finance.yahoo.com, for the cookie handshake
	queryURL   string // query1.finance.yahoo.com
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger

	maxRetries   int
	retryBackoff time.Duration

	mu    sync.Mutex
	crumb string
}

// TargetsOption configures a TargetsClient.
type TargetsOption func(*TargetsClient)

// NewTargetsClient creates a quoteSummary client.
func NewTargetsClient(cfg config.ProviderConfig, opts ...TargetsOption) *TargetsClient {
	jar, _ := cookiejar.New(nil)
	c := &TargetsClient{
		baseURL:   cfg.BaseURL,
		queryURL:  cfg.QueryURL,
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: cfg.Timeout,
		},
		logger:       slog.Default(),
		maxRetries:   cfg.MaxRetries,
		retryBackoff: time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) TargetsOption {
	return func(c *TargetsClient) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) TargetsOption {
	return func(c *TargetsClient) {
		c.httpClient = hc
	}
}

// WithRetries sets the retry configuration.
func WithRetries(max int, backoff time.Duration) TargetsOption {
	return func(c *TargetsClient) {
		c.maxRetries = max
		c.retryBackoff = backoff
	}
}

// rawValue is Yahoo's {"raw": 260.1, "fmt": "260.10"} number wrapper.
// Raw stays nil when the field is absent or empty ({}).
type rawValue struct {
	Raw *float64 `json:"raw"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			FinancialData struct {
				TargetLowPrice    rawValue `json:"targetLowPrice"`
				TargetMedianPrice rawValue `json:"targetMedianPrice"`
				TargetMeanPrice   rawValue `json:"targetMeanPrice"`
				TargetHighPrice   rawValue `json:"targetHighPrice"`
			} `json:"financialData"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// GetTargets fetches analyst price targets for one symbol. A symbol with no
// analyst coverage returns empty Targets and no error.
func (c *TargetsClient) GetTargets(ctx context.Context, symbol string) (Targets, error) {
	crumb, err := c.ensureCrumb(ctx)
	if err != nil {
		return Targets{}, fmt.Errorf("obtain crumb: %w", err)
	}

	body, err := c.fetchSummary(ctx, symbol, crumb)
	if apiErr, ok := err.(*APIError); ok && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden) {
		// Crumb expired; refresh once and retry.
		c.invalidateCrumb()
		crumb, err = c.ensureCrumb(ctx)
		if err != nil {
			return Targets{}, fmt.Errorf("refresh crumb: %w", err)
		}
		body, err = c.fetchSummary(ctx, symbol, crumb)
	}
	if err != nil {
		return Targets{}, err
	}

	var resp quoteSummaryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Targets{}, fmt.Errorf("unmarshal quoteSummary: %w", err)
	}
	if e := resp.QuoteSummary.Error; e != nil {
		return Targets{}, fmt.Errorf("quoteSummary error for %s: %s (%s)", symbol, e.Description, e.Code)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return Targets{}, nil
	}

	fd := resp.QuoteSummary.Result[0].FinancialData
	return Targets{
		Low:    fd.TargetLowPrice.Raw,
		Median: fd.TargetMedianPrice.Raw,
		Mean:   fd.TargetMeanPrice.Raw,
		High:   fd.TargetHighPrice.Raw,
	}, nil
}

func (c *TargetsClient) fetchSummary(ctx context.Context, symbol, crumb string) ([]byte, error) {
	query := url.Values{}
	query.Set("modules", "financialData")
	query.Set("crumb", crumb)

	path := "/v10/finance/quoteSummary/" + url.PathEscape(symbol)
	return c.doWithRetry(ctx, path, query)
}

// ensureCrumb returns a cached crumb or performs the cookie handshake:
// visit the finance home page to pick up session cookies, then request the
// crumb token with those cookies attached.
func (c *TargetsClient) ensureCrumb(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.crumb != "" {
		return c.crumb, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return "", fmt.Errorf("create cookie request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch cookies: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	req, err = http.NewRequestWithContext(ctx, http.MethodGet, c.queryURL+"/v1/test/getcrumb", nil)
	if err != nil {
		return "", fmt.Errorf("create crumb request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Origin", c.baseURL)
	req.Header.Set("Referer", c.baseURL+"/")

	resp, err = c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch crumb: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read crumb: %w", err)
	}

	crumb := strings.TrimSpace(string(body))
	if resp.StatusCode != http.StatusOK || crumb == "" || strings.Contains(crumb, "html") {
		return "", fmt.Errorf("no valid crumb (status %d)", resp.StatusCode)
	}

	c.crumb = crumb
	c.logger.Debug("obtained quoteSummary crumb")
	return crumb, nil
}

func (c *TargetsClient) invalidateCrumb() {
	c.mu.Lock()
	c.crumb = ""
	c.mu.Unlock()
}

// doRequest performs a GET against the query host.
func (c *TargetsClient) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	fullURL := c.queryURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       body,
		}
	}

	return body, nil
}

// doWithRetry performs a request with jittered exponential backoff.
func (c *TargetsClient) doWithRetry(ctx context.Context, path string, query url.Values) ([]byte, error) {
	var lastErr error
	backoff := c.retryBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Add jitter: backoff * (0.5 to 1.5)
			jitter := backoff/2 + time.Duration(rand.Int63n(int64(backoff)))
			c.logger.Debug("retrying request",
				"attempt", attempt,
				"backoff", jitter,
				"path", path,
			)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(jitter):
			}

			backoff *= 2
		}

		body, err := c.doRequest(ctx, path, query)
		if err == nil {
			return body, nil
		}

		lastErr = err

		// Check if error is retryable
		apiErr, ok := err.(*APIError)
		if !ok || !apiErr.IsRetryable() {
			return nil, err
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}
