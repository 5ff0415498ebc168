package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"stocktargets/internal/model"
	"stocktargets/internal/provider"
)

// Provider supplies candidate listings, quotes and analyst targets.
type Provider interface {
	Candidates(ctx context.Context) ([]provider.Listing, error)
	Quote(ctx context.Context, symbol string) (provider.Quote, error)
	Targets(ctx context.Context, symbol string) (provider.Targets, error)
}

// Store persists collected records.
type Store interface {
	Upsert(ctx context.Context, rec model.StockRecord) error
}

// errSkipped marks symbols dropped for expected reasons (no analyst
// coverage, no usable price) as opposed to provider or store failures.
var errSkipped = errors.New("symbol skipped")

// Config holds collection run settings.
type Config struct {
	Concurrency   int           // parallel symbol fetches
	SymbolTimeout time.Duration // per-symbol fetch budget
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Concurrency:   4,
		SymbolTimeout: 10 * time.Second,
	}
}

// Summary describes one completed run.
type Summary struct {
	RunID      uuid.UUID
	Candidates int
	Stored     int64
	Skipped    int64
	Errors     int64
	Duration   time.Duration
}

// Collector performs one-shot collection runs.
type Collector struct {
	cfg      Config
	provider Provider
	store    Store
	logger   *slog.Logger
}

// New creates a Collector.
func New(cfg Config, p Provider, s Store, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{
		cfg:      cfg,
		provider: p,
		store:    s,
		logger:   logger,
	}
}

// Run executes a single collection pass. It returns an error only when the
// candidate list itself cannot be fetched; individual symbol failures are
// counted in the summary.
func (c *Collector) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	runID := uuid.New()
	logger := c.logger.With("run_id", runID)

	listings, err := c.provider.Candidates(ctx)
	if err != nil {
		return Summary{RunID: runID}, fmt.Errorf("fetch candidates: %w", err)
	}

	candidates := dedupe(listings)
	logger.Info("collection run started",
		"listings", len(listings),
		"candidates", len(candidates),
		"concurrency", c.cfg.Concurrency,
	)

	// Semaphore for bounded concurrency.
	sem := make(chan struct{}, c.cfg.Concurrency)
	var wg sync.WaitGroup
	var stored, skipped, errorCount atomic.Int64

	for _, listing := range candidates {
		wg.Add(1)
		go func(l provider.Listing) {
			defer wg.Done()

			// Acquire semaphore slot.
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			if err := c.collectSymbol(ctx, l); err != nil {
				if errors.Is(err, errSkipped) {
					logger.Debug("skipped symbol", "symbol", l.Symbol, "reason", err)
					skipped.Add(1)
					return
				}
				logger.Warn("failed to collect symbol", "symbol", l.Symbol, "err", err)
				errorCount.Add(1)
				return
			}

			stored.Add(1)
		}(listing)
	}

	wg.Wait()

	summary := Summary{
		RunID:      runID,
		Candidates: len(candidates),
		Stored:     stored.Load(),
		Skipped:    skipped.Load(),
		Errors:     errorCount.Load(),
		Duration:   time.Since(start),
	}

	logger.Info("collection run complete",
		"candidates", summary.Candidates,
		"stored", summary.Stored,
		"skipped", summary.Skipped,
		"errors", summary.Errors,
		"duration", summary.Duration,
	)

	return summary, nil
}

// collectSymbol fetches, computes and upserts a single record.
func (c *Collector) collectSymbol(ctx context.Context, l provider.Listing) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.SymbolTimeout)
	defer cancel()

	rec, err := c.buildRecord(ctx, l)
	if err != nil {
		return err
	}

	if err := c.store.Upsert(ctx, *rec); err != nil {
		return fmt.Errorf("store record: %w", err)
	}
	return nil
}

// buildRecord assembles the full row for one listing. The quote API is
// preferred for price and volume; the scraped listing text is the fallback.
// Targets are mandatory: no analyst coverage means no row.
func (c *Collector) buildRecord(ctx context.Context, l provider.Listing) (*model.StockRecord, error) {
	targets, err := c.provider.Targets(ctx, l.Symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch targets: %w", err)
	}
	if targets.Empty() {
		return nil, fmt.Errorf("%w: no analyst targets", errSkipped)
	}

	lastPrice := priceFallback(nil, l.PriceText)
	volume := volumeFallback(nil, l.VolumeText)

	quote, err := c.provider.Quote(ctx, l.Symbol)
	if err != nil {
		// The scraped listing still carries a usable price; degrade
		// rather than drop the symbol.
		c.logger.Debug("quote fetch failed, using listing text", "symbol", l.Symbol, "err", err)
	} else {
		lastPrice = priceFallback(quote.LastPrice, l.PriceText)
		volume = volumeFallback(quote.Volume, l.VolumeText)
	}

	if lastPrice == nil && volume == nil {
		return nil, fmt.Errorf("%w: no usable price or volume", errSkipped)
	}

	return &model.StockRecord{
		Symbol:            l.Symbol,
		Name:              l.Name,
		LastPrice:         lastPrice,
		TargetPriceLow:    targets.Low,
		DifferenceLow:     model.Difference(targets.Low, lastPrice),
		TargetPriceMedian: targets.Median,
		DifferenceMedian:  model.Difference(targets.Median, lastPrice),
		TargetPriceHigh:   targets.High,
		DifferenceHigh:    model.Difference(targets.High, lastPrice),
		VolumeNumeric:     volume,
		VolumeStr:         l.VolumeText,
	}, nil
}

// priceFallback prefers the quote value, falling back to listing text.
func priceFallback(quoted *float64, text string) *float64 {
	if quoted != nil {
		return quoted
	}
	return provider.ParsePrice(text)
}

// volumeFallback prefers the quote value, falling back to listing text.
func volumeFallback(quoted *int64, text string) *int64 {
	if quoted != nil {
		return quoted
	}
	return provider.ParseVolume(text)
}

// dedupe drops repeated symbols, keeping the first occurrence. The listing
// sections overlap heavily (a big gainer is usually also most-active).
func dedupe(listings []provider.Listing) []provider.Listing {
	seen := make(map[string]struct{}, len(listings))
	out := make([]provider.Listing, 0, len(listings))
	for _, l := range listings {
		if _, ok := seen[l.Symbol]; ok {
			continue
		}
		seen[l.Symbol] = struct{}{}
		out = append(out, l)
	}
	return out
}
