package provider

import (
	"context"
	"fmt"
	"log/slog"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/quote"

	"stocktargets/internal/config"
)

// quoteFunc matches quote.Get; injectable so tests run without network.
type quoteFunc func(symbol string) (*finance.Quote, error)

// Yahoo bundles the screener, quote API and targets client behind one
// provider value.
type Yahoo struct {
	screener *Screener
	targets  *TargetsClient
	getQuote quoteFunc
}

// NewYahoo creates the full Yahoo Finance provider.
func NewYahoo(cfg config.ProviderConfig, logger *slog.Logger) *Yahoo {
	return &Yahoo{
		screener: NewScreener(cfg, logger),
		targets:  NewTargetsClient(cfg, WithLogger(logger)),
		getQuote: quote.Get,
	}
}

// Candidates scrapes the configured listing sections.
func (y *Yahoo) Candidates(ctx context.Context) ([]Listing, error) {
	return y.screener.FetchListings(ctx)
}

// Quote fetches the last traded price and volume for a symbol. Fields the
// quote API does not report come back nil; the collector falls back to the
// scraped listing text in that case.
func (y *Yahoo) Quote(ctx context.Context, symbol string) (Quote, error) {
	q, err := y.getQuote(symbol)
	if err != nil {
		return Quote{}, fmt.Errorf("get quote %s: %w", symbol, err)
	}
	if q == nil {
		return Quote{}, nil
	}

	var res Quote
	if q.RegularMarketPrice > 0 {
		p := q.RegularMarketPrice
		res.LastPrice = &p
	}
	if q.RegularMarketVolume > 0 {
		v := int64(q.RegularMarketVolume)
		res.Volume = &v
	}
	return res, nil
}

// Targets fetches analyst price targets for a symbol.
func (y *Yahoo) Targets(ctx context.Context, symbol string) (Targets, error) {
	return y.targets.GetTargets(ctx, symbol)
}
