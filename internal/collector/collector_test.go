package collector

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"stocktargets/internal/model"
	"stocktargets/internal/provider"
)

func f64(v float64) *float64 { return &v }

// fakeProvider serves canned listings, quotes and targets.
type fakeProvider struct {
	listings    []provider.Listing
	listingsErr error
	quotes      map[string]provider.Quote
	quoteErrs   map[string]error
	targets     map[string]provider.Targets
	targetErrs  map[string]error
}

func (f *fakeProvider) Candidates(ctx context.Context) ([]provider.Listing, error) {
	return f.listings, f.listingsErr
}

func (f *fakeProvider) Quote(ctx context.Context, symbol string) (provider.Quote, error) {
	if err := f.quoteErrs[symbol]; err != nil {
		return provider.Quote{}, err
	}
	return f.quotes[symbol], nil
}

func (f *fakeProvider) Targets(ctx context.Context, symbol string) (provider.Targets, error) {
	if err := f.targetErrs[symbol]; err != nil {
		return provider.Targets{}, err
	}
	return f.targets[symbol], nil
}

// memStore is a concurrency-safe in-memory Store.
type memStore struct {
	mu      sync.Mutex
	rows    map[string]model.StockRecord
	upserts int
	failAll bool
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[string]model.StockRecord)}
}

func (m *memStore) Upsert(ctx context.Context, rec model.StockRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return errors.New("store unavailable")
	}
	m.upserts++
	m.rows[rec.Symbol] = rec
	return nil
}

func testConfig() Config {
	return Config{Concurrency: 2, SymbolTimeout: time.Second}
}

func TestRunStoresRecords(t *testing.T) {
	p := &fakeProvider{
		listings: []provider.Listing{
			{Symbol: "AAPL", Name: "Apple Inc.", PriceText: "150.00", VolumeText: "45.3M"},
		},
		quotes: map[string]provider.Quote{
			"AAPL": {LastPrice: f64(150), Volume: i64(45300000)},
		},
		targets: map[string]provider.Targets{
			"AAPL": {Low: f64(120), Median: f64(180), High: f64(210)},
		},
	}
	st := newMemStore()

	summary, err := New(testConfig(), p, st, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Stored != 1 {
		t.Errorf("Stored = %d, want 1", summary.Stored)
	}

	rec, ok := st.rows["AAPL"]
	if !ok {
		t.Fatal("AAPL not stored")
	}
	if rec.Name != "Apple Inc." {
		t.Errorf("Name = %q, want Apple Inc.", rec.Name)
	}
	if rec.LastPrice == nil || *rec.LastPrice != 150 {
		t.Errorf("LastPrice = %v, want 150", rec.LastPrice)
	}
	if rec.VolumeNumeric == nil || *rec.VolumeNumeric != 45300000 {
		t.Errorf("VolumeNumeric = %v, want 45300000", rec.VolumeNumeric)
	}
	if rec.VolumeStr != "45.3M" {
		t.Errorf("VolumeStr = %q, want 45.3M", rec.VolumeStr)
	}

	// (120-150)/150*100 = -20, (180-150)/150*100 = 20, (210-150)/150*100 = 40
	wantDiff := map[string]struct {
		got  *float64
		want float64
	}{
		"low":    {rec.DifferenceLow, -20},
		"median": {rec.DifferenceMedian, 20},
		"high":   {rec.DifferenceHigh, 40},
	}
	for name, d := range wantDiff {
		if d.got == nil {
			t.Errorf("difference %s = nil, want %v", name, d.want)
			continue
		}
		if math.Abs(*d.got-d.want) > 1e-9 {
			t.Errorf("difference %s = %v, want %v", name, *d.got, d.want)
		}
	}
}

func TestRunDeduplicatesAcrossSections(t *testing.T) {
	p := &fakeProvider{
		listings: []provider.Listing{
			{Symbol: "NVDA", Name: "from gainers", PriceText: "130.00", VolumeText: "200M"},
			{Symbol: "TSLA", Name: "Tesla, Inc.", PriceText: "250.00", VolumeText: "90M"},
			{Symbol: "NVDA", Name: "from most-active", PriceText: "131.00", VolumeText: "201M"},
		},
		targets: map[string]provider.Targets{
			"NVDA": {Low: f64(100)},
			"TSLA": {Low: f64(200)},
		},
	}
	st := newMemStore()

	summary, err := New(testConfig(), p, st, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Candidates != 2 {
		t.Errorf("Candidates = %d, want 2 after dedup", summary.Candidates)
	}
	if st.upserts != 2 {
		t.Errorf("upserts = %d, want 2", st.upserts)
	}
	// First occurrence wins.
	if st.rows["NVDA"].Name != "from gainers" {
		t.Errorf("NVDA name = %q, want %q", st.rows["NVDA"].Name, "from gainers")
	}
}

func TestRunSkipsSymbolWithoutTargets(t *testing.T) {
	p := &fakeProvider{
		listings: []provider.Listing{
			{Symbol: "AAPL", PriceText: "150.00", VolumeText: "45M"},
			{Symbol: "NOCOV", PriceText: "10.00", VolumeText: "1M"},
		},
		targets: map[string]provider.Targets{
			"AAPL": {Low: f64(120)},
			// NOCOV has no analyst coverage: empty targets.
		},
	}
	st := newMemStore()

	summary, err := New(testConfig(), p, st, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Stored != 1 {
		t.Errorf("Stored = %d, want 1", summary.Stored)
	}
	if summary.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", summary.Skipped)
	}
	if _, ok := st.rows["NOCOV"]; ok {
		t.Error("NOCOV stored despite missing targets")
	}
}

func TestRunContinuesPastProviderErrors(t *testing.T) {
	p := &fakeProvider{
		listings: []provider.Listing{
			{Symbol: "BAD", PriceText: "10.00", VolumeText: "1M"},
			{Symbol: "GOOD", PriceText: "20.00", VolumeText: "2M"},
		},
		targets: map[string]provider.Targets{
			"GOOD": {Low: f64(30)},
		},
		targetErrs: map[string]error{
			"BAD": errors.New("provider unavailable"),
		},
	}
	st := newMemStore()

	summary, err := New(testConfig(), p, st, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v, provider failures must not abort the run", err)
	}
	if summary.Errors != 1 {
		t.Errorf("Errors = %d, want 1", summary.Errors)
	}
	if summary.Stored != 1 {
		t.Errorf("Stored = %d, want 1", summary.Stored)
	}
}

func TestRunFailsWhenCandidatesUnavailable(t *testing.T) {
	p := &fakeProvider{listingsErr: errors.New("all sections failed")}

	_, err := New(testConfig(), p, newMemStore(), nil).Run(context.Background())
	if err == nil {
		t.Fatal("Run() expected error when candidates cannot be fetched")
	}
}

func TestRunZeroPriceYieldsNullDifferences(t *testing.T) {
	p := &fakeProvider{
		listings: []provider.Listing{
			{Symbol: "ZERO", PriceText: "0.00", VolumeText: "5M"},
		},
		targets: map[string]provider.Targets{
			"ZERO": {Low: f64(10), Median: f64(12), High: f64(15)},
		},
	}
	st := newMemStore()

	if _, err := New(testConfig(), p, st, nil).Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	rec, ok := st.rows["ZERO"]
	if !ok {
		t.Fatal("ZERO not stored")
	}
	if rec.DifferenceLow != nil || rec.DifferenceMedian != nil || rec.DifferenceHigh != nil {
		t.Errorf("differences = (%v, %v, %v), want all nil for zero price",
			rec.DifferenceLow, rec.DifferenceMedian, rec.DifferenceHigh)
	}
	if rec.TargetPriceLow == nil || *rec.TargetPriceLow != 10 {
		t.Errorf("TargetPriceLow = %v, want 10 (targets kept even without differences)", rec.TargetPriceLow)
	}
}

func TestRunQuoteFailureFallsBackToListingText(t *testing.T) {
	p := &fakeProvider{
		listings: []provider.Listing{
			{Symbol: "FALL", PriceText: "99.50 +1.00 (+1.02%)", VolumeText: "3.5M"},
		},
		quoteErrs: map[string]error{
			"FALL": errors.New("quote api down"),
		},
		targets: map[string]provider.Targets{
			"FALL": {Low: f64(120)},
		},
	}
	st := newMemStore()

	if _, err := New(testConfig(), p, st, nil).Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	rec := st.rows["FALL"]
	if rec.LastPrice == nil || *rec.LastPrice != 99.5 {
		t.Errorf("LastPrice = %v, want 99.5 parsed from listing text", rec.LastPrice)
	}
	if rec.VolumeNumeric == nil || *rec.VolumeNumeric != 3500000 {
		t.Errorf("VolumeNumeric = %v, want 3500000", rec.VolumeNumeric)
	}
}

func TestRunUpsertTwiceKeepsSecondValues(t *testing.T) {
	st := newMemStore()

	first := &fakeProvider{
		listings: []provider.Listing{{Symbol: "AAPL", PriceText: "150.00", VolumeText: "40M"}},
		targets:  map[string]provider.Targets{"AAPL": {Low: f64(120), Median: f64(180)}},
	}
	second := &fakeProvider{
		listings: []provider.Listing{{Symbol: "AAPL", PriceText: "160.00", VolumeText: "50M"}},
		targets:  map[string]provider.Targets{"AAPL": {Low: f64(130)}},
	}

	for _, p := range []*fakeProvider{first, second} {
		if _, err := New(testConfig(), p, st, nil).Run(context.Background()); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	}

	if len(st.rows) != 1 {
		t.Fatalf("rows = %d, want exactly 1 for repeated symbol", len(st.rows))
	}
	rec := st.rows["AAPL"]
	if rec.LastPrice == nil || *rec.LastPrice != 160 {
		t.Errorf("LastPrice = %v, want 160 from second run", rec.LastPrice)
	}
	// Full replace: the median target from the first run must be gone.
	if rec.TargetPriceMedian != nil {
		t.Errorf("TargetPriceMedian = %v, want nil after full replace", rec.TargetPriceMedian)
	}
	if rec.DifferenceMedian != nil {
		t.Errorf("DifferenceMedian = %v, want nil after full replace", rec.DifferenceMedian)
	}
}

func TestRunCountsStoreErrors(t *testing.T) {
	p := &fakeProvider{
		listings: []provider.Listing{{Symbol: "AAPL", PriceText: "150.00", VolumeText: "40M"}},
		targets:  map[string]provider.Targets{"AAPL": {Low: f64(120)}},
	}
	st := newMemStore()
	st.failAll = true

	summary, err := New(testConfig(), p, st, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Errors != 1 {
		t.Errorf("Errors = %d, want 1", summary.Errors)
	}
	if summary.Stored != 0 {
		t.Errorf("Stored = %d, want 0", summary.Stored)
	}
}

func i64(v int64) *int64 { return &v }
