// Package collector implements the batch collection run.
//
// One run:
//   - Pulls candidate listings from the provider and deduplicates symbols
//     across sections (first occurrence wins)
//   - Fetches quote and analyst targets per symbol with bounded concurrency
//   - Computes target price differences
//   - Upserts one full row per symbol
//
// Per-symbol provider failures are logged and skipped; a run only fails
// outright when no candidates can be fetched at all. Overlapping runs are
// harmless: upserts are last-write-wins per symbol.
package collector
