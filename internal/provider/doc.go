// Package provider is the Yahoo Finance boundary.
//
// Three sources feed the collector:
//   - the markets listing pages (gainers, most-active, trending-tickers),
//     scraped for candidate symbols with name, price and volume text
//   - the quote API, for an authoritative last price and numeric volume
//   - the quoteSummary financialData module, for analyst price targets
//
// Yahoo's responses are loosely shaped and partially missing per field; all
// of that handling stays inside this package. Callers receive typed records
// with nil for anything the provider could not supply.
package provider
