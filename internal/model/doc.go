// Package model defines the shared data types for the stock target pipeline.
//
// The central type is StockRecord, one row of the yahoo_data table. The
// collector produces records, the query service reads them; the table is the
// only contract between the two.
//
// Conventions:
//   - Prices and differences: float64, pointers where NULL is meaningful
//   - Differences: percent, rounded to two decimal places
//   - Symbols: upper-case ticker strings
package model
