// Package store implements persistence for stock records over PostgreSQL.
//
// The collector and the query server both go through this package; the
// yahoo_data table schema is the contract between them. Writes are
// upsert-by-symbol with full replacement of all non-key columns, so a later
// collector run never merges with stale values. Reads build conjunctive
// WHERE clauses from explicit filter structs; sort columns are validated
// against a whitelist before reaching SQL.
package store
