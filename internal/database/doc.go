// Package database provides PostgreSQL connection pool management and the
// yahoo_data schema.
//
// Both binaries share one table; the collector writes it, the query server
// reads it. Connection pooling follows standard pgxpool discipline: acquire
// per operation, release on completion.
package database
