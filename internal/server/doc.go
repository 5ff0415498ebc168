// Package server implements the HTTP query service.
//
// All endpoints are read-only and stateless; every request goes straight to
// the store. Query parameters are validated before any database work, and
// validation failures return 400 without touching the store.
package server
