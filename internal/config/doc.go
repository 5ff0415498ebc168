// Package config loads and validates YAML configuration for the collector
// and the query server.
//
// Config files may reference environment variables with ${VAR} syntax;
// they are expanded before parsing so secrets such as the database password
// never need to live in the file itself.
package config
