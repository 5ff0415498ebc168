package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL       = "https://finance.yahoo.com"
	DefaultQueryURL      = "https://query1.finance.yahoo.com"
	DefaultUserAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultTimeout       = 15 * time.Second
	DefaultMaxRetries    = 3
	DefaultDBPort        = 5432
	DefaultDBSSLMode     = "prefer"
	DefaultMaxConns      = 10
	DefaultMinConns      = 2
	DefaultConcurrency   = 4
	DefaultSymbolTimeout = 10 * time.Second
	DefaultServerHost    = "0.0.0.0"
	DefaultServerPort    = 8000
)

// DefaultSections are the listing views scraped for candidate symbols.
var DefaultSections = []string{"gainers", "most-active", "trending-tickers"}

func (c *Config) applyDefaults() {
	// Provider defaults
	if c.Provider.BaseURL == "" {
		c.Provider.BaseURL = DefaultBaseURL
	}
	if c.Provider.QueryURL == "" {
		c.Provider.QueryURL = DefaultQueryURL
	}
	if c.Provider.UserAgent == "" {
		c.Provider.UserAgent = DefaultUserAgent
	}
	if len(c.Provider.Sections) == 0 {
		c.Provider.Sections = append([]string(nil), DefaultSections...)
	}
	if c.Provider.Timeout == 0 {
		c.Provider.Timeout = DefaultTimeout
	}
	if c.Provider.MaxRetries == 0 {
		c.Provider.MaxRetries = DefaultMaxRetries
	}

	// Database defaults
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}

	// Collector defaults
	if c.Collector.Concurrency == 0 {
		c.Collector.Concurrency = DefaultConcurrency
	}
	if c.Collector.SymbolTimeout == 0 {
		c.Collector.SymbolTimeout = DefaultSymbolTimeout
	}

	// Server defaults
	if c.Server.Host == "" {
		c.Server.Host = DefaultServerHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultServerPort
	}
}
