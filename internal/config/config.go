package config

import "time"

// Config is the root configuration shared by the collector and the server.
type Config struct {
	Instance  InstanceConfig  `yaml:"instance"`
	Provider  ProviderConfig  `yaml:"provider"`
	Database  DBConfig        `yaml:"database"`
	Collector CollectorConfig `yaml:"collector"`
	Server    ServerConfig    `yaml:"server"`
}

// InstanceConfig identifies this deployment.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// ProviderConfig holds Yahoo Finance access settings.
type ProviderConfig struct {
	BaseURL    string        `yaml:"base_url"`  // markets listing pages
	QueryURL   string        `yaml:"query_url"` // quoteSummary API host
	UserAgent  string        `yaml:"user_agent"`
	Sections   []string      `yaml:"sections"` // listing views to scrape
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// DBConfig holds the PostgreSQL connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// CollectorConfig holds batch-run settings.
type CollectorConfig struct {
	Concurrency   int           `yaml:"concurrency"`    // parallel symbol fetches
	SymbolTimeout time.Duration `yaml:"symbol_timeout"` // per-symbol fetch budget
}

// ServerConfig holds HTTP query service settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}
