package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	yaml := `
instance:
  id: test-collector
provider:
  base_url: https://finance.example.com
  sections:
    - gainers
database:
  host: localhost
  port: 5432
  name: yahoo_db
  user: testuser
  password: testpass
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Instance.ID != "test-collector" {
		t.Errorf("Instance.ID = %q, want %q", cfg.Instance.ID, "test-collector")
	}
	if cfg.Provider.BaseURL != "https://finance.example.com" {
		t.Errorf("Provider.BaseURL = %q, want %q", cfg.Provider.BaseURL, "https://finance.example.com")
	}
	if len(cfg.Provider.Sections) != 1 || cfg.Provider.Sections[0] != "gainers" {
		t.Errorf("Provider.Sections = %v, want [gainers]", cfg.Provider.Sections)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("Database.Host = %q, want %q", cfg.Database.Host, "localhost")
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "secret123")

	yaml := `
instance:
  id: test-collector
database:
  host: localhost
  name: yahoo_db
  user: testuser
  password: ${TEST_DB_PASSWORD}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Password != "secret123" {
		t.Errorf("Database.Password = %q, want %q", cfg.Database.Password, "secret123")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	yaml := `
instance:
  id: test-collector
database:
  host: localhost
  name: yahoo_db
  user: testuser
  password: testpass
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	// Check defaults were applied
	if cfg.Provider.BaseURL != DefaultBaseURL {
		t.Errorf("Provider.BaseURL = %q, want default %q", cfg.Provider.BaseURL, DefaultBaseURL)
	}
	if cfg.Provider.Timeout != DefaultTimeout {
		t.Errorf("Provider.Timeout = %v, want default %v", cfg.Provider.Timeout, DefaultTimeout)
	}
	if len(cfg.Provider.Sections) != len(DefaultSections) {
		t.Errorf("Provider.Sections = %v, want default %v", cfg.Provider.Sections, DefaultSections)
	}
	if cfg.Database.Port != DefaultDBPort {
		t.Errorf("Database.Port = %d, want default %d", cfg.Database.Port, DefaultDBPort)
	}
	if cfg.Database.MaxConns != DefaultMaxConns {
		t.Errorf("Database.MaxConns = %d, want default %d", cfg.Database.MaxConns, DefaultMaxConns)
	}
	if cfg.Collector.Concurrency != DefaultConcurrency {
		t.Errorf("Collector.Concurrency = %d, want default %d", cfg.Collector.Concurrency, DefaultConcurrency)
	}
	if cfg.Server.Port != DefaultServerPort {
		t.Errorf("Server.Port = %d, want default %d", cfg.Server.Port, DefaultServerPort)
	}
}

func TestValidate(t *testing.T) {
	validDB := DBConfig{Host: "localhost", Name: "db", User: "user", Password: "pass", MaxConns: 10, MinConns: 2}

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "missing instance id",
			cfg:     Config{},
			wantErr: "instance.id is required",
		},
		{
			name: "missing sections",
			cfg: Config{
				Instance: InstanceConfig{ID: "test"},
			},
			wantErr: "provider.sections must not be empty",
		},
		{
			name: "missing database host",
			cfg: Config{
				Instance: InstanceConfig{ID: "test"},
				Provider: ProviderConfig{Sections: []string{"gainers"}},
			},
			wantErr: "database.host is required",
		},
		{
			name: "missing database password",
			cfg: Config{
				Instance: InstanceConfig{ID: "test"},
				Provider: ProviderConfig{Sections: []string{"gainers"}},
				Database: DBConfig{Host: "localhost", Name: "db", User: "user"},
			},
			wantErr: "database.password is required",
		},
		{
			name: "min_conns exceeds max_conns",
			cfg: Config{
				Instance: InstanceConfig{ID: "test"},
				Provider: ProviderConfig{Sections: []string{"gainers"}},
				Database: DBConfig{Host: "localhost", Name: "db", User: "user", Password: "pass", MaxConns: 5, MinConns: 10},
			},
			wantErr: "database.min_conns (10) cannot exceed max_conns (5)",
		},
		{
			name: "zero collector concurrency",
			cfg: Config{
				Instance: InstanceConfig{ID: "test"},
				Provider: ProviderConfig{Sections: []string{"gainers"}},
				Database: validDB,
			},
			wantErr: "collector.concurrency must be >= 1",
		},
		{
			name: "server port out of range",
			cfg: Config{
				Instance:  InstanceConfig{ID: "test"},
				Provider:  ProviderConfig{Sections: []string{"gainers"}},
				Database:  validDB,
				Collector: CollectorConfig{Concurrency: 4},
				Server:    ServerConfig{Port: 70000},
			},
			wantErr: "server.port must be between 1 and 65535, got 70000",
		},
		{
			name: "valid config",
			cfg: Config{
				Instance:  InstanceConfig{ID: "test"},
				Provider:  ProviderConfig{Sections: []string{"gainers"}},
				Database:  validDB,
				Collector: CollectorConfig{Concurrency: 4},
				Server:    ServerConfig{Port: 8000},
			},
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("Validate() expected error containing %q, got nil", tt.wantErr)
				} else if err.Error() != tt.wantErr {
					t.Errorf("Validate() error = %q, want %q", err.Error(), tt.wantErr)
				}
			}
		})
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}
