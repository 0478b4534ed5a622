package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	yaml := `
instance:
  id: test-spider
api:
  rest_url: https://api.example.com/v2
database:
  postgres:
    host: localhost
    port: 5432
    name: test_db
    user: testuser
    password: testpass
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Instance.ID != "test-spider" {
		t.Errorf("Instance.ID = %q, want %q", cfg.Instance.ID, "test-spider")
	}
	if cfg.API.RestURL != "https://api.example.com/v2" {
		t.Errorf("API.RestURL = %q, want %q", cfg.API.RestURL, "https://api.example.com/v2")
	}
	if cfg.Database.Postgres.Host != "localhost" {
		t.Errorf("Database.Postgres.Host = %q, want %q", cfg.Database.Postgres.Host, "localhost")
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "secret123")

	yaml := `
instance:
  id: test-spider
database:
  postgres:
    host: localhost
    name: test_db
    user: testuser
    password: ${TEST_DB_PASSWORD}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Postgres.Password != "secret123" {
		t.Errorf("Password = %q, want %q", cfg.Database.Postgres.Password, "secret123")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	yaml := `
instance:
  id: test-spider
database:
  postgres:
    host: localhost
    name: test_db
    user: testuser
    password: testpass
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.API.RestURL != DefaultRestURL {
		t.Errorf("API.RestURL = %q, want default %q", cfg.API.RestURL, DefaultRestURL)
	}
	if cfg.API.Timeout != DefaultAPITimeout {
		t.Errorf("API.Timeout = %v, want %v", cfg.API.Timeout, DefaultAPITimeout)
	}
	if cfg.Database.Postgres.Port != DefaultDBPort {
		t.Errorf("Postgres.Port = %d, want %d", cfg.Database.Postgres.Port, DefaultDBPort)
	}
	if cfg.Dispatch.Workers != DefaultWorkers {
		t.Errorf("Dispatch.Workers = %d, want %d", cfg.Dispatch.Workers, DefaultWorkers)
	}
	if cfg.Dispatch.RetryDelay != 5*time.Minute {
		t.Errorf("Dispatch.RetryDelay = %v, want 5m", cfg.Dispatch.RetryDelay)
	}
	if cfg.Feed.Path != DefaultFeedPath {
		t.Errorf("Feed.Path = %q, want %q", cfg.Feed.Path, DefaultFeedPath)
	}
}

func TestLoadAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
	}{
		{
			name: "valid",
			yaml: `
instance:
  id: spider-1
database:
  postgres:
    host: localhost
    name: tp
    user: tp
    password: secret
`,
			wantErr: false,
		},
		{
			name: "missing instance id",
			yaml: `
database:
  postgres:
    host: localhost
    name: tp
    user: tp
    password: secret
`,
			wantErr: true,
		},
		{
			name: "missing database password",
			yaml: `
instance:
  id: spider-1
database:
  postgres:
    host: localhost
    name: tp
    user: tp
`,
			wantErr: true,
		},
		{
			name: "min conns above max conns",
			yaml: `
instance:
  id: spider-1
database:
  postgres:
    host: localhost
    name: tp
    user: tp
    password: secret
    max_conns: 2
    min_conns: 5
`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempFile(t, tt.yaml)
			_, err := LoadAndValidate(path)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadAndValidate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}
