package config

import "time"

// SpiderConfig is the root configuration for a spider instance.
type SpiderConfig struct {
	Instance InstanceConfig `yaml:"instance"`
	API      APIConfig      `yaml:"api"`
	Database DatabaseConfig `yaml:"database"`
	Dispatch DispatchConfig `yaml:"dispatch"`
	Feed     FeedConfig     `yaml:"feed"`
}

// InstanceConfig identifies this spider.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// APIConfig holds trading post API settings.
type APIConfig struct {
	RestURL    string        `yaml:"rest_url"`
	Token      string        `yaml:"token"` // Optional; listings are anonymous
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
}

// DatabaseConfig holds the Postgres connection for items and listing history.
type DatabaseConfig struct {
	Postgres DBConfig `yaml:"postgres"`
}

// DBConfig holds a single database connection.
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

// DispatchConfig holds work-item dispatcher settings.
type DispatchConfig struct {
	Workers      int           `yaml:"workers"`       // Max concurrent work items
	CycleTimeout time.Duration `yaml:"cycle_timeout"` // Deadline per work-item cycle
	RetryDelay   time.Duration `yaml:"retry_delay"`   // Re-submit delay after a failed cycle
}

// FeedConfig holds the HTTP server for the live feed and health endpoints.
type FeedConfig struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}
