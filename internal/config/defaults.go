package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultRestURL      = "https://api.guildwars2.com/v2"
	DefaultAPITimeout   = 30 * time.Second
	DefaultMaxRetries   = 3
	DefaultDBPort       = 5432
	DefaultDBSSLMode    = "prefer"
	DefaultMaxConns     = 10
	DefaultMinConns     = 2
	DefaultWorkers      = 8
	DefaultCycleTimeout = 30 * time.Second
	DefaultRetryDelay   = 5 * time.Minute
	DefaultFeedPort     = 8080
	DefaultFeedPath     = "/feed"
)

func (c *SpiderConfig) applyDefaults() {
	// API defaults
	if c.API.RestURL == "" {
		c.API.RestURL = DefaultRestURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}

	// Database defaults
	applyDBDefaults(&c.Database.Postgres)

	// Dispatch defaults
	if c.Dispatch.Workers == 0 {
		c.Dispatch.Workers = DefaultWorkers
	}
	if c.Dispatch.CycleTimeout == 0 {
		c.Dispatch.CycleTimeout = DefaultCycleTimeout
	}
	if c.Dispatch.RetryDelay == 0 {
		c.Dispatch.RetryDelay = DefaultRetryDelay
	}

	// Feed defaults
	if c.Feed.Port == 0 {
		c.Feed.Port = DefaultFeedPort
	}
	if c.Feed.Path == "" {
		c.Feed.Path = DefaultFeedPath
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
