// Package config loads and validates the spider's YAML configuration.
//
// Files may reference environment variables with ${VAR} syntax; they are
// expanded before parsing. Optional fields fall back to defaults, so a
// minimal config only needs the instance id and database credentials.
package config
