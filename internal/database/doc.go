// Package database provides the PostgreSQL connection pool.
//
// One database holds both the relational item catalog and the append-only
// listing history the trend lookback reads from.
package database
