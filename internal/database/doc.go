// Package database provides connection pool management for TimescaleDB.
//
// Each gatherer writes time-series data (depth updates, ticker updates,
// mark prices, depth snapshots) to a single TimescaleDB instance. Market
// metadata lives in-memory in the market registry.
package database
