// Package writer implements batch writers for all captured data types.
//
// Writers:
//   - Depth delta writer (TimescaleDB)
//   - Book ticker writer (TimescaleDB)
//   - Mark price writer (TimescaleDB)
//   - Depth snapshot writer (TimescaleDB), fed by the REST poller
//
// All writers use append-only semantics (never update, only insert).
// Prices and quantities are stored as NUMERIC text, preserving the exact
// scale the exchange quoted.
package writer
