// Package model defines the row types shared between the routers, writers
// and the snapshot poller.
//
// Conventions:
//   - Prices and quantities: fixed.Decimal, scale exactly as the exchange sent it
//   - Timestamps: int64 microseconds since Unix epoch
//   - IDs: string for market symbols, uuid.UUID for snapshot IDs
package model
