// Package market implements the market registry: the in-memory catalog of
// tradeable markets and the precision (tick size, step size) each one
// quotes at. The registry loads once on start and reconciles with the REST
// API on an interval.
package market
