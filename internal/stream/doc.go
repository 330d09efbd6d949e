// Package stream implements the WebSocket ingestion path.
//
// The stream path:
//   - Maintains a single WebSocket connection to the exchange
//   - Subscribes to depth, bookTicker and markPrice streams per market
//   - Decodes the pushed single-letter alias payloads
//   - Routes decoded events into growable per-stream buffers for the writers
package stream
