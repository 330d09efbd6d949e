// Package poller implements the depth snapshot poller.
//
// The poller:
//   - Fetches full order books over REST on an interval
//   - Anchors the depth delta stream: replaying deltas from a snapshot's
//     lastUpdateId reconstructs the book at any later point
//   - Uses concurrent requests with bounded concurrency
package poller
