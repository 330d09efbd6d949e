package model

import (
	"github.com/google/uuid"

	"github.com/avelara/bpx-data/internal/fixed"
)

// -----------------------------------------------------------------------------
// Relational Types
// -----------------------------------------------------------------------------

// Market is the registry's view of one tradeable market.
type Market struct {
	Symbol      string // Primary key (e.g., "SOL_USDC")
	BaseSymbol  string // Base asset (e.g., "SOL")
	QuoteSymbol string // Quote asset (e.g., "USDC")
	MarketType  string // SPOT, PERP, dated futures, prediction markets

	// Precision derived from the market filters
	PriceDecimals    int32 // Decimal places implied by tickSize
	QuantityDecimals int32 // Decimal places implied by stepSize

	TickSize    fixed.Decimal  // Minimum price increment
	StepSize    fixed.Decimal  // Minimum quantity increment
	MinQuantity fixed.Decimal  // Smallest tradeable quantity
	MaxQuantity *fixed.Decimal // Largest tradeable quantity, nil if unbounded

	UpdatedAt int64 // Last registry sync (µs since epoch)
}

// -----------------------------------------------------------------------------
// Time-Series Types
// -----------------------------------------------------------------------------

// DepthDelta is one changed price level from a depth stream event. A depth
// event carrying n levels fans out to n rows.
type DepthDelta struct {
	ExchangeTS    int64         // Engine timestamp (µs since epoch)
	ReceivedAt    int64         // Gatherer receive timestamp (µs since epoch)
	Symbol        string        // Market symbol
	Side          string        // "Bid" or "Ask"
	Price         fixed.Decimal // Price level
	Quantity      fixed.Decimal // New resting quantity, zero means level removed
	FirstUpdateID uint64        // First update ID covered by the event
	LastUpdateID  uint64        // Last update ID covered by the event
}

// BookTicker is a best bid/ask change.
type BookTicker struct {
	ExchangeTS  int64         // Engine timestamp (µs since epoch)
	ReceivedAt  int64         // Gatherer receive timestamp (µs since epoch)
	Symbol      string        // Market symbol
	BidPrice    fixed.Decimal // Best bid price
	BidQuantity fixed.Decimal // Quantity at best bid
	AskPrice    fixed.Decimal // Best ask price
	AskQuantity fixed.Decimal // Quantity at best ask
	UpdateID    uint64        // Exchange update ID
}

// MarkPrice is a mark price / funding update for a perpetual.
type MarkPrice struct {
	ExchangeTS    int64         // Engine timestamp (µs since epoch)
	ReceivedAt    int64         // Gatherer receive timestamp (µs since epoch)
	Symbol        string        // Market symbol
	MarkPrice     fixed.Decimal // Mark price
	IndexPrice    fixed.Decimal // Index price
	FundingRate   fixed.Decimal // Running funding rate estimate
	NextFundingTS int64         // Next funding interval (ms since epoch, as sent)
}

// Level is a single price level in a book snapshot.
type Level struct {
	Price    fixed.Decimal
	Quantity fixed.Decimal
}

// DepthSnapshot is a full order book state at a point in time, captured by
// the REST poller.
type DepthSnapshot struct {
	SnapshotID   uuid.UUID // Primary key, assigned at capture
	SnapshotTS   int64     // Capture timestamp (µs since epoch)
	Symbol       string    // Market symbol
	LastUpdateID string    // Exchange book version, as returned
	Asks         []Level   // Ask side, exchange ordering
	Bids         []Level   // Bid side, exchange ordering
}
