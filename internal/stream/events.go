package stream

import (
	"github.com/avelara/bpx-data/internal/api"
	"github.com/avelara/bpx-data/internal/fixed"
)

// Pushed event payloads. Streamed payloads use single-letter field aliases
// rather than the REST camelCase convention; each struct below is the alias
// table for one stream family. Timestamps are microseconds since epoch
// unless noted.

// TickerUpdate is a best bid/ask change on the bookTicker stream.
type TickerUpdate struct {
	EventType   string        `json:"e"`
	EventTime   int64         `json:"E"`
	Symbol      string        `json:"s"`
	AskPrice    fixed.Decimal `json:"a"`
	AskQuantity fixed.Decimal `json:"A"`
	BidPrice    fixed.Decimal `json:"b"`
	BidQuantity fixed.Decimal `json:"B"`
	UpdateID    uint64        `json:"u"`
	Timestamp   uint64        `json:"T"`
}

// TickerStatisticsUpdate carries 24h rolling statistics, pushed on the
// ticker stream every second.
type TickerStatisticsUpdate struct {
	EventType        string        `json:"e"`
	EventTime        int64         `json:"E"`
	Symbol           string        `json:"s"`
	FirstPrice       fixed.Decimal `json:"o"`
	LastPrice        fixed.Decimal `json:"c"`
	HighPrice        fixed.Decimal `json:"h"`
	LowPrice         fixed.Decimal `json:"l"`
	BaseAssetVolume  fixed.Decimal `json:"v"`
	QuoteAssetVolume fixed.Decimal `json:"V"`
	NumberOfTrades   uint64        `json:"n"`
}

// DepthUpdate is an order book delta: the price levels whose resting
// quantity changed between FirstUpdateID and LastUpdateID.
type DepthUpdate struct {
	EventType     string           `json:"e"`
	EventTime     int64            `json:"E"`
	Symbol        string           `json:"s"`
	Timestamp     int64            `json:"T"`
	FirstUpdateID uint64           `json:"U"`
	LastUpdateID  uint64           `json:"u"`
	Asks          []api.PriceLevel `json:"a"`
	Bids          []api.PriceLevel `json:"b"`
}

// KlineUpdate is a candlestick in progress or just closed. Start and end
// are exchange-formatted timestamps in seconds resolution.
type KlineUpdate struct {
	EventType       string        `json:"e"`
	EventTime       int64         `json:"E"`
	Symbol          string        `json:"s"`
	Start           string        `json:"t"`
	End             string        `json:"T"`
	Open            fixed.Decimal `json:"o"`
	Close           fixed.Decimal `json:"c"`
	High            fixed.Decimal `json:"h"`
	Low             fixed.Decimal `json:"l"`
	BaseAssetVolume fixed.Decimal `json:"v"`
	NumberOfTrades  uint64        `json:"n"`
	IsClosed        bool          `json:"X"`
}

// MarkPriceUpdate carries the mark price, index price and the running
// funding rate estimate for a perpetual.
type MarkPriceUpdate struct {
	EventType        string        `json:"e"`
	EventTime        int64         `json:"E"`
	Symbol           string        `json:"s"`
	MarkPrice        fixed.Decimal `json:"p"`
	FundingRate      fixed.Decimal `json:"f"`
	IndexPrice       fixed.Decimal `json:"i"`
	FundingTimestamp uint64        `json:"n"`
	EngineTimestamp  int64         `json:"T"`
}

// OpenInterestUpdate is pushed on the openInterest stream every 60 seconds.
type OpenInterestUpdate struct {
	EventType    string        `json:"e"`
	EventTime    int64         `json:"E"`
	Symbol       string        `json:"s"`
	OpenInterest fixed.Decimal `json:"o"`
}

// PositionUpdate is a private-stream position lifecycle event.
type PositionUpdate struct {
	EventType           *api.PositionUpdateType `json:"e"`
	EventTime           int64                   `json:"E"`
	Symbol              string                  `json:"s"`
	BreakEvenPrice      fixed.Decimal           `json:"b"`
	EntryPrice          fixed.Decimal           `json:"B"`
	Imf                 fixed.Decimal           `json:"f"`
	MarkPrice           fixed.Decimal           `json:"M"`
	Mmf                 fixed.Decimal           `json:"m"`
	NetQuantity         fixed.Decimal           `json:"q"`
	NetExposureQuantity fixed.Decimal           `json:"Q"`
	NetExposureNotional fixed.Decimal           `json:"n"`
	PositionID          uint64                  `json:"i"`
	PnlRealized         fixed.Decimal           `json:"p"`
	PnlUnrealized       fixed.Decimal           `json:"P"`
	Timestamp           uint64                  `json:"T"`

	// No longer sent on current engine versions.
	EstLiquidationPrice *fixed.Decimal `json:"l"`
}
