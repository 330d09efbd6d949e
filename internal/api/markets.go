package api

import (
	"context"
	"fmt"

	"github.com/avelara/bpx-data/internal/fixed"
)

// Public market-data endpoints.
const (
	pathAssets     = "/api/v1/assets"
	pathMarket     = "/api/v1/market"
	pathMarkets    = "/api/v1/markets"
	pathTicker     = "/api/v1/ticker"
	pathTickers    = "/api/v1/tickers"
	pathDepth      = "/api/v1/depth"
	pathKlines     = "/api/v1/klines"
	pathFunding    = "/api/v1/fundingRates"
	pathMarkPrices = "/api/v1/markPrices"
)

// Market is a venue where a base asset trades against a quote asset.
type Market struct {
	Symbol      string        `json:"symbol"`
	BaseSymbol  string        `json:"baseSymbol"`
	QuoteSymbol string        `json:"quoteSymbol"`
	MarketType  MarketType    `json:"marketType"`
	Filters     MarketFilters `json:"filters"`

	// Margin functions, present on margined markets.
	ImfFunction *MarginFunction `json:"imfFunction"`
	MmfFunction *MarginFunction `json:"mmfFunction"`

	// Perpetual funding parameters, in milliseconds / basis points.
	FundingInterval       *uint64        `json:"fundingInterval"`
	FundingRateUpperBound *fixed.Decimal `json:"fundingRateUpperBound"`
	FundingRateLowerBound *fixed.Decimal `json:"fundingRateLowerBound"`

	OpenInterestLimit *fixed.Decimal `json:"openInterestLimit"`
	OrderBookState    OrderBookState `json:"orderBookState"`
	CreatedAt         string         `json:"createdAt"`
}

// PriceDecimalPlaces returns the number of fractional digits the market
// accepts on a price. A price with more digits than the tick size's scale
// is rejected by the order book.
func (m *Market) PriceDecimalPlaces() int32 {
	return m.Filters.Price.TickSize.Scale()
}

// QuantityDecimalPlaces returns the number of fractional digits the market
// accepts on a quantity, derived from the step size's scale.
func (m *Market) QuantityDecimalPlaces() int32 {
	return m.Filters.Quantity.StepSize.Scale()
}

// MarketFilters groups the order book's price and quantity rules.
type MarketFilters struct {
	Price    PriceFilters     `json:"price"`
	Quantity QuantityFilters  `json:"quantity"`
	Leverage *LeverageFilters `json:"leverage"`
}

// PriceFilters bounds the prices the order book accepts.
type PriceFilters struct {
	MinPrice fixed.Decimal  `json:"minPrice"`
	MaxPrice *fixed.Decimal `json:"maxPrice"`
	TickSize fixed.Decimal  `json:"tickSize"`

	// Multiplier bands relative to the last active price.
	MaxMultiplier *fixed.Decimal `json:"maxMultiplier"`
	MinMultiplier *fixed.Decimal `json:"minMultiplier"`

	// How far a market order may penetrate past the best offer.
	MaxImpactMultiplier *fixed.Decimal `json:"maxImpactMultiplier"`
	MinImpactMultiplier *fixed.Decimal `json:"minImpactMultiplier"`

	// Futures bands relative to mean mark price / mean premium.
	MeanMarkPriceBand *PriceBandMarkPrice   `json:"meanMarkPriceBand"`
	MeanPremiumBand   *PriceBandMeanPremium `json:"meanPremiumBand"`

	// Spot-margin entry-fee band relative to the last active price.
	BorrowEntryFeeMaxMultiplier *fixed.Decimal `json:"borrowEntryFeeMaxMultiplier"`
	BorrowEntryFeeMinMultiplier *fixed.Decimal `json:"borrowEntryFeeMinMultiplier"`
}

// QuantityFilters bounds the quantities the order book accepts.
type QuantityFilters struct {
	MinQuantity fixed.Decimal  `json:"minQuantity"`
	MaxQuantity *fixed.Decimal `json:"maxQuantity"`
	StepSize    fixed.Decimal  `json:"stepSize"`
}

// LeverageFilters bounds leverage on margined markets.
type LeverageFilters struct {
	MinLeverage fixed.Decimal `json:"minLeverage"`
	MaxLeverage fixed.Decimal `json:"maxLeverage"`
	StepSize    fixed.Decimal `json:"stepSize"`
}

// PriceBandMarkPrice is an allowed multiplier window around the mean mark
// price.
type PriceBandMarkPrice struct {
	MaxMultiplier fixed.Decimal `json:"maxMultiplier"`
	MinMultiplier fixed.Decimal `json:"minMultiplier"`
}

// PriceBandMeanPremium is the allowed deviation from the mean premium.
type PriceBandMeanPremium struct {
	TolerancePct fixed.Decimal `json:"tolerancePct"`
}

// Ticker is a 24h rolling statistics summary for one symbol.
type Ticker struct {
	Symbol             string        `json:"symbol"`
	FirstPrice         fixed.Decimal `json:"firstPrice"`
	LastPrice          fixed.Decimal `json:"lastPrice"`
	PriceChange        fixed.Decimal `json:"priceChange"`
	PriceChangePercent fixed.Decimal `json:"priceChangePercent"`
	High               fixed.Decimal `json:"high"`
	Low                fixed.Decimal `json:"low"`
	Volume             fixed.Decimal `json:"volume"`
	Trades             string        `json:"trades"`
}

// OrderBookDepth is a point-in-time order book snapshot. Ask and bid
// ordering is exactly as the exchange returned it.
type OrderBookDepth struct {
	Asks         []PriceLevel `json:"asks"`
	Bids         []PriceLevel `json:"bids"`
	LastUpdateID string       `json:"lastUpdateId"`
}

// Kline is one candlestick. Open/high/low/close are absent for buckets
// with no trades.
type Kline struct {
	Start  string         `json:"start"`
	Open   *fixed.Decimal `json:"open"`
	High   *fixed.Decimal `json:"high"`
	Low    *fixed.Decimal `json:"low"`
	Close  *fixed.Decimal `json:"close"`
	End    *string        `json:"end"`
	Volume fixed.Decimal  `json:"volume"`
	Trades uint64         `json:"trades"`
}

// FundingRate is one historical funding interval for a perpetual.
type FundingRate struct {
	Symbol               string        `json:"symbol"`
	IntervalEndTimestamp string        `json:"intervalEndTimestamp"`
	FundingRate          fixed.Decimal `json:"fundingRate"`
}

// MarkPrice carries mark/index price and the current interval's funding
// rate for a perpetual.
type MarkPrice struct {
	Symbol               string        `json:"symbol"`
	FundingRate          fixed.Decimal `json:"fundingRate"`
	IndexPrice           fixed.Decimal `json:"indexPrice"`
	MarkPrice            fixed.Decimal `json:"markPrice"`
	NextFundingTimestamp uint64        `json:"nextFundingTimestamp"`
}

// KlineParams selects the kline series to fetch. StartTime is required;
// EndTime and PriceType are optional.
type KlineParams struct {
	Symbol    string          `json:"symbol"`
	Interval  KlineInterval   `json:"interval"`
	StartTime int64           `json:"startTime"`
	EndTime   *int64          `json:"endTime,omitempty"`
	PriceType *KlinePriceType `json:"priceType,omitempty"`
}

func (p KlineParams) encode() string {
	var b queryBuilder
	b.set("symbol", p.Symbol)
	b.set("interval", string(p.Interval))
	b.setInt64("startTime", &p.StartTime)
	b.setInt64("endTime", p.EndTime)
	setEnum(&b, "priceType", p.PriceType)
	return b.encode()
}

// GetAssets fetches available assets and their tokens.
func (c *Client) GetAssets(ctx context.Context) ([]Asset, error) {
	var assets []Asset
	if err := c.get(ctx, pathAssets, "", &assets); err != nil {
		return nil, fmt.Errorf("get assets: %w", err)
	}
	return assets, nil
}

// GetMarket fetches a single market by symbol.
func (c *Client) GetMarket(ctx context.Context, symbol string) (*Market, error) {
	var market Market
	if err := c.get(ctx, pathMarket, "symbol="+symbol, &market); err != nil {
		return nil, fmt.Errorf("get market %s: %w", symbol, err)
	}
	return &market, nil
}

// GetMarkets fetches all markets.
func (c *Client) GetMarkets(ctx context.Context) ([]Market, error) {
	var markets []Market
	if err := c.get(ctx, pathMarkets, "", &markets); err != nil {
		return nil, fmt.Errorf("get markets: %w", err)
	}
	return markets, nil
}

// GetTicker fetches 24h statistics for one symbol.
func (c *Client) GetTicker(ctx context.Context, symbol string) (*Ticker, error) {
	var ticker Ticker
	if err := c.get(ctx, pathTicker, "symbol="+symbol, &ticker); err != nil {
		return nil, fmt.Errorf("get ticker %s: %w", symbol, err)
	}
	return &ticker, nil
}

// GetTickers fetches 24h statistics for every symbol.
func (c *Client) GetTickers(ctx context.Context) ([]Ticker, error) {
	var tickers []Ticker
	if err := c.get(ctx, pathTickers, "", &tickers); err != nil {
		return nil, fmt.Errorf("get tickers: %w", err)
	}
	return tickers, nil
}

// GetOrderBookDepth fetches the order book for a symbol.
func (c *Client) GetOrderBookDepth(ctx context.Context, symbol string) (*OrderBookDepth, error) {
	var depth OrderBookDepth
	if err := c.get(ctx, pathDepth, "symbol="+symbol, &depth); err != nil {
		return nil, fmt.Errorf("get depth %s: %w", symbol, err)
	}
	return &depth, nil
}

// GetKlines fetches candlesticks for a symbol and interval.
func (c *Client) GetKlines(ctx context.Context, params KlineParams) ([]Kline, error) {
	var klines []Kline
	if err := c.get(ctx, pathKlines, params.encode(), &klines); err != nil {
		return nil, fmt.Errorf("get klines %s: %w", params.Symbol, err)
	}
	return klines, nil
}

// GetFundingIntervalRates fetches funding rate history for a perpetual.
func (c *Client) GetFundingIntervalRates(ctx context.Context, symbol string) ([]FundingRate, error) {
	var rates []FundingRate
	if err := c.get(ctx, pathFunding, "symbol="+symbol, &rates); err != nil {
		return nil, fmt.Errorf("get funding rates %s: %w", symbol, err)
	}
	return rates, nil
}

// GetAllMarkPrices fetches mark price, index price and the current funding
// rate for all symbols.
func (c *Client) GetAllMarkPrices(ctx context.Context) ([]MarkPrice, error) {
	var prices []MarkPrice
	if err := c.get(ctx, pathMarkPrices, "", &prices); err != nil {
		return nil, fmt.Errorf("get mark prices: %w", err)
	}
	return prices, nil
}
