package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/avelara/bpx-data/internal/fixed"
)

const (
	pathFillHistory  = "/wapi/v1/history/fills"
	pathOrderHistory = "/wapi/v1/history/orders"
)

// Defaults applied to history search parameters at the decode boundary.
// They are never applied when encoding a caller-built parameter struct:
// a field the caller leaves nil stays off the wire.
const (
	DefaultHistoryLimit  uint64 = 100
	DefaultHistoryOffset uint64 = 0
)

// FillHistoryParams filters the fill history endpoint. Every field is
// optional.
type FillHistoryParams struct {
	// Filter to the given order.
	OrderID *string `json:"orderId,omitempty"`
	// Filter to the given strategy.
	StrategyID *string `json:"strategyId,omitempty"`
	// Minimum time, milliseconds since epoch.
	From *int64 `json:"from,omitempty"`
	// Maximum time, milliseconds since epoch.
	To *int64 `json:"to,omitempty"`
	// Filter to the given symbol.
	Symbol *string `json:"symbol,omitempty"`
	// Maximum number to return. Default 100, maximum 1000.
	Limit *uint64 `json:"limit,omitempty"`
	// Offset. Default 0.
	Offset        *uint64        `json:"offset,omitempty"`
	FillType      *FillType      `json:"fillType,omitempty"`
	MarketType    *MarketType    `json:"marketType,omitempty"`
	SortDirection *SortDirection `json:"sortDirection,omitempty"`
}

func (p FillHistoryParams) encode() string {
	var b queryBuilder
	b.setString("order_id", p.OrderID)
	b.setString("strategy_id", p.StrategyID)
	b.setInt64("from", p.From)
	b.setInt64("to", p.To)
	b.setString("symbol", p.Symbol)
	b.setUint64("limit", p.Limit)
	b.setUint64("offset", p.Offset)
	setEnum(&b, "fill_type", p.FillType)
	setEnum(&b, "market_type", p.MarketType)
	setEnum(&b, "sort_direction", p.SortDirection)
	return b.encode()
}

// UnmarshalJSON applies the limit/offset defaults when the params are
// themselves decoded from JSON.
func (p *FillHistoryParams) UnmarshalJSON(data []byte) error {
	type alias FillHistoryParams
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.Limit == nil {
		a.Limit = Uint64(DefaultHistoryLimit)
	}
	if a.Offset == nil {
		a.Offset = Uint64(DefaultHistoryOffset)
	}
	*p = FillHistoryParams(a)
	return nil
}

// OrderHistoryParams filters the order history endpoint.
type OrderHistoryParams struct {
	OrderID       *string        `json:"orderId,omitempty"`
	StrategyID    *string        `json:"strategyId,omitempty"`
	Symbol        *string        `json:"symbol,omitempty"`
	Limit         *uint64        `json:"limit,omitempty"`
	Offset        *uint64        `json:"offset,omitempty"`
	MarketType    *MarketType    `json:"marketType,omitempty"`
	SortDirection *SortDirection `json:"sortDirection,omitempty"`
}

func (p OrderHistoryParams) encode() string {
	var b queryBuilder
	b.setString("order_id", p.OrderID)
	b.setString("strategy_id", p.StrategyID)
	b.setString("symbol", p.Symbol)
	b.setUint64("limit", p.Limit)
	b.setUint64("offset", p.Offset)
	setEnum(&b, "market_type", p.MarketType)
	setEnum(&b, "sort_direction", p.SortDirection)
	return b.encode()
}

// UnmarshalJSON applies the limit/offset defaults when the params are
// themselves decoded from JSON.
func (p *OrderHistoryParams) UnmarshalJSON(data []byte) error {
	type alias OrderHistoryParams
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.Limit == nil {
		a.Limit = Uint64(DefaultHistoryLimit)
	}
	if a.Offset == nil {
		a.Offset = Uint64(DefaultHistoryOffset)
	}
	*p = OrderHistoryParams(a)
	return nil
}

// Fill is a record of (partial) execution of an order.
type Fill struct {
	ClientID        *string          `json:"clientId"`
	Fee             fixed.Decimal    `json:"fee"`
	FeeSymbol       string           `json:"feeSymbol"`
	IsMaker         bool             `json:"isMaker"`
	OrderID         string           `json:"orderId"`
	Price           fixed.Decimal    `json:"price"`
	Quantity        fixed.Decimal    `json:"quantity"`
	Side            Side             `json:"side"`
	Symbol          string           `json:"symbol"`
	SystemOrderType *SystemOrderType `json:"systemOrderType"`
	Timestamp       string           `json:"timestamp"`
	TradeID         *int64           `json:"tradeId"`
}

// HistoricOrder is an order that has left the live book (or is about to);
// the live orders endpoint carries fresher data for resting orders.
type HistoricOrder struct {
	ID                    string              `json:"id"`
	ClientID              *uint32             `json:"clientId"`
	CreatedAt             string              `json:"createdAt"`
	ExecutedQuantity      *fixed.Decimal      `json:"executedQuantity"`
	ExecutedQuoteQuantity *fixed.Decimal      `json:"executedQuoteQuantity"`
	ExpiryReason          *ExpiryReason       `json:"expiryReason"`
	OrderType             OrderType           `json:"orderType"`
	PostOnly              *bool               `json:"postOnly"`
	Price                 *fixed.Decimal      `json:"price"`
	Quantity              *fixed.Decimal      `json:"quantity"`
	QuoteQuantity         *fixed.Decimal      `json:"quoteQuantity"`
	SelfTradePrevention   SelfTradePrevention `json:"selfTradePrevention"`
	Side                  Side                `json:"side"`
	Status                OrderStatus         `json:"status"`
	StrategyID            *string             `json:"strategyId"`
	Symbol                string              `json:"symbol"`
	SystemOrderType       *SystemOrderType    `json:"systemOrderType"`
	TimeInForce           TimeInForce         `json:"timeInForce"`
	TriggerPrice          *fixed.Decimal      `json:"triggerPrice"`
}

// GetFillHistory retrieves historical fills, optionally filtered.
func (c *Client) GetFillHistory(ctx context.Context, params FillHistoryParams) ([]Fill, error) {
	var fills []Fill
	if err := c.get(ctx, pathFillHistory, params.encode(), &fills); err != nil {
		return nil, fmt.Errorf("get fill history: %w", err)
	}
	return fills, nil
}

// GetOrderHistory retrieves the account's order history, including filled
// orders no longer on the book.
func (c *Client) GetOrderHistory(ctx context.Context, params OrderHistoryParams) ([]HistoricOrder, error) {
	var orders []HistoricOrder
	if err := c.get(ctx, pathOrderHistory, params.encode(), &orders); err != nil {
		return nil, fmt.Errorf("get order history: %w", err)
	}
	return orders, nil
}
