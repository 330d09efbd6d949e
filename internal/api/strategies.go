package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/avelara/bpx-data/internal/fixed"
)

const pathStrategyHistory = "/wapi/v1/history/strategies"

// StrategyHistoryParams filters the strategy history endpoint.
type StrategyHistoryParams struct {
	StrategyID    *string        `json:"strategyId,omitempty"`
	Symbol        *string        `json:"symbol,omitempty"`
	Limit         *uint64        `json:"limit,omitempty"`
	Offset        *uint64        `json:"offset,omitempty"`
	MarketType    *MarketType    `json:"marketType,omitempty"`
	SortDirection *SortDirection `json:"sortDirection,omitempty"`
}

func (p StrategyHistoryParams) encode() string {
	var b queryBuilder
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
func (p *StrategyHistoryParams) UnmarshalJSON(data []byte) error {
	type alias StrategyHistoryParams
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
	*p = StrategyHistoryParams(a)
	return nil
}

// Strategy is an execution strategy (e.g. TWAP) that slices a parent order
// into child orders over time.
type Strategy struct {
	ID                         int32                  `json:"id"`
	CreatedAt                  string                 `json:"createdAt"`
	ExecutedQuantity           *fixed.Decimal         `json:"executedQuantity"`
	ExecutedQuoteQuantity      *fixed.Decimal         `json:"executedQuoteQuantity"`
	CancelReason               *StrategyCancelReason  `json:"cancelReason"`
	StrategyType               string                 `json:"strategyType"`
	Quantity                   *fixed.Decimal         `json:"quantity"`
	SelfTradePrevention        SelfTradePrevention    `json:"selfTradePrevention"`
	Status                     StrategyStatus         `json:"status"`
	Side                       Side                   `json:"side"`
	Symbol                     string                 `json:"symbol"`
	TimeInForce                TimeInForce            `json:"timeInForce"`
	ClientStrategyID           *uint32                `json:"clientStrategyId"`
	Duration                   uint64                 `json:"duration"`
	Interval                   uint64                 `json:"interval"`
	RandomizedIntervalQuantity bool                   `json:"randomizedIntervalQuantity"`
	SlippageTolerance          *fixed.Decimal         `json:"slippageTolerance"`
	SlippageToleranceType      *SlippageToleranceType `json:"slippageToleranceType"`
}

// GetStrategyHistory retrieves strategies that are no longer active: they
// completed, were cancelled by the user, or were cancelled by the system.
func (c *Client) GetStrategyHistory(ctx context.Context, params StrategyHistoryParams) ([]Strategy, error) {
	var strategies []Strategy
	if err := c.get(ctx, pathStrategyHistory, params.encode(), &strategies); err != nil {
		return nil, fmt.Errorf("get strategy history: %w", err)
	}
	return strategies, nil
}
