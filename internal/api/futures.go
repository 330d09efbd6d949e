package api

import (
	"context"
	"fmt"

	"github.com/avelara/bpx-data/internal/fixed"
)

const pathFuturesPosition = "/api/v1/position"

// FuturePosition is an open futures position for the account.
type FuturePosition struct {
	BreakEvenPrice           fixed.Decimal  `json:"breakEvenPrice"`
	CumulativeFundingPayment fixed.Decimal  `json:"cumulativeFundingPayment"`
	EntryPrice               fixed.Decimal  `json:"entryPrice"`
	EstLiquidationPrice      fixed.Decimal  `json:"estLiquidationPrice"`
	Imf                      fixed.Decimal  `json:"imf"`
	ImfFunction              MarginFunction `json:"imfFunction"`
	MarkPrice                fixed.Decimal  `json:"markPrice"`
	Mmf                      fixed.Decimal  `json:"mmf"`
	MmfFunction              MarginFunction `json:"mmfFunction"`
	NetCost                  fixed.Decimal  `json:"netCost"`
	NetExposureNotional      fixed.Decimal  `json:"netExposureNotional"`
	NetExposureQuantity      fixed.Decimal  `json:"netExposureQuantity"`
	NetQuantity              fixed.Decimal  `json:"netQuantity"`
	PnlRealized              fixed.Decimal  `json:"pnlRealized"`
	PnlUnrealized            fixed.Decimal  `json:"pnlUnrealized"`
	PositionID               string         `json:"positionId"`
	SubaccountID             *uint64        `json:"subaccountId"`
	Symbol                   string         `json:"symbol"`
	UserID                   uint64         `json:"userId"`
}

// GetOpenFuturePositions fetches the account's open futures positions,
// optionally filtered to one symbol.
func (c *Client) GetOpenFuturePositions(ctx context.Context, symbol *string) ([]FuturePosition, error) {
	var b queryBuilder
	b.setString("symbol", symbol)

	var positions []FuturePosition
	if err := c.get(ctx, pathFuturesPosition, b.encode(), &positions); err != nil {
		return nil, fmt.Errorf("get future positions: %w", err)
	}
	return positions, nil
}
