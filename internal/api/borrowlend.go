package api

import (
	"context"
	"fmt"

	"github.com/avelara/bpx-data/internal/fixed"
)

const (
	pathBorrowLendMarkets   = "/api/v1/borrowLend/markets"
	pathBorrowLendPositions = "/api/v1/borrowLend/positions"
)

// BorrowLendMarket is a money-market venue where an asset is borrowed and
// lent at a utilization-driven rate.
type BorrowLendMarket struct {
	State                        BorrowLendMarketState `json:"state"`
	AssetMarkPrice               fixed.Decimal         `json:"assetMarkPrice"`
	BorrowInterestRate           fixed.Decimal         `json:"borrowInterestRate"`
	BorrowedQuantity             fixed.Decimal         `json:"borrowedQuantity"`
	Fee                          fixed.Decimal         `json:"fee"`
	LendInterestRate             fixed.Decimal         `json:"lendInterestRate"`
	LentQuantity                 fixed.Decimal         `json:"lentQuantity"`
	MaxUtilization               fixed.Decimal         `json:"maxUtilization"`
	OpenBorrowLendLimit          fixed.Decimal         `json:"openBorrowLendLimit"`
	OptimalUtilization           fixed.Decimal         `json:"optimalUtilization"`
	Symbol                       string                `json:"symbol"`
	Timestamp                    string                `json:"timestamp"`
	ThrottleUtilizationThreshold fixed.Decimal         `json:"throttleUtilizationThreshold"`
	ThrottleUtilizationBound     fixed.Decimal         `json:"throttleUtilizationBound"`
	ThrottleUpdateFraction       fixed.Decimal         `json:"throttleUpdateFraction"`
	Utilization                  fixed.Decimal         `json:"utilization"`
	StepSize                     fixed.Decimal         `json:"stepSize"`
}

// BorrowLendPosition is the account's open position in a borrow/lend
// market.
type BorrowLendPosition struct {
	CumulativeInterest  fixed.Decimal  `json:"cumulativeInterest"`
	ID                  string         `json:"id"`
	Symbol              string         `json:"symbol"`
	Imf                 fixed.Decimal  `json:"imf"`
	ImfFunction         MarginFunction `json:"imfFunction"`
	MarkPrice           fixed.Decimal  `json:"markPrice"`
	Mmf                 fixed.Decimal  `json:"mmf"`
	MmfFunction         MarginFunction `json:"mmfFunction"`
	NetExposureNotional fixed.Decimal  `json:"netExposureNotional"`
	NetExposureQuantity fixed.Decimal  `json:"netExposureQuantity"`
	NetQuantity         fixed.Decimal  `json:"netQuantity"`
}

// GetBorrowLendMarkets fetches all borrow/lend markets.
func (c *Client) GetBorrowLendMarkets(ctx context.Context) ([]BorrowLendMarket, error) {
	var markets []BorrowLendMarket
	if err := c.get(ctx, pathBorrowLendMarkets, "", &markets); err != nil {
		return nil, fmt.Errorf("get borrow lend markets: %w", err)
	}
	return markets, nil
}

// GetBorrowLendPositions fetches the account's open borrow/lend positions.
func (c *Client) GetBorrowLendPositions(ctx context.Context) ([]BorrowLendPosition, error) {
	var positions []BorrowLendPosition
	if err := c.get(ctx, pathBorrowLendPositions, "", &positions); err != nil {
		return nil, fmt.Errorf("get borrow lend positions: %w", err)
	}
	return positions, nil
}
