package api

import "github.com/avelara/bpx-data/internal/fixed"

// MarginFunction is a named formula the exchange uses to compute a margin
// fraction from position size. The client only carries it.
type MarginFunction struct {
	Type   string        `json:"type"`
	Base   fixed.Decimal `json:"base"`
	Factor fixed.Decimal `json:"factor"`
}

// Asset is a coin that may have representations on multiple blockchains.
type Asset struct {
	Symbol string  `json:"symbol"`
	Tokens []Token `json:"tokens"`
}

// Token is one blockchain representation of an asset.
type Token struct {
	Blockchain        string         `json:"blockchain"`
	DepositEnabled    bool           `json:"depositEnabled"`
	MinimumDeposit    fixed.Decimal  `json:"minimumDeposit"`
	WithdrawEnabled   bool           `json:"withdrawEnabled"`
	MinimumWithdrawal fixed.Decimal  `json:"minimumWithdrawal"`
	MaximumWithdrawal *fixed.Decimal `json:"maximumWithdrawal"`
	WithdrawalFee     fixed.Decimal  `json:"withdrawalFee"`
}

// PriceLevel is a (price, quantity) pair as the exchange sends it: a
// two-element JSON array of decimal strings.
type PriceLevel [2]fixed.Decimal

// Price returns the level's price.
func (l PriceLevel) Price() fixed.Decimal { return l[0] }

// Quantity returns the level's quantity.
func (l PriceLevel) Quantity() fixed.Decimal { return l[1] }
