package api

import (
	"context"
	"fmt"

	"github.com/avelara/bpx-data/internal/fixed"
)

// Account endpoints. All require a signer.
const (
	pathAccount              = "/api/v1/account"
	pathAccountMaxBorrow     = "/api/v1/account/limits/borrow"
	pathAccountMaxOrder      = "/api/v1/account/limits/order"
	pathAccountMaxWithdrawal = "/api/v1/account/limits/withdrawal"
	pathAccountConvertDust   = "/api/v1/account/convertDust"
)

// AccountSettings are the account's trading settings and fee tiers.
type AccountSettings struct {
	AutoBorrowSettlements bool          `json:"autoBorrowSettlements"`
	AutoLend              bool          `json:"autoLend"`
	AutoRealizePnl        bool          `json:"autoRealizePnl"`
	AutoRepayBorrows      bool          `json:"autoRepayBorrows"`
	BorrowLimit           fixed.Decimal `json:"borrowLimit"`
	FuturesMakerFee       fixed.Decimal `json:"futuresMakerFee"`
	FuturesTakerFee       fixed.Decimal `json:"futuresTakerFee"`
	LeverageLimit         fixed.Decimal `json:"leverageLimit"`
	LimitOrders           uint64        `json:"limitOrders"`
	Liquidating           bool          `json:"liquidating"`
	PositionLimit         fixed.Decimal `json:"positionLimit"`
	SpotMakerFee          fixed.Decimal `json:"spotMakerFee"`
	SpotTakerFee          fixed.Decimal `json:"spotTakerFee"`
	TriggerOrders         uint64        `json:"triggerOrders"`
}

// UpdateAccountPayload carries the settings to change; nil fields are left
// untouched by the exchange.
type UpdateAccountPayload struct {
	AutoBorrowSettlements *bool          `json:"autoBorrowSettlements,omitempty"`
	AutoLend              *bool          `json:"autoLend,omitempty"`
	AutoRealizePnl        *bool          `json:"autoRealizePnl,omitempty"`
	AutoRepayBorrows      *bool          `json:"autoRepayBorrows,omitempty"`
	LeverageLimit         *fixed.Decimal `json:"leverageLimit,omitempty"`
}

// ConvertDustPayload names the asset whose dust balance to convert.
type ConvertDustPayload struct {
	Symbol string `json:"symbol"`
}

// MaxBorrowQuantity is the account's borrow headroom for one symbol.
type MaxBorrowQuantity struct {
	MaxBorrowQuantity fixed.Decimal `json:"maxBorrowQuantity"`
	Symbol            string        `json:"symbol"`
}

// MaxOrderQuantity is the largest order the account could currently place.
type MaxOrderQuantity struct {
	AutoBorrow       *bool          `json:"autoBorrow"`
	AutoBorrowRepay  *bool          `json:"autoBorrowRepay"`
	AutoLendRedeem   *bool          `json:"autoLendRedeem"`
	MaxOrderQuantity fixed.Decimal  `json:"maxOrderQuantity"`
	Price            *fixed.Decimal `json:"price"`
	Side             Side           `json:"side"`
	Symbol           string         `json:"symbol"`
	ReduceOnly       *bool          `json:"reduceOnly"`
}

// MaxWithdrawalQuantity is the account's withdrawal headroom for one symbol.
type MaxWithdrawalQuantity struct {
	AutoBorrow            *bool         `json:"autoBorrow"`
	AutoLendRedeem        *bool         `json:"autoLendRedeem"`
	MaxWithdrawalQuantity fixed.Decimal `json:"maxWithdrawalQuantity"`
	Symbol                string        `json:"symbol"`
}

// MaxOrderQuantityParams filters the max-order-quantity computation.
// Symbol and Side are mandatory; the rest are optional.
type MaxOrderQuantityParams struct {
	Symbol          string         `json:"symbol"`
	Side            Side           `json:"side"`
	Price           *fixed.Decimal `json:"price,omitempty"`
	ReduceOnly      *bool          `json:"reduceOnly,omitempty"`
	AutoBorrow      *bool          `json:"autoBorrow,omitempty"`
	AutoBorrowRepay *bool          `json:"autoBorrowRepay,omitempty"`
	AutoLendRedeem  *bool          `json:"autoLendRedeem,omitempty"`
}

func (p MaxOrderQuantityParams) encode() string {
	var b queryBuilder
	b.set("symbol", p.Symbol)
	b.set("side", string(p.Side))
	b.setDecimal("price", p.Price)
	b.setBool("reduceOnly", p.ReduceOnly)
	b.setBool("autoBorrow", p.AutoBorrow)
	b.setBool("autoBorrowRepay", p.AutoBorrowRepay)
	b.setBool("autoLendRedeem", p.AutoLendRedeem)
	return b.encode()
}

// MaxWithdrawalQuantityParams filters the max-withdrawal computation.
type MaxWithdrawalQuantityParams struct {
	Symbol         string `json:"symbol"`
	AutoBorrow     *bool  `json:"autoBorrow,omitempty"`
	AutoLendRedeem *bool  `json:"autoLendRedeem,omitempty"`
}

func (p MaxWithdrawalQuantityParams) encode() string {
	var b queryBuilder
	b.set("symbol", p.Symbol)
	b.setBool("autoBorrow", p.AutoBorrow)
	b.setBool("autoLendRedeem", p.AutoLendRedeem)
	return b.encode()
}

// GetAccount fetches the account's settings.
func (c *Client) GetAccount(ctx context.Context) (*AccountSettings, error) {
	var settings AccountSettings
	if err := c.get(ctx, pathAccount, "", &settings); err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &settings, nil
}

// UpdateAccount updates the account's settings.
func (c *Client) UpdateAccount(ctx context.Context, payload UpdateAccountPayload) error {
	if err := c.patch(ctx, pathAccount, payload); err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	return nil
}

// ConvertDustBalance converts a dust balance to USDC. The balance
// (including lend) must be below the spot book's minimum quantity.
func (c *Client) ConvertDustBalance(ctx context.Context, payload ConvertDustPayload) error {
	if err := c.post(ctx, pathAccountConvertDust, payload); err != nil {
		return fmt.Errorf("convert dust %s: %w", payload.Symbol, err)
	}
	return nil
}

// GetMaxBorrowQuantity fetches the account's maximum borrow for a symbol.
func (c *Client) GetMaxBorrowQuantity(ctx context.Context, symbol string) (*MaxBorrowQuantity, error) {
	var out MaxBorrowQuantity
	if err := c.get(ctx, pathAccountMaxBorrow, "symbol="+symbol, &out); err != nil {
		return nil, fmt.Errorf("get max borrow %s: %w", symbol, err)
	}
	return &out, nil
}

// GetMaxOrderQuantity fetches the maximum quantity the account can trade
// given balances, exposure and margin requirements.
func (c *Client) GetMaxOrderQuantity(ctx context.Context, params MaxOrderQuantityParams) (*MaxOrderQuantity, error) {
	var out MaxOrderQuantity
	if err := c.get(ctx, pathAccountMaxOrder, params.encode(), &out); err != nil {
		return nil, fmt.Errorf("get max order quantity %s: %w", params.Symbol, err)
	}
	return &out, nil
}

// GetMaxWithdrawalQuantity fetches the account's maximum withdrawal for a
// symbol.
func (c *Client) GetMaxWithdrawalQuantity(ctx context.Context, params MaxWithdrawalQuantityParams) (*MaxWithdrawalQuantity, error) {
	var out MaxWithdrawalQuantity
	if err := c.get(ctx, pathAccountMaxWithdrawal, params.encode(), &out); err != nil {
		return nil, fmt.Errorf("get max withdrawal %s: %w", params.Symbol, err)
	}
	return &out, nil
}
