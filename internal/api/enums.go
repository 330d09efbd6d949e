package api

import (
	"encoding/json"
	"fmt"
)

// Wire enumerations. Each is a closed set with an explicit canonical wire
// string per variant; the wire form is data, never derived from the Go
// identifier. Decoding an unrecognized string fails with
// UnknownVariantError so that new server-side variants surface as decode
// failures instead of being coerced.

// UnknownVariantError reports a wire string outside an enumeration's
// known variant set.
type UnknownVariantError struct {
	Enum  string
	Value string
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("unknown %s variant %q", e.Enum, e.Value)
}

func decodeEnum[T ~string](data []byte, valid map[T]struct{}, enum string, out *T) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v := T(s)
	if _, ok := valid[v]; !ok {
		return &UnknownVariantError{Enum: enum, Value: s}
	}
	*out = v
	return nil
}

// MarketType identifies the kind of order book. All-uppercase wire form.
type MarketType string

const (
	MarketTypeSpot       MarketType = "SPOT"
	MarketTypePerp       MarketType = "PERP"
	MarketTypeIPerp      MarketType = "IPERP"
	MarketTypeDated      MarketType = "DATED"
	MarketTypePrediction MarketType = "PREDICTION"
	MarketTypeRFQ        MarketType = "RFQ"
)

var marketTypes = map[MarketType]struct{}{
	MarketTypeSpot: {}, MarketTypePerp: {}, MarketTypeIPerp: {},
	MarketTypeDated: {}, MarketTypePrediction: {}, MarketTypeRFQ: {},
}

func (v *MarketType) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, marketTypes, "MarketType", v)
}

// OrderBookState is the lifecycle state of a market's order book.
type OrderBookState string

const (
	OrderBookStateOpen       OrderBookState = "Open"
	OrderBookStateClosed     OrderBookState = "Closed"
	OrderBookStateCancelOnly OrderBookState = "CancelOnly"
	OrderBookStateLimitOnly  OrderBookState = "LimitOnly"
	OrderBookStatePostOnly   OrderBookState = "PostOnly"
)

var orderBookStates = map[OrderBookState]struct{}{
	OrderBookStateOpen: {}, OrderBookStateClosed: {}, OrderBookStateCancelOnly: {},
	OrderBookStateLimitOnly: {}, OrderBookStatePostOnly: {},
}

func (v *OrderBookState) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, orderBookStates, "OrderBookState", v)
}

// Side of an order or fill. Backpack uses Bid/Ask rather than Buy/Sell.
type Side string

const (
	SideBid Side = "Bid"
	SideAsk Side = "Ask"
)

var sides = map[Side]struct{}{SideBid: {}, SideAsk: {}}

func (v *Side) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, sides, "Side", v)
}

// OrderType distinguishes resting and immediate orders.
type OrderType string

const (
	OrderTypeMarket OrderType = "Market"
	OrderTypeLimit  OrderType = "Limit"
)

var orderTypes = map[OrderType]struct{}{OrderTypeMarket: {}, OrderTypeLimit: {}}

func (v *OrderType) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, orderTypes, "OrderType", v)
}

// OrderStatus is the terminal or resting state of an order.
type OrderStatus string

const (
	OrderStatusNew             OrderStatus = "New"
	OrderStatusPartiallyFilled OrderStatus = "PartiallyFilled"
	OrderStatusFilled          OrderStatus = "Filled"
	OrderStatusCancelled       OrderStatus = "Cancelled"
	OrderStatusExpired         OrderStatus = "Expired"
	OrderStatusTriggerPending  OrderStatus = "TriggerPending"
	OrderStatusTriggerFailed   OrderStatus = "TriggerFailed"
)

var orderStatuses = map[OrderStatus]struct{}{
	OrderStatusNew: {}, OrderStatusPartiallyFilled: {}, OrderStatusFilled: {},
	OrderStatusCancelled: {}, OrderStatusExpired: {}, OrderStatusTriggerPending: {},
	OrderStatusTriggerFailed: {},
}

func (v *OrderStatus) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, orderStatuses, "OrderStatus", v)
}

// ExpiryReason explains why an order left the book without filling.
type ExpiryReason string

const (
	ExpiryReasonAccountLiquidated              ExpiryReason = "AccountLiquidated"
	ExpiryReasonFillOrKill                     ExpiryReason = "FillOrKill"
	ExpiryReasonInsufficientBorrowableQuantity ExpiryReason = "InsufficientBorrowableQuantity"
	ExpiryReasonInsufficientFunds              ExpiryReason = "InsufficientFunds"
	ExpiryReasonInsufficientLiquidity          ExpiryReason = "InsufficientLiquidity"
	ExpiryReasonInvalidPrice                   ExpiryReason = "InvalidPrice"
	ExpiryReasonInvalidQuantity                ExpiryReason = "InvalidQuantity"
	ExpiryReasonInsufficientMargin             ExpiryReason = "InsufficientMargin"
	ExpiryReasonLiquidation                    ExpiryReason = "Liquidation"
	ExpiryReasonPostOnlyTaker                  ExpiryReason = "PostOnlyTaker"
	ExpiryReasonPriceOutOfBounds               ExpiryReason = "PriceOutOfBounds"
	ExpiryReasonReduceOnlyNotReduced           ExpiryReason = "ReduceOnlyNotReduced"
	ExpiryReasonSelfTradePrevention            ExpiryReason = "SelfTradePrevention"
	ExpiryReasonUnknown                        ExpiryReason = "Unknown"
	ExpiryReasonUserPermissions                ExpiryReason = "UserPermissions"
)

var expiryReasons = map[ExpiryReason]struct{}{
	ExpiryReasonAccountLiquidated: {}, ExpiryReasonFillOrKill: {},
	ExpiryReasonInsufficientBorrowableQuantity: {}, ExpiryReasonInsufficientFunds: {},
	ExpiryReasonInsufficientLiquidity: {}, ExpiryReasonInvalidPrice: {},
	ExpiryReasonInvalidQuantity: {}, ExpiryReasonInsufficientMargin: {},
	ExpiryReasonLiquidation: {}, ExpiryReasonPostOnlyTaker: {},
	ExpiryReasonPriceOutOfBounds: {}, ExpiryReasonReduceOnlyNotReduced: {},
	ExpiryReasonSelfTradePrevention: {}, ExpiryReasonUnknown: {},
	ExpiryReasonUserPermissions: {},
}

func (v *ExpiryReason) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, expiryReasons, "ExpiryReason", v)
}

// FillType identifies the system mechanism that produced a fill.
type FillType string

const (
	FillTypeUser                                   FillType = "User"
	FillTypeBookLiquidation                        FillType = "BookLiquidation"
	FillTypeAdl                                    FillType = "Adl"
	FillTypeBackstop                               FillType = "Backstop"
	FillTypeLiquidation                            FillType = "Liquidation"
	FillTypeAllLiquidation                         FillType = "AllLiquidation"
	FillTypeCollateralConversion                   FillType = "CollateralConversion"
	FillTypeCollateralConversionAndSpotLiquidation FillType = "CollateralConversionAndSpotLiquidation"
)

var fillTypes = map[FillType]struct{}{
	FillTypeUser: {}, FillTypeBookLiquidation: {}, FillTypeAdl: {},
	FillTypeBackstop: {}, FillTypeLiquidation: {}, FillTypeAllLiquidation: {},
	FillTypeCollateralConversion: {}, FillTypeCollateralConversionAndSpotLiquidation: {},
}

func (v *FillType) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, fillTypes, "FillType", v)
}

// SystemOrderType identifies the system order that triggered a fill.
type SystemOrderType string

const (
	SystemOrderTypeCollateralConversion        SystemOrderType = "CollateralConversion"
	SystemOrderTypeFutureExpiry                SystemOrderType = "FutureExpiry"
	SystemOrderTypeLiquidatePositionOnAdl      SystemOrderType = "LiquidatePositionOnAdl"
	SystemOrderTypeLiquidatePositionOnBook     SystemOrderType = "LiquidatePositionOnBook"
	SystemOrderTypeLiquidatePositionOnBackstop SystemOrderType = "LiquidatePositionOnBackstop"
	SystemOrderTypeOrderBookClosed             SystemOrderType = "OrderBookClosed"
)

var systemOrderTypes = map[SystemOrderType]struct{}{
	SystemOrderTypeCollateralConversion: {}, SystemOrderTypeFutureExpiry: {},
	SystemOrderTypeLiquidatePositionOnAdl: {}, SystemOrderTypeLiquidatePositionOnBook: {},
	SystemOrderTypeLiquidatePositionOnBackstop: {}, SystemOrderTypeOrderBookClosed: {},
}

func (v *SystemOrderType) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, systemOrderTypes, "SystemOrderType", v)
}

// TimeInForce controls how long an order rests.
type TimeInForce string

const (
	TimeInForceGTC TimeInForce = "GTC"
	TimeInForceIOC TimeInForce = "IOC"
	TimeInForceFOK TimeInForce = "FOK"
)

var timeInForces = map[TimeInForce]struct{}{
	TimeInForceGTC: {}, TimeInForceIOC: {}, TimeInForceFOK: {},
}

func (v *TimeInForce) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, timeInForces, "TimeInForce", v)
}

// SelfTradePrevention controls matching against one's own orders.
type SelfTradePrevention string

const (
	SelfTradePreventionRejectTaker SelfTradePrevention = "RejectTaker"
	SelfTradePreventionRejectMaker SelfTradePrevention = "RejectMaker"
	SelfTradePreventionRejectBoth  SelfTradePrevention = "RejectBoth"
	SelfTradePreventionAllow       SelfTradePrevention = "Allow"
)

var selfTradePreventions = map[SelfTradePrevention]struct{}{
	SelfTradePreventionRejectTaker: {}, SelfTradePreventionRejectMaker: {},
	SelfTradePreventionRejectBoth: {}, SelfTradePreventionAllow: {},
}

func (v *SelfTradePrevention) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, selfTradePreventions, "SelfTradePrevention", v)
}

// SlippageToleranceType qualifies a strategy's slippage tolerance value.
type SlippageToleranceType string

const (
	SlippageToleranceTypeTickSize SlippageToleranceType = "TickSize"
	SlippageToleranceTypePercent  SlippageToleranceType = "Percent"
)

var slippageToleranceTypes = map[SlippageToleranceType]struct{}{
	SlippageToleranceTypeTickSize: {}, SlippageToleranceTypePercent: {},
}

func (v *SlippageToleranceType) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, slippageToleranceTypes, "SlippageToleranceType", v)
}

// SortDirection orders history results.
type SortDirection string

const (
	SortAsc  SortDirection = "Asc"
	SortDesc SortDirection = "Desc"
)

var sortDirections = map[SortDirection]struct{}{SortAsc: {}, SortDesc: {}}

func (v *SortDirection) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, sortDirections, "SortDirection", v)
}

// StrategyStatus is the state of a server-side execution strategy.
type StrategyStatus string

const (
	StrategyStatusRunning    StrategyStatus = "Running"
	StrategyStatusCompleted  StrategyStatus = "Completed"
	StrategyStatusCancelled  StrategyStatus = "Cancelled"
	StrategyStatusTerminated StrategyStatus = "Terminated"
)

var strategyStatuses = map[StrategyStatus]struct{}{
	StrategyStatusRunning: {}, StrategyStatusCompleted: {},
	StrategyStatusCancelled: {}, StrategyStatusTerminated: {},
}

func (v *StrategyStatus) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, strategyStatuses, "StrategyStatus", v)
}

// StrategyCancelReason explains a non-success terminal strategy outcome.
type StrategyCancelReason string

const (
	StrategyCancelExpired                        StrategyCancelReason = "Expired"
	StrategyCancelFillOrKill                     StrategyCancelReason = "FillOrKill"
	StrategyCancelInsufficientBorrowableQuantity StrategyCancelReason = "InsufficientBorrowableQuantity"
	StrategyCancelInsufficientFunds              StrategyCancelReason = "InsufficientFunds"
	StrategyCancelInsufficientLiquidity          StrategyCancelReason = "InsufficientLiquidity"
	StrategyCancelInvalidPrice                   StrategyCancelReason = "InvalidPrice"
	StrategyCancelInvalidQuantity                StrategyCancelReason = "InvalidQuantity"
	StrategyCancelInsufficientMargin             StrategyCancelReason = "InsufficientMargin"
	StrategyCancelLiquidation                    StrategyCancelReason = "Liquidation"
	StrategyCancelPriceOutOfBounds               StrategyCancelReason = "PriceOutOfBounds"
	StrategyCancelReduceOnlyNotReduced           StrategyCancelReason = "ReduceOnlyNotReduced"
	StrategyCancelSelfTradePrevention            StrategyCancelReason = "SelfTradePrevention"
	StrategyCancelUnknown                        StrategyCancelReason = "Unknown"
	StrategyCancelUserPermissions                StrategyCancelReason = "UserPermissions"
)

var strategyCancelReasons = map[StrategyCancelReason]struct{}{
	StrategyCancelExpired: {}, StrategyCancelFillOrKill: {},
	StrategyCancelInsufficientBorrowableQuantity: {}, StrategyCancelInsufficientFunds: {},
	StrategyCancelInsufficientLiquidity: {}, StrategyCancelInvalidPrice: {},
	StrategyCancelInvalidQuantity: {}, StrategyCancelInsufficientMargin: {},
	StrategyCancelLiquidation: {}, StrategyCancelPriceOutOfBounds: {},
	StrategyCancelReduceOnlyNotReduced: {}, StrategyCancelSelfTradePrevention: {},
	StrategyCancelUnknown: {}, StrategyCancelUserPermissions: {},
}

func (v *StrategyCancelReason) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, strategyCancelReasons, "StrategyCancelReason", v)
}

// PositionUpdateType is the lifecycle event carried on a position stream
// update. Lower-camel wire form, unlike the PascalCase reason families.
type PositionUpdateType string

const (
	PositionAdjusted PositionUpdateType = "positionAdjusted"
	PositionOpened   PositionUpdateType = "positionOpened"
	PositionClosed   PositionUpdateType = "positionClosed"
)

var positionUpdateTypes = map[PositionUpdateType]struct{}{
	PositionAdjusted: {}, PositionOpened: {}, PositionClosed: {},
}

func (v *PositionUpdateType) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, positionUpdateTypes, "PositionUpdateType", v)
}

// BorrowLendMarketState is the lifecycle state of a borrow/lend market.
type BorrowLendMarketState string

const (
	BorrowLendMarketOpen      BorrowLendMarketState = "Open"
	BorrowLendMarketClosed    BorrowLendMarketState = "Closed"
	BorrowLendMarketRepayOnly BorrowLendMarketState = "RepayOnly"
)

var borrowLendMarketStates = map[BorrowLendMarketState]struct{}{
	BorrowLendMarketOpen: {}, BorrowLendMarketClosed: {}, BorrowLendMarketRepayOnly: {},
}

func (v *BorrowLendMarketState) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, borrowLendMarketStates, "BorrowLendMarketState", v)
}

// KlineInterval is a candlestick bucket width.
type KlineInterval string

const (
	Kline1m  KlineInterval = "1m"
	Kline3m  KlineInterval = "3m"
	Kline5m  KlineInterval = "5m"
	Kline15m KlineInterval = "15m"
	Kline30m KlineInterval = "30m"
	Kline1h  KlineInterval = "1h"
	Kline2h  KlineInterval = "2h"
	Kline4h  KlineInterval = "4h"
	Kline6h  KlineInterval = "6h"
	Kline8h  KlineInterval = "8h"
	Kline12h KlineInterval = "12h"
	Kline1d  KlineInterval = "1d"
	Kline3d  KlineInterval = "3d"
	Kline1w  KlineInterval = "1w"
	Kline1mo KlineInterval = "1month"
)

var klineIntervals = map[KlineInterval]struct{}{
	Kline1m: {}, Kline3m: {}, Kline5m: {}, Kline15m: {}, Kline30m: {},
	Kline1h: {}, Kline2h: {}, Kline4h: {}, Kline6h: {}, Kline8h: {},
	Kline12h: {}, Kline1d: {}, Kline3d: {}, Kline1w: {}, Kline1mo: {},
}

func (v *KlineInterval) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, klineIntervals, "KlineInterval", v)
}

// KlinePriceType selects which price series a kline aggregates.
type KlinePriceType string

const (
	KlinePriceLast  KlinePriceType = "Last"
	KlinePriceIndex KlinePriceType = "Index"
	KlinePriceMark  KlinePriceType = "Mark"
)

var klinePriceTypes = map[KlinePriceType]struct{}{
	KlinePriceLast: {}, KlinePriceIndex: {}, KlinePriceMark: {},
}

func (v *KlinePriceType) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, klinePriceTypes, "KlinePriceType", v)
}
