package api

import (
	"testing"

	"github.com/avelara/bpx-data/internal/fixed"
)

// TestQueryBuilder tests ordering, nil skipping and determinism of the
// query string encoding.
func TestQueryBuilder(t *testing.T) {
	t.Run("empty builder encodes to empty string", func(t *testing.T) {
		var b queryBuilder
		if got := b.encode(); got != "" {
			t.Errorf("encode() = %q, want empty", got)
		}
	})

	t.Run("nil optionals never appear", func(t *testing.T) {
		var b queryBuilder
		b.setString("symbol", nil)
		b.setInt64("from", nil)
		b.setUint64("limit", nil)
		b.setBool("reduceOnly", nil)
		b.setDecimal("price", nil)
		if got := b.encode(); got != "" {
			t.Errorf("encode() = %q, want empty", got)
		}
	})

	t.Run("pairs keep insertion order", func(t *testing.T) {
		var b queryBuilder
		b.set("symbol", "SOL_USDC")
		b.setUint64("limit", Uint64(50))
		b.setBool("reduceOnly", Bool(false))
		want := "symbol=SOL_USDC&limit=50&reduceOnly=false"
		if got := b.encode(); got != want {
			t.Errorf("encode() = %q, want %q", got, want)
		}
	})

	t.Run("decimal values keep their exact text", func(t *testing.T) {
		var b queryBuilder
		b.setDecimal("price", Dec(fixed.MustParse("0.0100")))
		if got := b.encode(); got != "price=0.0100" {
			t.Errorf("encode() = %q, want %q", got, "price=0.0100")
		}
	})

	t.Run("encoding is deterministic", func(t *testing.T) {
		build := func() string {
			var b queryBuilder
			b.set("symbol", "BTC_USDC")
			setEnum(&b, "side", &[]Side{SideBid}[0])
			b.setUint64("limit", Uint64(10))
			return b.encode()
		}
		first := build()
		for i := 0; i < 10; i++ {
			if got := build(); got != first {
				t.Fatalf("encode() = %q on repeat, want %q", got, first)
			}
		}
	})
}

// TestMaxOrderQuantityParamsEncode tests the full optional surface of the
// order limit query.
func TestMaxOrderQuantityParamsEncode(t *testing.T) {
	t.Run("mandatory fields only", func(t *testing.T) {
		p := MaxOrderQuantityParams{Symbol: "SOL_USDC", Side: SideAsk}
		want := "symbol=SOL_USDC&side=Ask"
		if got := p.encode(); got != want {
			t.Errorf("encode() = %q, want %q", got, want)
		}
	})

	t.Run("all fields set", func(t *testing.T) {
		p := MaxOrderQuantityParams{
			Symbol:          "SOL_USDC",
			Side:            SideBid,
			Price:           Dec(fixed.MustParse("150.25")),
			ReduceOnly:      Bool(true),
			AutoBorrow:      Bool(false),
			AutoBorrowRepay: Bool(true),
			AutoLendRedeem:  Bool(false),
		}
		want := "symbol=SOL_USDC&side=Bid&price=150.25&reduceOnly=true&autoBorrow=false&autoBorrowRepay=true&autoLendRedeem=false"
		if got := p.encode(); got != want {
			t.Errorf("encode() = %q, want %q", got, want)
		}
	})
}

// TestKlineParamsEncode tests the kline query with and without optionals.
func TestKlineParamsEncode(t *testing.T) {
	t.Run("without optionals", func(t *testing.T) {
		p := KlineParams{Symbol: "SOL_USDC", Interval: Kline1h, StartTime: 1700000000}
		want := "symbol=SOL_USDC&interval=1h&startTime=1700000000"
		if got := p.encode(); got != want {
			t.Errorf("encode() = %q, want %q", got, want)
		}
	})

	t.Run("with end time and price type", func(t *testing.T) {
		priceType := KlinePriceMark
		p := KlineParams{
			Symbol:    "BTC_USDC_PERP",
			Interval:  Kline5m,
			StartTime: 1700000000,
			EndTime:   Int64(1700003600),
			PriceType: &priceType,
		}
		want := "symbol=BTC_USDC_PERP&interval=5m&startTime=1700000000&endTime=1700003600&priceType=Mark"
		if got := p.encode(); got != want {
			t.Errorf("encode() = %q, want %q", got, want)
		}
	})
}
