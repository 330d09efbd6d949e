package writer

import (
	"context"
	"testing"
	"time"

	"github.com/avelara/bpx-data/internal/fixed"
	"github.com/avelara/bpx-data/internal/stream"
)

func TestTickerWriter_Transform(t *testing.T) {
	cfg := DefaultWriterConfig()
	input := stream.NewGrowableBuffer[stream.TickerMsg](10)
	w := NewTickerWriter(cfg, input, nil, nil)

	receivedAt := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	msg := stream.TickerMsg{
		Update: stream.TickerUpdate{
			EventType:   "bookTicker",
			Symbol:      "SOL_USDC",
			AskPrice:    fixed.MustParse("18.70"),
			AskQuantity: fixed.MustParse("1.000"),
			BidPrice:    fixed.MustParse("18.67"),
			BidQuantity: fixed.MustParse("2.000"),
			UpdateID:    778367,
			Timestamp:   1705320000000000,
		},
		ReceivedAt: receivedAt,
	}

	row := w.transform(msg)

	if row.Symbol != "SOL_USDC" {
		t.Errorf("Symbol = %q, want SOL_USDC", row.Symbol)
	}
	if row.BidPrice.String() != "18.67" {
		t.Errorf("BidPrice = %s, want 18.67", row.BidPrice)
	}
	if row.AskQuantity.String() != "1.000" {
		t.Errorf("AskQuantity = %s, want 1.000", row.AskQuantity)
	}
	if row.UpdateID != 778367 {
		t.Errorf("UpdateID = %d, want 778367", row.UpdateID)
	}
	if row.ExchangeTS != 1705320000000000 {
		t.Errorf("ExchangeTS = %d, want 1705320000000000", row.ExchangeTS)
	}
	if row.ReceivedAt != receivedAt.UnixMicro() {
		t.Errorf("ReceivedAt = %d, want %d", row.ReceivedAt, receivedAt.UnixMicro())
	}
}

func TestTickerWriter_Lifecycle(t *testing.T) {
	cfg := WriterConfig{
		BatchSize:     10,
		FlushInterval: 100 * time.Millisecond,
	}
	input := stream.NewGrowableBuffer[stream.TickerMsg](10)
	w := NewTickerWriter(cfg, input, nil, nil)

	ctx := context.Background()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	if err := w.Stop(stopCtx); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}

func TestTickerWriter_HandleMessage_AddsToBatch(t *testing.T) {
	cfg := WriterConfig{
		BatchSize:     100, // Large batch so no auto-flush
		FlushInterval: time.Hour,
	}
	input := stream.NewGrowableBuffer[stream.TickerMsg](10)
	w := NewTickerWriter(cfg, input, nil, nil)

	w.handleMessage(stream.TickerMsg{
		Update:     stream.TickerUpdate{Symbol: "SOL_USDC"},
		ReceivedAt: time.Now(),
	})

	w.batchMu.Lock()
	batchLen := len(w.batch)
	w.batchMu.Unlock()

	if batchLen != 1 {
		t.Errorf("batch length = %d, want 1", batchLen)
	}
}

func TestMarkPriceWriter_Transform(t *testing.T) {
	cfg := DefaultWriterConfig()
	input := stream.NewGrowableBuffer[stream.MarkPriceMsg](10)
	w := NewMarkPriceWriter(cfg, input, nil, nil)

	receivedAt := time.Date(2025, 5, 15, 6, 37, 11, 0, time.UTC)
	msg := stream.MarkPriceMsg{
		Update: stream.MarkPriceUpdate{
			EventType:        "markPrice",
			EventTime:        1747291031914525,
			Symbol:           "SOL_USDC_PERP",
			MarkPrice:        fixed.MustParse("173.35998175"),
			IndexPrice:       fixed.MustParse("173.44031179"),
			FundingRate:      fixed.MustParse("-0.0000039641039274236048482914"),
			FundingTimestamp: 1747296000000,
			EngineTimestamp:  1747291031910025,
		},
		ReceivedAt: receivedAt,
	}

	row := w.transform(msg)

	if row.Symbol != "SOL_USDC_PERP" {
		t.Errorf("Symbol = %q, want SOL_USDC_PERP", row.Symbol)
	}
	if row.MarkPrice.String() != "173.35998175" {
		t.Errorf("MarkPrice = %s, want 173.35998175", row.MarkPrice)
	}
	if row.FundingRate.String() != "-0.0000039641039274236048482914" {
		t.Errorf("FundingRate = %s", row.FundingRate)
	}
	if row.ExchangeTS != 1747291031910025 {
		t.Errorf("ExchangeTS = %d, want 1747291031910025", row.ExchangeTS)
	}
	if row.NextFundingTS != 1747296000000 {
		t.Errorf("NextFundingTS = %d, want 1747296000000", row.NextFundingTS)
	}
}

func TestMarkPriceWriter_Lifecycle(t *testing.T) {
	cfg := WriterConfig{
		BatchSize:     10,
		FlushInterval: 100 * time.Millisecond,
	}
	input := stream.NewGrowableBuffer[stream.MarkPriceMsg](10)
	w := NewMarkPriceWriter(cfg, input, nil, nil)

	ctx := context.Background()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	if err := w.Stop(stopCtx); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}

func TestDefaultWriterConfig(t *testing.T) {
	cfg := DefaultWriterConfig()
	if cfg.BatchSize != 1000 {
		t.Errorf("BatchSize = %d, want 1000", cfg.BatchSize)
	}
	if cfg.FlushInterval != time.Second {
		t.Errorf("FlushInterval = %v, want 1s", cfg.FlushInterval)
	}
}
