package writer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avelara/bpx-data/internal/model"
	"github.com/avelara/bpx-data/internal/stream"
)

// MarkPriceWriter consumes MarkPriceMsg from the router buffer and writes
// to the mark_prices table.
type MarkPriceWriter struct {
	cfg    WriterConfig
	logger *slog.Logger

	// Input from the message router
	input *stream.GrowableBuffer[stream.MarkPriceMsg]

	// Database
	db *pgxpool.Pool

	// Batching
	batch       []model.MarkPrice
	batchMu     sync.Mutex
	flushTicker *time.Ticker

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Metrics
	metrics WriterMetrics
}

// NewMarkPriceWriter creates a new MarkPriceWriter.
func NewMarkPriceWriter(
	cfg WriterConfig,
	input *stream.GrowableBuffer[stream.MarkPriceMsg],
	db *pgxpool.Pool,
	logger *slog.Logger,
) *MarkPriceWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &MarkPriceWriter{
		cfg:    cfg,
		input:  input,
		db:     db,
		logger: logger,
		batch:  make([]model.MarkPrice, 0, cfg.BatchSize),
	}
}

// Start begins consuming messages and writing to the database.
func (w *MarkPriceWriter) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.flushTicker = time.NewTicker(w.cfg.FlushInterval)

	w.wg.Add(1)
	go w.consumeLoop()

	w.wg.Add(1)
	go w.flushLoop()

	w.logger.Info("mark price writer started",
		"batch_size", w.cfg.BatchSize,
		"flush_interval", w.cfg.FlushInterval,
	)
	return nil
}

// Stop gracefully shuts down the writer.
func (w *MarkPriceWriter) Stop(ctx context.Context) error {
	w.logger.Info("stopping mark price writer")

	if w.cancel != nil {
		w.cancel()
	}

	if w.flushTicker != nil {
		w.flushTicker.Stop()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("mark price writer stopped")
	case <-ctx.Done():
		w.logger.Warn("mark price writer stop timed out")
	}

	// Final flush
	w.flush()

	return nil
}

// Stats returns current metrics.
func (w *MarkPriceWriter) Stats() WriterMetrics {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	return w.metrics
}

// consumeLoop reads from the input buffer and accumulates batches.
func (w *MarkPriceWriter) consumeLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		default:
			msg, ok := w.input.TryReceive()
			if !ok {
				select {
				case <-w.ctx.Done():
					return
				case <-time.After(10 * time.Millisecond):
					continue
				}
			}

			w.handleMessage(msg)
		}
	}
}

// flushLoop periodically flushes the batch.
func (w *MarkPriceWriter) flushLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.flushTicker.C:
			w.flush()
		}
	}
}

// handleMessage transforms and adds a message to the batch.
func (w *MarkPriceWriter) handleMessage(msg stream.MarkPriceMsg) {
	row := w.transform(msg)

	w.batchMu.Lock()
	w.batch = append(w.batch, row)
	shouldFlush := len(w.batch) >= w.cfg.BatchSize
	w.batchMu.Unlock()

	if shouldFlush {
		w.flush()
	}
}

// transform converts a MarkPriceMsg to a MarkPrice row.
func (w *MarkPriceWriter) transform(msg stream.MarkPriceMsg) model.MarkPrice {
	return model.MarkPrice{
		ExchangeTS:    msg.Update.EngineTimestamp,
		ReceivedAt:    msg.ReceivedAt.UnixMicro(),
		Symbol:        msg.Update.Symbol,
		MarkPrice:     msg.Update.MarkPrice,
		IndexPrice:    msg.Update.IndexPrice,
		FundingRate:   msg.Update.FundingRate,
		NextFundingTS: int64(msg.Update.FundingTimestamp),
	}
}

// flush writes the current batch to the database.
func (w *MarkPriceWriter) flush() {
	w.batchMu.Lock()
	if len(w.batch) == 0 {
		w.batchMu.Unlock()
		return
	}

	// Take ownership of the current batch
	batch := w.batch
	w.batch = make([]model.MarkPrice, 0, w.cfg.BatchSize)
	w.batchMu.Unlock()

	start := time.Now()

	conflicts, err := w.batchInsert(batch)
	if err != nil {
		w.logger.Error("batch insert failed", "error", err, "count", len(batch))
		w.batchMu.Lock()
		w.metrics.Errors++
		w.batchMu.Unlock()
		return
	}

	w.batchMu.Lock()
	w.metrics.Inserts += int64(len(batch) - conflicts)
	w.metrics.Conflicts += int64(conflicts)
	w.metrics.Flushes++
	w.batchMu.Unlock()

	w.logger.Debug("flushed mark prices",
		"count", len(batch),
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
}

// batchInsert inserts rows using pgx.Batch with ON CONFLICT DO NOTHING.
func (w *MarkPriceWriter) batchInsert(rows []model.MarkPrice) (conflicts int, err error) {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO mark_prices (exchange_ts, received_at, symbol, mark_price, index_price, funding_rate, next_funding_ts)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (symbol, exchange_ts) DO NOTHING
		`, r.ExchangeTS, r.ReceivedAt, r.Symbol, r.MarkPrice.String(), r.IndexPrice.String(), r.FundingRate.String(), r.NextFundingTS)
	}

	results := w.db.SendBatch(w.ctx, batch)
	defer results.Close()

	for range rows {
		ct, err := results.Exec()
		if err != nil {
			return 0, err
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}

	return conflicts, nil
}
