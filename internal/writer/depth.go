package writer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avelara/bpx-data/internal/api"
	"github.com/avelara/bpx-data/internal/model"
	"github.com/avelara/bpx-data/internal/stream"
)

// DepthWriter consumes DepthMsg from the router buffer and writes to the
// depth_deltas table. A depth event with n changed levels fans out to n rows.
type DepthWriter struct {
	cfg    WriterConfig
	logger *slog.Logger

	// Input from the message router
	input *stream.GrowableBuffer[stream.DepthMsg]

	// Database
	db *pgxpool.Pool

	// Batching
	batch       []model.DepthDelta
	batchMu     sync.Mutex
	flushTicker *time.Ticker

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Metrics
	metrics WriterMetrics
}

// NewDepthWriter creates a new DepthWriter.
func NewDepthWriter(
	cfg WriterConfig,
	input *stream.GrowableBuffer[stream.DepthMsg],
	db *pgxpool.Pool,
	logger *slog.Logger,
) *DepthWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &DepthWriter{
		cfg:    cfg,
		input:  input,
		db:     db,
		logger: logger,
		batch:  make([]model.DepthDelta, 0, cfg.BatchSize),
	}
}

// Start begins consuming messages and writing to the database.
func (w *DepthWriter) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.flushTicker = time.NewTicker(w.cfg.FlushInterval)

	w.wg.Add(1)
	go w.consumeLoop()

	w.wg.Add(1)
	go w.flushLoop()

	w.logger.Info("depth writer started",
		"batch_size", w.cfg.BatchSize,
		"flush_interval", w.cfg.FlushInterval,
	)
	return nil
}

// Stop gracefully shuts down the writer.
func (w *DepthWriter) Stop(ctx context.Context) error {
	w.logger.Info("stopping depth writer")

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
		w.logger.Info("depth writer stopped")
	case <-ctx.Done():
		w.logger.Warn("depth writer stop timed out")
	}

	// Final flush
	w.flush()

	return nil
}

// Stats returns current metrics.
func (w *DepthWriter) Stats() WriterMetrics {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	return w.metrics
}

// consumeLoop reads from the input buffer and accumulates batches.
func (w *DepthWriter) consumeLoop() {
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
func (w *DepthWriter) flushLoop() {
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

// handleMessage fans out the event's levels and adds them to the batch.
func (w *DepthWriter) handleMessage(msg stream.DepthMsg) {
	rows := w.transform(msg)
	if len(rows) == 0 {
		return
	}

	w.batchMu.Lock()
	w.batch = append(w.batch, rows...)
	shouldFlush := len(w.batch) >= w.cfg.BatchSize
	w.batchMu.Unlock()

	if shouldFlush {
		w.flush()
	}
}

// transform converts a DepthMsg to one row per changed level.
func (w *DepthWriter) transform(msg stream.DepthMsg) []model.DepthDelta {
	rows := make([]model.DepthDelta, 0, len(msg.Update.Asks)+len(msg.Update.Bids))

	for _, level := range msg.Update.Asks {
		rows = append(rows, model.DepthDelta{
			ExchangeTS:    msg.Update.Timestamp,
			ReceivedAt:    msg.ReceivedAt.UnixMicro(),
			Symbol:        msg.Update.Symbol,
			Side:          string(api.SideAsk),
			Price:         level.Price(),
			Quantity:      level.Quantity(),
			FirstUpdateID: msg.Update.FirstUpdateID,
			LastUpdateID:  msg.Update.LastUpdateID,
		})
	}
	for _, level := range msg.Update.Bids {
		rows = append(rows, model.DepthDelta{
			ExchangeTS:    msg.Update.Timestamp,
			ReceivedAt:    msg.ReceivedAt.UnixMicro(),
			Symbol:        msg.Update.Symbol,
			Side:          string(api.SideBid),
			Price:         level.Price(),
			Quantity:      level.Quantity(),
			FirstUpdateID: msg.Update.FirstUpdateID,
			LastUpdateID:  msg.Update.LastUpdateID,
		})
	}

	return rows
}

// flush writes the current batch to the database.
func (w *DepthWriter) flush() {
	w.batchMu.Lock()
	if len(w.batch) == 0 {
		w.batchMu.Unlock()
		return
	}

	// Take ownership of the current batch
	batch := w.batch
	w.batch = make([]model.DepthDelta, 0, w.cfg.BatchSize)
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

	w.logger.Debug("flushed depth deltas",
		"count", len(batch),
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
}

// batchInsert inserts rows using pgx.Batch with ON CONFLICT DO NOTHING.
func (w *DepthWriter) batchInsert(rows []model.DepthDelta) (conflicts int, err error) {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(`
			INSERT INTO depth_deltas (exchange_ts, received_at, symbol, side, price, quantity, first_update_id, last_update_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (symbol, side, price, last_update_id) DO NOTHING
		`, r.ExchangeTS, r.ReceivedAt, r.Symbol, r.Side, r.Price.String(), r.Quantity.String(), r.FirstUpdateID, r.LastUpdateID)
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
