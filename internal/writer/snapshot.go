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
)

// SnapshotWriter writes full book snapshots captured by the REST poller.
// Snapshots arrive at poll cadence rather than stream rate, so writes are
// synchronous: one batch per snapshot, one row per level.
type SnapshotWriter struct {
	db     *pgxpool.Pool
	logger *slog.Logger

	mu      sync.Mutex
	metrics WriterMetrics
}

// NewSnapshotWriter creates a new SnapshotWriter.
func NewSnapshotWriter(db *pgxpool.Pool, logger *slog.Logger) *SnapshotWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotWriter{db: db, logger: logger}
}

// Write inserts all levels of one snapshot.
func (w *SnapshotWriter) Write(ctx context.Context, snap model.DepthSnapshot) error {
	batch := &pgx.Batch{}

	queue := func(side string, levels []model.Level) {
		for _, l := range levels {
			batch.Queue(`
				INSERT INTO depth_snapshots (snapshot_id, snapshot_ts, symbol, last_update_id, side, price, quantity)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, snap.SnapshotID, snap.SnapshotTS, snap.Symbol, snap.LastUpdateID, side, l.Price.String(), l.Quantity.String())
		}
	}
	queue(string(api.SideAsk), snap.Asks)
	queue(string(api.SideBid), snap.Bids)

	start := time.Now()

	results := w.db.SendBatch(ctx, batch)
	defer results.Close()

	rows := len(snap.Asks) + len(snap.Bids)
	for i := 0; i < rows; i++ {
		if _, err := results.Exec(); err != nil {
			w.mu.Lock()
			w.metrics.Errors++
			w.mu.Unlock()
			return err
		}
	}

	w.mu.Lock()
	w.metrics.Inserts += int64(rows)
	w.metrics.Flushes++
	w.mu.Unlock()

	w.logger.Debug("wrote depth snapshot",
		"symbol", snap.Symbol,
		"levels", rows,
		"duration", time.Since(start),
	)
	return nil
}

// Stats returns current metrics.
func (w *SnapshotWriter) Stats() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}
