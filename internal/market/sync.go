package market

import (
	"context"
	"time"
)

// initialSync fetches the full market list on startup.
func (r *registry) initialSync(ctx context.Context) error {
	r.logger.Info("starting initial market sync")
	start := time.Now()

	markets, err := r.rest.GetMarkets(ctx)
	if err != nil {
		return err
	}

	now := time.Now()

	r.mu.Lock()
	for _, am := range markets {
		m := toModel(am, now)
		r.markets[m.Symbol] = m
	}
	r.lastSyncAt = now
	r.mu.Unlock()

	r.logger.Info("initial sync complete",
		"markets", len(markets),
		"duration", time.Since(start),
	)
	return nil
}

// reconcileLoop periodically syncs with the REST API.
func (r *registry) reconcileLoop(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.SyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.reconcile(ctx)
		}
	}
}

// reconcile fetches the market list and detects new or changed markets.
// Precision changes matter most: a tick size change mid-capture shifts the
// scale of every price that follows.
func (r *registry) reconcile(ctx context.Context) {
	start := time.Now()

	markets, err := r.rest.GetMarkets(ctx)
	if err != nil {
		r.logger.Error("reconciliation failed", "error", err)
		return
	}

	now := time.Now()
	var created, changed int

	r.mu.Lock()
	for _, am := range markets {
		m := toModel(am, now)
		existing, ok := r.markets[m.Symbol]

		if !ok {
			r.markets[m.Symbol] = m
			r.notifyChange(Change{Symbol: m.Symbol, EventType: "created", Market: m})
			created++
			continue
		}

		if existing.TickSize.Cmp(m.TickSize) != 0 ||
			existing.StepSize.Cmp(m.StepSize) != 0 ||
			existing.PriceDecimals != m.PriceDecimals ||
			existing.QuantityDecimals != m.QuantityDecimals {
			r.markets[m.Symbol] = m
			r.notifyChange(Change{Symbol: m.Symbol, EventType: "updated", Market: m})
			changed++
			continue
		}

		// No change worth notifying, still refresh the sync time
		r.markets[m.Symbol] = m
	}
	r.lastSyncAt = now
	r.mu.Unlock()

	if created > 0 || changed > 0 {
		r.logger.Info("reconciliation found changes",
			"created", created,
			"changed", changed,
			"duration", time.Since(start),
		)
	} else {
		r.logger.Debug("reconciliation complete",
			"markets", len(markets),
			"duration", time.Since(start),
		)
	}
}
