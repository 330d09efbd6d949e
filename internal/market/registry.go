package market

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/avelara/bpx-data/internal/api"
	"github.com/avelara/bpx-data/internal/model"
)

// Registry tracks the exchange's markets and their precision. It loads the
// full market list on start and reconciles against the REST API on an
// interval, so writers and the poller always see current tick/step sizes.
type Registry interface {
	// Start performs the initial sync (blocking) and begins background
	// reconciliation.
	Start(ctx context.Context) error

	// Stop gracefully shuts down.
	Stop(ctx context.Context) error

	// Markets returns all known markets.
	Markets() []model.Market

	// Get returns a market by symbol.
	Get(symbol string) (model.Market, bool)

	// Changes returns a channel of market change notifications.
	Changes() <-chan Change
}

// Change is a market registry change notification.
type Change struct {
	Symbol    string
	EventType string // "created" or "updated"
	Market    model.Market
}

// Config holds registry configuration.
type Config struct {
	SyncInterval time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		SyncInterval: 5 * time.Minute,
	}
}

type registry struct {
	cfg    Config
	rest   *api.Client
	logger *slog.Logger

	mu         sync.RWMutex
	markets    map[string]model.Market
	lastSyncAt time.Time

	changes chan Change

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRegistry creates a new market registry.
func NewRegistry(cfg Config, rest *api.Client, logger *slog.Logger) Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &registry{
		cfg:     cfg,
		rest:    rest,
		logger:  logger,
		markets: make(map[string]model.Market),
		changes: make(chan Change, 100),
	}
}

// Start performs the initial sync and begins reconciliation.
func (r *registry) Start(ctx context.Context) error {
	r.ctx, r.cancel = context.WithCancel(ctx)

	if err := r.initialSync(r.ctx); err != nil {
		r.cancel()
		return err
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.reconcileLoop(r.ctx)
	}()

	r.mu.RLock()
	count := len(r.markets)
	r.mu.RUnlock()

	r.logger.Info("market registry started", "markets", count)
	return nil
}

// Stop gracefully shuts down.
func (r *registry) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("market registry stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Markets returns all known markets.
func (r *registry) Markets() []model.Market {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Market, 0, len(r.markets))
	for _, m := range r.markets {
		out = append(out, m)
	}
	return out
}

// Get returns a market by symbol.
func (r *registry) Get(symbol string) (model.Market, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.markets[symbol]
	return m, ok
}

// Changes returns the change notification channel.
func (r *registry) Changes() <-chan Change {
	return r.changes
}

// notifyChange sends a change notification without blocking.
func (r *registry) notifyChange(c Change) {
	select {
	case r.changes <- c:
	default:
		r.logger.Warn("change channel full, dropping notification", "symbol", c.Symbol)
	}
}

// toModel converts an API market to the registry's row type.
func toModel(m api.Market, syncedAt time.Time) model.Market {
	return model.Market{
		Symbol:           m.Symbol,
		BaseSymbol:       m.BaseSymbol,
		QuoteSymbol:      m.QuoteSymbol,
		MarketType:       string(m.MarketType),
		PriceDecimals:    m.PriceDecimalPlaces(),
		QuantityDecimals: m.QuantityDecimalPlaces(),
		TickSize:         m.Filters.Price.TickSize,
		StepSize:         m.Filters.Quantity.StepSize,
		MinQuantity:      m.Filters.Quantity.MinQuantity,
		MaxQuantity:      m.Filters.Quantity.MaxQuantity,
		UpdatedAt:        syncedAt.UnixMicro(),
	}
}
