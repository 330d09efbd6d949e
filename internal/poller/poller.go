package poller

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/avelara/bpx-data/internal/api"
	"github.com/avelara/bpx-data/internal/model"
)

// SymbolSource provides the symbols to poll.
type SymbolSource interface {
	Symbols() []string
}

// SymbolSourceFunc is a function adapter for SymbolSource.
type SymbolSourceFunc func() []string

func (f SymbolSourceFunc) Symbols() []string { return f() }

// SnapshotHandler receives captured snapshots.
type SnapshotHandler interface {
	HandleSnapshot(ctx context.Context, snapshot model.DepthSnapshot) error
}

// SnapshotHandlerFunc is a function adapter for SnapshotHandler.
type SnapshotHandlerFunc func(ctx context.Context, snapshot model.DepthSnapshot) error

func (f SnapshotHandlerFunc) HandleSnapshot(ctx context.Context, s model.DepthSnapshot) error {
	return f(ctx, s)
}

// Config holds poller configuration.
type Config struct {
	Interval    time.Duration // Poll interval (default: 1m)
	Concurrency int           // Max concurrent requests (default: 10)
	Timeout     time.Duration // Per-request timeout (default: 10s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:    time.Minute,
		Concurrency: 10,
		Timeout:     10 * time.Second,
	}
}

// Poller periodically captures full depth snapshots via the REST API.
type Poller struct {
	cfg     Config
	client  *api.Client
	symbols SymbolSource
	handler SnapshotHandler
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Poller.
func New(cfg Config, client *api.Client, symbols SymbolSource, handler SnapshotHandler, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		cfg:     cfg,
		client:  client,
		symbols: symbols,
		handler: handler,
		logger:  logger,
	}
}

// Start begins the polling loop.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("snapshot poller started",
		"interval", p.cfg.Interval,
		"concurrency", p.cfg.Concurrency,
	)

	return nil
}

// Stop gracefully shuts down the poller.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("snapshot poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the main polling loop.
func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	// Poll immediately on start so the first delta window has an anchor.
	p.pollAll()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.pollAll()
		}
	}
}

// pollAll fetches the book for every symbol concurrently.
func (p *Poller) pollAll() {
	start := time.Now()

	symbols := p.symbols.Symbols()
	if len(symbols) == 0 {
		p.logger.Debug("no symbols to poll")
		return
	}

	// Semaphore for bounded concurrency.
	sem := make(chan struct{}, p.cfg.Concurrency)
	var wg sync.WaitGroup
	var fetched, errors atomic.Int64

	for _, symbol := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-p.ctx.Done():
				return
			}

			if err := p.pollSymbol(symbol); err != nil {
				p.logger.Warn("failed to poll symbol",
					"symbol", symbol,
					"error", err,
				)
				errors.Add(1)
				return
			}

			fetched.Add(1)
		}(symbol)
	}

	wg.Wait()

	p.logger.Info("poll cycle complete",
		"symbols", len(symbols),
		"fetched", fetched.Load(),
		"errors", errors.Load(),
		"duration", time.Since(start),
	)
}

// pollSymbol fetches and handles a single symbol's book.
func (p *Poller) pollSymbol(symbol string) error {
	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.Timeout)
	defer cancel()

	depth, err := p.client.GetOrderBookDepth(ctx, symbol)
	if err != nil {
		return err
	}

	snapshot := toSnapshot(symbol, depth, time.Now())

	if p.handler != nil {
		if err := p.handler.HandleSnapshot(ctx, snapshot); err != nil {
			return err
		}
	}

	return nil
}

// toSnapshot converts a REST depth response to a snapshot row set.
func toSnapshot(symbol string, depth *api.OrderBookDepth, capturedAt time.Time) model.DepthSnapshot {
	snap := model.DepthSnapshot{
		SnapshotID:   uuid.New(),
		SnapshotTS:   capturedAt.UnixMicro(),
		Symbol:       symbol,
		LastUpdateID: depth.LastUpdateID,
		Asks:         make([]model.Level, 0, len(depth.Asks)),
		Bids:         make([]model.Level, 0, len(depth.Bids)),
	}
	for _, l := range depth.Asks {
		snap.Asks = append(snap.Asks, model.Level{Price: l.Price(), Quantity: l.Quantity()})
	}
	for _, l := range depth.Bids {
		snap.Bids = append(snap.Bids, model.Level{Price: l.Price(), Quantity: l.Quantity()})
	}
	return snap
}
