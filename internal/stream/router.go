package stream

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Router decodes raw pushed messages and routes them to per-stream buffers
// for the writers to consume.
type Router interface {
	// Start begins routing messages from the input channel to buffers.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the router.
	Stop(ctx context.Context) error

	// Buffers returns output buffers for writers to consume.
	Buffers() RouterBuffers

	// Stats returns current router statistics.
	Stats() RouterStats
}

// RouterConfig holds buffer sizing for the router outputs.
type RouterConfig struct {
	DepthBufferSize     int // Default: 5000
	TickerBufferSize    int // Default: 1000
	MarkPriceBufferSize int // Default: 1000
}

// DefaultRouterConfig returns default configuration.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		DepthBufferSize:     5000,
		TickerBufferSize:    1000,
		MarkPriceBufferSize: 1000,
	}
}

// RouterBuffers provides access to output buffers for writers.
type RouterBuffers struct {
	Depth     *GrowableBuffer[DepthMsg]
	Ticker    *GrowableBuffer[TickerMsg]
	MarkPrice *GrowableBuffer[MarkPriceMsg]
}

// RouterStats contains runtime statistics.
type RouterStats struct {
	MessagesReceived int64
	MessagesRouted   int64
	ParseErrors      int64
	UnknownStreams   int64
	DepthBuffer      BufferStats
	TickerBuffer     BufferStats
	MarkPriceBuffer  BufferStats
}

// DepthMsg pairs a decoded depth update with its local receive timestamp.
type DepthMsg struct {
	Update     DepthUpdate
	ReceivedAt time.Time
}

// TickerMsg pairs a decoded best bid/ask update with its local receive
// timestamp.
type TickerMsg struct {
	Update     TickerUpdate
	ReceivedAt time.Time
}

// MarkPriceMsg pairs a decoded mark price update with its local receive
// timestamp.
type MarkPriceMsg struct {
	Update     MarkPriceUpdate
	ReceivedAt time.Time
}

// router is the internal implementation.
type router struct {
	cfg    RouterConfig
	logger *slog.Logger

	// Input from the WebSocket client
	input <-chan TimestampedMessage

	// Output to writers (growable buffers)
	depthBuf     *GrowableBuffer[DepthMsg]
	tickerBuf    *GrowableBuffer[TickerMsg]
	markPriceBuf *GrowableBuffer[MarkPriceMsg]

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Stats
	mu             sync.RWMutex
	received       int64
	routed         int64
	parseErrors    int64
	unknownStreams int64
}

// NewRouter creates a new message router.
func NewRouter(cfg RouterConfig, input <-chan TimestampedMessage, logger *slog.Logger) Router {
	if logger == nil {
		logger = slog.Default()
	}

	return &router{
		cfg:          cfg,
		logger:       logger,
		input:        input,
		depthBuf:     NewGrowableBuffer[DepthMsg](cfg.DepthBufferSize),
		tickerBuf:    NewGrowableBuffer[TickerMsg](cfg.TickerBufferSize),
		markPriceBuf: NewGrowableBuffer[MarkPriceMsg](cfg.MarkPriceBufferSize),
	}
}

// Start begins routing messages.
func (r *router) Start(ctx context.Context) error {
	r.ctx, r.cancel = context.WithCancel(ctx)

	r.wg.Add(1)
	go r.routeLoop()

	r.logger.Info("message router started",
		"depth_buffer", r.cfg.DepthBufferSize,
		"ticker_buffer", r.cfg.TickerBufferSize,
		"mark_price_buffer", r.cfg.MarkPriceBufferSize,
	)

	return nil
}

// Stop gracefully shuts down the router.
func (r *router) Stop(ctx context.Context) error {
	r.logger.Info("stopping message router")

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
		r.logger.Info("message router stopped")
	case <-ctx.Done():
		r.logger.Warn("message router stop timed out")
	}

	r.depthBuf.Close()
	r.tickerBuf.Close()
	r.markPriceBuf.Close()

	return nil
}

// Buffers returns output buffers for writers.
func (r *router) Buffers() RouterBuffers {
	return RouterBuffers{
		Depth:     r.depthBuf,
		Ticker:    r.tickerBuf,
		MarkPrice: r.markPriceBuf,
	}
}

// Stats returns current statistics.
func (r *router) Stats() RouterStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return RouterStats{
		MessagesReceived: r.received,
		MessagesRouted:   r.routed,
		ParseErrors:      r.parseErrors,
		UnknownStreams:   r.unknownStreams,
		DepthBuffer:      r.depthBuf.Stats(),
		TickerBuffer:     r.tickerBuf.Stats(),
		MarkPriceBuffer:  r.markPriceBuf.Stats(),
	}
}

// routeLoop is the main routing goroutine.
func (r *router) routeLoop() {
	defer r.wg.Done()

	for {
		select {
		case <-r.ctx.Done():
			return
		case raw, ok := <-r.input:
			if !ok {
				r.logger.Info("input channel closed")
				return
			}
			r.route(raw)
		}
	}
}

// route decodes the envelope and dispatches by stream family.
func (r *router) route(raw TimestampedMessage) {
	r.mu.Lock()
	r.received++
	r.mu.Unlock()

	var env Envelope
	if err := json.Unmarshal(raw.Data, &env); err != nil {
		r.logger.Warn("failed to decode envelope", "error", err)
		r.countParseError()
		return
	}

	// Subscription acknowledgements carry no stream name.
	if env.Stream == "" {
		return
	}

	family, _, _ := strings.Cut(env.Stream, ".")

	var sent bool

	switch family {
	case "depth":
		var update DepthUpdate
		if err := json.Unmarshal(env.Data, &update); err != nil {
			r.logger.Warn("failed to decode depth update", "stream", env.Stream, "error", err)
			r.countParseError()
			return
		}
		sent = r.depthBuf.Send(DepthMsg{Update: update, ReceivedAt: raw.ReceivedAt})

	case "bookTicker":
		var update TickerUpdate
		if err := json.Unmarshal(env.Data, &update); err != nil {
			r.logger.Warn("failed to decode ticker update", "stream", env.Stream, "error", err)
			r.countParseError()
			return
		}
		sent = r.tickerBuf.Send(TickerMsg{Update: update, ReceivedAt: raw.ReceivedAt})

	case "markPrice":
		var update MarkPriceUpdate
		if err := json.Unmarshal(env.Data, &update); err != nil {
			r.logger.Warn("failed to decode mark price update", "stream", env.Stream, "error", err)
			r.countParseError()
			return
		}
		sent = r.markPriceBuf.Send(MarkPriceMsg{Update: update, ReceivedAt: raw.ReceivedAt})

	default:
		r.logger.Debug("skipping stream", "stream", env.Stream)
		r.mu.Lock()
		r.unknownStreams++
		r.mu.Unlock()
		return
	}

	if sent {
		r.mu.Lock()
		r.routed++
		r.mu.Unlock()
	}
}

func (r *router) countParseError() {
	r.mu.Lock()
	r.parseErrors++
	r.mu.Unlock()
}
