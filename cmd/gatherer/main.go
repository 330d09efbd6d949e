package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avelara/bpx-data/internal/api"
	"github.com/avelara/bpx-data/internal/auth"
	"github.com/avelara/bpx-data/internal/config"
	"github.com/avelara/bpx-data/internal/database"
	"github.com/avelara/bpx-data/internal/market"
	"github.com/avelara/bpx-data/internal/model"
	"github.com/avelara/bpx-data/internal/poller"
	"github.com/avelara/bpx-data/internal/stream"
	"github.com/avelara/bpx-data/internal/version"
	"github.com/avelara/bpx-data/internal/writer"
)

func main() {
	configPath := flag.String("config", "configs/gatherer.local.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting gatherer",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"rest_url", cfg.API.RestURL,
		"ws_url", cfg.API.WSURL,
		"symbols", len(cfg.Stream.Symbols),
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Timescale.Host,
		"port", cfg.Database.Timescale.Port,
		"database", cfg.Database.Timescale.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database.Timescale)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Create REST client. Market-data capture is unauthenticated; a signer
	// is attached only when credentials are configured.
	clientOpts := []api.ClientOption{
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
	}
	if cfg.API.APIKey != "" {
		creds, err := auth.LoadCredentials(cfg.API.APIKey, cfg.API.APISecret)
		if err != nil {
			logger.Error("failed to load credentials", "error", err)
			os.Exit(1)
		}
		clientOpts = append(clientOpts, api.WithSigner(creds))
	}
	apiClient := api.NewClient(cfg.API.RestURL, clientOpts...)

	// Create and start the market registry (blocking initial sync)
	registry := market.NewRegistry(market.Config{
		SyncInterval: cfg.Registry.SyncInterval,
	}, apiClient, logger)

	logger.Info("starting market registry (initial sync)")
	if err := registry.Start(ctx); err != nil {
		logger.Error("failed to start market registry", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		registry.Stop(shutdownCtx)
	}()

	// Message router fed by the stream supervisor
	messages := make(chan stream.TimestampedMessage, cfg.Stream.BufferSize)
	router := stream.NewRouter(stream.DefaultRouterConfig(), messages, logger)
	if err := router.Start(ctx); err != nil {
		logger.Error("failed to start router", "error", err)
		os.Exit(1)
	}

	// Writers
	writerCfg := writer.WriterConfig{
		BatchSize:     cfg.Writers.BatchSize,
		FlushInterval: cfg.Writers.FlushInterval,
	}
	buffers := router.Buffers()

	depthWriter := writer.NewDepthWriter(writerCfg, buffers.Depth, pool, logger)
	tickerWriter := writer.NewTickerWriter(writerCfg, buffers.Ticker, pool, logger)
	markPriceWriter := writer.NewMarkPriceWriter(writerCfg, buffers.MarkPrice, pool, logger)

	for name, w := range map[string]interface {
		Start(context.Context) error
	}{
		"depth":      depthWriter,
		"ticker":     tickerWriter,
		"mark_price": markPriceWriter,
	} {
		if err := w.Start(ctx); err != nil {
			logger.Error("failed to start writer", "writer", name, "error", err)
			os.Exit(1)
		}
	}

	// Stream supervisor: dials, subscribes, forwards, reconnects
	go runStream(ctx, cfg, registry, messages, logger)

	// Snapshot poller feeding the snapshot writer
	snapshotWriter := writer.NewSnapshotWriter(pool, logger)
	snapPoller := poller.New(poller.Config{
		Interval:    cfg.Poller.Interval,
		Concurrency: cfg.Poller.Concurrency,
		Timeout:     cfg.API.Timeout,
	}, apiClient,
		poller.SymbolSourceFunc(func() []string { return cfg.Stream.Symbols }),
		poller.SnapshotHandlerFunc(func(ctx context.Context, s model.DepthSnapshot) error {
			return snapshotWriter.Write(ctx, s)
		}),
		logger,
	)
	if err := snapPoller.Start(ctx); err != nil {
		logger.Error("failed to start poller", "error", err)
		os.Exit(1)
	}

	// Health server
	healthServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Health.Port),
		Handler: createHealthHandler(pool, registry, router, logger),
	}
	go func() {
		logger.Info("starting health server", "port", cfg.Health.Port)
		if err := healthServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("health server error", "error", err)
		}
	}()

	logger.Info("gatherer running",
		"instance_id", cfg.Instance.ID,
		"health_url", fmt.Sprintf("http://localhost:%d/health", cfg.Health.Port),
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	snapPoller.Stop(shutdownCtx)
	router.Stop(shutdownCtx)
	depthWriter.Stop(shutdownCtx)
	tickerWriter.Stop(shutdownCtx)
	markPriceWriter.Stop(shutdownCtx)
	healthServer.Shutdown(shutdownCtx)

	logger.Info("gatherer stopped")
}

// runStream owns the WebSocket connection: dial, subscribe, forward pushed
// messages into the router's input channel, and reconnect with exponential
// backoff when the connection breaks or goes stale.
func runStream(
	ctx context.Context,
	cfg *config.GathererConfig,
	registry market.Registry,
	out chan<- stream.TimestampedMessage,
	logger *slog.Logger,
) {
	delay := cfg.Stream.ReconnectBaseDelay

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		client := stream.NewClient(stream.ClientConfig{
			URL:          cfg.API.WSURL,
			PingTimeout:  cfg.Stream.PingTimeout,
			WriteTimeout: cfg.Stream.WriteTimeout,
			BufferSize:   cfg.Stream.BufferSize,
		}, logger)

		if err := client.Connect(ctx); err != nil {
			logger.Error("websocket connect failed", "error", err, "retry_in", delay)
			if !sleepCtx(ctx, delay) {
				return
			}
			delay = nextDelay(delay, cfg.Stream.ReconnectMaxDelay)
			continue
		}

		if err := client.Subscribe(streamNames(cfg.Stream.Symbols, registry)...); err != nil {
			logger.Error("subscribe failed", "error", err)
			client.Close()
			if !sleepCtx(ctx, delay) {
				return
			}
			delay = nextDelay(delay, cfg.Stream.ReconnectMaxDelay)
			continue
		}

		logger.Info("stream connected", "symbols", len(cfg.Stream.Symbols))
		delay = cfg.Stream.ReconnectBaseDelay

		// Forward until the connection dies
		forward(ctx, client, out, logger)

		client.Close()

		select {
		case <-ctx.Done():
			return
		default:
			logger.Warn("stream disconnected, reconnecting", "delay", delay)
			if !sleepCtx(ctx, delay) {
				return
			}
			delay = nextDelay(delay, cfg.Stream.ReconnectMaxDelay)
		}
	}
}

// forward pumps client messages into the router input until the client
// errors or the context ends.
func forward(ctx context.Context, client stream.Client, out chan<- stream.TimestampedMessage, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-client.Errors():
			logger.Warn("stream error", "error", err)
			return
		case msg := <-client.Messages():
			select {
			case out <- msg:
			case <-ctx.Done():
				return
			}
		}
	}
}

// streamNames builds the subscription list for the configured symbols.
// Mark price only exists on perpetuals, so the registry decides which
// symbols get that stream.
func streamNames(symbols []string, registry market.Registry) []string {
	names := make([]string, 0, len(symbols)*3)
	for _, s := range symbols {
		names = append(names, stream.DepthStream(s), stream.BookTickerStream(s))

		if m, ok := registry.Get(s); ok && m.MarketType != string(api.MarketTypeSpot) {
			names = append(names, stream.MarkPriceStream(s))
		} else if !ok && strings.HasSuffix(s, "_PERP") {
			names = append(names, stream.MarkPriceStream(s))
		}
	}
	return names
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func nextDelay(current, max time.Duration) time.Duration {
	next := current * 2
	if next > max {
		next = max
	}
	return next
}

// createHealthHandler creates the HTTP handler for health checks.
func createHealthHandler(pool *pgxpool.Pool, registry market.Registry, router stream.Router, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := struct {
			Status     string         `json:"status"`
			Components map[string]any `json:"components"`
		}{
			Status:     "healthy",
			Components: make(map[string]any),
		}

		if err := pool.Ping(ctx); err != nil {
			health.Status = "unhealthy"
			health.Components["timescaledb"] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
		} else {
			health.Components["timescaledb"] = "connected"
		}

		markets := registry.Markets()
		health.Components["market_registry"] = map[string]any{
			"markets": len(markets),
		}
		if len(markets) == 0 {
			health.Status = "degraded"
		}

		stats := router.Stats()
		health.Components["router"] = map[string]any{
			"received":        stats.MessagesReceived,
			"routed":          stats.MessagesRouted,
			"parse_errors":    stats.ParseErrors,
			"unknown_streams": stats.UnknownStreams,
		}

		w.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	})

	mux.HandleFunc("/debug/markets", func(w http.ResponseWriter, r *http.Request) {
		markets := registry.Markets()

		// Limit to first 100 for debugging
		limit := 100
		showing := markets
		if len(showing) > limit {
			showing = showing[:limit]
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"count":   len(markets),
			"showing": len(showing),
			"markets": showing,
		})
	})

	return mux
}
