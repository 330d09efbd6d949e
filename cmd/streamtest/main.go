// streamtest connects to the exchange WebSocket and prints decoded events
// to the console. Useful for verifying stream subscriptions and payload
// decoding without a database.
//
// Usage: go run ./cmd/streamtest --symbols SOL_USDC,SOL_USDC_PERP
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/avelara/bpx-data/internal/stream"
)

func main() {
	wsURL := flag.String("url", "wss://ws.backpack.exchange", "WebSocket endpoint")
	symbolsFlag := flag.String("symbols", "SOL_USDC", "comma-separated symbols")
	verbose := flag.Bool("verbose", false, "print full message JSON")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	symbols := strings.Split(*symbolsFlag, ",")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	cfg := stream.DefaultClientConfig()
	cfg.URL = *wsURL

	client := stream.NewClient(cfg, logger)
	if err := client.Connect(ctx); err != nil {
		logger.Error("connect failed", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	var names []string
	for _, s := range symbols {
		names = append(names, stream.DepthStream(s), stream.BookTickerStream(s))
		if strings.HasSuffix(s, "_PERP") {
			names = append(names, stream.MarkPriceStream(s))
		}
	}

	if err := client.Subscribe(names...); err != nil {
		logger.Error("subscribe failed", "error", err)
		os.Exit(1)
	}

	logger.Info("subscribed", "streams", names)

	var counts = map[string]int{}
	statsTicker := time.NewTicker(10 * time.Second)
	defer statsTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("done", "counts", fmt.Sprint(counts))
			return

		case err := <-client.Errors():
			logger.Error("stream error", "error", err)
			return

		case <-statsTicker.C:
			logger.Info("stream stats", "counts", fmt.Sprint(counts))

		case msg := <-client.Messages():
			var env stream.Envelope
			if err := json.Unmarshal(msg.Data, &env); err != nil {
				logger.Warn("bad envelope", "error", err)
				continue
			}
			if env.Stream == "" {
				continue // subscription ack
			}

			family, _, _ := strings.Cut(env.Stream, ".")
			counts[family]++

			if *verbose {
				fmt.Printf("%s %s\n", env.Stream, env.Data)
				continue
			}

			switch family {
			case "bookTicker":
				var u stream.TickerUpdate
				if err := json.Unmarshal(env.Data, &u); err == nil {
					fmt.Printf("%-24s bid %s x %s  ask %s x %s\n",
						env.Stream, u.BidPrice, u.BidQuantity, u.AskPrice, u.AskQuantity)
				}
			case "markPrice":
				var u stream.MarkPriceUpdate
				if err := json.Unmarshal(env.Data, &u); err == nil {
					fmt.Printf("%-24s mark %s index %s funding %s\n",
						env.Stream, u.MarkPrice, u.IndexPrice, u.FundingRate)
				}
			case "depth":
				var u stream.DepthUpdate
				if err := json.Unmarshal(env.Data, &u); err == nil {
					fmt.Printf("%-24s %d asks %d bids (u=%d)\n",
						env.Stream, len(u.Asks), len(u.Bids), u.LastUpdateID)
				}
			}
		}
	}
}
