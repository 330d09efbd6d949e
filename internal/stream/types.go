package stream

import (
	"encoding/json"
	"errors"
	"time"
)

// Errors
var (
	ErrNotConnected    = errors.New("not connected")
	ErrStaleConnection = errors.New("connection stale (no ping)")
	ErrAlreadyClosed   = errors.New("already closed")
)

// TimestampedMessage wraps raw message data with receive timestamp.
type TimestampedMessage struct {
	Data       []byte    // Raw message bytes from WebSocket
	ReceivedAt time.Time // Local timestamp when ReadMessage() returned
}

// Command is a WebSocket command to send to the server.
type Command struct {
	Method string   `json:"method"`
	Params []string `json:"params"`
}

// Envelope wraps every pushed event: the stream it belongs to and the
// event payload.
type Envelope struct {
	Stream string          `json:"stream"`
	Data   json.RawMessage `json:"data"`
}

// Stream name constructors. A stream is "<type>.<symbol>".

// DepthStream names the order book delta stream for a symbol.
func DepthStream(symbol string) string { return "depth." + symbol }

// BookTickerStream names the best bid/ask stream for a symbol.
func BookTickerStream(symbol string) string { return "bookTicker." + symbol }

// TickerStream names the 24h rolling statistics stream for a symbol.
func TickerStream(symbol string) string { return "ticker." + symbol }

// KlineStream names the candlestick stream for a symbol and interval.
func KlineStream(interval, symbol string) string { return "kline." + interval + "." + symbol }

// MarkPriceStream names the mark price stream for a symbol.
func MarkPriceStream(symbol string) string { return "markPrice." + symbol }

// OpenInterestStream names the open interest stream for a symbol.
func OpenInterestStream(symbol string) string { return "openInterest." + symbol }

// ClientConfig configures a WebSocket client.
type ClientConfig struct {
	URL          string        // WebSocket URL (e.g. wss://ws.backpack.exchange)
	PingTimeout  time.Duration // Max time without ping before considering connection stale
	WriteTimeout time.Duration // Write deadline for sends
	BufferSize   int           // Message channel buffer size
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		URL:          "wss://ws.backpack.exchange",
		PingTimeout:  60 * time.Second,
		WriteTimeout: 5 * time.Second,
		BufferSize:   10000,
	}
}
