package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"
)

// TestNewClient tests client construction with various options.
func TestNewClient(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := NewClient("https://api.example.com")

		if c.baseURL != "https://api.example.com" {
			t.Errorf("baseURL = %q, want %q", c.baseURL, "https://api.example.com")
		}
		if c.httpClient.Timeout != 30*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 30*time.Second)
		}
		if c.signer != nil {
			t.Error("signer should be nil by default")
		}
		if c.logger == nil {
			t.Error("logger should not be nil")
		}
	})

	t.Run("empty base URL falls back to production", func(t *testing.T) {
		c := NewClient("")
		if c.baseURL != DefaultBaseURL {
			t.Errorf("baseURL = %q, want %q", c.baseURL, DefaultBaseURL)
		}
	})

	t.Run("with timeout option", func(t *testing.T) {
		c := NewClient("https://api.example.com", WithTimeout(5*time.Second))
		if c.httpClient.Timeout != 5*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 5*time.Second)
		}
	})

	t.Run("with logger option", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		c := NewClient("https://api.example.com", WithLogger(logger))
		if c.logger != logger {
			t.Error("logger not set correctly")
		}
	})

	t.Run("with custom HTTP client", func(t *testing.T) {
		customClient := &http.Client{Timeout: 10 * time.Second}
		c := NewClient("https://api.example.com", WithHTTPClient(customClient))
		if c.httpClient != customClient {
			t.Error("custom HTTP client not set")
		}
	})
}

// TestAPIError tests that non-2xx responses surface status and body.
func TestAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":"INVALID_SYMBOL","message":"Invalid symbol"}`))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	_, err := c.GetMarket(context.Background(), "NOPE_USDC")
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, http.StatusBadRequest)
	}
	if string(apiErr.Body) != `{"code":"INVALID_SYMBOL","message":"Invalid symbol"}` {
		t.Errorf("Body = %q, want raw server body", apiErr.Body)
	}
}

// TestTransportError tests that connection failures are classified apart
// from HTTP-level errors.
func TestTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	c := NewClient(server.URL)
	_, err := c.GetMarkets(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected *TransportError, got %T: %v", err, err)
	}
}

// TestDecodeError tests that malformed response bodies are reported with
// the endpoint path and preserve the underlying cause.
func TestDecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbol": 42}`))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	_, err := c.GetTicker(context.Background(), "SOL_USDC")
	if err == nil {
		t.Fatal("expected error")
	}

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected *DecodeError, got %T: %v", err, err)
	}
	if decodeErr.Path != pathTicker {
		t.Errorf("Path = %q, want %q", decodeErr.Path, pathTicker)
	}
	if decodeErr.Unwrap() == nil {
		t.Error("DecodeError should wrap the underlying cause")
	}
}

// TestUnknownEnumVariantSurfaces tests that an unrecognized enum value in a
// response is rejected rather than passed through.
func TestUnknownEnumVariantSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"clientId":null,"fee":"0.1","feeSymbol":"USDC","isMaker":false,
			"orderId":"1","price":"100","quantity":"1","side":"Teleport","symbol":"SOL_USDC",
			"systemOrderType":null,"timestamp":"2024-01-01T00:00:00","tradeId":1}]`))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	_, err := c.GetFillHistory(context.Background(), FillHistoryParams{})
	if err == nil {
		t.Fatal("expected error")
	}

	var unknownErr *UnknownVariantError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected *UnknownVariantError, got %T: %v", err, err)
	}
	if unknownErr.Value != "Teleport" {
		t.Errorf("Value = %q, want %q", unknownErr.Value, "Teleport")
	}
}

// TestGetOrderBookDepth tests the depth endpoint end to end, including
// lossless decimal decoding of price levels.
func TestGetOrderBookDepth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/depth" {
			t.Errorf("path = %q, want /api/v1/depth", r.URL.Path)
		}
		if r.URL.RawQuery != "symbol=BTC_USDC" {
			t.Errorf("query = %q, want symbol=BTC_USDC", r.URL.RawQuery)
		}
		w.Write([]byte(`{
			"asks": [["64000.10", "0.0500"], ["64000.20", "1.2000"]],
			"bids": [["63999.90", "0.7500"]],
			"lastUpdateId": "123456789"
		}`))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	depth, err := c.GetOrderBookDepth(context.Background(), "BTC_USDC")
	if err != nil {
		t.Fatalf("GetOrderBookDepth() error = %v", err)
	}

	if len(depth.Asks) != 2 || len(depth.Bids) != 1 {
		t.Fatalf("levels = %d asks, %d bids; want 2, 1", len(depth.Asks), len(depth.Bids))
	}
	if got := depth.Asks[0].Price().String(); got != "64000.10" {
		t.Errorf("ask price = %q, want %q", got, "64000.10")
	}
	if got := depth.Asks[0].Quantity().String(); got != "0.0500" {
		t.Errorf("ask quantity = %q, want %q", got, "0.0500")
	}
	if depth.LastUpdateID != "123456789" {
		t.Errorf("LastUpdateID = %q, want %q", depth.LastUpdateID, "123456789")
	}
}

// TestGetMarketPrecision tests that price/quantity decimal places are
// derived from the market's filter scales.
func TestGetMarketPrecision(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"symbol": "SOL_USDC",
			"baseSymbol": "SOL",
			"quoteSymbol": "USDC",
			"marketType": "SPOT",
			"filters": {
				"price": {"minPrice": "0.01", "tickSize": "0.01"},
				"quantity": {"minQuantity": "0.01", "stepSize": "0.0001"}
			},
			"orderBookState": "Open",
			"createdAt": "2023-06-01T00:00:00"
		}`))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	market, err := c.GetMarket(context.Background(), "SOL_USDC")
	if err != nil {
		t.Fatalf("GetMarket() error = %v", err)
	}

	if got := market.PriceDecimalPlaces(); got != 2 {
		t.Errorf("PriceDecimalPlaces() = %d, want 2", got)
	}
	if got := market.QuantityDecimalPlaces(); got != 4 {
		t.Errorf("QuantityDecimalPlaces() = %d, want 4", got)
	}
	if market.MarketType != MarketTypeSpot {
		t.Errorf("MarketType = %q, want %q", market.MarketType, MarketTypeSpot)
	}
}

// TestSignerHeadersApplied tests that signer-provided headers are attached
// to authenticated requests.
func TestSignerHeadersApplied(t *testing.T) {
	var gotKey, gotSignature string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		gotSignature = r.Header.Get("X-Signature")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	signer := signerFunc(func(method, path, query string, body []byte) (http.Header, error) {
		h := http.Header{}
		h.Set("X-API-Key", "test-key")
		h.Set("X-Signature", "test-signature")
		return h, nil
	})

	c := NewClient(server.URL, WithSigner(signer))
	if _, err := c.GetOpenFuturePositions(context.Background(), nil); err != nil {
		t.Fatalf("GetOpenFuturePositions() error = %v", err)
	}

	if gotKey != "test-key" {
		t.Errorf("X-API-Key = %q, want %q", gotKey, "test-key")
	}
	if gotSignature != "test-signature" {
		t.Errorf("X-Signature = %q, want %q", gotSignature, "test-signature")
	}
}

type signerFunc func(method, path, query string, body []byte) (http.Header, error)

func (f signerFunc) Sign(method, path, query string, body []byte) (http.Header, error) {
	return f(method, path, query, body)
}

// TestUpdateAccount tests the PATCH endpoint sends only the set fields.
func TestUpdateAccount(t *testing.T) {
	var gotMethod, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = string(buf)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewClient(server.URL)
	err := c.UpdateAccount(context.Background(), UpdateAccountPayload{
		AutoLend: Bool(true),
	})
	if err != nil {
		t.Fatalf("UpdateAccount() error = %v", err)
	}

	if gotMethod != http.MethodPatch {
		t.Errorf("method = %q, want PATCH", gotMethod)
	}
	if gotBody != `{"autoLend":true}` {
		t.Errorf("body = %q, want %q", gotBody, `{"autoLend":true}`)
	}
}

// TestContextCancellation tests that a cancelled context aborts the call.
func TestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	c := NewClient(server.URL)
	_, err := c.GetTickers(ctx)
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
