package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/avelara/bpx-data/internal/api"
)

const solMarket = `{
	"symbol": "SOL_USDC",
	"baseSymbol": "SOL",
	"quoteSymbol": "USDC",
	"marketType": "SPOT",
	"filters": {
		"price": {"minPrice": "0.01", "tickSize": "0.01"},
		"quantity": {"minQuantity": "0.0001", "stepSize": "0.0001"}
	},
	"orderBookState": "Open",
	"createdAt": "2023-09-01T00:00:00"
}`

const perpMarket = `{
	"symbol": "SOL_USDC_PERP",
	"baseSymbol": "SOL",
	"quoteSymbol": "USDC",
	"marketType": "PERP",
	"filters": {
		"price": {"minPrice": "0.001", "tickSize": "0.001"},
		"quantity": {"minQuantity": "0.01", "stepSize": "0.01"}
	},
	"fundingInterval": 28800000,
	"orderBookState": "Open",
	"createdAt": "2024-02-01T00:00:00"
}`

// marketServer serves a swappable markets list.
type marketServer struct {
	mu   sync.Mutex
	body string
}

func (s *marketServer) set(body string) {
	s.mu.Lock()
	s.body = body
	s.mu.Unlock()
}

func (s *marketServer) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/markets" {
			http.NotFound(w, r)
			return
		}
		s.mu.Lock()
		body := s.body
		s.mu.Unlock()
		w.Write([]byte(body))
	}
}

func TestRegistry_InitialSync(t *testing.T) {
	ms := &marketServer{body: "[" + solMarket + "," + perpMarket + "]"}
	server := httptest.NewServer(ms.handler())
	defer server.Close()

	rest := api.NewClient(server.URL)
	r := NewRegistry(DefaultConfig(), rest, nil)

	ctx := context.Background()
	if err := r.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer r.Stop(ctx)

	markets := r.Markets()
	if len(markets) != 2 {
		t.Fatalf("len(Markets()) = %d, want 2", len(markets))
	}

	m, ok := r.Get("SOL_USDC")
	if !ok {
		t.Fatal("Get(SOL_USDC) not found")
	}
	if m.MarketType != "SPOT" {
		t.Errorf("MarketType = %q, want SPOT", m.MarketType)
	}
	if m.PriceDecimals != 2 {
		t.Errorf("PriceDecimals = %d, want 2", m.PriceDecimals)
	}
	if m.QuantityDecimals != 4 {
		t.Errorf("QuantityDecimals = %d, want 4", m.QuantityDecimals)
	}
	if m.TickSize.String() != "0.01" {
		t.Errorf("TickSize = %s, want 0.01", m.TickSize)
	}
	if m.UpdatedAt == 0 {
		t.Error("UpdatedAt should be set")
	}

	perp, ok := r.Get("SOL_USDC_PERP")
	if !ok {
		t.Fatal("Get(SOL_USDC_PERP) not found")
	}
	if perp.PriceDecimals != 3 || perp.QuantityDecimals != 2 {
		t.Errorf("perp decimals = %d/%d, want 3/2", perp.PriceDecimals, perp.QuantityDecimals)
	}

	if _, ok := r.Get("BTC_USDC"); ok {
		t.Error("Get(BTC_USDC) should not be found")
	}
}

func TestRegistry_InitialSyncError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	rest := api.NewClient(server.URL)
	r := NewRegistry(DefaultConfig(), rest, nil)

	if err := r.Start(context.Background()); err == nil {
		t.Fatal("expected Start to fail when the market list cannot be fetched")
	}
}

func TestRegistry_ReconcileDetectsNewMarket(t *testing.T) {
	ms := &marketServer{body: "[" + solMarket + "]"}
	server := httptest.NewServer(ms.handler())
	defer server.Close()

	rest := api.NewClient(server.URL)
	r := NewRegistry(DefaultConfig(), rest, nil).(*registry)

	ctx := context.Background()
	if err := r.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer r.Stop(ctx)

	ms.set("[" + solMarket + "," + perpMarket + "]")
	r.reconcile(ctx)

	if _, ok := r.Get("SOL_USDC_PERP"); !ok {
		t.Fatal("expected SOL_USDC_PERP after reconcile")
	}

	select {
	case c := <-r.Changes():
		if c.Symbol != "SOL_USDC_PERP" || c.EventType != "created" {
			t.Errorf("change = %+v, want created SOL_USDC_PERP", c)
		}
	default:
		t.Error("expected a change notification")
	}
}

func TestRegistry_ReconcileDetectsPrecisionChange(t *testing.T) {
	ms := &marketServer{body: "[" + solMarket + "]"}
	server := httptest.NewServer(ms.handler())
	defer server.Close()

	rest := api.NewClient(server.URL)
	r := NewRegistry(DefaultConfig(), rest, nil).(*registry)

	ctx := context.Background()
	if err := r.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer r.Stop(ctx)

	// Tighten the tick size from 0.01 to 0.001
	retick := `[{
		"symbol": "SOL_USDC",
		"baseSymbol": "SOL",
		"quoteSymbol": "USDC",
		"marketType": "SPOT",
		"filters": {
			"price": {"minPrice": "0.001", "tickSize": "0.001"},
			"quantity": {"minQuantity": "0.0001", "stepSize": "0.0001"}
		},
		"orderBookState": "Open",
		"createdAt": "2023-09-01T00:00:00"
	}]`
	ms.set(retick)
	r.reconcile(ctx)

	m, _ := r.Get("SOL_USDC")
	if m.PriceDecimals != 3 {
		t.Errorf("PriceDecimals = %d, want 3 after tick size change", m.PriceDecimals)
	}

	select {
	case c := <-r.Changes():
		if c.EventType != "updated" {
			t.Errorf("EventType = %q, want updated", c.EventType)
		}
	default:
		t.Error("expected a change notification")
	}
}

func TestRegistry_ReconcileNoChanges(t *testing.T) {
	ms := &marketServer{body: "[" + solMarket + "]"}
	server := httptest.NewServer(ms.handler())
	defer server.Close()

	rest := api.NewClient(server.URL)
	r := NewRegistry(DefaultConfig(), rest, nil).(*registry)

	ctx := context.Background()
	if err := r.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer r.Stop(ctx)

	r.reconcile(ctx)

	select {
	case c := <-r.Changes():
		t.Errorf("unexpected change notification: %+v", c)
	default:
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.SyncInterval != 5*time.Minute {
		t.Errorf("SyncInterval = %v, want 5m", cfg.SyncInterval)
	}
}
