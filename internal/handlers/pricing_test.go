package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/geo"
	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/pricing"
)

func newPricingRouter(t *testing.T, lookup geo.CountryLookup) http.Handler {
	t.Helper()
	cat := mustCatalog(t)
	engine, err := pricing.NewEngine(pricing.EngineDeps{Catalog: cat})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	resolver := geo.NewResolver(geo.ResolverDeps{Lookup: lookup})
	handlers := NewPricingHandlers(engine, cat, resolver, false)
	return NewRouter(WithPricingRoutes(handlers.Routes))
}

func TestGetQuoteExplicitZone(t *testing.T) {
	router := newPricingRouter(t, &fakeLookup{country: "FR"})

	req := httptest.NewRequest(http.MethodGet, "/api/packs/analyse/quote?zone=IL", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload quoteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.TotalPrice != 7000 || payload.Monthly3x != 2334 || payload.Monthly12x != 584 {
		t.Fatalf("unexpected amounts %d/%d/%d", payload.TotalPrice, payload.Monthly3x, payload.Monthly12x)
	}
	if payload.Display.Total != "7 000 ₪" {
		t.Fatalf("unexpected display %q", payload.Display.Total)
	}
}

func TestGetQuoteHebrewLocaleReversesDigitGroups(t *testing.T) {
	router := newPricingRouter(t, &fakeLookup{country: "FR"})

	req := httptest.NewRequest(http.MethodGet, "/api/packs/franchise/quote?zone=IL&locale=he", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload quoteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	// Amounts stay untouched; only the display groups re-order.
	if payload.TotalPrice != 49000 {
		t.Fatalf("unexpected total %d", payload.TotalPrice)
	}
	if payload.Display.Total != "000 49 ₪" {
		t.Fatalf("unexpected display %q", payload.Display.Total)
	}
	if payload.Display.ThreeTimes != "334 16 ₪" {
		t.Fatalf("unexpected display %q", payload.Display.ThreeTimes)
	}
}

func TestGetQuoteMalformedLocaleKeepsDisplay(t *testing.T) {
	router := newPricingRouter(t, &fakeLookup{country: "FR"})

	req := httptest.NewRequest(http.MethodGet, "/api/packs/analyse/quote?zone=IL&locale=!!", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var payload quoteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Display.Total != "7 000 ₪" {
		t.Fatalf("unexpected display %q", payload.Display.Total)
	}
}

func TestGetQuoteResolvesVisitorZone(t *testing.T) {
	router := newPricingRouter(t, &fakeLookup{country: "US"})

	req := httptest.NewRequest(http.MethodGet, "/api/packs/succursales/quote", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var payload quoteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Zone != "US_CA" || payload.TotalPrice != 16500 {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if payload.Display.Total != "$16,500" {
		t.Fatalf("unexpected display %q", payload.Display.Total)
	}
}

func TestGetQuoteUnknownPack(t *testing.T) {
	router := newPricingRouter(t, &fakeLookup{country: "FR"})

	req := httptest.NewRequest(http.MethodGet, "/api/packs/mystery/quote?zone=EU", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "pack_not_found") {
		t.Fatalf("expected pack_not_found error, got %s", rec.Body.String())
	}
}

func TestGetQuoteRejectsMalformedZone(t *testing.T) {
	router := newPricingRouter(t, &fakeLookup{country: "FR"})

	req := httptest.NewRequest(http.MethodGet, "/api/packs/analyse/quote?zone=MOON", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListPacks(t *testing.T) {
	router := newPricingRouter(t, &fakeLookup{country: "FR"})

	req := httptest.NewRequest(http.MethodGet, "/api/packs?zone=EU&locale=en", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload packListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Zone != "EU" {
		t.Fatalf("expected EU, got %s", payload.Zone)
	}
	if len(payload.Packs) != 3 {
		t.Fatalf("expected 3 packs, got %d", len(payload.Packs))
	}
	for _, pack := range payload.Packs {
		if pack.Quote == nil {
			t.Fatalf("expected quote for pack %s", pack.ID)
		}
		if pack.Quote.Currency != "EUR" {
			t.Fatalf("expected EUR quotes, got %s", pack.Quote.Currency)
		}
	}
}
