package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/catalog"
	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/domain"
	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/geo"
)

type stubCheckoutService struct {
	result  domain.CheckoutResult
	err     error
	lastReq domain.CheckoutRequest
	calls   int
}

func (s *stubCheckoutService) Checkout(_ context.Context, req domain.CheckoutRequest) (domain.CheckoutResult, error) {
	s.calls++
	s.lastReq = req
	if s.err != nil {
		return domain.CheckoutResult{}, s.err
	}
	return s.result, nil
}

func newCheckoutRouter(t *testing.T, service CheckoutService, lookup geo.CountryLookup) http.Handler {
	t.Helper()
	resolver := geo.NewResolver(geo.ResolverDeps{Lookup: lookup})
	handlers := NewCheckoutHandlers(service, resolver, false)
	return NewRouter(WithCheckoutRoutes(handlers.Routes))
}

const validCheckoutBody = `{
	"pack_id": "analyse",
	"zone": "IL",
	"plan": "THREE_TIMES",
	"locale": "he",
	"customer": {
		"full_name": "Dana Levi",
		"email": "dana@example.com",
		"phone": "+972501234567",
		"country": "IL"
	}
}`

func TestCreateSessionRedirects(t *testing.T) {
	service := &stubCheckoutService{
		result: domain.CheckoutResult{
			AttemptID:   "01TESTATTEMPT0000000000000",
			State:       domain.CheckoutRedirected,
			RedirectURL: "https://pay.example/sess_1",
			Provider:    "sessions",
		},
	}
	router := newCheckoutRouter(t, service, &fakeLookup{country: "IL"})

	req := httptest.NewRequest(http.MethodPost, "/api/checkout/session", strings.NewReader(validCheckoutBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload checkoutSessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.State != "redirected" || payload.RedirectURL != "https://pay.example/sess_1" {
		t.Fatalf("unexpected payload %+v", payload)
	}

	if service.lastReq.PackID != "analyse" || service.lastReq.Zone != domain.ZoneIL || service.lastReq.Plan != domain.PlanThreeTimes {
		t.Fatalf("unexpected request %+v", service.lastReq)
	}
	if service.lastReq.Locale != "he" {
		t.Fatalf("expected locale he, got %q", service.lastReq.Locale)
	}
}

func TestCreateSessionResolvesZoneWhenOmitted(t *testing.T) {
	service := &stubCheckoutService{
		result: domain.CheckoutResult{State: domain.CheckoutRedirected, RedirectURL: "https://pay.example/s"},
	}
	router := newCheckoutRouter(t, service, &fakeLookup{country: "US"})

	body := strings.Replace(validCheckoutBody, `"zone": "IL",`, "", 1)
	req := httptest.NewRequest(http.MethodPost, "/api/checkout/session", strings.NewReader(body))
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if service.lastReq.Zone != domain.ZoneUSCA {
		t.Fatalf("expected resolved zone US_CA, got %s", service.lastReq.Zone)
	}
}

func TestCreateSessionValidationFailure(t *testing.T) {
	service := &stubCheckoutService{
		result: domain.CheckoutResult{
			AttemptID:   "01TESTATTEMPT0000000000000",
			State:       domain.CheckoutFailed,
			Failure:     domain.FailureValidation,
			Message:     "checkout request failed validation",
			FieldErrors: map[string]string{"email": "must be a valid email address"},
		},
	}
	router := newCheckoutRouter(t, service, &fakeLookup{country: "IL"})

	req := httptest.NewRequest(http.MethodPost, "/api/checkout/session", strings.NewReader(validCheckoutBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["error"] != "validation_error" {
		t.Fatalf("expected validation_error, got %v", payload["error"])
	}
	fields, ok := payload["fields"].(map[string]any)
	if !ok || fields["email"] == nil {
		t.Fatalf("expected field errors in payload, got %v", payload)
	}
}

func TestCreateSessionProviderErrorMapsTo502(t *testing.T) {
	service := &stubCheckoutService{
		result: domain.CheckoutResult{
			State:   domain.CheckoutFailed,
			Failure: domain.FailureProviderError,
			Message: "the payment provider is unavailable",
		},
	}
	router := newCheckoutRouter(t, service, &fakeLookup{country: "IL"})

	req := httptest.NewRequest(http.MethodPost, "/api/checkout/session", strings.NewReader(validCheckoutBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "payment_provider_error") {
		t.Fatalf("expected payment_provider_error, got %s", rec.Body.String())
	}
}

func TestCreateSessionRequestRejectedMapsTo400(t *testing.T) {
	service := &stubCheckoutService{
		result: domain.CheckoutResult{
			State:   domain.CheckoutFailed,
			Failure: domain.FailureRequestRejected,
			Message: "the payment provider rejected the request",
		},
	}
	router := newCheckoutRouter(t, service, &fakeLookup{country: "IL"})

	req := httptest.NewRequest(http.MethodPost, "/api/checkout/session", strings.NewReader(validCheckoutBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "payment_request_rejected") {
		t.Fatalf("expected payment_request_rejected, got %s", rec.Body.String())
	}
}

func TestCreateSessionUnknownPack(t *testing.T) {
	service := &stubCheckoutService{err: catalog.ErrPackNotFound}
	router := newCheckoutRouter(t, service, &fakeLookup{country: "IL"})

	req := httptest.NewRequest(http.MethodPost, "/api/checkout/session", strings.NewReader(validCheckoutBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCreateSessionRejectsMalformedBody(t *testing.T) {
	service := &stubCheckoutService{}
	router := newCheckoutRouter(t, service, &fakeLookup{country: "IL"})

	req := httptest.NewRequest(http.MethodPost, "/api/checkout/session", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if service.calls != 0 {
		t.Fatalf("expected no service calls, got %d", service.calls)
	}
}

func TestCreateSessionRejectsUnknownZone(t *testing.T) {
	service := &stubCheckoutService{}
	router := newCheckoutRouter(t, service, &fakeLookup{country: "IL"})

	body := strings.Replace(validCheckoutBody, `"zone": "IL",`, `"zone": "MARS",`, 1)
	req := httptest.NewRequest(http.MethodPost, "/api/checkout/session", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if service.calls != 0 {
		t.Fatalf("expected no service calls, got %d", service.calls)
	}
}
