package pricing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/domain"
)

func TestUpstreamClientQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("pack") != "analyse" || r.URL.Query().Get("zone") != "IL" {
			t.Fatalf("unexpected query %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"zone": "IL",
			"currency": "ILS",
			"currency_symbol": "₪",
			"total_price": 7000,
			"monthly_3x": 2334,
			"monthly_12x": 584,
			"display": {"total": "7 000 ₪", "three_times": "2 334 ₪", "twelve_times": "584 ₪"}
		}`))
	}))
	defer server.Close()

	client := NewUpstreamClient(server.URL)
	quote, err := client.Quote(context.Background(), "analyse", domain.ZoneIL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.TotalPrice != 7000 || quote.Monthly3x != 2334 || quote.Monthly12x != 584 {
		t.Fatalf("unexpected amounts %d/%d/%d", quote.TotalPrice, quote.Monthly3x, quote.Monthly12x)
	}
	if quote.Display.Total != "7 000 ₪" {
		t.Fatalf("unexpected display %q", quote.Display.Total)
	}
}

func TestUpstreamClientRejectsMalformedPayloads(t *testing.T) {
	cases := []struct {
		name string
		body string
		code int
	}{
		{name: "server error", body: `{}`, code: http.StatusBadGateway},
		{name: "not json", body: `oops`, code: http.StatusOK},
		{name: "zone mismatch", body: `{"zone":"EU","currency":"EUR","currency_symbol":"€","total_price":10,"monthly_3x":4,"monthly_12x":1,"display":{"total":"10 €","three_times":"4 €","twelve_times":"1 €"}}`, code: http.StatusOK},
		{name: "missing amounts", body: `{"zone":"IL","currency":"ILS","currency_symbol":"₪","display":{"total":"x","three_times":"y","twelve_times":"z"}}`, code: http.StatusOK},
		{name: "negative amount", body: `{"zone":"IL","currency":"ILS","currency_symbol":"₪","total_price":-5,"monthly_3x":1,"monthly_12x":1,"display":{"total":"x","three_times":"y","twelve_times":"z"}}`, code: http.StatusOK},
		{name: "missing display", body: `{"zone":"IL","currency":"ILS","currency_symbol":"₪","total_price":10,"monthly_3x":4,"monthly_12x":1}`, code: http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.code)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := NewUpstreamClient(server.URL)
			if _, err := client.Quote(context.Background(), "analyse", domain.ZoneIL); !errors.Is(err, ErrUpstreamUnavailable) {
				t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
			}
		})
	}
}

func TestUpstreamClientWithoutEndpoint(t *testing.T) {
	client := NewUpstreamClient("")
	if _, err := client.Quote(context.Background(), "analyse", domain.ZoneIL); !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}
