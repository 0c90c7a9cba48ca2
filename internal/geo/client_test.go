package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPLookupCountry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("ip"); got != "203.0.113.7" {
			t.Fatalf("unexpected ip parameter %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"country_code":"fr"}`))
	}))
	defer server.Close()

	lookup := NewHTTPLookup(server.URL)
	code, err := lookup.Country(context.Background(), "203.0.113.7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "FR" {
		t.Fatalf("expected FR, got %q", code)
	}
}

func TestHTTPLookupCountryErrors(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`not json`))
			},
		},
		{
			name: "empty country",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"country_code":""}`))
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()

			lookup := NewHTTPLookup(server.URL)
			if _, err := lookup.Country(context.Background(), "203.0.113.7"); !errors.Is(err, ErrLookupFailed) {
				t.Fatalf("expected ErrLookupFailed, got %v", err)
			}
		})
	}
}

func TestHTTPLookupWithoutEndpoint(t *testing.T) {
	lookup := NewHTTPLookup("")
	if _, err := lookup.Country(context.Background(), "203.0.113.7"); !errors.Is(err, ErrLookupFailed) {
		t.Fatalf("expected ErrLookupFailed, got %v", err)
	}
}
