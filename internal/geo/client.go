package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrLookupFailed wraps transport and decoding errors from the geo-IP
// upstream. Callers only need errors.Is; the resolver treats every lookup
// failure the same way.
var ErrLookupFailed = errors.New("geo: lookup failed")

// HTTPLookup queries a geo-IP HTTP endpoint for the visitor's country code.
// The endpoint receives the address as an `ip` query parameter and answers
// with a JSON body carrying `country_code`.
type HTTPLookup struct {
	endpoint string
	client   *http.Client
}

// HTTPLookupOption customises the lookup client.
type HTTPLookupOption func(*HTTPLookup)

// WithHTTPClient overrides the HTTP client used for lookups.
func WithHTTPClient(client *http.Client) HTTPLookupOption {
	return func(l *HTTPLookup) {
		if client != nil {
			l.client = client
		}
	}
}

// NewHTTPLookup constructs a lookup client for the provided endpoint.
func NewHTTPLookup(endpoint string, opts ...HTTPLookupOption) *HTTPLookup {
	lookup := &HTTPLookup{
		endpoint: strings.TrimSpace(endpoint),
		client:   &http.Client{Timeout: 5 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(lookup)
		}
	}
	return lookup
}

type countryResponse struct {
	CountryCode string `json:"country_code"`
}

// Country implements CountryLookup. Any non-200 status, malformed body, or
// empty country code is an error; the caller decides how to degrade.
func (l *HTTPLookup) Country(ctx context.Context, addr string) (string, error) {
	if l.endpoint == "" {
		return "", fmt.Errorf("%w: endpoint not configured", ErrLookupFailed)
	}

	target, err := url.Parse(l.endpoint)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	query := target.Query()
	query.Set("ip", strings.TrimSpace(addr))
	target.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: unexpected status %d", ErrLookupFailed, resp.StatusCode)
	}

	var body countryResponse
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(&body); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrLookupFailed, err)
	}

	code := strings.ToUpper(strings.TrimSpace(body.CountryCode))
	if len(code) != 2 {
		return "", fmt.Errorf("%w: invalid country code %q", ErrLookupFailed, body.CountryCode)
	}
	return code, nil
}
