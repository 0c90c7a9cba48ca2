package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/domain"
)

// ErrUpstreamUnavailable wraps every failure mode of the remote pricing
// service, from transport errors to malformed payloads. The engine absorbs
// it by falling back to the local catalog.
var ErrUpstreamUnavailable = errors.New("pricing: upstream unavailable")

// UpstreamClient fetches authoritative quotes from the remote pricing
// service. A nil or unconfigured client simply reports unavailability.
type UpstreamClient struct {
	endpoint string
	client   *http.Client
}

// UpstreamOption customises the upstream client.
type UpstreamOption func(*UpstreamClient)

// WithUpstreamHTTPClient overrides the HTTP client used for quote fetches.
func WithUpstreamHTTPClient(client *http.Client) UpstreamOption {
	return func(c *UpstreamClient) {
		if client != nil {
			c.client = client
		}
	}
}

// NewUpstreamClient constructs a client for the provided quote endpoint.
func NewUpstreamClient(endpoint string, opts ...UpstreamOption) *UpstreamClient {
	client := &UpstreamClient{
		endpoint: strings.TrimSpace(endpoint),
		client:   &http.Client{Timeout: 5 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client
}

type upstreamQuote struct {
	Zone           string           `json:"zone"`
	Currency       string           `json:"currency"`
	CurrencySymbol string           `json:"currency_symbol"`
	TotalPrice     *int64           `json:"total_price"`
	Monthly3x      *int64           `json:"monthly_3x"`
	Monthly12x     *int64           `json:"monthly_12x"`
	Display        *upstreamDisplay `json:"display"`
}

type upstreamDisplay struct {
	Total       string `json:"total"`
	ThreeTimes  string `json:"three_times"`
	TwelveTimes string `json:"twelve_times"`
}

// Quote fetches the remote quote for a pack and zone. The payload is
// validated strictly: a well-formed response is returned verbatim, anything
// else is ErrUpstreamUnavailable so mixed local/remote quotes never reach a
// visitor.
func (c *UpstreamClient) Quote(ctx context.Context, packID string, zone domain.Zone) (domain.PricingQuote, error) {
	var quote domain.PricingQuote
	if c == nil || c.endpoint == "" {
		return quote, fmt.Errorf("%w: endpoint not configured", ErrUpstreamUnavailable)
	}

	target, err := url.Parse(c.endpoint)
	if err != nil {
		return quote, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	query := target.Query()
	query.Set("pack", packID)
	query.Set("zone", string(zone))
	target.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return quote, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return quote, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return quote, fmt.Errorf("%w: unexpected status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var body upstreamQuote
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return quote, fmt.Errorf("%w: decode response: %v", ErrUpstreamUnavailable, err)
	}

	if err := validateUpstreamQuote(body, zone); err != nil {
		return quote, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	return domain.PricingQuote{
		PackID:         packID,
		Zone:           zone,
		CurrencyCode:   body.Currency,
		CurrencySymbol: body.CurrencySymbol,
		TotalPrice:     *body.TotalPrice,
		Monthly3x:      *body.Monthly3x,
		Monthly12x:     *body.Monthly12x,
		Display: domain.QuoteDisplay{
			Total:       body.Display.Total,
			ThreeTimes:  body.Display.ThreeTimes,
			TwelveTimes: body.Display.TwelveTimes,
		},
	}, nil
}

func validateUpstreamQuote(body upstreamQuote, zone domain.Zone) error {
	if body.Zone != string(zone) {
		return fmt.Errorf("zone mismatch: got %q want %q", body.Zone, zone)
	}
	if body.Currency == "" || body.CurrencySymbol == "" {
		return errors.New("missing currency")
	}
	if body.TotalPrice == nil || body.Monthly3x == nil || body.Monthly12x == nil {
		return errors.New("missing amounts")
	}
	if *body.TotalPrice <= 0 || *body.Monthly3x <= 0 || *body.Monthly12x <= 0 {
		return errors.New("non-positive amounts")
	}
	if body.Display == nil || body.Display.Total == "" || body.Display.ThreeTimes == "" || body.Display.TwelveTimes == "" {
		return errors.New("missing display strings")
	}
	return nil
}
