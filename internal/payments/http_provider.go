package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPLogger defines the logging contract for session provider operations.
type HTTPLogger func(ctx context.Context, event string, fields map[string]any)

// HTTPProviderConfig configures the HTTPProvider.
type HTTPProviderConfig struct {
	Endpoint string
	APIKey   string
	Client   *http.Client
	Logger   HTTPLogger
	Clock    func() time.Time
}

// HTTPProvider implements Provider against a generic hosted-session payment
// API: POST the session payload, read back an id and a redirect URL.
type HTTPProvider struct {
	endpoint string
	apiKey   string
	client   *http.Client
	logger   HTTPLogger
	clock    func() time.Time
}

// NewHTTPProvider constructs an HTTPProvider for the given endpoint.
func NewHTTPProvider(cfg HTTPProviderConfig) (*HTTPProvider, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, errors.New("payments: session endpoint is required")
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &HTTPProvider{
		endpoint: endpoint,
		apiKey:   strings.TrimSpace(cfg.APIKey),
		client:   client,
		logger:   logger,
		clock: func() time.Time {
			return clock().UTC()
		},
	}, nil
}

type sessionRequestBody struct {
	Amount        int64             `json:"amount"`
	Currency      string            `json:"currency"`
	Description   string            `json:"description,omitempty"`
	CustomerEmail string            `json:"customer_email"`
	CustomerName  string            `json:"customer_name,omitempty"`
	Locale        string            `json:"locale,omitempty"`
	SuccessURL    string            `json:"success_url,omitempty"`
	CancelURL     string            `json:"cancel_url,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

type sessionResponseBody struct {
	ID          string `json:"id"`
	RedirectURL string `json:"redirect_url"`
	ExpiresAt   int64  `json:"expires_at"`
}

type sessionErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// CreateSession opens a hosted session. Client errors from the API map to
// ErrRequestRejected, server errors and transport failures to
// ErrProviderFailure, and an accepted session without a redirect URL to
// ErrMissingRedirect.
func (p *HTTPProvider) CreateSession(ctx context.Context, req SessionRequest) (Session, error) {
	if p == nil {
		return Session{}, errors.New("payments: provider is nil")
	}

	payload, err := json.Marshal(sessionRequestBody{
		Amount:        req.Amount,
		Currency:      req.Currency,
		Description:   req.Description,
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
		Locale:        req.Locale,
		SuccessURL:    req.SuccessURL,
		CancelURL:     req.CancelURL,
		Metadata:      req.Metadata,
	})
	if err != nil {
		return Session{}, fmt.Errorf("payments: encode session request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrProviderFailure, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}
	if key := strings.TrimSpace(req.IdempotencyKey); key != "" {
		httpReq.Header.Set("Idempotency-Key", key)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// fallthrough to decoding below
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		detail := readErrorDetail(resp.Body)
		p.logger(ctx, "payments.session.rejected", map[string]any{
			"status": resp.StatusCode,
			"detail": detail,
		})
		if detail != "" {
			return Session{}, fmt.Errorf("%w: %s", ErrRequestRejected, detail)
		}
		return Session{}, fmt.Errorf("%w: status %d", ErrRequestRejected, resp.StatusCode)
	default:
		p.logger(ctx, "payments.session.provider_error", map[string]any{
			"status": resp.StatusCode,
		})
		return Session{}, fmt.Errorf("%w: status %d", ErrProviderFailure, resp.StatusCode)
	}

	var body sessionResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Session{}, fmt.Errorf("%w: decode response: %v", ErrProviderFailure, err)
	}
	if strings.TrimSpace(body.RedirectURL) == "" {
		return Session{}, ErrMissingRedirect
	}

	expiresAt := p.clock().Add(30 * time.Minute)
	if body.ExpiresAt > 0 {
		expiresAt = time.Unix(body.ExpiresAt, 0).UTC()
	}

	p.logger(ctx, "payments.session.created", map[string]any{
		"sessionId": body.ID,
		"currency":  req.Currency,
	})

	return Session{
		ID:          body.ID,
		RedirectURL: body.RedirectURL,
		ExpiresAt:   expiresAt,
		Raw: map[string]any{
			"id":           body.ID,
			"redirect_url": body.RedirectURL,
			"expires_at":   body.ExpiresAt,
		},
	}, nil
}

func readErrorDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}
	var body sessionErrorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
