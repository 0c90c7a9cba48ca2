package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
)

// StripeLogger defines the logging contract for Stripe provider operations.
type StripeLogger func(ctx context.Context, event string, fields map[string]any)

type stripeSessionAPI interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// StripeProviderConfig configures the StripeProvider.
type StripeProviderConfig struct {
	APIKey   string
	Backends *stripe.Backends
	Logger   StripeLogger
	Clock    func() time.Time
	Sessions stripeSessionAPI
}

// StripeProvider implements Provider using Stripe Checkout sessions.
type StripeProvider struct {
	sessions stripeSessionAPI
	clock    func() time.Time
	logger   StripeLogger
}

// NewStripeProvider constructs a Stripe Provider using the given configuration.
func NewStripeProvider(cfg StripeProviderConfig) (*StripeProvider, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" && cfg.Sessions == nil {
		return nil, errors.New("stripe: api key is required")
	}

	sessions := cfg.Sessions
	if sessions == nil {
		sc := client.New(apiKey, cfg.Backends)
		sessions = sc.CheckoutSessions
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &StripeProvider{
		sessions: sessions,
		clock: func() time.Time {
			return clock().UTC()
		},
		logger: logger,
	}, nil
}

// CreateSession creates a Stripe Checkout session for the quoted amount.
// Quoted amounts are whole currency units; Stripe expects the minor unit.
func (p *StripeProvider) CreateSession(ctx context.Context, req SessionRequest) (Session, error) {
	if p == nil {
		return Session{}, errors.New("stripe: provider is nil")
	}

	name := strings.TrimSpace(req.Description)
	if name == "" {
		name = "Order"
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(strings.ToLower(req.Currency)),
					UnitAmount: stripe.Int64(req.Amount * 100),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(name),
					},
				},
			},
		},
	}
	params.Context = ctx
	if key := strings.TrimSpace(req.IdempotencyKey); key != "" {
		params.SetIdempotencyKey(key)
	}
	if email := strings.TrimSpace(req.CustomerEmail); email != "" {
		params.CustomerEmail = stripe.String(email)
	}
	if req.Locale != "" {
		params.Locale = stripe.String(strings.ReplaceAll(strings.ToLower(req.Locale), "_", "-"))
	}
	if len(req.Metadata) > 0 {
		params.Metadata = make(map[string]string, len(req.Metadata))
		for k, v := range req.Metadata {
			params.Metadata[k] = v
		}
	}

	session, err := p.sessions.New(params)
	if err != nil {
		return Session{}, classifyStripeError(err)
	}

	if strings.TrimSpace(session.URL) == "" {
		return Session{}, ErrMissingRedirect
	}

	p.logger(ctx, "payments.stripe.session.created", map[string]any{
		"sessionId": session.ID,
		"currency":  session.Currency,
	})

	expiresAt := p.clock().Add(30 * time.Minute)
	if session.ExpiresAt != 0 {
		expiresAt = time.Unix(session.ExpiresAt, 0).UTC()
	}

	raw := map[string]any{}
	if data, err := json.Marshal(session); err == nil {
		_ = json.Unmarshal(data, &raw)
	}

	return Session{
		ID:          session.ID,
		RedirectURL: session.URL,
		ExpiresAt:   expiresAt,
		Raw:         raw,
	}, nil
}

func classifyStripeError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		if stripeErr.HTTPStatusCode >= 400 && stripeErr.HTTPStatusCode < 500 {
			return fmt.Errorf("%w: %s", ErrRequestRejected, stripeErr.Msg)
		}
		return fmt.Errorf("%w: %s", ErrProviderFailure, stripeErr.Msg)
	}
	return fmt.Errorf("%w: %v", ErrProviderFailure, err)
}
