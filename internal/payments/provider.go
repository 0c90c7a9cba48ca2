package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrUnsupportedProvider is returned when the manager cannot locate a provider.
	ErrUnsupportedProvider = errors.New("payments: unsupported provider")
	// ErrRequestRejected indicates the provider refused the session request
	// itself (malformed or unacceptable payload). The attempt is over; the
	// customer should correct their input.
	ErrRequestRejected = errors.New("payments: request rejected")
	// ErrProviderFailure indicates the provider is down, timing out, or
	// answering with server errors. The customer did nothing wrong.
	ErrProviderFailure = errors.New("payments: provider failure")
	// ErrMissingRedirect indicates the provider accepted the request but
	// returned no redirect URL, leaving the session unusable.
	ErrMissingRedirect = errors.New("payments: session missing redirect url")
)

// SessionRequest captures the payload required to open a hosted payment
// session. Amount is in whole currency units as quoted by the pricing
// engine, never supplied by the client.
type SessionRequest struct {
	Amount         int64
	Currency       string
	Description    string
	CustomerEmail  string
	CustomerName   string
	Locale         string
	SuccessURL     string
	CancelURL      string
	IdempotencyKey string
	Metadata       map[string]string
}

// Session represents the hosted session returned by a provider.
type Session struct {
	ID          string
	Provider    string
	RedirectURL string
	ExpiresAt   time.Time
	Raw         map[string]any
}

// Provider is the contract payment adapters implement.
type Provider interface {
	CreateSession(ctx context.Context, req SessionRequest) (Session, error)
}

// Manager coordinates provider selection. Checkout asks for a session with
// optional routing hints; the manager picks the provider and normalises the
// result.
type Manager struct {
	providers       map[string]Provider
	defaultProvider string
}

// ManagerOption configures optional behaviour when building a Manager.
type ManagerOption func(*Manager)

// WithDefaultProvider overrides the provider used when no hint matches.
func WithDefaultProvider(provider string) ManagerOption {
	return func(m *Manager) {
		m.defaultProvider = provider
	}
}

// NewManager constructs a Manager over the supplied providers.
func NewManager(providers map[string]Provider, opts ...ManagerOption) (*Manager, error) {
	if len(providers) == 0 {
		return nil, errors.New("payments: at least one provider is required")
	}
	copyMap := make(map[string]Provider, len(providers))
	for k, v := range providers {
		key := strings.TrimSpace(strings.ToLower(k))
		if key == "" || v == nil {
			return nil, fmt.Errorf("payments: invalid provider registration for key %q", k)
		}
		copyMap[key] = v
	}
	m := &Manager{providers: copyMap}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func (m *Manager) resolveProvider(preferred string) (string, Provider, error) {
	if m == nil || len(m.providers) == 0 {
		return "", nil, errors.New("payments: no providers registered")
	}
	if key := strings.TrimSpace(strings.ToLower(preferred)); key != "" {
		if p, ok := m.providers[key]; ok {
			return key, p, nil
		}
	}
	if def := strings.TrimSpace(strings.ToLower(m.defaultProvider)); def != "" {
		if p, ok := m.providers[def]; ok {
			return def, p, nil
		}
	}
	if len(m.providers) == 1 {
		for key, p := range m.providers {
			return key, p, nil
		}
	}
	return "", nil, ErrUnsupportedProvider
}

// CreateSession delegates to the resolved provider and enforces that every
// accepted session carries a redirect URL.
func (m *Manager) CreateSession(ctx context.Context, preferred string, req SessionRequest) (Session, error) {
	key, provider, err := m.resolveProvider(preferred)
	if err != nil {
		return Session{}, err
	}
	session, err := provider.CreateSession(ctx, req)
	if err != nil {
		return Session{}, err
	}
	if strings.TrimSpace(session.RedirectURL) == "" {
		return Session{}, fmt.Errorf("%w: provider %s", ErrMissingRedirect, key)
	}
	session.Provider = key
	return session, nil
}
