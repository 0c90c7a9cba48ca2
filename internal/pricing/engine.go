package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/catalog"
	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/domain"
)

// Quoter fetches a remote quote for a pack and zone.
type Quoter interface {
	Quote(ctx context.Context, packID string, zone domain.Zone) (domain.PricingQuote, error)
}

// EngineDeps wires the dependencies required by the pricing engine.
type EngineDeps struct {
	Catalog  *catalog.Catalog
	Upstream Quoter
	Timeout  time.Duration
	Logger   func(ctx context.Context, event string, fields map[string]any)
}

// Engine produces pricing quotes. The remote pricing service is
// authoritative when reachable and well-formed; otherwise the engine
// computes the quote from the local catalog so the storefront keeps
// rendering prices through an outage.
type Engine struct {
	catalog  *catalog.Catalog
	upstream Quoter
	timeout  time.Duration
	logger   func(ctx context.Context, event string, fields map[string]any)
}

// NewEngine constructs an Engine, validating required dependencies.
func NewEngine(deps EngineDeps) (*Engine, error) {
	if deps.Catalog == nil {
		return nil, errors.New("pricing: catalog is required")
	}
	timeout := deps.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &Engine{
		catalog:  deps.Catalog,
		upstream: deps.Upstream,
		timeout:  timeout,
		logger:   logger,
	}, nil
}

// Quote returns the quote for a pack in a zone. Unknown packs and zones are
// the only error paths; upstream trouble is absorbed into the local
// fallback and never surfaces to the caller.
func (e *Engine) Quote(ctx context.Context, packID string, zone domain.Zone) (domain.PricingQuote, error) {
	if !zone.Valid() {
		return domain.PricingQuote{}, catalog.ErrZoneUnknown
	}
	if _, err := e.catalog.Pack(packID); err != nil {
		return domain.PricingQuote{}, err
	}

	if e.upstream != nil {
		upstreamCtx, cancel := context.WithTimeout(ctx, e.timeout)
		quote, err := e.upstream.Quote(upstreamCtx, packID, zone)
		cancel()
		if err == nil {
			return quote, nil
		}
		e.logger(ctx, "pricing.fallback", map[string]any{
			"pack":   packID,
			"zone":   string(zone),
			"reason": err.Error(),
		})
	}

	return e.localQuote(packID, zone)
}

func (e *Engine) localQuote(packID string, zone domain.Zone) (domain.PricingQuote, error) {
	total, err := e.catalog.BasePrice(packID, zone)
	if err != nil {
		return domain.PricingQuote{}, err
	}
	currency, err := e.catalog.Currency(zone)
	if err != nil {
		return domain.PricingQuote{}, err
	}

	monthly3x := domain.InstallmentAmount(total, 3)
	monthly12x := domain.InstallmentAmount(total, 12)

	return domain.PricingQuote{
		PackID:         packID,
		Zone:           zone,
		CurrencyCode:   currency.Code,
		CurrencySymbol: currency.Symbol,
		TotalPrice:     total,
		Monthly3x:      monthly3x,
		Monthly12x:     monthly12x,
		Display: domain.QuoteDisplay{
			Total:       FormatAmount(total, currency),
			ThreeTimes:  FormatAmount(monthly3x, currency),
			TwelveTimes: FormatAmount(monthly12x, currency),
		},
	}, nil
}
