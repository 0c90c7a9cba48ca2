package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"

	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/catalog"
	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/domain"
	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/geo"
	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/platform/httpx"
	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/pricing"
)

// QuoteEngine produces pricing quotes for the HTTP surface.
type QuoteEngine interface {
	Quote(ctx context.Context, packID string, zone domain.Zone) (domain.PricingQuote, error)
}

// PricingHandlers exposes the pack listing and quote endpoints.
type PricingHandlers struct {
	engine   QuoteEngine
	catalog  *catalog.Catalog
	resolver *geo.Resolver
	secure   bool
}

// NewPricingHandlers constructs pricing handlers.
func NewPricingHandlers(engine QuoteEngine, cat *catalog.Catalog, resolver *geo.Resolver, secureCookies bool) *PricingHandlers {
	return &PricingHandlers{
		engine:   engine,
		catalog:  cat,
		resolver: resolver,
		secure:   secureCookies,
	}
}

// Routes registers pricing endpoints under the provided router.
func (h *PricingHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/packs", h.listPacks)
	r.Get("/packs/{packId}/quote", h.getQuote)
}

type packResponse struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Features []string       `json:"features,omitempty"`
	Quote    *quoteResponse `json:"quote,omitempty"`
}

type packListResponse struct {
	Zone  string         `json:"zone"`
	Packs []packResponse `json:"packs"`
}

type quoteResponse struct {
	PackID         string               `json:"pack_id"`
	Zone           string               `json:"zone"`
	Currency       string               `json:"currency"`
	CurrencySymbol string               `json:"currency_symbol"`
	TotalPrice     int64                `json:"total_price"`
	Monthly3x      int64                `json:"monthly_3x"`
	Monthly12x     int64                `json:"monthly_12x"`
	Display        quoteDisplayResponse `json:"display"`
}

type quoteDisplayResponse struct {
	Total       string `json:"total"`
	ThreeTimes  string `json:"three_times"`
	TwelveTimes string `json:"twelve_times"`
}

func (h *PricingHandlers) listPacks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	zone, ok := h.zoneFromRequest(w, r)
	if !ok {
		return
	}
	locale := strings.TrimSpace(r.URL.Query().Get("locale"))
	if locale == "" {
		locale = "fr"
	}
	tag := parseLocaleTag(locale)

	packs := h.catalog.Packs()
	payload := packListResponse{
		Zone:  string(zone),
		Packs: make([]packResponse, 0, len(packs)),
	}
	for _, pack := range packs {
		features := pack.Features[locale]
		if len(features) == 0 {
			features = pack.Features["fr"]
		}
		entry := packResponse{
			ID:       pack.ID,
			Name:     pack.Name(locale),
			Features: features,
		}
		quote, err := h.engine.Quote(ctx, pack.ID, zone)
		if err == nil {
			entry.Quote = newQuoteResponse(quote, tag)
		}
		payload.Packs = append(payload.Packs, entry)
	}

	writeJSONResponse(w, http.StatusOK, payload)
}

func (h *PricingHandlers) getQuote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	packID := strings.TrimSpace(chi.URLParam(r, "packId"))

	zone, ok := h.zoneFromRequest(w, r)
	if !ok {
		return
	}

	quote, err := h.engine.Quote(ctx, packID, zone)
	if err != nil {
		h.writeQuoteError(ctx, w, err)
		return
	}

	tag := parseLocaleTag(r.URL.Query().Get("locale"))
	writeJSONResponse(w, http.StatusOK, newQuoteResponse(quote, tag))
}

// zoneFromRequest resolves the zone for a pricing request: an explicit zone
// query parameter wins, otherwise the visitor's resolved zone applies. A
// malformed parameter is reported, not silently defaulted.
func (h *PricingHandlers) zoneFromRequest(w http.ResponseWriter, r *http.Request) (domain.Zone, bool) {
	ctx := r.Context()
	if raw := strings.TrimSpace(r.URL.Query().Get("zone")); raw != "" {
		zone, ok := domain.ParseZone(raw)
		if !ok {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_zone", "zone must be one of EU, US_CA, IL, ASIA_AFRICA", http.StatusBadRequest))
			return "", false
		}
		return zone, true
	}

	overrides := &cookieOverrideStore{w: w, r: r, secure: h.secure}
	zone, _ := h.resolver.Resolve(ctx, overrides, clientAddr(r))
	return zone, true
}

func (h *PricingHandlers) writeQuoteError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrPackNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("pack_not_found", "unknown pack", http.StatusNotFound))
	case errors.Is(err, catalog.ErrZoneUnknown):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_zone", "unknown pricing zone", http.StatusBadRequest))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("pricing_error", "failed to compute quote", http.StatusInternalServerError))
	}
}

// parseLocaleTag turns the optional locale query parameter into a language
// tag. A blank or malformed value means the undetermined tag, which leaves
// quote displays untouched.
func parseLocaleTag(raw string) language.Tag {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return language.Und
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return language.Und
	}
	return tag
}

func newQuoteResponse(quote domain.PricingQuote, locale language.Tag) *quoteResponse {
	display := pricing.DisplayForLocale(quote, locale)
	return &quoteResponse{
		PackID:         quote.PackID,
		Zone:           string(quote.Zone),
		Currency:       quote.CurrencyCode,
		CurrencySymbol: quote.CurrencySymbol,
		TotalPrice:     quote.TotalPrice,
		Monthly3x:      quote.Monthly3x,
		Monthly12x:     quote.Monthly12x,
		Display: quoteDisplayResponse{
			Total:       display.Total,
			ThreeTimes:  display.ThreeTimes,
			TwelveTimes: display.TwelveTimes,
		},
	}
}
