package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/catalog"
	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/domain"
	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/geo"
	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/platform/httpx"
)

const (
	zoneCookieName   = "igv_zone"
	zoneCookieMaxAge = 365 * 24 * time.Hour
	maxZoneBodySize  = 1024
)

// ZoneHandlers exposes the visitor zone endpoints: read the resolved zone,
// pin a manual override, and clear it again.
type ZoneHandlers struct {
	resolver *geo.Resolver
	catalog  *catalog.Catalog
	secure   bool
}

// NewZoneHandlers constructs zone handlers over the resolver and catalog.
func NewZoneHandlers(resolver *geo.Resolver, cat *catalog.Catalog, secureCookies bool) *ZoneHandlers {
	return &ZoneHandlers{
		resolver: resolver,
		catalog:  cat,
		secure:   secureCookies,
	}
}

// Routes registers zone endpoints under the provided router.
func (h *ZoneHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/zone", h.getZone)
	r.Put("/zone", h.putZone)
	r.Delete("/zone", h.deleteZone)
}

type zoneResponse struct {
	Zone           string `json:"zone"`
	Source         string `json:"source"`
	Currency       string `json:"currency"`
	CurrencySymbol string `json:"currency_symbol"`
}

type zoneUpdateRequest struct {
	Zone string `json:"zone"`
}

func (h *ZoneHandlers) getZone(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	overrides := &cookieOverrideStore{w: w, r: r, secure: h.secure}
	zone, source := h.resolver.Resolve(ctx, overrides, clientAddr(r))
	h.writeZone(ctx, w, zone, source)
}

func (h *ZoneHandlers) putZone(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := readLimitedBody(r, maxZoneBodySize)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errBodyTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), status))
		return
	}

	var req zoneUpdateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	zone, ok := domain.ParseZone(req.Zone)
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_zone", "zone must be one of EU, US_CA, IL, ASIA_AFRICA", http.StatusBadRequest))
		return
	}

	overrides := &cookieOverrideStore{w: w, r: r, secure: h.secure}
	overrides.Set(ctx, zone)
	h.writeZone(ctx, w, zone, geo.SourceOverride)
}

func (h *ZoneHandlers) deleteZone(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	overrides := &cookieOverrideStore{w: w, r: r, secure: h.secure}
	overrides.Clear(ctx)

	// Resolve again without the override so the response reflects what the
	// visitor will see on their next request.
	zone, source := h.resolver.Resolve(ctx, nil, clientAddr(r))
	h.writeZone(ctx, w, zone, source)
}

func (h *ZoneHandlers) writeZone(ctx context.Context, w http.ResponseWriter, zone domain.Zone, source geo.Source) {
	currency, err := h.catalog.Currency(zone)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("zone_error", "failed to resolve zone currency", http.StatusInternalServerError))
		return
	}
	writeJSONResponse(w, http.StatusOK, zoneResponse{
		Zone:           string(zone),
		Source:         string(source),
		Currency:       currency.Code,
		CurrencySymbol: currency.Symbol,
	})
}

// cookieOverrideStore adapts the visitor zone cookie to geo.OverrideStore.
// One instance lives per request; Set and Clear write the response cookie
// immediately.
type cookieOverrideStore struct {
	w      http.ResponseWriter
	r      *http.Request
	secure bool
}

func (s *cookieOverrideStore) Get(context.Context) (domain.Zone, bool) {
	cookie, err := s.r.Cookie(zoneCookieName)
	if err != nil {
		return "", false
	}
	zone, ok := domain.ParseZone(strings.TrimSpace(cookie.Value))
	if !ok {
		return "", false
	}
	return zone, true
}

func (s *cookieOverrideStore) Set(_ context.Context, zone domain.Zone) {
	http.SetCookie(s.w, &http.Cookie{
		Name:     zoneCookieName,
		Value:    string(zone),
		Path:     "/",
		MaxAge:   int(zoneCookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *cookieOverrideStore) Clear(context.Context) {
	http.SetCookie(s.w, &http.Cookie{
		Name:     zoneCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
