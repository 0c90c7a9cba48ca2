package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/catalog"
	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/domain"
	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/geo"
	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/platform/httpx"
)

const maxCheckoutRequestBody = 8 * 1024

// CheckoutService runs checkout attempts for the HTTP surface.
type CheckoutService interface {
	Checkout(ctx context.Context, req domain.CheckoutRequest) (domain.CheckoutResult, error)
}

// CheckoutHandlers exposes the checkout session endpoint.
type CheckoutHandlers struct {
	checkout CheckoutService
	resolver *geo.Resolver
	secure   bool
}

// NewCheckoutHandlers constructs checkout handlers.
func NewCheckoutHandlers(checkout CheckoutService, resolver *geo.Resolver, secureCookies bool) *CheckoutHandlers {
	return &CheckoutHandlers{
		checkout: checkout,
		resolver: resolver,
		secure:   secureCookies,
	}
}

// Routes registers checkout endpoints under the provided router.
func (h *CheckoutHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/checkout/session", h.createSession)
}

type checkoutSessionRequest struct {
	PackID   string                  `json:"pack_id"`
	Zone     string                  `json:"zone"`
	Plan     string                  `json:"plan"`
	Locale   string                  `json:"locale"`
	Customer checkoutCustomerRequest `json:"customer"`
}

type checkoutCustomerRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Company  string `json:"company"`
	Country  string `json:"country"`
}

type checkoutSessionResponse struct {
	AttemptID   string `json:"attempt_id"`
	State       string `json:"state"`
	RedirectURL string `json:"redirect_url,omitempty"`
	Provider    string `json:"provider,omitempty"`
}

func (h *CheckoutHandlers) createSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := readLimitedBody(r, maxCheckoutRequestBody)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errBodyTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), status))
		return
	}

	var req checkoutSessionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	zone, ok := h.zoneFromRequest(ctx, w, r, req.Zone)
	if !ok {
		return
	}

	plan, _ := domain.ParsePlanType(req.Plan)

	result, err := h.checkout.Checkout(ctx, domain.CheckoutRequest{
		PackID: strings.TrimSpace(req.PackID),
		Zone:   zone,
		Plan:   plan,
		Locale: strings.TrimSpace(req.Locale),
		Customer: domain.Customer{
			FullName: req.Customer.FullName,
			Email:    req.Customer.Email,
			Phone:    req.Customer.Phone,
			Company:  req.Customer.Company,
			Country:  req.Customer.Country,
		},
	})
	if err != nil {
		h.writeCheckoutError(ctx, w, err)
		return
	}

	if result.State == domain.CheckoutFailed {
		h.writeFailure(ctx, w, result)
		return
	}

	writeJSONResponse(w, http.StatusOK, checkoutSessionResponse{
		AttemptID:   result.AttemptID,
		State:       string(result.State),
		RedirectURL: result.RedirectURL,
		Provider:    result.Provider,
	})
}

// zoneFromRequest picks the checkout zone: an explicit zone in the payload
// wins, otherwise the visitor's resolved zone applies.
func (h *CheckoutHandlers) zoneFromRequest(ctx context.Context, w http.ResponseWriter, r *http.Request, raw string) (domain.Zone, bool) {
	if raw = strings.TrimSpace(raw); raw != "" {
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

func (h *CheckoutHandlers) writeFailure(ctx context.Context, w http.ResponseWriter, result domain.CheckoutResult) {
	switch result.Failure {
	case domain.FailureValidation:
		errEnvelope := httpx.NewError("validation_error", result.Message, http.StatusBadRequest)
		if len(result.FieldErrors) > 0 {
			details := make(map[string]any, 1)
			fields := make(map[string]string, len(result.FieldErrors))
			for field, message := range result.FieldErrors {
				fields[field] = message
			}
			details["fields"] = fields
			errEnvelope = errEnvelope.WithDetails(details)
		}
		httpx.WriteError(ctx, w, errEnvelope)
	case domain.FailureRequestRejected:
		httpx.WriteError(ctx, w, httpx.NewError("payment_request_rejected", result.Message, http.StatusBadRequest))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("payment_provider_error", result.Message, http.StatusBadGateway))
	}
}

func (h *CheckoutHandlers) writeCheckoutError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrPackNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("pack_not_found", "unknown pack", http.StatusNotFound))
	case errors.Is(err, catalog.ErrZoneUnknown):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_zone", "unknown pricing zone", http.StatusBadRequest))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("checkout_error", "failed to process checkout request", http.StatusInternalServerError))
	}
}
