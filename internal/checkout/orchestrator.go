package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"

	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/catalog"
	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/domain"
	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/payments"
	"github.com/israelgrowthventure-cloud/igv-site-sub000/internal/pricing"
)

// QuoteService produces the authoritative quote a checkout charges against.
type QuoteService interface {
	Quote(ctx context.Context, packID string, zone domain.Zone) (domain.PricingQuote, error)
}

// SessionCreator opens hosted payment sessions.
type SessionCreator interface {
	CreateSession(ctx context.Context, preferred string, req payments.SessionRequest) (payments.Session, error)
}

// Deps wires the dependencies required by the orchestrator.
type Deps struct {
	Catalog    *catalog.Catalog
	Quotes     QuoteService
	Payments   SessionCreator
	SuccessURL string
	CancelURL  string
	Provider   string
	IDGen      func() string
	Logger     func(ctx context.Context, event string, fields map[string]any)
}

// Orchestrator runs a checkout attempt end to end: validate the customer,
// quote the pack, derive the charge amount from the quote, and open exactly
// one payment session. There is no retry; a failed attempt stays failed and
// the customer starts a new one.
type Orchestrator struct {
	catalog    *catalog.Catalog
	quotes     QuoteService
	payments   SessionCreator
	successURL string
	cancelURL  string
	provider   string
	idGen      func() string
	logger     func(ctx context.Context, event string, fields map[string]any)
	validate   *validator.Validate
}

// New constructs an Orchestrator, validating required dependencies.
func New(deps Deps) (*Orchestrator, error) {
	if deps.Catalog == nil {
		return nil, errors.New("checkout: catalog is required")
	}
	if deps.Quotes == nil {
		return nil, errors.New("checkout: quote service is required")
	}
	if deps.Payments == nil {
		return nil, errors.New("checkout: payment session creator is required")
	}
	idGen := deps.IDGen
	if idGen == nil {
		idGen = func() string { return ulid.Make().String() }
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &Orchestrator{
		catalog:    deps.Catalog,
		quotes:     deps.Quotes,
		payments:   deps.Payments,
		successURL: deps.SuccessURL,
		cancelURL:  deps.CancelURL,
		provider:   deps.Provider,
		idGen:      idGen,
		logger:     logger,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}, nil
}

type customerInput struct {
	FullName string `validate:"required,min=2,max=120"`
	Email    string `validate:"required,email"`
	Phone    string `validate:"required,min=6,max=32"`
	Company  string `validate:"omitempty,max=120"`
	Country  string `validate:"required,len=2,alpha"`
}

var customerFieldNames = map[string]string{
	"FullName": "full_name",
	"Email":    "email",
	"Phone":    "phone",
	"Company":  "company",
	"Country":  "country",
}

// Checkout runs a single payment attempt. Validation problems and payment
// failures are reported inside the result; an error return means the pack
// or zone itself was unknown.
func (o *Orchestrator) Checkout(ctx context.Context, req domain.CheckoutRequest) (domain.CheckoutResult, error) {
	attemptID := o.idGen()
	result := domain.CheckoutResult{
		AttemptID: attemptID,
		State:     domain.CheckoutPending,
	}

	if fieldErrors := o.validateRequest(req); len(fieldErrors) > 0 {
		result.State = domain.CheckoutFailed
		result.Failure = domain.FailureValidation
		result.Message = "checkout request failed validation"
		result.FieldErrors = fieldErrors
		o.logger(ctx, "checkout.validation_failed", map[string]any{
			"attemptId": attemptID,
			"fields":    fieldKeys(fieldErrors),
		})
		return result, nil
	}

	quote, err := o.quotes.Quote(ctx, req.PackID, req.Zone)
	if err != nil {
		return domain.CheckoutResult{}, err
	}

	amount, ok := quote.AmountForPlan(req.Plan)
	if !ok {
		result.State = domain.CheckoutFailed
		result.Failure = domain.FailureValidation
		result.Message = "unknown payment plan"
		result.FieldErrors = map[string]string{"plan": "must be one of ONE_SHOT, THREE_TIMES, TWELVE_TIMES"}
		return result, nil
	}

	pack, err := o.catalog.Pack(req.PackID)
	if err != nil {
		return domain.CheckoutResult{}, err
	}

	o.logger(ctx, "checkout.started", map[string]any{
		"attemptId": attemptID,
		"pack":      req.PackID,
		"zone":      string(req.Zone),
		"plan":      string(req.Plan),
		"amount":    amount,
	})

	session, err := o.payments.CreateSession(ctx, o.provider, payments.SessionRequest{
		Amount:         amount,
		Currency:       quote.CurrencyCode,
		Description:    pack.Name("fr"),
		CustomerEmail:  strings.TrimSpace(req.Customer.Email),
		CustomerName:   strings.TrimSpace(req.Customer.FullName),
		Locale:         strings.TrimSpace(req.Locale),
		SuccessURL:     o.successURL,
		CancelURL:      o.cancelURL,
		IdempotencyKey: attemptID,
		Metadata: map[string]string{
			"attempt_id": attemptID,
			"pack":       req.PackID,
			"zone":       string(req.Zone),
			"plan":       string(req.Plan),
		},
	})
	if err != nil {
		return o.failedAttempt(ctx, result, err), nil
	}

	result.State = domain.CheckoutRedirected
	result.RedirectURL = session.RedirectURL
	result.Provider = session.Provider
	o.logger(ctx, "checkout.redirected", map[string]any{
		"attemptId": attemptID,
		"provider":  session.Provider,
		"sessionId": session.ID,
	})
	return result, nil
}

func (o *Orchestrator) validateRequest(req domain.CheckoutRequest) map[string]string {
	fieldErrors := make(map[string]string)

	if strings.TrimSpace(req.PackID) == "" {
		fieldErrors["pack_id"] = "is required"
	}
	if !req.Zone.Valid() {
		fieldErrors["zone"] = "must be a known pricing zone"
	}
	if !req.Plan.Valid() {
		fieldErrors["plan"] = "must be one of ONE_SHOT, THREE_TIMES, TWELVE_TIMES"
	}

	input := customerInput{
		FullName: strings.TrimSpace(req.Customer.FullName),
		Email:    strings.TrimSpace(req.Customer.Email),
		Phone:    strings.TrimSpace(req.Customer.Phone),
		Company:  strings.TrimSpace(req.Customer.Company),
		Country:  strings.TrimSpace(req.Customer.Country),
	}
	if err := o.validate.Struct(input); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			for _, fieldErr := range invalid {
				name := customerFieldNames[fieldErr.Field()]
				if name == "" {
					name = strings.ToLower(fieldErr.Field())
				}
				fieldErrors[name] = validationMessage(fieldErr)
			}
		} else {
			fieldErrors["customer"] = "is invalid"
		}
	}

	if len(fieldErrors) == 0 {
		return nil
	}
	return fieldErrors
}

func validationMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fieldErr.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fieldErr.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fieldErr.Param())
	case "alpha":
		return "must contain only letters"
	default:
		return "is invalid"
	}
}

func (o *Orchestrator) failedAttempt(ctx context.Context, result domain.CheckoutResult, err error) domain.CheckoutResult {
	result.State = domain.CheckoutFailed
	switch {
	case errors.Is(err, payments.ErrRequestRejected):
		result.Failure = domain.FailureRequestRejected
		result.Message = "the payment provider rejected the request"
	default:
		// Provider outages, missing redirects, and unsupported providers
		// all read the same to the customer: the provider failed.
		result.Failure = domain.FailureProviderError
		result.Message = "the payment provider is unavailable"
	}
	o.logger(ctx, "checkout.failed", map[string]any{
		"attemptId": result.AttemptID,
		"failure":   string(result.Failure),
		"reason":    err.Error(),
	})
	return result
}

func fieldKeys(fields map[string]string) []string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	return keys
}

var _ QuoteService = (*pricing.Engine)(nil)
var _ SessionCreator = (*payments.Manager)(nil)
