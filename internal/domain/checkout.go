package domain

// Customer carries the identity fields a buyer supplies at checkout.
type Customer struct {
	FullName string
	Email    string
	Phone    string
	Company  string
	Country  string
}

// CheckoutState tracks a single checkout attempt. There is no retrying
// state; a new attempt is a new, independent pending instance.
type CheckoutState string

const (
	// CheckoutPending means the request is assembled but not yet submitted.
	CheckoutPending CheckoutState = "pending"
	// CheckoutRedirected means the provider returned a redirect URL.
	CheckoutRedirected CheckoutState = "redirected"
	// CheckoutFailed means the attempt ended in a classified error.
	CheckoutFailed CheckoutState = "failed"
)

// FailureKind classifies a failed checkout attempt.
type FailureKind string

const (
	// FailureValidation flags malformed customer input caught before any I/O.
	FailureValidation FailureKind = "validation_error"
	// FailureRequestRejected maps a provider HTTP 400 response.
	FailureRequestRejected FailureKind = "payment_request_rejected"
	// FailureProviderError maps provider 5xx responses and contract
	// violations such as a success response without a redirect URL.
	FailureProviderError FailureKind = "payment_provider_error"
)

// CheckoutRequest is assembled at submission time. SelectedAmount is always
// derived from a PricingQuote, never accepted from the client. Locale is the
// BCP 47 tag of the page the customer checked out from; it steers the hosted
// payment page language.
type CheckoutRequest struct {
	PackID         string
	Zone           Zone
	Plan           PlanType
	SelectedAmount int64
	CurrencyCode   string
	Locale         string
	Customer       Customer
}

// CheckoutResult is the outcome of one checkout attempt: a redirect URL on
// success, or a classified failure. The engine does not persist it.
type CheckoutResult struct {
	AttemptID   string
	State       CheckoutState
	RedirectURL string
	Provider    string
	Failure     FailureKind
	Message     string
	FieldErrors map[string]string
}
