package core

import "errors"

// Sentinel errors naming the ways an authorization attempt can fail. Every
// error returned by Authorize is an *AuthorizationError whose Kind is one of
// these, so errors.Is(err, ErrNoEntitlement) and friends work directly.
var (
	// ErrMissingInput is returned when the request lacks a token or a host.
	ErrMissingInput = errors.New("missing authorization input")

	// ErrDecode is returned when the identity token payload cannot be decoded.
	ErrDecode = errors.New("identity token could not be decoded")

	// ErrNoEntitlement is returned when no role mapping rule applies to the caller.
	ErrNoEntitlement = errors.New("no role mapping applies")

	// ErrCredentialExchange is returned when the identity pool refuses or
	// fails to vend credentials.
	ErrCredentialExchange = errors.New("credential exchange failed")

	// ErrSigning is returned when the downstream request cannot be signed.
	ErrSigning = errors.New("request signing failed")

	// ErrUnexpected covers failures outside the other kinds, such as a
	// recovered panic.
	ErrUnexpected = errors.New("unexpected authorization failure")
)

// Reason codes, suitable for logs and metric labels.
const (
	ReasonMissingInput       = "missing_input"
	ReasonDecode             = "decode"
	ReasonNoEntitlement      = "no_entitlement"
	ReasonCredentialExchange = "credential_exchange"
	ReasonSigning            = "signing"
	ReasonUnknown            = "unknown"
)

var reasons = map[error]string{
	ErrMissingInput:       ReasonMissingInput,
	ErrDecode:             ReasonDecode,
	ErrNoEntitlement:      ReasonNoEntitlement,
	ErrCredentialExchange: ReasonCredentialExchange,
	ErrSigning:            ReasonSigning,
	ErrUnexpected:         ReasonUnknown,
}

// AuthorizationError is the single error type an authorization attempt
// fails with. Callers that fail open catch it in one place.
type AuthorizationError struct {
	// Kind is one of the sentinel errors of this package.
	Kind error

	// Message is a human-readable description of what failed.
	Message string

	// Details contains the underlying error, if any.
	Details error
}

// Error implements the error interface.
func (e *AuthorizationError) Error() string {
	if e.Details != nil {
		return e.Message + ": " + e.Details.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error for error unwrapping.
func (e *AuthorizationError) Unwrap() error {
	return e.Details
}

// Is reports whether target is the error's Kind.
func (e *AuthorizationError) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

// Reason returns the reason code of the error's Kind.
func (e *AuthorizationError) Reason() string {
	if reason, ok := reasons[e.Kind]; ok {
		return reason
	}
	return ReasonUnknown
}

// NewAuthorizationError creates a new AuthorizationError of the given kind.
func NewAuthorizationError(kind error, message string, details error) *AuthorizationError {
	return &AuthorizationError{
		Kind:    kind,
		Message: message,
		Details: details,
	}
}

// ReasonOf returns the reason code for err, or ReasonUnknown when err is not
// an AuthorizationError.
func ReasonOf(err error) string {
	var authzErr *AuthorizationError
	if errors.As(err, &authzErr) {
		return authzErr.Reason()
	}
	return ReasonUnknown
}
