package edgeauthz

import (
	"context"
	"errors"

	"github.com/cognito-edge/edgeauthz/core"
)

// Outcomes recorded for every handled request.
const (
	OutcomeAuthorized  = "authorized"
	OutcomePassthrough = "passthrough"
)

// ErrNoAuthorization is returned by the origin phase when the request
// carries no token. It matches core.ErrMissingInput.
var ErrNoAuthorization = core.NewAuthorizationError(core.ErrMissingInput, "authorization header missing", nil)

// ErrorHandler decides what the origin phase returns when a request cannot
// be authorized. req is the request exactly as it was received and err is
// an *core.AuthorizationError. A non-nil error fails the invocation.
type ErrorHandler func(ctx context.Context, req *Request, err error) (*Request, error)

// FailOpen is the default ErrorHandler. It forwards the request unmodified
// and leaves access control to the origin.
func FailOpen(_ context.Context, req *Request, _ error) (*Request, error) {
	return req, nil
}

// FailClosed is an ErrorHandler that fails the invocation for every
// request that could not be authorized, so CloudFront answers with an
// error instead of forwarding it.
func FailClosed(_ context.Context, _ *Request, err error) (*Request, error) {
	return nil, err
}

// reason returns the metric and log reason for err.
func reason(err error) string {
	if errors.Is(err, ErrNoAuthorization) {
		return "no_authorization"
	}
	return core.ReasonOf(err)
}
