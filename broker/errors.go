package broker

import (
	"errors"

	"github.com/aws/smithy-go"
)

// ErrExchange is matched by every error returned from the broker calls.
var ErrExchange = errors.New("credential exchange failed")

const (
	opGetID          = "GetId"
	opGetCredentials = "GetCredentialsForIdentity"
)

// ExchangeError reports which call of the exchange failed.
type ExchangeError struct {
	// Op is the Cognito operation that failed.
	Op string

	// Code is the AWS error code when the service rejected the call,
	// e.g. "NotAuthorizedException". Empty for transport failures.
	Code string

	// Details contains the underlying error.
	Details error
}

func newExchangeError(op string, err error) *ExchangeError {
	e := &ExchangeError{Op: op, Details: err}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		e.Code = apiErr.ErrorCode()
	}

	return e
}

// Error implements the error interface.
func (e *ExchangeError) Error() string {
	msg := ErrExchange.Error() + ": " + e.Op
	if e.Details != nil {
		msg += ": " + e.Details.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *ExchangeError) Unwrap() error {
	return e.Details
}

// Is allows the error to be compared with ErrExchange.
func (e *ExchangeError) Is(target error) bool {
	return target == ErrExchange
}
