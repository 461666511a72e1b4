package core

import (
	"errors"

	"github.com/cognito-edge/edgeauthz/claims"
)

// Option is a function that configures the Authorizer.
// Options return errors to enable validation during construction.
type Option func(*Authorizer) error

// New creates a new Authorizer with the provided options.
//
// WithResolver, WithBroker, WithSigner and WithEnvironment are required.
//
// Example:
//
//	authorizer, err := core.New(
//	    core.WithResolver(resolver),
//	    core.WithBroker(broker),
//	    core.WithSigner(signer),
//	    core.WithEnvironment(cfg.Environment),
//	    core.WithLogger(logger),
//	)
func New(opts ...Option) (*Authorizer, error) {
	a := &Authorizer{
		extract: claims.Extract,
	}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	if err := a.validate(); err != nil {
		return nil, err
	}

	return a, nil
}

func (a *Authorizer) validate() error {
	switch {
	case a.resolver == nil:
		return errors.New("resolver is required but not set (use WithResolver option)")
	case a.broker == nil:
		return errors.New("broker is required but not set (use WithBroker option)")
	case a.signer == nil:
		return errors.New("signer is required but not set (use WithSigner option)")
	case a.environment == "":
		return errors.New("environment is required but not set (use WithEnvironment option)")
	}
	return nil
}

// WithResolver sets the role mapping resolver.
func WithResolver(resolver Resolver) Option {
	return func(a *Authorizer) error {
		if resolver == nil {
			return errors.New("resolver cannot be nil")
		}
		a.resolver = resolver
		return nil
	}
}

// WithBroker sets the credential broker.
func WithBroker(broker Broker) Option {
	return func(a *Authorizer) error {
		if broker == nil {
			return errors.New("broker cannot be nil")
		}
		a.broker = broker
		return nil
	}
}

// WithSigner sets the request signer.
func WithSigner(signer Signer) Option {
	return func(a *Authorizer) error {
		if signer == nil {
			return errors.New("signer cannot be nil")
		}
		a.signer = signer
		return nil
	}
}

// WithEnvironment sets the environment tag rules are matched against.
func WithEnvironment(environment string) Option {
	return func(a *Authorizer) error {
		if environment == "" {
			return errors.New("environment cannot be empty")
		}
		a.environment = environment
		return nil
	}
}

// WithLogger sets an optional logger for the Authorizer.
//
// Tokens and credentials are never passed to the logger.
func WithLogger(logger Logger) Option {
	return func(a *Authorizer) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		a.logger = logger
		return nil
	}
}
