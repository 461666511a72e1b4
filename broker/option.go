package broker

import "errors"

// Option configures a Broker.
type Option func(*Broker) error

// WithAccountID sets the AWS account that owns the identity pool. It is
// optional for GetId but recommended for cross-account pools.
func WithAccountID(accountID string) Option {
	return func(b *Broker) error {
		if accountID == "" {
			return errors.New("account id cannot be empty")
		}
		b.accountID = accountID
		return nil
	}
}

// WithIdentityPoolID sets the identity pool credentials are vended from.
// This is a required option.
func WithIdentityPoolID(id string) Option {
	return func(b *Broker) error {
		if id == "" {
			return errors.New("identity pool id cannot be empty")
		}
		b.identityPoolID = id
		return nil
	}
}

// WithLoginProvider sets the Logins key the ID token is presented under,
// cognito-idp.<region>.amazonaws.com/<user pool id>. This is a required option.
func WithLoginProvider(provider string) Option {
	return func(b *Broker) error {
		if provider == "" {
			return errors.New("login provider cannot be empty")
		}
		b.loginProvider = provider
		return nil
	}
}

// WithLogger sets an optional logger.
func WithLogger(logger Logger) Option {
	return func(b *Broker) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		b.logger = logger
		return nil
	}
}
