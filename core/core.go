// Package core turns an identity token into signed request headers. It is
// independent of the edge event format so the same engine serves any
// transport that can hand it a token, a host and a request line.
package core

import (
	"context"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/cognito-edge/edgeauthz/claims"
	"github.com/cognito-edge/edgeauthz/rolemapping"
	"github.com/cognito-edge/edgeauthz/signer"
)

// Resolver selects at most one role mapping rule for a caller.
// *rolemapping.Resolver satisfies it.
type Resolver interface {
	Resolve(domain, environment string, callerRoles []string) (rolemapping.Rule, bool)
	RoleARN(rule rolemapping.Rule) string
}

// Broker exchanges an identity token for credentials scoped to one role.
// *broker.Broker satisfies it.
type Broker interface {
	Exchange(ctx context.Context, token, roleARN string) (aws.Credentials, error)
}

// Signer produces SigV4 headers. *signer.Signer satisfies it.
type Signer interface {
	Sign(ctx context.Context, creds aws.Credentials, method, rawURL string, query url.Values) (signer.Headers, error)
}

// Logger defines an optional logging interface for the authorizer.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Request is what the authorizer needs to know about an inbound request.
type Request struct {
	// Token is the raw compact identity token.
	Token string

	// Method is the HTTP method forwarded to the origin.
	Method string

	// Host is the origin host; it doubles as the role mapping domain.
	Host string

	// URI is the request path, starting with "/".
	URI string

	// Query holds the decoded query parameters.
	Query url.Values
}

// URL is the https URL the signature is computed for.
func (r Request) URL() string {
	return "https://" + r.Host + r.URI
}

// Result describes a successful authorization.
type Result struct {
	Claims  *claims.Claims
	Rule    rolemapping.Rule
	RoleARN string
	Headers signer.Headers
}

// Authorizer runs claims extraction, role resolution, credential exchange
// and signing for one request at a time. It holds no per-request state and
// is safe for concurrent use.
type Authorizer struct {
	resolver    Resolver
	broker      Broker
	signer      Signer
	environment string
	extract     func(token string) (*claims.Claims, error)
	logger      Logger
}

// Authorize returns the headers that let req reach the origin under the
// caller's role. Every failure is an *AuthorizationError.
//
// The steps run strictly in order and the first failure ends the attempt:
//   - the token payload is decoded (ErrDecode)
//   - a rule is resolved for req.Host (ErrNoEntitlement)
//   - credentials are vended for the rule's role (ErrCredentialExchange)
//   - the request is signed (ErrSigning)
func (a *Authorizer) Authorize(ctx context.Context, req Request) (*Result, error) {
	if req.Token == "" {
		return nil, NewAuthorizationError(ErrMissingInput, "no identity token", nil)
	}
	if req.Host == "" {
		return nil, NewAuthorizationError(ErrMissingInput, "no host", nil)
	}

	start := time.Now()

	c, err := a.extract(req.Token)
	if err != nil {
		if a.logger != nil {
			a.logger.Warn("Identity token could not be decoded", "error", err)
		}
		return nil, NewAuthorizationError(ErrDecode, "could not decode identity token", err)
	}

	rule, ok := a.resolver.Resolve(req.Host, a.environment, c.Roles)
	if !ok {
		if a.logger != nil {
			a.logger.Info("No role mapping applies",
				"subject", c.Subject,
				"domain", req.Host,
				"environment", a.environment)
		}
		return nil, NewAuthorizationError(ErrNoEntitlement, "no role mapping for "+req.Host+" in "+a.environment, nil)
	}
	roleARN := a.resolver.RoleARN(rule)

	creds, err := a.broker.Exchange(ctx, req.Token, roleARN)
	if err != nil {
		if a.logger != nil {
			a.logger.Error("Credential exchange failed", "role_arn", roleARN, "error", err)
		}
		return nil, NewAuthorizationError(ErrCredentialExchange, "could not obtain credentials for "+roleARN, err)
	}

	headers, err := a.signer.Sign(ctx, creds, req.Method, req.URL(), req.Query)
	if err != nil {
		if a.logger != nil {
			a.logger.Error("Request signing failed", "error", err)
		}
		return nil, NewAuthorizationError(ErrSigning, "could not sign request", err)
	}

	if a.logger != nil {
		a.logger.Debug("Request authorized",
			"subject", c.Subject,
			"role_arn", roleARN,
			"duration", time.Since(start))
	}

	return &Result{
		Claims:  c,
		Rule:    rule,
		RoleARN: roleARN,
		Headers: headers,
	}, nil
}
