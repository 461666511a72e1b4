/*
Package core authorizes a single edge request: it decodes the caller's
identity token, picks the one role the caller may assume for the request
host, obtains temporary credentials for that role and signs the request.

# Flow

	token ──► claims.Extract ──► Resolver.Resolve(host, environment, roles)
	                                    │
	                                    ▼
	          Signer.Sign ◄── Broker.Exchange(token, roleARN)

Each step waits on the previous one and nothing is retried. The identity
token's signature is never verified here; the origin API is expected to
enforce access on its own.

# Errors

Authorize fails only with *AuthorizationError. Its Kind tells the caller
which step failed:

	_, err := authorizer.Authorize(ctx, req)
	switch {
	case errors.Is(err, core.ErrNoEntitlement):
	    // the caller holds no mapped role for this host
	case errors.Is(err, core.ErrCredentialExchange):
	    // the identity pool refused the token or the role
	}

Reason and ReasonOf map a failure to a short code for logs and metrics.

# Basic Usage

	authorizer, err := core.New(
	    core.WithResolver(resolver),
	    core.WithBroker(broker),
	    core.WithSigner(signer),
	    core.WithEnvironment("prod"),
	)
	if err != nil {
	    log.Fatal(err)
	}

	result, err := authorizer.Authorize(ctx, core.Request{
	    Token:  token,
	    Method: "GET",
	    Host:   "api.example.com",
	    URI:    "/items",
	})
*/
package core
