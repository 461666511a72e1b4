/*
Package edgeauthz bridges Cognito sign-in and IAM-authorized APIs at a
CloudFront edge.

Two Lambda@Edge handlers cooperate:

	viewer-request                      origin-request
	┌───────────────────────┐           ┌──────────────────────────────┐
	│ cookie ─► authorization│ ──CDN──► │ authorization ─► core.Authorize│ ──► API Gateway
	└───────────────────────┘           │  ├─ authorized: SigV4 headers │
	                                    │  └─ otherwise: FailOpen      │
	                                    └──────────────────────────────┘

ViewerHandler copies the ID token of the last signed-in user from the
Cognito hosted-UI cookies into the authorization header. OriginHandler
reads that header, asks a core.Authorizer for credentials scoped to one
role and signs the request, adding the raw token as the X-Id-Token
custom origin header.

# Quick Start

	authorizer, err := core.New(
	    core.WithResolver(resolver),
	    core.WithBroker(broker),
	    core.WithSigner(signer),
	    core.WithEnvironment(cfg.Environment),
	)
	if err != nil {
	    log.Fatal(err)
	}

	handler, err := edgeauthz.NewOriginHandler(authorizer,
	    edgeauthz.WithLogger(edgeauthz.NewLogrusLogger(logrus.StandardLogger())),
	)
	if err != nil {
	    log.Fatal(err)
	}

	lambda.Start(handler.Handle)

# Failing Open

The identity token's signature is never verified at the edge. Whenever the
origin phase cannot authorize a request, for any reason, the ErrorHandler
decides what happens; the default FailOpen forwards the request exactly as
received and relies on the origin to reject it. FailClosed fails the
invocation instead.

# Observability

Both handlers accept a Logger (adapters for logrus, zerolog and zap are
provided, and *slog.Logger fits as is), a Metrics implementation and a
Tracer. Outcomes are counted as

	edgeauthz_viewer_requests_total{outcome,reason}
	edgeauthz_origin_requests_total{outcome,reason}

and the authorization latency is observed as
edgeauthz_authorization_duration_seconds{outcome}.
*/
package edgeauthz
