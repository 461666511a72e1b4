package edgeauthz

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/cognito-edge/edgeauthz/core"
)

// IDTokenHeader is the custom origin header carrying the caller's raw token.
const IDTokenHeader = "X-Id-Token"

// Authorizer turns a token and a request line into signed headers.
// *core.Authorizer satisfies it.
type Authorizer interface {
	Authorize(ctx context.Context, req core.Request) (*core.Result, error)
}

// OriginHandler runs on origin-request. It signs requests whose caller is
// entitled to a role and hands every other request to its ErrorHandler,
// which by default forwards it unchanged.
type OriginHandler struct {
	authorizer   Authorizer
	extractor    TokenExtractor
	errorHandler ErrorHandler
	logger       Logger
	metrics      Metrics
	tracer       Tracer
}

// NewOriginHandler builds an OriginHandler around authorizer.
func NewOriginHandler(authorizer Authorizer, opts ...Option) (*OriginHandler, error) {
	if authorizer == nil {
		return nil, ErrAuthorizerNil
	}

	o, err := newHandlerOptions(opts)
	if err != nil {
		return nil, err
	}
	if o.extractor == nil {
		o.extractor = AuthHeaderTokenExtractor
	}

	return &OriginHandler{
		authorizer:   authorizer,
		extractor:    o.extractor,
		errorHandler: o.errorHandler,
		logger:       o.logger,
		metrics:      o.metrics,
		tracer:       o.tracer,
	}, nil
}

// Handle returns the signed request, or whatever the ErrorHandler returns
// when the request cannot be authorized. On that path the request handed
// to the ErrorHandler is the one in event, untouched.
func (h *OriginHandler) Handle(ctx context.Context, event Event) (*Request, error) {
	req, err := event.Request()
	if err != nil {
		return nil, err
	}

	ctx, span := h.tracer.StartSpan(ctx, "edgeauthz.origin_request")
	defer span.Finish()

	start := time.Now()
	out, err := h.authorize(ctx, req)
	duration := time.Since(start).Seconds()

	if err != nil {
		reason := reason(err)
		if h.logger != nil {
			h.logger.Warn("Request not authorized, handing to error handler", "reason", reason, "error", err)
		}
		span.SetTag("outcome", OutcomePassthrough)
		span.SetTag("reason", reason)
		span.RecordError(err)
		h.metrics.IncCounter(MetricOriginRequests, map[string]string{"outcome": OutcomePassthrough, "reason": reason})
		h.metrics.ObserveHistogram(MetricAuthorizationDuration, duration, map[string]string{"outcome": OutcomePassthrough})

		return h.errorHandler(ctx, req, err)
	}

	span.SetTag("outcome", OutcomeAuthorized)
	h.metrics.IncCounter(MetricOriginRequests, map[string]string{"outcome": OutcomeAuthorized, "reason": ""})
	h.metrics.ObserveHistogram(MetricAuthorizationDuration, duration, map[string]string{"outcome": OutcomeAuthorized})

	return out, nil
}

// authorize is the single point where every way of failing to authorize
// surfaces as an error, a panic in a collaborator included. It never
// modifies req.
func (h *OriginHandler) authorize(ctx context.Context, req *Request) (out *Request, err error) {
	defer func() {
		if r := recover(); r != nil {
			if h.logger != nil {
				h.logger.Error("Recovered from panic while authorizing", "panic", r, "stack", string(debug.Stack()))
			}
			out, err = nil, core.NewAuthorizationError(core.ErrUnexpected, "authorization panicked", fmt.Errorf("%v", r))
		}
	}()

	token, err := h.extractor(req)
	if err != nil {
		return nil, core.NewAuthorizationError(core.ErrMissingInput, "unreadable authorization header", err)
	}
	if token == "" {
		return nil, ErrNoAuthorization
	}

	result, err := h.authorizer.Authorize(ctx, core.Request{
		Token:  token,
		Method: req.Method,
		Host:   req.Headers.Get("host"),
		URI:    req.URI,
		Query:  DecodeQueryString(req.QueryString),
	})
	if err != nil {
		return nil, err
	}

	out = req.clone()
	out.Headers.Set("Authorization", result.Headers.Authorization)
	out.Headers.Set("X-Amz-Date", result.Headers.Date)
	if result.Headers.SecurityToken != "" {
		out.Headers.Set("X-Amz-Security-Token", result.Headers.SecurityToken)
	}

	if out.Origin != nil && out.Origin.Custom != nil {
		out.Origin.Custom.CustomHeaders.Set(IDTokenHeader, token)
	} else if h.logger != nil {
		h.logger.Warn("Origin is not a custom origin, id token header not attached")
	}

	if h.logger != nil {
		h.logger.Info("Request authorized",
			"subject", result.Claims.Subject,
			"role_arn", result.RoleARN)
	}

	return out, nil
}
