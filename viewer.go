package edgeauthz

import (
	"context"
)

// Viewer-phase reasons.
const (
	ViewerReasonAuthorizationPresent = "authorization_present"
	ViewerReasonNoCookie             = "no_cookie"
	ViewerReasonNoToken              = "no_token"
	ViewerReasonTokenFromCookie      = "token_from_cookie"
)

// ViewerHandler runs on viewer-request. It moves the Cognito ID token from
// the browser cookies into the authorization header so the origin phase,
// which never sees cookies it does not forward, can find it.
type ViewerHandler struct {
	clientID  string
	extractor TokenExtractor
	logger    Logger
	metrics   Metrics
	tracer    Tracer
}

// NewViewerHandler builds a ViewerHandler for the app client clientID.
func NewViewerHandler(clientID string, opts ...Option) (*ViewerHandler, error) {
	if clientID == "" {
		return nil, ErrClientIDEmpty
	}

	o, err := newHandlerOptions(opts)
	if err != nil {
		return nil, err
	}
	if o.extractor == nil {
		o.extractor = CognitoCookieTokenExtractor(clientID)
	}

	return &ViewerHandler{
		clientID:  clientID,
		extractor: o.extractor,
		logger:    o.logger,
		metrics:   o.metrics,
		tracer:    o.tracer,
	}, nil
}

// Handle returns the request to forward. It fails only for an event without
// a record; every missing piece of the request forwards it unchanged.
func (h *ViewerHandler) Handle(ctx context.Context, event Event) (*Request, error) {
	req, err := event.Request()
	if err != nil {
		return nil, err
	}

	_, span := h.tracer.StartSpan(ctx, "edgeauthz.viewer_request")
	defer span.Finish()

	out, reason := h.handle(req)

	outcome := OutcomePassthrough
	if reason == ViewerReasonTokenFromCookie {
		outcome = OutcomeAuthorized
	}
	span.SetTag("outcome", outcome)
	span.SetTag("reason", reason)
	h.metrics.IncCounter(MetricViewerRequests, map[string]string{"outcome": outcome, "reason": reason})

	return out, nil
}

func (h *ViewerHandler) handle(req *Request) (*Request, string) {
	if req.Headers.Has("authorization") {
		if h.logger != nil {
			h.logger.Debug("Authorization header already present")
		}
		return req, ViewerReasonAuthorizationPresent
	}

	if !req.Headers.Has("cookie") {
		if h.logger != nil {
			h.logger.Info("No cookie header, forwarding unchanged")
		}
		return req, ViewerReasonNoCookie
	}

	token, err := h.extractor(req)
	if err != nil || token == "" {
		if h.logger != nil {
			h.logger.Info("No identity token in cookies, forwarding unchanged", "client_id", h.clientID)
		}
		return req, ViewerReasonNoToken
	}

	out := req.clone()
	out.Headers.Set("Authorization", token)

	if h.logger != nil {
		h.logger.Debug("Authorization header set from cookies")
	}

	return out, ViewerReasonTokenFromCookie
}
