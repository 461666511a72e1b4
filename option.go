package edgeauthz

import "errors"

// Option configures a ViewerHandler or an OriginHandler.
// Returns error for validation failures.
type Option func(*handlerOptions) error

type handlerOptions struct {
	logger       Logger
	metrics      Metrics
	tracer       Tracer
	extractor    TokenExtractor
	errorHandler ErrorHandler
}

func newHandlerOptions(opts []Option) (handlerOptions, error) {
	o := handlerOptions{
		metrics:      &NoopMetrics{},
		tracer:       &NoopTracer{},
		errorHandler: FailOpen,
	}

	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return handlerOptions{}, err
		}
	}

	return o, nil
}

// WithLogger sets an optional logger for the handler.
//
// The logger interface is compatible with log/slog.Logger and similar loggers.
//
// Example:
//
//	handler, err := edgeauthz.NewOriginHandler(authorizer,
//	    edgeauthz.WithLogger(edgeauthz.NewLogrusLogger(logrus.StandardLogger())),
//	)
func WithLogger(logger Logger) Option {
	return func(o *handlerOptions) error {
		if logger == nil {
			return ErrLoggerNil
		}
		o.logger = logger
		return nil
	}
}

// WithMetrics sets where request outcomes are counted.
//
// Default: NoopMetrics
func WithMetrics(metrics Metrics) Option {
	return func(o *handlerOptions) error {
		if metrics == nil {
			return ErrMetricsNil
		}
		o.metrics = metrics
		return nil
	}
}

// WithTracer sets the tracer spanning each invocation.
//
// Default: NoopTracer
func WithTracer(tracer Tracer) Option {
	return func(o *handlerOptions) error {
		if tracer == nil {
			return ErrTracerNil
		}
		o.tracer = tracer
		return nil
	}
}

// WithTokenExtractor sets the function that finds the identity token.
//
// Default: AuthHeaderTokenExtractor for the origin phase and
// CognitoCookieTokenExtractor for the viewer phase.
func WithTokenExtractor(e TokenExtractor) Option {
	return func(o *handlerOptions) error {
		if e == nil {
			return ErrTokenExtractorNil
		}
		o.extractor = e
		return nil
	}
}

// WithErrorHandler sets what the origin phase does with requests it cannot
// authorize. The viewer phase ignores it.
//
// Default: FailOpen
func WithErrorHandler(h ErrorHandler) Option {
	return func(o *handlerOptions) error {
		if h == nil {
			return ErrErrorHandlerNil
		}
		o.errorHandler = h
		return nil
	}
}

// Sentinel errors for configuration validation
var (
	ErrAuthorizerNil     = errors.New("authorizer cannot be nil")
	ErrClientIDEmpty     = errors.New("client id cannot be empty")
	ErrErrorHandlerNil   = errors.New("errorHandler cannot be nil")
	ErrTokenExtractorNil = errors.New("tokenExtractor cannot be nil")
	ErrLoggerNil         = errors.New("logger cannot be nil")
	ErrMetricsNil        = errors.New("metrics cannot be nil")
	ErrTracerNil         = errors.New("tracer cannot be nil")
)
