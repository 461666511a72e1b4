// Command origin-request is the Lambda@Edge origin-request function. It
// signs requests to an IAM-authorized API Gateway origin on behalf of
// callers whose Cognito ID token maps to a role, and forwards every other
// request unchanged.
package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentity"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"github.com/cognito-edge/edgeauthz"
	"github.com/cognito-edge/edgeauthz/broker"
	"github.com/cognito-edge/edgeauthz/config"
	"github.com/cognito-edge/edgeauthz/core"
	"github.com/cognito-edge/edgeauthz/rolemapping"
	"github.com/cognito-edge/edgeauthz/signer"
)

const tracerName = "github.com/cognito-edge/edgeauthz/cmd/origin-request"

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.Out = os.Stdout
	logger.Formatter = &logrus.JSONFormatter{}
	logger.Level = logrus.InfoLevel
	return logger
}

// build wires the origin handler from the bundled configuration files.
func build(ctx context.Context, configPath, rulesPath string, logger *logrus.Logger, metrics edgeauthz.Metrics) (*edgeauthz.OriginHandler, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	rules, err := rolemapping.LoadFile(rulesPath)
	if err != nil {
		return nil, err
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("could not load aws config: %w", err)
	}

	log := edgeauthz.NewLogrusLogger(logger)

	resolver, err := rolemapping.NewResolver(rules,
		rolemapping.WithAccountID(cfg.AccountID),
		rolemapping.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}

	b, err := broker.New(cognitoidentity.NewFromConfig(awsCfg),
		broker.WithAccountID(cfg.AccountID),
		broker.WithIdentityPoolID(cfg.IdentityPoolID),
		broker.WithLoginProvider(cfg.LoginProvider()),
		broker.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}

	s, err := signer.New(
		signer.WithRegion(cfg.Region),
		signer.WithService(cfg.ServiceName),
	)
	if err != nil {
		return nil, err
	}

	authorizer, err := core.New(
		core.WithResolver(resolver),
		core.WithBroker(b),
		core.WithSigner(s),
		core.WithEnvironment(cfg.Environment),
		core.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}

	return edgeauthz.NewOriginHandler(authorizer,
		edgeauthz.WithLogger(log),
		edgeauthz.WithMetrics(metrics),
		edgeauthz.WithTracer(edgeauthz.NewOpenTelemetryTracer(otel.Tracer(tracerName))),
	)
}

// handler forwards the request unchanged when the handler could not be
// built, so a broken deployment degrades to the origin's own access control.
func handler(load func() (*edgeauthz.OriginHandler, error), logger logrus.FieldLogger) func(context.Context, edgeauthz.Event) (*edgeauthz.Request, error) {
	return func(ctx context.Context, event edgeauthz.Event) (*edgeauthz.Request, error) {
		h, err := load()
		if err != nil {
			logger.WithError(err).Error("origin handler unavailable, forwarding request unchanged")
			return event.Request()
		}
		return h.Handle(ctx, event)
	}
}

func main() {
	logger := newLogger()
	metrics := edgeauthz.NewPrometheusMetrics()

	load := sync.OnceValues(func() (*edgeauthz.OriginHandler, error) {
		return build(context.Background(), config.DefaultFile, rolemapping.DefaultFile, logger, metrics)
	})

	lambda.Start(handler(load, logger))
}
