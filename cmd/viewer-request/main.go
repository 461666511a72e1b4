// Command viewer-request is the Lambda@Edge viewer-request function. It
// copies the Cognito ID token from the hosted-UI cookies into the
// authorization header.
package main

import (
	"context"
	"os"
	"sync"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"github.com/cognito-edge/edgeauthz"
	"github.com/cognito-edge/edgeauthz/config"
)

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.Out = os.Stdout
	logger.Formatter = &logrus.JSONFormatter{}
	logger.Level = logrus.InfoLevel
	return logger
}

func build(configPath string, logger *logrus.Logger, metrics edgeauthz.Metrics) (*edgeauthz.ViewerHandler, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	return edgeauthz.NewViewerHandler(cfg.ClientID,
		edgeauthz.WithLogger(edgeauthz.NewLogrusLogger(logger)),
		edgeauthz.WithMetrics(metrics),
	)
}

func handler(load func() (*edgeauthz.ViewerHandler, error), logger logrus.FieldLogger) func(context.Context, edgeauthz.Event) (*edgeauthz.Request, error) {
	return func(ctx context.Context, event edgeauthz.Event) (*edgeauthz.Request, error) {
		h, err := load()
		if err != nil {
			logger.WithError(err).Error("viewer handler unavailable, forwarding request unchanged")
			return event.Request()
		}
		return h.Handle(ctx, event)
	}
}

func main() {
	logger := newLogger()
	metrics := edgeauthz.NewPrometheusMetrics()

	load := sync.OnceValues(func() (*edgeauthz.ViewerHandler, error) {
		return build(config.DefaultFile, logger, metrics)
	})

	lambda.Start(handler(load, logger))
}
