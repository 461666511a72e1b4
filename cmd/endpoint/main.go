// Command endpoint is a minimal API Gateway backend placed behind the edge
// functions to check that signed requests get through.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"
)

type message struct {
	Message string `json:"message"`
}

func handler(logger logrus.FieldLogger) func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return func(_ context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		logger.WithFields(logrus.Fields{
			"method": req.HTTPMethod,
			"path":   req.Path,
			"caller": req.RequestContext.Identity.UserArn,
		}).Info("request received")

		body, err := json.Marshal(message{Message: "Hello, world!"})
		if err != nil {
			return events.APIGatewayProxyResponse{}, err
		}

		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusOK,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       string(body),
		}, nil
	}
}

func main() {
	logger := logrus.New()
	logger.Out = os.Stdout
	logger.Formatter = &logrus.JSONFormatter{}

	lambda.Start(handler(logger))
}
