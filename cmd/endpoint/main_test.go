package main

import (
	"context"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler(t *testing.T) {
	logger, hook := test.NewNullLogger()

	req := events.APIGatewayProxyRequest{HTTPMethod: "GET", Path: "/items"}
	req.RequestContext.Identity.UserArn = "arn:aws:sts::000000000000:assumed-role/R1/ap-northeast-1:identity"

	resp, err := handler(logger)(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Hello, world!"}`, resp.Body)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, "arn:aws:sts::000000000000:assumed-role/R1/ap-northeast-1:identity", hook.LastEntry().Data["caller"])
}
