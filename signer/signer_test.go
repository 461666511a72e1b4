package signer

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNew(t *testing.T) {
	testCases := []struct {
		name      string
		opts      []Option
		wantError string
	}{
		{name: "missing region", wantError: "region is required"},
		{name: "empty region", opts: []Option{WithRegion("")}, wantError: "region cannot be empty"},
		{name: "empty service", opts: []Option{WithRegion("us-east-1"), WithService("")}, wantError: "service cannot be empty"},
		{name: "nil clock", opts: []Option{WithRegion("us-east-1"), WithClock(nil)}, wantError: "clock cannot be nil"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			s, err := New(testCase.opts...)
			assert.Nil(t, s)
			assert.ErrorContains(t, err, testCase.wantError)
		})
	}

	t.Run("defaults to execute-api", func(t *testing.T) {
		s, err := New(WithRegion("ap-northeast-1"))
		require.NoError(t, err)
		assert.Equal(t, "execute-api", s.service)
	})
}

func TestSigner_Sign(t *testing.T) {
	t.Run("matches the get-vanilla reference vector", func(t *testing.T) {
		s, err := New(
			WithRegion("us-east-1"),
			WithService("service"),
			WithClock(fixedClock(time.Date(2015, 8, 30, 12, 36, 0, 0, time.UTC))),
		)
		require.NoError(t, err)

		creds := aws.Credentials{
			AccessKeyID:     "AKIDEXAMPLE",
			SecretAccessKey: "wJalrXUtnFEMI/K7MDENG+bPxRfiCYEXAMPLEKEY",
		}

		got, err := s.Sign(context.Background(), creds, "GET", "https://example.amazonaws.com/", nil)
		require.NoError(t, err)
		assert.Equal(t, Headers{
			Date: "20150830T123600Z",
			Authorization: "AWS4-HMAC-SHA256 Credential=AKIDEXAMPLE/20150830/us-east-1/service/aws4_request, " +
				"SignedHeaders=host;x-amz-date, " +
				"Signature=5fa00fa31553b73ebf1942676e86291e8372ff2a2260956d9b8aae1d763fbf31",
		}, got)
	})

	creds := aws.Credentials{
		AccessKeyID:     "AKID",
		SecretAccessKey: "SECRET",
		SessionToken:    "SESSION",
	}
	signingTime := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("session credentials", func(t *testing.T) {
		s, err := New(WithRegion("ap-northeast-1"), WithClock(fixedClock(signingTime)))
		require.NoError(t, err)

		got, err := s.Sign(context.Background(), creds, "GET", "https://api.example.com/items", url.Values{"page": {"2"}})
		require.NoError(t, err)
		assert.Equal(t, "20240102T030405Z", got.Date)
		assert.Equal(t, "SESSION", got.SecurityToken)
		assert.Contains(t, got.Authorization, "Credential=AKID/20240102/ap-northeast-1/execute-api/aws4_request")
		assert.Contains(t, got.Authorization, "SignedHeaders=host;x-amz-date;x-amz-security-token")
	})

	t.Run("deterministic for a fixed clock", func(t *testing.T) {
		s, err := New(WithRegion("ap-northeast-1"), WithClock(fixedClock(signingTime)))
		require.NoError(t, err)

		first, err := s.Sign(context.Background(), creds, "GET", "https://api.example.com/items", url.Values{"page": {"2"}})
		require.NoError(t, err)
		second, err := s.Sign(context.Background(), creds, "GET", "https://api.example.com/items", url.Values{"page": {"2"}})
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("signature covers method, path and query", func(t *testing.T) {
		s, err := New(WithRegion("ap-northeast-1"), WithClock(fixedClock(signingTime)))
		require.NoError(t, err)

		base, err := s.Sign(context.Background(), creds, "GET", "https://api.example.com/items", url.Values{"page": {"2"}})
		require.NoError(t, err)

		variants := map[string]func() (Headers, error){
			"method": func() (Headers, error) {
				return s.Sign(context.Background(), creds, "DELETE", "https://api.example.com/items", url.Values{"page": {"2"}})
			},
			"path": func() (Headers, error) {
				return s.Sign(context.Background(), creds, "GET", "https://api.example.com/other", url.Values{"page": {"2"}})
			},
			"query": func() (Headers, error) {
				return s.Sign(context.Background(), creds, "GET", "https://api.example.com/items", url.Values{"page": {"3"}})
			},
		}

		for name, sign := range variants {
			t.Run(name, func(t *testing.T) {
				got, err := sign()
				require.NoError(t, err)
				assert.NotEqual(t, base.Authorization, got.Authorization)
			})
		}
	})

	t.Run("uses the clock at every call", func(t *testing.T) {
		current := signingTime
		s, err := New(WithRegion("ap-northeast-1"), WithClock(func() time.Time { return current }))
		require.NoError(t, err)

		first, err := s.Sign(context.Background(), creds, "GET", "https://api.example.com/", nil)
		require.NoError(t, err)

		current = current.Add(time.Second)
		second, err := s.Sign(context.Background(), creds, "GET", "https://api.example.com/", nil)
		require.NoError(t, err)

		assert.Equal(t, "20240102T030406Z", second.Date)
		assert.NotEqual(t, first.Authorization, second.Authorization)
	})

	t.Run("invalid url", func(t *testing.T) {
		s, err := New(WithRegion("ap-northeast-1"))
		require.NoError(t, err)

		_, err = s.Sign(context.Background(), creds, "GET", "://missing-scheme", nil)
		assert.ErrorContains(t, err, "could not parse url to sign")
	})
}
