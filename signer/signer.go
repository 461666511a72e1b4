// Package signer signs requests to API Gateway with AWS Signature Version 4
// so that an IAM-authorized API accepts them without running federation
// itself.
package signer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
)

const (
	// DefaultService is the API Gateway execution service.
	DefaultService = "execute-api"

	// EmptyPayloadHash is the hex SHA-256 of an empty body.
	EmptyPayloadHash = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
)

// Headers are the values a signed request must carry.
type Headers struct {
	Date          string
	SecurityToken string
	Authorization string
}

// Signer computes SigV4 headers for body-less requests.
type Signer struct {
	region  string
	service string
	now     func() time.Time
	signer  *v4.Signer
}

// Option configures a Signer.
type Option func(*Signer) error

// WithRegion sets the signing region (REQUIRED).
func WithRegion(region string) Option {
	return func(s *Signer) error {
		if region == "" {
			return errors.New("region cannot be empty")
		}
		s.region = region
		return nil
	}
}

// WithService sets the signing service name.
//
// Default: "execute-api"
func WithService(service string) Option {
	return func(s *Signer) error {
		if service == "" {
			return errors.New("service cannot be empty")
		}
		s.service = service
		return nil
	}
}

// WithClock replaces the wall clock used for the signing time.
func WithClock(now func() time.Time) Option {
	return func(s *Signer) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		s.now = now
		return nil
	}
}

// New builds a Signer.
func New(opts ...Option) (*Signer, error) {
	s := &Signer{
		service: DefaultService,
		now:     time.Now,
		signer:  v4.NewSigner(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if s.region == "" {
		return nil, errors.New("region is required (use WithRegion)")
	}

	return s, nil
}

// Sign computes the headers for method on rawURL with query, signed with
// creds at the current clock time. Any query already present in rawURL is
// replaced by query.
func (s *Signer) Sign(ctx context.Context, creds aws.Credentials, method, rawURL string, query url.Values) (Headers, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Headers{}, fmt.Errorf("could not parse url to sign: %w", err)
	}
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return Headers{}, fmt.Errorf("could not build request to sign: %w", err)
	}

	if err := s.signer.SignHTTP(ctx, creds, req, EmptyPayloadHash, s.service, s.region, s.now()); err != nil {
		return Headers{}, fmt.Errorf("could not sign request: %w", err)
	}

	return Headers{
		Date:          req.Header.Get("X-Amz-Date"),
		SecurityToken: req.Header.Get("X-Amz-Security-Token"),
		Authorization: req.Header.Get("Authorization"),
	}, nil
}
