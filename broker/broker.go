// Package broker exchanges a Cognito ID token for temporary AWS credentials
// through a Cognito identity pool.
//
// The exchange takes two calls, GetId followed by GetCredentialsForIdentity
// with an explicit CustomRoleArn. Neither call is retried here; transport
// retries belong to the AWS SDK client handed to New.
package broker

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentity"
)

// CredentialsSource is recorded as aws.Credentials.Source.
const CredentialsSource = "CognitoIdentityBroker"

// API is the subset of the Cognito identity client the broker calls.
// *cognitoidentity.Client satisfies it.
type API interface {
	GetId(ctx context.Context, params *cognitoidentity.GetIdInput, optFns ...func(*cognitoidentity.Options)) (*cognitoidentity.GetIdOutput, error)
	GetCredentialsForIdentity(ctx context.Context, params *cognitoidentity.GetCredentialsForIdentityInput, optFns ...func(*cognitoidentity.Options)) (*cognitoidentity.GetCredentialsForIdentityOutput, error)
}

// Logger defines an optional logging interface compatible with log/slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Broker talks to one identity pool on behalf of one user pool.
type Broker struct {
	api            API
	accountID      string
	identityPoolID string
	loginProvider  string
	logger         Logger
}

// New builds a Broker around a Cognito identity client.
//
// Required options:
//   - WithIdentityPoolID
//   - WithLoginProvider
func New(api API, opts ...Option) (*Broker, error) {
	if api == nil {
		return nil, errors.New("cognito identity client cannot be nil")
	}

	b := &Broker{api: api}

	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	if b.identityPoolID == "" {
		return nil, errors.New("identity pool id is required (use WithIdentityPoolID)")
	}
	if b.loginProvider == "" {
		return nil, errors.New("login provider is required (use WithLoginProvider)")
	}

	return b, nil
}

// Logins returns the Logins map presenting token as a user pool login.
func (b *Broker) Logins(token string) map[string]string {
	return map[string]string{b.loginProvider: token}
}

// ResolveIdentity returns the identity id the pool associates with logins.
func (b *Broker) ResolveIdentity(ctx context.Context, logins map[string]string) (string, error) {
	input := &cognitoidentity.GetIdInput{
		IdentityPoolId: aws.String(b.identityPoolID),
		Logins:         logins,
	}
	if b.accountID != "" {
		input.AccountId = aws.String(b.accountID)
	}

	out, err := b.api.GetId(ctx, input)
	if err != nil {
		return "", newExchangeError(opGetID, err)
	}

	identityID := aws.ToString(out.IdentityId)
	if identityID == "" {
		return "", newExchangeError(opGetID, errors.New("response carries no identity id"))
	}

	if b.logger != nil {
		b.logger.Debug("resolved cognito identity", "identity_id", identityID)
	}

	return identityID, nil
}

// CredentialsForIdentity returns temporary credentials for identityID scoped
// to roleARN. Incomplete responses are rejected as a whole.
func (b *Broker) CredentialsForIdentity(ctx context.Context, identityID string, logins map[string]string, roleARN string) (aws.Credentials, error) {
	out, err := b.api.GetCredentialsForIdentity(ctx, &cognitoidentity.GetCredentialsForIdentityInput{
		IdentityId:    aws.String(identityID),
		Logins:        logins,
		CustomRoleArn: aws.String(roleARN),
	})
	if err != nil {
		return aws.Credentials{}, newExchangeError(opGetCredentials, err)
	}

	if out.Credentials == nil {
		return aws.Credentials{}, newExchangeError(opGetCredentials, errors.New("response carries no credentials"))
	}

	creds := aws.Credentials{
		AccessKeyID:     aws.ToString(out.Credentials.AccessKeyId),
		SecretAccessKey: aws.ToString(out.Credentials.SecretKey),
		SessionToken:    aws.ToString(out.Credentials.SessionToken),
		Source:          CredentialsSource,
	}
	if out.Credentials.Expiration != nil {
		creds.CanExpire = true
		creds.Expires = *out.Credentials.Expiration
	}

	if creds.AccessKeyID == "" || creds.SecretAccessKey == "" || creds.SessionToken == "" {
		return aws.Credentials{}, newExchangeError(opGetCredentials, errors.New("response carries incomplete credentials"))
	}

	if b.logger != nil {
		b.logger.Debug("obtained temporary credentials",
			"identity_id", identityID,
			"role_arn", roleARN,
			"expires", creds.Expires)
	}

	return creds, nil
}

// Exchange runs ResolveIdentity and CredentialsForIdentity for token.
func (b *Broker) Exchange(ctx context.Context, token, roleARN string) (aws.Credentials, error) {
	logins := b.Logins(token)

	identityID, err := b.ResolveIdentity(ctx, logins)
	if err != nil {
		return aws.Credentials{}, err
	}

	return b.CredentialsForIdentity(ctx, identityID, logins, roleARN)
}
