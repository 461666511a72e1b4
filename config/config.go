// Package config loads the deployment configuration bundled with the edge
// functions. Lambda@Edge functions cannot read environment variables, so
// every setting lives in a JSON file shipped inside the function package.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	// DefaultFile is the configuration file bundled next to the function binary.
	DefaultFile = "configuration.json"

	// ServiceName is the SigV4 service every origin request is signed for.
	ServiceName = "execute-api"
)

// ErrInvalid is matched by every validation error returned from Parse.
var ErrInvalid = errors.New("invalid configuration")

// Configuration is read once per execution environment and never modified.
type Configuration struct {
	AccountID        string `json:"AccountId"`
	Region           string `json:"Region"`
	UserPoolID       string `json:"UserPoolId"`
	IdentityPoolID   string `json:"IdentityPoolId"`
	ClientID         string `json:"ClientId"`
	Environment      string `json:"Environment"`
	AssociatedDomain string `json:"associatedDomain"`

	// ServiceName is always ServiceName; it is not read from the file.
	ServiceName string `json:"-"`
}

// Parse decodes and validates a configuration document.
func Parse(r io.Reader) (*Configuration, error) {
	var c Configuration
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("could not decode configuration: %w", err)
	}
	c.ServiceName = ServiceName

	if err := c.validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Load reads the configuration file at path.
func Load(path string) (*Configuration, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open configuration %s: %w", path, err)
	}
	defer f.Close()

	return Parse(f)
}

func (c *Configuration) validate() error {
	required := []struct {
		key, value string
	}{
		{"AccountId", c.AccountID},
		{"Region", c.Region},
		{"UserPoolId", c.UserPoolID},
		{"IdentityPoolId", c.IdentityPoolID},
		{"ClientId", c.ClientID},
		{"Environment", c.Environment},
	}

	var missing []string
	for _, field := range required {
		if field.value == "" {
			missing = append(missing, field.key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalid, strings.Join(missing, ", "))
	}

	return nil
}

// LoginProvider is the Cognito user pool provider name used as the key of
// the Logins map sent to the identity pool.
func (c *Configuration) LoginProvider() string {
	return fmt.Sprintf("cognito-idp.%s.amazonaws.com/%s", c.Region, c.UserPoolID)
}
