package claims

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformedToken is matched by every error returned from Extract.
var ErrMalformedToken = errors.New("malformed identity token")

// DecodeError wraps the reason a token payload could not be decoded.
type DecodeError struct {
	Details error
}

// Error returns a string representation of the error.
func (e *DecodeError) Error() string {
	if e.Details == nil {
		return ErrMalformedToken.Error()
	}
	return ErrMalformedToken.Error() + ": " + e.Details.Error()
}

// Unwrap returns the underlying decode failure.
func (e *DecodeError) Unwrap() error {
	return e.Details
}

// Is allows the error to be compared with ErrMalformedToken.
func (e *DecodeError) Is(target error) bool {
	return target == ErrMalformedToken
}

// maxTokenLength bounds the input before any decoding. CloudFront caps a
// single header well below it.
const maxTokenLength = 16 << 10

var parser = jwt.NewParser(jwt.WithJSONNumber())

// checkFormat rejects inputs that cannot be a compact JWS before they reach
// the parser.
func checkFormat(token string) error {
	if len(token) > maxTokenLength {
		return errors.New("token exceeds maximum length")
	}
	if dots := strings.Count(token, "."); dots != 2 {
		return fmt.Errorf("token has %d segments, want 3", dots+1)
	}
	return nil
}

// Extract decodes the payload of a compact token into Claims. The signature
// segment is ignored, whether it is valid, forged or empty.
func Extract(token string) (*Claims, error) {
	if err := checkFormat(token); err != nil {
		return nil, &DecodeError{Details: err}
	}

	parsed, _, err := parser.ParseUnverified(token, jwt.MapClaims{})
	// An unknown or missing alg only matters for verification, which never
	// happens here. The payload has already been decoded at that point.
	if err != nil && !(errors.Is(err, jwt.ErrTokenUnverifiable) && parsed != nil) {
		return nil, &DecodeError{Details: err}
	}

	raw, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, &DecodeError{Details: errors.New("unexpected claims type")}
	}

	var c Claims
	fields := c.fields()
	for k, v := range raw {
		if field, known := fields[k]; known {
			err := decodeClaim(v, field.dst)
			if err == nil {
				continue
			}
			if field.strict {
				return nil, &DecodeError{Details: fmt.Errorf("claim %q: %w", k, err)}
			}
		}
		if c.Extra == nil {
			c.Extra = make(map[string]any)
		}
		c.Extra[k] = v
	}

	return &c, nil
}

// decodeClaim stores v in dst, leaving dst zeroed when the types disagree.
func decodeClaim(v any, dst any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		reflect.ValueOf(dst).Elem().SetZero()
		return err
	}
	return nil
}
