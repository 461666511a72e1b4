package claims

import (
	"encoding/json"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded payload of a Cognito ID token.
type Claims struct {
	Subject       string           `json:"sub"`
	EmailVerified bool             `json:"email_verified"`
	Issuer        string           `json:"iss"`
	Username      string           `json:"cognito:username"`
	Groups        []string         `json:"cognito:groups,omitempty"`
	PreferredRole string           `json:"cognito:preferred_role,omitempty"`
	Roles         []string         `json:"cognito:roles,omitempty"`
	OriginJTI     string           `json:"origin_jti"`
	Audience      jwt.ClaimStrings `json:"aud"`
	EventID       string           `json:"event_id"`
	TokenUse      string           `json:"token_use"`
	AuthTime      int64            `json:"auth_time"`
	IssuedAt      int64            `json:"iat"`
	Expiry        int64            `json:"exp"`
	ID            string           `json:"jti"`
	Email         string           `json:"email"`

	// Extra holds every claim without a dedicated field, untouched.
	Extra map[string]any `json:"-"`
}

// claimField binds a payload key to the field it decodes into. A strict
// field takes part in authorization and a type mismatch fails the decode.
// Any other mistyped claim is kept in Extra instead.
type claimField struct {
	dst    any
	strict bool
}

func (c *Claims) fields() map[string]claimField {
	return map[string]claimField{
		"sub":                    {dst: &c.Subject},
		"email_verified":         {dst: (*looseBool)(&c.EmailVerified)},
		"iss":                    {dst: &c.Issuer},
		"cognito:username":       {dst: &c.Username, strict: true},
		"cognito:groups":         {dst: &c.Groups, strict: true},
		"cognito:preferred_role": {dst: &c.PreferredRole},
		"cognito:roles":          {dst: &c.Roles, strict: true},
		"origin_jti":             {dst: &c.OriginJTI},
		"aud":                    {dst: &c.Audience},
		"event_id":               {dst: &c.EventID},
		"token_use":              {dst: &c.TokenUse},
		"auth_time":              {dst: &c.AuthTime},
		"iat":                    {dst: &c.IssuedAt},
		"exp":                    {dst: &c.Expiry},
		"jti":                    {dst: &c.ID},
		"email":                  {dst: &c.Email},
	}
}

// looseBool accepts a JSON boolean or the strings "true" and "false", which
// some federated identity providers send for email_verified.
type looseBool bool

func (b *looseBool) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch v := v.(type) {
	case nil:
	case bool:
		*b = looseBool(v)
	case string:
		switch v {
		case "true":
			*b = true
		case "false":
			*b = false
		default:
			return fmt.Errorf("invalid boolean %q", v)
		}
	default:
		return fmt.Errorf("invalid boolean of type %T", v)
	}
	return nil
}

// InGroup reports whether the caller is a member of the named group.
func (c *Claims) InGroup(group string) bool {
	for _, g := range c.Groups {
		if g == group {
			return true
		}
	}
	return false
}
