package edgeauthz

import (
	"errors"
	"net/url"
	"strings"
)

// TokenExtractor is a function that takes a request as input and returns
// either a token or an error. An error should only be returned if an attempt
// to specify a token was found, but the information was somehow incorrectly
// formed. In the case where a token is simply not present, this should not
// be treated as an error. An empty string should be returned in that case.
type TokenExtractor func(req *Request) (string, error)

// AuthHeaderTokenExtractor extracts the token from the authorization header.
// The header may hold the bare token, as the viewer phase writes it, or
// "Bearer {token}".
func AuthHeaderTokenExtractor(req *Request) (string, error) {
	authHeader := req.Headers.Get("authorization")
	if authHeader == "" {
		return "", nil // No error, just no token.
	}

	parts := strings.Fields(authHeader)
	switch {
	case len(parts) == 1:
		return parts[0], nil
	case len(parts) == 2 && strings.EqualFold(parts[0], "bearer"):
		return parts[1], nil
	}

	return "", errors.New("authorization header format must be {token} or Bearer {token}")
}

// CognitoCookieTokenExtractor builds a TokenExtractor that finds the ID
// token of the last signed-in user of the app client clientID in the
// request cookies.
func CognitoCookieTokenExtractor(clientID string) TokenExtractor {
	return func(req *Request) (string, error) {
		cookies := ParseCookies(cookieHeader(req))

		user := cookies[LastAuthUserCookie(clientID)]
		if user == "" {
			return "", nil
		}

		return cookies[IDTokenCookie(clientID, user)], nil
	}
}

// DecodeQueryString turns a CloudFront querystring into query parameters.
// Pairs are separated by '&' and split at the first '='. Percent escapes
// are decoded where valid and kept verbatim otherwise.
func DecodeQueryString(qs string) url.Values {
	values := url.Values{}
	for _, pair := range strings.Split(qs, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		values.Add(unescape(key), unescape(value))
	}
	return values
}

func unescape(s string) string {
	if decoded, err := url.QueryUnescape(s); err == nil {
		return decoded
	}
	return s
}
