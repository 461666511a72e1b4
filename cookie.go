package edgeauthz

import "strings"

// CognitoCookiePrefix prefixes every cookie the Cognito hosted UI and
// Amplify set for a signed-in user.
const CognitoCookiePrefix = "CognitoIdentityServiceProvider"

// ParseCookies splits a Cookie header into name/value pairs. Entries are
// separated by ';', the first '=' splits name from value and a value ends
// at the next '=', so "a=b=c" yields "b". Whitespace around both is trimmed.
// Entries without '=' are skipped and a repeated name keeps its last value.
func ParseCookies(header string) map[string]string {
	cookies := make(map[string]string)
	for _, entry := range strings.Split(header, ";") {
		name, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		value, _, _ = strings.Cut(value, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		cookies[name] = strings.TrimSpace(value)
	}
	return cookies
}

// LastAuthUserCookie names the cookie holding the last signed-in user of
// the app client clientID.
func LastAuthUserCookie(clientID string) string {
	return CognitoCookiePrefix + "." + clientID + ".LastAuthUser"
}

// IDTokenCookie names the cookie holding the ID token of user.
func IDTokenCookie(clientID, user string) string {
	return CognitoCookiePrefix + "." + clientID + "." + user + ".idToken"
}

// cookieHeader joins every cookie header entry of req.
func cookieHeader(req *Request) string {
	return strings.Join(req.Headers.Values("cookie"), "; ")
}
