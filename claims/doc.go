/*
Package claims reads the identity claims of a Cognito ID token without
verifying it.

Only the payload segment of the compact token is decoded. The signature is
never checked and the registered time claims (exp, nbf, iat) are not
enforced: whoever calls Extract must already trust the channel the token
arrived on. In this module that trust comes from CloudFront, which only hands
the origin-request function tokens that passed through the viewer phase of
the same distribution. Do not use this package to authenticate callers.

Provider-namespaced claims are mapped onto neutral fields:

	cognito:username       -> Claims.Username
	cognito:groups         -> Claims.Groups
	cognito:preferred_role -> Claims.PreferredRole
	cognito:roles          -> Claims.Roles

Every claim that has no dedicated field is kept in Claims.Extra. The claims
cognito:username, cognito:groups and cognito:roles must have their
documented types or Extract fails.
A mistyped claim of any other kind is moved to Extra and its field stays
zero, and email_verified also accepts the strings "true" and "false".

# Usage

	c, err := claims.Extract(idToken)
	if err != nil {
	    // errors.Is(err, claims.ErrMalformedToken) is always true here
	    return err
	}
	fmt.Println(c.Subject, c.Roles)
*/
package claims
