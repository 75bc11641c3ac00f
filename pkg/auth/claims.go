package auth

import "github.com/golang-jwt/jwt/v5"

// SessionClaims is the typed JWT handed to clients. The JWT ID carries the
// session identifier; the role is never trusted from the token and is read
// from the stored session snapshot instead.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// SessionID returns the session identifier embedded in the token.
func (c *SessionClaims) SessionID() string {
	if c == nil {
		return ""
	}
	return c.ID
}
