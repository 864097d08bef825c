package session

import (
	"time"

	"github.com/golang-jwt/jwt"
)

// Role values embedded in the backend's tokens.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Session is the claim set decoded from the backend-issued bearer token.
// It is derived entirely client-side and never mutated, only replaced
// wholesale on login/register or dropped on logout.
type Session struct {
	Token     string
	UserID    string
	Role      string
	FirstName string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Valid reports whether the session can still be used: the expiry must be
// strictly in the future. An expired session is treated the same as an
// absent one everywhere.
func (s Session) Valid(now time.Time) bool {
	return s.ExpiresAt.After(now)
}

// Decode extracts the claim set from a raw token without verifying the
// signature; the client never holds the signing secret, only the backend
// does. A malformed token is a normal "no session" outcome, never an error.
func Decode(token string) (Session, bool) {
	if token == "" {
		return Session{}, false
	}

	parser := &jwt.Parser{}
	parsed, _, err := parser.ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return Session{}, false
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}, false
	}

	sess := Session{Token: token}
	if sub, ok := claims["sub"].(string); ok {
		sess.UserID = sub
	}
	// Older backend builds emit "user_role" instead of "role".
	if role, ok := claims["role"].(string); ok {
		sess.Role = role
	} else if role, ok := claims["user_role"].(string); ok {
		sess.Role = role
	}
	if name, ok := claims["firstName"].(string); ok {
		sess.FirstName = name
	}
	if iat, ok := claims["iat"].(float64); ok {
		sess.IssuedAt = time.Unix(int64(iat), 0)
	}
	if exp, ok := claims["exp"].(float64); ok {
		sess.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return sess, true
}
