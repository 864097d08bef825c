package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieName is the single fixed key the raw token lives under in the
// browser.
const CookieName = "bookery_token"

const contextKey = "bookery_session"

// CookieStore persists the bearer token in a browser cookie. The cookie
// itself carries no expiry enforcement; validity is only checked at decode
// time.
type CookieStore struct {
	Secure bool
}

// Save overwrites any previously stored token.
func (s CookieStore) Save(c *gin.Context, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(30 * 24 * time.Hour),
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Token returns the stored token verbatim, or false if none is stored.
func (s CookieStore) Token(c *gin.Context) (string, bool) {
	token, err := c.Cookie(CookieName)
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}

// Clear removes the stored token. Clearing an absent token is a no-op.
func (s CookieStore) Clear(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Current decodes the stored token, if any. Expired sessions are still
// returned; callers decide with Valid.
func (s CookieStore) Current(c *gin.Context) (Session, bool) {
	token, ok := s.Token(c)
	if !ok {
		return Session{}, false
	}
	return Decode(token)
}

// IntoContext stores the decoded session on the request context so guarded
// views decode the token once per request instead of once per call site.
func IntoContext(c *gin.Context, sess Session) {
	c.Set(contextKey, sess)
}

// FromContext returns the session the guard middleware placed on the
// request, if any.
func FromContext(c *gin.Context) (Session, bool) {
	v, ok := c.Get(contextKey)
	if !ok {
		return Session{}, false
	}
	sess, ok := v.(Session)
	return sess, ok
}
