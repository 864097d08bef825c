package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookery/middleware"
	"bookery/session"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, role string, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "user-1",
		"role": role,
		"exp":  exp.Unix(),
	}).SignedString([]byte("testsecret"))
	require.NoError(t, err)
	return token
}

func guardedRouter(role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", middleware.RequireRole(session.CookieStore{}, role), func(c *gin.Context) {
		sess, ok := session.FromContext(c)
		if !ok {
			c.String(http.StatusInternalServerError, "no session in context")
			return
		}
		c.String(http.StatusOK, sess.UserID)
	})
	return r
}

func request(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	future := time.Now().Add(time.Hour)

	t.Run("no cookie redirects to login", func(t *testing.T) {
		t.Parallel()
		rec := request(guardedRouter(session.RoleUser), "")
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, middleware.LoginPath, rec.Header().Get("Location"))
	})

	t.Run("malformed token redirects to login", func(t *testing.T) {
		t.Parallel()
		rec := request(guardedRouter(session.RoleUser), "not-a-jwt")
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, middleware.LoginPath, rec.Header().Get("Location"))
	})

	t.Run("expired token redirects to login", func(t *testing.T) {
		t.Parallel()
		token := signToken(t, session.RoleUser, time.Now().Add(-time.Minute))
		rec := request(guardedRouter(session.RoleUser), token)
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, middleware.LoginPath, rec.Header().Get("Location"))
	})

	t.Run("user on an admin route lands on the user dashboard", func(t *testing.T) {
		t.Parallel()
		token := signToken(t, session.RoleUser, future)
		rec := request(guardedRouter(session.RoleAdmin), token)
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, middleware.UserLandingPath, rec.Header().Get("Location"))
	})

	t.Run("admin on a user route lands on the admin dashboard", func(t *testing.T) {
		t.Parallel()
		token := signToken(t, session.RoleAdmin, future)
		rec := request(guardedRouter(session.RoleUser), token)
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, middleware.AdminLandingPath, rec.Header().Get("Location"))
	})

	t.Run("matching role passes and the session is on the context", func(t *testing.T) {
		t.Parallel()
		token := signToken(t, session.RoleUser, future)
		rec := request(guardedRouter(session.RoleUser), token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user-1", rec.Body.String())
	})
}
