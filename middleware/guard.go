package middleware

import (
	"net/http"
	"time"

	"bookery/session"

	"github.com/gin-gonic/gin"
)

// Landing pages per role. A signed-in visitor who hits a page for the
// other role is sent to their own dashboard, not to login.
const (
	LoginPath        = "/login"
	AdminLandingPath = "/admin/dashboard"
	UserLandingPath  = "/user/dashboard"
)

// LandingFor maps a role to its home view.
func LandingFor(role string) string {
	if role == session.RoleAdmin {
		return AdminLandingPath
	}
	return UserLandingPath
}

// RequireRole gates a route group on a valid session with the given role.
// It runs before any handler, so guarded views never issue backend calls
// with a stale or absent token. An expired or undecodable token redirects
// exactly like a missing one.
func RequireRole(store session.CookieStore, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := store.Current(c)
		if !ok || !sess.Valid(time.Now()) {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		if sess.Role != role {
			c.Redirect(http.StatusFound, LandingFor(sess.Role))
			c.Abort()
			return
		}
		session.IntoContext(c, sess)
		c.Next()
	}
}
