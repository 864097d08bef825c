package handlers

import (
	"net/http"
	"time"

	"bookery/middleware"
	"bookery/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type authPage struct {
	Error     string
	Email     string
	FirstName string
	LastName  string
}

// HomeHandler is the public entry point. Signed-in visitors go straight to
// their landing page.
func (h *Handler) HomeHandler(c *gin.Context) {
	if sess, ok := h.Store.Current(c); ok && sess.Valid(time.Now()) {
		c.Redirect(http.StatusFound, middleware.LandingFor(sess.Role))
		return
	}
	c.HTML(http.StatusOK, "home.html", nil)
}

// ShowLoginHandler renders the login form.
func (h *Handler) ShowLoginHandler(c *gin.Context) {
	if sess, ok := h.Store.Current(c); ok && sess.Valid(time.Now()) {
		c.Redirect(http.StatusFound, middleware.LandingFor(sess.Role))
		return
	}
	c.HTML(http.StatusOK, "login.html", authPage{})
}

// LoginHandler exchanges the submitted credentials for a token, saves it,
// and redirects by the token's role.
func (h *Handler) LoginHandler(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	token, err := h.Backend.Login(c.Request.Context(), email, password)
	if err != nil {
		h.Logger.Warn("Login failed", zap.String("email", email), zap.Error(err))
		c.HTML(http.StatusUnauthorized, "login.html", authPage{Error: err.Error(), Email: email})
		return
	}

	h.Store.Save(c, token)
	sess, ok := session.Decode(token)
	if !ok {
		h.Store.Clear(c)
		c.HTML(http.StatusBadGateway, "login.html", authPage{Error: "Received an unreadable token", Email: email})
		return
	}
	c.Redirect(http.StatusFound, middleware.LandingFor(sess.Role))
}

// ShowRegisterHandler renders the registration form.
func (h *Handler) ShowRegisterHandler(c *gin.Context) {
	if sess, ok := h.Store.Current(c); ok && sess.Valid(time.Now()) {
		c.Redirect(http.StatusFound, middleware.LandingFor(sess.Role))
		return
	}
	c.HTML(http.StatusOK, "register.html", authPage{})
}

// RegisterHandler creates the account and signs the visitor straight in
// with the returned token.
func (h *Handler) RegisterHandler(c *gin.Context) {
	page := authPage{
		FirstName: c.PostForm("first_name"),
		LastName:  c.PostForm("last_name"),
		Email:     c.PostForm("email"),
	}

	token, err := h.Backend.Register(c.Request.Context(),
		page.FirstName, page.LastName, page.Email, c.PostForm("password"))
	if err != nil {
		h.Logger.Warn("Registration failed", zap.String("email", page.Email), zap.Error(err))
		page.Error = err.Error()
		c.HTML(http.StatusUnprocessableEntity, "register.html", page)
		return
	}

	h.Store.Save(c, token)
	sess, ok := session.Decode(token)
	if !ok {
		h.Store.Clear(c)
		page.Error = "Received an unreadable token"
		c.HTML(http.StatusBadGateway, "register.html", page)
		return
	}
	c.Redirect(http.StatusFound, middleware.LandingFor(sess.Role))
}

// LogoutHandler drops the calendar flow and the cookie.
func (h *Handler) LogoutHandler(c *gin.Context) {
	if sess, ok := h.Store.Current(c); ok {
		h.Flows.Drop(sess.UserID)
	}
	h.Store.Clear(c)
	c.Redirect(http.StatusFound, middleware.LoginPath)
}
