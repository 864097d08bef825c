package routes

import (
	"net/http"
	"time"

	"bookery/config"
	"bookery/handlers"
	"bookery/middleware"
	"bookery/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterPublicRoutes registers the entry pages and the credential
// endpoints. Credential posts sit behind the per-IP limiter.
func RegisterPublicRoutes(r *gin.Engine, h *handlers.Handler) {
	r.GET("/", h.HomeHandler)
	r.GET("/login", h.ShowLoginHandler)
	r.GET("/register", h.ShowRegisterHandler)
	r.POST("/logout", h.LogoutHandler)

	auth := r.Group("")
	auth.Use(middleware.RateLimitMiddleware())
	auth.POST("/login", h.LoginHandler)
	auth.POST("/register", h.RegisterHandler)
}

// RegisterAdminRoutes registers the admin dashboard behind the admin guard.
func RegisterAdminRoutes(r *gin.Engine, h *handlers.Handler) {
	admin := r.Group("/admin")
	admin.Use(middleware.RequireRole(h.Store, session.RoleAdmin))
	admin.GET("/dashboard", h.AdminDashboardHandler)
	admin.POST("/bookings/:id", h.UpdateBookingHandler)
	admin.POST("/bookings/:id/delete", h.DeleteBookingHandler)
	admin.POST("/patterns", h.CreatePatternHandler)
}

// RegisterUserRoutes registers the user dashboard and the calendar flow
// behind the user guard. The JSON snapshot fragment allows credentialed
// cross-origin reads for the origins named in config; with none configured
// it stays same-origin only.
func RegisterUserRoutes(r *gin.Engine, h *handlers.Handler) {
	user := r.Group("/user")
	user.Use(middleware.RequireRole(h.Store, session.RoleUser))
	user.GET("/dashboard", h.UserDashboardHandler)
	user.POST("/bookings/:id/delete", h.DeleteOwnBookingHandler)
	user.GET("/calendar", h.CalendarHandler)
	user.POST("/calendar/day", h.SelectDayHandler)
	user.POST("/calendar/slot", h.ChooseSlotHandler)
	user.POST("/calendar/confirm", h.ConfirmBookingHandler)
	user.POST("/calendar/decline", h.DeclineBookingHandler)

	fragments := r.Group("/user")
	if origins := config.AppConfig.AllowedOrigins; len(origins) > 0 {
		fragments.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{http.MethodGet},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	fragments.Use(middleware.RequireRole(h.Store, session.RoleUser))
	fragments.GET("/calendar/slots", h.SlotsHandler)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Bookery"})
	})
}

// RegisterRoutes wires every route group onto the engine.
func RegisterRoutes(r *gin.Engine, h *handlers.Handler) {
	RegisterHealthRoute(r)
	RegisterPublicRoutes(r, h)
	RegisterAdminRoutes(r, h)
	RegisterUserRoutes(r, h)
}
