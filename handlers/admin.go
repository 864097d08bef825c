package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bookery/models"
	"bookery/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// datetime-local inputs post this layout.
const formTimeLayout = "2006-01-02T15:04"

type adminPage struct {
	Session  session.Session
	Bookings []models.Booking
	Users    []models.User
	Error    string
}

// AdminDashboardHandler lists every booking and every user. Either fetch
// failing still renders the page with the failure message.
func (h *Handler) AdminDashboardHandler(c *gin.Context) {
	sess, _ := session.FromContext(c)
	page := adminPage{Session: sess, Error: c.Query("err")}

	bookings, err := h.Backend.ListAllBookings(c.Request.Context(), sess.Token)
	if err != nil {
		h.Logger.Warn("Listing all bookings failed", zap.Error(err))
		page.Error = err.Error()
	}
	page.Bookings = bookings

	users, err := h.Backend.ListAllUsers(c.Request.Context(), sess.Token)
	if err != nil {
		h.Logger.Warn("Listing users failed", zap.Error(err))
		page.Error = err.Error()
	}
	page.Users = users

	c.HTML(http.StatusOK, "admin_dashboard.html", page)
}

// UpdateBookingHandler reschedules a booking to the submitted start and
// duration, then returns to the dashboard.
func (h *Handler) UpdateBookingHandler(c *gin.Context) {
	sess, _ := session.FromContext(c)
	id := c.Param("id")

	start, err := time.ParseInLocation(formTimeLayout, c.PostForm("appointment_start"), time.UTC)
	if err != nil {
		redirectWithError(c, "/admin/dashboard", "Invalid appointment time")
		return
	}
	duration, ok := parseDuration(c.PostForm("duration_minutes"))
	if !ok {
		redirectWithError(c, "/admin/dashboard", "Duration must be 30 or 60 minutes")
		return
	}

	if err := h.Backend.UpdateBooking(c.Request.Context(), sess.Token, id, start, duration); err != nil {
		h.Logger.Warn("Booking update failed", zap.String("id", id), zap.Error(err))
		redirectWithError(c, "/admin/dashboard", err.Error())
		return
	}
	c.Redirect(http.StatusFound, "/admin/dashboard")
}

// DeleteBookingHandler removes a booking and returns to the dashboard.
func (h *Handler) DeleteBookingHandler(c *gin.Context) {
	sess, _ := session.FromContext(c)
	id := c.Param("id")

	if err := h.Backend.DeleteBooking(c.Request.Context(), sess.Token, id); err != nil {
		h.Logger.Warn("Booking delete failed", zap.String("id", id), zap.Error(err))
		redirectWithError(c, "/admin/dashboard", err.Error())
		return
	}
	c.Redirect(http.StatusFound, "/admin/dashboard")
}

// CreatePatternHandler adds a weekly availability window for the provider.
func (h *Handler) CreatePatternHandler(c *gin.Context) {
	sess, _ := session.FromContext(c)

	dayOfWeek, err := strconv.Atoi(c.PostForm("day_of_week"))
	if err != nil || dayOfWeek < 0 || dayOfWeek > 6 {
		redirectWithError(c, "/admin/dashboard", "Day of week must be 0 through 6")
		return
	}
	start, err := time.ParseInLocation(formTimeLayout, c.PostForm("start_time"), time.UTC)
	if err != nil {
		redirectWithError(c, "/admin/dashboard", "Invalid start time")
		return
	}
	end, err := time.ParseInLocation(formTimeLayout, c.PostForm("end_time"), time.UTC)
	if err != nil || !end.After(start) {
		redirectWithError(c, "/admin/dashboard", "End time must come after start time")
		return
	}

	pattern := models.AvailabilityPattern{DayOfWeek: dayOfWeek, StartTime: start, EndTime: end}
	if err := h.Backend.CreateAvailabilityPattern(c.Request.Context(), sess.Token, pattern); err != nil {
		h.Logger.Warn("Pattern create failed", zap.Error(err))
		redirectWithError(c, "/admin/dashboard", err.Error())
		return
	}
	c.Redirect(http.StatusFound, "/admin/dashboard")
}

func parseDuration(raw string) (int, bool) {
	d, err := strconv.Atoi(raw)
	if err != nil || (d != 30 && d != 60) {
		return 0, false
	}
	return d, true
}

func redirectWithError(c *gin.Context, path, msg string) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	c.Redirect(http.StatusFound, path+sep+"err="+url.QueryEscape(msg))
}
