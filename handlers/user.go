package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"bookery/calendar"
	"bookery/models"
	"bookery/services/booking"
	"bookery/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const dayLayout = "2006-01-02"

type userPage struct {
	Session  session.Session
	Bookings []models.Booking
	Error    string
}

type flowView struct {
	State  string        `json:"state"`
	Day    time.Time     `json:"day"`
	Slots  []models.Slot `json:"slots"`
	Chosen *models.Slot  `json:"chosen,omitempty"`
	Err    string        `json:"err,omitempty"`
}

type calendarPage struct {
	Session   session.Session
	Error     string
	Year      int
	Month     time.Month
	Weeks     [][]calendar.Cell
	PrevYear  int
	PrevMonth int
	NextYear  int
	NextMonth int
	Flow      flowView
}

// UserDashboardHandler lists the signed-in user's bookings.
func (h *Handler) UserDashboardHandler(c *gin.Context) {
	sess, _ := session.FromContext(c)
	page := userPage{Session: sess, Error: c.Query("err")}

	bookings, err := h.Backend.ListUserBookings(c.Request.Context(), sess.Token)
	if err != nil {
		h.Logger.Warn("Listing user bookings failed", zap.Error(err))
		page.Error = err.Error()
	}
	page.Bookings = bookings

	c.HTML(http.StatusOK, "user_dashboard.html", page)
}

// DeleteOwnBookingHandler cancels one of the user's bookings.
func (h *Handler) DeleteOwnBookingHandler(c *gin.Context) {
	sess, _ := session.FromContext(c)
	id := c.Param("id")

	if err := h.Backend.DeleteBooking(c.Request.Context(), sess.Token, id); err != nil {
		h.Logger.Warn("Booking delete failed", zap.String("id", id), zap.Error(err))
		redirectWithError(c, "/user/dashboard", err.Error())
		return
	}
	c.Redirect(http.StatusFound, "/user/dashboard")
}

// CalendarHandler renders the month grid plus whatever the booking flow is
// currently showing for this user.
func (h *Handler) CalendarHandler(c *gin.Context) {
	sess, _ := session.FromContext(c)

	now := time.Now()
	year, month := monthParams(c, now.Year(), now.Month())

	cells := calendar.Grid(year, month)
	weeks := make([][]calendar.Cell, 0, len(cells)/7)
	for i := 0; i < len(cells); i += 7 {
		weeks = append(weeks, cells[i:i+7])
	}

	prevYear, prevMonth := calendar.Prev(year, month)
	nextYear, nextMonth := calendar.Next(year, month)

	c.HTML(http.StatusOK, "calendar.html", calendarPage{
		Session:   sess,
		Error:     c.Query("err"),
		Year:      year,
		Month:     month,
		Weeks:     weeks,
		PrevYear:  prevYear,
		PrevMonth: int(prevMonth),
		NextYear:  nextYear,
		NextMonth: int(nextMonth),
		Flow:      viewOf(h.Flows.For(sess.UserID).Snapshot()),
	})
}

// SelectDayHandler kicks off the free-slot fetch for the clicked day and
// sends the browser back to the calendar page.
func (h *Handler) SelectDayHandler(c *gin.Context) {
	sess, _ := session.FromContext(c)

	day, err := time.ParseInLocation(dayLayout, c.PostForm("day"), time.UTC)
	if err != nil {
		redirectWithError(c, calendarPath(c), "Invalid day")
		return
	}

	// The fetch outlives this request; the result lands in the flow and
	// shows up on the next render or poll.
	h.Flows.For(sess.UserID).SelectDay(context.Background(), day)
	c.Redirect(http.StatusFound, calendarPath(c))
}

// SlotsHandler exposes the flow snapshot as JSON for the page's poll while
// a fetch is loading.
func (h *Handler) SlotsHandler(c *gin.Context) {
	sess, _ := session.FromContext(c)
	c.JSON(http.StatusOK, viewOf(h.Flows.For(sess.UserID).Snapshot()))
}

// ChooseSlotHandler marks a slot as pending confirmation.
func (h *Handler) ChooseSlotHandler(c *gin.Context) {
	sess, _ := session.FromContext(c)

	if err := h.Flows.For(sess.UserID).ChooseSlot(c.PostForm("slot_id")); err != nil {
		redirectWithError(c, calendarPath(c), err.Error())
		return
	}
	c.Redirect(http.StatusFound, calendarPath(c))
}

// ConfirmBookingHandler books the chosen slot. Failures show up on the
// calendar page; the slot list stays as it was.
func (h *Handler) ConfirmBookingHandler(c *gin.Context) {
	sess, _ := session.FromContext(c)

	duration, ok := parseDuration(c.PostForm("duration_minutes"))
	if !ok {
		redirectWithError(c, calendarPath(c), "Duration must be 30 or 60 minutes")
		return
	}
	flow := h.Flows.For(sess.UserID)
	if err := flow.Confirm(c.Request.Context(), sess.Token, duration); err != nil {
		h.Logger.Warn("Booking failed", zap.String("user", sess.UserID), zap.Error(err))
	}
	c.Redirect(http.StatusFound, calendarPath(c))
}

// DeclineBookingHandler backs out of the confirmation step.
func (h *Handler) DeclineBookingHandler(c *gin.Context) {
	sess, _ := session.FromContext(c)
	h.Flows.For(sess.UserID).Decline()
	c.Redirect(http.StatusFound, calendarPath(c))
}

func viewOf(snap booking.Snapshot) flowView {
	return flowView{
		State:  string(snap.State),
		Day:    snap.Day,
		Slots:  snap.Slots,
		Chosen: snap.Chosen,
		Err:    snap.Err,
	}
}

// monthParams reads year/month from the query, falling back to the current
// month on anything unparseable.
func monthParams(c *gin.Context, defYear int, defMonth time.Month) (int, time.Month) {
	year := defYear
	month := defMonth
	if y, err := strconv.Atoi(c.Query("year")); err == nil && y > 0 {
		year = y
	}
	if m, err := strconv.Atoi(c.Query("month")); err == nil && m >= 1 && m <= 12 {
		month = time.Month(m)
	}
	return year, month
}

// calendarPath preserves the month being viewed across the form posts.
func calendarPath(c *gin.Context) string {
	year := c.PostForm("year")
	month := c.PostForm("month")
	if year == "" || month == "" {
		return "/user/calendar"
	}
	return "/user/calendar?year=" + year + "&month=" + month
}
