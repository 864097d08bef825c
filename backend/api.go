package backend

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"bookery/models"
)

// The booking endpoints speak two casings: list/read responses carry the
// PascalCase field names of the backend's unexported marshaling, while
// create/update requests expect snake_case. Both shapes are normalized to
// models.Booking here so nothing above this package sees the split.
type bookingRecord struct {
	ID               string    `json:"ID"`
	AppointmentStart time.Time `json:"AppointmentStart"`
	DurationMinutes  int       `json:"DurationMinutes"`
}

type bookingWrite struct {
	AppointmentStart time.Time `json:"appointment_start"`
	DurationMinutes  int       `json:"duration_minutes"`
}

type registerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type patternWrite struct {
	DayOfWeek int       `json:"day_of_week"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Register creates an account and returns the bearer token for it.
func (c *Client) Register(ctx context.Context, firstName, lastName, email, password string) (string, error) {
	resp, err := Post[tokenResponse](ctx, c, "/api/register", registerRequest{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  password,
	}, "")
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	resp, err := Post[tokenResponse](ctx, c, "/api/login", loginRequest{Email: email, Password: password}, "")
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// ListAllBookings returns every booking in the system. Admin only.
func (c *Client) ListAllBookings(ctx context.Context, token string) ([]models.Booking, error) {
	records, err := Get[[]bookingRecord](ctx, c, "/api/bookings/all", token)
	if err != nil {
		return nil, err
	}
	return normalizeBookings(records), nil
}

// ListUserBookings returns the calling user's own bookings.
func (c *Client) ListUserBookings(ctx context.Context, token string) ([]models.Booking, error) {
	records, err := Get[[]bookingRecord](ctx, c, "/api/bookings/user", token)
	if err != nil {
		return nil, err
	}
	return normalizeBookings(records), nil
}

// CreateBooking books an appointment starting at start.
func (c *Client) CreateBooking(ctx context.Context, token string, start time.Time, durationMinutes int) error {
	_, err := Post[struct{}](ctx, c, "/api/bookings/create", bookingWrite{
		AppointmentStart: start,
		DurationMinutes:  durationMinutes,
	}, token)
	return err
}

// UpdateBooking reschedules an existing booking.
func (c *Client) UpdateBooking(ctx context.Context, token, id string, start time.Time, durationMinutes int) error {
	_, err := Put[struct{}](ctx, c, "/api/bookings/"+id, bookingWrite{
		AppointmentStart: start,
		DurationMinutes:  durationMinutes,
	}, token)
	return err
}

// DeleteBooking cancels a booking by ID.
func (c *Client) DeleteBooking(ctx context.Context, token, id string) error {
	_, err := Delete[struct{}](ctx, c, "/api/bookings/"+id, token)
	return err
}

// ListAllUsers returns every registered account. Admin only.
func (c *Client) ListAllUsers(ctx context.Context, token string) ([]models.User, error) {
	return Get[[]models.User](ctx, c, "/api/admin/users/all", token)
}

// FreeSlots returns the provider's open slots inside the full-day window of
// day (00:00:00Z through 23:59:59Z).
func (c *Client) FreeSlots(ctx context.Context, day time.Time, providerID string) ([]models.Slot, error) {
	iso := day.Format("2006-01-02")
	path := fmt.Sprintf("/api/availabilities/free?start=%sT00:00:00Z&end=%sT23:59:59Z&provider=%s",
		iso, iso, url.QueryEscape(providerID))
	return Get[[]models.Slot](ctx, c, path, "")
}

// CreateAvailabilityPattern adds a weekly recurring availability window.
// Admin only.
func (c *Client) CreateAvailabilityPattern(ctx context.Context, token string, p models.AvailabilityPattern) error {
	_, err := Post[struct{}](ctx, c, "/api/admin/avail-pattern/create", patternWrite{
		DayOfWeek: p.DayOfWeek,
		StartTime: p.StartTime,
		EndTime:   p.EndTime,
	}, token)
	return err
}

func normalizeBookings(records []bookingRecord) []models.Booking {
	bookings := make([]models.Booking, 0, len(records))
	for _, r := range records {
		bookings = append(bookings, models.Booking{
			ID:               r.ID,
			AppointmentStart: r.AppointmentStart,
			DurationMinutes:  r.DurationMinutes,
		})
	}
	return bookings
}
