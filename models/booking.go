package models

import "time"

// Booking represents an appointment as the client sees it. Copies are
// transient: fetched per view and discarded on navigation.
type Booking struct {
	ID               string    `json:"id"`
	AppointmentStart time.Time `json:"appointment_start"`
	DurationMinutes  int       `json:"duration_minutes"` // 30 or 60
}

// Slot is a free-time candidate surfaced by the backend for one day and
// provider. Re-fetched on every day selection.
type Slot struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// AvailabilityPattern is a weekly recurring window an admin opens up for
// bookings.
type AvailabilityPattern struct {
	DayOfWeek int       `json:"day_of_week"` // 0=Sunday .. 6=Saturday
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}
