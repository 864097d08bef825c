// Package booking drives the day-selection and slot-booking flow behind the
// user calendar page.
package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"bookery/models"

	"go.uber.org/zap"
)

// SlotAPI is the slice of the backend client the flow needs.
type SlotAPI interface {
	FreeSlots(ctx context.Context, day time.Time, providerID string) ([]models.Slot, error)
	CreateBooking(ctx context.Context, token string, start time.Time, durationMinutes int) error
}

// State names the flow's position in the select/confirm/book cycle.
type State string

const (
	StateNoDaySelected State = "no_day_selected"
	StateLoading       State = "loading"
	StateSlotsShown    State = "slots_shown"
	StateConfirming    State = "confirming"
	StateBooking       State = "booking"
)

var (
	ErrNoSlotsShown = errors.New("no slot list to choose from")
	ErrUnknownSlot  = errors.New("slot is not in the current list")
	ErrNotChoosing  = errors.New("no slot pending confirmation")
	ErrMissingToken = errors.New("missing auth token")
)

// Flow is one browser session's calendar state. Slot fetches run
// asynchronously and are tagged with a generation at issue time; a result
// whose generation no longer matches is discarded, so the last selected
// day always wins.
type Flow struct {
	api        SlotAPI
	providerID string
	logger     *zap.Logger

	mu     sync.Mutex
	state  State
	day    time.Time
	gen    uint64
	slots  []models.Slot
	chosen *models.Slot
	errMsg string
}

// Snapshot is a whole-value copy of the flow state for rendering. Err is
// kept separate from an empty slot list so the page can tell "nothing
// free" from "fetch failed".
type Snapshot struct {
	State  State
	Day    time.Time
	Slots  []models.Slot
	Chosen *models.Slot
	Err    string
}

func NewFlow(api SlotAPI, providerID string, logger *zap.Logger) *Flow {
	return &Flow{
		api:        api,
		providerID: providerID,
		logger:     logger,
		state:      StateNoDaySelected,
	}
}

// Snapshot returns a copy of the current state.
func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := Snapshot{
		State: f.state,
		Day:   f.day,
		Slots: append([]models.Slot(nil), f.slots...),
		Err:   f.errMsg,
	}
	if f.chosen != nil {
		chosen := *f.chosen
		snap.Chosen = &chosen
	}
	return snap
}

// SelectDay starts a fetch of the provider's free slots for day. Selecting
// another day while a fetch is in flight supersedes it; the superseded
// result is dropped when it arrives.
func (f *Flow) SelectDay(ctx context.Context, day time.Time) {
	f.mu.Lock()
	f.gen++
	gen := f.gen
	f.state = StateLoading
	f.day = day
	f.chosen = nil
	f.errMsg = ""
	f.mu.Unlock()

	go f.fetchSlots(ctx, day, gen)
}

func (f *Flow) fetchSlots(ctx context.Context, day time.Time, gen uint64) {
	slots, err := f.api.FreeSlots(ctx, day, f.providerID)

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		// A newer selection superseded this fetch.
		return
	}
	f.state = StateSlotsShown
	if err != nil {
		f.logger.Warn("Free slot fetch failed",
			zap.String("day", day.Format("2006-01-02")), zap.Error(err))
		f.slots = nil
		f.errMsg = err.Error()
		return
	}
	f.slots = slots
	f.errMsg = ""
}

// ChooseSlot marks a listed slot as pending confirmation.
func (f *Flow) ChooseSlot(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateSlotsShown {
		return ErrNoSlotsShown
	}
	for _, s := range f.slots {
		if s.ID == id {
			chosen := s
			f.chosen = &chosen
			f.state = StateConfirming
			return nil
		}
	}
	return ErrUnknownSlot
}

// Decline backs out of a pending confirmation. The slot list is unchanged;
// declining is a normal flow exit, not an error.
func (f *Flow) Decline() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateConfirming {
		f.state = StateSlotsShown
		f.chosen = nil
	}
}

// Confirm books the chosen slot with the given duration, then re-fetches
// the day's slots so the booked one drops out of the list. A booking
// failure is reported and leaves the previously fetched list in place.
func (f *Flow) Confirm(ctx context.Context, token string, durationMinutes int) error {
	f.mu.Lock()
	if f.state != StateConfirming || f.chosen == nil {
		f.mu.Unlock()
		return ErrNotChoosing
	}
	if token == "" {
		f.state = StateSlotsShown
		f.chosen = nil
		f.errMsg = ErrMissingToken.Error()
		f.mu.Unlock()
		return ErrMissingToken
	}
	f.state = StateBooking
	start := f.chosen.StartTime
	day := f.day
	gen := f.gen
	f.mu.Unlock()

	if err := f.api.CreateBooking(ctx, token, start, durationMinutes); err != nil {
		f.mu.Lock()
		defer f.mu.Unlock()
		if gen == f.gen {
			f.state = StateSlotsShown
			f.chosen = nil
			f.errMsg = err.Error()
		}
		return err
	}

	slots, err := f.api.FreeSlots(ctx, day, f.providerID)

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		// The user moved to another day mid-booking; leave that
		// selection's fetch in charge.
		return nil
	}
	f.state = StateSlotsShown
	f.chosen = nil
	if err != nil {
		f.logger.Warn("Slot refresh after booking failed", zap.Error(err))
		f.errMsg = err.Error()
		return nil
	}
	f.slots = slots
	f.errMsg = ""
	return nil
}
