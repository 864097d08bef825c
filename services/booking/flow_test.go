package booking_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bookery/models"
	"bookery/services/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAPI struct {
	mu sync.Mutex

	freeSlots     func(ctx context.Context, day time.Time, providerID string) ([]models.Slot, error)
	createBooking func(ctx context.Context, token string, start time.Time, durationMinutes int) error

	bookedStarts []time.Time
	bookedTokens []string
	bookedDurs   []int
}

func (f *fakeAPI) FreeSlots(ctx context.Context, day time.Time, providerID string) ([]models.Slot, error) {
	return f.freeSlots(ctx, day, providerID)
}

func (f *fakeAPI) CreateBooking(ctx context.Context, token string, start time.Time, durationMinutes int) error {
	f.mu.Lock()
	f.bookedStarts = append(f.bookedStarts, start)
	f.bookedTokens = append(f.bookedTokens, token)
	f.bookedDurs = append(f.bookedDurs, durationMinutes)
	f.mu.Unlock()
	if f.createBooking != nil {
		return f.createBooking(ctx, token, start, durationMinutes)
	}
	return nil
}

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
}

func slot(id string, hour int) models.Slot {
	return models.Slot{
		ID:        id,
		StartTime: time.Date(2025, time.March, 10, hour, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2025, time.March, 10, hour+1, 0, 0, 0, time.UTC),
	}
}

func waitForState(t *testing.T, f *booking.Flow, want booking.State) booking.Snapshot {
	t.Helper()
	var snap booking.Snapshot
	require.Eventually(t, func() bool {
		snap = f.Snapshot()
		return snap.State == want
	}, 2*time.Second, 5*time.Millisecond)
	return snap
}

func TestFlowBookingEndToEnd(t *testing.T) {
	t.Parallel()

	s1, s2 := slot("s1", 10), slot("s2", 11)
	booked := false

	api := &fakeAPI{}
	api.freeSlots = func(ctx context.Context, d time.Time, providerID string) ([]models.Slot, error) {
		assert.Equal(t, "prov-1", providerID)
		if booked {
			return []models.Slot{s2}, nil
		}
		return []models.Slot{s1, s2}, nil
	}
	api.createBooking = func(ctx context.Context, token string, start time.Time, durationMinutes int) error {
		booked = true
		return nil
	}

	flow := booking.NewFlow(api, "prov-1", zap.NewNop())
	assert.Equal(t, booking.StateNoDaySelected, flow.Snapshot().State)

	flow.SelectDay(context.Background(), day(10))
	snap := waitForState(t, flow, booking.StateSlotsShown)
	require.Len(t, snap.Slots, 2)
	assert.Empty(t, snap.Err)

	require.NoError(t, flow.ChooseSlot("s1"))
	snap = flow.Snapshot()
	assert.Equal(t, booking.StateConfirming, snap.State)
	require.NotNil(t, snap.Chosen)
	assert.Equal(t, "s1", snap.Chosen.ID)

	require.NoError(t, flow.Confirm(context.Background(), "tok", 60))

	require.Len(t, api.bookedStarts, 1)
	assert.Equal(t, s1.StartTime, api.bookedStarts[0])
	assert.Equal(t, "tok", api.bookedTokens[0])
	assert.Equal(t, 60, api.bookedDurs[0])

	snap = flow.Snapshot()
	assert.Equal(t, booking.StateSlotsShown, snap.State)
	assert.Nil(t, snap.Chosen)
	require.Len(t, snap.Slots, 1)
	assert.Equal(t, "s2", snap.Slots[0].ID, "the booked slot should be gone after the refresh")
}

func TestFlowStaleFetchIsDiscarded(t *testing.T) {
	t.Parallel()

	d1, d2 := day(10), day(11)
	d1Release := make(chan struct{})

	api := &fakeAPI{}
	api.freeSlots = func(ctx context.Context, d time.Time, providerID string) ([]models.Slot, error) {
		if d.Equal(d1) {
			<-d1Release
			return []models.Slot{slot("d1-slot", 9)}, nil
		}
		return []models.Slot{slot("d2-slot", 14)}, nil
	}

	flow := booking.NewFlow(api, "prov-1", zap.NewNop())

	flow.SelectDay(context.Background(), d1)
	flow.SelectDay(context.Background(), d2)

	snap := waitForState(t, flow, booking.StateSlotsShown)
	require.Len(t, snap.Slots, 1)
	assert.Equal(t, "d2-slot", snap.Slots[0].ID)

	// Let the superseded fetch for d1 finish after d2's already landed.
	close(d1Release)
	time.Sleep(50 * time.Millisecond)

	snap = flow.Snapshot()
	assert.Equal(t, d2, snap.Day)
	require.Len(t, snap.Slots, 1)
	assert.Equal(t, "d2-slot", snap.Slots[0].ID, "d1's late result must not replace d2's")
}

func TestFlowFetchErrorIsDistinctFromEmpty(t *testing.T) {
	t.Parallel()

	t.Run("fetch failure carries a message", func(t *testing.T) {
		t.Parallel()
		api := &fakeAPI{}
		api.freeSlots = func(ctx context.Context, d time.Time, providerID string) ([]models.Slot, error) {
			return nil, errors.New("backend unreachable")
		}

		flow := booking.NewFlow(api, "prov-1", zap.NewNop())
		flow.SelectDay(context.Background(), day(10))

		snap := waitForState(t, flow, booking.StateSlotsShown)
		assert.Empty(t, snap.Slots)
		assert.Equal(t, "backend unreachable", snap.Err)
	})

	t.Run("legitimately empty day has no error", func(t *testing.T) {
		t.Parallel()
		api := &fakeAPI{}
		api.freeSlots = func(ctx context.Context, d time.Time, providerID string) ([]models.Slot, error) {
			return nil, nil
		}

		flow := booking.NewFlow(api, "prov-1", zap.NewNop())
		flow.SelectDay(context.Background(), day(10))

		snap := waitForState(t, flow, booking.StateSlotsShown)
		assert.Empty(t, snap.Slots)
		assert.Empty(t, snap.Err)
	})
}

func TestFlowChooseAndDecline(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	api.freeSlots = func(ctx context.Context, d time.Time, providerID string) ([]models.Slot, error) {
		return []models.Slot{slot("s1", 10)}, nil
	}

	flow := booking.NewFlow(api, "prov-1", zap.NewNop())

	assert.ErrorIs(t, flow.ChooseSlot("s1"), booking.ErrNoSlotsShown)

	flow.SelectDay(context.Background(), day(10))
	waitForState(t, flow, booking.StateSlotsShown)

	assert.ErrorIs(t, flow.ChooseSlot("nope"), booking.ErrUnknownSlot)
	require.NoError(t, flow.ChooseSlot("s1"))

	flow.Decline()
	snap := flow.Snapshot()
	assert.Equal(t, booking.StateSlotsShown, snap.State)
	assert.Nil(t, snap.Chosen)
	require.Len(t, snap.Slots, 1, "declining keeps the list unchanged")

	assert.ErrorIs(t, flow.Confirm(context.Background(), "tok", 60), booking.ErrNotChoosing)
}

func TestFlowConfirmWithoutToken(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	api.freeSlots = func(ctx context.Context, d time.Time, providerID string) ([]models.Slot, error) {
		return []models.Slot{slot("s1", 10)}, nil
	}

	flow := booking.NewFlow(api, "prov-1", zap.NewNop())
	flow.SelectDay(context.Background(), day(10))
	waitForState(t, flow, booking.StateSlotsShown)
	require.NoError(t, flow.ChooseSlot("s1"))

	err := flow.Confirm(context.Background(), "", 60)
	assert.ErrorIs(t, err, booking.ErrMissingToken)
	assert.Empty(t, api.bookedStarts, "no booking call without a token")

	snap := flow.Snapshot()
	assert.Equal(t, booking.StateSlotsShown, snap.State)
	assert.Equal(t, booking.ErrMissingToken.Error(), snap.Err)
}

func TestFlowBookingFailureKeepsSlots(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	api.freeSlots = func(ctx context.Context, d time.Time, providerID string) ([]models.Slot, error) {
		return []models.Slot{slot("s1", 10), slot("s2", 11)}, nil
	}
	api.createBooking = func(ctx context.Context, token string, start time.Time, durationMinutes int) error {
		return errors.New("slot already taken")
	}

	flow := booking.NewFlow(api, "prov-1", zap.NewNop())
	flow.SelectDay(context.Background(), day(10))
	waitForState(t, flow, booking.StateSlotsShown)
	require.NoError(t, flow.ChooseSlot("s1"))

	err := flow.Confirm(context.Background(), "tok", 60)
	require.Error(t, err)

	snap := flow.Snapshot()
	assert.Equal(t, booking.StateSlotsShown, snap.State)
	assert.Equal(t, "slot already taken", snap.Err)
	require.Len(t, snap.Slots, 2, "the stale list stays visible after a failed booking")
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	api.freeSlots = func(ctx context.Context, d time.Time, providerID string) ([]models.Slot, error) {
		return nil, nil
	}
	reg := booking.NewRegistry(api, "prov-1", zap.NewNop())

	a := reg.For("user-a")
	assert.Same(t, a, reg.For("user-a"))
	assert.NotSame(t, a, reg.For("user-b"))

	reg.Drop("user-a")
	assert.NotSame(t, a, reg.For("user-a"))
}
