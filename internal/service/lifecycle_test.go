package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cottage-reservation/internal/model"
)

// The fakes below satisfy the engine's store interfaces with function
// fields, so each test overrides only the calls it cares about.

type fakeTx struct{}

func (fakeTx) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error { return fn(nil) }

type fakeUsers struct {
	getByID func(ctx context.Context, id uint64) (model.User, error)
}

func (f fakeUsers) GetByID(ctx context.Context, id uint64) (model.User, error) {
	if f.getByID != nil {
		return f.getByID(ctx, id)
	}
	return model.User{ID: id, Email: "guest@example.com"}, nil
}

type fakeRooms struct {
	getByID              func(ctx context.Context, id uint64) (model.Room, error)
	lockTx               func(ctx context.Context, tx *sql.Tx, id uint64) error
	listAvailable        func(ctx context.Context) ([]model.Room, error)
	listAvailableBetween func(ctx context.Context, start, end time.Time) ([]model.Room, error)
}

func (f fakeRooms) GetByID(ctx context.Context, id uint64) (model.Room, error) {
	if f.getByID != nil {
		return f.getByID(ctx, id)
	}
	return model.Room{ID: id, IsAvailable: true}, nil
}

func (f fakeRooms) LockTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	if f.lockTx != nil {
		return f.lockTx(ctx, tx, id)
	}
	return nil
}

func (f fakeRooms) ListAvailable(ctx context.Context) ([]model.Room, error) {
	if f.listAvailable != nil {
		return f.listAvailable(ctx)
	}
	return nil, nil
}

func (f fakeRooms) ListAvailableBetween(ctx context.Context, start, end time.Time) ([]model.Room, error) {
	if f.listAvailableBetween != nil {
		return f.listAvailableBetween(ctx, start, end)
	}
	return nil, nil
}

type fakeReservations struct {
	createTx           func(ctx context.Context, tx *sql.Tx, res *model.Reservation) error
	updateTx           func(ctx context.Context, tx *sql.Tx, res *model.Reservation) error
	cancelActive       func(ctx context.Context, id uint64) (bool, error)
	getByID            func(ctx context.Context, id uint64) (model.Reservation, error)
	listActiveByRoomTx func(ctx context.Context, tx *sql.Tx, roomID uint64) ([]model.Reservation, error)
}

func (f fakeReservations) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	if f.createTx != nil {
		return f.createTx(ctx, tx, res)
	}
	res.ID = 101
	return nil
}

func (f fakeReservations) UpdateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	if f.updateTx != nil {
		return f.updateTx(ctx, tx, res)
	}
	return nil
}

func (f fakeReservations) CancelActive(ctx context.Context, id uint64) (bool, error) {
	if f.cancelActive != nil {
		return f.cancelActive(ctx, id)
	}
	return true, nil
}

func (f fakeReservations) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	if f.getByID != nil {
		return f.getByID(ctx, id)
	}
	return model.Reservation{}, sql.ErrNoRows
}

func (f fakeReservations) ListActiveByRoomTx(ctx context.Context, tx *sql.Tx, roomID uint64) ([]model.Reservation, error) {
	if f.listActiveByRoomTx != nil {
		return f.listActiveByRoomTx(ctx, tx, roomID)
	}
	return nil, nil
}

func (f fakeReservations) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	return nil, nil
}

func (f fakeReservations) ListActive(ctx context.Context) ([]model.Reservation, error) {
	return nil, nil
}

func (f fakeReservations) ListBetween(ctx context.Context, start, end time.Time) ([]model.Reservation, error) {
	return nil, nil
}

// fakeNotifier records deliveries on a channel so tests can wait for
// the engine's background dispatch.
type fakeNotifier struct {
	err   error
	calls chan string
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{calls: make(chan string, 4)}
}

func (f *fakeNotifier) ReservationCreated(res model.Reservation, email string) error {
	f.calls <- "created:" + email
	return f.err
}

func (f *fakeNotifier) ReservationUpdated(res model.Reservation, email string) error {
	f.calls <- "updated:" + email
	return f.err
}

func (f *fakeNotifier) ReservationCancelled(res model.Reservation, email string) error {
	f.calls <- "cancelled:" + email
	return f.err
}

func waitForCall(t *testing.T, n *fakeNotifier) string {
	t.Helper()
	select {
	case got := <-n.calls:
		return got
	case <-time.After(2 * time.Second):
		t.Fatal("notification was never dispatched")
		return ""
	}
}

func newEngine(users fakeUsers, rooms fakeRooms, res fakeReservations, n Notifier) *ReservationService {
	s := &ReservationService{
		tx:           fakeTx{},
		users:        users,
		rooms:        rooms,
		reservations: res,
		notifier:     n,
	}
	return s.WithClock(func() time.Time { return date(2026, 6, 1) })
}

func stay(roomID uint64, in, out time.Time) ReservationInput {
	return ReservationInput{RoomID: roomID, CheckIn: in, CheckOut: out, Guests: 2}
}

func TestCreateLifecycle(t *testing.T) {
	t.Parallel()

	t.Run("success persists a pending zero-price reservation and notifies", func(t *testing.T) {
		t.Parallel()
		n := newFakeNotifier()
		s := newEngine(fakeUsers{}, fakeRooms{}, fakeReservations{}, n)

		res, err := s.Create(context.Background(), 7, stay(3, date(2026, 6, 10), date(2026, 6, 12)))
		require.NoError(t, err)
		assert.Equal(t, uint64(101), res.ID)
		assert.Equal(t, model.StatusPending, res.Status)
		assert.Equal(t, uint32(0), res.PriceCents)
		assert.Equal(t, "created:guest@example.com", waitForCall(t, n))
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()
		s := newEngine(fakeUsers{getByID: func(ctx context.Context, id uint64) (model.User, error) {
			return model.User{}, sql.ErrNoRows
		}}, fakeRooms{}, fakeReservations{}, nil)

		_, err := s.Create(context.Background(), 7, stay(3, date(2026, 6, 10), date(2026, 6, 12)))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown room", func(t *testing.T) {
		t.Parallel()
		s := newEngine(fakeUsers{}, fakeRooms{getByID: func(ctx context.Context, id uint64) (model.Room, error) {
			return model.Room{}, sql.ErrNoRows
		}}, fakeReservations{}, nil)

		_, err := s.Create(context.Background(), 7, stay(3, date(2026, 6, 10), date(2026, 6, 12)))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("administratively disabled room", func(t *testing.T) {
		t.Parallel()
		s := newEngine(fakeUsers{}, fakeRooms{getByID: func(ctx context.Context, id uint64) (model.Room, error) {
			return model.Room{ID: id, IsAvailable: false}, nil
		}}, fakeReservations{}, nil)

		_, err := s.Create(context.Background(), 7, stay(3, date(2026, 6, 10), date(2026, 6, 12)))
		assert.ErrorIs(t, err, ErrRoomUnavailable)
	})

	t.Run("overlapping active reservation", func(t *testing.T) {
		t.Parallel()
		inserted := false
		s := newEngine(fakeUsers{}, fakeRooms{}, fakeReservations{
			listActiveByRoomTx: func(ctx context.Context, tx *sql.Tx, roomID uint64) ([]model.Reservation, error) {
				return []model.Reservation{
					{ID: 1, RoomID: roomID, CheckInDate: date(2026, 6, 10), CheckOutDate: date(2026, 6, 14), Status: model.StatusPending},
				}, nil
			},
			createTx: func(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
				inserted = true
				return nil
			},
		}, nil)

		_, err := s.Create(context.Background(), 7, stay(3, date(2026, 6, 12), date(2026, 6, 16)))
		assert.ErrorIs(t, err, ErrConflict)
		assert.False(t, inserted, "conflicting reservation must not be written")
	})

	t.Run("back-to-back stay on the same room succeeds", func(t *testing.T) {
		t.Parallel()
		s := newEngine(fakeUsers{}, fakeRooms{}, fakeReservations{
			listActiveByRoomTx: func(ctx context.Context, tx *sql.Tx, roomID uint64) ([]model.Reservation, error) {
				return []model.Reservation{
					{ID: 1, RoomID: roomID, CheckInDate: date(2026, 6, 10), CheckOutDate: date(2026, 6, 14), Status: model.StatusPending},
				}, nil
			},
		}, nil)

		_, err := s.Create(context.Background(), 7, stay(3, date(2026, 6, 14), date(2026, 6, 16)))
		assert.NoError(t, err)
	})

	t.Run("failing notifier does not fail creation", func(t *testing.T) {
		t.Parallel()
		n := newFakeNotifier()
		n.err = assert.AnError
		s := newEngine(fakeUsers{}, fakeRooms{}, fakeReservations{}, n)

		_, err := s.Create(context.Background(), 7, stay(3, date(2026, 6, 10), date(2026, 6, 12)))
		require.NoError(t, err)
		waitForCall(t, n) // delivery attempted, failure swallowed
	})
}

func TestUpdateLifecycle(t *testing.T) {
	t.Parallel()

	owned := func(status model.ReservationStatus) func(ctx context.Context, id uint64) (model.Reservation, error) {
		return func(ctx context.Context, id uint64) (model.Reservation, error) {
			return model.Reservation{
				ID: id, UserID: 7, RoomID: 3,
				CheckInDate: date(2026, 6, 10), CheckOutDate: date(2026, 6, 14),
				Status: status,
			}, nil
		}
	}

	t.Run("ownership mismatch", func(t *testing.T) {
		t.Parallel()
		s := newEngine(fakeUsers{}, fakeRooms{}, fakeReservations{getByID: owned(model.StatusPending)}, nil)

		_, err := s.Update(context.Background(), 55, 8, stay(3, date(2026, 6, 11), date(2026, 6, 15)))
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("terminal statuses reject mutation", func(t *testing.T) {
		t.Parallel()
		for _, st := range []model.ReservationStatus{model.StatusCancelled, model.StatusCompleted} {
			s := newEngine(fakeUsers{}, fakeRooms{}, fakeReservations{getByID: owned(st)}, nil)
			_, err := s.Update(context.Background(), 55, 7, stay(3, date(2026, 6, 11), date(2026, 6, 15)))
			assert.ErrorIs(t, err, ErrInvalidState, string(st))
		}
	})

	t.Run("missing reservation", func(t *testing.T) {
		t.Parallel()
		s := newEngine(fakeUsers{}, fakeRooms{}, fakeReservations{}, nil)

		_, err := s.Update(context.Background(), 55, 7, stay(3, date(2026, 6, 11), date(2026, 6, 15)))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("range conflicting only with itself succeeds", func(t *testing.T) {
		t.Parallel()
		n := newFakeNotifier()
		s := newEngine(fakeUsers{}, fakeRooms{}, fakeReservations{
			getByID: owned(model.StatusConfirmed),
			listActiveByRoomTx: func(ctx context.Context, tx *sql.Tx, roomID uint64) ([]model.Reservation, error) {
				// The stored range of reservation 55 itself.
				return []model.Reservation{
					{ID: 55, RoomID: roomID, CheckInDate: date(2026, 6, 10), CheckOutDate: date(2026, 6, 14), Status: model.StatusConfirmed},
				}, nil
			},
		}, n)

		res, err := s.Update(context.Background(), 55, 7, stay(3, date(2026, 6, 11), date(2026, 6, 15)))
		require.NoError(t, err)
		assert.Equal(t, model.StatusConfirmed, res.Status, "status must survive an update")
		assert.Equal(t, "updated:guest@example.com", waitForCall(t, n))
	})

	t.Run("still conflicts with other reservations", func(t *testing.T) {
		t.Parallel()
		s := newEngine(fakeUsers{}, fakeRooms{}, fakeReservations{
			getByID: owned(model.StatusPending),
			listActiveByRoomTx: func(ctx context.Context, tx *sql.Tx, roomID uint64) ([]model.Reservation, error) {
				return []model.Reservation{
					{ID: 55, RoomID: roomID, CheckInDate: date(2026, 6, 10), CheckOutDate: date(2026, 6, 14), Status: model.StatusPending},
					{ID: 56, RoomID: roomID, CheckInDate: date(2026, 6, 16), CheckOutDate: date(2026, 6, 20), Status: model.StatusConfirmed},
				}, nil
			},
		}, nil)

		_, err := s.Update(context.Background(), 55, 7, stay(3, date(2026, 6, 15), date(2026, 6, 18)))
		assert.ErrorIs(t, err, ErrConflict)
	})
}

func TestCancelLifecycle(t *testing.T) {
	t.Parallel()

	owned := func(status model.ReservationStatus) func(ctx context.Context, id uint64) (model.Reservation, error) {
		return func(ctx context.Context, id uint64) (model.Reservation, error) {
			return model.Reservation{ID: id, UserID: 7, RoomID: 3, Status: status}, nil
		}
	}

	t.Run("pending reservation cancels and notifies", func(t *testing.T) {
		t.Parallel()
		n := newFakeNotifier()
		s := newEngine(fakeUsers{}, fakeRooms{}, fakeReservations{getByID: owned(model.StatusPending)}, n)

		require.NoError(t, s.Cancel(context.Background(), 55, 7))
		assert.Equal(t, "cancelled:guest@example.com", waitForCall(t, n))
	})

	t.Run("cancelling a cancelled reservation fails", func(t *testing.T) {
		t.Parallel()
		wrote := false
		s := newEngine(fakeUsers{}, fakeRooms{}, fakeReservations{
			getByID: owned(model.StatusCancelled),
			cancelActive: func(ctx context.Context, id uint64) (bool, error) {
				wrote = true
				return false, nil
			},
		}, nil)

		assert.ErrorIs(t, s.Cancel(context.Background(), 55, 7), ErrInvalidState)
		assert.False(t, wrote, "terminal status must be rejected before any write")
	})

	t.Run("cancelling a completed reservation fails", func(t *testing.T) {
		t.Parallel()
		s := newEngine(fakeUsers{}, fakeRooms{}, fakeReservations{getByID: owned(model.StatusCompleted)}, nil)
		assert.ErrorIs(t, s.Cancel(context.Background(), 55, 7), ErrInvalidState)
	})

	t.Run("ownership mismatch", func(t *testing.T) {
		t.Parallel()
		s := newEngine(fakeUsers{}, fakeRooms{}, fakeReservations{getByID: owned(model.StatusPending)}, nil)
		assert.ErrorIs(t, s.Cancel(context.Background(), 55, 8), ErrForbidden)
	})

	t.Run("missing reservation", func(t *testing.T) {
		t.Parallel()
		s := newEngine(fakeUsers{}, fakeRooms{}, fakeReservations{}, nil)
		assert.ErrorIs(t, s.Cancel(context.Background(), 55, 7), ErrNotFound)
	})

	t.Run("losing the write race yields the terminal-state error", func(t *testing.T) {
		t.Parallel()
		// Status is active at read time but another writer gets there
		// first, so the conditional write touches no row.
		s := newEngine(fakeUsers{}, fakeRooms{}, fakeReservations{
			getByID: owned(model.StatusPending),
			cancelActive: func(ctx context.Context, id uint64) (bool, error) {
				return false, nil
			},
		}, nil)

		assert.ErrorIs(t, s.Cancel(context.Background(), 55, 7), ErrInvalidState)
	})

	t.Run("failed user lookup still sends the event without email", func(t *testing.T) {
		t.Parallel()
		n := newFakeNotifier()
		s := newEngine(fakeUsers{getByID: func(ctx context.Context, id uint64) (model.User, error) {
			return model.User{}, sql.ErrNoRows
		}}, fakeRooms{}, fakeReservations{getByID: func(ctx context.Context, id uint64) (model.Reservation, error) {
			return model.Reservation{ID: id, UserID: 7, Status: model.StatusPending}, nil
		}}, n)

		require.NoError(t, s.Cancel(context.Background(), 55, 7))
		assert.Equal(t, "cancelled:", waitForCall(t, n))
	})
}
