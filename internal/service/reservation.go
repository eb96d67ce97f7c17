package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/cottage-reservation/internal/logger"
	"github.com/iliyamo/cottage-reservation/internal/model"
	"github.com/iliyamo/cottage-reservation/internal/repository"
)

// MaxGuests is the room-independent cap on the guest count of a single
// reservation.
const MaxGuests = 20

// ReservationInput carries the caller-provided fields for creating or
// updating a reservation.  Text fields are expected to be length-checked
// by the request validator before they reach the engine.
type ReservationInput struct {
	RoomID   uint64
	CheckIn  time.Time
	CheckOut time.Time
	Guests   uint32
	Notes    *string
}

// UserStore is the slice of the user repository the engine consumes.
type UserStore interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// RoomStore covers room lookup, the per-room lock and the availability
// listings.
type RoomStore interface {
	GetByID(ctx context.Context, id uint64) (model.Room, error)
	ListAvailable(ctx context.Context) ([]model.Room, error)
	ListAvailableBetween(ctx context.Context, start, end time.Time) ([]model.Room, error)
	LockTx(ctx context.Context, tx *sql.Tx, id uint64) error
}

// ReservationStore covers the reservation reads and writes the engine
// performs.  Tx-suffixed methods run inside the transaction passed in.
type ReservationStore interface {
	CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error
	UpdateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error
	CancelActive(ctx context.Context, id uint64) (bool, error)
	GetByID(ctx context.Context, id uint64) (model.Reservation, error)
	ListActiveByRoomTx(ctx context.Context, tx *sql.Tx, roomID uint64) ([]model.Reservation, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error)
	ListActive(ctx context.Context) ([]model.Reservation, error)
	ListBetween(ctx context.Context, start, end time.Time) ([]model.Reservation, error)
}

// TxRunner executes a function within one database transaction.
type TxRunner interface {
	InTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// sqlTxRunner implements TxRunner on *sql.DB with commit-on-success and
// a deferred rollback otherwise.
type sqlTxRunner struct{ db *sql.DB }

func (r sqlTxRunner) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ReservationService is the reservation lifecycle engine.  It owns the
// status machine and the interval-overlap conflict check used at both
// creation and modification time.  Each create/update runs its conflict
// check and its write in one transaction, serialized per room by a row
// lock, so two concurrent requests cannot both pass the check for
// overlapping intervals on the same room.
type ReservationService struct {
	tx           TxRunner
	users        UserStore
	rooms        RoomStore
	reservations ReservationStore
	notifier     Notifier
	now          func() time.Time
}

// NewReservationService wires the engine to its stores and the
// notification collaborator.  The process clock defaults to time.Now;
// use WithClock to override it in tests.
func NewReservationService(db *sql.DB, users *repository.UserRepo, rooms *repository.RoomRepo, reservations *repository.ReservationRepo, n Notifier) *ReservationService {
	if db == nil || users == nil || rooms == nil || reservations == nil {
		panic("nil dependency passed to NewReservationService")
	}
	return &ReservationService{
		tx:           sqlTxRunner{db: db},
		users:        users,
		rooms:        rooms,
		reservations: reservations,
		notifier:     n,
		now:          time.Now,
	}
}

// WithClock replaces the engine's clock and returns the service.
func (s *ReservationService) WithClock(now func() time.Time) *ReservationService {
	s.now = now
	return s
}

// today returns the current date at UTC midnight.  Booking rules work at
// date granularity.
func (s *ReservationService) today() time.Time {
	t := s.now().UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// validateStay checks the date-range and guest-count rules shared by
// create and update: check-in not in the past, at least one night, and
// 1–20 guests.
func validateStay(today, checkIn, checkOut time.Time, guests uint32) error {
	if checkIn.Before(today) {
		return ErrInvalidRange
	}
	if checkOut.Before(checkIn.AddDate(0, 0, 1)) {
		return ErrInvalidRange
	}
	if guests < 1 || guests > MaxGuests {
		return ErrInvalidRange
	}
	return nil
}

// firstConflict returns the first reservation in existing whose interval
// overlaps [start, end), skipping the reservation identified by
// excludeID (zero to exclude nothing).  Callers pass only active
// reservations; the status filter lives in the query.
func firstConflict(existing []model.Reservation, start, end time.Time, excludeID uint64) *model.Reservation {
	for i := range existing {
		if existing[i].ID == excludeID {
			continue
		}
		if existing[i].Overlaps(start, end) {
			return &existing[i]
		}
	}
	return nil
}

// Create books a room for the user over [CheckIn, CheckOut).  The new
// reservation starts PENDING with price fixed at zero.  The conflict
// check and the insert run in one transaction under a room row lock.
// A notification event is published best-effort after commit.
func (s *ReservationService) Create(ctx context.Context, userID uint64, in ReservationInput) (model.Reservation, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return model.Reservation{}, mapNoRows(err)
	}
	room, err := s.rooms.GetByID(ctx, in.RoomID)
	if err != nil {
		return model.Reservation{}, mapNoRows(err)
	}
	if !room.IsAvailable {
		return model.Reservation{}, ErrRoomUnavailable
	}
	if err := validateStay(s.today(), in.CheckIn, in.CheckOut, in.Guests); err != nil {
		return model.Reservation{}, err
	}

	res := model.Reservation{
		UserID:       userID,
		RoomID:       in.RoomID,
		CheckInDate:  in.CheckIn,
		CheckOutDate: in.CheckOut,
		Guests:       in.Guests,
		PriceCents:   0,
		Status:       model.StatusPending,
		Notes:        in.Notes,
	}
	err = s.tx.InTx(ctx, func(tx *sql.Tx) error {
		if err := s.rooms.LockTx(ctx, tx, in.RoomID); err != nil {
			return mapNoRows(err)
		}
		active, err := s.reservations.ListActiveByRoomTx(ctx, tx, in.RoomID)
		if err != nil {
			return err
		}
		if c := firstConflict(active, in.CheckIn, in.CheckOut, 0); c != nil {
			return ErrConflict
		}
		return s.reservations.CreateTx(ctx, tx, &res)
	})
	if err != nil {
		return model.Reservation{}, err
	}

	s.notify(func(n Notifier) error { return n.ReservationCreated(res, user.Email) })
	return res, nil
}

// Update overwrites room, dates, guest count and notes of an existing
// reservation owned by userID, re-running the create-time validation
// with the reservation itself excluded from the conflict set.  Status is
// left unchanged and price is re-fixed to zero.
func (s *ReservationService) Update(ctx context.Context, reservationID, userID uint64, in ReservationInput) (model.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return model.Reservation{}, mapNoRows(err)
	}
	if res.UserID != userID {
		return model.Reservation{}, ErrForbidden
	}
	if res.Status.IsTerminal() {
		return model.Reservation{}, ErrInvalidState
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return model.Reservation{}, mapNoRows(err)
	}
	room, err := s.rooms.GetByID(ctx, in.RoomID)
	if err != nil {
		return model.Reservation{}, mapNoRows(err)
	}
	if !room.IsAvailable {
		return model.Reservation{}, ErrRoomUnavailable
	}
	if err := validateStay(s.today(), in.CheckIn, in.CheckOut, in.Guests); err != nil {
		return model.Reservation{}, err
	}

	err = s.tx.InTx(ctx, func(tx *sql.Tx) error {
		if err := s.rooms.LockTx(ctx, tx, in.RoomID); err != nil {
			return mapNoRows(err)
		}
		active, err := s.reservations.ListActiveByRoomTx(ctx, tx, in.RoomID)
		if err != nil {
			return err
		}
		if c := firstConflict(active, in.CheckIn, in.CheckOut, reservationID); c != nil {
			return ErrConflict
		}
		res.RoomID = in.RoomID
		res.CheckInDate = in.CheckIn
		res.CheckOutDate = in.CheckOut
		res.Guests = in.Guests
		res.PriceCents = 0
		res.Notes = in.Notes
		return s.reservations.UpdateTx(ctx, tx, &res)
	})
	if err != nil {
		return model.Reservation{}, err
	}

	s.notify(func(n Notifier) error { return n.ReservationUpdated(res, user.Email) })
	return res, nil
}

// Cancel transitions a reservation owned by userID to CANCELLED.  Dates
// and price are untouched; a reservation is never deleted.  The write is
// conditional on the status still being active, so a concurrent cancel
// or an external promotion to COMPLETED cannot be overwritten: whichever
// write loses the race gets ErrInvalidState, the same answer a cancel
// retry after success gets.
func (s *ReservationService) Cancel(ctx context.Context, reservationID, userID uint64) error {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return mapNoRows(err)
	}
	if res.UserID != userID {
		return ErrForbidden
	}
	if res.Status.IsTerminal() {
		return ErrInvalidState
	}
	cancelled, err := s.reservations.CancelActive(ctx, reservationID)
	if err != nil {
		return err
	}
	if !cancelled {
		return ErrInvalidState
	}
	res.Status = model.StatusCancelled

	var email string
	if user, err := s.users.GetByID(ctx, userID); err == nil {
		email = user.Email
	} else {
		logger.L().WithError(err).Warnf("cancel notification for reservation %d: user %d lookup failed, sending without email", reservationID, userID)
	}
	s.notify(func(n Notifier) error { return n.ReservationCancelled(res, email) })
	return nil
}

// GetByID returns a single reservation.
func (s *ReservationService) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return model.Reservation{}, mapNoRows(err)
	}
	return res, nil
}

// ListByUser returns all reservations owned by the user, newest
// check-in first.
func (s *ReservationService) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	return s.reservations.ListByUser(ctx, userID)
}

// ListActive returns every PENDING or CONFIRMED reservation.
func (s *ReservationService) ListActive(ctx context.Context) ([]model.Reservation, error) {
	return s.reservations.ListActive(ctx)
}

// ListBetween returns reservations fully contained in [start, end].
func (s *ReservationService) ListBetween(ctx context.Context, start, end time.Time) ([]model.Reservation, error) {
	return s.reservations.ListBetween(ctx, start, end)
}

// ListAvailableRooms answers which rooms are bookable.  Without a range
// it returns rooms with the administrative flag on; with a range it
// additionally excludes rooms having an active reservation overlapping
// [start, end).
func (s *ReservationService) ListAvailableRooms(ctx context.Context, start, end *time.Time) ([]model.Room, error) {
	if start == nil || end == nil {
		return s.rooms.ListAvailable(ctx)
	}
	if !end.After(*start) {
		return nil, ErrInvalidRange
	}
	return s.rooms.ListAvailableBetween(ctx, *start, *end)
}

// notify dispatches a notification in the background.  Delivery is
// best-effort: failures are logged and never surfaced to the caller.
func (s *ReservationService) notify(send func(Notifier) error) {
	if s.notifier == nil {
		return
	}
	n := s.notifier
	go func() {
		if err := send(n); err != nil {
			logger.L().WithError(err).Warn("reservation notification failed")
		}
	}()
}

// mapNoRows folds the driver's missing-row sentinel into the engine's
// taxonomy; everything else passes through untouched.
func mapNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
