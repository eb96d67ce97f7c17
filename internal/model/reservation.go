package model

import "time"

// ReservationStatus is the lifecycle state of a reservation as stored in
// the reservations.status column.  Reservations start PENDING, move
// forward to CONFIRMED and COMPLETED, or are cancelled by their owner.
// COMPLETED and CANCELLED are terminal.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "PENDING"
	StatusConfirmed ReservationStatus = "CONFIRMED"
	StatusCompleted ReservationStatus = "COMPLETED"
	StatusCancelled ReservationStatus = "CANCELLED"
)

// IsActive reports whether a reservation in this status blocks other
// bookings on the same room.  Only PENDING and CONFIRMED reservations
// participate in conflict detection; cancelled and completed ones never
// block new bookings.
func (s ReservationStatus) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// IsTerminal reports whether this status permits no further mutation.
func (s ReservationStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Reservation records a user's booking of a room over a half-open date
// range [CheckInDate, CheckOutDate).  A reservation is never physically
// deleted; cancellation is a status change so the history is preserved.
// All reservations in this system are free of charge, so PriceCents is
// always zero.
//
// Fields:
//  ID           – primary key identifier.
//  UserID       – owning user.
//  RoomID       – reserved room.
//  CheckInDate  – first night of the stay (inclusive, date granularity).
//  CheckOutDate – day of departure (exclusive).
//  Guests       – number of guests (1–20).
//  PriceCents   – total price in cents, fixed at zero.
//  Status       – lifecycle state, see ReservationStatus.
//  Notes        – optional free-text notes (max 500 chars).
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Reservation struct {
	ID           uint64            `json:"id"`             // reservations.id
	UserID       uint64            `json:"user_id"`        // reservations.user_id
	RoomID       uint64            `json:"room_id"`        // reservations.room_id
	CheckInDate  time.Time         `json:"check_in_date"`  // reservations.check_in_date
	CheckOutDate time.Time         `json:"check_out_date"` // reservations.check_out_date
	Guests       uint32            `json:"guests"`         // reservations.number_of_guests
	PriceCents   uint32            `json:"price_cents"`    // reservations.price_cents
	Status       ReservationStatus `json:"status"`         // reservations.status
	Notes        *string           `json:"notes"`          // reservations.notes (nullable)
	CreatedAt    time.Time         `json:"created_at"`     // reservations.created_at
	UpdatedAt    time.Time         `json:"updated_at"`     // reservations.updated_at
}

// Nights returns the length of the stay in nights.
func (r *Reservation) Nights() int {
	return int(r.CheckOutDate.Sub(r.CheckInDate).Hours() / 24)
}

// Overlaps reports whether the reservation's date range overlaps the
// half-open interval [start, end).
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return Overlaps(r.CheckInDate, r.CheckOutDate, start, end)
}

// Overlaps reports whether the half-open intervals [a0, a1) and [b0, b1)
// overlap.  Two stays that merely touch (one checks out the day the other
// checks in) do not overlap.  This predicate is the single source of
// truth for conflict detection; the availability SQL mirrors it.
func Overlaps(a0, a1, b0, b1 time.Time) bool {
	return a1.After(b0) && a0.Before(b1)
}
