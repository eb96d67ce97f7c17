// Package service contains the reservation lifecycle engine and its
// collaborators.  The sentinel errors below are the caller-facing error
// taxonomy of the engine; handlers translate them into HTTP responses.
// Storage failures are never wrapped into these values and propagate
// unmodified.
package service

import "errors"

// ErrNotFound is returned when a referenced user, room or reservation
// does not resolve.
var ErrNotFound = errors.New("not found")

// ErrRoomUnavailable is returned when the room's administrative
// availability flag is off.
var ErrRoomUnavailable = errors.New("room is not available")

// ErrInvalidRange is returned when the requested dates or guest count
// violate the booking rules (past check-in, stay shorter than one
// night, guest count outside 1–20).
var ErrInvalidRange = errors.New("invalid date range or guest count")

// ErrConflict is returned when an active reservation on the same room
// overlaps the requested interval.
var ErrConflict = errors.New("room is already booked for the selected dates")

// ErrForbidden is returned when a caller attempts to mutate a
// reservation owned by someone else.
var ErrForbidden = errors.New("reservation belongs to another user")

// ErrInvalidState is returned when a mutation is attempted on a
// reservation in a terminal status (COMPLETED or CANCELLED).
var ErrInvalidState = errors.New("reservation is completed or cancelled")
