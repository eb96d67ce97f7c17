// Package queue defines message payloads exchanged over the message
// broker and the background consumer that processes them.
package queue

// QueueName is the durable queue carrying all reservation lifecycle
// events.  The event Type field distinguishes creations, updates and
// cancellations.
const QueueName = "reservation.events"

// Event types published by the reservation engine.
const (
	EventCreated   = "reservation.created"
	EventUpdated   = "reservation.updated"
	EventCancelled = "reservation.cancelled"
)

// ReservationEvent is published after a reservation lifecycle
// transition.  It carries enough information for downstream consumers
// to log and to notify the guest by email without querying the primary
// database.
type ReservationEvent struct {
	EventID       string `json:"event_id"`
	Type          string `json:"type"`
	ReservationID uint64 `json:"reservation_id"`
	UserID        uint64 `json:"user_id"`
	UserEmail     string `json:"user_email"`
	RoomID        uint64 `json:"room_id"`
	CheckInDate   string `json:"check_in_date"`
	CheckOutDate  string `json:"check_out_date"`
	Guests        uint32 `json:"guests"`
	Status        string `json:"status"`
	OccurredAt    string `json:"occurred_at"`
}
