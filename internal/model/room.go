package model

import "time"

// Room types stored in rooms.room_type.  The cottage offers three
// individual bedrooms and the whole building as a single bookable unit.
// Booking the entire cottage does not block the bedrooms or vice versa;
// conflict detection is strictly per room.
const (
	RoomTypeBedroom1      = "BEDROOM_1"
	RoomTypeBedroom2      = "BEDROOM_2"
	RoomTypeBedroom3      = "BEDROOM_3"
	RoomTypeEntireCottage = "ENTIRE_COTTAGE"
)

// ValidRoomType reports whether s is one of the known room types.
func ValidRoomType(s string) bool {
	switch s {
	case RoomTypeBedroom1, RoomTypeBedroom2, RoomTypeBedroom3, RoomTypeEntireCottage:
		return true
	}
	return false
}

// Room represents a bookable unit as stored in the `rooms` table.
//
// Fields:
//
//	ID           – primary key identifier.
//	Name         – unique display name (max 100 chars).
//	Description  – free-text description shown to guests.
//	MaxOccupancy – advertised capacity (1–50).
//	RoomType     – one of the RoomType* constants.
//	IsAvailable  – administrative on/off switch; when off the room
//	               accepts no new reservations but existing ones stand.
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type Room struct {
	ID           uint64    `json:"id"`            // rooms.id
	Name         string    `json:"name"`          // rooms.name
	Description  string    `json:"description"`   // rooms.description
	MaxOccupancy uint32    `json:"max_occupancy"` // rooms.max_occupancy
	RoomType     string    `json:"room_type"`     // rooms.room_type
	IsAvailable  bool      `json:"is_available"`  // rooms.is_available
	CreatedAt    time.Time `json:"created_at"`    // rooms.created_at
	UpdatedAt    time.Time `json:"updated_at"`    // rooms.updated_at
}
