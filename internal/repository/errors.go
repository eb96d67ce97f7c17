// Package repository defines error values that are reused across multiple
// repositories.  These sentinel values allow higher layers such as the
// reservation service and the handlers to distinguish between failure
// scenarios without inspecting driver-specific errors.
package repository

import "errors"

// ErrUsernameExists is returned when a user registration collides with
// an existing username.
var ErrUsernameExists = errors.New("username already exists")

// ErrEmailExists is returned when a user registration collides with an
// existing email address.
var ErrEmailExists = errors.New("email already exists")

// ErrRoomNameExists is returned when a room insert collides with an
// existing room name.  Room names are unique across the inventory.
var ErrRoomNameExists = errors.New("room name already exists")
