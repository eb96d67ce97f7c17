package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/cottage-reservation/internal/model"
)

// RoomRepo provides access to the `rooms` table.  Rooms are read-mostly
// reference data; after seeding only the is_available flag changes.
type RoomRepo struct{ DB *sql.DB }

func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{DB: db} }

const roomColumns = "id, name, description, max_occupancy, room_type, is_available, created_at, updated_at"

func scanRoom(scan func(dest ...any) error) (model.Room, error) {
	var rm model.Room
	err := scan(&rm.ID, &rm.Name, &rm.Description, &rm.MaxOccupancy,
		&rm.RoomType, &rm.IsAvailable, &rm.CreatedAt, &rm.UpdatedAt)
	return rm, err
}

// Create inserts a new room and returns its generated ID.  A duplicate
// name is reported as ErrRoomNameExists.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO rooms (name, description, max_occupancy, room_type, is_available) VALUES (?,?,?,?,?)",
		rm.Name, rm.Description, rm.MaxOccupancy, string(rm.RoomType), rm.IsAvailable)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrRoomNameExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a single room.  Missing rooms surface as sql.ErrNoRows.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (model.Room, error) {
	row := r.DB.QueryRowContext(ctx, "SELECT "+roomColumns+" FROM rooms WHERE id=? LIMIT 1", id)
	return scanRoom(row.Scan)
}

// ListAll returns every room in the inventory ordered by ID.
func (r *RoomRepo) ListAll(ctx context.Context) ([]model.Room, error) {
	return r.list(ctx, "SELECT "+roomColumns+" FROM rooms ORDER BY id")
}

// ListAvailable returns rooms whose administrative availability flag is
// on, regardless of bookings.
func (r *RoomRepo) ListAvailable(ctx context.Context) ([]model.Room, error) {
	return r.list(ctx, "SELECT "+roomColumns+" FROM rooms WHERE is_available=1 ORDER BY id")
}

// ListAvailableBetween returns rooms with the availability flag on and no
// PENDING or CONFIRMED reservation overlapping the half-open interval
// [start, end).  The overlap clause is the SQL mirror of model.Overlaps.
func (r *RoomRepo) ListAvailableBetween(ctx context.Context, start, end time.Time) ([]model.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms
	           WHERE is_available = 1
	             AND id NOT IN (
	                 SELECT room_id FROM reservations
	                 WHERE status IN ('PENDING','CONFIRMED')
	                   AND NOT (check_out_date <= ? OR check_in_date >= ?)
	             )
	           ORDER BY id`
	return r.list(ctx, q, start, end)
}

// SetAvailability flips the administrative on/off switch for a room.  It
// returns sql.ErrNoRows when the room does not exist.
func (r *RoomRepo) SetAvailability(ctx context.Context, id uint64, available bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE rooms SET is_available=?, updated_at=NOW() WHERE id=?", available, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish missing room from no-op flag write.
		var exists uint64
		if err := r.DB.QueryRowContext(ctx, "SELECT id FROM rooms WHERE id=? LIMIT 1", id).Scan(&exists); err != nil {
			return err
		}
	}
	return nil
}

// LockTx acquires a row lock on the room inside the given transaction.
// Concurrent create/update calls for the same room serialize on this
// lock, so a conflict check followed by a write cannot interleave with
// another request's check on the same room.  Returns sql.ErrNoRows when
// the room does not exist.
func (r *RoomRepo) LockTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	var got uint64
	return tx.QueryRowContext(ctx, "SELECT id FROM rooms WHERE id=? FOR UPDATE", id).Scan(&got)
}

func (r *RoomRepo) list(ctx context.Context, query string, args ...any) ([]model.Room, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Room, 0)
	for rows.Next() {
		rm, err := scanRoom(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
