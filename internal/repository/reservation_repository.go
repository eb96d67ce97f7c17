package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/cottage-reservation/internal/model"
)

// ReservationRepo provides access to the `reservations` table.  Dates
// are stored as DATE columns and surface as UTC midnights through the
// driver's parseTime mode.  All timestamps are stored in UTC.
//
// Methods with a Tx suffix run inside a caller-provided transaction;
// the caller must commit or roll back.
type ReservationRepo struct{ DB *sql.DB }

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{DB: db} }

const reservationColumns = `id, user_id, room_id, check_in_date, check_out_date,
number_of_guests, price_cents, status, notes, created_at, updated_at`

func scanReservation(scan func(dest ...any) error) (model.Reservation, error) {
	var (
		res   model.Reservation
		notes sql.NullString
	)
	err := scan(&res.ID, &res.UserID, &res.RoomID, &res.CheckInDate, &res.CheckOutDate,
		&res.Guests, &res.PriceCents, &res.Status, &notes, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return model.Reservation{}, err
	}
	if notes.Valid {
		n := notes.String
		res.Notes = &n
	}
	return res, nil
}

// CreateTx inserts a new reservation within the scope of an existing
// transaction and reads the persisted row back to populate generated
// fields (ID, timestamps).
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservations
	           (user_id, room_id, check_in_date, check_out_date, number_of_guests, price_cents, status, notes)
	           VALUES (?,?,?,?,?,?,?,?)`
	result, err := tx.ExecContext(ctx, q, res.UserID, res.RoomID,
		res.CheckInDate, res.CheckOutDate, res.Guests, res.PriceCents,
		string(res.Status), res.Notes)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	row := tx.QueryRowContext(ctx, "SELECT "+reservationColumns+" FROM reservations WHERE id=?", res.ID)
	got, err := scanReservation(row.Scan)
	if err != nil {
		return err
	}
	*res = got
	return nil
}

// UpdateTx overwrites the mutable fields of a reservation within a
// transaction and reads the row back.  Status is left untouched.
func (r *ReservationRepo) UpdateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `UPDATE reservations
	           SET room_id=?, check_in_date=?, check_out_date=?, number_of_guests=?,
	               price_cents=?, notes=?, updated_at=NOW()
	           WHERE id=?`
	if _, err := tx.ExecContext(ctx, q, res.RoomID, res.CheckInDate, res.CheckOutDate,
		res.Guests, res.PriceCents, res.Notes, res.ID); err != nil {
		return err
	}
	row := tx.QueryRowContext(ctx, "SELECT "+reservationColumns+" FROM reservations WHERE id=?", res.ID)
	got, err := scanReservation(row.Scan)
	if err != nil {
		return err
	}
	*res = got
	return nil
}

// CancelActive transitions a reservation to CANCELLED only while its
// status is still active, and reports whether a row changed.  The status
// guard in the WHERE clause makes the write conditional, so concurrent
// cancels or an external promotion to COMPLETED cannot both win.
func (r *ReservationRepo) CancelActive(ctx context.Context, id uint64) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE reservations SET status='CANCELLED', updated_at=NOW()
		 WHERE id=? AND status IN ('PENDING','CONFIRMED')`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetByID fetches a single reservation.  Missing rows surface as
// sql.ErrNoRows.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	row := r.DB.QueryRowContext(ctx, "SELECT "+reservationColumns+" FROM reservations WHERE id=? LIMIT 1", id)
	return scanReservation(row.Scan)
}

// ListActiveByRoomTx returns all PENDING and CONFIRMED reservations for
// a room inside the given transaction.  Combined with a prior room row
// lock this gives the lifecycle engine a stable view for its conflict
// check.
func (r *ReservationRepo) ListActiveByRoomTx(ctx context.Context, tx *sql.Tx, roomID uint64) ([]model.Reservation, error) {
	const q = "SELECT " + reservationColumns + ` FROM reservations
	           WHERE room_id = ? AND status IN ('PENDING','CONFIRMED')
	           ORDER BY check_in_date`
	rows, err := tx.QueryContext(ctx, q, roomID)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// ListByUser returns every reservation owned by the user, newest
// check-in first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	const q = "SELECT " + reservationColumns + ` FROM reservations
	           WHERE user_id = ? ORDER BY check_in_date DESC`
	rows, err := r.DB.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// ListActive returns all reservations currently in an active status.
func (r *ReservationRepo) ListActive(ctx context.Context) ([]model.Reservation, error) {
	const q = "SELECT " + reservationColumns + ` FROM reservations
	           WHERE status IN ('PENDING','CONFIRMED') ORDER BY check_in_date`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// ListBetween returns reservations fully contained in [start, end],
// regardless of status.  Used by the calendar projection.
func (r *ReservationRepo) ListBetween(ctx context.Context, start, end time.Time) ([]model.Reservation, error) {
	const q = "SELECT " + reservationColumns + ` FROM reservations
	           WHERE check_in_date >= ? AND check_out_date <= ?
	           ORDER BY check_in_date`
	rows, err := r.DB.QueryContext(ctx, q, start, end)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

func collect(rows *sql.Rows) ([]model.Reservation, error) {
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
