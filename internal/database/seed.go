package database

import (
	"context"
	"database/sql"

	"github.com/iliyamo/cottage-reservation/internal/logger"
	"github.com/iliyamo/cottage-reservation/internal/model"
	"github.com/iliyamo/cottage-reservation/internal/repository"
	"github.com/iliyamo/cottage-reservation/internal/utils"
)

// seedRooms is the fixed cottage inventory inserted on first start.
var seedRooms = []model.Room{
	{
		Name:         "Bedroom 1",
		Description:  "Cozy bedroom with queen bed and garden view. Perfect for couples.",
		MaxOccupancy: 2,
		RoomType:     model.RoomTypeBedroom1,
		IsAvailable:  true,
	},
	{
		Name:         "Bedroom 2",
		Description:  "Spacious bedroom with twin beds and lake view. Great for friends or family.",
		MaxOccupancy: 2,
		RoomType:     model.RoomTypeBedroom2,
		IsAvailable:  true,
	},
	{
		Name:         "Bedroom 3",
		Description:  "Master bedroom with king bed, ensuite bathroom, and private balcony.",
		MaxOccupancy: 2,
		RoomType:     model.RoomTypeBedroom3,
		IsAvailable:  true,
	},
	{
		Name:         "Entire Cottage",
		Description:  "Reserve the entire 3-bedroom cottage with full kitchen, living room, and outdoor deck. Perfect for groups and families.",
		MaxOccupancy: 6,
		RoomType:     model.RoomTypeEntireCottage,
		IsAvailable:  true,
	},
}

// SeedRooms inserts the cottage inventory when the rooms table is
// empty.  Reruns are no-ops so restarts never duplicate rooms.
func SeedRooms(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM rooms").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	rooms := repository.NewRoomRepo(db)
	for i := range seedRooms {
		if _, err := rooms.Create(ctx, &seedRooms[i]); err != nil {
			return err
		}
	}
	logger.L().Infof("seeded %d rooms", len(seedRooms))
	return nil
}

// SeedAdmin creates the administrator account from ADMIN_EMAIL and
// ADMIN_PASSWORD when both are set and the account does not exist yet.
func SeedAdmin(ctx context.Context, db *sql.DB, email, password string, bcryptCost int) error {
	if email == "" || password == "" {
		return nil
	}
	var exists uint64
	err := db.QueryRowContext(ctx, "SELECT id FROM users WHERE email=? LIMIT 1", email).Scan(&exists)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return err
	}
	hash, err := utils.HashPassword(password, bcryptCost)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, role) VALUES ('admin', ?, ?, ?)",
		email, hash, model.RoleAdmin)
	if err != nil {
		return err
	}
	logger.L().Infof("seeded admin account %s", email)
	return nil
}
