package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/cottage-reservation/internal/config"
	"github.com/iliyamo/cottage-reservation/internal/database"
	"github.com/iliyamo/cottage-reservation/internal/handler"
	"github.com/iliyamo/cottage-reservation/internal/logger"
	"github.com/iliyamo/cottage-reservation/internal/mailer"
	"github.com/iliyamo/cottage-reservation/internal/queue"
	"github.com/iliyamo/cottage-reservation/internal/repository"
	"github.com/iliyamo/cottage-reservation/internal/router"
	"github.com/iliyamo/cottage-reservation/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env wins

	cfg := config.Load()
	logger.Init(cfg.Env)
	log := logger.L()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.WithError(err).Fatal("schema migration failed")
	}
	if err := database.SeedRooms(ctx, db); err != nil {
		log.WithError(err).Fatal("room seeding failed")
	}
	if err := database.SeedAdmin(ctx, db, cfg.AdminEmail, cfg.AdminPassword, cfg.BcryptCost); err != nil {
		log.WithError(err).Fatal("admin seeding failed")
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable; rate limiting and response cache disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	rooms := repository.NewRoomRepo(db)
	reservations := repository.NewReservationRepo(db)

	engine := service.NewReservationService(db, users, rooms, reservations, service.NewAMQPNotifier())

	// The consumer owns email delivery; the API process only publishes.
	go queue.StartReservationConsumer(mailer.New())

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	router.Register(e, router.Deps{
		Cfg:          cfg,
		Auth:         handler.NewAuthHandler(cfg, users, tokens),
		Rooms:        handler.NewRoomHandler(rooms, engine),
		Reservations: handler.NewReservationHandler(engine),
		AdminRooms:   handler.NewAdminRoomHandler(rooms),
		Redis:        rdb,
	})

	log.Infof("listening on :%s", cfg.Port)
	if err := e.Start(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
