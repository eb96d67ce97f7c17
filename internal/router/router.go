// Package router mounts the HTTP surface.  Route groups mirror the
// access levels: public browsing, authenticated guests, and admins.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cottage-reservation/internal/config"
	"github.com/iliyamo/cottage-reservation/internal/handler"
	"github.com/iliyamo/cottage-reservation/internal/middleware"
	"github.com/iliyamo/cottage-reservation/internal/model"
)

// Deps carries everything the routes need.
type Deps struct {
	Cfg          config.Config
	Auth         *handler.AuthHandler
	Rooms        *handler.RoomHandler
	Reservations *handler.ReservationHandler
	AdminRooms   *handler.AdminRoomHandler
	Redis        *redis.Client
}

// Register wires all endpoints onto e.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), d.Redis)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), d.Redis)

	v1 := e.Group("/v1", limiter)

	auth := v1.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/refresh", d.Auth.Refresh)
	auth.POST("/logout", d.Auth.Logout)

	// Public browsing: anyone can look at rooms and availability.
	rooms := v1.Group("/rooms", cache)
	rooms.GET("", d.Rooms.ListRooms)
	rooms.GET("/available", d.Rooms.ListAvailableRooms)
	rooms.GET("/:id", d.Rooms.GetRoom)

	authed := v1.Group("", middleware.JWTAuth(d.Cfg.JWTSecret),
		middleware.RequireRole(model.RoleCustomer, model.RoleAdmin))
	authed.GET("/me", d.Auth.Me)

	res := authed.Group("/reservations")
	res.POST("", d.Reservations.Create)
	res.GET("", d.Reservations.ListMine)
	res.GET("/active", d.Reservations.ListActive)
	res.GET("/calendar", d.Reservations.Calendar)
	res.GET("/:id", d.Reservations.Get)
	res.PUT("/:id", d.Reservations.Update)
	res.DELETE("/:id", d.Reservations.Cancel)

	admin := v1.Group("/admin", middleware.JWTAuth(d.Cfg.JWTSecret),
		middleware.RequireRole(model.RoleAdmin))
	admin.POST("/rooms", d.AdminRooms.CreateRoom)
	admin.PATCH("/rooms/:id/availability", d.AdminRooms.SetAvailability)
}
