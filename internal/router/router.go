package router // package router defines how HTTP routes are registered for the API

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iliyamo/hotel-reservation/internal/config"
	"github.com/iliyamo/hotel-reservation/internal/handler"
	"github.com/iliyamo/hotel-reservation/internal/middleware"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

// Deps bundles everything the route table needs.  Redis may be nil, in
// which case caching and rate limiting are pass-through.
type Deps struct {
	Auth         *handler.AuthHandler
	Rooms        *handler.RoomHandler
	Reservations *handler.ReservationHandler
	Admin        *handler.AdminHandler
	Tokens       middleware.TokenVerifier
	Ping         func(context.Context) error

	Redis     *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
	Log       zerolog.Logger
}

// Register mounts every route on e.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health(d.Ping))

	registerAuth(e, d)
	registerRooms(e, d)
	registerReservations(e, d)
	registerAdmin(e, d)
}

// registerAuth mounts sign-up and login under a stricter rate limit, and
// the claims echo behind JWT.
func registerAuth(e *echo.Echo, d Deps) {
	g := e.Group("/v1/auth", middleware.NewTokenBucket(d.RateLimit.ForAuth(), d.Redis, d.Log))
	g.POST("/register", d.Auth.Register)
	g.POST("/login", d.Auth.Login)

	e.GET("/v1/me", d.Auth.Me, middleware.JWTAuth(d.Tokens))
}

// registerRooms mounts the public catalogue (cached) and the admin-only
// room writes (which purge the cache).
func registerRooms(e *echo.Echo, d Deps) {
	cache := middleware.NewRedisCache(d.Cache, d.Redis, d.Log)
	g := e.Group("/v1/rooms")
	g.GET("", d.Rooms.List, cache)
	g.GET("/available", d.Rooms.Available)
	g.GET("/:id", d.Rooms.Get, cache)
	g.GET("/:id/availability", d.Rooms.Availability)
	g.GET("/:id/image", d.Rooms.GetImage, cache)

	admin := []echo.MiddlewareFunc{
		middleware.JWTAuth(d.Tokens),
		middleware.RequireRole(model.RoleAdmin),
		middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Log),
		middleware.PurgeOnWrite(d.Cache, d.Redis, d.Log),
	}
	g.POST("", d.Rooms.Create, admin...)
	g.PATCH("/:id", d.Rooms.Update, admin...)
	g.PUT("/:id/image", d.Rooms.PutImage, admin...)
}

// registerReservations mounts the ledger.  Any authenticated role may call
// these; per-record access is decided by the services.
func registerReservations(e *echo.Echo, d Deps) {
	g := e.Group("/v1/reservations",
		middleware.JWTAuth(d.Tokens),
		middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Log),
	)
	g.POST("", d.Reservations.Create)
	g.GET("", d.Reservations.List)
	g.GET("/:id", d.Reservations.Get)
	g.POST("/:id/cancel", d.Reservations.Cancel)
	g.POST("/:id/payments", d.Reservations.Pay)
	g.GET("/:id/payments", d.Reservations.ListPayments)
}

func registerAdmin(e *echo.Echo, d Deps) {
	g := e.Group("/v1/admin",
		middleware.JWTAuth(d.Tokens),
		middleware.RequireRole(model.RoleAdmin),
	)
	g.POST("/users", d.Admin.CreateUser)
	g.GET("/audit", d.Admin.AuditLog)
}
