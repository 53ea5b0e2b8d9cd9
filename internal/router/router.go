package router // package router defines how HTTP routes are registered for the API

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/lightbnb/lightbnb/internal/handler"
	"github.com/lightbnb/lightbnb/internal/middleware"
)

// Deps bundles everything route registration needs. The redis client may
// be nil, in which case caching and rate limiting are disabled.
type Deps struct {
	Auth         *handler.AuthHandler
	Properties   *handler.PropertyHandler
	Reservations *handler.ReservationHandler
	Redis        *redis.Client
	JWTSecret    string
}

// Register wires all application routes onto the provided Echo instance.
//
// Public surface: health check, property search (cached in redis when
// available), register and login (rate limited). Protected surface (JWT):
// profile, property creation, the guest's reservations.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	// Property search is the hot public read; cache whole responses.
	e.GET("/v1/properties", d.Properties.Search,
		middleware.CacheJSON(d.Redis, 30*time.Second))

	// Credential endpoints get a tight fixed window per client.
	auth := e.Group("/v1/auth", middleware.RateLimit(d.Redis, 10, time.Minute))
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)

	// Everything below requires a valid access token.
	api := e.Group("/v1", middleware.JWTAuth(d.JWTSecret))
	api.GET("/me", d.Auth.Me)
	api.POST("/properties", d.Properties.Create)
	api.GET("/reservations", d.Reservations.List)
}
