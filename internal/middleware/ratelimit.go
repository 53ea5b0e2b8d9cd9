package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// RateLimit returns a fixed-window limiter backed by Redis, keyed by
// client IP and route. Each window allows up to limit requests; the
// counter key expires with the window so idle clients cost nothing.
// A nil client disables limiting.
func RateLimit(client *redis.Client, limit int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if client == nil {
			return next
		}
		return func(c echo.Context) error {
			key := "rl:" + c.RealIP() + ":" + c.Path()
			ctx := c.Request().Context()

			n, err := client.Incr(ctx, key).Result()
			if err != nil {
				// Redis down: let the request through rather than block logins.
				return next(c)
			}
			if n == 1 {
				client.Expire(ctx, key, window)
			}
			if n > int64(limit) {
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "rate limit exceeded"})
			}
			return next(c)
		}
	}
}
