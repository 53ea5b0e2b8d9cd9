package middleware

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// bodyRecorder captures the response body while forwarding it to the client.
type bodyRecorder struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (w *bodyRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// CacheJSON returns a middleware that serves successful GET responses for
// the wrapped route from Redis. The cache key is derived from the route
// path and raw query string, so every distinct filter combination caches
// independently. A nil client disables caching entirely.
//
// Only 200 responses are stored; errors always reach the handler. The
// route under this middleware serves JSON exclusively, so the cached
// payload is replayed with a fixed content type.
func CacheJSON(client *redis.Client, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if client == nil {
			return next
		}
		return func(c echo.Context) error {
			r := c.Request()
			sum := sha1.Sum([]byte(c.Path() + "?" + r.URL.RawQuery))
			key := fmt.Sprintf("cache:%x", sum)

			if body, err := client.Get(r.Context(), key).Bytes(); err == nil {
				return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, body)
			}

			rec := &bodyRecorder{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = rec

			if err := next(c); err != nil {
				return err
			}
			if rec.status == http.StatusOK {
				// Best effort; a failed SET only costs the next request a query.
				client.Set(r.Context(), key, rec.buf.Bytes(), ttl)
			}
			return nil
		}
	}
}
