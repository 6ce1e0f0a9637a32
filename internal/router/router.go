// Package router wires the HTTP surface onto an Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/handler"
)

// Options carries the optional middlewares applied to route groups.
// Either may be nil, in which case the route runs without it.
type Options struct {
	ResponseCache echo.MiddlewareFunc // snapshot read endpoints
	RateLimit     echo.MiddlewareFunc // booking submission
}

// Register mounts all API routes.  The search and property reads sit
// behind the Redis response cache; booking submission sits behind the
// token-bucket rate limiter.  Stats and lookups are cheap enough to
// serve uncached.
func Register(e *echo.Echo, h *handler.API, opts Options) {
	api := e.Group("/api")

	api.GET("/health", h.Health)
	api.GET("/stats/:code", h.Stats)
	api.GET("/booking/:id", h.BookingStatus)

	reads := []echo.MiddlewareFunc{}
	if opts.ResponseCache != nil {
		reads = append(reads, opts.ResponseCache)
	}
	api.GET("/search", h.Search, reads...)
	api.GET("/property/:code", h.Property, reads...)

	writes := []echo.MiddlewareFunc{}
	if opts.RateLimit != nil {
		writes = append(writes, opts.RateLimit)
	}
	api.POST("/book", h.Book, writes...)
}
