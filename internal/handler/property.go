package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Property returns one property's summary and per-room detail from the
// snapshot.  Before the first refresh cycle completes the snapshot is
// empty, so a configured property falls back to a live build rather
// than 404ing during startup.
func (h *API) Property(c echo.Context) error {
	code := c.Param("code")

	sum, okSum := h.Store.Summary(code)
	rooms, okRooms := h.Store.Rooms(code)
	if okSum && okRooms {
		return c.JSON(http.StatusOK, echo.Map{"summary": sum, "rooms": rooms})
	}

	p, configured := h.Props[code]
	if !configured {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown property"})
	}
	liveSum, liveRooms, ok := h.Refresher.BuildProperty(c.Request().Context(), p)
	if !ok {
		return c.JSON(http.StatusOK, echo.Map{"summary": nil, "rooms": nil, "pending": true})
	}
	return c.JSON(http.StatusOK, echo.Map{"summary": liveSum, "rooms": liveRooms})
}
