package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Stats reports yesterday's achieved room rates for one property, split
// into overall ARR and the direct-channel ARR.
func (h *API) Stats(c echo.Context) error {
	code := c.Param("code")
	p, ok := h.Props[code]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown property"})
	}
	stats := h.Client.YesterdayStats(c.Request().Context(), p)
	return c.JSON(http.StatusOK, echo.Map{"code": code, "stats": stats})
}
