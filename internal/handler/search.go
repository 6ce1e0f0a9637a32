package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/geo"
)

// Search returns the snapshot's property summaries, ranked by distance
// when a location is given.  A failed geocode degrades to the unranked
// list; the endpoint never errors on upstream trouble.
func (h *API) Search(c echo.Context) error {
	summaries := h.Store.Summaries()

	location := c.QueryParam("location")
	origin := h.Geo.Geocode(c.Request().Context(), location)

	var snapshotTime int64
	if last := h.Store.LastRefresh(); !last.IsZero() {
		snapshotTime = last.Unix()
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":         geo.Rank(summaries, origin),
		"count":         len(summaries),
		"ranked":        origin != nil,
		"snapshot_time": snapshotTime,
	})
}
