package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Health is the probe used by load balancers and monitoring.  Beyond
// liveness it reports how fresh the snapshot is, so a wedged refresher
// shows up in monitoring without a separate metric.
func (h *API) Health(c echo.Context) error {
	last := h.Store.LastRefresh()
	var lastUnix int64
	if !last.IsZero() {
		lastUnix = last.Unix()
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":       "ok",
		"time":         time.Now().Unix(),
		"properties":   h.Store.Len(),
		"last_refresh": lastUnix,
	})
}
