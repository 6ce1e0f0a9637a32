package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/booking"
)

// Book accepts a guest booking intent and returns the generated request
// id.  Invalid input is a 400; a property channel that cannot be reached
// is a 502, since the request would otherwise sit unseen forever.
func (h *API) Book(c echo.Context) error {
	var in booking.SubmitInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	req, err := h.Booking.Submit(in)
	switch {
	case err == nil:
		return c.JSON(http.StatusCreated, echo.Map{"request_id": req.ID, "status": req.Status})
	case errors.Is(err, booking.ErrMissingField),
		errors.Is(err, booking.ErrUnknownProperty),
		errors.Is(err, booking.ErrNoChannel):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrNotifyFailed):
		return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}
}

// BookingStatus looks up a previously submitted request by id.
func (h *API) BookingStatus(c echo.Context) error {
	req, ok := h.Booking.Get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown request id"})
	}
	return c.JSON(http.StatusOK, req)
}
