// Package handler exposes the HTTP surface: snapshot-backed search and
// property reads, booking submission and lookup, revenue stats, and a
// health probe.
package handler

import (
	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/booking"
	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/geo"
	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/model"
	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/oyo"
	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/snapshot"
)

// API aggregates everything the request handlers read from.  All fields
// are set once at startup and safe for concurrent use.
type API struct {
	Store     *snapshot.Store
	Refresher *snapshot.Refresher
	Geo       *geo.Client
	Booking   *booking.Service
	Client    *oyo.Client
	Props     map[string]model.Property
}
