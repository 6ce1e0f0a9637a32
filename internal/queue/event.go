// Package queue publishes booking lifecycle events to the message broker
// and runs the background consumer that writes them to logs/booking.log.
package queue

// BookingEvent is published on every booking lifecycle transition
// (submitted, confirmed, rejected).  It carries the full request so
// downstream consumers can log or notify without reading process memory.
type BookingEvent struct {
	Action       string `json:"action"`
	RequestID    string `json:"request_id"`
	PropertyCode string `json:"property_code"`
	Room         string `json:"room"`
	From         string `json:"from"`
	To           string `json:"to"`
	GuestName    string `json:"guest_name"`
	GuestPhone   string `json:"guest_phone"`
	GuestEmail   string `json:"guest_email"`
	Status       string `json:"status"`
	OccurredAt   string `json:"occurred_at"`
}
