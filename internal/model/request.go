package model

// BookingRequest is a guest-submitted intent to book a room.  Requests live
// in process memory for the lifetime of the service and are never deleted;
// the confirm workflow is the only writer after creation.
//
// Status moves requested → confirmed or requested → rejected, both
// terminal.  A re-delivered Telegram action re-applies the same terminal
// state (idempotent on state, not on notifications).
type BookingRequest struct {
	ID           string `json:"request_id"`
	PropertyCode string `json:"property_code"`
	Room         string `json:"room"`
	From         string `json:"from"`
	To           string `json:"to"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	Status       string `json:"status"`
	CreatedAt    int64  `json:"created_at"`
}

const (
	RequestPending   = "requested"
	RequestConfirmed = "confirmed"
	RequestRejected  = "rejected"
)
