package model

// PropertySummary is the denormalized per-property projection served from
// the in-memory snapshot.  It is rebuilt wholesale every refresh cycle;
// UpdatedAt records when this particular property was last computed so
// staleness is observable per entry.
//
// Fields:
//
//	Code           – property code.
//	Name           – display name (alternate name when set upstream).
//	Address        – space-joined plot/street/city/pincode.
//	TodayPrice     – minimum positive standing room price, 0 if none.
//	AvailableRooms – roster size minus occupied rooms, floored at zero.
type PropertySummary struct {
	Code           string   `json:"code"`
	Name           string   `json:"name"`
	Address        string   `json:"address"`
	City           string   `json:"city"`
	Pincode        string   `json:"pincode"`
	MapLink        string   `json:"map_link"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	TodayPrice     float64  `json:"today_price"`
	AvailableRooms int      `json:"available_rooms"`
	UpdatedAt      int64    `json:"updated_at"`
}

// RoomView is a Room annotated with its derived state for today: whether an
// actively checked-in booking occupies it, and its standing price (the
// highest per-day rate among its last ten qualifying bookings).
type RoomView struct {
	Room
	Status        string  `json:"status"` // "booked" or "available"
	StandardPrice float64 `json:"standard_price"`
}

// RoomsView groups a property's rooms with the sorted list of floors they
// span.  Floors defaults to ["1"] when the roster is empty.
type RoomsView struct {
	Floors []string   `json:"floors"`
	Rooms  []RoomView `json:"rooms"`
}

const (
	RoomBooked    = "booked"
	RoomAvailable = "available"
)
