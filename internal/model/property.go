package model

// Property is a single managed hotel identified by a short code such as
// "HYD2857".  The credential pair (UIF/UUID) authenticates merchant-portal
// calls for that property and QID is its numeric id upstream.  ChatID is
// the Telegram group the property staff watch for booking requests.
//
// Properties come from static configuration and never change at runtime.
type Property struct {
	Code   string
	UIF    string
	UUID   string
	QID    int64
	ChatID int64
}

// Room is one rentable unit inside a property.  The room number string is
// the only identity a room has; floor and type are re-derived on every
// roster fetch and may drift between refreshes.
type Room struct {
	Number string `json:"room"`
	Floor  string `json:"floor"`
	Type   string `json:"type"`
}
