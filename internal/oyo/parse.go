package oyo

// The merchant API is loose about field names: the same attribute shows up
// as room_number, roomNumber or number depending on endpoint revision, and
// numbers arrive as strings or floats.  All schema knowledge lives in this
// file as ordered fallback lookups so upstream drift is a one-place fix
// and the business logic never touches raw JSON.

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/model"
)

// strAt returns the first non-empty string value among keys, trimmed.
func strAt(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		var s string
		switch t := v.(type) {
		case string:
			s = t
		case float64:
			// whole numbers come through json as float64
			if t == float64(int64(t)) {
				s = strconv.FormatInt(int64(t), 10)
			} else {
				s = strconv.FormatFloat(t, 'f', -1, 64)
			}
		default:
			s = fmt.Sprint(t)
		}
		s = strings.TrimSpace(s)
		if s != "" {
			return s
		}
	}
	return ""
}

// floatAt returns the first parseable numeric value among keys, 0 otherwise.
func floatAt(m map[string]interface{}, keys ...string) float64 {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case float64:
			return t
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
				return f
			}
		}
	}
	return 0
}

// floatPtrAt is floatAt but distinguishes "absent" from zero.
func floatPtrAt(m map[string]interface{}, keys ...string) *float64 {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case float64:
			f := t
			return &f
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// objAt descends into nested objects, returning an empty map when any hop
// is missing or not an object.
func objAt(m map[string]interface{}, keys ...string) map[string]interface{} {
	cur := m
	for _, k := range keys {
		v, ok := cur[k]
		if !ok {
			return map[string]interface{}{}
		}
		next, ok := v.(map[string]interface{})
		if !ok {
			return map[string]interface{}{}
		}
		cur = next
	}
	return cur
}

func parsePropertyDetails(data map[string]interface{}) PropertyDetails {
	return PropertyDetails{
		Name:          strAt(data, "name"),
		AlternateName: strAt(data, "alternate_name"),
		PlotNumber:    strAt(data, "plot_number"),
		Street:        strAt(data, "street"),
		Pincode:       strAt(data, "pincode"),
		City:          strAt(data, "city"),
		Country:       strAt(data, "country"),
		MapLink:       strAt(data, "map_link"),
		Latitude:      floatPtrAt(data, "latitude"),
		Longitude:     floatPtrAt(data, "longitude"),
	}
}

// parseRooms extracts the roster from a roomsNew payload.  Rooms without a
// number are skipped; a missing floor falls back to the leading digit of
// the room number, or "1".
func parseRooms(data map[string]interface{}) []model.Room {
	roomsObj := objAt(data, "rooms")
	rooms := make([]model.Room, 0, len(roomsObj))
	for _, raw := range roomsObj {
		rm, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		number := strAt(rm, "room_number", "roomNumber", "number")
		if number == "" {
			continue
		}
		floor := strAt(rm, "floor", "floor_number", "floorNumber")
		if floor == "" {
			floor = inferFloor(number)
		}
		typ := strAt(rm, "room_type_name", "type")
		if typ == "" {
			typ = "Standard"
		}
		rooms = append(rooms, model.Room{Number: number, Floor: floor, Type: typ})
	}
	return rooms
}

// inferFloor derives a floor label from the leading digit of the room
// number, defaulting to "1".
func inferFloor(roomNumber string) string {
	if roomNumber != "" && roomNumber[0] >= '0' && roomNumber[0] <= '9' {
		return roomNumber[:1]
	}
	return "1"
}

// parseStayRooms pulls assigned room numbers out of a booking-detail
// payload (entities.stayDetails values).
func parseStayRooms(data map[string]interface{}) []string {
	stay := objAt(data, "entities", "stayDetails")
	var rooms []string
	for _, raw := range stay {
		s, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		if rn := strAt(s, "room_number"); rn != "" {
			rooms = append(rooms, rn)
		}
	}
	return rooms
}

// booking is the internal read-only view of one upstream booking record.
type booking struct {
	No        string
	Status    string
	Checkin   string
	Checkout  string
	Paid      float64
	Payable   float64
	RoomCount int
	Source    string
	OTASource string
	SubSource string
}

// parseBookings extracts entities.bookings from a booking-list payload.
func parseBookings(data map[string]interface{}) []booking {
	raw := objAt(data, "entities", "bookings")
	out := make([]booking, 0, len(raw))
	for _, v := range raw {
		b, ok := v.(map[string]interface{})
		if !ok {
			continue
		}
		rc := int(floatAt(b, "no_of_rooms"))
		if rc == 0 {
			rc = 1
		}
		out = append(out, booking{
			No:        strAt(b, "booking_no"),
			Status:    strAt(b, "status"),
			Checkin:   strAt(b, "checkin"),
			Checkout:  strAt(b, "checkout"),
			Paid:      floatAt(b, "get_amount_paid"),
			Payable:   floatAt(b, "payable_amount"),
			RoomCount: rc,
			Source:    strAt(b, "source"),
			OTASource: strAt(b, "ota_source"),
			SubSource: strAt(b, "sub_source"),
		})
	}
	return out
}

// bookingIDCount reports how many booking ids the page carried, which
// drives pagination: a short page is the last one.
func bookingIDCount(data map[string]interface{}) int {
	ids, ok := data["bookingIds"].([]interface{})
	if !ok {
		return 0
	}
	return len(ids)
}

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
