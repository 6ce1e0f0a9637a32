package oyo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/cache"
	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/model"
)

func day(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestBookingActiveWithinRange(t *testing.T) {
	ci, co := day("2024-06-10"), day("2024-06-15")
	if !bookingActive(ci, co, day("2024-06-12"), day("2024-06-12")) {
		t.Fatalf("target inside stay should be active")
	}
}

func TestBookingActiveBeforeCheckinTwoDaysOut(t *testing.T) {
	ci, co := day("2024-06-12"), day("2024-06-15")
	if bookingActive(ci, co, day("2024-06-09"), day("2024-06-09")) {
		t.Fatalf("check-in three days after the window start must not be active")
	}
}

func TestBookingActiveDayBeforeCheckin(t *testing.T) {
	// The locked second clause: window start 06-09, check-in exactly the
	// next day, checkout still ahead of the target.
	ci, co := day("2024-06-10"), day("2024-06-15")
	if !bookingActive(ci, co, day("2024-06-09"), day("2024-06-09")) {
		t.Fatalf("check-in on window start + 1 day should count as active")
	}
}

func TestBookingActiveAfterCheckout(t *testing.T) {
	ci, co := day("2024-06-10"), day("2024-06-15")
	if bookingActive(ci, co, day("2024-06-16"), day("2024-06-16")) {
		t.Fatalf("target past checkout must not be active")
	}
}

// fakeUpstream serves canned merchant-API payloads for a single property.
// Detail calls arrive concurrently, so the counter is atomic.
type fakeUpstream struct {
	listStatus   int
	bookings     map[string]map[string]interface{}
	stayByID     map[string][]string
	detailCalls  atomic.Int32
	failDetailID string
}

func (f *fakeUpstream) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(pathBookingList, func(w http.ResponseWriter, r *http.Request) {
		if f.listStatus != 0 && f.listStatus != http.StatusOK {
			w.WriteHeader(f.listStatus)
			return
		}
		ids := make([]interface{}, 0, len(f.bookings))
		for id := range f.bookings {
			ids = append(ids, id)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"bookingIds": ids,
			"entities":   map[string]interface{}{"bookings": f.bookings},
		})
	})
	mux.HandleFunc(pathBookingDetails, func(w http.ResponseWriter, r *http.Request) {
		f.detailCalls.Add(1)
		id := r.URL.Query().Get("booking_id")
		if id == f.failDetailID {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		stay := map[string]interface{}{}
		for i, rn := range f.stayByID[id] {
			stay[string(rune('a'+i))] = map[string]interface{}{"room_number": rn}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"entities": map[string]interface{}{"stayDetails": stay},
		})
	})
	mux.HandleFunc(pathRooms, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"rooms": map[string]interface{}{
				"1": map[string]interface{}{"room_number": "101", "floor": "1"},
				"2": map[string]interface{}{"room_number": "102", "floor": "1"},
				"3": map[string]interface{}{"room_number": "201"},
			},
		})
	})
	return mux
}

func testClient(srv *httptest.Server) *Client {
	c := New(Options{BaseURL: srv.URL, RPS: 1000, Cache: cache.New()})
	c.sleep = func(time.Duration) {} // no real backoff in tests
	return c
}

func testProperty() model.Property {
	return model.Property{Code: "HYD2857", QID: 259690, UIF: "u", UUID: "id"}
}

func TestBookedRoomsUnionsDetailResults(t *testing.T) {
	f := &fakeUpstream{
		bookings: map[string]map[string]interface{}{
			"B1": {"booking_no": "B1", "status": "Checked In", "checkin": "2024-06-10", "checkout": "2024-06-15"},
			"B2": {"booking_no": "B2", "status": "Checked In", "checkin": "2024-06-11", "checkout": "2024-06-14"},
			"B3": {"booking_no": "B3", "status": "Confirm Booking", "checkin": "2024-06-10", "checkout": "2024-06-15"},
		},
		stayByID: map[string][]string{
			"B1": {"101"},
			"B2": {"102", "201"},
		},
	}
	srv := httptest.NewServer(f.handler())
	defer srv.Close()

	c := testClient(srv)
	booked := c.BookedRooms(context.Background(), testProperty(), "2024-06-10", "2024-06-11")

	want := []string{"101", "102", "201"}
	if len(booked) != len(want) {
		t.Fatalf("booked = %v, want %v", booked, want)
	}
	for _, rn := range want {
		if _, ok := booked[rn]; !ok {
			t.Fatalf("room %s missing from booked set %v", rn, booked)
		}
	}
	// B3 is not checked in, so only two detail calls should have fired.
	if n := f.detailCalls.Load(); n != 2 {
		t.Fatalf("detail calls = %d, want 2", n)
	}
}

func TestBookedRoomsIgnoresFailedDetailFetch(t *testing.T) {
	f := &fakeUpstream{
		bookings: map[string]map[string]interface{}{
			"B1": {"booking_no": "B1", "status": "Checked In", "checkin": "2024-06-10", "checkout": "2024-06-15"},
			"B2": {"booking_no": "B2", "status": "Checked In", "checkin": "2024-06-10", "checkout": "2024-06-15"},
		},
		stayByID:     map[string][]string{"B1": {"101"}},
		failDetailID: "B2",
	}
	srv := httptest.NewServer(f.handler())
	defer srv.Close()

	booked := testClient(srv).BookedRooms(context.Background(), testProperty(), "2024-06-10", "2024-06-11")
	if len(booked) != 1 {
		t.Fatalf("booked = %v, want just 101", booked)
	}
	if _, ok := booked["101"]; !ok {
		t.Fatalf("expected 101 in %v", booked)
	}
}

func TestBookedRoomsEmptyOnListFailure(t *testing.T) {
	f := &fakeUpstream{listStatus: http.StatusBadGateway}
	srv := httptest.NewServer(f.handler())
	defer srv.Close()

	booked := testClient(srv).BookedRooms(context.Background(), testProperty(), "2024-06-10", "2024-06-11")
	if len(booked) != 0 {
		t.Fatalf("expected empty set on list failure, got %v", booked)
	}
}

func TestAvailableRoomsNeverNegative(t *testing.T) {
	f := &fakeUpstream{
		bookings: map[string]map[string]interface{}{
			"B1": {"booking_no": "B1", "status": "Checked In", "checkin": "2024-06-10", "checkout": "2024-06-15"},
		},
		// Detail returns rooms that are not even on the roster, pushing the
		// booked count past the roster size.
		stayByID: map[string][]string{"B1": {"101", "102", "201", "301", "302"}},
	}
	srv := httptest.NewServer(f.handler())
	defer srv.Close()

	got := testClient(srv).AvailableRooms(context.Background(), testProperty(), "2024-06-10", "2024-06-11")
	if got != 0 {
		t.Fatalf("available = %d, want 0 (floored)", got)
	}
}

func TestBookedRoomsServedFromCache(t *testing.T) {
	f := &fakeUpstream{
		bookings: map[string]map[string]interface{}{
			"B1": {"booking_no": "B1", "status": "Checked In", "checkin": "2024-06-10", "checkout": "2024-06-15"},
		},
		stayByID: map[string][]string{"B1": {"101"}},
	}
	srv := httptest.NewServer(f.handler())
	defer srv.Close()

	c := testClient(srv)
	p := testProperty()
	c.BookedRooms(context.Background(), p, "2024-06-10", "2024-06-11")
	calls := f.detailCalls.Load()
	c.BookedRooms(context.Background(), p, "2024-06-10", "2024-06-11")
	if f.detailCalls.Load() != calls {
		t.Fatalf("second call within TTL should not hit upstream")
	}
}
