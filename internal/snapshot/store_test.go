package snapshot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/cache"
	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/model"
	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/oyo"
)

func TestStoreStartsEmptyAndReplacesWholesale(t *testing.T) {
	s := NewStore()
	if s.Len() != 0 || !s.LastRefresh().IsZero() {
		t.Fatalf("new store must be empty with zero refresh time")
	}

	at := time.Unix(1700000000, 0)
	s.Replace(
		map[string]model.PropertySummary{
			"HYD2": {Code: "HYD2"},
			"HYD1": {Code: "HYD1"},
		},
		map[string]model.RoomsView{"HYD1": {Floors: []string{"1"}}},
		at,
	)

	got := s.Summaries()
	if len(got) != 2 || got[0].Code != "HYD1" || got[1].Code != "HYD2" {
		t.Fatalf("summaries = %+v, want sorted by code", got)
	}
	if !s.LastRefresh().Equal(at) {
		t.Fatalf("last refresh = %v", s.LastRefresh())
	}

	// A later replace fully supersedes the previous maps.
	s.Replace(map[string]model.PropertySummary{"HYD3": {Code: "HYD3"}}, map[string]model.RoomsView{}, at.Add(time.Minute))
	if _, ok := s.Summary("HYD1"); ok {
		t.Fatalf("old entries must not survive a replace")
	}
	if _, ok := s.Summary("HYD3"); !ok {
		t.Fatalf("new entry missing")
	}
}

// upstream fakes just enough of the merchant API for a refresh cycle:
// a roster, an empty booking list, and empty booking details.
func upstream(t *testing.T, roomsByQID map[string]interface{}) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/hms_ms/api/v1/hotels/roomsNew", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"rooms": roomsByQID[r.URL.Query().Get("qid")]})
	})
	mux.HandleFunc("/hms_ms/api/v1/location/property-details", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"name": "Test Stay", "city": "Hyderabad"})
	})
	mux.HandleFunc("/hms_ms/api/v1/get_booking_with_ids", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"bookingIds": []interface{}{}})
	})
	return httptest.NewServer(mux)
}

func testRefresher(srv *httptest.Server, props map[string]model.Property) (*Refresher, *Store) {
	store := NewStore()
	client := oyo.New(oyo.Options{BaseURL: srv.URL, RPS: 1000, Cache: cache.New()})
	r := NewRefresher(store, client, props, time.Minute)
	r.sleep = func(time.Duration) {}
	return r, store
}

func TestRefreshOnceSkipsFailingProperty(t *testing.T) {
	srv := upstream(t, map[string]interface{}{
		"101": map[string]interface{}{
			"a": map[string]interface{}{"room_number": "101", "floor": "1"},
			"b": map[string]interface{}{"room_number": "201", "floor": "2"},
		},
		// qid 102 has no roster entry: upstream reports zero rooms and the
		// property is treated as failed for the cycle.
	})
	defer srv.Close()

	props := map[string]model.Property{
		"HYDOK":  {Code: "HYDOK", QID: 101},
		"HYDBAD": {Code: "HYDBAD", QID: 102},
	}
	r, store := testRefresher(srv, props)

	if n := r.RefreshOnce(context.Background()); n != 1 {
		t.Fatalf("refreshed = %d, want 1", n)
	}
	sum, ok := store.Summary("HYDOK")
	if !ok {
		t.Fatalf("healthy property missing from snapshot")
	}
	if sum.Name != "Test Stay" || sum.AvailableRooms != 2 {
		t.Fatalf("summary = %+v", sum)
	}
	view, _ := store.Rooms("HYDOK")
	if len(view.Floors) != 2 || view.Floors[0] != "1" || view.Floors[1] != "2" {
		t.Fatalf("floors = %v", view.Floors)
	}
	if _, ok := store.Summary("HYDBAD"); ok {
		t.Fatalf("failing property must be skipped, not zero-filled")
	}
}

func TestRefreshOnceKeepsPreviousSnapshotWhenAllFail(t *testing.T) {
	srv := upstream(t, map[string]interface{}{})
	defer srv.Close()

	props := map[string]model.Property{"HYD1": {Code: "HYD1", QID: 9}}
	r, store := testRefresher(srv, props)
	prev := time.Unix(1700000000, 0)
	store.Replace(map[string]model.PropertySummary{"HYD1": {Code: "HYD1", TodayPrice: 99}}, map[string]model.RoomsView{}, prev)

	if n := r.RefreshOnce(context.Background()); n != 0 {
		t.Fatalf("refreshed = %d, want 0", n)
	}
	sum, ok := store.Summary("HYD1")
	if !ok || sum.TodayPrice != 99 {
		t.Fatalf("previous snapshot must survive a fully failed cycle: %+v", sum)
	}
	if !store.LastRefresh().Equal(prev) {
		t.Fatalf("last refresh must not advance on a failed cycle")
	}
}
