package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/booking"
	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/cache"
	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/geo"
	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/model"
	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/snapshot"
)

type okNotifier struct{ requests int }

func (n *okNotifier) SendRequest(chatID int64, req model.BookingRequest) error {
	n.requests++
	return nil
}
func (n *okNotifier) SendText(chatID int64, text string) error { return nil }

func testAPI() (*API, *okNotifier) {
	props := map[string]model.Property{
		"HYD2857": {Code: "HYD2857", QID: 1, ChatID: -100},
	}
	store := snapshot.NewStore()
	store.Replace(
		map[string]model.PropertySummary{
			"HYD2857": {Code: "HYD2857", Name: "Test Stay", TodayPrice: 1200, AvailableRooms: 3},
		},
		map[string]model.RoomsView{
			"HYD2857": {Floors: []string{"1"}, Rooms: []model.RoomView{
				{Room: model.Room{Number: "101", Floor: "1"}, Status: model.RoomAvailable, StandardPrice: 1200},
			}},
		},
		time.Unix(1700000000, 0),
	)
	n := &okNotifier{}
	svc := booking.NewService(props, booking.NewStore(), n, nil, nil)
	return &API{
		Store:   store,
		Geo:     geo.New(cache.New()),
		Booking: svc,
		Props:   props,
	}, n
}

func doJSON(t *testing.T, h echo.HandlerFunc, c echo.Context, rec *httptest.ResponseRecorder, wantStatus int) map[string]interface{} {
	t.Helper()
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != wantStatus {
		t.Fatalf("status = %d, want %d; body %s", rec.Code, wantStatus, rec.Body.String())
	}
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad response json: %v", err)
	}
	return out
}

func TestSearchServesSnapshotUnranked(t *testing.T) {
	h, _ := testAPI()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	out := doJSON(t, h.Search, c, rec, http.StatusOK)
	if out["count"].(float64) != 1 {
		t.Fatalf("count = %v", out["count"])
	}
	if out["ranked"].(bool) {
		t.Fatalf("search without a location must be unranked")
	}
	items := out["items"].([]interface{})
	if items[0].(map[string]interface{})["code"] != "HYD2857" {
		t.Fatalf("items = %v", items)
	}
}

func TestPropertyServesSnapshotEntry(t *testing.T) {
	h, _ := testAPI()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/property/:code")
	c.SetParamNames("code")
	c.SetParamValues("HYD2857")

	out := doJSON(t, h.Property, c, rec, http.StatusOK)
	sum := out["summary"].(map[string]interface{})
	if sum["today_price"].(float64) != 1200 {
		t.Fatalf("summary = %v", sum)
	}
	rooms := out["rooms"].(map[string]interface{})
	if len(rooms["rooms"].([]interface{})) != 1 {
		t.Fatalf("rooms = %v", rooms)
	}
}

func TestPropertyUnknownCodeIs404(t *testing.T) {
	h, _ := testAPI()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/property/:code")
	c.SetParamNames("code")
	c.SetParamValues("NOPE")

	doJSON(t, h.Property, c, rec, http.StatusNotFound)
}

func bookRequest(body string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/api/book", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req, httptest.NewRecorder()
}

func TestBookHappyPath(t *testing.T) {
	h, n := testAPI()
	e := echo.New()
	req, rec := bookRequest(`{
		"property_code": "HYD2857", "room": "101",
		"from": "2024-06-10", "to": "2024-06-12",
		"name": "Asha", "phone": "9999999999"
	}`)
	c := e.NewContext(req, rec)

	out := doJSON(t, h.Book, c, rec, http.StatusCreated)
	id := out["request_id"].(string)
	if !strings.HasPrefix(id, "BR-") || !strings.HasSuffix(id, "-HYD2857-101") {
		t.Fatalf("request_id = %q", id)
	}
	if out["status"] != model.RequestPending {
		t.Fatalf("status = %v", out["status"])
	}
	if n.requests != 1 {
		t.Fatalf("channel notifications = %d", n.requests)
	}

	// The stored request is readable back through the lookup endpoint.
	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	rec2 := httptest.NewRecorder()
	c2 := e.NewContext(req2, rec2)
	c2.SetPath("/api/booking/:id")
	c2.SetParamNames("id")
	c2.SetParamValues(id)
	got := doJSON(t, h.BookingStatus, c2, rec2, http.StatusOK)
	if got["status"] != model.RequestPending {
		t.Fatalf("lookup = %v", got)
	}
}

func TestBookRejectsUnknownProperty(t *testing.T) {
	h, _ := testAPI()
	e := echo.New()
	req, rec := bookRequest(`{
		"property_code": "NOPE", "room": "101",
		"from": "2024-06-10", "to": "2024-06-12",
		"name": "Asha", "phone": "9999999999"
	}`)
	c := e.NewContext(req, rec)
	doJSON(t, h.Book, c, rec, http.StatusBadRequest)
}

func TestBookRejectsMissingFields(t *testing.T) {
	h, _ := testAPI()
	e := echo.New()
	req, rec := bookRequest(`{"property_code": "HYD2857"}`)
	c := e.NewContext(req, rec)
	doJSON(t, h.Book, c, rec, http.StatusBadRequest)
}

func TestBookingStatusUnknownIDIs404(t *testing.T) {
	h, _ := testAPI()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/api/booking/:id")
	c.SetParamNames("id")
	c.SetParamValues("BR-0-X-0")
	doJSON(t, h.BookingStatus, c, rec, http.StatusNotFound)
}

func TestHealthReportsSnapshotFreshness(t *testing.T) {
	h, _ := testAPI()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	out := doJSON(t, h.Health, c, rec, http.StatusOK)
	if out["status"] != "ok" {
		t.Fatalf("health = %v", out)
	}
	if out["properties"].(float64) != 1 || out["last_refresh"].(float64) != 1700000000 {
		t.Fatalf("freshness fields = %v", out)
	}
}
