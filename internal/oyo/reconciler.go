package oyo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/model"
)

// bookingActive is the in-house active-date rule, locked after several
// rounds of tuning against real check-in data.  A booking counts for the
// target date when the stay covers it, or when check-in falls on the day
// after the window start while checkout still covers the target.  The
// second clause is intentional; do not simplify it to a plain overlap.
func bookingActive(checkin, checkout, target, windowStart time.Time) bool {
	if !checkin.After(target) && !target.After(checkout) {
		return true
	}
	return checkin.Equal(windowStart.AddDate(0, 0, 1)) && !target.After(checkout)
}

// BookedRooms returns the set of room numbers occupied in the given
// check-in window.  It lists bookings for the window, keeps the ones that
// are currently checked in and active for the window start date, then
// resolves each survivor's room assignment through the detail endpoint
// concurrently.  Detail failures contribute no rooms; a failure of the
// booking-list call itself yields an empty set, i.e. the property reads as
// fully available rather than erroring.
func (c *Client) BookedRooms(ctx context.Context, p model.Property, from, to string) map[string]struct{} {
	ck := fmt.Sprintf("booked:%d:%s:%s", p.QID, from, to)
	if v, ok := c.cache.Get(ck); ok {
		return v.(map[string]struct{})
	}

	booked := make(map[string]struct{})

	windowStart, ok := parseDate(from)
	if !ok {
		c.cache.Set(ck, booked, 30*time.Second)
		return booked
	}
	target := windowStart

	q := url.Values{
		"qid":                 {strconv.FormatInt(p.QID, 10)},
		"checkin_from":        {from},
		"checkin_till":        {to},
		"batch_count":         {strconv.Itoa(batchCount)},
		"batch_offset":        {"0"},
		"visibility_required": {"true"},
		"additionalParams":    {"guest,stay_details"},
		"decimal_price":       {"true"},
		"ascending":           {"true"},
		"sort_on":             {"checkin_date"},
	}

	release := c.acquireProp()
	data, err := c.getWithRetry(ctx, p, pathBookingList, q)
	release()
	if err != nil {
		c.cache.Set(ck, booked, 30*time.Second)
		return booked
	}

	var ids []string
	for _, b := range parseBookings(data) {
		if b.Status != "Checked In" {
			continue
		}
		ci, okCI := parseDate(b.Checkin)
		co, okCO := parseDate(b.Checkout)
		if !okCI || !okCO {
			continue
		}
		if !bookingActive(ci, co, target, windowStart) {
			continue
		}
		if b.No != "" {
			ids = append(ids, b.No)
		}
	}

	// Resolve room assignments concurrently; the detail semaphore inside
	// fetchBookingRooms is the only throttle.  The WaitGroup makes the
	// reconciliation wait for every detail result, success or failure,
	// before the set is published.
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(bookingID string) {
			defer wg.Done()
			for _, rn := range c.fetchBookingRooms(ctx, p, bookingID) {
				mu.Lock()
				booked[rn] = struct{}{}
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()

	c.cache.Set(ck, booked, time.Minute)
	return booked
}

// AvailableRooms is the roster size minus the occupied set, floored at
// zero, cached for two minutes.
func (c *Client) AvailableRooms(ctx context.Context, p model.Property, from, to string) int {
	ck := fmt.Sprintf("avail:v2:%d:%s:%s", p.QID, from, to)
	if v, ok := c.cache.Get(ck); ok {
		return v.(int)
	}

	total := len(c.FetchRooms(ctx, p))
	booked := c.BookedRooms(ctx, p, from, to)

	available := total - len(booked)
	if available < 0 {
		available = 0
	}
	c.cache.Set(ck, available, 2*time.Minute)
	return available
}
