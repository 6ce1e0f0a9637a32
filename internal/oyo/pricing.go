package oyo

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/model"
)

const (
	priceHistoryDays   = 90  // how far back the booking scan reaches
	priceHistoryDepth  = 10  // per-day rates kept per room
	priceScanCap       = 800 // raw bookings scanned per property, hard stop
	priceCollectionCap = 400 // (room, price) pairs collected per property
)

// RoomPriceMap derives a standing price per room: the highest per-day rate
// among the room's last ten qualifying bookings in the trailing 90 days.
// Cancelled and no-show bookings never qualify.  The per-day rate is
// (amount paid + amount payable) divided by the stay length in nights,
// minimum one.  The result is cached for three minutes so it refreshes in
// step with the snapshot; on failure an empty map is cached for two.
func (c *Client) RoomPriceMap(ctx context.Context, p model.Property) map[string]float64 {
	ck := fmt.Sprintf("room_prices:%s", p.Code)
	if v, ok := c.cache.Get(ck); ok {
		return v.(map[string]float64)
	}

	till := c.now()
	from := till.AddDate(0, 0, -priceHistoryDays)

	recent, ok := c.scanBookings(ctx, p, from.Format(dateLayout), till.Format(dateLayout))
	if !ok {
		out := map[string]float64{}
		c.cache.Set(ck, out, 2*time.Minute)
		return out
	}

	// Most recent check-in first, so the per-room history lists fill with
	// the latest qualifying bookings and older ones fall off the end.
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Checkin > recent[j].Checkin
	})

	histories := make(map[string][]float64)
	collected := 0

	for _, b := range recent {
		if collected > priceCollectionCap {
			break
		}
		if b.No == "" {
			continue
		}
		ci, okCI := parseDate(b.Checkin)
		co, okCO := parseDate(b.Checkout)
		if !okCI || !okCO {
			continue
		}
		nights := int(co.Sub(ci).Hours() / 24)
		if nights < 1 {
			nights = 1
		}
		perDay := (b.Paid + b.Payable) / float64(nights)

		assigned := c.fetchBookingRooms(ctx, p, b.No)
		if len(assigned) == 0 {
			continue
		}
		for _, rn := range assigned {
			if len(histories[rn]) < priceHistoryDepth {
				histories[rn] = append(histories[rn], perDay)
				collected++
			}
		}
	}

	out := make(map[string]float64, len(histories))
	for rn, rates := range histories {
		out[rn] = math.Round(maxOf(rates)*100) / 100
	}
	c.cache.Set(ck, out, 3*time.Minute)
	return out
}

// scanBookings pages through the booking list for the window, newest
// check-ins first, dropping terminal non-occupying statuses.  Paging stops
// on a short page, an upstream failure, or once the safety cap is reached.
// The bool result is false only when the very first page failed, which
// callers treat as "upstream degraded" rather than "no history".
func (c *Client) scanBookings(ctx context.Context, p model.Property, from, till string) ([]booking, bool) {
	var recent []booking
	offset := 0

	for {
		q := url.Values{
			"qid":                 {strconv.FormatInt(p.QID, 10)},
			"checkin_from":        {from},
			"checkin_till":        {till},
			"batch_count":         {strconv.Itoa(batchCount)},
			"batch_offset":        {strconv.Itoa(offset)},
			"visibility_required": {"true"},
			"additionalParams":    {"payment_hold_transaction,guest,stay_details"},
			"decimal_price":       {"true"},
			"ascending":           {"false"},
			"sort_on":             {"checkin_date"},
		}

		release := c.acquireProp()
		data, err := c.getWithRetry(ctx, p, pathBookingList, q)
		release()
		if err != nil {
			if offset == 0 {
				return nil, false
			}
			break
		}

		page := parseBookings(data)
		if len(page) == 0 {
			break
		}
		for _, b := range page {
			if b.Status == "Cancelled" || b.Status == "No Show" {
				continue
			}
			recent = append(recent, b)
		}

		if bookingIDCount(data) < batchCount {
			break
		}
		offset += batchCount
		if len(recent) > priceScanCap {
			break
		}
	}
	return recent, true
}

// PropertyTodayPrice reduces a room price map to the property's advertised
// "from" price: the minimum positive standing price, or zero when no room
// has positive history.
func PropertyTodayPrice(rooms []model.RoomView) float64 {
	min := 0.0
	for _, r := range rooms {
		if r.StandardPrice <= 0 {
			continue
		}
		if min == 0 || r.StandardPrice < min {
			min = r.StandardPrice
		}
	}
	return min
}

func maxOf(xs []float64) float64 {
	m := 0.0
	for i, x := range xs {
		if i == 0 || x > m {
			m = x
		}
	}
	return m
}
