package snapshot

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/model"
	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/oyo"
)

// Refresher rebuilds the snapshot for all configured properties on a
// fixed interval.  One failing property is skipped for the cycle; an
// entirely failed cycle leaves the previous snapshot in place.
type Refresher struct {
	store    *Store
	client   *oyo.Client
	props    map[string]model.Property
	interval time.Duration

	sleep func(time.Duration) // test hooks
	now   func() time.Time
}

func NewRefresher(store *Store, client *oyo.Client, props map[string]model.Property, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = 3 * time.Minute
	}
	return &Refresher{
		store:    store,
		client:   client,
		props:    props,
		interval: interval,
		sleep:    time.Sleep,
		now:      time.Now,
	}
}

// Run drives refresh cycles until ctx is cancelled.  It is meant to be
// launched as a goroutine from main; a panic in a cycle is logged and the
// loop continues with the next cycle instead of killing the process.
func (r *Refresher) Run(ctx context.Context) {
	// Give the server a moment to bind its port before the first burst of
	// upstream calls.
	r.sleep(2 * time.Second)
	for {
		if ctx.Err() != nil {
			return
		}
		r.runCycle(ctx)
		r.sleep(r.interval)
	}
}

func (r *Refresher) runCycle(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[SNAPSHOT] refresh cycle panicked: %v", rec)
		}
	}()
	start := r.now()
	n := r.RefreshOnce(ctx)
	log.Printf("[SNAPSHOT] refreshed %d/%d properties in %s", n, len(r.props), time.Since(start).Round(time.Millisecond))
}

// RefreshOnce rebuilds every property concurrently and swaps the store
// if at least one property succeeded.  It returns the success count.
func (r *Refresher) RefreshOnce(ctx context.Context) int {
	summaries := map[string]model.PropertySummary{}
	rooms := map[string]model.RoomsView{}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, p := range r.props {
		wg.Add(1)
		go func(p model.Property) {
			defer wg.Done()
			sum, view, ok := r.BuildProperty(ctx, p)
			if !ok {
				log.Printf("[SNAPSHOT] skipping %s this cycle", p.Code)
				return
			}
			mu.Lock()
			summaries[p.Code] = sum
			rooms[p.Code] = view
			mu.Unlock()
		}(p)
	}
	wg.Wait()

	// An empty result means the upstream is down across the board; keep
	// serving the previous snapshot rather than blanking the site.
	if len(summaries) == 0 {
		return 0
	}
	r.store.Replace(summaries, rooms, r.now())
	return len(summaries)
}

// BuildProperty assembles one property's summary and room view.  A
// property with no readable roster is treated as failed for the cycle.
func (r *Refresher) BuildProperty(ctx context.Context, p model.Property) (model.PropertySummary, model.RoomsView, bool) {
	roster := r.client.FetchRooms(ctx, p)
	if len(roster) == 0 {
		return model.PropertySummary{}, model.RoomsView{}, false
	}

	details := r.client.FetchPropertyDetails(ctx, p)
	today := r.now().Format("2006-01-02")
	tomorrow := r.now().AddDate(0, 0, 1).Format("2006-01-02")
	booked := r.client.BookedRooms(ctx, p, today, tomorrow)
	prices := r.client.RoomPriceMap(ctx, p)

	views := make([]model.RoomView, 0, len(roster))
	floorSet := map[string]bool{}
	occupied := 0
	for _, room := range roster {
		status := model.RoomAvailable
		if _, ok := booked[room.Number]; ok {
			status = model.RoomBooked
			occupied++
		}
		views = append(views, model.RoomView{
			Room:          room,
			Status:        status,
			StandardPrice: prices[room.Number],
		})
		if room.Floor != "" {
			floorSet[room.Floor] = true
		}
	}

	floors := make([]string, 0, len(floorSet))
	for f := range floorSet {
		floors = append(floors, f)
	}
	sort.Strings(floors)
	if len(floors) == 0 {
		floors = []string{"1"}
	}

	available := len(roster) - occupied
	if available < 0 {
		available = 0
	}

	sum := model.PropertySummary{
		Code:           p.Code,
		Name:           details.DisplayName(p.Code),
		Address:        details.Address(),
		City:           details.City,
		Pincode:        details.Pincode,
		MapLink:        details.MapLink,
		Latitude:       details.Latitude,
		Longitude:      details.Longitude,
		TodayPrice:     oyo.PropertyTodayPrice(views),
		AvailableRooms: available,
		UpdatedAt:      r.now().Unix(),
	}
	return sum, model.RoomsView{Floors: floors, Rooms: views}, true
}
