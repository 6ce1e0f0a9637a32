// Package oyo talks to the OYO merchant portal ("oyoos") on behalf of each
// configured property.  All reads go through one shared HTTP client with
// two concurrency gates: a small one for property-level calls (details,
// roster, booking list) and a larger one for the per-booking detail calls
// that fan out N-per-property.  Responses are cached with per-resource
// TTLs and every failure degrades to a safe empty value; callers never
// see a transport error, only fewer results.
package oyo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/cache"
	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/model"
)

const (
	defaultBaseURL = "https://www.oyoos.com"

	pathPropertyDetails = "/hms_ms/api/v1/location/property-details"
	pathRooms           = "/hms_ms/api/v1/hotels/roomsNew"
	pathBookingList     = "/hms_ms/api/v1/get_booking_with_ids"
	pathBookingDetails  = "/hms_ms/api/v1/visibility/booking_details_with_entities"

	maxAttempts = 3
	batchCount  = 100

	dateLayout = "2006-01-02"
)

// Options configures a Client.  Zero values fall back to the limits the
// service has always used: 5 property-level calls, 8 detail calls, 10
// outbound requests per second.
type Options struct {
	BaseURL        string
	PropParallel   int
	DetailParallel int
	RPS            float64
	Cache          *cache.TTL
}

// Client is the rate-limited fetch client for the upstream API.
type Client struct {
	httpc     *http.Client
	base      string
	limiter   *rate.Limiter
	propSem   chan struct{}
	detailSem chan struct{}
	cache     *cache.TTL

	sleep func(time.Duration) // test hook for retry backoff
	now   func() time.Time
}

// New builds a Client from opts.
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.PropParallel <= 0 {
		opts.PropParallel = 5
	}
	if opts.DetailParallel <= 0 {
		opts.DetailParallel = 8
	}
	if opts.RPS <= 0 {
		opts.RPS = 10
	}
	if opts.Cache == nil {
		opts.Cache = cache.New()
	}
	return &Client{
		httpc:     &http.Client{Timeout: 45 * time.Second},
		base:      opts.BaseURL,
		limiter:   rate.NewLimiter(rate.Limit(opts.RPS), opts.PropParallel+opts.DetailParallel),
		propSem:   make(chan struct{}, opts.PropParallel),
		detailSem: make(chan struct{}, opts.DetailParallel),
		cache:     opts.Cache,
		sleep:     time.Sleep,
		now:       time.Now,
	}
}

// get performs one authenticated GET against the merchant API and decodes
// the JSON body.  The property's uif/uuid cookies and qid headers carry
// the request identity.
func (c *Client) get(ctx context.Context, p model.Property, path string, query url.Values) (map[string]interface{}, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("x-qid", strconv.FormatInt(p.QID, 10))
	req.Header.Set("x-source-client", "merchant")
	req.AddCookie(&http.Cookie{Name: "uif", Value: p.UIF})
	req.AddCookie(&http.Cookie{Name: "uuid", Value: p.UUID})

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%s: status %d", path, resp.StatusCode)
	}
	var data map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", path, err)
	}
	return data, nil
}

// getWithRetry wraps get with up to three attempts and a linearly growing
// pause between them.  It returns the last error when all attempts fail.
func (c *Client) getWithRetry(ctx context.Context, p model.Property, path string, query url.Values) (map[string]interface{}, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		data, err := c.get(ctx, p, path, query)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt < maxAttempts {
			c.sleep(time.Duration(attempt+1) * time.Second)
		}
	}
	return nil, lastErr
}

func (c *Client) acquireProp() func() {
	c.propSem <- struct{}{}
	return func() { <-c.propSem }
}

func (c *Client) acquireDetail() func() {
	c.detailSem <- struct{}{}
	return func() { <-c.detailSem }
}

// PropertyDetails holds the address and location block of a property as
// reported upstream.  Latitude/Longitude are nil when upstream omits them.
type PropertyDetails struct {
	Name          string
	AlternateName string
	PlotNumber    string
	Street        string
	Pincode       string
	City          string
	Country       string
	MapLink       string
	Latitude      *float64
	Longitude     *float64
}

// DisplayName prefers the alternate name, then the primary name, then the
// property code.
func (d PropertyDetails) DisplayName(code string) string {
	if d.AlternateName != "" {
		return d.AlternateName
	}
	if d.Name != "" {
		return d.Name
	}
	return code
}

// Address joins the non-empty address parts with single spaces.
func (d PropertyDetails) Address() string {
	return joinNonEmpty(d.PlotNumber, d.Street, d.City, d.Pincode)
}

// FetchPropertyDetails returns the property's metadata, cached for an hour
// on success.  On total failure an empty struct is cached for five minutes
// so a flapping upstream is not hammered.
func (c *Client) FetchPropertyDetails(ctx context.Context, p model.Property) PropertyDetails {
	ck := fmt.Sprintf("prop_details:%d", p.QID)
	if v, ok := c.cache.Get(ck); ok {
		return v.(PropertyDetails)
	}
	release := c.acquireProp()
	defer release()

	q := url.Values{"qid": {strconv.FormatInt(p.QID, 10)}}
	data, err := c.getWithRetry(ctx, p, pathPropertyDetails, q)
	if err != nil {
		out := PropertyDetails{}
		c.cache.Set(ck, out, 5*time.Minute)
		return out
	}
	out := parsePropertyDetails(data)
	c.cache.Set(ck, out, time.Hour)
	return out
}

// FetchRooms returns the property's room roster, cached for ten minutes on
// success and one minute on failure.
func (c *Client) FetchRooms(ctx context.Context, p model.Property) []model.Room {
	ck := fmt.Sprintf("rooms:%d", p.QID)
	if v, ok := c.cache.Get(ck); ok {
		return v.([]model.Room)
	}
	release := c.acquireProp()
	defer release()

	q := url.Values{"qid": {strconv.FormatInt(p.QID, 10)}}
	data, err := c.getWithRetry(ctx, p, pathRooms, q)
	if err != nil {
		c.cache.Set(ck, []model.Room(nil), time.Minute)
		return nil
	}
	rooms := parseRooms(data)
	c.cache.Set(ck, rooms, 10*time.Minute)
	return rooms
}

// fetchBookingRooms resolves the room numbers assigned to one booking via
// the booking-detail endpoint.  It runs under the detail semaphore, makes a
// single attempt, and returns nil on any failure: an individual detail
// miss just contributes no rooms to the aggregate.
func (c *Client) fetchBookingRooms(ctx context.Context, p model.Property, bookingID string) []string {
	release := c.acquireDetail()
	defer release()

	q := url.Values{
		"qid":          {strconv.FormatInt(p.QID, 10)},
		"booking_id":   {bookingID},
		"role":         {"0"},
		"platform":     {"OYOOS"},
		"country_code": {"1"},
	}
	data, err := c.get(ctx, p, pathBookingDetails, q)
	if err != nil {
		return nil
	}
	return parseStayRooms(data)
}

func joinNonEmpty(parts ...string) string {
	out := ""
	for _, s := range parts {
		if s == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += s
	}
	return out
}
