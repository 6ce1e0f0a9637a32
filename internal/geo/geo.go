// Package geo resolves free-text locations to coordinates and ranks
// property summaries by great-circle distance from the resolved origin.
package geo

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/cache"
	"github.com/propertiesgrouphyd-manager/hotel-booking-telegram/internal/model"
)

const (
	defaultBaseURL = "https://nominatim.openstreetmap.org"
	userAgent      = "hotel-booking-telegram/1.0"

	// sentinelKm pushes entries with malformed coordinates to the end of
	// a ranked list instead of failing the whole search.
	sentinelKm = 999999.0

	earthRadiusKm = 6371.0
)

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64
	Lon float64
}

// Client wraps the geocoding service with a one-hour result cache.
type Client struct {
	httpc *http.Client
	base  string
	cache *cache.TTL
}

func New(c *cache.TTL) *Client {
	return &Client{
		httpc: &http.Client{Timeout: 10 * time.Second},
		base:  defaultBaseURL,
		cache: c,
	}
}

// Geocode resolves a free-text query to its best-match coordinate.
// Results are cached for an hour keyed by the lower-cased query; any
// failure or empty result returns nil and the search proceeds unranked.
func (c *Client) Geocode(ctx context.Context, query string) *Point {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	ck := "geo:" + strings.ToLower(query)
	if v, ok := c.cache.Get(ck); ok {
		if p, ok := v.(*Point); ok {
			return p
		}
		return nil
	}

	q := url.Values{
		"q":      {query},
		"format": {"json"},
		"limit":  {"1"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpc.Do(req)
	if err != nil {
		log.Printf("[GEO] lookup failed for %q: %v", query, err)
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("[GEO] lookup for %q returned status %d", query, resp.StatusCode)
		return nil
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil || len(results) == 0 {
		return nil
	}
	lat, errLat := strconv.ParseFloat(results[0].Lat, 64)
	lon, errLon := strconv.ParseFloat(results[0].Lon, 64)
	if errLat != nil || errLon != nil {
		return nil
	}

	p := &Point{Lat: lat, Lon: lon}
	c.cache.Set(ck, p, time.Hour)
	return p
}

// HaversineKm returns the great-circle distance between two points in
// kilometres.  Coordinates outside the valid ranges yield the large
// sentinel so the entry sorts last rather than corrupting the ranking.
func HaversineKm(a, b Point) float64 {
	if !valid(a) || !valid(b) {
		return sentinelKm
	}
	dLat := rad(b.Lat - a.Lat)
	dLon := rad(b.Lon - a.Lon)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(a.Lat))*math.Cos(rad(b.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func valid(p Point) bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

func rad(deg float64) float64 { return deg * math.Pi / 180 }

// Ranked is a property summary annotated with its distance from the
// search origin.  DistanceKm stays nil when the property has no
// coordinates on file.
type Ranked struct {
	model.PropertySummary
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// Rank orders summaries by distance from origin, nearest first.  Entries
// without coordinates keep a nil distance and sort after every measured
// entry; the sort is stable so their relative order is preserved.  With
// a nil origin the input order is kept and no distances are attached.
func Rank(list []model.PropertySummary, origin *Point) []Ranked {
	out := make([]Ranked, 0, len(list))
	for _, s := range list {
		r := Ranked{PropertySummary: s}
		if origin != nil && s.Latitude != nil && s.Longitude != nil {
			d := math.Round(HaversineKm(*origin, Point{Lat: *s.Latitude, Lon: *s.Longitude})*100) / 100
			r.DistanceKm = &d
		}
		out = append(out, r)
	}
	if origin == nil {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].DistanceKm, out[j].DistanceKm
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return *a < *b
	})
	return out
}
