// README: Ride aggregate, route locations, and derived search metadata.
package ride

import (
	"strings"
	"time"

	"sawari/internal/types"
)

// Location is one named point on a ride's route.
type Location struct {
	Name          string
	Point         types.Point
	RouteIndex    int
	EstimatedTime *time.Time
}

// BoundingBox is the minimal axis-aligned rectangle enclosing a ride's route
// points, stored as min/max corners.
type BoundingBox struct {
	MinLng float64
	MinLat float64
	MaxLng float64
	MaxLat float64
}

// Contains reports whether p lies inside the box, borders included.
func (b BoundingBox) Contains(p types.Point) bool {
	return p.Lng >= b.MinLng && p.Lng <= b.MaxLng &&
		p.Lat >= b.MinLat && p.Lat <= b.MaxLat
}

// Ride is the searchable entity. SearchKeywords and RouteBoundingBox are
// derived from the route locations and must be recomputed on every mutation
// before the record becomes visible to search.
type Ride struct {
	ID          types.ID
	DriverID    types.ID
	Origin      Location
	Destination Location
	Stops       []Location

	RoutePolyline    string
	RouteBoundingBox BoundingBox
	TotalDistanceM   float64
	EstimatedDurS    int

	DateTime       time.Time
	AvailableSeats int
	PricePerSeat   float64
	VehicleID      types.ID

	SearchKeywords []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecomputeDerived refreshes SearchKeywords, RouteBoundingBox, and route
// indexes from the current origin, destination, and stops. Keywords are
// lower-cased and deduplicated, keeping first-seen order.
func (r *Ride) RecomputeDerived() {
	r.Origin.RouteIndex = 0
	for i := range r.Stops {
		r.Stops[i].RouteIndex = i + 1
	}
	r.Destination.RouteIndex = len(r.Stops) + 1

	seen := make(map[string]struct{})
	keywords := make([]string, 0, len(r.Stops)+2)
	add := func(name string) {
		kw := strings.ToLower(strings.TrimSpace(name))
		if kw == "" {
			return
		}
		if _, dup := seen[kw]; dup {
			return
		}
		seen[kw] = struct{}{}
		keywords = append(keywords, kw)
	}
	add(r.Origin.Name)
	add(r.Destination.Name)
	for _, s := range r.Stops {
		add(s.Name)
	}
	r.SearchKeywords = keywords

	box := BoundingBox{
		MinLng: r.Origin.Point.Lng, MaxLng: r.Origin.Point.Lng,
		MinLat: r.Origin.Point.Lat, MaxLat: r.Origin.Point.Lat,
	}
	expand := func(p types.Point) {
		if p.Lng < box.MinLng {
			box.MinLng = p.Lng
		}
		if p.Lng > box.MaxLng {
			box.MaxLng = p.Lng
		}
		if p.Lat < box.MinLat {
			box.MinLat = p.Lat
		}
		if p.Lat > box.MaxLat {
			box.MaxLat = p.Lat
		}
	}
	expand(r.Destination.Point)
	for _, s := range r.Stops {
		expand(s.Point)
	}
	r.RouteBoundingBox = box
}

// Projection is the joined ride+vehicle+driver view fetched for filtering,
// scoring, and result assembly. Search never mutates it.
type Projection struct {
	Ride
	VehicleType  string
	VehicleModel string
	DriverName   string
	DriverRating float64
}
