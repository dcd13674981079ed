// README: Hard filters applied to fetched projections; each is a pure predicate.
package search

import (
	"strings"
	"time"

	"sawari/internal/modules/ride"
)

// ApplyFilters narrows candidates by date, capacity, price, and vehicle
// class. Each filter only runs when its query parameter is present; nothing
// is mutated.
func ApplyFilters(rides []ride.Projection, q Query, loc *time.Location) []ride.Projection {
	out := make([]ride.Projection, 0, len(rides))
	for _, r := range rides {
		if !matchesDate(r, q, loc) {
			continue
		}
		if q.Passengers > 0 && r.AvailableSeats < q.Passengers {
			continue
		}
		if q.MaxPrice != nil && r.PricePerSeat > *q.MaxPrice {
			continue
		}
		if q.VehicleType != "" && !strings.EqualFold(r.VehicleType, q.VehicleType) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// matchesDate keeps rides departing within the requested calendar day in
// the service timezone. The timeWindow parameter is deliberately ignored;
// the full-day window is authoritative.
func matchesDate(r ride.Projection, q Query, loc *time.Location) bool {
	if q.Date == nil {
		return true
	}
	day := q.Date.In(loc)
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	end := start.Add(24 * time.Hour)
	return !r.DateTime.Before(start) && r.DateTime.Before(end)
}
