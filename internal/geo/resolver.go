package geo

import (
	"context"
	"log"
	"time"

	"github.com/sony/gobreaker"

	"sawari/internal/types"
)

// Resolver turns free-text place names into coordinates: gazetteer first,
// then the external geocoder. Geocoder failures are never surfaced; the
// caller sees a plain miss and degrades.
type Resolver struct {
	gazetteer *Gazetteer
	geocoder  Geocoder
	breaker   *gobreaker.CircuitBreaker
	timeout   time.Duration
}

// NewResolver builds a Resolver. geocoder may be nil, in which case only the
// gazetteer is consulted.
func NewResolver(gz *Gazetteer, geocoder Geocoder, timeout time.Duration) *Resolver {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "geocoder",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		Timeout: 30 * time.Second,
	})
	return &Resolver{gazetteer: gz, geocoder: geocoder, breaker: breaker, timeout: timeout}
}

// Resolve returns the coordinate for name, or ok=false when neither the
// gazetteer nor the geocoder can place it.
func (r *Resolver) Resolve(ctx context.Context, name string) (types.Point, bool) {
	if p, ok := r.gazetteer.Lookup(name); ok {
		return p, true
	}
	if r.geocoder == nil {
		return types.Point{}, false
	}

	result, err := r.breaker.Execute(func() (interface{}, error) {
		gctx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()
		p, found, err := r.geocoder.Geocode(gctx, name)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, nil
		}
		return p, nil
	})
	if err != nil {
		log.Printf("geocode %q failed: %v", name, err)
		return types.Point{}, false
	}
	if result == nil {
		return types.Point{}, false
	}
	return result.(types.Point), true
}

// CorrectIfImplausible replaces a point that falls outside the service
// envelope, or matches a known placeholder coordinate, with the gazetteer
// coordinate for name. When the gazetteer cannot help, the original point is
// passed through unchanged; this is a data-quality guard, not a validator.
func (r *Resolver) CorrectIfImplausible(p types.Point, name string) types.Point {
	if InEnvelope(p) && !IsPlaceholder(p) {
		return p
	}
	if fixed, ok := r.gazetteer.Lookup(name); ok {
		log.Printf("corrected implausible coordinates for %q: (%f,%f) -> (%f,%f)",
			name, p.Lat, p.Lng, fixed.Lat, fixed.Lng)
		return fixed
	}
	return p
}
