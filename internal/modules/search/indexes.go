// README: Combined index maintenance entry point used by the ride module.
package search

import (
	"context"

	"sawari/internal/modules/ride"
	"sawari/internal/types"
)

// Indexes keeps the Redis geo sets and the in-memory corridor tree in step
// with the ride store. It satisfies the ride module's SearchIndex dependency.
type Indexes struct {
	Geo      *GeoIndex
	Corridor *CorridorIndex
}

func (ix Indexes) IndexRide(ctx context.Context, r *ride.Ride) error {
	if err := ix.Corridor.Upsert(r.ID, r.RouteBoundingBox); err != nil {
		return err
	}
	return ix.Geo.IndexRide(ctx, r)
}

func (ix Indexes) RemoveRide(ctx context.Context, id types.ID) error {
	ix.Corridor.Remove(id)
	return ix.Geo.RemoveRide(ctx, id)
}

// Rebuild repopulates both indexes from store projections at startup.
func (ix Indexes) Rebuild(ctx context.Context, projections []ride.Projection) error {
	for i := range projections {
		if err := ix.IndexRide(ctx, &projections[i].Ride); err != nil {
			return err
		}
	}
	return nil
}
