// README: Redis GEO index over ride route points, maintained on every ride mutation.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"sawari/internal/modules/ride"
	"sawari/internal/types"
)

const (
	geoOriginsKey      = "search:geo:origins"
	geoDestinationsKey = "search:geo:destinations"
	geoStopsKey        = "search:geo:stops"
	// rideStopMembersKey tracks which stop members belong to a ride so a
	// re-index can drop stale ones.
	rideStopMembersKey = "search:geo:ride:%s:stops"
)

type GeoIndex struct {
	redis *redis.Client
}

func NewGeoIndex(redis *redis.Client) *GeoIndex {
	return &GeoIndex{redis: redis}
}

// IndexRide writes the ride's origin, destination, and stops into the geo
// sets, replacing any previous entries for the ride.
func (g *GeoIndex) IndexRide(ctx context.Context, r *ride.Ride) error {
	stale, err := g.redis.SMembers(ctx, stopMembersKey(r.ID)).Result()
	if err != nil && err != redis.Nil {
		return err
	}

	pipe := g.redis.Pipeline()
	if len(stale) > 0 {
		members := make([]interface{}, len(stale))
		for i, m := range stale {
			members[i] = m
		}
		pipe.ZRem(ctx, geoStopsKey, members...)
		pipe.Del(ctx, stopMembersKey(r.ID))
	}

	pipe.GeoAdd(ctx, geoOriginsKey, &redis.GeoLocation{
		Name:      string(r.ID),
		Longitude: r.Origin.Point.Lng,
		Latitude:  r.Origin.Point.Lat,
	})
	pipe.GeoAdd(ctx, geoDestinationsKey, &redis.GeoLocation{
		Name:      string(r.ID),
		Longitude: r.Destination.Point.Lng,
		Latitude:  r.Destination.Point.Lat,
	})
	for i, stop := range r.Stops {
		member := fmt.Sprintf("%s#%d", r.ID, i)
		pipe.GeoAdd(ctx, geoStopsKey, &redis.GeoLocation{
			Name:      member,
			Longitude: stop.Point.Lng,
			Latitude:  stop.Point.Lat,
		})
		pipe.SAdd(ctx, stopMembersKey(r.ID), member)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// RemoveRide drops all geo entries for a ride.
func (g *GeoIndex) RemoveRide(ctx context.Context, id types.ID) error {
	stale, err := g.redis.SMembers(ctx, stopMembersKey(id)).Result()
	if err != nil && err != redis.Nil {
		return err
	}
	pipe := g.redis.Pipeline()
	pipe.ZRem(ctx, geoOriginsKey, string(id))
	pipe.ZRem(ctx, geoDestinationsKey, string(id))
	if len(stale) > 0 {
		members := make([]interface{}, len(stale))
		for i, m := range stale {
			members[i] = m
		}
		pipe.ZRem(ctx, geoStopsKey, members...)
	}
	pipe.Del(ctx, stopMembersKey(id))
	_, err = pipe.Exec(ctx)
	return err
}

// Near returns IDs of rides with any route point within radiusM of p.
func (g *GeoIndex) Near(ctx context.Context, p types.Point, radiusM float64) (IDSet, error) {
	out := NewIDSet()
	for _, key := range []string{geoOriginsKey, geoDestinationsKey, geoStopsKey} {
		results, err := g.redis.GeoSearch(ctx, key, &redis.GeoSearchQuery{
			Longitude:  p.Lng,
			Latitude:   p.Lat,
			Radius:     radiusM,
			RadiusUnit: "m",
			Sort:       "ASC",
		}).Result()
		if err != nil {
			return nil, err
		}
		for _, member := range results {
			out.Add(memberRideID(member))
		}
	}
	return out, nil
}

func stopMembersKey(id types.ID) string {
	return fmt.Sprintf(rideStopMembersKey, string(id))
}

func memberRideID(member string) types.ID {
	if i := strings.IndexByte(member, '#'); i >= 0 {
		return types.ID(member[:i])
	}
	return types.ID(member)
}
