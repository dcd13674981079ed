package geo

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"sawari/internal/types"
)

// Geocoder resolves a free-text place name to a coordinate. The bool result
// distinguishes "no result" from an error; callers treat both as a miss.
type Geocoder interface {
	Geocode(ctx context.Context, name string) (types.Point, bool, error)
}

// MapsGeocoder handles interactions with the Google Geocoding API,
// restricted to the configured country.
type MapsGeocoder struct {
	client *maps.Client
	region string
}

// NewMapsGeocoder creates a MapsGeocoder with the given API key and region
// code (e.g. "in").
func NewMapsGeocoder(apiKey, region string) (*MapsGeocoder, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create maps client: %w", err)
	}
	return &MapsGeocoder{client: client, region: region}, nil
}

func (g *MapsGeocoder) Geocode(ctx context.Context, name string) (types.Point, bool, error) {
	r := &maps.GeocodingRequest{
		Address: name,
		Region:  g.region,
		Components: map[maps.Component]string{
			maps.ComponentCountry: g.region,
		},
	}
	results, err := g.client.Geocode(ctx, r)
	if err != nil {
		return types.Point{}, false, fmt.Errorf("geocoding api error: %w", err)
	}
	if len(results) == 0 {
		return types.Point{}, false, nil
	}
	loc := results[0].Geometry.Location
	return types.Point{Lat: loc.Lat, Lng: loc.Lng}, true, nil
}
