package geo

import (
	"context"
	"errors"
	"testing"
	"time"

	"sawari/internal/types"
)

type mockGeocoder struct {
	point types.Point
	found bool
	err   error
	calls int
}

func (m *mockGeocoder) Geocode(_ context.Context, _ string) (types.Point, bool, error) {
	m.calls++
	return m.point, m.found, m.err
}

func TestResolverGazetteerShortCircuit(t *testing.T) {
	geocoder := &mockGeocoder{}
	r := NewResolver(NewGazetteer(), geocoder, time.Second)

	p, ok := r.Resolve(context.Background(), "Hyderabad")
	if !ok {
		t.Fatal("Resolve(Hyderabad) missed")
	}
	if p.Lat != 17.3850 || p.Lng != 78.4867 {
		t.Errorf("Resolve(Hyderabad) = %+v", p)
	}
	if geocoder.calls != 0 {
		t.Errorf("geocoder called %d times for a gazetteer city, want 0", geocoder.calls)
	}
}

func TestResolverGeocoderFallback(t *testing.T) {
	want := types.Point{Lat: 17.5, Lng: 78.3}
	geocoder := &mockGeocoder{point: want, found: true}
	r := NewResolver(NewGazetteer(), geocoder, time.Second)

	p, ok := r.Resolve(context.Background(), "Gachibowli")
	if !ok {
		t.Fatal("Resolve(Gachibowli) missed")
	}
	if p != want {
		t.Errorf("Resolve(Gachibowli) = %+v, want %+v", p, want)
	}
	if geocoder.calls != 1 {
		t.Errorf("geocoder called %d times, want 1", geocoder.calls)
	}
}

func TestResolverGeocoderErrorIsAMiss(t *testing.T) {
	geocoder := &mockGeocoder{err: errors.New("quota exceeded")}
	r := NewResolver(NewGazetteer(), geocoder, time.Second)

	if _, ok := r.Resolve(context.Background(), "Gachibowli"); ok {
		t.Error("Resolve returned ok despite geocoder error")
	}
}

func TestResolverNilGeocoder(t *testing.T) {
	r := NewResolver(NewGazetteer(), nil, time.Second)

	if _, ok := r.Resolve(context.Background(), "Gachibowli"); ok {
		t.Error("Resolve returned ok with no geocoder and an unknown name")
	}
	if _, ok := r.Resolve(context.Background(), "Chennai"); !ok {
		t.Error("Resolve missed a gazetteer city with no geocoder")
	}
}

func TestResolverBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	geocoder := &mockGeocoder{err: errors.New("upstream down")}
	r := NewResolver(NewGazetteer(), geocoder, time.Second)

	for i := 0; i < 5; i++ {
		r.Resolve(context.Background(), "Gachibowli")
	}
	// Three consecutive failures trip the breaker; later calls are rejected
	// without reaching the geocoder.
	if geocoder.calls != 3 {
		t.Errorf("geocoder called %d times, want 3 before the breaker opens", geocoder.calls)
	}
}

func TestCorrectIfImplausible(t *testing.T) {
	r := NewResolver(NewGazetteer(), nil, time.Second)
	hyderabad := types.Point{Lat: 17.3850, Lng: 78.4867}

	tests := []struct {
		name  string
		point types.Point
		place string
		want  types.Point
	}{
		{"valid point passes through", hyderabad, "Hyderabad", hyderabad},
		{"placeholder replaced via gazetteer", types.Point{Lat: 40.7128, Lng: -74.006}, "Hyderabad", hyderabad},
		{"out of envelope replaced via gazetteer", types.Point{Lat: 51.5, Lng: -0.12}, "Hyderabad", hyderabad},
		{"uncorrectable passes through", types.Point{Lat: 51.5, Lng: -0.12}, "Atlantis", types.Point{Lat: 51.5, Lng: -0.12}},
		{"null island with unknown name passes through", types.Point{}, "Atlantis", types.Point{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.CorrectIfImplausible(tt.point, tt.place); got != tt.want {
				t.Errorf("CorrectIfImplausible(%+v, %q) = %+v, want %+v", tt.point, tt.place, got, tt.want)
			}
		})
	}
}
