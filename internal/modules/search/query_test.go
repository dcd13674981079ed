package search

import (
	"errors"
	"strings"
	"testing"
	"time"

	"sawari/internal/config"
	"sawari/internal/types"
)

func testSearchConfig() config.SearchConfig {
	return config.SearchConfig{
		DefaultRadiusMeters: 20000,
		CacheTTLSeconds:     300,
		ReferenceAvgPrice:   500,
		Timezone:            "Asia/Kolkata",
	}
}

func TestParseQueryDefaults(t *testing.T) {
	q, err := ParseQuery(Params{From: " Hyderabad ", To: "Bangalore"}, testSearchConfig(), time.UTC)
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	if q.From != "Hyderabad" || q.To != "Bangalore" {
		t.Errorf("From/To = %q/%q, whitespace not trimmed", q.From, q.To)
	}
	if q.SortBy != SortRelevance {
		t.Errorf("SortBy = %q, want relevance default", q.SortBy)
	}
	if q.FromRadiusM != 20000 || q.ToRadiusM != 20000 {
		t.Errorf("radii = %v/%v, want config default", q.FromRadiusM, q.ToRadiusM)
	}
	if !q.EnRoute {
		t.Error("EnRoute should default to true")
	}
	if q.Page != 0 || q.PageSize != 0 {
		t.Error("pagination should default to absent")
	}
}

func TestParseQueryTypedFields(t *testing.T) {
	loc, _ := time.LoadLocation("Asia/Kolkata")
	q, err := ParseQuery(Params{
		From:            "Hyderabad",
		Date:            "2026-09-10",
		Passengers:      "3",
		MaxPrice:        "450.5",
		SortBy:          "price_asc",
		MaxDistance:     "5000",
		EnRouteMatching: "false",
		Page:            "2",
		PageSize:        "10",
	}, testSearchConfig(), loc)
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	wantDate := time.Date(2026, 9, 10, 0, 0, 0, 0, loc)
	if q.Date == nil || !q.Date.Equal(wantDate) {
		t.Errorf("Date = %v, want %v", q.Date, wantDate)
	}
	if q.Passengers != 3 || *q.MaxPrice != 450.5 || q.SortBy != SortPriceAsc {
		t.Errorf("parsed fields wrong: %+v", q)
	}
	if q.FromRadiusM != 5000 {
		t.Errorf("FromRadiusM = %v, want 5000", q.FromRadiusM)
	}
	if q.EnRoute {
		t.Error("EnRoute not disabled")
	}
	if q.Page != 2 || q.PageSize != 10 {
		t.Errorf("pagination = %d/%d", q.Page, q.PageSize)
	}
}

func TestParseQueryCollectsAllViolations(t *testing.T) {
	_, err := ParseQuery(Params{
		Passengers: "0",
		Date:       "10-09-2026",
		SortBy:     "magic",
		FromLat:    "17.38",
	}, testSearchConfig(), time.UTC)
	if err == nil {
		t.Fatal("expected a validation error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %T, want *ValidationError", err)
	}
	if len(verr.Violations) < 4 {
		t.Errorf("got %d violations %v, want all four reported at once", len(verr.Violations), verr.Violations)
	}
}

func TestParseQueryPassengersRange(t *testing.T) {
	tests := []struct {
		raw string
		ok  bool
	}{
		{"1", true},
		{"10", true},
		{"0", false},
		{"11", false},
		{"-2", false},
		{"two", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			_, err := ParseQuery(Params{Passengers: tt.raw}, testSearchConfig(), time.UTC)
			if (err == nil) != tt.ok {
				t.Errorf("passengers=%q err = %v, want ok=%v", tt.raw, err, tt.ok)
			}
		})
	}
}

func TestParseQueryCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		lat, lng string
		ok       bool
	}{
		{"valid pair", "17.38", "78.48", true},
		{"lat without lng", "17.38", "", false},
		{"malformed lat", "north", "78.48", false},
		{"lat out of range", "91", "78.48", false},
		{"lng out of range", "17.38", "181", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := ParseQuery(Params{FromLat: tt.lat, FromLng: tt.lng}, testSearchConfig(), time.UTC)
			if (err == nil) != tt.ok {
				t.Fatalf("err = %v, want ok=%v", err, tt.ok)
			}
			if tt.ok && q.FromPoint == nil {
				t.Error("FromPoint not set for a valid pair")
			}
		})
	}
}

func TestCacheKeyCanonicalization(t *testing.T) {
	base := Query{From: "Hyderabad", To: "Bangalore", Passengers: 2,
		SortBy: SortRelevance, FromRadiusM: 20000, ToRadiusM: 20000, EnRoute: true}

	t.Run("case-insensitive names", func(t *testing.T) {
		other := base
		other.From, other.To = "hyderabad", "BANGALORE"
		if base.CacheKey() != other.CacheKey() {
			t.Error("keys differ for case variants of the same query")
		}
	})

	t.Run("pagination excluded", func(t *testing.T) {
		other := base
		other.Page, other.PageSize = 3, 50
		if base.CacheKey() != other.CacheKey() {
			t.Error("pagination leaked into the cache key")
		}
	})

	t.Run("differing filter changes the key", func(t *testing.T) {
		other := base
		other.Passengers = 4
		if base.CacheKey() == other.CacheKey() {
			t.Error("keys equal for different passenger counts")
		}
	})

	t.Run("nearby coordinates share a key", func(t *testing.T) {
		a := Query{FromPoint: &types.Point{Lat: 17.38500, Lng: 78.48670},
			SortBy: SortRelevance, FromRadiusM: 20000, ToRadiusM: 20000, EnRoute: true}
		b := a
		b.FromPoint = &types.Point{Lat: 17.38501, Lng: 78.48671}
		if a.CacheKey() != b.CacheKey() {
			t.Error("keys differ for coordinates inside one geohash cell")
		}
	})

	t.Run("prefix", func(t *testing.T) {
		if !strings.HasPrefix(base.CacheKey(), "search:") {
			t.Errorf("key %q lacks the search: prefix", base.CacheKey())
		}
	})
}
