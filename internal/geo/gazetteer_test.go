package geo

import (
	"testing"

	"sawari/internal/types"
)

func TestGazetteerLookup(t *testing.T) {
	g := NewGazetteer()

	tests := []struct {
		name  string
		query string
		found bool
	}{
		{"exact match", "Hyderabad", true},
		{"lower case", "hyderabad", true},
		{"mixed case", "hYdErAbAd", true},
		{"surrounding whitespace", "  Mumbai  ", true},
		{"two word city", "new delhi", true},
		{"unknown place", "Atlantis", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := g.Lookup(tt.query)
			if ok != tt.found {
				t.Fatalf("Lookup(%q) found = %v, want %v", tt.query, ok, tt.found)
			}
			if ok && (p.Lat == 0 || p.Lng == 0) {
				t.Errorf("Lookup(%q) returned zero coordinate %+v", tt.query, p)
			}
		})
	}
}

func TestGazetteerSuggest(t *testing.T) {
	g := NewGazetteer()

	t.Run("substring matches", func(t *testing.T) {
		got := g.Suggest("hydera", 5)
		if len(got) == 0 {
			t.Fatal("Suggest(\"hydera\") returned nothing")
		}
		if got[0] != "Hyderabad" {
			t.Errorf("Suggest(\"hydera\")[0] = %q, want Hyderabad", got[0])
		}
	})

	t.Run("limit is respected", func(t *testing.T) {
		got := g.Suggest("pur", 3)
		if len(got) > 3 {
			t.Errorf("Suggest returned %d names, limit was 3", len(got))
		}
	})

	t.Run("query shorter than two chars", func(t *testing.T) {
		if got := g.Suggest("h", 5); got != nil {
			t.Errorf("Suggest(\"h\") = %v, want nil", got)
		}
	})

	t.Run("no match", func(t *testing.T) {
		if got := g.Suggest("zzzz", 5); got != nil {
			t.Errorf("Suggest(\"zzzz\") = %v, want nil", got)
		}
	})
}

func TestInEnvelope(t *testing.T) {
	tests := []struct {
		name string
		p    types.Point
		want bool
	}{
		{"hyderabad", types.Point{Lat: 17.3850, Lng: 78.4867}, true},
		{"envelope corner", types.Point{Lat: EnvelopeMinLat, Lng: EnvelopeMinLng}, true},
		{"new york", types.Point{Lat: 40.7128, Lng: -74.0060}, false},
		{"null island", types.Point{}, false},
		{"just west of envelope", types.Point{Lat: 20, Lng: 67.9}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InEnvelope(tt.p); got != tt.want {
				t.Errorf("InEnvelope(%+v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestIsPlaceholder(t *testing.T) {
	tests := []struct {
		name string
		p    types.Point
		want bool
	}{
		{"null island", types.Point{}, true},
		{"near null island within tolerance", types.Point{Lat: 0.0005, Lng: -0.0005}, true},
		{"new york default", types.Point{Lat: 40.7128, Lng: -74.0060}, true},
		{"hyderabad", types.Point{Lat: 17.3850, Lng: 78.4867}, false},
		{"just outside tolerance", types.Point{Lat: 0.0011, Lng: 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPlaceholder(tt.p); got != tt.want {
				t.Errorf("IsPlaceholder(%+v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}
