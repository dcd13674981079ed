package search

import (
	"testing"
	"time"

	"sawari/internal/modules/ride"
	"sawari/internal/types"
)

func TestScore(t *testing.T) {
	rk := Ranker{ReferenceAvgPrice: 500}
	date := time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		p    ride.Projection
		q    Query
		want float64
	}{
		{
			name: "name matches both sides",
			p:    projection("a", nil),
			q:    Query{From: "hyder", To: "bangalore"},
			// 10 + 10 name bonuses, 2*4.0 rating, 3 seats, price below 500.
			want: 10 + 10 + 8 + 3 + 5,
		},
		{
			name: "no name match",
			p:    projection("a", nil),
			q:    Query{From: "Chennai"},
			want: 8 + 3 + 5,
		},
		{
			name: "seat headroom capped at five",
			p:    projection("a", func(p *ride.Projection) { p.AvailableSeats = 9; p.DriverRating = 0; p.PricePerSeat = 600 }),
			q:    Query{},
			want: 5,
		},
		{
			name: "departure within an hour of requested date",
			p: projection("a", func(p *ride.Projection) {
				p.DriverRating = 0
				p.AvailableSeats = 0
				p.PricePerSeat = 600
				p.DateTime = date.Add(30 * time.Minute)
			}),
			q:    Query{Date: &date},
			want: 10,
		},
		{
			name: "departure three hours out lands in the third tier",
			p: projection("a", func(p *ride.Projection) {
				p.DriverRating = 0
				p.AvailableSeats = 0
				p.PricePerSeat = 600
				p.DateTime = date.Add(3 * time.Hour)
			}),
			q:    Query{Date: &date},
			want: 2,
		},
		{
			name: "departure five hours out gets no time bonus",
			p: projection("a", func(p *ride.Projection) {
				p.DriverRating = 0
				p.AvailableSeats = 0
				p.PricePerSeat = 600
				p.DateTime = date.Add(5 * time.Hour)
			}),
			q:    Query{Date: &date},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rk.Score(tt.p, tt.q); got != tt.want {
				t.Errorf("Score = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRankSortModes(t *testing.T) {
	rk := Ranker{ReferenceAvgPrice: 150}
	rideA := projection("ride-a", func(p *ride.Projection) {
		p.Origin.Name = "Hyderabad"
		p.PricePerSeat = 100
		p.DriverRating = 4.0
		p.AvailableSeats = 2
		p.DateTime = time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)
	})
	rideB := projection("ride-b", func(p *ride.Projection) {
		p.Origin.Name = "Secunderabad"
		p.PricePerSeat = 120
		p.DriverRating = 4.8
		p.AvailableSeats = 3
		p.DateTime = time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
	})
	input := []ride.Projection{rideB, rideA}

	t.Run("price ascending", func(t *testing.T) {
		got := rk.Rank(input, Query{From: "Hyderabad", SortBy: SortPriceAsc})
		if got[0].ID != "ride-a" || got[1].ID != "ride-b" {
			t.Errorf("order = [%s %s], want [ride-a ride-b]", got[0].ID, got[1].ID)
		}
	})

	t.Run("price descending", func(t *testing.T) {
		got := rk.Rank(input, Query{From: "Hyderabad", SortBy: SortPriceDesc})
		if got[0].ID != "ride-b" || got[1].ID != "ride-a" {
			t.Errorf("order = [%s %s], want [ride-b ride-a]", got[0].ID, got[1].ID)
		}
	})

	t.Run("departure", func(t *testing.T) {
		got := rk.Rank(input, Query{SortBy: SortDeparture})
		if got[0].ID != "ride-a" {
			t.Errorf("earliest departure should come first, got %s", got[0].ID)
		}
	})

	t.Run("relevance prefers exact origin name despite lower rating", func(t *testing.T) {
		// A: 10 (name) + 8 + 2 + 5 = 25. B: 9.6 + 3 + 5 = 17.6.
		got := rk.Rank(input, Query{From: "Hyderabad", SortBy: SortRelevance})
		if got[0].ID != "ride-a" || got[1].ID != "ride-b" {
			t.Errorf("order = [%s %s], want [ride-a ride-b]", got[0].ID, got[1].ID)
		}
	})
}

func TestRankDeterministicTieBreak(t *testing.T) {
	rk := Ranker{ReferenceAvgPrice: 500}
	twin := func(id string) ride.Projection {
		return projection(id, func(p *ride.Projection) { p.ID = types.ID(id) })
	}
	input := []ride.Projection{twin("z"), twin("a"), twin("m")}

	first := rk.Rank(input, Query{SortBy: SortRelevance})
	if first[0].ID != "a" || first[1].ID != "m" || first[2].ID != "z" {
		t.Fatalf("equal scores should order by ID ascending, got [%s %s %s]",
			first[0].ID, first[1].ID, first[2].ID)
	}

	// Reordering the input must not change the output.
	shuffled := []ride.Projection{twin("m"), twin("z"), twin("a")}
	second := rk.Rank(shuffled, Query{SortBy: SortRelevance})
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("rank order depends on input order: %v vs %v position %d", first[i].ID, second[i].ID, i)
		}
	}
}
