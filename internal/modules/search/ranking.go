// README: Relevance scoring model and deterministic result ordering.
package search

import (
	"sort"
	"strings"

	"sawari/internal/modules/ride"
)

// Scoring model weights. The model is additive and every term is
// independent; higher is better.
const (
	nameMatchBonus  = 10.0
	ratingWeight    = 2.0
	seatHeadroomCap = 5
	cheapPriceBonus = 5.0
	timeTier1Bonus  = 10.0
	timeTier2Bonus  = 5.0
	timeTier3Bonus  = 2.0
)

// ScoredRide pairs a projection with its relevance score for one query
// execution. It is ephemeral and never persisted.
type ScoredRide struct {
	ride.Projection
	Score float64
}

// Ranker computes relevance scores and orders results.
type Ranker struct {
	// ReferenceAvgPrice is the market price below which a ride earns the
	// competitiveness bonus.
	ReferenceAvgPrice float64
}

// Score computes the additive relevance score of one ride for a query.
func (rk Ranker) Score(p ride.Projection, q Query) float64 {
	score := 0.0
	if q.From != "" && containsFold(p.Origin.Name, q.From) {
		score += nameMatchBonus
	}
	if q.To != "" && containsFold(p.Destination.Name, q.To) {
		score += nameMatchBonus
	}
	score += ratingWeight * p.DriverRating
	seats := p.AvailableSeats
	if seats > seatHeadroomCap {
		seats = seatHeadroomCap
	}
	score += float64(seats)
	if p.PricePerSeat < rk.ReferenceAvgPrice {
		score += cheapPriceBonus
	}
	if q.Date != nil {
		diff := p.DateTime.Sub(*q.Date)
		if diff < 0 {
			diff = -diff
		}
		switch {
		case diff.Hours() <= 1:
			score += timeTier1Bonus
		case diff.Hours() <= 2:
			score += timeTier2Bonus
		case diff.Hours() <= 4:
			score += timeTier3Bonus
		}
	}
	return score
}

// Rank scores every ride and orders the list by the query's sort mode.
// Ties always resolve by descending score and then ascending ride ID, so
// repeated runs over the same input produce identical orderings and
// pagination stays stable.
func (rk Ranker) Rank(rides []ride.Projection, q Query) []ScoredRide {
	scored := make([]ScoredRide, len(rides))
	for i, r := range rides {
		scored[i] = ScoredRide{Projection: r, Score: rk.Score(r, q)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		switch q.SortBy {
		case SortDeparture:
			if !a.DateTime.Equal(b.DateTime) {
				return a.DateTime.Before(b.DateTime)
			}
		case SortPriceAsc:
			if a.PricePerSeat != b.PricePerSeat {
				return a.PricePerSeat < b.PricePerSeat
			}
		case SortPriceDesc:
			if a.PricePerSeat != b.PricePerSeat {
				return a.PricePerSeat > b.PricePerSeat
			}
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.ID < b.ID
	})
	return scored
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
