// README: Candidate source strategies: literal name match, geo proximity, route corridor.
package search

import (
	"context"
	"sort"

	"sawari/internal/types"
)

// IDSet is an unordered collection of ride identifiers.
type IDSet map[types.ID]struct{}

func NewIDSet(ids ...types.ID) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s IDSet) Add(id types.ID) { s[id] = struct{}{} }

func (s IDSet) Has(id types.ID) bool {
	_, ok := s[id]
	return ok
}

func (s IDSet) Union(o IDSet) IDSet {
	out := make(IDSet, len(s)+len(o))
	for id := range s {
		out[id] = struct{}{}
	}
	for id := range o {
		out[id] = struct{}{}
	}
	return out
}

func (s IDSet) Intersect(o IDSet) IDSet {
	small, large := s, o
	if len(o) < len(s) {
		small, large = o, s
	}
	out := make(IDSet)
	for id := range small {
		if large.Has(id) {
			out[id] = struct{}{}
		}
	}
	return out
}

// Sorted returns the members in ascending order, for deterministic fetches.
func (s IDSet) Sorted() []types.ID {
	ids := make([]types.ID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

type Side int

const (
	SideOrigin Side = iota
	SideDestination
)

func (s Side) String() string {
	if s == SideDestination {
		return "destination"
	}
	return "origin"
}

// CandidateRequest carries one side's matching input. Term and Point are
// alternatives; RadiusM only applies to proximity matching.
type CandidateRequest struct {
	Term    string
	Point   types.Point
	Side    Side
	RadiusM float64
}

// CandidateSource produces the set of ride IDs satisfying one matching
// strategy. Adding a strategy means adding an implementation, not editing
// the orchestrator.
type CandidateSource interface {
	FindCandidates(ctx context.Context, req CandidateRequest) (IDSet, error)
}

// NameFinder is the store capability backing NameMatchSource.
type NameFinder interface {
	FindIDsByName(ctx context.Context, term string) ([]types.ID, error)
}

// NameMatchSource matches the term against ride names and keywords. It is
// the cheapest and most precise strategy, so it runs first.
type NameMatchSource struct {
	store NameFinder
}

func NewNameMatchSource(store NameFinder) *NameMatchSource {
	return &NameMatchSource{store: store}
}

func (s *NameMatchSource) FindCandidates(ctx context.Context, req CandidateRequest) (IDSet, error) {
	ids, err := s.store.FindIDsByName(ctx, req.Term)
	if err != nil {
		return nil, err
	}
	return NewIDSet(ids...), nil
}

// ProximityMatchSource matches rides with any route point (origin,
// destination, or stop) within RadiusM of the request point. Results come
// back distance-sorted from the index but are treated as an unordered set;
// ordering is re-derived by the ranking engine.
type ProximityMatchSource struct {
	geo *GeoIndex
}

func NewProximityMatchSource(geo *GeoIndex) *ProximityMatchSource {
	return &ProximityMatchSource{geo: geo}
}

func (s *ProximityMatchSource) FindCandidates(ctx context.Context, req CandidateRequest) (IDSet, error) {
	return s.geo.Near(ctx, req.Point, req.RadiusM)
}

// CorridorMatchSource matches rides whose route bounding box contains the
// request point: the ride merely passes near the location without it being
// an endpoint.
type CorridorMatchSource struct {
	index *CorridorIndex
}

func NewCorridorMatchSource(index *CorridorIndex) *CorridorMatchSource {
	return &CorridorMatchSource{index: index}
}

func (s *CorridorMatchSource) FindCandidates(_ context.Context, req CandidateRequest) (IDSet, error) {
	return s.index.Containing(req.Point), nil
}
