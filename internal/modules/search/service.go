// README: Search orchestrator; sequences cache, candidate sources, filters, and ranking.
package search

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"sawari/internal/config"
	"sawari/internal/modules/ride"
	"sawari/internal/types"
)

// RideStore is the projection-fetch capability of the backing store. A
// failure here is the only condition that aborts a search.
type RideStore interface {
	FetchProjections(ctx context.Context, ids []types.ID) ([]ride.Projection, error)
	FetchAllProjections(ctx context.Context) ([]ride.Projection, error)
}

// Locator resolves free text to a coordinate; a miss means the name could
// not be placed and the side degrades.
type Locator interface {
	Resolve(ctx context.Context, name string) (types.Point, bool)
}

const defaultPageSize = 20

type Service struct {
	store     RideStore
	locator   Locator
	name      CandidateSource
	proximity CandidateSource
	corridor  CandidateSource
	cache     Cache
	ranker    Ranker
	ttl       time.Duration
	loc       *time.Location
}

func NewService(
	store RideStore,
	locator Locator,
	name, proximity, corridor CandidateSource,
	cache Cache,
	cfg config.SearchConfig,
) *Service {
	return &Service{
		store:     store,
		locator:   locator,
		name:      name,
		proximity: proximity,
		corridor:  corridor,
		cache:     cache,
		ranker:    Ranker{ReferenceAvgPrice: cfg.ReferenceAvgPrice},
		ttl:       time.Duration(cfg.CacheTTLSeconds) * time.Second,
		loc:       cfg.Location(),
	}
}

// Search executes one query: cache lookup, per-side candidate generation,
// combination, filtering, ranking, and pagination. The pre-pagination
// ranked set is cached under the canonical query key.
func (s *Service) Search(ctx context.Context, q Query) (*Result, error) {
	started := time.Now()
	key := q.CacheKey()

	if cached, ok := s.cache.Get(ctx, key); ok {
		res := paginate(cached.Rides, cached.Total, q)
		res.Metadata.Cached = true
		res.Metadata.SearchTimeMs = time.Since(started).Milliseconds()
		return res, nil
	}

	// The origin and destination branches are read-only and independent;
	// run them in parallel and join before combining.
	var origin, dest SideResult
	var originErr, destErr error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		origin, originErr = s.resolveSide(ctx, q.From, q.FromPoint, q.FromRadiusM, SideOrigin, q.EnRoute)
	}()
	go func() {
		defer wg.Done()
		dest, destErr = s.resolveSide(ctx, q.To, q.ToPoint, q.ToRadiusM, SideDestination, q.EnRoute)
	}()
	wg.Wait()
	if originErr != nil {
		return nil, fmt.Errorf("origin candidates: %w", originErr)
	}
	if destErr != nil {
		return nil, fmt.Errorf("destination candidates: %w", destErr)
	}

	ids, unfiltered := Combine(origin, dest)

	var projections []ride.Projection
	var err error
	switch {
	case unfiltered:
		projections, err = s.store.FetchAllProjections(ctx)
	case len(ids) == 0:
		projections = nil
	default:
		projections, err = s.store.FetchProjections(ctx, ids.Sorted())
	}
	if err != nil {
		return nil, fmt.Errorf("fetch projections: %w", err)
	}

	filtered := ApplyFilters(projections, q, s.loc)
	ranked := s.ranker.Rank(filtered, q)

	full := make([]RideResult, len(ranked))
	for i, sr := range ranked {
		full[i] = toRideResult(sr)
	}
	s.cache.Set(ctx, key, &CachedSet{Rides: full, Total: len(full)}, s.ttl)

	res := paginate(full, len(full), q)
	res.Metadata.SearchTimeMs = time.Since(started).Milliseconds()
	return res, nil
}

// resolveSide runs the invocation policy for one side: name match first,
// then, when enabled, geocode and union proximity and corridor matches.
// Name-match errors abort (store failure); index trouble degrades to
// whatever sources succeeded.
func (s *Service) resolveSide(ctx context.Context, term string, point *types.Point, radiusM float64, side Side, enRoute bool) (SideResult, error) {
	if term == "" && point == nil {
		return SideResult{}, nil
	}
	res := SideResult{Provided: true}

	switch {
	case term != "":
		set, err := s.name.FindCandidates(ctx, CandidateRequest{Term: term, Side: side})
		if err != nil {
			return res, err
		}
		if len(set) == 0 && enRoute {
			if p, ok := s.locator.Resolve(ctx, term); ok {
				set = s.geoCandidates(ctx, p, radiusM, side, true)
			}
		}
		res.IDs = set
	default:
		res.IDs = s.geoCandidates(ctx, *point, radiusM, side, enRoute)
	}

	res.Exhausted = len(res.IDs) == 0
	return res, nil
}

// geoCandidates unions proximity matches with, when enabled, corridor
// matches for a resolved point.
func (s *Service) geoCandidates(ctx context.Context, p types.Point, radiusM float64, side Side, corridor bool) IDSet {
	req := CandidateRequest{Point: p, Side: side, RadiusM: radiusM}
	set, err := s.proximity.FindCandidates(ctx, req)
	if err != nil {
		log.Printf("proximity match for %s degraded: %v", side, err)
		set = NewIDSet()
	}
	if corridor {
		corr, err := s.corridor.FindCandidates(ctx, req)
		if err != nil {
			log.Printf("corridor match for %s degraded: %v", side, err)
		} else {
			set = set.Union(corr)
		}
	}
	return set
}

// InvalidateSearches drops every cached search result; called by the ride
// module after a mutation.
func (s *Service) InvalidateSearches(ctx context.Context) {
	s.cache.Invalidate(ctx, "search:*")
}

func paginate(full []RideResult, total int, q Query) *Result {
	res := &Result{
		Rides:    full,
		Metadata: Metadata{ResultCount: total},
	}
	if q.Page == 0 && q.PageSize == 0 {
		return res
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	size := q.PageSize
	if size < 1 {
		size = defaultPageSize
	}
	start := (page - 1) * size
	if start > len(full) {
		start = len(full)
	}
	end := start + size
	if end > len(full) {
		end = len(full)
	}
	res.Rides = full[start:end]
	res.Pagination = &Pagination{TotalResults: total, CurrentPage: page, PageSize: size}
	return res
}
