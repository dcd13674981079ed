// README: Ride service; publishes and updates rides, keeping derived search data consistent.
package ride

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"sawari/internal/types"
)

var (
	ErrNotFound        = errors.New("ride not found")
	ErrNotOwner        = errors.New("ride not owned by this driver")
	ErrVehicleRequired = errors.New("vehicle information is required")
	ErrBadRequest      = errors.New("bad request")
)

// Corrector guards route coordinates against implausible upstream data.
type Corrector interface {
	CorrectIfImplausible(p types.Point, name string) types.Point
}

// SearchIndex receives ride mutations so candidate lookups stay consistent
// with the store.
type SearchIndex interface {
	IndexRide(ctx context.Context, r *Ride) error
	RemoveRide(ctx context.Context, id types.ID) error
}

// CacheInvalidator drops cached search results after a ride mutation.
type CacheInvalidator interface {
	InvalidateSearches(ctx context.Context)
}

// storage is the persistence surface the service depends on.
type storage interface {
	Create(ctx context.Context, r *Ride) error
	Update(ctx context.Context, r *Ride) error
	Get(ctx context.Context, id types.ID) (*Ride, error)
	ListByDriver(ctx context.Context, driverID types.ID) ([]*Ride, error)
	RouteSuggestions(ctx context.Context, from, to string) ([]RouteSuggestion, error)
}

type Service struct {
	store     storage
	corrector Corrector
	index     SearchIndex
	cache     CacheInvalidator
}

func NewService(store *Store, corrector Corrector, index SearchIndex, cache CacheInvalidator) *Service {
	return &Service{store: store, corrector: corrector, index: index, cache: cache}
}

type PublishCommand struct {
	DriverID       types.ID
	Origin         Location
	Destination    Location
	Stops          []Location
	RoutePolyline  string
	TotalDistanceM float64
	EstimatedDurS  int
	DateTime       time.Time
	AvailableSeats int
	PricePerSeat   float64
	VehicleID      types.ID
}

// Publish creates a ride, correcting implausible coordinates and computing
// the derived search metadata before the record becomes visible.
func (s *Service) Publish(ctx context.Context, cmd PublishCommand) (*Ride, error) {
	if cmd.DriverID == "" || cmd.Origin.Name == "" || cmd.Destination.Name == "" {
		return nil, ErrBadRequest
	}
	if cmd.VehicleID == "" {
		return nil, ErrVehicleRequired
	}
	if cmd.AvailableSeats < 0 || cmd.PricePerSeat < 0 {
		return nil, ErrBadRequest
	}

	now := time.Now()
	r := &Ride{
		ID:             types.ID(uuid.NewString()),
		DriverID:       cmd.DriverID,
		Origin:         cmd.Origin,
		Destination:    cmd.Destination,
		Stops:          cmd.Stops,
		RoutePolyline:  cmd.RoutePolyline,
		TotalDistanceM: cmd.TotalDistanceM,
		EstimatedDurS:  cmd.EstimatedDurS,
		DateTime:       cmd.DateTime,
		AvailableSeats: cmd.AvailableSeats,
		PricePerSeat:   cmd.PricePerSeat,
		VehicleID:      cmd.VehicleID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.correctRoute(r)
	r.RecomputeDerived()

	if err := s.store.Create(ctx, r); err != nil {
		return nil, err
	}
	s.refreshIndexes(ctx, r)
	return r, nil
}

type UpdateCommand struct {
	Origin         *Location
	Destination    *Location
	Stops          []Location
	StopsSet       bool
	DateTime       *time.Time
	AvailableSeats *int
	PricePerSeat   *float64
	VehicleID      *types.ID
}

// Update applies a partial update on behalf of the owning driver and
// recomputes derived data.
func (s *Service) Update(ctx context.Context, driverID, rideID types.ID, cmd UpdateCommand) (*Ride, error) {
	r, err := s.store.Get(ctx, rideID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if r.DriverID != driverID {
		return nil, ErrNotOwner
	}

	if cmd.Origin != nil {
		r.Origin = *cmd.Origin
	}
	if cmd.Destination != nil {
		r.Destination = *cmd.Destination
	}
	if cmd.StopsSet {
		r.Stops = cmd.Stops
	}
	if cmd.DateTime != nil {
		r.DateTime = *cmd.DateTime
	}
	if cmd.AvailableSeats != nil {
		if *cmd.AvailableSeats < 0 {
			return nil, ErrBadRequest
		}
		r.AvailableSeats = *cmd.AvailableSeats
	}
	if cmd.PricePerSeat != nil {
		if *cmd.PricePerSeat < 0 {
			return nil, ErrBadRequest
		}
		r.PricePerSeat = *cmd.PricePerSeat
	}
	if cmd.VehicleID != nil {
		if *cmd.VehicleID == "" {
			return nil, ErrVehicleRequired
		}
		r.VehicleID = *cmd.VehicleID
	}
	r.UpdatedAt = time.Now()

	s.correctRoute(r)
	r.RecomputeDerived()

	if err := s.store.Update(ctx, r); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.refreshIndexes(ctx, r)
	return r, nil
}

// Get returns one ride by ID.
func (s *Service) Get(ctx context.Context, id types.ID) (*Ride, error) {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r, nil
}

func (s *Service) ListByDriver(ctx context.Context, driverID types.ID) ([]*Ride, error) {
	return s.store.ListByDriver(ctx, driverID)
}

func (s *Service) RouteSuggestions(ctx context.Context, from, to string) ([]RouteSuggestion, error) {
	return s.store.RouteSuggestions(ctx, from, to)
}

func (s *Service) correctRoute(r *Ride) {
	if s.corrector == nil {
		return
	}
	r.Origin.Point = s.corrector.CorrectIfImplausible(r.Origin.Point, r.Origin.Name)
	r.Destination.Point = s.corrector.CorrectIfImplausible(r.Destination.Point, r.Destination.Name)
	for i := range r.Stops {
		r.Stops[i].Point = s.corrector.CorrectIfImplausible(r.Stops[i].Point, r.Stops[i].Name)
	}
}

// refreshIndexes is best-effort: index or cache trouble degrades search
// freshness, never the write path.
func (s *Service) refreshIndexes(ctx context.Context, r *Ride) {
	if s.index != nil {
		if err := s.index.IndexRide(ctx, r); err != nil {
			log.Printf("index ride %s failed: %v", r.ID, err)
		}
	}
	if s.cache != nil {
		s.cache.InvalidateSearches(ctx)
	}
}
