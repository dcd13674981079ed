// README: Ride store backed by PostgreSQL; text-match candidates, joined projections, aggregations.
package ride

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sawari/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const rideColumns = `
	r.id, r.driver_id, r.vehicle_id,
	r.origin_name, r.origin_lat, r.origin_lng,
	r.dest_name, r.dest_lat, r.dest_lng,
	r.route_polyline,
	r.bbox_min_lng, r.bbox_min_lat, r.bbox_max_lng, r.bbox_max_lat,
	r.total_distance_m, r.estimated_dur_s,
	r.date_time, r.available_seats, r.price_per_seat,
	r.search_keywords, r.created_at, r.updated_at`

func (s *Store) Create(ctx context.Context, r *Ride) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO rides (
			id, driver_id, vehicle_id,
			origin_name, origin_lat, origin_lng,
			dest_name, dest_lat, dest_lng,
			route_polyline,
			bbox_min_lng, bbox_min_lat, bbox_max_lng, bbox_max_lat,
			total_distance_m, estimated_dur_s,
			date_time, available_seats, price_per_seat,
			search_keywords, created_at, updated_at
		) VALUES (
			$1, $2, $3,
			$4, $5, $6,
			$7, $8, $9,
			$10,
			$11, $12, $13, $14,
			$15, $16,
			$17, $18, $19,
			$20, $21, $22
		)`,
		string(r.ID), string(r.DriverID), string(r.VehicleID),
		r.Origin.Name, r.Origin.Point.Lat, r.Origin.Point.Lng,
		r.Destination.Name, r.Destination.Point.Lat, r.Destination.Point.Lng,
		r.RoutePolyline,
		r.RouteBoundingBox.MinLng, r.RouteBoundingBox.MinLat,
		r.RouteBoundingBox.MaxLng, r.RouteBoundingBox.MaxLat,
		r.TotalDistanceM, r.EstimatedDurS,
		r.DateTime, r.AvailableSeats, r.PricePerSeat,
		r.SearchKeywords, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if err := insertStops(ctx, tx, r); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) Update(ctx context.Context, r *Ride) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE rides SET
			vehicle_id = $2,
			origin_name = $3, origin_lat = $4, origin_lng = $5,
			dest_name = $6, dest_lat = $7, dest_lng = $8,
			route_polyline = $9,
			bbox_min_lng = $10, bbox_min_lat = $11, bbox_max_lng = $12, bbox_max_lat = $13,
			total_distance_m = $14, estimated_dur_s = $15,
			date_time = $16, available_seats = $17, price_per_seat = $18,
			search_keywords = $19, updated_at = $20
		WHERE id = $1`,
		string(r.ID), string(r.VehicleID),
		r.Origin.Name, r.Origin.Point.Lat, r.Origin.Point.Lng,
		r.Destination.Name, r.Destination.Point.Lat, r.Destination.Point.Lng,
		r.RoutePolyline,
		r.RouteBoundingBox.MinLng, r.RouteBoundingBox.MinLat,
		r.RouteBoundingBox.MaxLng, r.RouteBoundingBox.MaxLat,
		r.TotalDistanceM, r.EstimatedDurS,
		r.DateTime, r.AvailableSeats, r.PricePerSeat,
		r.SearchKeywords, r.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	if _, err := tx.Exec(ctx, `DELETE FROM ride_stops WHERE ride_id = $1`, string(r.ID)); err != nil {
		return err
	}
	if err := insertStops(ctx, tx, r); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertStops(ctx context.Context, tx pgx.Tx, r *Ride) error {
	for i, stop := range r.Stops {
		_, err := tx.Exec(ctx, `
			INSERT INTO ride_stops (ride_id, position, name, lat, lng, estimated_time)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			string(r.ID), i, stop.Name, stop.Point.Lat, stop.Point.Lng, stop.EstimatedTime,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Ride, error) {
	row := s.db.QueryRow(ctx, `SELECT `+rideColumns+` FROM rides r WHERE r.id = $1`, string(id))
	r, err := scanRide(row)
	if err != nil {
		return nil, err
	}
	stops, err := s.loadStops(ctx, []types.ID{r.ID})
	if err != nil {
		return nil, err
	}
	r.Stops = stops[r.ID]
	return r, nil
}

func (s *Store) ListByDriver(ctx context.Context, driverID types.ID) ([]*Ride, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+rideColumns+` FROM rides r
		WHERE r.driver_id = $1
		ORDER BY r.date_time DESC`, string(driverID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []*Ride
	var ids []types.ID
	for rows.Next() {
		r, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, r)
		ids = append(ids, r.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	stops, err := s.loadStops(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, r := range rides {
		r.Stops = stops[r.ID]
	}
	return rides, nil
}

// FindIDsByName returns IDs of rides whose origin, destination, stop names,
// or derived keywords contain term (case-insensitive substring).
func (s *Store) FindIDsByName(ctx context.Context, term string) ([]types.ID, error) {
	pattern := "%" + term + "%"
	rows, err := s.db.Query(ctx, `
		SELECT r.id FROM rides r
		WHERE r.origin_name ILIKE $1
		   OR r.dest_name ILIKE $1
		   OR EXISTS (
			SELECT 1 FROM ride_stops st
			WHERE st.ride_id = r.id AND st.name ILIKE $1
		   )
		   OR EXISTS (
			SELECT 1 FROM unnest(r.search_keywords) AS kw
			WHERE kw ILIKE $1
		   )`, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIDs(rows)
}

// FetchProjections returns joined ride+vehicle+driver rows for the given IDs.
func (s *Store) FetchProjections(ctx context.Context, ids []types.ID) ([]Projection, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = string(id)
	}
	return s.fetchProjections(ctx, `WHERE r.id = ANY($1)`, raw)
}

// FetchAllProjections returns every ride's joined projection; used when a
// query has no location filter and for the startup index rebuild.
func (s *Store) FetchAllProjections(ctx context.Context) ([]Projection, error) {
	return s.fetchProjections(ctx, ``)
}

func (s *Store) fetchProjections(ctx context.Context, where string, args ...any) ([]Projection, error) {
	rows, err := s.db.Query(ctx, fmt.Sprintf(`
		SELECT `+rideColumns+`,
			COALESCE(v.vehicle_type, ''), COALESCE(v.model, ''),
			COALESCE(u.name, ''), COALESCE(u.rating, 0)
		FROM rides r
		LEFT JOIN vehicles v ON v.id = r.vehicle_id
		LEFT JOIN users u ON u.id = r.driver_id
		%s`, where), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Projection
	var ids []types.ID
	for rows.Next() {
		var p Projection
		if err := scanRideInto(rows, &p.Ride, &p.VehicleType, &p.VehicleModel, &p.DriverName, &p.DriverRating); err != nil {
			return nil, err
		}
		out = append(out, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	stops, err := s.loadStops(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Stops = stops[out[i].ID]
	}
	return out, nil
}

// RouteSuggestion aggregates published rides per origin/destination pair.
type RouteSuggestion struct {
	Origin      string
	Destination string
	RideCount   int
	AvgPrice    float64
}

// RouteSuggestions returns popular origin/destination pairs matching the
// given name fragments, busiest first.
func (s *Store) RouteSuggestions(ctx context.Context, from, to string) ([]RouteSuggestion, error) {
	rows, err := s.db.Query(ctx, `
		SELECT origin_name, dest_name, COUNT(*), AVG(price_per_seat)
		FROM rides
		WHERE origin_name ILIKE $1 AND dest_name ILIKE $2
		GROUP BY origin_name, dest_name
		ORDER BY COUNT(*) DESC
		LIMIT 10`,
		"%"+from+"%", "%"+to+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RouteSuggestion
	for rows.Next() {
		var sg RouteSuggestion
		if err := rows.Scan(&sg.Origin, &sg.Destination, &sg.RideCount, &sg.AvgPrice); err != nil {
			return nil, err
		}
		out = append(out, sg)
	}
	return out, rows.Err()
}

func (s *Store) loadStops(ctx context.Context, ids []types.ID) (map[types.ID][]Location, error) {
	out := make(map[types.ID][]Location)
	if len(ids) == 0 {
		return out, nil
	}
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = string(id)
	}
	rows, err := s.db.Query(ctx, `
		SELECT ride_id, position, name, lat, lng, estimated_time
		FROM ride_stops
		WHERE ride_id = ANY($1)
		ORDER BY ride_id, position`, raw)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var rideID string
		var loc Location
		if err := rows.Scan(&rideID, &loc.RouteIndex, &loc.Name, &loc.Point.Lat, &loc.Point.Lng, &loc.EstimatedTime); err != nil {
			return nil, err
		}
		out[types.ID(rideID)] = append(out[types.ID(rideID)], loc)
	}
	return out, rows.Err()
}

func scanIDs(rows pgx.Rows) ([]types.ID, error) {
	var ids []types.ID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, types.ID(id))
	}
	return ids, rows.Err()
}

func scanRide(row pgx.Row) (*Ride, error) {
	var r Ride
	if err := scanRideInto(row, &r, nil, nil, nil, nil); err != nil {
		return nil, err
	}
	return &r, nil
}

func scanRideInto(row pgx.Row, r *Ride, vehicleType, vehicleModel, driverName *string, driverRating *float64) error {
	var id, driverID, vehicleID string
	dest := []any{
		&id, &driverID, &vehicleID,
		&r.Origin.Name, &r.Origin.Point.Lat, &r.Origin.Point.Lng,
		&r.Destination.Name, &r.Destination.Point.Lat, &r.Destination.Point.Lng,
		&r.RoutePolyline,
		&r.RouteBoundingBox.MinLng, &r.RouteBoundingBox.MinLat,
		&r.RouteBoundingBox.MaxLng, &r.RouteBoundingBox.MaxLat,
		&r.TotalDistanceM, &r.EstimatedDurS,
		&r.DateTime, &r.AvailableSeats, &r.PricePerSeat,
		&r.SearchKeywords, &r.CreatedAt, &r.UpdatedAt,
	}
	if vehicleType != nil {
		dest = append(dest, vehicleType, vehicleModel, driverName, driverRating)
	}
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pgx.ErrNoRows
		}
		return err
	}
	r.ID = types.ID(id)
	r.DriverID = types.ID(driverID)
	r.VehicleID = types.ID(vehicleID)
	return nil
}
